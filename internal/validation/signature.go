package validation

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // SignatureVersion 1 is SHA1withRSA
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// ErrInvalidSignature is returned when an SNS HTTP message fails verification.
var ErrInvalidSignature = errors.New("invalid SNS message signature")

var signingCertHost = regexp.MustCompile(`^sns\.[a-z0-9-]+\.amazonaws\.com(\.cn)?$`)

const maxCertSize = 64 << 10

// CertFetcher loads the PEM certificate behind a validated SigningCertURL.
type CertFetcher func(ctx context.Context, certURL string) (*x509.Certificate, error)

// HTTPCertFetcher downloads certificates with client.
func HTTPCertFetcher(client *http.Client) CertFetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return func(ctx context.Context, certURL string) (*x509.Certificate, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, certURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build cert request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch signing cert: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch signing cert: status %d", resp.StatusCode)
		}
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCertSize))
		if err != nil {
			return nil, fmt.Errorf("read signing cert: %w", err)
		}
		block, _ := pem.Decode(raw)
		if block == nil {
			return nil, errors.New("signing cert is not PEM")
		}
		return x509.ParseCertificate(block.Bytes)
	}
}

// SignatureVerifier checks SNS HTTP message signatures. Certificates are
// cached per URL for the life of the process.
type SignatureVerifier struct {
	fetch CertFetcher
	mu    sync.Mutex
	certs map[string]*x509.Certificate
}

// NewSignatureVerifier returns a verifier that loads certificates with fetch.
func NewSignatureVerifier(fetch CertFetcher) *SignatureVerifier {
	return &SignatureVerifier{
		fetch: fetch,
		certs: map[string]*x509.Certificate{},
	}
}

// Verify returns nil only if msg carries a valid signature from an SNS
// signing certificate. Every failure wraps ErrInvalidSignature.
func (v *SignatureVerifier) Verify(ctx context.Context, msg *SNSHTTPMessage) error {
	var hash crypto.Hash
	switch msg.SignatureVersion {
	case "1":
		hash = crypto.SHA1
	case "2":
		hash = crypto.SHA256
	default:
		return fmt.Errorf("%w: unsupported SignatureVersion %q", ErrInvalidSignature, msg.SignatureVersion)
	}

	if err := checkCertURL(msg.SigningCertURL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	sig, err := base64.StdEncoding.DecodeString(msg.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not base64", ErrInvalidSignature)
	}

	cert, err := v.cert(ctx, msg.SigningCertURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: signing cert key is not RSA", ErrInvalidSignature)
	}

	if err := rsa.VerifyPKCS1v15(pub, hash, digest(hash, msg.StringToSign()), sig); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

func (v *SignatureVerifier) cert(ctx context.Context, certURL string) (*x509.Certificate, error) {
	v.mu.Lock()
	c, ok := v.certs[certURL]
	v.mu.Unlock()
	if ok {
		return c, nil
	}

	c, err := v.fetch(ctx, certURL)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.certs[certURL] = c
	v.mu.Unlock()
	return c, nil
}

func checkCertURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("bad SigningCertURL: %w", err)
	}
	if u.Scheme != "https" || !signingCertHost.MatchString(u.Host) || !strings.HasSuffix(u.Path, ".pem") {
		return fmt.Errorf("untrusted SigningCertURL %q", raw)
	}
	return nil
}

func digest(hash crypto.Hash, s string) []byte {
	if hash == crypto.SHA1 {
		sum := sha1.Sum([]byte(s)) //nolint:gosec
		return sum[:]
	}
	sum := sha256.Sum256([]byte(s))
	return sum[:]
}

// StringToSign builds the canonical text SNS signs: selected keys in byte
// order, each as "Key\nValue\n". Subject is included only when present.
func (m *SNSHTTPMessage) StringToSign() string {
	var b strings.Builder
	add := func(k, v string) {
		b.WriteString(k)
		b.WriteByte('\n')
		b.WriteString(v)
		b.WriteByte('\n')
	}

	add("Message", m.Message)
	add("MessageId", m.MessageID)
	if m.Type == SNSTypeNotification {
		if m.Subject != "" {
			add("Subject", m.Subject)
		}
	} else {
		add("SubscribeURL", m.SubscribeURL)
	}
	add("Timestamp", m.Timestamp)
	if m.Type != SNSTypeNotification {
		add("Token", m.Token)
	}
	add("TopicArn", m.TopicArn)
	add("Type", m.Type)
	return b.String()
}
