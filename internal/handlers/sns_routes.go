package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/sns-order-ingest/internal/orders"
	"github.com/imrishuroy/sns-order-ingest/internal/validation"
)

// OrderReader loads a stored order. *orders.Store satisfies it.
type OrderReader interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
}

// MessageVerifier authenticates SNS HTTP messages.
// *validation.SignatureVerifier satisfies it.
type MessageVerifier interface {
	Verify(ctx context.Context, msg *validation.SNSHTTPMessage) error
}

// RoutesConfig groups dependencies for the HTTP routes.
type RoutesConfig struct {
	Ingest *IngestHandler
	Orders OrderReader
	// Verifier defaults to a signature verifier that downloads SNS
	// signing certificates over HTTPS.
	Verifier MessageVerifier
	Logger   *zap.Logger
}

// RegisterSNSRoutes registers the SNS HTTP(S) subscription endpoint and the
// order read-back route.
func RegisterSNSRoutes(r *gin.Engine, cfg RoutesConfig) {
	v := validation.New()
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	verifier := cfg.Verifier
	if verifier == nil {
		verifier = validation.NewSignatureVerifier(validation.HTTPCertFetcher(nil))
	}

	r.POST("/sns", func(c *gin.Context) {
		msg, err := validation.BindSNSMessage(c, v)
		if err != nil {
			// BindSNSMessage already wrote a 400
			return
		}

		// The header is authoritative when present.
		if ht := c.GetHeader("x-amz-sns-message-type"); ht != "" && ht != msg.Type {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message_type_mismatch"})
			return
		}

		ctx := c.Request.Context()
		if err := verifier.Verify(ctx, msg); err != nil {
			log.Warn("rejected unverified sns message",
				zap.String("message_id", msg.MessageID),
				zap.String("topic_arn", msg.TopicArn),
				zap.Error(err),
			)
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid_signature"})
			return
		}

		switch msg.Type {
		case validation.SNSTypeNotification:
			resp := cfg.Ingest.Process(ctx, msg.Message)
			c.Data(resp.StatusCode, "application/json", []byte(resp.Body))
		case validation.SNSTypeSubscriptionConfirmation, validation.SNSTypeUnsubscribeConfirmation:
			// Confirming a subscription is left to the operator.
			log.Info("sns subscription message",
				zap.String("type", msg.Type),
				zap.String("topic_arn", msg.TopicArn),
				zap.String("subscribe_url", msg.SubscribeURL),
			)
			c.JSON(http.StatusAccepted, gin.H{"type": msg.Type, "topic_arn": msg.TopicArn})
		}
	})

	r.GET("/orders/:order_id", func(c *gin.Context) {
		orderID := c.Param("order_id")
		o, err := cfg.Orders.Get(c.Request.Context(), orderID)
		if err != nil {
			log.Error("failed to load order", zap.String("order_id", orderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order_lookup_failed"})
			return
		}
		if o == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, o)
	})
}
