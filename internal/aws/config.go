package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const (
	defaultRegion = "us-east-1"

	// DynamoDB Local accepts any key pair, but requests must still be signed.
	localAccessKeyID     = "local"
	localSecretAccessKey = "local"
)

// ConfigOptions controls how the SDK config is resolved.
type ConfigOptions struct {
	// Region falls back to us-east-1 when empty.
	Region string
	// LocalCredentials swaps the default credential chain for a static pair,
	// so running against DynamoDB Local needs no AWS profile.
	LocalCredentials bool
}

// LoadAWSConfig resolves the SDK config for the orders table clients.
func LoadAWSConfig(ctx context.Context, opts ConfigOptions) (sdkaws.Config, error) {
	region := opts.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.LocalCredentials {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(localAccessKeyID, localSecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return cfg, fmt.Errorf("load aws config (region %s): %w", region, err)
	}
	return cfg, nil
}
