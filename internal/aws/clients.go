package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// AWSClients bundles all service clients for convenience.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	CloudWatch CloudWatchAPI
}

// ClientOptions tweaks client construction.
type ClientOptions struct {
	Region string
	// DynamoDBEndpoint overrides the DynamoDB endpoint (DynamoDB Local).
	// Empty means the SDK default for the region.
	DynamoDBEndpoint string
}

// NewAWSClients loads AWS config and returns concrete service clients that implement our interfaces.
// Call it once per process; the clients are safe for concurrent use.
func NewAWSClients(ctx context.Context, opts ClientOptions) (*AWSClients, error) {
	// A DynamoDB endpoint override only ever points at DynamoDB Local.
	cfg, err := LoadAWSConfig(ctx, ConfigOptions{
		Region:           opts.Region,
		LocalCredentials: opts.DynamoDBEndpoint != "",
	})
	if err != nil {
		return nil, err
	}

	return &AWSClients{
		DynamoDB:   dynamodb.NewFromConfig(cfg, dynamoDBEndpoint(opts.DynamoDBEndpoint)),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}, nil
}

func dynamoDBEndpoint(endpoint string) func(*dynamodb.Options) {
	return func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	}
}
