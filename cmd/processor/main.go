package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/sns-order-ingest/internal/aws"
	"github.com/imrishuroy/sns-order-ingest/internal/config"
	"github.com/imrishuroy/sns-order-ingest/internal/handlers"
	"github.com/imrishuroy/sns-order-ingest/internal/logger"
	"github.com/imrishuroy/sns-order-ingest/internal/orders"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	clients, err := aws.NewAWSClients(context.Background(), aws.ClientOptions{
		Region:           cfg.Region,
		DynamoDBEndpoint: cfg.DynamoDBEndpoint(),
	})
	if err != nil {
		zl.Fatal("failed to init aws clients", zap.Error(err))
	}

	zl.Info("order ingestion configured",
		zap.Bool("is_local", cfg.IsLocal),
		zap.String("dynamodb_endpoint", cfg.DynamoDBEndpoint()),
		zap.String("table", cfg.OrderTableName),
		zap.Bool("metrics", cfg.MetricsEnabled()),
	)
	h := handlers.NewIngestHandler(ingestConfig(cfg, clients, zl))

	// If RUN_LOCAL=true, wrap LOCAL_SNS_MESSAGE in a single SNS event and invoke once.
	if cfg.RunLocal {
		runLocal(context.Background(), h, cfg.LocalSNSMessage, zl)
		return
	}

	lambda.Start(h.Handle)
}

// ingestConfig wires the order store and, when a namespace is configured,
// the CloudWatch metrics publisher.
func ingestConfig(cfg *config.Config, clients *aws.AWSClients, zl *zap.Logger) handlers.IngestConfig {
	ic := handlers.IngestConfig{
		Store:  orders.NewStore(clients.DynamoDB, cfg.OrderTableName),
		Logger: zl,
	}
	if cfg.MetricsEnabled() {
		ic.Metrics = aws.NewMetricsPublisher(clients.CloudWatch, cfg.MetricsNamespace, cfg.OrderTableName)
	}
	return ic
}

func runLocal(ctx context.Context, h *handlers.IngestHandler, message string, zl *zap.Logger) handlers.Response {
	resp, _ := h.Handle(ctx, localEvent(message))
	out, _ := json.Marshal(resp)
	zl.Info("local invocation finished", zap.ByteString("response", out))
	return resp
}

func localEvent(message string) events.SNSEvent {
	return events.SNSEvent{
		Records: []events.SNSEventRecord{
			{
				EventSource:  "aws:sns",
				EventVersion: "1.0",
				SNS: events.SNSEntity{
					MessageID: uuid.NewString(),
					Type:      "Notification",
					TopicArn:  "arn:aws:sns:us-east-1:000000000000:local-orders",
					Timestamp: time.Now().UTC(),
					Message:   message,
				},
			},
		},
	}
}
