package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/sns-order-ingest/internal/aws"
	"github.com/imrishuroy/sns-order-ingest/internal/config"
	"github.com/imrishuroy/sns-order-ingest/internal/handlers"
	"github.com/imrishuroy/sns-order-ingest/internal/logger"
	"github.com/imrishuroy/sns-order-ingest/internal/orders"
)

func setupRouter(cfg handlers.RoutesConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(cfg.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterSNSRoutes(r, cfg)

	return r
}

// requestLogger writes one line per request with its final status.
func requestLogger(zl *zap.Logger) gin.HandlerFunc {
	if zl == nil {
		zl = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if id := c.GetHeader("x-amz-sns-message-id"); id != "" {
			fields = append(fields, zap.String("sns_message_id", id))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			zl.Error("request", fields...)
			return
		}
		zl.Info("request", fields...)
	}
}

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

	store := orders.NewStore(clients.DynamoDB, cfg.OrderTableName)
	ingestCfg := handlers.IngestConfig{Store: store, Logger: zl}
	if cfg.MetricsEnabled() {
		ingestCfg.Metrics = aws.NewMetricsPublisher(clients.CloudWatch, cfg.MetricsNamespace, cfg.OrderTableName)
	}

	r := setupRouter(handlers.RoutesConfig{
		Ingest: handlers.NewIngestHandler(ingestCfg),
		Orders: store,
		Logger: zl,
	})

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		zl.Info("running local server", zap.String("addr", cfg.HTTPAddr))
		if err := r.Run(cfg.HTTPAddr); err != nil {
			zl.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
