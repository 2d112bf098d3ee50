package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/imrishuroy/sns-order-ingest/internal/aws"
	"github.com/imrishuroy/sns-order-ingest/internal/orders"
	"github.com/imrishuroy/sns-order-ingest/internal/validation"
)

// OrderStore persists orders. *orders.Store satisfies it.
type OrderStore interface {
	Put(ctx context.Context, order orders.Order) (*dyn.PutItemOutput, error)
	TableName() string
}

// Metrics records ingestion outcomes. *aws.MetricsPublisher satisfies it.
type Metrics interface {
	Count(ctx context.Context, name string, value float64) error
}

// IngestConfig groups dependencies for the ingestion handler.
type IngestConfig struct {
	Store   OrderStore
	Metrics Metrics // optional
	Logger  *zap.Logger
}

// IngestHandler turns one SNS notification into one upserted order.
// It keeps no state between invocations and is safe for concurrent use.
type IngestHandler struct {
	store   OrderStore
	metrics Metrics
	log     *zap.Logger
	parser  *validation.OrderParser
}

// NewIngestHandler wires an IngestHandler.
func NewIngestHandler(cfg IngestConfig) *IngestHandler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestHandler{
		store:   cfg.Store,
		metrics: cfg.Metrics,
		log:     log,
		parser:  validation.NewOrderParser(),
	}
}

var errNoRecords = &validation.MissingFieldError{Field: "Records"}

// Handle is the Lambda entry point for SNS events. Only Records[0] is
// processed. The returned error is always nil; failures are reported through
// the Response.
func (h *IngestHandler) Handle(ctx context.Context, event events.SNSEvent) (Response, error) {
	if raw, err := json.Marshal(event); err == nil {
		h.log.Info("received event", zap.ByteString("event", raw))
	}

	if len(event.Records) == 0 {
		return h.respond(ctx, errNoRecords), nil
	}
	if extra := len(event.Records) - 1; extra > 0 {
		h.log.Warn("ignoring additional records", zap.Int("ignored", extra))
	}

	rec := event.Records[0].SNS
	log := h.log.With(zap.String("message_id", rec.MessageID), zap.String("topic_arn", rec.TopicArn))
	return h.process(ctx, log, rec.Message), nil
}

// Process handles a single notification payload.
func (h *IngestHandler) Process(ctx context.Context, message string) Response {
	return h.process(ctx, h.log, message)
}

func (h *IngestHandler) process(ctx context.Context, log *zap.Logger, message string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected error", zap.Any("panic", r))
			resp = h.respond(ctx, fmt.Errorf("panic: %v", r))
		}
	}()

	order, err := h.parser.Parse(message)
	if err != nil {
		log.Warn("rejected order message", zap.Error(err))
		return h.respond(ctx, err)
	}

	log = log.With(zap.String("order_id", order.OrderID))
	log.Info("order details",
		zap.String("item_id", order.ItemID),
		zap.Int64("item_count", order.ItemCount),
		zap.Stringer("item_price", order.ItemPrice),
		zap.Stringer("total_price", order.TotalPrice),
		zap.String("table", h.store.TableName()),
	)

	out, err := h.store.Put(ctx, order)
	if err != nil {
		log.Error("unable to save order to DynamoDB", zap.Error(err))
		return h.respond(ctx, err)
	}

	fields := []zap.Field{}
	if out != nil && out.ConsumedCapacity != nil && out.ConsumedCapacity.CapacityUnits != nil {
		fields = append(fields, zap.Float64("consumed_capacity", *out.ConsumedCapacity.CapacityUnits))
	}
	log.Info("order saved", fields...)
	return h.respond(ctx, nil)
}

// respond classifies err into a status and body and records the outcome.
func (h *IngestHandler) respond(ctx context.Context, err error) Response {
	resp, metric := classify(err)
	h.count(ctx, metric)
	return resp
}

func classify(err error) (Response, string) {
	var (
		missing *validation.MissingFieldError
		invalid *validation.InvalidFieldError
		apiErr  smithy.APIError
	)
	switch {
	case err == nil:
		return newResponse(http.StatusOK, MsgSaved), aws.MetricOrdersSaved
	case errors.Is(err, validation.ErrInvalidJSON):
		return newResponse(http.StatusBadRequest, MsgInvalidJSON), aws.MetricOrdersRejected
	case errors.As(err, &missing):
		return newResponse(http.StatusBadRequest, fmt.Sprintf(MsgMissingKey, missing.Field)), aws.MetricOrdersRejected
	case errors.As(err, &invalid):
		return newResponse(http.StatusBadRequest, fmt.Sprintf(MsgInvalidValue, invalid.Field)), aws.MetricOrdersRejected
	case errors.As(err, &apiErr):
		return newResponse(http.StatusInternalServerError, MsgSaveFailed), aws.MetricOrderSaveFailures
	default:
		return newResponse(http.StatusInternalServerError, MsgInternalError), aws.MetricOrderInternalErrors
	}
}

// count is best-effort: a metrics failure never changes the response.
func (h *IngestHandler) count(ctx context.Context, name string) {
	if h.metrics == nil {
		return
	}
	if err := h.metrics.Count(ctx, name, 1); err != nil {
		h.log.Warn("failed to publish metric", zap.String("metric", name), zap.Error(err))
	}
}
