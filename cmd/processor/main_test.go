package main

import (
	"context"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/sns-order-ingest/internal/aws"
	"github.com/imrishuroy/sns-order-ingest/internal/config"
	"github.com/imrishuroy/sns-order-ingest/internal/handlers"
)

type fakeDynamo struct {
	mu   sync.Mutex
	puts  []*dyn.PutItemInput
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, params)
	return &dyn.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return &dyn.GetItemOutput{}, nil
}

type fakeCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestLocalEvent(t *testing.T) {
	ev := localEvent(`{"order_id":"o1"}`)

	if len(ev.Records) != 1 {
		t.Fatalf("expected one record, got %d", len(ev.Records))
	}
	sns := ev.Records[0].SNS
	if sns.Message != `{"order_id":"o1"}` {
		t.Fatalf("message mismatch: %s", sns.Message)
	}
	if _, err := uuid.Parse(sns.MessageID); err != nil {
		t.Fatalf("expected uuid message id, got %q", sns.MessageID)
	}
}

func TestIngestConfig_MetricsWiredWithNamespace(t *testing.T) {
	cw := &fakeCloudWatch{}
	clients := &aws.AWSClients{DynamoDB: &fakeDynamo{}, CloudWatch: cw}
	cfg := &config.Config{OrderTableName: "orders", MetricsNamespace: "OrderIngest"}

	ic := ingestConfig(cfg, clients, zap.NewNop())

	pub, ok := ic.Metrics.(*aws.MetricsPublisher)
	if !ok {
		t.Fatalf("expected *aws.MetricsPublisher, got %T", ic.Metrics)
	}
	if pub.Namespace != "OrderIngest" || pub.TableName != "orders" {
		t.Fatalf("unexpected publisher target %s/%s", pub.Namespace, pub.TableName)
	}
	if pub.CloudWatch != cw {
		t.Fatal("publisher not bound to the process cloudwatch client")
	}
	if ic.Store == nil || ic.Store.TableName() != "orders" {
		t.Fatal("store not bound to the configured table")
	}
}

func TestIngestConfig_NoNamespaceNoMetrics(t *testing.T) {
	clients := &aws.AWSClients{DynamoDB: &fakeDynamo{}, CloudWatch: &fakeCloudWatch{}}
	cfg := &config.Config{OrderTableName: "orders"}

	ic := ingestConfig(cfg, clients, zap.NewNop())
	if ic.Metrics != nil {
		t.Fatalf("expected metrics disabled, got %T", ic.Metrics)
	}
}

func TestRunLocal_SavesOrderAndPublishesMetric(t *testing.T) {
	ddb := &fakeDynamo{}
	cw := &fakeCloudWatch{}
	cfg := &config.Config{OrderTableName: "orders", MetricsNamespace: "OrderIngest"}
	h := handlers.NewIngestHandler(ingestConfig(cfg, &aws.AWSClients{DynamoDB: ddb, CloudWatch: cw}, zap.NewNop()))

	resp := runLocal(context.Background(), h,
		`{"order_id":"o1","item_id":"i1","item_count":2,"item_price":9.99,"total_price":19.98}`,
		zap.NewNop())

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d %s", resp.StatusCode, resp.Body)
	}
	if len(ddb.puts) != 1 {
		t.Fatalf("expected one PutItem, got %d", len(ddb.puts))
	}
	put := ddb.puts[0]
	if *put.TableName != "orders" {
		t.Fatalf("expected table orders, got %s", *put.TableName)
	}
	if n, ok := put.Item["total_price"].(*types.AttributeValueMemberN); !ok || n.Value != "19.98" {
		t.Fatalf("unexpected total_price %#v", put.Item["total_price"])
	}
	if len(cw.inputs) != 1 || *cw.inputs[0].Namespace != "OrderIngest" {
		t.Fatalf("expected one datum in OrderIngest, got %d", len(cw.inputs))
	}
	if name := *cw.inputs[0].MetricData[0].MetricName; name != aws.MetricOrdersSaved {
		t.Fatalf("expected %s, got %s", aws.MetricOrdersSaved, name)
	}
}

func TestRunLocal_InvalidMessage(t *testing.T) {
	ddb := &fakeDynamo{}
	cfg := &config.Config{OrderTableName: "orders"}
	h := handlers.NewIngestHandler(ingestConfig(cfg, &aws.AWSClients{DynamoDB: ddb, CloudWatch: &fakeCloudWatch{}}, zap.NewNop()))

	resp := runLocal(context.Background(), h, `not json`, zap.NewNop())
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if len(ddb.puts) != 0 {
		t.Fatalf("expected no write, got %d", len(ddb.puts))
	}
}
