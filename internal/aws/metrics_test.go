package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetricsPublisher_Count(t *testing.T) {
	mock := &mockCloudWatch{}
	p := NewMetricsPublisher(mock, "OrderIngest", "orders")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.nowFunc = func() time.Time { return fixed }

	if err := p.Count(context.Background(), MetricOrdersSaved, 1); err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 PutMetricData call, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.Namespace != "OrderIngest" {
		t.Fatalf("namespace mismatch: %s", *in.Namespace)
	}
	d := in.MetricData[0]
	if *d.MetricName != MetricOrdersSaved || *d.Value != 1 || d.Unit != cwtypes.StandardUnitCount {
		t.Fatalf("unexpected datum: %+v", d)
	}
	if !d.Timestamp.Equal(fixed) {
		t.Fatalf("timestamp mismatch: %v", d.Timestamp)
	}
	if len(d.Dimensions) != 1 || *d.Dimensions[0].Value != "orders" {
		t.Fatalf("unexpected dimensions: %+v", d.Dimensions)
	}
}

func TestMetricsPublisher_CountError(t *testing.T) {
	mock := &mockCloudWatch{err: errors.New("throttled")}
	p := NewMetricsPublisher(mock, "OrderIngest", "orders")

	if err := p.Count(context.Background(), MetricOrdersRejected, 1); err == nil {
		t.Fatal("expected error, got nil")
	}
}
