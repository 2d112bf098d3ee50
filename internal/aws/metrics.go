package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names published per ingestion outcome.
const (
	MetricOrdersSaved         = "OrdersSaved"
	MetricOrdersRejected      = "OrdersRejected"
	MetricOrderSaveFailures   = "OrderSaveFailures"
	MetricOrderInternalErrors = "OrderInternalErrors"
)

// MetricsPublisher wraps a CloudWatch client, a namespace and the table
// dimension attached to every datum.
type MetricsPublisher struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	TableName  string
	nowFunc    func() time.Time
}

// NewMetricsPublisher returns a MetricsPublisher bound to a namespace.
func NewMetricsPublisher(cw CloudWatchAPI, namespace, tableName string) *MetricsPublisher {
	return &MetricsPublisher{
		CloudWatch: cw,
		Namespace:  namespace,
		TableName:  tableName,
		nowFunc:    time.Now,
	}
}

// Count publishes a single count datum.
func (p *MetricsPublisher) Count(ctx context.Context, name string, value float64) error {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &p.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(name),
				Value:      sdkaws.Float64(value),
				Unit:       cwtypes.StandardUnitCount,
				Timestamp:  sdkaws.Time(p.nowFunc()),
				Dimensions: []cwtypes.Dimension{
					{Name: sdkaws.String("TableName"), Value: &p.TableName},
				},
			},
		},
	}

	if _, err := p.CloudWatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
