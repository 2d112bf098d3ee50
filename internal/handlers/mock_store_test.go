package handlers

import (
	"context"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/sns-order-ingest/internal/orders"
)

// memStore is an in-memory OrderStore/OrderReader with last-write-wins puts.
type memStore struct {
	mu       sync.Mutex
	items    map[string]orders.Order
	putErr   error
	putCalls int
	panicOn  string
}

func newMemStore() *memStore {
	return &memStore{items: map[string]orders.Order{}}
}

func (m *memStore) TableName() string { return "orders" }

func (m *memStore) Put(ctx context.Context, o orders.Order) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.panicOn != "" && o.OrderID == m.panicOn {
		panic("boom")
	}
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.items[o.OrderID] = o
	return &dyn.PutItemOutput{
		ConsumedCapacity: &types.ConsumedCapacity{CapacityUnits: sdkaws.Float64(1)},
	}, nil
}

func (m *memStore) Get(ctx context.Context, orderID string) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.items[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]float64
	err    error
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: map[string]float64{}}
}

func (m *countingMetrics) Count(ctx context.Context, name string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name] += value
	return m.err
}
