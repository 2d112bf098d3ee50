package orders

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/sns-order-ingest/internal/aws"
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// TableName returns the table the store writes to.
func (s *Store) TableName() string { return s.tableName }

// Put upserts the order keyed by order_id. There is no condition expression:
// an existing item with the same key is replaced as a whole.
//
// Errors from the service are wrapped, so callers can still errors.As them
// into smithy.APIError.
func (s *Store) Put(ctx context.Context, order Order) (*dyn.PutItemOutput, error) {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	out, err := s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:              &s.tableName,
		Item:                   item,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, fmt.Errorf("put order %s into %s: %w", order.OrderID, s.tableName, err)
	}
	return out, nil
}

// Get fetches an order by order_id. A missing item is (nil, nil), so callers
// can tell "not stored" from a failed read.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            orderKey(orderID),
		ConsistentRead: sdkaws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get order %s from %s: %w", orderID, s.tableName, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	return &o, nil
}

func orderKey(orderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
}
