package orders

// Order represents the item stored in the orders DynamoDB table.
type Order struct {
	OrderID    string `dynamodbav:"order_id" json:"order_id"` // PK
	ItemID     string `dynamodbav:"item_id" json:"item_id"`
	ItemCount  int64  `dynamodbav:"item_count" json:"item_count"`
	ItemPrice  Amount `dynamodbav:"item_price" json:"item_price"`   // unit price
	TotalPrice Amount `dynamodbav:"total_price" json:"total_price"` // order total
}
