package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/imrishuroy/sns-order-ingest/internal/orders"
)

// orderPayload is the notification payload before conversion. Raw fields keep
// the literal JSON text so prices never pass through float64. The json tags
// name the fields in validation errors.
type orderPayload struct {
	OrderID    json.RawMessage `json:"order_id" validate:"required"`
	ItemID     json.RawMessage `json:"item_id" validate:"required"`
	ItemCount  json.RawMessage `json:"item_count" validate:"required"`
	ItemPrice  json.RawMessage `json:"item_price" validate:"required"`
	TotalPrice json.RawMessage `json:"total_price" validate:"required"`
}

// OrderParser turns notification payload text into an orders.Order.
type OrderParser struct {
	v *validatorv10.Validate
}

// NewOrderParser returns a parser with its own validator instance.
func NewOrderParser() *OrderParser {
	return &OrderParser{v: New()}
}

// Parse decodes message once and converts every field.
//
// It returns ErrInvalidJSON for malformed text, *MissingFieldError for an
// absent field (the first one in declaration order) and *InvalidFieldError
// for a field whose value cannot be converted.
func (p *OrderParser) Parse(message string) (orders.Order, error) {
	// Keys are matched exactly; struct decoding would fold case.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(message), &fields); err != nil {
		return orders.Order{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if fields == nil {
		return orders.Order{}, fmt.Errorf("%w: not an object", ErrInvalidJSON)
	}

	raw := orderPayload{
		OrderID:    fields["order_id"],
		ItemID:     fields["item_id"],
		ItemCount:  fields["item_count"],
		ItemPrice:  fields["item_price"],
		TotalPrice: fields["total_price"],
	}

	if err := p.v.Struct(raw); err != nil {
		var ve validatorv10.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return orders.Order{}, &MissingFieldError{Field: ve[0].Field()}
		}
		return orders.Order{}, err
	}

	var (
		o   orders.Order
		err error
	)
	if o.OrderID, err = identifier("order_id", raw.OrderID); err != nil {
		return orders.Order{}, err
	}
	if o.ItemID, err = identifier("item_id", raw.ItemID); err != nil {
		return orders.Order{}, err
	}
	if isNull(raw.ItemCount) {
		return orders.Order{}, &InvalidFieldError{Field: "item_count", Err: errEmpty}
	}
	if err := json.Unmarshal(raw.ItemCount, &o.ItemCount); err != nil {
		return orders.Order{}, &InvalidFieldError{Field: "item_count", Err: err}
	}
	if o.ItemPrice, err = amount("item_price", raw.ItemPrice); err != nil {
		return orders.Order{}, err
	}
	if o.TotalPrice, err = amount("total_price", raw.TotalPrice); err != nil {
		return orders.Order{}, err
	}
	return o, nil
}

var errEmpty = errors.New("empty value")

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// identifier accepts a JSON string or a JSON number kept as its literal text.
func identifier(field string, raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	var s string
	switch {
	case len(raw) > 0 && raw[0] == '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", &InvalidFieldError{Field: field, Err: err}
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", &InvalidFieldError{Field: field, Err: err}
		}
		s = n.String()
	}
	if s == "" {
		return "", &InvalidFieldError{Field: field, Err: errEmpty}
	}
	return s, nil
}

// amount converts the literal text of a JSON number or numeric string to an
// exact decimal.
func amount(field string, raw json.RawMessage) (orders.Amount, error) {
	raw = bytes.TrimSpace(raw)
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return orders.Amount{}, &InvalidFieldError{Field: field, Err: err}
		}
	}
	a, err := orders.NewAmount(text)
	if err != nil {
		return orders.Amount{}, &InvalidFieldError{Field: field, Err: err}
	}
	return a, nil
}
