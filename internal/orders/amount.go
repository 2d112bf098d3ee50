package orders

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Amount is an exact decimal monetary value. It is written to DynamoDB as a
// number attribute carrying the decimal's text, never through float64.
type Amount struct {
	decimal.Decimal
}

// DynamoDB number limits: 38 significant digits, magnitude from 1e-130 up to
// (but excluding) 1e126.
const (
	maxSignificantDigits = 38
	minAdjustedExponent  = -130
	maxAdjustedExponent  = 125
)

// ErrAmountOutOfRange is returned for values DynamoDB cannot store as a number.
var ErrAmountOutOfRange = errors.New("amount outside DynamoDB number range")

// NewAmount parses s (e.g. "19.99") into an Amount.
//
// The range is checked on coefficient and exponent only; the decimal is
// never rendered before it is known to be small.
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	if err := checkRange(d); err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

func checkRange(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	digits := new(big.Int).Abs(d.Coefficient()).String()
	significant := len(strings.TrimRight(digits, "0"))
	if significant > maxSignificantDigits {
		return fmt.Errorf("%w: %d significant digits", ErrAmountOutOfRange, significant)
	}
	// exponent of the leading digit
	adjusted := int64(d.Exponent()) + int64(len(digits)) - 1
	if adjusted < minAdjustedExponent || adjusted > maxAdjustedExponent {
		return fmt.Errorf("%w: magnitude 1e%d", ErrAmountOutOfRange, adjusted)
	}
	return nil
}

// MustAmount is NewAmount for literals; it panics on malformed input.
func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (a Amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.String()}, nil
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
func (a *Amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("amount: expected number attribute, got %T", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	a.Decimal = d
	return nil
}
