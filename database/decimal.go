package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToDecimal128 converts an amount for storage.
func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("invalid decimal %s: %w", d.String(), err)
	}
	return v, nil
}

// MustDecimal128 is ToDecimal128 for values already validated by the caller.
func MustDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := ToDecimal128(d)
	if err != nil {
		panic(err)
	}
	return v
}

// FromDecimal128 converts a stored amount. The zero value decodes as 0.
func FromDecimal128(v primitive.Decimal128) decimal.Decimal {
	if v.IsZero() {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
