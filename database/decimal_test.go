package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDecimal128Conversion(t *testing.T) {
	for _, s := range []string{"500", "0.01", "1234567.89"} {
		d := decimal.RequireFromString(s)
		v, err := ToDecimal128(d)
		require.NoError(t, err)
		assert.True(t, d.Equal(FromDecimal128(v)), s)
	}
	assert.True(t, FromDecimal128(primitive.Decimal128{}).IsZero())
}

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil))
	assert.ErrorIs(t, MapError(fmt.Errorf("find: %w", mongo.ErrNoDocuments)), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, MapError(dup), ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, MapError(other))
}
