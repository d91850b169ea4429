package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

func TestQuantityFits(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"22.5", true},
		{"0.0001", true},
		{"99999999999999.9999", true},
		{"100000000000000", false},
		{"20000000000000000000", false},
		{"0.00001", false},
		{"1.23456", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, entity.QuantityFits(decimal.RequireFromString(tc.in)), tc.in)
	}
}

func TestValueFits(t *testing.T) {
	assert.True(t, entity.ValueFits(decimal.RequireFromString("150")))
	assert.True(t, entity.ValueFits(decimal.RequireFromString("9999999999999999.99")))
	assert.False(t, entity.ValueFits(decimal.RequireFromString("10000000000000000")))
	assert.False(t, entity.ValueFits(decimal.RequireFromString("1.005")))
}
