package entity

import "github.com/shopspring/decimal"

// Límites de las columnas NUMERIC: stock y cantidad requerida NUMERIC(18,4), valor NUMERIC(18,2).
const (
	QuantityScale = 4
	ValueScale    = 2
)

var (
	maxQuantity = decimal.New(1, 18-QuantityScale) // 10^14, exclusivo
	maxValue    = decimal.New(1, 18-ValueScale)    // 10^16, exclusivo
)

// QuantityFits indica si q cabe en NUMERIC(18,4): |q| < 10^14 y a lo sumo 4 decimales.
func QuantityFits(q decimal.Decimal) bool {
	return fits(q, maxQuantity, QuantityScale)
}

// ValueFits indica si v cabe en NUMERIC(18,2).
func ValueFits(v decimal.Decimal) bool {
	return fits(v, maxValue, ValueScale)
}

func fits(d, limit decimal.Decimal, scale int32) bool {
	return d.Abs().LessThan(limit) && d.Equal(d.Truncate(scale))
}
