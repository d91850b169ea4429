package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial representa una materia prima con su stock disponible.
// StockQuantity admite fracciones (ej. kilogramos) y nunca es negativo.
type RawMaterial struct {
	ID            string
	Name          string
	StockQuantity decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
