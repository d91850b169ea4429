package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRawMaterialRequest entrada para crear una materia prima.
type CreateRawMaterialRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	StockQuantity decimal.Decimal `json:"stock_quantity" validate:"gte=0"`
}

// UpdateRawMaterialRequest entrada para actualizar una materia prima (campos opcionales).
type UpdateRawMaterialRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=255"`
	StockQuantity *decimal.Decimal `json:"stock_quantity"`
}

// RawMaterialResponse salida de una materia prima.
type RawMaterialResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// RawMaterialListResponse lista de materias primas.
type RawMaterialListResponse struct {
	Items []RawMaterialResponse `json:"items"`
	Total int                   `json:"total"`
}
