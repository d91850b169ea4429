package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionItemResponse una línea de la sugerencia de producción.
type ProductionItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductValue decimal.Decimal `json:"product_value"`
	Quantity     int64           `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"` // ProductValue * Quantity
}

// MaterialUsageResponse consumo de una materia prima en el plan.
type MaterialUsageResponse struct {
	RawMaterialID   string          `json:"raw_material_id"`
	RawMaterialName string          `json:"raw_material_name"`
	Available       decimal.Decimal `json:"available"`
	Used            decimal.Decimal `json:"used"`
	Remaining       decimal.Decimal `json:"remaining"`
}

// ProductionSuggestionResponse plan de producción sugerido. Items va en orden de prioridad.
type ProductionSuggestionResponse struct {
	Items         []ProductionItemResponse `json:"items"`
	TotalValue    decimal.Decimal          `json:"total_value"`
	MaterialUsage []MaterialUsageResponse  `json:"material_usage"`
	GeneratedAt   time.Time                `json:"generated_at"`
}
