package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRawMaterialRequest requerimiento de materia prima por unidad de producto.
type ProductRawMaterialRequest struct {
	RawMaterialID    string          `json:"raw_material_id" validate:"required"`
	RequiredQuantity decimal.Decimal `json:"required_quantity" validate:"gt=0"`
}

// CreateProductRequest entrada para crear un producto con su BOM opcional.
type CreateProductRequest struct {
	Name         string                      `json:"name" validate:"required,min=1,max=255"`
	Value        decimal.Decimal             `json:"value" validate:"gt=0"`
	RawMaterials []ProductRawMaterialRequest `json:"raw_materials"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Si RawMaterials viene (aunque sea vacío) reemplaza el BOM completo; nil = sin cambios.
type UpdateProductRequest struct {
	Name         *string                      `json:"name" validate:"omitempty,min=1,max=255"`
	Value        *decimal.Decimal             `json:"value"`
	RawMaterials *[]ProductRawMaterialRequest `json:"raw_materials"`
}

// UpdateProductRawMaterialRequest cambia la cantidad requerida de una asociación existente.
type UpdateProductRawMaterialRequest struct {
	RequiredQuantity decimal.Decimal `json:"required_quantity" validate:"gt=0"`
}

// ProductRawMaterialResponse línea del BOM en la salida de un producto.
type ProductRawMaterialResponse struct {
	ID               string          `json:"id"`
	RawMaterialID    string          `json:"raw_material_id"`
	RawMaterialName  string          `json:"raw_material_name"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string                       `json:"id"`
	Name         string                       `json:"name"`
	Value        decimal.Decimal              `json:"value"`
	RawMaterials []ProductRawMaterialResponse `json:"raw_materials"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

// ProductListResponse lista de productos en orden de catálogo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
