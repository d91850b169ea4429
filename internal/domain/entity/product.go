package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto fabricable. Value es el precio unitario (> 0).
// RawMaterials es su lista de materiales (BOM): a lo sumo una entrada por materia prima.
type Product struct {
	ID           string
	Name         string
	Value        decimal.Decimal
	RawMaterials []ProductRawMaterial
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductRawMaterial cantidad de una materia prima requerida para fabricar una unidad del producto.
type ProductRawMaterial struct {
	ID               string
	ProductID        string
	RawMaterialID    string
	RawMaterialName  string // solo lectura, resuelto por el repositorio
	RequiredQuantity decimal.Decimal
}

// RequirementFor devuelve el requerimiento del producto para la materia prima indicada.
func (p *Product) RequirementFor(rawMaterialID string) (*ProductRawMaterial, bool) {
	for i := range p.RawMaterials {
		if p.RawMaterials[i].RawMaterialID == rawMaterialID {
			return &p.RawMaterials[i], true
		}
	}
	return nil, false
}

// Clone copia profunda del producto (incluye el BOM).
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.RawMaterials = append([]ProductRawMaterial(nil), p.RawMaterials...)
	return &c
}
