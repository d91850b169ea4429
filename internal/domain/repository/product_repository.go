package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y su BOM (DIP).
// Los productos se devuelven siempre con RawMaterials resuelto. GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	// Create persiste el producto junto con sus materias primas.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	// Update actualiza nombre y valor; no toca el BOM.
	Update(ctx context.Context, product *entity.Product) error
	// ReplaceRawMaterials reemplaza el BOM completo del producto.
	ReplaceRawMaterials(ctx context.Context, productID string, items []entity.ProductRawMaterial) error
	AddRawMaterial(ctx context.Context, item *entity.ProductRawMaterial) error
	UpdateRawMaterial(ctx context.Context, item *entity.ProductRawMaterial) error
	RemoveRawMaterial(ctx context.Context, productID, rawMaterialID string) error
	Delete(ctx context.Context, id string) error
	// List devuelve el catálogo en orden estable: created_at y luego id ascendente.
	List(ctx context.Context) ([]*entity.Product, error)
	// UsesRawMaterial indica si algún producto requiere la materia prima.
	UsesRawMaterial(ctx context.Context, rawMaterialID string) (bool, error)
}
