package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// RawMaterialRepository define el puerto de persistencia para RawMaterial (DIP).
// GetByID devuelve (nil, nil) si no existe.
type RawMaterialRepository interface {
	Create(ctx context.Context, material *entity.RawMaterial) error
	GetByID(ctx context.Context, id string) (*entity.RawMaterial, error)
	// ExistsByName compara sin distinguir mayúsculas; excludeID vacío = no excluir.
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, material *entity.RawMaterial) error
	Delete(ctx context.Context, id string) error
	// List ordena por nombre.
	List(ctx context.Context) ([]*entity.RawMaterial, error)
	SearchByName(ctx context.Context, term string) ([]*entity.RawMaterial, error)
	// StockLevels snapshot materia prima -> stock disponible, leído en cada llamada.
	StockLevels(ctx context.Context) (map[string]decimal.Decimal, error)
}
