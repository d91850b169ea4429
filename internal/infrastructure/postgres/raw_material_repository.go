package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo implementación del puerto RawMaterialRepository sobre PostgreSQL (usable con pool o tx).
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

const rawMaterialColumns = `id, name, stock_quantity, created_at, updated_at`

// Create persiste una nueva materia prima.
func (r *RawMaterialRepo) Create(ctx context.Context, m *entity.RawMaterial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO raw_materials (id, name, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.StockQuantity, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapError("insert raw material", err)
	}
	return nil
}

// GetByID obtiene una materia prima por ID. (nil, nil) si no existe.
func (r *RawMaterialRepo) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	if !validID(id) {
		return nil, nil
	}
	var m entity.RawMaterial
	err := r.q.QueryRow(ctx, `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.StockQuantity, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	return &m, nil
}

func (r *RawMaterialRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM raw_materials
			WHERE lower(name) = lower($1) AND ($2 = '' OR id::text <> $2)
		)`, name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists raw material by name: %w", err)
	}
	return exists, nil
}

func (r *RawMaterialRepo) Update(ctx context.Context, m *entity.RawMaterial) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE raw_materials SET name = $2, stock_quantity = $3, updated_at = $4
		WHERE id = $1`,
		m.ID, m.Name, m.StockQuantity, m.UpdatedAt,
	)
	if err != nil {
		return mapError("update raw material", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, m.ID)
	}
	return nil
}

// Delete elimina por ID. Si algún producto la referencia, la FK devuelve ErrConflict.
func (r *RawMaterialRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id); err != nil {
		return mapError("delete raw material", err)
	}
	return nil
}

// List ordena por nombre (collation de la base) y luego por id.
func (r *RawMaterialRepo) List(ctx context.Context) ([]*entity.RawMaterial, error) {
	return r.list(ctx, `SELECT `+rawMaterialColumns+` FROM raw_materials ORDER BY name, id`)
}

func (r *RawMaterialRepo) SearchByName(ctx context.Context, term string) ([]*entity.RawMaterial, error) {
	return r.list(ctx, `
		SELECT `+rawMaterialColumns+` FROM raw_materials
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name, id`, escapeLike(term))
}

func (r *RawMaterialRepo) StockLevels(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT id, stock_quantity FROM raw_materials`)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}

func (r *RawMaterialRepo) list(ctx context.Context, query string, args ...any) ([]*entity.RawMaterial, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	defer rows.Close()
	list := []*entity.RawMaterial{}
	for rows.Next() {
		var m entity.RawMaterial
		if err := rows.Scan(&m.ID, &m.Name, &m.StockQuantity, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan raw material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
