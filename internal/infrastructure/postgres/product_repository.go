package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// Create y ReplaceRawMaterials escriben varias filas: llamarlos con una tx (TxRunner) para que sean atómicos.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y su BOM.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Value, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapError("insert product", err)
	}
	for i := range p.RawMaterials {
		if err := r.AddRawMaterial(ctx, &p.RawMaterials[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un producto con su BOM. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	var p entity.Product
	err := r.q.QueryRow(ctx, `
		SELECT id, name, value, created_at, updated_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Value, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	boms, err := r.rawMaterials(ctx, `WHERE prm.product_id = $1`, id)
	if err != nil {
		return nil, err
	}
	p.RawMaterials = boms[p.ID]
	return &p, nil
}

func (r *ProductRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE lower(name) = lower($1) AND ($2 = '' OR id::text <> $2)
		)`, name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product by name: %w", err)
	}
	return exists, nil
}

// Update actualiza nombre y valor. El BOM se maneja con los métodos *RawMaterial.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, value = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Name, p.Value, p.UpdatedAt,
	)
	if err != nil {
		return mapError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

func (r *ProductRepo) ReplaceRawMaterials(ctx context.Context, productID string, items []entity.ProductRawMaterial) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_raw_materials WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product raw materials: %w", err)
	}
	for i := range items {
		if err := r.AddRawMaterial(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

// AddRawMaterial inserta una línea del BOM. Repetida = ErrDuplicate; producto o materia prima inexistente = ErrConflict (FK).
func (r *ProductRepo) AddRawMaterial(ctx context.Context, item *entity.ProductRawMaterial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_raw_materials (id, product_id, raw_material_id, required_quantity)
		VALUES ($1, $2, $3, $4)`,
		item.ID, item.ProductID, item.RawMaterialID, item.RequiredQuantity,
	)
	if err != nil {
		return mapError("insert product raw material", err)
	}
	return nil
}

func (r *ProductRepo) UpdateRawMaterial(ctx context.Context, item *entity.ProductRawMaterial) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_raw_materials SET required_quantity = $3
		WHERE product_id = $1 AND raw_material_id = $2`,
		item.ProductID, item.RawMaterialID, item.RequiredQuantity,
	)
	if err != nil {
		return mapError("update product raw material", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: asociación de materia prima no encontrada", domain.ErrNotFound)
	}
	return nil
}

func (r *ProductRepo) RemoveRawMaterial(ctx context.Context, productID, rawMaterialID string) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM product_raw_materials WHERE product_id = $1 AND raw_material_id = $2`,
		productID, rawMaterialID,
	)
	if err != nil {
		return fmt.Errorf("delete product raw material: %w", err)
	}
	return nil
}

// Delete elimina el producto; el BOM cae por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List catálogo completo en orden estable (created_at, id) con BOM resuelto en una sola consulta extra.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, value, created_at, updated_at FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Value, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	boms, err := r.rawMaterials(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.RawMaterials = boms[p.ID]
	}
	return list, nil
}

func (r *ProductRepo) UsesRawMaterial(ctx context.Context, rawMaterialID string) (bool, error) {
	var used bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM product_raw_materials WHERE raw_material_id = $1)`, rawMaterialID).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("uses raw material: %w", err)
	}
	return used, nil
}

// rawMaterials líneas de BOM con el nombre de la materia prima, agrupadas por producto.
func (r *ProductRepo) rawMaterials(ctx context.Context, where string, args ...any) (map[string][]entity.ProductRawMaterial, error) {
	rows, err := r.q.Query(ctx, `
		SELECT prm.id, prm.product_id, prm.raw_material_id, rm.name, prm.required_quantity
		FROM product_raw_materials prm
		JOIN raw_materials rm ON rm.id = prm.raw_material_id
		`+where+`
		ORDER BY prm.product_id, rm.name, prm.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list product raw materials: %w", err)
	}
	defer rows.Close()
	out := map[string][]entity.ProductRawMaterial{}
	for rows.Next() {
		var item entity.ProductRawMaterial
		if err := rows.Scan(&item.ID, &item.ProductID, &item.RawMaterialID, &item.RawMaterialName, &item.RequiredQuantity); err != nil {
			return nil, fmt.Errorf("scan product raw material: %w", err)
		}
		out[item.ProductID] = append(out[item.ProductID], item)
	}
	return out, rows.Err()
}
