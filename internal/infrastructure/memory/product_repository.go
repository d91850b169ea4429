package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.nameTaken(product.Name, "") {
		return domain.ErrDuplicate
	}
	if err := r.checkMaterials(product.RawMaterials); err != nil {
		return err
	}
	r.s.products[product.ID] = product.Clone()
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.rlock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.resolve(p), nil
}

func (r *ProductRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	defer r.s.rlock(r.inTx)()
	return r.nameTaken(name, excludeID), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	current, ok := r.s.products[product.ID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, product.ID)
	}
	if r.nameTaken(product.Name, product.ID) {
		return domain.ErrDuplicate
	}
	current.Name = product.Name
	current.Value = product.Value
	current.UpdatedAt = product.UpdatedAt
	return nil
}

func (r *ProductRepo) ReplaceRawMaterials(_ context.Context, productID string, items []entity.ProductRawMaterial) error {
	defer r.s.lock(r.inTx)()
	current, ok := r.s.products[productID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if err := r.checkMaterials(items); err != nil {
		return err
	}
	current.RawMaterials = append([]entity.ProductRawMaterial(nil), items...)
	return nil
}

func (r *ProductRepo) AddRawMaterial(_ context.Context, item *entity.ProductRawMaterial) error {
	defer r.s.lock(r.inTx)()
	current, ok := r.s.products[item.ProductID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
	}
	if _, dup := current.RequirementFor(item.RawMaterialID); dup {
		return domain.ErrDuplicate
	}
	if err := r.checkMaterials([]entity.ProductRawMaterial{*item}); err != nil {
		return err
	}
	current.RawMaterials = append(current.RawMaterials, *item)
	return nil
}

func (r *ProductRepo) UpdateRawMaterial(_ context.Context, item *entity.ProductRawMaterial) error {
	defer r.s.lock(r.inTx)()
	current, ok := r.s.products[item.ProductID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
	}
	req, ok := current.RequirementFor(item.RawMaterialID)
	if !ok {
		return fmt.Errorf("%w: asociación de materia prima no encontrada", domain.ErrNotFound)
	}
	req.RequiredQuantity = item.RequiredQuantity
	return nil
}

func (r *ProductRepo) RemoveRawMaterial(_ context.Context, productID, rawMaterialID string) error {
	defer r.s.lock(r.inTx)()
	current, ok := r.s.products[productID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	kept := current.RawMaterials[:0]
	for _, req := range current.RawMaterials {
		if req.RawMaterialID != rawMaterialID {
			kept = append(kept, req)
		}
	}
	current.RawMaterials = kept
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.products, id)
	return nil
}

// List orden de catálogo: CreatedAt y luego ID ascendente.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	defer r.s.rlock(r.inTx)()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		list = append(list, r.resolve(p))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ProductRepo) UsesRawMaterial(_ context.Context, rawMaterialID string) (bool, error) {
	defer r.s.rlock(r.inTx)()
	for _, p := range r.s.products {
		if _, ok := p.RequirementFor(rawMaterialID); ok {
			return true, nil
		}
	}
	return false, nil
}

// resolve copia el producto y completa RawMaterialName con el nombre vigente de cada materia prima.
func (r *ProductRepo) resolve(p *entity.Product) *entity.Product {
	c := p.Clone()
	for i := range c.RawMaterials {
		if m, ok := r.s.materials[c.RawMaterials[i].RawMaterialID]; ok {
			c.RawMaterials[i].RawMaterialName = m.Name
		}
	}
	return c
}

func (r *ProductRepo) checkMaterials(items []entity.ProductRawMaterial) error {
	for _, item := range items {
		if _, ok := r.s.materials[item.RawMaterialID]; !ok {
			return fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, item.RawMaterialID)
		}
	}
	return nil
}

func (r *ProductRepo) nameTaken(name, excludeID string) bool {
	key := foldName(name)
	for id, p := range r.s.products {
		if id != excludeID && foldName(p.Name) == key {
			return true
		}
	}
	return false
}
