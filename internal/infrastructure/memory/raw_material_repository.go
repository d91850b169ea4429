package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo implementación en memoria de RawMaterialRepository.
type RawMaterialRepo struct {
	s    *Store
	inTx bool
}

// Create persiste la materia prima. Nombre repetido = ErrDuplicate (como el índice único en PostgreSQL).
func (r *RawMaterialRepo) Create(_ context.Context, material *entity.RawMaterial) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.materials[material.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.nameTaken(material.Name, "") {
		return domain.ErrDuplicate
	}
	c := *material
	r.s.materials[c.ID] = &c
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *RawMaterialRepo) GetByID(_ context.Context, id string) (*entity.RawMaterial, error) {
	defer r.s.rlock(r.inTx)()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *RawMaterialRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	defer r.s.rlock(r.inTx)()
	return r.nameTaken(name, excludeID), nil
}

func (r *RawMaterialRepo) Update(_ context.Context, material *entity.RawMaterial) error {
	defer r.s.lock(r.inTx)()
	current, ok := r.s.materials[material.ID]
	if !ok {
		return fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, material.ID)
	}
	if r.nameTaken(material.Name, material.ID) {
		return domain.ErrDuplicate
	}
	current.Name = material.Name
	current.StockQuantity = material.StockQuantity
	current.UpdatedAt = material.UpdatedAt
	return nil
}

// Delete falla con ErrConflict si algún producto la referencia (como la FK en PostgreSQL).
func (r *RawMaterialRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	for _, p := range r.s.products {
		if _, ok := p.RequirementFor(id); ok {
			return domain.ErrConflict
		}
	}
	delete(r.s.materials, id)
	return nil
}

// List ordena por nombre con collation en español (acentos y mayúsculas no alteran el orden).
func (r *RawMaterialRepo) List(_ context.Context) ([]*entity.RawMaterial, error) {
	defer r.s.rlock(r.inTx)()
	return r.sorted(func(*entity.RawMaterial) bool { return true }), nil
}

// SearchByName subcadena sin distinguir mayúsculas.
func (r *RawMaterialRepo) SearchByName(_ context.Context, term string) ([]*entity.RawMaterial, error) {
	defer r.s.rlock(r.inTx)()
	needle := foldName(term)
	return r.sorted(func(m *entity.RawMaterial) bool {
		return strings.Contains(foldName(m.Name), needle)
	}), nil
}

func (r *RawMaterialRepo) StockLevels(_ context.Context) (map[string]decimal.Decimal, error) {
	defer r.s.rlock(r.inTx)()
	out := make(map[string]decimal.Decimal, len(r.s.materials))
	for id, m := range r.s.materials {
		out[id] = m.StockQuantity
	}
	return out, nil
}

func (r *RawMaterialRepo) nameTaken(name, excludeID string) bool {
	key := foldName(name)
	for id, m := range r.s.materials {
		if id != excludeID && foldName(m.Name) == key {
			return true
		}
	}
	return false
}

func (r *RawMaterialRepo) sorted(keep func(*entity.RawMaterial) bool) []*entity.RawMaterial {
	list := make([]*entity.RawMaterial, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		if keep(m) {
			c := *m
			list = append(list, &c)
		}
	}
	col := collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.Slice(list, func(i, j int) bool {
		if c := col.CompareString(list[i].Name, list[j].Name); c != 0 {
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
	return list
}
