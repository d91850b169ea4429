// Package memory implementa los puertos de persistencia en memoria.
// Sirve para desarrollo (STORAGE_DRIVER=memory), para el CLI de sugerencias y para los tests.
package memory

import (
	"context"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// Store guarda materias primas y productos. Seguro para uso concurrente.
type Store struct {
	mu        sync.RWMutex
	materials map[string]*entity.RawMaterial
	products  map[string]*entity.Product
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		materials: map[string]*entity.RawMaterial{},
		products:  map[string]*entity.Product{},
	}
}

// Seed carga materias primas y productos sin validar (lo hace quien llama, p. ej. el loader de catálogo).
func (s *Store) Seed(materials []*entity.RawMaterial, products []*entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range materials {
		c := *m
		s.materials[c.ID] = &c
	}
	for _, p := range products {
		s.products[p.ID] = p.Clone()
	}
}

// RawMaterials devuelve el repositorio de materias primas del store.
func (s *Store) RawMaterials() *RawMaterialRepo {
	return &RawMaterialRepo{s: s}
}

// Products devuelve el repositorio de productos del store.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{s: s}
}

// rlock/lock no bloquean cuando el repo corre dentro de TxRunner.Run (el runner ya tiene el lock).
func (s *Store) rlock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// snapshot copia profunda del estado, usada por TxRunner para el rollback.
func (s *Store) snapshot() (map[string]*entity.RawMaterial, map[string]*entity.Product) {
	materials := make(map[string]*entity.RawMaterial, len(s.materials))
	for id, m := range s.materials {
		c := *m
		materials[id] = &c
	}
	products := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		products[id] = p.Clone()
	}
	return materials, products
}

// foldName clave de comparación de nombres sin distinguir mayúsculas (Unicode case folding).
func foldName(name string) string {
	return cases.Fold().String(name)
}

// TxRunner ejecuta fn con el store bloqueado en escritura; si fn falla se restaura el estado previo.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn de forma atómica respecto a otros usos del store.
func (r *TxRunner) Run(ctx context.Context, fn func(
	materialRepo repository.RawMaterialRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	materials, products := r.s.snapshot()
	if err := fn(&RawMaterialRepo{s: r.s, inTx: true}, &ProductRepo{s: r.s, inTx: true}); err != nil {
		r.s.materials, r.s.products = materials, products
		return err
	}
	return nil
}
