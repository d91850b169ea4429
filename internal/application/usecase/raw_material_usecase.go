package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// RawMaterialUseCase casos de uso CRUD para materias primas.
type RawMaterialUseCase struct {
	repo        repository.RawMaterialRepository
	productRepo repository.ProductRepository
}

// NewRawMaterialUseCase construye el caso de uso.
func NewRawMaterialUseCase(repo repository.RawMaterialRepository, productRepo repository.ProductRepository) *RawMaterialUseCase {
	return &RawMaterialUseCase{repo: repo, productRepo: productRepo}
}

// Create crea una materia prima. El nombre es único sin distinguir mayúsculas.
func (uc *RawMaterialUseCase) Create(ctx context.Context, in dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := validateStock(in.StockQuantity); err != nil {
		return nil, err
	}
	exists, err := uc.repo.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: ya existe una materia prima con nombre '%s'", domain.ErrDuplicate, name)
	}
	now := time.Now().UTC()
	material := &entity.RawMaterial{
		ID:            uuid.New().String(),
		Name:          name,
		StockQuantity: in.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, material); err != nil {
		return nil, err
	}
	return toRawMaterialResponse(material), nil
}

// GetByID obtiene una materia prima por ID.
func (uc *RawMaterialUseCase) GetByID(ctx context.Context, id string) (*dto.RawMaterialResponse, error) {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, id)
	}
	return toRawMaterialResponse(material), nil
}

// List lista todas las materias primas ordenadas por nombre.
func (uc *RawMaterialUseCase) List(ctx context.Context) (*dto.RawMaterialListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toRawMaterialList(list), nil
}

// Search busca por nombre (subcadena, sin distinguir mayúsculas). Término vacío = List.
func (uc *RawMaterialUseCase) Search(ctx context.Context, term string) (*dto.RawMaterialListResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return uc.List(ctx)
	}
	list, err := uc.repo.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}
	return toRawMaterialList(list), nil
}

// Update actualiza nombre y/o stock.
func (uc *RawMaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		exists, err := uc.repo.ExistsByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: ya existe una materia prima con nombre '%s'", domain.ErrDuplicate, name)
		}
		material.Name = name
	}
	if in.StockQuantity != nil {
		if err := validateStock(*in.StockQuantity); err != nil {
			return nil, err
		}
		material.StockQuantity = *in.StockQuantity
	}
	material.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, material); err != nil {
		return nil, err
	}
	return toRawMaterialResponse(material), nil
}

// Delete elimina una materia prima. No se permite si algún producto la usa.
func (uc *RawMaterialUseCase) Delete(ctx context.Context, id string) error {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if material == nil {
		return fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, id)
	}
	used, err := uc.productRepo.UsesRawMaterial(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: la materia prima está asociada a productos", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func toRawMaterialResponse(m *entity.RawMaterial) *dto.RawMaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.RawMaterialResponse{
		ID:            m.ID,
		Name:          m.Name,
		StockQuantity: m.StockQuantity,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toRawMaterialList(list []*entity.RawMaterial) *dto.RawMaterialListResponse {
	items := make([]dto.RawMaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toRawMaterialResponse(m))
	}
	return &dto.RawMaterialListResponse{Items: items, Total: len(items)}
}
