package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y su lista de materiales (BOM).
// Las escrituras que tocan producto + BOM corren dentro de una transacción (TxRunner).
type ProductUseCase struct {
	txRunner TxRunner
	repo     repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo}
}

// Create crea un producto con su BOM opcional. Todas las materias primas deben existir.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := validateValue(in.Value); err != nil {
		return nil, err
	}
	if err := validateRequirements(in.RawMaterials); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Value:     in.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(materialRepo repository.RawMaterialRepository, productRepo repository.ProductRepository) error {
		exists, err := productRepo.ExistsByName(ctx, name, "")
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: ya existe un producto con nombre '%s'", domain.ErrDuplicate, name)
		}
		items, err := resolveRequirements(ctx, materialRepo, product.ID, in.RawMaterials)
		if err != nil {
			return err
		}
		product.RawMaterials = items
		return productRepo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con su BOM.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// List lista el catálogo completo en orden estable.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Update actualiza nombre/valor y, si viene RawMaterials, reemplaza el BOM completo.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var name string
	if in.Name != nil {
		n, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		name = n
	}
	if in.Value != nil {
		if err := validateValue(*in.Value); err != nil {
			return nil, err
		}
	}
	if in.RawMaterials != nil {
		if err := validateRequirements(*in.RawMaterials); err != nil {
			return nil, err
		}
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(materialRepo repository.RawMaterialRepository, productRepo repository.ProductRepository) error {
		var err error
		product, err = productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			exists, err := productRepo.ExistsByName(ctx, name, id)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: ya existe un producto con nombre '%s'", domain.ErrDuplicate, name)
			}
			product.Name = name
		}
		if in.Value != nil {
			product.Value = *in.Value
		}
		product.UpdatedAt = time.Now().UTC()
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		if in.RawMaterials == nil {
			return nil
		}
		items, err := resolveRequirements(ctx, materialRepo, id, *in.RawMaterials)
		if err != nil {
			return err
		}
		if err := productRepo.ReplaceRawMaterials(ctx, id, items); err != nil {
			return err
		}
		product.RawMaterials = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto y sus asociaciones de materias primas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return uc.repo.Delete(ctx, id)
}

// AddRawMaterial asocia una materia prima al producto. ErrDuplicate si ya estaba asociada.
func (uc *ProductUseCase) AddRawMaterial(ctx context.Context, productID string, in dto.ProductRawMaterialRequest) (*dto.ProductResponse, error) {
	if err := validateRequirements([]dto.ProductRawMaterialRequest{in}); err != nil {
		return nil, err
	}
	return uc.mutateBOM(ctx, productID, func(materialRepo repository.RawMaterialRepository, productRepo repository.ProductRepository, product *entity.Product) error {
		if _, ok := product.RequirementFor(in.RawMaterialID); ok {
			return fmt.Errorf("%w: la materia prima ya está asociada a este producto", domain.ErrDuplicate)
		}
		items, err := resolveRequirements(ctx, materialRepo, productID, []dto.ProductRawMaterialRequest{in})
		if err != nil {
			return err
		}
		return productRepo.AddRawMaterial(ctx, &items[0])
	})
}

// UpdateRawMaterial cambia la cantidad requerida de una materia prima del producto.
func (uc *ProductUseCase) UpdateRawMaterial(ctx context.Context, productID, rawMaterialID string, in dto.UpdateProductRawMaterialRequest) (*dto.ProductResponse, error) {
	if err := validateRequiredQuantity(in.RequiredQuantity); err != nil {
		return nil, err
	}
	return uc.mutateBOM(ctx, productID, func(_ repository.RawMaterialRepository, productRepo repository.ProductRepository, product *entity.Product) error {
		req, ok := product.RequirementFor(rawMaterialID)
		if !ok {
			return fmt.Errorf("%w: asociación de materia prima no encontrada", domain.ErrNotFound)
		}
		req.RequiredQuantity = in.RequiredQuantity
		return productRepo.UpdateRawMaterial(ctx, req)
	})
}

// RemoveRawMaterial quita una materia prima del BOM del producto.
func (uc *ProductUseCase) RemoveRawMaterial(ctx context.Context, productID, rawMaterialID string) (*dto.ProductResponse, error) {
	return uc.mutateBOM(ctx, productID, func(_ repository.RawMaterialRepository, productRepo repository.ProductRepository, product *entity.Product) error {
		if _, ok := product.RequirementFor(rawMaterialID); !ok {
			return fmt.Errorf("%w: asociación de materia prima no encontrada", domain.ErrNotFound)
		}
		return productRepo.RemoveRawMaterial(ctx, productID, rawMaterialID)
	})
}

// mutateBOM carga el producto dentro de la tx, aplica fn y devuelve el producto releído.
func (uc *ProductUseCase) mutateBOM(
	ctx context.Context,
	productID string,
	fn func(materialRepo repository.RawMaterialRepository, productRepo repository.ProductRepository, product *entity.Product) error,
) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(materialRepo repository.RawMaterialRepository, productRepo repository.ProductRepository) error {
		current, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		if err := fn(materialRepo, productRepo, current); err != nil {
			return err
		}
		product, err = productRepo.GetByID(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// resolveRequirements verifica que cada materia prima exista y arma las líneas del BOM.
func resolveRequirements(
	ctx context.Context,
	materialRepo repository.RawMaterialRepository,
	productID string,
	in []dto.ProductRawMaterialRequest,
) ([]entity.ProductRawMaterial, error) {
	items := make([]entity.ProductRawMaterial, 0, len(in))
	for _, r := range in {
		material, err := materialRepo.GetByID(ctx, r.RawMaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, r.RawMaterialID)
		}
		items = append(items, entity.ProductRawMaterial{
			ID:               uuid.New().String(),
			ProductID:        productID,
			RawMaterialID:    material.ID,
			RawMaterialName:  material.Name,
			RequiredQuantity: r.RequiredQuantity,
		})
	}
	return items, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	items := make([]dto.ProductRawMaterialResponse, 0, len(p.RawMaterials))
	for _, r := range p.RawMaterials {
		items = append(items, dto.ProductRawMaterialResponse{
			ID:               r.ID,
			RawMaterialID:    r.RawMaterialID,
			RawMaterialName:  r.RawMaterialName,
			RequiredQuantity: r.RequiredQuantity,
		})
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Value:        p.Value,
		RawMaterials: items,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
