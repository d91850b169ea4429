package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

const maxNameLength = 255

// normalizeName recorta espacios y valida longitud (1..255 caracteres).
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: el nombre no puede superar %d caracteres", domain.ErrInvalidInput, maxNameLength)
	}
	return name, nil
}

func validateStock(q decimal.Decimal) error {
	if q.IsNegative() {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if !entity.QuantityFits(q) {
		return fmt.Errorf("%w: el stock debe ser menor que 10^14 y tener a lo sumo %d decimales", domain.ErrInvalidInput, entity.QuantityScale)
	}
	return nil
}

func validateValue(v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: el valor del producto debe ser positivo", domain.ErrInvalidInput)
	}
	if !entity.ValueFits(v) {
		return fmt.Errorf("%w: el valor debe ser menor que 10^16 y tener a lo sumo %d decimales", domain.ErrInvalidInput, entity.ValueScale)
	}
	return nil
}

func validateRequiredQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return fmt.Errorf("%w: la cantidad requerida debe ser positiva", domain.ErrInvalidInput)
	}
	if !entity.QuantityFits(q) {
		return fmt.Errorf("%w: la cantidad requerida debe ser menor que 10^14 y tener a lo sumo %d decimales", domain.ErrInvalidInput, entity.QuantityScale)
	}
	return nil
}

// validateRequirements valida el BOM de la petición: id presente, cantidad > 0 y sin materias primas repetidas.
func validateRequirements(in []dto.ProductRawMaterialRequest) error {
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		if strings.TrimSpace(r.RawMaterialID) == "" {
			return fmt.Errorf("%w: raw_material_id es requerido", domain.ErrInvalidInput)
		}
		if err := validateRequiredQuantity(r.RequiredQuantity); err != nil {
			return err
		}
		if _, dup := seen[r.RawMaterialID]; dup {
			return fmt.Errorf("%w: la materia prima %s está repetida", domain.ErrInvalidInput, r.RawMaterialID)
		}
		seen[r.RawMaterialID] = struct{}{}
	}
	return nil
}
