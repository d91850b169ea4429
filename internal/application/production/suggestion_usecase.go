// Package production expone la sugerencia de producción: lee catálogo y stock,
// corre el asignador del dominio y arma la respuesta (JSON o PDF).
package production

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	domprod "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
	"github.com/jhoicas/Produccion-api/pkg/tracing"
)

// SuggestionUseCase calcula la sugerencia de producción. No guarda estado entre llamadas:
// catálogo y stock se leen en cada invocación.
type SuggestionUseCase struct {
	productRepo  repository.ProductRepository
	materialRepo repository.RawMaterialRepository
	generator    SuggestionPDFGenerator
	log          *logger.Logger
	now          func() time.Time
}

// NewSuggestionUseCase construye el caso de uso. generator puede ser nil si no se exporta PDF.
func NewSuggestionUseCase(
	productRepo repository.ProductRepository,
	materialRepo repository.RawMaterialRepository,
	generator SuggestionPDFGenerator,
	log *logger.Logger,
) *SuggestionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SuggestionUseCase{
		productRepo:  productRepo,
		materialRepo: materialRepo,
		generator:    generator,
		log:          log,
		now:          time.Now,
	}
}

// GetProductionSuggestion devuelve el plan de producción que maximiza (greedy) el valor total.
// Los únicos errores posibles vienen de los repositorios.
func (uc *SuggestionUseCase) GetProductionSuggestion(ctx context.Context) (resp *dto.ProductionSuggestionResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "production.suggest")
	defer func() { tracing.EndSpan(span, err) }()

	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("sugerencia: listar productos: %w", err)
	}
	stock, err := uc.materialRepo.StockLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("sugerencia: leer stock: %w", err)
	}

	plan := domprod.Suggest(products, stock)
	resp = toSuggestionResponse(plan, products, stock, uc.now().UTC())

	span.SetAttributes(
		attribute.Int("production.products", len(products)),
		attribute.Int("production.items", len(plan.Items)),
		attribute.String("production.total_value", plan.TotalValue.String()),
	)
	uc.log.WithSpan(ctx).Debug().
		Int("products", len(products)).
		Int("items", len(plan.Items)).
		Str("total_value", plan.TotalValue.String()).
		Msg("sugerencia de producción calculada")
	return resp, nil
}

// GetProductionSuggestionPDF calcula la sugerencia y la renderiza en PDF.
// Retorna (bytes, nombre de archivo, error).
func (uc *SuggestionUseCase) GetProductionSuggestionPDF(ctx context.Context) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("sugerencia: generador PDF no configurado")
	}
	resp, err := uc.GetProductionSuggestion(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateSuggestionPDF(ctx, resp)
	if err != nil {
		return nil, "", fmt.Errorf("sugerencia: generar PDF: %w", err)
	}
	filename := fmt.Sprintf("sugerencia-produccion-%s.pdf", resp.GeneratedAt.Format("20060102-150405"))
	return pdfBytes, filename, nil
}

// ToSuggestionResponse arma la respuesta a partir de un plan ya calculado (lo usa el CLI).
func ToSuggestionResponse(plan domprod.Plan, products []*entity.Product, stock map[string]decimal.Decimal, at time.Time) *dto.ProductionSuggestionResponse {
	return toSuggestionResponse(plan, products, stock, at)
}

func toSuggestionResponse(plan domprod.Plan, products []*entity.Product, stock map[string]decimal.Decimal, at time.Time) *dto.ProductionSuggestionResponse {
	items := make([]dto.ProductionItemResponse, 0, len(plan.Items))
	for _, it := range plan.Items {
		items = append(items, dto.ProductionItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductValue: it.UnitValue,
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal,
		})
	}
	return &dto.ProductionSuggestionResponse{
		Items:         items,
		TotalValue:    plan.TotalValue,
		MaterialUsage: materialUsage(plan, products, stock),
		GeneratedAt:   at,
	}
}

// materialUsage una línea por materia prima referenciada en algún BOM, en orden de aparición en el catálogo.
func materialUsage(plan domprod.Plan, products []*entity.Product, stock map[string]decimal.Decimal) []dto.MaterialUsageResponse {
	consumed := plan.Consumption()
	seen := map[string]struct{}{}
	usage := []dto.MaterialUsageResponse{}
	for _, p := range products {
		if p == nil {
			continue
		}
		for _, req := range p.RawMaterials {
			if _, ok := seen[req.RawMaterialID]; ok {
				continue
			}
			seen[req.RawMaterialID] = struct{}{}
			available := stock[req.RawMaterialID]
			used := consumed[req.RawMaterialID]
			usage = append(usage, dto.MaterialUsageResponse{
				RawMaterialID:   req.RawMaterialID,
				RawMaterialName: req.RawMaterialName,
				Available:       available,
				Used:            used,
				Remaining:       available.Sub(used),
			})
		}
	}
	return usage
}
