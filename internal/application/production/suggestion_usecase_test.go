package production_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/pkg/logger"
	"github.com/jhoicas/Produccion-api/pkg/tracing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var base = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// seedStore escenario: A (150) requiere steel:10; B (100) requiere steel:5, plastic:2; C (80) sin BOM.
func seedStore() *memory.Store {
	store := memory.NewStore()
	store.Seed(
		[]*entity.RawMaterial{
			{ID: "steel", Name: "Acero", StockQuantity: d("100")},
			{ID: "plastic", Name: "Plástico", StockQuantity: d("50")},
		},
		[]*entity.Product{
			{ID: "a", Name: "Producto A", Value: d("150"), CreatedAt: base,
				RawMaterials: []entity.ProductRawMaterial{{RawMaterialID: "steel", RawMaterialName: "Acero", RequiredQuantity: d("10")}}},
			{ID: "b", Name: "Producto B", Value: d("100"), CreatedAt: base.Add(time.Second),
				RawMaterials: []entity.ProductRawMaterial{
					{RawMaterialID: "steel", RawMaterialName: "Acero", RequiredQuantity: d("5")},
					{RawMaterialID: "plastic", RawMaterialName: "Plástico", RequiredQuantity: d("2")},
				}},
			{ID: "c", Name: "Producto C", Value: d("80"), CreatedAt: base.Add(2 * time.Second)},
		},
	)
	return store
}

type fakePDF struct {
	got *dto.ProductionSuggestionResponse
	err error
}

func (f *fakePDF) GenerateSuggestionPDF(_ context.Context, s *dto.ProductionSuggestionResponse) ([]byte, error) {
	f.got = s
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type failingStock struct {
	repository.RawMaterialRepository
}

func (failingStock) StockLevels(context.Context) (map[string]decimal.Decimal, error) {
	return nil, errors.New("db caída")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestGetProductionSuggestion_EscenarioB(t *testing.T) {
	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), nil, nil)

	resp, err := uc.GetProductionSuggestion(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "a", resp.Items[0].ProductID)
	assert.Equal(t, "Producto A", resp.Items[0].ProductName)
	assert.Equal(t, int64(10), resp.Items[0].Quantity)
	assert.True(t, resp.Items[0].Subtotal.Equal(d("1500")))
	assert.True(t, resp.TotalValue.Equal(d("1500")))
	assert.False(t, resp.GeneratedAt.IsZero())

	require.Len(t, resp.MaterialUsage, 2)
	steel := resp.MaterialUsage[0]
	assert.Equal(t, "steel", steel.RawMaterialID)
	assert.Equal(t, "Acero", steel.RawMaterialName)
	assert.True(t, steel.Used.Equal(d("100")))
	assert.True(t, steel.Remaining.IsZero())
	plastic := resp.MaterialUsage[1]
	assert.True(t, plastic.Used.IsZero())
	assert.True(t, plastic.Remaining.Equal(d("50")))
}

func TestGetProductionSuggestion_CatalogoVacio(t *testing.T) {
	store := memory.NewStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), nil, nil)

	resp, err := uc.GetProductionSuggestion(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.TotalValue.IsZero())
	assert.Empty(t, resp.MaterialUsage)
}

func TestGetProductionSuggestion_LeeStockEnCadaLlamada(t *testing.T) {
	ctx := context.Background()
	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), nil, nil)

	first, err := uc.GetProductionSuggestion(ctx)
	require.NoError(t, err)
	assert.True(t, first.TotalValue.Equal(d("1500")))

	steel, err := store.RawMaterials().GetByID(ctx, "steel")
	require.NoError(t, err)
	steel.StockQuantity = d("115")
	require.NoError(t, store.RawMaterials().Update(ctx, steel))

	second, err := uc.GetProductionSuggestion(ctx)
	require.NoError(t, err)
	// 11 × A consume 110; quedan 5 de acero → 1 × B
	require.Len(t, second.Items, 2)
	assert.Equal(t, int64(11), second.Items[0].Quantity)
	assert.Equal(t, int64(1), second.Items[1].Quantity)
	assert.True(t, second.TotalValue.Equal(d("1750")))
}

func TestGetProductionSuggestion_ErrorDeRepositorio(t *testing.T) {
	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), failingStock{store.RawMaterials()}, nil, nil)

	_, err := uc.GetProductionSuggestion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db caída")
}

func TestGetProductionSuggestion_Span(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp, err := tracing.NewProvider("produccion-test", "test", recorder)
	require.NoError(t, err)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), nil, nil)
	_, err = uc.GetProductionSuggestion(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "production.suggest", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("production.items", 1))
	assert.Contains(t, spans[0].Attributes(), attribute.String("production.total_value", "1500"))

	failing := production.NewSuggestionUseCase(store.Products(), failingStock{store.RawMaterials()}, nil, nil)
	_, err = failing.GetProductionSuggestion(context.Background())
	require.Error(t, err)
	spans = recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestGetProductionSuggestion_LogDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Out: &buf})
	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), nil, log)

	_, err := uc.GetProductionSuggestion(context.Background())
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, `"items":1`), out)
	assert.True(t, strings.Contains(out, `"total_value":"1500"`), out)
}

func TestGetProductionSuggestion_LogConTraza(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp, err := tracing.NewProvider("produccion-test", "test", recorder)
	require.NoError(t, err)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Out: &buf})
	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), nil, log)

	_, err = uc.GetProductionSuggestion(context.Background())
	require.NoError(t, err)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, buf.String(), `"trace_id":"`+spans[0].SpanContext().TraceID().String()+`"`)
}

func TestGetProductionSuggestionPDF(t *testing.T) {
	store := seedStore()
	gen := &fakePDF{}
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), gen, nil)

	pdf, filename, err := uc.GetProductionSuggestionPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.True(t, strings.HasPrefix(filename, "sugerencia-produccion-"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	require.NotNil(t, gen.got)
	assert.True(t, gen.got.TotalValue.Equal(d("1500")))
}

func TestGetProductionSuggestionPDF_ErrorDelGenerador(t *testing.T) {
	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), &fakePDF{err: errors.New("sin fuentes")}, nil)

	_, _, err := uc.GetProductionSuggestionPDF(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin fuentes")
}

func TestGetProductionSuggestionPDF_SinGenerador(t *testing.T) {
	store := seedStore()
	uc := production.NewSuggestionUseCase(store.Products(), store.RawMaterials(), nil, nil)

	_, _, err := uc.GetProductionSuggestionPDF(context.Background())
	assert.Error(t, err)
}
