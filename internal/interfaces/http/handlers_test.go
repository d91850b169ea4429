package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la API completa sobre el almacenamiento en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *bytes.Buffer) {
	t.Helper()
	store := memory.NewStore()
	var logs bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &logs})

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		RawMaterialUC: usecase.NewRawMaterialUseCase(store.RawMaterials(), store.Products()),
		ProductUC:     usecase.NewProductUseCase(memory.NewTxRunner(store), store.Products()),
		SuggestionUC: production.NewSuggestionUseCase(
			store.Products(), store.RawMaterials(), pdf.NewMarotoPDFGenerator("Test"), log,
		),
	})
	return app, &logs
}

// do lanza la petición con body JSON opcional y devuelve la respuesta.
func do(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createMaterial(t *testing.T, app *fiber.App, name string, stock int64) dto.RawMaterialResponse {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/raw-materials", dto.CreateRawMaterialRequest{
		Name: name, StockQuantity: decimal.NewFromInt(stock),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.RawMaterialResponse](t, resp)
}

func createProduct(t *testing.T, app *fiber.App, name string, value int64, bom ...dto.ProductRawMaterialRequest) dto.ProductResponse {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: name, Value: decimal.NewFromInt(value), RawMaterials: bom,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

func needs(id string, qty int64) dto.ProductRawMaterialRequest {
	return dto.ProductRawMaterialRequest{RawMaterialID: id, RequiredQuantity: decimal.NewFromInt(qty)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Materias primas
// ──────────────────────────────────────────────────────────────────────────────

func TestRawMaterials_CRUD(t *testing.T) {
	app, _ := buildTestApp(t)

	steel := createMaterial(t, app, "Acero", 100)
	assert.NotEmpty(t, steel.ID)

	resp := do(t, app, http.MethodGet, "/api/raw-materials/"+steel.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acero", decode[dto.RawMaterialResponse](t, resp).Name)

	resp = do(t, app, http.MethodPut, "/api/raw-materials/"+steel.ID, `{"stock_quantity": 42.5}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.RawMaterialResponse](t, resp).StockQuantity.Equal(decimal.RequireFromString("42.5")))

	createMaterial(t, app, "Tornillo", 10)
	resp = do(t, app, http.MethodGet, "/api/raw-materials/search?name=TORN", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	found := decode[dto.RawMaterialListResponse](t, resp)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "Tornillo", found.Items[0].Name)

	resp = do(t, app, http.MethodGet, "/api/raw-materials", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.RawMaterialListResponse](t, resp).Total)

	resp = do(t, app, http.MethodDelete, "/api/raw-materials/"+steel.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/raw-materials/"+steel.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRawMaterials_Errores(t *testing.T) {
	app, _ := buildTestApp(t)
	createMaterial(t, app, "Acero", 1)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"json inválido", `{"name":`, fiber.StatusBadRequest, "INVALID_BODY"},
		{"sin nombre", `{"name":"  ","stock_quantity":1}`, fiber.StatusBadRequest, "VALIDATION"},
		{"stock negativo", `{"name":"Cobre","stock_quantity":-1}`, fiber.StatusBadRequest, "VALIDATION"},
		{"duplicado", `{"name":"ACERO","stock_quantity":1}`, fiber.StatusConflict, "DUPLICATE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, app, http.MethodPost, "/api/raw-materials", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestRawMaterials_DeleteEnUsoDevuelve409(t *testing.T) {
	app, _ := buildTestApp(t)
	steel := createMaterial(t, app, "Acero", 1)
	createProduct(t, app, "Mesa", 10, needs(steel.ID, 1))

	resp := do(t, app, http.MethodDelete, "/api/raw-materials/"+steel.ID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUDYBOM(t *testing.T) {
	app, _ := buildTestApp(t)
	steel := createMaterial(t, app, "Acero", 100)
	wood := createMaterial(t, app, "Madera", 50)

	p := createProduct(t, app, "Mesa", 150, needs(steel.ID, 10))
	require.Len(t, p.RawMaterials, 1)

	resp := do(t, app, http.MethodPost, "/api/products/"+p.ID+"/raw-materials", needs(wood.ID, 2))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Len(t, decode[dto.ProductResponse](t, resp).RawMaterials, 2)

	resp = do(t, app, http.MethodPost, "/api/products/"+p.ID+"/raw-materials", needs(wood.ID, 2))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, app, http.MethodPut, "/api/products/"+p.ID+"/raw-materials/"+wood.ID, `{"required_quantity": 3}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, app, http.MethodDelete, "/api/products/"+p.ID+"/raw-materials/"+steel.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodPut, "/api/products/"+p.ID, `{"name":"Mesa grande","value":"175.5"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Mesa grande", updated.Name)
	assert.True(t, updated.Value.Equal(decimal.RequireFromString("175.5")))
	require.Len(t, updated.RawMaterials, 1)
	assert.Equal(t, wood.ID, updated.RawMaterials[0].RawMaterialID)
	assert.True(t, updated.RawMaterials[0].RequiredQuantity.Equal(decimal.NewFromInt(3)))

	resp = do(t, app, http.MethodGet, "/api/products", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.ProductListResponse](t, resp).Total)

	resp = do(t, app, http.MethodDelete, "/api/products/"+p.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = do(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_CreateMateriaPrimaInexistente(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: "Mesa", Value: decimal.NewFromInt(1), RawMaterials: []dto.ProductRawMaterialRequest{needs("nada", 1)},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestProducts_CreateValorNoPositivo(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/products", `{"name":"Mesa","value":0}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Producción
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: A (150) y B (100) comparten acero; A se lleva todo el acero.
func TestProductionSuggestion_PrioridadPorValor(t *testing.T) {
	app, logs := buildTestApp(t)
	steel := createMaterial(t, app, "Acero", 100)
	plastic := createMaterial(t, app, "Plástico", 50)
	a := createProduct(t, app, "Producto A", 150, needs(steel.ID, 10))
	createProduct(t, app, "Producto B", 100, needs(steel.ID, 5), needs(plastic.ID, 2))
	createProduct(t, app, "Sin BOM", 1000)

	resp := do(t, app, http.MethodGet, "/api/production/suggestion", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.ProductionSuggestionResponse](t, resp)

	require.Len(t, out.Items, 1)
	assert.Equal(t, a.ID, out.Items[0].ProductID)
	assert.Equal(t, int64(10), out.Items[0].Quantity)
	assert.True(t, out.TotalValue.Equal(decimal.NewFromInt(1500)))
	assert.Len(t, out.MaterialUsage, 2)

	assert.Contains(t, logs.String(), `"path":"/api/production/suggestion"`)
}

func TestProductionSuggestion_SinProductos(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := do(t, app, http.MethodGet, "/api/production/suggestion", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
	assert.Contains(t, string(raw), `"total_value":"0"`)
}

func TestProductionSuggestion_PDF(t *testing.T) {
	app, _ := buildTestApp(t)
	steel := createMaterial(t, app, "Acero", 100)
	createProduct(t, app, "Producto A", 150, needs(steel.ID, 10))

	resp := do(t, app, http.MethodGet, "/api/production/suggestion/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sugerencia-produccion-")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRequestLogger_NivelSegunStatus(t *testing.T) {
	app, logs := buildTestApp(t)
	resp := do(t, app, http.MethodGet, "/api/products/nada", nil)
	resp.Body.Close()

	out := logs.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"status":404`)
}
