package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RawMaterialUC *usecase.RawMaterialUseCase
	ProductUC     *usecase.ProductUseCase
	SuggestionUC  *production.SuggestionUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Raw materials
	materials := api.Group("/raw-materials")
	materialHandler := NewRawMaterialHandler(deps.RawMaterialUC)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/search", materialHandler.Search)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)

	// Products + BOM
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/raw-materials", productHandler.AddRawMaterial)
	products.Put("/:id/raw-materials/:rawMaterialId", productHandler.UpdateRawMaterial)
	products.Delete("/:id/raw-materials/:rawMaterialId", productHandler.RemoveRawMaterial)

	// Production
	prod := api.Group("/production")
	productionHandler := NewProductionHandler(deps.SuggestionUC)
	prod.Get("/suggestion", productionHandler.Suggestion)
	prod.Get("/suggestion/pdf", productionHandler.SuggestionPDF)
}
