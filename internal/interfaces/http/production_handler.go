package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/production"
)

// ProductionHandler expone la sugerencia de producción.
type ProductionHandler struct {
	uc *production.SuggestionUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.SuggestionUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Suggestion godoc
// @Summary      Sugerencia de producción
// @Description  Qué productos fabricar y cuántas unidades con el stock actual, priorizando los de mayor valor.
// @Tags         production
// @Produce      json
// @Success      200  {object}  dto.ProductionSuggestionResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/production/suggestion [get]
func (h *ProductionHandler) Suggestion(c *fiber.Ctx) error {
	out, err := h.uc.GetProductionSuggestion(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SuggestionPDF godoc
// @Summary      Sugerencia de producción en PDF
// @Tags         production
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/production/suggestion/pdf [get]
func (h *ProductionHandler) SuggestionPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.GetProductionSuggestionPDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
