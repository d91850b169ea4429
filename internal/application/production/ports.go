package production

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

// SuggestionPDFGenerator puerto de salida para renderizar la sugerencia de producción en PDF.
// La implementación vive en infrastructure/pdf (Maroto v2).
type SuggestionPDFGenerator interface {
	GenerateSuggestionPDF(ctx context.Context, suggestion *dto.ProductionSuggestionResponse) ([]byte, error)
}
