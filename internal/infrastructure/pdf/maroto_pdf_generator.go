// Package pdf genera el reporte PDF de la sugerencia de producción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa      │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Valor unit. | Cant. | Subtotal        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: Valor total de la producción                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONSUMO: Materia prima | Disponible | Usado | Restante      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	appproduction "github.com/jhoicas/Produccion-api/internal/application/production"
)

var _ appproduction.SuggestionPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa production.SuggestionPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
}

// NewMarotoPDFGenerator construye el generador. company aparece en el encabezado.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company}
}

// GenerateSuggestionPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSuggestionPDF(_ context.Context, s *dto.ProductionSuggestionResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Sugerencia de producción", true).
		WithAuthor(nonEmpty(g.company, "Produccion API"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s, g.company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Plan
	m.AddRows(tableHeaderRow())
	if len(s.Items) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Con el stock actual no es posible fabricar ningún producto.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}
	m.AddRows(itemRows(s.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(s.TotalValue))

	// Consumo de materias primas
	if len(s.MaterialUsage) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(usageHeaderRows()...)
		m.AddRows(usageRows(s.MaterialUsage)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + empresa (izq) y fecha de generación (der).
func headerRow(s *dto.ProductionSuggestionResponse, company string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("SUGERENCIA DE PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(company, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generada: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d producto(s) sugerido(s)", len(s.Items)), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla del plan.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Valor unit.", 2, align.Right),
		h("Cant.", 1, align.Center),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// itemRows: una fila por producto del plan, en orden de prioridad.
func itemRows(items []dto.ProductionItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatDecimal(it.ProductValue),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				strconv.FormatInt(it.Quantity, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatDecimal(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: valor total alineado a la derecha.
func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("VALOR TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatDecimal(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func usageHeaderRows() []core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CONSUMO DE MATERIAS PRIMAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(6).Add(
			h("Materia prima", 6, align.Left),
			h("Disponible", 2, align.Right),
			h("Usado", 2, align.Right),
			h("Restante", 2, align.Right),
		),
	}
}

func usageRows(usage []dto.MaterialUsageResponse) []core.Row {
	result := make([]core.Row, 0, len(usage))
	for _, u := range usage {
		cell := func(v decimal.Decimal) core.Col {
			return col.New(2).Add(text.New(v.String(), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray,
			}))
		}
		result = append(result, row.New(6).Add(
			col.New(6).Add(text.New(nonEmpty(u.RawMaterialName, u.RawMaterialID), props.Text{
				Size: 8, Top: 1, Left: 1,
			})),
			cell(u.Available),
			cell(u.Used),
			cell(u.Remaining),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatDecimal formato colombiano: puntos de miles y coma decimal (2 decimales si hay fracción).
// Ej: 1500 → "1.500", 22.5 → "22,50", -1234567.891 → "-1.234.567,89"
func formatDecimal(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	if v.Equal(v.Truncate(0)) {
		return sign + formatMoney(v.StringFixed(0))
	}
	s := v.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + formatMoney(intPart) + "," + frac
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
