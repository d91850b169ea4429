// Package production contiene el asignador de producción (servicio de dominio puro):
// dado un catálogo de productos con su BOM y el stock de materias primas, decide qué
// fabricar y cuántas unidades, priorizando los productos de mayor valor.
package production

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Item una línea del plan de producción. Quantity siempre es >= 1.
type Item struct {
	ProductID   string
	ProductName string
	UnitValue   decimal.Decimal
	Quantity    int64
	Subtotal    decimal.Decimal // UnitValue * Quantity
}

// Plan resultado de Suggest: líneas en orden de asignación y valor total.
type Plan struct {
	Items      []Item
	TotalValue decimal.Decimal
	consumed   map[string]decimal.Decimal
}

// Consumption devuelve la cantidad consumida por materia prima en el plan.
// El mapa es una copia; modificarlo no afecta al plan.
func (p Plan) Consumption() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.consumed))
	for id, q := range p.consumed {
		out[id] = q
	}
	return out
}

// Suggest calcula el plan de producción greedy:
//  1. descarta productos sin materias primas;
//  2. ordena por valor descendente conservando el orden del catálogo en empates;
//  3. para cada producto fabrica el máximo de unidades enteras que permite el stock restante
//     y descuenta lo consumido de un libro de stock local.
//
// Un producto barato que se queda sin materia prima por uno más caro no se "corrige":
// es el comportamiento esperado. stock no se modifica; los materiales ausentes cuentan como 0.
func Suggest(products []*entity.Product, stock map[string]decimal.Decimal) Plan {
	candidates := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p == nil || len(p.RawMaterials) == 0 {
			continue
		}
		candidates = append(candidates, p)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value.GreaterThan(candidates[j].Value)
	})

	ledger := make(map[string]decimal.Decimal, len(stock))
	for id, q := range stock {
		ledger[id] = q
	}

	plan := Plan{
		Items:      []Item{},
		TotalValue: decimal.Zero,
		consumed:   map[string]decimal.Decimal{},
	}
	for _, p := range candidates {
		units := producible(p, ledger)
		if units < 1 {
			continue
		}
		n := decimal.NewFromInt(units)
		for _, req := range p.RawMaterials {
			if !req.RequiredQuantity.IsPositive() {
				continue
			}
			used := req.RequiredQuantity.Mul(n)
			ledger[req.RawMaterialID] = ledger[req.RawMaterialID].Sub(used)
			plan.consumed[req.RawMaterialID] = plan.consumed[req.RawMaterialID].Add(used)
		}
		subtotal := p.Value.Mul(n)
		plan.Items = append(plan.Items, Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitValue:   p.Value,
			Quantity:    units,
			Subtotal:    subtotal,
		})
		plan.TotalValue = plan.TotalValue.Add(subtotal)
	}
	return plan
}

// maxUnits tope de unidades por producto; cocientes mayores se recortan a MaxInt64.
var maxUnits = decimal.NewFromInt(math.MaxInt64)

// producible unidades enteras de p que caben en el libro de stock.
// Requerimientos con cantidad <= 0 se ignoran; si no queda ninguno válido el resultado es 0.
func producible(p *entity.Product, ledger map[string]decimal.Decimal) int64 {
	units := int64(-1)
	for _, req := range p.RawMaterials {
		if !req.RequiredQuantity.IsPositive() {
			continue
		}
		available := ledger[req.RawMaterialID]
		if !available.IsPositive() {
			return 0
		}
		q, _ := available.QuoRem(req.RequiredQuantity, 0)
		n := int64(math.MaxInt64)
		if q.LessThan(maxUnits) {
			n = q.IntPart()
		}
		if units < 0 || n < units {
			units = n
		}
	}
	if units < 0 {
		return 0
	}
	return units
}
