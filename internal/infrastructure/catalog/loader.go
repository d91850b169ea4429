// Package catalog carga un catálogo (materias primas + productos con BOM) desde un archivo YAML.
// La URL se resuelve con afs, así que sirve cualquier esquema soportado (file://, mem://, s3://...).
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/viant/afs"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Catalog resultado de la carga, listo para sembrar un store o correr el asignador.
// Products conserva el orden del archivo (CreatedAt creciente).
type Catalog struct {
	RawMaterials []*entity.RawMaterial
	Products     []*entity.Product
}

// Stock mapa materia prima -> stock disponible.
func (c *Catalog) Stock() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.RawMaterials))
	for _, m := range c.RawMaterials {
		out[m.ID] = m.StockQuantity
	}
	return out
}

// Loader descarga y decodifica catálogos.
type Loader struct {
	fs afs.Service
}

// NewLoader construye el loader. fs nil = afs.New().
func NewLoader(fs afs.Service) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{fs: fs}
}

// Load descarga URL y devuelve el catálogo validado.
func (l *Loader) Load(ctx context.Context, URL string) (*Catalog, error) {
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("catalog: descargar %s: %w", URL, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", URL, err)
	}
	return c, nil
}

// ── Formato YAML ─────────────────────────────────────────────────────────────

type document struct {
	RawMaterials []rawMaterialDoc `yaml:"raw_materials"`
	Products     []productDoc     `yaml:"products"`
}

type rawMaterialDoc struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Stock quantity `yaml:"stock"`
}

type productDoc struct {
	ID       string           `yaml:"id"`
	Name     string           `yaml:"name"`
	Value    quantity         `yaml:"value"`
	Requires []requirementDoc `yaml:"requires"`
}

type requirementDoc struct {
	Material string   `yaml:"material"`
	Quantity quantity `yaml:"quantity"`
}

// quantity decimal exacto leído del escalar YAML tal cual (sin pasar por float64).
type quantity struct {
	decimal.Decimal
	set bool
}

func (q *quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("línea %d: se esperaba un número", node.Line)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("línea %d: número inválido %q", node.Line, node.Value)
	}
	q.Decimal, q.set = v, true
	return nil
}

// Decode decodifica y valida un catálogo YAML. Los errores de validación envuelven domain.ErrInvalidInput.
func Decode(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", domain.ErrInvalidInput, err)
	}

	base := time.Now().UTC()
	fold := cases.Fold()
	c := &Catalog{}

	materials := make(map[string]*entity.RawMaterial, len(doc.RawMaterials))
	names := map[string]struct{}{}
	for i, m := range doc.RawMaterials {
		id, name := strings.TrimSpace(m.ID), strings.TrimSpace(m.Name)
		switch {
		case id == "":
			return nil, invalid("raw_materials[%d]: id es requerido", i)
		case name == "":
			return nil, invalid("raw_materials[%d]: name es requerido", i)
		case !m.Stock.set:
			return nil, invalid("raw_materials[%d]: stock es requerido", i)
		case m.Stock.IsNegative():
			return nil, invalid("raw_materials[%d]: el stock no puede ser negativo", i)
		case !entity.QuantityFits(m.Stock.Decimal):
			return nil, invalid("raw_materials[%d]: stock fuera de rango (< 10^14, máx. %d decimales)", i, entity.QuantityScale)
		}
		if _, dup := materials[id]; dup {
			return nil, invalid("raw_materials[%d]: id repetido %q", i, id)
		}
		key := fold.String(name)
		if _, dup := names[key]; dup {
			return nil, invalid("raw_materials[%d]: nombre repetido %q", i, name)
		}
		names[key] = struct{}{}
		material := &entity.RawMaterial{ID: id, Name: name, StockQuantity: m.Stock.Decimal, CreatedAt: base, UpdatedAt: base}
		materials[id] = material
		c.RawMaterials = append(c.RawMaterials, material)
	}

	ids := map[string]struct{}{}
	names = map[string]struct{}{}
	for i, p := range doc.Products {
		id, name := strings.TrimSpace(p.ID), strings.TrimSpace(p.Name)
		switch {
		case name == "":
			return nil, invalid("products[%d]: name es requerido", i)
		case !p.Value.set || !p.Value.IsPositive():
			return nil, invalid("products[%d]: value debe ser positivo", i)
		case !entity.ValueFits(p.Value.Decimal):
			return nil, invalid("products[%d]: value fuera de rango (< 10^16, máx. %d decimales)", i, entity.ValueScale)
		}
		if id == "" {
			id = derivedID("product", fold.String(name))
		}
		if _, dup := ids[id]; dup {
			return nil, invalid("products[%d]: id repetido %q", i, id)
		}
		ids[id] = struct{}{}
		key := fold.String(name)
		if _, dup := names[key]; dup {
			return nil, invalid("products[%d]: nombre repetido %q", i, name)
		}
		names[key] = struct{}{}

		// CreatedAt creciente para que el orden de catálogo del store coincida con el del archivo.
		created := base.Add(time.Duration(i) * time.Microsecond)
		product := &entity.Product{ID: id, Name: name, Value: p.Value.Decimal, CreatedAt: created, UpdatedAt: created}
		for j, r := range p.Requires {
			material, ok := materials[strings.TrimSpace(r.Material)]
			switch {
			case !ok:
				return nil, fmt.Errorf("%w: products[%d].requires[%d]: materia prima desconocida %q", domain.ErrNotFound, i, j, r.Material)
			case !r.Quantity.set || !r.Quantity.IsPositive():
				return nil, invalid("products[%d].requires[%d]: quantity debe ser positiva", i, j)
			case !entity.QuantityFits(r.Quantity.Decimal):
				return nil, invalid("products[%d].requires[%d]: quantity fuera de rango (< 10^14, máx. %d decimales)", i, j, entity.QuantityScale)
			}
			if _, dup := product.RequirementFor(material.ID); dup {
				return nil, invalid("products[%d].requires[%d]: materia prima repetida %q", i, j, material.ID)
			}
			product.RawMaterials = append(product.RawMaterials, entity.ProductRawMaterial{
				ID:               derivedID("requirement", id+"/"+material.ID),
				ProductID:        id,
				RawMaterialID:    material.ID,
				RawMaterialName:  material.Name,
				RequiredQuantity: r.Quantity.Decimal,
			})
		}
		c.Products = append(c.Products, product)
	}
	return c, nil
}

// idNamespace espacio de nombres para los ids derivados (UUID v5): el mismo archivo produce siempre los mismos ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("github.com/jhoicas/Produccion-api/catalog"))

func derivedID(kind, key string) string {
	return uuid.NewSHA1(idNamespace, []byte(kind+":"+key)).String()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}
