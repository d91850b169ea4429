// Command suggest calcula la sugerencia de producción sobre un catálogo YAML sin levantar la API.
//
//	suggest --catalog file:///ruta/catalogo.yaml [--format json|table] [--pdf file:///tmp/plan.pdf]
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	domprod "github.com/jhoicas/Produccion-api/internal/domain/production"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/catalog"
	infrapdf "github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

type options struct {
	catalogURL string
	format     string
	pdfURL     string
	company    string
}

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "info", Out: os.Stderr})
	if err := run(context.Background(), afs.New(), os.Args[1:], os.Stdout, time.Now()); err != nil {
		log.Fatal().Err(err).Msg("suggest")
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("suggest", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&opts.catalogURL, "catalog", "c", "", "URL del catálogo YAML (file://, mem://, ...)")
	fs.StringVarP(&opts.format, "format", "f", formatTable, "salida: json | table")
	fs.StringVar(&opts.pdfURL, "pdf", "", "URL destino del reporte PDF (opcional)")
	fs.StringVar(&opts.company, "company", "Produccion", "nombre para el encabezado del PDF")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.catalogURL == "" {
		return nil, fmt.Errorf("--catalog es obligatorio")
	}
	if opts.format != formatJSON && opts.format != formatTable {
		return nil, fmt.Errorf("--format inválido: %q (json | table)", opts.format)
	}
	return opts, nil
}

func run(ctx context.Context, fs afs.Service, args []string, out io.Writer, now time.Time) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cat, err := catalog.NewLoader(fs).Load(ctx, opts.catalogURL)
	if err != nil {
		return err
	}
	stock := cat.Stock()
	plan := domprod.Suggest(cat.Products, stock)
	resp := production.ToSuggestionResponse(plan, cat.Products, stock, now)

	if opts.pdfURL != "" {
		pdfBytes, err := infrapdf.NewMarotoPDFGenerator(opts.company).GenerateSuggestionPDF(ctx, resp)
		if err != nil {
			return err
		}
		if err := fs.Upload(ctx, opts.pdfURL, file.DefaultFileOsMode, bytes.NewReader(pdfBytes)); err != nil {
			return fmt.Errorf("subir PDF a %s: %w", opts.pdfURL, err)
		}
	}

	if opts.format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return writeTable(out, resp)
}

func writeTable(out io.Writer, resp *dto.ProductionSuggestionResponse) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCTO\tVALOR\tCANTIDAD\tSUBTOTAL")
	for _, it := range resp.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", it.ProductName, it.ProductValue.String(), it.Quantity, it.Subtotal.String())
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", resp.TotalValue.String())
	if len(resp.MaterialUsage) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "MATERIA PRIMA\tDISPONIBLE\tUSADO\tRESTANTE")
		for _, u := range resp.MaterialUsage {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.RawMaterialName, u.Available.String(), u.Used.String(), u.Remaining.String())
		}
	}
	return tw.Flush()
}
