// Package tracing configura OpenTelemetry con el exportador stdout.
// Si no se llama a Init, el proveedor global de otel es no-op y los spans no cuestan nada.
package tracing

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jhoicas/Produccion-api"

// ShutdownFunc vacía y cierra el proveedor de trazas.
type ShutdownFunc func(ctx context.Context) error

// Init instala un TracerProvider global con exportador stdout.
// output vacío = os.Stdout; si no, se escribe en ese archivo.
func Init(serviceName, serviceVersion, output string) (ShutdownFunc, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	tp, err := NewProvider(serviceName, serviceVersion, sdktrace.NewBatchSpanProcessor(exporter))
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}, nil
}

// NewProvider construye un TracerProvider con el recurso del servicio y el procesador dado.
// Los tests lo usan con tracetest.SpanRecorder.
func NewProvider(serviceName, serviceVersion string, processor sdktrace.SpanProcessor) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	), nil
}

// StartSpan abre un span interno con el tracer global. Cerrar con EndSpan.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan registra el error (si lo hay) como estado del span y lo cierra.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
