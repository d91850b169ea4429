package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Produccion-api/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew_ProductionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", App: "produccion-api", Out: &buf})

	log.Named("produccion").Info().Str("total", "1500").Msg("sugerencia calculada")

	entry := decode(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "produccion-api", entry["app"])
	assert.Equal(t, "produccion", entry["component"])
	assert.Equal(t, "1500", entry["total"])
	assert.Equal(t, "sugerencia calculada", entry["message"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	log.Debug().Msg("no debe salir")
	log.Info().Msg("tampoco")
	assert.Empty(t, buf.String())

	log.Warn().Msg("sí")
	assert.Contains(t, buf.String(), `"message":"sí"`)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.Level("debug"))
	assert.Equal(t, zerolog.WarnLevel, logger.Level(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, logger.Level(""))
	assert.Equal(t, zerolog.InfoLevel, logger.Level("ruidoso"))
}

func TestWithSpan(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Out: &buf})

	assert.Same(t, log, log.WithSpan(context.Background()), "sin span no agrega campos")

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02},
		SpanID:  trace.SpanID{0x03},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	log.WithSpan(ctx).Info().Msg("con traza")

	entry := decode(t, &buf)
	assert.Equal(t, sc.TraceID().String(), entry["trace_id"])
	assert.Equal(t, sc.SpanID().String(), entry["span_id"])
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() { log.Error().Msg("descartado") })
}
