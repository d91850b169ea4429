package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "produccion-api", cfg.App.Name)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOG_URL", "file:///tmp/catalogo.yaml")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "file:///tmp/catalogo.yaml", cfg.Storage.CatalogURL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "produccion", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/produccion?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://otro@host/db"
	assert.Equal(t, "postgresql://otro@host/db", c.ConnectionString())
}
