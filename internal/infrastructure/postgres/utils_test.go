package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Produccion-api/internal/domain"
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError("op", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, mapError("op", &pgconn.PgError{Code: "23503"}), domain.ErrConflict)
	assert.ErrorIs(t, mapError("op", &pgconn.PgError{Code: "23514"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, mapError("update raw material", &pgconn.PgError{Code: "22003"}), domain.ErrInvalidInput)

	other := errors.New("conexión cerrada")
	err := mapError("insert product", other)
	assert.ErrorIs(t, err, other)
	assert.Equal(t, "insert product: conexión cerrada", err.Error())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
	assert.Equal(t, "acero", escapeLike("acero"))
}

func TestMigrationNames_Ordenados(t *testing.T) {
	names, err := migrationNames()
	assert.NoError(t, err)
	assert.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("6f1c2a3e-9b7d-4c1e-8a2f-0d3b5e7f9a11"))
	assert.False(t, validID("steel"))
	assert.False(t, validID(""))
}
