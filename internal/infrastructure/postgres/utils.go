package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Produccion-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOverflow     = "22003"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError traduce violaciones de constraints a errores de dominio; el resto se envuelve con op.
func mapError(op string, err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, op)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, op)
	case codeCheckViolation, codeNumericOverflow:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapa comodines de LIKE/ILIKE para buscar el término literal.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// validID las columnas id son UUID; un id mal formado no puede existir y se trata como "no encontrado".
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
