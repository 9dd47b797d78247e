package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConds_ReutilizaPlaceholder(t *testing.T) {
	var c conds
	c.add("role = ?", "retailer")
	c.add("(name ILIKE ? OR email ILIKE ?)", "%ana%")

	assert.Equal(t, " WHERE role = $1 AND (name ILIKE $2 OR email ILIKE $2)", c.where())
	assert.Equal(t, []any{"retailer", "%ana%"}, c.args)

	limit, args := c.page(20, 40)
	assert.Equal(t, " LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{"retailer", "%ana%", 20, 40}, args)
	assert.Len(t, c.args, 2, "page no altera los args de conteo")
}

func TestConds_SinCondiciones(t *testing.T) {
	var c conds
	assert.Equal(t, "", c.where())
	limit, args := c.page(10, 0)
	assert.Equal(t, " LIMIT $1 OFFSET $2", limit)
	assert.Equal(t, []any{10, 0}, args)
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%para%", likePattern(" para "))
	assert.Equal(t, `%50\%\_x%`, likePattern("50%_x"))
}

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", pgx5URL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", pgx5URL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://x", pgx5URL("pgx5://x"))
}
