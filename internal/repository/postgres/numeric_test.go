package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "100000", "8791.59", "7.2500", "-12.5"} {
		d := decimal.RequireFromString(s)

		num, err := decimalToPgNumeric(d)
		require.NoError(t, err)

		assert.True(t, d.Equal(pgNumericToDecimal(num)), "round trip of %s", s)
	}
}

func TestPgNumericToDecimal_Invalid(t *testing.T) {
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{}).IsZero())
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{Valid: true}).IsZero())
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(pgx.ErrNoRows))
	assert.False(t, isNoRows(assert.AnError))
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/finboard?sslmode=disable",
		migrationURL("postgres://u:p@localhost:5432/finboard?sslmode=disable"))
	assert.Equal(t, "pgx5://localhost/finboard", migrationURL("postgresql://localhost/finboard"))
	assert.Equal(t, "pgx5://already", migrationURL("pgx5://already"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "0001_init.up.sql")
	assert.Contains(t, names, "0001_init.down.sql")
}
