package postgres

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"postgres://andy:p%40ss@db:5432/shop?sslmode=disable", "pgx5://andy:p%40ss@db:5432/shop?sslmode=disable", false},
		{"postgresql://u@localhost/shop", "pgx5://u@localhost/shop", false},
		{"mysql://u@localhost/shop", "", true},
	}
	for _, tc := range tests {
		got, err := migrateURL(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestMigraciones_EmbebidasEnPares(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs, "cada migración up necesita su down")

	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestWrap_TraduceErrores(t *testing.T) {
	err := wrap("get debt", "deuda", "d1", pgx.ErrNoRows)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = wrap("insert client", "cliente", "c1", &pgconn.PgError{Code: "23505"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	err = affected(pgconn.NewCommandTag("UPDATE 0"), "deuda", "d1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, affected(pgconn.NewCommandTag("UPDATE 1"), "deuda", "d1"))
}
