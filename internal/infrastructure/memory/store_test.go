package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/memory"
)

var errFallo = errors.New("fallo del caso de uso")

// ──────────────────────────────────────────────────────────────────────────────
// Run: confirmación y cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_ContextoCanceladoTrasExitoConfirma(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Run(ctx, func(repos repository.Set) error {
		if err := repos.Suppliers.Create(ctx, &entity.Supplier{ID: "sup-1", Name: "Dubaï Parfums"}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.NoError(t, err, "fn terminó bien: lo escrito queda confirmado")

	_, err = store.Repositories().Suppliers.GetByID(context.Background(), "sup-1")
	assert.NoError(t, err)
}

func TestRun_ContextoCanceladoAntesNoEjecuta(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Run(ctx, func(repository.Set) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Run: reversión
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_FalloDeshaceSusEscrituras(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Debts.Create(ctx, &entity.Debt{
		ID: "debt-1", ClientID: "cli-1", InitialAmount: decimal.NewFromInt(50000), RemainingAmount: decimal.NewFromInt(50000),
	}))

	err := store.Run(ctx, func(tx repository.Set) error {
		if err := tx.Debts.UpdateRemaining(ctx, "debt-1", decimal.NewFromInt(20000)); err != nil {
			return err
		}
		if err := tx.Debts.UpdateRemaining(ctx, "debt-1", decimal.NewFromInt(0)); err != nil {
			return err
		}
		if err := tx.Clients.Create(ctx, &entity.Client{ID: "cli-2", FullName: "Awa Diop"}); err != nil {
			return err
		}
		return errFallo
	})
	require.ErrorIs(t, err, errFallo)

	d, err := repos.Debts.GetByID(ctx, "debt-1")
	require.NoError(t, err)
	assert.True(t, d.RemainingAmount.Equal(decimal.NewFromInt(50000)), "saldo %s", d.RemainingAmount)

	_, err = repos.Clients.GetByID(ctx, "cli-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	clients, err := repos.Clients.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestRun_FalloConservaEscriturasAjenas(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	outside := store.Repositories()

	err := store.Run(ctx, func(tx repository.Set) error {
		if err := tx.Suppliers.Create(ctx, &entity.Supplier{ID: "sup-tx", Name: "Proveedor en transacción"}); err != nil {
			return err
		}
		// Escritura concurrente por los repositorios comunes, como hace el catálogo.
		if err := outside.Articles.Create(ctx, &entity.Article{ID: "art-1", Name: "Oud Royal", Active: true}); err != nil {
			return err
		}
		return errFallo
	})
	require.ErrorIs(t, err, errFallo)

	_, err = outside.Articles.GetByID(ctx, "art-1")
	assert.NoError(t, err, "el artículo creado fuera de la transacción debe sobrevivir")
	_, err = outside.Suppliers.GetByID(ctx, "sup-tx")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRun_FailOnRevierteLoAnterior(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	down := errors.New("almacén caído")
	store.FailOn = func(op string) error {
		if op == "lots.create_lines" {
			return down
		}
		return nil
	}

	err := store.Run(ctx, func(tx repository.Set) error {
		if err := tx.Lots.Create(ctx, &entity.Lot{ID: "lot-1"}); err != nil {
			return err
		}
		return tx.Lots.CreateLines(ctx, []*entity.LotLine{{LotID: "lot-1", ArticleID: "art-1", InitialQuantity: 1}})
	})
	require.ErrorIs(t, err, down)

	store.FailOn = nil
	lots, err := store.Repositories().Lots.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, lots)
}
