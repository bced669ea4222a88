package airtable_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func date(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_GetByPhone(t *testing.T) {
	_, _, store := newTestStore(t)
	ctx := context.Background()
	repos := store.Repositories()

	c := &entity.Client{FullName: "Awa Koné", Phone: "+2250700000001", Type: "Collègue"}
	require.NoError(t, repos.Clients.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := repos.Clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Awa Koné", got.FullName)
	assert.Equal(t, "Collègue", got.Type)

	// el servidor falso ignora filterByFormula y devuelve el primero
	byPhone, err := repos.Clients.GetByPhone(ctx, "+2250700000001")
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, c.ID, byPhone.ID)

	_, err = repos.Clients.GetByID(ctx, "recNOPE")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLots_CostoUnitarioDerivado(t *testing.T) {
	fake, _, store := newTestStore(t)
	ctx := context.Background()
	repos := store.Repositories()

	l := &entity.Lot{Reference: "LOT-2025-001", SupplierID: "recSUP", PurchaseDate: date(2025, 3, 1),
		Location: entity.PurchaseLocal, Currency: "XOF", GlobalAmount: d(9000), MiscFees: d(1000)}
	require.NoError(t, repos.Lots.Create(ctx, l))

	line := &entity.LotLine{LotID: l.ID, ArticleID: "recART", InitialQuantity: 4,
		BaseUnitCost: d(2000), AllocatedUnitCost: d(2500), DesiredSalePrice: decimal.NewNullDecimal(d(4000))}
	require.NoError(t, repos.Lots.CreateLines(ctx, []*entity.LotLine{line}))
	require.NotEmpty(t, line.ID)
	assert.EqualValues(t, 10000, fake.field("Lignes_Lot", line.ID, "cout_total_article"))

	lines, err := repos.Lots.ListLines(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].AllocatedUnitCost.Equal(d(2500)))
	assert.True(t, lines[0].DesiredSalePrice.Decimal.Equal(d(4000)))
	assert.Equal(t, "recART", lines[0].ArticleID)

	require.NoError(t, repos.Lots.UpdateLineCost(ctx, line.ID, d(3000)))
	got, err := repos.Lots.GetLine(ctx, line.ID)
	require.NoError(t, err)
	assert.True(t, got.AllocatedUnitCost.Equal(d(3000)))

	lot, err := repos.Lots.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, lot.TotalCost().Equal(d(10000)))
	assert.Equal(t, "recSUP", lot.SupplierID)
	assert.Equal(t, date(2025, 3, 1), lot.PurchaseDate)
}

func TestDebts_CalendarioYSaldo(t *testing.T) {
	fake, _, store := newTestStore(t)
	ctx := context.Background()
	repos := store.Repositories()

	debt := &entity.Debt{SaleID: "recVTE", ClientID: "recCLI", InitialAmount: d(30000), RemainingAmount: d(30000),
		Schedule: []entity.Installment{
			{Date: date(2025, 5, 1), Amount: d(15000)},
			{Date: date(2025, 4, 1), Amount: d(15000)},
		},
		CreatedAt: date(2025, 3, 10)}
	require.NoError(t, repos.Debts.Create(ctx, debt))
	assert.Equal(t, `[{"date":"2025-04-01","montant":15000},{"date":"2025-05-01","montant":15000}]`,
		fake.field("Dettes", debt.ID, "echeancier"))

	require.NoError(t, repos.Debts.UpdateRemaining(ctx, debt.ID, d(12000)))

	list, err := repos.Debts.ListByClient(ctx, "recCLI")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].RemainingAmount.Equal(d(12000)))
	require.Len(t, list[0].Schedule, 2)
	assert.Equal(t, date(2025, 4, 1), list[0].Schedule[0].Date)

	other, err := repos.Debts.ListByClient(ctx, "recOTRO")
	require.NoError(t, err)
	assert.Empty(t, other)

	err = repos.Debts.UpdateRemaining(ctx, "recNOPE", d(1))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRelances_MarkSent(t *testing.T) {
	fake, _, store := newTestStore(t)
	ctx := context.Background()
	repos := store.Repositories()

	rl := &entity.Relance{DebtID: "recDET", ClientID: "recCLI", Type: entity.RelanceFirm,
		Channel: entity.ChannelWhatsApp, Message: "Bonjour"}
	require.NoError(t, repos.Relances.Create(ctx, rl))
	assert.Equal(t, "Ferme", fake.field("Relances", rl.ID, "type"))
	assert.Equal(t, entity.RelanceScheduled, fake.field("Relances", rl.ID, "statut"))

	require.NoError(t, repos.Relances.MarkSent(ctx, rl.ID, date(2025, 3, 15)))

	list, err := repos.Relances.ListByDebt(ctx, "recDET")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.RelanceFirm, list[0].Type)
	assert.Equal(t, entity.RelanceSent, list[0].Status)
	require.NotNil(t, list[0].SentAt)
	assert.Equal(t, date(2025, 3, 15), *list[0].SentAt)
}

func TestSales_ListFiltraRango(t *testing.T) {
	_, _, store := newTestStore(t)
	ctx := context.Background()
	repos := store.Repositories()

	for i, day := range []int{2, 10, 20} {
		s := &entity.Sale{Reference: "VTE-" + string(rune('A'+i)), ClientID: "recCLI",
			Date: date(2025, 3, day), TotalAmount: d(1000), AmountPaid: d(1000)}
		require.NoError(t, repos.Sales.Create(ctx, s))
	}

	from, to := date(2025, 3, 5), date(2025, 3, 31)
	list, err := repos.Sales.List(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, date(2025, 3, 20), list[0].Date, "más reciente primero")

	all, err := repos.Sales.List(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Unidad de trabajo con compensación
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_CompensaSiFalla(t *testing.T) {
	fake, _, store := newTestStore(t)
	ctx := context.Background()

	existing := &entity.Debt{ClientID: "recCLI", InitialAmount: d(5000), RemainingAmount: d(5000)}
	require.NoError(t, store.Repositories().Debts.Create(ctx, existing))

	boom := errors.New("fallo simulado")
	err := store.Run(ctx, func(repos repository.Set) error {
		s := &entity.Sale{Reference: "VTE-2025-001", ClientID: "recCLI", Date: date(2025, 3, 15), TotalAmount: d(3000)}
		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		if err := repos.Sales.CreateLines(ctx, []*entity.SaleLine{
			{SaleID: s.ID, ArticleID: "recA", Quantity: 1, UnitPrice: d(3000)},
		}); err != nil {
			return err
		}
		if err := repos.Debts.UpdateRemaining(ctx, existing.ID, d(1000)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Zero(t, fake.count("Ventes"))
	assert.Zero(t, fake.count("Lignes_Vente"))
	assert.EqualValues(t, 5000, fake.field("Dettes", existing.ID, "montant_restant"))
}

func TestRun_FalloDelAlmacenTambienCompensa(t *testing.T) {
	fake, _, store := newTestStore(t)
	ctx := context.Background()
	fake.failOn = func(r *http.Request) int {
		if r.Method == http.MethodPost && r.URL.Path == "/v0/appTEST/Dettes" {
			return http.StatusServiceUnavailable
		}
		return 0
	}

	err := store.Run(ctx, func(repos repository.Set) error {
		s := &entity.Sale{Reference: "VTE-2025-002", ClientID: "recCLI", Date: date(2025, 3, 15), TotalAmount: d(3000)}
		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		return repos.Debts.Create(ctx, &entity.Debt{SaleID: s.ID, ClientID: "recCLI", InitialAmount: d(3000), RemainingAmount: d(3000)})
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.Zero(t, fake.count("Ventes"))
}

func TestRun_ExitoConserva(t *testing.T) {
	fake, _, store := newTestStore(t)
	ctx := context.Background()
	err := store.Run(ctx, func(repos repository.Set) error {
		return repos.Articles.Create(ctx, &entity.Article{Name: "Parfum Oud", Active: true})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.count("Articles"))
}

func TestRun_ContextoCanceladoTrasExitoNoDevuelveError(t *testing.T) {
	fake, _, store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := store.Run(ctx, func(repos repository.Set) error {
		if err := repos.Articles.Create(ctx, &entity.Article{Name: "Parfum Musc", Active: true}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.NoError(t, err, "las escrituras quedaron confirmadas")
	assert.Equal(t, 1, fake.count("Articles"))
}
