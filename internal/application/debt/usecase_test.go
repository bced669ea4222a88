package debt_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/application/debt"
	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/reference"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/messaging"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

var now = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	uc    *debt.UseCase
	store *memory.Store
}

// Cliente c1 con tres deudas:
//   - d1 (enero, 30000): una cuota vencida el 01/03 → overdue, 14 días
//   - d2 (febrero, 20000): cuota el 10/04 → active
//   - d3 saldada
func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	require.NoError(t, repos.Clients.Create(ctx, &entity.Client{ID: "c1", FullName: "Awa Koné", Phone: "+2250708091011"}))
	require.NoError(t, repos.Clients.Create(ctx, &entity.Client{ID: "c2", FullName: "Bintou", Phone: "+2250102030405"}))
	for _, dt := range []*entity.Debt{
		{
			ID: "d1", ClientID: "c1", SaleID: "s1", InitialAmount: d(40000), RemainingAmount: d(30000),
			Schedule:  []entity.Installment{{Date: day(2025, 3, 1), Amount: d(15000)}, {Date: day(2025, 4, 1), Amount: d(15000)}},
			CreatedAt: day(2025, 1, 10),
		},
		{
			ID: "d2", ClientID: "c1", SaleID: "s2", InitialAmount: d(20000), RemainingAmount: d(20000),
			Schedule:  []entity.Installment{{Date: day(2025, 4, 10), Amount: d(20000)}},
			CreatedAt: day(2025, 2, 20),
		},
		{ID: "d3", ClientID: "c1", InitialAmount: d(5000), RemainingAmount: d(0), CreatedAt: day(2024, 12, 1)},
		{ID: "d4", ClientID: "c2", InitialAmount: d(5000), RemainingAmount: d(5000), CreatedAt: day(2025, 3, 1)},
	} {
		require.NoError(t, repos.Debts.Create(ctx, dt))
	}

	clk := clock.Fixed{T: now}
	refs := reference.NewGenerator(clk).WithSeed(func() int64 { return 42 })
	composer := messaging.NewComposer("AndyShop", "XOF", "+225")
	uc := debt.NewUseCase(store, repos, nil, composer, refs, clk, zerolog.Nop())
	return fixture{uc: uc, store: store}
}

// ──────────────────────────────────────────────────────────────────────────────
// Vistas de deuda
// ──────────────────────────────────────────────────────────────────────────────

func TestListDebts_FiltraPorEstadoDerivado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	overdue, err := f.uc.ListDebts(ctx, dto.ListDebtsRequest{Status: "overdue"})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "d1", overdue[0].ID)

	settled, err := f.uc.ListDebts(ctx, dto.ListDebtsRequest{Status: "settled", ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, "d3", settled[0].ID)

	all, err := f.uc.ListDebts(ctx, dto.ListDebtsRequest{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "d3", all[0].ID, "orden por fecha de creación")

	_, err = f.uc.ListDebts(ctx, dto.ListDebtsRequest{Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetDebt_VistasDerivadas(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.GetDebt(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "overdue", out.Status)
	require.NotNil(t, out.NextInstallment)
	assert.Equal(t, "2025-04-01", out.NextInstallment.Date)
	require.Len(t, out.OverdueInstallments, 1)
	assert.Equal(t, "2025-03-01", out.OverdueInstallments[0].Date)
	assert.Equal(t, 14, out.DaysOverdue)
	assert.True(t, out.Paid.Equal(d(10000)))

	settled, err := f.uc.GetDebt(context.Background(), "d3")
	require.NoError(t, err)
	assert.Nil(t, settled.NextInstallment)
	assert.NotNil(t, settled.Schedule)
	assert.Empty(t, settled.OverdueInstallments)

	_, err = f.uc.GetDebt(context.Background(), "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDebtSummary(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.DebtSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, out.OpenTotal.Equal(d(55000)))
	assert.Equal(t, 3, out.OpenCount)
	assert.Equal(t, 1, out.OverdueCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPayment_RepartePorAntiguedad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.RecordPayment(ctx, dto.RecordPaymentRequest{ClientID: "c1", Amount: d(35000), Method: "mobile money"})
	require.NoError(t, err)
	assert.Equal(t, "PAY-2025-042", out.Reference)
	assert.Equal(t, entity.PaymentMobileMoney, out.Method)
	assert.True(t, out.NewBalance.Equal(d(15000)))
	require.Len(t, out.Allocations, 2)
	assert.Equal(t, "d1", out.Allocations[0].DebtID)
	assert.True(t, out.Allocations[0].Remaining.IsZero())
	assert.True(t, out.Allocations[1].Amount.Equal(d(5000)))

	d1, err := f.uc.GetDebt(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "settled", d1.Status)
	d2, err := f.uc.GetDebt(ctx, "d2")
	require.NoError(t, err)
	assert.True(t, d2.RemainingAmount.Equal(d(15000)))

	require.NotNil(t, out.Receipt)
	assert.Contains(t, out.Receipt.Text, "35 000 XOF")
	assert.Contains(t, out.Receipt.Text, "Nouveau solde : 15 000 XOF")
	assert.Contains(t, out.Receipt.Text, "Vente du 10/01/2025")
	assert.True(t, strings.HasPrefix(out.Receipt.Link, "https://wa.me/2250708091011?text="))

	history, err := f.uc.ClientPayments(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, out.ID, history[0].ID)
}

func TestRecordPayment_SuperaSaldoNoEscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordPayment(ctx, dto.RecordPaymentRequest{ClientID: "c1", Amount: d(50001)})
	require.ErrorIs(t, err, domain.ErrPaymentExceedsDebt)

	d1, err := f.uc.GetDebt(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, d1.RemainingAmount.Equal(d(30000)))

	history, err := f.uc.ClientPayments(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordPayment_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordPayment(ctx, dto.RecordPaymentRequest{ClientID: "c1", Amount: d(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordPayment(ctx, dto.RecordPaymentRequest{ClientID: "c1", Amount: d(10), Method: "chèque"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordPayment(ctx, dto.RecordPaymentRequest{ClientID: "c1", Amount: d(10), Date: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordPayment(ctx, dto.RecordPaymentRequest{ClientID: "nadie", Amount: d(10)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordPayment_SinDeudasAbiertas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Repositories().Clients.Create(ctx, &entity.Client{ID: "c3", FullName: "Sans dette", Phone: "+2250000000000"}))

	_, err := f.uc.RecordPayment(ctx, dto.RecordPaymentRequest{ClientID: "c3", Amount: d(1000)})
	assert.ErrorIs(t, err, domain.ErrNoOpenDebt)
}

func TestUploadProof_SinAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.UploadProof(context.Background(), ports.Image{Name: "recu.jpg"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Relances
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggestRelanceType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	typ, err := f.uc.SuggestRelanceType(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.RelanceFirm, typ)

	typ, err = f.uc.SuggestRelanceType(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, entity.RelanceAmicable, typ)
}

func TestSendRelance_FirmePorDefecto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.SendRelance(ctx, dto.RelanceRequest{ClientID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "firm", out.Type)
	assert.Equal(t, entity.RelanceSent, out.Status)
	assert.Equal(t, "d1", out.DebtID)
	require.NotNil(t, out.SentAt)
	assert.True(t, out.SentAt.Equal(now))
	assert.Contains(t, out.Message, "Retard : 14 jours")
	assert.Contains(t, out.Message, "Total à régler : 50 000 XOF")
	assert.True(t, strings.HasPrefix(out.Link, "https://wa.me/2250708091011?text="))

	history, err := f.uc.ListRelances(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.RelanceSent, history[0].Status)
}

func TestSendRelance_EcheanceYSMS(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.SendRelance(ctx, dto.RelanceRequest{ClientID: "c1", Type: "due-date", Channel: "sms"})
	require.NoError(t, err)
	assert.Equal(t, entity.ChannelSMS, out.Channel)
	assert.Equal(t, "d1", out.DebtID)
	assert.Contains(t, out.Message, "01/04/2025")
	assert.Contains(t, out.Message, "15 000 XOF")
	assert.Empty(t, out.Link)
}

func TestBuildRelance_NoPersiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.BuildRelance(ctx, dto.RelanceRequest{ClientID: "c1", DebtID: "d2", Type: "amicable"})
	require.NoError(t, err)
	assert.Equal(t, "d2", out.DebtID)
	assert.Equal(t, entity.RelanceScheduled, out.Status)
	assert.Contains(t, out.Message, "Total à régler : 20 000 XOF")

	history, err := f.uc.ListRelances(ctx, "d2")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBuildRelance_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.BuildRelance(ctx, dto.RelanceRequest{ClientID: "c1", DebtID: "d4"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.BuildRelance(ctx, dto.RelanceRequest{ClientID: "c1", DebtID: "d3"})
	assert.ErrorIs(t, err, domain.ErrNoOpenDebt)

	_, err = f.uc.BuildRelance(ctx, dto.RelanceRequest{ClientID: "c1", Channel: "pigeon"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.BuildRelance(ctx, dto.RelanceRequest{ClientID: "c2", Type: "due-date"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "d4 no tiene cuotas futuras")
}
