package lot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/lot"
	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/reference"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

var now = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uc       *lot.UseCase
	store    *memory.Store
	supplier *entity.Supplier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	sup := &entity.Supplier{Name: "Dubaï Parfums", Country: "EAU"}
	require.NoError(t, repos.Suppliers.Create(ctx, sup))
	for _, id := range []string{"art-a", "art-b"} {
		require.NoError(t, repos.Articles.Create(ctx, &entity.Article{ID: id, Name: "Article " + id, Active: true}))
	}

	clk := clock.Fixed{T: now}
	refs := reference.NewGenerator(clk).WithSeed(func() int64 { return 7 })
	uc := lot.NewUseCase(store, repos, refs, clk, "XOF", 5, zerolog.Nop())
	return fixture{uc: uc, store: store, supplier: sup}
}

func lotRequest(supplierID string) dto.CreateLotRequest {
	return dto.CreateLotRequest{
		SupplierID:   supplierID,
		PurchaseDate: "2025-03-01",
		Location:     entity.PurchaseForeign,
		GlobalAmount: d(100000),
		MiscFees:     d(10000),
		Lines: []dto.LotLineRequest{
			{ArticleID: "art-a", Quantity: 10, BaseUnitCost: d(500), DesiredSalePrice: dp(9000)},
			{ArticleID: "art-b", Quantity: 5, BaseUnitCost: d(1000)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// PreviewAllocation
// ──────────────────────────────────────────────────────────────────────────────

func TestPreviewAllocation_NoPersiste(t *testing.T) {
	f := newFixture(t)
	req := lotRequest(f.supplier.ID)

	out, err := f.uc.PreviewAllocation(context.Background(), dto.AllocationPreviewRequest{
		GlobalAmount: req.GlobalAmount, MiscFees: req.MiscFees, Lines: req.Lines,
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.True(t, out.Lines[0].AllocatedUnitCost.Equal(d(5500)))
	assert.True(t, out.Lines[1].AllocatedUnitCost.Equal(d(11000)))
	assert.Equal(t, "art-b", out.Lines[1].ArticleID)
	assert.True(t, out.Drift.IsZero())

	lots, err := f.uc.ListLots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestPreviewAllocation_ConCorreccionManual(t *testing.T) {
	f := newFixture(t)
	req := lotRequest(f.supplier.ID)
	req.Lines[0].UnitCostOverride = dp(5600)

	out, err := f.uc.PreviewAllocation(context.Background(), dto.AllocationPreviewRequest{
		GlobalAmount: req.GlobalAmount, MiscFees: req.MiscFees, Lines: req.Lines,
	})
	require.NoError(t, err)
	assert.True(t, out.Lines[0].Overridden)
	assert.True(t, out.Drift.Equal(d(1000)), "drift %s", out.Drift)
}

func TestPreviewAllocation_MontoNegativo(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.PreviewAllocation(context.Background(), dto.AllocationPreviewRequest{GlobalAmount: d(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateLot
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateLot_PersisteLoteYLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.CreateLot(ctx, lotRequest(f.supplier.ID))
	require.NoError(t, err)
	assert.Equal(t, "LOT-2025-007", out.Reference)
	assert.Equal(t, "2025-03-01", out.PurchaseDate)
	assert.Equal(t, "XOF", out.Currency)
	assert.True(t, out.TotalCost.Equal(d(110000)))
	require.Len(t, out.Lines, 2)
	require.NotNil(t, out.Lines[0].DesiredSalePrice)
	assert.Nil(t, out.Lines[1].DesiredSalePrice)
	require.NotNil(t, out.Drift)
	assert.True(t, out.Drift.IsZero())

	got, err := f.uc.GetLot(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].AllocatedUnitCost.Equal(d(5500)))
	assert.True(t, got.Lines[1].AllocatedTotalCost.Equal(d(55000)))
}

func TestCreateLot_ProveedorInexistenteNoEscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateLot(ctx, lotRequest("no-existe"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	lines, err := f.store.Repositories().Lots.ListAllLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCreateLot_FalloAlmacenRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	down := errors.New("almacén caído")
	f.store.FailOn = func(op string) error {
		if op == "lots.create_lines" {
			return down
		}
		return nil
	}

	_, err := f.uc.CreateLot(ctx, lotRequest(f.supplier.ID))
	require.ErrorIs(t, err, down)

	f.store.FailOn = nil
	lots, err := f.uc.ListLots(ctx)
	require.NoError(t, err)
	assert.Empty(t, lots, "el lote sin líneas no debe quedar guardado")
}

func TestCreateLot_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]func(r *dto.CreateLotRequest){
		"sin proveedor":       func(r *dto.CreateLotRequest) { r.SupplierID = "" },
		"sin líneas":          func(r *dto.CreateLotRequest) { r.Lines = nil },
		"cantidad cero":       func(r *dto.CreateLotRequest) { r.Lines[0].Quantity = 0 },
		"sin artículo":        func(r *dto.CreateLotRequest) { r.Lines[1].ArticleID = " " },
		"gastos negativos":    func(r *dto.CreateLotRequest) { r.MiscFees = d(-5) },
		"fecha inválida":      func(r *dto.CreateLotRequest) { r.PurchaseDate = "01/03/2025" },
		"costo base negativo": func(r *dto.CreateLotRequest) { r.Lines[0].BaseUnitCost = d(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := lotRequest(f.supplier.ID)
			mutate(&req)
			_, err := f.uc.CreateLot(ctx, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateLot_SinCostosBaseRepartePorUnidad(t *testing.T) {
	f := newFixture(t)
	req := lotRequest(f.supplier.ID)
	req.GlobalAmount = d(10000)
	req.MiscFees = d(0)
	req.Lines = []dto.LotLineRequest{
		{ArticleID: "art-a", Quantity: 1},
		{ArticleID: "art-b", Quantity: 2},
	}

	out, err := f.uc.CreateLot(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, out.Lines[0].AllocatedUnitCost.Equal(d(3333)))
	assert.True(t, out.Lines[1].AllocatedUnitCost.Equal(d(3333)))
	// Se guarda el costo unitario redondeado: 3333 + 2×3333 deja un drift de −1.
	assert.True(t, out.Lines[1].AllocatedTotalCost.Equal(d(6666)), "total %s", out.Lines[1].AllocatedTotalCost)
	require.NotNil(t, out.Drift)
	assert.True(t, out.Drift.Equal(d(-1)), "drift %s", out.Drift)
}

func TestCreateLot_DriftCoincideConGetLot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := lotRequest(f.supplier.ID)
	req.GlobalAmount = d(10000)
	req.MiscFees = d(0)
	req.Lines = []dto.LotLineRequest{
		{ArticleID: "art-a", Quantity: 1},
		{ArticleID: "art-b", Quantity: 2},
	}

	created, err := f.uc.CreateLot(ctx, req)
	require.NoError(t, err)
	got, err := f.uc.GetLot(ctx, created.ID)
	require.NoError(t, err)

	require.NotNil(t, created.Drift)
	require.NotNil(t, got.Drift)
	assert.True(t, created.Drift.Equal(*got.Drift), "create %s, get %s", created.Drift, got.Drift)
	require.Len(t, got.Lines, 2)
	for i := range got.Lines {
		assert.True(t, created.Lines[i].AllocatedTotalCost.Equal(got.Lines[i].AllocatedTotalCost))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// OverrideLineCost y valorización
// ──────────────────────────────────────────────────────────────────────────────

func TestOverrideLineCost_ActualizaDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.CreateLot(ctx, lotRequest(f.supplier.ID))
	require.NoError(t, err)

	line, err := f.uc.OverrideLineCost(ctx, created.Lines[0].ID, dto.OverrideLineCostRequest{UnitCost: d(5600)})
	require.NoError(t, err)
	assert.True(t, line.AllocatedTotalCost.Equal(d(56000)))

	got, err := f.uc.GetLot(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Drift.Equal(d(1000)))
}

func TestOverrideLineCost_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.OverrideLineCost(ctx, "x", dto.OverrideLineCostRequest{UnitCost: d(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.OverrideLineCost(ctx, "x", dto.OverrideLineCostRequest{UnitCost: d(10)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockValuation_DescuentaVentas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.CreateLot(ctx, lotRequest(f.supplier.ID))
	require.NoError(t, err)

	repos := f.store.Repositories()
	require.NoError(t, repos.Sales.CreateLines(ctx, []*entity.SaleLine{
		{SaleID: "s1", ArticleID: "art-a", LotLineID: created.Lines[0].ID, Quantity: 7, UnitPrice: d(9000)},
		{SaleID: "s1", ArticleID: "art-b", Quantity: 5, UnitPrice: d(15000)},
	}))

	out, err := f.uc.StockValuation(ctx)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	a := out.Items[0]
	assert.Equal(t, "art-a", a.ArticleID)
	assert.Equal(t, "Article art-a", a.ArticleName)
	assert.Equal(t, 3, a.Remaining)
	assert.True(t, a.StockValue.Equal(d(16500)))
	assert.Equal(t, "low", a.Level)

	assert.Equal(t, "out", out.Items[1].Level)
	assert.Equal(t, 1, out.LowCount)
	assert.Equal(t, 1, out.OutCount)
	assert.True(t, out.TotalValue.Equal(d(16500)))
}
