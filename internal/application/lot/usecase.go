package lot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/costing"
	"github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/reference"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

// UseCase casos de uso de lotes: previsualizar y crear el reparto de costos, corregir
// costos de línea y valorizar el stock.
type UseCase struct {
	txRunner          ports.TxRunner
	repos             repository.Set
	refs              *reference.Generator
	clock             clock.Clock
	currency          string
	lowStockThreshold int
	log               zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	repos repository.Set,
	refs *reference.Generator,
	clk clock.Clock,
	currency string,
	lowStockThreshold int,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:          txRunner,
		repos:             repos,
		refs:              refs,
		clock:             clk,
		currency:          currency,
		lowStockThreshold: lowStockThreshold,
		log:               log,
	}
}

// PreviewAllocation calcula el reparto sin escribir nada.
func (uc *UseCase) PreviewAllocation(ctx context.Context, req dto.AllocationPreviewRequest) (*dto.AllocationPreviewDTO, error) {
	if err := validateAmounts(req.GlobalAmount, req.MiscFees); err != nil {
		return nil, err
	}
	if err := validateLines(req.Lines, false); err != nil {
		return nil, err
	}
	alloc, err := allocate(req.GlobalAmount, req.MiscFees, req.Lines)
	if err != nil {
		return nil, err
	}
	out := toPreviewDTO(alloc, req.Lines)
	return &out, nil
}

// CreateLot valida, reparte y persiste el lote y sus líneas en una sola unidad de trabajo.
// Si el reparto falla no se escribe nada.
func (uc *UseCase) CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotDTO, error) {
	if strings.TrimSpace(req.SupplierID) == "" {
		return nil, domain.NewValidationError("supplier_id", "el proveedor es obligatorio")
	}
	if err := validateAmounts(req.GlobalAmount, req.MiscFees); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "el lote debe tener al menos una línea")
	}
	if err := validateLines(req.Lines, true); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	purchaseDate := now.UTC().Truncate(24 * time.Hour)
	if req.PurchaseDate != "" {
		d, err := debt.ParseDate(req.PurchaseDate)
		if err != nil {
			return nil, &domain.ValidationError{Field: "purchase_date", Err: err}
		}
		purchaseDate = d
	}

	alloc, err := allocate(req.GlobalAmount, req.MiscFees, req.Lines)
	if err != nil {
		return nil, err
	}

	l := &entity.Lot{
		Reference:    uc.refs.Next(reference.KindLot),
		SupplierID:   req.SupplierID,
		PurchaseDate: purchaseDate,
		Location:     orDefault(req.Location, entity.PurchaseLocal),
		Currency:     orDefault(req.Currency, uc.currency),
		GlobalAmount: req.GlobalAmount,
		MiscFees:     req.MiscFees,
		Notes:        req.Notes,
		CreatedAt:    now,
	}
	lines := make([]*entity.LotLine, 0, len(req.Lines))

	err = uc.txRunner.Run(ctx, func(repos repository.Set) error {
		if _, err := repos.Suppliers.GetByID(ctx, req.SupplierID); err != nil {
			return fmt.Errorf("proveedor %s: %w", req.SupplierID, err)
		}
		if err := repos.Lots.Create(ctx, l); err != nil {
			return err
		}
		for i, in := range req.Lines {
			line := &entity.LotLine{
				LotID:             l.ID,
				ArticleID:         in.ArticleID,
				InitialQuantity:   in.Quantity,
				BaseUnitCost:      in.BaseUnitCost,
				AllocatedUnitCost: alloc.Lines[i].UnitCost,
			}
			if in.DesiredSalePrice != nil {
				line.DesiredSalePrice = decimal.NewNullDecimal(*in.DesiredSalePrice)
			}
			lines = append(lines, line)
		}
		return repos.Lots.CreateLines(ctx, lines)
	})
	if err != nil {
		return nil, err
	}

	// Se persiste sólo el costo unitario: el drift se mide sobre lo guardado, igual que en GetLot.
	drift := lotDrift(l, lines)
	uc.log.Info().
		Str("lot_id", l.ID).
		Str("reference", l.Reference).
		Int("lines", len(lines)).
		Str("drift", drift.String()).
		Msg("lote creado")

	out := toLotDTO(l, lines)
	out.Drift = &drift
	return &out, nil
}

// OverrideLineCost corrige manualmente el costo unitario asignado de una línea ya guardada.
func (uc *UseCase) OverrideLineCost(ctx context.Context, lineID string, req dto.OverrideLineCostRequest) (*dto.LotLineDTO, error) {
	if req.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "el costo unitario no puede ser negativo")
	}
	var updated *entity.LotLine
	err := uc.txRunner.Run(ctx, func(repos repository.Set) error {
		line, err := repos.Lots.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if err := repos.Lots.UpdateLineCost(ctx, lineID, req.UnitCost); err != nil {
			return err
		}
		line.AllocatedUnitCost = req.UnitCost
		updated = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toLotLineDTO(updated)
	return &out, nil
}

// ListLots lotes sin líneas, del más reciente al más antiguo.
func (uc *UseCase) ListLots(ctx context.Context) ([]dto.LotDTO, error) {
	lots, err := uc.repos.Lots.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lots, func(i, j int) bool { return lots[i].PurchaseDate.After(lots[j].PurchaseDate) })
	out := make([]dto.LotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotDTO(l, nil))
	}
	return out, nil
}

// GetLot lote con sus líneas y el drift entre lo asignado y el costo total.
func (uc *UseCase) GetLot(ctx context.Context, id string) (*dto.LotDTO, error) {
	l, err := uc.repos.Lots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repos.Lots.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toLotDTO(l, lines)
	drift := lotDrift(l, lines)
	out.Drift = &drift
	return &out, nil
}

// lotDrift Σ costo total asignado de las líneas guardadas − costo total del lote.
func lotDrift(l *entity.Lot, lines []*entity.LotLine) decimal.Decimal {
	allocated := decimal.Zero
	for _, ln := range lines {
		allocated = allocated.Add(ln.AllocatedTotalCost())
	}
	return allocated.Sub(l.TotalCost())
}

// StockValuation valoriza el stock por artículo (promedio ponderado de costos asignados).
func (uc *UseCase) StockValuation(ctx context.Context) (*dto.StockValuationDTO, error) {
	lotLines, err := uc.repos.Lots.ListAllLines(ctx)
	if err != nil {
		return nil, err
	}
	saleLines, err := uc.repos.Sales.ListAllLines(ctx)
	if err != nil {
		return nil, err
	}
	articles, err := uc.repos.Articles.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(articles))
	for _, a := range articles {
		names[a.ID] = a.Name
	}

	items := costing.Valuate(derefLotLines(lotLines), derefSaleLines(saleLines), uc.lowStockThreshold)
	out := &dto.StockValuationDTO{Items: make([]dto.ArticleStockDTO, 0, len(items)), TotalValue: costing.TotalValue(items)}
	for _, it := range items {
		switch it.Level {
		case costing.StockOut:
			out.OutCount++
		case costing.StockLow:
			out.LowCount++
		}
		out.Items = append(out.Items, dto.ArticleStockDTO{
			ArticleID:       it.ArticleID,
			ArticleName:     names[it.ArticleID],
			Purchased:       it.Purchased,
			Sold:            it.Sold,
			Remaining:       it.Remaining,
			AverageUnitCost: it.AverageUnitCost,
			StockValue:      it.StockValue,
			Level:           it.Level,
		})
	}
	return out, nil
}

func allocate(global, fees decimal.Decimal, lines []dto.LotLineRequest) (costing.Allocation, error) {
	in := make([]costing.LineInput, 0, len(lines))
	for _, l := range lines {
		in = append(in, costing.LineInput{Quantity: l.Quantity, BaseUnitCost: l.BaseUnitCost})
	}
	alloc, err := costing.Allocate(global, fees, in)
	if err != nil {
		return costing.Allocation{}, err
	}
	for i, l := range lines {
		if l.UnitCostOverride == nil {
			continue
		}
		if alloc, err = alloc.Override(i, *l.UnitCostOverride); err != nil {
			return costing.Allocation{}, err
		}
	}
	return alloc, nil
}

func validateAmounts(global, fees decimal.Decimal) error {
	if global.IsNegative() {
		return domain.NewValidationError("global_amount", "el monto global no puede ser negativo")
	}
	if fees.IsNegative() {
		return domain.NewValidationError("misc_fees", "los gastos no pueden ser negativos")
	}
	return nil
}

func validateLines(lines []dto.LotLineRequest, forCreate bool) error {
	for i, l := range lines {
		field := fmt.Sprintf("lines[%d]", i)
		if forCreate && strings.TrimSpace(l.ArticleID) == "" {
			return domain.NewValidationError(field+".article_id", "el artículo es obligatorio")
		}
		if l.Quantity < 0 || (forCreate && l.Quantity < 1) {
			return domain.NewValidationError(field+".quantity", "cantidad inválida")
		}
		if l.BaseUnitCost.IsNegative() {
			return domain.NewValidationError(field+".base_unit_cost", "el costo base no puede ser negativo")
		}
		if l.DesiredSalePrice != nil && l.DesiredSalePrice.IsNegative() {
			return domain.NewValidationError(field+".desired_sale_price", "el precio deseado no puede ser negativo")
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
