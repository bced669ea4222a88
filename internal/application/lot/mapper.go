package lot

import (
	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/domain/costing"
	"github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

func toPreviewDTO(a costing.Allocation, req []dto.LotLineRequest) dto.AllocationPreviewDTO {
	out := dto.AllocationPreviewDTO{
		Lines:      make([]dto.AllocatedLineDTO, 0, len(a.Lines)),
		Target:     a.Target,
		Allocated:  a.Allocated,
		Drift:      a.Drift,
		EqualSplit: a.Equal,
	}
	for i, l := range a.Lines {
		out.Lines = append(out.Lines, dto.AllocatedLineDTO{
			Index:              i,
			ArticleID:          req[i].ArticleID,
			Quantity:           l.Quantity,
			BaseUnitCost:       l.BaseUnitCost,
			AllocatedUnitCost:  l.UnitCost,
			AllocatedTotalCost: l.TotalCost,
			Overridden:         l.Overridden,
		})
	}
	return out
}

func toLotDTO(l *entity.Lot, lines []*entity.LotLine) dto.LotDTO {
	out := dto.LotDTO{
		ID:           l.ID,
		Reference:    l.Reference,
		SupplierID:   l.SupplierID,
		PurchaseDate: l.PurchaseDate.UTC().Format(debt.DateLayout),
		Location:     l.Location,
		Currency:     l.Currency,
		GlobalAmount: l.GlobalAmount,
		MiscFees:     l.MiscFees,
		TotalCost:    l.TotalCost(),
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
	}
	if len(lines) > 0 {
		out.Lines = make([]dto.LotLineDTO, 0, len(lines))
		for _, ln := range lines {
			out.Lines = append(out.Lines, toLotLineDTO(ln))
		}
	}
	return out
}

func toLotLineDTO(l *entity.LotLine) dto.LotLineDTO {
	out := dto.LotLineDTO{
		ID:                 l.ID,
		LotID:              l.LotID,
		ArticleID:          l.ArticleID,
		InitialQuantity:    l.InitialQuantity,
		BaseUnitCost:       l.BaseUnitCost,
		AllocatedUnitCost:  l.AllocatedUnitCost,
		AllocatedTotalCost: l.AllocatedTotalCost(),
	}
	if l.DesiredSalePrice.Valid {
		p := l.DesiredSalePrice.Decimal
		out.DesiredSalePrice = &p
	}
	return out
}

func derefLotLines(in []*entity.LotLine) []entity.LotLine {
	out := make([]entity.LotLine, 0, len(in))
	for _, l := range in {
		out = append(out, *l)
	}
	return out
}

func derefSaleLines(in []*entity.SaleLine) []entity.SaleLine {
	out := make([]entity.SaleLine, 0, len(in))
	for _, l := range in {
		out = append(out, *l)
	}
	return out
}
