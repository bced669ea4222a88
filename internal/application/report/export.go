package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/domain"
)

// Reportes exportables.
const (
	ExportRevenue  = "revenue"
	ExportMargin   = "margin"
	ExportTop      = "top-articles"
	ExportBalances = "balances"
)

// Export genera un libro .xlsx con una hoja por reporte pedido (kinds vacío = todos).
func (uc *UseCase) Export(ctx context.Context, req dto.ReportRequest, kinds ...string) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportación no configurada: %w", domain.ErrStoreUnavailable)
	}
	if len(kinds) == 0 {
		kinds = []string{ExportRevenue, ExportMargin, ExportTop, ExportBalances}
	}
	tables := make([]dto.ExportTableDTO, 0, len(kinds))
	for _, k := range kinds {
		t, err := uc.exportTable(ctx, strings.ToLower(strings.TrimSpace(k)), req)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return uc.exporter.Export(ctx, tables...)
}

func (uc *UseCase) exportTable(ctx context.Context, kind string, req dto.ReportRequest) (dto.ExportTableDTO, error) {
	switch kind {
	case ExportRevenue:
		rep, err := uc.Revenue(ctx, req)
		if err != nil {
			return dto.ExportTableDTO{}, err
		}
		t := dto.ExportTableDTO{
			Title:   "Chiffre d'affaires par " + periodLabel(rep.Period),
			Sheet:   "CA",
			Headers: []string{"Période", "Ventes", "Chiffre d'affaires", "Encaissé", "Reste dû"},
			Totals:  []any{"Total", rep.Count, rep.Total.InexactFloat64(), rep.Collected.InexactFloat64(), rep.Pending.InexactFloat64()},
		}
		for _, b := range rep.Buckets {
			t.Rows = append(t.Rows, []any{b.PeriodKey, b.TransactionCount, b.TotalValue.InexactFloat64(), b.Collected.InexactFloat64(), b.Outstanding.InexactFloat64()})
		}
		return t, nil

	case ExportMargin:
		rep, err := uc.Margin(ctx, req)
		if err != nil {
			return dto.ExportTableDTO{}, err
		}
		t := dto.ExportTableDTO{
			Title:   "Marges par " + periodLabel(rep.Period),
			Sheet:   "Marges",
			Headers: []string{"Période", "Ventes", "Chiffre d'affaires", "Coût", "Marge", "Lignes sans coût"},
			Totals:  []any{"Total", "", rep.TotalRevenue.InexactFloat64(), rep.TotalRevenue.Sub(rep.TotalMargin).InexactFloat64(), rep.TotalMargin.InexactFloat64(), rep.UnknownCostLines},
		}
		for _, b := range rep.Buckets {
			t.Rows = append(t.Rows, []any{b.PeriodKey, b.TransactionCount, b.Revenue.InexactFloat64(), b.Cost.InexactFloat64(), b.TotalValue.InexactFloat64(), b.UnknownCostLines})
		}
		return t, nil

	case ExportTop:
		rows, err := uc.TopArticles(ctx, req)
		if err != nil {
			return dto.ExportTableDTO{}, err
		}
		t := dto.ExportTableDTO{
			Title:   "Top articles",
			Sheet:   "Top articles",
			Headers: []string{"Rang", "Article", "Catégorie", "Quantité", "Chiffre d'affaires"},
		}
		for _, r := range rows {
			t.Rows = append(t.Rows, []any{r.Rank, r.Name, r.Category, r.Quantity, r.Revenue.InexactFloat64()})
		}
		return t, nil

	case ExportBalances:
		rows, err := uc.ClientBalances(ctx)
		if err != nil {
			return dto.ExportTableDTO{}, err
		}
		t := dto.ExportTableDTO{
			Title:   "Suivi des dettes",
			Sheet:   "Dettes",
			Headers: []string{"Client", "Téléphone", "Dettes ouvertes", "Solde"},
		}
		total := decimal.Zero
		for _, r := range rows {
			total = total.Add(r.Balance)
			t.Rows = append(t.Rows, []any{r.Name, r.Phone, r.Debts, r.Balance.InexactFloat64()})
		}
		t.Totals = []any{"Total", "", "", total.InexactFloat64()}
		return t, nil
	}
	return dto.ExportTableDTO{}, domain.NewValidationError("report", "reporte desconocido: "+kind)
}

func periodLabel(p string) string {
	switch p {
	case "day":
		return "jour"
	case "week":
		return "semaine"
	case "quarter":
		return "trimestre"
	case "year":
		return "année"
	default:
		return "mois"
	}
}
