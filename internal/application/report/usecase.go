// Package report casos de uso de reportes: ingresos y márgenes por período, ranking de
// artículos, saldos por cliente, tablero y exportación a hoja de cálculo.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	engine "github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/report"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

const (
	defaultTopN       = 10
	maxTopN           = 100
	dashboardArticles = 5
)

// UseCase lee todo el historial del almacén y agrega en memoria con el paquete report.
type UseCase struct {
	repos    repository.Set
	exporter ports.ReportExporter
	clock    clock.Clock
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos repository.Set, exporter ports.ReportExporter, clk clock.Clock, log zerolog.Logger) *UseCase {
	return &UseCase{repos: repos, exporter: exporter, clock: clk, log: log}
}

// snapshot datos crudos que necesitan los reportes.
type snapshot struct {
	sales     []entity.Sale
	saleLines []entity.SaleLine
	lotLines  []entity.LotLine
	articles  []entity.Article
}

// load consulta ventas, líneas de venta, líneas de lote y artículos en paralelo.
func (uc *UseCase) load(ctx context.Context, withLots, withArticles bool) (*snapshot, error) {
	type result struct {
		name string
		fill func(*snapshot)
		err  error
	}
	jobs := []func() result{
		func() result {
			v, err := uc.repos.Sales.List(ctx, nil, nil)
			return result{"ventas", func(s *snapshot) { s.sales = deref(v) }, err}
		},
		func() result {
			v, err := uc.repos.Sales.ListAllLines(ctx)
			return result{"líneas de venta", func(s *snapshot) { s.saleLines = deref(v) }, err}
		},
	}
	if withLots {
		jobs = append(jobs, func() result {
			v, err := uc.repos.Lots.ListAllLines(ctx)
			return result{"líneas de lote", func(s *snapshot) { s.lotLines = deref(v) }, err}
		})
	}
	if withArticles {
		jobs = append(jobs, func() result {
			v, err := uc.repos.Articles.List(ctx)
			return result{"artículos", func(s *snapshot) { s.articles = deref(v) }, err}
		})
	}

	ch := make(chan result, len(jobs))
	for _, job := range jobs {
		go func(job func() result) { ch <- job() }(job)
	}
	snap := &snapshot{}
	var firstErr error
	for range jobs {
		r := <-ch
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("reportes: %s: %w", r.name, r.err)
			}
			continue
		}
		r.fill(snap)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return snap, nil
}

// Revenue ingresos agrupados por período (day|week|month|quarter|year) entre start_date y end_date.
func (uc *UseCase) Revenue(ctx context.Context, req dto.ReportRequest) (*dto.RevenueReportDTO, error) {
	period, from, to, err := parseRequest(req)
	if err != nil {
		return nil, err
	}
	snap, err := uc.load(ctx, false, false)
	if err != nil {
		return nil, err
	}
	sales := report.InRange(snap.sales, from, to)
	totals := report.RevenueTotals(sales)

	out := &dto.RevenueReportDTO{
		Period:    string(period),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Buckets:   make([]dto.RevenueBucketDTO, 0),
		Total:     totals.Total,
		Collected: totals.Collected,
		Pending:   totals.Pending,
		Count:     totals.Count,
	}
	for _, b := range report.Revenue(sales, period) {
		out.Buckets = append(out.Buckets, dto.RevenueBucketDTO{
			PeriodKey:        b.PeriodKey,
			TotalValue:       b.TotalValue,
			TransactionCount: b.TransactionCount,
			Collected:        b.Collected,
			Outstanding:      b.Outstanding,
		})
	}
	return out, nil
}

// Margin margen bruto por período usando el costo asignado de la línea de lote de cada venta.
func (uc *UseCase) Margin(ctx context.Context, req dto.ReportRequest) (*dto.MarginReportDTO, error) {
	period, from, to, err := parseRequest(req)
	if err != nil {
		return nil, err
	}
	snap, err := uc.load(ctx, true, false)
	if err != nil {
		return nil, err
	}
	buckets := report.Margin(report.InRange(snap.sales, from, to), snap.saleLines, snap.lotLines, period)

	out := &dto.MarginReportDTO{
		Period:       string(period),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Buckets:      make([]dto.MarginBucketDTO, 0, len(buckets)),
		TotalMargin:  decimal.Zero,
		TotalRevenue: decimal.Zero,
		MarginPct:    report.MarginRate(buckets),
	}
	for _, b := range buckets {
		out.TotalMargin = out.TotalMargin.Add(b.TotalValue)
		out.TotalRevenue = out.TotalRevenue.Add(b.Revenue)
		out.UnknownCostLines += b.UnknownCostLines
		out.Buckets = append(out.Buckets, dto.MarginBucketDTO{
			PeriodKey:          b.PeriodKey,
			TotalValue:         b.TotalValue,
			TransactionCount:   b.TransactionCount,
			Revenue:            b.Revenue,
			Cost:               b.Cost,
			UnknownCostLines:   b.UnknownCostLines,
			UnknownCostRevenue: b.UnknownCostRevenue,
		})
	}
	if out.UnknownCostLines > 0 {
		uc.log.Debug().Int("unknown_cost_lines", out.UnknownCostLines).Msg("líneas de venta sin costo de lote")
	}
	return out, nil
}

// TopArticles artículos más vendidos por ingresos en el rango.
func (uc *UseCase) TopArticles(ctx context.Context, req dto.ReportRequest) ([]dto.TopArticleDTO, error) {
	_, from, to, err := parseRequest(req)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultTopN
	}
	if limit > maxTopN {
		limit = maxTopN
	}
	snap, err := uc.load(ctx, false, true)
	if err != nil {
		return nil, err
	}
	return toTopDTOs(report.TopArticles(report.InRange(snap.sales, from, to), snap.saleLines, snap.articles, limit)), nil
}

// ClientBalances clientes con saldo pendiente, del mayor al menor.
func (uc *UseCase) ClientBalances(ctx context.Context) ([]dto.ClientBalanceDTO, error) {
	debts, err := uc.repos.Debts.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := uc.repos.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := report.ClientBalances(deref(debts), deref(clients))
	out := make([]dto.ClientBalanceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ClientBalanceDTO{ClientID: r.ClientID, Name: r.Name, Phone: r.Phone, Balance: r.Balance, Debts: r.Debts})
	}
	return out, nil
}

// Dashboard KPIs de hoy, semana, mes y últimos 30 días, top 5 del mes y resumen de deudas.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.clock.Now()
	snap, err := uc.load(ctx, true, true)
	if err != nil {
		return nil, err
	}
	debts, err := uc.repos.Debts.List(ctx)
	if err != nil {
		return nil, err
	}

	month := report.InRange(snap.sales, report.Start(report.PeriodMonth, now), now)
	monthTotals := report.RevenueTotals(month)
	margin := decimal.Zero
	for _, b := range report.Margin(month, snap.saleLines, snap.lotLines, report.PeriodMonth) {
		margin = margin.Add(b.TotalValue)
	}
	ds := report.SummarizeDebts(deref(debts), now)

	return &dto.DashboardSummaryDTO{
		TodaySales:       report.RevenueTotals(report.InRange(snap.sales, report.Start(report.PeriodDay, now), now)).Total,
		WeekSales:        report.RevenueTotals(report.InRange(snap.sales, report.Start(report.PeriodWeek, now), now)).Total,
		MonthlySales:     monthTotals.Total,
		Last30DaysSales:  report.RevenueTotals(report.InRange(snap.sales, report.Last30Days(now), now)).Total,
		MonthlyCollected: monthTotals.Collected,
		MonthlyMargin:    margin,
		TopArticles:      toTopDTOs(report.TopArticles(month, snap.saleLines, snap.articles, dashboardArticles)),
		Debts:            dto.DebtSummaryDTO{OpenTotal: ds.OpenTotal, OpenCount: ds.OpenCount, OverdueCount: ds.OverdueCount},
		DateLabel:        monthLabel(now),
	}, nil
}

var monthNames = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

func toTopDTOs(rows []report.ArticleRank) []dto.TopArticleDTO {
	out := make([]dto.TopArticleDTO, 0, len(rows))
	for i, r := range rows {
		out = append(out, dto.TopArticleDTO{
			Rank:      i + 1,
			ArticleID: r.ArticleID,
			Name:      r.Name,
			Category:  r.Category,
			Quantity:  r.Quantity,
			Revenue:   r.Revenue,
		})
	}
	return out
}

// parseRequest período y rango; end_date incluye todo el día. Sin fechas no se filtra.
func parseRequest(req dto.ReportRequest) (report.Period, time.Time, time.Time, error) {
	period, err := report.ParsePeriod(req.Period)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	var from, to time.Time
	if s := strings.TrimSpace(req.StartDate); s != "" {
		if from, err = engine.ParseDate(s); err != nil {
			return "", time.Time{}, time.Time{}, &domain.ValidationError{Field: "start_date", Err: err}
		}
	}
	if s := strings.TrimSpace(req.EndDate); s != "" {
		if to, err = engine.ParseDate(s); err != nil {
			return "", time.Time{}, time.Time{}, &domain.ValidationError{Field: "end_date", Err: err}
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return "", time.Time{}, time.Time{}, domain.NewValidationError("end_date", "end_date anterior a start_date")
	}
	return period, from, to, nil
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
