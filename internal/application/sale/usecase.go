// Package sale casos de uso de ventas: registro (con deuda si no se paga todo), recibo PDF y factura por WhatsApp.
package sale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	debtapp "github.com/jhoicas/andyshop-api/internal/application/debt"
	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	engine "github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/reference"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/messaging"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Set
	receipts ports.ReceiptRenderer
	composer *messaging.Composer
	refs     *reference.Generator
	clock    clock.Clock
	shopName string
	currency string
	log      zerolog.Logger
}

// Config datos de la tienda que aparecen en el recibo.
type Config struct {
	ShopName string
	Currency string
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	repos repository.Set,
	receipts ports.ReceiptRenderer,
	composer *messaging.Composer,
	refs *reference.Generator,
	clk clock.Clock,
	cfg Config,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		repos:    repos,
		receipts: receipts,
		composer: composer,
		refs:     refs,
		clock:    clk,
		shopName: cfg.ShopName,
		currency: cfg.Currency,
		log:      log,
	}
}

// CreateSale registra la venta, sus líneas y, si queda saldo, la deuda con su calendario
// ordenado por fecha. Todo en una sola unidad de trabajo.
func (uc *UseCase) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleDTO, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, domain.NewValidationError("client_id", "el cliente es obligatorio")
	}
	if len(req.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "la venta debe tener al menos una línea")
	}
	total := decimal.Zero
	for i, l := range req.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if strings.TrimSpace(l.ArticleID) == "" {
			return nil, domain.NewValidationError(field+".article_id", "el artículo es obligatorio")
		}
		if l.Quantity < 1 {
			return nil, domain.NewValidationError(field+".quantity", "la cantidad debe ser al menos 1")
		}
		if l.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError(field+".unit_price", "el precio no puede ser negativo")
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if req.AmountPaid.IsNegative() || req.AmountPaid.GreaterThan(total) {
		return nil, domain.NewValidationError("amount_paid", "el monto pagado debe estar entre 0 y el total")
	}
	schedule, err := parseSchedule(req.Schedule)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	s := &entity.Sale{
		Reference:   uc.refs.Next(reference.KindSale),
		ClientID:    req.ClientID,
		Date:        now,
		TotalAmount: total,
		AmountPaid:  req.AmountPaid,
		CreatedAt:   now,
	}
	lines := make([]*entity.SaleLine, 0, len(req.Lines))
	var dt *entity.Debt

	err = uc.txRunner.Run(ctx, func(repos repository.Set) error {
		if _, err := repos.Clients.GetByID(ctx, req.ClientID); err != nil {
			return err
		}
		for _, l := range req.Lines {
			if _, err := repos.Articles.GetByID(ctx, l.ArticleID); err != nil {
				return err
			}
			if l.LotLineID == "" {
				continue
			}
			ll, err := repos.Lots.GetLine(ctx, l.LotLineID)
			if err != nil {
				return err
			}
			if ll.ArticleID != l.ArticleID {
				return domain.NewValidationError("lot_line_id", "la línea de lote no corresponde al artículo")
			}
		}

		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		for _, l := range req.Lines {
			lines = append(lines, &entity.SaleLine{
				SaleID:    s.ID,
				ArticleID: l.ArticleID,
				LotLineID: l.LotLineID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			})
		}
		if err := repos.Sales.CreateLines(ctx, lines); err != nil {
			return err
		}

		outstanding := s.Outstanding()
		if !outstanding.IsPositive() {
			return nil
		}
		dt = &entity.Debt{
			SaleID:          s.ID,
			ClientID:        s.ClientID,
			InitialAmount:   outstanding,
			RemainingAmount: outstanding,
			Schedule:        schedule,
			Notes:           req.Notes,
			CreatedAt:       now,
		}
		return repos.Debts.Create(ctx, dt)
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info().
		Str("sale_id", s.ID).
		Str("reference", s.Reference).
		Str("total", total.String())
	if dt != nil {
		ev = ev.Str("debt_id", dt.ID).Str("outstanding", dt.RemainingAmount.String())
		if sum := scheduleTotal(schedule); len(schedule) > 0 && !sum.Equal(dt.RemainingAmount) {
			uc.log.Warn().Str("debt_id", dt.ID).Str("schedule_total", sum.String()).Msg("el calendario no suma el saldo de la deuda")
		}
	}
	ev.Msg("venta registrada")

	out := toSaleDTO(s, lines)
	if dt != nil {
		d := debtapp.ToDebtDTO(dt, now)
		out.Debt = &d
	}
	return &out, nil
}

// GetSale venta con sus líneas y su deuda, si tiene.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*dto.SaleDTO, error) {
	s, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repos.Sales.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSaleDTO(s, lines)
	dt, err := uc.saleDebt(ctx, s)
	if err != nil {
		return nil, err
	}
	if dt != nil {
		d := debtapp.ToDebtDTO(dt, uc.clock.Now())
		out.Debt = &d
	}
	return &out, nil
}

// ListSales ventas (sin líneas) entre start_date y end_date inclusive, más recientes primero.
func (uc *UseCase) ListSales(ctx context.Context, req dto.ListSalesRequest) ([]dto.SaleDTO, error) {
	from, to, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	sales, err := uc.repos.Sales.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleDTO, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleDTO(s, nil))
	}
	return out, nil
}

// SaleReceiptPDF recibo PDF de la venta.
func (uc *UseCase) SaleReceiptPDF(ctx context.Context, id string) ([]byte, error) {
	receipt, err := uc.buildReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.receipts.RenderSaleReceipt(ctx, receipt)
}

// SaleInvoiceMessage texto de factura y enlace wa.me del cliente.
func (uc *UseCase) SaleInvoiceMessage(ctx context.Context, id string) (*dto.MessageDTO, error) {
	s, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	client, err := uc.repos.Clients.GetByID(ctx, s.ClientID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repos.Sales.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := uc.articleNames(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]messaging.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		items = append(items, messaging.InvoiceLine{Name: names.name(l.ArticleID), Quantity: l.Quantity, Total: l.Total()})
	}
	text := uc.composer.Invoice(client.FullName, s, items)
	return &dto.MessageDTO{
		Phone: uc.composer.NormalizePhone(client.Phone),
		Text:  text,
		Link:  uc.composer.WhatsAppLink(client.Phone, text),
	}, nil
}

func (uc *UseCase) buildReceipt(ctx context.Context, id string) (*dto.ReceiptDTO, error) {
	s, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	client, err := uc.repos.Clients.GetByID(ctx, s.ClientID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repos.Sales.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := uc.articleNames(ctx)
	if err != nil {
		return nil, err
	}
	r := &dto.ReceiptDTO{
		ShopName:    uc.shopName,
		Currency:    uc.currency,
		Reference:   s.Reference,
		Date:        s.Date,
		ClientName:  client.FullName,
		ClientPhone: client.Phone,
		Total:       s.TotalAmount,
		Paid:        s.AmountPaid,
		Remaining:   s.Outstanding(),
	}
	for _, l := range lines {
		r.Lines = append(r.Lines, dto.ReceiptLineDTO{
			Description: names.name(l.ArticleID),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		})
	}
	dt, err := uc.saleDebt(ctx, s)
	if err != nil {
		return nil, err
	}
	if dt != nil {
		r.Remaining = dt.RemainingAmount
		r.Schedule = debtapp.ToInstallmentDTOs(dt.Schedule)
	}
	return r, nil
}

func (uc *UseCase) saleDebt(ctx context.Context, s *entity.Sale) (*entity.Debt, error) {
	debts, err := uc.repos.Debts.ListByClient(ctx, s.ClientID)
	if err != nil {
		return nil, err
	}
	for _, d := range debts {
		if d.SaleID == s.ID {
			return d, nil
		}
	}
	return nil, nil
}

type articleNames map[string]string

func (n articleNames) name(id string) string {
	if v, ok := n[id]; ok && v != "" {
		return v
	}
	return "Article"
}

func (uc *UseCase) articleNames(ctx context.Context) (articleNames, error) {
	list, err := uc.repos.Articles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(articleNames, len(list))
	for _, a := range list {
		out[a.ID] = a.Name
	}
	return out, nil
}

func parseSchedule(in []dto.InstallmentDTO) ([]entity.Installment, error) {
	out := make([]entity.Installment, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("schedule[%d]", i)
		dt, err := engine.ParseDate(it.Date)
		if err != nil {
			return nil, &domain.ValidationError{Field: field + ".date", Err: err}
		}
		if !it.Amount.IsPositive() {
			return nil, domain.NewValidationError(field+".amount", "el monto de la cuota debe ser mayor que cero")
		}
		out = append(out, entity.Installment{Date: dt, Amount: it.Amount})
	}
	return engine.SortSchedule(out), nil
}

func scheduleTotal(items []entity.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount)
	}
	return sum
}

// parseRange fechas YYYY-MM-DD; el límite superior incluye todo el día.
func parseRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := engine.ParseDate(start)
		if err != nil {
			return nil, nil, &domain.ValidationError{Field: "start_date", Err: err}
		}
		from = &t
	}
	if end != "" {
		t, err := engine.ParseDate(end)
		if err != nil {
			return nil, nil, &domain.ValidationError{Field: "end_date", Err: err}
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, domain.NewValidationError("end_date", "end_date anterior a start_date")
	}
	return from, to, nil
}

func toSaleDTO(s *entity.Sale, lines []*entity.SaleLine) dto.SaleDTO {
	out := dto.SaleDTO{
		ID:          s.ID,
		Reference:   s.Reference,
		ClientID:    s.ClientID,
		Date:        s.Date,
		TotalAmount: s.TotalAmount,
		AmountPaid:  s.AmountPaid,
		Outstanding: s.Outstanding(),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.SaleLineDTO{
			ID:        l.ID,
			ArticleID: l.ArticleID,
			LotLineID: l.LotLineID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total(),
		})
	}
	return out
}
