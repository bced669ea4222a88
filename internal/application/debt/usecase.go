// Package debt casos de uso de deudas: vistas derivadas, registro de pagos y recordatorios.
package debt

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	engine "github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/reference"
	"github.com/jhoicas/andyshop-api/internal/domain/report"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/messaging"
	"github.com/jhoicas/andyshop-api/pkg/clock"
)

// UseCase casos de uso de deudas, pagos y relances.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Set
	images   ports.ImageStore
	composer *messaging.Composer
	refs     *reference.Generator
	clock    clock.Clock
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. images puede ser nil (sin subida de comprobantes).
func NewUseCase(
	txRunner ports.TxRunner,
	repos repository.Set,
	images ports.ImageStore,
	composer *messaging.Composer,
	refs *reference.Generator,
	clk clock.Clock,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		repos:    repos,
		images:   images,
		composer: composer,
		refs:     refs,
		clock:    clk,
		log:      log,
	}
}

var validStatus = map[string]entity.DebtStatus{
	"active":  entity.DebtActive,
	"overdue": entity.DebtOverdue,
	"settled": entity.DebtSettled,
}

// ListDebts deudas con su estado derivado; filtra por estado y cliente.
func (uc *UseCase) ListDebts(ctx context.Context, req dto.ListDebtsRequest) ([]dto.DebtDTO, error) {
	var want entity.DebtStatus
	if s := strings.ToLower(strings.TrimSpace(req.Status)); s != "" {
		st, ok := validStatus[s]
		if !ok {
			return nil, domain.NewValidationError("status", "estado desconocido: "+req.Status)
		}
		want = st
	}

	var (
		debts []*entity.Debt
		err   error
	)
	if req.ClientID != "" {
		debts, err = uc.repos.Debts.ListByClient(ctx, req.ClientID)
	} else {
		debts, err = uc.repos.Debts.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := make([]dto.DebtDTO, 0, len(debts))
	for _, d := range debts {
		if want != "" && engine.Status(d, now) != want {
			continue
		}
		out = append(out, ToDebtDTO(d, now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// GetDebt deuda con estado, próxima cuota, cuotas vencidas y días de retraso.
func (uc *UseCase) GetDebt(ctx context.Context, id string) (*dto.DebtDTO, error) {
	d, err := uc.repos.Debts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToDebtDTO(d, uc.clock.Now())
	return &out, nil
}

// DebtSummary total abierto, cantidad de deudas abiertas y vencidas.
func (uc *UseCase) DebtSummary(ctx context.Context) (*dto.DebtSummaryDTO, error) {
	debts, err := uc.repos.Debts.List(ctx)
	if err != nil {
		return nil, err
	}
	s := report.SummarizeDebts(deref(debts), uc.clock.Now())
	return &dto.DebtSummaryDTO{OpenTotal: s.OpenTotal, OpenCount: s.OpenCount, OverdueCount: s.OverdueCount}, nil
}

// ── Pagos ────────────────────────────────────────────────────────────────────

var validMethods = map[string]string{
	"cash":         entity.PaymentCash,
	"espèces":      entity.PaymentCash,
	"mobile money": entity.PaymentMobileMoney,
	"virement":     entity.PaymentTransfer,
	"transfer":     entity.PaymentTransfer,
	"autre":        entity.PaymentOther,
	"other":        entity.PaymentOther,
}

// RecordPayment registra el pago y lo reparte sobre las deudas abiertas del cliente,
// de la más antigua a la más reciente. Un monto mayor al saldo abierto es ErrPaymentExceedsDebt
// y no escribe nada.
func (uc *UseCase) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.PaymentDTO, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, domain.NewValidationError("client_id", "el cliente es obligatorio")
	}
	if !req.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "el monto debe ser mayor que cero")
	}
	method := entity.PaymentCash
	if m := strings.TrimSpace(req.Method); m != "" {
		v, ok := validMethods[strings.ToLower(m)]
		if !ok {
			return nil, domain.NewValidationError("method", "modo de pago desconocido: "+m)
		}
		method = v
	}
	date := uc.clock.Now()
	if req.Date != "" {
		d, err := engine.ParseDate(req.Date)
		if err != nil {
			return nil, &domain.ValidationError{Field: "date", Err: err}
		}
		date = d
	}

	var (
		client      *entity.Client
		payment     *entity.Payment
		allocations []entity.DebtAllocation
		balance     decimal.Decimal
		byID        = map[string]entity.Debt{}
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Set) error {
		var err error
		if client, err = repos.Clients.GetByID(ctx, req.ClientID); err != nil {
			return err
		}
		list, err := repos.Debts.ListByClient(ctx, req.ClientID)
		if err != nil {
			return err
		}
		debts := deref(list)
		for _, d := range debts {
			byID[d.ID] = d
		}
		balance = engine.OpenBalance(debts)
		if allocations, err = engine.AllocatePayment(debts, req.Amount); err != nil {
			return err
		}
		for _, a := range allocations {
			if err := repos.Debts.UpdateRemaining(ctx, a.DebtID, a.RemainingNow); err != nil {
				return err
			}
		}
		payment = &entity.Payment{
			Reference: uc.refs.Next(reference.KindPayment),
			ClientID:  req.ClientID,
			Amount:    req.Amount,
			Method:    method,
			Date:      date,
			ProofURL:  req.ProofURL,
			Notes:     req.Notes,
		}
		return repos.Payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	newBalance := balance.Sub(req.Amount)
	out := toPaymentDTO(payment)
	out.NewBalance = newBalance
	impacted := make([]messaging.ImpactedDebt, 0, len(allocations))
	for _, a := range allocations {
		out.Allocations = append(out.Allocations, dto.DebtAllocationDTO{DebtID: a.DebtID, Amount: a.Amount, Remaining: a.RemainingNow})
		impacted = append(impacted, messaging.ImpactedDebt{Label: debtLabel(byID[a.DebtID]), Amount: a.Amount})
	}
	text := uc.composer.Receipt(client.FullName, payment, impacted, newBalance)
	out.Receipt = &dto.MessageDTO{
		Phone: uc.composer.NormalizePhone(client.Phone),
		Text:  text,
		Link:  uc.composer.WhatsAppLink(client.Phone, text),
	}

	uc.log.Info().
		Str("client_id", req.ClientID).
		Str("reference", payment.Reference).
		Str("amount", req.Amount.String()).
		Int("debts", len(allocations)).
		Msg("pago registrado")
	return &out, nil
}

// UploadProof sube la foto del comprobante y devuelve su URL para RecordPayment.
func (uc *UseCase) UploadProof(ctx context.Context, img ports.Image) (*dto.UploadResultDTO, error) {
	if uc.images == nil {
		return nil, fmt.Errorf("almacenamiento de imágenes no configurado: %w", domain.ErrStoreUnavailable)
	}
	url, err := uc.images.Upload(ctx, img)
	if err != nil {
		return nil, err
	}
	return &dto.UploadResultDTO{URL: url}, nil
}

// ClientPayments historial de pagos de un cliente, del más reciente al más antiguo.
func (uc *UseCase) ClientPayments(ctx context.Context, clientID string) ([]dto.PaymentDTO, error) {
	if _, err := uc.repos.Clients.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Payments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentDTO(p))
	}
	return out, nil
}

func debtLabel(d entity.Debt) string {
	return "Vente du " + d.CreatedAt.Format("02/01/2006")
}
