package debt

import (
	"time"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	engine "github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// ToDebtDTO deuda con estado, próxima cuota y cuotas vencidas calculados a la fecha now.
func ToDebtDTO(d *entity.Debt, now time.Time) dto.DebtDTO {
	v := engine.Describe(d, now)
	out := dto.DebtDTO{
		ID:                  d.ID,
		SaleID:              d.SaleID,
		ClientID:            d.ClientID,
		InitialAmount:       d.InitialAmount,
		RemainingAmount:     d.RemainingAmount,
		Paid:                v.Paid,
		Status:              string(v.Status),
		Schedule:            ToInstallmentDTOs(d.Schedule),
		OverdueInstallments: ToInstallmentDTOs(v.Overdue),
		DaysOverdue:         v.DaysOverdue,
		Notes:               d.Notes,
		CreatedAt:           d.CreatedAt,
	}
	if v.Next != nil {
		next := toInstallmentDTO(*v.Next)
		out.NextInstallment = &next
	}
	return out
}

// ToInstallmentDTOs nunca devuelve nil (el JSON muestra []).
func ToInstallmentDTOs(items []entity.Installment) []dto.InstallmentDTO {
	out := make([]dto.InstallmentDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toInstallmentDTO(it))
	}
	return out
}

func toInstallmentDTO(it entity.Installment) dto.InstallmentDTO {
	return dto.InstallmentDTO{Date: it.Date.UTC().Format(engine.DateLayout), Amount: it.Amount}
}

func toPaymentDTO(p *entity.Payment) dto.PaymentDTO {
	return dto.PaymentDTO{
		ID:        p.ID,
		Reference: p.Reference,
		ClientID:  p.ClientID,
		Amount:    p.Amount,
		Method:    p.Method,
		Date:      p.Date,
		ProofURL:  p.ProofURL,
		Notes:     p.Notes,
	}
}

func toRelanceDTO(r *entity.Relance) dto.RelanceDTO {
	return dto.RelanceDTO{
		ID:       r.ID,
		DebtID:   r.DebtID,
		ClientID: r.ClientID,
		Type:     string(r.Type),
		Channel:  r.Channel,
		Status:   r.Status,
		Message:  r.Message,
		SentAt:   r.SentAt,
	}
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
