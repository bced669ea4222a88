// Package debt deriva el estado de una deuda a partir de su calendario de cuotas y del instante actual.
// Todas las funciones son puras: no modifican la deuda recibida.
package debt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

const day = 24 * time.Hour

// Status Settled si no queda saldo; Overdue si alguna cuota vence antes de now; si no Active.
// Un calendario vacío con saldo pendiente es Active.
func Status(d *entity.Debt, now time.Time) entity.DebtStatus {
	if !d.RemainingAmount.IsPositive() {
		return entity.DebtSettled
	}
	for _, it := range d.Schedule {
		if it.Date.Before(now) {
			return entity.DebtOverdue
		}
	}
	return entity.DebtActive
}

// NextInstallment la cuota más próxima con fecha >= now; en empate gana la primera en el calendario.
// nil si no hay ninguna.
func NextInstallment(d *entity.Debt, now time.Time) *entity.Installment {
	var next *entity.Installment
	for i := range d.Schedule {
		it := d.Schedule[i]
		if it.Date.Before(now) {
			continue
		}
		if next == nil || it.Date.Before(next.Date) {
			c := it
			next = &c
		}
	}
	return next
}

// OverdueInstallments cuotas con fecha < now, en el orden del calendario.
func OverdueInstallments(d *entity.Debt, now time.Time) []entity.Installment {
	out := make([]entity.Installment, 0)
	for _, it := range d.Schedule {
		if it.Date.Before(now) {
			out = append(out, it)
		}
	}
	return out
}

// DaysOverdue el mayor retraso en días entre las cuotas vencidas (0 si no hay).
func DaysOverdue(d *entity.Debt, now time.Time) int {
	worst := 0
	for _, it := range OverdueInstallments(d, now) {
		if n := DaysBetween(it.Date, now); n > worst {
			worst = n
		}
	}
	return worst
}

// DaysBetween días completos entre a y b (valor absoluto, redondeo hacia abajo).
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / day)
}

// View vista calculada de una deuda.
type View struct {
	Status      entity.DebtStatus
	Next        *entity.Installment
	Overdue     []entity.Installment
	DaysOverdue int
	Paid        decimal.Decimal
}

// Describe reúne todas las vistas derivadas de una deuda.
func Describe(d *entity.Debt, now time.Time) View {
	return View{
		Status:      Status(d, now),
		Next:        NextInstallment(d, now),
		Overdue:     OverdueInstallments(d, now),
		DaysOverdue: DaysOverdue(d, now),
		Paid:        d.Paid(),
	}
}
