package debt

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// OpenBalance suma del saldo pendiente de las deudas abiertas.
func OpenBalance(debts []entity.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.IsOpen() {
			total = total.Add(d.RemainingAmount)
		}
	}
	return total
}

// AllocatePayment reparte amount sobre las deudas abiertas, de la más antigua a la más reciente.
// Ninguna deuda queda por debajo de cero. Errores:
//   - amount <= 0 → ValidationError
//   - sin deudas abiertas → domain.ErrNoOpenDebt
//   - amount > saldo abierto → domain.ErrPaymentExceedsDebt
func AllocatePayment(debts []entity.Debt, amount decimal.Decimal) ([]entity.DebtAllocation, error) {
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "el monto debe ser mayor que cero")
	}
	open := make([]entity.Debt, 0, len(debts))
	for _, d := range debts {
		if d.IsOpen() {
			open = append(open, d)
		}
	}
	if len(open) == 0 {
		return nil, domain.ErrNoOpenDebt
	}
	balance := OpenBalance(open)
	if amount.GreaterThan(balance) {
		return nil, fmt.Errorf("%w: monto %s, saldo %s", domain.ErrPaymentExceedsDebt, amount, balance)
	}

	sort.SliceStable(open, func(i, j int) bool { return open[i].CreatedAt.Before(open[j].CreatedAt) })

	left := amount
	out := make([]entity.DebtAllocation, 0, len(open))
	for _, d := range open {
		if !left.IsPositive() {
			break
		}
		applied := decimal.Min(left, d.RemainingAmount)
		left = left.Sub(applied)
		out = append(out, entity.DebtAllocation{
			DebtID:       d.ID,
			Amount:       applied,
			RemainingNow: d.RemainingAmount.Sub(applied),
		})
	}
	return out, nil
}
