package debt_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

func openDebts() []entity.Debt {
	return []entity.Debt{
		{ID: "reciente", InitialAmount: amt(500), RemainingAmount: amt(500), CreatedAt: now},
		{ID: "antigua", InitialAmount: amt(300), RemainingAmount: amt(200), CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "saldada", InitialAmount: amt(100), RemainingAmount: amt(0), CreatedAt: now.Add(-96 * time.Hour)},
	}
}

func TestAllocatePayment_DeLaMasAntigua(t *testing.T) {
	allocs, err := debt.AllocatePayment(openDebts(), amt(350))
	require.NoError(t, err)
	require.Len(t, allocs, 2)

	assert.Equal(t, "antigua", allocs[0].DebtID)
	assert.True(t, allocs[0].Amount.Equal(amt(200)))
	assert.True(t, allocs[0].RemainingNow.IsZero())

	assert.Equal(t, "reciente", allocs[1].DebtID)
	assert.True(t, allocs[1].Amount.Equal(amt(150)))
	assert.True(t, allocs[1].RemainingNow.Equal(amt(350)))
}

func TestAllocatePayment_SaldoExacto(t *testing.T) {
	allocs, err := debt.AllocatePayment(openDebts(), amt(700))
	require.NoError(t, err)
	for _, a := range allocs {
		assert.True(t, a.RemainingNow.IsZero())
	}
	assert.True(t, debt.OpenBalance(openDebts()).Equal(amt(700)))
}

func TestAllocatePayment_Errores(t *testing.T) {
	_, err := debt.AllocatePayment(openDebts(), amt(701))
	assert.True(t, errors.Is(err, domain.ErrPaymentExceedsDebt))

	_, err = debt.AllocatePayment(openDebts(), amt(0))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = debt.AllocatePayment(openDebts()[2:], amt(10))
	assert.True(t, errors.Is(err, domain.ErrNoOpenDebt))
}
