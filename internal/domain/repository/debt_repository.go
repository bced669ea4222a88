package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// DebtRepository define el puerto de persistencia para Debt.
// El estado no se guarda: se deriva con el motor de calendario.
type DebtRepository interface {
	Create(ctx context.Context, debt *entity.Debt) error
	GetByID(ctx context.Context, id string) (*entity.Debt, error)
	List(ctx context.Context) ([]*entity.Debt, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Debt, error)
	UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error
}
