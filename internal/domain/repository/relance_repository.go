package repository

import (
	"context"
	"time"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// RelanceRepository define el puerto de persistencia para los recordatorios de deuda.
type RelanceRepository interface {
	Create(ctx context.Context, relance *entity.Relance) error
	ListByDebt(ctx context.Context, debtID string) ([]*entity.Relance, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
}
