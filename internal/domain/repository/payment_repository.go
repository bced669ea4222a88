package repository

import (
	"context"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByClient(ctx context.Context, clientID string) ([]*entity.Payment, error)
}
