package repository

import (
	"context"
	"time"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// List acepta límites nil (sin filtro) y devuelve las ventas más recientes primero.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLines(ctx context.Context, lines []*entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, from, to *time.Time) ([]*entity.Sale, error)
	ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
	ListAllLines(ctx context.Context) ([]*entity.SaleLine, error)
}
