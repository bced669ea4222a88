package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes y sus líneas.
// Create y CreateLines asignan el ID generado a cada entidad.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	CreateLines(ctx context.Context, lines []*entity.LotLine) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	List(ctx context.Context) ([]*entity.Lot, error)
	GetLine(ctx context.Context, lineID string) (*entity.LotLine, error)
	ListLines(ctx context.Context, lotID string) ([]*entity.LotLine, error)
	ListAllLines(ctx context.Context) ([]*entity.LotLine, error)
	UpdateLineCost(ctx context.Context, lineID string, unitCost decimal.Decimal) error
}
