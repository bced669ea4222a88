package repository

import (
	"context"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// GetByPhone devuelve (nil, nil) si no existe.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
}
