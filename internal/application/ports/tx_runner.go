package ports

import (
	"context"

	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

// TxRunner ejecuta fn con repositorios atados a una unidad de trabajo.
// En PostgreSQL es una transacción real; en el almacén REST los registros creados se
// eliminan (compensación) si fn devuelve error.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Set) error) error
}
