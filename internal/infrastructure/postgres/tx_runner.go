package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store backend PostgreSQL: repositorios sobre el pool y transacciones reales.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewStore construye el backend con el pool.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// Repositories repositorios fuera de transacción.
func (s *Store) Repositories() repository.Set {
	return newSet(s.pool, s.log)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Set) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newSet(tx, s.log)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func newSet(q Querier, log zerolog.Logger) repository.Set {
	return repository.Set{
		Articles:  NewArticleRepository(q),
		Clients:   NewClientRepository(q),
		Suppliers: NewSupplierRepository(q),
		Lots:      NewLotRepository(q),
		Sales:     NewSaleRepository(q),
		Debts:     NewDebtRepository(q, log),
		Payments:  NewPaymentRepository(q),
		Relances:  NewRelanceRepository(q),
	}
}
