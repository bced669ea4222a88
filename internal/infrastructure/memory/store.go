// Package memory implementa los repositorios en memoria del proceso.
// Sirve para desarrollo local (STORE_BACKEND=memory) y para las pruebas de los casos de uso.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

type table[T any] struct {
	rows  map[string]T
	order []string
	dup   func(T) T
	// undo apunta al journal de la transacción en curso; nil fuera de una transacción.
	undo **undoLog
}

func newTable[T any](undo **undoLog, cp func(T) T) *table[T] {
	if cp == nil {
		cp = func(v T) T { return v }
	}
	return &table[T]{rows: make(map[string]T), dup: cp, undo: undo}
}

func (t *table[T]) put(id string, v T) {
	prev, existed := t.rows[id]
	if j := *t.undo; j != nil {
		j.add(func() {
			if existed {
				t.rows[id] = prev
				return
			}
			delete(t.rows, id)
			t.order = slices.DeleteFunc(t.order, func(x string) bool { return x == id })
		})
	}
	if !existed {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.dup(v)
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	if !ok {
		return v, false
	}
	return t.dup(v), true
}

// all devuelve los registros en orden de inserción.
func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.dup(t.rows[id]))
	}
	return out
}

// undoLog deshace, en orden inverso, las escrituras de una transacción.
type undoLog struct {
	steps []func()
}

func (u *undoLog) add(f func()) { u.steps = append(u.steps, f) }

func (u *undoLog) rollback() {
	for i := len(u.steps) - 1; i >= 0; i-- {
		u.steps[i]()
	}
	u.steps = nil
}

type tables struct {
	articles  *table[entity.Article]
	clients   *table[entity.Client]
	suppliers *table[entity.Supplier]
	lots      *table[entity.Lot]
	lotLines  *table[entity.LotLine]
	sales     *table[entity.Sale]
	saleLines *table[entity.SaleLine]
	debts     *table[entity.Debt]
	payments  *table[entity.Payment]
	relances  *table[entity.Relance]

	undo *undoLog
}

func newTables() *tables {
	t := &tables{}
	t.articles = newTable[entity.Article](&t.undo, nil)
	t.clients = newTable[entity.Client](&t.undo, nil)
	t.suppliers = newTable[entity.Supplier](&t.undo, nil)
	t.lots = newTable[entity.Lot](&t.undo, nil)
	t.lotLines = newTable[entity.LotLine](&t.undo, nil)
	t.sales = newTable[entity.Sale](&t.undo, nil)
	t.saleLines = newTable[entity.SaleLine](&t.undo, nil)
	t.debts = newTable(&t.undo, func(d entity.Debt) entity.Debt {
		d.Schedule = append([]entity.Installment(nil), d.Schedule...)
		return d
	})
	t.payments = newTable[entity.Payment](&t.undo, nil)
	t.relances = newTable[entity.Relance](&t.undo, nil)
	return t
}

// Store base de datos en memoria. Es segura para uso concurrente.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *tables
	// FailOn, si no es nil, se consulta antes de cada escritura; permite simular caídas del almacén.
	FailOn func(op string) error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newTables()}
}

// Repositories devuelve el conjunto de repositorios sobre este almacén.
func (s *Store) Repositories() repository.Set {
	return s.set(conn{Store: s})
}

func (s *Store) set(c conn) repository.Set {
	return repository.Set{
		Articles:  &ArticleRepo{s: c},
		Clients:   &ClientRepo{s: c},
		Suppliers: &SupplierRepo{s: c},
		Lots:      &LotRepo{s: c},
		Sales:     &SaleRepo{s: c},
		Debts:     &DebtRepo{s: c},
		Payments:  &PaymentRepo{s: c},
		Relances:  &RelanceRepo{s: c},
	}
}

// Run implementa ports.TxRunner: las transacciones se serializan y, si fn falla, se
// deshacen sólo sus propias escrituras. Lo escrito fuera de la transacción se conserva.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Set) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := &undoLog{}
	if err := fn(s.set(conn{Store: s, undo: undo})); err != nil {
		s.mu.Lock()
		undo.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

// conn vista del almacén usada por los repositorios; con undo != nil sus escrituras
// quedan anotadas en el journal de la transacción.
type conn struct {
	*Store
	undo *undoLog
}

func (c conn) write(op string, fn func(t *tables) error) error {
	if c.undo == nil {
		return c.Store.write(op, fn)
	}
	return c.Store.write(op, func(t *tables) error {
		t.undo = c.undo
		defer func() { t.undo = nil }()
		return fn(t)
	})
}

var _ ports.TxRunner = (*Store)(nil)

func (s *Store) write(op string, fn func(t *tables) error) error {
	if s.FailOn != nil {
		if err := s.FailOn(op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func newID() string { return uuid.New().String() }

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}
