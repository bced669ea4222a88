package airtable

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

// El almacén REST no tiene transacciones. Run registra cada escritura en un journal y, si
// fn devuelve error, la compensa en orden inverso: restaura los campos modificados y
// elimina los registros creados. La compensación es best-effort y se registra en log.

var _ ports.TxRunner = (*Store)(nil)

// Run ejecuta fn con repositorios que escriben a través del journal.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Set) error) error {
	j := &journal{Records: s.records}
	if err := fn(s.set(j)); err != nil {
		if n := j.size(); n > 0 {
			s.log.Warn().Err(err).Int("steps", n).Msg("airtable: compensando escrituras")
			if cerr := j.rollback(context.WithoutCancel(ctx)); cerr != nil {
				s.log.Error().Err(cerr).Msg("airtable: compensación incompleta")
			}
		}
		return err
	}
	// fn terminó bien: las escrituras ya están en el almacén, una cancelación tardía no las deshace.
	return nil
}

type step struct {
	table  string
	id     string
	before Fields // nil = registro creado
}

// journal envuelve Records anotando lo necesario para deshacer cada escritura.
type journal struct {
	Records
	mu    sync.Mutex
	steps []step
}

func (j *journal) record(s step) {
	j.mu.Lock()
	j.steps = append(j.steps, s)
	j.mu.Unlock()
}

func (j *journal) size() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.steps)
}

func (j *journal) Create(ctx context.Context, table string, fields Fields) (*Record, error) {
	rec, err := j.Records.Create(ctx, table, fields)
	if err != nil {
		return nil, err
	}
	j.record(step{table: table, id: rec.ID})
	return rec, nil
}

// CreateMany anota también los registros de los lotes que sí se crearon antes de un fallo.
func (j *journal) CreateMany(ctx context.Context, table string, rows []Fields) ([]Record, error) {
	recs, err := j.Records.CreateMany(ctx, table, rows)
	for _, r := range recs {
		j.record(step{table: table, id: r.ID})
	}
	return recs, err
}

// Update guarda antes los valores previos de los campos que cambia.
func (j *journal) Update(ctx context.Context, table, id string, fields Fields) (*Record, error) {
	prev, err := j.Records.Get(ctx, table, id)
	if err != nil {
		return nil, err
	}
	before := make(Fields, len(fields))
	for k := range fields {
		before[k] = prev.Fields[k]
	}
	rec, err := j.Records.Update(ctx, table, id, fields)
	if err != nil {
		return nil, err
	}
	j.record(step{table: table, id: id, before: before})
	return rec, nil
}

func (j *journal) rollback(ctx context.Context) error {
	j.mu.Lock()
	steps := j.steps
	j.steps = nil
	j.mu.Unlock()

	var failed int
	var first error
	for i := len(steps) - 1; i >= 0; i-- {
		st := steps[i]
		var err error
		if st.before == nil {
			err = j.Records.Delete(ctx, st.table, st.id)
		} else {
			_, err = j.Records.Update(ctx, st.table, st.id, st.before)
		}
		if err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("airtable: %d de %d pasos sin deshacer: %w", failed, len(steps), first)
	}
	return nil
}
