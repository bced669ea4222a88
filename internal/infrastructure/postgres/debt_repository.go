package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

var (
	_ repository.DebtRepository    = (*DebtRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
	_ repository.RelanceRepository = (*RelanceRepo)(nil)
)

// ── Deudas ────────────────────────────────────────────────────────────────────

// DebtRepo el calendario se guarda en JSONB con el mismo formato {date, montant} del almacén REST.
type DebtRepo struct {
	q   Querier
	log zerolog.Logger
}

func NewDebtRepository(q Querier, log zerolog.Logger) *DebtRepo {
	return &DebtRepo{q: q, log: log}
}

const debtColumns = `id, COALESCE(sale_id, ''), client_id, initial_amount, remaining_amount, schedule, notes, created_at`

func (r *DebtRepo) Create(ctx context.Context, d *entity.Debt) error {
	ensureID(&d.ID)
	ensureCreated(&d.CreatedAt)
	schedule, err := debt.MarshalSchedule(debt.SortSchedule(d.Schedule))
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO debts (id, sale_id, client_id, initial_amount, remaining_amount, schedule, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)`,
		d.ID, nullIfEmpty(d.SaleID), d.ClientID, d.InitialAmount, d.RemainingAmount, schedule, d.Notes, d.CreatedAt,
	)
	if err != nil {
		return wrap("insert debt", "deuda", d.ID, err)
	}
	return nil
}

func (r *DebtRepo) GetByID(ctx context.Context, id string) (*entity.Debt, error) {
	d, err := r.scan(r.q.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get debt", "deuda", id, err)
	}
	return d, nil
}

func (r *DebtRepo) List(ctx context.Context) ([]*entity.Debt, error) {
	return r.list(ctx, `SELECT `+debtColumns+` FROM debts ORDER BY created_at`)
}

func (r *DebtRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Debt, error) {
	return r.list(ctx, `SELECT `+debtColumns+` FROM debts WHERE client_id = $1 ORDER BY created_at`, clientID)
}

func (r *DebtRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE debts SET remaining_amount = $2 WHERE id = $1`, id, remaining)
	if err != nil {
		return wrap("update debt", "deuda", id, err)
	}
	return affected(tag, "deuda", id)
}

func (r *DebtRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Debt, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list debts", "deuda", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Debt, 0)
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, wrap("scan debt", "deuda", "", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DebtRepo) scan(row pgx.Row) (*entity.Debt, error) {
	var (
		d   entity.Debt
		raw []byte
	)
	if err := row.Scan(&d.ID, &d.SaleID, &d.ClientID, &d.InitialAmount, &d.RemainingAmount, &raw, &d.Notes, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Schedule = debt.ParseSchedule(raw, r.log.With().Str("debt_id", d.ID).Logger())
	return &d, nil
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	ensureID(&p.ID)
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, reference, client_id, amount, method, payment_date, proof_url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Reference, p.ClientID, p.Amount, p.Method, p.Date, p.ProofURL, p.Notes,
	)
	if err != nil {
		return wrap("insert payment", "pago", p.ID, err)
	}
	return nil
}

func (r *PaymentRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, reference, client_id, amount, method, payment_date, proof_url, notes
		FROM payments WHERE client_id = $1 ORDER BY payment_date DESC`, clientID)
	if err != nil {
		return nil, wrap("list payments", "pago", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Payment, 0)
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.Reference, &p.ClientID, &p.Amount, &p.Method, &p.Date, &p.ProofURL, &p.Notes); err != nil {
			return nil, wrap("scan payment", "pago", "", err)
		}
		p.Date = p.Date.UTC()
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ── Recordatorios ─────────────────────────────────────────────────────────────

type RelanceRepo struct {
	q Querier
}

func NewRelanceRepository(q Querier) *RelanceRepo {
	return &RelanceRepo{q: q}
}

func (r *RelanceRepo) Create(ctx context.Context, rl *entity.Relance) error {
	ensureID(&rl.ID)
	if rl.Status == "" {
		rl.Status = entity.RelanceScheduled
	}
	if rl.ScheduledAt == nil {
		now := time.Now().UTC()
		rl.ScheduledAt = &now
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO relances (id, debt_id, client_id, relance_type, channel, message, status, scheduled_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rl.ID, rl.DebtID, rl.ClientID, string(rl.Type), rl.Channel, rl.Message, rl.Status, rl.ScheduledAt, rl.SentAt,
	)
	if err != nil {
		return wrap("insert relance", "recordatorio", rl.ID, err)
	}
	return nil
}

func (r *RelanceRepo) ListByDebt(ctx context.Context, debtID string) ([]*entity.Relance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, debt_id, client_id, relance_type, channel, message, status, scheduled_at, sent_at
		FROM relances WHERE debt_id = $1 ORDER BY scheduled_at DESC NULLS LAST`, debtID)
	if err != nil {
		return nil, wrap("list relances", "recordatorio", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Relance, 0)
	for rows.Next() {
		var (
			rl   entity.Relance
			kind string
		)
		if err := rows.Scan(&rl.ID, &rl.DebtID, &rl.ClientID, &kind, &rl.Channel, &rl.Message, &rl.Status, &rl.ScheduledAt, &rl.SentAt); err != nil {
			return nil, wrap("scan relance", "recordatorio", "", err)
		}
		rl.Type = entity.RelanceType(kind)
		out = append(out, &rl)
	}
	return out, rows.Err()
}

func (r *RelanceRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE relances SET status = $2, sent_at = $3 WHERE id = $1`, id, entity.RelanceSent, at)
	if err != nil {
		return wrap("mark relance sent", "recordatorio", id, err)
	}
	return affected(tag, "recordatorio", id)
}
