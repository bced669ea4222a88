package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const (
	saleColumns     = `id, reference, client_id, sale_date, total_amount, amount_paid, created_at`
	saleLineColumns = `id, sale_id, article_id, COALESCE(lot_line_id, ''), quantity, unit_price`
)

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	ensureID(&s.ID)
	ensureCreated(&s.CreatedAt)
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Reference, s.ClientID, s.Date, s.TotalAmount, s.AmountPaid, s.CreatedAt,
	)
	if err != nil {
		return wrap("insert sale", "venta", s.ID, err)
	}
	return nil
}

func (r *SaleRepo) CreateLines(ctx context.Context, lines []*entity.SaleLine) error {
	for _, ln := range lines {
		ensureID(&ln.ID)
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, article_id, lot_line_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			ln.ID, ln.SaleID, ln.ArticleID, nullIfEmpty(ln.LotLineID), ln.Quantity, ln.UnitPrice,
		)
		if err != nil {
			return wrap("insert sale line", "línea de venta", ln.ID, err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get sale", "venta", id, err)
	}
	return s, nil
}

// List límites nil = sin filtro por ese lado.
func (r *SaleRepo) List(ctx context.Context, from, to *time.Time) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE ($1::timestamptz IS NULL OR sale_date >= $1)
		  AND ($2::timestamptz IS NULL OR sale_date <= $2)
		ORDER BY sale_date DESC`, from, to)
	if err != nil {
		return nil, wrap("list sales", "venta", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, wrap("scan sale", "venta", "", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SaleRepo) ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	return r.listLines(ctx, `SELECT `+saleLineColumns+` FROM sale_lines WHERE sale_id = $1 ORDER BY id`, saleID)
}

func (r *SaleRepo) ListAllLines(ctx context.Context) ([]*entity.SaleLine, error) {
	return r.listLines(ctx, `SELECT `+saleLineColumns+` FROM sale_lines`)
}

func (r *SaleRepo) listLines(ctx context.Context, query string, args ...any) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list sale lines", "línea de venta", "", err)
	}
	defer rows.Close()
	out := make([]*entity.SaleLine, 0)
	for rows.Next() {
		var ln entity.SaleLine
		if err := rows.Scan(&ln.ID, &ln.SaleID, &ln.ArticleID, &ln.LotLineID, &ln.Quantity, &ln.UnitPrice); err != nil {
			return nil, wrap("scan sale line", "línea de venta", "", err)
		}
		out = append(out, &ln)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.Reference, &s.ClientID, &s.Date, &s.TotalAmount, &s.AmountPaid, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Date = s.Date.UTC()
	return &s, nil
}
