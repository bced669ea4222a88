package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes y sus líneas (usable con pool o tx).
type LotRepo struct {
	q Querier
}

func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const (
	lotColumns     = `id, reference, supplier_id, purchase_date, location, currency, global_amount, misc_fees, notes, created_at`
	lotLineColumns = `id, lot_id, article_id, initial_quantity, base_unit_cost, allocated_unit_cost, desired_sale_price`
)

func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	ensureID(&l.ID)
	ensureCreated(&l.CreatedAt)
	_, err := r.q.Exec(ctx, `
		INSERT INTO lots (`+lotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, l.Reference, l.SupplierID, l.PurchaseDate, l.Location, l.Currency,
		l.GlobalAmount, l.MiscFees, l.Notes, l.CreatedAt,
	)
	if err != nil {
		return wrap("insert lot", "lote", l.ID, err)
	}
	return nil
}

func (r *LotRepo) CreateLines(ctx context.Context, lines []*entity.LotLine) error {
	for _, ln := range lines {
		ensureID(&ln.ID)
		_, err := r.q.Exec(ctx, `
			INSERT INTO lot_lines (`+lotLineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ln.ID, ln.LotID, ln.ArticleID, ln.InitialQuantity, ln.BaseUnitCost, ln.AllocatedUnitCost, ln.DesiredSalePrice,
		)
		if err != nil {
			return wrap("insert lot line", "línea de lote", ln.ID, err)
		}
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get lot", "lote", id, err)
	}
	return l, nil
}

func (r *LotRepo) List(ctx context.Context) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lotColumns+` FROM lots ORDER BY purchase_date DESC, created_at DESC`)
	if err != nil {
		return nil, wrap("list lots", "lote", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Lot, 0)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, wrap("scan lot", "lote", "", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LotRepo) GetLine(ctx context.Context, lineID string) (*entity.LotLine, error) {
	ln, err := scanLotLine(r.q.QueryRow(ctx, `SELECT `+lotLineColumns+` FROM lot_lines WHERE id = $1`, lineID))
	if err != nil {
		return nil, wrap("get lot line", "línea de lote", lineID, err)
	}
	return ln, nil
}

func (r *LotRepo) ListLines(ctx context.Context, lotID string) ([]*entity.LotLine, error) {
	return r.listLines(ctx, `SELECT `+lotLineColumns+` FROM lot_lines WHERE lot_id = $1 ORDER BY id`, lotID)
}

func (r *LotRepo) ListAllLines(ctx context.Context) ([]*entity.LotLine, error) {
	return r.listLines(ctx, `SELECT `+lotLineColumns+` FROM lot_lines`)
}

func (r *LotRepo) UpdateLineCost(ctx context.Context, lineID string, unitCost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE lot_lines SET allocated_unit_cost = $2 WHERE id = $1`, lineID, unitCost)
	if err != nil {
		return wrap("update lot line cost", "línea de lote", lineID, err)
	}
	return affected(tag, "línea de lote", lineID)
}

func (r *LotRepo) listLines(ctx context.Context, query string, args ...any) ([]*entity.LotLine, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list lot lines", "línea de lote", "", err)
	}
	defer rows.Close()
	out := make([]*entity.LotLine, 0)
	for rows.Next() {
		ln, err := scanLotLine(rows)
		if err != nil {
			return nil, wrap("scan lot line", "línea de lote", "", err)
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.Reference, &l.SupplierID, &l.PurchaseDate, &l.Location, &l.Currency,
		&l.GlobalAmount, &l.MiscFees, &l.Notes, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.PurchaseDate = l.PurchaseDate.UTC()
	return &l, nil
}

func scanLotLine(row pgx.Row) (*entity.LotLine, error) {
	var ln entity.LotLine
	err := row.Scan(&ln.ID, &ln.LotID, &ln.ArticleID, &ln.InitialQuantity, &ln.BaseUnitCost,
		&ln.AllocatedUnitCost, &ln.DesiredSalePrice)
	if err != nil {
		return nil, err
	}
	return &ln, nil
}
