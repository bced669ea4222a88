package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

var (
	_ repository.ArticleRepository  = (*ArticleRepo)(nil)
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func ensureCreated(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

// ── Artículos ─────────────────────────────────────────────────────────────────

// ArticleRepo implementación de ArticleRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

const articleColumns = `id, name, shop, category, image_url, notes, active, created_at`

func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	ensureID(&a.ID)
	ensureCreated(&a.CreatedAt)
	_, err := r.q.Exec(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Name, a.Shop, a.Category, a.ImageURL, a.Notes, a.Active, a.CreatedAt,
	)
	if err != nil {
		return wrap("insert article", "article", a.ID, err)
	}
	return nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get article", "article", id, err)
	}
	return a, nil
}

func (r *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	rows, err := r.q.Query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY name`)
	if err != nil {
		return nil, wrap("list articles", "article", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, wrap("scan article", "article", "", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	if err := row.Scan(&a.ID, &a.Name, &a.Shop, &a.Category, &a.ImageURL, &a.Notes, &a.Active, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// ClientRepo el teléfono tiene índice único; un duplicado se traduce a ErrConflict.
type ClientRepo struct {
	q Querier
}

func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, full_name, phone, client_type, email, address, notes, created_at`

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	ensureID(&c.ID)
	ensureCreated(&c.CreatedAt)
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.FullName, c.Phone, c.Type, c.Email, c.Address, c.Notes, c.CreatedAt,
	)
	if err != nil {
		return wrap("insert client", "cliente", c.ID, err)
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get client", "cliente", id, err)
	}
	return c, nil
}

// GetByPhone devuelve (nil, nil) si no existe.
func (r *ClientRepo) GetByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE phone = $1`, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get client by phone", "cliente", phone, err)
	}
	return c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY full_name`)
	if err != nil {
		return nil, wrap("list clients", "cliente", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrap("scan client", "cliente", "", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Type, &c.Email, &c.Address, &c.Notes, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ── Proveedores ───────────────────────────────────────────────────────────────

type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, name, country, phone, email, notes, created_at`

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	ensureID(&s.ID)
	ensureCreated(&s.CreatedAt)
	if s.Country == "" {
		s.Country = entity.PurchaseLocal
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Country, s.Phone, s.Email, s.Notes, s.CreatedAt,
	)
	if err != nil {
		return wrap("insert supplier", "proveedor", s.ID, err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get supplier", "proveedor", id, err)
	}
	return s, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, wrap("list suppliers", "proveedor", "", err)
	}
	defer rows.Close()
	out := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, wrap("scan supplier", "proveedor", "", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.Country, &s.Phone, &s.Email, &s.Notes, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
