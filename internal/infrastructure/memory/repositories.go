package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
)

var (
	_ repository.ArticleRepository  = (*ArticleRepo)(nil)
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.LotRepository      = (*LotRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.DebtRepository     = (*DebtRepo)(nil)
	_ repository.PaymentRepository  = (*PaymentRepo)(nil)
	_ repository.RelanceRepository  = (*RelanceRepo)(nil)
)

func ptrs[T any](in []T) []*T {
	out := make([]*T, 0, len(in))
	for i := range in {
		out = append(out, &in[i])
	}
	return out
}

// ── Artículos ────────────────────────────────────────────────────────────────

type ArticleRepo struct{ s conn }

func (r *ArticleRepo) Create(_ context.Context, a *entity.Article) error {
	return r.s.write("articles.create", func(t *tables) error {
		if a.ID == "" {
			a.ID = newID()
		}
		t.articles.put(a.ID, *a)
		return nil
	})
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	var (
		a  entity.Article
		ok bool
	)
	r.s.read(func(t *tables) { a, ok = t.articles.get(id) })
	if !ok {
		return nil, notFound("artículo", id)
	}
	return &a, nil
}

func (r *ArticleRepo) List(_ context.Context) ([]*entity.Article, error) {
	var out []entity.Article
	r.s.read(func(t *tables) { out = t.articles.all() })
	return ptrs(out), nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

type ClientRepo struct{ s conn }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.s.write("clients.create", func(t *tables) error {
		if c.ID == "" {
			c.ID = newID()
		}
		t.clients.put(c.ID, *c)
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var (
		c  entity.Client
		ok bool
	)
	r.s.read(func(t *tables) { c, ok = t.clients.get(id) })
	if !ok {
		return nil, notFound("cliente", id)
	}
	return &c, nil
}

func (r *ClientRepo) GetByPhone(_ context.Context, phone string) (*entity.Client, error) {
	var found *entity.Client
	r.s.read(func(t *tables) {
		for _, c := range t.clients.all() {
			if c.Phone == phone {
				c := c
				found = &c
				return
			}
		}
	})
	return found, nil
}

func (r *ClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	var out []entity.Client
	r.s.read(func(t *tables) { out = t.clients.all() })
	return ptrs(out), nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

type SupplierRepo struct{ s conn }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	return r.s.write("suppliers.create", func(t *tables) error {
		if sp.ID == "" {
			sp.ID = newID()
		}
		t.suppliers.put(sp.ID, *sp)
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var (
		sp entity.Supplier
		ok bool
	)
	r.s.read(func(t *tables) { sp, ok = t.suppliers.get(id) })
	if !ok {
		return nil, notFound("proveedor", id)
	}
	return &sp, nil
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []entity.Supplier
	r.s.read(func(t *tables) { out = t.suppliers.all() })
	return ptrs(out), nil
}

// ── Lotes ────────────────────────────────────────────────────────────────────

type LotRepo struct{ s conn }

func (r *LotRepo) Create(_ context.Context, l *entity.Lot) error {
	return r.s.write("lots.create", func(t *tables) error {
		if l.ID == "" {
			l.ID = newID()
		}
		t.lots.put(l.ID, *l)
		return nil
	})
}

func (r *LotRepo) CreateLines(_ context.Context, lines []*entity.LotLine) error {
	return r.s.write("lots.create_lines", func(t *tables) error {
		for _, ln := range lines {
			if ln.ID == "" {
				ln.ID = newID()
			}
			t.lotLines.put(ln.ID, *ln)
		}
		return nil
	})
}

func (r *LotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	var (
		l  entity.Lot
		ok bool
	)
	r.s.read(func(t *tables) { l, ok = t.lots.get(id) })
	if !ok {
		return nil, notFound("lote", id)
	}
	return &l, nil
}

func (r *LotRepo) List(_ context.Context) ([]*entity.Lot, error) {
	var out []entity.Lot
	r.s.read(func(t *tables) { out = t.lots.all() })
	return ptrs(out), nil
}

func (r *LotRepo) GetLine(_ context.Context, lineID string) (*entity.LotLine, error) {
	var (
		l  entity.LotLine
		ok bool
	)
	r.s.read(func(t *tables) { l, ok = t.lotLines.get(lineID) })
	if !ok {
		return nil, notFound("línea de lote", lineID)
	}
	return &l, nil
}

func (r *LotRepo) ListLines(_ context.Context, lotID string) ([]*entity.LotLine, error) {
	var out []entity.LotLine
	r.s.read(func(t *tables) {
		for _, l := range t.lotLines.all() {
			if l.LotID == lotID {
				out = append(out, l)
			}
		}
	})
	return ptrs(out), nil
}

func (r *LotRepo) ListAllLines(_ context.Context) ([]*entity.LotLine, error) {
	var out []entity.LotLine
	r.s.read(func(t *tables) { out = t.lotLines.all() })
	return ptrs(out), nil
}

func (r *LotRepo) UpdateLineCost(_ context.Context, lineID string, unitCost decimal.Decimal) error {
	return r.s.write("lots.update_line_cost", func(t *tables) error {
		l, ok := t.lotLines.get(lineID)
		if !ok {
			return notFound("línea de lote", lineID)
		}
		l.AllocatedUnitCost = unitCost
		t.lotLines.put(lineID, l)
		return nil
	})
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type SaleRepo struct{ s conn }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.s.write("sales.create", func(t *tables) error {
		if sale.ID == "" {
			sale.ID = newID()
		}
		t.sales.put(sale.ID, *sale)
		return nil
	})
}

func (r *SaleRepo) CreateLines(_ context.Context, lines []*entity.SaleLine) error {
	return r.s.write("sales.create_lines", func(t *tables) error {
		for _, ln := range lines {
			if ln.ID == "" {
				ln.ID = newID()
			}
			t.saleLines.put(ln.ID, *ln)
		}
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var (
		sale entity.Sale
		ok   bool
	)
	r.s.read(func(t *tables) { sale, ok = t.sales.get(id) })
	if !ok {
		return nil, notFound("venta", id)
	}
	return &sale, nil
}

func (r *SaleRepo) List(_ context.Context, from, to *time.Time) ([]*entity.Sale, error) {
	var out []entity.Sale
	r.s.read(func(t *tables) {
		for _, sale := range t.sales.all() {
			if from != nil && sale.Date.Before(*from) {
				continue
			}
			if to != nil && sale.Date.After(*to) {
				continue
			}
			out = append(out, sale)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return ptrs(out), nil
}

func (r *SaleRepo) ListLines(_ context.Context, saleID string) ([]*entity.SaleLine, error) {
	var out []entity.SaleLine
	r.s.read(func(t *tables) {
		for _, l := range t.saleLines.all() {
			if l.SaleID == saleID {
				out = append(out, l)
			}
		}
	})
	return ptrs(out), nil
}

func (r *SaleRepo) ListAllLines(_ context.Context) ([]*entity.SaleLine, error) {
	var out []entity.SaleLine
	r.s.read(func(t *tables) { out = t.saleLines.all() })
	return ptrs(out), nil
}

// ── Deudas ───────────────────────────────────────────────────────────────────

type DebtRepo struct{ s conn }

func (r *DebtRepo) Create(_ context.Context, d *entity.Debt) error {
	return r.s.write("debts.create", func(t *tables) error {
		if d.ID == "" {
			d.ID = newID()
		}
		t.debts.put(d.ID, *d)
		return nil
	})
}

func (r *DebtRepo) GetByID(_ context.Context, id string) (*entity.Debt, error) {
	var (
		d  entity.Debt
		ok bool
	)
	r.s.read(func(t *tables) { d, ok = t.debts.get(id) })
	if !ok {
		return nil, notFound("deuda", id)
	}
	return &d, nil
}

func (r *DebtRepo) List(_ context.Context) ([]*entity.Debt, error) {
	var out []entity.Debt
	r.s.read(func(t *tables) { out = t.debts.all() })
	return ptrs(out), nil
}

func (r *DebtRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Debt, error) {
	var out []entity.Debt
	r.s.read(func(t *tables) {
		for _, d := range t.debts.all() {
			if d.ClientID == clientID {
				out = append(out, d)
			}
		}
	})
	return ptrs(out), nil
}

func (r *DebtRepo) UpdateRemaining(_ context.Context, id string, remaining decimal.Decimal) error {
	return r.s.write("debts.update_remaining", func(t *tables) error {
		d, ok := t.debts.get(id)
		if !ok {
			return notFound("deuda", id)
		}
		d.RemainingAmount = remaining
		t.debts.put(id, d)
		return nil
	})
}

// ── Pagos ────────────────────────────────────────────────────────────────────

type PaymentRepo struct{ s conn }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.s.write("payments.create", func(t *tables) error {
		if p.ID == "" {
			p.ID = newID()
		}
		t.payments.put(p.ID, *p)
		return nil
	})
}

func (r *PaymentRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Payment, error) {
	var out []entity.Payment
	r.s.read(func(t *tables) {
		for _, p := range t.payments.all() {
			if p.ClientID == clientID {
				out = append(out, p)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return ptrs(out), nil
}

// ── Relances ─────────────────────────────────────────────────────────────────

type RelanceRepo struct{ s conn }

func (r *RelanceRepo) Create(_ context.Context, rl *entity.Relance) error {
	return r.s.write("relances.create", func(t *tables) error {
		if rl.ID == "" {
			rl.ID = newID()
		}
		t.relances.put(rl.ID, *rl)
		return nil
	})
}

func (r *RelanceRepo) ListByDebt(_ context.Context, debtID string) ([]*entity.Relance, error) {
	var out []entity.Relance
	r.s.read(func(t *tables) {
		for _, rl := range t.relances.all() {
			if rl.DebtID == debtID {
				out = append(out, rl)
			}
		}
	})
	return ptrs(out), nil
}

func (r *RelanceRepo) MarkSent(_ context.Context, id string, at time.Time) error {
	return r.s.write("relances.mark_sent", func(t *tables) error {
		rl, ok := t.relances.get(id)
		if !ok {
			return notFound("relance", id)
		}
		rl.Status = entity.RelanceSent
		rl.SentAt = &at
		t.relances.put(id, rl)
		return nil
	})
}
