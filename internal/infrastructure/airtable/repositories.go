package airtable

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/debt"
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

// get envuelve el 404 con el tipo y el ID buscados.
func get(ctx context.Context, rec Records, table, kind, id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}
	r, err := rec.Get(ctx, table, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// ── Articles ──────────────────────────────────────────────────────────────────

type ArticleRepo struct {
	rec   Records
	table string
}

func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	out, err := r.rec.Create(ctx, r.table, Fields{
		"nom":           a.Name,
		"boutique":      a.Shop,
		"categorie":     a.Category,
		"image_url":     a.ImageURL,
		"notes":         a.Notes,
		"actif":         a.Active,
		"date_creation": timestamp(a.CreatedAt),
	})
	if err != nil {
		return err
	}
	a.ID = out.ID
	return nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	rec, err := get(ctx, r.rec, r.table, "article", id)
	if err != nil {
		return nil, err
	}
	return toArticle(rec), nil
}

func (r *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Sort: []Sort{{Field: "nom"}}})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Article, 0, len(recs))
	for i := range recs {
		out = append(out, toArticle(&recs[i]))
	}
	return out, nil
}

func toArticle(r *Record) *entity.Article {
	f := r.Fields
	return &entity.Article{
		ID:        r.ID,
		Name:      f.str("nom"),
		Shop:      f.str("boutique"),
		Category:  f.str("categorie"),
		ImageURL:  f.str("image_url"),
		Notes:     f.str("notes"),
		Active:    f.flag("actif"),
		CreatedAt: createdAt(r, "date_creation"),
	}
}

// ── Clients ───────────────────────────────────────────────────────────────────

type ClientRepo struct {
	rec   Records
	table string
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	out, err := r.rec.Create(ctx, r.table, Fields{
		"nom_complet":   c.FullName,
		"telephone":     c.Phone,
		"type_client":   c.Type,
		"email":         c.Email,
		"adresse":       c.Address,
		"notes":         c.Notes,
		"date_creation": dateOnly(c.CreatedAt),
	})
	if err != nil {
		return err
	}
	c.ID = out.ID
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	rec, err := get(ctx, r.rec, r.table, "client", id)
	if err != nil {
		return nil, err
	}
	return toClient(rec), nil
}

// GetByPhone devuelve (nil, nil) si ningún cliente tiene ese teléfono.
func (r *ClientRepo) GetByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Filter: Eq("telephone", phone), MaxRecords: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return toClient(&recs[0]), nil
}

func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Sort: []Sort{{Field: "nom_complet"}}})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(recs))
	for i := range recs {
		out = append(out, toClient(&recs[i]))
	}
	return out, nil
}

func toClient(r *Record) *entity.Client {
	f := r.Fields
	return &entity.Client{
		ID:        r.ID,
		FullName:  f.str("nom_complet"),
		Phone:     f.str("telephone"),
		Type:      f.str("type_client"),
		Email:     f.str("email"),
		Address:   f.str("adresse"),
		Notes:     f.str("notes"),
		CreatedAt: createdAt(r, "date_creation"),
	}
}

// ── Fournisseurs ──────────────────────────────────────────────────────────────

type SupplierRepo struct {
	rec   Records
	table string
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Country == "" {
		s.Country = entity.PurchaseLocal
	}
	out, err := r.rec.Create(ctx, r.table, Fields{
		"nom":           s.Name,
		"pays":          s.Country,
		"telephone":     s.Phone,
		"email":         s.Email,
		"notes":         s.Notes,
		"date_creation": dateOnly(s.CreatedAt),
	})
	if err != nil {
		return err
	}
	s.ID = out.ID
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	rec, err := get(ctx, r.rec, r.table, "proveedor", id)
	if err != nil {
		return nil, err
	}
	return toSupplier(rec), nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Sort: []Sort{{Field: "nom"}}})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Supplier, 0, len(recs))
	for i := range recs {
		out = append(out, toSupplier(&recs[i]))
	}
	return out, nil
}

func toSupplier(r *Record) *entity.Supplier {
	f := r.Fields
	return &entity.Supplier{
		ID:        r.ID,
		Name:      f.str("nom"),
		Country:   f.str("pays"),
		Phone:     f.str("telephone"),
		Email:     f.str("email"),
		Notes:     f.str("notes"),
		CreatedAt: createdAt(r, "date_creation"),
	}
}

// ── Lots ──────────────────────────────────────────────────────────────────────

// LotRepo la tabla de líneas guarda el costo total asignado (cout_total_article); el costo
// unitario se deriva dividiendo por la cantidad. El costo base no tiene columna propia.
type LotRepo struct {
	rec   Records
	table string
	lines string
}

func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	out, err := r.rec.Create(ctx, r.table, Fields{
		"reference":      l.Reference,
		"fournisseur":    links(l.SupplierID),
		"date_achat":     dateOnly(l.PurchaseDate),
		"lieu_achat":     l.Location,
		"devise":         l.Currency,
		"montant_global": number(l.GlobalAmount),
		"frais_divers":   number(l.MiscFees),
		"notes":          l.Notes,
	})
	if err != nil {
		return err
	}
	l.ID = out.ID
	return nil
}

func (r *LotRepo) CreateLines(ctx context.Context, lines []*entity.LotLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]Fields, 0, len(lines))
	for _, ln := range lines {
		f := Fields{
			"lot":                links(ln.LotID),
			"article":            links(ln.ArticleID),
			"quantite_initiale":  ln.InitialQuantity,
			"cout_total_article": number(ln.AllocatedTotalCost()),
		}
		if ln.DesiredSalePrice.Valid {
			f["prix_vente_souhaite"] = number(ln.DesiredSalePrice.Decimal)
		}
		rows = append(rows, f)
	}
	out, err := r.rec.CreateMany(ctx, r.lines, rows)
	for i := range out {
		if i < len(lines) {
			lines[i].ID = out[i].ID
		}
	}
	return err
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	rec, err := get(ctx, r.rec, r.table, "lote", id)
	if err != nil {
		return nil, err
	}
	return toLot(rec), nil
}

func (r *LotRepo) List(ctx context.Context) ([]*entity.Lot, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Sort: []Sort{{Field: "date_achat", Direction: "desc"}}})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Lot, 0, len(recs))
	for i := range recs {
		out = append(out, toLot(&recs[i]))
	}
	return out, nil
}

func (r *LotRepo) GetLine(ctx context.Context, lineID string) (*entity.LotLine, error) {
	rec, err := get(ctx, r.rec, r.lines, "línea de lote", lineID)
	if err != nil {
		return nil, err
	}
	return toLotLine(rec), nil
}

// ListLines filtra en memoria: las fórmulas sobre campos vinculados comparan el nombre
// primario, no el ID del registro.
func (r *LotRepo) ListLines(ctx context.Context, lotID string) ([]*entity.LotLine, error) {
	all, err := r.ListAllLines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.LotLine, 0)
	for _, ln := range all {
		if ln.LotID == lotID {
			out = append(out, ln)
		}
	}
	return out, nil
}

func (r *LotRepo) ListAllLines(ctx context.Context) ([]*entity.LotLine, error) {
	recs, err := r.rec.List(ctx, r.lines, ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.LotLine, 0, len(recs))
	for i := range recs {
		out = append(out, toLotLine(&recs[i]))
	}
	return out, nil
}

// UpdateLineCost reescribe el costo total de la línea a partir del nuevo costo unitario.
func (r *LotRepo) UpdateLineCost(ctx context.Context, lineID string, unitCost decimal.Decimal) error {
	ln, err := r.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	total := unitCost.Mul(decimal.NewFromInt(int64(ln.InitialQuantity)))
	_, err = r.rec.Update(ctx, r.lines, lineID, Fields{"cout_total_article": number(total)})
	return err
}

func toLot(r *Record) *entity.Lot {
	f := r.Fields
	return &entity.Lot{
		ID:           r.ID,
		Reference:    f.str("reference"),
		SupplierID:   f.link("fournisseur"),
		PurchaseDate: f.date("date_achat"),
		Location:     f.str("lieu_achat"),
		Currency:     f.str("devise"),
		GlobalAmount: f.dec("montant_global"),
		MiscFees:     f.dec("frais_divers"),
		Notes:        f.str("notes"),
		CreatedAt:    createdAt(r, ""),
	}
}

func toLotLine(r *Record) *entity.LotLine {
	f := r.Fields
	qty := f.count("quantite_initiale")
	unit := decimal.Zero
	if qty > 0 {
		unit = f.dec("cout_total_article").Div(decimal.NewFromInt(int64(qty)))
	}
	return &entity.LotLine{
		ID:                r.ID,
		LotID:             f.link("lot"),
		ArticleID:         f.link("article"),
		InitialQuantity:   qty,
		BaseUnitCost:      unit,
		AllocatedUnitCost: unit,
		DesiredSalePrice:  f.nullDec("prix_vente_souhaite"),
	}
}

// ── Ventes ────────────────────────────────────────────────────────────────────

type SaleRepo struct {
	rec   Records
	table string
	lines string
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	out, err := r.rec.Create(ctx, r.table, Fields{
		"reference":            s.Reference,
		"client":               links(s.ClientID),
		"date_vente":           timestamp(s.Date),
		"montant_total":        number(s.TotalAmount),
		"montant_paye_initial": number(s.AmountPaid),
	})
	if err != nil {
		return err
	}
	s.ID = out.ID
	return nil
}

func (r *SaleRepo) CreateLines(ctx context.Context, lines []*entity.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]Fields, 0, len(lines))
	for _, ln := range lines {
		f := Fields{
			"vente":                 links(ln.SaleID),
			"article":               links(ln.ArticleID),
			"quantite":              ln.Quantity,
			"prix_unitaire_negocie": number(ln.UnitPrice),
		}
		if ln.LotLineID != "" {
			f["ligne_lot"] = links(ln.LotLineID)
		}
		rows = append(rows, f)
	}
	out, err := r.rec.CreateMany(ctx, r.lines, rows)
	for i := range out {
		if i < len(lines) {
			lines[i].ID = out[i].ID
		}
	}
	return err
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	rec, err := get(ctx, r.rec, r.table, "venta", id)
	if err != nil {
		return nil, err
	}
	return toSale(rec), nil
}

// List filtra el rango en el almacén con IS_AFTER / IS_BEFORE y ordena por fecha descendente.
func (r *SaleRepo) List(ctx context.Context, from, to *time.Time) ([]*entity.Sale, error) {
	var terms []Formula
	if from != nil {
		terms = append(terms, Raw(fmt.Sprintf("NOT(IS_BEFORE({date_vente}, %s))", quote(timestamp(*from)))))
	}
	if to != nil {
		terms = append(terms, Raw(fmt.Sprintf("NOT(IS_AFTER({date_vente}, %s))", quote(timestamp(*to)))))
	}
	recs, err := r.rec.List(ctx, r.table, ListOptions{
		Filter: And(terms...),
		Sort:   []Sort{{Field: "date_vente", Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Sale, 0, len(recs))
	for i := range recs {
		out = append(out, toSale(&recs[i]))
	}
	// el almacén compara a nivel de segundo; se reaplica el rango exacto
	filtered := out[:0]
	for _, s := range out {
		if from != nil && s.Date.Before(*from) {
			continue
		}
		if to != nil && s.Date.After(*to) {
			continue
		}
		filtered = append(filtered, s)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Date.After(filtered[j].Date) })
	return filtered, nil
}

func (r *SaleRepo) ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	all, err := r.ListAllLines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.SaleLine, 0)
	for _, ln := range all {
		if ln.SaleID == saleID {
			out = append(out, ln)
		}
	}
	return out, nil
}

func (r *SaleRepo) ListAllLines(ctx context.Context) ([]*entity.SaleLine, error) {
	recs, err := r.rec.List(ctx, r.lines, ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.SaleLine, 0, len(recs))
	for i := range recs {
		f := recs[i].Fields
		out = append(out, &entity.SaleLine{
			ID:        recs[i].ID,
			SaleID:    f.link("vente"),
			ArticleID: f.link("article"),
			LotLineID: f.link("ligne_lot"),
			Quantity:  f.count("quantite"),
			UnitPrice: f.dec("prix_unitaire_negocie"),
		})
	}
	return out, nil
}

func toSale(r *Record) *entity.Sale {
	f := r.Fields
	return &entity.Sale{
		ID:          r.ID,
		Reference:   f.str("reference"),
		ClientID:    f.link("client"),
		Date:        f.date("date_vente"),
		TotalAmount: f.dec("montant_total"),
		AmountPaid:  f.dec("montant_paye_initial"),
		CreatedAt:   createdAt(r, ""),
	}
}

// ── Dettes ────────────────────────────────────────────────────────────────────

type DebtRepo struct {
	rec   Records
	table string
	log   zerolog.Logger
}

func (r *DebtRepo) Create(ctx context.Context, d *entity.Debt) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	schedule, err := debt.MarshalSchedule(debt.SortSchedule(d.Schedule))
	if err != nil {
		return err
	}
	out, err := r.rec.Create(ctx, r.table, Fields{
		"vente":           links(d.SaleID),
		"client":          links(d.ClientID),
		"montant_initial": number(d.InitialAmount),
		"montant_restant": number(d.RemainingAmount),
		"echeancier":      schedule,
		"notes":           d.Notes,
		"date_creation":   timestamp(d.CreatedAt),
	})
	if err != nil {
		return err
	}
	d.ID = out.ID
	return nil
}

func (r *DebtRepo) GetByID(ctx context.Context, id string) (*entity.Debt, error) {
	rec, err := get(ctx, r.rec, r.table, "deuda", id)
	if err != nil {
		return nil, err
	}
	return r.toDebt(rec), nil
}

func (r *DebtRepo) List(ctx context.Context) ([]*entity.Debt, error) {
	return r.list(ctx)
}

func (r *DebtRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Debt, error) {
	all, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Debt, 0)
	for _, d := range all {
		if d.ClientID == clientID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DebtRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	_, err := r.rec.Update(ctx, r.table, id, Fields{"montant_restant": number(remaining)})
	if IsNotFound(err) {
		return fmt.Errorf("deuda %q: %w", id, domain.ErrNotFound)
	}
	return err
}

func (r *DebtRepo) list(ctx context.Context) ([]*entity.Debt, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Sort: []Sort{{Field: "date_creation"}}})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Debt, 0, len(recs))
	for i := range recs {
		out = append(out, r.toDebt(&recs[i]))
	}
	return out, nil
}

func (r *DebtRepo) toDebt(rec *Record) *entity.Debt {
	f := rec.Fields
	return &entity.Debt{
		ID:              rec.ID,
		SaleID:          f.link("vente"),
		ClientID:        f.link("client"),
		InitialAmount:   f.dec("montant_initial"),
		RemainingAmount: f.dec("montant_restant"),
		Schedule:        debt.ParseSchedule(f["echeancier"], r.log.With().Str("debt_id", rec.ID).Logger()),
		Notes:           f.str("notes"),
		CreatedAt:       createdAt(rec, "date_creation"),
	}
}

// ── Paiements ─────────────────────────────────────────────────────────────────

type PaymentRepo struct {
	rec   Records
	table string
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	out, err := r.rec.Create(ctx, r.table, Fields{
		"reference":     p.Reference,
		"client":        links(p.ClientID),
		"montant":       number(p.Amount),
		"mode_paiement": p.Method,
		"date_paiement": timestamp(p.Date),
		"preuve_url":    p.ProofURL,
		"notes":         p.Notes,
	})
	if err != nil {
		return err
	}
	p.ID = out.ID
	return nil
}

func (r *PaymentRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Payment, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Sort: []Sort{{Field: "date_paiement", Direction: "desc"}}})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Payment, 0)
	for i := range recs {
		f := recs[i].Fields
		if f.link("client") != clientID {
			continue
		}
		out = append(out, &entity.Payment{
			ID:        recs[i].ID,
			Reference: f.str("reference"),
			ClientID:  clientID,
			Amount:    f.dec("montant"),
			Method:    f.str("mode_paiement"),
			Date:      f.date("date_paiement"),
			ProofURL:  f.str("preuve_url"),
			Notes:     f.str("notes"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ── Relances ──────────────────────────────────────────────────────────────────

// los tipos se guardan con la etiqueta en francés que usa la base
var relanceLabels = map[entity.RelanceType]string{
	entity.RelanceAmicable: "Amicale",
	entity.RelanceFirm:     "Ferme",
	entity.RelanceDueDate:  "Échéance",
}

func relanceType(label string) entity.RelanceType {
	for t, l := range relanceLabels {
		if l == label || string(t) == label {
			return t
		}
	}
	return entity.RelanceAmicable
}

type RelanceRepo struct {
	rec   Records
	table string
}

func (r *RelanceRepo) Create(ctx context.Context, rl *entity.Relance) error {
	if rl.Status == "" {
		rl.Status = entity.RelanceScheduled
	}
	scheduled := time.Now().UTC()
	if rl.ScheduledAt != nil {
		scheduled = *rl.ScheduledAt
	}
	f := Fields{
		"dette":           links(rl.DebtID),
		"client":          links(rl.ClientID),
		"type":            relanceLabels[rl.Type],
		"canal":           rl.Channel,
		"message":         rl.Message,
		"statut":          rl.Status,
		"date_programmee": dateOnly(scheduled),
	}
	if rl.SentAt != nil {
		f["date_envoyee"] = dateOnly(*rl.SentAt)
	}
	out, err := r.rec.Create(ctx, r.table, f)
	if err != nil {
		return err
	}
	rl.ID = out.ID
	rl.ScheduledAt = &scheduled
	return nil
}

func (r *RelanceRepo) ListByDebt(ctx context.Context, debtID string) ([]*entity.Relance, error) {
	recs, err := r.rec.List(ctx, r.table, ListOptions{Sort: []Sort{{Field: "date_programmee", Direction: "desc"}}})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Relance, 0)
	for i := range recs {
		f := recs[i].Fields
		if f.link("dette") != debtID {
			continue
		}
		out = append(out, &entity.Relance{
			ID:          recs[i].ID,
			DebtID:      debtID,
			ClientID:    f.link("client"),
			Type:        relanceType(f.str("type")),
			Channel:     f.str("canal"),
			Message:     f.str("message"),
			Status:      f.str("statut"),
			ScheduledAt: f.timePtr("date_programmee"),
			SentAt:      f.timePtr("date_envoyee"),
		})
	}
	return out, nil
}

func (r *RelanceRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	_, err := r.rec.Update(ctx, r.table, id, Fields{
		"statut":       entity.RelanceSent,
		"date_envoyee": dateOnly(at),
	})
	if IsNotFound(err) {
		return fmt.Errorf("recordatorio %q: %w", id, domain.ErrNotFound)
	}
	return err
}
