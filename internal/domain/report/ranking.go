package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// ArticleRank ventas acumuladas de un artículo.
type ArticleRank struct {
	ArticleID string
	Name      string
	Category  string
	Quantity  int
	Revenue   decimal.Decimal
}

// TopArticles ranking por ingresos (desc) de las líneas que pertenecen a las ventas dadas.
// Empates por cantidad y luego por id. limit <= 0 devuelve todo.
func TopArticles(sales []entity.Sale, lines []entity.SaleLine, articles []entity.Article, limit int) []ArticleRank {
	inScope := make(map[string]struct{}, len(sales))
	for _, s := range sales {
		inScope[s.ID] = struct{}{}
	}
	names := make(map[string]entity.Article, len(articles))
	for _, a := range articles {
		names[a.ID] = a
	}

	stats := make(map[string]*ArticleRank)
	for _, l := range lines {
		if _, ok := inScope[l.SaleID]; !ok || l.ArticleID == "" {
			continue
		}
		r, ok := stats[l.ArticleID]
		if !ok {
			r = &ArticleRank{ArticleID: l.ArticleID, Name: "Article inconnu", Revenue: decimal.Zero}
			if a, found := names[l.ArticleID]; found {
				r.Name = a.Name
				r.Category = a.Category
			}
			stats[l.ArticleID] = r
		}
		r.Quantity += l.Quantity
		r.Revenue = r.Revenue.Add(l.Total())
	}

	out := make([]ArticleRank, 0, len(stats))
	for _, r := range stats {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DebtSummary saldo abierto total, número de deudas abiertas y cuántas están vencidas.
type DebtSummary struct {
	OpenTotal    decimal.Decimal
	OpenCount    int
	OverdueCount int
}

// SummarizeDebts resume la cartera a la fecha now.
func SummarizeDebts(debts []entity.Debt, now time.Time) DebtSummary {
	s := DebtSummary{OpenTotal: decimal.Zero}
	for i := range debts {
		d := &debts[i]
		if !d.IsOpen() {
			continue
		}
		s.OpenCount++
		s.OpenTotal = s.OpenTotal.Add(d.RemainingAmount)
		if debt.Status(d, now) == entity.DebtOverdue {
			s.OverdueCount++
		}
	}
	return s
}

// ClientBalance saldo adeudado por cliente.
type ClientBalance struct {
	ClientID string
	Name     string
	Phone    string
	Balance  decimal.Decimal
	Debts    int
}

// ClientBalances clientes con saldo > 0, del mayor al menor.
func ClientBalances(debts []entity.Debt, clients []entity.Client) []ClientBalance {
	byID := make(map[string]entity.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	acc := make(map[string]*ClientBalance)
	for _, d := range debts {
		if !d.IsOpen() {
			continue
		}
		b, ok := acc[d.ClientID]
		if !ok {
			c := byID[d.ClientID]
			b = &ClientBalance{ClientID: d.ClientID, Name: c.FullName, Phone: c.Phone, Balance: decimal.Zero}
			acc[d.ClientID] = b
		}
		b.Balance = b.Balance.Add(d.RemainingAmount)
		b.Debts++
	}
	out := make([]ClientBalance, 0, len(acc))
	for _, b := range acc {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Balance.Cmp(out[j].Balance); c != 0 {
			return c > 0
		}
		return out[i].ClientID < out[j].ClientID
	})
	return out
}
