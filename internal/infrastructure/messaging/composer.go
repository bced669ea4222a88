// Package messaging arma los textos de factura, recibo y recordatorios y sus enlaces wa.me.
package messaging

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/pkg/money"
)

const dateLayout = "02/01/2006"

// Composer genera mensajes con el nombre de la tienda y la moneda configurados.
type Composer struct {
	shopName    string
	countryCode string
	money       *money.Formatter
}

// NewComposer crea un Composer. countryCode se antepone a los números locales de 10 dígitos.
func NewComposer(shopName, currency, countryCode string) *Composer {
	if shopName == "" {
		shopName = "AndyShop"
	}
	return &Composer{shopName: shopName, countryCode: countryCode, money: money.NewFormatter(currency)}
}

// InvoiceLine artículo listado en la factura.
type InvoiceLine struct {
	Name     string
	Quantity int
	Total    decimal.Decimal
}

// Invoice texto de la factura de una venta.
func (c *Composer) Invoice(clientName string, sale *entity.Sale, lines []InvoiceLine) string {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, fmt.Sprintf("• %s x%d - %s", l.Name, l.Quantity, c.money.Format(l.Total)))
	}
	return c.fill(tplInvoice,
		"{client_name}", orDefault(clientName, "Client"),
		"{reference}", sale.Reference,
		"{date}", sale.Date.Format(dateLayout),
		"{articles}", strings.Join(items, "\n"),
		"{total}", c.money.Number(sale.TotalAmount),
		"{paye}", c.money.Number(sale.AmountPaid),
		"{reste}", c.money.Number(sale.Outstanding()),
	)
}

// ImpactedDebt deuda afectada por un pago (para el recibo).
type ImpactedDebt struct {
	Label  string
	Amount decimal.Decimal
}

// Receipt texto del recibo de un pago.
func (c *Composer) Receipt(clientName string, p *entity.Payment, impacted []ImpactedDebt, newBalance decimal.Decimal) string {
	rows := make([]string, 0, len(impacted))
	for _, d := range impacted {
		rows = append(rows, fmt.Sprintf("• %s : -%s", d.Label, c.money.Format(d.Amount)))
	}
	details := strings.Join(rows, "\n")
	if details == "" {
		details = "Aucune dette impactée"
	}
	return c.fill(tplReceipt,
		"{client_name}", orDefault(clientName, "Client"),
		"{reference}", p.Reference,
		"{date}", p.Date.Format(dateLayout),
		"{montant}", c.money.Number(p.Amount),
		"{mode}", p.Method,
		"{dettes_impactees}", details,
		"{nouveau_solde}", c.money.Number(newBalance),
	)
}

// Amicable recordatorio amistoso con el detalle de las deudas abiertas.
func (c *Composer) Amicable(clientName string, debts []entity.Debt) string {
	details, total := c.debtDetails(debts)
	return c.fill(tplAmicable,
		"{client_name}", orDefault(clientName, "Client"),
		"{dettes_details}", details,
		"{total_du}", c.money.Number(total),
	)
}

// Firm recordatorio firme; daysOverdue es el peor retraso entre las cuotas vencidas.
func (c *Composer) Firm(clientName string, debts []entity.Debt, daysOverdue int) string {
	details, total := c.debtDetails(debts)
	return c.fill(tplFirm,
		"{client_name}", orDefault(clientName, "Client"),
		"{dettes_details}", details,
		"{total_du}", c.money.Number(total),
		"{jours_retard}", strconv.Itoa(daysOverdue),
	)
}

// DueDate recordatorio de la próxima cuota.
func (c *Composer) DueDate(clientName string, next entity.Installment) string {
	return c.fill(tplDueDate,
		"{client_name}", orDefault(clientName, "Client"),
		"{date_echeance}", next.Date.Format(dateLayout),
		"{montant}", c.money.Number(next.Amount),
	)
}

func (c *Composer) debtDetails(debts []entity.Debt) (string, decimal.Decimal) {
	rows := make([]string, 0, len(debts))
	total := decimal.Zero
	for _, d := range debts {
		rows = append(rows, fmt.Sprintf("• Vente du %s : %s", d.CreatedAt.Format(dateLayout), c.money.Format(d.RemainingAmount)))
		total = total.Add(d.RemainingAmount)
	}
	return strings.Join(rows, "\n"), total
}

func (c *Composer) fill(tpl string, pairs ...string) string {
	pairs = append(pairs, "{currency}", c.money.Currency(), "{boutique_name}", c.shopName)
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// NormalizePhone quita espacios y todo lo que no sea dígito o '+'; a un número local de
// 10 dígitos sin '+' le antepone el indicativo configurado.
func (c *Composer) NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if !strings.HasPrefix(clean, "+") && len(clean) == 10 && c.countryCode != "" {
		clean = c.countryCode + clean
	}
	return clean
}

// WhatsAppLink enlace wa.me con el mensaje pre-cargado. wa.me espera solo dígitos.
func (c *Composer) WhatsAppLink(phone, text string) string {
	digits := strings.TrimPrefix(c.NormalizePhone(phone), "+")
	return "https://wa.me/" + digits + "?text=" + encodeURIComponent(text)
}

// encodeURIComponent codifica los espacios como %20 (no '+').
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
