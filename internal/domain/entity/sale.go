package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta a un cliente. Si AmountPaid < TotalAmount se genera una Debt por la diferencia.
type Sale struct {
	ID          string
	Reference   string
	ClientID    string
	Date        time.Time
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal // pagado en el momento de la venta
	CreatedAt   time.Time
}

// Outstanding monto no cobrado al momento de la venta.
func (s *Sale) Outstanding() decimal.Decimal {
	r := s.TotalAmount.Sub(s.AmountPaid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// SaleLine cantidad de un artículo dentro de una venta.
// LotLineID es opcional: vacío cuando no se trazó el stock.
type SaleLine struct {
	ID        string
	SaleID    string
	ArticleID string
	LotLineID string
	Quantity  int
	UnitPrice decimal.Decimal // precio unitario negociado
}

// Total cantidad × precio negociado.
func (l *SaleLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
