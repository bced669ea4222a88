// Package pdf genera el recibo de venta en PDF.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  Tienda            │  Reçu N° + Date      │
//	│  Client + téléphone                       │
//	│  ───────────────────────────────────────  │
//	│  Qté | Article | P.U. | Total             │
//	│  ───────────────────────────────────────  │
//	│  Total / Payé / Reste dû                  │
//	│  Échéancier (si hay saldo)                │
//	└───────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 40, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa ports.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct{}

var _ ports.ReceiptRenderer = (*ReceiptGenerator)(nil)

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// RenderSaleReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderSaleReceipt(_ context.Context, r *dto.ReceiptDTO) ([]byte, error) {
	fm := money.NewFormatter(r.Currency)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reçu "+r.Reference, true).
		WithAuthor(r.ShopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(clientRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(r.Lines, fm)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r, fm))

	if len(r.Schedule) > 0 && r.Remaining.IsPositive() {
		m.AddRows(line.NewRow(3))
		m.AddRows(scheduleRows(r.Schedule, fm)...)
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Merci pour votre confiance !", props.Text{
			Style: fontstyle.Italic, Size: 8, Align: align.Center, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.ReceiptDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.ShopName, "AndyShop"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("REÇU DE VENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Reference, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Date : "+r.Date.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func clientRow(r *dto.ReceiptDTO) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(r.ClientName, "Client"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New("Tél : "+nonEmpty(r.ClientPhone, "—"), props.Text{Size: 7, Top: 10, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qté", 1, align.Center),
		h("Article", 6, align.Left),
		h("P.U.", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableLineRows(lines []dto.ReceiptLineDTO, fm *money.Formatter) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(fm.Number(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(fm.Format(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(r *dto.ReceiptDTO, fm *money.Formatter) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(5),
		col.New(3).Add(
			label("Total :", 1),
			label("Payé :", 7),
			text.New("Reste dû :", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 13}),
		),
		col.New(4).Add(
			value(fm.Format(r.Total), 1),
			value(fm.Format(r.Paid), 7),
			text.New(fm.Format(r.Remaining), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 13}),
		),
	)
}

func scheduleRows(items []dto.InstallmentDTO, fm *money.Formatter) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ÉCHÉANCIER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, it := range items {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(it.Date, props.Text{Size: 8, Left: 2, Top: 0.5})),
			col.New(6).Add(text.New(fm.Format(it.Amount), props.Text{Size: 8, Align: align.Right, Right: 1, Top: 0.5})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
