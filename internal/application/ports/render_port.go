package ports

import (
	"context"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
)

// ReceiptRenderer genera el recibo PDF de una venta.
type ReceiptRenderer interface {
	RenderSaleReceipt(ctx context.Context, receipt *dto.ReceiptDTO) ([]byte, error)
}

// ReportExporter exporta tablas de reporte a un libro de hoja de cálculo.
type ReportExporter interface {
	Export(ctx context.Context, tables ...dto.ExportTableDTO) ([]byte, error)
}
