package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotLineRequest una línea al crear o previsualizar un lote.
type LotLineRequest struct {
	ArticleID        string           `json:"article_id"`
	Quantity         int              `json:"quantity"`
	BaseUnitCost     decimal.Decimal  `json:"base_unit_cost"`
	DesiredSalePrice *decimal.Decimal `json:"desired_sale_price,omitempty"`
	UnitCostOverride *decimal.Decimal `json:"unit_cost_override,omitempty"` // corrección manual del costo calculado
}

// AllocationPreviewRequest body para POST /api/lots/preview.
type AllocationPreviewRequest struct {
	GlobalAmount decimal.Decimal  `json:"global_amount"`
	MiscFees     decimal.Decimal  `json:"misc_fees"`
	Lines        []LotLineRequest `json:"lines"`
}

// CreateLotRequest body para POST /api/lots.
type CreateLotRequest struct {
	SupplierID   string           `json:"supplier_id"`
	PurchaseDate string           `json:"purchase_date"` // YYYY-MM-DD; por defecto hoy
	Location     string           `json:"location"`      // Local | Extérieur
	Currency     string           `json:"currency"`
	GlobalAmount decimal.Decimal  `json:"global_amount"`
	MiscFees     decimal.Decimal  `json:"misc_fees"`
	Notes        string           `json:"notes,omitempty"`
	Lines        []LotLineRequest `json:"lines"`
}

// AllocatedLineDTO resultado del reparto para una línea.
type AllocatedLineDTO struct {
	Index              int             `json:"index"`
	ArticleID          string          `json:"article_id,omitempty"`
	Quantity           int             `json:"quantity"`
	BaseUnitCost       decimal.Decimal `json:"base_unit_cost"`
	AllocatedUnitCost  decimal.Decimal `json:"allocated_unit_cost"`
	AllocatedTotalCost decimal.Decimal `json:"allocated_total_cost"`
	Overridden         bool            `json:"overridden"`
}

// AllocationPreviewDTO reparto calculado. Drift = Σ costos asignados − (global + gastos).
type AllocationPreviewDTO struct {
	Lines      []AllocatedLineDTO `json:"lines"`
	Target     decimal.Decimal    `json:"target"`
	Allocated  decimal.Decimal    `json:"allocated"`
	Drift      decimal.Decimal    `json:"drift"`
	EqualSplit bool               `json:"equal_split"`
}

// LotLineDTO línea de lote persistida.
type LotLineDTO struct {
	ID                 string           `json:"id"`
	LotID              string           `json:"lot_id"`
	ArticleID          string           `json:"article_id"`
	InitialQuantity    int              `json:"initial_quantity"`
	BaseUnitCost       decimal.Decimal  `json:"base_unit_cost"`
	AllocatedUnitCost  decimal.Decimal  `json:"allocated_unit_cost"`
	AllocatedTotalCost decimal.Decimal  `json:"allocated_total_cost"`
	DesiredSalePrice   *decimal.Decimal `json:"desired_sale_price,omitempty"`
}

// LotDTO lote con sus líneas (cuando se piden).
type LotDTO struct {
	ID           string           `json:"id"`
	Reference    string           `json:"reference"`
	SupplierID   string           `json:"supplier_id"`
	PurchaseDate string           `json:"purchase_date"`
	Location     string           `json:"location"`
	Currency     string           `json:"currency"`
	GlobalAmount decimal.Decimal  `json:"global_amount"`
	MiscFees     decimal.Decimal  `json:"misc_fees"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	Lines        []LotLineDTO     `json:"lines,omitempty"`
	Drift        *decimal.Decimal `json:"drift,omitempty"`
}

// OverrideLineCostRequest body para PATCH /api/lots/lines/:id/cost.
type OverrideLineCostRequest struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ArticleStockDTO valorización de un artículo.
type ArticleStockDTO struct {
	ArticleID       string          `json:"article_id"`
	ArticleName     string          `json:"article_name"`
	Purchased       int             `json:"purchased"`
	Sold            int             `json:"sold"`
	Remaining       int             `json:"remaining"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	StockValue      decimal.Decimal `json:"stock_value"`
	Level           string          `json:"level"` // out | low | ok
}

// StockValuationDTO respuesta de GET /api/stock/valuation.
type StockValuationDTO struct {
	Items      []ArticleStockDTO `json:"items"`
	TotalValue decimal.Decimal   `json:"total_value"`
	LowCount   int               `json:"low_count"`
	OutCount   int               `json:"out_count"`
}
