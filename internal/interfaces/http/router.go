package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andyshop-api/internal/application/catalog"
	"github.com/jhoicas/andyshop-api/internal/application/debt"
	"github.com/jhoicas/andyshop-api/internal/application/lot"
	"github.com/jhoicas/andyshop-api/internal/application/report"
	"github.com/jhoicas/andyshop-api/internal/application/sale"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC *catalog.UseCase
	LotUC     *lot.UseCase
	SaleUC    *sale.UseCase
	DebtUC    *debt.UseCase
	ReportUC  *report.UseCase
	// UploadsDir, si no está vacío, se sirve como archivos estáticos en UploadsPath.
	UploadsDir  string
	UploadsPath string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.UploadsDir != "" && deps.UploadsPath != "" {
		app.Static(deps.UploadsPath, deps.UploadsDir)
	}

	api := app.Group("/api")

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	lotHandler := NewLotHandler(deps.LotUC)
	saleHandler := NewSaleHandler(deps.SaleUC)
	debtHandler := NewDebtHandler(deps.DebtUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	dashboardHandler := NewDashboardHandler(deps.ReportUC)

	// Catálogo
	articles := api.Group("/articles")
	articles.Post("/", catalogHandler.CreateArticle)
	articles.Get("/", catalogHandler.ListArticles)
	articles.Get("/:id", catalogHandler.GetArticle)

	clients := api.Group("/clients")
	clients.Post("/", catalogHandler.CreateClient)
	clients.Get("/", catalogHandler.ListClients)
	clients.Get("/:id", catalogHandler.GetClient)
	clients.Get("/:id/payments", debtHandler.ClientPayments)
	clients.Get("/:id/relance-type", debtHandler.SuggestRelance)

	suppliers := api.Group("/suppliers")
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)

	api.Post("/uploads/images", catalogHandler.UploadImage)

	// Lotes y stock
	lots := api.Group("/lots")
	lots.Post("/preview", lotHandler.Preview)
	lots.Post("/", lotHandler.Create)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Patch("/lines/:id/cost", lotHandler.OverrideLineCost)
	api.Get("/stock/valuation", lotHandler.StockValuation)

	// Ventas
	sales := api.Group("/sales")
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Get("/:id/message", saleHandler.InvoiceMessage)

	// Deudas, pagos y recordatorios
	debts := api.Group("/debts")
	debts.Get("/", debtHandler.List)
	debts.Get("/summary", debtHandler.Summary)
	debts.Get("/:id", debtHandler.GetByID)
	debts.Get("/:id/relances", debtHandler.ListRelances)

	payments := api.Group("/payments")
	payments.Post("/", debtHandler.RecordPayment)
	payments.Post("/proof", debtHandler.UploadProof)

	relances := api.Group("/relances")
	relances.Post("/preview", debtHandler.PreviewRelance)
	relances.Post("/", debtHandler.SendRelance)

	// Reportes
	reports := api.Group("/reports")
	reports.Get("/revenue", reportHandler.Revenue)
	reports.Get("/margin", reportHandler.Margin)
	reports.Get("/top-articles", reportHandler.TopArticles)
	reports.Get("/balances", reportHandler.Balances)
	reports.Get("/export", reportHandler.Export)

	api.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
