package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Handlers groups every HTTP handler of the service
type Handlers struct {
	Health    *HealthHandler
	Inventory *InventoryHandler
	Sales     *SalesHandler
	Invoice   *InvoiceHandler
	Report    *ReportHandler
}

// RegisterRoutes mounts the API on app
func RegisterRoutes(app *fiber.App, h *Handlers) {
	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", h.Health.GetHealth)

	// Inventory routes
	app.Get("/inventory", h.Inventory.ListInventory)
	app.Post("/inventory/import", h.Inventory.ImportMasterList)
	app.Post("/inventory/deduct", h.Inventory.Deduct)

	// Sales routes
	app.Get("/sales", h.Sales.ListSales)
	app.Get("/sales/summary", h.Sales.GetSummary)

	// Invoice routes
	app.Post("/invoices/reconcile", h.Invoice.Reconcile)
	app.Post("/invoices/confirm", h.Invoice.Confirm)

	// Report routes
	app.Get("/export", h.Report.Export)
	app.Post("/reset", h.Report.Reset)
}
