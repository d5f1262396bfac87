package handlers

import (
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/pdfextract"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/services"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ledger    *services.LedgerService
	extractor *pdfextract.Service
	backend   string
}

func NewHealthHandler(ledger *services.LedgerService, extractor *pdfextract.Service, backend string) *HealthHandler {
	return &HealthHandler{ledger: ledger, extractor: extractor, backend: backend}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "warehouse-ledger",
		"storage":   h.backend,
		"extractor": h.extractor.GetProviderName(),
		"items":     len(h.ledger.ItemNames()),
	})
}
