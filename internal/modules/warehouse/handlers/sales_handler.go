package handlers

import (
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/services"
	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	ledger *services.LedgerService
}

func NewSalesHandler(ledger *services.LedgerService) *SalesHandler {
	return &SalesHandler{ledger: ledger}
}

// ListSales godoc
// @Summary List sales ledger
// @Description Returns sale entries in the order they were recorded, optionally for one weekday (English or Arabic name)
// @Tags Sales
// @Produce json
// @Param weekday query string false "Weekday, e.g. monday or الإثنين; all for no filter"
// @Success 200 {object} models.SalesListResponse
// @Failure 400 {object} map[string]string
// @Router /sales [get]
func (h *SalesHandler) ListSales(c *fiber.Ctx) error {
	weekday, err := analytics.ParseWeekday(c.Query("weekday"))
	if err != nil {
		return errorResponse(c, err)
	}

	sales := h.ledger.Sales(weekday)
	resp := models.SalesListResponse{
		Sales: sales,
		Total: len(sales),
	}
	if weekday != nil {
		resp.Weekday = weekday.String()
	}

	return c.JSON(resp)
}

// GetSummary godoc
// @Summary Sales summary
// @Description Lifetime totals, top items and counters for one period
// @Tags Sales
// @Produce json
// @Param period query string false "today, yesterday, this_week, last_7_days, this_month, last_30_days or all"
// @Success 200 {object} analytics.Summary
// @Failure 400 {object} map[string]string
// @Router /sales/summary [get]
func (h *SalesHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.ledger.Summary(c.Query("period"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(summary)
}
