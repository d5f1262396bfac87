package handlers

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/export"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/services"
	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves exports and the destructive reset
type ReportHandler struct {
	exporter *services.ExportService
	ledger   *services.LedgerService
}

func NewReportHandler(exporter *services.ExportService, ledger *services.LedgerService) *ReportHandler {
	return &ReportHandler{exporter: exporter, ledger: ledger}
}

// Export godoc
// @Summary Download inventory and sales
// @Description Excel workbook (Inventory and Sales sheets) or PDF. With a weekday only that day's sales are exported.
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param format query string false "excel (default) or pdf"
// @Param weekday query string false "Weekday filter for the sales export"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Router /export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	format, ok := export.ParseFormat(c.Query("format"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be excel or pdf",
		})
	}

	weekday, err := analytics.ParseWeekday(c.Query("weekday"))
	if err != nil {
		return errorResponse(c, err)
	}

	file, err := h.exporter.Export(format, weekday)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Send(file.Data)
}

// Reset godoc
// @Summary Reset the ledger
// @Description Deletes the whole inventory and sales history. Requires {"confirm": true}.
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body models.ResetRequest true "Confirmation"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /reset [post]
func (h *ReportHandler) Reset(c *fiber.Ctx) error {
	var req models.ResetRequest
	if err := c.BodyParser(&req); err != nil || !req.Confirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": `reset requires {"confirm": true}`,
		})
	}

	if err := h.ledger.Reset(c.UserContext()); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "reset",
	})
}
