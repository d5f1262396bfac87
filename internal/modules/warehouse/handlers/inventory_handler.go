package handlers

import (
	"io"
	"strings"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/services"
	"github.com/gofiber/fiber/v2"
)

// InventoryHandler handles stock listing, master-list import and manual
// deductions
type InventoryHandler struct {
	ledger         *services.LedgerService
	importer       *services.ImportService
	maxUploadBytes int64
}

func NewInventoryHandler(ledger *services.LedgerService, importer *services.ImportService, maxUploadBytes int64) *InventoryHandler {
	return &InventoryHandler{
		ledger:         ledger,
		importer:       importer,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListInventory godoc
// @Summary List inventory
// @Description Returns every item with its opening and remaining meters
// @Tags Inventory
// @Produce json
// @Success 200 {object} models.InventoryListResponse
// @Router /inventory [get]
func (h *InventoryHandler) ListInventory(c *fiber.Ctx) error {
	items := h.ledger.Items()
	return c.JSON(models.InventoryListResponse{
		Items: items,
		Total: len(items),
	})
}

// ImportMasterList godoc
// @Summary Import master stock list
// @Description Replace the inventory with an .xlsx or .csv file (item name, opening quantity). The sales ledger is kept.
// @Tags Inventory
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Master list (.xlsx or .csv)"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} map[string]string
// @Failure 415 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /inventory/import [post]
func (h *InventoryHandler) ImportMasterList(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	if file.Size > h.maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "file is too large",
		})
	}

	fileHandle, err := file.Open()
	if err != nil {
		return errorResponse(c, err)
	}
	defer fileHandle.Close()

	data, err := io.ReadAll(fileHandle)
	if err != nil {
		return errorResponse(c, err)
	}

	result, err := h.importer.ImportMasterList(c.UserContext(), file.Filename, data)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(result)
}

// Deduct godoc
// @Summary Deduct stock manually
// @Description Remove meters from one item and record a sale
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body models.DeductRequest true "Item and quantity"
// @Success 201 {object} models.SaleEntry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /inventory/deduct [post]
func (h *InventoryHandler) Deduct(c *fiber.Ctx) error {
	var req models.DeductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if strings.TrimSpace(req.ItemName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "item_name is required",
		})
	}

	entry, err := h.ledger.Deduct(c.UserContext(), req.ItemName, req.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}
