package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// MaxInvoiceFiles caps the number of PDFs in one reconcile request
const MaxInvoiceFiles = 20

// InvoiceHandler handles PDF reconciliation and batch confirmation
type InvoiceHandler struct {
	reconciler     *services.ReconcileService
	ledger         *services.LedgerService
	maxUploadBytes int64
}

func NewInvoiceHandler(reconciler *services.ReconcileService, ledger *services.LedgerService, maxUploadBytes int64) *InvoiceHandler {
	return &InvoiceHandler{
		reconciler:     reconciler,
		ledger:         ledger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Reconcile godoc
// @Summary Extract deduction candidates from invoices
// @Description Upload one or more PDF invoices. Product names and quantities are extracted and matched against the inventory. Nothing is deducted.
// @Tags Invoices
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "PDF invoices (repeat the field for several files)"
// @Success 200 {object} models.ReconcileResult
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /invoices/reconcile [post]
func (h *InvoiceHandler) Reconcile(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart form with files is required",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one PDF file is required",
		})
	}
	if len(files) > MaxInvoiceFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("at most %d files per request", MaxInvoiceFiles),
		})
	}

	docs := make([]services.Document, 0, len(files))
	for _, file := range files {
		if !isPDF(file) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s: only PDF files are supported", file.Filename),
			})
		}
		if file.Size > h.maxUploadBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": fmt.Sprintf("%s: file is too large", file.Filename),
			})
		}

		data, err := readFile(file)
		if err != nil {
			log.Error().Err(err).Str("document", file.Filename).Msg("Failed to read upload")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read uploaded file",
			})
		}
		docs = append(docs, services.Document{Name: file.Filename, Data: data})
	}

	result, err := h.reconciler.Reconcile(c.UserContext(), docs)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(result)
}

// Confirm godoc
// @Summary Confirm reviewed candidates
// @Description Deduct the matched candidates one by one. Unmatched candidates are ignored. Returns 409 when nothing could be deducted.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body models.ConfirmBatchRequest true "Candidates to confirm"
// @Success 200 {object} models.BatchResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]interface{}
// @Router /invoices/confirm [post]
func (h *InvoiceHandler) Confirm(c *fiber.Ctx) error {
	var req models.ConfirmBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := h.ledger.ConfirmBatch(c.UserContext(), req.Candidates)
	if errors.Is(err, services.ErrNothingDeducted) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(result)
}

func isPDF(file *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return true
	}
	return strings.HasPrefix(file.Header.Get("Content-Type"), "application/pdf")
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	fileHandle, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer fileHandle.Close()
	return io.ReadAll(fileHandle)
}
