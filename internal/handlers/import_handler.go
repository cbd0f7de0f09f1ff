package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"bookstore-service/internal/events"
	"bookstore-service/internal/importer"
	"bookstore-service/internal/metrics"
	"bookstore-service/internal/middleware"
	"bookstore-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ImportNotifier receives a summary of every completed import
type ImportNotifier interface {
	PublishImportCompleted(ctx context.Context, event events.ImportCompletedEvent) error
}

type ImportHandler struct {
	engine         *importer.Engine
	metrics        *metrics.Metrics
	notifier       ImportNotifier
	maxUploadBytes int64
	logger         *logrus.Entry
}

// NewImportHandler wires the import endpoint. metrics and notifier may be nil.
func NewImportHandler(engine *importer.Engine, m *metrics.Metrics, notifier ImportNotifier, maxUploadMB int, logger *logrus.Entry) *ImportHandler {
	return &ImportHandler{
		engine:         engine,
		metrics:        m,
		notifier:       notifier,
		maxUploadBytes: int64(maxUploadMB) << 20,
		logger:         logger.WithField("component", "import_handler"),
	}
}

// GetImportTemplate returns the import template definition or file
// @Summary Get import template
// @Description Column layout for product imports as JSON, CSV header or XLSX workbook
// @Tags Import
// @Produce json
// @Param format query string false "json, csv or xlsx" default(json)
// @Success 200 {object} models.ImportTemplate
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/import/template [get]
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := models.ImportFormat(strings.ToLower(c.DefaultQuery("format", "json")))
	template := models.ProductImportTemplate()

	switch format {
	case models.ImportFormatCSV:
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")
		if err := importer.WriteCSVTemplate(c.Writer, template); err != nil {
			h.logger.WithError(err).Error("Failed to write CSV template")
		}
	case models.ImportFormatXLSX:
		var buf bytes.Buffer
		if err := importer.WriteXLSXTemplate(&buf, template); err != nil {
			h.logger.WithError(err).Error("Failed to build XLSX template")
			respondError(c, http.StatusInternalServerError, "TEMPLATE_FAILED", "Failed to generate template")
			return
		}
		c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// ImportProducts imports products from an uploaded CSV/XLSX file or a JSON body
// @Summary Import products
// @Description Multipart "file" (.csv or .xlsx) or JSON {"products": [...]}. Each row is created or updated; failed rows are reported without aborting the batch.
// @Tags Import
// @Accept multipart/form-data,json
// @Produce json
// @Param file formData file false "CSV or XLSX file"
// @Success 200 {object} models.ImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/import [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	admin, ok := middleware.AdminFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}
	startTime := time.Now()

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var (
		rows   []models.ImportRow
		source models.ImportFormat
		err    error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		rows, source, err = h.rowsFromUpload(c)
	} else {
		rows, err = rowsFromJSON(c.Request.Body)
		source = models.ImportFormatJSON
	}
	if err != nil {
		if errors.Is(err, importer.ErrMissingColumns) {
			respondError(c, http.StatusBadRequest, "MISSING_COLUMNS", err.Error())
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}

	result, err := h.engine.Import(c.Request.Context(), rows)
	if err != nil {
		if errors.Is(err, importer.ErrUnauthorized) {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}
		h.logger.WithError(err).Error("Import failed")
		respondError(c, http.StatusInternalServerError, "IMPORT_FAILED", "Failed to import products")
		return
	}

	duration := time.Since(startTime)
	if h.metrics != nil {
		h.metrics.ObserveImport(result, duration)
	}
	h.notify(c, admin, source, result, duration)

	c.JSON(http.StatusOK, models.ImportResponse{
		Message: "Import completed",
		Results: result,
	})
}

func (h *ImportHandler) rowsFromUpload(c *gin.Context) ([]models.ImportRow, models.ImportFormat, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("please upload a CSV or Excel file")
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		rows, err := importer.ParseCSV(file)
		return rows, models.ImportFormatCSV, err
	case ".xlsx":
		rows, err := importer.ParseXLSX(file)
		return rows, models.ImportFormatXLSX, err
	default:
		return nil, "", fmt.Errorf("unsupported file format %q: use .csv or .xlsx", filepath.Ext(header.Filename))
	}
}

// rowsFromJSON accepts {"products": [...]} or a bare array of row objects.
func rowsFromJSON(body io.Reader) ([]models.ImportRow, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var records []map[string]any
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = decodeJSON(trimmed, &records)
	} else {
		var payload struct {
			Products []map[string]any `json:"products"`
		}
		err = decodeJSON(trimmed, &payload)
		records = payload.Products
	}
	if err != nil || len(records) == 0 {
		return nil, fmt.Errorf("invalid data format: expected a non-empty array of products")
	}

	rows := make([]models.ImportRow, len(records))
	for i, record := range records {
		rows[i] = importer.RowFromMap(record)
	}
	return rows, nil
}

func decodeJSON(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func (h *ImportHandler) notify(c *gin.Context, admin *models.AdminIdentity, source models.ImportFormat, result *models.ImportResult, duration time.Duration) {
	if h.notifier == nil {
		return
	}
	event := events.ImportCompletedEvent{
		AdminID:           admin.AdminID,
		AdminEmail:        admin.Email,
		Source:            string(source),
		TotalRows:         result.TotalRows,
		SuccessCount:      result.SuccessCount,
		FailedCount:       result.FailedCount,
		CreatedCount:      result.CreatedCount,
		UpdatedCount:      result.UpdatedCount,
		CategoriesCreated: result.CategoriesCreated,
		DurationMs:        duration.Milliseconds(),
	}
	if err := h.notifier.PublishImportCompleted(c.Request.Context(), event); err != nil {
		h.logger.WithError(err).Warn("Failed to publish import event")
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}
