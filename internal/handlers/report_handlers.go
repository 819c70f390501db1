package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pharmastock/internal/models"
	"pharmastock/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers handles report downloads
type ReportHandlers struct {
	reportService services.ReportService
}

func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

// ExportInventoryCSV handles GET /reports/inventory.csv. The export covers
// the full filtered dataset, not one page.
func (h *ReportHandlers) ExportInventoryCSV(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.ItemListFilter{
		Search:    strings.TrimSpace(c.QueryParam("search")),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}

	export, err := h.reportService.InventoryCSV(ctx, filter)
	if err != nil {
		if errors.Is(err, services.ErrEmptyReport) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "No rows to export")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	if export.ArchiveURL != "" {
		c.Response().Header().Set("X-Archive-Url", export.ArchiveURL)
	}
	return c.Blob(http.StatusOK, "text/csv", export.Data)
}
