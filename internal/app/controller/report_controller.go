package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/app/service"
	apperrors "github.com/avasquez/dulceria-backend/internal/errors"
	"github.com/avasquez/dulceria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// ExportOrders streams an xlsx export of orders (admin)
// GET /api/v1/admin/reports/orders
func (ctrl *ReportController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{}

	if s := c.Query("status"); s != "" {
		status := model.OrderStatus(s)
		filter.Status = &status
	}
	if v, err := strconv.ParseUint(c.Query("store_id"), 10, 32); err == nil {
		id := uint(v)
		filter.StoreID = &id
	}
	if v, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &v
	}
	if v, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &v
	}

	buf, filename, err := ctrl.reportService.ExportOrders(filter)
	if err != nil {
		log.Error("Failed to export orders", err, nil)
		apperrors.InternalError(c, "Failed to generate report")
		return
	}

	log.Info("Order report exported", map[string]interface{}{
		"filename": filename,
		"bytes":    buf.Len(),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
