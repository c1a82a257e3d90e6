package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/macrolog/macrolog/backend/internal/service"
)

type ReportHandler struct {
	reportService service.IReportService
}

func NewReportHandler(reportService service.IReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/daily", h.GetDailyReport)
		reports.GET("/monthly", h.GetMonthlyReport)
	}
}

func (h *ReportHandler) GetDailyReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	report, err := h.reportService.ComputeDailyReport(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		badRequest(c, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		badRequest(c, "invalid month")
		return
	}
	report, err := h.reportService.ComputeMonthlyReport(c.Request.Context(), userID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
