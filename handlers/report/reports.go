package report

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gmpi-ec/gmpi-backend/services"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
)

// ReportHandler exposes the aggregated reports
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetDashboard handles GET /api/reports/dashboard
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	report, err := h.reportService.GetDashboardReport(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Error al generar el reporte")
	}
	return response.Success(c, report)
}

// GetMaintenanceReport handles GET /api/reports/maintenance
func (h *ReportHandler) GetMaintenanceReport(c *fiber.Ctx) error {
	filters := services.MaintenanceReportFilters{
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		InstitutionID: uint(c.QueryInt("institution_id", 0)),
		Type:          c.Query("type"),
		Status:        c.Query("status"),
		Priority:      c.Query("priority"),
	}

	report, err := h.reportService.GetMaintenanceReport(c.Context(), filters)
	if err != nil {
		return response.InternalServerError(c, "Error al generar el reporte de mantenimiento")
	}
	return response.Success(c, report)
}

// GetInstitutionReport handles GET /api/reports/institutions
func (h *ReportHandler) GetInstitutionReport(c *fiber.Ctx) error {
	report, err := h.reportService.GetInstitutionReport(c.Context(), c.Query("type"))
	if err != nil {
		return response.InternalServerError(c, "Error al generar el reporte de instituciones")
	}
	return response.Success(c, report)
}

// GetUpcomingMaintenance handles GET /api/reports/upcoming-maintenance
func (h *ReportHandler) GetUpcomingMaintenance(c *fiber.Ctx) error {
	report, err := h.reportService.GetUpcomingMaintenanceReport(c.Context(), c.QueryInt("days", 30))
	if err != nil {
		return response.InternalServerError(c, "Error al generar el reporte")
	}
	return response.Success(c, report)
}

// GetCostAnalysis handles GET /api/reports/cost-analysis
func (h *ReportHandler) GetCostAnalysis(c *fiber.Ctx) error {
	filters := services.CostAnalysisFilters{
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		InstitutionID: uint(c.QueryInt("institution_id", 0)),
	}

	report, err := h.reportService.GetCostAnalysisReport(c.Context(), filters)
	if err != nil {
		return response.InternalServerError(c, "Error al generar el análisis de costos")
	}
	return response.Success(c, report)
}
