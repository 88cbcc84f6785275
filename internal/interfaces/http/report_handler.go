package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/application/reports"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// ReportHandler maneja los reportes agregados y el dashboard (protegido).
type ReportHandler struct {
	reports   *reports.ReportUseCase
	dashboard *reports.DashboardUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(rep *reports.ReportUseCase, dash *reports.DashboardUseCase) *ReportHandler {
	return &ReportHandler{reports: rep, dashboard: dash}
}

// SalesReport godoc
// @Summary      Reporte de ventas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start     query  string  true   "inicio del período (RFC 3339 o YYYY-MM-DD)"
// @Param        end       query  string  true   "fin del período"
// @Param        group_by  query  string  false  "day|week|month, default day"
// @Success      200  {object}  dto.SalesReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesReport(c *fiber.Ctx) error {
	start, end, err := reportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	groupBy := c.Query("group_by", repository.GroupByDay)
	report, err := h.reports.GetSalesReport(c.Context(), start, end, groupBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// InventoryReport devuelve el estado actual del inventario: totales, bajo stock y próximos a vencer.
func (h *ReportHandler) InventoryReport(c *fiber.Ctx) error {
	report, err := h.reports.GetInventoryReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ProfitLoss godoc
// @Summary      Estado de pérdidas y ganancias
// @Description  Ingresos - COGS - gastos del período.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "inicio del período"
// @Param        end    query  string  true  "fin del período"
// @Success      200  {object}  dto.ProfitLossDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit-loss [get]
func (h *ReportHandler) ProfitLoss(c *fiber.Ctx) error {
	start, end, err := reportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	report, err := h.reports.GetProfitLoss(c.Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ExpenseReport desglosa los gastos del período por categoría.
func (h *ReportHandler) ExpenseReport(c *fiber.Ctx) error {
	start, end, err := reportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	report, err := h.reports.GetExpenseReport(c.Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Dashboard devuelve el resumen del día y del mes para la pantalla principal.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.dashboard.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// reportRange parsea los query params start/end obligatorios de los reportes.
func reportRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	start, err := parseTimeQuery(c, "start")
	if err != nil || start == nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start requerido (RFC 3339 o YYYY-MM-DD)")
	}
	end, err := parseTimeQuery(c, "end")
	if err != nil || end == nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "end requerido (RFC 3339 o YYYY-MM-DD)")
	}
	return *start, *end, nil
}
