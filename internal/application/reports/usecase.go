// Package reports contiene los casos de uso de reportes de negocio del
// back-office: ventas, inventario, gastos y pérdidas/ganancias.
// Solo lecturas; ningún camino de este paquete muta estado.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

const (
	reportCacheTTL   = 5 * time.Minute
	reportTopItems   = 10 // ítems en el ranking del reporte de ventas
	expiringDays     = 30 // ventana del listado de próximos a vencer
	lowStockLimit    = 50
	expiringLimit    = 50
)

// ReportUseCase compone las consultas del ReportRepository en los reportes de la API.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	cache      ReportCache
}

// NewReportUseCase construye el caso de uso. cache puede ser el no-op.
func NewReportUseCase(reportRepo repository.ReportRepository, cache ReportCache) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo, cache: cache}
}

func validateRange(start, end time.Time) error {
	if start.After(end) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

func validGroupBy(groupBy string) bool {
	switch groupBy {
	case repository.GroupByDay, repository.GroupByWeek, repository.GroupByMonth:
		return true
	}
	return false
}

// GetSalesReport construye resumen, serie temporal, desglose por método de pago
// y ranking de ítems para el período.
func (uc *ReportUseCase) GetSalesReport(ctx context.Context, start, end time.Time, groupBy string) (*dto.SalesReportDTO, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if groupBy == "" {
		groupBy = repository.GroupByDay
	}
	if !validGroupBy(groupBy) {
		return nil, domain.ErrInvalidInput
	}

	cacheKey := fmt.Sprintf("reports:sales:%s:%s:%s",
		start.Format("2006-01-02"), end.Format("2006-01-02"), groupBy)
	var cached dto.SalesReportDTO
	if ok, err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	summary, err := uc.reportRepo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas: resumen: %w", err)
	}
	series, err := uc.reportRepo.SalesTimeSeries(ctx, start, end, groupBy)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas: serie temporal: %w", err)
	}
	methods, err := uc.reportRepo.SalesByPaymentMethod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas: métodos de pago: %w", err)
	}
	top, err := uc.reportRepo.TopItems(ctx, start, end, reportTopItems)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas: top ítems: %w", err)
	}

	report := &dto.SalesReportDTO{
		Summary: dto.SalesSummaryDTO{
			SaleCount:     summary.SaleCount,
			GrossRevenue:  summary.GrossRevenue.Round(2),
			Subtotal:      summary.Subtotal.Round(2),
			TaxTotal:      summary.TaxTotal.Round(2),
			DiscountTotal: summary.DiscountTotal.Round(2),
			AverageTicket: summary.AverageTicket.Round(2),
		},
		TimeSeries:     make([]dto.TimeSeriesPointDTO, 0, len(series)),
		PaymentMethods: make([]dto.PaymentMethodDTO, 0, len(methods)),
		TopItems:       make([]dto.TopItemDTO, 0, len(top)),
	}
	for _, p := range series {
		report.TimeSeries = append(report.TimeSeries, dto.TimeSeriesPointDTO{
			Period: p.Period, SaleCount: p.SaleCount, Revenue: p.Revenue.Round(2),
		})
	}
	for _, m := range methods {
		report.PaymentMethods = append(report.PaymentMethods, dto.PaymentMethodDTO{
			PaymentMethod: m.PaymentMethod, SaleCount: m.SaleCount, Revenue: m.Revenue.Round(2),
		})
	}
	for _, t := range top {
		report.TopItems = append(report.TopItems, dto.TopItemDTO{
			InventoryID: t.InventoryID, SKU: t.SKU, ItemName: t.ItemName,
			QuantitySold: t.QuantitySold, TotalRevenue: t.TotalRevenue.Round(2),
		})
	}

	_ = uc.cache.Set(ctx, cacheKey, report, reportCacheTTL)
	return report, nil
}

// GetInventoryReport devuelve totales del inventario, bajos de stock y próximos a vencer.
func (uc *ReportUseCase) GetInventoryReport(ctx context.Context) (*dto.InventoryReportDTO, error) {
	summary, err := uc.reportRepo.InventorySummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte de inventario: resumen: %w", err)
	}
	low, err := uc.reportRepo.LowStockItems(ctx, lowStockLimit)
	if err != nil {
		return nil, fmt.Errorf("reporte de inventario: bajos de stock: %w", err)
	}
	expiring, err := uc.reportRepo.ExpiringItems(ctx, expiringDays, expiringLimit)
	if err != nil {
		return nil, fmt.Errorf("reporte de inventario: próximos a vencer: %w", err)
	}

	report := &dto.InventoryReportDTO{
		ItemCount:      summary.ItemCount,
		TotalStockCost: summary.TotalStockCost.Round(2),
		LowStockCount:  summary.LowStockCount,
		LowStock:       make([]dto.ItemResponse, 0, len(low)),
		ExpiringSoon:   make([]dto.ItemResponse, 0, len(expiring)),
	}
	for _, it := range low {
		report.LowStock = append(report.LowStock, itemToResponse(it))
	}
	for _, it := range expiring {
		report.ExpiringSoon = append(report.ExpiringSoon, itemToResponse(it))
	}
	return report, nil
}

// GetProfitLoss calcula pérdidas y ganancias del período:
// NetProfit = ingresos - COGS - gastos.
func (uc *ReportUseCase) GetProfitLoss(ctx context.Context, start, end time.Time) (*dto.ProfitLossDTO, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	summary, err := uc.reportRepo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("pérdidas y ganancias: ingresos: %w", err)
	}
	cogs, err := uc.reportRepo.COGS(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("pérdidas y ganancias: COGS: %w", err)
	}
	expenses, err := uc.reportRepo.ExpenseTotal(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("pérdidas y ganancias: gastos: %w", err)
	}

	revenue := summary.GrossRevenue
	grossProfit := revenue.Sub(cogs)
	return &dto.ProfitLossDTO{
		Revenue:     revenue.Round(2),
		COGS:        cogs.Round(2),
		GrossProfit: grossProfit.Round(2),
		Expenses:    expenses.Round(2),
		NetProfit:   grossProfit.Sub(expenses).Round(2),
	}, nil
}

// GetExpenseReport devuelve el total de gastos del período y su desglose por categoría.
func (uc *ReportUseCase) GetExpenseReport(ctx context.Context, start, end time.Time) (*dto.ExpenseReportDTO, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	total, err := uc.reportRepo.ExpenseTotal(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporte de gastos: total: %w", err)
	}
	byCat, err := uc.reportRepo.ExpensesByCategory(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporte de gastos: por categoría: %w", err)
	}
	report := &dto.ExpenseReportDTO{
		Total:      total.Round(2),
		ByCategory: make([]dto.ExpenseByCategoryDTO, 0, len(byCat)),
	}
	for _, c := range byCat {
		report.ByCategory = append(report.ByCategory, dto.ExpenseByCategoryDTO{
			Category: c.Category, Total: c.Total.Round(2),
		})
	}
	return report, nil
}

func itemToResponse(it *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		SKU:          it.SKU,
		Barcode:      it.Barcode,
		CategoryID:   it.CategoryID,
		SupplierID:   it.SupplierID,
		Unit:         it.Unit,
		CurrentStock: it.CurrentStock,
		MinimumStock: it.MinimumStock,
		MaximumStock: it.MaximumStock,
		CostPrice:    it.CostPrice,
		SellingPrice: it.SellingPrice,
		Location:     it.Location,
		ExpiryDate:   it.ExpiryDate,
		Active:       it.Active,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
