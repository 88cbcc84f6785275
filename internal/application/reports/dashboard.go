package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

const dashboardTopItems = 5 // ítems en el widget del dashboard

// DashboardUseCase genera el resumen del día y del mes en curso para el panel.
//
// Fuente de datos: ReportRepository (consultas read-only). No toca las tablas
// de ventas directamente; todo pasa por el repositorio.
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	cache      ReportCache
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository, cache ReportCache) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, cache: cache}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. SalesSummary(hoy)        → TodaySales + TodayCount
//  2. SalesSummary(mes)        → MonthlySales + MonthlyCount
//  3. TopItems(mes, top 5)     → TopItems
//  4. InventorySummary()       → LowStockCount
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	cacheKey := "reports:dashboard:" + now.Format("2006-01-02")
	var cached dto.DashboardSummaryDTO
	if ok, err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────────
	type summaryResult struct {
		summary *repository.SalesSummaryResult
		err     error
	}
	type topResult struct {
		items []repository.TopItemResult
		err   error
	}
	type invResult struct {
		summary *repository.InventorySummaryResult
		err     error
	}

	todayCh := make(chan summaryResult, 1)
	monthCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)
	invCh := make(chan invResult, 1)

	go func() {
		s, err := uc.reportRepo.SalesSummary(ctx, todayStart, todayEnd)
		todayCh <- summaryResult{s, err}
	}()
	go func() {
		s, err := uc.reportRepo.SalesSummary(ctx, monthStart, monthEnd)
		monthCh <- summaryResult{s, err}
	}()
	go func() {
		items, err := uc.reportRepo.TopItems(ctx, monthStart, monthEnd, dashboardTopItems)
		topCh <- topResult{items, err}
	}()
	go func() {
		s, err := uc.reportRepo.InventorySummary(ctx)
		invCh <- invResult{s, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	inv := <-invCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top ítems: %w", top.err)
	}
	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", inv.err)
	}

	summary := &dto.DashboardSummaryDTO{
		TodaySales:    round2(today.summary.GrossRevenue),
		TodayCount:    today.summary.SaleCount,
		MonthlySales:  round2(month.summary.GrossRevenue),
		MonthlyCount:  month.summary.SaleCount,
		LowStockCount: inv.summary.LowStockCount,
		TopItems:      make([]dto.TopItemDTO, 0, len(top.items)),
		DateLabel:     monthLabel(now),
	}
	for _, t := range top.items {
		summary.TopItems = append(summary.TopItems, dto.TopItemDTO{
			InventoryID:  t.InventoryID,
			SKU:          t.SKU,
			ItemName:     t.ItemName,
			QuantitySold: t.QuantitySold,
			TotalRevenue: round2(t.TotalRevenue),
		})
	}

	_ = uc.cache.Set(ctx, cacheKey, summary, reportCacheTTL)
	return summary, nil
}

func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// monthLabel devuelve una etiqueta legible del mes, ej: "Agosto 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
