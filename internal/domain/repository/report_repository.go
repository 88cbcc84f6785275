package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
)

// Agrupaciones soportadas por la serie de tiempo de ventas.
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// SalesSummaryResult totales agregados de ventas en un período.
type SalesSummaryResult struct {
	SaleCount     int64
	GrossRevenue  decimal.Decimal // Σ total_amount
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	AverageTicket decimal.Decimal
}

// TimeSeriesPoint un punto de la serie temporal de ventas.
type TimeSeriesPoint struct {
	Period    time.Time
	SaleCount int64
	Revenue   decimal.Decimal
}

// PaymentMethodResult desglose de ventas por método de pago.
type PaymentMethodResult struct {
	PaymentMethod string
	SaleCount     int64
	Revenue       decimal.Decimal
}

// TopItemResult ranking de ítems por ingreso en el período.
type TopItemResult struct {
	InventoryID  string
	SKU          string
	ItemName     string
	QuantitySold decimal.Decimal
	TotalRevenue decimal.Decimal
}

// InventorySummaryResult totales del inventario activo.
type InventorySummaryResult struct {
	ItemCount      int64
	TotalStockCost decimal.Decimal // Σ current_stock * cost_price
	LowStockCount  int64           // current_stock <= minimum_stock
}

// ExpenseByCategoryResult desglose de gastos por categoría.
type ExpenseByCategoryResult struct {
	Category string
	Total    decimal.Decimal
}

// ReportRepository define el puerto de consultas de solo lectura para reportes.
// Ninguna implementación debe mutar estado; dos llamadas con los mismos
// argumentos y sin escrituras intermedias devuelven lo mismo.
type ReportRepository interface {
	SalesSummary(ctx context.Context, start, end time.Time) (*SalesSummaryResult, error)
	SalesTimeSeries(ctx context.Context, start, end time.Time, groupBy string) ([]TimeSeriesPoint, error)
	SalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]PaymentMethodResult, error)
	TopItems(ctx context.Context, start, end time.Time, limit int) ([]TopItemResult, error)
	InventorySummary(ctx context.Context) (*InventorySummaryResult, error)
	LowStockItems(ctx context.Context, limit int) ([]*entity.InventoryItem, error)
	ExpiringItems(ctx context.Context, withinDays int, limit int) ([]*entity.InventoryItem, error)
	// COGS = Σ(sale_items.quantity * inventory.cost_price) de las ventas del período.
	COGS(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	ExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	ExpensesByCategory(ctx context.Context, start, end time.Time) ([]ExpenseByCategoryResult, error)
}
