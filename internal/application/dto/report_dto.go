package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryDTO totales del período del reporte de ventas.
type SalesSummaryDTO struct {
	SaleCount     int64           `json:"sale_count"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// TimeSeriesPointDTO un punto de la serie temporal (agrupada por day/week/month).
type TimeSeriesPointDTO struct {
	Period    time.Time       `json:"period"`
	SaleCount int64           `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// PaymentMethodDTO desglose por método de pago.
type PaymentMethodDTO struct {
	PaymentMethod string          `json:"payment_method"`
	SaleCount     int64           `json:"sale_count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// TopItemDTO ranking de ítems por ingreso en el período.
type TopItemDTO struct {
	InventoryID  string          `json:"inventory_id"`
	SKU          string          `json:"sku,omitempty"`
	ItemName     string          `json:"item_name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// SalesReportDTO respuesta de GET /api/reports/sales.
type SalesReportDTO struct {
	Summary        SalesSummaryDTO      `json:"summary"`
	TimeSeries     []TimeSeriesPointDTO `json:"time_series"`
	PaymentMethods []PaymentMethodDTO   `json:"payment_methods"`
	TopItems       []TopItemDTO         `json:"top_items"`
}

// InventoryReportDTO respuesta de GET /api/reports/inventory.
type InventoryReportDTO struct {
	ItemCount      int64           `json:"item_count"`
	TotalStockCost decimal.Decimal `json:"total_stock_cost"`
	LowStockCount  int64           `json:"low_stock_count"`
	LowStock       []ItemResponse  `json:"low_stock"`
	ExpiringSoon   []ItemResponse  `json:"expiring_soon"`
}

// ProfitLossDTO respuesta de GET /api/reports/profit-loss.
// NetProfit = Revenue - COGS - Expenses.
type ProfitLossDTO struct {
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetProfit   decimal.Decimal `json:"net_profit"`
}

// ExpenseReportDTO respuesta de GET /api/reports/expenses.
type ExpenseReportDTO struct {
	Total      decimal.Decimal        `json:"total"`
	ByCategory []ExpenseByCategoryDTO `json:"by_category"`
}

// ExpenseByCategoryDTO desglose de gastos por categoría.
type ExpenseByCategoryDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del día y del mes en curso, más el Top de ítems del mes.
type DashboardSummaryDTO struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayCount    int64           `json:"today_count"`
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyCount  int64           `json:"monthly_count"`
	LowStockCount int64           `json:"low_stock_count"`
	TopItems      []TopItemDTO    `json:"top_items"`
	DateLabel     string          `json:"date_label"` // ej: "Agosto 2026"
}
