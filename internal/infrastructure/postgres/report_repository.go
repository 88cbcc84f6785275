package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para los reportes del back-office.
// Solo ventas "completed" entran en los agregados de ingreso.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// SalesSummary devuelve los totales agregados de ventas del período.
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *ReportRepo) SalesSummary(ctx context.Context, start, end time.Time) (*repository.SalesSummaryResult, error) {
	const query = `
	SELECT
	    COUNT(*)                               AS sale_count,
	    COALESCE(SUM(total_amount),    0)      AS gross_revenue,
	    COALESCE(SUM(subtotal),        0)      AS subtotal,
	    COALESCE(SUM(tax_amount),      0)      AS tax_total,
	    COALESCE(SUM(discount_amount), 0)      AS discount_total,
	    COALESCE(AVG(total_amount),    0)      AS average_ticket
	FROM sales
	WHERE payment_status = 'completed'
	  AND sale_date BETWEEN $1 AND $2`

	var res repository.SalesSummaryResult
	err := r.pool.QueryRow(ctx, query, start, end).Scan(
		&res.SaleCount, &res.GrossRevenue, &res.Subtotal,
		&res.TaxTotal, &res.DiscountTotal, &res.AverageTicket,
	)
	if err != nil {
		return nil, fmt.Errorf("reports.SalesSummary: %w", err)
	}
	return &res, nil
}

// SalesTimeSeries agrupa las ventas del período por día, semana o mes (date_trunc).
func (r *ReportRepo) SalesTimeSeries(ctx context.Context, start, end time.Time, groupBy string) ([]repository.TimeSeriesPoint, error) {
	switch groupBy {
	case repository.GroupByDay, repository.GroupByWeek, repository.GroupByMonth:
	default:
		return nil, fmt.Errorf("reports.SalesTimeSeries: agrupación no soportada %q", groupBy)
	}
	// groupBy está validado contra la lista blanca de arriba; no llega input del usuario al SQL.
	query := fmt.Sprintf(`
	SELECT
	    date_trunc('%s', sale_date)        AS period,
	    COUNT(*)                           AS sale_count,
	    COALESCE(SUM(total_amount), 0)     AS revenue
	FROM sales
	WHERE payment_status = 'completed'
	  AND sale_date BETWEEN $1 AND $2
	GROUP BY period
	ORDER BY period`, groupBy)

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports.SalesTimeSeries: %w", err)
	}
	defer rows.Close()
	var points []repository.TimeSeriesPoint
	for rows.Next() {
		var p repository.TimeSeriesPoint
		if err := rows.Scan(&p.Period, &p.SaleCount, &p.Revenue); err != nil {
			return nil, fmt.Errorf("reports.SalesTimeSeries scan: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// SalesByPaymentMethod desglosa las ventas del período por método de pago.
func (r *ReportRepo) SalesByPaymentMethod(ctx context.Context, start, end time.Time) ([]repository.PaymentMethodResult, error) {
	const query = `
	SELECT
	    payment_method,
	    COUNT(*)                           AS sale_count,
	    COALESCE(SUM(total_amount), 0)     AS revenue
	FROM sales
	WHERE payment_status = 'completed'
	  AND sale_date BETWEEN $1 AND $2
	GROUP BY payment_method
	ORDER BY revenue DESC`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports.SalesByPaymentMethod: %w", err)
	}
	defer rows.Close()
	var results []repository.PaymentMethodResult
	for rows.Next() {
		var row repository.PaymentMethodResult
		if err := rows.Scan(&row.PaymentMethod, &row.SaleCount, &row.Revenue); err != nil {
			return nil, fmt.Errorf("reports.SalesByPaymentMethod scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopItems devuelve los `limit` ítems con mayor ingreso en el período.
func (r *ReportRepo) TopItems(ctx context.Context, start, end time.Time, limit int) ([]repository.TopItemResult, error) {
	const query = `
	SELECT
	    i.id,
	    COALESCE(i.sku, '')                AS sku,
	    i.name,
	    SUM(si.quantity)                   AS quantity_sold,
	    SUM(si.total_price)                AS total_revenue
	FROM sale_items si
	JOIN sales s           ON s.id = si.sale_id
	JOIN inventory_items i ON i.id = si.inventory_id
	WHERE s.payment_status = 'completed'
	  AND s.sale_date BETWEEN $1 AND $2
	GROUP BY i.id, i.sku, i.name
	ORDER BY total_revenue DESC
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("reports.TopItems: %w", err)
	}
	defer rows.Close()
	var results []repository.TopItemResult
	for rows.Next() {
		var row repository.TopItemResult
		if err := rows.Scan(&row.InventoryID, &row.SKU, &row.ItemName, &row.QuantitySold, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("reports.TopItems scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// InventorySummary totales del inventario activo: conteo, valor al costo y ítems bajo mínimo.
func (r *ReportRepo) InventorySummary(ctx context.Context) (*repository.InventorySummaryResult, error) {
	const query = `
	SELECT
	    COUNT(*)                                                        AS item_count,
	    COALESCE(SUM(current_stock * cost_price), 0)                    AS total_stock_cost,
	    COUNT(*) FILTER (WHERE current_stock <= minimum_stock)          AS low_stock_count
	FROM inventory_items
	WHERE active = true`

	var res repository.InventorySummaryResult
	err := r.pool.QueryRow(ctx, query).Scan(&res.ItemCount, &res.TotalStockCost, &res.LowStockCount)
	if err != nil {
		return nil, fmt.Errorf("reports.InventorySummary: %w", err)
	}
	return &res, nil
}

// LowStockItems lista ítems activos con stock en o por debajo del mínimo, los más críticos primero.
func (r *ReportRepo) LowStockItems(ctx context.Context, limit int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
	FROM inventory_items
	WHERE active = true AND current_stock <= minimum_stock
	ORDER BY (current_stock - minimum_stock) ASC
	LIMIT $1`
	return r.listItems(ctx, query, limit)
}

// ExpiringItems lista ítems activos cuya fecha de vencimiento cae dentro de la ventana dada.
func (r *ReportRepo) ExpiringItems(ctx context.Context, withinDays int, limit int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
	FROM inventory_items
	WHERE active = true
	  AND expiry_date IS NOT NULL
	  AND expiry_date <= now() + ($1 || ' days')::interval
	ORDER BY expiry_date ASC
	LIMIT $2`
	return r.listItems(ctx, query, withinDays, limit)
}

// COGS costo de la mercancía vendida del período: Σ(qty × cost_price actual del ítem).
func (r *ReportRepo) COGS(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(si.quantity * i.cost_price), 0) AS cogs
	FROM sale_items si
	JOIN sales s           ON s.id = si.sale_id
	JOIN inventory_items i ON i.id = si.inventory_id
	WHERE s.payment_status = 'completed'
	  AND s.sale_date BETWEEN $1 AND $2`

	var cogs decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, start, end).Scan(&cogs); err != nil {
		return decimal.Zero, fmt.Errorf("reports.COGS: %w", err)
	}
	return cogs, nil
}

// ExpenseTotal total de gastos del período (sobre expense_date).
func (r *ReportRepo) ExpenseTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(amount), 0)
	FROM expenses
	WHERE expense_date BETWEEN $1 AND $2`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("reports.ExpenseTotal: %w", err)
	}
	return total, nil
}

// ExpensesByCategory desglosa los gastos del período por categoría, mayor primero.
func (r *ReportRepo) ExpensesByCategory(ctx context.Context, start, end time.Time) ([]repository.ExpenseByCategoryResult, error) {
	const query = `
	SELECT category, COALESCE(SUM(amount), 0) AS total
	FROM expenses
	WHERE expense_date BETWEEN $1 AND $2
	GROUP BY category
	ORDER BY total DESC`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports.ExpensesByCategory: %w", err)
	}
	defer rows.Close()
	var results []repository.ExpenseByCategoryResult
	for rows.Next() {
		var row repository.ExpenseByCategoryResult
		if err := rows.Scan(&row.Category, &row.Total); err != nil {
			return nil, fmt.Errorf("reports.ExpensesByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *ReportRepo) listItems(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("reports scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
