package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, sale_number, customer_name, customer_email, customer_phone,
	subtotal, tax_amount, discount_amount, total_amount, payment_method,
	payment_status, sale_date, notes, created_by, created_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta. sale_number tiene constraint UNIQUE:
// una colisión de consecutivo devuelve ErrDuplicate para que el caso de uso reintente.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, customer_name, customer_email, customer_phone,
			subtotal, tax_amount, discount_amount, total_amount, payment_method,
			payment_status, sale_date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.SaleNumber, sale.CustomerName, sale.CustomerEmail, sale.CustomerPhone,
		sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.TotalAmount, sale.PaymentMethod,
		sale.PaymentStatus, sale.SaleDate, sale.Notes, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta. Asigna ID si viene vacío.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, inventory_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.InventoryID, item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta (sin líneas).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetItemsBySaleID obtiene las líneas de una venta en orden de inserción.
func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, inventory_id, quantity, unit_price, total_price
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.InventoryID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// CountByDay cuenta las ventas creadas el día indicado (para el consecutivo del número de venta).
func (r *SaleRepo) CountByDay(day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	var count int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM sales WHERE created_at >= $1 AND created_at < $2`,
		start, end,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sales by day: %w", err)
	}
	return count, nil
}

// List lista ventas según el filtro, más recientes primero.
func (r *SaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE true`
	args := []any{}
	query, args = appendDateRange(query, args, "sale_date", filter.From, filter.To)
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		query += fmt.Sprintf(` AND payment_status = $%d`, len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY sale_date DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdatePaymentStatus actualiza el estado de pago de una venta.
func (r *SaleRepo) UpdatePaymentStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET payment_status = $2 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.SaleNumber, &s.CustomerName, &s.CustomerEmail, &s.CustomerPhone,
		&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount, &s.PaymentMethod,
		&s.PaymentStatus, &s.SaleDate, &s.Notes, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
