package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventoryColumns = `id, name, sku, barcode, category_id, supplier_id, unit,
	current_stock, minimum_stock, maximum_stock, cost_price, selling_price,
	location, expiry_date, active, created_at, updated_at`

// InventoryRepo implementación del puerto InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create persiste un nuevo ítem.
func (r *InventoryRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, sku, barcode, category_id, supplier_id, unit,
			current_stock, minimum_stock, maximum_stock, cost_price, selling_price,
			location, expiry_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, nullIfEmpty(item.SKU), item.Barcode,
		nullIfEmpty(item.CategoryID), nullIfEmpty(item.SupplierID), item.Unit,
		item.CurrentStock, item.MinimumStock, item.MaximumStock,
		item.CostPrice, item.SellingPrice, item.Location, item.ExpiryDate,
		item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *InventoryRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene un ítem bloqueando su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *InventoryRepo) GetByIDForUpdate(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU obtiene un ítem por SKU.
func (r *InventoryRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku))
}

// List lista ítems activos, con búsqueda opcional por nombre o SKU.
// El término llega ya normalizado sin acentos; unaccent() empareja los datos.
func (r *InventoryRepo) List(search string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE active = true`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (unaccent(name) ILIKE $%d OR sku ILIKE $%d)`, len(args), len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables. No toca current_stock (se maneja vía movimientos).
func (r *InventoryRepo) Update(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET name = $2, sku = $3, barcode = $4, category_id = $5,
			supplier_id = $6, unit = $7, minimum_stock = $8, maximum_stock = $9,
			cost_price = $10, selling_price = $11, location = $12, expiry_date = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, nullIfEmpty(item.SKU), item.Barcode,
		nullIfEmpty(item.CategoryID), nullIfEmpty(item.SupplierID), item.Unit,
		item.MinimumStock, item.MaximumStock, item.CostPrice, item.SellingPrice,
		item.Location, item.ExpiryDate, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// UpdateStock actualiza solo el stock del ítem (usado por el motor de movimientos y ventas).
func (r *InventoryRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_items SET current_stock = $2, updated_at = now() WHERE id = $1`,
		id, newStock,
	)
	if err != nil {
		return fmt.Errorf("update item stock: %w", err)
	}
	return nil
}

// Deactivate marca el ítem como inactivo (soft delete).
func (r *InventoryRepo) Deactivate(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_items SET active = false, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivate inventory item: %w", err)
	}
	return nil
}

func (r *InventoryRepo) scanOne(row pgx.Row) (*entity.InventoryItem, error) {
	item, err := scanInventoryItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

func (r *InventoryRepo) scanRow(rows pgx.Rows) (*entity.InventoryItem, error) {
	item, err := scanInventoryItem(rows)
	if err != nil {
		return nil, fmt.Errorf("scan inventory item: %w", err)
	}
	return item, nil
}

// scanInventoryItem escanea una fila con las columnas de inventoryColumns, en ese orden.
func scanInventoryItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	var sku, categoryID, supplierID *string
	err := row.Scan(
		&it.ID, &it.Name, &sku, &it.Barcode, &categoryID, &supplierID, &it.Unit,
		&it.CurrentStock, &it.MinimumStock, &it.MaximumStock, &it.CostPrice, &it.SellingPrice,
		&it.Location, &it.ExpiryDate, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sku != nil {
		it.SKU = *sku
	}
	if categoryID != nil {
		it.CategoryID = *categoryID
	}
	if supplierID != nil {
		it.SupplierID = *supplierID
	}
	return &it, nil
}

// nullIfEmpty convierte "" en NULL para columnas con constraint UNIQUE o FK.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
