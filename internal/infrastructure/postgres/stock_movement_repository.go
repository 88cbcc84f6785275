package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, inventory_id, movement_type, quantity, previous_stock,
	new_stock, unit_cost, reference_number, notes, created_by, created_at`

// StockMovementRepo implementación del puerto StockMovementRepository sobre PostgreSQL.
// La tabla es append-only: solo INSERT y SELECT, nunca UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una fila del libro. Asigna ID si viene vacío.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, inventory_id, movement_type, quantity, previous_stock,
			new_stock, unit_cost, reference_number, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.InventoryID, movement.Type, movement.Quantity,
		movement.PreviousStock, movement.NewStock, movement.UnitCost,
		movement.ReferenceNumber, movement.Notes, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene una fila del libro por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	mov, err := scanStockMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return mov, nil
}

// ListByItem lista los movimientos de un ítem, más recientes primero, con filtro opcional de fechas.
func (r *StockMovementRepo) ListByItem(inventoryID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE inventory_id = $1`
	args := []any{inventoryID}
	query, args = appendDateRange(query, args, "created_at", from, to)
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.list(query, args)
}

// List lista movimientos de todos los ítems, más recientes primero.
func (r *StockMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE true`
	args := []any{}
	query, args = appendDateRange(query, args, "created_at", from, to)
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.list(query, args)
}

func (r *StockMovementRepo) list(query string, args []any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		mov, err := scanStockMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, mov)
	}
	return list, rows.Err()
}

func scanStockMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.InventoryID, &m.Type, &m.Quantity, &m.PreviousStock,
		&m.NewStock, &m.UnitCost, &m.ReferenceNumber, &m.Notes, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// appendDateRange agrega condiciones de rango sobre la columna dada usando placeholders posicionales.
func appendDateRange(query string, args []any, column string, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND %s >= $%d`, column, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND %s <= $%d`, column, len(args))
	}
	return query, args
}
