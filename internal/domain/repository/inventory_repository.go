package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para ítems de inventario.
// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); usarlo dentro de
// transacciones para toda lectura previa a una mutación de stock.
type InventoryRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	GetByIDForUpdate(id string) (*entity.InventoryItem, error)
	GetBySKU(sku string) (*entity.InventoryItem, error)
	List(search string, limit, offset int) ([]*entity.InventoryItem, error)
	// Update persiste los campos editables del ítem. Nunca toca CurrentStock:
	// el stock solo se muta vía UpdateStock dentro del motor de movimientos.
	Update(item *entity.InventoryItem) error
	UpdateStock(id string, newStock decimal.Decimal) error
	Deactivate(id string) error
}
