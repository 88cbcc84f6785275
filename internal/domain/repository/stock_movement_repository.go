package repository

import (
	"time"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
)

// StockMovementRepository define el puerto para el libro de movimientos.
// Solo existe Create y lecturas: el libro es append-only por diseño.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByItem(inventoryID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
