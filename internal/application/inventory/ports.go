package inventory

import (
	"context"

	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: la fila del libro y la
// actualización de stock se confirman juntas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
	) error) error
}
