package sales

import (
	"context"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el registro de ventas atados a esa tx.
// Cabecera, líneas, descuentos de stock y filas del libro se confirman juntas o ninguna.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptGenerator genera la representación PDF del recibo de una venta.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, itemNames map[string]string) ([]byte, error)
}
