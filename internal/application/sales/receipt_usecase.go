package sales

import (
	"context"

	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// ReceiptUseCase genera el PDF del recibo de una venta confirmada.
type ReceiptUseCase struct {
	saleRepo  repository.SaleRepository
	invRepo   repository.InventoryRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(saleRepo repository.SaleRepository, invRepo repository.InventoryRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, invRepo: invRepo, generator: generator}
}

// GenerateReceipt devuelve los bytes del PDF del recibo de la venta.
func (uc *ReceiptUseCase) GenerateReceipt(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(saleID)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	// Nombres de los ítems para las líneas del recibo.
	names := make(map[string]string, len(items))
	for _, it := range items {
		if _, ok := names[it.InventoryID]; ok {
			continue
		}
		inv, err := uc.invRepo.GetByID(it.InventoryID)
		if err != nil {
			return nil, err
		}
		if inv != nil {
			names[it.InventoryID] = inv.Name
		}
	}
	return uc.generator.GenerateReceiptPDF(ctx, sale, names)
}
