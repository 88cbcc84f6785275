package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// CreateSaleUseCase convierte un carrito en una venta confirmada dentro de una
// sola transacción: valida stock de todas las líneas, calcula totales,
// persiste cabecera y líneas, descuenta inventario y deja una fila en el libro
// de movimientos por cada línea.
type CreateSaleUseCase struct {
	txRunner TxRunner
	taxRate  decimal.Decimal
}

// NewCreateSaleUseCase construye el caso de uso. La tasa de impuesto viene de
// configuración (SALES_TAX_RATE), no es una constante del algoritmo.
func NewCreateSaleUseCase(txRunner TxRunner, taxRate decimal.Decimal) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, taxRate: taxRate}
}

// CreateSale registra la venta completa. Cualquier fallo (ítem inexistente,
// stock insuficiente, error de persistencia) revierte todo: ni venta parcial
// ni stock parcialmente descontado.
//
// El número de venta SALE-{YYYYMMDD}-{NNNN} nace de contar las ventas del día;
// la constraint UNIQUE sobre sales.sale_number respalda la generación bajo
// concurrencia: ante una violación se regenera y reintenta una vez, y si
// vuelve a chocar se devuelve ErrConflict para que el caller reintente.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if line.InventoryID == "" || !line.Quantity.IsPositive() || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	var resp *dto.SaleResponse
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err = uc.createSaleTx(ctx, userID, in)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// Número de venta duplicado: otra venta ganó la carrera del consecutivo.
	}
	return nil, domain.ErrConflict
}

func (uc *CreateSaleUseCase) createSaleTx(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	now := time.Now()
	var sale *entity.Sale

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		saleRepo repository.SaleRepository,
	) error {
		count, err := saleRepo.CountByDay(now)
		if err != nil {
			return err
		}
		saleNumber := fmt.Sprintf("SALE-%s-%04d", now.Format("20060102"), count+1)

		// Fase de bloqueo: tomar los locks de fila en orden estable de ID,
		// no en el orden del carrito. Dos carritos concurrentes con los mismos
		// ítems en orden opuesto adquirirían los locks cruzados y Postgres
		// abortaría uno por deadlock.
		distinct := make([]string, 0, len(in.Items))
		seen := make(map[string]bool, len(in.Items))
		for _, line := range in.Items {
			if !seen[line.InventoryID] {
				seen[line.InventoryID] = true
				distinct = append(distinct, line.InventoryID)
			}
		}
		sort.Strings(distinct)

		items := make(map[string]*entity.InventoryItem, len(distinct))
		projected := make(map[string]decimal.Decimal, len(distinct))
		for _, id := range distinct {
			item, err := invRepo.GetByIDForUpdate(id)
			if err != nil {
				return err
			}
			if item == nil || !item.Active {
				return &domain.ItemNotFoundError{ItemID: id}
			}
			items[id] = item
			projected[id] = item.CurrentStock
		}

		// Fase de validación: verificar TODAS las líneas antes de descontar
		// nada. projected acumula el stock comprometido por líneas anteriores
		// del mismo carrito sobre el mismo ítem.
		for _, line := range in.Items {
			item := items[line.InventoryID]
			if projected[line.InventoryID].LessThan(line.Quantity) {
				return &domain.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Available: projected[line.InventoryID],
					Requested: line.Quantity,
				}
			}
			projected[line.InventoryID] = projected[line.InventoryID].Sub(line.Quantity)
		}

		// Totales: subtotal = Σ qty*precio; total = subtotal + impuesto - descuento.
		subtotal := decimal.Zero
		for _, line := range in.Items {
			subtotal = subtotal.Add(line.Quantity.Mul(line.UnitPrice))
		}
		taxAmount := subtotal.Mul(uc.taxRate)
		totalAmount := subtotal.Add(taxAmount).Sub(in.DiscountAmount)

		sale = &entity.Sale{
			ID:             uuid.New().String(),
			SaleNumber:     saleNumber,
			CustomerName:   in.CustomerName,
			CustomerEmail:  in.CustomerEmail,
			CustomerPhone:  in.CustomerPhone,
			Subtotal:       subtotal,
			TaxAmount:      taxAmount,
			DiscountAmount: in.DiscountAmount,
			TotalAmount:    totalAmount,
			PaymentMethod:  in.PaymentMethod,
			PaymentStatus:  entity.PaymentStatusCompleted,
			SaleDate:       now,
			Notes:          in.Notes,
			CreatedBy:      userID,
			CreatedAt:      now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		// Fase de mutación: líneas en el orden recibido; cada línea inserta su
		// SaleItem, descuenta stock y deja su fila `out` en el libro.
		running := make(map[string]decimal.Decimal, len(items))
		for id, item := range items {
			running[id] = item.CurrentStock
		}
		for _, line := range in.Items {
			item := items[line.InventoryID]
			saleItem := &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				InventoryID: line.InventoryID,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				TotalPrice:  line.Quantity.Mul(line.UnitPrice),
			}
			if err := saleRepo.CreateItem(saleItem); err != nil {
				return err
			}
			sale.Items = append(sale.Items, saleItem)

			prev := running[line.InventoryID]
			newStock := prev.Sub(line.Quantity)
			running[line.InventoryID] = newStock

			mov := &entity.StockMovement{
				InventoryID:     line.InventoryID,
				Type:            entity.MovementTypeOut,
				Quantity:        line.Quantity.Neg(),
				PreviousStock:   prev,
				NewStock:        newStock,
				ReferenceNumber: saleNumber,
				Notes:           fmt.Sprintf("Venta %s: %s", saleNumber, item.Name),
				CreatedBy:       userID,
				CreatedAt:       now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			if err := invRepo.UpdateStock(line.InventoryID, newStock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func saleToResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:          it.ID,
			InventoryID: it.InventoryID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return &dto.SaleResponse{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		CustomerName:   s.CustomerName,
		CustomerEmail:  s.CustomerEmail,
		CustomerPhone:  s.CustomerPhone,
		Subtotal:       s.Subtotal,
		TaxAmount:      s.TaxAmount,
		DiscountAmount: s.DiscountAmount,
		TotalAmount:    s.TotalAmount,
		PaymentMethod:  s.PaymentMethod,
		PaymentStatus:  s.PaymentStatus,
		SaleDate:       s.SaleDate,
		Notes:          s.Notes,
		Items:          items,
		CreatedAt:      s.CreatedAt,
	}
}
