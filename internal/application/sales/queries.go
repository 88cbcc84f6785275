package sales

import (
	"context"
	"time"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// SaleQueryUseCase lecturas de ventas (detalle y listados).
type SaleQueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewSaleQueryUseCase construye el caso de uso.
func NewSaleQueryUseCase(saleRepo repository.SaleRepository) *SaleQueryUseCase {
	return &SaleQueryUseCase{saleRepo: saleRepo}
}

// GetSale devuelve una venta con sus líneas.
func (uc *SaleQueryUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(id)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return saleToResponse(sale), nil
}

// ListSales lista ventas por rango de fechas y estado de pago, más reciente primero.
func (uc *SaleQueryUseCase) ListSales(ctx context.Context, from, to *time.Time, paymentStatus string, limit, offset int) (*dto.SaleListResponse, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.ErrInvalidDateRange
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	sales, err := uc.saleRepo.List(repository.SaleFilter{
		From:          from,
		To:            to,
		PaymentStatus: paymentStatus,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		data = append(data, *saleToResponse(s))
	}
	return &dto.SaleListResponse{Data: data, Limit: limit, Offset: offset}, nil
}

// UpdatePaymentStatus cambia el estado de pago de una venta (ej: refunded o
// cancelled tras un reclamo). No revierte stock: eso se registra a mano como
// movimiento de entrada si la mercadería vuelve.
func (uc *SaleQueryUseCase) UpdatePaymentStatus(ctx context.Context, id, status string) (*dto.SaleResponse, error) {
	if !entity.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.saleRepo.UpdatePaymentStatus(id, status); err != nil {
		return nil, err
	}
	sale.PaymentStatus = status
	return saleToResponse(sale), nil
}
