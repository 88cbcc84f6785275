package repository

import (
	"time"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
)

// SaleFilter parámetros de listado de ventas.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	PaymentStatus string // vacío = todos
	Limit         int
	Offset        int
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// Las líneas son inmutables: no hay update ni delete de SaleItem.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	// CountByDay cuenta las ventas creadas el día indicado (para el consecutivo del número de venta).
	CountByDay(day time.Time) (int64, error)
	List(filter SaleFilter) ([]*entity.Sale, error)
	UpdatePaymentStatus(id, status string) error
}
