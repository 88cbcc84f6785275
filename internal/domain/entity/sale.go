package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusCancelled = "cancelled"
)

// ValidPaymentStatus indica si el estado de pago es uno de los soportados.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodOther    = "other"
)

// ValidPaymentMethod indica si el método de pago es uno de los soportados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Sale representa la cabecera de una venta del punto de venta.
// TotalAmount es derivado: siempre igual a Subtotal + TaxAmount - DiscountAmount.
// La creación es inmediatamente "completed"; no hay flujo de autorización.
type Sale struct {
	ID             string
	SaleNumber     string // SALE-{YYYYMMDD}-{NNNN}, único y secuencial por día
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentMethod  string
	PaymentStatus  string
	SaleDate       time.Time
	Notes          string
	CreatedBy      string // UserID
	CreatedAt      time.Time
	Items          []*SaleItem
}

// SaleItem representa una línea de venta. Inmutable una vez registrada la venta:
// las correcciones se hacen con nuevos movimientos o ventas, no editando líneas.
// UnitPrice es el precio al momento de la venta, independiente del SellingPrice actual.
type SaleItem struct {
	ID          string
	SaleID      string
	InventoryID string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal // Quantity * UnitPrice
}
