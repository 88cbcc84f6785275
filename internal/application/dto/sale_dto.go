package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del carrito.
type SaleLineRequest struct {
	InventoryID string          `json:"inventory_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body de POST /api/sales.
type CreateSaleRequest struct {
	CustomerName   string            `json:"customer_name,omitempty"`
	CustomerEmail  string            `json:"customer_email,omitempty"`
	CustomerPhone  string            `json:"customer_phone,omitempty"`
	Items          []SaleLineRequest `json:"items"`
	PaymentMethod  string            `json:"payment_method"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Notes          string            `json:"notes,omitempty"`
}

// PaymentStatusRequest body de PATCH /api/sales/:id/payment-status.
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"` // pending|completed|refunded|cancelled
}

// SaleItemResponse una línea de venta persistida.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	InventoryID string          `json:"inventory_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse representación de una venta con sus líneas.
type SaleResponse struct {
	ID             string             `json:"id"`
	SaleNumber     string             `json:"sale_number"`
	CustomerName   string             `json:"customer_name,omitempty"`
	CustomerEmail  string             `json:"customer_email,omitempty"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	SaleDate       time.Time          `json:"sale_date"`
	Notes          string             `json:"notes,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Data   []SaleResponse `json:"data"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
