package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body de POST /api/inventory/movements.
// Quantity es un número plano; el signo lo determina el tipo:
// in/out/transfer usan el valor absoluto, adjustment lo toma tal cual (conteo físico).
type RegisterMovementRequest struct {
	InventoryID     string           `json:"inventory_id"`
	Type            string           `json:"type"` // in, out, adjustment, transfer
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// MovementResponse resultado de un movimiento registrado.
type MovementResponse struct {
	MovementID    string          `json:"movement_id"`
	InventoryID   string          `json:"inventory_id"`
	Type          string          `json:"type"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
}

// MovementDTO una fila del libro de movimientos (lecturas).
type MovementDTO struct {
	ID              string           `json:"id"`
	InventoryID     string           `json:"inventory_id"`
	Type            string           `json:"type"`
	Quantity        decimal.Decimal  `json:"quantity"`
	PreviousStock   decimal.Decimal  `json:"previous_stock"`
	NewStock        decimal.Decimal  `json:"new_stock"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ItemRequest body de creación/actualización de un ítem de inventario.
// current_stock no aparece aquí a propósito: el stock solo cambia vía movimientos.
type ItemRequest struct {
	Name         string           `json:"name"`
	SKU          string           `json:"sku,omitempty"`
	Barcode      string           `json:"barcode,omitempty"`
	CategoryID   string           `json:"category_id,omitempty"`
	SupplierID   string           `json:"supplier_id,omitempty"`
	Unit         string           `json:"unit"`
	InitialStock *decimal.Decimal `json:"initial_stock,omitempty"` // solo en creación
	MinimumStock decimal.Decimal  `json:"minimum_stock"`
	MaximumStock *decimal.Decimal `json:"maximum_stock,omitempty"`
	CostPrice    decimal.Decimal  `json:"cost_price"`
	SellingPrice decimal.Decimal  `json:"selling_price"`
	Location     string           `json:"location,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
}

// ItemResponse representación de un ítem de inventario.
type ItemResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku,omitempty"`
	Barcode      string           `json:"barcode,omitempty"`
	CategoryID   string           `json:"category_id,omitempty"`
	SupplierID   string           `json:"supplier_id,omitempty"`
	Unit         string           `json:"unit"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	MinimumStock decimal.Decimal  `json:"minimum_stock"`
	MaximumStock *decimal.Decimal `json:"maximum_stock,omitempty"`
	CostPrice    decimal.Decimal  `json:"cost_price"`
	SellingPrice decimal.Decimal  `json:"selling_price"`
	Location     string           `json:"location,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
	Active       bool             `json:"active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
