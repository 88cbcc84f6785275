package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un ítem del inventario del local (insumo o producto a la venta).
// CurrentStock solo se muta a través del motor de movimientos o del registro de ventas,
// nunca por edición directa del campo. Invariante: CurrentStock >= 0 en todo momento.
type InventoryItem struct {
	ID           string
	Name         string
	SKU          string // código único cuando no está vacío
	Barcode      string
	CategoryID   string // vacío = sin categoría
	SupplierID   string // vacío = sin proveedor
	Unit         string // unidad de medida: und, kg, lt...
	CurrentStock decimal.Decimal
	MinimumStock decimal.Decimal
	MaximumStock *decimal.Decimal
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Location     string
	ExpiryDate   *time.Time
	Active       bool // soft delete; nunca se borra mientras tenga ventas o movimientos
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
