package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida
	MovementTypeAdjustment = "adjustment" // ajuste: sobrescribe el stock con un conteo físico
	MovementTypeTransfer   = "transfer"   // salida sin destino rastreado (aritmética idéntica a out)
)

// ValidMovementType indica si el tipo es uno de los cuatro soportados.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeTransfer:
		return true
	}
	return false
}

// StockMovement representa una entrada del libro de movimientos de inventario.
// Es append-only: no existe operación de update ni delete sobre esta tabla.
// PreviousStock/NewStock dejan la auditoría completa en cada fila.
type StockMovement struct {
	ID              string
	InventoryID     string
	Type            string
	Quantity        decimal.Decimal // negativa para salidas, positiva para entradas; conteo final en ajustes
	PreviousStock   decimal.Decimal
	NewStock        decimal.Decimal
	UnitCost        *decimal.Decimal
	ReferenceNumber string // ej: número de venta que originó la salida
	Notes           string
	CreatedBy       string // UserID
	CreatedAt       time.Time
}
