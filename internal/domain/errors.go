package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidDateRange   = errors.New("rango de fechas inválido")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// InsufficientStockError identifica el ítem sin stock y la cantidad disponible,
// para que el handler arme un mensaje útil al usuario. Unwrap devuelve
// ErrInsufficientStock, así los callers siguen usando errors.Is.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %s, solicitado %s",
		e.ItemName, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ItemNotFoundError identifica el ítem de inventario referenciado que no existe
// o está inactivo (ej: una línea de venta apuntando a un ID borrado).
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("ítem de inventario %s no encontrado", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrNotFound }
