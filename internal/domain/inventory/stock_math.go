package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
)

// NextStock implementa la aritmética de stock por tipo de movimiento (servicio de dominio).
//
//	in         → stockActual + |cantidad|
//	out        → stockActual - |cantidad|
//	transfer   → stockActual - |cantidad| (idéntico a out; la distinción es informativa)
//	adjustment → cantidad tal cual (sobrescritura absoluta para conteos físicos)
//
// El caller decide si el resultado negativo es un error; aquí solo se calcula.
func NextStock(stockActual decimal.Decimal, movementType string, cantidad decimal.Decimal) decimal.Decimal {
	switch movementType {
	case entity.MovementTypeIn:
		return stockActual.Add(cantidad.Abs())
	case entity.MovementTypeOut, entity.MovementTypeTransfer:
		return stockActual.Sub(cantidad.Abs())
	case entity.MovementTypeAdjustment:
		return cantidad
	}
	return stockActual
}

// LedgerQuantity devuelve la cantidad con el signo que se persiste en el libro
// de movimientos: negativa para salidas, positiva para entradas, y el valor
// absoluto final para ajustes (el nuevo conteo).
func LedgerQuantity(movementType string, cantidad decimal.Decimal) decimal.Decimal {
	switch movementType {
	case entity.MovementTypeOut, entity.MovementTypeTransfer:
		return cantidad.Abs().Neg()
	case entity.MovementTypeIn:
		return cantidad.Abs()
	}
	return cantidad
}
