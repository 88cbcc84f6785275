package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense representa un gasto operativo (arriendo, servicios, nómina...).
// Alimenta el reporte de pérdidas y ganancias junto con ventas y COGS.
type Expense struct {
	ID          string
	Category    string // rent, utilities, payroll, supplies, other
	Description string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	CreatedBy   string // UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
