package repository

import (
	"time"

	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para gastos operativos.
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByID(id string) (*entity.Expense, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.Expense, error)
	Update(expense *entity.Expense) error
	Delete(id string) error
}
