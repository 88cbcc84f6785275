package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// Categorías válidas de gasto.
var validExpenseCategories = map[string]bool{
	"rent":      true,
	"utilities": true,
	"payroll":   true,
	"supplies":  true,
	"other":     true,
}

// ExpenseUseCase casos de uso para gastos operativos.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo}
}

// Create registra un gasto. Amount debe ser positivo.
func (uc *ExpenseUseCase) Create(ctx context.Context, userID string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.Description == "" || !validExpenseCategories[in.Category] {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	expenseDate := in.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}
	now := time.Now()
	exp := &entity.Expense{
		ID:          uuid.New().String(),
		Category:    in.Category,
		Description: in.Description,
		Amount:      in.Amount,
		ExpenseDate: expenseDate,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(exp); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(exp)
	return &resp, nil
}

// GetByID obtiene un gasto por ID.
func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	exp, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	resp := toExpenseResponse(exp)
	return &resp, nil
}

// Update actualiza un gasto existente.
func (uc *ExpenseUseCase) Update(ctx context.Context, id string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	exp, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	if in.Description == "" || !validExpenseCategories[in.Category] {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	exp.Category = in.Category
	exp.Description = in.Description
	exp.Amount = in.Amount
	if !in.ExpenseDate.IsZero() {
		exp.ExpenseDate = in.ExpenseDate
	}
	exp.UpdatedAt = time.Now()
	if err := uc.repo.Update(exp); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(exp)
	return &resp, nil
}

// List lista gastos con filtro opcional de rango de fechas y paginación.
func (uc *ExpenseUseCase) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]dto.ExpenseResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidDateRange
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	exps, err := uc.repo.List(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(exps))
	for _, e := range exps {
		out = append(out, toExpenseResponse(e))
	}
	return out, nil
}

// Delete elimina un gasto. A diferencia del inventario, los gastos sí se borran:
// no hay otras filas que los referencien.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	exp, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if exp == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toExpenseResponse(e *entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
