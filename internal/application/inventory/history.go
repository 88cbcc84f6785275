package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// MovementHistoryUseCase lecturas del libro de movimientos (auditoría).
type MovementHistoryUseCase struct {
	movRepo repository.StockMovementRepository
	invRepo repository.InventoryRepository
}

// NewMovementHistoryUseCase construye el caso de uso.
func NewMovementHistoryUseCase(movRepo repository.StockMovementRepository, invRepo repository.InventoryRepository) *MovementHistoryUseCase {
	return &MovementHistoryUseCase{movRepo: movRepo, invRepo: invRepo}
}

// ListByItem devuelve el historial de movimientos de un ítem, más reciente primero.
func (uc *MovementHistoryUseCase) ListByItem(ctx context.Context, inventoryID string, from, to *time.Time, limit, offset int) ([]dto.MovementDTO, error) {
	if inventoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.ErrInvalidDateRange
	}
	item, err := uc.invRepo.GetByID(inventoryID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.ItemNotFoundError{ItemID: inventoryID}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	movs, err := uc.movRepo.ListByItem(inventoryID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementDTO{
			ID:              m.ID,
			InventoryID:     m.InventoryID,
			Type:            m.Type,
			Quantity:        m.Quantity,
			PreviousStock:   m.PreviousStock,
			NewStock:        m.NewStock,
			UnitCost:        m.UnitCost,
			ReferenceNumber: m.ReferenceNumber,
			Notes:           m.Notes,
			CreatedBy:       m.CreatedBy,
			CreatedAt:       m.CreatedAt,
		})
	}
	return out, nil
}
