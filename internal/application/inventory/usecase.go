package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Backoffice-api/internal/domain/inventory"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (in, out, adjustment, transfer) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para registrar un movimiento de inventario.
// Para in/out/transfer se usa el valor absoluto de Quantity; para adjustment
// Quantity es el nuevo conteo físico que sobrescribe el stock.
type MovementInput struct {
	InventoryID     string
	Type            string
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	ReferenceNumber string
	Notes           string
	UserID          string
}

// RegisterMovement inicia una transacción, bloquea la fila del ítem
// (SELECT FOR UPDATE), calcula el nuevo stock según el tipo y persiste la fila
// del libro junto con la actualización de stock. Commit o Rollback de ambas.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*dto.MovementResponse, error) {
	if input.InventoryID == "" || !entity.ValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIn, entity.MovementTypeOut, entity.MovementTypeTransfer:
		if input.Quantity.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	}
	// Un ajuste negativo no se rechaza acá: primero se resuelve el ítem (un ID
	// inexistente responde not-found) y después cae en el chequeo de stock
	// negativo como cualquier otro movimiento.
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var resp *dto.MovementResponse

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
	) error {
		// Bloquea la fila del ítem para evitar condiciones de carrera check-then-act
		item, err := invRepo.GetByIDForUpdate(input.InventoryID)
		if err != nil {
			return err
		}
		if item == nil || !item.Active {
			return &domain.ItemNotFoundError{ItemID: input.InventoryID}
		}

		newStock := domaininv.NextStock(item.CurrentStock, input.Type, input.Quantity)
		if newStock.IsNegative() {
			return &domain.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Available: item.CurrentStock,
				Requested: input.Quantity.Abs(),
			}
		}

		mov := &entity.StockMovement{
			InventoryID:     item.ID,
			Type:            input.Type,
			Quantity:        domaininv.LedgerQuantity(input.Type, input.Quantity),
			PreviousStock:   item.CurrentStock,
			NewStock:        newStock,
			UnitCost:        input.UnitCost,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
			CreatedBy:       input.UserID,
			CreatedAt:       now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := invRepo.UpdateStock(item.ID, newStock); err != nil {
			return err
		}

		resp = &dto.MovementResponse{
			MovementID:    mov.ID,
			InventoryID:   item.ID,
			Type:          input.Type,
			PreviousStock: item.CurrentStock,
			NewStock:      newStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInput{
		InventoryID:     in.InventoryID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		UserID:          userID,
	}
	return uc.RegisterMovement(ctx, input)
}
