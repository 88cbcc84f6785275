package usecase

import (
	"context"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	appinventory "github.com/jhoicas/Backoffice-api/internal/application/inventory"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems de inventario.
// CurrentStock nunca se edita aquí: el stock inicial entra como movimiento `in`
// y el resto de cambios pasan por el motor de movimientos o el registro de ventas.
type ItemUseCase struct {
	repo     repository.InventoryRepository
	movement *appinventory.RegisterMovementUseCase
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.InventoryRepository, movement *appinventory.RegisterMovementUseCase) *ItemUseCase {
	return &ItemUseCase{repo: repo, movement: movement}
}

// Create crea un ítem. Si viene InitialStock positivo, se registra como un
// movimiento `in` para que el libro quede completo desde el primer día.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinimumStock.IsNegative() || in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SKU != "" {
		existing, err := uc.repo.GetBySKU(in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		Name:         in.Name,
		SKU:          in.SKU,
		Barcode:      in.Barcode,
		CategoryID:   in.CategoryID,
		SupplierID:   in.SupplierID,
		Unit:         in.Unit,
		CurrentStock: decimal.Zero,
		MinimumStock: in.MinimumStock,
		MaximumStock: in.MaximumStock,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		Location:     in.Location,
		ExpiryDate:   in.ExpiryDate,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}

	if in.InitialStock != nil && in.InitialStock.IsPositive() {
		cost := in.CostPrice
		mov, err := uc.movement.RegisterMovement(ctx, appinventory.MovementInput{
			InventoryID: item.ID,
			Type:        entity.MovementTypeIn,
			Quantity:    *in.InitialStock,
			UnitCost:    &cost,
			Notes:       "stock inicial",
			UserID:      userID,
		})
		if err != nil {
			return nil, err
		}
		item.CurrentStock = mov.NewStock
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// Update actualiza los campos editables. No toca CurrentStock (se maneja vía movimientos).
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.Active {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinimumStock.IsNegative() || in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SKU != "" && in.SKU != item.SKU {
		existing, err := uc.repo.GetBySKU(in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	item.Name = in.Name
	item.SKU = in.SKU
	item.Barcode = in.Barcode
	item.CategoryID = in.CategoryID
	item.SupplierID = in.SupplierID
	item.Unit = in.Unit
	item.MinimumStock = in.MinimumStock
	item.MaximumStock = in.MaximumStock
	item.CostPrice = in.CostPrice
	item.SellingPrice = in.SellingPrice
	item.Location = in.Location
	item.ExpiryDate = in.ExpiryDate
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// List lista ítems activos con búsqueda por nombre/SKU y paginación.
// El término se normaliza sin acentos para que "te" encuentre "té".
func (uc *ItemUseCase) List(ctx context.Context, search string, limit, offset int) ([]dto.ItemResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, err := uc.repo.List(foldAccents(search), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

// Deactivate marca el ítem como inactivo (soft delete). Nunca se borra la fila:
// las ventas y movimientos históricos siguen referenciándola.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil || !item.Active {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

// foldAccents elimina marcas diacríticas del término de búsqueda (NFD + strip Mn + NFC).
func foldAccents(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func toItemResponse(it *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		SKU:          it.SKU,
		Barcode:      it.Barcode,
		CategoryID:   it.CategoryID,
		SupplierID:   it.SupplierID,
		Unit:         it.Unit,
		CurrentStock: it.CurrentStock,
		MinimumStock: it.MinimumStock,
		MaximumStock: it.MaximumStock,
		CostPrice:    it.CostPrice,
		SellingPrice: it.SellingPrice,
		Location:     it.Location,
		ExpiryDate:   it.ExpiryDate,
		Active:       it.Active,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
