package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	sup := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         in.Phone,
		Address:       in.Address,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(sup); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(sup)
	return &resp, nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	sup, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.ErrNotFound
	}
	resp := toSupplierResponse(sup)
	return &resp, nil
}

// Update actualiza los datos de contacto del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sup == nil || !sup.Active {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	sup.Name = in.Name
	sup.ContactPerson = in.ContactPerson
	sup.Email = strings.ToLower(strings.TrimSpace(in.Email))
	sup.Phone = in.Phone
	sup.Address = in.Address
	sup.UpdatedAt = time.Now()
	if err := uc.repo.Update(sup); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(sup)
	return &resp, nil
}

// List lista proveedores activos con paginación.
func (uc *SupplierUseCase) List(ctx context.Context, limit, offset int) ([]dto.SupplierResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	sups, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(sups))
	for _, s := range sups {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// Deactivate marca el proveedor como inactivo.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, id string) error {
	sup, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if sup == nil || !sup.Active {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Active:        s.Active,
		CreatedAt:     s.CreatedAt,
	}
}
