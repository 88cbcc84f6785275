package repository

import "github.com/jhoicas/Backoffice-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para cuentas de usuario.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List(limit, offset int) ([]*entity.User, error)
	Update(user *entity.User) error
	Deactivate(id string) error
}
