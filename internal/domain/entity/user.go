package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

// User representa una cuenta del back-office (administrador o trabajador).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt; nunca sale en las respuestas HTTP
	Role         string // admin | worker
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
