package entity

import "time"

// Supplier representa un proveedor de insumos del local.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
