package entity

import "time"

// Category representa una categoría de ítems de inventario.
type Category struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
