package reports

import (
	"context"
	"time"
)

// ReportCache caché de lectura para respuestas de reportes (read-through con TTL).
// Los reportes son consultas puras: cachearlos no altera la idempotencia de lectura.
type ReportCache interface {
	// Get deserializa en dest y devuelve true si la clave existía.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
