package cache

import (
	"context"
	"time"

	"github.com/jhoicas/Backoffice-api/internal/application/reports"
)

var _ reports.ReportCache = (*NoopReportCache)(nil)

// NoopReportCache caché nulo: se usa cuando REDIS_ADDR no está configurado.
// Todos los reportes van directo a la base de datos.
type NoopReportCache struct{}

// Get nunca encuentra nada.
func (NoopReportCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

// Set descarta el valor.
func (NoopReportCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}
