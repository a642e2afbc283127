package ports

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// LowStockReporter genera la representación imprimible (PDF) del listado de stock bajo.
type LowStockReporter interface {
	GenerateLowStockReport(ctx context.Context, threshold int, entries []*entity.StockEntryView) ([]byte, error)
}
