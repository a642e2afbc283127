package repository

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// AvailableStock fila de stock con cantidad > 0 y los datos del producto (lectura para búsqueda).
type AvailableStock struct {
	Entry   entity.StockEntry
	Product entity.ProductDetails
}

// StockRepository define el puerto para consultar/actualizar stock por boutique+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Create inserta un StockEntry. Devuelve domain.ErrDuplicate si ya existe el par.
	Create(ctx context.Context, entry *entity.StockEntry) error
	// Get devuelve el StockEntry o nil si no existe.
	Get(ctx context.Context, shopID, productID string) (*entity.StockEntry, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, shopID, productID string) (*entity.StockEntry, error)
	// UpdateQuantity persiste la cantidad de un StockEntry existente.
	UpdateQuantity(ctx context.Context, entry *entity.StockEntry) error
	// Upsert inserta o actualiza la cantidad; devuelve la fila resultante.
	Upsert(ctx context.Context, entry *entity.StockEntry) (*entity.StockEntry, error)

	ListByShop(ctx context.Context, shopID string) ([]*entity.StockEntryView, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error)
	// ListAvailableByShop devuelve las filas con cantidad > 0 de la boutique, por nombre de producto.
	ListAvailableByShop(ctx context.Context, shopID string) ([]AvailableStock, error)
	// ListLowStock devuelve filas con cantidad < threshold ordenadas por (shop_id, product_id),
	// a partir de after (exclusivo) si no es nil.
	ListLowStock(ctx context.Context, threshold int, after *entity.StockCursor, limit int) ([]*entity.StockEntryView, error)
}

// StockAlertRepository define el puerto para alertas de stock bajo.
type StockAlertRepository interface {
	Create(ctx context.Context, alert *entity.StockAlert) error
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*entity.StockAlert, error)
	// MarkRead marca la alerta como leída. false si no existe.
	MarkRead(ctx context.Context, id string) (bool, error)
}
