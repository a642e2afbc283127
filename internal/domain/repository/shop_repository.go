package repository

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/pkg/geo"
)

// ShopRepository define el puerto de persistencia para Shop (registro de boutiques).
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error
	SetResponsible(ctx context.Context, shopID, userID string) error
	SetManagers(ctx context.Context, shopID string, userIDs []string) error
	Delete(ctx context.Context, id string) error

	// ListByProduct devuelve las boutiques que tienen un StockEntry del producto (cualquier cantidad).
	ListByProduct(ctx context.Context, productID string) ([]*entity.Shop, error)

	// ListWithinRadius devuelve las boutiques con ubicación a distancia geodésica <= radiusMeters
	// del punto, ordenadas por distancia ascendente.
	ListWithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]entity.ShopDistance, error)
}
