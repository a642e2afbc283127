package repository

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// BrandRepository define el puerto de persistencia para Brand (DIP).
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Brand, error)
	Update(ctx context.Context, brand *entity.Brand) error
	// HasModels indica si la marca ya está referenciada por algún modelo.
	HasModels(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// ModelRepository define el puerto de persistencia para Model.
type ModelRepository interface {
	Create(ctx context.Context, model *entity.Model) error
	GetByID(ctx context.Context, id string) (*entity.Model, error)
	ListByBrand(ctx context.Context, brandID string) ([]*entity.Model, error)
	Delete(ctx context.Context, id string) error
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetDetails devuelve el producto con nombres de marca y modelo (nil si no existe).
	GetDetails(ctx context.Context, id string) (*entity.ProductDetails, error)
	// LockByID bloquea la fila del producto (SELECT FOR UPDATE). false si no existe.
	LockByID(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ProductDetails, error)
	Update(ctx context.Context, product *entity.Product) error
	SetApproved(ctx context.Context, id string, approved bool) error
	// Delete elimina el producto; sus StockEntry se eliminan en cascada.
	Delete(ctx context.Context, id string) error
}
