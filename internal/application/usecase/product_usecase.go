package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/validator"
)

// InitialStocker crea la fila de stock inicial dentro de la transacción del caller.
type InitialStocker interface {
	CreateInitialStockTx(ctx context.Context, repos repository.TxRepos, shopID, productID string, qty int, threshold *int) (*entity.StockEntry, error)
}

// ProductUseCase casos de uso del catálogo: productos. El stock se maneja vía el ledger.
type ProductUseCase struct {
	txRunner ports.TxRunner
	repo     repository.ProductRepository
	shopRepo repository.ShopRepository
	stocker  InitialStocker
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner ports.TxRunner, repo repository.ProductRepository, shopRepo repository.ShopRepository, stocker InitialStocker) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, shopRepo: shopRepo, stocker: stocker}
}

// Create crea el producto y su stock inicial en la boutique indicada, en una sola transacción.
func (uc *ProductUseCase) Create(ctx context.Context, ownerID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	if err := validateMoney(in.Price, in.Capacity); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		ModelID:     in.ModelID,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Color:       in.Color,
		Capacity:    in.Capacity,
		RAM:         in.RAM,
		OwnerUserID: ownerID,
		ImageRef:    in.ImageRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var details *entity.ProductDetails
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		model, err := repos.Models.GetByID(ctx, in.ModelID)
		if err != nil {
			return err
		}
		if model == nil {
			return domain.ErrNotFound
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if _, err := uc.stocker.CreateInitialStockTx(ctx, repos, in.ShopID, product.ID, in.InitialQuantity, in.AlertThreshold); err != nil {
			return err
		}
		details, err = repos.Products.GetDetails(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(details), nil
}

// GetByID obtiene un producto con marca y modelo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	limit, offset = normalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza los atributos del producto (no el stock).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Color != nil {
		p.Color = *in.Color
	}
	if in.Capacity != nil {
		p.Capacity = *in.Capacity
	}
	if in.RAM != nil {
		p.RAM = *in.RAM
	}
	if in.ImageRef != nil {
		p.ImageRef = *in.ImageRef
	}
	if err := validateMoney(p.Price, p.Capacity); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Approve marca el producto como aprobado. Solo el responsable de una boutique que lo tenga en stock.
func (uc *ProductUseCase) Approve(ctx context.Context, id, deciderID string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	shops, err := uc.shopRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, s := range shops {
		if deciderID != "" && s.ResponsibleID == deciderID {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrNotAuthorized
	}
	if err := uc.repo.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func validateMoney(price, capacity decimal.Decimal) error {
	var errs domain.ValidationErrors
	if price.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "price", Message: "no puede ser negativo"})
	}
	if capacity.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "capacity", Message: "no puede ser negativa"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toProductResponse(p *entity.ProductDetails) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		ModelID:     p.ModelID,
		ModelName:   p.ModelName,
		BrandID:     p.BrandID,
		BrandName:   p.BrandName,
		Name:        p.Name,
		Price:       p.Price,
		Color:       p.Color,
		Capacity:    p.Capacity,
		RAM:         p.RAM,
		OwnerUserID: p.OwnerUserID,
		ImageRef:    p.ImageRef,
		Approved:    p.Approved,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
