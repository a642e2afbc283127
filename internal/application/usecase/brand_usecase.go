package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/validator"
)

// BrandUseCase casos de uso CRUD para marcas y modelos.
type BrandUseCase struct {
	brands repository.BrandRepository
	models repository.ModelRepository
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(brands repository.BrandRepository, models repository.ModelRepository) *BrandUseCase {
	return &BrandUseCase{brands: brands, models: models}
}

// Create crea una marca. ErrDuplicate si el nombre ya existe.
func (uc *BrandUseCase) Create(ctx context.Context, in dto.CreateBrandRequest) (*dto.BrandResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	b := &entity.Brand{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), CreatedAt: time.Now().UTC()}
	if err := uc.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBrandResponse(b), nil
}

// GetByID obtiene una marca.
func (uc *BrandUseCase) GetByID(ctx context.Context, id string) (*dto.BrandResponse, error) {
	b, err := uc.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return toBrandResponse(b), nil
}

// List lista marcas por nombre.
func (uc *BrandUseCase) List(ctx context.Context, limit, offset int) ([]dto.BrandResponse, error) {
	limit, offset = normalizePage(limit, offset)
	list, err := uc.brands.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBrandResponse(b))
	}
	return out, nil
}

// Rename cambia el nombre. Una marca ya referenciada por un modelo no se modifica (ErrConflict).
func (uc *BrandUseCase) Rename(ctx context.Context, id string, in dto.CreateBrandRequest) (*dto.BrandResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	b, err := uc.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	used, err := uc.brands.HasModels(ctx, id)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, domain.ErrConflict
	}
	b.Name = strings.TrimSpace(in.Name)
	if err := uc.brands.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBrandResponse(b), nil
}

// Delete elimina la marca con sus modelos y productos (cascada).
func (uc *BrandUseCase) Delete(ctx context.Context, id string) error {
	return uc.brands.Delete(ctx, id)
}

// CreateModel crea un modelo de una marca existente.
func (uc *BrandUseCase) CreateModel(ctx context.Context, in dto.CreateModelRequest) (*dto.ModelResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	b, err := uc.brands.GetByID(ctx, in.BrandID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	m := &entity.Model{ID: uuid.New().String(), BrandID: b.ID, Name: strings.TrimSpace(in.Name), CreatedAt: time.Now().UTC()}
	if err := uc.models.Create(ctx, m); err != nil {
		return nil, err
	}
	return toModelResponse(m), nil
}

// ListModels lista los modelos de una marca.
func (uc *BrandUseCase) ListModels(ctx context.Context, brandID string) ([]dto.ModelResponse, error) {
	list, err := uc.models.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModelResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toModelResponse(m))
	}
	return out, nil
}

// DeleteModel elimina un modelo y sus productos (cascada).
func (uc *BrandUseCase) DeleteModel(ctx context.Context, id string) error {
	return uc.models.Delete(ctx, id)
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}
}

func toModelResponse(m *entity.Model) *dto.ModelResponse {
	return &dto.ModelResponse{ID: m.ID, BrandID: m.BrandID, Name: m.Name, CreatedAt: m.CreatedAt}
}
