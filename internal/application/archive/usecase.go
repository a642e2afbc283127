package archive

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

// UseCase lectura del archivo (no hay escritura directa desde la API).
type UseCase struct {
	repo repository.ArchiveRepository
}

// NewUseCase construye el caso de uso de lectura del archivo.
func NewUseCase(repo repository.ArchiveRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve entradas de un tipo, más recientes primero.
func (uc *UseCase) List(ctx context.Context, kind string, limit, offset int) ([]dto.ArchiveEntryResponse, error) {
	k := entity.ArchiveKind(kind)
	if !k.Valid() {
		return nil, domain.Invalid("kind", "debe ser PRODUCT, SHOP, USER o SALE")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByKind(ctx, k, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ArchiveEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToResponse(e))
	}
	return out, nil
}

// Get devuelve una entrada por id.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ArchiveEntryResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToResponse(e)
	return &resp, nil
}

// History devuelve todas las entradas de un id original (ej. las ventas de un producto ya eliminado).
func (uc *UseCase) History(ctx context.Context, kind, originalID string) ([]dto.ArchiveEntryResponse, error) {
	k := entity.ArchiveKind(kind)
	if !k.Valid() {
		return nil, domain.Invalid("kind", "debe ser PRODUCT, SHOP, USER o SALE")
	}
	list, err := uc.repo.ListByOriginalID(ctx, k, originalID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ArchiveEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToResponse(e))
	}
	return out, nil
}

// ToResponse mapea una entrada a su DTO.
func ToResponse(e *entity.ArchiveEntry) dto.ArchiveEntryResponse {
	return dto.ArchiveEntryResponse{
		ID:         e.ID,
		Kind:       string(e.Kind),
		OriginalID: e.OriginalID,
		Snapshot:   e.Snapshot,
		ActorID:    e.ActorID,
		Reason:     e.Reason,
		ArchivedAt: e.ArchivedAt,
	}
}

// ToArchivedProductResponse mapea el resultado de RetireProduct.
func ToArchivedProductResponse(r *RetiredProduct) *dto.ArchivedProductResponse {
	if r == nil {
		return nil
	}
	s := r.Snapshot
	return &dto.ArchivedProductResponse{
		ArchiveID:  r.Entry.ID,
		OriginalID: s.OriginalID,
		Name:       s.Name,
		Brand:      s.Brand,
		Model:      s.Model,
		Price:      s.Price,
		Color:      s.Color,
		Capacity:   s.Capacity,
		ArchivedBy: s.ArchivedBy,
		Reason:     s.Reason,
		ArchivedAt: s.ArchivedAt,
	}
}
