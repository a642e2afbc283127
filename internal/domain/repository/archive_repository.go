package repository

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// ArchiveRepository registro de archivo append-only: no expone Update ni Delete.
type ArchiveRepository interface {
	Create(ctx context.Context, entry *entity.ArchiveEntry) error
	GetByID(ctx context.Context, id string) (*entity.ArchiveEntry, error)
	ListByKind(ctx context.Context, kind entity.ArchiveKind, limit, offset int) ([]*entity.ArchiveEntry, error)
	ListByOriginalID(ctx context.Context, kind entity.ArchiveKind, originalID string) ([]*entity.ArchiveEntry, error)
}
