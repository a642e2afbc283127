package repository

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// DeletionRequestRepository define el puerto de persistencia para solicitudes de eliminación.
type DeletionRequestRepository interface {
	// Create inserta la solicitud. Devuelve domain.ErrAlreadyPending si viola el índice de pendientes.
	Create(ctx context.Context, req *entity.DeletionRequest) error
	GetByID(ctx context.Context, id string) (*entity.DeletionRequest, error)
	// GetForUpdate bloquea la fila de la solicitud (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.DeletionRequest, error)
	HasPending(ctx context.Context, productID string) (bool, error)
	ListPendingByProduct(ctx context.Context, productID string) ([]*entity.DeletionRequest, error)
	ListPendingByResponsible(ctx context.Context, responsibleID string) ([]*entity.DeletionRequest, error)
	// Decide persiste status, decided_at, decider_id y decision_comment.
	Decide(ctx context.Context, req *entity.DeletionRequest) error
}
