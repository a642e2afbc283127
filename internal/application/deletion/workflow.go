// Package deletion implementa el flujo de solicitudes de eliminación de productos:
// PENDING -> APPROVED | CANCELLED (estados terminales).
package deletion

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/logger"
)

// ReasonApproved motivo de archivo cuando la solicitud no trae uno propio.
const ReasonApproved = "solicitud de eliminación aprobada"

// Workflow casos de uso del flujo de eliminación.
type Workflow struct {
	txRunner ports.TxRunner
	reqRepo  repository.DeletionRequestRepository
	log      *logger.Logger
}

// NewWorkflow construye el flujo.
func NewWorkflow(txRunner ports.TxRunner, reqRepo repository.DeletionRequestRepository, log *logger.Logger) *Workflow {
	if log == nil {
		log = logger.Nop()
	}
	return &Workflow{txRunner: txRunner, reqRepo: reqRepo, log: log.Component("deletion")}
}

// Propose crea una solicitud por cada responsable distinto de las boutiques que tienen el producto.
// Todas comparten ProposalID. La fila del producto se bloquea antes de buscar pendientes, así dos
// propuestas concurrentes se serializan y la segunda recibe ErrAlreadyPending.
func (w *Workflow) Propose(ctx context.Context, productID, requesterID, reason string) ([]*entity.DeletionRequest, error) {
	if productID == "" || requesterID == "" {
		return nil, domain.ErrInvalidInput
	}
	var created []*entity.DeletionRequest
	err := w.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		exists, err := repos.Products.LockByID(ctx, productID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		pending, err := repos.Deletions.HasPending(ctx, productID)
		if err != nil {
			return err
		}
		if pending {
			return domain.ErrAlreadyPending
		}
		shops, err := repos.Shops.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if len(shops) == 0 {
			return domain.ErrNoShopAssociation
		}

		seen := make(map[string]bool)
		var responsibles []string
		for _, s := range shops {
			if s.ResponsibleID != "" && !seen[s.ResponsibleID] {
				seen[s.ResponsibleID] = true
				responsibles = append(responsibles, s.ResponsibleID)
			}
		}
		if len(responsibles) == 0 {
			return domain.ErrNoResponsibleParty
		}

		now := time.Now().UTC()
		proposalID := uuid.New().String()
		for _, respID := range responsibles {
			req := &entity.DeletionRequest{
				ID:            uuid.New().String(),
				ProposalID:    proposalID,
				ProductID:     productID,
				RequesterID:   requesterID,
				ResponsibleID: respID,
				Status:        entity.DeletionStatusPending,
				Reason:        reason,
				RequestedAt:   now,
			}
			if err := repos.Deletions.Create(ctx, req); err != nil {
				return err
			}
			created = append(created, req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().Str("product_id", productID).Str("requester_id", requesterID).
		Str("proposal_id", created[0].ProposalID).Int("requests", len(created)).Msg("eliminación propuesta")
	return created, nil
}

// Approve archiva el producto (marca y modelo como texto), marca la solicitud APPROVED,
// cancela las demás solicitudes pendientes del producto y lo elimina.
// Solo puede decidir el responsable de alguna boutique que tenga el producto.
func (w *Workflow) Approve(ctx context.Context, requestID, deciderID, comment string) (*entity.DeletionRequest, *archive.RetiredProduct, error) {
	var (
		req     *entity.DeletionRequest
		retired *archive.RetiredProduct
	)
	err := w.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		req, err = lockDecidable(ctx, repos, requestID, deciderID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		req.Status = entity.DeletionStatusApproved
		req.DecidedAt = &now
		req.DeciderID = deciderID
		req.DecisionComment = comment
		if err := repos.Deletions.Decide(ctx, req); err != nil {
			return err
		}
		reason := req.Reason
		if reason == "" {
			reason = ReasonApproved
		}
		retired, err = archive.RetireProduct(ctx, repos, req.ProductID, deciderID, reason)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	w.log.Info().Str("request_id", requestID).Str("product_id", req.ProductID).Str("decider_id", deciderID).
		Str("archive_id", retired.Entry.ID).Msg("eliminación aprobada")
	return req, retired, nil
}

// Cancel marca la solicitud CANCELLED sin archivar. Misma regla de autorización que Approve.
func (w *Workflow) Cancel(ctx context.Context, requestID, deciderID, comment string) (*entity.DeletionRequest, error) {
	var req *entity.DeletionRequest
	err := w.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		req, err = lockDecidable(ctx, repos, requestID, deciderID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		req.Status = entity.DeletionStatusCancelled
		req.DecidedAt = &now
		req.DeciderID = deciderID
		req.DecisionComment = comment
		return repos.Deletions.Decide(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().Str("request_id", requestID).Str("product_id", req.ProductID).Str("decider_id", deciderID).
		Msg("eliminación cancelada")
	return req, nil
}

// lockDecidable bloquea la solicitud, exige PENDING y que el decisor sea responsable
// de una boutique que tenga el producto.
func lockDecidable(ctx context.Context, repos repository.TxRepos, requestID, deciderID string) (*entity.DeletionRequest, error) {
	if requestID == "" {
		return nil, domain.ErrInvalidInput
	}
	req, err := repos.Deletions.GetForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if !req.IsPending() {
		return nil, domain.ErrNotPending
	}
	if deciderID == "" {
		return nil, domain.ErrNotAuthorized
	}
	shops, err := repos.Shops.ListByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	for _, s := range shops {
		if s.ResponsibleID == deciderID {
			return req, nil
		}
	}
	return nil, domain.ErrNotAuthorized
}

// Get devuelve una solicitud por id.
func (w *Workflow) Get(ctx context.Context, id string) (*entity.DeletionRequest, error) {
	req, err := w.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// ListPending devuelve las solicitudes pendientes asignadas a un responsable.
func (w *Workflow) ListPending(ctx context.Context, responsibleID string) ([]*entity.DeletionRequest, error) {
	return w.reqRepo.ListPendingByResponsible(ctx, responsibleID)
}
