package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

var _ repository.DeletionRequestRepository = (*DeletionRequestRepo)(nil)

// pendingIndex índice parcial único (product_id, responsible_id) WHERE status = 'PENDING'.
const pendingIndex = "uq_deletion_pending"

// DeletionRequestRepo implementación de DeletionRequestRepository sobre PostgreSQL.
type DeletionRequestRepo struct {
	q Querier
}

// NewDeletionRequestRepository construye el adaptador de solicitudes de eliminación.
func NewDeletionRequestRepository(q Querier) *DeletionRequestRepo {
	return &DeletionRequestRepo{q: q}
}

const deletionColumns = `id, proposal_id, product_id, requester_id, responsible_id, status, reason,
	requested_at, decided_at, COALESCE(decider_id, ''), decision_comment`

func scanDeletion(row pgx.Row) (*entity.DeletionRequest, error) {
	var d entity.DeletionRequest
	err := row.Scan(&d.ID, &d.ProposalID, &d.ProductID, &d.RequesterID, &d.ResponsibleID, &d.Status, &d.Reason,
		&d.RequestedAt, &d.DecidedAt, &d.DeciderID, &d.DecisionComment)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta la solicitud. Otra PENDING para el mismo (producto, responsable) -> ErrAlreadyPending.
func (r *DeletionRequestRepo) Create(ctx context.Context, d *entity.DeletionRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO deletion_requests (id, proposal_id, product_id, requester_id, responsible_id, status, reason, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.ProposalID, d.ProductID, d.RequesterID, d.ResponsibleID, d.Status, d.Reason, d.RequestedAt)
	if err != nil {
		if constraintOf(err) == pendingIndex {
			return domain.ErrAlreadyPending
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert deletion request: %w", err)
	}
	return nil
}

func (r *DeletionRequestRepo) get(ctx context.Context, id, suffix string) (*entity.DeletionRequest, error) {
	d, err := scanDeletion(r.q.QueryRow(ctx, `SELECT `+deletionColumns+` FROM deletion_requests WHERE id = $1`+suffix, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deletion request: %w", err)
	}
	return d, nil
}

func (r *DeletionRequestRepo) GetByID(ctx context.Context, id string) (*entity.DeletionRequest, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *DeletionRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.DeletionRequest, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *DeletionRequestRepo) HasPending(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM deletion_requests WHERE product_id = $1 AND status = 'PENDING')`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has pending deletion: %w", err)
	}
	return exists, nil
}

func (r *DeletionRequestRepo) list(ctx context.Context, where string, arg string) ([]*entity.DeletionRequest, error) {
	rows, err := r.q.Query(ctx, `SELECT `+deletionColumns+` FROM deletion_requests WHERE `+where+` ORDER BY requested_at, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("list deletion requests: %w", err)
	}
	defer rows.Close()
	var out []*entity.DeletionRequest
	for rows.Next() {
		d, err := scanDeletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DeletionRequestRepo) ListPendingByProduct(ctx context.Context, productID string) ([]*entity.DeletionRequest, error) {
	return r.list(ctx, `product_id = $1 AND status = 'PENDING'`, productID)
}

func (r *DeletionRequestRepo) ListPendingByResponsible(ctx context.Context, responsibleID string) ([]*entity.DeletionRequest, error) {
	return r.list(ctx, `responsible_id = $1 AND status = 'PENDING'`, responsibleID)
}

// Decide solo actualiza filas PENDING: una ya decidida devuelve ErrNotPending.
func (r *DeletionRequestRepo) Decide(ctx context.Context, d *entity.DeletionRequest) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE deletion_requests
		SET status = $2, decided_at = $3, decider_id = $4, decision_comment = $5
		WHERE id = $1 AND status = 'PENDING'`,
		d.ID, d.Status, d.DecidedAt, nullIfEmpty(d.DeciderID), d.DecisionComment)
	if err != nil {
		return fmt.Errorf("decide deletion request: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	cur, err := r.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	return domain.ErrNotPending
}
