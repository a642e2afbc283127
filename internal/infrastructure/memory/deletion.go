package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// DeletionRequestRepo implementa repository.DeletionRequestRepository.
// Create rechaza un segundo PENDING para el mismo (producto, responsable), igual que el índice parcial.
type DeletionRequestRepo struct{ s *Store }

func (r *DeletionRequestRepo) Create(_ context.Context, req *entity.DeletionRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.IsPending() {
		for _, other := range r.s.st.deletions {
			if other.IsPending() && other.ProductID == req.ProductID && other.ResponsibleID == req.ResponsibleID {
				return domain.ErrAlreadyPending
			}
		}
	}
	r.s.st.deletions[req.ID] = cloneRequest(req)
	return nil
}

func (r *DeletionRequestRepo) GetByID(_ context.Context, id string) (*entity.DeletionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.st.deletions[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

func (r *DeletionRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.DeletionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *DeletionRequestRepo) HasPending(_ context.Context, productID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.st.deletions {
		if req.ProductID == productID && req.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *DeletionRequestRepo) list(match func(*entity.DeletionRequest) bool) []*entity.DeletionRequest {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DeletionRequest
	for _, req := range r.s.st.deletions {
		if match(req) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.Before(out[j].RequestedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *DeletionRequestRepo) ListPendingByProduct(_ context.Context, productID string) ([]*entity.DeletionRequest, error) {
	return r.list(func(req *entity.DeletionRequest) bool {
		return req.IsPending() && req.ProductID == productID
	}), nil
}

func (r *DeletionRequestRepo) ListPendingByResponsible(_ context.Context, responsibleID string) ([]*entity.DeletionRequest, error) {
	return r.list(func(req *entity.DeletionRequest) bool {
		return req.IsPending() && req.ResponsibleID == responsibleID
	}), nil
}

// ListByProduct devuelve todas las solicitudes de un producto (cualquier estado). Solo tests.
func (r *DeletionRequestRepo) ListByProduct(productID string) []*entity.DeletionRequest {
	return r.list(func(req *entity.DeletionRequest) bool { return req.ProductID == productID })
}

func (r *DeletionRequestRepo) Decide(_ context.Context, req *entity.DeletionRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.deletions[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.IsPending() {
		return domain.ErrNotPending
	}
	r.s.st.deletions[req.ID] = cloneRequest(req)
	return nil
}

// DeletionRequests devuelve todas las solicitudes de un producto en cualquier estado.
func (s *Store) DeletionRequests(productID string) []*entity.DeletionRequest {
	return (&DeletionRequestRepo{s: s}).ListByProduct(productID)
}
