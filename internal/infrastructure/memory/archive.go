package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// ArchiveRepo implementa repository.ArchiveRepository (append-only).
type ArchiveRepo struct{ s *Store }

func (r *ArchiveRepo) Create(_ context.Context, e *entity.ArchiveEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ArchiveErr != nil {
		return r.s.ArchiveErr
	}
	c := *e
	c.Snapshot = slices.Clone(e.Snapshot)
	r.s.st.archive = append(r.s.st.archive, &c)
	return nil
}

func (r *ArchiveRepo) GetByID(_ context.Context, id string) (*entity.ArchiveEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.st.archive {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ArchiveRepo) filter(match func(*entity.ArchiveEntry) bool) []*entity.ArchiveEntry {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ArchiveEntry
	for i := len(r.s.st.archive) - 1; i >= 0; i-- {
		if e := r.s.st.archive[i]; match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

func (r *ArchiveRepo) ListByKind(_ context.Context, kind entity.ArchiveKind, limit, offset int) ([]*entity.ArchiveEntry, error) {
	return page(r.filter(func(e *entity.ArchiveEntry) bool { return e.Kind == kind }), limit, offset), nil
}

func (r *ArchiveRepo) ListByOriginalID(_ context.Context, kind entity.ArchiveKind, originalID string) ([]*entity.ArchiveEntry, error) {
	return r.filter(func(e *entity.ArchiveEntry) bool { return e.Kind == kind && e.OriginalID == originalID }), nil
}
