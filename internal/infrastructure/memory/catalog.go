package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
)

// BrandRepo implementa repository.BrandRepository.
type BrandRepo struct{ s *Store }

func (r *BrandRepo) Create(_ context.Context, b *entity.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.brands {
		if strings.EqualFold(other.Name, b.Name) {
			return domain.ErrDuplicate
		}
	}
	c := *b
	r.s.st.brands[b.ID] = &c
	return nil
}

func (r *BrandRepo) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.brands[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *BrandRepo) List(_ context.Context, limit, offset int) ([]*entity.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Brand, 0, len(r.s.st.brands))
	for _, b := range r.s.st.brands {
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *BrandRepo) Update(_ context.Context, b *entity.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.brands[b.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.st.brands {
		if id != b.ID && strings.EqualFold(other.Name, b.Name) {
			return domain.ErrDuplicate
		}
	}
	c := *b
	r.s.st.brands[b.ID] = &c
	return nil
}

func (r *BrandRepo) HasModels(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.st.models {
		if m.BrandID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *BrandRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.brands[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.brands, id)
	for mid, m := range r.s.st.models {
		if m.BrandID == id {
			r.s.deleteModelLocked(mid)
		}
	}
	return nil
}

func (s *Store) deleteModelLocked(id string) {
	delete(s.st.models, id)
	for pid, p := range s.st.products {
		if p.ModelID == id {
			s.deleteProductLocked(pid)
		}
	}
}

// ModelRepo implementa repository.ModelRepository.
type ModelRepo struct{ s *Store }

func (r *ModelRepo) Create(_ context.Context, m *entity.Model) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.brands[m.BrandID]; !ok {
		return domain.ErrNotFound
	}
	c := *m
	r.s.st.models[m.ID] = &c
	return nil
}

func (r *ModelRepo) GetByID(_ context.Context, id string) (*entity.Model, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.st.models[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *ModelRepo) ListByBrand(_ context.Context, brandID string) ([]*entity.Model, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Model
	for _, m := range r.s.st.models {
		if m.BrandID == brandID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ModelRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.models[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteModelLocked(id)
	return nil
}

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.models[p.ModelID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.s.st.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProductRepo) GetDetails(_ context.Context, id string) (*entity.ProductDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return r.s.detailsLocked(p), nil
}

func (s *Store) detailsLocked(p *entity.Product) *entity.ProductDetails {
	d := &entity.ProductDetails{Product: *p}
	if m, ok := s.st.models[p.ModelID]; ok {
		d.ModelName = m.Name
		d.BrandID = m.BrandID
		if b, ok := s.st.brands[m.BrandID]; ok {
			d.BrandName = b.Name
		}
	}
	return d
}

func (r *ProductRepo) LockByID(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.st.products[id]
	return ok, nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.ProductDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.ProductDetails, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		out = append(out, r.s.detailsLocked(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.s.st.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) SetApproved(_ context.Context, id string, approved bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Approved = approved
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteProductLocked(id)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
