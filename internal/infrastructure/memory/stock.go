package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

// StockRepo implementa repository.StockRepository.
type StockRepo struct{ s *Store }

func (r *StockRepo) Create(_ context.Context, e *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := stockKey{e.ShopID, e.ProductID}
	if _, ok := r.s.st.stock[k]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.st.shops[e.ShopID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.st.products[e.ProductID]; !ok {
		return domain.ErrNotFound
	}
	c := *e
	r.s.st.stock[k] = &c
	return nil
}

func (r *StockRepo) Get(_ context.Context, shopID, productID string) (*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.st.stock[stockKey{shopID, productID}]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

// GetForUpdate en memoria equivale a Get: las transacciones ya están serializadas.
func (r *StockRepo) GetForUpdate(ctx context.Context, shopID, productID string) (*entity.StockEntry, error) {
	return r.Get(ctx, shopID, productID)
}

func (r *StockRepo) UpdateQuantity(_ context.Context, e *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.stock[stockKey{e.ShopID, e.ProductID}]
	if !ok {
		return domain.ErrNotFound
	}
	if e.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	cur.Quantity = e.Quantity
	cur.UpdatedAt = e.UpdatedAt
	return nil
}

func (r *StockRepo) Upsert(_ context.Context, e *entity.StockEntry) (*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.Quantity < 0 {
		return nil, domain.ErrInsufficientStock
	}
	k := stockKey{e.ShopID, e.ProductID}
	if cur, ok := r.s.st.stock[k]; ok {
		cur.Quantity = e.Quantity
		cur.UpdatedAt = e.UpdatedAt
		c := *cur
		return &c, nil
	}
	c := *e
	r.s.st.stock[k] = &c
	out := c
	return &out, nil
}

func (r *StockRepo) viewLocked(e *entity.StockEntry) *entity.StockEntryView {
	v := &entity.StockEntryView{StockEntry: *e}
	if shop, ok := r.s.st.shops[e.ShopID]; ok {
		v.ShopName = shop.Name
	}
	if p, ok := r.s.st.products[e.ProductID]; ok {
		v.ProductName = p.Name
	}
	return v
}

func (r *StockRepo) ListByShop(_ context.Context, shopID string) ([]*entity.StockEntryView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockEntryView
	for k, e := range r.s.st.stock {
		if k.shopID == shopID {
			out = append(out, r.viewLocked(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockEntry
	for k, e := range r.s.st.stock {
		if k.productID == productID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopID < out[j].ShopID })
	return out, nil
}

func (r *StockRepo) ListAvailableByShop(_ context.Context, shopID string) ([]repository.AvailableStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.AvailableStock
	for k, e := range r.s.st.stock {
		if k.shopID != shopID || e.Quantity <= 0 {
			continue
		}
		p, ok := r.s.st.products[k.productID]
		if !ok {
			continue
		}
		out = append(out, repository.AvailableStock{Entry: *e, Product: *r.s.detailsLocked(p)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product.Name != out[j].Product.Name {
			return out[i].Product.Name < out[j].Product.Name
		}
		return out[i].Product.ID < out[j].Product.ID
	})
	return out, nil
}

func (r *StockRepo) ListLowStock(_ context.Context, threshold int, after *entity.StockCursor, limit int) ([]*entity.StockEntryView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockEntryView
	for k, e := range r.s.st.stock {
		if e.Quantity >= threshold {
			continue
		}
		if after != nil && (k.shopID < after.ShopID || (k.shopID == after.ShopID && k.productID <= after.ProductID)) {
			continue
		}
		out = append(out, r.viewLocked(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ShopID != out[j].ShopID {
			return out[i].ShopID < out[j].ShopID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return page(out, limit, 0), nil
}

// StockAlertRepo implementa repository.StockAlertRepository.
type StockAlertRepo struct{ s *Store }

func (r *StockAlertRepo) Create(_ context.Context, a *entity.StockAlert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	r.s.st.alerts = append(r.s.st.alerts, &c)
	return nil
}

func (r *StockAlertRepo) List(_ context.Context, unreadOnly bool, limit, offset int) ([]*entity.StockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockAlert
	for i := len(r.s.st.alerts) - 1; i >= 0; i-- {
		a := r.s.st.alerts[i]
		if unreadOnly && a.Read {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return page(out, limit, offset), nil
}

func (r *StockAlertRepo) MarkRead(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.alerts {
		if a.ID == id {
			a.Read = true
			return true, nil
		}
	}
	return false, nil
}
