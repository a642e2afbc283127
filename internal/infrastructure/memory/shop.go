package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/pkg/geo"
)

// ShopRepo implementa repository.ShopRepository. La distancia se calcula con haversine.
type ShopRepo struct{ s *Store }

func (r *ShopRepo) emailTakenLocked(id, email string) bool {
	if email == "" {
		return false
	}
	for sid, other := range r.s.st.shops {
		if sid != id && strings.EqualFold(other.Email, email) {
			return true
		}
	}
	return false
}

func (r *ShopRepo) Create(_ context.Context, shop *entity.Shop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTakenLocked(shop.ID, shop.Email) {
		return domain.ErrDuplicate
	}
	r.s.st.shops[shop.ID] = cloneShop(shop)
	return nil
}

func (r *ShopRepo) GetByID(_ context.Context, id string) (*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	shop, ok := r.s.st.shops[id]
	if !ok {
		return nil, nil
	}
	return cloneShop(shop), nil
}

func (r *ShopRepo) List(_ context.Context, limit, offset int) ([]*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Shop, 0, len(r.s.st.shops))
	for _, shop := range r.s.st.shops {
		out = append(out, cloneShop(shop))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

func (r *ShopRepo) Update(_ context.Context, shop *entity.Shop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.shops[shop.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.emailTakenLocked(shop.ID, shop.Email) {
		return domain.ErrDuplicate
	}
	r.s.st.shops[shop.ID] = cloneShop(shop)
	return nil
}

func (r *ShopRepo) SetResponsible(_ context.Context, shopID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	shop, ok := r.s.st.shops[shopID]
	if !ok {
		return domain.ErrNotFound
	}
	shop.ResponsibleID = userID
	return nil
}

func (r *ShopRepo) SetManagers(_ context.Context, shopID string, userIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	shop, ok := r.s.st.shops[shopID]
	if !ok {
		return domain.ErrNotFound
	}
	shop.ManagerIDs = slices.Clone(userIDs)
	return nil
}

func (r *ShopRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.shops[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.shops, id)
	for k := range r.s.st.stock {
		if k.shopID == id {
			delete(r.s.st.stock, k)
		}
	}
	return nil
}

func (r *ShopRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Shop
	for k := range r.s.st.stock {
		if k.productID != productID {
			continue
		}
		if shop, ok := r.s.st.shops[k.shopID]; ok {
			out = append(out, cloneShop(shop))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ShopRepo) ListWithinRadius(_ context.Context, center geo.Point, radiusMeters float64) ([]entity.ShopDistance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ShopDistance
	for _, shop := range r.s.st.shops {
		if shop.Location == nil {
			continue
		}
		d := geo.DistanceMeters(center, *shop.Location)
		if d <= radiusMeters {
			out = append(out, entity.ShopDistance{Shop: cloneShop(shop), Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Shop.ID < out[j].Shop.ID
	})
	return out, nil
}
