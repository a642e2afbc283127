package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/pkg/geo"
)

// SeedProduct crea marca, modelo y producto en un solo paso.
func (s *Store) SeedProduct(brand, model, name string, price int64) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var b *entity.Brand
	for _, existing := range s.st.brands {
		if existing.Name == brand {
			b = existing
		}
	}
	if b == nil {
		b = &entity.Brand{ID: uuid.New().String(), Name: brand, CreatedAt: now}
		s.st.brands[b.ID] = b
	}
	m := &entity.Model{ID: uuid.New().String(), BrandID: b.ID, Name: model, CreatedAt: now}
	s.st.models[m.ID] = m
	p := &entity.Product{
		ID:        uuid.New().String(),
		ModelID:   m.ID,
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Color:     "negro",
		Capacity:  decimal.NewFromInt(128),
		RAM:       8,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.st.products[p.ID] = p
	c := *p
	return &c
}

// SeedShop crea una boutique. loc nil = sin ubicación.
func (s *Store) SeedShop(name string, loc *geo.Point, responsibleID string, managerIDs ...string) *entity.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	shop := &entity.Shop{
		ID:            uuid.New().String(),
		Name:          name,
		Address:       "1 rue de Rivoli",
		City:          "Paris",
		PostalCode:    "75001",
		Location:      loc,
		ResponsibleID: responsibleID,
		ManagerIDs:    managerIDs,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.st.shops[shop.ID] = cloneShop(shop)
	return shop
}

// SeedStock crea la fila de stock del par.
func (s *Store) SeedStock(shopID, productID string, qty, threshold int) *entity.StockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	e := &entity.StockEntry{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		ProductID:      productID,
		Quantity:       qty,
		AlertThreshold: threshold,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	c := *e
	s.st.stock[stockKey{shopID, productID}] = &c
	return e
}

// SeedUser crea un usuario con el rol dado (sin contraseña utilizable).
func (s *Store) SeedUser(email, role string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	u := &entity.User{ID: uuid.New().String(), Email: email, Name: email, Role: role, Status: "active", CreatedAt: now, UpdatedAt: now}
	c := *u
	s.st.users[u.ID] = &c
	return u
}

// ArchiveEntries devuelve las entradas del archivo de un tipo, en orden de inserción.
func (s *Store) ArchiveEntries(kind entity.ArchiveKind) []*entity.ArchiveEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.ArchiveEntry
	for _, e := range s.st.archive {
		if e.Kind == kind {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}
