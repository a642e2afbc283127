// Package memory implementa los puertos de repositorio en memoria (tests de casos de uso).
// Las transacciones se serializan y el Rollback restaura una copia del estado.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
)

type stockKey struct{ shopID, productID string }

type state struct {
	brands    map[string]*entity.Brand
	models    map[string]*entity.Model
	products  map[string]*entity.Product
	shops     map[string]*entity.Shop
	stock     map[stockKey]*entity.StockEntry
	alerts    []*entity.StockAlert
	deletions map[string]*entity.DeletionRequest
	archive   []*entity.ArchiveEntry
	users     map[string]*entity.User
}

func newState() state {
	return state{
		brands:    map[string]*entity.Brand{},
		models:    map[string]*entity.Model{},
		products:  map[string]*entity.Product{},
		shops:     map[string]*entity.Shop{},
		stock:     map[stockKey]*entity.StockEntry{},
		deletions: map[string]*entity.DeletionRequest{},
		users:     map[string]*entity.User{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.brands {
		b := *v
		c.brands[k] = &b
	}
	for k, v := range s.models {
		m := *v
		c.models[k] = &m
	}
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.shops {
		c.shops[k] = cloneShop(v)
	}
	for k, v := range s.stock {
		e := *v
		c.stock[k] = &e
	}
	for _, v := range s.alerts {
		a := *v
		c.alerts = append(c.alerts, &a)
	}
	for k, v := range s.deletions {
		c.deletions[k] = cloneRequest(v)
	}
	for _, v := range s.archive {
		e := *v
		e.Snapshot = slices.Clone(v.Snapshot)
		c.archive = append(c.archive, &e)
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	return c
}

func cloneShop(s *entity.Shop) *entity.Shop {
	c := *s
	c.ManagerIDs = slices.Clone(s.ManagerIDs)
	if s.Location != nil {
		loc := *s.Location
		c.Location = &loc
	}
	return &c
}

func cloneRequest(r *entity.DeletionRequest) *entity.DeletionRequest {
	c := *r
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		c.DecidedAt = &t
	}
	return &c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   state

	// ArchiveErr si no es nil, ArchiveRepository.Create devuelve este error (tests de Rollback).
	ArchiveErr error
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve los repositorios sobre el Store (fuera de transacción).
func (s *Store) Repos() repository.TxRepos {
	return repository.TxRepos{
		Brands:    &BrandRepo{s: s},
		Models:    &ModelRepo{s: s},
		Products:  &ProductRepo{s: s},
		Shops:     &ShopRepo{s: s},
		Stock:     &StockRepo{s: s},
		Alerts:    &StockAlertRepo{s: s},
		Deletions: &DeletionRequestRepo{s: s},
		Archive:   &ArchiveRepo{s: s},
		Users:     &UserRepo{s: s},
	}
}

// TxRunner implementa ports.TxRunner sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el TxRunner en memoria.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run serializa las transacciones (equivalente a los bloqueos de fila) y restaura
// el estado anterior si fn devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snapshot := r.s.st.clone()
	r.s.mu.Unlock()

	if err := fn(r.s.Repos()); err != nil {
		r.s.mu.Lock()
		r.s.st = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// deleteProductLocked elimina el producto y sus StockEntry. Requiere s.mu tomado.
func (s *Store) deleteProductLocked(id string) {
	delete(s.st.products, id)
	for k := range s.st.stock {
		if k.productID == id {
			delete(s.st.stock, k)
		}
	}
}
