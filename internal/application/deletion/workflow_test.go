package deletion

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/entity"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/memory"
)

func newWorkflow(store *memory.Store) *Workflow {
	return NewWorkflow(memory.NewTxRunner(store), store.Repos().Deletions, nil)
}

func TestPropose_SinStockNoHayAsociacion(t *testing.T) {
	store := memory.NewStore()
	prod := store.SeedProduct("Apple", "13", "iPhone 13", 900)

	_, err := newWorkflow(store).Propose(context.Background(), prod.ID, "m-1", "descatalogado")

	assert.ErrorIs(t, err, domain.ErrNoShopAssociation)
}

func TestPropose_SinResponsable(t *testing.T) {
	store := memory.NewStore()
	prod := store.SeedProduct("Apple", "13", "iPhone 13", 900)
	shop := store.SeedShop("Sin responsable", nil, "")
	store.SeedStock(shop.ID, prod.ID, 3, 5)

	_, err := newWorkflow(store).Propose(context.Background(), prod.ID, "m-1", "")

	assert.ErrorIs(t, err, domain.ErrNoResponsibleParty)
}

func TestPropose_ProductoInexistente(t *testing.T) {
	_, err := newWorkflow(memory.NewStore()).Propose(context.Background(), "no-existe", "m-1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPropose_UnaSolicitudPorResponsableDistinto(t *testing.T) {
	store := memory.NewStore()
	prod := store.SeedProduct("Apple", "13", "iPhone 13", 900)
	for _, resp := range []string{"r-1", "r-2", "r-1", ""} {
		shop := store.SeedShop("Boutique "+resp, nil, resp)
		store.SeedStock(shop.ID, prod.ID, 1, 5)
	}

	reqs, err := newWorkflow(store).Propose(context.Background(), prod.ID, "m-1", "fin de serie")
	require.NoError(t, err)

	require.Len(t, reqs, 2)
	assert.Equal(t, reqs[0].ProposalID, reqs[1].ProposalID)
	assert.ElementsMatch(t, []string{"r-1", "r-2"}, []string{reqs[0].ResponsibleID, reqs[1].ResponsibleID})
	for _, r := range reqs {
		assert.Equal(t, entity.DeletionStatusPending, r.Status)
		assert.Equal(t, "fin de serie", r.Reason)
	}

	_, err = newWorkflow(store).Propose(context.Background(), prod.ID, "m-2", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyPending)
}

func TestPropose_ConcurrenteSoloUnaPendiente(t *testing.T) {
	store := memory.NewStore()
	prod := store.SeedProduct("Apple", "13", "iPhone 13", 900)
	shop := store.SeedShop("Boutique", nil, "r-1")
	store.SeedStock(shop.ID, prod.ID, 1, 5)
	wf := newWorkflow(store)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, requester := range []string{"m-1", "m-2"} {
		wg.Add(1)
		go func(requester string) {
			defer wg.Done()
			_, err := wf.Propose(context.Background(), prod.ID, requester, "")
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(requester)
	}
	wg.Wait()

	var ok, pending int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if errors.Is(err, domain.ErrAlreadyPending) {
			pending++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, pending)

	rows := store.DeletionRequests(prod.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.DeletionStatusPending, rows[0].Status)
}

func TestApprove_ArchivaYEliminaProducto(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	prod := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	shopA := store.SeedShop("A", nil, "r-1")
	shopB := store.SeedShop("B", nil, "r-2")
	store.SeedStock(shopA.ID, prod.ID, 2, 5)
	store.SeedStock(shopB.ID, prod.ID, 0, 5)
	wf := newWorkflow(store)

	reqs, err := wf.Propose(ctx, prod.ID, "m-1", "defectuoso")
	require.NoError(t, err)
	var mine *entity.DeletionRequest
	for _, r := range reqs {
		if r.ResponsibleID == "r-1" {
			mine = r
		}
	}
	require.NotNil(t, mine)

	approved, retired, err := wf.Approve(ctx, mine.ID, "r-1", "ok")
	require.NoError(t, err)
	assert.Equal(t, entity.DeletionStatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)
	assert.Equal(t, "r-1", approved.DeciderID)

	p, err := store.Repos().Products.GetByID(ctx, prod.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
	stock, err := store.Repos().Stock.ListByProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Empty(t, stock)

	archived := store.ArchiveEntries(entity.ArchiveKindProduct)
	require.Len(t, archived, 1)
	assert.Equal(t, prod.ID, archived[0].OriginalID)
	assert.Equal(t, retired.Entry.ID, archived[0].ID)
	var snap entity.ArchivedProduct
	require.NoError(t, json.Unmarshal(archived[0].Snapshot, &snap))
	assert.Equal(t, "Samsung", snap.Brand)
	assert.Equal(t, "S21", snap.Model)
	assert.Equal(t, "defectuoso", snap.Reason)

	statuses := map[string]string{}
	for _, r := range store.DeletionRequests(prod.ID) {
		statuses[r.ResponsibleID] = r.Status
	}
	assert.Equal(t, entity.DeletionStatusApproved, statuses["r-1"])
	assert.Equal(t, entity.DeletionStatusCancelled, statuses["r-2"])

	_, _, err = wf.Approve(ctx, mine.ID, "r-1", "otra vez")
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestApprove_DecisorNoResponsable(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	prod := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	shop := store.SeedShop("A", nil, "r-1", "m-1")
	store.SeedStock(shop.ID, prod.ID, 2, 5)
	wf := newWorkflow(store)
	reqs, err := wf.Propose(ctx, prod.ID, "m-1", "")
	require.NoError(t, err)

	_, _, err = wf.Approve(ctx, reqs[0].ID, "m-1", "")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = wf.Cancel(ctx, reqs[0].ID, "intruso", "")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	p, err := store.Repos().Products.GetByID(ctx, prod.ID)
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Empty(t, store.ArchiveEntries(entity.ArchiveKindProduct))
}

func TestApprove_FalloDeArchivoHaceRollback(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	prod := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	shop := store.SeedShop("A", nil, "r-1")
	store.SeedStock(shop.ID, prod.ID, 2, 5)
	wf := newWorkflow(store)
	reqs, err := wf.Propose(ctx, prod.ID, "m-1", "")
	require.NoError(t, err)

	store.ArchiveErr = errors.New("fallo de escritura")
	_, _, err = wf.Approve(ctx, reqs[0].ID, "r-1", "")
	require.Error(t, err)

	got, err := wf.Get(ctx, reqs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DeletionStatusPending, got.Status)
	p, err := store.Repos().Products.GetByID(ctx, prod.ID)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestCancel_SoloEsaSolicitud(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	prod := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	shopA := store.SeedShop("A", nil, "r-1")
	shopB := store.SeedShop("B", nil, "r-2")
	store.SeedStock(shopA.ID, prod.ID, 2, 5)
	store.SeedStock(shopB.ID, prod.ID, 2, 5)
	wf := newWorkflow(store)
	_, err := wf.Propose(ctx, prod.ID, "m-1", "")
	require.NoError(t, err)

	pendingR1, err := wf.ListPending(ctx, "r-1")
	require.NoError(t, err)
	require.Len(t, pendingR1, 1)

	cancelled, err := wf.Cancel(ctx, pendingR1[0].ID, "r-1", "no procede")
	require.NoError(t, err)
	assert.Equal(t, entity.DeletionStatusCancelled, cancelled.Status)
	assert.Equal(t, "no procede", cancelled.DecisionComment)

	pendingR2, err := wf.ListPending(ctx, "r-2")
	require.NoError(t, err)
	assert.Len(t, pendingR2, 1)
	p, err := store.Repos().Products.GetByID(ctx, prod.ID)
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = wf.Cancel(ctx, pendingR1[0].ID, "r-1", "")
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestGet_NoExiste(t *testing.T) {
	_, err := newWorkflow(memory.NewStore()).Get(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
