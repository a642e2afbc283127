package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/memory"
	"github.com/jhoicas/eboutique-api/pkg/geo"
)

var paris = geo.Point{Lat: 48.8566, Lon: 2.3522}

func pt(lat, lon float64) *geo.Point { return &geo.Point{Lat: lat, Lon: lon} }

func newService(store *memory.Store, opts Options, cache *mapCache, geocoder *fakeGeocoder) *Service {
	repos := store.Repos()
	svc := NewService(repos.Shops, repos.Stock, nil, nil, opts, nil)
	if cache != nil {
		svc.cache = cache
	}
	if geocoder != nil {
		svc.geocoder = geocoder
	}
	return svc
}

type mapCache struct {
	data map[string][]dto.NearbyResultDTO
	gets int
}

func (c *mapCache) Get(_ context.Context, key string) ([]dto.NearbyResultDTO, bool, error) {
	c.gets++
	r, ok := c.data[key]
	return r, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, results []dto.NearbyResultDTO) error {
	c.data[key] = results
	return nil
}

type fakeGeocoder struct {
	point geo.Point
	err   error
}

func (g *fakeGeocoder) Geocode(context.Context, string) (geo.Point, error) {
	return g.point, g.err
}

func TestFindNearby_EscenarioUnaBoutiqueDistanciaCero(t *testing.T) {
	store := memory.NewStore()
	shop := store.SeedShop("Boutique Paris", pt(paris.Lat, paris.Lon), "r-1")
	prod := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	store.SeedStock(shop.ID, prod.ID, 10, 5)

	res, err := newService(store, DefaultOptions(), nil, nil).FindNearbyWithStock(context.Background(),
		Query{Lat: paris.Lat, Lon: paris.Lon, RadiusMeters: 10000, MaxResults: 5})
	require.NoError(t, err)

	require.Len(t, res, 1)
	assert.Equal(t, "Galaxy S21", res[0].ProductName)
	assert.Equal(t, 10, res[0].Quantity)
	assert.InDelta(t, 0, res[0].DistanceMeters, 0.01)
	assert.Equal(t, "Samsung", res[0].Brand)
}

func TestFindNearby_IgnoraBoutiquesSinStock(t *testing.T) {
	store := memory.NewStore()
	prod := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	shop1 := store.SeedShop("Cerca", pt(48.8570, 2.3525), "")
	shop2 := store.SeedShop("Menos cerca", pt(48.8600, 2.3600), "")
	store.SeedStock(shop1.ID, prod.ID, 0, 5)
	store.SeedStock(shop2.ID, prod.ID, 3, 5)

	res, err := newService(store, DefaultOptions(), nil, nil).FindNearbyWithStock(context.Background(),
		Query{Lat: paris.Lat, Lon: paris.Lon, RadiusMeters: 10000})
	require.NoError(t, err)

	require.Len(t, res, 1)
	assert.Equal(t, shop2.ID, res[0].ShopID)
	assert.Equal(t, 3, res[0].Quantity)
}

func TestFindNearby_SinBoutiquesVsSinStock(t *testing.T) {
	store := memory.NewStore()
	prod := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	lyon := store.SeedShop("Lyon", pt(45.7640, 4.8357), "")
	store.SeedStock(lyon.ID, prod.ID, 4, 5)
	svc := newService(store, DefaultOptions(), nil, nil)

	_, err := svc.FindNearbyWithStock(context.Background(), Query{Lat: paris.Lat, Lon: paris.Lon, RadiusMeters: 10000})
	assert.ErrorIs(t, err, domain.ErrNoShopsInRadius)

	near := store.SeedShop("Paris", pt(paris.Lat, paris.Lon), "")
	store.SeedStock(near.ID, prod.ID, 0, 5)
	_, err = svc.FindNearbyWithStock(context.Background(), Query{Lat: paris.Lat, Lon: paris.Lon, RadiusMeters: 10000})
	assert.ErrorIs(t, err, domain.ErrNoStockInRadius)
	assert.False(t, errors.Is(err, domain.ErrNoShopsInRadius))
}

func TestFindNearby_OrdenPorDistanciaYMaximo(t *testing.T) {
	store := memory.NewStore()
	prod := store.SeedProduct("Apple", "13", "iPhone 13", 900)
	var ids []string
	for i := 0; i < 7; i++ {
		shop := store.SeedShop("B", pt(paris.Lat+float64(i)*0.005, paris.Lon), "")
		store.SeedStock(shop.ID, prod.ID, 1, 5)
		ids = append(ids, shop.ID)
	}

	res, err := newService(store, DefaultOptions(), nil, nil).FindNearbyWithStock(context.Background(),
		Query{Lat: paris.Lat, Lon: paris.Lon})
	require.NoError(t, err)

	require.Len(t, res, 5)
	for i, r := range res {
		assert.Equal(t, ids[i], r.ShopID)
		if i > 0 {
			assert.GreaterOrEqual(t, r.DistanceMeters, res[i-1].DistanceMeters)
		}
	}
}

func TestFindNearby_UnaFilaPorBoutiqueSalvoOpcion(t *testing.T) {
	store := memory.NewStore()
	shop := store.SeedShop("Paris", pt(paris.Lat, paris.Lon), "")
	for _, name := range []string{"Galaxy S21", "Galaxy S22", "iPhone 13"} {
		p := store.SeedProduct("X", name, name, 100)
		store.SeedStock(shop.ID, p.ID, 2, 5)
	}
	q := Query{Lat: paris.Lat, Lon: paris.Lon, Product: "GALAXY"}

	res, err := newService(store, DefaultOptions(), nil, nil).FindNearbyWithStock(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Galaxy S21", res[0].ProductName)

	opts := DefaultOptions()
	opts.AllMatchesPerShop = true
	res, err = newService(store, opts, nil, nil).FindNearbyWithStock(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Galaxy S22", res[1].ProductName)
}

func TestFindNearby_FiltroSinAcentos(t *testing.T) {
	store := memory.NewStore()
	shop := store.SeedShop("Paris", pt(paris.Lat, paris.Lon), "")
	p := store.SeedProduct("X", "T", "Téléphone Éco", 100)
	store.SeedStock(shop.ID, p.ID, 2, 5)

	res, err := newService(store, DefaultOptions(), nil, nil).FindNearbyWithStock(context.Background(),
		Query{Lat: paris.Lat, Lon: paris.Lon, Product: "telephone eco"})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestFindNearby_CoordenadasInvalidas(t *testing.T) {
	svc := newService(memory.NewStore(), DefaultOptions(), nil, nil)

	_, err := svc.FindNearbyWithStock(context.Background(), Query{Lat: 91, Lon: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.FindNearbyWithStock(context.Background(), Query{Lat: 0, Lon: 0, RadiusMeters: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.FindNearbyWithStock(context.Background(), Query{Lat: 0, Lon: 0, MaxResults: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFindNearby_UsaCache(t *testing.T) {
	store := memory.NewStore()
	shop := store.SeedShop("Paris", pt(paris.Lat, paris.Lon), "")
	p := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	store.SeedStock(shop.ID, p.ID, 10, 5)
	cache := &mapCache{data: map[string][]dto.NearbyResultDTO{}}
	svc := newService(store, DefaultOptions(), cache, nil)
	q := Query{Lat: paris.Lat, Lon: paris.Lon}

	first, err := svc.FindNearbyWithStock(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	// un cambio de stock no se ve mientras la entrada siga en cache
	store.SeedStock(shop.ID, p.ID, 1, 5)
	second, err := svc.FindNearbyWithStock(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.gets)
}

func TestFindNearbyByAddress(t *testing.T) {
	store := memory.NewStore()
	shop := store.SeedShop("Paris", pt(paris.Lat, paris.Lon), "")
	p := store.SeedProduct("Samsung", "S21", "Galaxy S21", 800)
	store.SeedStock(shop.ID, p.ID, 10, 5)

	svc := newService(store, DefaultOptions(), nil, &fakeGeocoder{point: paris})
	res, center, err := svc.FindNearbyByAddress(context.Background(), "Hôtel de Ville, Paris", Query{})
	require.NoError(t, err)
	assert.Equal(t, paris, center)
	assert.Len(t, res, 1)

	svc = newService(store, DefaultOptions(), nil, &fakeGeocoder{err: domain.ErrAddressNotFound})
	_, _, err = svc.FindNearbyByAddress(context.Background(), "zzz", Query{})
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)

	_, _, err = svc.FindNearbyByAddress(context.Background(), "  ", Query{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
