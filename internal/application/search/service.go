// Package search implementa la búsqueda por proximidad: boutiques dentro de un radio
// con stock disponible, ordenadas por distancia.
package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/internal/domain/repository"
	"github.com/jhoicas/eboutique-api/pkg/geo"
	"github.com/jhoicas/eboutique-api/pkg/logger"
	"github.com/jhoicas/eboutique-api/pkg/textutil"
)

const maxResultsCap = 100

// Options valores por defecto y comportamiento configurable de la búsqueda.
type Options struct {
	DefaultRadiusMeters float64
	DefaultMaxResults   int
	// AllMatchesPerShop devuelve todas las filas que coinciden en cada boutique.
	// false mantiene el comportamiento heredado: solo la primera por boutique.
	AllMatchesPerShop bool
}

// DefaultOptions 10 km, 5 resultados, una fila por boutique.
func DefaultOptions() Options {
	return Options{DefaultRadiusMeters: 10000, DefaultMaxResults: 5}
}

// Query parámetros de búsqueda. RadiusMeters y MaxResults en 0 toman los valores por defecto.
type Query struct {
	Lat          float64
	Lon          float64
	RadiusMeters float64
	MaxResults   int
	Product      string // subcadena del nombre, sin distinguir acentos ni mayúsculas
}

// Service búsqueda por proximidad (solo lectura).
type Service struct {
	shopRepo  repository.ShopRepository
	stockRepo repository.StockRepository
	cache     ports.NearbyCache
	geocoder  ports.Geocoder
	opts      Options
	log       *logger.Logger
}

// NewService construye el servicio. cache y geocoder pueden ser nil.
func NewService(
	shopRepo repository.ShopRepository,
	stockRepo repository.StockRepository,
	cache ports.NearbyCache,
	geocoder ports.Geocoder,
	opts Options,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if opts.DefaultRadiusMeters <= 0 {
		opts.DefaultRadiusMeters = DefaultOptions().DefaultRadiusMeters
	}
	if opts.DefaultMaxResults <= 0 {
		opts.DefaultMaxResults = DefaultOptions().DefaultMaxResults
	}
	return &Service{
		shopRepo:  shopRepo,
		stockRepo: stockRepo,
		cache:     cache,
		geocoder:  geocoder,
		opts:      opts,
		log:       log.Component("search"),
	}
}

// FindNearbyWithStock devuelve filas (boutique, producto, cantidad, distancia) por distancia ascendente.
// ErrNoShopsInRadius si no hay boutiques en el radio; ErrNoStockInRadius si las hay pero sin stock que coincida.
func (s *Service) FindNearbyWithStock(ctx context.Context, q Query) ([]dto.NearbyResultDTO, error) {
	center, err := s.normalize(&q)
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(q)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache de búsqueda no disponible")
		} else if ok {
			return cached, nil
		}
	}

	shops, err := s.shopRepo.ListWithinRadius(ctx, center, q.RadiusMeters)
	if err != nil {
		return nil, err
	}
	if len(shops) == 0 {
		return nil, domain.ErrNoShopsInRadius
	}

	results := make([]dto.NearbyResultDTO, 0, q.MaxResults)
	for _, sd := range shops {
		if len(results) >= q.MaxResults {
			break
		}
		rows, err := s.stockRepo.ListAvailableByShop(ctx, sd.Shop.ID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.Entry.Quantity <= 0 || !textutil.ContainsFold(row.Product.Name, q.Product) {
				continue
			}
			results = append(results, dto.NearbyResultDTO{
				ShopID:         sd.Shop.ID,
				ShopName:       sd.Shop.Name,
				City:           sd.Shop.City,
				Address:        sd.Shop.Address,
				ProductID:      row.Product.ID,
				ProductName:    row.Product.Name,
				Brand:          row.Product.BrandName,
				Model:          row.Product.ModelName,
				Price:          row.Product.Price,
				Quantity:       row.Entry.Quantity,
				DistanceMeters: sd.Distance,
				DistanceKm:     math.Round(sd.Distance/10) / 100,
			})
			if !s.opts.AllMatchesPerShop || len(results) >= q.MaxResults {
				break
			}
		}
	}
	if len(results) == 0 {
		return nil, domain.ErrNoStockInRadius
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, results); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la búsqueda en cache")
		}
	}
	return results, nil
}

// FindNearbyByAddress geocodifica la dirección y busca alrededor del punto obtenido.
func (s *Service) FindNearbyByAddress(ctx context.Context, address string, q Query) ([]dto.NearbyResultDTO, geo.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, geo.Point{}, domain.Invalid("address", "requerida")
	}
	if s.geocoder == nil {
		return nil, geo.Point{}, domain.ErrAddressNotFound
	}
	p, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, geo.Point{}, err
	}
	q.Lat, q.Lon = p.Lat, p.Lon
	res, err := s.FindNearbyWithStock(ctx, q)
	return res, p, err
}

func (s *Service) normalize(q *Query) (geo.Point, error) {
	center, err := geo.NewPoint(q.Lat, q.Lon)
	if err != nil {
		return geo.Point{}, domain.Invalid("lat/lon", err.Error())
	}
	if q.RadiusMeters < 0 || math.IsNaN(q.RadiusMeters) {
		return geo.Point{}, domain.Invalid("radius", "debe ser mayor que 0")
	}
	if q.RadiusMeters == 0 {
		q.RadiusMeters = s.opts.DefaultRadiusMeters
	}
	if q.MaxResults < 0 {
		return geo.Point{}, domain.Invalid("maxResults", "debe ser mayor que 0")
	}
	if q.MaxResults == 0 {
		q.MaxResults = s.opts.DefaultMaxResults
	}
	if q.MaxResults > maxResultsCap {
		q.MaxResults = maxResultsCap
	}
	q.Product = strings.TrimSpace(q.Product)
	return center, nil
}

func (s *Service) cacheKey(q Query) string {
	return fmt.Sprintf("nearby:%.5f:%.5f:%.0f:%d:%t:%s",
		q.Lat, q.Lon, q.RadiusMeters, q.MaxResults, s.opts.AllMatchesPerShop, textutil.Fold(q.Product))
}
