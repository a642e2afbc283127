package ports

import (
	"context"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
)

// NearbyCache cache de lectura para resultados de búsqueda por proximidad.
// Get devuelve (nil, false, nil) en un miss. Los fallos del cache no deben romper la búsqueda.
type NearbyCache interface {
	Get(ctx context.Context, key string) ([]dto.NearbyResultDTO, bool, error)
	Set(ctx context.Context, key string, results []dto.NearbyResultDTO) error
}
