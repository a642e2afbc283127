package ports

import (
	"context"

	"github.com/jhoicas/eboutique-api/pkg/geo"
)

// Geocoder convierte una dirección postal en coordenadas.
// Devuelve domain.ErrAddressNotFound si el proveedor no encuentra la dirección.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
}
