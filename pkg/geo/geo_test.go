package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/pkg/geo"
)

func TestDistanceMeters_MismoPuntoEsCero(t *testing.T) {
	p := geo.Point{Lat: 48.8566, Lon: 2.3522}
	assert.InDelta(t, 0, geo.DistanceMeters(p, p), 1e-6)
}

func TestDistanceMeters_ParisLyon(t *testing.T) {
	paris := geo.Point{Lat: 48.8566, Lon: 2.3522}
	lyon := geo.Point{Lat: 45.7640, Lon: 4.8357}
	// ~392 km en línea recta
	assert.InDelta(t, 392_000, geo.DistanceMeters(paris, lyon), 3_000)
	assert.InDelta(t, geo.DistanceMeters(paris, lyon), geo.DistanceMeters(lyon, paris), 1e-6)
}

func TestNewPoint_RechazaRangosInvalidos(t *testing.T) {
	_, err := geo.NewPoint(91, 0)
	assert.Error(t, err)
	_, err = geo.NewPoint(0, -181)
	assert.Error(t, err)

	p, err := geo.NewPoint(-33.45, -70.66)
	require.NoError(t, err)
	assert.Equal(t, "POINT(-70.660000 -33.450000)", p.WKT())
}
