// Package geo contiene utilidades geográficas mínimas: validación de coordenadas
// y distancia ortodrómica (haversine) en metros sobre el radio medio terrestre.
// En producción la distancia la calcula PostGIS sobre geography; este paquete
// sirve para validar entradas y para los fakes de test.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters radio medio de la Tierra (IUGG).
const EarthRadiusMeters = 6371008.8

// Point posición WGS84 (SRID 4326).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewPoint valida y construye un punto.
func NewPoint(lat, lon float64) (Point, error) {
	p := Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate verifica rangos de latitud y longitud.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("coordenadas no numéricas")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitud fuera de rango: %v", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitud fuera de rango: %v", p.Lon)
	}
	return nil
}

// WKT devuelve el punto en formato WKT (longitud primero), como lo espera PostGIS.
func (p Point) WKT() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lon, p.Lat)
}

// DistanceMeters distancia ortodrómica entre dos puntos.
func DistanceMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
