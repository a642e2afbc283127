// Package geocoding implementa ports.Geocoder sobre la API de Google Geocoding.
package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/pkg/config"
	"github.com/jhoicas/eboutique-api/pkg/geo"
)

var _ ports.Geocoder = (*GoogleClient)(nil)

const geocodePath = "/maps/api/geocode/json"

// GoogleClient cliente resty de la API de geocodificación.
type GoogleClient struct {
	httpClient *resty.Client
	apiKey     string
}

// NewGoogleClient construye el cliente con la configuración de geocodificación.
func NewGoogleClient(cfg config.GeocodingConfig) *GoogleClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &GoogleClient{httpClient: client, apiKey: cfg.APIKey}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode devuelve la primera coincidencia. ZERO_RESULTS -> domain.ErrAddressNotFound.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (geo.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return geo.Point{}, domain.ErrAddressNotFound
	}
	result := new(geocodeResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetQueryParam("key", c.apiKey).
		SetResult(result).
		Get(geocodePath)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return geo.Point{}, fmt.Errorf("geocode api error: http=%d", resp.StatusCode())
	}
	switch result.Status {
	case "OK":
	case "ZERO_RESULTS":
		return geo.Point{}, domain.ErrAddressNotFound
	default:
		return geo.Point{}, fmt.Errorf("geocode api error: status=%s, message=%s", result.Status, result.ErrorMessage)
	}
	if len(result.Results) == 0 {
		return geo.Point{}, domain.ErrAddressNotFound
	}
	loc := result.Results[0].Geometry.Location
	p, err := geo.NewPoint(loc.Lat, loc.Lng)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode api devolvió coordenadas inválidas: %w", err)
	}
	return p, nil
}
