package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/pkg/config"
)

func newTestClient(t *testing.T, status int, body string, check func(r *http.Request)) *GoogleClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewGoogleClient(config.GeocodingConfig{APIKey: "clave", BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestGeocode_OK(t *testing.T) {
	body := `{"status":"OK","results":[{"formatted_address":"Paris","geometry":{"location":{"lat":48.8566,"lng":2.3522}}}]}`
	c := newTestClient(t, http.StatusOK, body, func(r *http.Request) {
		assert.Equal(t, geocodePath, r.URL.Path)
		assert.Equal(t, "1 rue de Rivoli, 75001 Paris", r.URL.Query().Get("address"))
		assert.Equal(t, "clave", r.URL.Query().Get("key"))
	})
	p, err := c.Geocode(context.Background(), "1 rue de Rivoli, 75001 Paris")
	require.NoError(t, err)
	assert.InDelta(t, 48.8566, p.Lat, 1e-9)
	assert.InDelta(t, 2.3522, p.Lon, 1e-9)
}

func TestGeocode_ZeroResultsEsDireccionNoEncontrada(t *testing.T) {
	c := newTestClient(t, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`, nil)
	_, err := c.Geocode(context.Background(), "zzzz")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestGeocode_DireccionVaciaNoLlamaALaAPI(t *testing.T) {
	called := false
	c := newTestClient(t, http.StatusOK, `{}`, func(*http.Request) { called = true })
	_, err := c.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	assert.False(t, called)
}

func TestGeocode_ErroresDelProveedor(t *testing.T) {
	c := newTestClient(t, http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"API key inválida"}`, nil)
	_, err := c.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAddressNotFound)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")

	c = newTestClient(t, http.StatusInternalServerError, `oops`, nil)
	_, err = c.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http=500")
}
