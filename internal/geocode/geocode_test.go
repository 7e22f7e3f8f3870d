package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventease/config"
	apperrors "eventease/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) Geocoder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewNominatimGeocoder(&config.GeocoderConfig{
		BaseURL:   server.URL + "/",
		UserAgent: "EventEase App",
		Timeout:   time.Second,
	})
}

func TestGeocode_Success(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Rua Augusta, Lisbon", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "EventEase App", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"38.7104","lon":"-9.1375","display_name":"Rua Augusta, Lisboa"}]`))
	})

	loc, err := g.Geocode(context.Background(), " Rua Augusta, Lisbon ")

	require.NoError(t, err)
	assert.InDelta(t, 38.7104, loc.Latitude, 1e-6)
	assert.InDelta(t, -9.1375, loc.Longitude, 1e-6)
	assert.Equal(t, "Rua Augusta, Lisboa", loc.DisplayName)
}

func TestGeocode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no results", http.StatusOK, `[]`, apperrors.ErrAddressNotFound},
		{"server error", http.StatusServiceUnavailable, ``, apperrors.ErrUpstream},
		{"bad body", http.StatusOK, `{`, apperrors.ErrUpstream},
		{"bad coordinates", http.StatusOK, `[{"lat":"north","lon":"1"}]`, apperrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Geocode(context.Background(), "somewhere")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGeocode_EmptyAddress(t *testing.T) {
	g := NewNominatimGeocoder(&config.GeocoderConfig{BaseURL: "http://unused", Timeout: time.Second})
	_, err := g.Geocode(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
