package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"eventease/internal/geocode"
	apperrors "eventease/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder map[string]*geocode.Location

func (f fakeGeocoder) Geocode(ctx context.Context, address string) (*geocode.Location, error) {
	if loc, ok := f[address]; ok {
		return loc, nil
	}
	return nil, apperrors.ErrAddressNotFound
}

func TestGeocode(t *testing.T) {
	router := newTestRouter()
	NewGeocodeHandler(fakeGeocoder{
		"Rua Augusta 1, Lisbon": {Latitude: 38.71, Longitude: -9.14, DisplayName: "Rua Augusta"},
	}).RegisterRoutes(router)

	t.Run("Success", func(t *testing.T) {
		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/geocode?address="+url.QueryEscape("Rua Augusta 1, Lisbon"), nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, 38.71, body["latitude"])
		assert.Equal(t, "Rua Augusta", body["display_name"])
	})

	t.Run("Not found", func(t *testing.T) {
		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/geocode?address=nowhere", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing address", func(t *testing.T) {
		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/geocode", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Blank address", func(t *testing.T) {
		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/geocode?address=%20%20", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperrors.NewValidationError(map[string]string{"title": "required"}), http.StatusBadRequest},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"not liked", apperrors.ErrNotLiked, http.StatusConflict},
		{"upstream", apperrors.ErrUpstream, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"canceled", context.Canceled, statusClientClosedRequest},
		{"unknown", apperrors.ErrInternalServerError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err, "test")
			assert.Equal(t, tt.status, status)
			if tt.err == context.Canceled {
				assert.Nil(t, body)
			}
		})
	}
}
