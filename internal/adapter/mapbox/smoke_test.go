//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uap-dashboard/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ReverseGeocode(context.Background(), 39.5296, -119.8138)
	require.NoError(t, err)

	assert.Equal(t, "Reno", result.PlaceName)
	assert.Contains(t, result.FormattedAddress, "Nevada")
	assert.Greater(t, result.Confidence, 0.0)
}

func TestSmoke_ReverseGeocode_OpenOcean(t *testing.T) {
	c := smokeClient(t)

	// Mid-Pacific has no place features; the client must not error.
	result, err := c.ReverseGeocode(context.Background(), 0, -140)
	require.NoError(t, err)
	assert.Empty(t, result.PlaceName)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached, err := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)

	r1, err := cached.ReverseGeocode(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)
	assert.Equal(t, "Paris", r1.PlaceName)

	r2, err := cached.ReverseGeocode(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
