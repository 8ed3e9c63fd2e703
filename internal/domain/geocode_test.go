package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestEnrichCity_NilGeocoder(t *testing.T) {
	obs := Observation{Row: 1, Latitude: 39.5, Longitude: -119.8}

	result := EnrichCity(context.Background(), obs, nil, discardLogger())

	assert.Empty(t, result.City)
}

func TestEnrichCity_FillsMissingCity(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{PlaceName: "Reno", FormattedAddress: "Reno, Nevada, United States"}}
	obs := Observation{Row: 1, Latitude: 39.5, Longitude: -119.8}

	result := EnrichCity(context.Background(), obs, geo, discardLogger())

	assert.Equal(t, "Reno", result.City)
	assert.Equal(t, 1, geo.calls)
}

func TestEnrichCity_KeepsExistingCity(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{PlaceName: "Sparks"}}
	obs := Observation{Row: 1, City: "Reno", Latitude: 39.5, Longitude: -119.8}

	result := EnrichCity(context.Background(), obs, geo, discardLogger())

	assert.Equal(t, "Reno", result.City)
	assert.Equal(t, 0, geo.calls)
}

func TestEnrichCity_ErrorDegradesGracefully(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("timeout")}
	obs := Observation{Row: 1, Latitude: 39.5, Longitude: -119.8}

	result := EnrichCity(context.Background(), obs, geo, discardLogger())

	assert.Empty(t, result.City)
	assert.Equal(t, obs, result)
}

func TestEnrichCity_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{}
	obs := Observation{Row: 1, Latitude: 0.1, Longitude: -30}

	result := EnrichCity(context.Background(), obs, geo, discardLogger())

	assert.Empty(t, result.City)
}
