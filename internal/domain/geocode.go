package domain

import (
	"context"
	"log/slog"
)

// EnrichCity fills an empty City with the place name found by reverse
// geocoding the observation's coordinates. If geocoder is nil, the city is
// already set, or the lookup fails, the observation is returned unchanged.
func EnrichCity(ctx context.Context, obs Observation, geocoder Geocoder, logger *slog.Logger) Observation {
	if geocoder == nil || obs.City != "" {
		return obs
	}

	result, err := geocoder.ReverseGeocode(ctx, obs.Latitude, obs.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"row", obs.Row,
			"lat", obs.Latitude,
			"lon", obs.Longitude,
			"error", err,
		)
		return obs
	}
	if result.PlaceName != "" {
		obs.City = result.PlaceName
	}
	return obs
}
