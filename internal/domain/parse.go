package domain

import (
	"math"
	"strconv"
	"strings"
)

// Input column names as they appear in the source header.
const (
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldCountry     = "country"
	FieldCity        = "city"
	FieldYear        = "Year"
	FieldDescription = "description"

	// FieldRow tags rejections of a whole row that could not be read.
	FieldRow = "row"
)

// maxAbsYear is the largest accepted year magnitude.
const maxAbsYear = 9999

// RequiredFields lists the columns every input source must provide.
var RequiredFields = []string{FieldLatitude, FieldLongitude, FieldCountry, FieldYear, FieldDescription}

// ParseRawRecord validates a raw row and converts it into a typed Observation
// with no derived fields set. On failure it returns one RowError per invalid
// field; the returned Observation must then be discarded.
func ParseRawRecord(rec RawRecord) (Observation, []RowError) {
	var errs []RowError
	reject := func(field, value, reason string) {
		errs = append(errs, RowError{Row: rec.Row, Field: field, Value: value, Reason: reason})
	}

	if rec.Malformed != "" {
		return Observation{}, []RowError{{Row: rec.Row, Field: FieldRow, Reason: rec.Malformed}}
	}

	lat, ok := parseCoordinate(rec.Latitude, 90)
	if !ok {
		reject(FieldLatitude, rec.Latitude, coordinateReason(rec.Latitude, 90))
	}
	lon, ok := parseCoordinate(rec.Longitude, 180)
	if !ok {
		reject(FieldLongitude, rec.Longitude, coordinateReason(rec.Longitude, 180))
	}

	country := strings.TrimSpace(rec.Country)
	if country == "" {
		reject(FieldCountry, "", "missing")
	}

	year, reason := parseYear(rec.Year)
	if reason != "" {
		reject(FieldYear, rec.Year, reason)
	}

	if strings.TrimSpace(rec.Description) == "" {
		reject(FieldDescription, "", "missing")
	}

	if len(errs) > 0 {
		return Observation{}, errs
	}

	return Observation{
		Row:         rec.Row,
		Country:     country,
		City:        strings.TrimSpace(rec.City),
		Latitude:    lat,
		Longitude:   lon,
		Year:        year,
		Description: rec.Description,
	}, nil
}

// parseCoordinate parses a latitude or longitude bounded by ±limit.
func parseCoordinate(s string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.Abs(v) > limit {
		return 0, false
	}
	return v, true
}

func coordinateReason(s string, limit float64) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "missing"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return "not a number"
	}
	if limit == 90 {
		return "out of range [-90, 90]"
	}
	return "out of range [-180, 180]"
}

// parseYear accepts integral numbers written either as integers or floats
// ("1995", "1995.0"). It returns a non-empty reason on failure.
func parseYear(s string) (int, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "missing"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "not a number"
	}
	if math.Abs(v) > maxAbsYear {
		return 0, "out of range [-9999, 9999]"
	}
	if v != math.Trunc(v) {
		return 0, "not a whole year"
	}
	return int(v), ""
}
