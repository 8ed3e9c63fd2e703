package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() RawRecord {
	return RawRecord{
		Row:         1,
		Latitude:    "39.5",
		Longitude:   "-119.8",
		Country:     "USA",
		City:        "Reno",
		Year:        "1995",
		Description: "A silver saucer with a hovering disk shape",
	}
}

func TestParseRawRecord(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		obs, errs := ParseRawRecord(validRecord())

		require.Empty(t, errs)
		assert.Equal(t, 1, obs.Row)
		assert.Equal(t, 39.5, obs.Latitude)
		assert.Equal(t, -119.8, obs.Longitude)
		assert.Equal(t, "USA", obs.Country)
		assert.Equal(t, "Reno", obs.City)
		assert.Equal(t, 1995, obs.Year)
		assert.Equal(t, "A silver saucer with a hovering disk shape", obs.Description)
		assert.Empty(t, obs.Category, "derived fields are not set by parsing")
	})

	t.Run("float year", func(t *testing.T) {
		rec := validRecord()
		rec.Year = "2001.0"
		obs, errs := ParseRawRecord(rec)

		require.Empty(t, errs)
		assert.Equal(t, 2001, obs.Year)
	})

	t.Run("city is optional", func(t *testing.T) {
		rec := validRecord()
		rec.City = ""
		obs, errs := ParseRawRecord(rec)

		require.Empty(t, errs)
		assert.Empty(t, obs.City)
	})

	t.Run("country trimmed", func(t *testing.T) {
		rec := validRecord()
		rec.Country = "  France "
		obs, errs := ParseRawRecord(rec)

		require.Empty(t, errs)
		assert.Equal(t, "France", obs.Country)
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		rec := RawRecord{Row: 7, Latitude: "north", Longitude: "", Country: " ", Year: "19x5", Description: ""}
		_, errs := ParseRawRecord(rec)

		require.Len(t, errs, 5)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			assert.Equal(t, 7, e.Row)
			fields = append(fields, e.Field)
		}
		assert.Equal(t, []string{FieldLatitude, FieldLongitude, FieldCountry, FieldYear, FieldDescription}, fields)
	})
}

func TestParseRawRecord_Reasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawRecord)
		field  string
		reason string
	}{
		{"missing latitude", func(r *RawRecord) { r.Latitude = "" }, FieldLatitude, "missing"},
		{"latitude not a number", func(r *RawRecord) { r.Latitude = "abc" }, FieldLatitude, "not a number"},
		{"latitude NaN", func(r *RawRecord) { r.Latitude = "NaN" }, FieldLatitude, "not a number"},
		{"latitude out of range", func(r *RawRecord) { r.Latitude = "91" }, FieldLatitude, "out of range [-90, 90]"},
		{"longitude out of range", func(r *RawRecord) { r.Longitude = "-180.5" }, FieldLongitude, "out of range [-180, 180]"},
		{"missing year", func(r *RawRecord) { r.Year = " " }, FieldYear, "missing"},
		{"year not a number", func(r *RawRecord) { r.Year = "unknown" }, FieldYear, "not a number"},
		{"fractional year", func(r *RawRecord) { r.Year = "1995.5" }, FieldYear, "not a whole year"},
		{"infinite year", func(r *RawRecord) { r.Year = "Inf" }, FieldYear, "not a number"},
		{"huge year", func(r *RawRecord) { r.Year = "1e300" }, FieldYear, "out of range [-9999, 9999]"},
		{"huge negative year", func(r *RawRecord) { r.Year = "-1e300" }, FieldYear, "out of range [-9999, 9999]"},
		{"year past four digits", func(r *RawRecord) { r.Year = "10000" }, FieldYear, "out of range [-9999, 9999]"},
		{"blank description", func(r *RawRecord) { r.Description = "\t " }, FieldDescription, "missing"},
		{"missing country", func(r *RawRecord) { r.Country = "" }, FieldCountry, "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			_, errs := ParseRawRecord(rec)

			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.reason, errs[0].Reason)
		})
	}
}

func TestParseRawRecord_BoundaryCoordinates(t *testing.T) {
	rec := validRecord()
	rec.Latitude = "-90"
	rec.Longitude = "180"
	obs, errs := ParseRawRecord(rec)

	require.Empty(t, errs)
	assert.Equal(t, -90.0, obs.Latitude)
	assert.Equal(t, 180.0, obs.Longitude)
}

func TestParseRawRecord_YearBounds(t *testing.T) {
	for _, year := range []string{"9999", "-9999", "0"} {
		rec := validRecord()
		rec.Year = year
		_, errs := ParseRawRecord(rec)
		assert.Empty(t, errs, year)
	}
}

func TestParseRawRecord_MalformedRow(t *testing.T) {
	rec := RawRecord{Row: 12, Malformed: `extraneous or missing " in quoted-field`}
	obs, errs := ParseRawRecord(rec)

	require.Equal(t, []RowError{{Row: 12, Field: FieldRow, Reason: `extraneous or missing " in quoted-field`}}, errs)
	assert.Zero(t, obs)
}

func TestRowError_Error(t *testing.T) {
	assert.Equal(t, `row 3: Year "abc": not a number`,
		RowError{Row: 3, Field: FieldYear, Value: "abc", Reason: "not a number"}.Error())
	assert.Equal(t, "row 4: country: missing",
		RowError{Row: 4, Field: FieldCountry, Reason: "missing"}.Error())
}
