package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

const header = "latitude,longitude,country,city,Year,description\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "updb.csv")
	if err := os.WriteFile(path, []byte(header+body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_CleanFile(t *testing.T) {
	path := writeCSV(t, "39.5,-119.8,USA,Reno,1995,Bright disk hovering like a saucer\n")

	assert.Equal(t, 0, run(path, false))
	assert.Equal(t, 0, run(path, true))
}

func TestRun_RejectedRowsFailOnlyWhenStrict(t *testing.T) {
	path := writeCSV(t, "39.5,-119.8,USA,Reno,1995,Silver orb\n51.5,-0.1,UK,London,soon,Cigar shape\n")

	assert.Equal(t, 0, run(path, false))
	assert.Equal(t, 1, run(path, true))
}

func TestRun_MissingFile(t *testing.T) {
	assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "absent.csv"), false))
}

func TestRun_UnsupportedFormat(t *testing.T) {
	assert.Equal(t, 1, run("observations.xlsx", false))
}

// consistentObservation is hand-built so its columns agree with each other.
func consistentObservation() domain.Observation {
	impact := math.Log(4)
	veracity := impact * 0.5
	o := domain.Observation{
		Row:              2,
		Description:      "Silver Saucer hovering",
		Sentiment:        -0.5,
		Subjectivity:     0.25,
		Mentions:         3,
		Impact:           impact,
		Veracity:         veracity,
		ImageScore:       (0.5 + 0.25) * veracity,
		Category:         domain.CategoryScientific,
		ShortDescription: "Silver Saucer hovering...",
	}
	for i, kw := range domain.Keywords {
		o.Keywords[i] = kw == "saucer" || kw == "hover"
	}
	return o
}

func TestCheckFeatures_Consistent(t *testing.T) {
	p := &phase{}
	checkFeatures(p, consistentObservation())
	assert.Empty(t, p.errors)
}

func TestCheckFeatures_Inconsistent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Observation)
		want   string
	}{
		{"mentions", func(o *domain.Observation) {
			o.Mentions = 4
			o.Impact = math.Log(5)
			o.Veracity = o.Impact * 0.5
			o.ImageScore = 0.75 * o.Veracity
		}, "mentions"},
		{"impact", func(o *domain.Observation) { o.Impact = 1 }, "impact"},
		{"veracity", func(o *domain.Observation) {
			o.Veracity *= 2
			o.ImageScore = 0.75 * o.Veracity
		}, "veracity"},
		{"image score", func(o *domain.Observation) { o.ImageScore = 0 }, "image_score"},
		{"category below threshold", func(o *domain.Observation) { o.Category = domain.CategoryEmotional }, "category"},
		{"category at threshold", func(o *domain.Observation) {
			o.Subjectivity = 0.5
			o.ImageScore = (0.5 + 0.5) * o.Veracity
		}, "category"},
		{"short description", func(o *domain.Observation) { o.ShortDescription = "Silver..." }, "short_description"},
		{"sentiment range", func(o *domain.Observation) { o.Sentiment = -2 }, "sentiment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := consistentObservation()
			tt.mutate(&o)

			p := &phase{}
			checkFeatures(p, o)

			require.NotEmpty(t, p.errors)
			assert.Contains(t, p.errors[0], "row 2: "+tt.want)
		})
	}
}

func TestCheckFeatures_LongDescriptionIsTruncated(t *testing.T) {
	o := consistentObservation()
	long := make([]rune, 120)
	for i := range long {
		long[i] = 'é'
	}
	o.Description = string(long)
	o.Mentions = 1
	o.Impact = math.Log(2)
	o.Veracity = o.Impact * 0.5
	o.ImageScore = 0.75 * o.Veracity
	o.ShortDescription = string(long[:100]) + "..."

	p := &phase{}
	checkFeatures(p, o)
	assert.Empty(t, p.errors)
}

func TestCheckKeywords(t *testing.T) {
	p := &phase{}
	checkKeywords(p, consistentObservation())
	assert.Empty(t, p.errors)

	o := consistentObservation()
	o.Keywords = domain.KeywordFlags{}
	o.Keywords[0] = true

	p = &phase{}
	checkKeywords(p, o)
	assert.ElementsMatch(t, []string{
		"row 2: kw_craft: expected false, got true",
		"row 2: kw_hover: expected true, got false",
		"row 2: kw_saucer: expected true, got false",
	}, p.errors)
}
