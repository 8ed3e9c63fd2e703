package domain

import (
	"math"
	"strings"
)

// shortDescriptionLen is the number of characters kept by ShortDescription.
const shortDescriptionLen = 100

// subjectivityThreshold splits Scientific (below) from Emotional (at or above).
const subjectivityThreshold = 0.5

// Score is the analyzer's judgement of a description.
type Score struct {
	Polarity     float64 // -1 (negative) .. 1 (positive)
	Subjectivity float64 // 0 (objective) .. 1 (subjective)
}

// Analyzer scores free text. Implementations must be deterministic for a
// given input and safe for concurrent use.
type Analyzer interface {
	Analyze(text string) (Score, error)
}

// Enrich sets every derived field of obs from its description and score.
func Enrich(obs Observation, score Score) Observation {
	obs.Sentiment = score.Polarity
	obs.Subjectivity = score.Subjectivity
	obs.Mentions = Mentions(obs.Description)
	obs.Impact = Impact(obs.Mentions)
	obs.Veracity = Veracity(obs.Mentions, score.Polarity)
	obs.ImageScore = ImageScore(score.Polarity, score.Subjectivity, obs.Veracity)
	obs.Category = Categorize(score.Subjectivity)
	obs.ShortDescription = ShortDescription(obs.Description)
	obs.Keywords = MatchKeywords(obs.Description)
	return obs
}

// Mentions counts whitespace-separated words.
func Mentions(text string) int {
	return len(strings.Fields(text))
}

// Impact is ln(mentions + 1).
func Impact(mentions int) float64 {
	return math.Log(float64(mentions) + 1)
}

// Veracity is impact scaled by the strength of the sentiment.
func Veracity(mentions int, polarity float64) float64 {
	return math.Log(float64(mentions)+1) * math.Abs(polarity)
}

// ImageScore combines sentiment strength and subjectivity with veracity.
func ImageScore(polarity, subjectivity, veracity float64) float64 {
	return (math.Abs(polarity) + subjectivity) * veracity
}

// Categorize maps subjectivity to a category. Every value, NaN included,
// lands in exactly one category.
func Categorize(subjectivity float64) Category {
	if subjectivity < subjectivityThreshold {
		return CategoryScientific
	}
	return CategoryEmotional
}

// ShortDescription truncates text to its first 100 characters and appends an
// ellipsis marker. The marker is appended even when nothing was cut.
func ShortDescription(text string) string {
	r := []rune(text)
	if len(r) > shortDescriptionLen {
		r = r[:shortDescriptionLen]
	}
	return string(r) + "..."
}
