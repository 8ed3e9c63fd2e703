// Package sentiment scores free text for polarity and subjectivity using a
// word lexicon.
//
// Each lexicon adjective carries a polarity (-1..1), a subjectivity (0..1)
// and an intensity. Words whose polarity and subjectivity are both zero but
// whose intensity differs from 1 are intensifiers ("very", "slightly"): they
// scale the next scored word instead of being scored themselves. A negation
// ("not", "never", "no", "n't") multiplies the next scored word's polarity by
// -0.5. Sentence punctuation clears pending modifiers. The text score is the
// mean over all scored words, clamped to the valid ranges; text without any
// lexicon word scores (0, 0).
package sentiment

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

//go:embed lexicon.csv
var defaultLexicon string

// ErrInvalidText is returned for input the analyzer cannot tokenize.
var ErrInvalidText = errors.New("invalid text")

// negationFactor is applied to the polarity of a negated word.
const negationFactor = -0.5

var (
	tokenRe   = regexp.MustCompile(`[\p{L}]+(?:'[\p{L}]+)?|[.!?;]`)
	negations = map[string]bool{
		"not": true, "no": true, "never": true, "nor": true, "without": true,
		"isn't": true, "wasn't": true, "aren't": true, "weren't": true,
		"don't": true, "doesn't": true, "didn't": true, "can't": true,
		"couldn't": true, "won't": true, "wouldn't": true, "hardly": true,
	}
)

type entry struct {
	polarity     float64
	subjectivity float64
	intensity    float64
}

func (e entry) isIntensifier() bool {
	return e.polarity == 0 && e.subjectivity == 0 && e.intensity != 1
}

// Analyzer implements domain.Analyzer. It is immutable after construction and
// safe for concurrent use.
type Analyzer struct {
	lexicon map[string]entry
}

// New returns an Analyzer backed by the embedded lexicon.
func New() *Analyzer {
	a, err := NewFromReader(strings.NewReader(defaultLexicon))
	if err != nil {
		panic(fmt.Sprintf("sentiment: embedded lexicon: %v", err))
	}
	return a
}

// NewFromReader parses a lexicon in "word,polarity,subjectivity,intensity"
// CSV form. Lines starting with '#' are comments.
func NewFromReader(r io.Reader) (*Analyzer, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	lex := make(map[string]entry)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read lexicon: %w", err)
		}
		e, err := parseEntry(rec)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		lex[strings.ToLower(strings.TrimSpace(rec[0]))] = e
	}
	if len(lex) == 0 {
		return nil, errors.New("lexicon is empty")
	}
	return &Analyzer{lexicon: lex}, nil
}

func parseEntry(rec []string) (entry, error) {
	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return entry{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		vals[i] = v
	}
	e := entry{polarity: vals[0], subjectivity: vals[1], intensity: vals[2]}
	if e.polarity < -1 || e.polarity > 1 || e.subjectivity < 0 || e.subjectivity > 1 || e.intensity <= 0 {
		return entry{}, fmt.Errorf("values out of range: %v", rec[1:])
	}
	return e, nil
}

// Size returns the number of lexicon entries.
func (a *Analyzer) Size() int {
	return len(a.lexicon)
}

// Analyze scores text. It fails only when text is not valid UTF-8.
func (a *Analyzer) Analyze(text string) (domain.Score, error) {
	if !utf8.ValidString(text) {
		return domain.Score{}, fmt.Errorf("%w: not valid UTF-8", ErrInvalidText)
	}

	var (
		sumP, sumS float64
		n          int
		negate     bool
		modifier   = 1.0
	)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if isBoundary(tok) {
			negate, modifier = false, 1
			continue
		}
		if negations[tok] {
			negate = true
			continue
		}
		e, ok := a.lexicon[tok]
		if !ok {
			continue
		}
		if e.isIntensifier() {
			modifier *= e.intensity
			continue
		}

		p := e.polarity * modifier
		s := math.Min(e.subjectivity*modifier, 1)
		if negate {
			p *= negationFactor
		}
		sumP += p
		sumS += s
		n++
		negate, modifier = false, 1
	}

	if n == 0 {
		return domain.Score{}, nil
	}
	return domain.Score{
		Polarity:     clamp(sumP/float64(n), -1, 1),
		Subjectivity: clamp(sumS/float64(n), 0, 1),
	}, nil
}

func isBoundary(tok string) bool {
	switch tok {
	case ".", "!", "?", ";":
		return true
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
