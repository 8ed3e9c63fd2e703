// Command validate runs the feature pipeline over an observations file and
// checks the enriched table without starting the dashboard. It reports every
// rejected row and checks each computed column against the description and
// the other stored columns.
//
// Usage:
//
//	go run ./cmd/validate -data updb.csv
//	go run ./cmd/validate -data updb.csv.gz -strict
//
// The exit status is 1 when the file cannot be loaded, when a derived column
// is inconsistent, or, with -strict, when any row was rejected.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/uap-dashboard/internal/adapter/source"
	"github.com/couchcryptid/uap-dashboard/internal/dataset"
	"github.com/couchcryptid/uap-dashboard/internal/domain"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
	"github.com/couchcryptid/uap-dashboard/internal/pipeline"
	"github.com/couchcryptid/uap-dashboard/internal/sentiment"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name     string
	errors   []string
	advisory bool // failures are reported but do not fail the run
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "updb.csv", "observations file (.csv, .csv.gz or .parquet)")
	strict := flag.Bool("strict", false, "fail when any input row is rejected")
	flag.Parse()

	os.Exit(run(*dataPath, *strict))
}

func run(dataPath string, strict bool) int {
	// Fixed clock so repeated runs report the same load time.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Println("=== UAP Observation Table Validation ===")
	fmt.Println()

	ds, err := load(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRows(ds, strict),
		validateFeatures(ds),
		validateKeywords(ds),
	}

	fmt.Println()
	failed := false
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			if p.advisory {
				status = fmt.Sprintf("\033[33mWARN (%d errors)\033[0m", len(p.errors))
			} else {
				failed = true
			}
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d kept, %d rejected (source %s)\n", ds.Len(), rejectedRows(ds), ds.Source())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if failed {
		fmt.Println("\nValidation FAILED.")
		return 1
	}
	fmt.Println("\nAll validations passed.")
	return 0
}

func load(path string) (*dataset.Dataset, error) {
	src, err := source.NewFile(path)
	if err != nil {
		return nil, err
	}
	logger := sharedobs.NewLogger("warn", "text")
	p := pipeline.New(src, pipeline.NewTransformer(sentiment.New(), nil, logger), logger, observability.NewMetricsForTesting())
	return p.Build(context.Background())
}

// rejectedRows counts distinct input rows with at least one invalid field.
func rejectedRows(ds *dataset.Dataset) int {
	seen := make(map[int]struct{})
	for _, e := range ds.Rejected() {
		seen[e.Row] = struct{}{}
	}
	return len(seen)
}

// ── Phase 1: Row validation ──

func validateRows(ds *dataset.Dataset, strict bool) *phase {
	p := &phase{name: "Phase 1: Row validation", advisory: !strict}
	for _, e := range ds.Rejected() {
		p.errorf("%s", e.Error())
	}
	return p
}

// ── Phase 2: Derived features ──

func validateFeatures(ds *dataset.Dataset) *phase {
	p := &phase{name: "Phase 2: Derived features"}
	for _, o := range ds.Observations() {
		checkFeatures(p, o)
	}
	return p
}

// emotionalFrom is the subjectivity at which a row counts as Emotional.
const emotionalFrom = 0.5

// shortLen is the number of description characters kept in short_description.
const shortLen = 100

// checkFeatures checks the stored columns of o against each other and against
// the raw description, without calling the functions that produced them.
func checkFeatures(p *phase, o domain.Observation) {
	pf := func(format string, args ...any) {
		p.errorf("row %d: "+format, append([]any{o.Row}, args...)...)
	}

	if o.Sentiment < -1 || o.Sentiment > 1 {
		pf("sentiment %g outside [-1, 1]", o.Sentiment)
	}
	if o.Subjectivity < 0 || o.Subjectivity > 1 {
		pf("subjectivity %g outside [0, 1]", o.Subjectivity)
	}
	if want := len(strings.Fields(o.Description)); o.Mentions != want {
		pf("mentions: %d words in description, got %d", want, o.Mentions)
	}
	if want := math.Log(float64(o.Mentions) + 1); !floatEq(o.Impact, want) {
		pf("impact: ln(mentions+1) = %g, got %g", want, o.Impact)
	}
	if want := o.Impact * math.Abs(o.Sentiment); !floatEq(o.Veracity, want) {
		pf("veracity: impact*|sentiment| = %g, got %g", want, o.Veracity)
	}
	if want := (math.Abs(o.Sentiment) + o.Subjectivity) * o.Veracity; !floatEq(o.ImageScore, want) {
		pf("image_score: (|sentiment|+subjectivity)*veracity = %g, got %g", want, o.ImageScore)
	}
	emotional := o.Subjectivity >= emotionalFrom
	switch {
	case emotional && o.Category != domain.CategoryEmotional:
		pf("category: subjectivity %g is at or above %g, got %s", o.Subjectivity, emotionalFrom, o.Category)
	case !emotional && o.Category != domain.CategoryScientific:
		pf("category: subjectivity %g is below %g, got %s", o.Subjectivity, emotionalFrom, o.Category)
	}
	r := []rune(o.Description)
	if len(r) > shortLen {
		r = r[:shortLen]
	}
	if want := string(r) + "..."; o.ShortDescription != want {
		pf("short_description: expected %q, got %q", want, o.ShortDescription)
	}
}

// ── Phase 3: Keyword flags ──

func validateKeywords(ds *dataset.Dataset) *phase {
	p := &phase{name: "Phase 3: Keyword flags"}
	for _, o := range ds.Observations() {
		checkKeywords(p, o)
	}
	return p
}

// checkKeywords compares each kw_* flag with a substring search of the
// lower-cased description.
func checkKeywords(p *phase, o domain.Observation) {
	lower := strings.ToLower(o.Description)
	for i, kw := range domain.Keywords {
		if want := strings.Contains(lower, kw); o.Keywords[i] != want {
			p.errorf("row %d: %s: expected %t, got %t", o.Row, domain.KeywordColumn(kw), want, o.Keywords[i])
		}
	}
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
