// Command genmock writes a deterministic synthetic observations file for
// local development and load testing. The same seed always produces the same
// rows. A configurable share of rows carries an invalid field so the
// dashboard's row validation has something to report.
//
// Usage:
//
//	go run ./cmd/genmock -n 5000 -out data/mock/updb.csv
//	go run ./cmd/genmock -n 100000 -seed 7 -invalid 0.02 -out data/mock/updb.csv.gz
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

type site struct {
	country, city string
	lat, lon      float64
}

var sites = []site{
	{"USA", "Reno", 39.53, -119.81},
	{"USA", "Roswell", 33.39, -104.52},
	{"USA", "Phoenix", 33.45, -112.07},
	{"USA", "Seattle", 47.61, -122.33},
	{"Canada", "Vancouver", 49.28, -123.12},
	{"Mexico", "Mexico City", 19.43, -99.13},
	{"UK", "London", 51.51, -0.13},
	{"France", "Paris", 48.86, 2.35},
	{"Chile", "Santiago", -33.45, -70.67},
	{"Australia", "Perth", -31.95, 115.86},
	{"Japan", "Osaka", 34.69, 135.50},
	{"Brazil", "Varginha", -21.55, -45.43},
}

var (
	openers   = []string{"Witness reported", "Two pilots saw", "A family observed", "Police logged", "Radar confirmed"}
	adjective = []string{"bright", "silent", "strange", "terrifying", "metallic", "glowing", "beautiful", "dim"}
	verbs     = []string{"hovering over", "moving fast above", "descending near", "circling", "racing across"}
	places    = []string{"the lake", "the highway", "a farm", "the city lights", "the mountains"}
	endings   = []string{"for several minutes.", "before vanishing.", "and then split in two.", "with no sound at all.", "while witnesses panicked."}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 1000, "number of rows to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	invalid := flag.Float64("invalid", 0.01, "share of rows with one invalid field")
	out := flag.String("out", "", "output path; a .gz suffix writes gzip-compressed CSV")
	flag.Parse()

	if *out == "" || *n < 0 || *invalid < 0 || *invalid > 1 {
		flag.Usage()
		return fmt.Errorf("missing or invalid flags: -out is required, -n >= 0, 0 <= -invalid <= 1")
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *pgzip.Writer
	if strings.HasSuffix(*out, ".gz") {
		gz = pgzip.NewWriter(f)
		w = gz
	}

	bad, err := generate(w, *n, *seed, *invalid)
	if err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("close gzip: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Printf("wrote %d rows (%d invalid) to %s", *n, bad, *out)
	return nil
}

// generate writes a header and n rows. It returns the number of rows that
// were given an invalid field.
func generate(w io.Writer, n int, seed uint64, invalidShare float64) (int, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cw := csv.NewWriter(w)

	header := []string{domain.FieldLatitude, domain.FieldLongitude, domain.FieldCountry, domain.FieldCity, domain.FieldYear, domain.FieldDescription}
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	bad := 0
	for range n {
		row := randomRow(rng)
		if rng.Float64() < invalidShare {
			corrupt(rng, row)
			bad++
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return bad, nil
}

func randomRow(rng *rand.Rand) []string {
	s := sites[rng.IntN(len(sites))]
	lat := s.lat + rng.NormFloat64()*0.5
	lon := s.lon + rng.NormFloat64()*0.5
	year := 1940 + rng.IntN(85)

	shape := domain.Keywords[rng.IntN(len(domain.Keywords))]
	desc := fmt.Sprintf("%s a %s %s %s %s %s",
		pick(rng, openers), pick(rng, adjective), shape, pick(rng, verbs), pick(rng, places), pick(rng, endings))

	city := s.city
	if rng.IntN(10) == 0 {
		city = ""
	}
	return []string{
		strconv.FormatFloat(lat, 'f', 4, 64),
		strconv.FormatFloat(lon, 'f', 4, 64),
		s.country,
		city,
		strconv.Itoa(year),
		desc,
	}
}

// corrupt replaces one required field with a value row validation rejects.
func corrupt(rng *rand.Rand, row []string) {
	switch rng.IntN(4) {
	case 0:
		row[0] = "95.0"
	case 1:
		row[1] = "not-a-number"
	case 2:
		row[4] = "unknown"
	default:
		row[5] = ""
	}
}

func pick(rng *rand.Rand, words []string) string {
	return words[rng.IntN(len(words))]
}
