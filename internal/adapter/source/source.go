// Package source reads raw observation rows from a file on disk.
//
// The format is chosen by extension: ".csv" is read as-is, ".csv.gz" and
// ".gz" are decompressed with parallel gzip, ".parquet" is read as a Parquet
// file. Every format yields the same []domain.RawRecord so validation happens
// in one place.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

var (
	// ErrMissingColumns is returned when the header lacks a required column.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Format identifies an input encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatGzipCSV Format = "csv.gz"
	FormatParquet Format = "parquet"
)

// DetectFormat infers the input format from a file name.
func DetectFormat(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv.gz"), strings.HasSuffix(lower, ".gz"):
		return FormatGzipCSV, nil
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(lower, ".parquet"):
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// File extracts raw records from a file path.
type File struct {
	path   string
	format Format
}

// NewFile validates the path's extension and returns a File source. The file
// itself is not opened until Extract.
func NewFile(path string) (*File, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, format: format}, nil
}

// Name returns the source path.
func (f *File) Name() string {
	return f.path
}

// Extract reads every row of the file.
func (f *File) Extract(ctx context.Context) ([]domain.RawRecord, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	switch f.format {
	case FormatCSV:
		return ReadCSV(ctx, file)
	case FormatGzipCSV:
		return readGzipCSV(ctx, file)
	case FormatParquet:
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat source: %w", err)
		}
		return ReadParquet(ctx, file, info.Size())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.format)
	}
}

// columnIndex maps required and optional column names to their header
// positions. Absent optional columns map to -1.
type columnIndex struct {
	latitude, longitude, country, city, year, description int
}

// indexColumns matches header names case-insensitively, ignoring a UTF-8 BOM
// and surrounding whitespace.
func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var missing []string
	lookup := func(name string, required bool) int {
		i, ok := pos[strings.ToLower(name)]
		if !ok {
			if required {
				missing = append(missing, name)
			}
			return -1
		}
		return i
	}

	idx := columnIndex{
		latitude:    lookup(domain.FieldLatitude, true),
		longitude:   lookup(domain.FieldLongitude, true),
		country:     lookup(domain.FieldCountry, true),
		city:        lookup(domain.FieldCity, false),
		year:        lookup(domain.FieldYear, true),
		description: lookup(domain.FieldDescription, true),
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) record(row int, fields []string) domain.RawRecord {
	get := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return fields[i]
	}
	return domain.RawRecord{
		Row:         row,
		Latitude:    get(c.latitude),
		Longitude:   get(c.longitude),
		Country:     get(c.country),
		City:        get(c.city),
		Year:        get(c.year),
		Description: get(c.description),
	}
}
