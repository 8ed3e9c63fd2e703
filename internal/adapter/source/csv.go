package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/pgzip"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 1024

// rowReader is the subset of *csv.Reader used to iterate data rows.
type rowReader interface {
	Read() ([]string, error)
}

// ReadCSV reads a header row followed by data rows. Rows shorter than the
// header yield empty values for the missing columns. Stray quotes inside
// unquoted fields are kept as text. A row the reader cannot split is
// returned with Malformed set so validation rejects it alone.
func ReadCSV(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}
	return readRows(ctx, cr, idx)
}

func readRows(ctx context.Context, rr rowReader, idx columnIndex) ([]domain.RawRecord, error) {
	var records []domain.RawRecord
	for row := 1; ; row++ {
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := rr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			records = append(records, domain.RawRecord{Row: row, Malformed: parseErr.Err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		records = append(records, idx.record(row, fields))
	}
	return records, nil
}

func readGzipCSV(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	gz, err := pgzip.NewReaderN(r, 256*1024, runtime.NumCPU())
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()
	return ReadCSV(ctx, gz)
}
