package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// parquetBatchSize is the number of rows decoded per Read call.
const parquetBatchSize = 1000

// parquetRow is the Parquet schema for observation files. Column names are
// matched exactly; every column is optional so null cells surface as
// validation errors rather than read failures.
type parquetRow struct {
	Latitude    *float64 `parquet:"latitude,optional"`
	Longitude   *float64 `parquet:"longitude,optional"`
	Country     *string  `parquet:"country,optional"`
	City        *string  `parquet:"city,optional"`
	Year        *float64 `parquet:"Year,optional"`
	Description *string  `parquet:"description,optional"`
}

// ReadParquet reads every row of a Parquet file.
func ReadParquet(ctx context.Context, r io.ReaderAt, size int64) ([]domain.RawRecord, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if err := checkParquetColumns(pf.Schema()); err != nil {
		return nil, err
	}

	reader := parquet.NewGenericReader[parquetRow](pf)
	defer reader.Close()

	records := make([]domain.RawRecord, 0, pf.NumRows())
	buf := make([]parquetRow, parquetBatchSize)
	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := reader.Read(buf)
		for i := range n {
			row++
			records = append(records, buf[i].record(row))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}

func checkParquetColumns(schema *parquet.Schema) error {
	have := make(map[string]bool)
	for _, f := range schema.Fields() {
		have[f.Name()] = true
	}
	var missing []string
	for _, name := range domain.RequiredFields {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

func (p parquetRow) record(row int) domain.RawRecord {
	return domain.RawRecord{
		Row:         row,
		Latitude:    formatFloat(p.Latitude),
		Longitude:   formatFloat(p.Longitude),
		Country:     deref(p.Country),
		City:        deref(p.City),
		Year:        formatFloat(p.Year),
		Description: deref(p.Description),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
