// Package csvfile provides a TableReader over local CSV files.
//
// Format decoding stays in this adapter: core only ever sees column names
// and typed scalar cells.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.TableReader = (*Reader)(nil)

// Reader reads one CSV file: a header row followed by data rows.
type Reader struct {
	path string
	src  io.Reader
}

// NewReader creates a reader for the CSV file at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// NewFromReader creates a reader over an already-open source.
// Useful for testing.
func NewFromReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// ReadTable parses the whole file into ordered headers and rows.
func (r *Reader) ReadTable(ctx context.Context) ([]string, []domain.ContentRow, error) {
	src := r.src
	if src == nil {
		f, err := os.Open(r.path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", r.path, err)
		}
		defer f.Close()
		src = f
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // tolerate ragged rows; missing cells become absent

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: file has no header row", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header row: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []domain.ContentRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row %d: %w", domain.RowNumber(len(rows)), err)
		}

		row := make(domain.ContentRow, len(headers))
		for i, name := range headers {
			if i < len(record) {
				row[name] = typedCell(record[i])
			} else {
				row[name] = domain.AbsentCell()
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// typedCell infers the scalar kind of one raw cell. Empty cells are absent
// and purely numeric cells become numbers; everything else stays text, so
// boolean spellings like "yes" survive for the transform engine to judge.
func typedCell(raw string) domain.CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.AbsentCell()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return domain.NumberCell(f)
	}
	return domain.TextCell(raw)
}
