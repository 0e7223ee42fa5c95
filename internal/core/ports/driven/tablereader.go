package driven

import (
	"context"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
)

// TableReader produces the column names and rows of one tabular source.
// Byte-level format decoding (CSV dialects, spreadsheets) lives entirely
// in the adapter; core only sees typed scalar cells.
type TableReader interface {
	// ReadTable returns the ordered column names and the rows in file
	// order. Each row maps a column name to a scalar cell value.
	ReadTable(ctx context.Context) (headers []string, rows []domain.ContentRow, err error)
}
