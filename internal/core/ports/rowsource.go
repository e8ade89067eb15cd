package ports

import (
	"context"
	"io"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
)

// RowReader parses an uploaded tabular file into an ordered list of rows,
// each an unordered mapping of column label to raw cell value. The first
// row of the file is the header; every returned row carries all header
// labels as keys, with empty values for missing cells.
type RowReader interface {
	ReadRows(r io.Reader) ([]domain.RawRow, error)
}

// Pacer enforces the inter-call spacing toward the external gateway.
// Wait blocks until the next call is permitted or the context is done.
type Pacer interface {
	Wait(ctx context.Context) error
}
