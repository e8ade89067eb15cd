package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
)

// CSVReader parses comma-separated uploads. The first row is the header;
// every data row carries all header labels as keys, with empty values
// for short rows.
type CSVReader struct{}

// NewCSVReader creates a CSVReader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// ReadRows parses the file into ordered label->value rows.
func (p *CSVReader) ReadRows(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := make([]string, len(all[0]))
	for i, label := range all[0] {
		header[i] = strings.TrimSpace(label)
	}

	rows := make([]domain.RawRow, 0, len(all)-1)
	for _, cells := range all[1:] {
		row := make(domain.RawRow, len(header))
		for i, label := range header {
			if label == "" {
				continue
			}
			if i < len(cells) {
				row[label] = cells[i]
			} else {
				row[label] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
