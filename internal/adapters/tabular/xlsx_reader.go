package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/core/ports"
	"github.com/xuri/excelize/v2"
)

// XLSXReader parses Excel uploads using the first sheet. The first row is
// the header; data rows carry all header labels as keys.
type XLSXReader struct{}

// NewXLSXReader creates an XLSXReader.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// ReadRows parses the workbook's first sheet into ordered label->value rows.
func (p *XLSXReader) ReadRows(r io.Reader) ([]domain.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
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

// ReaderForFile picks a RowReader by file extension, defaulting to CSV.
func ReaderForFile(fileName string) ports.RowReader {
	if strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		return NewXLSXReader()
	}
	return NewCSVReader()
}
