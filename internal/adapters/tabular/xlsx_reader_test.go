package tabular_test

import (
	"bytes"
	"testing"

	"github.com/finkit/bulk_payout_app/internal/adapters/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestXLSXReader_ReadRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"AMOUNT", "BENEFICIARY NAME", "ACCOUNT NUMBER", "IFSC CODE"},
		{"1500.50", "Asha Rao", "000123456789", "HDFC0001234"},
		{"250", "Vikram Singh", "998877665544", "ICIC0000042"},
	})

	rows, err := tabular.NewXLSXReader().ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1500.50", rows[0]["AMOUNT"])
	assert.Equal(t, "Asha Rao", rows[0]["BENEFICIARY NAME"])
	assert.Equal(t, "ICIC0000042", rows[1]["IFSC CODE"])
}

func TestXLSXReader_ShortRowsPadded(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"amount", "beneficiary_name", "beneficiary_ifsc_code"},
		{"100", "Asha Rao"},
	})

	rows, err := tabular.NewXLSXReader().ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["beneficiary_ifsc_code"])
}

func TestXLSXReader_NotAWorkbook(t *testing.T) {
	rows, err := tabular.NewXLSXReader().ReadRows(bytes.NewReader([]byte("definitely,not,xlsx")))
	require.Error(t, err)
	assert.Nil(t, rows)
}
