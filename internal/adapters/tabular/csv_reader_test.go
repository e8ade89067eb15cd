package tabular_test

import (
	"strings"
	"testing"

	"github.com/finkit/bulk_payout_app/internal/adapters/tabular"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader_ReadRows(t *testing.T) {
	input := strings.Join([]string{
		"amount,beneficiary_name,beneficiary_account_numb,beneficiary_ifsc_code",
		"1500.50,Asha Rao,000123456789,HDFC0001234",
		"250,Vikram Singh,998877665544,ICIC0000042",
	}, "\n")

	rows, err := tabular.NewCSVReader().ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.RawRow{
		"amount":                   "1500.50",
		"beneficiary_name":         "Asha Rao",
		"beneficiary_account_numb": "000123456789",
		"beneficiary_ifsc_code":    "HDFC0001234",
	}, rows[0])
	assert.Equal(t, "Vikram Singh", rows[1]["beneficiary_name"])
}

func TestCSVReader_ShortRowsPadded(t *testing.T) {
	input := "amount,beneficiary_name,beneficiary_ifsc_code\n100,Asha Rao\n"

	rows, err := tabular.NewCSVReader().ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Every header label is present as a key even when the row is short.
	assert.Equal(t, "100", rows[0]["amount"])
	assert.Equal(t, "Asha Rao", rows[0]["beneficiary_name"])
	assert.Equal(t, "", rows[0]["beneficiary_ifsc_code"])
}

func TestCSVReader_HeaderOnly(t *testing.T) {
	rows, err := tabular.NewCSVReader().ReadRows(strings.NewReader("amount,beneficiary_name\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVReader_Empty(t *testing.T) {
	rows, err := tabular.NewCSVReader().ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestReaderForFile(t *testing.T) {
	assert.IsType(t, &tabular.XLSXReader{}, tabular.ReaderForFile("payouts.XLSX"))
	assert.IsType(t, &tabular.CSVReader{}, tabular.ReaderForFile("payouts.csv"))
	assert.IsType(t, &tabular.CSVReader{}, tabular.ReaderForFile("payouts.txt"))
}
