package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParse_CommaDelimited(t *testing.T) {
	data := []byte("Date,Amount,Description\n01/02/2024,100.50,Grocery Store\n02/02/2024,40,Fuel\n")

	rows, err := Parse(data, "statement.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Index)
	assert.Equal(t, "01/02/2024", rows[0].Cells["date"])
	assert.Equal(t, "100.50", rows[0].Cells["amount"])
	assert.Equal(t, "Grocery Store", rows[0].Cells["description"])
	assert.Equal(t, "Fuel", rows[1].Cells["description"])
}

func TestParse_DelimiterDetection(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"semicolon", "Date;Amount\n01/02/2024;100\n"},
		{"tab", "Date\tAmount\n01/02/2024\t100\n"},
		{"comma", "Date,Amount\n01/02/2024,100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Parse([]byte(tt.data), "file.csv")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "01/02/2024", rows[0].Cells["date"])
			assert.Equal(t, "100", rows[0].Cells["amount"])
		})
	}
}

func TestParse_CommaWinsTie(t *testing.T) {
	// One comma, one semicolon in the header: comma is the default.
	data := []byte("Date,Amount;Note\n01/02/2024,100;x\n")

	rows, err := Parse(data, "file.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100;x", rows[0].Cells["amount;note"])
}

func TestParse_QuotedFields(t *testing.T) {
	data := []byte("Date,Amount,Description\n01/02/2024,100,\"Dinner, with friends\"\n")

	rows, err := Parse(data, "file.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dinner, with friends", rows[0].Cells["description"])
}

func TestParse_BlankRowsDropped(t *testing.T) {
	data := []byte("Date,Amount\n01/02/2024,100\n,\n\n02/02/2024,50\n")

	rows, err := Parse(data, "file.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "100", rows[0].Cells["amount"])
	assert.Equal(t, "50", rows[1].Cells["amount"])
}

func TestParse_ShortRowPadded(t *testing.T) {
	data := []byte("Date,Amount,Description\n01/02/2024,100\n")

	rows, err := Parse(data, "file.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Cells["description"])
}

func TestParse_EmptyFile(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no bytes", ""},
		{"header only", "Date,Amount\n"},
		{"header and blank line", "Date,Amount\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "file.csv")
			assert.ErrorIs(t, err, ErrEmptyFile)
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	for _, name := range []string{"receipt.png", "statement.pdf", "photo.jpeg", "doc.docx"} {
		_, err := Parse([]byte("anything"), name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Date", "Amount", "Description"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"01/02/2024", "250.00", "Electricity bill"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Parse(buf.Bytes(), "statement.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "01/02/2024", rows[0].Cells["date"])
	assert.Equal(t, "250.00", rows[0].Cells["amount"])
	assert.Equal(t, "Electricity bill", rows[0].Cells["description"])
}

func TestParse_XLSXHeaderOnly(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Date", "Amount"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Parse(buf.Bytes(), "statement.xlsx")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter("a;b;c,d"))
	assert.Equal(t, '\t', detectDelimiter("a\tb\tc"))
	assert.Equal(t, ',', detectDelimiter("plain header"))
}
