package feed

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVReaderHeaderLookupIsCaseInsensitive(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader("Item,Short Description\nA1,Widget\n"))
	require.NoError(t, err)

	row, err := reader.Next()
	require.NoError(t, err)

	assert.Equal(t, "A1", row.Get("ITEM"))
	assert.Equal(t, "Widget", row.Get("short description"))
	assert.Equal(t, "", row.Get("no such column"))
	assert.True(t, row.HasColumn("item"))
	assert.False(t, row.HasColumn("price"))
}

func TestCSVReaderToleratesRaggedRows(t *testing.T) {
	reader, err := NewCSVReader(strings.NewReader("ITEM,NAME,PRICE\nA1,Widget\n"))
	require.NoError(t, err)

	row, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "A1", row.Get("ITEM"))
	assert.Equal(t, "", row.Get("PRICE"))

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCSVReaderEmptyPayload(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader(""))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestOpenWorkbook(t *testing.T) {
	path := writeTestWorkbook(t, [][]any{
		{"SKU", "Product Name", "Available Qty"},
		{"TMB101", "Travel Mug", 140},
		{"LPB004", "Padfolio", 3},
	})

	reader, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer reader.Close()

	row, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "TMB101", row.Get("SKU"))
	assert.Equal(t, "140", row.Get("Available Qty"))

	row, err = reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "LPB004", row.Get("sku"))

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenWorkbookNotASpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a workbook"), 0o644))

	_, err := OpenWorkbook(path)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func writeTestWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "products.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}
