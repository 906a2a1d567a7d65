package feed

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowsFromCSV parses a CSV literal into rows, failing the test on any
// structural error.
func rowsFromCSV(t *testing.T, data string) []Row {
	t.Helper()
	reader, err := NewCSVReader(strings.NewReader(data))
	require.NoError(t, err)

	var rows []Row
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func TestMapRowMasterDataShape(t *testing.T) {
	csv := "ITEM,SHORT DESCRIPTION,LONG DESCRIPTION,CLASS,LESS THAN CASE PRICE,LARGE IMAGE,SMALL IMAGE\n" +
		"LPB004,Leather Padfolio,Black leather padfolio with notepad,PADFOLIOS,12.50,https://cdn.example.com/lpb004-lg.jpg,https://cdn.example.com/lpb004-sm.jpg\n"

	rows := rowsFromCSV(t, csv)
	require.Len(t, rows, 1)

	rec, ok := MapRow(rows[0])
	require.True(t, ok)
	assert.Equal(t, "LPB004", rec.SKU)
	assert.Equal(t, "Leather Padfolio", rec.Name)
	require.NotNil(t, rec.Description)
	assert.Equal(t, "Black leather padfolio with notepad", *rec.Description)
	require.NotNil(t, rec.Category)
	assert.Equal(t, "PADFOLIOS", *rec.Category)
	require.NotNil(t, rec.BasePrice)
	assert.Equal(t, 12.50, *rec.BasePrice)
	require.NotNil(t, rec.ImageURL)
	assert.Equal(t, "https://cdn.example.com/lpb004-lg.jpg", *rec.ImageURL)
	assert.False(t, rec.HasStock, "master data has no quantity columns")
	assert.Equal(t, 0, rec.AvailableQty)
	assert.Equal(t, 0, rec.LocalQty)
}

func TestMapRowUploadShape(t *testing.T) {
	csv := "SKU,Product Name,Description,Category,Price,Available Qty,Local Qty,Image URL\n" +
		"TMB101,Travel Mug,Steel travel mug,DRINKWARE,8.99,140,12,https://cdn.example.com/tmb101.jpg\n"

	rows := rowsFromCSV(t, csv)
	require.Len(t, rows, 1)

	rec, ok := MapRow(rows[0])
	require.True(t, ok)
	assert.Equal(t, "TMB101", rec.SKU)
	assert.Equal(t, "Travel Mug", rec.Name)
	assert.True(t, rec.HasStock)
	assert.Equal(t, 140, rec.AvailableQty)
	assert.Equal(t, 12, rec.LocalQty)
}

func TestMapRowDropsBlankSKU(t *testing.T) {
	csv := "ITEM,SHORT DESCRIPTION\n" +
		",No identifier here\n" +
		"   ,Whitespace only\n"

	rows := rowsFromCSV(t, csv)
	require.Len(t, rows, 2)

	for _, row := range rows {
		_, ok := MapRow(row)
		assert.False(t, ok)
	}
}

func TestMapRowNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "short description wins",
			csv:  "ITEM,SHORT DESCRIPTION,DESCRIPTION 1,DESCRIPTION 2\nA1,Primary Name,Alt One,Alt Two\n",
			want: "Primary Name",
		},
		{
			name: "two part description joined",
			csv:  "ITEM,SHORT DESCRIPTION,DESCRIPTION 1,DESCRIPTION 2\nA1,,Walnut Plaque,8x10\n",
			want: "Walnut Plaque 8x10",
		},
		{
			name: "single description part",
			csv:  "ITEM,SHORT DESCRIPTION,DESCRIPTION 1,DESCRIPTION 2\nA1,,Walnut Plaque,\n",
			want: "Walnut Plaque",
		},
		{
			name: "sentinel when nothing resolves",
			csv:  "ITEM,SHORT DESCRIPTION,DESCRIPTION 1,DESCRIPTION 2\nA1,,,\n",
			want: UnknownProductName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := rowsFromCSV(t, tt.csv)
			require.Len(t, rows, 1)

			rec, ok := MapRow(rows[0])
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.Name)
		})
	}
}

func TestMapRowPriceParsing(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  *float64
	}{
		{"valid decimal", "19.95", floatPtr(19.95)},
		// Quoted so the comma stays inside the field
		{"thousands separator", `"1,024.00"`, floatPtr(1024.0)},
		{"zero is a price", "0", floatPtr(0)},
		{"non-numeric", "CALL", nil},
		{"missing", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "ITEM,LESS THAN CASE PRICE\nA1," + tt.price + "\n"
			rows := rowsFromCSV(t, csv)
			require.Len(t, rows, 1)

			rec, ok := MapRow(rows[0])
			require.True(t, ok)
			if tt.want == nil {
				assert.Nil(t, rec.BasePrice)
			} else {
				require.NotNil(t, rec.BasePrice)
				assert.Equal(t, *tt.want, *rec.BasePrice)
			}
		})
	}
}

func TestMapRowIsDeterministic(t *testing.T) {
	csv := "ITEM,SHORT DESCRIPTION,LESS THAN CASE PRICE\nA1,Thing,5.00\n"
	rows := rowsFromCSV(t, csv)
	require.Len(t, rows, 1)

	first, ok := MapRow(rows[0])
	require.True(t, ok)
	second, ok := MapRow(rows[0])
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestMapRowImagePriority(t *testing.T) {
	csv := "ITEM,LARGE IMAGE,SMALL IMAGE\nA1,,https://cdn.example.com/small.jpg\n"
	rows := rowsFromCSV(t, csv)
	require.Len(t, rows, 1)

	rec, ok := MapRow(rows[0])
	require.True(t, ok)
	require.NotNil(t, rec.ImageURL)
	assert.Equal(t, "https://cdn.example.com/small.jpg", *rec.ImageURL)
}

func floatPtr(v float64) *float64 {
	return &v
}
