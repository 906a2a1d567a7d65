package feed

import (
	"strconv"
	"strings"
)

// UnknownProductName is used when no name column resolves to anything.
const UnknownProductName = "Unknown Product"

// ProductRecord is a feed row normalized to the canonical catalog shape.
type ProductRecord struct {
	SKU          string
	Name         string
	Description  *string
	Category     *string
	BasePrice    *float64
	AvailableQty int
	LocalQty     int
	ImageURL     *string

	// HasStock marks rows from feeds that carry quantity columns; the
	// weekly master data does not, uploaded spreadsheets do.
	HasStock bool
}

// Candidate columns per canonical field, in resolution order. The first
// group of names comes from the vendor's master-data CSV, the second from
// the spreadsheet template admins upload.
var (
	skuColumns         = []string{"ITEM", "SKU"}
	nameColumns        = []string{"SHORT DESCRIPTION", "Product Name", "Name"}
	descriptionColumns = []string{"LONG DESCRIPTION", "Description"}
	categoryColumns    = []string{"CLASS", "Category"}
	priceColumns       = []string{"LESS THAN CASE PRICE", "Price"}
	imageColumns       = []string{"LARGE IMAGE", "SMALL IMAGE", "Image URL", "Image"}
	availableColumns   = []string{"Available Qty", "Available"}
	localColumns       = []string{"Local Qty", "Local"}
)

// MapRow normalizes one raw row. Returns false when the row has no usable
// SKU; such rows (blank trailers, separator lines) are expected in vendor
// exports and are dropped, not failed. Pure: same row in, same record out.
func MapRow(row Row) (*ProductRecord, bool) {
	sku := firstValue(row, skuColumns)
	if sku == "" {
		return nil, false
	}

	rec := &ProductRecord{
		SKU:          sku,
		Name:         resolveName(row),
		Description:  optionalString(firstValue(row, descriptionColumns)),
		Category:     optionalString(firstValue(row, categoryColumns)),
		BasePrice:    parsePrice(firstValue(row, priceColumns)),
		ImageURL:     optionalString(firstValue(row, imageColumns)),
		AvailableQty: parseQty(firstValue(row, availableColumns)),
		LocalQty:     parseQty(firstValue(row, localColumns)),
		HasStock:     hasAnyColumn(row, availableColumns) || hasAnyColumn(row, localColumns),
	}

	return rec, true
}

// resolveName takes the first name column with a value, then falls back to
// the two-part description fields joined with a single space.
func resolveName(row Row) string {
	if name := firstValue(row, nameColumns); name != "" {
		return name
	}

	parts := []string{}
	if d1 := row.Get("DESCRIPTION 1"); d1 != "" {
		parts = append(parts, d1)
	}
	if d2 := row.Get("DESCRIPTION 2"); d2 != "" {
		parts = append(parts, d2)
	}
	if combined := strings.TrimSpace(strings.Join(parts, " ")); combined != "" {
		return combined
	}

	return UnknownProductName
}

func firstValue(row Row, columns []string) string {
	for _, col := range columns {
		if v := row.Get(col); v != "" {
			return v
		}
	}
	return ""
}

func hasAnyColumn(row Row, columns []string) bool {
	for _, col := range columns {
		if row.HasColumn(col) {
			return true
		}
	}
	return false
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// parsePrice returns nil for missing or non-numeric values; bad prices are
// not an error, the product simply has no known base price.
func parsePrice(v string) *float64 {
	if v == "" {
		return nil
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &price
}

func parseQty(v string) int {
	if v == "" {
		return 0
	}
	qty, err := strconv.Atoi(v)
	if err != nil || qty < 0 {
		return 0
	}
	return qty
}
