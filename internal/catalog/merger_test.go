package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockroom/internal/entities"
	"stockroom/internal/vendor"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestMergeWithoutStoredRecord(t *testing.T) {
	live := vendor.Product{
		SKU:          "LPB004",
		Name:         "Padfolio",
		Price:        floatPtr(11.00),
		AvailableQty: 75,
		ImageURL:     "https://vendor.example.com/lpb004.jpg",
	}

	merged := Merge(live, nil)

	assert.False(t, merged.InCatalog)
	assert.Equal(t, "Padfolio", merged.Name)
	assert.Equal(t, 11.00, *merged.Price)
	assert.Equal(t, 75, merged.AvailableQty)
	assert.Equal(t, "https://vendor.example.com/lpb004.jpg", merged.ImageURL)
	assert.Nil(t, merged.LastSynced)
}

func TestMergeLiveWinsForPriceAndStock(t *testing.T) {
	live := vendor.Product{
		SKU:          "LPB004",
		Name:         "Padfolio",
		Price:        floatPtr(13.75),
		AvailableQty: 12,
		LocalQty:     3,
	}
	stored := &entities.Product{
		SKU:          "LPB004",
		Name:         "Padfolio (Curated Name)",
		BasePrice:    floatPtr(12.50),
		AvailableQty: 500,
		LocalQty:     40,
	}

	merged := Merge(live, stored)

	assert.True(t, merged.InCatalog)
	assert.Equal(t, 13.75, *merged.Price)
	assert.Equal(t, 12, merged.AvailableQty)
	assert.Equal(t, 3, merged.LocalQty)
	// Live name present, so the stored one is not used
	assert.Equal(t, "Padfolio", merged.Name)
}

func TestMergeStoredWinsForCuratedFields(t *testing.T) {
	live := vendor.Product{
		SKU:      "LPB004",
		Name:     "Padfolio",
		ImageURL: "https://vendor.example.com/generic.jpg",
		Color:    "assorted",
		CaseQty:  intPtr(12),
	}
	priceChange := time.Now().Add(-48 * time.Hour)
	stored := &entities.Product{
		SKU:            "LPB004",
		Name:           "Padfolio",
		ImageURL:       strPtr("https://cdn.example.com/retouched.jpg"),
		Color:          strPtr("black"),
		Dimensions:     strPtr("9x12"),
		CaseQty:        intPtr(24),
		PriceChangedAt: &priceChange,
	}

	merged := Merge(live, stored)

	assert.Equal(t, "https://cdn.example.com/retouched.jpg", merged.ImageURL)
	assert.Equal(t, "black", merged.Color)
	assert.Equal(t, "9x12", merged.Dimensions)
	assert.Equal(t, 24, *merged.CaseQty)
	assert.Equal(t, priceChange.Unix(), merged.PriceChanged.Unix())
}

func TestMergeFallsBackToLiveCuratedValues(t *testing.T) {
	live := vendor.Product{
		SKU:      "LPB004",
		Name:     "Padfolio",
		ImageURL: "https://vendor.example.com/lpb004.jpg",
		Color:    "navy",
	}
	stored := &entities.Product{SKU: "LPB004", Name: "Padfolio"}

	merged := Merge(live, stored)

	// Store has no curated values, so the live ones pass through
	assert.Equal(t, "https://vendor.example.com/lpb004.jpg", merged.ImageURL)
	assert.Equal(t, "navy", merged.Color)
}

func TestMergeFillsBlankLiveNameFromStore(t *testing.T) {
	live := vendor.Product{SKU: "LPB004"}
	stored := &entities.Product{
		SKU:         "LPB004",
		Name:        "Padfolio",
		Description: strPtr("Leather padfolio with notepad"),
	}

	merged := Merge(live, stored)

	assert.Equal(t, "Padfolio", merged.Name)
	assert.Equal(t, "Leather padfolio with notepad", merged.Description)
}
