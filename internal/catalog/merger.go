package catalog

import (
	"time"

	"stockroom/internal/entities"
	"stockroom/internal/vendor"
)

// MergedProduct is what a live lookup returns: the vendor's current
// numbers layered over the locally curated record.
type MergedProduct struct {
	SKU          string     `json:"sku"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	AvailableQty int        `json:"available_qty"`
	LocalQty     int        `json:"local_qty"`
	ImageURL     string     `json:"image_url,omitempty"`
	Color        string     `json:"color,omitempty"`
	Dimensions   string     `json:"dimensions,omitempty"`
	CaseQty      *int       `json:"case_qty,omitempty"`
	PriceChanged *time.Time `json:"price_changed_at,omitempty"`
	LastSynced   *time.Time `json:"last_synced,omitempty"`

	// InCatalog is false when the SKU is known to the vendor but has
	// never been imported locally.
	InCatalog bool `json:"in_catalog"`
}

// Merge combines a live product with its stored record, if any. The live
// side is authoritative for price and availability; the stored side for
// curated fields (image, color, dimensions, case quantity, price-change
// timestamp), with the live value used only when the store has none.
func Merge(live vendor.Product, stored *entities.Product) MergedProduct {
	merged := MergedProduct{
		SKU:          live.SKU,
		Name:         live.Name,
		Description:  live.Description,
		Price:        live.Price,
		AvailableQty: live.AvailableQty,
		LocalQty:     live.LocalQty,
		ImageURL:     live.ImageURL,
		Color:        live.Color,
		Dimensions:   live.Dimensions,
		CaseQty:      live.CaseQty,
	}

	if stored == nil {
		return merged
	}

	merged.InCatalog = true
	merged.LastSynced = stored.LastSynced
	merged.PriceChanged = stored.PriceChangedAt

	if merged.Name == "" {
		merged.Name = stored.Name
	}
	if merged.Description == "" && stored.Description != nil {
		merged.Description = *stored.Description
	}
	if stored.ImageURL != nil && *stored.ImageURL != "" {
		merged.ImageURL = *stored.ImageURL
	}
	if stored.Color != nil && *stored.Color != "" {
		merged.Color = *stored.Color
	}
	if stored.Dimensions != nil && *stored.Dimensions != "" {
		merged.Dimensions = *stored.Dimensions
	}
	if stored.CaseQty != nil {
		merged.CaseQty = stored.CaseQty
	}

	return merged
}
