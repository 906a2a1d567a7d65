package entities

import (
	"time"
)

// Product is a single catalog entry mirrored from the vendor's master data.
// SKU is the vendor product code and the only identity field; everything
// else is overwritten by later syncs. Products are never deleted by the
// sync engine, stale entries persist until the next feed overwrites them.
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SKU         string  `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Name        string  `gorm:"size:512" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Category    *string `gorm:"size:255" json:"category,omitempty"`

	// BasePrice comes from the bulk feed ("less than case" price).
	BasePrice *float64 `json:"base_price,omitempty"`

	AvailableQty int `gorm:"default:0" json:"available_qty"`
	LocalQty     int `gorm:"default:0" json:"local_qty"`

	ImageURL *string `gorm:"size:1024" json:"image_url,omitempty"`

	// Curated fields, maintained locally and never overwritten by the
	// live lookup path.
	Color          *string    `gorm:"size:128" json:"color,omitempty"`
	Dimensions     *string    `gorm:"size:255" json:"dimensions,omitempty"`
	CaseQty        *int       `json:"case_qty,omitempty"`
	PriceChangedAt *time.Time `json:"price_changed_at,omitempty"`

	LastSynced *time.Time `json:"last_synced,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
