package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"stockroom/internal/entities"
	"stockroom/internal/vendor"
)

// MaxLookupSKUs bounds one live lookup. Enforced here, before the vendor
// client is ever invoked.
const MaxLookupSKUs = 50

// ErrTooManySKUs rejects oversized lookup requests.
var ErrTooManySKUs = fmt.Errorf("too many SKUs: maximum %d per lookup", MaxLookupSKUs)

// ProductStore is the database slice the lookup path needs.
type ProductStore interface {
	FindBySKU(sku string) (*entities.Product, error)
	UpsertProduct(p *entities.Product, withStock bool) (created bool, err error)
	UpdateStock(sku string, availableQty, localQty int) error
}

// LiveClient fetches current product details from the vendor.
type LiveClient interface {
	ProductsBySKUs(ctx context.Context, skus []string, token string) ([]vendor.Product, error)
}

// LookupInput carries one lookup request. Either SKUs or RawInput is set;
// RawInput is free text the user pasted and gets parsed.
type LookupInput struct {
	SKUs     []string
	RawInput string
	Token    string
}

// LookupResult is the merged answer plus the subset of requested SKUs the
// vendor did not recognize.
type LookupResult struct {
	Products       []MergedProduct `json:"products"`
	RequestedCount int             `json:"requestedCount"`
	FoundCount     int             `json:"foundCount"`
	NotFound       []string        `json:"notFound,omitempty"`
}

// Service serves single lookups: live API fetch, merge with the stored
// record, then a narrow stock refresh so availability stays current
// between feed syncs.
type Service struct {
	store  ProductStore
	client LiveClient
}

func NewService(store ProductStore, client LiveClient) *Service {
	return &Service{store: store, client: client}
}

// Lookup resolves up to MaxLookupSKUs identifiers against the live API and
// merges each hit with the local catalog. Independent per request; safe to
// run concurrently with a background sync.
func (s *Service) Lookup(ctx context.Context, input LookupInput) (*LookupResult, error) {
	skus := normalizeSKUs(input)
	if len(skus) == 0 {
		return nil, vendor.ErrNoSKUs
	}
	if len(skus) > MaxLookupSKUs {
		return nil, ErrTooManySKUs
	}

	live, err := s.client.ProductsBySKUs(ctx, skus, input.Token)
	if err != nil {
		return nil, err
	}

	result := &LookupResult{
		Products:       make([]MergedProduct, 0, len(live)),
		RequestedCount: len(skus),
		FoundCount:     len(live),
	}

	found := make(map[string]struct{}, len(live))
	for _, lp := range live {
		found[lp.SKU] = struct{}{}

		stored, err := s.store.FindBySKU(lp.SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[lookup] failed to read product %s: %v", lp.SKU, err)
			stored = nil
		}

		result.Products = append(result.Products, Merge(lp, stored))
		s.refreshStock(lp, stored)
	}

	for _, sku := range skus {
		if _, ok := found[sku]; !ok {
			result.NotFound = append(result.NotFound, sku)
		}
	}

	return result, nil
}

// refreshStock keeps availability fresh after a merge. Existing records
// get a field-limited update that cannot clobber curated fields; unknown
// SKUs are created from the live data, which is their first upsert.
// Failures here are logged, never surfaced: the lookup already succeeded.
func (s *Service) refreshStock(live vendor.Product, stored *entities.Product) {
	if stored != nil {
		if err := s.store.UpdateStock(live.SKU, live.AvailableQty, live.LocalQty); err != nil {
			log.Printf("[lookup] failed to refresh stock for %s: %v", live.SKU, err)
		}
		return
	}

	p := &entities.Product{
		SKU:          live.SKU,
		Name:         live.Name,
		BasePrice:    live.Price,
		AvailableQty: live.AvailableQty,
		LocalQty:     live.LocalQty,
	}
	if live.Name == "" {
		p.Name = live.SKU
	}
	if live.Description != "" {
		p.Description = &live.Description
	}
	if live.ImageURL != "" {
		p.ImageURL = &live.ImageURL
	}
	if _, err := s.store.UpsertProduct(p, true); err != nil {
		log.Printf("[lookup] failed to create product %s: %v", live.SKU, err)
	}
}

func normalizeSKUs(input LookupInput) []string {
	if len(input.SKUs) > 0 {
		skus := make([]string, 0, len(input.SKUs))
		for _, sku := range input.SKUs {
			if trimmed := strings.TrimSpace(sku); trimmed != "" {
				skus = append(skus, trimmed)
			}
		}
		return skus
	}
	return vendor.ParseSKUInput(input.RawInput)
}
