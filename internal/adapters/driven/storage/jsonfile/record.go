package jsonfile

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// itemRecord is the persisted shape of an item.
type itemRecord struct {
	ID            string           `json:"id"`
	CanonicalName string           `json:"canonical_name"`
	Category      string           `json:"category"`
	Brand         string           `json:"brand"`
	UnitSize      string           `json:"unit_size"`
	ExternalID    string           `json:"external_id"`
	ASIN          string           `json:"asin,omitempty"`
	Purchases     []purchaseRecord `json:"purchases"`
}

// purchaseRecord is the persisted shape of a purchase.
type purchaseRecord struct {
	OrderID      string  `json:"order_id"`
	Date         string  `json:"date"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	RawTitle     string  `json:"raw_title"`
}

func toRecord(it *domain.Item) itemRecord {
	r := itemRecord{
		ID:            it.ID,
		CanonicalName: it.CanonicalName,
		Category:      string(it.Category),
		Brand:         it.Brand,
		UnitSize:      it.UnitSize,
		ExternalID:    it.ExternalID,
		Purchases:     make([]purchaseRecord, 0, len(it.Purchases)),
	}
	for _, p := range it.Purchases {
		r.Purchases = append(r.Purchases, purchaseRecord(p))
	}
	return r
}

// toItem applies the load defaults: a fresh id when none was stored, the
// legacy asin key when external_id is absent, "other" for unknown categories
// and a quantity of at least one.
func (r itemRecord) toItem() domain.Item {
	it := domain.Item{
		ID:            r.ID,
		CanonicalName: r.CanonicalName,
		Category:      domain.ParseCategory(r.Category),
		Brand:         r.Brand,
		UnitSize:      r.UnitSize,
		ExternalID:    r.ExternalID,
		Purchases:     make([]domain.Purchase, 0, len(r.Purchases)),
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.ExternalID == "" {
		it.ExternalID = r.ASIN
	}
	for _, p := range r.Purchases {
		if p.Quantity < 1 {
			p.Quantity = 1
		}
		if p.PricePerUnit < 0 {
			p.PricePerUnit = 0
		}
		it.Purchases = append(it.Purchases, domain.Purchase(p))
	}
	return it
}
