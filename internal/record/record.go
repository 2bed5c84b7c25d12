// Package record defines the shared data contracts of the quote database:
// the immutable QuoteRecord line item, the ItemGroup aggregate, the
// FilterCriteria predicate bag, and the cache freshness metadata.
//
// Records are created once at ingestion and never mutated afterward.
// The dataset is replaced wholesale on refresh, never patched in place.
package record

import (
	"fmt"
	"time"
)

// QuoteRecord is one vendor-quote line item tied to a construction project.
//
// OrderDate is either empty or exactly 8 numeric characters (YYYYMMDD).
// String comparison on that format is equivalent to chronological comparison,
// which the engine relies on for date-range filtering and member ordering.
type QuoteRecord struct {
	Region    string  `json:"region"`
	Project   string  `json:"project"`
	MajorCode string  `json:"majorCode"`
	MinorCode string  `json:"minorCode"`
	Item      string  `json:"item"`
	Spec      string  `json:"spec"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Vendor    string  `json:"vendor"`
	OrderDate string  `json:"orderDate"`

	// Building attributes of the source project. All non-negative;
	// zero means "not recorded".
	Floors           float64 `json:"floors"`
	UnitRows         float64 `json:"unitRows"`
	Units            float64 `json:"units"`
	ConstructionArea float64 `json:"constructionArea"`
	TotalFloorArea   float64 `json:"totalFloorArea"`
}

// Validate checks the record invariants: OrderDate shape and non-negative
// numeric fields. Returns nil for a well-formed record.
func (r QuoteRecord) Validate() error {
	if !ValidOrderDate(r.OrderDate) {
		return fmt.Errorf("order date %q: must be empty or 8 numeric characters", r.OrderDate)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"quantity", r.Quantity},
		{"unitPrice", r.UnitPrice},
		{"floors", r.Floors},
		{"unitRows", r.UnitRows},
		{"units", r.Units},
		{"constructionArea", r.ConstructionArea},
		{"totalFloorArea", r.TotalFloorArea},
	} {
		if f.value < 0 {
			return fmt.Errorf("%s: negative value %v", f.name, f.value)
		}
	}
	return nil
}

// ValidOrderDate reports whether s satisfies the order-date invariant:
// empty, or exactly 8 ASCII digits.
func ValidOrderDate(s string) bool {
	if s == "" {
		return true
	}
	if len(s) != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ItemGroup aggregates records sharing the composite key (item, spec).
//
// Records are kept sorted ascending by order date (empty dates first).
// The derived price statistics cover the member records and are recomputed
// on every filter pass; groups are never persisted.
type ItemGroup struct {
	Item    string        `json:"item"`
	Spec    string        `json:"spec"`
	Unit    string        `json:"unit"`
	Records []QuoteRecord `json:"records"`

	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	AvgPrice float64 `json:"avgPrice"`
}

// Key returns the composite grouping key.
func (g ItemGroup) Key() string {
	return g.Item + "|" + g.Spec
}

// Count returns the number of member records.
func (g ItemGroup) Count() int {
	return len(g.Records)
}

// CacheMetadata describes a persisted dataset snapshot: its freshness
// fingerprint, size, and write time. Stored in the meta collection
// alongside the records.
type CacheMetadata struct {
	Version     string    `json:"version"`
	RecordCount int       `json:"recordCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}
