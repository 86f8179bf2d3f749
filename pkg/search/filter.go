// Package search implements the screen-level product filter. It operates on
// the in-memory catalog and preserves the original relative order; there is
// no pagination or index at this data scale.
package search

import (
	"strings"

	"github.com/example/fooddash/pkg/models"
)

// DeliveryBucket groups cook times into the delivery-time options the
// filter sheet offers.
type DeliveryBucket string

const (
	BucketFast DeliveryBucket = "10-15 min"
	BucketHour DeliveryBucket = "60 min"
	BucketLong DeliveryBucket = "120 min"
)

// BucketFor derives the delivery-time bucket from a product's cook time.
func BucketFor(cookTime int) DeliveryBucket {
	switch {
	case cookTime <= 15:
		return BucketFast
	case cookTime <= 60:
		return BucketHour
	default:
		return BucketLong
	}
}

// Filter is one filter set. Zero values disable the corresponding criterion:
// empty Query/Category/DeliverTime match everything, MinRating 0 is off, and
// PriceMax 0 leaves the price range unbounded above.
type Filter struct {
	Query       string
	Category    string
	PriceMin    float64
	PriceMax    float64
	MinRating   float64
	DeliverTime DeliveryBucket
}

func (f Filter) matches(p models.Product) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if p.Price < f.PriceMin {
		return false
	}
	if f.PriceMax > 0 && p.Price > f.PriceMax {
		return false
	}
	if f.MinRating > 0 && p.Rating < f.MinRating {
		return false
	}
	if f.DeliverTime != "" && BucketFor(p.CookTime) != f.DeliverTime {
		return false
	}
	return true
}

// Apply returns the matching subsequence in the input's order.
func Apply(products []models.Product, f Filter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}
