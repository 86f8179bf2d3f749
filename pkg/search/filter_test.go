package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/search"
)

func catalog() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Couscous", Category: "Tunisian", Price: 12.5, Rating: 4.5, CookTime: 45},
		{ID: "p2", Name: "Pizza Margherita", Category: "Italian", Price: 18.0, Rating: 3.8, CookTime: 12},
		{ID: "p3", Name: "Lablabi", Category: "Tunisian", Price: 6.0, Rating: 3.2, CookTime: 70},
	}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestApplyZeroFilterMatchesEverything(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{})
	assert.Equal(t, []string{"Couscous", "Pizza Margherita", "Lablabi"}, names(got))
}

func TestApplyQueryIsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{Query: "cous"})
	assert.Equal(t, []string{"Couscous"}, names(got))

	got = search.Apply(catalog(), search.Filter{Query: "PIZZA"})
	assert.Equal(t, []string{"Pizza Margherita"}, names(got))

	assert.Empty(t, search.Apply(catalog(), search.Filter{Query: "sushi"}))
}

func TestApplyCategoryIsExactMatch(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{Category: "Tunisian"})
	assert.Equal(t, []string{"Couscous", "Lablabi"}, names(got))

	// Category comparison is exact, not substring.
	assert.Empty(t, search.Apply(catalog(), search.Filter{Category: "Tunis"}))
}

func TestApplyPriceRange(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{PriceMin: 10, PriceMax: 15})
	assert.Equal(t, []string{"Couscous"}, names(got))

	// Bounds are inclusive.
	got = search.Apply(catalog(), search.Filter{PriceMin: 12.5, PriceMax: 12.5})
	assert.Equal(t, []string{"Couscous"}, names(got))

	// PriceMax zero leaves the range open above.
	got = search.Apply(catalog(), search.Filter{PriceMin: 10})
	assert.Equal(t, []string{"Couscous", "Pizza Margherita"}, names(got))
}

func TestApplyMinRating(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{MinRating: 4})
	assert.Equal(t, []string{"Couscous"}, names(got))

	got = search.Apply(catalog(), search.Filter{MinRating: 3.8})
	assert.Equal(t, []string{"Couscous", "Pizza Margherita"}, names(got))
}

func TestApplyDeliveryBucket(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{DeliverTime: search.BucketFast})
	assert.Equal(t, []string{"Pizza Margherita"}, names(got))

	got = search.Apply(catalog(), search.Filter{DeliverTime: search.BucketHour})
	assert.Equal(t, []string{"Couscous"}, names(got))

	got = search.Apply(catalog(), search.Filter{DeliverTime: search.BucketLong})
	assert.Equal(t, []string{"Lablabi"}, names(got))
}

func TestApplyCombinesCriteriaWithAnd(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{
		Category:  "Tunisian",
		PriceMin:  0,
		PriceMax:  15,
		MinRating: 4,
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Couscous", got[0].Name)

	// One failing criterion rejects the product.
	got = search.Apply(catalog(), search.Filter{Category: "Tunisian", MinRating: 5})
	assert.Empty(t, got)
}

func TestApplyPreservesCatalogOrder(t *testing.T) {
	t.Parallel()

	got := search.Apply(catalog(), search.Filter{PriceMax: 20})
	assert.Equal(t, []string{"Couscous", "Pizza Margherita", "Lablabi"}, names(got))
}

func TestBucketFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, search.BucketFast, search.BucketFor(10))
	assert.Equal(t, search.BucketFast, search.BucketFor(15))
	assert.Equal(t, search.BucketHour, search.BucketFor(16))
	assert.Equal(t, search.BucketHour, search.BucketFor(60))
	assert.Equal(t, search.BucketLong, search.BucketFor(61))
	assert.Equal(t, search.BucketLong, search.BucketFor(120))
}
