package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/normalize"
)

func strp(s string) *string { return &s }

func TestUserDefaultsNullColumns(t *testing.T) {
	t.Parallel()

	u := normalize.User(&gateway.UserRow{ID: "u1", Name: "Amira", Email: "amira@example.com"})
	assert.Equal(t, models.User{ID: "u1", Name: "Amira", Email: "amira@example.com"}, u)

	u = normalize.User(&gateway.UserRow{ID: "u1", Phone: strp("+216 20 123 456"), Bio: strp("hungry")})
	assert.Equal(t, "+216 20 123 456", u.Phone)
	assert.Equal(t, "hungry", u.Bio)

	assert.Equal(t, models.User{}, normalize.User(nil))
}

func TestProductCoercesDecimalStrings(t *testing.T) {
	t.Parallel()

	p := normalize.Product(gateway.ProductRow{
		ID:     "p1",
		Name:   "Couscous",
		Price:  "12.50",
		Rating: "4.5",
	})
	assert.InDelta(t, 12.5, p.Price, 1e-9)
	assert.InDelta(t, 4.5, p.Rating, 1e-9)

	// Garbage decimals normalize to zero rather than erroring.
	p = normalize.Product(gateway.ProductRow{ID: "p1", Price: "not-a-number", Rating: ""})
	assert.Zero(t, p.Price)
	assert.Zero(t, p.Rating)
}

func TestProductCarriesIngredients(t *testing.T) {
	t.Parallel()

	p := normalize.Product(gateway.ProductRow{
		ID:    "p1",
		Price: "5.00",
		Ingredients: []gateway.IngredientRow{
			{Name: "Semolina", Cooked: true, Calories: 360},
			{Name: "Chickpeas"},
		},
	})
	require.Len(t, p.Ingredients, 2)
	assert.Equal(t, "Semolina", p.Ingredients[0].Name)
	assert.True(t, p.Ingredients[0].Cooked)
	assert.InDelta(t, 360.0, p.Ingredients[0].Calories, 1e-9)
}

func TestCartItemsSkipRowsWithoutProduct(t *testing.T) {
	t.Parallel()

	rows := []gateway.CartRow{
		{ID: "c1", Quantity: 2, Product: &gateway.ProductRow{ID: "p1", Name: "Pizza", Price: "9.00"}},
		{ID: "c2", Quantity: 1, Product: nil},
		{ID: "c3", Quantity: 1, Product: &gateway.ProductRow{}},
	}

	items := normalize.CartItems(rows)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].ID)
	assert.Equal(t, "Pizza", items[0].Product.Name)
	assert.InDelta(t, 18.0, items[0].Subtotal(), 1e-9)
}

func TestCartItemSizeFromNullableColumn(t *testing.T) {
	t.Parallel()

	prod := &gateway.ProductRow{ID: "p1", Price: "9.00"}
	items := normalize.CartItems([]gateway.CartRow{
		{ID: "c1", Quantity: 1, Size: strp("L"), Product: prod},
		{ID: "c2", Quantity: 1, Size: nil, Product: prod},
	})
	require.Len(t, items, 2)
	assert.Equal(t, models.SizeLarge, items[0].Size)
	assert.Equal(t, models.Size(""), items[1].Size)
}

func TestOrderUsesOrderNumberAsID(t *testing.T) {
	t.Parallel()

	o := normalize.Order(gateway.OrderRow{
		ID:          "row-uuid",
		OrderNumber: "ORD-1724000000",
		Total:       "36.00",
		DeliveryFee: "2.00",
		Status:      "ongoing",
		Address:     "12 Rue de Carthage",
		Items: []gateway.OrderItemRow{
			{ProductID: "p1", ProductName: "Couscous", UnitPrice: "12.50", Quantity: 2},
		},
	})
	assert.Equal(t, "ORD-1724000000", o.ID)
	assert.InDelta(t, 36.0, o.Total, 1e-9)
	assert.InDelta(t, 2.0, o.DeliveryFee, 1e-9)
	assert.Equal(t, models.OrderStatusOngoing, o.Status)
	assert.Nil(t, o.Courier)
	require.Len(t, o.Items, 1)
	assert.InDelta(t, 12.5, o.Items[0].UnitPrice, 1e-9)
}

func TestOrderCourierOnlyWhenAssigned(t *testing.T) {
	t.Parallel()

	o := normalize.Order(gateway.OrderRow{
		OrderNumber: "ORD-1",
		CourierName: strp("Sami"),
	})
	require.NotNil(t, o.Courier)
	assert.Equal(t, "Sami", o.Courier.Name)
	assert.Empty(t, o.Courier.Avatar)
}

func TestEmptyJoinsNormalizeToEmptySlices(t *testing.T) {
	t.Parallel()

	assert.Empty(t, normalize.Addresses(nil))
	assert.Empty(t, normalize.Products(nil))
	assert.Empty(t, normalize.CartItems(nil))
	assert.Empty(t, normalize.Orders(nil))
	assert.Empty(t, normalize.PaymentMethods(nil))
	assert.Empty(t, normalize.FavoriteSet(nil))

	// Empty, not nil: JSON encodes as [] rather than null.
	assert.NotNil(t, normalize.Products(nil))
}

func TestFavoriteSetCollapsesToMembership(t *testing.T) {
	t.Parallel()

	set := normalize.FavoriteSet([]gateway.FavoriteRow{
		{ID: "f1", UserID: "u1", ProductID: "p1"},
		{ID: "f2", UserID: "u1", ProductID: "p2"},
	})
	assert.Len(t, set, 2)
	_, ok := set["p1"]
	assert.True(t, ok)
	_, ok = set["p3"]
	assert.False(t, ok)
}
