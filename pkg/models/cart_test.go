package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/fooddash/pkg/models"
)

func TestCartTotal(t *testing.T) {
	t.Parallel()

	assert.Zero(t, models.CartTotal(nil))

	items := []models.CartItem{
		{Product: models.Product{Price: 12.5}, Quantity: 2},
		{Product: models.Product{Price: 9}, Quantity: 1},
	}
	assert.InDelta(t, 34.0, models.CartTotal(items), 1e-9)
	assert.InDelta(t, 25.0, items[0].Subtotal(), 1e-9)
}
