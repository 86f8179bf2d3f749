package models

// Size is the portion option on a cart item.
type Size string

const (
	SizeSmall  Size = "S"
	SizeMedium Size = "M"
	SizeLarge  Size = "L"
)

// CartItem is one persisted cart row with its joined product.
// The (Product.ID, Size, Cooked) triple is the merge key: adding the same
// triple again increments Quantity instead of creating a second row.
type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     Size    `json:"size,omitempty"`
	Cooked   bool    `json:"cooked"`
}

// Subtotal returns the price contribution of this row.
func (c CartItem) Subtotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}

// CartTotal sums product price times quantity over all items. The delivery
// fee is not part of the cart total; it is added at checkout only.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}
