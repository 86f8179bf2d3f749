package state

import (
	"context"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/normalize"
	"go.mongodb.org/mongo-driver/bson"
)

func (a *App) reloadCart(ctx context.Context, userID string, epoch uint64) error {
	seq := a.stamp(sliceCart)
	rows, err := a.gw.ListCart(ctx, userID)
	if err != nil {
		return err
	}
	items := normalize.CartItems(rows)
	a.commit(sliceCart, epoch, seq, func() { a.cart = items })
	return nil
}

// AddToCart merges on (product, size, cooked): the gateway increments an
// existing row's quantity or inserts a new one, and the slice is re-read so
// the in-memory cart reflects exactly what was persisted.
func (a *App) AddToCart(ctx context.Context, productID string, quantity int, size models.Size, cooked bool) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if productID == "" {
		return apperr.Validation("state.AddToCart", "product id is required")
	}
	if quantity < 1 {
		return apperr.Validation("state.AddToCart", "quantity must be at least 1")
	}

	row := &gateway.CartRow{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Cooked:    cooked,
	}
	if size != "" {
		s := string(size)
		row.Size = &s
	}
	if err := a.gw.UpsertCartItem(ctx, row); err != nil {
		return err
	}
	a.auditLog(userID, "add_to_cart", productID, bson.M{"quantity": quantity, "size": string(size), "cooked": cooked})
	return a.reloadCart(ctx, userID, epoch)
}

// UpdateCartItem sets a row's quantity; zero or less deletes the row, so a
// non-positive quantity is never persisted.
func (a *App) UpdateCartItem(ctx context.Context, cartItemID string, quantity int) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if quantity <= 0 {
		if err := a.gw.DeleteCartRow(ctx, userID, cartItemID); err != nil {
			return err
		}
	} else {
		if err := a.gw.UpdateCartQuantity(ctx, userID, cartItemID, quantity); err != nil {
			return err
		}
	}
	a.auditLog(userID, "update_cart_item", cartItemID, bson.M{"quantity": quantity})
	return a.reloadCart(ctx, userID, epoch)
}

func (a *App) RemoveFromCart(ctx context.Context, cartItemID string) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if err := a.gw.DeleteCartRow(ctx, userID, cartItemID); err != nil {
		return err
	}
	a.auditLog(userID, "remove_from_cart", cartItemID, nil)
	return a.reloadCart(ctx, userID, epoch)
}

func (a *App) ClearCart(ctx context.Context) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if err := a.gw.ClearCart(ctx, userID); err != nil {
		return err
	}
	a.auditLog(userID, "clear_cart", userID, nil)
	return a.reloadCart(ctx, userID, epoch)
}

func (a *App) Cart() []models.CartItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.CartItem, len(a.cart))
	copy(out, a.cart)
	return out
}

// CartTotal is the derived subtotal; the delivery fee is applied only at
// checkout.
func (a *App) CartTotal() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return models.CartTotal(a.cart)
}
