package state

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/normalize"
	"go.mongodb.org/mongo-driver/bson"
)

func (a *App) reloadOrders(ctx context.Context, userID string, epoch uint64) error {
	seq := a.stamp(sliceOrders)
	rows, err := a.gw.ListOrders(ctx, userID)
	if err != nil {
		return err
	}
	orders := normalize.Orders(rows)
	a.commit(sliceOrders, epoch, seq, func() { a.orders = orders })
	return nil
}

func orderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}

func dec(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// CreateOrder freezes the current cart into an order. The empty-cart check
// runs before any remote write. Each item's unit price is snapshotted (plus
// the cooked surcharge where it applies), the header and items are written
// atomically, the cart is cleared and both slices are re-read. Returns the
// generated order number.
func (a *App) CreateOrder(ctx context.Context) (string, error) {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	cart := make([]models.CartItem, len(a.cart))
	copy(cart, a.cart)
	var address string
	for _, addr := range a.addresses {
		if addr.ID == a.selectedAddressID {
			address = addr.FullAddress
			break
		}
	}
	a.mu.Unlock()

	if len(cart) == 0 {
		return "", apperr.Domain("state.CreateOrder", "cart is empty", apperr.ErrEmptyCart)
	}

	number := orderNumber()
	var subtotal float64
	items := make([]gateway.OrderItemRow, 0, len(cart))
	for _, it := range cart {
		unit := it.Product.Price
		if it.Cooked {
			unit += a.checkout.CookedSurcharge
		}
		subtotal += unit * float64(it.Quantity)

		row := gateway.OrderItemRow{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			ImageURL:    it.Product.Image,
			UnitPrice:   dec(unit),
			Quantity:    it.Quantity,
			Cooked:      it.Cooked,
		}
		if it.Size != "" {
			s := string(it.Size)
			row.Size = &s
		}
		items = append(items, row)
	}
	total := subtotal + a.checkout.DeliveryFee

	header := &gateway.OrderRow{
		UserID:      userID,
		OrderNumber: number,
		Total:       dec(total),
		DeliveryFee: dec(a.checkout.DeliveryFee),
		Status:      string(models.OrderStatusOngoing),
		Address:     address,
	}
	if err := a.gw.InsertOrder(ctx, header, items); err != nil {
		return "", err
	}
	if err := a.gw.ClearCart(ctx, userID); err != nil {
		return "", err
	}
	a.auditLog(userID, "create_order", number, bson.M{"total": total, "items": len(items)})

	if err := a.reloadCart(ctx, userID, epoch); err != nil {
		return "", err
	}
	if err := a.reloadOrders(ctx, userID, epoch); err != nil {
		return "", err
	}
	return number, nil
}

// CancelOrder transitions an ongoing order to canceled; any other starting
// status is rejected.
func (a *App) CancelOrder(ctx context.Context, orderNumber string) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}

	a.mu.Lock()
	var found *models.Order
	for i := range a.orders {
		if a.orders[i].ID == orderNumber {
			found = &a.orders[i]
			break
		}
	}
	var status models.OrderStatus
	if found != nil {
		status = found.Status
	}
	a.mu.Unlock()

	if found == nil {
		return apperr.Domain("state.CancelOrder", "order not found", apperr.ErrNotFound)
	}
	if status != models.OrderStatusOngoing {
		return apperr.Domain("state.CancelOrder", "only ongoing orders can be canceled", nil)
	}

	if err := a.gw.UpdateOrderStatus(ctx, userID, orderNumber, string(models.OrderStatusCanceled)); err != nil {
		return err
	}
	a.auditLog(userID, "cancel_order", orderNumber, nil)
	return a.reloadOrders(ctx, userID, epoch)
}

func (a *App) Orders() []models.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Order, len(a.orders))
	copy(out, a.orders)
	return out
}
