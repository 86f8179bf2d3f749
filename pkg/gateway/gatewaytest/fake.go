// Package gatewaytest provides an in-memory Gateway for tests. It honors the
// same contract as the real client: merge-on-key cart upserts, user-scoped
// deletes and joined cart reads.
package gatewaytest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/gateway"
)

type Fake struct {
	mu        sync.Mutex
	nextID    int
	users     map[string]*gateway.UserRow
	passwords map[string]string // email -> password
	sessions  map[string]*gateway.Session
	products  map[string]*gateway.ProductRow
	addresses []gateway.AddressRow
	cart      []gateway.CartRow
	payments  []gateway.PaymentMethodRow
	favorites []gateway.FavoriteRow
	orders    []gateway.OrderRow

	insertOrderCalls  int
	listCartIntercept chan chan struct{}
}

var _ gateway.Gateway = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		users:     make(map[string]*gateway.UserRow),
		passwords: make(map[string]string),
		sessions:  make(map[string]*gateway.Session),
		products:  make(map[string]*gateway.ProductRow),
	}
}

func (f *Fake) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// SeedUser registers an account without opening a session.
func (f *Fake) SeedUser(name, email, password string) *gateway.UserRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := &gateway.UserRow{ID: f.id("user"), Name: name, Email: email}
	f.users[row.ID] = row
	f.passwords[email] = password
	return row
}

// SeedProduct adds a catalog row. Price and rating are DECIMAL strings, as
// the store returns them.
func (f *Fake) SeedProduct(id, name, category, price, rating string, cookTime int) *gateway.ProductRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := &gateway.ProductRow{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       price,
		Rating:      rating,
		CookTime:    cookTime,
		Servings:    2,
		IsAvailable: true,
	}
	f.products[id] = row
	return row
}

// SetProductPrice mutates a catalog row in place, simulating a price change
// after items referencing it were ordered.
func (f *Fake) SetProductPrice(id, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		p.Price = price
	}
}

// InsertOrderCalls reports how many times InsertOrder ran.
func (f *Fake) InsertOrderCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertOrderCalls
}

// InterceptListCart makes each subsequent ListCart call read the rows and
// then park until released, simulating a response that was computed remotely
// but delivered late. Every parked call sends its release channel on ch, in
// call order. Pass nil to stop intercepting.
func (f *Fake) InterceptListCart(ch chan chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCartIntercept = ch
}

// Auth.

func (f *Fake) SignUp(ctx context.Context, name, email, password string) (*gateway.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := f.passwords[email]; ok {
		return nil, apperr.Auth("gatewaytest.SignUp", "email already registered", apperr.ErrEmailTaken)
	}
	row := &gateway.UserRow{ID: f.id("user"), Name: name, Email: email}
	f.users[row.ID] = row
	f.passwords[email] = password
	return f.openSessionLocked(row), nil
}

func (f *Fake) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	stored, ok := f.passwords[email]
	if !ok || stored != password {
		return nil, apperr.Auth("gatewaytest.SignIn", "invalid credentials", apperr.ErrInvalidCredentials)
	}
	for _, u := range f.users {
		if u.Email == email {
			return f.openSessionLocked(u), nil
		}
	}
	return nil, apperr.Auth("gatewaytest.SignIn", "invalid credentials", apperr.ErrInvalidCredentials)
}

func (f *Fake) openSessionLocked(user *gateway.UserRow) *gateway.Session {
	s := &gateway.Session{Token: f.id("tok"), UserID: user.ID, Email: user.Email}
	f.sessions[s.Token] = s
	return s
}

func (f *Fake) SignOut(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *Fake) GetSession(ctx context.Context, token string) (*gateway.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, apperr.Auth("gatewaytest.GetSession", "session expired", apperr.ErrSessionExpired)
	}
	return s, nil
}

// Profile.

func (f *Fake) GetUser(ctx context.Context, userID string) (*gateway.UserRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.users[userID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *row
	return &out, nil
}

func (f *Fake) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	if v, ok := updates["name"].(string); ok {
		row.Name = v
	}
	if v, ok := updates["phone"].(string); ok {
		row.Phone = &v
	}
	if v, ok := updates["bio"].(string); ok {
		row.Bio = &v
	}
	if v, ok := updates["avatar_url"].(string); ok {
		row.AvatarURL = &v
	}
	return nil
}

// Catalog.

func (f *Fake) ListProducts(ctx context.Context) ([]gateway.ProductRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gateway.ProductRow, 0, len(f.products))
	for _, p := range f.products {
		if p.IsAvailable {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *Fake) GetProduct(ctx context.Context, id string) (*gateway.ProductRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (f *Fake) ListProductsByCategory(ctx context.Context, category string) ([]gateway.ProductRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gateway.ProductRow
	for _, p := range f.products {
		if p.Category == category && p.IsAvailable {
			out = append(out, *p)
		}
	}
	return out, nil
}

// Addresses.

func (f *Fake) ListAddresses(ctx context.Context, userID string) ([]gateway.AddressRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gateway.AddressRow
	for _, a := range f.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *Fake) InsertAddress(ctx context.Context, row *gateway.AddressRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == "" {
		row.ID = f.id("addr")
	}
	f.addresses = append(f.addresses, *row)
	return nil
}

func (f *Fake) UpdateAddress(ctx context.Context, row *gateway.AddressRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.addresses {
		if f.addresses[i].ID == row.ID && f.addresses[i].UserID == row.UserID {
			updated := *row
			updated.IsDefault = f.addresses[i].IsDefault
			f.addresses[i] = updated
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *Fake) DeleteAddress(ctx context.Context, userID, addressID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.addresses {
		if f.addresses[i].ID == addressID && f.addresses[i].UserID == userID {
			f.addresses = append(f.addresses[:i], f.addresses[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// Cart.

func sizeKey(size *string) string {
	if size == nil {
		return ""
	}
	return *size
}

func (f *Fake) ListCart(ctx context.Context, userID string) ([]gateway.CartRow, error) {
	f.mu.Lock()
	var out []gateway.CartRow
	for _, row := range f.cart {
		if row.UserID != userID {
			continue
		}
		copied := row
		if p, ok := f.products[row.ProductID]; ok {
			prod := *p
			copied.Product = &prod
		} else {
			copied.Product = nil
		}
		out = append(out, copied)
	}
	intercept := f.listCartIntercept
	f.mu.Unlock()

	if intercept != nil {
		release := make(chan struct{})
		intercept <- release
		<-release
	}
	return out, nil
}

func (f *Fake) UpsertCartItem(ctx context.Context, row *gateway.CartRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		existing := &f.cart[i]
		if existing.UserID == row.UserID &&
			existing.ProductID == row.ProductID &&
			existing.Cooked == row.Cooked &&
			sizeKey(existing.Size) == sizeKey(row.Size) {
			existing.Quantity += row.Quantity
			return nil
		}
	}
	if row.ID == "" {
		row.ID = f.id("cart")
	}
	f.cart = append(f.cart, *row)
	return nil
}

func (f *Fake) UpdateCartQuantity(ctx context.Context, userID, rowID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ID == rowID && f.cart[i].UserID == userID {
			f.cart[i].Quantity = quantity
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *Fake) DeleteCartRow(ctx context.Context, userID, rowID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ID == rowID && f.cart[i].UserID == userID {
			f.cart = append(f.cart[:i], f.cart[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *Fake) ClearCart(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []gateway.CartRow
	for _, row := range f.cart {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	f.cart = kept
	return nil
}

// Payment methods.

func (f *Fake) ListPaymentMethods(ctx context.Context, userID string) ([]gateway.PaymentMethodRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gateway.PaymentMethodRow
	for _, m := range f.payments {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *Fake) InsertPaymentMethod(ctx context.Context, row *gateway.PaymentMethodRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == "" {
		row.ID = f.id("pay")
	}
	f.payments = append(f.payments, *row)
	return nil
}

func (f *Fake) DeletePaymentMethod(ctx context.Context, userID, methodID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.payments {
		if f.payments[i].ID == methodID && f.payments[i].UserID == userID {
			f.payments = append(f.payments[:i], f.payments[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// Favorites.

func (f *Fake) ListFavorites(ctx context.Context, userID string) ([]gateway.FavoriteRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gateway.FavoriteRow
	for _, row := range f.favorites {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *Fake) InsertFavorite(ctx context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites = append(f.favorites, gateway.FavoriteRow{ID: f.id("fav"), UserID: userID, ProductID: productID})
	return nil
}

func (f *Fake) DeleteFavorite(ctx context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.favorites {
		if f.favorites[i].UserID == userID && f.favorites[i].ProductID == productID {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

// Orders.

func (f *Fake) ListOrders(ctx context.Context, userID string) ([]gateway.OrderRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gateway.OrderRow
	for _, row := range f.orders {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *Fake) InsertOrder(ctx context.Context, header *gateway.OrderRow, items []gateway.OrderItemRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertOrderCalls++
	if header.ID == "" {
		header.ID = f.id("order")
	}
	stored := *header
	stored.Items = make([]gateway.OrderItemRow, len(items))
	for i, it := range items {
		it.ID = f.id("item")
		it.OrderID = stored.ID
		stored.Items[i] = it
	}
	f.orders = append(f.orders, stored)
	return nil
}

// UpdateOrderStatus only moves orders out of "ongoing"; a finished order is
// never overwritten, matching the store-side guard.
func (f *Fake) UpdateOrderStatus(ctx context.Context, userID, orderNumber, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].OrderNumber == orderNumber &&
			f.orders[i].UserID == userID &&
			f.orders[i].Status == "ongoing" {
			f.orders[i].Status = status
			return nil
		}
	}
	return apperr.ErrNotFound
}
