package gateway

import (
	"context"
)

// Session is the authenticated binding handed back by SignIn/SignUp.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Gateway is the remote data gateway: auth plus row-level CRUD on the
// user-scoped collections. The state aggregator is its only caller.
type Gateway interface {
	// Auth.
	SignUp(ctx context.Context, name, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*Session, error)

	// Profile.
	GetUser(ctx context.Context, userID string) (*UserRow, error)
	UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error

	// Catalog (read-only).
	ListProducts(ctx context.Context) ([]ProductRow, error)
	GetProduct(ctx context.Context, id string) (*ProductRow, error)
	ListProductsByCategory(ctx context.Context, category string) ([]ProductRow, error)

	// Addresses.
	ListAddresses(ctx context.Context, userID string) ([]AddressRow, error)
	InsertAddress(ctx context.Context, row *AddressRow) error
	UpdateAddress(ctx context.Context, row *AddressRow) error
	DeleteAddress(ctx context.Context, userID, addressID string) error

	// Cart. UpsertCartItem merges on (product_id, size, cooked): an existing
	// row gets its quantity incremented, otherwise a new row is inserted.
	ListCart(ctx context.Context, userID string) ([]CartRow, error)
	UpsertCartItem(ctx context.Context, row *CartRow) error
	UpdateCartQuantity(ctx context.Context, userID, rowID string, quantity int) error
	DeleteCartRow(ctx context.Context, userID, rowID string) error
	ClearCart(ctx context.Context, userID string) error

	// Payment methods.
	ListPaymentMethods(ctx context.Context, userID string) ([]PaymentMethodRow, error)
	InsertPaymentMethod(ctx context.Context, row *PaymentMethodRow) error
	DeletePaymentMethod(ctx context.Context, userID, methodID string) error

	// Favorites.
	ListFavorites(ctx context.Context, userID string) ([]FavoriteRow, error)
	InsertFavorite(ctx context.Context, userID, productID string) error
	DeleteFavorite(ctx context.Context, userID, productID string) error

	// Orders. InsertOrder writes the header and item snapshots atomically.
	ListOrders(ctx context.Context, userID string) ([]OrderRow, error)
	InsertOrder(ctx context.Context, header *OrderRow, items []OrderItemRow) error
	UpdateOrderStatus(ctx context.Context, userID, orderNumber, status string) error
}
