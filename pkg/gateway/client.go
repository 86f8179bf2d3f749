package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/config"
	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// profileCache is the read-through cache in front of the users table.
// RedisRepository implements it; tests substitute an in-memory one.
type profileCache interface {
	CacheProfile(ctx context.Context, userID string, profile interface{}) error
	GetCachedProfile(ctx context.Context, userID string, dest interface{}) error
	InvalidateProfile(ctx context.Context, userID string) error
}

// Client is the gorm-backed Gateway over the hosted relational store.
// Sessions live in redis so tokens survive restarts and expire server-side.
type Client struct {
	db       *gorm.DB
	redis    *repository.RedisRepository
	profiles profileCache
	logger   *zap.Logger
	config   *config.Config
}

// NewClient connects to the hosted store. The redis repository is shared
// with the flag store so sessions and flags live in one place.
func NewClient(cfg *config.Config, logger *zap.Logger, redis *repository.RedisRepository) (*Client, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if err := db.AutoMigrate(
		&UserRow{},
		&ProductRow{},
		&IngredientRow{},
		&AddressRow{},
		&CartRow{},
		&PaymentMethodRow{},
		&FavoriteRow{},
		&OrderRow{},
		&OrderItemRow{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	}

	return &Client{
		db:       db,
		redis:    redis,
		profiles: redis,
		logger:   logger,
		config:   cfg,
	}, nil
}

// Profile.

// GetUser reads through the profile cache: a hit skips MySQL entirely, a
// miss populates the cache for the next read. UpdateUser invalidates.
// Cached rows carry no password hash; auth reads the table directly.
func (c *Client) GetUser(ctx context.Context, userID string) (*UserRow, error) {
	var cached UserRow
	if err := c.profiles.GetCachedProfile(ctx, userID, &cached); err == nil && cached.ID != "" {
		return &cached, nil
	}

	var user UserRow
	if err := c.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Gateway("gateway.GetUser", err)
	}
	if err := c.profiles.CacheProfile(ctx, userID, &user); err != nil {
		c.logger.Warn("Failed to cache profile", zap.String("user_id", userID), zap.Error(err))
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	if err := c.db.WithContext(ctx).Model(&UserRow{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.logger.Error("Failed to update user", zap.String("user_id", userID), zap.Error(err))
		return apperr.Gateway("gateway.UpdateUser", err)
	}
	if err := c.profiles.InvalidateProfile(ctx, userID); err != nil {
		c.logger.Warn("Failed to invalidate cached profile", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// Catalog.

func (c *Client) ListProducts(ctx context.Context) ([]ProductRow, error) {
	var rows []ProductRow
	err := c.db.WithContext(ctx).
		Preload("Ingredients").
		Where("is_available = ?", true).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Gateway("gateway.ListProducts", err)
	}
	return rows, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*ProductRow, error) {
	var row ProductRow
	err := c.db.WithContext(ctx).Preload("Ingredients").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Gateway("gateway.GetProduct", err)
	}
	return &row, nil
}

func (c *Client) ListProductsByCategory(ctx context.Context, category string) ([]ProductRow, error) {
	var rows []ProductRow
	err := c.db.WithContext(ctx).
		Preload("Ingredients").
		Where("category = ? AND is_available = ?", category, true).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Gateway("gateway.ListProductsByCategory", err)
	}
	return rows, nil
}

// Addresses.

func (c *Client) ListAddresses(ctx context.Context, userID string) ([]AddressRow, error) {
	var rows []AddressRow
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Gateway("gateway.ListAddresses", err)
	}
	return rows, nil
}

func (c *Client) InsertAddress(ctx context.Context, row *AddressRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := c.db.WithContext(ctx).Create(row).Error; err != nil {
		return apperr.Gateway("gateway.InsertAddress", err)
	}
	return nil
}

func (c *Client) UpdateAddress(ctx context.Context, row *AddressRow) error {
	res := c.db.WithContext(ctx).
		Model(&AddressRow{}).
		Where("id = ? AND user_id = ?", row.ID, row.UserID).
		Updates(map[string]interface{}{
			"label":        row.Label,
			"full_address": row.FullAddress,
			"street":       row.Street,
			"post_code":    row.PostCode,
			"apartment":    row.Apartment,
		})
	if res.Error != nil {
		return apperr.Gateway("gateway.UpdateAddress", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (c *Client) DeleteAddress(ctx context.Context, userID, addressID string) error {
	res := c.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&AddressRow{})
	if res.Error != nil {
		return apperr.Gateway("gateway.DeleteAddress", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Cart.

func (c *Client) ListCart(ctx context.Context, userID string) ([]CartRow, error) {
	var rows []CartRow
	err := c.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Ingredients").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Gateway("gateway.ListCart", err)
	}
	return rows, nil
}

func (c *Client) UpsertCartItem(ctx context.Context, row *CartRow) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing CartRow
		q := tx.Where("user_id = ? AND product_id = ? AND cooked = ?", row.UserID, row.ProductID, row.Cooked)
		if row.Size != nil {
			q = q.Where("size = ?", *row.Size)
		} else {
			q = q.Where("size IS NULL")
		}
		err := q.First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if row.ID == "" {
				row.ID = uuid.NewString()
			}
			return tx.Create(row).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Update("quantity", existing.Quantity+row.Quantity).Error
	})
	if err != nil {
		c.logger.Error("Failed to upsert cart item",
			zap.String("user_id", row.UserID),
			zap.String("product_id", row.ProductID),
			zap.Error(err))
		return apperr.Gateway("gateway.UpsertCartItem", err)
	}
	return nil
}

func (c *Client) UpdateCartQuantity(ctx context.Context, userID, rowID string, quantity int) error {
	res := c.db.WithContext(ctx).
		Model(&CartRow{}).
		Where("id = ? AND user_id = ?", rowID, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return apperr.Gateway("gateway.UpdateCartQuantity", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (c *Client) DeleteCartRow(ctx context.Context, userID, rowID string) error {
	res := c.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", rowID, userID).
		Delete(&CartRow{})
	if res.Error != nil {
		return apperr.Gateway("gateway.DeleteCartRow", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (c *Client) ClearCart(ctx context.Context, userID string) error {
	if err := c.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartRow{}).Error; err != nil {
		return apperr.Gateway("gateway.ClearCart", err)
	}
	return nil
}

// Payment methods.

func (c *Client) ListPaymentMethods(ctx context.Context, userID string) ([]PaymentMethodRow, error) {
	var rows []PaymentMethodRow
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Gateway("gateway.ListPaymentMethods", err)
	}
	return rows, nil
}

func (c *Client) InsertPaymentMethod(ctx context.Context, row *PaymentMethodRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := c.db.WithContext(ctx).Create(row).Error; err != nil {
		return apperr.Gateway("gateway.InsertPaymentMethod", err)
	}
	return nil
}

func (c *Client) DeletePaymentMethod(ctx context.Context, userID, methodID string) error {
	res := c.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", methodID, userID).
		Delete(&PaymentMethodRow{})
	if res.Error != nil {
		return apperr.Gateway("gateway.DeletePaymentMethod", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Favorites.

func (c *Client) ListFavorites(ctx context.Context, userID string) ([]FavoriteRow, error) {
	var rows []FavoriteRow
	if err := c.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperr.Gateway("gateway.ListFavorites", err)
	}
	return rows, nil
}

func (c *Client) InsertFavorite(ctx context.Context, userID, productID string) error {
	row := FavoriteRow{ID: uuid.NewString(), UserID: userID, ProductID: productID}
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperr.Gateway("gateway.InsertFavorite", err)
	}
	return nil
}

func (c *Client) DeleteFavorite(ctx context.Context, userID, productID string) error {
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&FavoriteRow{}).Error
	if err != nil {
		return apperr.Gateway("gateway.DeleteFavorite", err)
	}
	return nil
}

// Orders.

func (c *Client) ListOrders(ctx context.Context, userID string) ([]OrderRow, error) {
	var rows []OrderRow
	err := c.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Gateway("gateway.ListOrders", err)
	}
	return rows, nil
}

func (c *Client) InsertOrder(ctx context.Context, header *OrderRow, items []OrderItemRow) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if header.ID == "" {
			header.ID = uuid.NewString()
		}
		if err := tx.Create(header).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = uuid.NewString()
			items[i].OrderID = header.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		c.logger.Error("Failed to insert order",
			zap.String("user_id", header.UserID),
			zap.String("order_number", header.OrderNumber),
			zap.Error(err))
		return apperr.Gateway("gateway.InsertOrder", err)
	}
	return nil
}

// UpdateOrderStatus keys on the human-readable order number, which is what
// callers hold once an order leaves checkout. The WHERE clause pins the
// current status to ongoing so a transition racing a remote completion
// affects zero rows instead of overwriting the finished state.
func (c *Client) UpdateOrderStatus(ctx context.Context, userID, orderNumber, status string) error {
	res := c.db.WithContext(ctx).
		Model(&OrderRow{}).
		Where("order_number = ? AND user_id = ? AND status = ?",
			orderNumber, userID, string(models.OrderStatusOngoing)).
		Update("status", status)
	if res.Error != nil {
		return apperr.Gateway("gateway.UpdateOrderStatus", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
