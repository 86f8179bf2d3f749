package gateway

import (
	"time"
)

// Row types mirror the hosted store schema: snake_case columns, nullable
// fields as pointers, DECIMAL columns scanned into strings. Shaping them
// into domain types is pkg/normalize's job.

type UserRow struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	Phone        *string   `gorm:"type:varchar(20)" json:"phone"`
	Bio          *string   `gorm:"type:varchar(255)" json:"bio"`
	AvatarURL    *string   `gorm:"column:avatar_url;type:varchar(255)" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UserRow) TableName() string { return "users" }

type ProductRow struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description *string         `gorm:"type:text" json:"description"`
	Price       string          `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	Rating      string          `gorm:"type:decimal(2,1);default:0" json:"rating"`
	CookTime    int             `gorm:"column:cook_time" json:"cook_time"`
	Servings    int             `json:"servings"`
	Category    string          `gorm:"type:varchar(50);index" json:"category"`
	Calories    *float64        `json:"calories"`
	Protein     *float64        `json:"protein"`
	Fiber       *float64        `json:"fiber"`
	Water       *float64        `json:"water"`
	Fat         *float64        `json:"fat"`
	IsAvailable bool            `gorm:"column:is_available;default:true" json:"is_available"`
	Ingredients []IngredientRow `gorm:"foreignKey:ProductID" json:"ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (ProductRow) TableName() string { return "products" }

type IngredientRow struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProductID string  `gorm:"type:varchar(36);index" json:"product_id"`
	Name      string  `gorm:"type:varchar(100)" json:"name"`
	Cooked    bool    `json:"cooked"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Fiber     float64 `json:"fiber"`
	Water     float64 `json:"water"`
	Fat       float64 `json:"fat"`
}

func (IngredientRow) TableName() string { return "ingredients" }

type AddressRow struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Label       string    `gorm:"type:varchar(20)" json:"label"`
	FullAddress string    `gorm:"column:full_address;type:varchar(255)" json:"full_address"`
	Street      string    `gorm:"type:varchar(100)" json:"street"`
	PostCode    string    `gorm:"column:post_code;type:varchar(20)" json:"post_code"`
	Apartment   *string   `gorm:"type:varchar(50)" json:"apartment"`
	IsDefault   bool      `gorm:"column:is_default" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AddressRow) TableName() string { return "addresses" }

// CartRow joins its product on reads. A row with a missing product (deleted
// from the catalog after the add) is skipped during normalization.
type CartRow struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ProductID string      `gorm:"type:varchar(36);not null" json:"product_id"`
	Quantity  int         `gorm:"not null" json:"quantity"`
	Size      *string     `gorm:"type:varchar(1)" json:"size"`
	Cooked    bool        `json:"cooked"`
	Product   *ProductRow `gorm:"foreignKey:ProductID;references:ID" json:"product"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (CartRow) TableName() string { return "cart" }

type PaymentMethodRow struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"`
	CardNumber *string   `gorm:"column:card_number;type:varchar(4)" json:"card_number"`
	CardHolder *string   `gorm:"column:card_holder;type:varchar(100)" json:"card_holder"`
	ExpiryDate *string   `gorm:"column:expiry_date;type:varchar(5)" json:"expiry_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PaymentMethodRow) TableName() string { return "payment_methods" }

type FavoriteRow struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_fav_user_product" json:"user_id"`
	ProductID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_fav_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteRow) TableName() string { return "favorites" }

type OrderRow struct {
	ID            string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	OrderNumber   string         `gorm:"column:order_number;type:varchar(40);uniqueIndex" json:"order_number"`
	Total         string         `gorm:"type:decimal(10,2);not null" json:"total"`
	DeliveryFee   string         `gorm:"column:delivery_fee;type:decimal(10,2)" json:"delivery_fee"`
	Status        string         `gorm:"type:varchar(20);default:'ongoing'" json:"status"`
	Address       string         `gorm:"type:varchar(255)" json:"address"`
	CourierName   *string        `gorm:"column:courier_name;type:varchar(100)" json:"courier_name"`
	CourierAvatar *string        `gorm:"column:courier_avatar;type:varchar(255)" json:"courier_avatar"`
	Items         []OrderItemRow `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (OrderRow) TableName() string { return "orders" }

// OrderItemRow is the checkout-time snapshot; unit_price is frozen here and
// never re-read from the catalog.
type OrderItemRow struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID     string  `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID   string  `gorm:"type:varchar(36)" json:"product_id"`
	ProductName string  `gorm:"column:product_name;type:varchar(100)" json:"product_name"`
	ImageURL    string  `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	UnitPrice   string  `gorm:"column:unit_price;type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Size        *string `gorm:"type:varchar(1)" json:"size"`
	Cooked      bool    `json:"cooked"`
}

func (OrderItemRow) TableName() string { return "order_items" }
