package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"column:image_url" json:"imageUrl"`
	UserID      *uint           `gorm:"index" json:"userId"` // seller; null once the seller account is gone
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Cart is created on demand, one per user. Checkout empties it but never
// deletes the row itself.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem holds at most one row per (cart, product); re-adding a product
// bumps the quantity instead.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cartId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	OrderStatusPending  = "pending"
	OrderStatusCanceled = "canceled"
)

// Order is immutable once created, except for Status (pending -> canceled).
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"userId"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Status      string          `gorm:"not null;default:pending" json:"status"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index;not null" json:"orderId"`
	ProductID uint `gorm:"not null" json:"productId"`
	Quantity  int  `gorm:"not null" json:"quantity"`
	// PriceAtPurchase is frozen at order creation and never recomputed from
	// the live product price.
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"priceAtPurchase"`
	Product         Product         `json:"product"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
