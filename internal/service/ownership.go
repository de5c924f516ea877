package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
)

// ownedBy scopes a query to rows belonging to the given user. Queries built
// on it return zero rows for both "absent" and "owned by someone else", so
// the two cases stay indistinguishable to callers.
func ownedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	}
}

// ownedCartItem loads a cart item only when its parent cart belongs to the
// user. Used by every cart-item write, inside the write's own transaction.
func ownedCartItem(tx *gorm.DB, userID, cartItemID uint) (model.CartItem, error) {
	var item model.CartItem
	err := tx.
		Joins("JOIN carts ON carts.id = cart_items.cart_id AND carts.user_id = ?", userID).
		First(&item, "cart_items.id = ?", cartItemID).Error
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// forUpdate adds a row lock on dialects that support it. SQLite, used by the
// test suite, serializes writers itself and rejects FOR UPDATE syntax.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
