package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
)

type CartService interface {
	AddItem(userID, productID uint, qty int) (model.CartItem, error)
	Get(userID uint) (model.Cart, error)
	UpdateItem(userID, cartItemID uint, qty int) (model.CartItem, error)
	RemoveItem(userID, cartItemID uint) error
}

type cartService struct{ db *gorm.DB }

func NewCartService(db *gorm.DB) CartService { return &cartService{db: db} }

// AddItem puts a product in the user's cart, creating the cart on first use.
// Re-adding a product increments the existing row instead of duplicating it.
func (s *cartService) AddItem(userID, productID uint, qty int) (model.CartItem, error) {
	if qty <= 0 {
		return model.CartItem{}, fmt.Errorf("quantity must be > 0")
	}

	var out model.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Where(model.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
			return err
		}

		var product model.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var item model.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = model.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&item).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Product").First(&out, item.ID).Error
	})
	return out, err
}

// Get returns the user's cart with items and product details. A user who
// never added anything has no cart; that surfaces as ErrRecordNotFound.
func (s *cartService) Get(userID uint) (model.Cart, error) {
	var cart model.Cart
	err := s.db.Scopes(ownedBy(userID)).
		Preload("Items.Product").
		First(&cart).Error
	return cart, err
}

func (s *cartService) UpdateItem(userID, cartItemID uint, qty int) (model.CartItem, error) {
	if qty <= 0 {
		return model.CartItem{}, fmt.Errorf("quantity must be > 0")
	}

	var out model.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := ownedCartItem(tx, userID, cartItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}
		if err := tx.Model(&item).Update("quantity", qty).Error; err != nil {
			return err
		}
		return tx.Preload("Product").First(&out, item.ID).Error
	})
	return out, err
}

func (s *cartService) RemoveItem(userID, cartItemID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := ownedCartItem(tx, userID, cartItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}
		return tx.Delete(&model.CartItem{}, item.ID).Error
	})
}
