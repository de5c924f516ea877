package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
)

type CheckoutService interface {
	Checkout(userID uint) (model.Order, error)
}

type checkoutService struct {
	db     *gorm.DB
	ledger *InventoryLedger
	email  EmailService
	log    *slog.Logger
}

func NewCheckoutService(db *gorm.DB, ledger *InventoryLedger, email EmailService, log *slog.Logger) CheckoutService {
	return &checkoutService{db: db, ledger: ledger, email: email, log: log}
}

// Checkout converts the user's cart into an order inside one transaction:
// load cart, total it, create order + items with today's prices frozen in,
// reserve stock, clear the cart. Any failure rolls the whole thing back;
// nothing partial is ever visible.
func (s *checkoutService) Checkout(userID uint) (model.Order, error) {
	var order model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		err := tx.Scopes(ownedBy(userID)).Preload("Items.Product").First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		for _, it := range cart.Items {
			total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		order = model.Order{UserID: userID, TotalAmount: total, Status: model.OrderStatusPending}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			items = append(items, model.OrderItem{
				OrderID:         order.ID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				PriceAtPurchase: it.Product.Price,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// Stock is re-read under lock per product; the preloaded snapshot
		// above is only trusted for prices, never for stock.
		for _, it := range cart.Items {
			if err := s.ledger.Reserve(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	s.log.Info("checkout completed", "user_id", userID, "order_id", order.ID, "total", order.TotalAmount)
	s.sendConfirmation(userID, order)
	return order, nil
}

// sendConfirmation mails the buyer after commit. Best effort only; a mail
// failure never affects the placed order.
func (s *checkoutService) sendConfirmation(userID uint, order model.Order) {
	var u model.User
	if err := s.db.First(&u, userID).Error; err != nil {
		return
	}
	body := fmt.Sprintf("Thanks! Your order #%d for a total of %s has been received.",
		order.ID, order.TotalAmount.StringFixed(2))
	if err := s.email.Send(u.Email, "Order confirmation", body); err != nil {
		s.log.Warn("confirmation mail failed", "order_id", order.ID, "err", err)
	}
}
