package service

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
)

// OrderItemInput is one line of an explicit-item order, placed without going
// through a stored cart.
type OrderItemInput struct {
	ProductID       uint
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

type OrderService interface {
	Create(userID uint, totalAmount decimal.Decimal, items []OrderItemInput) (model.Order, error)
	ListByUser(userID uint) ([]model.Order, error)
	Cancel(orderID, userID uint) (int64, error)
}

type orderService struct {
	db     *gorm.DB
	ledger *InventoryLedger
	log    *slog.Logger
}

func NewOrderService(db *gorm.DB, ledger *InventoryLedger, log *slog.Logger) OrderService {
	return &orderService{db: db, ledger: ledger, log: log}
}

// Create places an order from an explicit item list. Stock is validated and
// reserved for every line before the order row exists; any shortfall aborts
// the whole transaction.
func (s *orderService) Create(userID uint, totalAmount decimal.Decimal, items []OrderItemInput) (model.Order, error) {
	var order model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			if err := s.ledger.Reserve(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		order = model.Order{UserID: userID, TotalAmount: totalAmount, Status: model.OrderStatusPending}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		rows := make([]model.OrderItem, 0, len(items))
		for _, it := range items {
			rows = append(rows, model.OrderItem{
				OrderID:         order.ID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				PriceAtPurchase: it.PriceAtPurchase,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		order.Items = rows
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	s.log.Info("order created", "user_id", userID, "order_id", order.ID, "items", len(order.Items))
	return order, nil
}

func (s *orderService) ListByUser(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.Scopes(ownedBy(userID)).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Cancel releases the order's stock and flips its status to canceled, in one
// transaction. It matches pending orders owned by the caller only, so a
// wrong owner, a missing order or a second cancel all return 0 rows, leave
// stock untouched, and are not errors.
func (s *orderService) Cancel(orderID, userID uint) (int64, error) {
	var affected int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The order row itself is locked so a concurrent cancel blocks here
		// and re-reads a status that is no longer pending.
		var order model.Order
		err := forUpdate(tx).
			Where("id = ? AND user_id = ? AND status = ?", orderID, userID, model.OrderStatusPending).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			affected = 0
			return nil
		}
		if err != nil {
			return err
		}

		var items []model.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, it := range items {
			if err := s.ledger.Release(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		res := tx.Model(&model.Order{}).
			Where("id = ? AND user_id = ? AND status = ?", orderID, userID, model.OrderStatusPending).
			Update("status", model.OrderStatusCanceled)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		s.log.Info("order canceled", "user_id", userID, "order_id", orderID)
	}
	return affected, nil
}
