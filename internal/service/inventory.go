package service

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
)

// InventoryLedger owns the stock >= 0 invariant. Both methods operate on a
// transaction held by the caller; a Reserve failure must abort that whole
// transaction.
type InventoryLedger struct {
	log *slog.Logger
}

func NewInventoryLedger(log *slog.Logger) *InventoryLedger {
	return &InventoryLedger{log: log}
}

// Reserve re-reads the product row under a row lock, verifies sufficiency
// and decrements stock. The read is deliberately fresh, never a snapshot
// taken earlier in the transaction, so concurrent checkouts cannot both see
// the same stock figure.
func (l *InventoryLedger) Reserve(tx *gorm.DB, productID uint, qty int) error {
	var p model.Product
	if err := forUpdate(tx).First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &InsufficientStockError{ProductID: productID, Requested: qty}
		}
		return err
	}
	if p.Stock < qty {
		return &InsufficientStockError{ProductID: p.ID, Name: p.Name, Requested: qty, Available: p.Stock}
	}
	return tx.Model(&model.Product{}).Where("id = ?", p.ID).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error
}

// Release returns previously consumed stock. A vanished product is tolerated:
// logged and skipped, asymmetric with Reserve.
func (l *InventoryLedger) Release(tx *gorm.DB, productID uint, qty int) error {
	var p model.Product
	if err := forUpdate(tx).First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.log.Warn("release skipped, product gone", "product_id", productID, "qty", qty)
			return nil
		}
		return err
	}
	return tx.Model(&model.Product{}).Where("id = ?", p.ID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}
