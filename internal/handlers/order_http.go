package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/saniyapatil1704/ecommerce-backend/internal/cache"
	"github.com/saniyapatil1704/ecommerce-backend/internal/logging"
	"github.com/saniyapatil1704/ecommerce-backend/internal/service"
)

type OrderHTTP struct {
	Orders service.OrderService
	// Idem is optional; without it order creation is not idempotency-guarded.
	Idem cache.IdempotencyStore
}

func NewOrderHTTP(orders service.OrderService, idem cache.IdempotencyStore) *OrderHTTP {
	return &OrderHTTP{Orders: orders, Idem: idem}
}

type createOrderReq struct {
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
	Items       []struct {
		ProductID       uint            `json:"productId" binding:"required"`
		Quantity        int             `json:"quantity" binding:"required,gt=0"`
		PriceAtPurchase decimal.Decimal `json:"priceAtPurchase" binding:"required"`
	} `json:"items" binding:"required,min=1,dive"`
}

func (h *OrderHTTP) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Total amount and at least one item are required to create an order.")
		return
	}
	uid := callerID(c)
	scope := strconv.FormatUint(uint64(uid), 10)

	idemKey := c.GetHeader("X-Idempotency-Key")
	if h.Idem != nil && idemKey != "" {
		if orderID, ok, _ := h.Idem.Recall(c.Request.Context(), scope, idemKey); ok {
			respondOK(c, http.StatusOK, "Order already created for this idempotency key.", gin.H{"orderId": orderID})
			return
		}
		locked, err := h.Idem.TryLock(c.Request.Context(), scope, idemKey)
		if err != nil {
			logging.From(c).Warn("idempotency store unavailable", "err", err)
		} else if !locked {
			respondErr(c, http.StatusConflict, "An order with this idempotency key is already in flight.")
			return
		}
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}

	order, err := h.Orders.Create(uid, req.TotalAmount, items)
	if err != nil {
		// release the lock so the same key can be retried once the cause
		// (say, a restock) is resolved
		if h.Idem != nil && idemKey != "" {
			_ = h.Idem.Forget(c.Request.Context(), scope, idemKey)
		}
		var stockErr *service.InsufficientStockError
		if errors.As(err, &stockErr) {
			respondErr(c, http.StatusInternalServerError, stockErr.Error())
			return
		}
		logging.From(c).Error("order create failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}

	if h.Idem != nil && idemKey != "" {
		_ = h.Idem.Remember(c.Request.Context(), scope, idemKey, strconv.FormatUint(uint64(order.ID), 10))
	}
	respondOK(c, http.StatusCreated, "Order created successfully!", order)
}

func (h *OrderHTTP) GetAll(c *gin.Context) {
	orders, err := h.Orders.ListByUser(callerID(c))
	if err != nil {
		logging.From(c).Error("order list failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusOK, "Orders fetched successfully!", orders)
}

// Cancel is exposed as DELETE but soft-cancels: the order row stays, its
// status flips and the stock goes back.
func (h *OrderHTTP) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "Order ID is required to cancel an order.")
		return
	}
	rows, err := h.Orders.Cancel(id, callerID(c))
	if err != nil {
		logging.From(c).Error("order cancel failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if rows == 0 {
		respondErr(c, http.StatusNotFound, "Order not found or you do not have permission to cancel this order.")
		return
	}
	respondOK(c, http.StatusOK, "Order canceled successfully.", nil)
}
