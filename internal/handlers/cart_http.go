package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/logging"
	"github.com/saniyapatil1704/ecommerce-backend/internal/service"
)

type CartHTTP struct {
	Cart     service.CartService
	Checkout service.CheckoutService
}

func NewCartHTTP(cart service.CartService, checkout service.CheckoutService) *CartHTTP {
	return &CartHTTP{Cart: cart, Checkout: checkout}
}

func (h *CartHTTP) AddItem(c *gin.Context) {
	var req struct {
		ProductID uint `json:"productId" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Product id and a positive quantity are required.")
		return
	}
	item, err := h.Cart.AddItem(callerID(c), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondErr(c, http.StatusNotFound, "Product not found.")
			return
		}
		logging.From(c).Error("cart add failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Failed to add item to cart.")
		return
	}
	respondOK(c, http.StatusCreated, "Product added to cart successfully.", item)
}

func (h *CartHTTP) GetItems(c *gin.Context) {
	cart, err := h.Cart.Get(callerID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondErr(c, http.StatusNotFound, "Cart not found or is empty.")
			return
		}
		logging.From(c).Error("cart fetch failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Failed to retrieve cart items.")
		return
	}
	respondOK(c, http.StatusOK, "Cart fetched successfully.", cart)
}

func (h *CartHTTP) UpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, "cartItemId")
	if !ok {
		respondErr(c, http.StatusBadRequest, "A numeric cart item id is required.")
		return
	}
	var req struct {
		Quantity int `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Quantity must be a positive number.")
		return
	}
	item, err := h.Cart.UpdateItem(callerID(c), itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			respondErr(c, http.StatusNotFound, "Cart item not found.")
			return
		}
		logging.From(c).Error("cart update failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Failed to update cart item.")
		return
	}
	respondOK(c, http.StatusOK, "Cart item updated successfully.", item)
}

func (h *CartHTTP) RemoveItem(c *gin.Context) {
	itemID, ok := pathID(c, "cartItemId")
	if !ok {
		respondErr(c, http.StatusBadRequest, "A numeric cart item id is required.")
		return
	}
	if err := h.Cart.RemoveItem(callerID(c), itemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			respondErr(c, http.StatusNotFound, "Cart item not found.")
			return
		}
		logging.From(c).Error("cart remove failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Failed to remove cart item.")
		return
	}
	respondOK(c, http.StatusOK, "Cart item removed successfully.", nil)
}

// CheckoutCart turns the cart into an order. Business failures (empty cart,
// stock shortfall) surface with their message; anything else stays generic.
func (h *CartHTTP) CheckoutCart(c *gin.Context) {
	order, err := h.Checkout.Checkout(callerID(c))
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			respondErr(c, http.StatusInternalServerError, "Your cart is empty.")
		case errors.As(err, &stockErr):
			respondErr(c, http.StatusInternalServerError, stockErr.Error())
		default:
			logging.From(c).Error("checkout failed", "err", err)
			respondErr(c, http.StatusInternalServerError, "An error occurred during checkout.")
		}
		return
	}
	respondOK(c, http.StatusOK, "Checkout successful. Your order has been placed.", order)
}
