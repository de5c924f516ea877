package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/saniyapatil1704/ecommerce-backend/internal/logging"
	"github.com/saniyapatil1704/ecommerce-backend/internal/service"
)

type ProductHTTP struct {
	Products service.ProductService
}

func NewProductHTTP(products service.ProductService) *ProductHTTP {
	return &ProductHTTP{Products: products}
}

type productReq struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"gte=0"`
	ImageURL    string          `json:"imageUrl"`
}

func (r productReq) input() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *ProductHTTP) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Name and price are required; stock must not be negative.")
		return
	}
	p, err := h.Products.Create(callerID(c), req.input())
	if err != nil {
		logging.From(c).Error("product create failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusCreated, "Product created successfully.", p)
}

func (h *ProductHTTP) GetAll(c *gin.Context) {
	ps, err := h.Products.All()
	if err != nil {
		logging.From(c).Error("product list failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusOK, "Products fetched successfully.", ps)
}

func (h *ProductHTTP) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "A numeric product id is required.")
		return
	}
	p, err := h.Products.ByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondErr(c, http.StatusNotFound, "Product not found.")
			return
		}
		logging.From(c).Error("product fetch failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusOK, "Product fetched successfully.", p)
}

func (h *ProductHTTP) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "A numeric product id is required.")
		return
	}
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Name and price are required; stock must not be negative.")
		return
	}
	rows, err := h.Products.Update(id, callerID(c), req.input())
	if err != nil {
		logging.From(c).Error("product update failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if rows == 0 {
		respondErr(c, http.StatusNotFound, "Product not found or you do not have permission to update it.")
		return
	}
	respondOK(c, http.StatusOK, "Product updated successfully.", nil)
}

func (h *ProductHTTP) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondErr(c, http.StatusBadRequest, "A numeric product id is required.")
		return
	}
	rows, err := h.Products.Delete(id, callerID(c))
	if err != nil {
		logging.From(c).Error("product delete failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if rows == 0 {
		respondErr(c, http.StatusNotFound, "Product not found or you do not have permission to delete it.")
		return
	}
	respondOK(c, http.StatusOK, "Product deleted successfully.", nil)
}
