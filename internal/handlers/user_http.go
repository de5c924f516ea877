package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saniyapatil1704/ecommerce-backend/internal/logging"
	"github.com/saniyapatil1704/ecommerce-backend/internal/service"
)

type UserHTTP struct {
	Auth service.AuthService
}

func NewUserHTTP(auth service.AuthService) *UserHTTP { return &UserHTTP{Auth: auth} }

type credentialsReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *UserHTTP) Register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Email and a password of at least 6 characters are required.")
		return
	}
	u, err := h.Auth.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondErr(c, http.StatusConflict, "Email already registered.")
			return
		}
		logging.From(c).Error("register failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusCreated, "User registered successfully.", gin.H{"id": u.ID, "email": u.Email})
}

func (h *UserHTTP) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Email and password are required.")
		return
	}
	token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondErr(c, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		logging.From(c).Error("login failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusOK, "Login successful.", gin.H{"token": token, "token_type": "Bearer"})
}

func (h *UserHTTP) Profile(c *gin.Context) {
	u, err := h.Auth.Profile(callerID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondErr(c, http.StatusNotFound, "User not found.")
			return
		}
		logging.From(c).Error("profile fetch failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusOK, "Profile fetched successfully.", gin.H{"id": u.ID, "email": u.Email})
}

func (h *UserHTTP) UpdateProfile(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "A valid email is required.")
		return
	}
	u, err := h.Auth.UpdateProfile(callerID(c), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondErr(c, http.StatusNotFound, "User not found.")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			respondErr(c, http.StatusConflict, "Email already registered.")
			return
		}
		logging.From(c).Error("profile update failed", "err", err)
		respondErr(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	respondOK(c, http.StatusOK, "Profile updated successfully.", gin.H{"id": u.ID, "email": req.Email})
}
