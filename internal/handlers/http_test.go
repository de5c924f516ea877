package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saniyapatil1704/ecommerce-backend/internal/cache"
	"github.com/saniyapatil1704/ecommerce-backend/internal/middleware"
	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
	"github.com/saniyapatil1704/ecommerce-backend/internal/service"
)

type memIdemStore struct {
	locks, vals map[string]string
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{locks: map[string]string{}, vals: map[string]string{}}
}

func (s *memIdemStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if _, ok := s.locks[k]; ok {
		return false, nil
	}
	s.locks[k] = "1"
	return true, nil
}

func (s *memIdemStore) Forget(_ context.Context, scope, key string) error {
	delete(s.locks, scope+":"+key)
	return nil
}

func (s *memIdemStore) Remember(_ context.Context, scope, key, value string) error {
	s.vals[scope+":"+key] = value
	return nil
}

func (s *memIdemStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := s.vals[scope+":"+key]
	return v, ok, nil
}

var _ cache.IdempotencyStore = (*memIdemStore)(nil)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	idem   *memIdemStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Product{}, &model.Cart{},
		&model.CartItem{}, &model.Order{}, &model.OrderItem{},
	))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := service.NewInventoryLedger(log)
	auth := service.NewAuthService(db, "test-secret", time.Hour)
	email := service.NewEmailService("", "", "")
	idem := newMemIdemStore()

	userH := NewUserHTTP(auth)
	cartH := NewCartHTTP(service.NewCartService(db), service.NewCheckoutService(db, ledger, email, log))
	orderH := NewOrderHTTP(service.NewOrderService(db, ledger, log), idem)

	r := gin.New()
	authMW := middleware.RequireAuth(auth)
	api := r.Group("/api")
	api.POST("/users/register", userH.Register)
	api.POST("/users/login", userH.Login)

	cart := api.Group("/cart", authMW)
	cart.POST("/add", cartH.AddItem)
	cart.GET("/all", cartH.GetItems)
	cart.POST("/checkout", cartH.CheckoutCart)

	orders := api.Group("/orders", authMW)
	orders.POST("/create", orderH.Create)
	orders.GET("/all", orderH.GetAll)
	orders.DELETE("/:id", orderH.Cancel)

	return &testEnv{router: r, db: db, idem: idem}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	creds := gin.H{"email": email, "password": "s3cret-pw"}
	w := e.do(t, http.MethodPost, "/api/users/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/users/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) model.Product {
	t.Helper()
	d, err := decimal.NewFromString(price)
	require.NoError(t, err)
	p := model.Product{Name: name, Price: d, Stock: stock}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "buyer@example.com")
	a := env.seedProduct(t, "Product A", "10.00", 5)
	b := env.seedProduct(t, "Product B", "5.00", 3)

	w := env.do(t, http.MethodPost, "/api/cart/add", token, gin.H{"productId": a.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(t, http.MethodPost, "/api/cart/add", token, gin.H{"productId": b.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/cart/checkout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			TotalAmount decimal.Decimal `json:"totalAmount"`
			Status      string          `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.TotalAmount.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, model.OrderStatusPending, resp.Data.Status)

	var stock model.Product
	require.NoError(t, env.db.First(&stock, a.ID).Error)
	assert.Equal(t, 3, stock.Stock)
}

func TestCheckoutEmptyCartOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "buyer@example.com")

	w := env.do(t, http.MethodPost, "/api/cart/checkout", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "empty")
}

func TestCartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/cart/add", "", gin.H{"productId": 1, "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancelForeignOrderReturns404(t *testing.T) {
	env := newTestEnv(t)
	ownerTok := env.registerAndLogin(t, "owner@example.com")
	otherTok := env.registerAndLogin(t, "other@example.com")
	p := env.seedProduct(t, "Gadget", "10.00", 5)

	w := env.do(t, http.MethodPost, "/api/orders/create", ownerTok, gin.H{
		"totalAmount": "10.00",
		"items": []gin.H{
			{"productId": p.ID, "quantity": 1, "priceAtPurchase": "10.00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, http.MethodDelete, "/api/orders/"+itoa(created.Data.ID), otherTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stock model.Product
	require.NoError(t, env.db.First(&stock, p.ID).Error)
	assert.Equal(t, 4, stock.Stock, "stock must be unchanged after a foreign cancel attempt")
}

func TestCreateOrderIdempotencyKey(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "buyer@example.com")
	p := env.seedProduct(t, "Gadget", "10.00", 5)

	body := gin.H{
		"totalAmount": "20.00",
		"items": []gin.H{
			{"productId": p.ID, "quantity": 2, "priceAtPurchase": "10.00"},
		},
	}

	req := func() *httptest.ResponseRecorder {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodPost, "/api/orders/create", bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("X-Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, r)
		return w
	}

	w := req()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = req()
	assert.Equal(t, http.StatusOK, w.Code, "replay must return the remembered order, not place again")

	var stock model.Product
	require.NoError(t, env.db.First(&stock, p.ID).Error)
	assert.Equal(t, 3, stock.Stock, "stock must be decremented exactly once")
}

func TestCreateOrderIdempotencyKeyRetryableAfterFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "buyer@example.com")
	p := env.seedProduct(t, "Gadget", "10.00", 0)

	body := gin.H{
		"totalAmount": "20.00",
		"items": []gin.H{
			{"productId": p.ID, "quantity": 2, "priceAtPurchase": "10.00"},
		},
	}

	req := func() *httptest.ResponseRecorder {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodPost, "/api/orders/create", bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("X-Idempotency-Key", "key-retry")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, r)
		return w
	}

	w := req()
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

	// restock; the same key must be usable again, not stuck behind the lock
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", p.ID).
		Update("stock", 5).Error)

	w = req()
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "buyer@example.com")

	w := env.do(t, http.MethodPost, "/api/orders/create", token, gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
