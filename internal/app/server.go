package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/saniyapatil1704/ecommerce-backend/internal/cache"
	"github.com/saniyapatil1704/ecommerce-backend/internal/handlers"
	"github.com/saniyapatil1704/ecommerce-backend/internal/logging"
	"github.com/saniyapatil1704/ecommerce-backend/internal/middleware"
	"github.com/saniyapatil1704/ecommerce-backend/internal/model"
	"github.com/saniyapatil1704/ecommerce-backend/internal/service"
)

func NewServer(cfg Config) (*gin.Engine, func(), error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		if cfg.DB.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		}
		if cfg.DB.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		}
		if cfg.DB.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
		}
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return nil, nil, err
	}

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logging.Init("shop-go", cfg.App.LogFile, cfg.App.LogLevel)

	var rdb *redis.Client
	var idem cache.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		idem = cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	}

	// services
	email := service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
	ledger := service.NewInventoryLedger(log.With("component", "inventory"))
	auth := service.NewAuthService(db, cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	products := service.NewProductService(db)
	carts := service.NewCartService(db)
	checkout := service.NewCheckoutService(db, ledger, email, log.With("component", "checkout"))
	orders := service.NewOrderService(db, ledger, log.With("component", "orders"))

	// handlers
	userH := handlers.NewUserHTTP(auth)
	productH := handlers.NewProductHTTP(products)
	cartH := handlers.NewCartHTTP(carts, checkout)
	orderH := handlers.NewOrderHTTP(orders, idem)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(log.With("component", "http")))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMW := middleware.RequireAuth(auth)
	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", userH.Register)
			users.POST("/login", userH.Login)
			users.GET("/profile", authMW, userH.Profile)
			users.PUT("/profile", authMW, userH.UpdateProfile)
		}

		productsG := api.Group("/products")
		{
			productsG.POST("/create", authMW, productH.Create)
			productsG.GET("/all", productH.GetAll)
			productsG.GET("/:id", productH.GetByID)
			productsG.PUT("/:id", authMW, productH.Update)
			productsG.DELETE("/:id", authMW, productH.Delete)
		}

		cart := api.Group("/cart", authMW)
		{
			cart.POST("/add", cartH.AddItem)
			cart.GET("/all", cartH.GetItems)
			cart.PUT("/update/:cartItemId", cartH.UpdateItem)
			cart.DELETE("/remove/:cartItemId", cartH.RemoveItem)
			cart.POST("/checkout", cartH.CheckoutCart)
		}

		ordersG := api.Group("/orders", authMW)
		{
			ordersG.POST("/create", orderH.Create)
			ordersG.GET("/all", orderH.GetAll)
			ordersG.DELETE("/:id", orderH.Cancel)
		}
	}

	cleanup := func() {
		if s, err := db.DB(); err == nil {
			_ = s.Close()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}
	return r, cleanup, nil
}
