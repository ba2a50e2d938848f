package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/josecarlos19/top-vendas-sub000/internal/config"
	"github.com/josecarlos19/top-vendas-sub000/internal/handler"
	"github.com/josecarlos19/top-vendas-sub000/internal/middleware"
	"github.com/josecarlos19/top-vendas-sub000/internal/repository"
	"github.com/josecarlos19/top-vendas-sub000/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	stockSvc := service.NewStockService(movementRepo)
	productSvc := service.NewProductService(productRepo, stockSvc)
	customerSvc := service.NewCustomerService(customerRepo)
	saleSvc := service.NewSaleService(saleRepo, installmentRepo, productRepo, stockSvc)
	installmentSvc := service.NewInstallmentService(installmentRepo, saleRepo)
	bookletSvc := service.NewBookletService(saleRepo, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	customerH := handler.NewCustomerHandler(customerSvc)
	saleH := handler.NewSaleHandler(saleSvc, bookletSvc)
	installmentH := handler.NewInstallmentHandler(installmentSvc)
	stockH := handler.NewStockHandler(stockSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	read := middleware.RequireRole("admin", "seller")
	write := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		// Sales — sellers register and manage their sales
		v1.POST("/sales", read, saleH.Create)
		v1.GET("/sales", read, saleH.List)
		v1.GET("/sales/:id", read, saleH.Get)
		v1.PATCH("/sales/:id", read, saleH.Update)
		v1.DELETE("/sales/:id", write, saleH.Remove)
		v1.GET("/sales/:id/booklet", read, saleH.Booklet)
		v1.GET("/sales/:id/installments", read, installmentH.ListBySale)

		// Installment settlement
		v1.PATCH("/installments/:id/status", read, installmentH.SetStatus)

		// Products — reads open to both roles, writes admin only
		v1.GET("/products", read, productH.List)
		v1.GET("/products/:id", read, productH.Get)
		products := v1.Group("/products", write)
		{
			products.POST("", productH.Create)
			products.PUT("/:id", productH.Update)
			products.DELETE("/:id", productH.Remove)
		}

		// Customers
		v1.GET("/customers", read, customerH.List)
		v1.GET("/customers/:id", read, customerH.Get)
		v1.POST("/customers", read, customerH.Create)
		v1.PUT("/customers/:id", read, customerH.Update)
		v1.DELETE("/customers/:id", write, customerH.Remove)

		// Stock ledger
		v1.GET("/stock/movements", read, stockH.ListMovements)
		v1.GET("/stock/:product_id", read, stockH.CurrentStock)
		v1.POST("/stock/movements", write, stockH.RegisterMovement)
	}

	return r
}
