package router

import (
	"time"

	"makiti/internal/config"
	"makiti/internal/handler"
	"makiti/internal/middleware"
	"makiti/internal/model"
	"makiti/internal/repository"
	"makiti/internal/service"
	"makiti/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
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
	stockRepo := repository.NewStockRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	planRepo := repository.NewWorkPlanRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg, dispatcher)
	catalogSvc := service.NewCatalogService(productRepo, stockRepo, dispatcher)
	stockSvc := service.NewStockService(stockRepo, productRepo, dispatcher)
	categorySvc := service.NewCategoryService(categoryRepo, dispatcher)
	planSvc := service.NewWorkPlanService(planRepo, stockRepo, saleRepo, dispatcher)
	saleSvc := service.NewSaleService(saleRepo, productRepo, stockRepo, planRepo, dispatcher)
	reportSvc := service.NewReportService(saleRepo, rdb, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second)
	userSvc := service.NewUserService(userRepo, dispatcher)
	activitySvc := service.NewActivityService(activityRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	stockH := handler.NewStockHandler(stockSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	plansH := handler.NewWorkPlansHandler(planSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	usersH := handler.NewUsersHandler(userSvc)
	activityH := handler.NewActivityLogsHandler(activitySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Health)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleProprietaire, model.RoleEmploye)
	ownerOnly := middleware.RequireRole(model.RoleProprietaire)

	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog — both roles read, proprietaire writes
		v1.GET("/produits", anyRole, productsH.ListProducts)
		v1.GET("/produits/:id", anyRole, productsH.GetProduct)
		prods := v1.Group("/produits", ownerOnly)
		{
			prods.POST("", productsH.CreateProduct)
			prods.PUT("/:id", productsH.UpdateProduct)
			prods.DELETE("/:id", productsH.DeleteProduct)
		}

		// Stock ledger
		v1.GET("/produits/:id/stock", anyRole, stockH.ListStock)
		v1.POST("/produits/:id/stock/ajuster", ownerOnly, stockH.AjusterStock)
		v1.PUT("/produits/:id/stock", ownerOnly, stockH.SetStock)
		v1.GET("/stock/alertes", anyRole, stockH.ListAlertes)

		// Catégories — both roles read, proprietaire writes
		v1.GET("/categories", anyRole, categoriesH.ListCategories)
		cats := v1.Group("/categories", ownerOnly)
		{
			cats.POST("", categoriesH.CreateCategory)
			cats.PUT("/:id", categoriesH.UpdateCategory)
			cats.DELETE("/:id", categoriesH.DeleteCategory)
		}

		// Plans de travail — the daily workflow belongs to both roles
		// The first segment is a date (YYYY-MM-DD) for the get-or-create read
		// and a plan UUID for the sub-resources; gin requires one wildcard
		// name per position.
		plans := v1.Group("/plans-travail", anyRole)
		{
			plans.GET("/:id", plansH.GetOrCreate)
			plans.PUT("/:id/lignes", plansH.SaveLignes)
			plans.POST("/:id/cloture", plansH.Cloture)
			plans.GET("/:id/pdf", plansH.DownloadPDF)
		}

		// Ventes
		v1.POST("/ventes", anyRole, salesH.Checkout)
		v1.GET("/ventes", anyRole, salesH.ListSales)
		v1.GET("/ventes/:id", anyRole, salesH.GetSale)

		// Rapports — proprietaire only
		v1.GET("/rapports", ownerOnly, reportsH.Summary)
		v1.GET("/rapports/export", ownerOnly, reportsH.ExportCSV)

		// Gestion des comptes — proprietaire only
		v1.POST("/admin/utilisateurs", ownerOnly, usersH.Manage)

		// Journal d'activité — per-action role checks inside the handler
		v1.POST("/activity-logs", anyRole, activityH.Handle)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
