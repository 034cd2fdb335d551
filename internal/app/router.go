// Package app assembles the HTTP router from the store, services and handlers.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"hisaab/internal/cache"
	"hisaab/internal/config"
	_ "hisaab/internal/docs" // Import swagger docs
	"hisaab/internal/handlers"
	"hisaab/internal/metrics"
	"hisaab/internal/middleware"
	"hisaab/internal/models"
	"hisaab/internal/objectstore"
	"hisaab/internal/services"
	"hisaab/internal/store"
	"hisaab/internal/validator"
)

// Dependencies are the long-lived components the router is built from.
type Dependencies struct {
	Config    *config.Config
	Store     *store.Store
	Blocklist cache.TokenBlocklist
	Objects   objectstore.ObjectStorage
	Log       *zap.SugaredLogger
}

// NewRouter wires services and handlers onto a gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Log

	// Services
	userService := services.NewUserService(deps.Store)
	auditService := services.NewAuditService(log.Named("audit"))
	backupService := services.NewBackupService(
		deps.Store,
		deps.Objects,
		validator.NewRecordValidator(),
		deps.Config.BackupRetention,
		log.Named("backup"),
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, deps.Blocklist)
	loanHandler := handlers.NewLoanHandler(deps.Store, auditService)
	creditHandler := handlers.NewCustomerCreditHandler(deps.Store, auditService)
	backupHandler := handlers.NewBackupHandler(backupService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(log.Named("http")))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", middleware.MetricsAuthMiddleware(deps.Config.MetricsAPIKey), gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Blocklist))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/biometric", authHandler.SetBiometric)
	protected.DELETE("/profile/data", authHandler.ClearData)

	s := deps.Store
	handlers.NewResourceHandler[models.CreditCard](s.CreditCards, auditService, "credit_card").
		Routes(protected.Group("/credit-cards"))
	handlers.NewResourceHandler[models.DebitCard](s.DebitCards, auditService, "debit_card").
		Routes(protected.Group("/debit-cards"))
	handlers.NewResourceHandler[models.BankAccount](s.BankAccounts, auditService, "bank_account").
		Routes(protected.Group("/bank-accounts"))
	handlers.NewResourceHandler[models.Password](s.Passwords, auditService, "password").
		Routes(protected.Group("/passwords"))
	handlers.NewResourceHandler[models.Expense](s.Expenses, auditService, "expense").
		Routes(protected.Group("/expenses"))
	handlers.NewResourceHandler[models.DailySales](s.DailySales, auditService, "daily_sales").
		Routes(protected.Group("/daily-sales"))
	handlers.NewResourceHandler[models.Document](s.Documents, auditService, "document").
		Routes(protected.Group("/documents"))

	credits := protected.Group("/customer-credits")
	handlers.NewResourceHandler[models.CustomerCredit](s.CustomerCredits, auditService, "customer_credit").
		Routes(credits)
	credits.POST("/:id/paid", creditHandler.MarkPaid)

	loanHandler.Routes(protected)
	backupHandler.Routes(protected)

	return router
}
