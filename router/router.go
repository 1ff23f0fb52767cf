package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fintrack/api"
	"fintrack/config"
	_ "fintrack/docs"
	"fintrack/logger"
	"fintrack/middleware"
	"fintrack/repository"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies 路由依赖的外部组件，Publisher 为 nil 时不投递超支事件
type Dependencies struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	Publisher service.EventPublisher
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	store := repository.NewStore(deps.DB)
	tokens := middleware.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireTime)
	allocator := service.NewAllocator(cfg.Budget, log)

	authService := service.NewAuthService(store, tokens, allocator, log)
	budgetService := service.NewBudgetService(store, allocator)
	notificationService := service.NewNotificationService(store,
		service.NewEmailService(&cfg.Email), deps.Publisher, cfg.Notification.Timeout, log)
	insightsService := service.NewInsightsService(store,
		service.LinearForecaster{}, cfg.Insights.Horizon, cfg.Insights.Timeout, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.WithComponent(log, logger.ComponentHTTP)))
	r.Use(CORSMiddleware())

	// 健康检查
	r.GET("/health", healthHandler(store))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiGroup := r.Group("/api")

	// 认证相关路由（无需登录）
	authHandler := api.NewAuthHandler(authService)
	auth := apiGroup.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", middleware.LoginRateLimit(cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow), authHandler.Login)
	}

	// 需要 JWT 认证的路由
	authorized := apiGroup.Group("")
	authorized.Use(middleware.JWTAuth(tokens))
	{
		userHandler := api.NewUserHandler(service.NewUserService(store, allocator), authService)
		authorized.GET("/user", userHandler.Profile)
		authorized.PUT("/user/income", userHandler.UpdateIncome)
		authorized.PUT("/user/password", userHandler.ChangePassword)

		expenseHandler := api.NewExpenseHandler(store.Expenses)
		expenses := authorized.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		budgetHandler := api.NewBudgetHandler(budgetService)
		budgets := authorized.Group("/budgets")
		{
			budgets.GET("", budgetHandler.List)
			budgets.POST("", budgetHandler.Create)
			budgets.GET("/categories", budgetHandler.Categories)
			budgets.PUT("/:id", budgetHandler.Update)
			budgets.DELETE("/:id", budgetHandler.Delete)
		}

		goalHandler := api.NewGoalHandler(store.Goals)
		goals := authorized.Group("/goals")
		{
			goals.GET("", goalHandler.List)
			goals.POST("", goalHandler.Create)
			goals.PUT("/:id", goalHandler.Update)
			goals.DELETE("/:id", goalHandler.Delete)
		}

		incomeHandler := api.NewIncomeHandler(store.Incomes)
		incomes := authorized.Group("/income")
		{
			incomes.GET("", incomeHandler.List)
			incomes.POST("", incomeHandler.Create)
			incomes.PUT("/:id", incomeHandler.Update)
			incomes.DELETE("/:id", incomeHandler.Delete)
		}

		recurringHandler := api.NewRecurringExpenseHandler(store.Recurring, service.NewRecurringService(store, log))
		recurring := authorized.Group("/recurring-expenses")
		{
			recurring.GET("", recurringHandler.List)
			recurring.POST("", recurringHandler.Create)
			recurring.POST("/process", recurringHandler.Process)
			recurring.PUT("/:id", recurringHandler.Update)
			recurring.DELETE("/:id", recurringHandler.Delete)
		}

		insightsHandler := api.NewInsightsHandler(insightsService)
		authorized.GET("/insights/predictions", insightsHandler.Predictions)
		authorized.GET("/insights/summary", insightsHandler.Summary)

		authorized.POST("/notifications/send", api.NewNotificationHandler(notificationService).Send)
		authorized.POST("/voice/command", api.NewVoiceHandler(service.NewVoiceService(store)).Command)

		bankHandler := api.NewMockBankHandler(service.NewMockBank(time.Now().UnixNano()))
		bank := authorized.Group("/mock/bank")
		{
			bank.POST("/link", bankHandler.Link)
			bank.GET("/accounts", bankHandler.Accounts)
			bank.GET("/transactions", bankHandler.Transactions)
		}

		exportHandler := api.NewExportHandler(store.Expenses, budgetService)
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler 数据库不可用时返回 503
func healthHandler(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
