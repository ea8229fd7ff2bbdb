package router

import (
	"time"

	"ledger/api"
	"ledger/config"
	_ "ledger/docs"
	"ledger/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 科目/账户
			accountHandler := api.NewAccountHandler()
			accounts := authorized.Group("/accounts")
			{
				accounts.POST("", accountHandler.Create)
				accounts.GET("", accountHandler.List)
				accounts.GET("/balances", accountHandler.Balances)
				accounts.PUT("/:id", accountHandler.Update)
				accounts.POST("/:id/deactivate", accountHandler.Deactivate)
			}

			// 交易
			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.POST("/:id/clear", transactionHandler.Clear)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			// 信用卡核销
			settlementHandler := api.NewSettlementHandler()
			settlements := authorized.Group("/settlements")
			{
				settlements.POST("", settlementHandler.Settle)
				settlements.GET("/pending", settlementHandler.ListUnsettled)
			}

			// 结账期间
			periodHandler := api.NewPeriodHandler(cfg)
			periods := authorized.Group("/periods")
			{
				periods.GET("", periodHandler.Status)
				periods.POST("/close", periodHandler.Close)
				periods.POST("/reopen", periodHandler.Reopen)
			}

			// 工程项目
			jobHandler := api.NewJobHandler()
			jobs := authorized.Group("/jobs")
			{
				jobs.POST("", jobHandler.Create)
				jobs.GET("", jobHandler.List)
				jobs.PUT("/:id", jobHandler.Update)
				jobs.GET("/:id/profit", jobHandler.Profit)
			}

			// 房产项目
			dealHandler := api.NewDealHandler()
			deals := authorized.Group("/deals")
			{
				deals.POST("", dealHandler.Create)
				deals.GET("", dealHandler.List)
				deals.PUT("/:id", dealHandler.Update)
				deals.GET("/:id/summary", dealHandler.Summary)
			}

			// 往来单位
			partyHandler := api.NewPartyHandler()
			authorized.POST("/vendors", partyHandler.CreateVendor)
			authorized.GET("/vendors", partyHandler.ListVendors)
			authorized.PUT("/vendors/:id", partyHandler.UpdateVendor)
			authorized.POST("/installers", partyHandler.CreateInstaller)
			authorized.GET("/installers", partyHandler.ListInstallers)
			authorized.PUT("/installers/:id", partyHandler.UpdateInstaller)
			authorized.POST("/lead-sources", partyHandler.CreateLeadSource)
			authorized.GET("/lead-sources", partyHandler.ListLeadSources)

			// 报表
			reportHandler := api.NewReportHandler()
			reports := authorized.Group("/reports")
			{
				reports.GET("/pending", reportHandler.Pending)
				reports.GET("/ytd", reportHandler.YTD)
			}

			// 银行同步
			syncHandler := api.NewSyncHandler(cfg)
			sync := authorized.Group("/sync")
			{
				sync.POST("/items", syncHandler.RegisterItem)
				sync.GET("/items", syncHandler.ListItems)
				sync.POST("/run", syncHandler.Run)
			}

			// 导出
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
