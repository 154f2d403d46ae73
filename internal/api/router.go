package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/api/handler"
	"github.com/qs3c/lingo_go_server/internal/api/middleware"
	"github.com/qs3c/lingo_go_server/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	tierHandler      *handler.TierHandler
	quotaHandler     *handler.QuotaHandler
	paymentHandler   *handler.PaymentHandler
	projectHandler   *handler.ProjectHandler
	analyzeHandler   *handler.AnalyzeHandler
	websocketHandler *handler.WebSocketHandler
	healthHandler    *handler.HealthHandler
	quotaService     *service.QuotaService
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tierHandler *handler.TierHandler,
	quotaHandler *handler.QuotaHandler,
	paymentHandler *handler.PaymentHandler,
	projectHandler *handler.ProjectHandler,
	analyzeHandler *handler.AnalyzeHandler,
	websocketHandler *handler.WebSocketHandler,
	healthHandler *handler.HealthHandler,
	quotaService *service.QuotaService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		tierHandler:      tierHandler,
		quotaHandler:     quotaHandler,
		paymentHandler:   paymentHandler,
		projectHandler:   projectHandler,
		analyzeHandler:   analyzeHandler,
		websocketHandler: websocketHandler,
		healthHandler:    healthHandler,
		quotaService:     quotaService,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 健康检查
		api.GET("/health", r.healthHandler.Check)

		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/github", r.authHandler.GithubLogin)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// PayPal 回跳，PayPal 发起的跳转不带认证头
		payment := api.Group("/payment")
		{
			payment.GET("/success", r.paymentHandler.PaymentSuccess)
			payment.GET("/cancel", r.paymentHandler.PaymentCancel)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.GET("/quota", r.quotaHandler.GetQuota)
			}

			// 订阅档位目录。档位是参考数据，改价格/限额走 cmd/provision，
			// 不暴露 HTTP 写接口
			subscription := authenticated.Group("/subscription")
			{
				subscription.GET("/tiers", r.tierHandler.ListTiers)
			}

			// 支付
			paymentAuth := authenticated.Group("/payment")
			{
				paymentAuth.POST("/create-order", r.paymentHandler.CreateOrder)
				paymentAuth.POST("/capture", r.paymentHandler.CapturePayment)
				paymentAuth.GET("/transactions", r.paymentHandler.ListTransactions)
			}

			// 项目
			projects := authenticated.Group("/projects")
			{
				projects.POST("", r.projectHandler.CreateProject)
				projects.GET("", r.projectHandler.ListProjects)
				projects.GET("/:project_id/graph", r.projectHandler.GetProjectGraph)
			}

			// 分析，计量操作走配额中间件
			analyze := authenticated.Group("/analyze")
			analyze.Use(middleware.QuotaCheck(r.quotaService))
			{
				analyze.POST("", r.analyzeHandler.Analyze)
				analyze.POST("/stream", r.analyzeHandler.AnalyzeStream)
			}
		}
	}

	return engine
}
