package main

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/api"
	"github.com/qs3c/lingo_go_server/internal/api/handler"
	"github.com/qs3c/lingo_go_server/internal/database"
	"github.com/qs3c/lingo_go_server/internal/pkg/graph"
	"github.com/qs3c/lingo_go_server/internal/pkg/llm"
	"github.com/qs3c/lingo_go_server/internal/pkg/oauth"
	"github.com/qs3c/lingo_go_server/internal/pkg/paypal"
	"github.com/qs3c/lingo_go_server/internal/pkg/pubsub"
	"github.com/qs3c/lingo_go_server/internal/pkg/ws"
	"github.com/qs3c/lingo_go_server/internal/repository"
	"github.com/qs3c/lingo_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 初始化外部服务客户端
	paypalClient := paypal.NewClient(&cfg.PayPal)
	llmClient := llm.NewClient(&cfg.LLM)
	graphClient := graph.NewClient(&cfg.Graph)
	githubOAuth := oauth.NewGithubOAuth(
		cfg.OAuth.Github.ClientID,
		cfg.OAuth.Github.ClientSecret,
		cfg.OAuth.Github.RedirectURI,
	)
	stateStore := oauth.NewStateStore(rdb)

	// 初始化发布/订阅
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// Redis 订阅转发到本进程的 WebSocket 连接
	go func() {
		err := subscriber.Subscribe(context.Background(), func(userID int64, event *pubsub.Event) {
			_ = wsHub.SendToUser(userID, &ws.Message{
				Type:    event.Type,
				Message: event.Message,
				Data:    event.Data,
			})
		})
		if err != nil {
			log.Printf("Pubsub subscriber stopped: %v", err)
		}
	}()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	tierRepo := repository.NewTierRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// 初始化 Service
	quotaService := service.NewQuotaService(userRepo, tierRepo, cfg)
	tierService := service.NewTierService(tierRepo, userRepo, quotaService)
	authService := service.NewAuthService(userRepo, tierRepo, githubOAuth, cfg)
	userService := service.NewUserService(userRepo, quotaService)
	paymentService := service.NewPaymentService(db, tierRepo, paymentRepo, paypalClient, publisher, cfg)
	projectService := service.NewProjectService(projectRepo, graphClient)
	analyzeService := service.NewAnalyzeService(llmClient, quotaService, publisher)

	// 档位参考数据必须在接流量前就位
	if err := tierService.Provision(cfg.Tiers); err != nil {
		log.Fatalf("Failed to provision subscription tiers: %v", err)
	}

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService)
	tierHandler := handler.NewTierHandler(tierService)
	quotaHandler := handler.NewQuotaHandler(quotaService)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.Server.FrontendURL)
	projectHandler := handler.NewProjectHandler(projectService)
	analyzeHandler := handler.NewAnalyzeHandler(analyzeService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		tierHandler,
		quotaHandler,
		paymentHandler,
		projectHandler,
		analyzeHandler,
		websocketHandler,
		healthHandler,
		quotaService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
