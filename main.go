package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chat-api/internal/config"
	"chat-api/internal/docstore"
	"chat-api/internal/handlers"
	"chat-api/internal/identity"
	"chat-api/internal/logging"
	"chat-api/internal/middleware"
	"chat-api/internal/observability"
	"chat-api/internal/rabbitmq"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
	"chat-api/internal/typing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	database, err := docstore.Connect(cfg.DBDSN)
	if err != nil {
		logger.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	store := docstore.NewPostgresStore(database)

	var cache *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		cache = redis.NewClient(opt)
		defer cache.Close()
	}

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), cfg.OTLPEndpoint, cfg.AppName, cfg.AppEnv)
		if err != nil {
			logger.Error("failed to init tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Warn("tracer shutdown failed", "error", err)
			}
		}()
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, "chat.audit", cfg.AppName, cfg.AppEnv, logger)

	provider := identity.NewClient(cfg.IdentityURL, cfg.IdentityAPIKey)

	userRepo := repositories.NewUserRepo(store)
	messageRepo := repositories.NewMessageRepo(store)
	conversationRepo := repositories.NewConversationRepo(store)
	groupRepo := repositories.NewGroupRepo(store)
	contactRepo := repositories.NewContactRepo(store)
	typingStore := typing.NewRedisStore(cache, cfg.TypingTTL)

	authHandler := handlers.NewAuthHandler(provider, userRepo, audit, logger)
	chatHandler := handlers.NewChatHandler(messageRepo, conversationRepo, userRepo, typingStore, audit, logger)
	groupHandler := handlers.NewGroupHandler(groupRepo, audit, logger)
	contactHandler := handlers.NewContactHandler(contactRepo, logger)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(cfg.AppName))
	router.Use(observability.HTTPMetricsMiddleware())

	authGate := middleware.Auth(provider)
	loginLimit := middleware.LoginRateLimit(cache, cfg.LoginRatePerMin)

	router.POST("/auth/signup/:provider", authHandler.SignUp)
	router.POST("/auth/login/:provider", loginLimit, authHandler.LogIn)
	router.POST("/auth/signout/:uid", authGate, authHandler.SignOut)

	chat := router.Group("/chat", authGate)
	chat.GET("/verifytoken", chatHandler.VerifyToken)
	chat.POST("/:app_id/messages", chatHandler.SendMessage)
	chat.DELETE("/:app_id/conversations/:recipient_id", chatHandler.DeleteConversation)
	chat.DELETE("/:app_id/conversations/:recipient_id/messages/:message_id", chatHandler.DeleteMessage)
	chat.PUT("/:app_id/typings/:recipient_id", chatHandler.Typing)
	chat.POST("/:app_id/users/:user_id/settings/email", chatHandler.SetEmailSubscription)

	chat.POST("/:app_id/groups", groupHandler.CreateGroup)
	chat.PUT("/:app_id/groups/:group_id", groupHandler.UpdateGroup)
	chat.POST("/:app_id/groups/:group_id/members", groupHandler.JoinGroup)
	chat.PUT("/:app_id/groups/:group_id/members", groupHandler.SetMembersGroup)
	chat.DELETE("/:app_id/groups/:group_id/members/:member_id", groupHandler.LeaveGroup)
	chat.PUT("/:app_id/groups/:group_id/attributes", groupHandler.SetAttributesGroup)

	chat.POST("/:app_id/contacts", contactHandler.CreateContact)
	chat.GET("/:app_id/contacts/:contact_id", contactHandler.GetContact)
	chat.PUT("/:app_id/contacts/me", contactHandler.UpdateMyContact)
	chat.DELETE("/:app_id/contacts/me/photo", contactHandler.DeletePhoto)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
