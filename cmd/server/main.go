package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-realtime/internal/adapters/kafka"
	"chat-realtime/internal/api/handlers"
	"chat-realtime/internal/api/routes"
	"chat-realtime/internal/auth"
	"chat-realtime/internal/config"
	"chat-realtime/internal/database"
	"chat-realtime/internal/repositories/postgres"
	"chat-realtime/internal/services"
	"chat-realtime/internal/websocket"
)

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	slog.Info("Starting realtime chat server")

	// Initialize database connection
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	hubOpts := []websocket.HubOption{
		websocket.WithLogger(logger),
		websocket.WithSettings(websocket.Settings{
			WriteWait:      cfg.WebSocket.WriteWait,
			PongWait:       cfg.WebSocket.PongWait,
			PingPeriod:     (cfg.WebSocket.PongWait * 9) / 10,
			MaxMessageSize: cfg.WebSocket.MaxMessageSize,
			SendBufferSize: cfg.WebSocket.SendBufferSize,
		}),
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Failed to get database instance", "error", err)
		os.Exit(1)
	}
	routerOpts := routes.Options{
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		WSConnectsPerMinute: cfg.RateLimit.WSConnectsPerMinute,
		HealthChecks: map[string]handlers.HealthCheck{
			"database": sqlDB.PingContext,
		},
	}

	// Redis backs presence and handshake rate limiting when configured
	if cfg.Redis.URI != "" {
		redisClient, err := database.NewRedisConnection(cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisService := services.NewRedisService(redisClient)
		hubOpts = append(hubOpts, websocket.WithPresence(redisService))
		routerOpts.Limiter = redisService
		routerOpts.OnlineUsers = redisService
		routerOpts.HealthChecks["redis"] = redisClient.Ping
	} else {
		slog.Warn("REDIS_URL not set, presence tracking and rate limiting disabled")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.InitKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "brokers", cfg.Kafka.Brokers, "error", err)
			os.Exit(1)
		}
		publisher := kafka.NewMessagePublisher(producer, cfg.Kafka.Topic)
		defer publisher.Close()
		hubOpts = append(hubOpts, websocket.WithMessageSink(publisher))
		slog.Info("Publishing messages to Kafka", "topic", cfg.Kafka.Topic)
	}

	metrics := websocket.NewConnectionMetrics(1000)
	metrics.SetSlowBroadcastHook(500*time.Millisecond, func(m websocket.BroadcastMetric) {
		slog.Warn("Slow broadcast",
			"type", m.EventType, "conversationID", m.ConversationID,
			"duration", m.Duration, "delivered", m.Delivered, "skipped", m.Skipped)
	})
	hubOpts = append(hubOpts, websocket.WithMetrics(metrics))

	// Initialize WebSocket hub
	hub := websocket.NewHub(websocket.NewRegistry(), postgres.NewMessageRepository(db), hubOpts...)

	router := routes.NewRouter(hub, auth.NewJWTAuthenticator(cfg.JWT.Secret), routerOpts)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting requests, then close every live connection
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	hub.Stop()

	slog.Info("Server stopped")
}
