// Package main runs the audience Q&A backend: HTTP API, websocket gateway
// and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/askfloor/backend/config"
	"github.com/askfloor/backend/internal/middleware"
	"github.com/askfloor/backend/internal/questions"
	"github.com/askfloor/backend/internal/realtime"
	"github.com/askfloor/backend/internal/sessions"
	"github.com/askfloor/backend/internal/voter"
	"github.com/askfloor/backend/pkg/database"
	"github.com/askfloor/backend/pkg/redis"
	"github.com/askfloor/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	db, closeDB, err := database.NewMongoDatabase(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer closeDB()

	// Redis is optional; without it broadcasts stay instance-local.
	var (
		roomSub realtime.RoomSubscriber
		roomPub realtime.RoomPublisher
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		pubsub := realtime.NewRedisPubSub(rdb.Client, logger)
		roomSub, roomPub = pubsub, pubsub
	}

	voterSvc := voter.NewService(cfg.Voter.Secret, cfg.Voter.ExpireHours)

	sessionRepo := sessions.NewRepository(db)
	questionRepo := questions.NewRepository(db)
	svc := sessions.NewService(sessionRepo, questionRepo, logger)

	hub := realtime.NewHub(logger, roomSub)
	svc.SetNotifier(realtime.NewBroadcaster(hub, svc, roomPub, logger))

	sessionHandler := sessions.NewHandler(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok", "instance": cfg.Instance.Name})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	api.Use(middleware.Voter(voterSvc, logger))
	{
		api.PUT("/sessions/:id", sessionHandler.Create)
		api.GET("/sessions/:id", sessionHandler.Get)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AdminBasicAuth(cfg.Admin.Password))
	{
		admin.GET("/sessions", sessionHandler.Dashboard)
	}

	// Websocket: voter token in query or cookie, no other auth at connect.
	router.GET("/ws", realtime.ServeWS(hub, svc, voterSvc, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("instance", cfg.Instance.Name),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
