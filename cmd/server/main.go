package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/balmandal/community-api/internal/auth"
	"github.com/balmandal/community-api/internal/config"
	"github.com/balmandal/community-api/internal/es"
	"github.com/balmandal/community-api/internal/events"
	"github.com/balmandal/community-api/internal/handlers"
	"github.com/balmandal/community-api/internal/logging"
	"github.com/balmandal/community-api/internal/service"
	"github.com/balmandal/community-api/internal/store"
	httpserver "github.com/balmandal/community-api/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.MongoURI, "MONGO_URI")
	config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	prod := events.NewProducer(cfg.KafkaAddress)

	var esClient *elasticsearch.Client
	if cfg.ESUrl != "" {
		esClient, err = es.NewClient(cfg.ESUrl, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
	}

	users := store.NewUserStore(db)
	logs := store.NewActivityLogStore(db)
	activity := &service.ActivityRecorder{Logs: logs, Producer: prod}

	authSvc := &service.AuthService{
		Users:  users,
		Tokens: tokens,
		Bootstrap: service.BootstrapAdmin{
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	deps := httpserver.Deps{
		Tokens:        tokens,
		Auth:          &handlers.AuthHandler{Svc: authSvc, Activity: activity},
		Users:         &handlers.UserHandler{Users: users, Activity: activity},
		Events:        &handlers.EventHandler{Events: store.NewEventStore(db), Activity: activity},
		Posts:         &handlers.PostHandler{Posts: store.NewPostStore(db), Activity: activity, ES: esClient},
		Notifications: &handlers.NotificationHandler{Notifications: store.NewNotificationStore(db), Activity: activity},
		Mentors:       &handlers.MentorHandler{Mentors: store.NewMentorStore(db), Activity: activity},
		Achievements:  &handlers.AchievementHandler{Achievements: store.NewAchievementStore(db), Activity: activity},
		Attendance:    &handlers.AttendanceHandler{Attendance: store.NewAttendanceStore(db), Activity: activity},
		Logs:          &handlers.LogHandler{Logs: logs},
	}
	if esClient != nil {
		deps.Search = &handlers.SearchHandler{ES: esClient}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("mongo close error", "error", err)
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
