package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Domenick1991/paraglide/api"
	"github.com/Domenick1991/paraglide/config"
	"github.com/Domenick1991/paraglide/internal/bootstrap"
	"github.com/Domenick1991/paraglide/internal/cache"
	"github.com/Domenick1991/paraglide/internal/kafka"
	"github.com/Domenick1991/paraglide/internal/logger"
	"github.com/Domenick1991/paraglide/internal/repository"
	"github.com/Domenick1991/paraglide/internal/service/booking"
	"github.com/Domenick1991/paraglide/internal/service/locations"
	"github.com/Domenick1991/paraglide/internal/service/session"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := bootstrap.NewEngine(cfg, time.Now)
	if err != nil {
		lg.Fatal("build pricing engine", zap.Error(err))
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		lg.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SessionTTLMinutes)*time.Minute)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, lg)
	defer producer.Close()

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		engine.Calculator,
		engine.Gates,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(lg),
	)
	sessionService := session.NewSessionService(
		engine.Catalog,
		engine.Calculator,
		engine.Gates,
		redisCache,
		bookingService,
		session.WithSubmitLockTTL(time.Duration(cfg.Booking.SubmitLockSeconds)*time.Second),
		session.WithLogger(lg),
	)
	locationService := locations.NewLocationService(engine.Catalog, engine.Calculator)

	router := bootstrap.NewRouter(cfg.HTTP, lg, bootstrap.Handlers{
		Locations: api.NewLocationHandler(locationService),
		Sessions:  api.NewSessionHandler(sessionService),
		Bookings:  api.NewBookingHandler(bookingService),
	}, map[string]bootstrap.HealthCheck{
		"postgres": pool.Ping,
		"redis":    redisCache.Ping,
		"kafka":    producer.CheckConnection,
	})

	if err := bootstrap.Run(ctx, cfg, lg, router); err != nil {
		lg.Fatal("server error", zap.Error(err))
	}
}
