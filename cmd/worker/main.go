package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Domenick1991/paraglide/config"
	"github.com/Domenick1991/paraglide/internal/bootstrap"
	"github.com/Domenick1991/paraglide/internal/email"
	"github.com/Domenick1991/paraglide/internal/kafka"
	"github.com/Domenick1991/paraglide/internal/logger"
	"github.com/Domenick1991/paraglide/internal/repository"
	"github.com/Domenick1991/paraglide/internal/service/booking"
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, lg)
	defer consumer.Close()

	emailSender := email.NewSender(lg)

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil && ctx.Err() == nil {
			lg.Error("consumer stopped", zap.Error(err))
		}
	}()

	sweep := time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute
	if sweep <= 0 {
		sweep = time.Hour
	}
	expireTicker := time.NewTicker(sweep)
	defer expireTicker.Stop()

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingService.ExpirePendingBookings(ctx)
			if err != nil {
				lg.Error("expire bookings", zap.Error(err))
				continue
			}
			if len(expired) > 0 {
				lg.Info("expired bookings", zap.Int("count", len(expired)))
			}
		case <-ctx.Done():
			lg.Info("shutting down worker")
			return
		}
	}
}
