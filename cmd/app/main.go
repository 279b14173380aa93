package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mperera91/hotelbooking/config"
	"github.com/mperera91/hotelbooking/internal/bootstrap"
	"github.com/mperera91/hotelbooking/internal/cache"
	"github.com/mperera91/hotelbooking/internal/kafka"
	"github.com/mperera91/hotelbooking/internal/rates"
	"github.com/mperera91/hotelbooking/internal/repository"
	"github.com/mperera91/hotelbooking/internal/service/booking"
	"github.com/mperera91/hotelbooking/internal/service/rooms"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.RoomsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	roomRepo := repository.NewRoomRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	resolver := rates.NewResolver(cfg.Rates)

	roomService := rooms.NewRoomService(roomRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		roomRepo,
		redisCache,
		producer,
		resolver,
		cfg.Booking.Jurisdiction,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, roomService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
