package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/hotelbooking/api"
	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/bootstrap"
	"github.com/Domenick1991/hotelbooking/internal/cache"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	loc, err := cfg.Booking.Location()
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

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.RoomsCacheDuration())
	defer redisCache.Close()
	if err := redisCache.CheckConnection(ctx); err != nil {
		log.Printf("WARNING: redis unavailable, rooms are read from postgres: %v", err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Printf("WARNING: kafka unavailable: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLocation(loc),
		booking.WithMinAdvancePercent(cfg.Booking.MinAdvancePercent),
		booking.WithBackdateDays(cfg.Booking.BackdateDays),
	)
	roomService := rooms.NewRoomService(roomRepo, redisCache)

	limiter := api.NewRateLimiter(cfg.HTTP.RateLimitPerSec, cfg.HTTP.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup(10 * time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Limiter:        limiter,
	}, api.NewBookingHandler(bookingService), api.NewRoomHandler(roomService))

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
