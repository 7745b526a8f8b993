package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/email"
	"github.com/Domenick1991/hotelbooking/internal/jobs"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLocation(loc),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(cfg.Mail)

	go func() {
		handler := kafka.BookingEventHandler(func(ctx context.Context, event kafka.BookingEvent) error {
			if err := emailSender.Send(ctx, event); err != nil {
				log.Printf("notification %s for booking %d failed: %v", event.Type, event.BookingID, err)
			}
			return nil
		})
		if err := consumer.Consume(ctx, handler); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	scheduler, err := jobs.NewScheduler(ctx, bookingService, cfg.Worker.ReminderAt, loc)
	if err != nil {
		log.Fatalf("create scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Printf("scheduler shutdown: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	s := <-sig
	log.Printf("received signal %v, shutting down", s)
}
