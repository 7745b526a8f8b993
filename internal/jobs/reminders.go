package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ReminderSender is satisfied by the booking service.
type ReminderSender interface {
	SendCheckoutReminders(ctx context.Context) (int, error)
}

// Scheduler runs the daily checkout reminders in the hotel timezone.
type Scheduler struct {
	scheduler gocron.Scheduler
	sender    ReminderSender
}

// NewScheduler registers a daily job at at ("HH:MM") in loc.
func NewScheduler(ctx context.Context, sender ReminderSender, at string, loc *time.Location) (*Scheduler, error) {
	hour, minute, err := parseClock(at)
	if err != nil {
		return nil, err
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	sched := &Scheduler{scheduler: s, sender: sender}
	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(func() { sched.RunReminders(ctx) }),
		gocron.WithName("checkout-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register checkout reminders: %w", err)
	}
	return sched, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// RunReminders is the job body.
func (s *Scheduler) RunReminders(ctx context.Context) {
	sent, err := s.sender.SendCheckoutReminders(ctx)
	if err != nil {
		log.Printf("checkout reminders error: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("sent %d checkout reminders", sent)
	}
}

func parseClock(at string) (uint, uint, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reminder time %q: %w", at, err)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}
