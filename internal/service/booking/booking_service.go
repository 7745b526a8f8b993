package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/pricing"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/availability"
	"github.com/google/uuid"
)

const (
	defaultMinAdvancePercent = 10
	defaultBackdateDays      = 2
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, caller domain.CallerContext, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error)
	CheckIn(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error)
	Checkout(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error)
	ChangeRoom(ctx context.Context, caller domain.CallerContext, bookingID int64, input ChangeRoomInput) (*domain.Booking, error)
	ExtendOrReduceStay(ctx context.Context, caller domain.CallerContext, bookingID int64, input ChangeStayInput) (*domain.Booking, error)
	UpdateDetails(ctx context.Context, caller domain.CallerContext, bookingID int64, input UpdateDetailsInput) (*domain.Booking, error)
	AddPayment(ctx context.Context, caller domain.CallerContext, bookingID int64, input PaymentInput) (*domain.Booking, error)
	AddService(ctx context.Context, caller domain.CallerContext, bookingID int64, input AddServiceInput) (*domain.BookingService, error)
	UpdateService(ctx context.Context, caller domain.CallerContext, lineID int64, input UpdateServiceInput) (*domain.BookingService, error)
	RemoveService(ctx context.Context, caller domain.CallerContext, lineID int64) error
	GetBooking(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error)
	ListRoomChanges(ctx context.Context, caller domain.CallerContext, bookingID int64) ([]domain.BookingRoomChange, error)
	ListInHouseGuests(ctx context.Context, caller domain.CallerContext, day time.Time) ([]domain.Booking, error)
	SendCheckoutReminders(ctx context.Context) (int, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	availability       *availability.Checker
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	now                func() time.Time
	location           *time.Location
	minAdvancePercent  int
	backdateDays       int
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// WithLocation sets the timezone "today" is evaluated in.
func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithMinAdvancePercent(percent int) BookingServiceOption {
	return func(s *BookingService) {
		if percent > 0 {
			s.minAdvancePercent = percent
		}
	}
}

func WithBackdateDays(days int) BookingServiceOption {
	return func(s *BookingService) {
		if days >= 0 {
			s.backdateDays = days
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:          bookings,
		availability:      availability.NewChecker(),
		producer:          producer,
		bookingTopic:      bookingTopic,
		now:               time.Now,
		location:          time.UTC,
		minAdvancePercent: defaultMinAdvancePercent,
		backdateDays:      defaultBackdateDays,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) today() time.Time {
	return pricing.Today(s.now(), s.location)
}

// inTx runs fn in one transaction and normalizes whatever comes out of it
// into a domain error.
func (s *BookingService) inTx(ctx context.Context, fn func(tx repository.BookingTx) error) error {
	return asDomainError(s.bookings.WithTx(ctx, fn))
}

func asDomainError(err error) error {
	if err == nil {
		return nil
	}
	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound("Record not found.")
	}
	return domain.Persistence(err)
}

// lockBooking reads the booking FOR UPDATE and applies the caller's access
// rules.
func lockBooking(ctx context.Context, tx repository.BookingTx, caller domain.CallerContext, id int64) (*domain.Booking, error) {
	b, err := tx.GetBookingForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Booking %d not found.", id).With("booking_id", id)
		}
		return nil, err
	}
	if !caller.CanAccessBooking(b) {
		return nil, domain.Forbidden("You are not allowed to access this booking.")
	}
	return b, nil
}

// lockRoom takes the room row lock that serializes availability decisions.
func lockRoom(ctx context.Context, tx repository.BookingTx, id int64) (*domain.Room, error) {
	room, err := tx.LockRoom(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Room %d not found.", id).With("room_id", id)
		}
		return nil, err
	}
	return room, nil
}

func (s *BookingService) GetBooking(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Booking %d not found.", bookingID).With("booking_id", bookingID)
		}
		return nil, domain.Persistence(err)
	}
	if !caller.CanAccessBooking(b) {
		return nil, domain.Forbidden("You are not allowed to access this booking.")
	}

	if b.Guests, err = s.bookings.ListGuests(ctx, b.ID); err != nil {
		return nil, domain.Persistence(err)
	}
	if b.Services, err = s.bookings.ListServices(ctx, b.ID); err != nil {
		return nil, domain.Persistence(err)
	}
	return b, nil
}

func (s *BookingService) ListRoomChanges(ctx context.Context, caller domain.CallerContext, bookingID int64) ([]domain.BookingRoomChange, error) {
	if _, err := s.GetBooking(ctx, caller, bookingID); err != nil {
		return nil, err
	}
	changes, err := s.bookings.ListRoomChanges(ctx, bookingID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return changes, nil
}

// ListInHouseGuests returns the checked-in bookings covering day, check-out
// day included, with their service lines. A zero day means today.
func (s *BookingService) ListInHouseGuests(ctx context.Context, caller domain.CallerContext, day time.Time) ([]domain.Booking, error) {
	if !caller.IsAdmin() {
		return nil, domain.Forbidden("Only hotel staff can list in-house guests.")
	}
	var hotelID int64
	if caller.Role == domain.RoleHotelAdmin {
		hotelID = caller.HotelID
	}

	if day.IsZero() {
		day = s.today()
	}
	bookings, err := s.bookings.ListInHouse(ctx, hotelID, domain.Date(day))
	if err != nil {
		return nil, domain.Persistence(err)
	}
	for i := range bookings {
		if bookings[i].Services, err = s.bookings.ListServices(ctx, bookings[i].ID); err != nil {
			return nil, domain.Persistence(err)
		}
	}
	return bookings, nil
}

// SendCheckoutReminders publishes a checkout_due event for every in-house
// booking that checks out today and returns how many were published.
func (s *BookingService) SendCheckoutReminders(ctx context.Context) (int, error) {
	due, err := s.bookings.ListCheckoutsDue(ctx, s.today())
	if err != nil {
		return 0, domain.Persistence(err)
	}

	sent := 0
	for i := range due {
		if err := s.publish(ctx, kafka.EventCheckoutDue, &due[i], nil); err != nil {
			log.Printf("WARNING: failed to publish %s for booking %d: %v", kafka.EventCheckoutDue, due[i].ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// notify publishes after commit. Failures are logged and never returned.
func (s *BookingService) notify(ctx context.Context, eventType string, b *domain.Booking, line *domain.BookingService) {
	if err := s.publish(ctx, eventType, b, line); err != nil {
		log.Printf("WARNING: failed to publish %s for booking %d: %v", eventType, b.ID, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking, line *domain.BookingService) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := newEvent(eventType, b, line, s.now())
	key := fmt.Sprintf("%d", b.ID)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" && b.Email != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

func newEvent(eventType string, b *domain.Booking, line *domain.BookingService, at time.Time) kafka.BookingEvent {
	event := kafka.BookingEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		BookingID:    b.ID,
		HotelID:      b.HotelID,
		CustomerName: b.CustomerName,
		Email:        b.Email,
		RoomID:       b.RoomID,
		CheckIn:      b.CheckIn.Format(time.DateOnly),
		CheckOut:     b.CheckOut.Format(time.DateOnly),
		Status:       string(b.Status),
		TotalAmount:  b.TotalAmount,
		PaidAmount:   b.PaidAmount,
		DueAmount:    b.DueAmount,
		PaymentMode:  string(b.PaymentMode),
		OccurredAt:   at.UTC(),
	}
	if b.Room != nil {
		event.RoomNumber = b.Room.RoomNumber
		event.RoomType = b.Room.RoomType
	}
	if line != nil {
		event.Service = &kafka.ServiceLine{
			ID:         line.ID,
			Name:       line.ServiceName,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice,
			PaidAmount: line.PaidAmount,
		}
	}
	return event
}

var _ BookingUseCase = (*BookingService)(nil)
