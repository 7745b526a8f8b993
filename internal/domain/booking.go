package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCheckedIn BookingStatus = "check-in"
	BookingStatusCheckout  BookingStatus = "checkout"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further lifecycle transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCheckout || s == BookingStatusCancelled
}

type PaymentMode string

const (
	PaymentModeCash PaymentMode = "Cash"
	PaymentModeCard PaymentMode = "Card"
	PaymentModeUPI  PaymentMode = "UPI"
)

// Online reports whether the mode goes through the payment gateway.
func (m PaymentMode) Online() bool {
	return m == PaymentModeCard || m == PaymentModeUPI
}

func (m PaymentMode) Valid() bool {
	return m == PaymentModeCash || m.Online()
}

type OnlinePaymentStatus string

const (
	OnlinePaymentSuccess OnlinePaymentStatus = "success"
	OnlinePaymentFailed  OnlinePaymentStatus = "failed"
)

// Booking is the aggregate root. Room, Guests and Services are only populated
// by the explicit loaders of the repository.
type Booking struct {
	ID                  int64
	HotelID             int64
	RoomID              int64
	CustomerName        string
	Email               string
	Phone               string
	PartySize           int
	CheckIn             time.Time
	CheckOut            time.Time
	Confirmed           bool
	Status              BookingStatus
	TotalAmount         decimal.Decimal
	PaidAmount          decimal.Decimal
	DueAmount           decimal.Decimal
	PaymentMode         PaymentMode
	OnlinePaymentStatus *OnlinePaymentStatus
	CreatedBy           int64
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Room     *Room
	Guests   []Guest
	Services []BookingService
}

// Stay returns the booked date range.
func (b *Booking) Stay() Stay {
	return Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// Occupying reports whether the booking blocks its room for its stay.
func (b *Booking) Occupying() bool {
	if !b.Confirmed {
		return false
	}
	return b.Status == BookingStatusActive || b.Status == BookingStatusCheckedIn
}

type Guest struct {
	ID        int64
	BookingID int64
	FirstName string
	LastName  string
	Gender    string
	Age       int
	Phone     string
	Email     string
	IDType    *string
	IDNumber  *string
	Primary   bool
	Status    string
}

// BookingService is an add-on line. UnitPrice is a snapshot of the catalogue
// price at the time the line was added.
type BookingService struct {
	ID          int64
	HotelID     int64
	BookingID   int64
	ServiceID   int64
	ServiceName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	PaidAmount  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingRoomChange is an immutable ledger row. The split fields are nil when
// the change replaced the room for a single-day stay.
type BookingRoomChange struct {
	ID              int64
	BookingID       int64
	OldRoomID       int64
	NewRoomID       int64
	OldRoomPrice    decimal.Decimal
	NewRoomPrice    decimal.Decimal
	OldTotalAmount  decimal.Decimal
	NewTotalAmount  decimal.Decimal
	ChangeAfterDays *int
	OldRoomStayCost *decimal.Decimal
	NewRoomStayCost *decimal.Decimal
	ChangedBy       int64
	ChangedAt       time.Time
}
