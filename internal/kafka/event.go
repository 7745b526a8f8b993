package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventBookingConfirmed  = "booking_confirmed"
	EventBookingCheckedOut = "booking_checked_out"
	EventServiceAdded      = "service_added"
	EventRoomChanged       = "room_changed"
	EventCheckoutDue       = "checkout_due"
)

// BookingEvent is the payload published for every lifecycle notification.
type BookingEvent struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	BookingID    int64           `json:"booking_id"`
	HotelID      int64           `json:"hotel_id"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	RoomID       int64           `json:"room_id"`
	RoomNumber   string          `json:"room_number"`
	RoomType     string          `json:"room_type"`
	CheckIn      string          `json:"check_in_date"`
	CheckOut     string          `json:"check_out_date"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	DueAmount    decimal.Decimal `json:"due_amount"`
	PaymentMode  string          `json:"mode_of_payment"`
	Service      *ServiceLine    `json:"service,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

type ServiceLine struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}
