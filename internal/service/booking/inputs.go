package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type GuestInput struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Gender    string `json:"gender" validate:"required,max=50"`
	Age       int    `json:"age" validate:"min=0,max=150"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

type PaymentInfo struct {
	PaidAmount   decimal.Decimal             `json:"paid_amount"`
	Mode         domain.PaymentMode          `json:"mode_of_payment" validate:"required,oneof=Cash Card UPI"`
	OnlineStatus *domain.OnlinePaymentStatus `json:"online_payment_status" validate:"omitempty,oneof=success failed"`
}

// CreateBookingInput is the request of both channels. HotelID may be left
// zero by a hotel admin, whose own hotel is then used.
type CreateBookingInput struct {
	HotelID      int64        `json:"hotel_id" validate:"min=0"`
	RoomID       int64        `json:"room_id" validate:"required,gt=0"`
	CustomerName string       `json:"customer_name" validate:"required,max=255"`
	Email        string       `json:"email" validate:"omitempty,email,max=255"`
	Phone        string       `json:"phone" validate:"omitempty,max=20"`
	PartySize    int          `json:"no_of_people" validate:"required,min=1"`
	CheckIn      time.Time    `json:"check_in_date" validate:"required"`
	CheckOut     time.Time    `json:"check_out_date" validate:"required"`
	Guests       []GuestInput `json:"guests" validate:"required,dive"`
	Payment      PaymentInfo  `json:"payment"`
}

type ChangeRoomInput struct {
	NewRoomID       int64 `json:"new_room_id" validate:"required,gt=0"`
	ChangeAfterDays *int  `json:"change_after_days" validate:"omitempty,min=0"`
}

type ChangeStayInput struct {
	CheckOut time.Time `json:"check_out_date" validate:"required"`
}

// UpdateDetailsInput edits guest and billing fields. A zero PartySize keeps
// the current one.
type UpdateDetailsInput struct {
	CustomerName string             `json:"customer_name" validate:"required,max=255"`
	Email        string             `json:"email" validate:"omitempty,email,max=255"`
	Phone        string             `json:"phone" validate:"omitempty,max=20"`
	PartySize    int                `json:"no_of_people" validate:"min=0"`
	PaymentMode  domain.PaymentMode `json:"mode_of_payment" validate:"required,oneof=Cash Card UPI"`
}

type PaymentInput struct {
	Amount decimal.Decimal    `json:"amount"`
	Mode   domain.PaymentMode `json:"mode_of_payment" validate:"required,oneof=Cash Card UPI"`
}

type AddServiceInput struct {
	ServiceID  int64            `json:"hotel_service_id" validate:"required,gt=0"`
	Quantity   int              `json:"quantity" validate:"required,min=1"`
	PaidAmount *decimal.Decimal `json:"paid_amount"`
}

// UpdateServiceInput keeps the line's paid amount when PaidAmount is nil.
type UpdateServiceInput struct {
	Quantity   int              `json:"quantity" validate:"required,min=1"`
	PaidAmount *decimal.Decimal `json:"paid_amount"`
}

var minPayment = decimal.RequireFromString("0.01")

// validateInput runs the struct tags and reports every failing field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Validation("Invalid input.")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	derr := domain.Validation("Invalid input: %s.", strings.Join(fields, ", "))
	for _, fe := range verrs {
		derr.With(fe.Namespace(), fe.Tag())
	}
	return derr
}

func nonNegative(name string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.Validation("%s cannot be negative.", name).With(name, amount.StringFixed(2))
	}
	return nil
}

// toGuests maps the inputs to rows. The first guest is primary and identity
// documents are never collected.
func toGuests(inputs []GuestInput) ([]domain.Guest, error) {
	guests := make([]domain.Guest, len(inputs))
	for i := range inputs {
		if err := copier.Copy(&guests[i], &inputs[i]); err != nil {
			return nil, err
		}
		guests[i].Primary = i == 0
		guests[i].Status = "active"
		guests[i].IDType = nil
		guests[i].IDNumber = nil
	}
	return guests, nil
}
