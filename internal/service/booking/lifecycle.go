package booking

import (
	"context"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/pricing"
	"github.com/Domenick1991/hotelbooking/internal/repository"
)

// CreateBooking books a room for a stay. Customer bookings start pending and
// unconfirmed; staff bookings are confirmed and active right away.
func (s *BookingService) CreateBooking(ctx context.Context, caller domain.CallerContext, input CreateBookingInput) (*domain.Booking, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	hotelID, err := resolveHotel(caller, input.HotelID)
	if err != nil {
		return nil, err
	}

	stay := domain.Stay{CheckIn: domain.Date(input.CheckIn), CheckOut: domain.Date(input.CheckOut)}
	if !stay.CheckOut.After(stay.CheckIn) {
		return nil, domain.Validation("Check-out date must be after the check-in date.")
	}
	if stay.CheckIn.Before(s.today().AddDate(0, 0, -s.backdateDays)) {
		return nil, domain.Validation("Check-in date cannot be more than %d days earlier than today.", s.backdateDays)
	}
	if len(input.Guests) != input.PartySize {
		return nil, domain.Validation("Number of guests must match the number of people.").
			With("guests", len(input.Guests)).
			With("no_of_people", input.PartySize)
	}
	if err := nonNegative("paid_amount", input.Payment.PaidAmount); err != nil {
		return nil, err
	}

	customer := caller.Role == domain.RoleCustomer
	if customer && input.Payment.Mode.Online() &&
		(input.Payment.OnlineStatus == nil || *input.Payment.OnlineStatus != domain.OnlinePaymentSuccess) {
		return nil, domain.Validation("Payment must be successful to create a booking. Please complete the payment process.").
			With("mode_of_payment", input.Payment.Mode)
	}

	guests, err := toGuests(input.Guests)
	if err != nil {
		return nil, domain.Validation("Invalid guest data.")
	}

	var created *domain.Booking
	err = s.inTx(ctx, func(tx repository.BookingTx) error {
		room, err := lockRoom(ctx, tx, input.RoomID)
		if err != nil {
			return err
		}
		if err := checkRoom(room, hotelID, input.PartySize); err != nil {
			return err
		}

		free, err := s.availability.IsRoomAvailable(ctx, tx, room.ID, stay, 0)
		if err != nil {
			return err
		}
		if !free {
			return domain.Conflict("Room already booked for selected dates.").With("room_id", room.ID)
		}

		quote := pricing.QuoteStay(stay.CheckIn, stay.CheckOut, room.Price, input.Payment.PaidAmount)
		if customer {
			minimum := pricing.MinimumAdvance(quote.Total, s.minAdvancePercent)
			if quote.Paid.LessThan(minimum) {
				return domain.Validation("Minimum advance payment of %d%% is required to complete booking.", s.minAdvancePercent).
					With("total_amount", quote.Total.StringFixed(2)).
					With("minimum_advance_payment", minimum.StringFixed(2)).
					With("paid_amount", quote.Paid.StringFixed(2))
			}
			if quote.Paid.GreaterThan(quote.Total) {
				return domain.Validation("Paid amount cannot exceed total amount.").
					With("total_amount", quote.Total.StringFixed(2)).
					With("paid_amount", quote.Paid.StringFixed(2))
			}
		}

		b := &domain.Booking{
			HotelID:             hotelID,
			RoomID:              room.ID,
			CustomerName:        input.CustomerName,
			Email:               input.Email,
			Phone:               input.Phone,
			PartySize:           input.PartySize,
			CheckIn:             stay.CheckIn,
			CheckOut:            stay.CheckOut,
			Confirmed:           !customer,
			Status:              domain.BookingStatusActive,
			TotalAmount:         quote.Total,
			PaidAmount:          quote.Paid,
			DueAmount:           quote.Due,
			PaymentMode:         input.Payment.Mode,
			OnlinePaymentStatus: input.Payment.OnlineStatus,
			CreatedBy:           caller.UserID,
		}
		if customer {
			b.Status = domain.BookingStatusPending
		}

		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		if err := tx.CreateGuests(ctx, b.ID, guests); err != nil {
			return err
		}
		for i := range guests {
			guests[i].BookingID = b.ID
		}
		b.Room = room
		b.Guests = guests
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.Confirmed {
		s.notify(ctx, kafka.EventBookingConfirmed, created, nil)
	}
	return created, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error) {
	if err := requireAdmin(caller, "confirm bookings"); err != nil {
		return nil, err
	}

	var confirmed *domain.Booking
	err := s.inTx(ctx, func(tx repository.BookingTx) error {
		b, err := lockBooking(ctx, tx, caller, bookingID)
		if err != nil {
			return err
		}
		if err := canConfirm(b); err != nil {
			return err
		}

		room, err := lockRoom(ctx, tx, b.RoomID)
		if err != nil {
			return err
		}
		free, err := s.availability.IsRoomAvailable(ctx, tx, b.RoomID, b.Stay(), b.ID)
		if err != nil {
			return err
		}
		if !free {
			return domain.Conflict("Room is already occupied for the selected dates. Change the room before confirming the booking.").
				With("room_id", b.RoomID)
		}

		b.Confirmed = true
		b.Status = domain.BookingStatusActive
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		b.Room = room
		confirmed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventBookingConfirmed, confirmed, nil)
	return confirmed, nil
}

func (s *BookingService) CheckIn(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error) {
	if err := requireAdmin(caller, "check guests in"); err != nil {
		return nil, err
	}
	today := s.today()
	return s.transition(ctx, caller, bookingID, domain.BookingStatusCheckedIn, func(b *domain.Booking) error {
		return canCheckIn(b, today)
	})
}

func (s *BookingService) Checkout(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error) {
	if err := requireAdmin(caller, "check guests out"); err != nil {
		return nil, err
	}
	today := s.today()
	b, err := s.transition(ctx, caller, bookingID, domain.BookingStatusCheckout, func(b *domain.Booking) error {
		return canCheckout(b, today)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventBookingCheckedOut, b, nil)
	return b, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, caller domain.CallerContext, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, caller, bookingID, domain.BookingStatusCancelled, func(b *domain.Booking) error {
		return canCancel(caller, b)
	})
}

// transition moves a booking to status when guard allows it.
func (s *BookingService) transition(ctx context.Context, caller domain.CallerContext, bookingID int64, status domain.BookingStatus, guard func(*domain.Booking) error) (*domain.Booking, error) {
	var updated *domain.Booking
	err := s.inTx(ctx, func(tx repository.BookingTx) error {
		b, err := lockBooking(ctx, tx, caller, bookingID)
		if err != nil {
			return err
		}
		if err := guard(b); err != nil {
			return err
		}

		b.Status = status
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func resolveHotel(caller domain.CallerContext, requested int64) (int64, error) {
	switch caller.Role {
	case domain.RoleHotelAdmin:
		if requested == 0 {
			requested = caller.HotelID
		}
		if !caller.CanAccessHotel(requested) {
			return 0, domain.Forbidden("You can only create bookings for your own hotel.")
		}
	case domain.RoleCustomer:
		if caller.UserID == 0 {
			return 0, domain.Forbidden("Please login first to create a booking.")
		}
		fallthrough
	case domain.RoleSuperAdmin:
		if requested == 0 {
			return 0, domain.Validation("Hotel is required.").With("hotel_id", requested)
		}
	default:
		return 0, domain.Forbidden("Unknown role %q.", caller.Role)
	}
	return requested, nil
}

// checkRoom validates a room picked for a booking of partySize in hotelID.
func checkRoom(room *domain.Room, hotelID int64, partySize int) error {
	if room.HotelID != hotelID {
		return domain.Validation("Room does not belong to this hotel.").With("room_id", room.ID)
	}
	if !room.Active {
		return domain.Validation("Room %s is not available for booking.", room.RoomNumber).With("room_id", room.ID)
	}
	if !room.Fits(partySize) {
		return domain.Validation("This room accommodates %d to %d people. Your party size of %d is not suitable for this room.",
			room.MinPeople, room.MaxPeople, partySize).
			With("min_people", room.MinPeople).
			With("max_people", room.MaxPeople).
			With("requested_people", partySize)
	}
	return nil
}
