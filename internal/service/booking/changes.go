package booking

import (
	"context"
	"errors"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/pricing"
	"github.com/Domenick1991/hotelbooking/internal/repository"
)

// ChangeRoom moves the booking to another room of the same hotel, reprices
// the stay around the switch day and appends a ledger row.
func (s *BookingService) ChangeRoom(ctx context.Context, caller domain.CallerContext, bookingID int64, input ChangeRoomInput) (*domain.Booking, error) {
	if err := requireAdmin(caller, "change rooms"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var changed *domain.Booking
	err := s.inTx(ctx, func(tx repository.BookingTx) error {
		b, err := lockBooking(ctx, tx, caller, bookingID)
		if err != nil {
			return err
		}
		if err := canModify(b, "the room"); err != nil {
			return err
		}
		if input.NewRoomID == b.RoomID {
			return domain.Validation("New room is same as current room.").With("room_id", b.RoomID)
		}

		oldRoom, err := currentRoom(ctx, tx, b)
		if err != nil {
			return err
		}
		newRoom, err := lockRoom(ctx, tx, input.NewRoomID)
		if err != nil {
			return err
		}
		if err := checkRoom(newRoom, b.HotelID, b.PartySize); err != nil {
			return err
		}

		free, err := s.availability.IsRoomAvailable(ctx, tx, newRoom.ID, b.Stay(), b.ID)
		if err != nil {
			return err
		}
		if !free {
			return domain.Conflict("Selected room is not available for the booking dates.").With("room_id", newRoom.ID)
		}

		servicesTotal, err := tx.SumServiceTotals(ctx, b.ID)
		if err != nil {
			return err
		}
		totalDays := pricing.DaysBetween(b.CheckIn, b.CheckOut)
		quote, err := pricing.ChangeRoom(totalDays, input.ChangeAfterDays, oldRoom.Price, newRoom.Price, servicesTotal, b.PaidAmount)
		switch {
		case errors.Is(err, pricing.ErrChangeAfterDaysRequired):
			return domain.Validation("Change after days is required for multi-day bookings.").With("total_days", totalDays)
		case errors.Is(err, pricing.ErrChangeAfterDaysRange):
			return domain.Validation("Change after days must be between 0 and %d.", totalDays-1).With("total_days", totalDays)
		case err != nil:
			return err
		}

		change := &domain.BookingRoomChange{
			BookingID:       b.ID,
			OldRoomID:       oldRoom.ID,
			NewRoomID:       newRoom.ID,
			OldRoomPrice:    oldRoom.Price,
			NewRoomPrice:    newRoom.Price,
			OldTotalAmount:  b.TotalAmount,
			NewTotalAmount:  quote.Total,
			ChangeAfterDays: quote.ChangeAfterDays,
			OldRoomStayCost: quote.OldRoomStayCost,
			NewRoomStayCost: quote.NewRoomStayCost,
			ChangedBy:       caller.UserID,
			ChangedAt:       s.now().UTC(),
		}
		if err := tx.CreateRoomChange(ctx, change); err != nil {
			return err
		}

		b.RoomID = newRoom.ID
		b.Room = newRoom
		b.TotalAmount = quote.Total
		b.DueAmount = quote.Due
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		changed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventRoomChanged, changed, nil)
	return changed, nil
}

// ExtendOrReduceStay moves the check-out date and reprices by the day delta.
// An occupying booking is re-checked against the room's other bookings.
func (s *BookingService) ExtendOrReduceStay(ctx context.Context, caller domain.CallerContext, bookingID int64, input ChangeStayInput) (*domain.Booking, error) {
	if err := requireAdmin(caller, "change stay dates"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	checkOut := domain.Date(input.CheckOut)

	var updated *domain.Booking
	err := s.inTx(ctx, func(tx repository.BookingTx) error {
		b, err := lockBooking(ctx, tx, caller, bookingID)
		if err != nil {
			return err
		}
		if err := canModify(b, "the stay dates"); err != nil {
			return err
		}
		if !checkOut.After(b.CheckIn) {
			return domain.Validation("Check-out date must be after the check-in date.")
		}

		room, err := currentRoom(ctx, tx, b)
		if err != nil {
			return err
		}
		if b.Occupying() {
			if room, err = lockRoom(ctx, tx, b.RoomID); err != nil {
				return err
			}
			stay := domain.Stay{CheckIn: b.CheckIn, CheckOut: checkOut}
			free, err := s.availability.IsRoomAvailable(ctx, tx, b.RoomID, stay, b.ID)
			if err != nil {
				return err
			}
			if !free {
				return domain.Conflict("Room is already booked for the new dates.").With("room_id", b.RoomID)
			}
		}

		change := pricing.ChangeStay(b.CheckOut, checkOut, room.Price, totalsOf(b))
		b.CheckOut = checkOut
		applyTotals(b, change.Totals)
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		b.Room = room
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateDetails edits guest and billing fields in place.
func (s *BookingService) UpdateDetails(ctx context.Context, caller domain.CallerContext, bookingID int64, input UpdateDetailsInput) (*domain.Booking, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *domain.Booking
	err := s.inTx(ctx, func(tx repository.BookingTx) error {
		b, err := lockBooking(ctx, tx, caller, bookingID)
		if err != nil {
			return err
		}
		if err := canEditDetails(caller, b); err != nil {
			return err
		}

		if input.PartySize != 0 && input.PartySize != b.PartySize {
			room, err := currentRoom(ctx, tx, b)
			if err != nil {
				return err
			}
			if !room.Fits(input.PartySize) {
				return domain.Validation("This room accommodates %d to %d people. Your party size of %d is not suitable for this room.",
					room.MinPeople, room.MaxPeople, input.PartySize).
					With("min_people", room.MinPeople).
					With("max_people", room.MaxPeople).
					With("requested_people", input.PartySize)
			}
			b.PartySize = input.PartySize
		}

		b.CustomerName = input.CustomerName
		b.Email = input.Email
		b.Phone = input.Phone
		b.PaymentMode = input.PaymentMode
		b.DueAmount = pricing.Due(b.TotalAmount, b.PaidAmount)
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

// AddPayment records a payment. The due may go negative on overpayment.
func (s *BookingService) AddPayment(ctx context.Context, caller domain.CallerContext, bookingID int64, input PaymentInput) (*domain.Booking, error) {
	if err := requireAdmin(caller, "record payments"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Amount.LessThan(minPayment) {
		return nil, domain.Validation("Payment amount must be at least %s.", minPayment.StringFixed(2)).
			With("amount", input.Amount.String())
	}

	var updated *domain.Booking
	err := s.inTx(ctx, func(tx repository.BookingTx) error {
		b, err := lockBooking(ctx, tx, caller, bookingID)
		if err != nil {
			return err
		}
		if err := canPay(b); err != nil {
			return err
		}

		applyTotals(b, pricing.ApplyPayment(totalsOf(b), input.Amount))
		b.PaymentMode = input.Mode
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

// currentRoom returns the booking's room as loaded with it, reading it when
// the loader left it empty.
func currentRoom(ctx context.Context, tx repository.BookingTx, b *domain.Booking) (*domain.Room, error) {
	if b.Room != nil && b.Room.ID == b.RoomID {
		return b.Room, nil
	}
	return lockRoom(ctx, tx, b.RoomID)
}

func totalsOf(b *domain.Booking) pricing.Totals {
	return pricing.Totals{Total: b.TotalAmount, Paid: b.PaidAmount, Due: b.DueAmount}
}

func applyTotals(b *domain.Booking, t pricing.Totals) {
	b.TotalAmount = t.Total
	b.PaidAmount = t.Paid
	b.DueAmount = t.Due
}
