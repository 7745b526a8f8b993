package booking

import (
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
)

// Guards return nil when the transition is legal and a typed domain error
// otherwise. They never mutate the booking.

func requireAdmin(caller domain.CallerContext, action string) error {
	if !caller.IsAdmin() {
		return domain.Forbidden("Only hotel staff can %s.", action)
	}
	return nil
}

func canConfirm(b *domain.Booking) error {
	if b.Confirmed {
		return domain.State("Booking is already confirmed.")
	}
	switch b.Status {
	case domain.BookingStatusCancelled:
		return domain.State("Cannot confirm a cancelled booking.")
	case domain.BookingStatusCheckout:
		return domain.State("Cannot confirm a checked-out booking.")
	}
	return nil
}

func canCheckIn(b *domain.Booking, today time.Time) error {
	if !b.Confirmed {
		return domain.State("Cannot check-in unconfirmed bookings. Please confirm the booking first.")
	}
	switch b.Status {
	case domain.BookingStatusCancelled:
		return domain.State("Cannot check-in a cancelled booking.")
	case domain.BookingStatusCheckout:
		return domain.State("Cannot check-in a checked-out booking.")
	}
	if today.Before(b.CheckIn) {
		return domain.State("Guest cannot check-in before the scheduled check-in date.").
			With("check_in_date", b.CheckIn.Format(time.DateOnly))
	}
	return nil
}

func canCheckout(b *domain.Booking, today time.Time) error {
	if !b.Confirmed {
		return domain.State("Cannot checkout unconfirmed bookings. Please confirm the booking first.")
	}
	switch b.Status {
	case domain.BookingStatusCancelled:
		return domain.State("Cannot checkout a cancelled booking.")
	case domain.BookingStatusCheckout:
		return domain.State("Booking is already checked out.")
	}
	if today.Before(b.CheckOut) {
		return domain.State("To checkout before the checkout date, please update the checkout date first.").
			With("check_out_date", b.CheckOut.Format(time.DateOnly))
	}
	if b.DueAmount.IsPositive() {
		return domain.State("Please collect the pending payment of %s before checkout.", b.DueAmount.StringFixed(2)).
			With("due_amount", b.DueAmount.StringFixed(2))
	}
	return nil
}

func canCancel(caller domain.CallerContext, b *domain.Booking) error {
	switch b.Status {
	case domain.BookingStatusCancelled:
		return domain.State("Booking is already cancelled.")
	case domain.BookingStatusCheckout:
		return domain.State("Cannot cancel a checked-out booking.")
	}
	if caller.Role == domain.RoleCustomer && b.Status == domain.BookingStatusCheckedIn {
		return domain.State("A checked-in booking can only be cancelled by the hotel.")
	}
	return nil
}

// canModify guards room, date and detail edits.
func canModify(b *domain.Booking, what string) error {
	switch b.Status {
	case domain.BookingStatusCheckout:
		return domain.State("Cannot change %s of a checked-out booking.", what)
	case domain.BookingStatusCancelled:
		return domain.State("Cannot change %s of a cancelled booking.", what)
	}
	return nil
}

func canEditDetails(caller domain.CallerContext, b *domain.Booking) error {
	if err := canModify(b, "the details"); err != nil {
		return err
	}
	if caller.Role == domain.RoleCustomer && b.Status == domain.BookingStatusCheckedIn {
		return domain.State("A checked-in booking can only be edited by the hotel.")
	}
	return nil
}

func canChangeServices(b *domain.Booking) error {
	if !b.Confirmed {
		return domain.State("Cannot change services of unconfirmed bookings. Please confirm the booking first.")
	}
	switch b.Status {
	case domain.BookingStatusCancelled:
		return domain.State("Cannot change services of cancelled bookings.")
	case domain.BookingStatusCheckout:
		return domain.State("Cannot change services of checked-out bookings.")
	}
	return nil
}

func canPay(b *domain.Booking) error {
	switch b.Status {
	case domain.BookingStatusCancelled:
		return domain.State("Cannot add a payment to a cancelled booking.")
	case domain.BookingStatusCheckout:
		return domain.State("Cannot add a payment to a checked-out booking.")
	}
	return nil
}
