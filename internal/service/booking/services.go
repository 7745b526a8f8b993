package booking

import (
	"context"
	"errors"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/pricing"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/shopspring/decimal"
)

// Service lines adjust the booking totals by their exact delta. Lines are
// locked before their booking.

func (s *BookingService) AddService(ctx context.Context, caller domain.CallerContext, bookingID int64, input AddServiceInput) (*domain.BookingService, error) {
	if err := requireAdmin(caller, "add services"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	paid, err := optionalPaid(input.PaidAmount, decimal.Zero)
	if err != nil {
		return nil, err
	}

	var (
		booking *domain.Booking
		line    *domain.BookingService
	)
	err = s.inTx(ctx, func(tx repository.BookingTx) error {
		b, err := lockBooking(ctx, tx, caller, bookingID)
		if err != nil {
			return err
		}
		if err := canChangeServices(b); err != nil {
			return err
		}

		svc, err := tx.GetHotelService(ctx, b.HotelID, input.ServiceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NotFound("Service %d not found for this hotel.", input.ServiceID).With("hotel_service_id", input.ServiceID)
			}
			return err
		}

		l := &domain.BookingService{
			HotelID:     b.HotelID,
			BookingID:   b.ID,
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Quantity:    input.Quantity,
			UnitPrice:   svc.Price,
			TotalPrice:  pricing.LineTotal(svc.Price, input.Quantity),
			PaidAmount:  paid,
		}
		if err := tx.CreateBookingService(ctx, l); err != nil {
			return err
		}

		applyTotals(b, pricing.ApplyDelta(totalsOf(b), l.TotalPrice, l.PaidAmount))
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		booking, line = b, l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventServiceAdded, booking, line)
	return line, nil
}

func (s *BookingService) UpdateService(ctx context.Context, caller domain.CallerContext, lineID int64, input UpdateServiceInput) (*domain.BookingService, error) {
	if err := requireAdmin(caller, "update services"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *domain.BookingService
	err := s.inTx(ctx, func(tx repository.BookingTx) error {
		line, b, err := lockLine(ctx, tx, caller, lineID)
		if err != nil {
			return err
		}

		newPaid, err := optionalPaid(input.PaidAmount, line.PaidAmount)
		if err != nil {
			return err
		}
		newTotal := pricing.LineTotal(line.UnitPrice, input.Quantity)
		totals := pricing.ApplyDelta(totalsOf(b), newTotal.Sub(line.TotalPrice), newPaid.Sub(line.PaidAmount))

		line.Quantity = input.Quantity
		line.TotalPrice = newTotal
		line.PaidAmount = newPaid
		if err := tx.UpdateBookingService(ctx, line); err != nil {
			return err
		}

		applyTotals(b, totals)
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		updated = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BookingService) RemoveService(ctx context.Context, caller domain.CallerContext, lineID int64) error {
	if err := requireAdmin(caller, "remove services"); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx repository.BookingTx) error {
		line, b, err := lockLine(ctx, tx, caller, lineID)
		if err != nil {
			return err
		}

		applyTotals(b, pricing.ApplyDelta(totalsOf(b), line.TotalPrice.Neg(), line.PaidAmount.Neg()))
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		return tx.DeleteBookingService(ctx, line.ID)
	})
}

// lockLine locks a service line and its booking and checks that the booking
// still accepts service changes.
func lockLine(ctx context.Context, tx repository.BookingTx, caller domain.CallerContext, lineID int64) (*domain.BookingService, *domain.Booking, error) {
	line, err := tx.GetBookingServiceForUpdate(ctx, lineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, domain.NotFound("Booking service %d not found.", lineID).With("booking_service_id", lineID)
		}
		return nil, nil, err
	}
	b, err := lockBooking(ctx, tx, caller, line.BookingID)
	if err != nil {
		return nil, nil, err
	}
	if err := canChangeServices(b); err != nil {
		return nil, nil, err
	}
	return line, b, nil
}

func optionalPaid(amount *decimal.Decimal, fallback decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return fallback, nil
	}
	if err := nonNegative("paid_amount", *amount); err != nil {
		return decimal.Zero, err
	}
	return pricing.Round(*amount), nil
}
