package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrChangeAfterDaysRequired = errors.New("change after days is required for multi-day bookings")
	ErrChangeAfterDaysRange    = errors.New("change after days is out of range")
)

// Totals is the money state of a booking.
type Totals struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
	Due   decimal.Decimal
}

type StayQuote struct {
	Nights int
	Totals
}

// QuoteStay prices a new booking of the room for the stay.
func QuoteStay(checkIn, checkOut time.Time, nightly, paid decimal.Decimal) StayQuote {
	nights := Nights(checkIn, checkOut)
	total := Round(nightly.Mul(decimal.NewFromInt(int64(nights))))
	paid = Round(paid)
	return StayQuote{
		Nights: nights,
		Totals: Totals{Total: total, Paid: paid, Due: ClampedDue(total, paid)},
	}
}

type StayChange struct {
	DayDelta     int
	AmountChange decimal.Decimal
	Totals
}

// ChangeStay reprices a booking whose check-out moves from oldCheckOut to
// newCheckOut. The total never drops below what has been paid.
func ChangeStay(oldCheckOut, newCheckOut time.Time, nightly decimal.Decimal, current Totals) StayChange {
	delta := DaysBetween(oldCheckOut, newCheckOut)
	change := Round(nightly.Mul(decimal.NewFromInt(int64(delta))))
	total := Round(current.Total.Add(change))
	if total.LessThan(current.Paid) {
		total = current.Paid
	}
	return StayChange{
		DayDelta:     delta,
		AmountChange: change,
		Totals:       Totals{Total: total, Paid: current.Paid, Due: ClampedDue(total, current.Paid)},
	}
}

type RoomChangeQuote struct {
	TotalDays       int
	ChangeAfterDays *int
	OldRoomStayCost *decimal.Decimal
	NewRoomStayCost *decimal.Decimal
	Totals
}

// ChangeRoom prorates the room cost around the switch day and adds the
// current services total. Due is not clamped; a negative value is a refund
// owed to the guest.
func ChangeRoom(totalDays int, changeAfterDays *int, oldPrice, newPrice, servicesTotal, paid decimal.Decimal) (RoomChangeQuote, error) {
	q := RoomChangeQuote{TotalDays: totalDays}

	if totalDays > 1 {
		if changeAfterDays == nil {
			return RoomChangeQuote{}, ErrChangeAfterDaysRequired
		}
		after := *changeAfterDays
		if after < 0 || after >= totalDays {
			return RoomChangeQuote{}, ErrChangeAfterDaysRange
		}
		oldCost := Round(oldPrice.Mul(decimal.NewFromInt(int64(after))))
		newCost := Round(newPrice.Mul(decimal.NewFromInt(int64(totalDays - after))))
		q.ChangeAfterDays = &after
		q.OldRoomStayCost = &oldCost
		q.NewRoomStayCost = &newCost
		q.Total = Round(oldCost.Add(newCost).Add(servicesTotal))
	} else {
		q.ChangeAfterDays = changeAfterDays
		q.Total = Round(newPrice.Add(servicesTotal))
	}

	q.Paid = paid
	q.Due = Due(q.Total, paid)
	return q, nil
}

// ApplyDelta shifts totals by a service line change. Due is not clamped.
func ApplyDelta(current Totals, totalDelta, paidDelta decimal.Decimal) Totals {
	total := Round(current.Total.Add(totalDelta))
	paid := Round(current.Paid.Add(paidDelta))
	return Totals{Total: total, Paid: paid, Due: Due(total, paid)}
}

// ApplyPayment records an additional payment. Due is not clamped.
func ApplyPayment(current Totals, amount decimal.Decimal) Totals {
	paid := Round(current.Paid.Add(amount))
	return Totals{Total: current.Total, Paid: paid, Due: Due(current.Total, paid)}
}

// LineTotal prices quantity units of a service.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// MinimumAdvance is the smallest payment accepted for an online booking.
func MinimumAdvance(total decimal.Decimal, percent int) decimal.Decimal {
	return Percent(total, percent)
}
