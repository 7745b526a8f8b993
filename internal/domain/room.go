package domain

import "github.com/shopspring/decimal"

type Room struct {
	ID         int64
	HotelID    int64
	RoomNumber string
	RoomType   string
	Price      decimal.Decimal
	MinPeople  int
	MaxPeople  int
	Active     bool
}

// Fits reports whether a party of the given size can stay in the room.
func (r *Room) Fits(partySize int) bool {
	return partySize >= r.MinPeople && partySize <= r.MaxPeople
}

// HotelService is a catalogue entry a booking can add lines from.
type HotelService struct {
	ID      int64
	HotelID int64
	Name    string
	Price   decimal.Decimal
}
