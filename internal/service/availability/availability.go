// Package availability decides whether a room is free for a stay.
//
// A room is taken for a stay when a confirmed booking in an occupying state
// (active or check-in) overlaps it under half-open semantics. Pending,
// cancelled and checked-out bookings never block a room.
package availability

import (
	"context"

	"github.com/Domenick1991/hotelbooking/internal/domain"
)

// OverlapFinder answers the overlap query. Implementations run it inside the
// caller's transaction.
type OverlapFinder interface {
	HasOverlap(ctx context.Context, roomID int64, stay domain.Stay, excludeBookingID int64) (bool, error)
}

type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

// IsRoomAvailable reports whether roomID is free for stay. excludeBookingID
// lets a booking ignore itself; 0 excludes nothing.
func (c *Checker) IsRoomAvailable(ctx context.Context, finder OverlapFinder, roomID int64, stay domain.Stay, excludeBookingID int64) (bool, error) {
	taken, err := finder.HasOverlap(ctx, roomID, stay, excludeBookingID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Conflicts is the in-memory form of the overlap query.
func Conflicts(existing *domain.Booking, roomID int64, stay domain.Stay, excludeBookingID int64) bool {
	if existing.RoomID != roomID {
		return false
	}
	if excludeBookingID != 0 && existing.ID == excludeBookingID {
		return false
	}
	return existing.Occupying() && existing.Stay().Overlaps(stay)
}

// FilterRooms keeps the active rooms that fit the party and are not occupied.
// excludeRoomID drops one room, typically the booking's current room.
func FilterRooms(rooms []domain.Room, occupied []int64, partySize int, excludeRoomID int64) []domain.Room {
	taken := make(map[int64]struct{}, len(occupied))
	for _, id := range occupied {
		taken[id] = struct{}{}
	}

	available := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if !r.Active || r.ID == excludeRoomID {
			continue
		}
		if partySize > 0 && !r.Fits(partySize) {
			continue
		}
		if _, ok := taken[r.ID]; ok {
			continue
		}
		available = append(available, r)
	}
	return available
}
