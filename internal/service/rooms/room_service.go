package rooms

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/availability"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RoomUseCase interface {
	ListRooms(ctx context.Context, caller domain.CallerContext, hotelID int64) ([]domain.Room, error)
	GetRoom(ctx context.Context, caller domain.CallerContext, id int64) (*domain.Room, error)
	AvailableRooms(ctx context.Context, caller domain.CallerContext, query AvailabilityQuery) ([]domain.Room, error)
}

// RoomCache holds the per-hotel catalogue. A miss is nil, nil.
type RoomCache interface {
	GetHotelRooms(ctx context.Context, hotelID int64) ([]domain.Room, error)
	SetHotelRooms(ctx context.Context, hotelID int64, rooms []domain.Room) error
}

// AvailabilityQuery searches the rooms of a hotel free for a stay.
// ExcludeRoomID drops the booking's current room when looking for a swap.
type AvailabilityQuery struct {
	HotelID       int64     `form:"hotel_id" validate:"min=0"`
	CheckIn       time.Time `form:"check_in_date" time_format:"2006-01-02" validate:"required"`
	CheckOut      time.Time `form:"check_out_date" time_format:"2006-01-02" validate:"required"`
	PartySize     int       `form:"no_of_people" validate:"min=0"`
	ExcludeRoomID int64     `form:"exclude_room_id" validate:"min=0"`
}

type RoomService struct {
	repo  repository.RoomRepository
	cache RoomCache
}

func NewRoomService(repo repository.RoomRepository, cache RoomCache) *RoomService {
	return &RoomService{repo: repo, cache: cache}
}

// ListRooms returns the hotel's catalogue. Customers only see active rooms.
func (s *RoomService) ListRooms(ctx context.Context, caller domain.CallerContext, hotelID int64) ([]domain.Room, error) {
	hotelID, err := resolveHotel(caller, hotelID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.catalogue(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() {
		return rooms, nil
	}

	active := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

func (s *RoomService) GetRoom(ctx context.Context, caller domain.CallerContext, id int64) (*domain.Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Room %d not found.", id).With("room_id", id)
		}
		return nil, domain.Persistence(err)
	}
	if caller.Role != domain.RoleCustomer && !caller.CanAccessHotel(room.HotelID) {
		return nil, domain.Forbidden("You are not allowed to access this room.")
	}
	return room, nil
}

// AvailableRooms lists the active rooms that fit the party and have no
// occupying booking over the stay. Occupancy is always read fresh.
func (s *RoomService) AvailableRooms(ctx context.Context, caller domain.CallerContext, query AvailabilityQuery) ([]domain.Room, error) {
	if err := validate.Struct(query); err != nil {
		return nil, domain.Validation("Check-in and check-out dates are required.")
	}
	stay := domain.Stay{CheckIn: domain.Date(query.CheckIn), CheckOut: domain.Date(query.CheckOut)}
	if !stay.CheckOut.After(stay.CheckIn) {
		return nil, domain.Validation("Check-out date must be after the check-in date.")
	}
	hotelID, err := resolveHotel(caller, query.HotelID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.catalogue(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.repo.OccupiedRoomIDs(ctx, hotelID, stay)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return availability.FilterRooms(rooms, occupied, query.PartySize, query.ExcludeRoomID), nil
}

// catalogue reads through the cache. Cache failures fall back to the
// database.
func (s *RoomService) catalogue(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	if s.cache != nil {
		cached, err := s.cache.GetHotelRooms(ctx, hotelID)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			log.Printf("WARNING: rooms cache read for hotel %d failed: %v", hotelID, err)
		}
	}

	rooms, err := s.repo.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if s.cache != nil {
		if err := s.cache.SetHotelRooms(ctx, hotelID, rooms); err != nil {
			log.Printf("WARNING: rooms cache write for hotel %d failed: %v", hotelID, err)
		}
	}
	return rooms, nil
}

func resolveHotel(caller domain.CallerContext, requested int64) (int64, error) {
	if caller.Role == domain.RoleHotelAdmin {
		if requested == 0 {
			return caller.HotelID, nil
		}
		if !caller.CanAccessHotel(requested) {
			return 0, domain.Forbidden("You can only view rooms of your own hotel.")
		}
		return requested, nil
	}
	if requested == 0 {
		return 0, domain.Validation("Hotel is required.").With("hotel_id", requested)
	}
	return requested, nil
}

var _ RoomUseCase = (*RoomService)(nil)
