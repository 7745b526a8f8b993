package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	ListByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	// OccupiedRoomIDs lists rooms of the hotel with an occupying booking
	// overlapping stay.
	OccupiedRoomIDs(ctx context.Context, hotelID int64, stay domain.Stay) ([]int64, error)
}

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) ListByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT id, hotel_id, room_number, room_type, price, min_people, max_people, status
		FROM rooms WHERE hotel_id = $1 ORDER BY room_number`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.RoomNumber, &rm.RoomType, &rm.Price, &rm.MinPeople, &rm.MaxPeople, &rm.Active); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT id, hotel_id, room_number, room_type, price, min_people, max_people, status
		FROM rooms WHERE id = $1`, id)
	var rm domain.Room
	if err := row.Scan(&rm.ID, &rm.HotelID, &rm.RoomNumber, &rm.RoomType, &rm.Price, &rm.MinPeople, &rm.MaxPeople, &rm.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *PGRoomRepository) OccupiedRoomIDs(ctx context.Context, hotelID int64, stay domain.Stay) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT room_id FROM bookings
		WHERE hotel_id = $1
			AND confirm_booking
			AND status IN ($2, $3)
			AND check_in_date < $5
			AND check_out_date > $4`,
		hotelID, domain.BookingStatusActive, domain.BookingStatusCheckedIn, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

var _ RoomRepository = (*PGRoomRepository)(nil)
