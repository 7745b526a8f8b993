package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("record not found")

type BookingRepository interface {
	// WithTx runs fn in one transaction. Any error from fn rolls it back.
	WithTx(ctx context.Context, fn func(tx BookingTx) error) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListGuests(ctx context.Context, bookingID int64) ([]domain.Guest, error)
	ListServices(ctx context.Context, bookingID int64) ([]domain.BookingService, error)
	ListRoomChanges(ctx context.Context, bookingID int64) ([]domain.BookingRoomChange, error)
	ListInHouse(ctx context.Context, hotelID int64, day time.Time) ([]domain.Booking, error)
	ListCheckoutsDue(ctx context.Context, day time.Time) ([]domain.Booking, error)
}

// BookingTx is the set of reads and writes available inside a transaction.
type BookingTx interface {
	LockRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	GetBookingForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	HasOverlap(ctx context.Context, roomID int64, stay domain.Stay, excludeBookingID int64) (bool, error)
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	CreateGuests(ctx context.Context, bookingID int64, guests []domain.Guest) error
	UpdateBooking(ctx context.Context, booking *domain.Booking) error
	GetHotelService(ctx context.Context, hotelID, serviceID int64) (*domain.HotelService, error)
	GetBookingServiceForUpdate(ctx context.Context, id int64) (*domain.BookingService, error)
	CreateBookingService(ctx context.Context, line *domain.BookingService) error
	UpdateBookingService(ctx context.Context, line *domain.BookingService) error
	DeleteBookingService(ctx context.Context, id int64) error
	SumServiceTotals(ctx context.Context, bookingID int64) (decimal.Decimal, error)
	CreateRoomChange(ctx context.Context, change *domain.BookingRoomChange) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.hotel_id, b.room_id, b.customer_name, COALESCE(b.email, ''), COALESCE(b.phone, ''),
	b.no_of_people, b.check_in_date, b.check_out_date, b.confirm_booking, b.status,
	b.total_amount, b.paid_amount, b.due_amount, b.mode_of_payment, b.online_payment_status,
	b.created_by_user_id, b.created_at, b.updated_at,
	r.id, r.hotel_id, r.room_number, r.room_type, r.price, r.min_people, r.max_people, r.status`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var r domain.Room
	if err := row.Scan(&b.ID, &b.HotelID, &b.RoomID, &b.CustomerName, &b.Email, &b.Phone,
		&b.PartySize, &b.CheckIn, &b.CheckOut, &b.Confirmed, &b.Status,
		&b.TotalAmount, &b.PaidAmount, &b.DueAmount, &b.PaymentMode, &b.OnlinePaymentStatus,
		&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
		&r.ID, &r.HotelID, &r.RoomNumber, &r.RoomType, &r.Price, &r.MinPeople, &r.MaxPeople, &r.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.Room = &r
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) WithTx(ctx context.Context, fn func(tx BookingTx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgBookingTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN rooms r ON r.id = b.room_id
		WHERE b.id = $1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListGuests(ctx context.Context, bookingID int64) ([]domain.Guest, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, first_name, last_name, gender, age, phone, email,
		id_type, id_number, is_primary, status
		FROM guests WHERE booking_id = $1 ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := make([]domain.Guest, 0)
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(&g.ID, &g.BookingID, &g.FirstName, &g.LastName, &g.Gender, &g.Age, &g.Phone, &g.Email,
			&g.IDType, &g.IDNumber, &g.Primary, &g.Status); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *PGBookingRepository) ListServices(ctx context.Context, bookingID int64) ([]domain.BookingService, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingServiceColumns+`
		FROM booking_services bs JOIN hotel_services hs ON hs.id = bs.hotel_service_id
		WHERE bs.booking_id = $1 ORDER BY bs.id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.BookingService, 0)
	for rows.Next() {
		line, err := scanBookingService(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, rows.Err()
}

func (r *PGBookingRepository) ListRoomChanges(ctx context.Context, bookingID int64) ([]domain.BookingRoomChange, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, old_room_id, new_room_id, old_room_price, new_room_price,
		old_total_amount, new_total_amount, change_after_days, old_room_stay_cost, new_room_stay_cost,
		changed_by_user_id, changed_at
		FROM booking_room_changes WHERE booking_id = $1 ORDER BY changed_at, id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]domain.BookingRoomChange, 0)
	for rows.Next() {
		var c domain.BookingRoomChange
		if err := rows.Scan(&c.ID, &c.BookingID, &c.OldRoomID, &c.NewRoomID, &c.OldRoomPrice, &c.NewRoomPrice,
			&c.OldTotalAmount, &c.NewTotalAmount, &c.ChangeAfterDays, &c.OldRoomStayCost, &c.NewRoomStayCost,
			&c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// ListInHouse returns checked-in bookings whose stay covers day, check-out day
// included. hotelID 0 lists every hotel.
func (r *PGBookingRepository) ListInHouse(ctx context.Context, hotelID int64, day time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN rooms r ON r.id = b.room_id
		WHERE ($1::bigint = 0 OR b.hotel_id = $1)
			AND b.status = $2 AND b.confirm_booking
			AND b.check_in_date <= $3 AND b.check_out_date >= $3
		ORDER BY b.check_in_date DESC`, hotelID, domain.BookingStatusCheckedIn, day)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListCheckoutsDue(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN rooms r ON r.id = b.room_id
		WHERE b.status = $1 AND b.confirm_booking AND b.check_out_date = $2
		ORDER BY b.hotel_id, b.id`, domain.BookingStatusCheckedIn, day)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
