package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type pgBookingTx struct {
	tx pgx.Tx
}

const bookingServiceColumns = `bs.id, bs.hotel_id, bs.booking_id, bs.hotel_service_id, hs.name, bs.quantity,
	bs.unit_price, bs.total_price, bs.paid_amount, bs.created_at, bs.updated_at`

func scanBookingService(row pgx.Row) (*domain.BookingService, error) {
	var s domain.BookingService
	if err := row.Scan(&s.ID, &s.HotelID, &s.BookingID, &s.ServiceID, &s.ServiceName, &s.Quantity,
		&s.UnitPrice, &s.TotalPrice, &s.PaidAmount, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// LockRoom reads the room row FOR UPDATE. Every writer that depends on the
// room's occupancy takes this lock before its overlap query, which serializes
// them per room.
func (t *pgBookingTx) LockRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	var r domain.Room
	err := t.tx.QueryRow(ctx, `SELECT id, hotel_id, room_number, room_type, price, min_people, max_people, status
		FROM rooms WHERE id = $1 FOR UPDATE`, roomID).
		Scan(&r.ID, &r.HotelID, &r.RoomNumber, &r.RoomType, &r.Price, &r.MinPeople, &r.MaxPeople, &r.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (t *pgBookingTx) GetBookingForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN rooms r ON r.id = b.room_id
		WHERE b.id = $1
		FOR UPDATE OF b`, id)
	return scanBooking(row)
}

func (t *pgBookingTx) HasOverlap(ctx context.Context, roomID int64, stay domain.Stay, excludeBookingID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE room_id = $1
			AND confirm_booking
			AND status IN ($2, $3)
			AND check_in_date < $5
			AND check_out_date > $4
			AND id <> $6
	)`, roomID, domain.BookingStatusActive, domain.BookingStatusCheckedIn, stay.CheckIn, stay.CheckOut, excludeBookingID).
		Scan(&exists)
	return exists, err
}

func (t *pgBookingTx) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return t.tx.QueryRow(ctx, `INSERT INTO bookings (hotel_id, room_id, customer_name, email, phone, no_of_people,
		check_in_date, check_out_date, confirm_booking, status, total_amount, paid_amount, due_amount,
		mode_of_payment, online_payment_status, created_by_user_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`,
		b.HotelID, b.RoomID, b.CustomerName, b.Email, b.Phone, b.PartySize,
		b.CheckIn, b.CheckOut, b.Confirmed, b.Status, b.TotalAmount, b.PaidAmount, b.DueAmount,
		b.PaymentMode, b.OnlinePaymentStatus, b.CreatedBy).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (t *pgBookingTx) CreateGuests(ctx context.Context, bookingID int64, guests []domain.Guest) error {
	columns := []string{"booking_id", "first_name", "last_name", "gender", "age", "phone", "email",
		"id_type", "id_number", "is_primary", "status"}
	_, err := t.tx.CopyFrom(ctx, pgx.Identifier{"guests"}, columns,
		pgx.CopyFromSlice(len(guests), func(i int) ([]any, error) {
			g := guests[i]
			return []any{bookingID, g.FirstName, g.LastName, g.Gender, g.Age, g.Phone, g.Email,
				g.IDType, g.IDNumber, g.Primary, g.Status}, nil
		}))
	return err
}

func (t *pgBookingTx) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	cmd, err := t.tx.Exec(ctx, `UPDATE bookings SET
		room_id = $2, customer_name = $3, email = NULLIF($4, ''), phone = NULLIF($5, ''), no_of_people = $6,
		check_in_date = $7, check_out_date = $8, confirm_booking = $9, status = $10,
		total_amount = $11, paid_amount = $12, due_amount = $13, mode_of_payment = $14,
		updated_at = now()
		WHERE id = $1`,
		b.ID, b.RoomID, b.CustomerName, b.Email, b.Phone, b.PartySize,
		b.CheckIn, b.CheckOut, b.Confirmed, b.Status,
		b.TotalAmount, b.PaidAmount, b.DueAmount, b.PaymentMode)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgBookingTx) GetHotelService(ctx context.Context, hotelID, serviceID int64) (*domain.HotelService, error) {
	var s domain.HotelService
	err := t.tx.QueryRow(ctx, `SELECT id, hotel_id, name, price FROM hotel_services WHERE id = $1 AND hotel_id = $2`,
		serviceID, hotelID).Scan(&s.ID, &s.HotelID, &s.Name, &s.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (t *pgBookingTx) GetBookingServiceForUpdate(ctx context.Context, id int64) (*domain.BookingService, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+bookingServiceColumns+`
		FROM booking_services bs JOIN hotel_services hs ON hs.id = bs.hotel_service_id
		WHERE bs.id = $1
		FOR UPDATE OF bs`, id)
	return scanBookingService(row)
}

func (t *pgBookingTx) CreateBookingService(ctx context.Context, s *domain.BookingService) error {
	return t.tx.QueryRow(ctx, `INSERT INTO booking_services (hotel_id, booking_id, hotel_service_id, quantity,
		unit_price, total_price, paid_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		s.HotelID, s.BookingID, s.ServiceID, s.Quantity, s.UnitPrice, s.TotalPrice, s.PaidAmount).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (t *pgBookingTx) UpdateBookingService(ctx context.Context, s *domain.BookingService) error {
	return t.tx.QueryRow(ctx, `UPDATE booking_services
		SET quantity = $2, total_price = $3, paid_amount = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`, s.ID, s.Quantity, s.TotalPrice, s.PaidAmount).
		Scan(&s.UpdatedAt)
}

func (t *pgBookingTx) DeleteBookingService(ctx context.Context, id int64) error {
	cmd, err := t.tx.Exec(ctx, `DELETE FROM booking_services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgBookingTx) SumServiceTotals(ctx context.Context, bookingID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := t.tx.QueryRow(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM booking_services WHERE booking_id = $1`, bookingID).
		Scan(&sum)
	return sum, err
}

func (t *pgBookingTx) CreateRoomChange(ctx context.Context, c *domain.BookingRoomChange) error {
	return t.tx.QueryRow(ctx, `INSERT INTO booking_room_changes (booking_id, old_room_id, new_room_id,
		old_room_price, new_room_price, old_total_amount, new_total_amount,
		change_after_days, old_room_stay_cost, new_room_stay_cost, changed_by_user_id, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		c.BookingID, c.OldRoomID, c.NewRoomID, c.OldRoomPrice, c.NewRoomPrice, c.OldTotalAmount, c.NewTotalAmount,
		c.ChangeAfterDays, c.OldRoomStayCost, c.NewRoomStayCost, c.ChangedBy, c.ChangedAt).
		Scan(&c.ID)
}

var _ BookingTx = (*pgBookingTx)(nil)
