package booking

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/availability"
	"github.com/shopspring/decimal"
)

// memStore is a stateful BookingRepository for tests. WithTx holds a single
// mutex for the whole transaction and restores a snapshot when fn fails.
// Since the mutex already serializes everything, each memTx also records
// which rooms it locked so tests can check that every overlap query runs
// under the room's row lock.
type memStore struct {
	mu sync.Mutex

	rooms    map[int64]domain.Room
	catalog  map[int64]domain.HotelService
	bookings map[int64]domain.Booking
	guests   map[int64][]domain.Guest
	lines    map[int64]domain.BookingService
	changes  []domain.BookingRoomChange
	nextID   int64

	// failUpdate makes UpdateBooking fail, to exercise rollback.
	failUpdate error
	// overlapQueries counts HasOverlap calls.
	overlapQueries int
	// unlockedOverlaps lists rooms queried for overlap before LockRoom was
	// called on them in the same transaction.
	unlockedOverlaps []int64
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    map[int64]domain.Room{},
		catalog:  map[int64]domain.HotelService{},
		bookings: map[int64]domain.Booking{},
		guests:   map[int64][]domain.Guest{},
		lines:    map[int64]domain.BookingService{},
		nextID:   100,
	}
}

func (s *memStore) addRoom(r domain.Room) {
	s.rooms[r.ID] = r
}

func (s *memStore) addService(svc domain.HotelService) {
	s.catalog[svc.ID] = svc
}

func (s *memStore) addBooking(b domain.Booking) int64 {
	if b.ID == 0 {
		s.nextID++
		b.ID = s.nextID
	}
	b.Room = nil
	s.bookings[b.ID] = b
	return b.ID
}

func (s *memStore) addLine(l domain.BookingService) int64 {
	if l.ID == 0 {
		s.nextID++
		l.ID = s.nextID
	}
	s.lines[l.ID] = l
	return l.ID
}

func (s *memStore) booking(id int64) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

type memSnapshot struct {
	bookings map[int64]domain.Booking
	guests   map[int64][]domain.Guest
	lines    map[int64]domain.BookingService
	changes  []domain.BookingRoomChange
	nextID   int64
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		bookings: make(map[int64]domain.Booking, len(s.bookings)),
		guests:   make(map[int64][]domain.Guest, len(s.guests)),
		lines:    make(map[int64]domain.BookingService, len(s.lines)),
		changes:  append([]domain.BookingRoomChange(nil), s.changes...),
		nextID:   s.nextID,
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	for k, v := range s.guests {
		snap.guests[k] = append([]domain.Guest(nil), v...)
	}
	for k, v := range s.lines {
		snap.lines[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.bookings = snap.bookings
	s.guests = snap.guests
	s.lines = snap.lines
	s.changes = snap.changes
	s.nextID = snap.nextID
}

func (s *memStore) WithTx(ctx context.Context, fn func(tx repository.BookingTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&memTx{s: s, locked: map[int64]bool{}}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) withRoom(b domain.Booking) *domain.Booking {
	if r, ok := s.rooms[b.RoomID]; ok {
		b.Room = &r
	}
	return &b
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.withRoom(b), nil
}

func (s *memStore) ListGuests(ctx context.Context, bookingID int64) ([]domain.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Guest{}, s.guests[bookingID]...), nil
}

func (s *memStore) ListServices(ctx context.Context, bookingID int64) ([]domain.BookingService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]domain.BookingService, 0)
	for _, l := range s.lines {
		if l.BookingID == bookingID {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

func (s *memStore) ListRoomChanges(ctx context.Context, bookingID int64) ([]domain.BookingRoomChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changes := make([]domain.BookingRoomChange, 0)
	for _, c := range s.changes {
		if c.BookingID == bookingID {
			changes = append(changes, c)
		}
	}
	return changes, nil
}

func (s *memStore) ListInHouse(ctx context.Context, hotelID int64, day time.Time) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if hotelID != 0 && b.HotelID != hotelID {
			continue
		}
		if b.Status != domain.BookingStatusCheckedIn || !b.Confirmed {
			continue
		}
		if b.CheckIn.After(day) || b.CheckOut.Before(day) {
			continue
		}
		out = append(out, *s.withRoom(b))
	}
	return out, nil
}

func (s *memStore) ListCheckoutsDue(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if b.Status == domain.BookingStatusCheckedIn && b.Confirmed && b.CheckOut.Equal(day) {
			out = append(out, *s.withRoom(b))
		}
	}
	return out, nil
}

type memTx struct {
	s      *memStore
	locked map[int64]bool
}

func (t *memTx) LockRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	t.locked[roomID] = true
	r, ok := t.s.rooms[roomID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (t *memTx) GetBookingForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := t.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t.s.withRoom(b), nil
}

func (t *memTx) HasOverlap(ctx context.Context, roomID int64, stay domain.Stay, excludeBookingID int64) (bool, error) {
	t.s.overlapQueries++
	if !t.locked[roomID] {
		t.s.unlockedOverlaps = append(t.s.unlockedOverlaps, roomID)
	}
	for _, b := range t.s.bookings {
		if availability.Conflicts(&b, roomID, stay, excludeBookingID) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CreateBooking(ctx context.Context, b *domain.Booking) error {
	t.s.nextID++
	b.ID = t.s.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	stored.Room = nil
	t.s.bookings[b.ID] = stored
	return nil
}

func (t *memTx) CreateGuests(ctx context.Context, bookingID int64, guests []domain.Guest) error {
	for _, g := range guests {
		t.s.nextID++
		g.ID = t.s.nextID
		g.BookingID = bookingID
		t.s.guests[bookingID] = append(t.s.guests[bookingID], g)
	}
	return nil
}

func (t *memTx) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	if t.s.failUpdate != nil {
		return t.s.failUpdate
	}
	if _, ok := t.s.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *b
	stored.Room = nil
	stored.Guests = nil
	stored.Services = nil
	t.s.bookings[b.ID] = stored
	return nil
}

func (t *memTx) GetHotelService(ctx context.Context, hotelID, serviceID int64) (*domain.HotelService, error) {
	svc, ok := t.s.catalog[serviceID]
	if !ok || svc.HotelID != hotelID {
		return nil, repository.ErrNotFound
	}
	return &svc, nil
}

func (t *memTx) GetBookingServiceForUpdate(ctx context.Context, id int64) (*domain.BookingService, error) {
	l, ok := t.s.lines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (t *memTx) CreateBookingService(ctx context.Context, l *domain.BookingService) error {
	t.s.nextID++
	l.ID = t.s.nextID
	t.s.lines[l.ID] = *l
	return nil
}

func (t *memTx) UpdateBookingService(ctx context.Context, l *domain.BookingService) error {
	t.s.lines[l.ID] = *l
	return nil
}

func (t *memTx) DeleteBookingService(ctx context.Context, id int64) error {
	if _, ok := t.s.lines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.s.lines, id)
	return nil
}

func (t *memTx) SumServiceTotals(ctx context.Context, bookingID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range t.s.lines {
		if l.BookingID == bookingID {
			sum = sum.Add(l.TotalPrice)
		}
	}
	return sum, nil
}

func (t *memTx) CreateRoomChange(ctx context.Context, c *domain.BookingRoomChange) error {
	t.s.nextID++
	c.ID = t.s.nextID
	t.s.changes = append(t.s.changes, *c)
	return nil
}

var (
	_ repository.BookingRepository = (*memStore)(nil)
	_ repository.BookingTx         = (*memTx)(nil)
)
