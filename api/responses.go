package api

import (
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/shopspring/decimal"
)

type roomResponse struct {
	ID         int64  `json:"id"`
	HotelID    int64  `json:"hotel_id"`
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	Price      string `json:"price"`
	MinPeople  int    `json:"min_people"`
	MaxPeople  int    `json:"max_people"`
	Active     bool   `json:"active"`
}

type guestResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Age       int    `json:"age"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Primary   bool   `json:"is_primary"`
	Status    string `json:"status"`
}

type serviceLineResponse struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"booking_id"`
	ServiceID   int64  `json:"hotel_service_id"`
	ServiceName string `json:"service_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	PaidAmount  string `json:"paid_amount"`
}

type bookingResponse struct {
	ID                  int64                 `json:"id"`
	HotelID             int64                 `json:"hotel_id"`
	RoomID              int64                 `json:"room_id"`
	Room                *roomResponse         `json:"room,omitempty"`
	CustomerName        string                `json:"customer_name"`
	Email               string                `json:"email"`
	Phone               string                `json:"phone"`
	PartySize           int                   `json:"no_of_people"`
	CheckIn             string                `json:"check_in_date"`
	CheckOut            string                `json:"check_out_date"`
	Confirmed           bool                  `json:"confirm_booking"`
	Status              string                `json:"status"`
	TotalAmount         string                `json:"total_amount"`
	PaidAmount          string                `json:"paid_amount"`
	DueAmount           string                `json:"due_amount"`
	PaymentMode         string                `json:"mode_of_payment"`
	OnlinePaymentStatus *string               `json:"online_payment_status"`
	Guests              []guestResponse       `json:"guests,omitempty"`
	Services            []serviceLineResponse `json:"services,omitempty"`
}

type roomChangeResponse struct {
	ID              int64     `json:"id"`
	OldRoomID       int64     `json:"old_room_id"`
	NewRoomID       int64     `json:"new_room_id"`
	OldRoomPrice    string    `json:"old_room_price"`
	NewRoomPrice    string    `json:"new_room_price"`
	OldTotalAmount  string    `json:"old_total_amount"`
	NewTotalAmount  string    `json:"new_total_amount"`
	ChangeAfterDays *int      `json:"change_after_days"`
	OldRoomStayCost *string   `json:"old_room_stay_cost"`
	NewRoomStayCost *string   `json:"new_room_stay_cost"`
	ChangedBy       int64     `json:"changed_by"`
	ChangedAt       time.Time `json:"changed_at"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoney(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money(*d)
	return &s
}

func toRoomResponse(r domain.Room) roomResponse {
	return roomResponse{
		ID:         r.ID,
		HotelID:    r.HotelID,
		RoomNumber: r.RoomNumber,
		RoomType:   r.RoomType,
		Price:      money(r.Price),
		MinPeople:  r.MinPeople,
		MaxPeople:  r.MaxPeople,
		Active:     r.Active,
	}
}

func toRoomsResponse(rooms []domain.Room) []roomResponse {
	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomResponse(r))
	}
	return out
}

func toServiceLineResponse(l domain.BookingService) serviceLineResponse {
	return serviceLineResponse{
		ID:          l.ID,
		BookingID:   l.BookingID,
		ServiceID:   l.ServiceID,
		ServiceName: l.ServiceName,
		Quantity:    l.Quantity,
		UnitPrice:   money(l.UnitPrice),
		TotalPrice:  money(l.TotalPrice),
		PaidAmount:  money(l.PaidAmount),
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:           b.ID,
		HotelID:      b.HotelID,
		RoomID:       b.RoomID,
		CustomerName: b.CustomerName,
		Email:        b.Email,
		Phone:        b.Phone,
		PartySize:    b.PartySize,
		CheckIn:      b.CheckIn.Format(time.DateOnly),
		CheckOut:     b.CheckOut.Format(time.DateOnly),
		Confirmed:    b.Confirmed,
		Status:       string(b.Status),
		TotalAmount:  money(b.TotalAmount),
		PaidAmount:   money(b.PaidAmount),
		DueAmount:    money(b.DueAmount),
		PaymentMode:  string(b.PaymentMode),
	}
	if b.OnlinePaymentStatus != nil {
		s := string(*b.OnlinePaymentStatus)
		resp.OnlinePaymentStatus = &s
	}
	if b.Room != nil {
		room := toRoomResponse(*b.Room)
		resp.Room = &room
	}
	for _, g := range b.Guests {
		resp.Guests = append(resp.Guests, guestResponse{
			ID:        g.ID,
			FirstName: g.FirstName,
			LastName:  g.LastName,
			Gender:    g.Gender,
			Age:       g.Age,
			Phone:     g.Phone,
			Email:     g.Email,
			Primary:   g.Primary,
			Status:    g.Status,
		})
	}
	for _, l := range b.Services {
		resp.Services = append(resp.Services, toServiceLineResponse(l))
	}
	return resp
}

func toRoomChangeResponse(c domain.BookingRoomChange) roomChangeResponse {
	return roomChangeResponse{
		ID:              c.ID,
		OldRoomID:       c.OldRoomID,
		NewRoomID:       c.NewRoomID,
		OldRoomPrice:    money(c.OldRoomPrice),
		NewRoomPrice:    money(c.NewRoomPrice),
		OldTotalAmount:  money(c.OldTotalAmount),
		NewTotalAmount:  money(c.NewTotalAmount),
		ChangeAfterDays: c.ChangeAfterDays,
		OldRoomStayCost: optionalMoney(c.OldRoomStayCost),
		NewRoomStayCost: optionalMoney(c.NewRoomStayCost),
		ChangedBy:       c.ChangedBy,
		ChangedAt:       c.ChangedAt,
	}
}
