package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	HotelID             int64                       `json:"hotel_id"`
	RoomID              int64                       `json:"room_id"`
	CustomerName        string                      `json:"customer_name"`
	Email               string                      `json:"email"`
	Phone               string                      `json:"phone"`
	PartySize           int                         `json:"no_of_people"`
	CheckIn             string                      `json:"check_in_date"`
	CheckOut            string                      `json:"check_out_date"`
	Guests              []booking.GuestInput        `json:"guests"`
	PaidAmount          decimal.Decimal             `json:"paid_amount"`
	PaymentMode         domain.PaymentMode          `json:"mode_of_payment"`
	OnlinePaymentStatus *domain.OnlinePaymentStatus `json:"online_payment_status"`
}

type changeStayRequest struct {
	CheckOut string `json:"check_out_date"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings/:id", h.get)
	router.PATCH("/bookings/:id", h.updateDetails)
	router.PUT("/bookings/:id/confirm", h.confirm)
	router.PUT("/bookings/:id/check-in", h.checkIn)
	router.PUT("/bookings/:id/checkout", h.checkout)
	router.PUT("/bookings/:id/cancel", h.cancel)
	router.PUT("/bookings/:id/room", h.changeRoom)
	router.PUT("/bookings/:id/stay", h.changeStay)
	router.POST("/bookings/:id/payments", h.addPayment)
	router.GET("/bookings/:id/room-changes", h.roomChanges)
	router.POST("/bookings/:id/services", h.addService)
	router.PUT("/booking-services/:id", h.updateService)
	router.DELETE("/booking-services/:id", h.removeService)
	router.GET("/guests/in-house", h.inHouse)
}

func (h *BookingHandler) create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	checkIn, ok := parseDate(c, "check_in_date", req.CheckIn)
	if !ok {
		return
	}
	checkOut, ok := parseDate(c, "check_out_date", req.CheckOut)
	if !ok {
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), caller, booking.CreateBookingInput{
		HotelID:      req.HotelID,
		RoomID:       req.RoomID,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
		PartySize:    req.PartySize,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       req.Guests,
		Payment: booking.PaymentInfo{
			PaidAmount:   req.PaidAmount,
			Mode:         req.PaymentMode,
			OnlineStatus: req.OnlinePaymentStatus,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) get(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) updateDetails(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	var input booking.UpdateDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.UpdateDetails(c.Request.Context(), caller, id, input)
	})
}

func (h *BookingHandler) confirm(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.ConfirmBooking(c.Request.Context(), caller, id)
	})
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.CheckIn(c.Request.Context(), caller, id)
	})
}

func (h *BookingHandler) checkout(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.Checkout(c.Request.Context(), caller, id)
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.CancelBooking(c.Request.Context(), caller, id)
	})
}

func (h *BookingHandler) changeRoom(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	var input booking.ChangeRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.ChangeRoom(c.Request.Context(), caller, id, input)
	})
}

func (h *BookingHandler) changeStay(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	var req changeStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	checkOut, ok := parseDate(c, "check_out_date", req.CheckOut)
	if !ok {
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.ExtendOrReduceStay(c.Request.Context(), caller, id, booking.ChangeStayInput{CheckOut: checkOut})
	})
}

func (h *BookingHandler) addPayment(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	var input booking.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.respond(c, func() (*domain.Booking, error) {
		return h.service.AddPayment(c.Request.Context(), caller, id, input)
	})
}

func (h *BookingHandler) roomChanges(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	changes, err := h.service.ListRoomChanges(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]roomChangeResponse, 0, len(changes))
	for _, ch := range changes {
		out = append(out, toRoomChangeResponse(ch))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) addService(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	var input booking.AddServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	line, err := h.service.AddService(c.Request.Context(), caller, id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toServiceLineResponse(*line))
}

func (h *BookingHandler) updateService(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	var input booking.UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	line, err := h.service.UpdateService(c.Request.Context(), caller, id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceLineResponse(*line))
}

func (h *BookingHandler) removeService(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveService(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) inHouse(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var day time.Time
	if raw := c.Query("date"); raw != "" {
		if day, ok = parseDate(c, "date", raw); !ok {
			return
		}
	}
	bookings, err := h.service.ListInHouseGuests(c.Request.Context(), caller, day)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) respond(c *gin.Context, op func() (*domain.Booking, error)) {
	b, err := op()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func requireCaller(c *gin.Context) (domain.CallerContext, bool) {
	caller, ok := callerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header required."})
		return domain.CallerContext{}, false
	}
	return caller, true
}

func callerAndID(c *gin.Context) (domain.CallerContext, int64, bool) {
	caller, ok := requireCaller(c)
	if !ok {
		return caller, 0, false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return caller, 0, false
	}
	return caller, id, true
}

func parseDate(c *gin.Context, field, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		badRequest(c, field+" must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return t, true
}
