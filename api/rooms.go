package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	service rooms.RoomUseCase
}

type availabilityRequest struct {
	HotelID       int64  `form:"hotel_id"`
	CheckIn       string `form:"check_in_date"`
	CheckOut      string `form:"check_out_date"`
	PartySize     int    `form:"no_of_people"`
	ExcludeRoomID int64  `form:"exclude_room_id"`
}

func NewRoomHandler(service rooms.RoomUseCase) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Register(router *gin.RouterGroup) {
	router.GET("/rooms", h.list)
	router.GET("/rooms/available", h.available)
	router.GET("/rooms/:id", h.get)
}

func (h *RoomHandler) list(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var hotelID int64
	if raw := c.Query("hotel_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid hotel_id")
			return
		}
		hotelID = id
	}

	list, err := h.service.ListRooms(c.Request.Context(), caller, hotelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomsResponse(list))
}

func (h *RoomHandler) get(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(*room))
}

func (h *RoomHandler) available(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
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

	list, err := h.service.AvailableRooms(c.Request.Context(), caller, rooms.AvailabilityQuery{
		HotelID:       req.HotelID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		PartySize:     req.PartySize,
		ExcludeRoomID: req.ExcludeRoomID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomsResponse(list))
}
