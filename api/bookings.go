package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/pricing"
	"github.com/Domenick1991/paraglide/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type guestPayload struct {
	FullName    string  `json:"full_name"`
	DateOfBirth string  `json:"date_of_birth"`
	Gender      string  `json:"gender"`
	IDNumber    string  `json:"id_number"`
	WeightKg    float64 `json:"weight_kg"`
	Nationality string  `json:"nationality,omitempty"`
}

type contactPayload struct {
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PickupLocation string `json:"pickup_location,omitempty"`
	SpecialRequest string `json:"special_request,omitempty"`
}

type createBookingRequest struct {
	Location    string         `json:"location" binding:"required"`
	GuestsCount int            `json:"guests_count" binding:"required,min=1"`
	Date        string         `json:"date" binding:"required"`
	TimeSlot    string         `json:"time_slot" binding:"required"`
	Contact     contactPayload `json:"contact"`
	Guests      []guestPayload `json:"guests" binding:"required"`
	AddonsQty   map[string]int `json:"addons_qty"`
	Price       int64          `json:"price"`
	Language    string         `json:"language"`
}

type bookingResponse struct {
	ID          int64          `json:"id"`
	Code        string         `json:"code"`
	Status      string         `json:"status"`
	Location    string         `json:"location"`
	GuestsCount int            `json:"guests_count"`
	Date        string         `json:"date"`
	TimeSlot    string         `json:"time_slot"`
	Contact     contactPayload `json:"contact"`
	Guests      []guestPayload `json:"guests"`
	AddonsQty   map[string]int `json:"addons_qty"`
	TotalVND    int64          `json:"total_vnd"`
	Total       string         `json:"total"`
	Language    string         `json:"language"`
	CreatedAt   string         `json:"created_at,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:code", h.get)
	router.PUT("/:code", h.confirm)
	router.DELETE("/:code", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := booking.CreateBookingInput{
		Location:    domain.LocationKey(req.Location),
		GuestsCount: req.GuestsCount,
		DateISO:     req.Date,
		TimeSlot:    req.TimeSlot,
		Contact: domain.Contact{
			Phone:          req.Contact.Phone,
			Email:          req.Contact.Email,
			PickupLocation: req.Contact.PickupLocation,
			SpecialRequest: req.Contact.SpecialRequest,
		},
		AddonsQty: make(map[domain.Addon]int, len(req.AddonsQty)),
		PriceVND:  req.Price,
		Language:  domain.Language(req.Language),
	}
	for k, q := range req.AddonsQty {
		input.AddonsQty[domain.Addon(k)] = q
	}
	for i, g := range req.Guests {
		gender, ok := domain.ParseGender(g.Gender)
		if !ok {
			badRequest(c, fmt.Sprintf("guests[%d]: unknown gender %q", i, g.Gender))
			return
		}
		input.Guests = append(input.Guests, domain.Guest{
			FullName:    g.FullName,
			DateOfBirth: g.DateOfBirth,
			Gender:      gender,
			IDNumber:    g.IDNumber,
			WeightKg:    g.WeightKg,
			Nationality: g.Nationality,
		})
	}

	created, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("code"))
	h.respond(c, b, err)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	b, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("code"))
	h.respond(c, b, err)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("code"))
	h.respond(c, b, err)
}

func (h *BookingHandler) respond(c *gin.Context, b *domain.Booking, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:          b.ID,
		Code:        b.Code,
		Status:      string(b.Status),
		Location:    string(b.Location),
		GuestsCount: b.GuestsCount,
		Date:        b.FlightDate.Format("2006-01-02"),
		TimeSlot:    b.TimeSlot,
		Contact: contactPayload{
			Phone:          b.Contact.Phone,
			Email:          b.Contact.Email,
			PickupLocation: b.Contact.PickupLocation,
			SpecialRequest: b.Contact.SpecialRequest,
		},
		Guests:    make([]guestPayload, 0, len(b.Guests)),
		AddonsQty: make(map[string]int, len(b.AddonsQty)),
		TotalVND:  b.TotalVND,
		Total:     pricing.Format(b.TotalVND, pricing.CurrencyVND),
		Language:  string(b.Language),
	}
	if !b.CreatedAt.IsZero() {
		resp.CreatedAt = b.CreatedAt.Format(time.RFC3339)
	}
	for _, g := range b.Guests {
		resp.Guests = append(resp.Guests, guestPayload{
			FullName:    g.FullName,
			DateOfBirth: g.DateOfBirth,
			Gender:      string(g.Gender),
			IDNumber:    g.IDNumber,
			WeightKg:    g.WeightKg,
			Nationality: g.Nationality,
		})
	}
	for a, q := range b.AddonsQty {
		resp.AddonsQty[string(a)] = q
	}
	return resp
}
