package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/Domenick1991/paraglide/internal/service/session"
	"github.com/Domenick1991/paraglide/internal/ticket"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service session.SessionUseCase
}

type contactRequest struct {
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	PickupLocation *string `json:"pickup_location"`
	SpecialRequest *string `json:"special_request"`
}

type guestRequest struct {
	FullName    *string  `json:"full_name"`
	DateOfBirth *string  `json:"date_of_birth"`
	Gender      *string  `json:"gender"`
	IDNumber    *string  `json:"id_number"`
	WeightKg    *float64 `json:"weight_kg"`
	Nationality *string  `json:"nationality"`
}

type patchSessionRequest struct {
	Location      *string        `json:"location"`
	GuestsCount   *int           `json:"guests_count"`
	Date          *string        `json:"date"`
	TimeSlot      *string        `json:"time_slot"`
	AddonsQty     map[string]int `json:"addons_qty"`
	AcceptedTerms *bool          `json:"accepted_terms"`
}

type guestsCountRequest struct {
	GuestsCount int `json:"guests_count"`
}

type addonQtyRequest struct {
	Qty int `json:"qty"`
}

func NewSessionHandler(service session.SessionUseCase) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.start)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.patch)
	router.DELETE("/:id", h.discard)
	router.PUT("/:id/guests-count", h.setGuestsCount)
	router.PUT("/:id/guests/:index", h.setGuest)
	router.PUT("/:id/contact", h.setContact)
	router.PUT("/:id/addons/:addon", h.setAddonQty)
	router.POST("/:id/next", h.next)
	router.POST("/:id/back", h.back)
	router.POST("/:id/reset", h.reset)
	router.GET("/:id/ticket", h.ticket)
	router.GET("/:id/ticket.png", h.ticketPNG)
}

func (h *SessionHandler) start(c *gin.Context) {
	view, err := h.service.Start(c.Request.Context(), language(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *SessionHandler) get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"), language(c))
	h.respond(c, view, err)
}

func (h *SessionHandler) patch(c *gin.Context) {
	var req patchSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	addons, ok := parseAddons(req.AddonsQty)
	if !ok {
		badRequest(c, "unknown add-on")
		return
	}

	p := flow.Patch{
		GuestsCount:   req.GuestsCount,
		DateISO:       req.Date,
		TimeSlot:      req.TimeSlot,
		AddonsQty:     addons,
		AcceptedTerms: req.AcceptedTerms,
	}
	if req.Location != nil {
		key, ok := domain.ParseLocationKey(*req.Location)
		if !ok {
			badRequest(c, fmt.Sprintf("unknown location %q", *req.Location))
			return
		}
		p.Location = &key
	}

	h.apply(c, func(s *flow.Store) error { return s.Update(p) })
}

func (h *SessionHandler) setGuestsCount(c *gin.Context) {
	var req guestsCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.apply(c, func(s *flow.Store) error {
		s.SetGuestsCount(req.GuestsCount)
		return nil
	})
}

func (h *SessionHandler) setGuest(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "invalid guest index")
		return
	}
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p := flow.GuestPatch{
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		IDNumber:    req.IDNumber,
		WeightKg:    req.WeightKg,
		Nationality: req.Nationality,
	}
	if req.Gender != nil {
		g, ok := domain.ParseGender(*req.Gender)
		if !ok {
			badRequest(c, fmt.Sprintf("unknown gender %q", *req.Gender))
			return
		}
		p.Gender = &g
	}

	h.apply(c, func(s *flow.Store) error { return s.SetGuest(index, p) })
}

func (h *SessionHandler) setContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.apply(c, func(s *flow.Store) error {
		s.SetContact(flow.ContactPatch{
			Phone:          req.Phone,
			Email:          req.Email,
			PickupLocation: req.PickupLocation,
			SpecialRequest: req.SpecialRequest,
		})
		return nil
	})
}

func (h *SessionHandler) setAddonQty(c *gin.Context) {
	addon, ok := domain.ParseAddon(c.Param("addon"))
	if !ok {
		badRequest(c, "unknown add-on")
		return
	}
	var req addonQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.apply(c, func(s *flow.Store) error {
		s.SetAddonQty(addon, req.Qty)
		return nil
	})
}

func (h *SessionHandler) next(c *gin.Context) {
	view, err := h.service.Next(c.Request.Context(), c.Param("id"), language(c))
	h.respond(c, view, err)
}

func (h *SessionHandler) back(c *gin.Context) {
	view, err := h.service.Back(c.Request.Context(), c.Param("id"), language(c))
	h.respond(c, view, err)
}

func (h *SessionHandler) reset(c *gin.Context) {
	view, err := h.service.Reset(c.Request.Context(), c.Param("id"), language(c))
	h.respond(c, view, err)
}

func (h *SessionHandler) discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) ticket(c *gin.Context) {
	t, err := h.service.Ticket(c.Request.Context(), c.Param("id"), language(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *SessionHandler) ticketPNG(c *gin.Context) {
	t, err := h.service.Ticket(c.Request.Context(), c.Param("id"), language(c))
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := ticket.RenderPNG(&buf, *t); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.png"`, t.Code))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *SessionHandler) apply(c *gin.Context, m session.Mutation) {
	view, err := h.service.Apply(c.Request.Context(), c.Param("id"), language(c), m)
	h.respond(c, view, err)
}

func (h *SessionHandler) respond(c *gin.Context, view *session.View, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
