package api

import (
	"net/http"

	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/service/locations"
	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	service locations.LocationUseCase
}

type quoteRequest struct {
	Location    string         `json:"location" binding:"required"`
	GuestsCount int            `json:"guests_count"`
	Date        string         `json:"date"`
	AddonsQty   map[string]int `json:"addons_qty"`
}

func NewLocationHandler(service locations.LocationUseCase) *LocationHandler {
	return &LocationHandler{service: service}
}

func (h *LocationHandler) Register(router *gin.RouterGroup) {
	router.GET("/locations", h.list)
	router.GET("/locations/:key", h.get)
	router.POST("/quote", h.quote)
}

func (h *LocationHandler) list(c *gin.Context) {
	listing, err := h.service.List(c.Request.Context(), language(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *LocationHandler) get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), domain.LocationKey(c.Param("key")), language(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *LocationHandler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	addons, ok := parseAddons(req.AddonsQty)
	if !ok {
		badRequest(c, "unknown add-on")
		return
	}

	price, err := h.service.Quote(c.Request.Context(), locations.QuoteInput{
		Location:    domain.LocationKey(req.Location),
		GuestsCount: req.GuestsCount,
		DateISO:     req.Date,
		AddonsQty:   addons,
		Language:    language(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

// parseAddons rejects keys outside the closed add-on set.
func parseAddons(raw map[string]int) (map[domain.Addon]int, bool) {
	if raw == nil {
		return nil, true
	}
	out := make(map[domain.Addon]int, len(raw))
	for k, q := range raw {
		a, ok := domain.ParseAddon(k)
		if !ok {
			return nil, false
		}
		out[a] = q
	}
	return out, true
}
