package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/domain"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/Domenick1991/paraglide/internal/middleware"
	"github.com/Domenick1991/paraglide/internal/service/booking"
	"github.com/Domenick1991/paraglide/internal/service/locations"
	"github.com/Domenick1991/paraglide/internal/service/session"
	"github.com/gin-gonic/gin"
)

// language picks the display language from ?lang=, then Accept-Language.
func language(c *gin.Context) domain.Language {
	if lang, ok := domain.ParseLanguage(c.Query("lang")); ok {
		return lang
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(part, ";")
		if lang, ok := domain.ParseLanguage(tag); ok {
			return lang
		}
	}
	return domain.DefaultLanguage
}

func badRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Message: "Bad Request", Details: details})
}

func writeError(c *gin.Context, err error) {
	lang := language(c)

	var (
		gateErr   *flow.GateError
		submitErr *session.SubmitError
		rejection *booking.RejectionError
	)
	switch {
	case errors.As(err, &gateErr):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{
			Message: gateErr.Message(lang),
			Details: fmt.Sprintf("step %d", gateErr.Step),
			Fields:  map[string]string{gateErr.Field: string(gateErr.Reason)},
		})
	case errors.As(err, &submitErr):
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorResponse{
			Message: "Booking rejected",
			Details: fmt.Sprintf("step %d", submitErr.Step),
			Fields:  submitErr.Fields,
		})
	case errors.As(err, &rejection):
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorResponse{
			Message: "Booking rejected",
			Fields:  rejection.Fields,
		})
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, booking.ErrNotFound),
		errors.Is(err, locations.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Message: "Not Found", Details: err.Error()})
	case errors.Is(err, flow.ErrUnknownLocation), errors.Is(err, flow.ErrGuestIndex):
		badRequest(c, err.Error())
	case errors.Is(err, session.ErrSubmitInProgress),
		errors.Is(err, session.ErrCompleted),
		errors.Is(err, session.ErrNotCompleted),
		errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusConflict, middleware.ErrorResponse{Message: "Conflict", Details: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{
			Message: "Internal Server Error",
			Details: "An unexpected error occurred. Please try again later.",
		})
	}
}
