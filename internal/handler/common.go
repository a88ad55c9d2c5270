package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/123R3N321/FoodTok/internal/repository"
)

// getUserID extracts the authenticated user id injected by the JWT
// middleware. Returns ErrAuthRequired when the request carries no
// identity; every booking operation demands one.
func getUserID(c echo.Context) (string, error) {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, nil
		}
	}
	return "", repository.ErrAuthRequired
}

// writeError maps the domain error taxonomy to HTTP responses. All of
// these are expected outcomes: a lost debit race tells the client to
// re-query availability and pick again, an expired hold tells it to
// restart the hold flow; neither should ever be retried blindly with
// the same stale slot data.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrAuthRequired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	case errors.Is(err, repository.ErrHoldNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrInvalidPartySize):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid party size"})
	case errors.Is(err, repository.ErrNoAvailability):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot not available"})
	case errors.Is(err, repository.ErrHoldConflict), errors.Is(err, repository.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "slot was just taken",
			"hint":  "re-check availability and select another slot",
		})
	case errors.Is(err, repository.ErrHoldExpired):
		return c.JSON(http.StatusGone, echo.Map{
			"error": "hold expired",
			"hint":  "restart the hold flow from availability",
		})
	case errors.Is(err, repository.ErrHoldAlreadyResolved), errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already resolved"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// validDate reports whether a date string is a well-formed ISO 8601
// calendar date.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// validClock reports whether a time string is a well-formed "HH:MM".
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
