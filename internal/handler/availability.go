package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/123R3N321/FoodTok/internal/service"
)

// AvailabilityHandler serves the slot listing for a restaurant, date
// and party size.
type AvailabilityHandler struct {
	Availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	if availability == nil {
		panic("nil availability service passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Availability: availability}
}

// Query handles GET /v1/restaurants/:id/availability?date=&party_size=.
// A date with nothing bookable is still a 200: the body carries an
// empty slot list with a no_availability reason so the client can
// offer the waitlist instead of an error page.
func (h *AvailabilityHandler) Query(c echo.Context) error {
	restaurantID := c.Param("id")
	if restaurantID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	date := c.QueryParam("date")
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	partySize, err := strconv.Atoi(c.QueryParam("party_size"))
	if err != nil || partySize <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be a positive integer"})
	}

	avail, err := h.Availability.Query(c.Request().Context(), restaurantID, date, partySize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, avail)
}
