package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/123R3N321/FoodTok/internal/service"
)

// WaitlistHandler serves waitlist enrollment. Promotion itself is
// event-driven and has no synchronous endpoint.
type WaitlistHandler struct {
	Waitlist *service.WaitlistService
}

// NewWaitlistHandler constructs a WaitlistHandler.
func NewWaitlistHandler(waitlist *service.WaitlistService) *WaitlistHandler {
	if waitlist == nil {
		panic("nil waitlist service passed to NewWaitlistHandler")
	}
	return &WaitlistHandler{Waitlist: waitlist}
}

// Enqueue handles POST /v1/waitlist. The time field is optional; an
// entry without one accepts whichever slot frees up first that date.
func (h *WaitlistHandler) Enqueue(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body struct {
		RestaurantID string `json:"restaurant_id"`
		Date         string `json:"date"`
		Time         string `json:"time"`
		PartySize    int    `json:"party_size"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RestaurantID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant_id is required"})
	}
	if !validDate(body.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if body.Time != "" && !validClock(body.Time) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be HH:MM"})
	}

	entry, err := h.Waitlist.Enqueue(c.Request().Context(), userID, body.RestaurantID, body.Date, body.Time, body.PartySize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"waitlist_id": entry.ID,
		"status":      entry.Status,
		"created_at":  entry.CreatedAt.Format(time.RFC3339),
	})
}
