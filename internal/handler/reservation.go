package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/123R3N321/FoodTok/internal/service"
)

// ReservationHandler serves reservation listing, detail and
// cancellation for the authenticated diner.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil reservation service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

// List handles GET /v1/my-reservations. An empty list is a 200 with
// an empty items array.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.Reservations.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]reservationResponse, 0, len(items))
	for i := range items {
		out = append(out, toReservationResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	resID := c.Param("id")
	if resID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.Get(c.Request().Context(), resID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationResponse(res)})
}

// Cancel handles DELETE /v1/reservations/:id. Cancelling re-credits
// the slot, which may promote a waitlist entry.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	resID := c.Param("id")
	if resID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Reservations.Cancel(c.Request().Context(), resID, userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
