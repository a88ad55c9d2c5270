package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/service"
)

// HoldHandler serves the hold lifecycle: create, inspect the caller's
// active hold, finalize into a reservation, cancel.
type HoldHandler struct {
	Holds *service.HoldService
}

// NewHoldHandler constructs a HoldHandler.
func NewHoldHandler(holds *service.HoldService) *HoldHandler {
	if holds == nil {
		panic("nil hold service passed to NewHoldHandler")
	}
	return &HoldHandler{Holds: holds}
}

// holdResponse is the wire form of a hold. The expiry timestamp is
// authoritative; any client-side countdown is display only.
type holdResponse struct {
	HoldID             string `json:"hold_id"`
	RestaurantID       string `json:"restaurant_id"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	PartySize          int    `json:"party_size"`
	DepositAmountCents uint32 `json:"deposit_amount_cents"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
	ExpiresAt          string `json:"expires_at"`
}

func toHoldResponse(h *model.Hold) holdResponse {
	return holdResponse{
		HoldID:             h.ID,
		RestaurantID:       h.RestaurantID,
		Date:               h.Date,
		Time:               h.Time,
		PartySize:          h.PartySize,
		DepositAmountCents: h.DepositAmountCents,
		Status:             h.Status,
		CreatedAt:          h.CreatedAt.Format(time.RFC3339),
		ExpiresAt:          h.ExpiresAt.Format(time.RFC3339),
	}
}

// reservationResponse is the wire form of a reservation.
type reservationResponse struct {
	ReservationID      string `json:"reservation_id"`
	RestaurantID       string `json:"restaurant_id"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	PartySize          int    `json:"party_size"`
	ConfirmationCode   string `json:"confirmation_code"`
	DepositAmountCents uint32 `json:"deposit_amount_cents"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

func toReservationResponse(r *model.Reservation) reservationResponse {
	return reservationResponse{
		ReservationID:      r.ID,
		RestaurantID:       r.RestaurantID,
		Date:               r.Date,
		Time:               r.Time,
		PartySize:          r.PartySize,
		ConfirmationCode:   r.ConfirmationCode,
		DepositAmountCents: r.DepositAmountCents,
		Status:             r.Status,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /v1/holds. A 409 means another request won the
// race for the slot; the client must re-query availability rather
// than retry with the same slot.
func (h *HoldHandler) Create(c echo.Context) error {
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
	if !validClock(body.Time) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be HH:MM"})
	}

	hold, err := h.Holds.Create(c.Request().Context(), userID, body.RestaurantID, body.Date, body.Time, body.PartySize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toHoldResponse(hold))
}

// Active handles GET /v1/holds/active. Returns the caller's current
// active hold, or a null hold when none exists; a lapsed hold is
// expired on the spot and reported as absent.
func (h *HoldHandler) Active(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	hold, err := h.Holds.ActiveHold(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	if hold == nil {
		return c.JSON(http.StatusOK, echo.Map{"hold": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"hold": toHoldResponse(hold)})
}

// Finalize handles POST /v1/holds/:id/finalize, converting the hold
// into a durable reservation.
func (h *HoldHandler) Finalize(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	holdID := c.Param("id")
	if holdID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
	}
	res, err := h.Holds.Finalize(c.Request().Context(), holdID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(res))
}

// Cancel handles DELETE /v1/holds/:id, releasing the held capacity.
func (h *HoldHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	holdID := c.Param("id")
	if holdID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
	}
	if err := h.Holds.Cancel(c.Request().Context(), holdID, userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
