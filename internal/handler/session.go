package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flourineV/cinemas-frontend-sub000/internal/idempotency"
	"github.com/flourineV/cinemas-frontend-sub000/internal/middleware"
	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
	"github.com/flourineV/cinemas-frontend-sub000/internal/session"
)

// submitOnceTTL bounds how long a crashed submit attempt can keep the
// once-flag and block retries.
const submitOnceTTL = 30 * time.Second

// SessionHandler exposes the reservation coordinator over HTTP.  Each
// endpoint maps one UI event of the seat-selection flow onto the
// visitor's session; identity resolution has already happened in
// middleware.  Responses carry the fresh session snapshot so the SPA
// can render without a second round trip.
type SessionHandler struct {
	Registry *session.Registry   // per-visitor coordinator sessions
	Once     idempotency.Tracker // dedupe for the submit action
}

// NewSessionHandler constructs a SessionHandler.  The registry must be
// non-nil; the tracker may be nil when Redis is unavailable.
func NewSessionHandler(reg *session.Registry, once idempotency.Tracker) *SessionHandler {
	if reg == nil {
		panic("nil registry passed to NewSessionHandler")
	}
	return &SessionHandler{Registry: reg, Once: once}
}

// current resolves the caller's session.
func (h *SessionHandler) current(c echo.Context) (*session.Session, error) {
	id := middleware.CurrentIdentity(c)
	if id == (model.Identity{}) {
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "identity not resolved"})
	}
	return h.Registry.Get(id), nil
}

// GetSession handles GET /v1/session.  It returns the consistent
// snapshot of the visitor's selection, including the remaining TTL and
// at most one pending blocking notice (consumed by this read).
func (h *SessionHandler) GetSession(c echo.Context) error {
	sess, err := h.current(c)
	if sess == nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// SelectRegion handles POST /v1/session/region.  Changing region is a
// context transition: seats held under the previous tuple are released
// before the reset, which the coordinator performs internally.
func (h *SessionHandler) SelectRegion(c echo.Context) error {
	var body struct {
		RegionID uint64 `json:"region_id"`
	}
	if err := c.Bind(&body); err != nil || body.RegionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "region_id is required"})
	}
	sess, err := h.current(c)
	if sess == nil {
		return err
	}
	sess.SetRegion(body.RegionID)
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// SelectDate handles POST /v1/session/date.  The date must be a
// calendar day in YYYY-MM-DD form.
func (h *SessionHandler) SelectDate(c echo.Context) error {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	sess, err := h.current(c)
	if sess == nil {
		return err
	}
	sess.SetDate(body.Date)
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// SelectShowtime handles POST /v1/session/showtime.  The showtime is
// replaced as a unit; the coordinator rebinds the push subscription
// and releases holds belonging to the superseded showtime.
func (h *SessionHandler) SelectShowtime(c echo.Context) error {
	var body model.Showtime
	if err := c.Bind(&body); err != nil || body.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}
	sess, err := h.current(c)
	if sess == nil {
		return err
	}
	sess.SetShowtime(body)
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// SetTickets handles PUT /v1/session/tickets.  It replaces the count
// for one (seat category, ticket type) pair.  While seats are held the
// coordinator rejects totals above the held seat count and decreases
// below a type's assigned usage; the latter needs the visitor to
// release seats first and is answered with 409 and an explanation.
func (h *SessionHandler) SetTickets(c echo.Context) error {
	var body struct {
		SeatCategory model.SeatCategory `json:"seat_category"`
		TicketType   model.TicketType   `json:"ticket_type"`
		Count        int                `json:"count"`
	}
	if err := c.Bind(&body); err != nil || body.SeatCategory == "" || body.TicketType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_category and ticket_type are required"})
	}
	sess, err := h.current(c)
	if sess == nil {
		return err
	}
	key := model.TicketKey{Category: body.SeatCategory, Type: body.TicketType}
	if err := sess.SetTicketCount(key, body.Count); err != nil {
		switch {
		case errors.Is(err, session.ErrTooManyTickets):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket total exceeds held seats"})
		case errors.Is(err, session.ErrTicketsBelowAssigned):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "these tickets are already assigned to held seats; release the seats first",
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tickets"})
		}
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// AddSeat handles POST /v1/session/seats.  It registers the advisory
// mirror entry for a seat the seat-map UI is acquiring; the lock
// confirmation arrives later on the push channel.  The body names the
// showtime the UI believes is active so a stale tab cannot attach
// seats to the wrong context.
func (h *SessionHandler) AddSeat(c echo.Context) error {
	var body struct {
		SeatID       uint64             `json:"seat_id"`
		ShowtimeID   uint64             `json:"showtime_id"`
		SeatCategory model.SeatCategory `json:"seat_category"`
	}
	if err := c.Bind(&body); err != nil || body.SeatID == 0 || body.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id and showtime_id are required"})
	}
	if body.SeatCategory == "" {
		body.SeatCategory = model.CategoryStandard
	}
	sess, err := h.current(c)
	if sess == nil {
		return err
	}
	seat := model.Seat{ID: body.SeatID, ShowtimeID: body.ShowtimeID, Category: body.SeatCategory}
	if err := sess.AddSeat(seat); err != nil {
		switch {
		case errors.Is(err, session.ErrNoShowtime):
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime is not the active selection"})
		case errors.Is(err, session.ErrSeatAlreadyHeld):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is already held"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add seat"})
		}
	}
	return c.JSON(http.StatusCreated, sess.Snapshot())
}

// RemoveSeat handles DELETE /v1/session/seats/:id.  The mirror entry
// is dropped immediately; the single-seat unlock call runs best-effort
// in the background.
func (h *SessionHandler) RemoveSeat(c echo.Context) error {
	seatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	sess, cerr := h.current(c)
	if sess == nil {
		return cerr
	}
	if err := sess.RemoveSeat(seatID); err != nil {
		if errors.Is(err, session.ErrSeatNotHeld) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat is not held"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove seat"})
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// Submit handles POST /v1/session/submit.  Validation failures are
// answered synchronously with 400 before any network call.  A backend
// rejection keeps local state intact and returns 502 so the visitor
// can retry.  The once-flag dedupes double clicks and is cleared on
// every outcome except "still in flight".
func (h *SessionHandler) Submit(c echo.Context) error {
	sess, cerr := h.current(c)
	if sess == nil {
		return cerr
	}
	ctx := c.Request().Context()
	idKey := middleware.CurrentIdentity(c).Key()

	if h.Once != nil {
		won, err := h.Once.Begin(ctx, "submit", idKey, submitOnceTTL)
		if err == nil && !won {
			return c.JSON(http.StatusConflict, echo.Map{"error": "submission already in progress"})
		}
		// Tracker errors fail open; a double submit is less harmful
		// than a blocked one.
		defer func() { _ = h.Once.Clear(ctx, "submit", idKey) }()
	}

	draft, err := sess.Submit(ctx)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoShowtime),
			errors.Is(err, session.ErrNoSeats),
			errors.Is(err, session.ErrNoTickets),
			errors.Is(err, session.ErrCountMismatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, session.ErrSubmitFailed):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking could not be created, please try again"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit booking"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"draft": draft})
}

// Teardown handles DELETE /v1/session: the navigation-away beacon.
// Held seats are released best-effort; the response never carries an
// error because the page firing the beacon is already gone.
func (h *SessionHandler) Teardown(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id != (model.Identity{}) {
		h.Registry.Teardown(id)
	}
	return c.NoContent(http.StatusNoContent)
}
