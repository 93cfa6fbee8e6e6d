package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flourineV/cinemas-frontend-sub000/internal/middleware"
	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
	"github.com/flourineV/cinemas-frontend-sub000/internal/session"
)

// ---- fakes ----

type fakeLocks struct {
	mu       sync.Mutex
	releases int
	unlocks  int
}

func (f *fakeLocks) ReleaseSeats(context.Context, uint64, []uint64, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	return nil
}

func (f *fakeLocks) UnlockSingleSeat(context.Context, uint64, uint64, model.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocks++
	return nil
}

type fakeBooking struct{}

func (fakeBooking) CreateBooking(context.Context, model.BookingRequest) (model.BookingResult, error) {
	return model.BookingResult{BookingRef: "BK-42"}, nil
}

type fakeDrafts struct{}

func (fakeDrafts) SavePending(context.Context, model.BookingRequest, int, time.Time) (string, error) {
	return "tok-1", nil
}

func (fakeDrafts) SaveConfirmed(context.Context, model.BookingRequest, string, int, time.Time) (string, error) {
	return "tok-1", nil
}

// busyTracker simulates a submit already in flight for every caller.
type busyTracker struct{}

func (busyTracker) Begin(context.Context, string, string, time.Duration) (bool, error) {
	return false, nil
}
func (busyTracker) Clear(context.Context, string, string) error { return nil }

// ---- fixture ----

// fixture drives the session endpoints through the real echo router and
// identity middleware, carrying the guest cookie between requests like
// a browser would.
type fixture struct {
	t     *testing.T
	e     *echo.Echo
	locks *fakeLocks
	ck    *http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	locks := &fakeLocks{}
	reg := session.NewRegistry(session.Deps{Locks: locks, Booking: fakeBooking{}, Drafts: fakeDrafts{}})
	h := NewSessionHandler(reg, nil)

	e := echo.New()
	g := e.Group("/v1/session", middleware.Identity("test-secret"))
	g.GET("", h.GetSession)
	g.DELETE("", h.Teardown)
	g.POST("/region", h.SelectRegion)
	g.POST("/date", h.SelectDate)
	g.POST("/showtime", h.SelectShowtime)
	g.PUT("/tickets", h.SetTickets)
	g.POST("/seats", h.AddSeat)
	g.DELETE("/seats/:id", h.RemoveSeat)
	g.POST("/submit", h.Submit)
	return &fixture{t: t, e: e, locks: locks}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if f.ck != nil {
		req.AddCookie(f.ck)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.GuestCookieName {
			f.ck = ck
		}
	}
	return rec
}

func (f *fixture) selectShowtime(id uint64) {
	f.t.Helper()
	require.Equal(f.t, http.StatusOK, f.do(http.MethodPost, "/v1/session/region", echo.Map{"region_id": 1}).Code)
	require.Equal(f.t, http.StatusOK, f.do(http.MethodPost, "/v1/session/date", echo.Map{"date": "2025-06-01"}).Code)
	require.Equal(f.t, http.StatusOK, f.do(http.MethodPost, "/v1/session/showtime", echo.Map{"showtime_id": id}).Code)
}

func (f *fixture) addSeat(seatID, showtimeID uint64) *httptest.ResponseRecorder {
	f.t.Helper()
	return f.do(http.MethodPost, "/v1/session/seats", echo.Map{
		"seat_id": seatID, "showtime_id": showtimeID, "seat_category": "STANDARD",
	})
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) session.Snapshot {
	t.Helper()
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

// ---- tests ----

func TestAnonymousSelectionFlow(t *testing.T) {
	f := newFixture(t)
	f.selectShowtime(10)

	rec := f.addSeat(101, 10)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.addSeat(102, 10)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPut, "/v1/session/tickets", echo.Map{
		"seat_category": "STANDARD", "ticket_type": "ADULT", "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPut, "/v1/session/tickets", echo.Map{
		"seat_category": "STANDARD", "ticket_type": "CHILD", "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeSnapshot(t, f.do(http.MethodGet, "/v1/session", nil))
	assert.Equal(t, uint64(10), snap.Context.ShowtimeID)
	assert.Len(t, snap.Held, 2)
	assert.Len(t, snap.Tickets, 2)

	rec = f.do(http.MethodPost, "/v1/session/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var out struct {
		Draft model.BookingDraft `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, model.DraftPending, out.Draft.Status)
	assert.Equal(t, "tok-1", out.Draft.Token)

	// Submitting hands the seats to the draft; the session is empty.
	snap = decodeSnapshot(t, f.do(http.MethodGet, "/v1/session", nil))
	assert.Empty(t, snap.Held)
}

func TestGuestCookiePinsTheSession(t *testing.T) {
	f := newFixture(t)
	f.selectShowtime(10)
	require.Equal(t, http.StatusCreated, f.addSeat(101, 10).Code)

	// Same cookie sees the held seat.
	snap := decodeSnapshot(t, f.do(http.MethodGet, "/v1/session", nil))
	assert.Len(t, snap.Held, 1)

	// A different visitor does not.
	f.ck = &http.Cookie{Name: middleware.GuestCookieName, Value: "someone-else"}
	snap = decodeSnapshot(t, f.do(http.MethodGet, "/v1/session", nil))
	assert.Empty(t, snap.Held)
}

func TestSelectDateRejectsBadFormat(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/v1/session/date", echo.Map{"date": "01-06-2025"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetTicketsGuards(t *testing.T) {
	f := newFixture(t)
	f.selectShowtime(10)
	require.Equal(t, http.StatusCreated, f.addSeat(101, 10).Code)

	// One held seat: a total of two is over cardinality.
	rec := f.do(http.MethodPut, "/v1/session/tickets", echo.Map{
		"seat_category": "STANDARD", "ticket_type": "ADULT", "count": 2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPut, "/v1/session/tickets", echo.Map{
		"seat_category": "STANDARD", "ticket_type": "ADULT", "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The single ADULT ticket is assigned to the held seat; dropping it
	// needs the seat released first.
	rec = f.do(http.MethodPut, "/v1/session/tickets", echo.Map{
		"seat_category": "STANDARD", "ticket_type": "ADULT", "count": 0,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddSeatConflicts(t *testing.T) {
	f := newFixture(t)

	// No showtime selected yet.
	assert.Equal(t, http.StatusConflict, f.addSeat(101, 10).Code)

	f.selectShowtime(10)
	assert.Equal(t, http.StatusConflict, f.addSeat(101, 99).Code)
	assert.Equal(t, http.StatusCreated, f.addSeat(101, 10).Code)
	assert.Equal(t, http.StatusConflict, f.addSeat(101, 10).Code)
}

func TestRemoveSeat(t *testing.T) {
	f := newFixture(t)
	f.selectShowtime(10)
	require.Equal(t, http.StatusCreated, f.addSeat(101, 10).Code)

	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/v1/session/seats/101", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/v1/session/seats/101", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodDelete, "/v1/session/seats/zero", nil).Code)
}

func TestSubmitValidationErrors(t *testing.T) {
	f := newFixture(t)

	// Nothing selected.
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/v1/session/submit", nil).Code)

	f.selectShowtime(10)
	require.Equal(t, http.StatusCreated, f.addSeat(101, 10).Code)
	require.Equal(t, http.StatusCreated, f.addSeat(102, 10).Code)
	rec := f.do(http.MethodPut, "/v1/session/tickets", echo.Map{
		"seat_category": "STANDARD", "ticket_type": "ADULT", "count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Two seats, one ticket.
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/v1/session/submit", nil).Code)
}

func TestSubmitAlreadyInFlight(t *testing.T) {
	locks := &fakeLocks{}
	reg := session.NewRegistry(session.Deps{Locks: locks, Drafts: fakeDrafts{}})
	h := NewSessionHandler(reg, busyTracker{})
	e := echo.New()
	e.POST("/v1/session/submit", h.Submit, middleware.Identity("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/v1/session/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTeardownBeacon(t *testing.T) {
	f := newFixture(t)
	f.selectShowtime(10)
	require.Equal(t, http.StatusCreated, f.addSeat(101, 10).Code)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/v1/session", nil).Code)

	require.Eventually(t, func() bool {
		f.locks.mu.Lock()
		defer f.locks.mu.Unlock()
		return f.locks.unlocks == 1
	}, time.Second, 5*time.Millisecond)

	snap := decodeSnapshot(t, f.do(http.MethodGet, "/v1/session", nil))
	assert.Empty(t, snap.Held)
}
