package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
	"github.com/flourineV/cinemas-frontend-sub000/internal/queue"
)

// Transition reasons recorded by the lock service when superseded
// holds are released.
const (
	ReasonRegionChanged   = "Province changed"
	ReasonDateChanged     = "Date changed"
	ReasonShowtimeChanged = "Showtime changed"
	ReasonTeardown        = "Session ended"
)

// releaseTimeout bounds the internal await of a release call during a
// context transition.  The await only serializes release-before-clear
// within this session; the server tolerates late duplicates.
const releaseTimeout = 10 * time.Second

// LockService is the slice of the external seat-lock API the
// coordinator drives.  Both calls are idempotent and best-effort.
type LockService interface {
	ReleaseSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64, reason string) error
	UnlockSingleSeat(ctx context.Context, showtimeID, seatID uint64, id model.Identity) error
}

// BookingService creates bookings on the booking backend.
type BookingService interface {
	CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingResult, error)
}

// DraftStore persists booking drafts for the navigation handoff.
type DraftStore interface {
	SavePending(ctx context.Context, req model.BookingRequest, ttlRemaining int, capturedAt time.Time) (token string, err error)
	SaveConfirmed(ctx context.Context, req model.BookingRequest, bookingRef string, ttlRemaining int, capturedAt time.Time) (token string, err error)
}

// AuditPublisher emits best-effort release audit events.
type AuditPublisher interface {
	PublishReleased(ctx context.Context, ev queue.ReservationReleasedEvent) error
}

// LockFeed is the push channel mirror.  Subscribe delivers normalized
// seat status events for one showtime until the returned cancel func
// is called.
type LockFeed interface {
	Subscribe(showtimeID uint64, h func(queue.SeatStatusEvent)) (func(), error)
}

// Session is the reservation coordinator for one visitor.  It owns the
// SelectionContext, observes every context-changing transition, and
// guarantees that superseded holds are released before local state is
// reset.  All entry points serialize on one mutex, mirroring the
// single-threaded event loop the flow was designed for: UI calls,
// push-channel callbacks and the expiry timer interleave, they never
// overlap.
type Session struct {
	identity model.Identity
	locks    LockService
	booking  BookingService
	drafts   DraftStore
	audit    AuditPublisher
	feed     LockFeed

	mu        sync.Mutex
	sel       SelectionContext
	prev      model.ReservationContext // previous tuple; updated only after a transition's side effects are dispatched
	epoch     uint64                   // context token; bumped on every transition to invalidate in-flight responses
	countdown *Countdown
	notice    string
	unsub     func() // cancel for the active push subscription
	lastSeen  time.Time
	ended     bool
}

// NewSession builds a coordinator for one identity.  locks must be
// non-nil; the other collaborators may be nil in reduced setups (and
// are in most tests).
func NewSession(id model.Identity, locks LockService, booking BookingService, drafts DraftStore, audit AuditPublisher, feed LockFeed) *Session {
	if locks == nil {
		panic("nil lock service passed to NewSession")
	}
	s := &Session{
		identity: id,
		locks:    locks,
		booking:  booking,
		drafts:   drafts,
		audit:    audit,
		feed:     feed,
		sel:      NewSelectionContext(),
		lastSeen: time.Now(),
	}
	s.countdown = NewCountdown(s.handleExpiry)
	return s
}

// Identity returns the owning identity.
func (s *Session) Identity() model.Identity { return s.identity }

// LastSeen returns the time of the last visitor-driven call, used by
// the registry's idle sweeper.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SetRegion selects a region.  If seats were held under the previous
// tuple they are released first, scoped to the previous showtime.
func (s *Session) SetRegion(regionID uint64) {
	s.transition(ReasonRegionChanged, func(sel *SelectionContext) { sel.SetRegion(regionID) })
}

// SetDate selects a date.
func (s *Session) SetDate(date string) {
	s.transition(ReasonDateChanged, func(sel *SelectionContext) { sel.SetDate(date) })
}

// SetShowtime selects a showtime and rebinds the push subscription to
// it.
func (s *Session) SetShowtime(st model.Showtime) {
	s.transition(ReasonShowtimeChanged, func(sel *SelectionContext) { sel.SetShowtime(st) })
}

// transition applies a pure setter to the selection, then performs the
// lifecycle side effects the setter deliberately does not: release the
// previous context's holds (awaited internally, errors logged only),
// clear tickets/seats/TTL unconditionally, and resubscribe the push
// channel.  The previous tuple is captured from the persisted prev
// reference before the new value is committed, never derived from
// re-entry timing.
func (s *Session) transition(reason string, mutate func(*SelectionContext)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	prev := s.prev
	prevSeats := s.sel.HeldSeatIDs()
	mutate(&s.sel)
	if s.sel.Context.Equal(prev) {
		// Re-selecting the same value is not a transition.
		return
	}
	s.epoch++

	if len(prevSeats) > 0 && prev.ShowtimeID != 0 {
		// Awaited before the local list is cleared so a hold request
		// for the new context cannot race the release of the old one
		// under the same identity.  Failure never blocks the new
		// selection: the server TTL is the backstop.
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		if err := s.locks.ReleaseSeats(ctx, prev.ShowtimeID, prevSeats, reason); err != nil {
			log.Printf("session: release for showtime %d failed: %v", prev.ShowtimeID, err)
		}
		cancel()
		s.publishReleased(prev.ShowtimeID, prevSeats, reason)
	}

	s.sel.ClearReservation()
	s.countdown.Stop()
	s.resubscribeLocked()
	s.prev = s.sel.Context
}

// resubscribeLocked cancels the current push subscription and, when a
// showtime is active, binds a new one.  The epoch captured here makes
// late deliveries from a superseded subscription inert.
func (s *Session) resubscribeLocked() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	showtimeID := s.sel.Context.ShowtimeID
	if showtimeID == 0 || s.feed == nil {
		return
	}
	epoch := s.epoch
	cancel, err := s.feed.Subscribe(showtimeID, func(ev queue.SeatStatusEvent) {
		s.applyLockEvent(epoch, ev)
	})
	if err != nil {
		log.Printf("session: subscribe to showtime %d failed: %v", showtimeID, err)
		return
	}
	s.unsub = cancel
}

// applyLockEvent mirrors one push-channel event into local state.  An
// event whose epoch no longer matches belongs to a superseded context
// and is discarded; that is the cooperative cancellation the flow
// relies on instead of true request abortion.
func (s *Session) applyLockEvent(epoch uint64, ev queue.SeatStatusEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || ev.ShowtimeID != s.sel.Context.ShowtimeID {
		return
	}
	switch ev.Status {
	case queue.SeatLocked:
		for i := range s.sel.Held {
			if s.sel.Held[i].SeatID == ev.SeatID {
				s.sel.Held[i].Status = model.HoldLocked
				s.sel.Held[i].TTLSeconds = ev.TTLSeconds
				s.sel.TTLSeconds = ev.TTLSeconds
				if ev.TTLSeconds > 0 {
					s.countdown.Refresh(time.Duration(ev.TTLSeconds) * time.Second)
				}
				return
			}
		}
		// Confirmation for a seat this session never mirrored:
		// someone else's lock on the same showtime.
	case queue.SeatReleased:
		if s.sel.RemoveHold(ev.SeatID) {
			// The server let the seat go (expired or re-locked by
			// another visitor).  Benign: reconcile and tell the UI.
			log.Printf("session: seat %d no longer available on showtime %d", ev.SeatID, ev.ShowtimeID)
			s.notice = "A selected seat is no longer available."
			if len(s.sel.Held) == 0 {
				s.countdown.Stop()
				s.sel.TTLSeconds = 0
			}
		}
	}
}

// SetTicketCount sets the count for one (category, type) pair.  While
// seats are held the total may never exceed the held seat count, and a
// decrease below the type's currently-assigned usage is rejected so
// counts cannot silently desynchronize from held seats.  Increases
// within cardinality are always permitted.
func (s *Session) SetTicketCount(key model.TicketKey, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if n < 0 {
		n = 0
	}
	old := s.sel.Tickets[key]
	if len(s.sel.Held) > 0 {
		if s.sel.Tickets.Total()-old+n > len(s.sel.Held) {
			return ErrTooManyTickets
		}
		if n < old {
			if used := consumedCounts(s.sel.Tickets, s.sel.Held)[key]; n < used {
				return ErrTicketsBelowAssigned
			}
		}
	}
	s.sel.SetTicketCount(key, n)
	return nil
}

// AddSeat registers an advisory mirror entry for a seat the seat-map
// UI is acquiring through its own request path.  The lock itself is
// confirmed later by the push channel, which also starts the TTL.
func (s *Session) AddSeat(seat model.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if s.sel.Context.ShowtimeID == 0 || seat.ShowtimeID != s.sel.Context.ShowtimeID {
		return ErrNoShowtime
	}
	if s.sel.HoldsSeat(seat.ID) {
		return ErrSeatAlreadyHeld
	}
	s.sel.AddHold(seat, time.Now().UTC())
	return nil
}

// RemoveSeat drops one seat from the mirror and releases its lock with
// a best-effort background call.
func (s *Session) RemoveSeat(seatID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if !s.sel.RemoveHold(seatID) {
		return ErrSeatNotHeld
	}
	showtimeID := s.sel.Context.ShowtimeID
	id := s.identity
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := s.locks.UnlockSingleSeat(ctx, showtimeID, seatID, id); err != nil {
			log.Printf("session: unlock seat %d failed: %v", seatID, err)
		}
	}()
	if len(s.sel.Held) == 0 {
		s.countdown.Stop()
		s.sel.TTLSeconds = 0
	}
	return nil
}

// handleExpiry is the countdown callback.  The server has already
// expired the lock by now, so no release call is issued; held seats
// and tickets are cleared exactly once and a blocking notice is queued
// for the UI.
func (s *Session) handleExpiry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sel.Held) == 0 {
		return
	}
	s.epoch++
	s.sel.ClearReservation()
	s.notice = "Your seat hold expired. Please select seats again."
	log.Printf("session: hold expired for %s on showtime %d", s.identity.Key(), s.sel.Context.ShowtimeID)
}

// Teardown is the navigation-away path.  Every currently-held seat is
// released individually with detached best-effort calls; the UI is
// gone, so failures are logged and nothing is surfaced.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.epoch++
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.countdown.Stop()

	showtimeID := s.sel.Context.ShowtimeID
	seats := s.sel.HeldSeatIDs()
	id := s.identity
	for _, seatID := range seats {
		seatID := seatID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			if err := s.locks.UnlockSingleSeat(ctx, showtimeID, seatID, id); err != nil {
				log.Printf("session: teardown unlock seat %d failed: %v", seatID, err)
			}
		}()
	}
	if len(seats) > 0 {
		s.publishReleased(showtimeID, seats, ReasonTeardown)
	}
	s.sel.ClearReservation()
}

// publishReleased emits the audit event on a detached goroutine; the
// publisher already logs its own failures.
func (s *Session) publishReleased(showtimeID uint64, seatIDs []uint64, reason string) {
	if s.audit == nil {
		return
	}
	ev := queue.ReservationReleasedEvent{
		ShowtimeID: showtimeID,
		SeatIDs:    seatIDs,
		Reason:     reason,
		UserID:     s.identity.UserID,
		GuestID:    s.identity.GuestSessionID,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		_ = s.audit.PublishReleased(ctx, ev)
	}()
}

// Snapshot returns the current state for the UI.  The pending notice
// is one-shot: reading the snapshot consumes it.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	snap := s.sel.snapshot()
	if r := s.countdown.Remaining(); r > 0 {
		snap.TTLSeconds = r
	} else if len(s.sel.Held) == 0 {
		snap.TTLSeconds = 0
	}
	snap.Notice = s.notice
	s.notice = ""
	return snap
}
