package session

import (
	"sort"
	"time"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

// SelectionContext holds the single source of truth for the visitor's
// current region, date, showtime, ticket counts, held seats and TTL as
// one consistent snapshot.  Its setters are pure value replacements:
// releasing superseded holds, resubscribing the push channel and every
// other side effect is the job of the Session observing the change,
// never of the setter itself.  That separation keeps cleanup out of
// code paths that only want to write a value.
//
// SelectionContext is not safe for concurrent use; the owning Session
// serializes access.
type SelectionContext struct {
	Context    model.ReservationContext // the (region, date, showtime) tuple
	Showtime   *model.Showtime          // full showtime record, nil when none selected
	Tickets    model.TicketSelection    // chosen ticket counts
	Held       []model.SeatHold         // mirror of held seats, in selection order
	TTLSeconds int                      // last TTL reported by the lock service
}

// NewSelectionContext returns an empty selection.
func NewSelectionContext() SelectionContext {
	return SelectionContext{Tickets: make(model.TicketSelection)}
}

// SetRegion replaces the selected region.
func (s *SelectionContext) SetRegion(id uint64) { s.Context.RegionID = id }

// SetDate replaces the selected date (YYYY-MM-DD).
func (s *SelectionContext) SetDate(date string) { s.Context.DateISO = date }

// SetShowtime replaces the selected showtime as a unit.
func (s *SelectionContext) SetShowtime(st model.Showtime) {
	s.Showtime = &st
	s.Context.ShowtimeID = st.ID
}

// SetTicketCount replaces the count for one (category, type) pair.
// Zero removes the entry.
func (s *SelectionContext) SetTicketCount(key model.TicketKey, n int) {
	if s.Tickets == nil {
		s.Tickets = make(model.TicketSelection)
	}
	if n <= 0 {
		delete(s.Tickets, key)
		return
	}
	s.Tickets[key] = n
}

// AddHold appends a seat to the held mirror, preserving selection order.
func (s *SelectionContext) AddHold(seat model.Seat, at time.Time) {
	s.Held = append(s.Held, model.SeatHold{
		ShowtimeID: seat.ShowtimeID,
		SeatID:     seat.ID,
		Category:   seat.Category,
		Status:     model.HoldPending,
		HeldAt:     at,
	})
}

// RemoveHold deletes one seat from the mirror and reports whether it
// was present.
func (s *SelectionContext) RemoveHold(seatID uint64) bool {
	for i, h := range s.Held {
		if h.SeatID == seatID {
			s.Held = append(s.Held[:i], s.Held[i+1:]...)
			return true
		}
	}
	return false
}

// HoldsSeat reports whether the seat is in the mirror.
func (s *SelectionContext) HoldsSeat(seatID uint64) bool {
	for _, h := range s.Held {
		if h.SeatID == seatID {
			return true
		}
	}
	return false
}

// HeldSeatIDs returns the held seat ids in selection order.
func (s *SelectionContext) HeldSeatIDs() []uint64 {
	ids := make([]uint64, 0, len(s.Held))
	for _, h := range s.Held {
		ids = append(ids, h.SeatID)
	}
	return ids
}

// ClearReservation drops tickets, held seats and TTL while keeping the
// navigation tuple itself.  Called by the Session after a context
// transition or expiry; the setters never call it.
func (s *SelectionContext) ClearReservation() {
	s.Tickets = make(model.TicketSelection)
	s.Held = nil
	s.TTLSeconds = 0
}

// TicketLine is one selection entry in snapshot form.  Map keys are
// structs and cannot cross a JSON boundary, so snapshots carry a
// sorted slice instead.
type TicketLine struct {
	Category model.SeatCategory `json:"seat_category"`
	Type     model.TicketType   `json:"ticket_type"`
	Count    int                `json:"count"`
}

// Snapshot is the consistent view handed to the UI on every poll.  The
// Notice field carries at most one pending blocking notice (expiry,
// seat lost) and is cleared by the read.
type Snapshot struct {
	Context    model.ReservationContext `json:"context"`
	Showtime   *model.Showtime          `json:"showtime,omitempty"`
	Tickets    []TicketLine             `json:"tickets"`
	Held       []model.SeatHold         `json:"held_seats"`
	TTLSeconds int                      `json:"ttl_seconds"`
	Notice     string                   `json:"notice,omitempty"`
}

// snapshot materializes the current state.  Ticket lines are sorted by
// category then type so snapshots are stable across polls.
func (s *SelectionContext) snapshot() Snapshot {
	lines := make([]TicketLine, 0, len(s.Tickets))
	for k, n := range s.Tickets {
		lines = append(lines, TicketLine{Category: k.Category, Type: k.Type, Count: n})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Category != lines[j].Category {
			return lines[i].Category < lines[j].Category
		}
		return lines[i].Type < lines[j].Type
	})
	held := make([]model.SeatHold, len(s.Held))
	copy(held, s.Held)
	return Snapshot{
		Context:    s.Context,
		Showtime:   s.Showtime,
		Tickets:    lines,
		Held:       held,
		TTLSeconds: s.TTLSeconds,
	}
}
