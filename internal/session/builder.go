package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

// Submit validates the selection, assigns ticket types to held seats
// and assembles the final booking request.  Validation happens before
// any network call: the ticket total must equal the held seat count
// and both must be non-zero.
//
// The flow then branches on the caller identity:
//
//   - Identified caller: the request is submitted to the booking
//     backend immediately.  On success the draft is CONFIRMED and the
//     visitor proceeds straight to finalize/payment.  On failure the
//     error propagates (wrapped in ErrSubmitFailed) and local state is
//     left intact — the server-side locks are presumably still valid,
//     so the visitor can retry without re-selecting seats.
//   - Anonymous caller: no backend call yet.  The request is packaged
//     as a PENDING draft in the handoff store; submission is deferred
//     until identity is established at payment time.
//
// Either way the returned draft carries the remaining TTL and its
// capture timestamp so the next screen resumes an accurate countdown.
// After a successful handoff the reservation is resolved: local holds
// are cleared without a release call, since ownership has moved to the
// draft.
func (s *Session) Submit(ctx context.Context) (*model.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	if s.sel.Context.ShowtimeID == 0 {
		return nil, ErrNoShowtime
	}
	if len(s.sel.Held) == 0 {
		return nil, ErrNoSeats
	}
	total := s.sel.Tickets.Total()
	if total == 0 {
		return nil, ErrNoTickets
	}
	if total != len(s.sel.Held) {
		return nil, ErrCountMismatch
	}

	req := model.BookingRequest{
		ShowtimeID:     s.sel.Context.ShowtimeID,
		Seats:          AssignTickets(s.sel.Tickets, s.sel.Held),
		UserID:         s.identity.UserID,
		GuestSessionID: s.identity.GuestSessionID,
	}
	ttlRemaining := s.countdown.Remaining()
	capturedAt := time.Now().UTC()

	draft := &model.BookingDraft{
		Request:      req,
		TTLRemaining: ttlRemaining,
		CapturedAt:   capturedAt,
	}

	if s.identity.Anonymous() {
		if s.drafts == nil {
			return nil, fmt.Errorf("%w: draft store unavailable", ErrSubmitFailed)
		}
		token, err := s.drafts.SavePending(ctx, req, ttlRemaining, capturedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
		}
		draft.Token = token
		draft.Status = model.DraftPending
	} else {
		if s.booking == nil {
			return nil, fmt.Errorf("%w: booking backend unavailable", ErrSubmitFailed)
		}
		res, err := s.booking.CreateBooking(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
		}
		draft.Status = model.DraftConfirmed
		draft.BookingRef = res.BookingRef
		if s.drafts != nil {
			// The booking exists either way; a handoff-store failure
			// only costs the resume convenience.
			token, err := s.drafts.SaveConfirmed(ctx, req, res.BookingRef, ttlRemaining, capturedAt)
			if err != nil {
				log.Printf("session: storing confirmed draft failed: %v", err)
			} else {
				draft.Token = token
			}
		}
	}

	s.resolveLocked()
	return draft, nil
}

// resolveLocked ends the reservation without releasing: the seats are
// now owned by the submitted booking or the handed-off draft.
func (s *Session) resolveLocked() {
	s.epoch++
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.countdown.Stop()
	s.sel.ClearReservation()
}
