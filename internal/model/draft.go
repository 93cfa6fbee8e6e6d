package model

import "time"

// AssignedSeat is one (seat, category, ticket type) triple produced by
// the ticket assigner at submission time.  Order follows the original
// seat-selection order.
type AssignedSeat struct {
	SeatID       uint64       `json:"seat_id"`
	SeatCategory SeatCategory `json:"seat_category"`
	TicketType   TicketType   `json:"ticket_type"`
}

// BookingRequest is the single request object handed to the booking
// backend.  Exactly one of UserID / GuestSessionID is set, selecting
// the backend's identified or anonymous code path.
type BookingRequest struct {
	ShowtimeID     uint64         `json:"showtime_id"`
	Seats          []AssignedSeat `json:"seats"`
	UserID         string         `json:"user_id,omitempty"`
	GuestSessionID string         `json:"guest_session_id,omitempty"`
}

// BookingResult is the booking backend's answer to an immediate
// (identified) submission.
type BookingResult struct {
	BookingRef       string `json:"booking_ref"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
}

// DraftStatus tells a downstream screen whether a handed-off draft
// still needs backend submission or is already a finalized booking.
type DraftStatus string

const (
	DraftPending   DraftStatus = "PENDING"   // anonymous flow, submission deferred to payment time
	DraftConfirmed DraftStatus = "CONFIRMED" // identified flow, booking already created
)

// BookingDraft is the payload handed forward to the payment screen.
// It carries the remaining TTL together with its capture timestamp so
// the next screen can resume an accurate countdown.  Drafts are never
// kept in session state; they live in the handoff store until claimed
// or expired.
//
// Fields:
//  Token        – opaque retrieval token carried through navigation.
//  Status       – PENDING (anonymous) or CONFIRMED (identified).
//  BookingRef   – backend booking reference, set when Status is CONFIRMED.
//  Request      – the assembled booking request.
//  TTLRemaining – seconds left on the hold when the draft was captured.
//  CapturedAt   – when TTLRemaining was measured (UTC).
type BookingDraft struct {
	Token        string         `json:"token"`
	Status       DraftStatus    `json:"status"`
	BookingRef   string         `json:"booking_ref,omitempty"`
	Request      BookingRequest `json:"request"`
	TTLRemaining int            `json:"ttl_remaining"`
	CapturedAt   time.Time      `json:"captured_at"`
}
