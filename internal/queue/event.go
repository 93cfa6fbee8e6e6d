// Package queue defines message payloads exchanged with the seat-lock
// service's push channel and the analytics broker.
package queue

// Seat statuses carried on the push channel.  The channel may deliver
// additional event shapes for other consumers; anything that is not a
// well-formed LOCKED or RELEASED seat event is ignored by this client.
const (
	SeatLocked   = "LOCKED"
	SeatReleased = "RELEASED"
)

// SeatStatusEvent is the normalized form of one push message from the
// lock service, scoped to a single showtime.  A LOCKED event always
// carries the TTL the server granted; RELEASED events carry none.
type SeatStatusEvent struct {
	ShowtimeID uint64 `json:"showtime_id"`
	SeatID     uint64 `json:"seat_id"`
	Status     string `json:"status"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// ReservationReleasedEvent is published when the coordinator releases
// held seats, either on a context change or on teardown.  Downstream
// consumers use it to observe abandoned flows without querying the
// lock service.
type ReservationReleasedEvent struct {
	ShowtimeID uint64   `json:"showtime_id"`
	SeatIDs    []uint64 `json:"seat_ids"`
	Reason     string   `json:"reason"`
	UserID     string   `json:"user_id,omitempty"`
	GuestID    string   `json:"guest_session_id,omitempty"`
	ReleasedAt string   `json:"released_at"`
}
