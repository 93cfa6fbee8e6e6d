package model

import "time"

// HoldStatus reflects what the client believes about a seat lock.  The
// authoritative state lives in the lock service; this copy is advisory
// and may be stale at any moment.
type HoldStatus string

// Hold statuses mirrored from the lock service's push channel.
const (
	HoldPending HoldStatus = "PENDING" // lock requested by the seat-map UI, confirmation not yet pushed
	HoldLocked  HoldStatus = "LOCKED"  // lock confirmed by the server with a TTL
)

// SeatHold is the client-side mirror of one server-held seat lock.
// Holds are owned by exactly one reservation context; changing region,
// date or showtime invalidates ownership of every current hold.
//
// Fields:
//  ShowtimeID – showtime the lock is scoped to.
//  SeatID     – seat being held.
//  Category   – seat category, needed for ticket assignment.
//  TTLSeconds – last TTL the server reported for this lock.
//  Status     – advisory status (PENDING until the push channel confirms).
//  HeldAt     – when the visitor selected the seat; assignment order.
type SeatHold struct {
	ShowtimeID uint64       `json:"showtime_id"`
	SeatID     uint64       `json:"seat_id"`
	Category   SeatCategory `json:"seat_category"`
	TTLSeconds int          `json:"ttl_seconds"`
	Status     HoldStatus   `json:"status"`
	HeldAt     time.Time    `json:"held_at"`
}
