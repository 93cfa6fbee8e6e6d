package model

import "time"

// Showtime represents a single scheduled screening as served by the
// catalog backend.  The coordinator treats it as immutable once
// fetched: selecting a new showtime always supersedes the old one as
// a unit, it is never patched field by field.
//
// Fields:
//  ID        – showtime identifier.
//  RoomID    – room (hall) in which the screening takes place.
//  TheaterID – theater that owns the room.
//  StartsAt  – when the screening begins (UTC).
//  EndsAt    – when the screening ends (UTC).
type Showtime struct {
	ID        uint64    `json:"showtime_id"`
	RoomID    uint64    `json:"room_id"`
	TheaterID uint64    `json:"theater_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}
