package model

// SeatCategory classifies a physical seat.  The category decides which
// ticket types may be assigned to the seat at submission time.
type SeatCategory string

// Seat categories as delivered by the seat map API.
const (
	CategoryStandard SeatCategory = "STANDARD" // regular single seat
	CategoryDouble   SeatCategory = "DOUBLE"   // double (couple) seat
)

// Seat describes one physical seat inside a showtime's seat map.  Seats
// are ephemeral on the client: the map is re-fetched per showtime and a
// seat belongs to exactly one showtime's map.
//
// Fields:
//  ID         – seat identifier within the seat map.
//  ShowtimeID – showtime whose map this seat belongs to.
//  RowLabel   – letter designating the row (A, B, ...).
//  SeatNumber – number of the seat within the row.
//  Category   – seat category (STANDARD, DOUBLE).
type Seat struct {
	ID         uint64       `json:"seat_id"`
	ShowtimeID uint64       `json:"showtime_id"`
	RowLabel   string       `json:"row_label"`
	SeatNumber uint32       `json:"seat_number"`
	Category   SeatCategory `json:"seat_category"`
}
