// Package session implements the ephemeral seat-reservation
// coordinator: per-visitor selection state, the lifecycle transitions
// that release superseded holds, the TTL countdown and the booking
// request builder.  These sentinel errors let the handler layer map
// coordinator failures onto HTTP statuses.  Validation errors are
// always raised before any network call and are recoverable by
// correcting the selection.
package session

import "errors"

// ErrNoShowtime is returned when an operation requires an active
// showtime and none is selected, or a seat belongs to a different
// showtime than the active one.
var ErrNoShowtime = errors.New("no active showtime")

// ErrNoSeats is returned when submission is attempted with zero held
// seats.
var ErrNoSeats = errors.New("no seats selected")

// ErrNoTickets is returned when submission is attempted with zero
// tickets selected.
var ErrNoTickets = errors.New("no tickets selected")

// ErrCountMismatch is returned when the ticket total does not equal
// the number of held seats at submission time.
var ErrCountMismatch = errors.New("ticket count does not match held seats")

// ErrTooManyTickets is returned when a ticket change would push the
// total above the number of currently-held seats.
var ErrTooManyTickets = errors.New("ticket total exceeds held seats")

// ErrTicketsBelowAssigned is returned when a ticket count would be
// lowered below the number of held seats that ticket type is already
// assigned to.  The visitor must release seats first.
var ErrTicketsBelowAssigned = errors.New("ticket count is below its assigned seats; release seats first")

// ErrSeatNotHeld is returned when a seat removal names a seat that is
// not in the current mirror.
var ErrSeatNotHeld = errors.New("seat is not held")

// ErrSeatAlreadyHeld is returned when the same seat is added to the
// mirror twice.
var ErrSeatAlreadyHeld = errors.New("seat is already held")

// ErrSubmitFailed wraps a booking backend rejection.  It is the only
// network failure that propagates to the UI; local reservation state
// is left intact so the visitor can retry without re-selecting seats.
var ErrSubmitFailed = errors.New("booking submission failed")
