package model

// TicketType identifies a pricing tier for a ticket (adult, child, ...).
type TicketType string

// Ticket types offered by the pricing backend.  DefaultTicketType is
// assigned when a seat's category queue is exhausted during assignment,
// so an undercounted selection degrades to full-price tickets instead
// of failing the submission.
const (
	TicketAdult   TicketType = "ADULT"
	TicketChild   TicketType = "CHILD"
	TicketStudent TicketType = "STUDENT"
	TicketSenior  TicketType = "SENIOR"

	DefaultTicketType = TicketAdult
)

// TicketKey is the composite key of a ticket selection entry: one
// count exists per (seat category, ticket type) pair.
type TicketKey struct {
	Category SeatCategory `json:"seat_category"`
	Type     TicketType   `json:"ticket_type"`
}

// TicketSelection maps (seatCategory, ticketType) pairs to the number
// of tickets the visitor has chosen.  Counts are non-negative; the sum
// across the map must equal the number of held seats before a booking
// may be submitted.
type TicketSelection map[TicketKey]int

// Total returns the sum of all ticket counts.
func (s TicketSelection) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// TotalForCategory returns the sum of ticket counts for one seat category.
func (s TicketSelection) TotalForCategory(cat SeatCategory) int {
	n := 0
	for k, c := range s {
		if k.Category == cat {
			n += c
		}
	}
	return n
}

// Clone returns an independent copy of the selection.  Zero-count
// entries are dropped so clones compare cleanly.
func (s TicketSelection) Clone() TicketSelection {
	out := make(TicketSelection, len(s))
	for k, c := range s {
		if c > 0 {
			out[k] = c
		}
	}
	return out
}
