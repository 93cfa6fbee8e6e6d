package session

import (
	"sort"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

// AssignTickets deterministically maps held seats to ticket types by
// seat category.  For each category present among the held seats it
// expands the ticket counts of that category into a FIFO queue of
// ticket-type labels (in sorted ticket-type order, so the result does
// not depend on map iteration), then walks the seats in selection
// order popping one label from the seat's category queue.  A seat
// whose queue is exhausted gets the default ticket type instead of
// failing, so an undercounted selection still submits.
//
// Assignment is only performed at submission time; interactive
// selection validates cardinality, never category correctness, so the
// visitor can reorder freely without spurious errors.
func AssignTickets(sel model.TicketSelection, held []model.SeatHold) []model.AssignedSeat {
	out, _ := assign(sel, held)
	return out
}

// consumedCounts reports how many held seats each (category, type)
// entry of the selection is currently assigned to.  The decrease-guard
// uses it: lowering a count below its consumed number would silently
// desynchronize tickets from held seats.
func consumedCounts(sel model.TicketSelection, held []model.SeatHold) map[model.TicketKey]int {
	_, consumed := assign(sel, held)
	return consumed
}

func assign(sel model.TicketSelection, held []model.SeatHold) ([]model.AssignedSeat, map[model.TicketKey]int) {
	queues := make(map[model.SeatCategory][]model.TicketType)
	for _, h := range held {
		if _, ok := queues[h.Category]; ok {
			continue
		}
		queues[h.Category] = expandCategory(sel, h.Category)
	}

	out := make([]model.AssignedSeat, 0, len(held))
	consumed := make(map[model.TicketKey]int)
	for _, h := range held {
		q := queues[h.Category]
		tt := model.DefaultTicketType
		if len(q) > 0 {
			tt = q[0]
			queues[h.Category] = q[1:]
			consumed[model.TicketKey{Category: h.Category, Type: tt}]++
		}
		out = append(out, model.AssignedSeat{
			SeatID:       h.SeatID,
			SeatCategory: h.Category,
			TicketType:   tt,
		})
	}
	return out, consumed
}

// expandCategory flattens one category's counts into an ordered queue
// of ticket-type labels.
func expandCategory(sel model.TicketSelection, cat model.SeatCategory) []model.TicketType {
	types := make([]model.TicketType, 0, len(sel))
	for k := range sel {
		if k.Category == cat && sel[k] > 0 {
			types = append(types, k.Type)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	var queue []model.TicketType
	for _, t := range types {
		n := sel[model.TicketKey{Category: cat, Type: t}]
		for i := 0; i < n; i++ {
			queue = append(queue, t)
		}
	}
	return queue
}
