package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

func hold(seatID uint64, cat model.SeatCategory) model.SeatHold {
	return model.SeatHold{ShowtimeID: 10, SeatID: seatID, Category: cat, Status: model.HoldLocked, HeldAt: time.Now()}
}

func TestAssignTicketsOneAdultOneChild(t *testing.T) {
	held := []model.SeatHold{
		hold(101, model.CategoryStandard),
		hold(102, model.CategoryStandard),
	}
	sel := model.TicketSelection{
		{Category: model.CategoryStandard, Type: model.TicketAdult}: 1,
		{Category: model.CategoryStandard, Type: model.TicketChild}: 1,
	}

	got := AssignTickets(sel, held)

	require.Len(t, got, 2)
	// Types are drawn in sorted type order; seats keep selection order.
	assert.Equal(t, model.AssignedSeat{SeatID: 101, SeatCategory: model.CategoryStandard, TicketType: model.TicketAdult}, got[0])
	assert.Equal(t, model.AssignedSeat{SeatID: 102, SeatCategory: model.CategoryStandard, TicketType: model.TicketChild}, got[1])
}

func TestAssignTicketsIsDeterministic(t *testing.T) {
	held := []model.SeatHold{
		hold(101, model.CategoryStandard),
		hold(102, model.CategoryStandard),
		hold(103, model.CategoryStandard),
	}
	sel := model.TicketSelection{
		{Category: model.CategoryStandard, Type: model.TicketStudent}: 1,
		{Category: model.CategoryStandard, Type: model.TicketAdult}:   1,
		{Category: model.CategoryStandard, Type: model.TicketChild}:   1,
	}

	first := AssignTickets(sel, held)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, AssignTickets(sel, held))
	}
}

func TestAssignTicketsDefaultsWhenUndercounted(t *testing.T) {
	held := []model.SeatHold{
		hold(101, model.CategoryStandard),
		hold(102, model.CategoryStandard),
	}
	sel := model.TicketSelection{
		{Category: model.CategoryStandard, Type: model.TicketChild}: 1,
	}

	got := AssignTickets(sel, held)

	require.Len(t, got, 2)
	assert.Equal(t, model.TicketChild, got[0].TicketType)
	assert.Equal(t, model.DefaultTicketType, got[1].TicketType)
}

func TestAssignTicketsKeepsCategoriesSeparate(t *testing.T) {
	held := []model.SeatHold{
		hold(201, model.CategoryDouble),
		hold(101, model.CategoryStandard),
	}
	sel := model.TicketSelection{
		{Category: model.CategoryStandard, Type: model.TicketChild}: 1,
		{Category: model.CategoryDouble, Type: model.TicketAdult}:   1,
	}

	got := AssignTickets(sel, held)

	require.Len(t, got, 2)
	assert.Equal(t, model.TicketAdult, got[0].TicketType)
	assert.Equal(t, model.CategoryDouble, got[0].SeatCategory)
	assert.Equal(t, model.TicketChild, got[1].TicketType)
	assert.Equal(t, model.CategoryStandard, got[1].SeatCategory)
}

func TestAssignTicketsEmptyInputs(t *testing.T) {
	assert.Empty(t, AssignTickets(model.TicketSelection{}, nil))
	assert.Empty(t, AssignTickets(nil, nil))
}

func TestConsumedCountsTracksAssignedUsage(t *testing.T) {
	held := []model.SeatHold{
		hold(101, model.CategoryStandard),
		hold(102, model.CategoryStandard),
	}
	sel := model.TicketSelection{
		{Category: model.CategoryStandard, Type: model.TicketAdult}: 2,
		{Category: model.CategoryDouble, Type: model.TicketAdult}:   1,
	}

	used := consumedCounts(sel, held)

	assert.Equal(t, 2, used[model.TicketKey{Category: model.CategoryStandard, Type: model.TicketAdult}])
	// No DOUBLE seat is held, so the DOUBLE entry consumes nothing.
	assert.Zero(t, used[model.TicketKey{Category: model.CategoryDouble, Type: model.TicketAdult}])
}
