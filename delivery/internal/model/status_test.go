package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

func TestLifecycle_Rank(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		lc   *model.Lifecycle
		from model.Status
		to   model.Status
		want bool
	}{
		{"reservation forward", model.Reservations, model.StatusPending, model.StatusActive, true},
		{"reservation same", model.Reservations, model.StatusActive, model.StatusActive, false},
		{"reservation backward", model.Reservations, model.StatusCompleted, model.StatusPending, false},
		{"reservation foreign status", model.Reservations, model.StatusPending, model.StatusDelivered, false},
		{"reproduction skip ahead", model.Reproductions, model.StatusWaitingForOrderDetails, model.StatusActive, true},
		{"reproduction cancel after delivery", model.Reproductions, model.StatusDelivered, model.StatusCancelled, true},
		{"reproduction from empty", model.Reproductions, "", model.StatusWaitingForOrderDetails, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.lc.Advances(tt.from, tt.to))
		})
	}
}

func TestLifecycle_HoldingMapping(t *testing.T) {
	t.Parallel()

	h, ok := model.Reservations.HoldingTarget(model.StatusPending)
	require.True(t, ok)
	assert.Equal(t, model.HoldingReserved, h)
	assert.True(t, model.Reservations.Custodial(model.StatusActive))
	assert.True(t, model.Reservations.Released(model.StatusCompleted))

	_, ok = model.Reproductions.HoldingTarget(model.StatusConfirmed)
	assert.False(t, ok)
	assert.False(t, model.Reproductions.Custodial(model.StatusConfirmed))
	assert.True(t, model.Reproductions.Custodial(model.StatusActive))
	for _, s := range []model.Status{model.StatusCompleted, model.StatusDelivered, model.StatusCancelled} {
		assert.True(t, model.Reproductions.Released(s), s)
	}
}

func TestLifecycle_Next(t *testing.T) {
	t.Parallel()
	cycle := []model.HoldingStatus{model.HoldingReserved}
	for i := 0; i < 3; i++ {
		cycle = append(cycle, model.Reservations.Next(cycle[len(cycle)-1]))
	}
	assert.Equal(t, []model.HoldingStatus{
		model.HoldingReserved, model.HoldingInUse, model.HoldingReturned, model.HoldingAvailable,
	}, cycle)

	assert.Equal(t, model.HoldingAvailable, model.Reproductions.Next(model.HoldingReserved))
	assert.Equal(t, model.HoldingInUse, model.Reservations.Resume())
	assert.Equal(t, model.HoldingReserved, model.Reproductions.Resume())
}

func TestMode_Accepts(t *testing.T) {
	t.Parallel()
	assert.True(t, model.ModeAll.Accepts(true))
	assert.True(t, model.ModeAll.Accepts(false))
	assert.True(t, model.ModeOnlyOnHold.Accepts(true))
	assert.False(t, model.ModeOnlyOnHold.Accepts(false))
	assert.False(t, model.ModeOnlyNonOnHold.Accepts(true))
}

func TestLifecycle_Behind(t *testing.T) {
	t.Parallel()
	assert.True(t, model.Reservations.Behind(model.HoldingAvailable, model.HoldingReserved))
	assert.True(t, model.Reservations.Behind(model.HoldingReserved, model.HoldingInUse))
	assert.False(t, model.Reservations.Behind(model.HoldingReturned, model.HoldingInUse))
	assert.False(t, model.Reservations.Behind(model.HoldingInUse, model.HoldingInUse))

	assert.True(t, model.Reproductions.Behind(model.HoldingAvailable, model.HoldingReserved))
	assert.True(t, model.Reproductions.Behind(model.HoldingInUse, model.HoldingReserved))
	assert.False(t, model.Reproductions.Behind(model.HoldingReserved, model.HoldingReserved))
}
