package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/delivery/internal/repository"
)

var now = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func seed(m *repository.Memory, signatures ...string) []model.Holding {
	rec := m.AddRecord(model.Record{PID: "pid-1", Title: "Minutes 1901"})
	out := make([]model.Holding, len(signatures))
	for i, sig := range signatures {
		out[i] = m.AddHolding(model.Holding{RecordID: rec.ID, Signature: sig})
	}
	return out
}

func newRequest(kind model.Kind, status model.Status, at time.Time, holdings ...model.Holding) *model.Request {
	req := &model.Request{Kind: kind, Status: status, CreatedAt: at, StatusChangedAt: at, Name: "n", Email: "e@x.org"}
	for _, h := range holdings {
		req.Claims = append(req.Claims, model.Claim{HoldingID: h.ID})
	}
	return req
}

func TestMemory_RequestRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := repository.NewMemory()
	hs := seed(m, "A-1", "A-2")

	req := newRequest(model.KindReservation, model.StatusPending, now, hs...)
	req.Reservation = &model.ReservationDetails{Date: now}
	require.NoError(t, m.CreateRequest(ctx, req))
	require.NotZero(t, req.ID)
	for _, c := range req.Claims {
		require.NotZero(t, c.ID)
		require.Equal(t, req.ID, c.RequestID)
	}

	got, err := m.GetRequest(ctx, model.KindReservation, req.ID)
	require.NoError(t, err)
	require.Len(t, got.Claims, 2)
	require.Equal(t, "A-1", got.Claims[0].Signature)
	require.Equal(t, now, got.Reservation.Date)

	got.Reservation.Date = now.Add(time.Hour)
	again, err := m.GetRequest(ctx, model.KindReservation, req.ID)
	require.NoError(t, err)
	require.Equal(t, now, again.Reservation.Date, "callers get copies")

	_, err = m.GetRequest(ctx, model.KindReproduction, req.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	dup := model.Claim{RequestID: req.ID, HoldingID: hs[0].ID}
	require.ErrorIs(t, m.AddClaim(ctx, model.KindReservation, &dup), errs.ErrDuplicateClaim)

	require.NoError(t, m.DeleteRequest(ctx, model.KindReservation, req.ID))
	ids, err := m.RequestsWithHolding(ctx, model.KindReservation, hs[0].ID)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestMemory_WithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := repository.NewMemory()
	hs := seed(m, "A-1")

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, m.SetHoldingStatus(ctx, hs[0].ID, model.HoldingReserved, now))
		req := newRequest(model.KindReservation, model.StatusPending, now, hs...)
		require.NoError(t, m.CreateRequest(ctx, req))
		// nested transactions join the outer one
		return m.WithTx(ctx, func(context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)

	h, err := m.GetHolding(ctx, hs[0].ID)
	require.NoError(t, err)
	require.Equal(t, model.HoldingAvailable, h.Status)
	ids, err := m.RequestsWithHolding(ctx, model.KindReservation, hs[0].ID)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestMemory_Candidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := repository.NewMemory()
	hs := seed(m, "A-1")

	later := newRequest(model.KindReservation, model.StatusActive, now.Add(time.Hour), hs...)
	earlier := newRequest(model.KindReservation, model.StatusPending, now, hs...)
	done := newRequest(model.KindReservation, model.StatusCompleted, now.Add(-time.Hour), hs...)
	for _, r := range []*model.Request{later, earlier, done} {
		require.NoError(t, m.CreateRequest(ctx, r))
	}

	got, err := m.Candidates(ctx, model.KindReservation, hs[0].ID,
		[]model.Status{model.StatusPending, model.StatusActive})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, earlier.ID, got[0].Request.ID)
	require.Equal(t, later.ID, got[1].Request.ID)
	require.Equal(t, "A-1", got[0].Claim.Signature)

	c := got[0].Claim
	c.Completed = true
	require.NoError(t, m.UpdateClaim(ctx, model.KindReservation, c))
	got, err = m.Candidates(ctx, model.KindReservation, hs[0].ID,
		[]model.Status{model.StatusPending, model.StatusActive})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMemory_Sweeps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := repository.NewMemory()
	hs := seed(m, "A-1", "A-2")

	old := newRequest(model.KindReproduction, model.StatusConfirmed, now.Add(-48*time.Hour), hs[0])
	recent := newRequest(model.KindReproduction, model.StatusConfirmed, now, hs[1])
	require.NoError(t, m.CreateRequest(ctx, old))
	require.NoError(t, m.CreateRequest(ctx, recent))

	ids, err := m.ListStale(ctx, model.KindReproduction,
		[]model.Status{model.StatusHasOrderDetails, model.StatusConfirmed}, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, []int64{old.ID}, ids)

	ids, err = m.ListUnprinted(ctx, model.KindReproduction, []model.Status{model.StatusConfirmed})
	require.NoError(t, err)
	require.Equal(t, []int64{old.ID, recent.ID}, ids)

	require.NoError(t, m.SetClaimPrinted(ctx, model.KindReproduction, old.Claims[0].ID, true))
	ids, err = m.ListUnprinted(ctx, model.KindReproduction, []model.Status{model.StatusConfirmed})
	require.NoError(t, err)
	require.Equal(t, []int64{recent.ID}, ids)

	_, err = m.ListStale(ctx, "LOAN", nil, now)
	require.ErrorIs(t, err, errs.ErrUnknownKind)
}
