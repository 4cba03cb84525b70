package service

import (
	"context"
	"time"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/delivery/internal/repository"
)

type reservationOwner struct {
	baseOwner
}

func newReservationOwner(repo repository.Repository) *reservationOwner {
	return &reservationOwner{baseOwner{repo: repo, lc: model.Reservations}}
}

func (reservationOwner) Exclusive() bool { return true }

func (reservationOwner) Settle(model.Request) model.Status {
	return model.StatusPending
}

func (reservationOwner) CheckAdvance(model.Request, model.Status) error {
	return nil
}

// Aggregate is the least advanced status over all claims, so a reservation with one
// item still waiting on the shelf stays PENDING.
func (o reservationOwner) Aggregate(ctx context.Context, req model.Request) (model.Status, error) {
	if len(req.Claims) == 0 {
		return req.Status, nil
	}
	least := o.lc.Rank(model.StatusCompleted)
	for _, c := range req.Claims {
		st, err := o.claimStatus(ctx, c)
		if err != nil {
			return "", err
		}
		if r := o.lc.Rank(st); r < least {
			least = r
		}
	}
	return o.lc.Statuses()[least], nil
}

func (o reservationOwner) claimStatus(ctx context.Context, c model.Claim) (model.Status, error) {
	switch {
	case c.Completed:
		return model.StatusCompleted, nil
	case c.OnHold:
		return model.StatusActive, nil
	}
	h, err := o.repo.GetHolding(ctx, c.HoldingID)
	if err != nil {
		return "", err
	}
	switch h.Status {
	case model.HoldingInUse, model.HoldingReturned:
		return model.StatusActive, nil
	default:
		return model.StatusPending, nil
	}
}

func (reservationOwner) Notifies(status model.Status) bool {
	return status == model.StatusPending
}

// PrintsOnReserve holds request slips back until the visit day.
func (reservationOwner) PrintsOnReserve(req model.Request, now time.Time) bool {
	if req.Reservation == nil {
		return true
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return !req.Reservation.Date.After(today.Add(24*time.Hour - time.Nanosecond))
}
