package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// Print queues print jobs for the claims a request has in custody. Without force,
// claims already printed are skipped.
func (s *Service) Print(ctx context.Context, kind model.Kind, id int64, force bool) (int, error) {
	o, err := s.owner(kind)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.do(ctx, func(ctx context.Context, u *unit) error {
		req, err := s.repo.GetRequest(ctx, kind, id)
		if err != nil {
			return err
		}
		n, err = s.queuePrints(ctx, u, o, req, force)
		return err
	})
	return n, err
}

func (s *Service) queuePrints(ctx context.Context, u *unit, o ClaimOwner, req model.Request, force bool) (int, error) {
	if !force && !o.PrintsOnReserve(req, s.clock.Now()) {
		return 0, nil
	}
	n := 0
	for _, c := range req.Claims {
		if c.Printed && !force {
			continue
		}
		ok, err := s.custodian(ctx, o, req.Ref(), req.Status, c)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		u.print(req.Ref(), c, force)
		n++
	}
	return n, nil
}

// RetryUnprinted queues print jobs for every unprinted claim in custody. Reservations
// whose visit day has not come yet wait for a later sweep.
func (s *Service) RetryUnprinted(ctx context.Context) (int, error) {
	total := 0
	for _, o := range s.owners {
		ids, err := s.repo.ListUnprinted(ctx, o.Kind(), custodialStatuses(o.Lifecycle()))
		if err != nil {
			return total, errors.Wrapf(err, "%s unprinted", o.Kind())
		}
		for _, id := range ids {
			n, err := s.Print(ctx, o.Kind(), id, false)
			if err != nil {
				s.log.Warn("retry print", zap.String("kind", string(o.Kind())), zap.Int64("id", id), zap.Error(err))
				continue
			}
			total += n
		}
	}
	if total > 0 {
		s.log.Info("unprinted claims queued", zap.Int("jobs", total))
	}
	return total, nil
}

// CancelUnpaidReproductions cancels offered reproductions nobody paid for within olderThan.
func (s *Service) CancelUnpaidReproductions(ctx context.Context, olderThan time.Duration) (int, error) {
	before := s.clock.Now().Add(-olderThan)
	ids, err := s.repo.ListStale(ctx, model.KindReproduction,
		[]model.Status{model.StatusHasOrderDetails, model.StatusConfirmed}, before)
	if err != nil {
		return 0, errors.Wrap(err, "repo.ListStale")
	}
	cancelled := 0
	for _, id := range ids {
		req, err := s.repo.GetRequest(ctx, model.KindReproduction, id)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return cancelled, err
		}
		if req.Reproduction != nil && req.Reproduction.Paid {
			continue
		}
		if _, err := s.AdvanceStatus(ctx, model.KindReproduction, id, model.StatusCancelled); err != nil {
			s.log.Warn("cancel unpaid", zap.Int64("id", id), zap.Error(err))
			continue
		}
		cancelled++
	}
	if cancelled > 0 {
		s.log.Info("unpaid reproductions cancelled", zap.Int("count", cancelled), zap.Time("before", before))
	}
	return cancelled, nil
}

func custodialStatuses(lc *model.Lifecycle) []model.Status {
	var out []model.Status
	for _, st := range lc.Statuses() {
		if lc.Custodial(st) {
			out = append(out, st)
		}
	}
	return out
}
