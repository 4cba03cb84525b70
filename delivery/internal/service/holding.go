package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// setStatus assigns status to the holding on behalf of trigger. A release hands the
// holding to a request waiting on hold for it, and every owner then re-derives the
// requests that reference the holding.
func (s *Service) setStatus(ctx context.Context, u *unit, holdingID int64, status model.HoldingStatus, trigger *model.Ref) error {
	if err := s.repo.SetHoldingStatus(ctx, holdingID, status, s.clock.Now()); err != nil {
		return errors.Wrap(err, "repo.SetHoldingStatus")
	}

	if status.Releases() {
		_, err := s.markItemActive(ctx, u, holdingID, trigger)
		switch {
		case errors.Is(err, errs.ErrNoHold), errors.Is(err, errs.ErrInUse):
		case err != nil:
			return err
		default:
			// the handover already told every owner
			if trigger == nil {
				return nil
			}
			return s.completeClaim(ctx, *trigger, holdingID)
		}
	}
	return s.holdingChanged(ctx, u, holdingID, trigger)
}

// completeClaim closes trigger's claim on holdingID after custody moved on.
func (s *Service) completeClaim(ctx context.Context, ref model.Ref, holdingID int64) error {
	req, err := s.repo.GetRequest(ctx, ref.Kind, ref.ID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	c, ok := req.ClaimFor(holdingID)
	if !ok || c.Completed {
		return nil
	}
	c.Completed, c.OnHold = true, false
	return s.repo.UpdateClaim(ctx, ref.Kind, *c)
}

// holdingChanged lets every owner re-derive its requests referencing holdingID, except
// the ones the caller is already driving.
func (s *Service) holdingChanged(ctx context.Context, u *unit, holdingID int64, skip ...*model.Ref) error {
	for _, o := range s.owners {
		ids, err := o.Affected(ctx, holdingID)
		if err != nil {
			return errors.Wrapf(err, "%s affected", o.Kind())
		}
	next:
		for _, id := range ids {
			ref := model.Ref{Kind: o.Kind(), ID: id}
			for _, sk := range skip {
				if sk != nil && *sk == ref {
					continue next
				}
			}
			if err := s.reaggregate(ctx, u, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// reaggregate derives the request status from its claims. It is a derivation, so the
// result may sit below the current status.
func (s *Service) reaggregate(ctx context.Context, u *unit, ref model.Ref) error {
	o, err := s.owner(ref.Kind)
	if err != nil {
		return err
	}
	req, err := s.repo.GetRequest(ctx, ref.Kind, ref.ID)
	if err != nil {
		return err
	}
	status, err := o.Aggregate(ctx, req)
	if err != nil {
		return errors.Wrap(err, "aggregate")
	}
	if status == req.Status {
		return nil
	}
	s.log.Debug("status derived",
		zap.Any("request", ref),
		zap.String("from", string(req.Status)),
		zap.String("to", string(status)),
	)
	req.Status = status
	req.StatusChangedAt = s.clock.Now()
	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		return errors.Wrap(err, "repo.UpdateRequest")
	}
	if o.Notifies(status) {
		u.mail(req)
	}
	return nil
}

// MarkItem records a barcode scan: the holding moves one step along its owner's cycle
// and the owner's status is re-derived.
func (s *Service) MarkItem(ctx context.Context, holdingID int64) (model.Holding, error) {
	var out model.Holding
	err := s.do(ctx, func(ctx context.Context, u *unit) error {
		h, err := s.repo.GetHoldingForUpdate(ctx, holdingID)
		if err != nil {
			return err
		}
		owner, err := s.resolve(ctx, holdingID, model.ModeOnlyNonOnHold)
		if err != nil {
			return err
		}
		if owner == nil {
			return errs.Holding(errs.ErrNotFound, holdingID, h.Signature)
		}
		o, err := s.owner(owner.Request.Kind)
		if err != nil {
			return err
		}
		next := o.Lifecycle().Next(h.Status)
		if next == model.HoldingAvailable {
			claim := owner.Claim
			claim.Completed, claim.OnHold = true, false
			if err := s.repo.UpdateClaim(ctx, owner.Request.Kind, claim); err != nil {
				return errors.Wrap(err, "repo.UpdateClaim")
			}
		}
		if err := s.setStatus(ctx, u, holdingID, next, &owner.Request); err != nil {
			return err
		}
		if err := s.reaggregate(ctx, u, owner.Request); err != nil {
			return err
		}
		s.log.Info("item marked",
			zap.Int64("holding", holdingID),
			zap.String("from", string(h.Status)),
			zap.String("to", string(next)),
			zap.Any("owner", owner.Request),
		)
		out, err = s.repo.GetHolding(ctx, holdingID)
		return err
	})
	return out, err
}
