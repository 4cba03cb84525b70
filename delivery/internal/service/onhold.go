package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// MarkItemOnHold pauses the active owner of an in-use holding so no scan can move it
// until MarkItemActive. Claims merely queued for the holding do not count as a hold.
// The holding row stays locked between the check and the flag.
func (s *Service) MarkItemOnHold(ctx context.Context, holdingID int64) (model.Candidate, error) {
	var out model.Candidate
	err := s.do(ctx, func(ctx context.Context, u *unit) error {
		h, err := s.repo.GetHoldingForUpdate(ctx, holdingID)
		if err != nil {
			return err
		}
		all, err := s.candidates(ctx, holdingID)
		if err != nil {
			return err
		}
		for _, c := range all {
			if s.paused(c, h.Status) {
				return errs.Holding(errs.ErrAlreadyOnHold, holdingID, h.Signature)
			}
		}
		owner, err := s.resolve(ctx, holdingID, model.ModeOnlyNonOnHold)
		if err != nil {
			return err
		}
		if owner == nil {
			return errs.Holding(errs.ErrNotFound, holdingID, h.Signature)
		}
		if h.Status != model.HoldingInUse {
			return errs.Holding(errs.ErrNotInUse, holdingID, h.Signature)
		}
		owner.Claim.OnHold = true
		if err := s.repo.UpdateClaim(ctx, owner.Request.Kind, owner.Claim); err != nil {
			return errors.Wrap(err, "repo.UpdateClaim")
		}
		s.log.Info("item on hold", zap.Int64("holding", holdingID), zap.Any("owner", owner.Request))
		out = *owner
		return nil
	})
	return out, err
}

// MarkItemActive lifts the hold on holdingID.
func (s *Service) MarkItemActive(ctx context.Context, holdingID int64) (model.Ref, error) {
	var out model.Ref
	err := s.do(ctx, func(ctx context.Context, u *unit) error {
		if _, err := s.repo.GetHoldingForUpdate(ctx, holdingID); err != nil {
			return err
		}
		ref, err := s.markItemActive(ctx, u, holdingID, nil)
		out = ref
		return err
	})
	return out, err
}

// markItemActive clears the hold of the paused custodian of holdingID, or else of the
// earliest request queued for it other than exclude, and gives that request the
// holding in its kind's resume status. Every owner then re-derives its requests on
// the holding, exclude aside. It fails with errs.ErrNoHold when nobody waits and with
// errs.ErrInUse while another request still has custody.
func (s *Service) markItemActive(ctx context.Context, u *unit, holdingID int64, exclude *model.Ref) (model.Ref, error) {
	h, err := s.repo.GetHolding(ctx, holdingID)
	if err != nil {
		return model.Ref{}, err
	}
	all, err := s.candidates(ctx, holdingID)
	if err != nil {
		return model.Ref{}, err
	}
	var skip []model.Ref
	if exclude != nil {
		skip = append(skip, *exclude)
	}
	waiting := filterMode(others(all, skip...), model.ModeOnlyOnHold)
	if len(waiting) == 0 {
		return model.Ref{}, errs.Holding(errs.ErrNoHold, holdingID, h.Signature)
	}
	next := waiting[0]
	for _, c := range waiting {
		if s.paused(c, h.Status) {
			next = c
			break
		}
	}
	if busy := s.busy(others(all, append(skip, next.Request)...), h.Status); len(busy) > 0 {
		return model.Ref{}, errs.Holding(errs.ErrInUse, holdingID, next.Claim.Signature)
	}

	o, err := s.owner(next.Request.Kind)
	if err != nil {
		return model.Ref{}, err
	}
	claim := next.Claim
	claim.OnHold = false
	if err := s.repo.UpdateClaim(ctx, next.Request.Kind, claim); err != nil {
		return model.Ref{}, errors.Wrap(err, "repo.UpdateClaim")
	}
	resume := o.Lifecycle().Resume()
	if err := s.repo.SetHoldingStatus(ctx, holdingID, resume, s.clock.Now()); err != nil {
		return model.Ref{}, errors.Wrap(err, "repo.SetHoldingStatus")
	}
	if err := s.holdingChanged(ctx, u, holdingID, exclude); err != nil {
		return model.Ref{}, err
	}
	if resume == model.HoldingReserved && !claim.Printed {
		req, err := s.repo.GetRequest(ctx, next.Request.Kind, next.Request.ID)
		if err != nil {
			return model.Ref{}, err
		}
		if o.PrintsOnReserve(req, s.clock.Now()) {
			u.print(next.Request, claim, false)
		}
	}
	s.log.Info("item active", zap.Int64("holding", holdingID), zap.Any("owner", next.Request))
	return next.Request, nil
}
