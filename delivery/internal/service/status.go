package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// Submit stores a new request and takes its holdings as far as its initial status
// requires.
func (s *Service) Submit(ctx context.Context, req model.Request) (model.Request, error) {
	o, err := s.owner(req.Kind)
	if err != nil {
		return model.Request{}, err
	}
	req.Claims = dedupe(req.Claims)
	if len(req.Claims) == 0 {
		return model.Request{}, errs.ErrNoClaims
	}

	var out model.Request
	err = s.do(ctx, func(ctx context.Context, u *unit) error {
		for i := range req.Claims {
			c := &req.Claims[i]
			h, err := s.checkClaim(ctx, o, c.HoldingID, nil)
			if err != nil {
				return err
			}
			c.Signature = h.Signature
			c.ID, c.Completed, c.OnHold, c.Printed = 0, false, false, false
		}
		now := s.clock.Now()
		req.ID = 0
		req.Status = o.Settle(req)
		req.CreatedAt, req.StatusChangedAt = now, now
		if err := s.repo.CreateRequest(ctx, &req); err != nil {
			return errors.Wrap(err, "repo.CreateRequest")
		}
		if err := s.cascade(ctx, u, o, req, "", req.Claims); err != nil {
			return err
		}
		if o.Notifies(req.Status) {
			u.mail(req)
		}
		s.log.Info("request submitted",
			zap.Any("request", req.Ref()),
			zap.String("status", string(req.Status)),
			zap.Int("claims", len(req.Claims)),
		)
		stored, err := s.repo.GetRequest(ctx, req.Kind, req.ID)
		out = stored
		return err
	})
	return out, err
}

// checkClaim runs the creation-time checks for a new claim of owner o on holdingID.
func (s *Service) checkClaim(ctx context.Context, o ClaimOwner, holdingID int64, self *model.Ref) (model.Holding, error) {
	h, err := s.repo.GetHoldingForUpdate(ctx, holdingID)
	if err != nil {
		return model.Holding{}, err
	}
	rec, err := s.repo.GetRecord(ctx, h.RecordID)
	if err != nil {
		return model.Holding{}, err
	}
	if h.UsageRestriction == model.RestrictionClosed || rec.Restriction == model.RestrictionClosed {
		return model.Holding{}, errs.Holding(errs.ErrClosed, h.ID, h.Signature)
	}
	if !o.Exclusive() {
		return h, nil
	}
	if h.Status != model.HoldingAvailable {
		return model.Holding{}, errs.Holding(errs.ErrInUse, h.ID, h.Signature)
	}
	all, err := s.candidates(ctx, h.ID)
	if err != nil {
		return model.Holding{}, err
	}
	var skip []model.Ref
	if self != nil {
		skip = append(skip, *self)
	}
	if len(others(all, skip...)) > 0 {
		return model.Holding{}, errs.Holding(errs.ErrInUse, h.ID, h.Signature)
	}
	return h, nil
}

// AdvanceStatus moves a request forward to status and cascades it onto its holdings.
// A status at or behind the current one is ignored.
func (s *Service) AdvanceStatus(ctx context.Context, kind model.Kind, id int64, status model.Status) (model.Request, error) {
	o, err := s.owner(kind)
	if err != nil {
		return model.Request{}, err
	}
	if !o.Lifecycle().Known(status) {
		return model.Request{}, errors.Wrapf(errs.ErrUnknownStatus, "%s status %q", kind, status)
	}
	var out model.Request
	err = s.do(ctx, func(ctx context.Context, u *unit) error {
		req, err := s.repo.GetRequest(ctx, kind, id)
		if err != nil {
			return err
		}
		if _, err := s.advance(ctx, u, &req, status); err != nil {
			return err
		}
		out, err = s.repo.GetRequest(ctx, kind, id)
		return err
	})
	return out, err
}

// advance is the forward-only transition with full cascade. It reports whether the
// status moved.
func (s *Service) advance(ctx context.Context, u *unit, req *model.Request, status model.Status) (bool, error) {
	o, err := s.owner(req.Kind)
	if err != nil {
		return false, err
	}
	lc := o.Lifecycle()
	if !lc.Advances(req.Status, status) {
		s.log.Debug("status not advanced",
			zap.Any("request", req.Ref()),
			zap.String("current", string(req.Status)),
			zap.String("requested", string(status)),
		)
		return false, nil
	}
	if err := o.CheckAdvance(*req, status); err != nil {
		return false, err
	}
	from := req.Status
	req.Status = status
	req.StatusChangedAt = s.clock.Now()
	if err := s.repo.UpdateRequest(ctx, *req); err != nil {
		return false, errors.Wrap(err, "repo.UpdateRequest")
	}
	if err := s.cascade(ctx, u, o, *req, from, req.Claims); err != nil {
		return false, err
	}
	if o.Notifies(status) {
		u.mail(*req)
	}
	s.log.Info("status advanced",
		zap.Any("request", req.Ref()),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)
	return true, nil
}

// cascade brings the holdings of claims to the holding status req's status maps to.
// from is the status req had custody under before the change.
func (s *Service) cascade(ctx context.Context, u *unit, o ClaimOwner, req model.Request, from model.Status, claims []model.Claim) error {
	lc := o.Lifecycle()
	target, ok := lc.HoldingTarget(req.Status)
	if !ok {
		return nil
	}
	ref := req.Ref()
	for _, c := range claims {
		if c.Completed {
			continue
		}
		if target == model.HoldingAvailable {
			if err := s.release(ctx, u, o, ref, from, c); err != nil {
				return err
			}
			continue
		}
		if !o.Holds(req.Status, c) {
			continue
		}
		if err := s.take(ctx, u, o, req, c, target); err != nil {
			return err
		}
	}
	return nil
}

// release completes claim c and, when c had custody under status, frees its holding.
func (s *Service) release(ctx context.Context, u *unit, o ClaimOwner, ref model.Ref, status model.Status, c model.Claim) error {
	custodian, err := s.custodian(ctx, o, ref, status, c)
	if err != nil {
		return err
	}
	c.Completed, c.OnHold = true, false
	if err := s.repo.UpdateClaim(ctx, ref.Kind, c); err != nil {
		return errors.Wrap(err, "repo.UpdateClaim")
	}
	if !custodian {
		return nil
	}
	return s.setStatus(ctx, u, c.HoldingID, model.HoldingAvailable, &ref)
}

// take moves the holding of c forward to target, or queues c on hold while another
// request keeps the holding.
func (s *Service) take(ctx context.Context, u *unit, o ClaimOwner, req model.Request, c model.Claim, target model.HoldingStatus) error {
	ref := req.Ref()
	h, err := s.repo.GetHoldingForUpdate(ctx, c.HoldingID)
	if err != nil {
		return err
	}
	all, err := s.candidates(ctx, c.HoldingID)
	if err != nil {
		return err
	}
	if busy := s.busy(others(all, ref), h.Status); len(busy) > 0 {
		if !c.OnHold {
			c.OnHold = true
			if err := s.repo.UpdateClaim(ctx, ref.Kind, c); err != nil {
				return errors.Wrap(err, "repo.UpdateClaim")
			}
			s.log.Info("claim queued",
				zap.Any("request", ref),
				zap.Int64("holding", c.HoldingID),
				zap.Any("custodian", busy[0].Request),
			)
		}
		return nil
	}
	if c.OnHold {
		return nil
	}
	if h.Status != model.HoldingAvailable && !o.Lifecycle().Behind(h.Status, target) {
		return nil
	}
	if err := s.setStatus(ctx, u, c.HoldingID, target, &ref); err != nil {
		return err
	}
	if target == model.HoldingReserved && !c.Printed && o.PrintsOnReserve(req, s.clock.Now()) {
		u.print(ref, c, false)
	}
	return nil
}

// custodian reports whether claim c of ref has its holding while ref is in status.
// A claim on hold only has it when nobody else is active on the holding or paused on it.
func (s *Service) custodian(ctx context.Context, o ClaimOwner, ref model.Ref, status model.Status, c model.Claim) (bool, error) {
	if !o.Holds(status, c) {
		return false, nil
	}
	if !c.OnHold {
		return true, nil
	}
	h, err := s.repo.GetHolding(ctx, c.HoldingID)
	if err != nil {
		return false, err
	}
	all, err := s.candidates(ctx, c.HoldingID)
	if err != nil {
		return false, err
	}
	return len(s.busy(others(all, ref), h.Status)) == 0, nil
}

// Delete releases the holdings a request still has and removes it.
func (s *Service) Delete(ctx context.Context, kind model.Kind, id int64) error {
	o, err := s.owner(kind)
	if err != nil {
		return err
	}
	return s.do(ctx, func(ctx context.Context, u *unit) error {
		req, err := s.repo.GetRequest(ctx, kind, id)
		if err != nil {
			return err
		}
		return s.delete(ctx, u, o, req)
	})
}

func (s *Service) delete(ctx context.Context, u *unit, o ClaimOwner, req model.Request) error {
	ref := req.Ref()
	var held []int64
	for _, c := range req.Claims {
		ok, err := s.custodian(ctx, o, ref, req.Status, c)
		if err != nil {
			return err
		}
		if ok {
			held = append(held, c.HoldingID)
		}
	}
	if err := s.repo.DeleteRequest(ctx, req.Kind, req.ID); err != nil {
		return errors.Wrap(err, "repo.DeleteRequest")
	}
	for _, hid := range held {
		if err := s.setStatus(ctx, u, hid, model.HoldingAvailable, &ref); err != nil {
			return err
		}
	}
	s.log.Info("request deleted", zap.Any("request", ref), zap.Int("released", len(held)))
	return nil
}

func dedupe(claims []model.Claim) []model.Claim {
	seen := make(map[int64]bool, len(claims))
	out := make([]model.Claim, 0, len(claims))
	for _, c := range claims {
		if seen[c.HoldingID] {
			continue
		}
		seen[c.HoldingID] = true
		out = append(out, c)
	}
	return out
}
