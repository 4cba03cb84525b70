package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

type claimKey struct {
	holdingID int64
	signature string
}

func keyOf(c model.Claim) claimKey {
	return claimKey{holdingID: c.HoldingID, signature: c.Signature}
}

// Edit reconciles a stored request with desired. Claims no longer wanted release their
// holdings, kept claims take the new field values without touching their holding, new
// claims pass the submission checks, and the status never moves backward. An empty
// claim set deletes the request.
func (s *Service) Edit(ctx context.Context, kind model.Kind, id int64, desired model.Request) (model.Request, error) {
	o, err := s.owner(kind)
	if err != nil {
		return model.Request{}, err
	}
	wanted := dedupe(desired.Claims)

	var out model.Request
	err = s.do(ctx, func(ctx context.Context, u *unit) error {
		cur, err := s.repo.GetRequest(ctx, kind, id)
		if err != nil {
			return err
		}
		if len(wanted) == 0 {
			return s.delete(ctx, u, o, cur)
		}
		ref := cur.Ref()

		for i := range wanted {
			h, err := s.repo.GetHolding(ctx, wanted[i].HoldingID)
			if err != nil {
				return err
			}
			wanted[i].Signature = h.Signature
		}
		keep := make(map[claimKey]bool, len(wanted))
		for _, c := range wanted {
			keep[keyOf(c)] = true
		}

		existing := make(map[claimKey]model.Claim, len(cur.Claims))
		for _, c := range cur.Claims {
			if keep[keyOf(c)] {
				existing[keyOf(c)] = c
				continue
			}
			if err := s.drop(ctx, u, o, cur, c); err != nil {
				return err
			}
		}

		var added []model.Claim
		for _, d := range wanted {
			if e, ok := existing[keyOf(d)]; ok {
				merged := mergeClaim(e, d)
				if merged != e {
					if err := s.repo.UpdateClaim(ctx, kind, merged); err != nil {
						return errors.Wrap(err, "repo.UpdateClaim")
					}
				}
				continue
			}
			if _, err := s.checkClaim(ctx, o, d.HoldingID, &ref); err != nil {
				return err
			}
			c := d
			c.ID, c.RequestID = 0, cur.ID
			c.Completed, c.OnHold, c.Printed = false, false, false
			if err := s.repo.AddClaim(ctx, kind, &c); err != nil {
				return errors.Wrap(err, "repo.AddClaim")
			}
			added = append(added, c)
		}

		next := mergeRequest(cur, desired)
		if next != nil {
			if err := s.repo.UpdateRequest(ctx, *next); err != nil {
				return errors.Wrap(err, "repo.UpdateRequest")
			}
		}

		req, err := s.repo.GetRequest(ctx, kind, id)
		if err != nil {
			return err
		}
		lc := o.Lifecycle()
		// preconditions apply only when the status moves; a claim added to an order
		// that is already under way is accepted and priced later.
		target := lc.Max(req.Status, lc.Max(desired.Status, o.Settle(req)))
		moved, err := s.advance(ctx, u, &req, target)
		if err != nil {
			return err
		}
		if !moved {
			if err := s.cascade(ctx, u, o, req, req.Status, added); err != nil {
				return err
			}
		}
		if err := s.reaggregate(ctx, u, ref); err != nil {
			return err
		}
		s.log.Info("request edited",
			zap.Any("request", ref),
			zap.Int("added", len(added)),
			zap.Int("kept", len(existing)),
			zap.Int("dropped", len(cur.Claims)-len(existing)),
		)
		out, err = s.repo.GetRequest(ctx, kind, id)
		return err
	})
	return out, err
}

// drop removes claim c from req, freeing the holding when c had custody. A claim still
// waiting on hold for someone else's holding leaves it alone.
func (s *Service) drop(ctx context.Context, u *unit, o ClaimOwner, req model.Request, c model.Claim) error {
	ref := req.Ref()
	custodian, err := s.custodian(ctx, o, ref, req.Status, c)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteClaim(ctx, req.Kind, c.ID); err != nil {
		return errors.Wrap(err, "repo.DeleteClaim")
	}
	if !custodian {
		return nil
	}
	return s.setStatus(ctx, u, c.HoldingID, model.HoldingAvailable, &ref)
}

func mergeClaim(cur, d model.Claim) model.Claim {
	out := cur
	out.Comment = d.Comment
	out.StandardOption = d.StandardOption
	out.CustomerText = d.CustomerText
	out.InSor = d.InSor
	out.Price = d.Price
	out.DeliveryTime = d.DeliveryTime
	if samePtr(cur.Price, d.Price) {
		out.Price = cur.Price
	}
	if samePtr(cur.DeliveryTime, d.DeliveryTime) {
		out.DeliveryTime = cur.DeliveryTime
	}
	return out
}

func samePtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// mergeRequest applies the editable request fields of d to cur, nil when nothing changes.
func mergeRequest(cur, d model.Request) *model.Request {
	next := cur
	changed := false
	set := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&next.Name, d.Name)
	set(&next.Email, d.Email)
	if next.Comment != d.Comment {
		next.Comment = d.Comment
		changed = true
	}
	if d.Reservation != nil && cur.Reservation != nil && !d.Reservation.Date.IsZero() &&
		!d.Reservation.Date.Equal(cur.Reservation.Date) {
		det := *cur.Reservation
		det.Date = d.Reservation.Date
		next.Reservation = &det
		changed = true
	}
	if d.Reproduction != nil && cur.Reproduction != nil &&
		d.Reproduction.AdministrationCosts != cur.Reproduction.AdministrationCosts {
		det := *cur.Reproduction
		det.AdministrationCosts = d.Reproduction.AdministrationCosts
		next.Reproduction = &det
		changed = true
	}
	if !changed {
		return nil
	}
	return &next
}
