package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/delivery/internal/repository"
)

type reproductionOwner struct {
	baseOwner
}

func newReproductionOwner(repo repository.Repository) *reproductionOwner {
	return &reproductionOwner{baseOwner{repo: repo, lc: model.Reproductions}}
}

// Candidates skips claims fulfilled from the digital repository; they never take the
// physical item.
func (o reproductionOwner) Candidates(ctx context.Context, holdingID int64) ([]model.Candidate, error) {
	all, err := o.baseOwner.Candidates(ctx, holdingID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, c := range all {
		if !c.Claim.InSor {
			out = append(out, c)
		}
	}
	return out, nil
}

func (reproductionOwner) Exclusive() bool { return false }

func (reproductionOwner) Settle(req model.Request) model.Status {
	if complete(req.Claims) {
		return model.StatusHasOrderDetails
	}
	return model.StatusWaitingForOrderDetails
}

func (o reproductionOwner) CheckAdvance(req model.Request, status model.Status) error {
	if status == model.StatusCancelled || o.lc.Rank(status) < o.lc.Rank(model.StatusHasOrderDetails) {
		return nil
	}
	for _, c := range req.Claims {
		if !c.HasOrderDetails() {
			return errs.Holding(errs.ErrIncompleteDetails, c.HoldingID, c.Signature)
		}
	}
	return nil
}

// Aggregate completes an active order once every physical item has come back.
func (o reproductionOwner) Aggregate(_ context.Context, req model.Request) (model.Status, error) {
	if req.Status != model.StatusActive || len(req.Claims) == 0 {
		return req.Status, nil
	}
	for _, c := range req.Claims {
		if !c.Completed && !c.InSor {
			return req.Status, nil
		}
	}
	return model.StatusCompleted, nil
}

func (o reproductionOwner) Holds(status model.Status, claim model.Claim) bool {
	return !claim.InSor && o.baseOwner.Holds(status, claim)
}

func (reproductionOwner) Notifies(status model.Status) bool {
	switch status {
	case model.StatusHasOrderDetails, model.StatusActive, model.StatusCompleted, model.StatusCancelled:
		return true
	}
	return false
}

func (reproductionOwner) PrintsOnReserve(model.Request, time.Time) bool { return true }

func complete(claims []model.Claim) bool {
	for _, c := range claims {
		if !c.HasOrderDetails() {
			return false
		}
	}
	return len(claims) > 0
}

// MarkPaid records a payment callback and moves the order to ACTIVE. Callbacks may
// arrive late or twice; an order already past ACTIVE is left alone.
func (s *Service) MarkPaid(ctx context.Context, id int64, orderRef string) (model.Request, error) {
	var out model.Request
	err := s.do(ctx, func(ctx context.Context, u *unit) error {
		req, err := s.repo.GetRequest(ctx, model.KindReproduction, id)
		if err != nil {
			return err
		}
		if req.Reproduction == nil {
			req.Reproduction = &model.ReproductionDetails{}
		}
		if !req.Reproduction.Paid || (orderRef != "" && req.Reproduction.OrderRef != orderRef) {
			req.Reproduction.Paid = true
			if orderRef != "" {
				req.Reproduction.OrderRef = orderRef
			}
			if err := s.repo.UpdateRequest(ctx, req); err != nil {
				return errors.Wrap(err, "repo.UpdateRequest")
			}
		}
		if _, err := s.advance(ctx, u, &req, model.StatusActive); err != nil {
			return err
		}
		out, err = s.repo.GetRequest(ctx, model.KindReproduction, id)
		return err
	})
	return out, err
}
