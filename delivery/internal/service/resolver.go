package service

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// candidates gathers the claims of every owner that may hold holdingID, best first:
// active before on hold, then earliest request, then owner order, then id.
func (s *Service) candidates(ctx context.Context, holdingID int64) ([]model.Candidate, error) {
	var all []model.Candidate
	order := make(map[model.Kind]int, len(s.owners))
	for i, o := range s.owners {
		order[o.Kind()] = i
		c, err := o.Candidates(ctx, holdingID)
		if err != nil {
			return nil, errors.Wrapf(err, "%s candidates", o.Kind())
		}
		all = append(all, c...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Claim.OnHold != b.Claim.OnHold {
			return !a.Claim.OnHold
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.Request.Kind != b.Request.Kind {
			return order[a.Request.Kind] < order[b.Request.Kind]
		}
		return a.Request.ID < b.Request.ID
	})
	return all, nil
}

// resolve picks the request owning holdingID under mode, nil when there is none.
func (s *Service) resolve(ctx context.Context, holdingID int64, mode model.Mode) (*model.Candidate, error) {
	all, err := s.candidates(ctx, holdingID)
	if err != nil {
		return nil, err
	}
	matched := filterMode(all, mode)
	if len(matched) == 0 {
		return nil, nil
	}
	if active := filterMode(matched, model.ModeOnlyNonOnHold); len(active) > 1 {
		s.conflicts.Add(1)
		refs := make([]model.Ref, len(active))
		for i, c := range active {
			refs[i] = c.Request
		}
		s.log.Warn("ownership conflict",
			zap.Int64("holding", holdingID),
			zap.Any("candidates", refs),
			zap.Any("chosen", active[0].Request),
			zap.Bool("strict", s.strict),
		)
		if s.strict {
			return nil, errs.Holding(errs.ErrOwnershipConflict, holdingID, active[0].Claim.Signature)
		}
	}
	return &matched[0], nil
}

func filterMode(all []model.Candidate, mode model.Mode) []model.Candidate {
	var out []model.Candidate
	for _, c := range all {
		if mode.Accepts(c.Claim.OnHold) {
			out = append(out, c)
		}
	}
	return out
}

// paused reports whether c is a custodian put on hold by staff rather than queued:
// its request keeps the holding at status, and status is IN_USE.
func (s *Service) paused(c model.Candidate, status model.HoldingStatus) bool {
	if !c.Claim.OnHold || status != model.HoldingInUse {
		return false
	}
	o, err := s.owner(c.Request.Kind)
	if err != nil {
		return false
	}
	target, ok := o.Lifecycle().HoldingTarget(c.Status)
	return ok && target == status
}

// busy returns the candidates keeping a holding at status: the active ones and any
// paused custodian.
func (s *Service) busy(all []model.Candidate, status model.HoldingStatus) []model.Candidate {
	var out []model.Candidate
	for _, c := range all {
		if !c.Claim.OnHold || s.paused(c, status) {
			out = append(out, c)
		}
	}
	return out
}

// others returns the candidates not belonging to any of the given requests.
func others(all []model.Candidate, refs ...model.Ref) []model.Candidate {
	var out []model.Candidate
next:
	for _, c := range all {
		for _, r := range refs {
			if c.Request == r {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

// GetActiveFor returns the request owning holdingID under mode.
func (s *Service) GetActiveFor(ctx context.Context, holdingID int64, mode model.Mode) (model.Candidate, error) {
	if _, err := s.repo.GetHolding(ctx, holdingID); err != nil {
		return model.Candidate{}, err
	}
	c, err := s.resolve(ctx, holdingID, mode)
	if err != nil {
		return model.Candidate{}, err
	}
	if c == nil {
		return model.Candidate{}, errors.Wrapf(errs.ErrNotFound, "owner of holding %d", holdingID)
	}
	return *c, nil
}

// ListActive lists every request with an open claim on holdingID under mode, best first.
func (s *Service) ListActive(ctx context.Context, holdingID int64, mode model.Mode) ([]model.Candidate, error) {
	if _, err := s.repo.GetHolding(ctx, holdingID); err != nil {
		return nil, err
	}
	all, err := s.candidates(ctx, holdingID)
	if err != nil {
		return nil, err
	}
	return filterMode(all, mode), nil
}
