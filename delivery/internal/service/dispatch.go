package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// unit collects the side effects of one unit of work. They are dispatched only once
// the transaction has committed, so a rolled back change never mails or prints.
type unit struct {
	mails  []model.Request
	prints []printJob
}

type printJob struct {
	ref   model.Ref
	claim model.Claim
	force bool
}

func (u *unit) mail(req model.Request) {
	for i, m := range u.mails {
		if m.Ref() == req.Ref() {
			if m.Status == req.Status {
				u.mails[i] = req
				return
			}
		}
	}
	u.mails = append(u.mails, req)
}

func (u *unit) print(ref model.Ref, claim model.Claim, force bool) {
	for i, p := range u.prints {
		if p.ref == ref && p.claim.ID == claim.ID {
			u.prints[i].force = p.force || force
			return
		}
	}
	u.prints = append(u.prints, printJob{ref: ref, claim: claim, force: force})
}

// dispatch hands the effects to the worker pool, or runs them inline without one.
// Delivery is at most once: failures are logged and never retried here.
func (s *Service) dispatch(ctx context.Context, u *unit) {
	for _, req := range u.mails {
		req := req
		s.submit(ctx, func(ctx context.Context) {
			if err := s.notify(ctx, req); err != nil {
				s.log.Warn("mail not sent", zap.Any("request", req.Ref()), zap.Error(err))
			}
		})
	}
	for _, job := range u.prints {
		job := job
		s.submit(ctx, func(ctx context.Context) {
			if err := s.printClaim(ctx, job); err != nil {
				s.log.Warn("print failed, claim stays unprinted",
					zap.Any("request", job.ref),
					zap.Int64("claim", job.claim.ID),
					zap.Error(err),
				)
			}
		})
	}
}

func (s *Service) submit(ctx context.Context, task func(ctx context.Context)) {
	if s.pool == nil {
		task(context.WithoutCancel(ctx))
		return
	}
	if !s.pool.Submit(task) {
		s.log.Warn("side effect dropped")
	}
}

func (s *Service) notify(ctx context.Context, req model.Request) error {
	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.Notify(ctx, req); err != nil {
		return errors.Wrap(errs.ErrNotification, err.Error())
	}
	return nil
}

func (s *Service) printClaim(ctx context.Context, job printJob) error {
	if s.printer == nil {
		return nil
	}
	if err := s.printer.Print(ctx, job.ref, job.claim, job.force); err != nil {
		return errs.Holding(errors.Wrap(errs.ErrPrint, err.Error()), job.claim.HoldingID, job.claim.Signature)
	}
	if err := s.repo.SetClaimPrinted(ctx, job.ref.Kind, job.claim.ID, true); err != nil {
		return errors.Wrap(err, "repo.SetClaimPrinted")
	}
	return nil
}
