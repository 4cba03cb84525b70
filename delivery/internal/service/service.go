// Package service coordinates holdings and the requests competing for them.
//
// Every exported operation is one unit of work: it runs inside a single repository
// transaction and dispatches its mail and print side effects only after that
// transaction commits.
package service

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/clock"
	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/delivery/internal/repository"
	"github.com/Astemirdum/archive-delivery/pkg/worker"
)

// Notifier sends the mail belonging to a request's current status.
type Notifier interface {
	Notify(ctx context.Context, req model.Request) error
}

// Printer submits one print job for a claim.
type Printer interface {
	Print(ctx context.Context, ref model.Ref, claim model.Claim, force bool) error
}

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	clock clock.Clock

	owners []ClaimOwner

	notifier Notifier
	printer  Printer
	pool     *worker.Pool

	strict    bool
	conflicts atomic.Int64
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithStrictOwnership makes ownership conflicts fail with errs.ErrOwnershipConflict
// instead of resolving to the earliest request.
func WithStrictOwnership(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithPrinter(p Printer) Option {
	return func(s *Service) {
		s.printer = p
	}
}

// WithPool runs side effects on pool. Without a pool they run inline after commit.
func WithPool(p *worker.Pool) Option {
	return func(s *Service) {
		s.pool = p
	}
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:   log.Named("coordinator"),
		repo:  repo,
		clock: clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.owners = []ClaimOwner{
		newReservationOwner(repo),
		newReproductionOwner(repo),
	}
	return s
}

// Conflicts is the number of ownership conflicts seen since start.
func (s *Service) Conflicts() int64 {
	return s.conflicts.Load()
}

func (s *Service) owner(kind model.Kind) (ClaimOwner, error) {
	for _, o := range s.owners {
		if o.Kind() == kind {
			return o, nil
		}
	}
	return nil, errors.Wrapf(errs.ErrUnknownKind, "kind %q", kind)
}

// do runs fn as one unit of work and dispatches the collected effects after commit.
func (s *Service) do(ctx context.Context, fn func(ctx context.Context, u *unit) error) error {
	u := &unit{}
	if err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		return fn(ctx, u)
	}); err != nil {
		return err
	}
	s.dispatch(ctx, u)
	return nil
}

func (s *Service) Get(ctx context.Context, kind model.Kind, id int64) (model.Request, error) {
	if _, err := s.owner(kind); err != nil {
		return model.Request{}, err
	}
	return s.repo.GetRequest(ctx, kind, id)
}

func (s *Service) GetHolding(ctx context.Context, id int64) (model.Holding, error) {
	return s.repo.GetHolding(ctx, id)
}
