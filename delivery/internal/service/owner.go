package service

import (
	"context"
	"time"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/delivery/internal/repository"
)

// ClaimOwner is what the coordinator needs from one request kind. The resolver and
// the holding state machine iterate over the registered owners instead of switching
// on kind.
type ClaimOwner interface {
	Kind() model.Kind
	Lifecycle() *model.Lifecycle

	// Candidates lists the claims of this kind that may currently own holdingID.
	Candidates(ctx context.Context, holdingID int64) ([]model.Candidate, error)
	// Affected lists requests of this kind with an open claim on holdingID.
	Affected(ctx context.Context, holdingID int64) ([]int64, error)

	// Exclusive reports whether new claims require a free holding.
	Exclusive() bool
	// Settle is the least status a request with these claims can be in.
	Settle(req model.Request) model.Status
	// CheckAdvance rejects moving req to status when the kind's preconditions fail.
	CheckAdvance(req model.Request, status model.Status) error
	// Aggregate derives the request status from the state of its claims.
	Aggregate(ctx context.Context, req model.Request) (model.Status, error)
	// Holds reports whether claim has its holding in custody while its request is in
	// status.
	Holds(status model.Status, claim model.Claim) bool

	Notifies(status model.Status) bool
	PrintsOnReserve(req model.Request, now time.Time) bool
}

type baseOwner struct {
	repo repository.Repository
	lc   *model.Lifecycle
}

func (o baseOwner) Kind() model.Kind { return o.lc.Kind() }

func (o baseOwner) Lifecycle() *model.Lifecycle { return o.lc }

func (o baseOwner) Candidates(ctx context.Context, holdingID int64) ([]model.Candidate, error) {
	return o.repo.Candidates(ctx, o.Kind(), holdingID, custodialStatuses(o.lc))
}

func (o baseOwner) Affected(ctx context.Context, holdingID int64) ([]int64, error) {
	return o.repo.RequestsWithHolding(ctx, o.Kind(), holdingID)
}

func (o baseOwner) Holds(status model.Status, claim model.Claim) bool {
	return !claim.Completed && o.lc.Custodial(status)
}
