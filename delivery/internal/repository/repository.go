package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// Repository persists holdings, requests and claims. Every call made with the context
// handed to a WithTx callback belongs to that transaction, which commits only when the
// callback returns nil.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetRecord(ctx context.Context, id int64) (model.Record, error)
	GetHolding(ctx context.Context, id int64) (model.Holding, error)
	// GetHoldingForUpdate locks the holding until the surrounding transaction ends.
	GetHoldingForUpdate(ctx context.Context, id int64) (model.Holding, error)
	SetHoldingStatus(ctx context.Context, id int64, status model.HoldingStatus, at time.Time) error

	CreateRequest(ctx context.Context, req *model.Request) error
	GetRequest(ctx context.Context, kind model.Kind, id int64) (model.Request, error)
	UpdateRequest(ctx context.Context, req model.Request) error
	DeleteRequest(ctx context.Context, kind model.Kind, id int64) error

	AddClaim(ctx context.Context, kind model.Kind, claim *model.Claim) error
	UpdateClaim(ctx context.Context, kind model.Kind, claim model.Claim) error
	DeleteClaim(ctx context.Context, kind model.Kind, id int64) error
	SetClaimPrinted(ctx context.Context, kind model.Kind, id int64, printed bool) error

	// Candidates lists non-completed claims on holdingID whose request is in one of statuses.
	Candidates(ctx context.Context, kind model.Kind, holdingID int64, statuses []model.Status) ([]model.Candidate, error)
	// RequestsWithHolding lists requests holding a non-completed claim on holdingID.
	RequestsWithHolding(ctx context.Context, kind model.Kind, holdingID int64) ([]int64, error)

	// ListStale lists requests in one of statuses whose status has not changed since before.
	ListStale(ctx context.Context, kind model.Kind, statuses []model.Status, before time.Time) ([]int64, error)
	// ListUnprinted lists requests in one of statuses with unprinted, non-completed claims.
	ListUnprinted(ctx context.Context, kind model.Kind, statuses []model.Status) ([]int64, error)
}

type tables struct {
	request string
	claim   string
	fk      string
}

func tablesFor(kind model.Kind) (tables, error) {
	switch kind {
	case model.KindReservation:
		return tables{request: "reservations", claim: "holding_reservations", fk: "reservation_id"}, nil
	case model.KindReproduction:
		return tables{request: "reproductions", claim: "holding_reproductions", fk: "reproduction_id"}, nil
	default:
		return tables{}, errs.ErrUnknownKind
	}
}

func statusStrings(statuses []model.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
