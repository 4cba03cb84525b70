package handler

import (
	"context"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/delivery/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type Coordinator interface {
	Submit(ctx context.Context, req model.Request) (model.Request, error)
	Edit(ctx context.Context, kind model.Kind, id int64, desired model.Request) (model.Request, error)
	AdvanceStatus(ctx context.Context, kind model.Kind, id int64, status model.Status) (model.Request, error)
	Delete(ctx context.Context, kind model.Kind, id int64) error
	Get(ctx context.Context, kind model.Kind, id int64) (model.Request, error)
	Print(ctx context.Context, kind model.Kind, id int64, force bool) (int, error)
	MarkPaid(ctx context.Context, id int64, orderRef string) (model.Request, error)

	GetHolding(ctx context.Context, id int64) (model.Holding, error)
	MarkItem(ctx context.Context, holdingID int64) (model.Holding, error)
	MarkItemOnHold(ctx context.Context, holdingID int64) (model.Candidate, error)
	MarkItemActive(ctx context.Context, holdingID int64) (model.Ref, error)
	GetActiveFor(ctx context.Context, holdingID int64, mode model.Mode) (model.Candidate, error)
	ListActive(ctx context.Context, holdingID int64, mode model.Mode) ([]model.Candidate, error)
}

var _ Coordinator = (*service.Service)(nil)
