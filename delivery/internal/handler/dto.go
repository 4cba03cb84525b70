package handler

import (
	"time"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

type ClaimInput struct {
	HoldingID      int64  `json:"holdingId" validate:"required,gt=0"`
	Comment        string `json:"comment"`
	StandardOption string `json:"standardOption"`
	Price          *int64 `json:"price" validate:"omitempty,gte=0"`
	DeliveryTime   *int   `json:"deliveryTime" validate:"omitempty,gte=0"`
	CustomerText   string `json:"customerText"`
	InSor          bool   `json:"inSor"`
}

// RequestInput is the body of both submit and edit. On edit an empty claim list
// deletes the request and Status is the lowest status the request should reach.
type RequestInput struct {
	Name    string       `json:"name" validate:"required"`
	Email   string       `json:"email" validate:"required,email"`
	Comment string       `json:"comment"`
	Status  model.Status `json:"status"`

	Date                *time.Time `json:"date"`
	AdministrationCosts int64      `json:"administrationCosts" validate:"gte=0"`

	Claims []ClaimInput `json:"claims" validate:"dive"`
}

func (in RequestInput) toModel(kind model.Kind) model.Request {
	req := model.Request{
		Kind:    kind,
		Status:  in.Status,
		Name:    in.Name,
		Email:   in.Email,
		Comment: in.Comment,
		Claims:  make([]model.Claim, 0, len(in.Claims)),
	}
	switch kind {
	case model.KindReservation:
		req.Reservation = &model.ReservationDetails{}
		if in.Date != nil {
			req.Reservation.Date = *in.Date
		}
	case model.KindReproduction:
		req.Reproduction = &model.ReproductionDetails{AdministrationCosts: in.AdministrationCosts}
	}
	for _, c := range in.Claims {
		req.Claims = append(req.Claims, model.Claim{
			HoldingID:      c.HoldingID,
			Comment:        c.Comment,
			StandardOption: c.StandardOption,
			Price:          c.Price,
			DeliveryTime:   c.DeliveryTime,
			CustomerText:   c.CustomerText,
			InSor:          c.InSor,
		})
	}
	return req
}

type StatusInput struct {
	Status model.Status `json:"status" validate:"required"`
}

type PaymentInput struct {
	OrderRef string `json:"orderRef"`
}

type PrintResponse struct {
	Queued int `json:"queued"`
}
