package model

import "time"

type Kind string

const (
	KindReservation  Kind = "RESERVATION"
	KindReproduction Kind = "REPRODUCTION"
)

type Request struct {
	ID              int64     `json:"id"`
	Kind            Kind      `json:"kind"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	StatusChangedAt time.Time `json:"statusChangedAt"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Comment         string    `json:"comment,omitempty"`
	Claims          []Claim   `json:"claims"`

	Reservation  *ReservationDetails  `json:"reservation,omitempty"`
	Reproduction *ReproductionDetails `json:"reproduction,omitempty"`
}

type ReservationDetails struct {
	Date    time.Time `json:"date"`
	Printed bool      `json:"printed"`
}

type ReproductionDetails struct {
	AdministrationCosts int64  `json:"administrationCosts"`
	Paid                bool   `json:"paid"`
	OrderRef            string `json:"orderRef,omitempty"`
}

// Claim links one request to one holding.
type Claim struct {
	ID        int64  `json:"id" db:"id"`
	RequestID int64  `json:"requestId" db:"request_id"`
	HoldingID int64  `json:"holdingId" db:"holding_id"`
	Signature string `json:"signature" db:"signature"`
	Completed bool   `json:"completed" db:"completed"`
	OnHold    bool   `json:"onHold" db:"on_hold"`
	Printed   bool   `json:"printed" db:"printed"`
	Comment   string `json:"comment,omitempty" db:"comment"`

	// Reproduction only.
	StandardOption string `json:"standardOption,omitempty" db:"standard_option"`
	Price          *int64 `json:"price,omitempty" db:"price"`
	DeliveryTime   *int   `json:"deliveryTime,omitempty" db:"delivery_time"`
	CustomerText   string `json:"customerText,omitempty" db:"customer_text"`
	InSor          bool   `json:"inSor" db:"in_sor"`
}

// HasOrderDetails reports whether the claim is priced and timed.
func (c Claim) HasOrderDetails() bool {
	return c.Price != nil && c.DeliveryTime != nil
}

// ClaimFor returns the claim on holdingID, if any.
func (r *Request) ClaimFor(holdingID int64) (*Claim, bool) {
	for i := range r.Claims {
		if r.Claims[i].HoldingID == holdingID {
			return &r.Claims[i], true
		}
	}
	return nil, false
}

// Ref identifies a request across kinds.
type Ref struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

func (r *Request) Ref() Ref {
	return Ref{Kind: r.Kind, ID: r.ID}
}

// Candidate is a claim that may own a holding, with enough of its request to rank it.
type Candidate struct {
	Request   Ref       `json:"request"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`
	Claim     Claim     `json:"claim"`
}

type Mode string

const (
	ModeAll           Mode = "ALL"
	ModeOnlyOnHold    Mode = "ONLY_ON_HOLD"
	ModeOnlyNonOnHold Mode = "ONLY_NON_ON_HOLD"
)

func (m Mode) Accepts(onHold bool) bool {
	switch m {
	case ModeOnlyOnHold:
		return onHold
	case ModeOnlyNonOnHold:
		return !onHold
	default:
		return true
	}
}
