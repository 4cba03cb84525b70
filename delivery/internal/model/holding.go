package model

import "time"

type HoldingStatus string

const (
	HoldingAvailable HoldingStatus = "AVAILABLE"
	HoldingReserved  HoldingStatus = "RESERVED"
	HoldingInUse     HoldingStatus = "IN_USE"
	HoldingReturned  HoldingStatus = "RETURNED"
)

// Releases reports whether assigning s ends the custody of the current holder.
func (s HoldingStatus) Releases() bool {
	return s == HoldingAvailable || s == HoldingReturned
}

type Restriction string

const (
	RestrictionOpen   Restriction = "OPEN"
	RestrictionClosed Restriction = "CLOSED"
)

type Holding struct {
	ID               int64         `json:"id" db:"id"`
	RecordID         int64         `json:"recordId" db:"record_id"`
	Signature        string        `json:"signature" db:"signature"`
	Status           HoldingStatus `json:"status" db:"status"`
	UsageRestriction Restriction   `json:"usageRestriction" db:"usage_restriction"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`
}

type Record struct {
	ID          int64       `json:"id" db:"id"`
	PID         string      `json:"pid" db:"pid"`
	Title       string      `json:"title" db:"title"`
	Restriction Restriction `json:"restriction" db:"restriction"`
}
