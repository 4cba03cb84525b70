package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNoClaims          = errors.New("request has no holdings")
	ErrClosed            = errors.New("holding is closed for use")
	ErrInUse             = errors.New("holding is in use by another request")
	ErrAlreadyOnHold     = errors.New("holding is already on hold")
	ErrNoHold            = errors.New("holding is not on hold")
	ErrNotInUse          = errors.New("holding is not in use")
	ErrIncompleteDetails = errors.New("reproduction order details are incomplete")
	ErrOwnershipConflict = errors.New("holding is claimed by more than one active request")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrUnknownKind       = errors.New("unknown request kind")
	ErrDuplicateClaim    = errors.New("holding is already part of the request")
	ErrNotification      = errors.New("notification failed")
	ErrPrint             = errors.New("print failed")
)

var typed = []error{
	ErrNotFound, ErrNoClaims, ErrClosed, ErrInUse, ErrAlreadyOnHold, ErrNoHold,
	ErrNotInUse, ErrIncompleteDetails, ErrOwnershipConflict, ErrUnknownStatus,
	ErrUnknownKind, ErrDuplicateClaim, ErrNotification, ErrPrint,
}

// Typed reports whether err is one of the coordinator's own failures. Repeating the
// call that produced it gives the same answer.
func Typed(err error) bool {
	var he *HoldingError
	if errors.As(err, &he) {
		return true
	}
	for _, t := range typed {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// HoldingError ties a failure kind to the holding that caused it.
type HoldingError struct {
	Err       error
	HoldingID int64
	Signature string
}

func (e *HoldingError) Error() string {
	return fmt.Sprintf("%v: holding %d (%s)", e.Err, e.HoldingID, e.Signature)
}

func (e *HoldingError) Unwrap() error { return e.Err }

func Holding(err error, id int64, signature string) error {
	return &HoldingError{Err: err, HoldingID: id, Signature: signature}
}

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		HoldingID int64  `json:"holdingId,omitempty"`
		Signature string `json:"signature,omitempty"`
	} `json:"errors"`
}
