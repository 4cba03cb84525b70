package model

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"

	StatusWaitingForOrderDetails Status = "WAITING_FOR_ORDER_DETAILS"
	StatusHasOrderDetails        Status = "HAS_ORDER_DETAILS"
	StatusConfirmed              Status = "CONFIRMED"
	StatusDelivered              Status = "DELIVERED"
	StatusCancelled              Status = "CANCELLED"
)

// Lifecycle is the fixed, forward-only status order of one request kind together with
// the holding status its custodial claims carry in each request status.
type Lifecycle struct {
	kind    Kind
	order   []Status
	holding map[Status]HoldingStatus
	cycle   map[HoldingStatus]HoldingStatus
	resume  HoldingStatus
}

var (
	Reservations = &Lifecycle{
		kind:  KindReservation,
		order: []Status{StatusPending, StatusActive, StatusCompleted},
		holding: map[Status]HoldingStatus{
			StatusPending:   HoldingReserved,
			StatusActive:    HoldingInUse,
			StatusCompleted: HoldingAvailable,
		},
		cycle: map[HoldingStatus]HoldingStatus{
			HoldingAvailable: HoldingReserved,
			HoldingReserved:  HoldingInUse,
			HoldingInUse:     HoldingReturned,
			HoldingReturned:  HoldingAvailable,
		},
		resume: HoldingInUse,
	}

	// Reproduction material never leaves the building, so its cycle skips IN_USE and RETURNED.
	Reproductions = &Lifecycle{
		kind: KindReproduction,
		order: []Status{
			StatusWaitingForOrderDetails,
			StatusHasOrderDetails,
			StatusConfirmed,
			StatusActive,
			StatusCompleted,
			StatusDelivered,
			StatusCancelled,
		},
		holding: map[Status]HoldingStatus{
			StatusActive:    HoldingReserved,
			StatusCompleted: HoldingAvailable,
			StatusDelivered: HoldingAvailable,
			StatusCancelled: HoldingAvailable,
		},
		cycle: map[HoldingStatus]HoldingStatus{
			HoldingAvailable: HoldingReserved,
			HoldingReserved:  HoldingAvailable,
			HoldingInUse:     HoldingAvailable,
			HoldingReturned:  HoldingAvailable,
		},
		resume: HoldingReserved,
	}
)

func LifecycleOf(kind Kind) (*Lifecycle, bool) {
	switch kind {
	case KindReservation:
		return Reservations, true
	case KindReproduction:
		return Reproductions, true
	default:
		return nil, false
	}
}

func (l *Lifecycle) Kind() Kind { return l.kind }

func (l *Lifecycle) Initial() Status { return l.order[0] }

func (l *Lifecycle) Statuses() []Status {
	return append([]Status(nil), l.order...)
}

// Rank is the position of s in the lifecycle, -1 when s does not belong to it.
func (l *Lifecycle) Rank(s Status) int {
	for i, st := range l.order {
		if st == s {
			return i
		}
	}
	return -1
}

func (l *Lifecycle) Known(s Status) bool { return l.Rank(s) >= 0 }

// Advances reports whether moving from -> to is forward progress.
func (l *Lifecycle) Advances(from, to Status) bool {
	return l.Known(to) && l.Rank(to) > l.Rank(from)
}

// Max returns the further advanced of a and b.
func (l *Lifecycle) Max(a, b Status) Status {
	if l.Rank(b) > l.Rank(a) {
		return b
	}
	return a
}

// HoldingTarget is the holding status active claims carry in s; ok is false when s
// leaves holdings untouched.
func (l *Lifecycle) HoldingTarget(s Status) (HoldingStatus, bool) {
	h, ok := l.holding[s]
	return h, ok
}

// Custodial reports whether requests in s keep their holdings out of the stacks.
func (l *Lifecycle) Custodial(s Status) bool {
	h, ok := l.holding[s]
	return ok && h != HoldingAvailable
}

// Released reports whether s is a terminal status whose holdings are already back.
func (l *Lifecycle) Released(s Status) bool {
	h, ok := l.holding[s]
	return ok && h == HoldingAvailable
}

// Next is the status a scan moves a holding to under this kind.
func (l *Lifecycle) Next(h HoldingStatus) HoldingStatus {
	if n, ok := l.cycle[h]; ok {
		return n
	}
	return HoldingAvailable
}

// Resume is the holding status restored when a held claim becomes active again.
func (l *Lifecycle) Resume() HoldingStatus { return l.resume }

// Behind reports whether a holding at cur has yet to reach target along this kind's cycle.
// Statuses outside the cycle count as behind.
func (l *Lifecycle) Behind(cur, target HoldingStatus) bool {
	pos := make(map[HoldingStatus]int, len(l.cycle))
	h := HoldingAvailable
	for i := 0; ; i++ {
		if _, seen := pos[h]; seen {
			break
		}
		pos[h] = i
		h = l.Next(h)
	}
	c, ok := pos[cur]
	if !ok {
		return true
	}
	return c < pos[target]
}
