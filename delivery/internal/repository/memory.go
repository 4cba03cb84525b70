package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// Memory is an arena-style store: holdings, requests and claims live in maps keyed by
// ID and claims point at both sides by ID only. A transaction holds the store lock for
// its whole duration and restores a snapshot when the callback fails.
type Memory struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	seq      int64
	records  map[int64]model.Record
	holdings map[int64]model.Holding
	requests map[model.Kind]map[int64]model.Request
	claims   map[model.Kind]map[int64]model.Claim
}

func NewMemory() *Memory {
	return &Memory{state: memState{
		records:  map[int64]model.Record{},
		holdings: map[int64]model.Holding{},
		requests: map[model.Kind]map[int64]model.Request{
			model.KindReservation:  {},
			model.KindReproduction: {},
		},
		claims: map[model.Kind]map[int64]model.Claim{
			model.KindReservation:  {},
			model.KindReproduction: {},
		},
	}}
}

var _ Repository = (*Memory)(nil)

func (s memState) clone() memState {
	out := memState{
		seq:      s.seq,
		records:  make(map[int64]model.Record, len(s.records)),
		holdings: make(map[int64]model.Holding, len(s.holdings)),
		requests: make(map[model.Kind]map[int64]model.Request, len(s.requests)),
		claims:   make(map[model.Kind]map[int64]model.Claim, len(s.claims)),
	}
	for k, v := range s.records {
		out.records[k] = v
	}
	for k, v := range s.holdings {
		out.holdings[k] = v
	}
	for kind, m := range s.requests {
		cp := make(map[int64]model.Request, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out.requests[kind] = cp
	}
	for kind, m := range s.claims {
		cp := make(map[int64]model.Claim, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out.claims[kind] = cp
	}
	return out
}

type memTxKey struct{}

func (m *Memory) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(memTxKey{}).(*Memory)
	return owner == m
}

// lock takes the store lock unless ctx already runs inside one of its transactions.
func (m *Memory) lock(ctx context.Context) func() {
	if m.inTx(ctx) {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Memory) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.inTx(ctx) {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, m)); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *Memory) nextID() int64 {
	m.state.seq++
	return m.state.seq
}

// AddRecord stores rec, assigning an ID when it has none.
func (m *Memory) AddRecord(rec model.Record) model.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == 0 {
		rec.ID = m.nextID()
	}
	if rec.Restriction == "" {
		rec.Restriction = model.RestrictionOpen
	}
	m.state.records[rec.ID] = rec
	return rec
}

// AddHolding stores h, assigning an ID when it has none.
func (m *Memory) AddHolding(h model.Holding) model.Holding {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.nextID()
	}
	if h.Status == "" {
		h.Status = model.HoldingAvailable
	}
	if h.UsageRestriction == "" {
		h.UsageRestriction = model.RestrictionOpen
	}
	m.state.holdings[h.ID] = h
	return h
}

func (m *Memory) GetRecord(ctx context.Context, id int64) (model.Record, error) {
	defer m.lock(ctx)()
	rec, ok := m.state.records[id]
	if !ok {
		return model.Record{}, errors.Wrapf(errs.ErrNotFound, "record %d", id)
	}
	return rec, nil
}

func (m *Memory) GetHolding(ctx context.Context, id int64) (model.Holding, error) {
	defer m.lock(ctx)()
	h, ok := m.state.holdings[id]
	if !ok {
		return model.Holding{}, errors.Wrapf(errs.ErrNotFound, "holding %d", id)
	}
	return h, nil
}

// GetHoldingForUpdate relies on the transaction lock, which already excludes every
// other writer.
func (m *Memory) GetHoldingForUpdate(ctx context.Context, id int64) (model.Holding, error) {
	return m.GetHolding(ctx, id)
}

func (m *Memory) SetHoldingStatus(ctx context.Context, id int64, status model.HoldingStatus, at time.Time) error {
	defer m.lock(ctx)()
	h, ok := m.state.holdings[id]
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "holding %d", id)
	}
	h.Status = status
	h.UpdatedAt = at
	m.state.holdings[id] = h
	return nil
}

func (m *Memory) requestsOf(kind model.Kind) (map[int64]model.Request, map[int64]model.Claim, error) {
	reqs, ok := m.state.requests[kind]
	if !ok {
		return nil, nil, errs.ErrUnknownKind
	}
	return reqs, m.state.claims[kind], nil
}

func (m *Memory) CreateRequest(ctx context.Context, req *model.Request) error {
	defer m.lock(ctx)()
	reqs, _, err := m.requestsOf(req.Kind)
	if err != nil {
		return err
	}
	snapshot := m.state.clone()
	req.ID = m.nextID()
	stored := *req
	stored.Claims = nil
	stored.Reservation, stored.Reproduction = copyDetails(req)
	reqs[req.ID] = stored
	for i := range req.Claims {
		req.Claims[i].RequestID = req.ID
		if err := m.addClaim(req.Kind, &req.Claims[i]); err != nil {
			m.state = snapshot
			return err
		}
	}
	return nil
}

func (m *Memory) GetRequest(ctx context.Context, kind model.Kind, id int64) (model.Request, error) {
	defer m.lock(ctx)()
	reqs, claims, err := m.requestsOf(kind)
	if err != nil {
		return model.Request{}, err
	}
	req, ok := reqs[id]
	if !ok {
		return model.Request{}, errors.Wrapf(errs.ErrNotFound, "%s %d", strings.ToLower(string(kind)), id)
	}
	req.Reservation, req.Reproduction = copyDetails(&req)
	req.Claims = nil
	for _, c := range claims {
		if c.RequestID == id {
			req.Claims = append(req.Claims, m.withSignature(c))
		}
	}
	sort.Slice(req.Claims, func(i, j int) bool { return req.Claims[i].ID < req.Claims[j].ID })
	return req, nil
}

func (m *Memory) withSignature(c model.Claim) model.Claim {
	if h, ok := m.state.holdings[c.HoldingID]; ok {
		c.Signature = h.Signature
	}
	return c
}

func (m *Memory) UpdateRequest(ctx context.Context, req model.Request) error {
	defer m.lock(ctx)()
	reqs, _, err := m.requestsOf(req.Kind)
	if err != nil {
		return err
	}
	if _, ok := reqs[req.ID]; !ok {
		return errors.Wrapf(errs.ErrNotFound, "%s %d", strings.ToLower(string(req.Kind)), req.ID)
	}
	req.Claims = nil
	req.Reservation, req.Reproduction = copyDetails(&req)
	reqs[req.ID] = req
	return nil
}

func (m *Memory) DeleteRequest(ctx context.Context, kind model.Kind, id int64) error {
	defer m.lock(ctx)()
	reqs, claims, err := m.requestsOf(kind)
	if err != nil {
		return err
	}
	delete(reqs, id)
	for cid, c := range claims {
		if c.RequestID == id {
			delete(claims, cid)
		}
	}
	return nil
}

func (m *Memory) AddClaim(ctx context.Context, kind model.Kind, claim *model.Claim) error {
	defer m.lock(ctx)()
	return m.addClaim(kind, claim)
}

func (m *Memory) addClaim(kind model.Kind, claim *model.Claim) error {
	reqs, claims, err := m.requestsOf(kind)
	if err != nil {
		return err
	}
	if _, ok := reqs[claim.RequestID]; !ok {
		return errors.Wrapf(errs.ErrNotFound, "%s %d", strings.ToLower(string(kind)), claim.RequestID)
	}
	if _, ok := m.state.holdings[claim.HoldingID]; !ok {
		return errors.Wrapf(errs.ErrNotFound, "holding %d", claim.HoldingID)
	}
	for _, c := range claims {
		if c.RequestID == claim.RequestID && c.HoldingID == claim.HoldingID {
			return errs.Holding(errs.ErrDuplicateClaim, claim.HoldingID, claim.Signature)
		}
	}
	claim.ID = m.nextID()
	stored := *claim
	stored.Signature = ""
	claims[claim.ID] = stored
	return nil
}

func (m *Memory) UpdateClaim(ctx context.Context, kind model.Kind, claim model.Claim) error {
	defer m.lock(ctx)()
	_, claims, err := m.requestsOf(kind)
	if err != nil {
		return err
	}
	old, ok := claims[claim.ID]
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "claim %d", claim.ID)
	}
	claim.RequestID = old.RequestID
	claim.HoldingID = old.HoldingID
	claim.Signature = ""
	claims[claim.ID] = claim
	return nil
}

func (m *Memory) DeleteClaim(ctx context.Context, kind model.Kind, id int64) error {
	defer m.lock(ctx)()
	_, claims, err := m.requestsOf(kind)
	if err != nil {
		return err
	}
	delete(claims, id)
	return nil
}

func (m *Memory) SetClaimPrinted(ctx context.Context, kind model.Kind, id int64, printed bool) error {
	defer m.lock(ctx)()
	_, claims, err := m.requestsOf(kind)
	if err != nil {
		return err
	}
	c, ok := claims[id]
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "claim %d", id)
	}
	c.Printed = printed
	claims[id] = c
	return nil
}

func (m *Memory) Candidates(ctx context.Context, kind model.Kind, holdingID int64, statuses []model.Status) ([]model.Candidate, error) {
	defer m.lock(ctx)()
	reqs, claims, err := m.requestsOf(kind)
	if err != nil {
		return nil, err
	}
	var out []model.Candidate
	for _, c := range claims {
		if c.HoldingID != holdingID || c.Completed {
			continue
		}
		req := reqs[c.RequestID]
		if !hasStatus(statuses, req.Status) {
			continue
		}
		out = append(out, model.Candidate{
			Request:   model.Ref{Kind: kind, ID: req.ID},
			CreatedAt: req.CreatedAt,
			Status:    req.Status,
			Claim:     m.withSignature(c),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Request.ID < out[j].Request.ID
	})
	return out, nil
}

func (m *Memory) RequestsWithHolding(ctx context.Context, kind model.Kind, holdingID int64) ([]int64, error) {
	defer m.lock(ctx)()
	_, claims, err := m.requestsOf(kind)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{}
	var ids []int64
	for _, c := range claims {
		if c.HoldingID == holdingID && !c.Completed && !seen[c.RequestID] {
			seen[c.RequestID] = true
			ids = append(ids, c.RequestID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *Memory) ListStale(ctx context.Context, kind model.Kind, statuses []model.Status, before time.Time) ([]int64, error) {
	defer m.lock(ctx)()
	reqs, _, err := m.requestsOf(kind)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for id, req := range reqs {
		if hasStatus(statuses, req.Status) && req.StatusChangedAt.Before(before) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *Memory) ListUnprinted(ctx context.Context, kind model.Kind, statuses []model.Status) ([]int64, error) {
	defer m.lock(ctx)()
	reqs, claims, err := m.requestsOf(kind)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{}
	var ids []int64
	for _, c := range claims {
		if c.Printed || c.Completed || seen[c.RequestID] {
			continue
		}
		if hasStatus(statuses, reqs[c.RequestID].Status) {
			seen[c.RequestID] = true
			ids = append(ids, c.RequestID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func hasStatus(statuses []model.Status, s model.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func copyDetails(req *model.Request) (*model.ReservationDetails, *model.ReproductionDetails) {
	var (
		res *model.ReservationDetails
		rep *model.ReproductionDetails
	)
	if req.Reservation != nil {
		d := *req.Reservation
		res = &d
	}
	if req.Reproduction != nil {
		d := *req.Reproduction
		rep = &d
	}
	return res, rep
}
