package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

type repository struct {
	db  *pgxpool.Pool
	rdb *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		rdb: sqlx.NewDb(stdlib.OpenDB(*db.Config().ConnConfig), "pgx"),
		log: log.Named("repo"),
	}, nil
}

var _ Repository = (*repository)(nil)

const (
	recordTableName  = `records`
	holdingTableName = `holdings`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type txKey struct{}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.Error("rollback", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit(ctx)
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *repository) conn(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *repository) GetRecord(ctx context.Context, id int64) (model.Record, error) {
	query, args, err := qb.Select("id", "pid", "title", "restriction").
		From(recordTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Record{}, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return model.Record{}, err
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Record])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Record{}, errors.Wrapf(errs.ErrNotFound, "record %d", id)
		}
		return model.Record{}, errors.Wrap(err, "get record")
	}
	return rec, nil
}

func (r *repository) GetHolding(ctx context.Context, id int64) (model.Holding, error) {
	return r.getHolding(ctx, id, false)
}

func (r *repository) GetHoldingForUpdate(ctx context.Context, id int64) (model.Holding, error) {
	return r.getHolding(ctx, id, true)
}

func (r *repository) getHolding(ctx context.Context, id int64, forUpdate bool) (model.Holding, error) {
	q := qb.Select("id", "record_id", "signature", "status", "usage_restriction", "updated_at").
		From(holdingTableName).
		Where(sq.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.Holding{}, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return model.Holding{}, err
	}
	h, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Holding])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Holding{}, errors.Wrapf(errs.ErrNotFound, "holding %d", id)
		}
		return model.Holding{}, errors.Wrap(err, "get holding")
	}
	return h, nil
}

func (r *repository) SetHoldingStatus(ctx context.Context, id int64, status model.HoldingStatus, at time.Time) error {
	query, args, err := qb.Update(holdingTableName).
		Set("status", string(status)).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "set holding status")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.ErrNotFound, "holding %d", id)
	}
	return nil
}

func (r *repository) CreateRequest(ctx context.Context, req *model.Request) error {
	t, err := tablesFor(req.Kind)
	if err != nil {
		return err
	}
	cols := []string{"status", "created_at", "status_changed_at", "name", "email", "comment"}
	vals := []any{string(req.Status), req.CreatedAt, req.StatusChangedAt, req.Name, req.Email, req.Comment}
	switch req.Kind {
	case model.KindReservation:
		d := reservationDetails(req)
		cols = append(cols, "date", "printed")
		vals = append(vals, d.Date, d.Printed)
	case model.KindReproduction:
		d := reproductionDetails(req)
		cols = append(cols, "administration_costs", "paid", "order_ref")
		vals = append(vals, d.AdministrationCosts, d.Paid, d.OrderRef)
	}
	query, args, err := qb.Insert(t.request).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	return r.WithTx(ctx, func(ctx context.Context) error {
		if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&req.ID); err != nil {
			r.log.Error("CreateRequest", zap.String("q", query), zap.Any("args", args))
			return errors.Wrap(err, "insert request")
		}
		for i := range req.Claims {
			req.Claims[i].RequestID = req.ID
			if err := r.AddClaim(ctx, req.Kind, &req.Claims[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) GetRequest(ctx context.Context, kind model.Kind, id int64) (model.Request, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return model.Request{}, err
	}
	cols := []string{"id", "status", "created_at", "status_changed_at", "name", "email", "comment"}
	req := model.Request{Kind: kind}
	dest := []any{&req.ID, &req.Status, &req.CreatedAt, &req.StatusChangedAt, &req.Name, &req.Email, &req.Comment}
	switch kind {
	case model.KindReservation:
		req.Reservation = &model.ReservationDetails{}
		cols = append(cols, "date", "printed")
		dest = append(dest, &req.Reservation.Date, &req.Reservation.Printed)
	case model.KindReproduction:
		req.Reproduction = &model.ReproductionDetails{}
		cols = append(cols, "administration_costs", "paid", "order_ref")
		dest = append(dest, &req.Reproduction.AdministrationCosts, &req.Reproduction.Paid, &req.Reproduction.OrderRef)
	}
	query, args, err := qb.Select(cols...).
		From(t.request).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Request{}, err
	}
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Request{}, errors.Wrapf(errs.ErrNotFound, "%s %d", strings.ToLower(string(kind)), id)
		}
		return model.Request{}, errors.Wrap(err, "get request")
	}

	query, args, err = qb.Select(claimColumns(kind, t)...).
		From(t.claim + " c").
		Join(holdingTableName + " h on h.id = c.holding_id").
		Where(sq.Eq{"c." + t.fk: id}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return model.Request{}, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return model.Request{}, err
	}
	claims, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Claim])
	if err != nil {
		return model.Request{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	req.Claims = claims
	return req, nil
}

func claimColumns(kind model.Kind, t tables) []string {
	cols := []string{
		"c.id", "c." + t.fk + " as request_id", "c.holding_id", "h.signature",
		"c.completed", "c.on_hold", "c.printed", "c.comment",
	}
	if kind == model.KindReproduction {
		return append(cols, "c.standard_option", "c.price", "c.delivery_time", "c.customer_text", "c.in_sor")
	}
	return append(cols,
		"'' as standard_option", "null::bigint as price", "null::int as delivery_time",
		"'' as customer_text", "false as in_sor")
}

func (r *repository) UpdateRequest(ctx context.Context, req model.Request) error {
	t, err := tablesFor(req.Kind)
	if err != nil {
		return err
	}
	q := qb.Update(t.request).
		Set("status", string(req.Status)).
		Set("status_changed_at", req.StatusChangedAt).
		Set("name", req.Name).
		Set("email", req.Email).
		Set("comment", req.Comment).
		Where(sq.Eq{"id": req.ID})
	switch req.Kind {
	case model.KindReservation:
		d := reservationDetails(&req)
		q = q.Set("date", d.Date).Set("printed", d.Printed)
	case model.KindReproduction:
		d := reproductionDetails(&req)
		q = q.Set("administration_costs", d.AdministrationCosts).
			Set("paid", d.Paid).
			Set("order_ref", d.OrderRef)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update request")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.ErrNotFound, "%s %d", strings.ToLower(string(req.Kind)), req.ID)
	}
	return nil
}

func (r *repository) DeleteRequest(ctx context.Context, kind model.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	query, args, err := qb.Delete(t.request).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "delete request")
	}
	return nil
}

func (r *repository) AddClaim(ctx context.Context, kind model.Kind, claim *model.Claim) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	cols := []string{t.fk, "holding_id", "completed", "on_hold", "printed", "comment"}
	vals := []any{claim.RequestID, claim.HoldingID, claim.Completed, claim.OnHold, claim.Printed, claim.Comment}
	if kind == model.KindReproduction {
		cols = append(cols, "standard_option", "price", "delivery_time", "customer_text", "in_sor")
		vals = append(vals, claim.StandardOption, claim.Price, claim.DeliveryTime, claim.CustomerText, claim.InSor)
	}
	query, args, err := qb.Insert(t.claim).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&claim.ID); err != nil {
		if isUniqueViolation(err) {
			return errs.Holding(errs.ErrDuplicateClaim, claim.HoldingID, claim.Signature)
		}
		return errors.Wrap(err, "insert claim")
	}
	return nil
}

func (r *repository) UpdateClaim(ctx context.Context, kind model.Kind, claim model.Claim) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	q := qb.Update(t.claim).
		Set("completed", claim.Completed).
		Set("on_hold", claim.OnHold).
		Set("printed", claim.Printed).
		Set("comment", claim.Comment).
		Where(sq.Eq{"id": claim.ID})
	if kind == model.KindReproduction {
		q = q.Set("standard_option", claim.StandardOption).
			Set("price", claim.Price).
			Set("delivery_time", claim.DeliveryTime).
			Set("customer_text", claim.CustomerText).
			Set("in_sor", claim.InSor)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "update claim")
	}
	return nil
}

func (r *repository) DeleteClaim(ctx context.Context, kind model.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	query, args, err := qb.Delete(t.claim).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "delete claim")
	}
	return nil
}

func (r *repository) SetClaimPrinted(ctx context.Context, kind model.Kind, id int64, printed bool) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	query, args, err := qb.Update(t.claim).Set("printed", printed).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.conn(ctx).Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "set claim printed")
	}
	return nil
}

func (r *repository) Candidates(ctx context.Context, kind model.Kind, holdingID int64, statuses []model.Status) ([]model.Candidate, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	cols := append([]string{"r.created_at", "r.status"}, claimColumns(kind, t)...)
	query, args, err := qb.Select(cols...).
		From(t.claim + " c").
		Join(t.request + " r on r.id = c." + t.fk).
		Join(holdingTableName + " h on h.id = c.holding_id").
		Where(sq.Eq{"c.holding_id": holdingID}).
		Where(sq.Eq{"c.completed": false}).
		Where(sq.Eq{"r.status": statusStrings(statuses)}).
		OrderBy("r.created_at", "r.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var (
			c  model.Candidate
			cl = &c.Claim
		)
		if err := rows.Scan(&c.CreatedAt, &c.Status,
			&cl.ID, &cl.RequestID, &cl.HoldingID, &cl.Signature,
			&cl.Completed, &cl.OnHold, &cl.Printed, &cl.Comment,
			&cl.StandardOption, &cl.Price, &cl.DeliveryTime, &cl.CustomerText, &cl.InSor,
		); err != nil {
			return nil, errors.Wrap(err, "scan candidate")
		}
		c.Request = model.Ref{Kind: kind, ID: cl.RequestID}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) RequestsWithHolding(ctx context.Context, kind model.Kind, holdingID int64) ([]int64, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.Select(t.fk).
		Distinct().
		From(t.claim).
		Where(sq.Eq{"holding_id": holdingID, "completed": false}).
		OrderBy(t.fk).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return ids, nil
}

func reservationDetails(req *model.Request) model.ReservationDetails {
	if req.Reservation == nil {
		return model.ReservationDetails{}
	}
	return *req.Reservation
}

func reproductionDetails(req *model.Request) model.ReproductionDetails {
	if req.Reproduction == nil {
		return model.ReproductionDetails{}
	}
	return *req.Reproduction
}
