package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
)

// Sweep queries are read-only listings run outside any unit of work, so they go through
// the sqlx handle on the pool instead of the transactional pgx path.

func (r *repository) ListStale(ctx context.Context, kind model.Kind, statuses []model.Status, before time.Time) ([]int64, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	q, args, err := sqlx.In(fmt.Sprintf(`
	select id from %s
	where status in (?) and status_changed_at < ?
	order by id`, t.request), statusStrings(statuses), before)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := r.rdb.SelectContext(ctx, &ids, r.rdb.Rebind(q), args...); err != nil {
		r.log.Error("ListStale", zap.String("q", q), zap.Any("args", args))
		return nil, errors.Wrap(err, "list stale")
	}
	return ids, nil
}

func (r *repository) ListUnprinted(ctx context.Context, kind model.Kind, statuses []model.Status) ([]int64, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	q, args, err := sqlx.In(fmt.Sprintf(`
	select distinct r.id from %s r
	join %s c on c.%s = r.id
	where r.status in (?) and not c.printed and not c.completed
	order by r.id`, t.request, t.claim, t.fk), statusStrings(statuses))
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := r.rdb.SelectContext(ctx, &ids, r.rdb.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "list unprinted")
	}
	return ids, nil
}
