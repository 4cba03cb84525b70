package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/errs"
	"github.com/Astemirdum/archive-delivery/delivery/internal/model"
	"github.com/Astemirdum/archive-delivery/delivery/internal/repository"
	"github.com/Astemirdum/archive-delivery/delivery/migrations"
	"github.com/Astemirdum/archive-delivery/pkg/postgres"
)

// testPool connects to TEST_DATABASE_URL and skips the test when it is unset or down.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("postgres unavailable: %v", err)
	}
	require.NoError(t, postgres.Migrate(pool, migrations.MigrationFiles))
	_, err = pool.Exec(context.Background(), `truncate holding_reservations, holding_reproductions,
		reservations, reproductions, holdings, records restart identity cascade`)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedPostgres(t *testing.T, pool *pgxpool.Pool, signatures ...string) []int64 {
	t.Helper()
	ctx := context.Background()
	var recID int64
	require.NoError(t, pool.QueryRow(ctx,
		`insert into records (pid, title) values ('pid-1', 'Minutes 1901') returning id`).Scan(&recID))
	ids := make([]int64, len(signatures))
	for i, sig := range signatures {
		require.NoError(t, pool.QueryRow(ctx,
			`insert into holdings (record_id, signature) values ($1, $2) returning id`, recID, sig).Scan(&ids[i]))
	}
	return ids
}

func TestPostgres_Repository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo, err := repository.NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	hs := seedPostgres(t, pool, "A-1", "A-2")

	req := &model.Request{
		Kind: model.KindReproduction, Status: model.StatusHasOrderDetails,
		CreatedAt: now, StatusChangedAt: now, Name: "n", Email: "e@x.org",
		Reproduction: &model.ReproductionDetails{AdministrationCosts: 500},
		Claims: []model.Claim{
			{HoldingID: hs[0], Price: ptr(int64(100)), DeliveryTime: ptr(2)},
			{HoldingID: hs[1], InSor: true},
		},
	}
	require.NoError(t, repo.CreateRequest(ctx, req))

	got, err := repo.GetRequest(ctx, model.KindReproduction, req.ID)
	require.NoError(t, err)
	require.Len(t, got.Claims, 2)
	require.Equal(t, "A-1", got.Claims[0].Signature)
	require.EqualValues(t, 100, *got.Claims[0].Price)
	require.True(t, got.Claims[1].InSor)

	got.Status = model.StatusActive
	require.NoError(t, repo.UpdateRequest(ctx, got))
	cands, err := repo.Candidates(ctx, model.KindReproduction, hs[0], []model.Status{model.StatusActive})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, req.ID, cands[0].Request.ID)

	dup := model.Claim{RequestID: req.ID, HoldingID: hs[0]}
	require.ErrorIs(t, repo.AddClaim(ctx, model.KindReproduction, &dup), errs.ErrDuplicateClaim)

	ids, err := repo.ListUnprinted(ctx, model.KindReproduction, []model.Status{model.StatusActive})
	require.NoError(t, err)
	require.Equal(t, []int64{req.ID}, ids)

	ids, err = repo.ListStale(ctx, model.KindReproduction, []model.Status{model.StatusActive}, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, []int64{req.ID}, ids)
}

func TestPostgres_WithTxRollsBack(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo, err := repository.NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	hs := seedPostgres(t, pool, "A-1")

	err = repo.WithTx(ctx, func(ctx context.Context) error {
		h, err := repo.GetHoldingForUpdate(ctx, hs[0])
		require.NoError(t, err)
		require.NoError(t, repo.SetHoldingStatus(ctx, h.ID, model.HoldingReserved, now))
		return errs.ErrInUse
	})
	require.ErrorIs(t, err, errs.ErrInUse)

	h, err := repo.GetHolding(ctx, hs[0])
	require.NoError(t, err)
	require.Equal(t, model.HoldingAvailable, h.Status)

	_, err = repo.GetHolding(ctx, 987654)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
