package history_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/locations/migrations"
	"github.com/manzanit0/locations/pkg/history"
)

// newTestDB connects to TEST_DATABASE_URL, migrates it and empties the
// searches table. The tests are skipped when it isn't set.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, migrations.Up(ctx, db))

	_, err = db.ExecContext(ctx, `TRUNCATE searches RESTART IDENTITY`)
	require.NoError(t, err)

	return db
}

func TestRecord(t *testing.T) {
	db := newTestDB(t)
	repo := history.NewPgRepository(db)
	ctx := context.Background()

	testCases := []struct {
		desc  string
		entry history.Entry
	}{
		{
			desc:  "when the entry has a trace id, it is stored",
			entry: history.Entry{TraceID: "2Mxm5NbGkaNmtvZ0Pq4jBkQjK1x", Query: "berlin", Limit: 3, ResultCount: 2},
		},
		{
			desc:  "when the entry has no trace id, null is stored",
			entry: history.Entry{Query: "", Limit: 5, Failed: true},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			require.NoError(t, repo.Record(ctx, tC.entry))

			var row struct {
				TraceID     sql.NullString `db:"trace_id"`
				Query       string         `db:"query"`
				Limit       int            `db:"search_limit"`
				ResultCount int            `db:"result_count"`
				Failed      bool           `db:"failed"`
			}
			err := sqlx.NewDb(db, "postgres").GetContext(ctx, &row,
				`SELECT trace_id, query, search_limit, result_count, failed FROM searches ORDER BY id DESC LIMIT 1`)
			require.NoError(t, err)

			assert.Equal(t, tC.entry.TraceID != "", row.TraceID.Valid)
			assert.Equal(t, tC.entry.TraceID, row.TraceID.String)
			assert.Equal(t, tC.entry.Query, row.Query)
			assert.Equal(t, tC.entry.Limit, row.Limit)
			assert.Equal(t, tC.entry.ResultCount, row.ResultCount)
			assert.Equal(t, tC.entry.Failed, row.Failed)
		})
	}
}

func TestListRecent(t *testing.T) {
	db := newTestDB(t)
	repo := history.NewPgRepository(db)
	ctx := context.Background()

	for _, q := range []string{"berlin", "madrid", "lisbon"} {
		require.NoError(t, repo.Record(ctx, history.Entry{Query: q, Limit: 5, ResultCount: 1}))
	}

	testCases := []struct {
		desc string
		n    int
		want []string
	}{
		{desc: "when n is smaller than the history, the newest n are returned", n: 2, want: []string{"lisbon", "madrid"}},
		{desc: "when n exceeds the history, everything is returned newest first", n: 10, want: []string{"lisbon", "madrid", "berlin"}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			entries, err := repo.ListRecent(ctx, tC.n)
			require.NoError(t, err)

			got := make([]string, len(entries))
			for i, e := range entries {
				got[i] = e.Query
				assert.Equal(t, 5, e.Limit)
				assert.Equal(t, 1, e.ResultCount)
				assert.NotZero(t, e.ID)
				assert.False(t, e.CreatedAt.IsZero())
			}

			assert.Equal(t, tC.want, got)
		})
	}
}

func TestListRecentEmpty(t *testing.T) {
	db := newTestDB(t)

	entries, err := history.NewPgRepository(db).ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
