package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/pager/internal/repository"
	"github.com/maxviazov/pager/internal/repository/contract"
	"github.com/maxviazov/pager/pkg/pager"
)

var (
	pool     *pgxpool.Pool
	skippy   bool
	tableSeq atomic.Int64
)

func TestMain(m *testing.M) {
	if os.Getenv("CONTRACT_TESTS") != "1" {
		// allow skipping contract tests unless explicitly enabled
		skippy = true
		os.Exit(m.Run())
	}

	dsn := buildDSNFromEnv()
	if dsn == "" {
		fmt.Println("[contract] DATABASE_URL or APP_POSTGRES_* env not set; skipping")
		skippy = true
		os.Exit(m.Run())
	}

	var err error
	pool, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		fmt.Println("[contract] pgxpool new error:", err)
		os.Exit(1)
	}
	if err := pool.Ping(context.Background()); err != nil {
		fmt.Println("[contract] db ping error:", err)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func skipIfNeeded(t *testing.T) {
	t.Helper()
	if skippy {
		t.Skip("contract tests skipped; set CONTRACT_TESTS=1 and provide DB env")
	}
}

func buildDSNFromEnv() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	user := firstNonEmpty(os.Getenv("APP_POSTGRES_USER"), os.Getenv("POSTGRES_USER"))
	pass := firstNonEmpty(os.Getenv("APP_POSTGRES_PASSWORD"), os.Getenv("POSTGRES_PASSWORD"))
	host := firstNonEmpty(os.Getenv("APP_POSTGRES_HOST"), os.Getenv("POSTGRES_HOST"), "localhost")
	port := firstNonEmpty(os.Getenv("APP_POSTGRES_PORT"), os.Getenv("POSTGRES_PORT"), "5432")
	db := firstNonEmpty(os.Getenv("APP_POSTGRES_DB"), os.Getenv("POSTGRES_DB"))
	if user == "" || db == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, db)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// scratchTable creates a temp-named table with rows (seq, value) and drops it on cleanup.
func scratchTable(t *testing.T, items []string) string {
	t.Helper()
	ctx := context.Background()
	name := fmt.Sprintf("pager_contract_%d_%d", os.Getpid(), tableSeq.Add(1))
	stmts := []string{
		"DROP TABLE IF EXISTS " + name,
		"CREATE TABLE " + name + " (seq INT PRIMARY KEY, value TEXT NOT NULL)",
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			t.Fatalf("prepare table failed: %v", err)
		}
	}
	for i, it := range items {
		if _, err := pool.Exec(ctx, "INSERT INTO "+name+" (seq, value) VALUES ($1, $2)", i, it); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+name) })
	return name
}

func TestQueryAdapter_PostgresContract(t *testing.T) {
	contract.RunAdapterContract(t, func(t *testing.T, items []string) (pager.Adapter[string], func()) {
		skipIfNeeded(t)
		table := scratchTable(t, items)
		a, err := NewQueryAdapter[string](pool, "SELECT value FROM "+table+" ORDER BY seq;", pgx.RowTo[string])
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		return a, func() {}
	})
}

func TestQueryAdapter_BoundArgs(t *testing.T) {
	skipIfNeeded(t)
	table := scratchTable(t, []string{"a", "b", "c", "d", "e"})
	a, err := NewMapQueryAdapter(pool, "SELECT seq, value FROM "+table+" WHERE seq >= $1 ORDER BY seq", 2)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	ctx := context.Background()
	n, err := a.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 rows, got %d (err=%v)", n, err)
	}
	rows, err := a.Slice(ctx, 1, 5)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if len(rows) != 2 || rows[0]["value"] != "d" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestQueryAdapter_UnknownTable(t *testing.T) {
	skipIfNeeded(t)
	a, err := NewMapQueryAdapter(pool, "SELECT * FROM pager_no_such_table")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	_, err = a.Count(context.Background())
	if !errors.Is(err, repository.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestTxManager_SnapshotSharedByPager(t *testing.T) {
	skipIfNeeded(t)
	table := scratchTable(t, []string{"a", "b", "c"})
	a, err := NewQueryAdapter[string](pool, "SELECT value FROM "+table+" ORDER BY seq", pgx.RowTo[string])
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	var page pager.Page[string]
	err = NewTxManager(pool).WithinTx(context.Background(), func(ctx context.Context) error {
		p, err := pager.New[string](a, pager.WithMaxPerPage(2))
		if err != nil {
			return err
		}
		page, err = p.Export(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}
	if page.TotalResults != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestTxManager_ReadOnly(t *testing.T) {
	skipIfNeeded(t)
	table := scratchTable(t, nil)
	err := NewTxManager(pool).WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := getQ(ctx, pool).Exec(ctx, "INSERT INTO "+table+" (seq, value) VALUES (1, 'x')")
		return err
	})
	if !errors.Is(err, repository.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}
