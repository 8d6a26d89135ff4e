package testsupport

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewTestDB opens the test database or skips the test when it is not
// reachable. Integration tests also skip under -short.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=blackbox password=blackbox_dev dbname=blackbox_test sslmode=disable"
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// TruncateEvents clears the event table between tests
func TruncateEvents(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if _, err := db.Exec(`TRUNCATE economic_events RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate events: %v", err)
	}
}
