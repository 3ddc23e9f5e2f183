package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *Connection {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attempts.db")
	db, err := New(path)
	if err != nil {
		t.Fatalf("Failed to initialise database connection to file %q: %s", path, err.Error())
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitEmpty(t *testing.T) {
	db := newTestDB(t)

	attempts, err := db.RecentAttempts(0)
	if err != nil {
		t.Fatalf("Failed to retrieve all attempts from empty db: %s", err.Error())
	}
	if attempts == nil {
		t.Fatal("Attempt listing returned nil instead of empty slice")
	}
	if len(attempts) != 0 {
		t.Fatalf("Attempt listing returned %d entries; should be 0", len(attempts))
	}
}

func TestNewBadPath(t *testing.T) {
	dir := t.TempDir()
	// a directory can't be opened as a database file
	if _, err := New(dir); err == nil {
		t.Fatal("Opening a directory as database succeeded")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Test directory disappeared: %v", err)
	}
}

func TestAttemptStore(t *testing.T) {
	db := newTestDB(t)

	start := time.Now().Add(-time.Second).Truncate(time.Second)
	a := &Attempt{
		ViewID:    "view-1",
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Outcome:   "submitted",
		Status:    200,
	}
	if err := db.InsertAttempt(a); err != nil {
		t.Fatalf("Failed inserting attempt: %s", err.Error())
	}
	if a.ID != 1 {
		t.Fatalf("Attempt ID autoincrement failed: %d", a.ID)
	}
	if db.InsertAttempt(a) == nil {
		t.Fatal("Succeeded inserting duplicate attempt")
	}

	got, err := db.GetAttempt(a.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve attempt: %s", err.Error())
	}
	if got.ViewID != a.ViewID || got.Outcome != a.Outcome || got.Status != a.Status {
		t.Fatalf("Unexpected attempt returned from db: %+v (not %+v)", got, a)
	}
	if got.Duration() != 2*time.Second {
		t.Fatalf("Unexpected attempt duration: %s", got.Duration())
	}

	if _, err := db.GetAttempt(42); err == nil {
		t.Fatal("Retrieved non-existent attempt")
	}
}

func TestRecentAndViewAttempts(t *testing.T) {
	db := newTestDB(t)

	ntest := 30
	for idx := 0; idx < ntest; idx++ {
		view := "view-a"
		if idx%3 == 0 {
			view = "view-b"
		}
		err := db.InsertAttempt(&Attempt{ViewID: view, StartTime: time.Now(), EndTime: time.Now(), Outcome: "failed", Error: "refused"})
		if err != nil {
			t.Fatalf("Failed inserting attempt %d: %s", idx, err.Error())
		}
	}

	recent, err := db.RecentAttempts(5)
	if err != nil {
		t.Fatalf("Failed to retrieve recent attempts: %s", err.Error())
	}
	if len(recent) != 5 {
		t.Fatalf("Unexpected attempt count: %d (expected 5)", len(recent))
	}
	for idx := range recent {
		if expected := int64(ntest - idx); recent[idx].ID != expected {
			t.Fatalf("Attempt %d has ID %d (expected %d)", idx, recent[idx].ID, expected)
		}
	}

	all, err := db.RecentAttempts(0)
	if err != nil {
		t.Fatalf("Failed to retrieve all attempts: %s", err.Error())
	}
	if len(all) != ntest {
		t.Fatalf("Unexpected attempt count: %d (expected %d)", len(all), ntest)
	}

	viewb, err := db.ViewAttempts("view-b")
	if err != nil {
		t.Fatalf("Failed to retrieve view attempts: %s", err.Error())
	}
	if len(viewb) != 10 {
		t.Fatalf("Unexpected attempt count for view-b: %d (expected 10)", len(viewb))
	}
	for idx := 1; idx < len(viewb); idx++ {
		if viewb[idx].ViewID != "view-b" || viewb[idx].ID <= viewb[idx-1].ID {
			t.Fatalf("Unexpected view attempt listing: %+v", viewb)
		}
	}
}
