package repos_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"noithat/internal/cart"
	"noithat/internal/repos"
)

func slotdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE cart_slots(
	  session_id TEXT PRIMARY KEY,
	  snapshot TEXT NOT NULL,
	  updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSlotRoundTrip(t *testing.T) {
	db := slotdb(t)
	slot := repos.NewCartSlotRepo(db).Slot("sid-1")

	if _, err := slot.Read(); err != cart.ErrEmpty {
		t.Fatalf("vacant slot: want ErrEmpty, got %v", err)
	}

	payload := []byte(`{"items":[],"timestamp":1}`)
	if err := slot.Write(payload); err != nil {
		t.Fatal(err)
	}
	got, err := slot.Read()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("round trip mismatch: %s", got)
	}

	// second write replaces, not duplicates
	if err := slot.Write([]byte(`{"items":[],"timestamp":2}`)); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM cart_slots`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 row after rewrite, got %d", n)
	}

	if err := slot.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := slot.Read(); err != cart.ErrEmpty {
		t.Fatalf("cleared slot: want ErrEmpty, got %v", err)
	}
}

func TestSlotsAreIsolatedPerSession(t *testing.T) {
	db := slotdb(t)
	r := repos.NewCartSlotRepo(db)
	a, b := r.Slot("sid-a"), r.Slot("sid-b")

	if err := a.Write([]byte(`{"items":[],"timestamp":10}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Read(); err != cart.ErrEmpty {
		t.Fatalf("sid-b must not see sid-a's snapshot, got %v", err)
	}
}

func TestPurgeStale(t *testing.T) {
	db := slotdb(t)
	r := repos.NewCartSlotRepo(db)

	old := time.Now().Add(-20 * 24 * time.Hour).UTC().Format(time.RFC3339)
	db.MustExec(`INSERT INTO cart_slots(session_id,snapshot,updated_at) VALUES('stale','{}',?)`, old)
	if err := r.Slot("fresh").Write([]byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	n, err := r.PurgeStale(cart.RetentionWindow)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 purged row, got %d", n)
	}
	if _, err := r.Slot("fresh").Read(); err != nil {
		t.Fatalf("fresh slot must survive purge: %v", err)
	}
}
