package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"noithat/internal/cart"
)

// CartSlotRepo stores one cart snapshot per session in SQLite, giving each
// session the durable key-value slot the cart store persists into.
type CartSlotRepo struct{ db *sqlx.DB }

func NewCartSlotRepo(db *sqlx.DB) *CartSlotRepo { return &CartSlotRepo{db: db} }

// Slot returns the cart.Slot bound to one session's row.
func (r *CartSlotRepo) Slot(sessionID string) cart.Slot {
	return &dbSlot{db: r.db, sid: sessionID}
}

// PurgeStale deletes slot rows not written for longer than maxAge. The cart
// store already ignores expired snapshots on load; this keeps abandoned rows
// from accumulating.
func (r *CartSlotRepo) PurgeStale(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UTC().Format(time.RFC3339)
	res, err := r.db.Exec(`DELETE FROM cart_slots WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type dbSlot struct {
	db  *sqlx.DB
	sid string
}

func (s *dbSlot) Read() ([]byte, error) {
	var raw string
	err := s.db.Get(&raw, `SELECT snapshot FROM cart_slots WHERE session_id = ?`, s.sid)
	if err == sql.ErrNoRows {
		return nil, cart.ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

func (s *dbSlot) Write(b []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO cart_slots(session_id, snapshot, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE
		SET snapshot = excluded.snapshot, updated_at = excluded.updated_at
	`, s.sid, string(b), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *dbSlot) Clear() error {
	_, err := s.db.Exec(`DELETE FROM cart_slots WHERE session_id = ?`, s.sid)
	return err
}
