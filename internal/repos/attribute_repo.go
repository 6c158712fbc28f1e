package repos

import (
	"noithat/internal/domain"

	"github.com/jmoiron/sqlx"
)

// AttributeRepo manages the color and size lookup tables behind product
// variants.
type AttributeRepo struct{ db *sqlx.DB }

func NewAttributeRepo(db *sqlx.DB) *AttributeRepo { return &AttributeRepo{db: db} }

func (r *AttributeRepo) ListColors() ([]domain.Color, error) {
	var out []domain.Color
	err := r.db.Select(&out, `SELECT id, name, COALESCE(code,'') AS code FROM colors ORDER BY name`)
	return out, err
}

func (r *AttributeRepo) UpsertColor(name, code string) error {
	_, err := r.db.Exec(`
	  INSERT INTO colors(name, code) VALUES(?, ?)
	  ON CONFLICT(name) DO UPDATE SET code = excluded.code
	`, name, code)
	return err
}

func (r *AttributeRepo) DeleteColor(id int64) error {
	_, err := r.db.Exec(`DELETE FROM colors WHERE id=?`, id)
	return err
}

func (r *AttributeRepo) ListSizes() ([]domain.Size, error) {
	var out []domain.Size
	err := r.db.Select(&out, `SELECT id, label FROM sizes ORDER BY label`)
	return out, err
}

func (r *AttributeRepo) UpsertSize(label string) error {
	_, err := r.db.Exec(`INSERT INTO sizes(label) VALUES(?) ON CONFLICT(label) DO NOTHING`, label)
	return err
}

func (r *AttributeRepo) DeleteSize(id int64) error {
	_, err := r.db.Exec(`DELETE FROM sizes WHERE id=?`, id)
	return err
}
