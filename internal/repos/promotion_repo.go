package repos

import (
	"noithat/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PromotionRepo struct{ db *sqlx.DB }

func NewPromotionRepo(db *sqlx.DB) *PromotionRepo { return &PromotionRepo{db: db} }

const promoCols = `id, code, percent, amount,
  COALESCE(starts_at,'') AS starts_at, COALESCE(ends_at,'') AS ends_at, active`

func (r *PromotionRepo) List() ([]domain.Promotion, error) {
	var out []domain.Promotion
	err := r.db.Select(&out, `SELECT `+promoCols+` FROM promotions ORDER BY code`)
	return out, err
}

// ByCode looks a promotion up regardless of its active window; callers
// decide whether it currently applies.
func (r *PromotionRepo) ByCode(code string) (domain.Promotion, error) {
	var p domain.Promotion
	err := r.db.Get(&p, `SELECT `+promoCols+` FROM promotions WHERE UPPER(code)=UPPER(?)`, code)
	return p, err
}

func (r *PromotionRepo) Create(p domain.Promotion) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO promotions(code, percent, amount, starts_at, ends_at, active)
	  VALUES(?,?,?,?,?,?)
	`, p.Code, p.Percent, p.Amount, nullable(p.StartsAt), nullable(p.EndsAt), p.Active)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *PromotionRepo) Update(p domain.Promotion) error {
	_, err := r.db.Exec(`
	  UPDATE promotions
	  SET code=?, percent=?, amount=?, starts_at=?, ends_at=?, active=?
	  WHERE id=?
	`, p.Code, p.Percent, p.Amount, nullable(p.StartsAt), nullable(p.EndsAt), p.Active, p.ID)
	return err
}

func (r *PromotionRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM promotions WHERE id=?`, id)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
