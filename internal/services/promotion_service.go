package services

import (
	"errors"
	"time"

	"noithat/internal/domain"
	"noithat/internal/repos"
)

var (
	ErrPromoUnknown  = errors.New("promotion code not found")
	ErrPromoInactive = errors.New("promotion is not active")
	ErrPromoExpired  = errors.New("promotion is outside its validity window")
)

type PromotionService struct {
	Repo *repos.PromotionRepo
	now  func() time.Time
}

func NewPromotionService(repo *repos.PromotionRepo) *PromotionService {
	return &PromotionService{Repo: repo, now: time.Now}
}

// Validate resolves a code to a currently applicable promotion.
func (s *PromotionService) Validate(code string) (domain.Promotion, error) {
	p, err := s.Repo.ByCode(code)
	if err != nil {
		return domain.Promotion{}, ErrPromoUnknown
	}
	if !p.Active {
		return domain.Promotion{}, ErrPromoInactive
	}
	now := s.now()
	if p.StartsAt != "" {
		if t, err := time.Parse(time.RFC3339, p.StartsAt); err == nil && now.Before(t) {
			return domain.Promotion{}, ErrPromoExpired
		}
	}
	if p.EndsAt != "" {
		if t, err := time.Parse(time.RFC3339, p.EndsAt); err == nil && now.After(t) {
			return domain.Promotion{}, ErrPromoExpired
		}
	}
	return p, nil
}

// Discount computes the VND discount a promotion grants on a subtotal,
// never exceeding the subtotal itself.
func Discount(p domain.Promotion, subtotal int64) int64 {
	var d int64
	if p.Percent > 0 {
		d = subtotal * int64(p.Percent) / 100
	} else {
		d = p.Amount
	}
	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d
}
