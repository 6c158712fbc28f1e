package repos

import (
	"strconv"

	"github.com/jmoiron/sqlx"
)

// StatsRepo aggregates order data for the admin statistics page. Revenue
// counts every order that is not canceled.
type StatsRepo struct{ db *sqlx.DB }

func NewStatsRepo(db *sqlx.DB) *StatsRepo { return &StatsRepo{db: db} }

type DayRevenue struct {
	Day     string `db:"day"`
	Orders  int    `db:"orders"`
	Revenue int64  `db:"revenue"`
}

func (r *StatsRepo) RevenueByDay(days int) ([]DayRevenue, error) {
	if days <= 0 {
		days = 30
	}
	var out []DayRevenue
	err := r.db.Select(&out, `
	  SELECT date(created_at) AS day, COUNT(*) AS orders, SUM(total) AS revenue
	  FROM orders
	  WHERE status != 'CANCELED'
	    AND datetime(created_at) >= datetime('now', ?)
	  GROUP BY date(created_at)
	  ORDER BY day DESC
	`, "-"+strconv.Itoa(days)+" days")
	return out, err
}

type ProductSales struct {
	ProductID int64  `db:"product_id"`
	Name      string `db:"name"`
	Units     int    `db:"units"`
	Revenue   int64  `db:"revenue"`
}

func (r *StatsRepo) TopProducts(limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []ProductSales
	err := r.db.Select(&out, `
	  SELECT oi.product_id, oi.name, SUM(oi.qty) AS units, SUM(oi.qty*oi.price) AS revenue
	  FROM order_items oi
	  JOIN orders o ON o.id = oi.order_id
	  WHERE o.status != 'CANCELED'
	  GROUP BY oi.product_id, oi.name
	  ORDER BY units DESC
	  LIMIT ?
	`, limit)
	return out, err
}

type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func (r *StatsRepo) CountByStatus() ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.Select(&out, `
	  SELECT status, COUNT(*) AS count FROM orders GROUP BY status ORDER BY count DESC
	`)
	return out, err
}

type Totals struct {
	Orders  int   `db:"orders"`
	Revenue int64 `db:"revenue"`
}

func (r *StatsRepo) Totals() (Totals, error) {
	var t Totals
	err := r.db.Get(&t, `
	  SELECT COUNT(*) AS orders, COALESCE(SUM(total),0) AS revenue
	  FROM orders WHERE status != 'CANCELED'
	`)
	return t, err
}
