package services

import "noithat/internal/repos"

type StatsService struct {
	Repo *repos.StatsRepo
}

func NewStatsService(repo *repos.StatsRepo) *StatsService { return &StatsService{Repo: repo} }

// Overview is everything the admin statistics page renders.
type Overview struct {
	Totals      repos.Totals
	ByDay       []repos.DayRevenue
	TopProducts []repos.ProductSales
	ByStatus    []repos.StatusCount
}

func (s *StatsService) Overview(days, topN int) (Overview, error) {
	totals, err := s.Repo.Totals()
	if err != nil {
		return Overview{}, err
	}
	byDay, err := s.Repo.RevenueByDay(days)
	if err != nil {
		return Overview{}, err
	}
	top, err := s.Repo.TopProducts(topN)
	if err != nil {
		return Overview{}, err
	}
	byStatus, err := s.Repo.CountByStatus()
	if err != nil {
		return Overview{}, err
	}
	return Overview{Totals: totals, ByDay: byDay, TopProducts: top, ByStatus: byStatus}, nil
}
