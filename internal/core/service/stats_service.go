package service

import (
	"context"

	"github.com/booknest/booknest/internal/core/ports"
)

// StatsService exposes the admin dashboard aggregate.
type StatsService struct {
	repo ports.StatsRepository
}

func NewStatsService(repo ports.StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Overview(ctx context.Context) (*ports.StatsOverview, error) {
	return s.repo.Overview(ctx)
}
