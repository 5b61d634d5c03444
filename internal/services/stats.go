package services

import (
	"context"
	"fmt"

	"communityhub/internal/domain"
)

type statsService struct {
	repo domain.StatsRepository
}

// NewStatsService creates a StatsService over the given repository. Overviews
// are computed on demand so dashboard reads never race reconciliation writes.
func NewStatsService(repo domain.StatsRepository) domain.StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	overview, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}
	return overview, nil
}
