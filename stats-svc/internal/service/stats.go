package service

import (
	"context"
	"time"

	"curry-craft/stats-svc/internal/domain"
)

type StatsService struct {
	store StatsStore
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

func (s *StatsService) Daily(ctx context.Context, date string) (*domain.DailyStats, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, domain.ErrInvalidDate
	}
	return s.store.Daily(ctx, date)
}
