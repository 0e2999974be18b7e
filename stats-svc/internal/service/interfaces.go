package service

import (
	"context"

	"curry-craft/stats-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

// StatsStore records each event at most once; Record* report false for a repeat delivery.
type StatsStore interface {
	RecordOrderPlaced(ctx context.Context, event domain.OrderEvent) (bool, error)
	RecordStatusChange(ctx context.Context, event domain.OrderEvent) (bool, error)
	Daily(ctx context.Context, date string) (*domain.DailyStats, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	Handle(ctx context.Context, event domain.OrderEvent) error
}

type StatsServiceInterface interface {
	Daily(ctx context.Context, date string) (*domain.DailyStats, error)
}

var (
	_ ConsumerInterface     = (*Consumer)(nil)
	_ StatsServiceInterface = (*StatsService)(nil)
	_ MessageReader         = (*kafka.Reader)(nil)
)
