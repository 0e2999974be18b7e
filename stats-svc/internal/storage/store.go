package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"curry-craft/stats-svc/internal/domain"
	"curry-craft/stats-svc/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	fieldOrdersPlaced = "orders_placed"
	fieldRevenue      = "revenue_paise"
	fieldRefunded     = "refunded_paise"
	statusPrefix      = "status:"
	topCustomers      = 5
)

// Store keeps one hash of counters per day plus a sorted set of spend per customer.
// Amounts are stored in paise so HINCRBY stays exact.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func dailyKey(date string) string {
	return fmt.Sprintf("stats:daily:%s", date)
}

func customersKey(date string) string {
	return fmt.Sprintf("stats:customers:%s", date)
}

func seenKey(event domain.OrderEvent) string {
	return fmt.Sprintf("stats:seen:%s:%s:%s", event.OrderID, event.Type, event.Status)
}

func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromPaise(paise int64) decimal.Decimal {
	return decimal.New(paise, -2)
}

// markSeen returns false when the event was already counted.
func (s *Store) markSeen(ctx context.Context, event domain.OrderEvent) (bool, error) {
	return s.rdb.SetNX(ctx, seenKey(event), 1, s.ttl).Result()
}

func (s *Store) RecordOrderPlaced(ctx context.Context, event domain.OrderEvent) (bool, error) {
	fresh, err := s.markSeen(ctx, event)
	if err != nil || !fresh {
		return false, err
	}

	day := event.Day()
	key := dailyKey(day)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, fieldOrdersPlaced, 1)
		pipe.HIncrBy(ctx, key, fieldRevenue, toPaise(event.Total))
		pipe.HIncrBy(ctx, key, statusPrefix+event.Status, 1)
		pipe.Expire(ctx, key, s.ttl)
		if event.UserID != "" {
			pipe.ZIncrBy(ctx, customersKey(day), event.Total.InexactFloat64(), event.UserID)
			pipe.Expire(ctx, customersKey(day), s.ttl)
		}
		return nil
	})
	if err != nil {
		s.rdb.Del(ctx, seenKey(event))
		return false, err
	}
	return true, nil
}

func (s *Store) RecordStatusChange(ctx context.Context, event domain.OrderEvent) (bool, error) {
	fresh, err := s.markSeen(ctx, event)
	if err != nil || !fresh {
		return false, err
	}

	key := dailyKey(event.Day())
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, statusPrefix+event.Status, 1)
		if event.Refunds() {
			pipe.HIncrBy(ctx, key, fieldRefunded, toPaise(event.Total))
		}
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		s.rdb.Del(ctx, seenKey(event))
		return false, err
	}
	return true, nil
}

func (s *Store) Daily(ctx context.Context, date string) (*domain.DailyStats, error) {
	fields, err := s.rdb.HGetAll(ctx, dailyKey(date)).Result()
	if err != nil {
		return nil, err
	}

	stats := &domain.DailyStats{
		Date:         date,
		Revenue:      decimal.Zero,
		Refunded:     decimal.Zero,
		StatusCounts: map[string]int64{},
		TopCustomers: []domain.CustomerSpend{},
	}
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats field %s: %w", field, err)
		}
		switch {
		case field == fieldOrdersPlaced:
			stats.OrdersPlaced = n
		case field == fieldRevenue:
			stats.Revenue = fromPaise(n)
		case field == fieldRefunded:
			stats.Refunded = fromPaise(n)
		case strings.HasPrefix(field, statusPrefix):
			stats.StatusCounts[strings.TrimPrefix(field, statusPrefix)] = n
		}
	}
	stats.NetRevenue = stats.Revenue.Sub(stats.Refunded)

	top, err := s.rdb.ZRevRangeWithScores(ctx, customersKey(date), 0, topCustomers-1).Result()
	if err != nil {
		return nil, err
	}
	for _, z := range top {
		stats.TopCustomers = append(stats.TopCustomers, domain.CustomerSpend{
			UserID: fmt.Sprint(z.Member),
			Spent:  decimal.NewFromFloat(z.Score).Round(2),
		})
	}
	return stats, nil
}

var _ service.StatsStore = (*Store)(nil)
