package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"curry-craft/stats-svc/internal/domain"

	"go.uber.org/zap"
)

type Consumer struct {
	Reader  MessageReader
	Store   StatsStore
	Logger  *zap.Logger
	Backoff time.Duration
}

func NewConsumer(reader MessageReader, store StatsStore, logger *zap.Logger) *Consumer {
	return &Consumer{
		Reader:  reader,
		Store:   store,
		Logger:  logger,
		Backoff: time.Second,
	}
}

// Start reads until ctx is cancelled. Undecodable messages are skipped.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info("starting order events consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.Logger.Info("order events consumer stopped")
				return
			}
			c.Logger.Warn("error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.Backoff):
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Logger.Warn("error unmarshaling message",
				zap.Int64("offset", message.Offset),
				zap.Error(err))
			continue
		}

		if err := c.Handle(ctx, event); err != nil {
			c.Logger.Error("error recording order event",
				zap.String("order_id", event.OrderID),
				zap.String("type", event.Type),
				zap.Error(err))
		}
	}
}

func (c *Consumer) Handle(ctx context.Context, event domain.OrderEvent) error {
	if event.OrderID == "" {
		return errors.New("order event without order id")
	}

	var (
		recorded bool
		err      error
	)
	switch event.Type {
	case domain.EventOrderPlaced:
		recorded, err = c.Store.RecordOrderPlaced(ctx, event)
	case domain.EventOrderStatusChanged:
		recorded, err = c.Store.RecordStatusChange(ctx, event)
	default:
		c.Logger.Debug("ignoring order event", zap.String("type", event.Type))
		return nil
	}
	if err != nil {
		return err
	}

	if !recorded {
		c.Logger.Debug("duplicate order event",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
			zap.String("status", event.Status))
		return nil
	}
	c.Logger.Info("order event recorded",
		zap.String("order_id", event.OrderID),
		zap.String("type", event.Type),
		zap.String("status", event.Status))
	return nil
}
