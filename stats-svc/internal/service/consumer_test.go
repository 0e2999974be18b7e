package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"curry-craft/stats-svc/internal/domain"
	"curry-craft/stats-svc/internal/mocks"
	"curry-craft/stats-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var ctx = context.Background()

func TestConsumer_Handle(t *testing.T) {
	testCases := []struct {
		name      string
		event     domain.OrderEvent
		setupMock func(*mocks.StatsStore)
		wantErr   bool
	}{
		{
			name:  "order placed",
			event: domain.OrderEvent{Type: domain.EventOrderPlaced, OrderID: "o-1", Status: "Pending"},
			setupMock: func(m *mocks.StatsStore) {
				m.On("RecordOrderPlaced", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.OrderID == "o-1"
				})).Return(true, nil)
			},
		},
		{
			name:  "status change",
			event: domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "o-1", Status: "Rejected"},
			setupMock: func(m *mocks.StatsStore) {
				m.On("RecordStatusChange", mock.Anything, mock.Anything).Return(true, nil)
			},
		},
		{
			name:  "duplicate is not an error",
			event: domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "o-1", Status: "Confirmed"},
			setupMock: func(m *mocks.StatsStore) {
				m.On("RecordStatusChange", mock.Anything, mock.Anything).Return(false, nil)
			},
		},
		{
			name:      "unknown type ignored",
			event:     domain.OrderEvent{Type: "review_created", OrderID: "o-1"},
			setupMock: func(m *mocks.StatsStore) {},
		},
		{
			name:      "missing order id",
			event:     domain.OrderEvent{Type: domain.EventOrderPlaced},
			setupMock: func(m *mocks.StatsStore) {},
			wantErr:   true,
		},
		{
			name:  "store error",
			event: domain.OrderEvent{Type: domain.EventOrderPlaced, OrderID: "o-2"},
			setupMock: func(m *mocks.StatsStore) {
				m.On("RecordOrderPlaced", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
			},
			wantErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			store := mocks.NewStatsStore(t)
			testCase.setupMock(store)

			consumer := service.NewConsumer(mocks.NewMessageReader(t), store, zap.NewNop())
			err := consumer.Handle(ctx, testCase.event)

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	payload, _ := json.Marshal(domain.OrderEvent{
		Type:    domain.EventOrderPlaced,
		OrderID: "o-1",
		Status:  "Pending",
		Total:   decimal.NewFromInt(1043),
	})

	reader := mocks.NewMessageReader(t)
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: payload}, nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: []byte("{broken")}, nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{}, errors.New("broker unavailable")).Once()
	reader.On("ReadMessage", mock.Anything).Return(func(context.Context) (kafka.Message, error) {
		cancel()
		return kafka.Message{}, context.Canceled
	}).Once()

	store := mocks.NewStatsStore(t)
	store.On("RecordOrderPlaced", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.OrderID == "o-1" && e.Total.Equal(decimal.NewFromInt(1043))
	})).Return(true, nil).Once()

	consumer := service.NewConsumer(reader, store, zap.NewNop())
	consumer.Backoff = time.Millisecond

	done := make(chan struct{})
	go func() {
		consumer.Start(runCtx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
