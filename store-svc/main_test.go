package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"curry-craft/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServer_MemoryBackend(t *testing.T) {
	cfg := &config.Config{Backend: "memory", RetryAttempts: 1, PublicBaseURL: "http://shop.test"}

	handler, b := newServer(cfg, zap.NewNop())
	require.NotNil(t, handler)
	assert.Empty(t, b.closers)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/menu", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Dal Makhani")
}

func TestSeededMemoryStore_DemoWallet(t *testing.T) {
	store := seededMemoryStore()

	balance, err := store.Balance(context.Background(), "demo-user")
	require.NoError(t, err)
	assert.Equal(t, "1000", balance.String())

	settings, err := store.LoyaltySettings(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings.Tiers, 3)
}
