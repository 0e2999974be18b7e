package gateway_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curry-craft/api-gateway/internal/gateway"
	"curry-craft/api-gateway/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var testConfig = gateway.Config{
	StoreSvcURL: "http://store-svc",
	StatsSvcURL: "http://stats-svc",
}

func okResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, zap.NewNop())

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		role       string
		wantTarget string
		wantCode   int
	}{
		{"menu goes to store", http.MethodGet, "/api/menu", "", "http://store-svc/api/menu", http.StatusOK},
		{"checkout goes to store", http.MethodPost, "/api/checkout", "USER", "http://store-svc/api/checkout", http.StatusOK},
		{"admin query kept", http.MethodGet, "/api/admin/orders?status=Pending", "ADMIN", "http://store-svc/api/admin/orders?status=Pending", http.StatusOK},
		{"stats for manager", http.MethodGet, "/api/stats/daily/2026-03-01", "manager", "http://stats-svc/api/stats/daily/2026-03-01", http.StatusOK},
		{"stats refused for user", http.MethodGet, "/api/stats/daily/2026-03-01", "USER", "", http.StatusForbidden},
		{"non api path", http.MethodGet, "/favicon.ico", "", "", http.StatusNotFound},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			client := mocks.NewHTTPClient(t)
			if testCase.wantTarget != "" {
				client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
					return req.URL.String() == testCase.wantTarget &&
						req.Method == testCase.method &&
						req.Header.Get("X-User-ID") == "u-1"
				})).Return(okResponse(http.StatusOK, `{"ok":true}`), nil).Once()
			}

			gw := gateway.NewGateway(testConfig, client, zap.NewNop())

			req := httptest.NewRequest(testCase.method, testCase.path, nil)
			req.Header.Set("X-User-ID", "u-1")
			if testCase.role != "" {
				req.Header.Set("X-User-Role", testCase.role)
			}
			rr := httptest.NewRecorder()

			gw.SetupRoutes().ServeHTTP(rr, req)

			assert.Equal(t, testCase.wantCode, rr.Code)
			if testCase.wantCode == http.StatusOK {
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGateway_UpstreamStatusPassedThrough(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	client.On("Do", mock.Anything).Return(okResponse(http.StatusPaymentRequired, `{"error":"Insufficient wallet balance"}`), nil).Once()

	gw := gateway.NewGateway(testConfig, client, zap.NewNop())

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	assert.Contains(t, rr.Body.String(), "Insufficient wallet balance")
}

func TestGateway_ProxyError(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	client.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	gw := gateway.NewGateway(testConfig, client, zap.NewNop())

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}
