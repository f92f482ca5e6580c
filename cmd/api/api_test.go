package main

import (
	"net/http"
	"testing"
	"time"

	"boostpay/internal/dispatch"
	"boostpay/internal/payments"
	"boostpay/internal/ratelimiter"
	"boostpay/internal/sessions"
	"boostpay/internal/tiers"

	"go.uber.org/zap"
)

func newTestApplication(t *testing.T, gateway payments.PaymentGateway) *application {
	t.Helper()

	logger := zap.NewNop().Sugar()

	return &application{
		config: config{
			env: "test",
			rateLimiter: ratelimiter.Config{
				RequestsPerTimeFrame: 100,
				TimeFrame:            time.Second,
				Enabled:              false,
			},
		},
		logger:      logger,
		dispatcher:  dispatch.New(gateway, logger),
		sessions:    sessions.NewStore(),
		catalog:     tiers.Catalog,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(100, time.Second),
	}
}

func newTestMux(t *testing.T, gateway payments.PaymentGateway) http.Handler {
	t.Helper()
	return newTestApplication(t, gateway).mount()
}

func newLimiter(limit int) *ratelimiter.FixedWindowRateLimiter {
	return ratelimiter.NewFixedWindowLimiter(limit, time.Minute)
}
