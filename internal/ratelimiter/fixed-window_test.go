package ratelimiter_test

import (
	"testing"
	"time"

	"boostpay/internal/ratelimiter"

	"github.com/stretchr/testify/require"
)

func TestFixedWindowLimits(t *testing.T) {
	rl := ratelimiter.NewFixedWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		require.True(t, ok)
	}

	ok, retryAfter := rl.Allow("10.0.0.1")
	require.False(t, ok)
	require.Equal(t, time.Minute, retryAfter)

	// other clients are unaffected
	ok, _ = rl.Allow("10.0.0.2")
	require.True(t, ok)
}
