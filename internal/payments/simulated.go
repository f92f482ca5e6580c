package payments

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultSimulatedLatency approximates real STK-push gateway latency so the
// flow feels realistic without credentials configured.
const DefaultSimulatedLatency = 2 * time.Second

// SimulatedAdapter accepts every push without touching the network. The
// latency is a constructor parameter so tests can run it at zero delay.
type SimulatedAdapter struct {
	latency time.Duration
	now     func() time.Time

	mu   sync.Mutex
	seq  int64
	last int64
}

func NewSimulatedAdapter(latency time.Duration) *SimulatedAdapter {
	return &SimulatedAdapter{
		latency: latency,
		now:     time.Now,
	}
}

func (s *SimulatedAdapter) Push(ctx context.Context, req PushRequest) (PushResult, error) {
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return PushResult{}, ctx.Err()
		}
	}

	return PushResult{
		TrackingID: s.nextTrackingID(),
		Message:    "Mock STK push initiated",
	}, nil
}

// nextTrackingID derives ids from the clock; a counter breaks ties when two
// pushes land in the same millisecond, keeping ids unique across calls.
func (s *SimulatedAdapter) nextTrackingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		s.seq++
		return fmt.Sprintf("MOCK-%d-%d", s.last, s.seq)
	}
	s.last = ms
	s.seq = 0
	return fmt.Sprintf("MOCK-%d", ms)
}
