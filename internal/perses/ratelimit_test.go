package perses_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/perses-gateway/internal/perses"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rate       float64
		burst      int
		calls      int
		wantWaited int64
	}{
		{name: "within burst", rate: 1, burst: 5, calls: 5, wantWaited: 0},
		{name: "past burst waits", rate: 20, burst: 2, calls: 4, wantWaited: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := perses.NewRateLimiter(tt.rate, tt.burst)
			for range tt.calls {
				require.NoError(t, rl.Wait(context.Background()))
			}
			assert.Equal(t, tt.wantWaited, rl.Waited())
		})
	}
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	rl := perses.NewRateLimiter(0.001, 1)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_ZeroBurst(t *testing.T) {
	t.Parallel()

	rl := perses.NewRateLimiter(10, 0)
	err := rl.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "burst of 0")
}

func TestRateLimiter_Concurrent(t *testing.T) {
	t.Parallel()

	rl := perses.NewRateLimiter(1000, 10)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			assert.NoError(t, rl.Wait(context.Background()))
		})
	}
	wg.Wait()
}
