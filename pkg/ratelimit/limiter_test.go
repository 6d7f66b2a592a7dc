package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallget/pkg/config"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, 200*time.Millisecond)

	for i := 0; i < 5; i++ {
		assert.True(t, tb.Allow(), "token %d should be available", i+1)
	}
	assert.False(t, tb.Allow(), "bucket should be exhausted")

	time.Sleep(250 * time.Millisecond)
	assert.True(t, tb.Allow(), "bucket should refill after the period")

	tb.tokens = 0
	tb.Reset()
	assert.Equal(t, tb.capacity, tb.tokens)
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1, 100*time.Millisecond)
	require.True(t, tb.Allow())

	start := time.Now()
	require.NoError(t, tb.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(3, 200*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, sw.Allow(), "request %d should be allowed", i+1)
	}
	assert.False(t, sw.Allow())

	time.Sleep(250 * time.Millisecond)
	assert.True(t, sw.Allow())

	sw.Reset()
	assert.Empty(t, sw.requests)
}

func TestSlidingWindowWaitCancelled(t *testing.T) {
	sw := NewSlidingWindow(1, time.Hour)
	require.True(t, sw.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sw.Wait(ctx), context.Canceled)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.RateLimitConfig
		want    interface{}
		wantErr bool
	}{
		{"default strategy", config.RateLimitConfig{RequestsPerMinute: 10}, &TokenBucket{}, false},
		{"token bucket", config.RateLimitConfig{RequestsPerMinute: 10, Strategy: config.RateLimitTokenBucket}, &TokenBucket{}, false},
		{"sliding window", config.RateLimitConfig{RequestsPerMinute: 10, Strategy: config.RateLimitSlidingWindow}, &SlidingWindow{}, false},
		{"zero rate", config.RateLimitConfig{RequestsPerMinute: 0}, nil, true},
		{"unknown strategy", config.RateLimitConfig{RequestsPerMinute: 10, Strategy: "leaky"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, limiter)
		})
	}
}
