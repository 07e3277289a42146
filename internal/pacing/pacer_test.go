package pacing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPauser captures requested pause durations instead of sleeping.
type recordingPauser struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (r *recordingPauser) Pause(_ context.Context, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauses = append(r.pauses, d)
}

func (r *recordingPauser) all() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.pauses...)
}

func TestWaitEnforcesPerHostSpacing(t *testing.T) {
	rp := &recordingPauser{}
	p := NewWithPauser(Config{
		MinDelay:      50 * time.Millisecond,
		MaxDelay:      50 * time.Millisecond, // no jitter window
		CooldownEvery: 100,
	}, rp, func() float64 { return 0 })

	ctx := context.Background()
	require.NoError(t, p.Wait(ctx, "https://example.com/a"))

	start := time.Now()
	require.NoError(t, p.Wait(ctx, "https://example.com/b"))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWaitDifferentHostsDoNotBlockEachOther(t *testing.T) {
	rp := &recordingPauser{}
	p := NewWithPauser(Config{
		MinDelay:      time.Second,
		MaxDelay:      time.Second,
		CooldownEvery: 100,
	}, rp, func() float64 { return 0 })

	ctx := context.Background()
	require.NoError(t, p.Wait(ctx, "https://a.example/1"))

	start := time.Now()
	require.NoError(t, p.Wait(ctx, "https://b.example/1"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestWaitImposesCooldownEveryN(t *testing.T) {
	rp := &recordingPauser{}
	p := NewWithPauser(Config{
		MinDelay:      time.Nanosecond,
		MaxDelay:      time.Nanosecond,
		CooldownEvery: 3,
		CooldownMin:   5 * time.Second,
		CooldownMax:   10 * time.Second,
	}, rp, func() float64 { return 0.5 })

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, p.Wait(ctx, "https://example.com/"))
	}

	var cooldowns int
	for _, d := range rp.all() {
		if d >= 5*time.Second {
			cooldowns++
			assert.Equal(t, 7500*time.Millisecond, d)
		}
	}
	assert.Equal(t, 2, cooldowns)
	assert.Equal(t, 6, p.Requests())
}

func TestWaitJitterStaysInWindow(t *testing.T) {
	rp := &recordingPauser{}
	p := NewWithPauser(Config{
		MinDelay:      time.Nanosecond,
		MaxDelay:      time.Nanosecond + 3*time.Second,
		CooldownEvery: 100,
	}, rp, func() float64 { return 0.999 })

	require.NoError(t, p.Wait(context.Background(), "https://example.com/"))

	pauses := rp.all()
	require.Len(t, pauses, 1)
	assert.Less(t, pauses[0], 3*time.Second)
	assert.Greater(t, pauses[0], 2*time.Second)
}

func TestWaitHonorsCanceledContext(t *testing.T) {
	p := New(Config{MinDelay: time.Hour, MaxDelay: time.Hour, CooldownEvery: 100})
	ctx, cancel := context.WithCancel(context.Background())

	// drain the initial token, then cancel while the second wait blocks
	require.NoError(t, p.Wait(ctx, "https://slow.example/"))
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := p.Wait(ctx, "https://slow.example/")
	require.Error(t, err)
}
