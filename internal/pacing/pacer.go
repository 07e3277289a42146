// Package pacing implements outbound request pacing: a per-origin token
// bucket plus randomized jitter, with a periodic cooldown pause so request
// cadence never looks machine-regular to the target host.
package pacing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gildedpress/luxwire/internal/telemetry"
)

// Config holds pacer knobs. Zero values fall back to the defaults the
// collection profile was tuned with.
type Config struct {
	// MinDelay is the minimum spacing between requests to one host.
	MinDelay time.Duration
	// MaxDelay bounds the jitter window: each request sleeps an extra
	// uniform [0, MaxDelay-MinDelay) on top of the bucket wait.
	MaxDelay time.Duration
	// CooldownEvery triggers a long pause after this many total requests.
	CooldownEvery int
	// CooldownMin/CooldownMax bound the cooldown pause duration.
	CooldownMin time.Duration
	CooldownMax time.Duration
}

const (
	defaultMinDelay      = 2 * time.Second
	defaultMaxDelay      = 5 * time.Second
	defaultCooldownEvery = 20
	defaultCooldownMin   = 5 * time.Second
	defaultCooldownMax   = 10 * time.Second
)

func (c *Config) applyDefaults() {
	if c.MinDelay <= 0 {
		c.MinDelay = defaultMinDelay
	}
	if c.MaxDelay < c.MinDelay {
		c.MaxDelay = defaultMaxDelay
	}
	if c.CooldownEvery <= 0 {
		c.CooldownEvery = defaultCooldownEvery
	}
	if c.CooldownMin <= 0 {
		c.CooldownMin = defaultCooldownMin
	}
	if c.CooldownMax < c.CooldownMin {
		c.CooldownMax = defaultCooldownMax
	}
}

// Pauser abstracts context-aware sleeping so tests can run without real time.
type Pauser interface {
	Pause(ctx context.Context, d time.Duration)
}

// TimerPauser sleeps on a timer, waking early on context cancellation.
type TimerPauser struct{}

// Pause blocks for d or until ctx is done.
func (TimerPauser) Pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Pacer serializes outbound request admission. Safe for concurrent use;
// under parallel collection it is the single pacing point per host.
type Pacer struct {
	cfg    Config
	pauser Pauser
	randFn func() float64

	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	requests int
}

// New builds a Pacer with the supplied config.
func New(cfg Config) *Pacer {
	cfg.applyDefaults()
	return &Pacer{
		cfg:     cfg,
		pauser:  TimerPauser{},
		randFn:  rand.Float64,
		buckets: make(map[string]*rate.Limiter),
	}
}

// NewWithPauser builds a Pacer with an injected pauser and random source.
func NewWithPauser(cfg Config, pauser Pauser, randFn func() float64) *Pacer {
	p := New(cfg)
	if pauser != nil {
		p.pauser = pauser
	}
	if randFn != nil {
		p.randFn = randFn
	}
	return p
}

// Wait blocks until it is safe to issue the next request to rawURL's host.
// It enforces the per-host minimum spacing, adds jitter, and every
// CooldownEvery requests imposes the longer cooldown pause.
func (p *Pacer) Wait(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	limiter, cooldown := p.admit(host)

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacing wait: %w", err)
	}

	jitterWindow := p.cfg.MaxDelay - p.cfg.MinDelay
	if jitterWindow > 0 {
		p.pauser.Pause(ctx, time.Duration(p.randFn()*float64(jitterWindow)))
	}
	if cooldown {
		span := p.cfg.CooldownMax - p.cfg.CooldownMin
		p.pauser.Pause(ctx, p.cfg.CooldownMin+time.Duration(p.randFn()*float64(span)))
	}

	if waited := time.Since(start); waited > time.Millisecond {
		telemetry.ObserveRateLimitDelay(host, waited)
	}
	return ctx.Err()
}

// admit fetches the host bucket and bumps the global request counter,
// reporting whether this request crosses a cooldown boundary.
func (p *Pacer) admit(host string) (*rate.Limiter, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	limiter, ok := p.buckets[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(p.cfg.MinDelay), 1)
		p.buckets[host] = limiter
	}
	p.requests++
	return limiter, p.requests%p.cfg.CooldownEvery == 0
}

// Requests returns the total number of admitted requests this process.
func (p *Pacer) Requests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}
