package ws

import (
	"math"
	"time"
)

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
	defaultMultiplier     = 2.0
	defaultJitter         = 0.2
)

// ReconnectPolicy controls what happens when the socket drops without an
// explicit Disconnect. The zero value never reconnects.
type ReconnectPolicy struct {
	// MaxRetries caps consecutive dial attempts after a drop.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	// Jitter is the fraction (0..1) of the delay randomised in both directions.
	Jitter float64
}

// DefaultReconnectPolicy returns exponential backoff with jitter capped at 30s.
func DefaultReconnectPolicy(maxRetries int) ReconnectPolicy {
	return ReconnectPolicy{
		MaxRetries:     maxRetries,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
		Multiplier:     defaultMultiplier,
		Jitter:         defaultJitter,
	}
}

// Backoff returns the delay before the given zero-based attempt. rnd must
// return values in [0, 1). The result never exceeds MaxBackoff.
func (p ReconnectPolicy) Backoff(attempt int, rnd func() float64) time.Duration {
	initial, maxDelay, mult := p.InitialBackoff, p.MaxBackoff, p.Multiplier
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	if maxDelay <= 0 {
		maxDelay = defaultMaxBackoff
	}
	if mult <= 1 {
		mult = defaultMultiplier
	}

	d := float64(initial) * math.Pow(mult, float64(attempt))
	if d > float64(maxDelay) {
		d = float64(maxDelay)
	}
	if p.Jitter > 0 && rnd != nil {
		j := math.Min(p.Jitter, 1)
		d += d * j * (2*rnd() - 1)
	}
	return time.Duration(math.Max(0, math.Min(d, float64(maxDelay))))
}
