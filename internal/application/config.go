package application

import "time"

const (
	defaultHeartbeatInterval = 5 * time.Minute
	defaultDailyInterval     = 8 * time.Hour

	defaultClaimMaxAttempts = 5
	defaultClaimBaseBackoff = 30 * time.Second
	defaultClaimMaxBackoff  = 10 * time.Minute
)

// KeeperConfig holds the scheduler intervals and the claim retry policy.
type KeeperConfig struct {
	HeartbeatInterval time.Duration
	DailyInterval     time.Duration
	Claim             ClaimPolicy
}

func (c KeeperConfig) withDefaults() KeeperConfig {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.DailyInterval <= 0 {
		c.DailyInterval = defaultDailyInterval
	}
	c.Claim = c.Claim.withDefaults()
	return c
}

// ClaimPolicy caps the claim state machine's recoverable-error restarts.
// The reference behavior retried indefinitely with no backoff; the cap keeps
// a persistent server-side error from spinning the process.
type ClaimPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func (p ClaimPolicy) withDefaults() ClaimPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultClaimMaxAttempts
	}
	if p.BaseBackoff <= 0 {
		p.BaseBackoff = defaultClaimBaseBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaultClaimMaxBackoff
	}
	return p
}

// backoff returns the delay before restart n (1-based), doubling from
// BaseBackoff and capped at MaxBackoff.
func (p ClaimPolicy) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := p.BaseBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if delay > p.MaxBackoff {
		return p.MaxBackoff
	}
	return delay
}
