package manager

import "time"

// Config holds the timing and probe settings of the connection protocol.
type Config struct {
	// ProbeTarget is pinged when the active network cannot be named.
	ProbeTarget string
	// ProbeCount is the number of echo requests sent by the probe.
	ProbeCount int
	// ProbeWait is how long the probe waits for each reply.
	ProbeWait time.Duration
	// ProbeTimeout bounds the whole probe command.
	ProbeTimeout time.Duration
	// StatusTimeout bounds the current-connection and adapter queries.
	StatusTimeout time.Duration
	// CommandTimeout bounds every other gateway command.
	CommandTimeout time.Duration
	// SettleDelay is the wait after dispatching a connect before checking it.
	SettleDelay time.Duration
	// RetryDelay is the wait between verification attempts.
	RetryDelay time.Duration
	// VerifyAttempts is how many times the current connection is checked.
	VerifyAttempts int
	// Staleness is the age after which a last-connection record is discarded.
	Staleness time.Duration
}

// DefaultConfig returns the standard protocol timings.
func DefaultConfig() Config {
	return Config{
		ProbeTarget:    "8.8.8.8",
		ProbeCount:     1,
		ProbeWait:      2 * time.Second,
		ProbeTimeout:   4 * time.Second,
		StatusTimeout:  5 * time.Second,
		CommandTimeout: 10 * time.Second,
		SettleDelay:    2 * time.Second,
		RetryDelay:     1500 * time.Millisecond,
		VerifyAttempts: 3,
		Staleness:      10 * time.Minute,
	}
}

// withDefaults fills unset fields from DefaultConfig. Delays may be zero.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ProbeTarget == "" {
		c.ProbeTarget = d.ProbeTarget
	}
	if c.ProbeCount <= 0 {
		c.ProbeCount = d.ProbeCount
	}
	if c.ProbeWait <= 0 {
		c.ProbeWait = d.ProbeWait
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = d.ProbeTimeout
	}
	if c.StatusTimeout <= 0 {
		c.StatusTimeout = d.StatusTimeout
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = d.CommandTimeout
	}
	if c.VerifyAttempts <= 0 {
		c.VerifyAttempts = d.VerifyAttempts
	}
	if c.Staleness <= 0 {
		c.Staleness = d.Staleness
	}
	return c
}
