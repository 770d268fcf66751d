package hubspot

import (
	"time"

	"github.com/kbukum/hubspotkit/resilience"
)

const (
	defaultMaxTries = 5
	defaultMaxTime  = 10 * time.Second
	// Fibonacci seconds halved: 0.5s, 0.5s, 1s, 1.5s, 2.5s, ...
	defaultBackoffUnit = 500 * time.Millisecond
)

// RetryPolicy bounds the health poll that runs after a request times out.
// Zero fields take the defaults: 5 tries, 10s, halved Fibonacci waits.
type RetryPolicy struct {
	MaxTries int                    `yaml:"max_tries" mapstructure:"max_tries" validate:"gte=0"`
	MaxTime  time.Duration          `yaml:"max_time" mapstructure:"max_time" validate:"gte=0"`
	Backoff  resilience.BackoffFunc `yaml:"-" mapstructure:"-"`
}

// DefaultRetryPolicy returns the policy used when retry is simply enabled.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxTries: defaultMaxTries,
		MaxTime:  defaultMaxTime,
		Backoff:  resilience.Fibonacci(defaultBackoffUnit),
	}
}

// normalized returns p with zero fields replaced by the defaults.
func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxTries <= 0 {
		p.MaxTries = defaultMaxTries
	}
	if p.MaxTime <= 0 {
		p.MaxTime = defaultMaxTime
	}
	if p.Backoff == nil {
		p.Backoff = resilience.Fibonacci(defaultBackoffUnit)
	}
	return p
}

// merged fills zero fields of p from base.
func (p RetryPolicy) merged(base RetryPolicy) RetryPolicy {
	if p.MaxTries <= 0 {
		p.MaxTries = base.MaxTries
	}
	if p.MaxTime <= 0 {
		p.MaxTime = base.MaxTime
	}
	if p.Backoff == nil {
		p.Backoff = base.Backoff
	}
	return p
}
