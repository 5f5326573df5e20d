package services

import (
	"time"

	"github.com/BradenHooton/storefront/pkg/metrics"
)

type options struct {
	now     func() time.Time
	metrics *metrics.Manager
}

// Option customises a service
type Option func(*options)

// WithClock replaces time.Now, letting tests move time forward
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithMetrics records service activity in m
func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
