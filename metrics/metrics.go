// SPDX-License-Identifier: EPL-2.0

// Package metrics provides Prometheus counters for the decode cache.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache holds the counters updated by decode source stages. A nil *Cache is
// valid and records nothing.
type Cache struct {
	UnitsDecoded   prometheus.Counter
	UnitsDropped   prometheus.Counter
	DiscardedBytes prometheus.Counter
	RequestSplits  prometheus.Counter
	SamplesServed  prometheus.Counter
}

// New creates the cache counters and registers them with registerer.
func New(registerer prometheus.Registerer) (*Cache, error) {
	c := &Cache{
		UnitsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audpipe_decode_units_total",
			Help: "Total number of decode units appended to the sample cache",
		}),
		UnitsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audpipe_decode_units_dropped_total",
			Help: "Total number of decode units dropped after a recoverable decode error",
		}),
		DiscardedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audpipe_cache_discarded_bytes_total",
			Help: "Total number of bytes compacted out of the front of the sample cache",
		}),
		RequestSplits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audpipe_request_splits_total",
			Help: "Total number of sample requests split because they exceeded the cache window",
		}),
		SamplesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audpipe_samples_served_total",
			Help: "Total number of samples returned by decode sources",
		}),
	}
	if registerer != nil {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register cache metrics: %w", err)
		}
	}
	return c, nil
}

// Describe implements the prometheus.Collector interface.
func (c *Cache) Describe(ch chan<- *prometheus.Desc) {
	c.UnitsDecoded.Describe(ch)
	c.UnitsDropped.Describe(ch)
	c.DiscardedBytes.Describe(ch)
	c.RequestSplits.Describe(ch)
	c.SamplesServed.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (c *Cache) Collect(ch chan<- prometheus.Metric) {
	c.UnitsDecoded.Collect(ch)
	c.UnitsDropped.Collect(ch)
	c.DiscardedBytes.Collect(ch)
	c.RequestSplits.Collect(ch)
	c.SamplesServed.Collect(ch)
}

func (c *Cache) UnitDecoded() {
	if c != nil {
		c.UnitsDecoded.Inc()
	}
}

func (c *Cache) UnitDropped() {
	if c != nil {
		c.UnitsDropped.Inc()
	}
}

func (c *Cache) Discarded(n int64) {
	if c != nil && n > 0 {
		c.DiscardedBytes.Add(float64(n))
	}
}

func (c *Cache) Split() {
	if c != nil {
		c.RequestSplits.Inc()
	}
}

func (c *Cache) Served(samples int64) {
	if c != nil && samples > 0 {
		c.SamplesServed.Add(float64(samples))
	}
}
