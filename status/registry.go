package status

import (
	"fmt"
	"sync/atomic"
)

// Metrics published by gameplay components
const (
	MetricTicks      Metric = "session.ticks"
	MetricBumperHits Metric = "scoring.bumper_hits"
	MetricTargetHits Metric = "scoring.target_hits"
	MetricBonuses    Metric = "scoring.bonuses"
	MetricDrains     Metric = "lifecycle.drains"
	MetricPower      Metric = "launcher.power"
	MetricPeakPower  Metric = "launcher.peak_power"
	MetricPaused     Metric = "session.paused"
)

// Registry is the central metrics facade
// Components cache pointers at construction; tick code writes directly to atomics
type Registry struct {
	Bools  *Group[atomic.Bool]
	Ints   *Group[atomic.Int64]
	Floats *Group[Gauge]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:  &Group[atomic.Bool]{},
		Ints:   &Group[atomic.Int64]{},
		Floats: &Group[Gauge]{},
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len()
}

// Lines formats every metric as "key=value", ints first, each group in key order
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.TotalCount())
	r.Ints.Each(func(m Metric, v *atomic.Int64) {
		lines = append(lines, fmt.Sprintf("%s=%d", m, v.Load()))
	})
	r.Floats.Each(func(m Metric, v *Gauge) {
		lines = append(lines, fmt.Sprintf("%s=%.1f", m, v.Get()))
	})
	r.Bools.Each(func(m Metric, v *atomic.Bool) {
		lines = append(lines, fmt.Sprintf("%s=%t", m, v.Load()))
	})
	return lines
}
