// Package metrics exports glfx resource statistics to Prometheus.
//
// A Collector reads Context.Stats on every scrape, so registering it costs
// nothing between scrapes:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector(ctx))
//
// Stats is safe for concurrent use, so scrapes may run on any goroutine.
package metrics

import (
	"github.com/gogpu/glfx"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "glfx"

// StatsSource is implemented by *glfx.Context.
type StatsSource interface {
	Stats() glfx.Stats
}

// Collector is a prometheus.Collector over a StatsSource.
type Collector struct {
	src StatsSource

	allocated       *prometheus.Desc
	released        *prometheus.Desc
	live            *prometheus.Desc
	orphansCaptured *prometheus.Desc
	orphansReleased *prometheus.Desc
	orphansPending  *prometheus.Desc
	drains          *prometheus.Desc
	frames          *prometheus.Desc
}

// Option configures a Collector.
type Option func(*config)

type config struct {
	labels prometheus.Labels
}

// WithConstLabels adds labels to every metric, for telling several
// contexts apart in one registry.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) {
		for k, v := range labels {
			c.labels[k] = v
		}
	}
}

// NewCollector returns a collector for src. Every metric carries a
// "version" label with the context version.
func NewCollector(src StatsSource, opts ...Option) *Collector {
	cfg := config{labels: prometheus.Labels{"version": src.Stats().Version.String()}}
	for _, opt := range opts {
		opt(&cfg)
	}
	desc := func(name, help string, kind bool) *prometheus.Desc {
		var variable []string
		if kind {
			variable = []string{"kind"}
		}
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, variable, cfg.labels)
	}
	return &Collector{
		src:             src,
		allocated:       desc("objects_allocated_total", "Native objects allocated.", true),
		released:        desc("objects_released_total", "Native objects released explicitly.", true),
		live:            desc("objects_live", "Native objects currently alive.", true),
		orphansCaptured: desc("orphans_captured_total", "Unreachable handles recorded by the leak registry.", true),
		orphansReleased: desc("orphans_released_total", "Orphaned native objects released by a drain.", true),
		orphansPending:  desc("orphans_pending", "Orphaned native objects waiting for the next drain.", true),
		drains:          desc("leak_drains_total", "Leak registry drains.", false),
		frames:          desc("frames_total", "Frames ended with EndFrame.", false),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocated
	ch <- c.released
	ch <- c.live
	ch <- c.orphansCaptured
	ch <- c.orphansReleased
	ch <- c.orphansPending
	ch <- c.drains
	ch <- c.frames
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	for i, k := range s.Kinds {
		kind := glfx.ObjectKind(i).String()
		ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.CounterValue, float64(k.Allocations), kind)
		ch <- prometheus.MustNewConstMetric(c.released, prometheus.CounterValue, float64(k.Releases), kind)
		ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(k.Live()), kind)
		ch <- prometheus.MustNewConstMetric(c.orphansCaptured, prometheus.CounterValue, float64(k.OrphansCaptured), kind)
		ch <- prometheus.MustNewConstMetric(c.orphansReleased, prometheus.CounterValue, float64(k.OrphansReleased), kind)
		ch <- prometheus.MustNewConstMetric(c.orphansPending, prometheus.GaugeValue, float64(k.OrphansPending), kind)
	}
	ch <- prometheus.MustNewConstMetric(c.drains, prometheus.CounterValue, float64(s.Drains))
	ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(s.Frames))
}

var _ prometheus.Collector = (*Collector)(nil)
