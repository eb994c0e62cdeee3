package asyncpool

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a Pool's Stats into Prometheus metrics: cumulative
// submitted/completed task counters and a per-worker queue depth
// gauge. It replaces the teacher's one-shot end-of-Run Metrics struct
// (TotalJobs/ProcessedJobs/...) with a live collector suited to a
// long-lived pool that never stops to report a summary.
type Collector struct {
	pool *Pool

	submitted *prometheus.Desc
	completed *prometheus.Desc
	queueSize *prometheus.Desc
}

// NewCollector wraps p for Prometheus registration.
func NewCollector(p *Pool) *Collector {
	return &Collector{
		pool: p,
		submitted: prometheus.NewDesc(
			"asyncpool_tasks_submitted_total",
			"Total number of tasks submitted to the pool.",
			nil, nil,
		),
		completed: prometheus.NewDesc(
			"asyncpool_tasks_completed_total",
			"Total number of tasks the pool has finished executing.",
			nil, nil,
		),
		queueSize: prometheus.NewDesc(
			"asyncpool_queue_depth",
			"Number of tasks currently waiting in a worker's queue.",
			[]string{"worker"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.submitted
	ch <- c.completed
	ch <- c.queueSize
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stats()

	ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(stats.Submitted))
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(stats.Completed))
	for i, depth := range stats.QueueDepth {
		ch <- prometheus.MustNewConstMetric(c.queueSize, prometheus.GaugeValue, float64(depth), strconv.Itoa(i))
	}
}
