// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package reporter

import "github.com/prometheus/client_golang/prometheus"

// Prometheus reports BuildStats as a set of gauges labeled by table name,
// grounded on cmd/ocprometheus's direct use of the prometheus client to
// define and update metric descriptors by hand rather than through an
// auto-instrumentation layer.
type Prometheus struct {
	points     *prometheus.GaugeVec
	buckets    *prometheus.GaugeVec
	arenaWords *prometheus.GaugeVec
	overflow   *prometheus.GaugeVec
	chainHops  *prometheus.GaugeVec
}

// NewPrometheus creates a Prometheus reporter and registers its metrics
// with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		points: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lshbucket",
			Name:      "table_points",
			Help:      "Number of points hashed into the table as of the last build.",
		}, []string{"table"}),
		buckets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lshbucket",
			Name:      "table_buckets",
			Help:      "Number of distinct buckets in the table as of the last build.",
		}, []string{"table"}),
		arenaWords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lshbucket",
			Name:      "table_arena_words",
			Help:      "Length in 32-bit words of the compiled hybrid table's arena.",
		}, []string{"table"}),
		overflow: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lshbucket",
			Name:      "table_has_overflow_bucket",
			Help:      "1 if the last build produced at least one overflowed bucket.",
		}, []string{"table"}),
		chainHops: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lshbucket",
			Name:      "table_chain_probes",
			Help:      "Cumulative bucket-to-bucket chain hops over the table's lifetime.",
		}, []string{"table"}),
	}
	for _, c := range []prometheus.Collector{p.points, p.buckets, p.arenaWords, p.overflow, p.chainHops} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Report updates every gauge for stats.Table.
func (p *Prometheus) Report(stats BuildStats) error {
	p.points.WithLabelValues(stats.Table).Set(float64(stats.NumPoints))
	p.buckets.WithLabelValues(stats.Table).Set(float64(stats.NumBuckets))
	p.arenaWords.WithLabelValues(stats.Table).Set(float64(stats.ArenaWords))
	p.chainHops.WithLabelValues(stats.Table).Set(float64(stats.ChainProbes))
	overflow := 0.0
	if stats.OverflowBucket {
		overflow = 1.0
	}
	p.overflow.WithLabelValues(stats.Table).Set(overflow)
	return nil
}
