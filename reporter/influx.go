// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package reporter

import (
	"fmt"
	"time"

	influxdb "github.com/influxdata/influxdb1-client/v2"
)

// Influx writes BuildStats as points in an InfluxDB measurement,
// grounded on influxlib/lib.go's Connect/WritePoint shape, adapted to
// write through the standalone influxdb1-client module directly instead
// of through that wrapper.
type Influx struct {
	client      influxdb.Client
	database    string
	measurement string
}

// NewInfluxHTTP connects to an InfluxDB HTTP endpoint at addr and returns
// an Influx reporter that writes to database.
func NewInfluxHTTP(addr, database string) (*Influx, error) {
	c, err := influxdb.NewHTTPClient(influxdb.HTTPConfig{
		Addr:    addr,
		Timeout: time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &Influx{client: c, database: database, measurement: "lshbucket_table_build"}, nil
}

// Report writes one point per Report call, tagged by table name.
func (r *Influx) Report(stats BuildStats) error {
	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  r.database,
		Precision: "ns",
	})
	if err != nil {
		return err
	}

	tags := map[string]string{"table": stats.Table}
	overflow := 0
	if stats.OverflowBucket {
		overflow = 1
	}
	fields := map[string]interface{}{
		"num_points":       stats.NumPoints,
		"num_buckets":      stats.NumBuckets,
		"arena_words":      stats.ArenaWords,
		"alloc_buckets":    stats.AllocBuckets,
		"alloc_entries":    stats.AllocEntries,
		"chain_probes":     stats.ChainProbes,
		"overflow_bucket":  overflow,
		"build_duration_s": stats.BuildDuration.Seconds(),
	}
	pt, err := influxdb.NewPoint(r.measurement, tags, fields, time.Now())
	if err != nil {
		return err
	}
	bp.AddPoint(pt)

	if err := r.client.Write(bp); err != nil {
		return fmt.Errorf("reporter: influx write failed: %v", err)
	}
	return nil
}
