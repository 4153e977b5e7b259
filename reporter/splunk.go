// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package reporter

import (
	"time"

	hec "github.com/aristanetworks/splunk-hec-go"
)

// Splunk forwards BuildStats as HEC events, grounded on cmd/ocsplunk's
// use of hec.NewCluster/hec.Event/WriteEvent.
type Splunk struct {
	cluster hec.Cluster
	host    string
	index   string
}

// NewSplunk creates a Splunk reporter against the given HEC cluster URLs
// and token. host identifies this process in every emitted event; index
// may be empty to use the HEC token's default index.
func NewSplunk(urls []string, token, host, index string) *Splunk {
	return &Splunk{cluster: hec.NewCluster(urls, token), host: host, index: index}
}

// Report sends one HEC event per call.
func (s *Splunk) Report(stats BuildStats) error {
	sourceType := "lshbucket"
	source := "table-build"
	event := &hec.Event{
		Host:       &s.host,
		Source:     &source,
		SourceType: &sourceType,
		Event: map[string]interface{}{
			"table":           stats.Table,
			"numPoints":       stats.NumPoints,
			"numBuckets":      stats.NumBuckets,
			"arenaWords":      stats.ArenaWords,
			"allocBuckets":    stats.AllocBuckets,
			"allocEntries":    stats.AllocEntries,
			"chainProbes":     stats.ChainProbes,
			"overflowBucket":  stats.OverflowBucket,
			"buildDurationMs": stats.BuildDuration.Milliseconds(),
		},
	}
	if s.index != "" {
		event.Index = &s.index
	}
	event.SetTime(time.Now())
	return s.cluster.WriteEvent(event)
}
