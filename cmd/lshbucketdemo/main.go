// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Command lshbucketdemo wires together config, rndsrc, index, and
// reporter to build a small random fleet of LSH tables from the command
// line and look every inserted point back up, exercising the whole bucket-table
// pipeline end to end. It is a wiring demo, not a benchmark harness or
// query-serving daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/aristanetworks/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dzytan/lshbucket/config"
	"github.com/dzytan/lshbucket/index"
	"github.com/dzytan/lshbucket/logger"
	"github.com/dzytan/lshbucket/reporter"
	"github.com/dzytan/lshbucket/rndsrc"
	"github.com/dzytan/lshbucket/uhash"
)

var (
	configPath  = flag.String("config", "", "Path to a YAML index config (table-size, fingerprint-width, ...)")
	numPoints   = flag.Int("points", 10000, "Number of random points to insert")
	reportAddr  = flag.String("prometheus-addr", "", "If set, also serve Prometheus metrics on this address")
	maxParallel = flag.Int64("max-concurrent-compiles", 0, "Bound concurrent hybrid compiles; 0 is unbounded")
)

func usageAndExit(s string) {
	flag.Usage()
	if s != "" {
		fmt.Fprintln(os.Stderr, s)
	}
	os.Exit(1)
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		usageAndExit(err.Error())
	}

	log := logger.GlogLogger{}
	coeffs := uhash.NewCoefficients(cfg.FingerprintWidth, rndsrc.New(cfg.CoefficientSeed).Gen())

	reg := prometheus.NewRegistry()
	promReporter, err := reporter.NewPrometheus(reg)
	if err != nil {
		glog.Fatalf("failed to register Prometheus metrics: %v", err)
	}
	if *reportAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go http.ListenAndServe(*reportAddr, nil)
	}

	builder := index.New(cfg.NumTables, cfg.TableSize, coeffs, cfg.TwoPiece, log, promReporter)
	if *maxParallel > 0 {
		builder.WithMaxConcurrentCompiles(*maxParallel)
	}
	defer builder.Free(true)

	fpSrc := rndsrc.New(cfg.CoefficientSeed + 1)
	fingerprintsByPoint := make([][]uhash.Fingerprint, *numPoints)
	for i := 0; i < *numPoints; i++ {
		fps := randomFingerprints(builder.NumTables(), cfg, fpSrc)
		fingerprintsByPoint[i] = fps
		if err := builder.Insert(fps, int32(i)); err != nil {
			glog.Fatalf("insert point %d: %v", i, err)
		}
	}

	compiled, err := builder.CompileAll(context.Background())
	if err != nil {
		glog.Fatalf("compile fleet: %v", err)
	}
	defer func() {
		for _, t := range compiled {
			t.Free(false)
		}
	}()

	hits := 0
	for i, fps := range fingerprintsByPoint {
		got := index.Lookup(compiled, fps)
		for _, id := range got {
			if int(id) == i {
				hits++
				break
			}
		}
	}
	glog.Infof("inserted %d points across %d tables; %d found themselves on lookup", *numPoints, builder.NumTables(), hits)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Parse(nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %v", err)
	}
	return config.Parse(raw)
}

func randomFingerprints(l int, cfg *config.Config, src *rndsrc.Source) []uhash.Fingerprint {
	fps := make([]uhash.Fingerprint, l)
	for i := range fps {
		if cfg.TwoPiece {
			half := cfg.FingerprintWidth / 2
			fps[i] = uhash.Fingerprint{U1: randomVector(half, src), U2: randomVector(half, src), TwoPiece: true}
		} else {
			fps[i] = uhash.Fingerprint{U1: randomVector(cfg.FingerprintWidth, src)}
		}
	}
	return fps
}

func randomVector(d int, src *rndsrc.Source) []uint32 {
	v := make([]uint32, d)
	for i := range v {
		v[i] = src.Next()
	}
	return v
}
