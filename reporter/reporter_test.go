// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package reporter

import (
	"errors"
	"testing"
)

type fakeReporter struct {
	reports []BuildStats
	err     error
}

func (f *fakeReporter) Report(stats BuildStats) error {
	f.reports = append(f.reports, stats)
	return f.err
}

func TestMultiFansOutToEverySink(t *testing.T) {
	a, b := &fakeReporter{}, &fakeReporter{}
	m := Multi{a, b}
	stats := BuildStats{Table: "table-0", NumPoints: 3}
	if err := m.Report(stats); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(a.reports) != 1 || len(b.reports) != 1 {
		t.Fatal("expected both sinks to receive the report")
	}
}

func TestMultiReportsFirstErrorButStillRunsAll(t *testing.T) {
	failing := &fakeReporter{err: errors.New("boom")}
	ok := &fakeReporter{}
	m := Multi{failing, ok}
	if err := m.Report(BuildStats{Table: "table-1"}); err == nil {
		t.Fatal("expected the first sink's error to propagate")
	}
	if len(ok.reports) != 1 {
		t.Fatal("a failing sink must not stop the others from running")
	}
}
