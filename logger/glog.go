// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package logger

import "github.com/aristanetworks/glog"

// GlogLogger is a Logger backed by github.com/aristanetworks/glog, the
// logging library the teacher repo uses throughout its own cmd/ programs.
type GlogLogger struct {
	// InfoLevel is the glog.V() verbosity level Info/Infof log at.
	InfoLevel glog.Level
}

func (g GlogLogger) Info(args ...interface{}) {
	glog.V(g.InfoLevel).Info(args...)
}

func (g GlogLogger) Infof(format string, args ...interface{}) {
	glog.V(g.InfoLevel).Infof(format, args...)
}

func (g GlogLogger) Error(args ...interface{}) {
	glog.Error(args...)
}

func (g GlogLogger) Errorf(format string, args ...interface{}) {
	glog.Errorf(format, args...)
}

func (g GlogLogger) Fatal(args ...interface{}) {
	glog.Fatal(args...)
}

func (g GlogLogger) Fatalf(format string, args ...interface{}) {
	glog.Fatalf(format, args...)
}
