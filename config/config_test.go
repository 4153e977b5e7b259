// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package config

import "testing"

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte(``))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.TableSize != 1017881 || c.FingerprintWidth != 4 || c.NumTables != 8 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestParseOverrides(t *testing.T) {
	raw := []byte(`
table-size: 100
fingerprint-width: 8
two-piece: true
num-tables: 4
bits-for-bucket-length: 8
coefficient-seed: 99
`)
	c, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.TableSize != 100 || !c.TwoPiece || c.NumTables != 4 || c.CoefficientSeed != 99 {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestParseRejectsOddWidthTwoPiece(t *testing.T) {
	raw := []byte(`
fingerprint-width: 5
two-piece: true
`)
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected an error for an odd fingerprint-width with two-piece set")
	}
}

func TestParseRejectsOversizedTable(t *testing.T) {
	raw := []byte(`
table-size: 100000000
bits-for-bucket-length: 28
`)
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected an error when table-size overflows the point-index field")
	}
}

func TestParseRejectsNonPositiveFields(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte("table-size: 0"),
		[]byte("fingerprint-width: -1"),
		[]byte("num-tables: 0"),
		[]byte("bits-for-bucket-length: 0"),
	} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected an error for config %q", raw)
		}
	}
}
