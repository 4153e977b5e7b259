// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package config loads and watches the YAML configuration for an LSH
// index build: table size, fingerprint width, two-piece mode, bucket-length
// bit width, coefficient seed, and the fleet size L. It follows ocprometheus's config.go in shape
// (yaml.v2, a parse function returning a validated struct) and
// netns/nswatcher.go's fsnotify reload pattern.
package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Config is the representation of an index's YAML config file.
type Config struct {
	// TableSize is M, the number of slots each bucket table has.
	TableSize int `yaml:"table-size"`

	// FingerprintWidth is D, the length of the hashed lane-vector (or
	// sum of both halves, for two-piece fingerprints).
	FingerprintWidth int `yaml:"fingerprint-width"`

	// TwoPiece selects the two-u-function g-function construction.
	TwoPiece bool `yaml:"two-piece"`

	// NumTables is L, how many independent tables the fleet builds.
	NumTables int `yaml:"num-tables"`

	// BitsForBucketLength is b, a bucketLength field width; validation
	// checks that TableSize fits in the 32-2-b bit point-index field it
	// implies. Package hybrid does not read this value: it packs records
	// with its own fixed 8-bit bucketLength field.
	BitsForBucketLength int `yaml:"bits-for-bucket-length"`

	// CoefficientSeed seeds the deterministic coefficient generator
	// (package rndsrc) so a build is reproducible.
	CoefficientSeed uint64 `yaml:"coefficient-seed"`
}

// defaults mirrors the values spec.md's worked examples use.
func defaults() Config {
	return Config{
		TableSize:           1017881,
		FingerprintWidth:    4,
		TwoPiece:            false,
		NumTables:           8,
		BitsForBucketLength: 8,
		CoefficientSeed:     1,
	}
}

// Parse parses raw as YAML into a Config seeded with defaults, then
// validates it.
func Parse(raw []byte) (*Config, error) {
	c := defaults()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: failed to parse: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.TableSize <= 0 {
		return fmt.Errorf("config: table-size must be positive, got %d", c.TableSize)
	}
	if c.FingerprintWidth <= 0 {
		return fmt.Errorf("config: fingerprint-width must be positive, got %d", c.FingerprintWidth)
	}
	if c.TwoPiece && c.FingerprintWidth%2 != 0 {
		return fmt.Errorf("config: fingerprint-width must be even for two-piece fingerprints, got %d", c.FingerprintWidth)
	}
	if c.NumTables <= 0 {
		return fmt.Errorf("config: num-tables must be positive, got %d", c.NumTables)
	}
	if c.BitsForBucketLength <= 0 || c.BitsForBucketLength >= 30 {
		return fmt.Errorf("config: bits-for-bucket-length must be in (0, 30), got %d", c.BitsForBucketLength)
	}
	pointIndexBits := 32 - 2 - c.BitsForBucketLength
	if c.TableSize > 1<<uint(pointIndexBits)-1 {
		return fmt.Errorf("config: table-size %d does not fit in the %d-bit point index field implied by bits-for-bucket-length %d", c.TableSize, pointIndexBits, c.BitsForBucketLength)
	}
	return nil
}
