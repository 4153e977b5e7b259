// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package coordinator provides a distributed rebuild lock over Redis, so
// that only one process in a fleet of index builders compiles a given
// table's fresh generation at a time. This is an outer-loop concern: the
// core bucket-table layer (packages linked, hybrid, lshtable) has no
// locking of its own, per spec.md §5 ("the core does not provide locks").
// Grounded on cmd/ocredis's direct use of a Redis client for simple
// command-level operations, adapted here to redis.v4's typed client and
// its SetNX-based locking idiom.
package coordinator

import (
	"fmt"
	"time"

	redis "gopkg.in/redis.v4"
)

// Lock is a held distributed lock on one rebuild key. Release must be
// called exactly once.
type Lock struct {
	client *redis.Client
	key    string
	token  string
}

// Coordinator guards table rebuilds across a fleet of builder processes
// sharing one Redis instance.
type Coordinator struct {
	client *redis.Client
	prefix string
}

// New creates a Coordinator against a Redis instance at addr, namespacing
// every lock key under prefix (e.g. the index's name).
func New(addr, prefix string) *Coordinator {
	return &Coordinator{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

// TryAcquireRebuild attempts to acquire the rebuild lock for table
// tableName, held for at most ttl. ok is false if another process already
// holds it.
func (c *Coordinator) TryAcquireRebuild(tableName, token string, ttl time.Duration) (*Lock, bool, error) {
	key := c.key(tableName)
	ok, err := c.client.SetNX(key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("coordinator: SETNX %s: %v", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Lock{client: c.client, key: key, token: token}, true, nil
}

// Release drops the lock if and only if it is still held by this Lock's
// token, so a Lock that outlived its TTL and was reacquired by another
// process does not get clobbered.
func (l *Lock) Release() error {
	held, err := l.client.Get(l.key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("coordinator: GET %s: %v", l.key, err)
	}
	if held != l.token {
		return nil
	}
	return l.client.Del(l.key).Err()
}

// Close releases the underlying Redis client.
func (c *Coordinator) Close() error {
	return c.client.Close()
}

func (c *Coordinator) key(tableName string) string {
	return fmt.Sprintf("%s:rebuild:%s", c.prefix, tableName)
}
