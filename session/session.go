// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package session implements the execution session that datasets are loaded
// under. A Session owns the parallelism and partitioning settings and runs the
// per-partition jobs planned by the loader.
//
// The Session is owned by whoever created it. Callers that borrow a Session,
// such as adam.Context, never close it.
package session

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

const (
	// DefaultBytesPerPartition is the default value of Opts.BytesPerPartition.
	DefaultBytesPerPartition = int64(128 << 20)
	// DefaultRecordsPerPartition is the default value of
	// Opts.RecordsPerPartition.
	DefaultRecordsPerPartition = 1 << 18
	// DefaultContigFragmentLength is the default value of
	// Opts.ContigFragmentLength.
	DefaultContigFragmentLength = int64(10000)
)

// Opts defines the behavior of a Session. Zero fields take their defaults.
type Opts struct {
	// Parallelism is the max number of partition jobs run concurrently.
	// Defaults to runtime.NumCPU().
	Parallelism int

	// BytesPerPartition is the target size of a byte-range split of a
	// splittable (uncompressed, line-oriented) input.
	BytesPerPartition int64

	// RecordsPerPartition is the max number of records per partition for
	// inputs that are read in one pass, such as BAM or compressed text.
	RecordsPerPartition int

	// FragmentPartitions is the number of partitions reads are hashed into
	// when grouped into fragments. Defaults to Parallelism.
	FragmentPartitions int

	// ContigFragmentLength is the max number of bases in a contig fragment.
	ContigFragmentLength int64
}

func (o Opts) withDefaults() Opts {
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.NumCPU()
	}
	if o.BytesPerPartition <= 0 {
		o.BytesPerPartition = DefaultBytesPerPartition
	}
	if o.RecordsPerPartition <= 0 {
		o.RecordsPerPartition = DefaultRecordsPerPartition
	}
	if o.FragmentPartitions <= 0 {
		o.FragmentPartitions = o.Parallelism
	}
	if o.ContigFragmentLength <= 0 {
		o.ContigFragmentLength = DefaultContigFragmentLength
	}
	return o
}

// Session is an execution session. Thread safe.
type Session struct {
	id   string
	opts Opts

	mu     sync.Mutex
	closed bool
}

// New creates a Session. Zero fields of opts are replaced by defaults.
func New(opts Opts) *Session {
	s := &Session{id: uuid.New().String(), opts: opts.withDefaults()}
	log.Debug.Printf("session %s: started with %+v", s.id, s.opts)
	return s
}

// ID returns the unique ID of the session.
func (s *Session) ID() string { return s.id }

// Opts returns the options of the session, with defaults filled in.
func (s *Session) Opts() Opts { return s.opts }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Run runs fn(ctx, 0) ... fn(ctx, n-1) with at most Opts.Parallelism
// invocations in flight. It returns the first error encountered. Jobs that
// have not started when ctx is canceled or an error occurs are skipped.
//
// REQUIRES: Close has not been called.
func (s *Session) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if s.Closed() {
		return errors.E(errors.Precondition, "session", s.id, "is closed")
	}
	if n == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// The first job error wins over the cancellation errors it causes.
	var jobErr errors.Once
	err := traverse.Limit(s.opts.Parallelism).Each(n, func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i); err != nil {
			jobErr.Set(err)
			cancel()
			return err
		}
		return nil
	})
	if e := jobErr.Err(); e != nil {
		return e
	}
	if err != nil {
		return err
	}
	if log.At(log.Debug) {
		log.Debug.Printf("session %s: ran %d jobs", s.id, n)
	}
	return nil
}

// Close ends the session. Subsequent Run calls fail. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		log.Debug.Printf("session %s: closed", s.id)
	}
	s.closed = true
	return nil
}
