// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package adam

import (
	"context"

	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/loader"
	"github.com/grailbio/adam/session"
)

// Adapter is the library-side object that loads datasets. *loader.Adapter
// implements it.
type Adapter interface {
	LoadAlignments(ctx context.Context, path string) (*dataset.Alignments, error)
	LoadCoverage(ctx context.Context, path string) (*dataset.Coverage, error)
	LoadContigFragments(ctx context.Context, path string) (*dataset.ContigFragments, error)
	LoadFragments(ctx context.Context, path string) (*dataset.Fragments, error)
	LoadFeatures(ctx context.Context, path string) (*dataset.Features, error)
	LoadGenotypes(ctx context.Context, path string) (*dataset.Genotypes, error)
	LoadVariants(ctx context.Context, path string) (*dataset.Variants, error)
}

// Runtime is the entry point used to reach the loader library. NewAdapter
// must derive the adapter from sess alone.
type Runtime interface {
	NewAdapter(sess *session.Session) Adapter
}

// RuntimeFunc adapts a function to the Runtime interface.
type RuntimeFunc func(sess *session.Session) Adapter

// NewAdapter implements Runtime.
func (f RuntimeFunc) NewAdapter(sess *session.Session) Adapter { return f(sess) }

// DefaultRuntime creates loader.Adapters.
var DefaultRuntime Runtime = RuntimeFunc(func(sess *session.Session) Adapter {
	return loader.NewAdapter(sess)
})

// Context binds one session to one adapter. The adapter is created once, in
// the constructor, and never changes. Context does not own the session: the
// caller closes it. Thread safe.
type Context struct {
	sess    *session.Session
	runtime Runtime
	adapter Adapter
}

// NewContext creates a Context that loads datasets with DefaultRuntime.
func NewContext(sess *session.Session) *Context {
	return NewContextWithRuntime(sess, DefaultRuntime)
}

// NewContextWithRuntime creates a Context whose adapter is rt.NewAdapter(sess).
func NewContextWithRuntime(sess *session.Session, rt Runtime) *Context {
	return &Context{sess: sess, runtime: rt, adapter: rt.NewAdapter(sess)}
}

// Session returns the session the Context was created with.
func (c *Context) Session() *session.Session { return c.sess }

// Runtime returns the runtime that created the adapter.
func (c *Context) Runtime() Runtime { return c.runtime }

// Adapter returns the adapter that the Load methods delegate to.
func (c *Context) Adapter() Adapter { return c.adapter }

// LoadAlignments loads reads from BAM, CRAM, SAM, FASTA, FASTQ, interleaved
// FASTQ (.ifq) or Parquet, selected by the path suffix.
func (c *Context) LoadAlignments(ctx context.Context, path string) (*AlignmentDataset, error) {
	h, err := c.adapter.LoadAlignments(ctx, path)
	if err != nil {
		return nil, err
	}
	return &AlignmentDataset{h: h, sess: c.sess}, nil
}

// LoadCoverage loads features and converts them to coverage, or reads
// coverage stored as Parquet.
func (c *Context) LoadCoverage(ctx context.Context, path string) (*CoverageDataset, error) {
	h, err := c.adapter.LoadCoverage(ctx, path)
	if err != nil {
		return nil, err
	}
	return &CoverageDataset{h: h, sess: c.sess}, nil
}

// LoadContigFragments loads reference sequence fragments from FASTA or
// Parquet.
func (c *Context) LoadContigFragments(ctx context.Context, path string) (*ContigFragmentDataset, error) {
	h, err := c.adapter.LoadContigFragments(ctx, path)
	if err != nil {
		return nil, err
	}
	return &ContigFragmentDataset{h: h, sess: c.sess}, nil
}

// LoadFragments loads reads grouped by name from BAM, CRAM, SAM, interleaved
// FASTQ or Parquet.
func (c *Context) LoadFragments(ctx context.Context, path string) (*FragmentDataset, error) {
	h, err := c.adapter.LoadFragments(ctx, path)
	if err != nil {
		return nil, err
	}
	return &FragmentDataset{h: h, sess: c.sess}, nil
}

// LoadFeatures loads features from BED, GFF3, GTF/GFF2, NarrowPeak,
// interval_list or Parquet.
func (c *Context) LoadFeatures(ctx context.Context, path string) (*FeatureDataset, error) {
	h, err := c.adapter.LoadFeatures(ctx, path)
	if err != nil {
		return nil, err
	}
	return &FeatureDataset{h: h, sess: c.sess}, nil
}

// LoadGenotypes loads per-sample genotype calls from VCF or Parquet.
func (c *Context) LoadGenotypes(ctx context.Context, path string) (*GenotypeDataset, error) {
	h, err := c.adapter.LoadGenotypes(ctx, path)
	if err != nil {
		return nil, err
	}
	return &GenotypeDataset{h: h, sess: c.sess}, nil
}

// LoadVariants loads variant sites from VCF or Parquet.
func (c *Context) LoadVariants(ctx context.Context, path string) (*VariantDataset, error) {
	h, err := c.adapter.LoadVariants(ctx, path)
	if err != nil {
		return nil, err
	}
	return &VariantDataset{h: h, sess: c.sess}, nil
}
