// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package adam

import (
	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/session"
)

// AlignmentDataset wraps an alignment handle.
type AlignmentDataset struct {
	h    *dataset.Alignments
	sess *session.Session
}

// Handle returns the wrapped handle.
func (d *AlignmentDataset) Handle() *dataset.Alignments { return d.h }

// Session returns the session the dataset was loaded on.
func (d *AlignmentDataset) Session() *session.Session { return d.sess }

// ToFragments groups the reads by name, into the session's
// FragmentPartitions partitions.
func (d *AlignmentDataset) ToFragments() *FragmentDataset {
	return &FragmentDataset{h: d.h.ToFragments(d.sess.Opts().FragmentPartitions), sess: d.sess}
}

// CoverageDataset wraps a coverage handle.
type CoverageDataset struct {
	h    *dataset.Coverage
	sess *session.Session
}

// Handle returns the wrapped handle.
func (d *CoverageDataset) Handle() *dataset.Coverage { return d.h }

// Session returns the session the dataset was loaded on.
func (d *CoverageDataset) Session() *session.Session { return d.sess }

// ContigFragmentDataset wraps a contig fragment handle.
type ContigFragmentDataset struct {
	h    *dataset.ContigFragments
	sess *session.Session
}

// Handle returns the wrapped handle.
func (d *ContigFragmentDataset) Handle() *dataset.ContigFragments { return d.h }

// Session returns the session the dataset was loaded on.
func (d *ContigFragmentDataset) Session() *session.Session { return d.sess }

// FragmentDataset wraps a fragment handle.
type FragmentDataset struct {
	h    *dataset.Fragments
	sess *session.Session
}

// Handle returns the wrapped handle.
func (d *FragmentDataset) Handle() *dataset.Fragments { return d.h }

// Session returns the session the dataset was loaded on.
func (d *FragmentDataset) Session() *session.Session { return d.sess }

// FeatureDataset wraps a feature handle.
type FeatureDataset struct {
	h    *dataset.Features
	sess *session.Session
}

// Handle returns the wrapped handle.
func (d *FeatureDataset) Handle() *dataset.Features { return d.h }

// Session returns the session the dataset was loaded on.
func (d *FeatureDataset) Session() *session.Session { return d.sess }

// ToCoverage converts the features to coverage, with depth taken from the
// feature score.
func (d *FeatureDataset) ToCoverage() *CoverageDataset {
	return &CoverageDataset{h: d.h.ToCoverage(), sess: d.sess}
}

// GenotypeDataset wraps a genotype handle.
type GenotypeDataset struct {
	h    *dataset.Genotypes
	sess *session.Session
}

// Handle returns the wrapped handle.
func (d *GenotypeDataset) Handle() *dataset.Genotypes { return d.h }

// Session returns the session the dataset was loaded on.
func (d *GenotypeDataset) Session() *session.Session { return d.sess }

// VariantDataset wraps a variant handle.
type VariantDataset struct {
	h    *dataset.Variants
	sess *session.Session
}

// Handle returns the wrapped handle.
func (d *VariantDataset) Handle() *dataset.Variants { return d.h }

// Session returns the session the dataset was loaded on.
func (d *VariantDataset) Session() *session.Session { return d.sess }
