// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import "github.com/grailbio/adam/schema"

// Alignments is a partitioned collection of reads.
type Alignments struct {
	info   Info
	seqs   SequenceDictionary
	groups []schema.ReadGroup
	parts  [][]schema.AlignmentRecord
}

// NewAlignments creates an Alignments handle. It takes ownership of parts.
func NewAlignments(info Info, seqs SequenceDictionary, groups []schema.ReadGroup, parts [][]schema.AlignmentRecord) *Alignments {
	return &Alignments{info: info, seqs: seqs, groups: groups, parts: parts}
}

// Info returns the identity of the dataset.
func (a *Alignments) Info() Info { return a.info }

// Sequences returns the sequence dictionary from the file header, if any.
func (a *Alignments) Sequences() SequenceDictionary { return a.seqs }

// ReadGroups returns the read groups from the file header, if any.
func (a *Alignments) ReadGroups() []schema.ReadGroup { return a.groups }

// NumPartitions returns the number of partitions.
func (a *Alignments) NumPartitions() int { return len(a.parts) }

// Partition returns the records of the i'th partition. The caller must not
// modify the returned slice.
func (a *Alignments) Partition(i int) []schema.AlignmentRecord { return a.parts[i] }

// Count returns the total number of records.
func (a *Alignments) Count() int64 { return count(a.parts) }

// Collect returns all records, in partition order.
func (a *Alignments) Collect() []schema.AlignmentRecord { return collect(a.parts) }

// Coverage is a partitioned collection of depth intervals.
type Coverage struct {
	info  Info
	seqs  SequenceDictionary
	parts [][]schema.Coverage
}

// NewCoverage creates a Coverage handle. It takes ownership of parts.
func NewCoverage(info Info, seqs SequenceDictionary, parts [][]schema.Coverage) *Coverage {
	return &Coverage{info: info, seqs: seqs, parts: parts}
}

// Info returns the identity of the dataset.
func (c *Coverage) Info() Info { return c.info }

// Sequences returns the sequence dictionary, if any.
func (c *Coverage) Sequences() SequenceDictionary { return c.seqs }

// NumPartitions returns the number of partitions.
func (c *Coverage) NumPartitions() int { return len(c.parts) }

// Partition returns the records of the i'th partition.
func (c *Coverage) Partition(i int) []schema.Coverage { return c.parts[i] }

// Count returns the total number of records.
func (c *Coverage) Count() int64 { return count(c.parts) }

// Collect returns all records, in partition order.
func (c *Coverage) Collect() []schema.Coverage { return collect(c.parts) }

// ContigFragments is a partitioned collection of reference sequence slices.
type ContigFragments struct {
	info  Info
	seqs  SequenceDictionary
	parts [][]schema.NucleotideContigFragment
}

// NewContigFragments creates a ContigFragments handle. It takes ownership of
// parts.
func NewContigFragments(info Info, seqs SequenceDictionary, parts [][]schema.NucleotideContigFragment) *ContigFragments {
	return &ContigFragments{info: info, seqs: seqs, parts: parts}
}

// Info returns the identity of the dataset.
func (c *ContigFragments) Info() Info { return c.info }

// Sequences returns one entry per contig, with its full length.
func (c *ContigFragments) Sequences() SequenceDictionary { return c.seqs }

// NumPartitions returns the number of partitions.
func (c *ContigFragments) NumPartitions() int { return len(c.parts) }

// Partition returns the records of the i'th partition.
func (c *ContigFragments) Partition(i int) []schema.NucleotideContigFragment { return c.parts[i] }

// Count returns the total number of records.
func (c *ContigFragments) Count() int64 { return count(c.parts) }

// Collect returns all records, in partition order.
func (c *ContigFragments) Collect() []schema.NucleotideContigFragment { return collect(c.parts) }

// Fragments is a partitioned collection of read groups sharing a name.
type Fragments struct {
	info   Info
	seqs   SequenceDictionary
	groups []schema.ReadGroup
	parts  [][]schema.Fragment
}

// NewFragments creates a Fragments handle. It takes ownership of parts.
func NewFragments(info Info, seqs SequenceDictionary, groups []schema.ReadGroup, parts [][]schema.Fragment) *Fragments {
	return &Fragments{info: info, seqs: seqs, groups: groups, parts: parts}
}

// Info returns the identity of the dataset.
func (f *Fragments) Info() Info { return f.info }

// Sequences returns the sequence dictionary from the file header, if any.
func (f *Fragments) Sequences() SequenceDictionary { return f.seqs }

// ReadGroups returns the read groups from the file header, if any.
func (f *Fragments) ReadGroups() []schema.ReadGroup { return f.groups }

// NumPartitions returns the number of partitions.
func (f *Fragments) NumPartitions() int { return len(f.parts) }

// Partition returns the records of the i'th partition.
func (f *Fragments) Partition(i int) []schema.Fragment { return f.parts[i] }

// Count returns the total number of records.
func (f *Fragments) Count() int64 { return count(f.parts) }

// Collect returns all records, in partition order.
func (f *Fragments) Collect() []schema.Fragment { return collect(f.parts) }

// Features is a partitioned collection of annotated intervals.
type Features struct {
	info  Info
	seqs  SequenceDictionary
	parts [][]schema.Feature
}

// NewFeatures creates a Features handle. It takes ownership of parts.
func NewFeatures(info Info, seqs SequenceDictionary, parts [][]schema.Feature) *Features {
	return &Features{info: info, seqs: seqs, parts: parts}
}

// Info returns the identity of the dataset.
func (f *Features) Info() Info { return f.info }

// Sequences returns the sequence dictionary, if the format carries one
// (interval_list does).
func (f *Features) Sequences() SequenceDictionary { return f.seqs }

// NumPartitions returns the number of partitions.
func (f *Features) NumPartitions() int { return len(f.parts) }

// Partition returns the records of the i'th partition.
func (f *Features) Partition(i int) []schema.Feature { return f.parts[i] }

// Count returns the total number of records.
func (f *Features) Count() int64 { return count(f.parts) }

// Collect returns all records, in partition order.
func (f *Features) Collect() []schema.Feature { return collect(f.parts) }

// Genotypes is a partitioned collection of per-sample calls.
type Genotypes struct {
	info    Info
	seqs    SequenceDictionary
	samples []string
	parts   [][]schema.Genotype
}

// NewGenotypes creates a Genotypes handle. It takes ownership of parts.
func NewGenotypes(info Info, seqs SequenceDictionary, samples []string, parts [][]schema.Genotype) *Genotypes {
	return &Genotypes{info: info, seqs: seqs, samples: samples, parts: parts}
}

// Info returns the identity of the dataset.
func (g *Genotypes) Info() Info { return g.info }

// Sequences returns the contigs declared in the VCF header.
func (g *Genotypes) Sequences() SequenceDictionary { return g.seqs }

// Samples returns the sample IDs, in VCF column order.
func (g *Genotypes) Samples() []string { return g.samples }

// NumPartitions returns the number of partitions.
func (g *Genotypes) NumPartitions() int { return len(g.parts) }

// Partition returns the records of the i'th partition.
func (g *Genotypes) Partition(i int) []schema.Genotype { return g.parts[i] }

// Count returns the total number of records.
func (g *Genotypes) Count() int64 { return count(g.parts) }

// Collect returns all records, in partition order.
func (g *Genotypes) Collect() []schema.Genotype { return collect(g.parts) }

// Variants is a partitioned collection of sites.
type Variants struct {
	info  Info
	seqs  SequenceDictionary
	parts [][]schema.Variant
}

// NewVariants creates a Variants handle. It takes ownership of parts.
func NewVariants(info Info, seqs SequenceDictionary, parts [][]schema.Variant) *Variants {
	return &Variants{info: info, seqs: seqs, parts: parts}
}

// Info returns the identity of the dataset.
func (v *Variants) Info() Info { return v.info }

// Sequences returns the contigs declared in the VCF header.
func (v *Variants) Sequences() SequenceDictionary { return v.seqs }

// NumPartitions returns the number of partitions.
func (v *Variants) NumPartitions() int { return len(v.parts) }

// Partition returns the records of the i'th partition.
func (v *Variants) Partition(i int) []schema.Variant { return v.parts[i] }

// Count returns the total number of records.
func (v *Variants) Count() int64 { return count(v.parts) }

// Collect returns all records, in partition order.
func (v *Variants) Collect() []schema.Variant { return collect(v.parts) }
