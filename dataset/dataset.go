// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset defines handles to partitioned collections of genomic
// records.
//
// A handle is the unit returned by the loader: it names the source it was
// built from and holds its records split into partitions. Partitions are
// produced independently of one another, typically in parallel, and their
// order follows the order of the input. Handles are immutable once built and
// are safe for concurrent readers.
package dataset

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/grailbio/adam/schema"
)

// Format names the file format a dataset was read from.
type Format string

const (
	BAM          Format = "bam"
	CRAM         Format = "cram"
	SAM          Format = "sam"
	FASTA        Format = "fasta"
	FASTQ        Format = "fastq"
	IFQ          Format = "ifq" // interleaved FASTQ
	BED          Format = "bed"
	GFF3         Format = "gff3"
	GTF          Format = "gtf"
	NarrowPeak   Format = "narrowpeak"
	IntervalList Format = "interval_list"
	VCF          Format = "vcf"
	Parquet      Format = "parquet"
)

// Info identifies a dataset.
type Info struct {
	// ID is unique per handle.
	ID string
	// Path is the pathname the dataset was loaded from.
	Path string
	// Format is the format detected for Path.
	Format Format
}

// NewInfo creates an Info with a fresh ID.
func NewInfo(path string, format Format) Info {
	return Info{ID: uuid.New().String(), Path: path, Format: format}
}

// String implements fmt.Stringer.
func (i Info) String() string {
	return fmt.Sprintf("%s(%s)", i.Path, i.Format)
}

// Derive returns an Info for a dataset computed from i, such as coverage
// computed from features.
func (i Info) Derive() Info {
	return NewInfo(i.Path, i.Format)
}

// SequenceDictionary lists the reference sequences a dataset is defined over.
type SequenceDictionary []schema.SequenceRecord

// Lookup finds the sequence with the given name.
func (d SequenceDictionary) Lookup(name string) (schema.SequenceRecord, bool) {
	for _, s := range d {
		if s.Name == name {
			return s, true
		}
	}
	return schema.SequenceRecord{}, false
}

func count[T any](parts [][]T) int64 {
	var n int64
	for _, p := range parts {
		n += int64(len(p))
	}
	return n
}

func collect[T any](parts [][]T) []T {
	all := make([]T, 0, count(parts))
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

// Chunk splits recs into partitions of at most n records. It always returns
// at least one partition, so that an empty input yields a dataset with one
// empty partition.
func Chunk[T any](recs []T, n int) [][]T {
	if n <= 0 || len(recs) <= n {
		return [][]T{recs}
	}
	parts := make([][]T, 0, (len(recs)+n-1)/n)
	for len(recs) > n {
		parts = append(parts, recs[:n:n])
		recs = recs[n:]
	}
	return append(parts, recs)
}
