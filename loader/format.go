// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"strings"

	"github.com/grailbio/adam/dataset"
	"v.io/x/lib/vlog"
)

// Codec is a compression scheme applied to a whole file.
type Codec int

const (
	// NoCodec means the file is stored as is.
	NoCodec Codec = iota
	// Gzip is RFC 1952 gzip, including multi-member files such as BGZF.
	Gzip
	// BGZF is the blocked gzip format used by htslib, suffix ".bgz".
	BGZF
	// Bzip2 is bzip2, suffix ".bz2".
	Bzip2
	// Zstd is zstandard, suffix ".zst".
	Zstd
)

var codecSuffixes = []struct {
	suffix string
	codec  Codec
}{
	{".gz", Gzip},
	{".bgz", BGZF},
	{".bz2", Bzip2},
	{".zst", Zstd},
}

// SplitCodec strips a compression suffix from path. It returns the remaining
// pathname and the codec the suffix names.
func SplitCodec(path string) (string, Codec) {
	for _, c := range codecSuffixes {
		if strings.HasSuffix(path, c.suffix) {
			return strings.TrimSuffix(path, c.suffix), c.codec
		}
	}
	return path, NoCodec
}

func hasAnySuffix(path string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// binaryReadFormat detects the formats that carry their own compression.
func binaryReadFormat(path string) (dataset.Format, bool) {
	switch {
	case strings.HasSuffix(path, ".bam"):
		return dataset.BAM, true
	case strings.HasSuffix(path, ".cram"):
		return dataset.CRAM, true
	}
	return "", false
}

// AlignmentFormat returns the format LoadAlignments uses for path.
func AlignmentFormat(path string) dataset.Format {
	if f, ok := binaryReadFormat(path); ok {
		return f
	}
	base, _ := SplitCodec(path)
	var f dataset.Format
	switch {
	case strings.HasSuffix(base, ".sam"):
		f = dataset.SAM
	case hasAnySuffix(base, ".fa", ".fasta"):
		f = dataset.FASTA
	case hasAnySuffix(base, ".fq", ".fastq"):
		f = dataset.FASTQ
	case strings.HasSuffix(base, ".ifq"):
		f = dataset.IFQ
	default:
		f = dataset.Parquet
	}
	vlog.VI(1).Infof("%v: alignment format %v", path, f)
	return f
}

// FragmentFormat returns the format LoadFragments uses for path.
func FragmentFormat(path string) dataset.Format {
	if f, ok := binaryReadFormat(path); ok {
		return f
	}
	base, _ := SplitCodec(path)
	switch {
	case strings.HasSuffix(base, ".sam"):
		return dataset.SAM
	case strings.HasSuffix(base, ".ifq"):
		return dataset.IFQ
	}
	return dataset.Parquet
}

// ContigFragmentFormat returns the format LoadContigFragments uses for path.
func ContigFragmentFormat(path string) dataset.Format {
	base, _ := SplitCodec(path)
	if hasAnySuffix(base, ".fa", ".fasta") {
		return dataset.FASTA
	}
	return dataset.Parquet
}

// FeatureFormat returns the format LoadFeatures and LoadCoverage use for path.
func FeatureFormat(path string) dataset.Format {
	base, _ := SplitCodec(path)
	switch {
	case strings.HasSuffix(base, ".bed"):
		return dataset.BED
	case strings.HasSuffix(base, ".gff3"):
		return dataset.GFF3
	case hasAnySuffix(base, ".gtf", ".gff"):
		return dataset.GTF
	case hasAnySuffix(base, ".narrowPeak", ".narrowpeak"):
		return dataset.NarrowPeak
	case strings.HasSuffix(base, ".interval_list"):
		return dataset.IntervalList
	}
	return dataset.Parquet
}

// VariantFormat returns the format LoadGenotypes and LoadVariants use for
// path.
func VariantFormat(path string) dataset.Format {
	if hasAnySuffix(path, ".vcf", ".vcf.gz", ".vcf.bgz") {
		return dataset.VCF
	}
	return dataset.Parquet
}
