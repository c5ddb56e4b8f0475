// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads genomic files into partitioned datasets.
//
// The Adapter picks a format from the pathname, decodes the file, and builds
// the partitions by running jobs on a session.Session. Recognized formats,
// per kind of record:
//
//   alignments:       .bam, .cram, .sam, .fa/.fasta, .fq/.fastq, .ifq
//   fragments:        .bam, .cram, .sam, .ifq
//   contig fragments: .fa/.fasta
//   features and
//   coverage:         .bed, .gff3, .gtf/.gff, .narrowPeak/.narrowpeak,
//                     .interval_list
//   genotypes and
//   variants:         .vcf, .vcf.gz, .vcf.bgz
//
// Any other pathname is read as Parquet: either a single file, or a directory
// of *.parquet part files, one partition per part.
//
// Text formats may be compressed; the compression is picked from a trailing
// .gz, .bgz, .bz2 or .zst suffix.  Uncompressed BED, GTF and NarrowPeak files are
// split into byte ranges that are parsed in parallel.  CRAM is
// recognized but not decoded; loading it fails with errors.NotSupported.
package loader
