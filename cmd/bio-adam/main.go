// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"os"

	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/adam/session"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

func init() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(awssession.Options{}), s3file.Options{})
	})
}

// loadFlags are the flags shared by all subcommands.
type loadFlags struct {
	parallelism          *int
	bytesPerPartition    *int64
	recordsPerPartition  *int
	fragmentPartitions   *int
	contigFragmentLength *int64
	head                 *int
}

func (f loadFlags) opts() session.Opts {
	return session.Opts{
		Parallelism:          *f.parallelism,
		BytesPerPartition:    *f.bytesPerPartition,
		RecordsPerPartition:  *f.recordsPerPartition,
		FragmentPartitions:   *f.fragmentPartitions,
		ContigFragmentLength: *f.contigFragmentLength,
	}
}

func newCmdLoad(k kind, short string) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     string(k),
		Short:    short,
		ArgsName: "path",
	}
	flags := loadFlags{
		parallelism:          cmd.Flags.Int("parallelism", 0, "Max number of partition jobs run concurrently. 0 means runtime.NumCPU()"),
		bytesPerPartition:    cmd.Flags.Int64("bytes-per-partition", session.DefaultBytesPerPartition, "Target size of a byte-range split of an uncompressed text input"),
		recordsPerPartition:  cmd.Flags.Int("records-per-partition", session.DefaultRecordsPerPartition, "Max number of records per partition of an input that is read in one pass"),
		fragmentPartitions:   cmd.Flags.Int("fragment-partitions", 0, "Number of partitions reads are hashed into when grouped by name. 0 means -parallelism"),
		contigFragmentLength: cmd.Flags.Int64("contig-fragment-length", session.DefaultContigFragmentLength, "Max number of bases in a contig fragment"),
		head:                 cmd.Flags.Int("head", 0, "Print the first N records"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("%s takes one pathname argument, but got %v", k, argv)
		}
		return run(vcontext.Background(), os.Stdout, k, argv[0], flags.opts(), *flags.head)
	})
	return cmd
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-adam",
			Short:    "Load genomic datasets and summarize them",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdLoad(kindAlignments, "Load reads from BAM, SAM, FASTA, FASTQ, interleaved FASTQ or Parquet"),
				newCmdLoad(kindCoverage, "Load coverage from a feature file or Parquet"),
				newCmdLoad(kindContigs, "Load reference sequence fragments from FASTA or Parquet"),
				newCmdLoad(kindFragments, "Load reads grouped by name from BAM, SAM, interleaved FASTQ or Parquet"),
				newCmdLoad(kindFeatures, "Load features from BED, GFF3, GTF, NarrowPeak, interval_list or Parquet"),
				newCmdLoad(kindGenotypes, "Load genotypes from VCF or Parquet"),
				newCmdLoad(kindVariants, "Load variants from VCF or Parquet"),
			},
		})
}
