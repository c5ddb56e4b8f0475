// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bytes"
	"context"
	"io"

	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/schema"
	"github.com/grailbio/adam/session"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Adapter loads datasets on a session. Its state is derived from the session
// alone, so two adapters for the same session behave identically. Thread
// safe.
type Adapter struct {
	sess *session.Session
	opts session.Opts
}

// NewAdapter creates an Adapter that runs its jobs on sess.
func NewAdapter(sess *session.Session) *Adapter {
	return &Adapter{sess: sess, opts: sess.Opts()}
}

// Session returns the session the adapter runs on.
func (a *Adapter) Session() *session.Session { return a.sess }

// LoadAlignments reads reads from BAM, SAM, FASTA, FASTQ, interleaved FASTQ,
// or Parquet.
func (a *Adapter) LoadAlignments(ctx context.Context, path string) (*dataset.Alignments, error) {
	format := AlignmentFormat(path)
	info := dataset.NewInfo(path, format)
	var (
		seqs   dataset.SequenceDictionary
		groups []schema.ReadGroup
		recs   []schema.AlignmentRecord
		err    error
	)
	switch format {
	case dataset.BAM, dataset.SAM, dataset.CRAM:
		seqs, groups, recs, err = a.readAlignments(ctx, path, format)
	case dataset.FASTA:
		err = a.readText(ctx, path, func(r io.Reader) error {
			fa, err := readFASTA(r)
			recs = fastaReads(fa)
			return err
		})
	case dataset.FASTQ:
		err = a.readText(ctx, path, func(r io.Reader) (err error) {
			recs, err = readFASTQ(r)
			return
		})
	case dataset.IFQ:
		err = a.readText(ctx, path, func(r io.Reader) (err error) {
			recs, err = readIFQ(r)
			return
		})
	case dataset.Parquet:
		parts, e := readParquet[schema.AlignmentRecord](ctx, a.sess, path)
		if e != nil {
			return nil, e
		}
		return loaded(dataset.NewAlignments(info, nil, nil, parts)), nil
	}
	if err != nil {
		return nil, err
	}
	return loaded(dataset.NewAlignments(info, seqs, groups, dataset.Chunk(recs, a.opts.RecordsPerPartition))), nil
}

// LoadFragments reads reads from BAM, SAM, or interleaved FASTQ and groups
// them by name, or reads fragments from Parquet.
func (a *Adapter) LoadFragments(ctx context.Context, path string) (*dataset.Fragments, error) {
	format := FragmentFormat(path)
	info := dataset.NewInfo(path, format)
	var (
		seqs   dataset.SequenceDictionary
		groups []schema.ReadGroup
		recs   []schema.AlignmentRecord
	)
	switch format {
	case dataset.BAM, dataset.SAM, dataset.CRAM:
		var err error
		if seqs, groups, recs, err = a.readAlignments(ctx, path, format); err != nil {
			return nil, err
		}
	case dataset.IFQ:
		err := a.readText(ctx, path, func(r io.Reader) (err error) {
			recs, err = readIFQ(r)
			return
		})
		if err != nil {
			return nil, err
		}
	case dataset.Parquet:
		parts, err := readParquet[schema.Fragment](ctx, a.sess, path)
		if err != nil {
			return nil, err
		}
		return loaded(dataset.NewFragments(info, nil, nil, parts)), nil
	}
	reads := dataset.NewAlignments(info, seqs, groups, [][]schema.AlignmentRecord{recs})
	return loaded(reads.ToFragments(a.opts.FragmentPartitions)), nil
}

// LoadContigFragments reads reference sequences from FASTA, cut into
// fragments of Opts.ContigFragmentLength bases, or reads fragments from
// Parquet.
func (a *Adapter) LoadContigFragments(ctx context.Context, path string) (*dataset.ContigFragments, error) {
	format := ContigFragmentFormat(path)
	info := dataset.NewInfo(path, format)
	if format == dataset.Parquet {
		parts, err := readParquet[schema.NucleotideContigFragment](ctx, a.sess, path)
		if err != nil {
			return nil, err
		}
		return loaded(dataset.NewContigFragments(info, nil, parts)), nil
	}
	var seqs []fastaSeq
	err := a.readText(ctx, path, func(r io.Reader) (err error) {
		seqs, err = readFASTA(r)
		return
	})
	if err != nil {
		return nil, err
	}
	perSeq, dict := fastaContigFragments(seqs, a.opts.ContigFragmentLength)
	var frags []schema.NucleotideContigFragment
	for _, f := range perSeq {
		frags = append(frags, f...)
	}
	return loaded(dataset.NewContigFragments(info, dict, dataset.Chunk(frags, a.opts.RecordsPerPartition))), nil
}

// readAlignments reads a SAM, BAM, or CRAM file as one job on the session.
func (a *Adapter) readAlignments(ctx context.Context, path string, format dataset.Format) (seqs dataset.SequenceDictionary, groups []schema.ReadGroup, recs []schema.AlignmentRecord, err error) {
	err = a.sess.Run(ctx, 1, func(ctx context.Context, _ int) error {
		header, r, err := readSAM(ctx, path, format)
		if err != nil {
			return err
		}
		seqs, groups, recs = headerSequences(header), headerReadGroups(header), r
		return nil
	})
	return
}

// LoadFeatures reads features from BED, GFF3, GTF/GFF2, NarrowPeak,
// interval_list, or Parquet.
func (a *Adapter) LoadFeatures(ctx context.Context, path string) (*dataset.Features, error) {
	feats, err := a.loadFeatures(ctx, path)
	if err != nil {
		return nil, err
	}
	return loaded(feats), nil
}

func (a *Adapter) loadFeatures(ctx context.Context, path string) (*dataset.Features, error) {
	format := FeatureFormat(path)
	info := dataset.NewInfo(path, format)
	switch format {
	case dataset.Parquet:
		parts, err := readParquet[schema.Feature](ctx, a.sess, path)
		if err != nil {
			return nil, err
		}
		return dataset.NewFeatures(info, nil, parts), nil
	case dataset.IntervalList:
		var (
			feats []schema.Feature
			dict  dataset.SequenceDictionary
		)
		err := a.readText(ctx, path, func(r io.Reader) (err error) {
			feats, dict, err = parseIntervalList(r)
			return
		})
		if err != nil {
			return nil, err
		}
		return dataset.NewFeatures(info, dict, dataset.Chunk(feats, a.opts.RecordsPerPartition)), nil
	}
	var parse func(data []byte, offset int64) ([]schema.Feature, error)
	switch format {
	case dataset.BED, dataset.NarrowPeak:
		narrowPeak := format == dataset.NarrowPeak
		parse = func(data []byte, offset int64) ([]schema.Feature, error) {
			return parseBED(bytes.NewReader(data), narrowPeak, offset)
		}
	case dataset.GFF3, dataset.GTF:
		gtf := format == dataset.GTF
		parse = func(data []byte, _ int64) ([]schema.Feature, error) {
			return parseGFF(data, gtf)
		}
	}
	// A GFF3 file may end in a FASTA section, which only a whole-file
	// parse can find.
	parts, err := a.readLines(ctx, path, format != dataset.GFF3, parse)
	if err != nil {
		return nil, err
	}
	return dataset.NewFeatures(info, nil, parts), nil
}

// LoadCoverage loads features as LoadFeatures does and converts them to
// coverage, taking depth from the feature score.
func (a *Adapter) LoadCoverage(ctx context.Context, path string) (*dataset.Coverage, error) {
	if FeatureFormat(path) == dataset.Parquet {
		// Coverage is also stored under its own schema.
		parts, err := readParquet[schema.Coverage](ctx, a.sess, path)
		if err != nil {
			return nil, err
		}
		return loaded(dataset.NewCoverage(dataset.NewInfo(path, dataset.Parquet), nil, parts)), nil
	}
	feats, err := a.loadFeatures(ctx, path)
	if err != nil {
		return nil, err
	}
	return loaded(feats.ToCoverage()), nil
}

// LoadGenotypes reads per-sample calls from VCF or Parquet.
func (a *Adapter) LoadGenotypes(ctx context.Context, path string) (*dataset.Genotypes, error) {
	format := VariantFormat(path)
	info := dataset.NewInfo(path, format)
	if format == dataset.Parquet {
		parts, err := readParquet[schema.Genotype](ctx, a.sess, path)
		if err != nil {
			return nil, err
		}
		return loaded(dataset.NewGenotypes(info, nil, nil, parts)), nil
	}
	var (
		header vcfHeader
		gts    []schema.Genotype
	)
	err := a.readText(ctx, path, func(r io.Reader) error {
		vr, err := newVCFReader(r, true)
		if err != nil {
			return err
		}
		header = vr.header
		for {
			_, g, err := vr.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			gts = append(gts, g...)
		}
	})
	if err != nil {
		return nil, err
	}
	return loaded(dataset.NewGenotypes(info, header.contigs, header.samples, dataset.Chunk(gts, a.opts.RecordsPerPartition))), nil
}

// LoadVariants reads sites from VCF or Parquet. Multi-allelic sites yield
// one variant per alternate allele.
func (a *Adapter) LoadVariants(ctx context.Context, path string) (*dataset.Variants, error) {
	format := VariantFormat(path)
	info := dataset.NewInfo(path, format)
	if format == dataset.Parquet {
		parts, err := readParquet[schema.Variant](ctx, a.sess, path)
		if err != nil {
			return nil, err
		}
		return loaded(dataset.NewVariants(info, nil, parts)), nil
	}
	var (
		header   vcfHeader
		variants []schema.Variant
	)
	err := a.readText(ctx, path, func(r io.Reader) error {
		vr, err := newVCFReader(r, false)
		if err != nil {
			return err
		}
		header = vr.header
		for {
			v, _, err := vr.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			variants = append(variants, v...)
		}
	})
	if err != nil {
		return nil, err
	}
	return loaded(dataset.NewVariants(info, header.contigs, dataset.Chunk(variants, a.opts.RecordsPerPartition))), nil
}

// readText runs parse on the decompressed contents of path, as a single job
// on the session. Errors are annotated with path.
func (a *Adapter) readText(ctx context.Context, path string, parse func(r io.Reader) error) error {
	return a.sess.Run(ctx, 1, func(ctx context.Context, _ int) (err error) {
		in, err := openInput(ctx, path)
		if err != nil {
			return err
		}
		defer func() {
			if e := in.Close(); e != nil && err == nil {
				err = e
			}
		}()
		if err = parse(in.r); err != nil {
			err = errors.E(err, path)
		}
		return
	})
}

// readLines parses a line-oriented file. If splittable is set, an
// uncompressed file is cut into byte-range splits that are parsed in
// parallel, one partition per split. Otherwise the file is parsed in one job
// and chunked by record count. parse is passed the offset of data within the
// decompressed file.
func (a *Adapter) readLines(ctx context.Context, path string, splittable bool, parse func(data []byte, offset int64) ([]schema.Feature, error)) ([][]schema.Feature, error) {
	if _, codec := SplitCodec(path); codec != NoCodec || !splittable {
		var feats []schema.Feature
		err := a.readText(ctx, path, func(r io.Reader) error {
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(r); err != nil {
				return err
			}
			var err error
			feats, err = parse(buf.Bytes(), 0)
			return err
		})
		if err != nil {
			return nil, err
		}
		return dataset.Chunk(feats, a.opts.RecordsPerPartition), nil
	}
	size, err := fileSize(ctx, path)
	if err != nil {
		return nil, err
	}
	splits := PlanSplits(size, a.opts.BytesPerPartition)
	log.Debug.Printf("%s: %d bytes, %d splits", path, size, len(splits))
	parts := make([][]schema.Feature, len(splits))
	err = a.sess.Run(ctx, len(splits), func(ctx context.Context, i int) error {
		data, start, err := readSplit(ctx, path, splits[i])
		if err != nil {
			return err
		}
		if parts[i], err = parse(data, start); err != nil {
			return errors.E(err, path, splits[i].String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parts, nil
}

type summarizer interface {
	Info() dataset.Info
	NumPartitions() int
	Count() int64
}

// loaded logs a summary of a loaded dataset and returns it.
func loaded[D summarizer](d D) D {
	log.Printf("%v: loaded %d records in %d partitions", d.Info(), d.Count(), d.NumPartitions())
	return d
}
