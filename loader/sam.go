// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"context"
	"encoding/hex"
	"io"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/schema"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

var (
	rgTag = sam.NewTag("RG")
	smTag = sam.NewTag("SM")
	plTag = sam.NewTag("PL")
)

// samRecordReader is implemented by both bam.Reader and sam.Reader.
type samRecordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

// readSAM reads a BAM or SAM file in one pass. It returns the header and all
// records, converted.
func readSAM(ctx context.Context, path string, format dataset.Format) (header *sam.Header, recs []schema.AlignmentRecord, err error) {
	var (
		rr     samRecordReader
		closer func() error
	)
	switch format {
	case dataset.BAM:
		// BGZF decoding is done by the BAM reader, so the file is opened raw.
		in, err := file.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		br, err := bam.NewReader(in.Reader(ctx), 1)
		if err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, nil, errors.E(err, "bam", path)
		}
		rr = br
		closer = func() error {
			err := errors.Once{}
			err.Set(br.Close())
			err.Set(in.Close(ctx))
			return err.Err()
		}
	case dataset.SAM:
		in, err := openInput(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		sr, err := sam.NewReader(in.r)
		if err != nil {
			in.Close() // nolint: errcheck
			return nil, nil, errors.E(err, errors.Invalid, "sam", path)
		}
		rr, closer = sr, in.Close
	case dataset.CRAM:
		return nil, nil, errors.E(errors.NotSupported, "cram", path, "CRAM decoding is not supported")
	default:
		panic(format)
	}
	defer func() {
		if e := closer(); e != nil && err == nil {
			err = e
		}
	}()
	for {
		rec, e := rr.Read()
		if e == io.EOF {
			break
		}
		if e != nil {
			return nil, nil, errors.E(e, errors.Invalid, path)
		}
		recs = append(recs, convertSAMRecord(rec))
	}
	return rr.Header(), recs, nil
}

// convertSAMRecord converts rec into an AlignmentRecord. The result does not
// share memory with rec.
func convertSAMRecord(rec *sam.Record) schema.AlignmentRecord {
	f := rec.Flags
	r := schema.AlignmentRecord{
		ReadName:  rec.Name,
		Sequence:  string(rec.Seq.Expand()),
		Qualities: qualString(rec.Qual),
		Start:     int64(rec.Pos),
		End:       int64(rec.Pos),
		MapQ:      int32(rec.MapQ),

		ReadMapped:             f&sam.Unmapped == 0,
		ReadPaired:             f&sam.Paired != 0,
		ProperPair:             f&sam.ProperPair != 0,
		ReadNegativeStrand:     f&sam.Reverse != 0,
		SecondaryAlignment:     f&sam.Secondary != 0,
		SupplementaryAlignment: f&sam.Supplementary != 0,
		DuplicateRead:          f&sam.Duplicate != 0,
		FailedVendorQuality:    f&sam.QCFail != 0,

		MateMapped:         f&sam.Paired != 0 && f&sam.MateUnmapped == 0,
		MateNegativeStrand: f&sam.MateReverse != 0,
		MateStart:          int64(rec.MatePos),
		InferredInsertSize: int64(rec.TempLen),
	}
	r.PrimaryAlignment = r.ReadMapped && !r.SecondaryAlignment && !r.SupplementaryAlignment
	if f&sam.Read2 != 0 {
		r.ReadInFragment = 1
	}
	if rec.Ref != nil {
		r.ContigName = rec.Ref.Name()
	}
	if r.ReadMapped {
		r.End = int64(rec.End())
	}
	if rec.MateRef != nil {
		r.MateContigName = rec.MateRef.Name()
	}
	if len(rec.Cigar) > 0 {
		r.Cigar = rec.Cigar.String()
	}
	if len(rec.AuxFields) > 0 {
		attrs := make([]string, len(rec.AuxFields))
		for i, aux := range rec.AuxFields {
			attrs[i] = aux.String()
			if aux.Tag() == rgTag {
				if id, ok := aux.Value().(string); ok {
					r.ReadGroupID = id
				}
			}
		}
		r.Attributes = strings.Join(attrs, "\t")
	}
	return r
}

// qualString renders phred scores as FASTQ-style text. A quality string made
// of 0xff bytes denotes missing qualities and yields "".
func qualString(qual []byte) string {
	if len(qual) == 0 || qual[0] == 0xff {
		return ""
	}
	b := make([]byte, len(qual))
	for i, q := range qual {
		b[i] = q + 33
	}
	return string(b)
}

// headerSequences extracts the sequence dictionary of a SAM header.
func headerSequences(h *sam.Header) dataset.SequenceDictionary {
	refs := h.Refs()
	if len(refs) == 0 {
		return nil
	}
	seqs := make(dataset.SequenceDictionary, len(refs))
	for i, ref := range refs {
		seqs[i] = schema.SequenceRecord{
			Name:   ref.Name(),
			Length: int64(ref.Len()),
			MD5:    hex.EncodeToString(ref.MD5()),
		}
	}
	return seqs
}

// headerReadGroups extracts the @RG lines of a SAM header.
func headerReadGroups(h *sam.Header) []schema.ReadGroup {
	rgs := h.RGs()
	if len(rgs) == 0 {
		return nil
	}
	groups := make([]schema.ReadGroup, len(rgs))
	for i, rg := range rgs {
		groups[i] = schema.ReadGroup{
			ID:       rg.Name(),
			Sample:   rg.Get(smTag),
			Library:  rg.Library(),
			Platform: rg.Get(plTag),
		}
	}
	return groups
}
