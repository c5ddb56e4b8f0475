// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/adam/schema"
	"github.com/pkg/errors"
)

var (
	// ErrShortFASTQ is returned when a truncated FASTQ file is encountered.
	ErrShortFASTQ = errors.New("short FASTQ file")
	// ErrInvalidFASTQ is returned when an invalid FASTQ file is encountered.
	ErrInvalidFASTQ = errors.New("invalid FASTQ file")
	// ErrDiscordantFASTQ is returned when consecutive reads of an interleaved
	// FASTQ file do not form a pair.
	ErrDiscordantFASTQ = errors.New("discordant FASTQ pairs")
)

// fastqScanner reads 4-line FASTQ records. It requires ID lines to begin
// with "@" and line 3 to begin with "+", and checks that the sequence and
// quality lines have the same length.
type fastqScanner struct {
	b    *bufio.Scanner
	line int
	err  error
}

func newFASTQScanner(r io.Reader) *fastqScanner {
	s := &fastqScanner{b: bufio.NewScanner(r)}
	s.b.Buffer(nil, maxFASTALine)
	return s
}

// Scan reads the next record into rec. It returns false at the end of the
// input or on error; Err tells them apart.
func (s *fastqScanner) Scan(rec *schema.AlignmentRecord) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		s.err = s.b.Err()
		if s.err == nil {
			s.err = io.EOF
		}
		return false
	}
	s.line++
	id := s.b.Text()
	if len(id) == 0 || id[0] != '@' {
		s.err = errors.Wrapf(ErrInvalidFASTQ, "line %d: read name must start with '@'", s.line)
		return false
	}
	if !s.scan() {
		return false
	}
	seq := s.b.Text()
	if !s.scan() {
		return false
	}
	if unk := s.b.Bytes(); len(unk) == 0 || unk[0] != '+' {
		s.err = errors.Wrapf(ErrInvalidFASTQ, "line %d: separator must start with '+'", s.line)
		return false
	}
	if !s.scan() {
		return false
	}
	qual := s.b.Text()
	if len(qual) != len(seq) {
		s.err = errors.Wrapf(ErrInvalidFASTQ, "line %d: %d bases but %d qualities", s.line, len(seq), len(qual))
		return false
	}
	*rec = schema.AlignmentRecord{
		ReadName:  readName(id[1:]),
		Sequence:  seq,
		Qualities: qual,
		Start:     -1,
		End:       -1,
	}
	return true
}

func (s *fastqScanner) scan() bool {
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errors.Wrapf(ErrShortFASTQ, "line %d", s.line)
		}
		return false
	}
	s.line++
	return true
}

// Err returns the error that stopped Scan, or nil at the end of input.
func (s *fastqScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// readName strips the description, if any, from a FASTQ ID line.
func readName(id string) string {
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		return id[:i]
	}
	return id
}

// mateName strips a trailing /1 or /2 mate suffix.
func mateName(name string) string {
	if n := len(name); n > 2 && name[n-2] == '/' && (name[n-1] == '1' || name[n-1] == '2') {
		return name[:n-2]
	}
	return name
}

// readFASTQ reads all the records of r.
func readFASTQ(r io.Reader) ([]schema.AlignmentRecord, error) {
	s := newFASTQScanner(r)
	var (
		recs []schema.AlignmentRecord
		rec  schema.AlignmentRecord
	)
	for s.Scan(&rec) {
		recs = append(recs, rec)
	}
	return recs, s.Err()
}

// readIFQ reads an interleaved FASTQ file, where reads 2k and 2k+1 are the
// first and second read of a pair. Mate suffixes are removed from the names.
func readIFQ(r io.Reader) ([]schema.AlignmentRecord, error) {
	recs, err := readFASTQ(r)
	if err != nil {
		return nil, err
	}
	if len(recs)%2 != 0 {
		return nil, errors.Wrapf(ErrShortFASTQ, "odd number of reads (%d) in interleaved FASTQ", len(recs))
	}
	for i := 0; i < len(recs); i += 2 {
		r1, r2 := &recs[i], &recs[i+1]
		r1.ReadName, r2.ReadName = mateName(r1.ReadName), mateName(r2.ReadName)
		if r1.ReadName != r2.ReadName {
			return nil, errors.Wrapf(ErrDiscordantFASTQ, "reads %q and %q", r1.ReadName, r2.ReadName)
		}
		r1.ReadPaired, r2.ReadPaired = true, true
		r1.ReadInFragment, r2.ReadInFragment = 0, 1
	}
	return recs, nil
}
