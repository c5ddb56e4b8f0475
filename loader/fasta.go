// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/schema"
	"github.com/pkg/errors"
)

// maxFASTALine bounds the length of a single FASTA line.
const maxFASTALine = 1024 * 1024 * 300 // 300 MB

// fastaSeq is one named sequence of a FASTA file. The name is the text after
// '>' up to the first space; the rest of the header line is the description.
type fastaSeq struct {
	name, desc string
	seq        string
}

// readFASTA reads all the sequences of r, in order of appearance. Blank lines
// are ignored, and lines are concatenated without their newlines.
func readFASTA(r io.Reader) ([]fastaSeq, error) {
	var (
		seqs []fastaSeq
		cur  *fastaSeq
		seq  strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.seq = seq.String()
			seqs = append(seqs, *cur)
			seq.Reset()
		}
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxFASTALine)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			flush()
			header := line[1:]
			cur = &fastaSeq{name: header}
			if i := strings.IndexAny(header, " \t"); i >= 0 {
				cur.name, cur.desc = header[:i], strings.TrimSpace(header[i+1:])
			}
			if cur.name == "" {
				return nil, errors.Errorf("malformed FASTA file: empty sequence name")
			}
			continue
		}
		if cur == nil {
			return nil, errors.Errorf("malformed FASTA file: sequence data before the first header")
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA data")
	}
	flush()
	return seqs, nil
}

// fastaReads converts each sequence into an unaligned read.
func fastaReads(seqs []fastaSeq) []schema.AlignmentRecord {
	recs := make([]schema.AlignmentRecord, len(seqs))
	for i, s := range seqs {
		recs[i] = schema.AlignmentRecord{
			ReadName: s.name,
			Sequence: s.seq,
			Start:    -1,
			End:      -1,
		}
	}
	return recs
}

// fastaContigFragments cuts each sequence into fragments of at most maxLen
// bases. It returns the fragments of each sequence and the dictionary of the
// full sequences.
func fastaContigFragments(seqs []fastaSeq, maxLen int64) ([][]schema.NucleotideContigFragment, dataset.SequenceDictionary) {
	frags := make([][]schema.NucleotideContigFragment, len(seqs))
	dict := make(dataset.SequenceDictionary, len(seqs))
	for i, s := range seqs {
		n := int64(len(s.seq))
		dict[i] = schema.SequenceRecord{Name: s.name, Length: n}
		nFrags := (n + maxLen - 1) / maxLen
		if nFrags == 0 {
			nFrags = 1
		}
		perSeq := make([]schema.NucleotideContigFragment, nFrags)
		for j := int64(0); j < nFrags; j++ {
			start, end := j*maxLen, (j+1)*maxLen
			if end > n {
				end = n
			}
			perSeq[j] = schema.NucleotideContigFragment{
				ContigName:   s.name,
				Description:  s.desc,
				Sequence:     s.seq[start:end],
				Index:        int32(j),
				Start:        start,
				End:          end,
				ContigLength: n,
				Fragments:    int32(nFrags),
			}
		}
		frags[i] = perSeq
	}
	return frags, dict
}
