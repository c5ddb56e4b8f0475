// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/schema"
	"github.com/grailbio/base/errors"
)

// parseIntervalList parses a Picard interval_list: a SAM-style header
// followed by "contig start end strand name" lines with 1-based closed
// coordinates. The @SQ header lines become the sequence dictionary.
func parseIntervalList(r io.Reader) ([]schema.Feature, dataset.SequenceDictionary, error) {
	var (
		feats []schema.Feature
		dict  dataset.SequenceDictionary
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxFASTALine)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if line[0] == '@' {
			if strings.HasPrefix(line, "@SQ") {
				seq, err := parseSQLine(line)
				if err != nil {
					return nil, nil, errors.E(err, fmt.Sprintf("line %d", lineIdx))
				}
				dict = append(dict, seq)
			}
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			return nil, nil, errors.E(errors.Invalid, fmt.Sprintf("line %d has %d columns, want 5", lineIdx, len(cols)))
		}
		start, err := strconv.ParseInt(cols[1], 10, 64)
		if err != nil {
			return nil, nil, errors.E(errors.Invalid, err, fmt.Sprintf("line %d: start", lineIdx))
		}
		end, err := strconv.ParseInt(cols[2], 10, 64)
		if err != nil {
			return nil, nil, errors.E(errors.Invalid, err, fmt.Sprintf("line %d: end", lineIdx))
		}
		f := schema.Feature{
			ContigName: cols[0],
			Start:      start - 1,
			End:        end,
			Strand:     schema.StrandUnknown,
		}
		if len(cols) > 3 {
			f.Strand = schema.ParseStrand(cols[3])
		}
		if len(cols) > 4 && cols[4] != "." {
			f.Name = cols[4]
		}
		feats = append(feats, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return feats, dict, nil
}

// parseSQLine parses "@SQ\tSN:chr1\tLN:248956422\tM5:...\tUR:...".
func parseSQLine(line string) (schema.SequenceRecord, error) {
	var seq schema.SequenceRecord
	for _, field := range strings.Split(line, "\t")[1:] {
		if len(field) < 3 || field[2] != ':' {
			continue
		}
		value := field[3:]
		switch field[:2] {
		case "SN":
			seq.Name = value
		case "LN":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return seq, errors.E(errors.Invalid, err, "LN")
			}
			seq.Length = n
		case "M5":
			seq.MD5 = value
		case "UR":
			seq.URL = value
		}
	}
	if seq.Name == "" {
		return seq, errors.E(errors.Invalid, "@SQ line without SN")
	}
	return seq, nil
}
