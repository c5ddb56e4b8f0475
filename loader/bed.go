// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/adam/schema"
	"github.com/grailbio/base/errors"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Names of the BED columns past the sixth, in column order, and of the
// NarrowPeak columns past the sixth.
var (
	bedExtraColumns        = []string{"thickStart", "thickEnd", "itemRgb", "blockCount", "blockSizes", "blockStarts"}
	narrowPeakExtraColumns = []string{"signalValue", "pValue", "qValue", "peak"}
)

// isBEDMetaLine reports whether line carries no interval: a comment, or a
// UCSC "track"/"browser" line.
func isBEDMetaLine(line []byte) bool {
	return line[0] == '#' || bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser"))
}

// parseBED parses BED3 to BED12 lines, or NarrowPeak lines if narrowPeak is
// set. BED coordinates are already 0-based half-open. offset is the file
// position of r's first byte; errors name the file position of the bad line.
func parseBED(r io.Reader, narrowPeak bool, offset int64) ([]schema.Feature, error) {
	var feats []schema.Feature
	extra := bedExtraColumns
	if narrowPeak {
		extra = narrowPeakExtraColumns
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxFASTALine)
	pos, next := offset, offset
	for scanner.Scan() {
		pos, next = next, next+int64(len(scanner.Bytes()))+1
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 || isBEDMetaLine(line) {
			continue
		}
		cols := bytes.Split(line, []byte{'\t'})
		if len(cols) < 3 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line at byte %d has %d columns, want at least 3", pos, len(cols)))
		}
		if narrowPeak && len(cols) != 10 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line at byte %d has %d columns, NarrowPeak needs 10", pos, len(cols)))
		}
		f := schema.Feature{
			ContigName: string(cols[0]),
			Strand:     schema.StrandUnknown,
		}
		var err error
		if f.Start, err = strconv.ParseInt(gunsafe.BytesToString(cols[1]), 10, 64); err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("line at byte %d: start", pos))
		}
		if f.End, err = strconv.ParseInt(gunsafe.BytesToString(cols[2]), 10, 64); err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("line at byte %d: end", pos))
		}
		if len(cols) > 3 && !isMissing(cols[3]) {
			f.Name = string(cols[3])
		}
		if len(cols) > 4 && !isMissing(cols[4]) {
			score, err := strconv.ParseFloat(gunsafe.BytesToString(cols[4]), 64)
			if err != nil {
				return nil, errors.E(errors.Invalid, err, fmt.Sprintf("line at byte %d: score", pos))
			}
			f.Score = &score
		}
		if len(cols) > 5 {
			f.Strand = schema.ParseStrand(string(cols[5]))
		}
		for i := 6; i < len(cols) && i-6 < len(extra); i++ {
			if f.Attributes == nil {
				f.Attributes = make(map[string]string)
			}
			f.Attributes[extra[i-6]] = string(cols[i])
		}
		feats = append(feats, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return feats, nil
}

func isMissing(col []byte) bool {
	return len(col) == 0 || (len(col) == 1 && col[0] == '.')
}
