// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/adam/schema"
)

// ToCoverage converts each feature into a coverage interval whose depth is
// the feature score. Features without a score get depth 0. The result has the
// same partitioning as f.
func (f *Features) ToCoverage() *Coverage {
	parts := make([][]schema.Coverage, len(f.parts))
	for i, p := range f.parts {
		cov := make([]schema.Coverage, len(p))
		for j, feat := range p {
			cov[j] = schema.Coverage{
				ContigName: feat.ContigName,
				Start:      feat.Start,
				End:        feat.End,
			}
			if feat.Score != nil {
				cov[j].Count = *feat.Score
			}
			if s, ok := feat.Attributes["sampleId"]; ok {
				cov[j].SampleID = s
			}
		}
		parts[i] = cov
	}
	return NewCoverage(f.info.Derive(), f.seqs, parts)
}

// FragmentPartition returns the partition that reads named name is assigned
// to, out of n.
func FragmentPartition(name string, n int) int {
	return int(farm.Hash64([]byte(name)) % uint64(n))
}

// ToFragments groups reads by name into fragments spread over n partitions.
// All reads of a name land in the same partition, so mates that were far
// apart in the input are joined. Within a partition, fragments appear in the
// order their first read appears in a; within a fragment, reads keep their
// input order. If n <= 0, one partition is used.
func (a *Alignments) ToFragments(n int) *Fragments {
	if n <= 0 {
		n = 1
	}
	type group struct {
		part, idx int
	}
	parts := make([][]schema.Fragment, n)
	index := make(map[string]group)
	for _, p := range a.parts {
		for _, r := range p {
			g, ok := index[r.ReadName]
			if !ok {
				g.part = FragmentPartition(r.ReadName, n)
				g.idx = len(parts[g.part])
				parts[g.part] = append(parts[g.part], schema.Fragment{ReadName: r.ReadName})
				index[r.ReadName] = g
			}
			frag := &parts[g.part][g.idx]
			frag.Alignments = append(frag.Alignments, r)
			if frag.FragmentSize == 0 && r.InferredInsertSize != 0 {
				frag.FragmentSize = abs(r.InferredInsertSize)
			}
		}
	}
	return NewFragments(a.info.Derive(), a.seqs, a.groups, parts)
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
