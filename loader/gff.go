// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bufio"
	"bytes"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/grailbio/adam/schema"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// gffRecord is one line of a GFF3 or GTF file. Columns are positional.
type gffRecord struct {
	Seqid      string
	Source     string
	Type       string
	Start      int // 1-based
	End        int // 1-based, closed
	Score      string
	Strand     string
	Phase      string
	Attributes string
}

// fastaDirective starts the trailing sequence section of a GFF3 file.
var fastaDirective = []byte("##FASTA")

// parseGFF parses GFF3 (gtf=false) or GTF/GFF2 (gtf=true) data.
func parseGFF(data []byte, gtf bool) ([]schema.Feature, error) {
	if i := bytes.Index(data, fastaDirective); i >= 0 && (i == 0 || data[i-1] == '\n') {
		data = data[:i]
	}
	scanner := tsv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	scanner.Comment = '#'
	scanner.LazyQuotes = true
	var (
		feats []schema.Feature
		line  gffRecord
	)
	for {
		if err := scanner.Read(&line); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err)
		}
		f := schema.Feature{
			ContigName:  line.Seqid,
			Source:      missingToEmpty(line.Source),
			FeatureType: missingToEmpty(line.Type),
			Start:       int64(line.Start - 1),
			End:         int64(line.End),
			Strand:      schema.ParseStrand(line.Strand),
		}
		if line.Score != "." && line.Score != "" {
			score, err := strconv.ParseFloat(line.Score, 64)
			if err != nil {
				return nil, errors.E(errors.Invalid, err, "score")
			}
			f.Score = &score
		}
		if line.Phase != "." && line.Phase != "" {
			phase, err := strconv.ParseInt(line.Phase, 10, 32)
			if err != nil {
				return nil, errors.E(errors.Invalid, err, "phase")
			}
			p := int32(phase)
			f.Phase = &p
		}
		var attrs map[string]string
		if gtf {
			attrs = parseGTFAttributes(line.Attributes)
		} else {
			attrs = parseGFF3Attributes(line.Attributes)
		}
		setFeatureAttributes(&f, attrs)
		feats = append(feats, f)
	}
	return feats, nil
}

func missingToEmpty(s string) string {
	if s == "." {
		return ""
	}
	return s
}

// parseGFF3Attributes parses "ID=gene1;Name=foo%3Bbar;Parent=a,b". Values are
// percent-decoded.
func parseGFF3Attributes(s string) map[string]string {
	attrs := map[string]string{}
	for _, kv := range strings.Split(s, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" || kv == "." {
			continue
		}
		key, value := kv, ""
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key, value = kv[:i], kv[i+1:]
		}
		if v, err := url.PathUnescape(value); err == nil {
			value = v
		}
		attrs[key] = value
	}
	return attrs
}

// parseGTFAttributes parses `gene_id "G1"; transcript_id "T1"; exon_number 2;`.
func parseGTFAttributes(s string) map[string]string {
	attrs := map[string]string{}
	for _, kv := range strings.Split(s, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value := kv, ""
		if i := strings.IndexAny(kv, " \t"); i >= 0 {
			key, value = kv[:i], strings.TrimSpace(kv[i+1:])
		}
		attrs[key] = strings.Trim(value, `"`)
	}
	return attrs
}

// setFeatureAttributes moves well-known attributes into their dedicated
// fields and keeps the rest in f.Attributes.
func setFeatureAttributes(f *schema.Feature, attrs map[string]string) {
	take := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := attrs[k]; ok {
				delete(attrs, k)
				return v
			}
		}
		return ""
	}
	f.FeatureID = take("ID")
	f.Name = take("Name", "gene_name")
	f.GeneID = take("gene_id")
	f.TranscriptID = take("transcript_id")
	f.ExonID = take("exon_id")
	if parent := take("Parent"); parent != "" {
		f.ParentIDs = strings.Split(parent, ",")
	}
	if len(attrs) > 0 {
		f.Attributes = attrs
	}
}
