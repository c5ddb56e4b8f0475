// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/brentp/vcfgo"
	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/schema"
	"github.com/grailbio/base/errors"
)

// Columns of a VCF data line.
const (
	vcfChrom = iota
	vcfPos
	vcfID
	vcfRef
	vcfAlt
	vcfQual
	vcfFilter
	vcfInfo
	vcfFormat
	vcfFirstSample
)

// vcfHeader is what the loader needs from the VCF meta lines.
type vcfHeader struct {
	contigs dataset.SequenceDictionary
	samples []string
}

// vcfReader parses VCF text. Each data line yields one site with its split
// variants and, optionally, its genotypes. The meta lines and the records are
// decoded by vcfgo; the reader frames lines and checks column counts first.
type vcfReader struct {
	scanner   *bufio.Scanner
	rec       *vcfgo.Reader
	header    vcfHeader
	lineIdx   int
	genotypes bool
}

// newVCFReader reads the meta and column-header lines of r. If genotypes is
// false, the sample columns are not parsed.
func newVCFReader(r io.Reader, genotypes bool) (*vcfReader, error) {
	vr := &vcfReader{scanner: bufio.NewScanner(r), genotypes: genotypes}
	vr.scanner.Buffer(nil, maxFASTALine)
	var (
		meta    bytes.Buffer
		columns bool
	)
	for !columns && vr.scanner.Scan() {
		vr.lineIdx++
		line := vr.scanner.Bytes()
		if !bytes.HasPrefix(line, []byte("#")) {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: expect a header line, found %q", vr.lineIdx, line))
		}
		columns = bytes.HasPrefix(line, []byte("#CHROM"))
		meta.Write(bytes.TrimRight(line, "\r"))
		meta.WriteByte('\n')
	}
	if err := vr.scanner.Err(); err != nil {
		return nil, err
	}
	if !columns {
		return nil, errors.E(errors.Invalid, "missing #CHROM header line")
	}
	rec, err := vcfgo.NewReader(&meta, !genotypes)
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "vcf header")
	}
	vr.rec = rec
	for _, contig := range rec.Header.Contigs {
		seq, err := vcfContig(contig)
		if err != nil {
			return nil, err
		}
		vr.header.contigs = append(vr.header.contigs, seq)
	}
	vr.header.samples = rec.Header.SampleNames
	return vr, nil
}

// vcfContig converts the key-value pairs of a ##contig line.
func vcfContig(contig map[string]string) (schema.SequenceRecord, error) {
	seq := schema.SequenceRecord{Name: contig["ID"], MD5: contig["md5"], URL: contig["URL"]}
	if l, ok := contig["length"]; ok {
		n, err := strconv.ParseInt(l, 10, 64)
		if err != nil {
			return seq, errors.E(errors.Invalid, err, "contig", seq.Name, "length")
		}
		seq.Length = n
	}
	return seq, nil
}

// Next parses the next data line. It returns io.EOF after the last line.
// The variants are one per alternate allele; the genotypes, if requested, are
// one per sample per variant, ordered variant-major.
func (vr *vcfReader) Next() (variants []schema.Variant, genotypes []schema.Genotype, err error) {
	for vr.scanner.Scan() {
		vr.lineIdx++
		line := strings.TrimRight(vr.scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		variants, genotypes, err = vr.parseLine(line)
		if err != nil {
			err = errors.E(errors.Invalid, err, fmt.Sprintf("line %d", vr.lineIdx))
		}
		return
	}
	if err = vr.scanner.Err(); err == nil {
		err = io.EOF
	}
	return nil, nil, err
}

func (vr *vcfReader) parseLine(line string) ([]schema.Variant, []schema.Genotype, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < vcfInfo+1 {
		return nil, nil, fmt.Errorf("%d columns, want at least %d", len(cols), vcfInfo+1)
	}
	samples := vr.header.samples
	if !vr.genotypes || len(samples) == 0 {
		cols = cols[:vcfInfo+1]
	} else if len(cols) != vcfFirstSample+len(samples) {
		return nil, nil, fmt.Errorf("%d columns, want %d for %d samples", len(cols), vcfFirstSample+len(samples), len(samples))
	} else {
		padSamples(cols)
	}
	fields := make([][]byte, vcfFormat, vcfFormat+1)
	for i := range fields {
		fields[i] = []byte(cols[i])
	}
	if len(cols) > vcfFormat {
		fields = append(fields, []byte(strings.Join(cols[vcfFormat:], "\t")))
	}
	vr.rec.LineNumber = int64(vr.lineIdx)
	v := vr.rec.Parse(fields)
	if err := vr.rec.Error(); err != nil {
		vr.rec.Clear()
		return nil, nil, err
	}

	alts := []string{""}
	if len(v.Alternate) != 1 || v.Alternate[0] != "." {
		alts = v.Alternate
	}
	variants := make([]schema.Variant, len(alts))
	for i, alt := range alts {
		variants[i] = vcfVariant(v, alt)
	}
	if len(cols) <= vcfFormat {
		return variants, nil, nil
	}
	genotypes := make([]schema.Genotype, 0, len(variants)*len(samples))
	for altIdx, alt := range alts {
		for s, sample := range samples {
			g, err := vcfGenotype(v.Samples[s], altIdx+1)
			if err != nil {
				return nil, nil, fmt.Errorf("sample %s: %v", sample, err)
			}
			g.Variant = vcfVariant(v, alt)
			g.SampleID = sample
			genotypes = append(genotypes, g)
		}
	}
	return variants, genotypes, nil
}

// padSamples fills the trailing FORMAT values a sample column may omit.
func padSamples(cols []string) {
	n := strings.Count(cols[vcfFormat], ":")
	for i := vcfFirstSample; i < len(cols); i++ {
		if m := strings.Count(cols[i], ":"); m < n {
			cols[i] += strings.Repeat(":.", n-m)
		}
	}
}

// vcfVariant builds the split variant for one alternate allele. Each call
// allocates its own slices and maps.
func vcfVariant(v *vcfgo.Variant, alt string) schema.Variant {
	variant := schema.Variant{
		ContigName:      v.Chromosome,
		Start:           int64(v.Pos) - 1,
		End:             int64(v.Pos) - 1 + int64(len(v.Reference)),
		ReferenceAllele: v.Reference,
		AlternateAllele: alt,
	}
	if id := v.Id(); id != "." {
		variant.Names = strings.Split(id, ";")
	}
	if math.Float32bits(v.Quality) != math.Float32bits(vcfgo.MISSING_VAL) {
		qual := float64(v.Quality)
		variant.Quality = &qual
	}
	switch v.Filter {
	case ".":
	case "PASS":
		variant.FiltersApplied, variant.FiltersPassed = true, true
	default:
		variant.FiltersApplied = true
		variant.FiltersFailed = strings.Split(v.Filter, ";")
	}
	if info := v.Info().Bytes(); len(info) > 0 {
		variant.Info = map[string]string{}
		for _, kv := range strings.Split(string(info), ";") {
			if i := strings.IndexByte(kv, '='); i >= 0 {
				variant.Info[kv[:i]] = kv[i+1:]
			} else {
				variant.Info[kv] = ""
			}
		}
	}
	return variant
}

// vcfGenotype converts one parsed sample. altAllele is the 1-based allele
// index that the genotype's variant stands for.
func vcfGenotype(sg *vcfgo.SampleGenotype, altAllele int) (schema.Genotype, error) {
	g := schema.Genotype{Phased: sg.Phased}
	for _, idx := range sg.GT {
		g.Alleles = append(g.Alleles, genotypeAllele(idx, altAllele))
	}
	var err error
	if g.ReadDepth, err = optInt32(sg.Fields["DP"]); err != nil {
		return g, err
	}
	if g.GenotypeQuality, err = optInt32(sg.Fields["GQ"]); err != nil {
		return g, err
	}
	return g, nil
}

func genotypeAllele(idx, altAllele int) schema.GenotypeAllele {
	switch idx {
	case -1:
		return schema.AlleleNoCall
	case 0:
		return schema.AlleleRef
	case altAllele:
		return schema.AlleleAlt
	}
	return schema.AlleleOtherAlt
}

func optInt32(v string) (*int32, error) {
	if v == "." || v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, err
	}
	x := int32(n)
	return &x, nil
}
