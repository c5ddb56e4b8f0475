// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package schema

// SequenceRecord describes one reference sequence (contig) of a sequence
// dictionary.
type SequenceRecord struct {
	Name   string `parquet:"name"`
	Length int64  `parquet:"length"`
	URL    string `parquet:"url,optional"`
	MD5    string `parquet:"md5,optional"`
}

// ReadGroup describes a sequencing read group, as found in @RG header lines.
type ReadGroup struct {
	ID       string `parquet:"id"`
	Sample   string `parquet:"sample,optional"`
	Library  string `parquet:"library,optional"`
	Platform string `parquet:"platform,optional"`
}

// AlignmentRecord is a single read, aligned or not.
type AlignmentRecord struct {
	ReadName  string `parquet:"readName"`
	Sequence  string `parquet:"sequence"`
	Qualities string `parquet:"qualities,optional"`

	ContigName string `parquet:"contigName,optional"`
	Start      int64  `parquet:"start"`
	End        int64  `parquet:"end"`
	MapQ       int32  `parquet:"mapq"`
	Cigar      string `parquet:"cigar,optional"`

	ReadMapped             bool  `parquet:"readMapped"`
	ReadPaired             bool  `parquet:"readPaired"`
	ReadInFragment         int32 `parquet:"readInFragment"`
	ProperPair             bool  `parquet:"properPair"`
	ReadNegativeStrand     bool  `parquet:"readNegativeStrand"`
	PrimaryAlignment       bool  `parquet:"primaryAlignment"`
	SecondaryAlignment     bool  `parquet:"secondaryAlignment"`
	SupplementaryAlignment bool  `parquet:"supplementaryAlignment"`
	DuplicateRead          bool  `parquet:"duplicateRead"`
	FailedVendorQuality    bool  `parquet:"failedVendorQualityChecks"`

	MateMapped         bool   `parquet:"mateMapped"`
	MateNegativeStrand bool   `parquet:"mateNegativeStrand"`
	MateContigName     string `parquet:"mateContigName,optional"`
	MateStart          int64  `parquet:"mateAlignmentStart"`
	InferredInsertSize int64  `parquet:"inferredInsertSize"`

	ReadGroupID string `parquet:"recordGroupName,optional"`
	// Attributes holds the optional SAM fields in tab-separated TAG:TYPE:VALUE
	// form.
	Attributes string `parquet:"attributes,optional"`
}

// Coverage is the read depth over a genomic interval.
type Coverage struct {
	ContigName string  `parquet:"contigName"`
	Start      int64   `parquet:"start"`
	End        int64   `parquet:"end"`
	Count      float64 `parquet:"count"`
	SampleID   string  `parquet:"optSampleId,optional"`
}

// NucleotideContigFragment is a slice of a reference sequence. Fragments of a
// contig are numbered from zero in Index, and Fragments is the number of
// pieces the contig was cut into.
type NucleotideContigFragment struct {
	ContigName   string `parquet:"contigName"`
	Description  string `parquet:"description,optional"`
	Sequence     string `parquet:"sequence"`
	Index        int32  `parquet:"index"`
	Start        int64  `parquet:"start"`
	End          int64  `parquet:"end"`
	ContigLength int64  `parquet:"contigLength"`
	Fragments    int32  `parquet:"fragments"`
}

// Fragment groups all the reads that were sequenced from the same DNA
// molecule, i.e. the reads sharing a name.
type Fragment struct {
	ReadName     string            `parquet:"readName"`
	FragmentSize int64             `parquet:"fragmentSize"`
	Alignments   []AlignmentRecord `parquet:"alignments"`
}

// Feature is an annotated genomic interval, as found in BED, GFF3, GTF,
// NarrowPeak and interval_list files.
type Feature struct {
	FeatureID    string   `parquet:"featureId,optional"`
	Name         string   `parquet:"name,optional"`
	Source       string   `parquet:"source,optional"`
	FeatureType  string   `parquet:"featureType,optional"`
	ContigName   string   `parquet:"contigName"`
	Start        int64    `parquet:"start"`
	End          int64    `parquet:"end"`
	Strand       Strand   `parquet:"strand"`
	Phase        *int32   `parquet:"phase,optional"`
	Score        *float64 `parquet:"score,optional"`
	GeneID       string   `parquet:"geneId,optional"`
	TranscriptID string   `parquet:"transcriptId,optional"`
	ExonID       string   `parquet:"exonId,optional"`
	ParentIDs    []string `parquet:"parentIds,list"`
	// Attributes holds the key/value pairs that do not map to a dedicated
	// field.
	Attributes map[string]string `parquet:"attributes"`
}

// Strand is the orientation of a feature.
type Strand string

const (
	// StrandForward is "+".
	StrandForward Strand = "FORWARD"
	// StrandReverse is "-".
	StrandReverse Strand = "REVERSE"
	// StrandIndependent is ".", a feature without orientation.
	StrandIndependent Strand = "INDEPENDENT"
	// StrandUnknown is "?", or an absent strand column.
	StrandUnknown Strand = "UNKNOWN"
)

// ParseStrand converts the strand column of BED/GFF/GTF into a Strand.
func ParseStrand(s string) Strand {
	switch s {
	case "+":
		return StrandForward
	case "-":
		return StrandReverse
	case ".":
		return StrandIndependent
	default:
		return StrandUnknown
	}
}

// Variant is a single alternate allele at a site. Multi-allelic VCF sites are
// split into one Variant per alternate allele.
type Variant struct {
	ContigName      string   `parquet:"contigName"`
	Start           int64    `parquet:"start"`
	End             int64    `parquet:"end"`
	Names           []string `parquet:"names,list"`
	ReferenceAllele string   `parquet:"referenceAllele"`
	AlternateAllele string   `parquet:"alternateAllele,optional"`
	Quality         *float64 `parquet:"quality,optional"`
	FiltersApplied  bool     `parquet:"filtersApplied"`
	FiltersPassed   bool     `parquet:"filtersPassed"`
	FiltersFailed   []string `parquet:"filtersFailed,list"`
	// Info holds the INFO column entries. Flags have an empty value.
	Info map[string]string `parquet:"info"`
}

// GenotypeAllele is the call of one haplotype in a genotype.
type GenotypeAllele string

const (
	// AlleleRef calls the reference allele.
	AlleleRef GenotypeAllele = "REF"
	// AlleleAlt calls the alternate allele of the genotype's Variant.
	AlleleAlt GenotypeAllele = "ALT"
	// AlleleOtherAlt calls an alternate allele other than the Variant's, at a
	// multi-allelic site.
	AlleleOtherAlt GenotypeAllele = "OTHER_ALT"
	// AlleleNoCall is an uncalled haplotype, "." in VCF.
	AlleleNoCall GenotypeAllele = "NO_CALL"
)

// Genotype is the call of one sample at one Variant.
type Genotype struct {
	Variant         Variant          `parquet:"variant"`
	SampleID        string           `parquet:"sampleId"`
	Alleles         []GenotypeAllele `parquet:"alleles,list"`
	Phased          bool             `parquet:"phased"`
	ReadDepth       *int32           `parquet:"readDepth,optional"`
	GenotypeQuality *int32           `parquet:"genotypeQuality,optional"`
}
