package loader

import (
	"io"
	"strings"
	"testing"

	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/schema"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	perrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64p(v float64) *float64 { return &v }
func int32p(v int32) *int32       { return &v }

func TestParseBED(t *testing.T) {
	data := `track name=test
browser position chr1:1-100
# comment
chr1	10	20
chr1	30	40	peak1	5.5	-
chr2	0	100	blk	.	+	10	90	255,0,0	2	10,10	0,90
`
	feats, err := parseBED(strings.NewReader(data), false, 0)
	require.NoError(t, err)
	require.Len(t, feats, 3)
	expect.EQ(t, feats[0], schema.Feature{ContigName: "chr1", Start: 10, End: 20, Strand: schema.StrandUnknown})
	expect.EQ(t, feats[1], schema.Feature{
		ContigName: "chr1", Start: 30, End: 40, Name: "peak1",
		Score: float64p(5.5), Strand: schema.StrandReverse,
	})
	assert.Nil(t, feats[2].Score)
	assert.Equal(t, schema.StrandForward, feats[2].Strand)
	assert.Equal(t, map[string]string{
		"thickStart": "10", "thickEnd": "90", "itemRgb": "255,0,0",
		"blockCount": "2", "blockSizes": "10,10", "blockStarts": "0,90",
	}, feats[2].Attributes)

	_, err = parseBED(strings.NewReader("chr1\t10\n"), false, 0)
	assert.True(t, errors.Is(errors.Invalid, err), "err: %v", err)
	_, err = parseBED(strings.NewReader("chr1\tx\t20\n"), false, 0)
	assert.True(t, errors.Is(errors.Invalid, err), "err: %v", err)

	// Errors name the file position of the line.
	_, err = parseBED(strings.NewReader("# header\nchr1\t1\t2\nchr1\t5\n"), false, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line at byte 118 has 2 columns")
}

func TestParseNarrowPeak(t *testing.T) {
	data := "chr1\t9356548\t9356648\t.\t0\t.\t182\t5.0945\t-1\t50\n"
	feats, err := parseBED(strings.NewReader(data), true, 0)
	require.NoError(t, err)
	require.Len(t, feats, 1)
	f := feats[0]
	expect.EQ(t, f.Start, int64(9356548))
	expect.EQ(t, f.End, int64(9356648))
	expect.EQ(t, f.Name, "")
	expect.EQ(t, *f.Score, 0.0)
	expect.EQ(t, f.Strand, schema.StrandIndependent)
	expect.EQ(t, f.Attributes, map[string]string{
		"signalValue": "182", "pValue": "5.0945", "qValue": "-1", "peak": "50",
	})

	_, err = parseBED(strings.NewReader("chr1\t1\t2\t.\t0\t.\n"), true, 0)
	assert.True(t, errors.Is(errors.Invalid, err), "err: %v", err)
}

func TestParseGFF3(t *testing.T) {
	data := `##gff-version 3
chr1	havana	gene	1000	2000	.	+	.	ID=gene1;Name=Foo%3BBar
chr1	havana	mRNA	1000	2000	3.5	+	0	ID=tx1;Parent=gene1,gene2;note=x
##FASTA
>chr1
ACGT
`
	feats, err := parseGFF([]byte(data), false)
	require.NoError(t, err)
	require.Len(t, feats, 2)
	expect.EQ(t, feats[0], schema.Feature{
		FeatureID: "gene1", Name: "Foo;Bar", Source: "havana", FeatureType: "gene",
		ContigName: "chr1", Start: 999, End: 2000, Strand: schema.StrandForward,
	})
	expect.EQ(t, feats[1], schema.Feature{
		FeatureID: "tx1", Source: "havana", FeatureType: "mRNA",
		ContigName: "chr1", Start: 999, End: 2000, Strand: schema.StrandForward,
		Phase: int32p(0), Score: float64p(3.5),
		ParentIDs:  []string{"gene1", "gene2"},
		Attributes: map[string]string{"note": "x"},
	})
}

func TestParseGTF(t *testing.T) {
	data := "chr2\tENSEMBL\texon\t11\t20\t.\t-\t2\t" +
		`gene_id "G1"; transcript_id "T1"; gene_name "ABC"; exon_id "E1"; exon_number 2;` + "\n"
	feats, err := parseGFF([]byte(data), true)
	require.NoError(t, err)
	require.Len(t, feats, 1)
	expect.EQ(t, feats[0], schema.Feature{
		Name: "ABC", Source: "ENSEMBL", FeatureType: "exon",
		ContigName: "chr2", Start: 10, End: 20, Strand: schema.StrandReverse,
		Phase:  int32p(2),
		GeneID: "G1", TranscriptID: "T1", ExonID: "E1",
		Attributes: map[string]string{"exon_number": "2"},
	})
}

func TestParseIntervalList(t *testing.T) {
	data := `@HD	VN:1.5
@SQ	SN:chr1	LN:1000	M5:abc
@SQ	SN:chr2	LN:2000	UR:file:/ref.fa
chr1	1	100	+	target_1
chr2	51	60	-	.
`
	feats, dict, err := parseIntervalList(strings.NewReader(data))
	require.NoError(t, err)
	expect.EQ(t, dict, dataset.SequenceDictionary{
		{Name: "chr1", Length: 1000, MD5: "abc"},
		{Name: "chr2", Length: 2000, URL: "file:/ref.fa"},
	})
	expect.EQ(t, feats, []schema.Feature{
		{ContigName: "chr1", Start: 0, End: 100, Strand: schema.StrandForward, Name: "target_1"},
		{ContigName: "chr2", Start: 50, End: 60, Strand: schema.StrandReverse},
	})

	_, _, err = parseIntervalList(strings.NewReader("@SQ\tLN:10\n"))
	assert.True(t, errors.Is(errors.Invalid, err), "err: %v", err)
}

const testVCF = `##fileformat=VCFv4.2
##contig=<ID=20,length=62435964,assembly=B36>
##INFO=<ID=DP,Number=1,Type=Integer,Description="Total Depth">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	NA00001	NA00002
20	14370	rs6054257	G	A	29	PASS	NS=3;DP=14;DB	GT:GQ:DP	0|0:48:1	1|0:48:8
20	1110696	rs6040355	A	G,T	67	q10;s50	NS=2	GT:GQ:DP	1|2:21:6	2/2:.:.
20	1230237	.	T	.	.	.	.	GT	0/0	./.
`

func TestVCFVariants(t *testing.T) {
	vr, err := newVCFReader(strings.NewReader(testVCF), false)
	require.NoError(t, err)
	expect.EQ(t, vr.header.contigs, dataset.SequenceDictionary{{Name: "20", Length: 62435964}})
	expect.EQ(t, vr.header.samples, []string{"NA00001", "NA00002"})

	var variants []schema.Variant
	for {
		v, g, err := vr.Next()
		if err != nil {
			require.Equal(t, io.EOF, err)
			break
		}
		assert.Nil(t, g)
		variants = append(variants, v...)
	}
	require.Len(t, variants, 4)
	expect.EQ(t, variants[0], schema.Variant{
		ContigName: "20", Start: 14369, End: 14370, Names: []string{"rs6054257"},
		ReferenceAllele: "G", AlternateAllele: "A", Quality: float64p(29),
		FiltersApplied: true, FiltersPassed: true,
		Info: map[string]string{"NS": "3", "DP": "14", "DB": ""},
	})
	expect.EQ(t, variants[1].AlternateAllele, "G")
	expect.EQ(t, variants[2].AlternateAllele, "T")
	expect.EQ(t, variants[2].FiltersFailed, []string{"q10", "s50"})
	expect.EQ(t, variants[2].FiltersPassed, false)
	v := variants[3]
	expect.EQ(t, v.AlternateAllele, "")
	expect.EQ(t, v.FiltersApplied, false)
	assert.Nil(t, v.Quality)
	assert.Nil(t, v.Names)
	assert.Nil(t, v.Info)
}

func TestVCFGenotypes(t *testing.T) {
	vr, err := newVCFReader(strings.NewReader(testVCF), true)
	require.NoError(t, err)
	var gts []schema.Genotype
	for {
		_, g, err := vr.Next()
		if err != nil {
			break
		}
		gts = append(gts, g...)
	}
	// 4 split variants, 2 samples each.
	require.Len(t, gts, 8)
	g := gts[1]
	expect.EQ(t, g.SampleID, "NA00002")
	expect.EQ(t, g.Variant.AlternateAllele, "A")
	expect.EQ(t, g.Alleles, []schema.GenotypeAllele{schema.AlleleAlt, schema.AlleleRef})
	expect.EQ(t, g.Phased, true)
	expect.EQ(t, *g.ReadDepth, int32(8))
	expect.EQ(t, *g.GenotypeQuality, int32(48))

	// 1|2 against the G (first) and T (second) alternate.
	expect.EQ(t, gts[2].Alleles, []schema.GenotypeAllele{schema.AlleleAlt, schema.AlleleOtherAlt})
	expect.EQ(t, gts[4].Alleles, []schema.GenotypeAllele{schema.AlleleOtherAlt, schema.AlleleAlt})
	expect.EQ(t, gts[4].Variant.AlternateAllele, "T")
	assert.Nil(t, gts[3].ReadDepth)
	assert.Nil(t, gts[3].GenotypeQuality)
	expect.EQ(t, gts[3].Phased, false)

	expect.EQ(t, gts[7].Alleles, []schema.GenotypeAllele{schema.AlleleNoCall, schema.AlleleNoCall})
}

func TestVCFErrors(t *testing.T) {
	_, err := newVCFReader(strings.NewReader("##fileformat=VCFv4.2\n"), false)
	assert.True(t, errors.Is(errors.Invalid, err), "err: %v", err)

	_, err = newVCFReader(strings.NewReader("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"), false)
	assert.True(t, errors.Is(errors.Invalid, err), "err: %v", err)

	const columns = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n"
	for _, line := range []string{
		"1\tx\t.\tA\tC\t.\t.\t.\tGT\t0/1",
		"1\t5\t.\tA\tC\tlow\t.\t.\tGT\t0/1",
		"1\t5\t.\tA\tC\t.\t.",
		"1\t5\t.\tA\tC\t.\t.\t.\tGT\t0/1\t1/1",
		"1\t5\t.\tA\tC\t.\t.\t.\tGT\tx/1",
		"1\t5\t.\tA\tC\t.\t.\t.\tGT:DP\t0/1:many",
	} {
		vr, err := newVCFReader(strings.NewReader(columns+line+"\n"), true)
		require.NoError(t, err)
		_, _, err = vr.Next()
		assert.True(t, errors.Is(errors.Invalid, err), "%q: err: %v", line, err)
	}
}

func TestVCFShortSampleColumn(t *testing.T) {
	const data = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\n" +
		"1\t5\t.\tA\tC\t.\t.\t.\tGT:GQ:DP\t./.\t0/1:30\n"
	vr, err := newVCFReader(strings.NewReader(data), true)
	require.NoError(t, err)
	_, gts, err := vr.Next()
	require.NoError(t, err)
	require.Len(t, gts, 2)
	expect.EQ(t, gts[0].Alleles, []schema.GenotypeAllele{schema.AlleleNoCall, schema.AlleleNoCall})
	assert.Nil(t, gts[0].GenotypeQuality)
	expect.EQ(t, *gts[1].GenotypeQuality, int32(30))
	assert.Nil(t, gts[1].ReadDepth)
}

func TestVCFSplitVariantsAreIndependent(t *testing.T) {
	const data = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t5\trs1;rs2\tA\tC,G\t10\tq10;s50\tNS=2;DP=7\tGT\t1/2\n"
	vr, err := newVCFReader(strings.NewReader(data), true)
	require.NoError(t, err)
	variants, gts, err := vr.Next()
	require.NoError(t, err)
	require.Len(t, variants, 2)
	require.Len(t, gts, 2)

	variants[0].Info["NS"] = "9"
	variants[0].Names[0] = "renamed"
	variants[0].FiltersFailed[0] = "other"
	gts[0].Variant.Info["DP"] = "0"
	for _, v := range []schema.Variant{variants[1], gts[0].Variant, gts[1].Variant} {
		expect.EQ(t, v.Names, []string{"rs1", "rs2"})
		expect.EQ(t, v.FiltersFailed, []string{"q10", "s50"})
		expect.EQ(t, v.Info["NS"], "2")
	}
	expect.EQ(t, variants[0].Info["DP"], "7")
	expect.EQ(t, variants[1].Info["DP"], "7")
	expect.EQ(t, gts[1].Variant.Info["DP"], "7")
}

func TestReadFASTA(t *testing.T) {
	data := ">seq1 first one\nACGTA\nCGTAC\n\nGT\n>seq2\nACGT\n>empty\n"
	seqs, err := readFASTA(strings.NewReader(data))
	require.NoError(t, err)
	expect.EQ(t, seqs, []fastaSeq{
		{name: "seq1", desc: "first one", seq: "ACGTACGTACGT"},
		{name: "seq2", seq: "ACGT"},
		{name: "empty"},
	})
	reads := fastaReads(seqs)
	expect.EQ(t, reads[1], schema.AlignmentRecord{ReadName: "seq2", Sequence: "ACGT", Start: -1, End: -1})

	frags, dict := fastaContigFragments(seqs, 5)
	expect.EQ(t, dict, dataset.SequenceDictionary{
		{Name: "seq1", Length: 12}, {Name: "seq2", Length: 4}, {Name: "empty"},
	})
	require.Len(t, frags, 3)
	require.Len(t, frags[0], 3)
	expect.EQ(t, frags[0][2], schema.NucleotideContigFragment{
		ContigName: "seq1", Description: "first one", Sequence: "GT",
		Index: 2, Start: 10, End: 12, ContigLength: 12, Fragments: 3,
	})
	require.Len(t, frags[1], 1)
	expect.EQ(t, frags[1][0].Sequence, "ACGT")
	require.Len(t, frags[2], 1)
	expect.EQ(t, frags[2][0].Fragments, int32(1))

	_, err = readFASTA(strings.NewReader("ACGT\n>seq1\nA\n"))
	assert.Error(t, err)
}

func TestReadFASTQ(t *testing.T) {
	recs, err := readFASTQ(strings.NewReader("@r1 desc\nACGT\n+\nIIII\n@r2\nAC\n+r2\nII\n"))
	require.NoError(t, err)
	expect.EQ(t, recs, []schema.AlignmentRecord{
		{ReadName: "r1", Sequence: "ACGT", Qualities: "IIII", Start: -1, End: -1},
		{ReadName: "r2", Sequence: "AC", Qualities: "II", Start: -1, End: -1},
	})

	for _, test := range []struct {
		data string
		want error
	}{
		{"@r1\nACGT\n+\n", ErrShortFASTQ},
		{"r1\nACGT\n+\nIIII\n", ErrInvalidFASTQ},
		{"@r1\nACGT\n-\nIIII\n", ErrInvalidFASTQ},
		{"@r1\nACGT\n+\nIII\n", ErrInvalidFASTQ},
	} {
		_, err := readFASTQ(strings.NewReader(test.data))
		expect.EQ(t, perrors.Cause(err), test.want, "data %q", test.data)
	}
}

func TestReadIFQ(t *testing.T) {
	data := "@p1/1\nAC\n+\nII\n@p1/2\nGT\n+\nJJ\n@p2 x\nA\n+\nI\n@p2 y\nC\n+\nI\n"
	recs, err := readIFQ(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recs, 4)
	for i, r := range recs {
		expect.EQ(t, r.ReadPaired, true)
		expect.EQ(t, r.ReadInFragment, int32(i%2))
	}
	expect.EQ(t, recs[0].ReadName, "p1")
	expect.EQ(t, recs[1].ReadName, "p1")
	expect.EQ(t, recs[3].ReadName, "p2")

	_, err = readIFQ(strings.NewReader("@p1/1\nAC\n+\nII\n"))
	expect.EQ(t, perrors.Cause(err), ErrShortFASTQ)
	_, err = readIFQ(strings.NewReader("@p1/1\nAC\n+\nII\n@p2/2\nAC\n+\nII\n"))
	expect.EQ(t, perrors.Cause(err), ErrDiscordantFASTQ)
}

func TestQualString(t *testing.T) {
	expect.EQ(t, qualString(nil), "")
	expect.EQ(t, qualString([]byte{0xff, 0xff}), "")
	expect.EQ(t, qualString([]byte{0, 40}), "!I")
}
