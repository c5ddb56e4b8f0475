package adam_test

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/adam/adam"
	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/loader"
	"github.com/grailbio/adam/session"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

func newTestContext(t *testing.T, rt *fakeRuntime) (*adam.Context, *fakeAdapter) {
	sess := session.New(session.Opts{Parallelism: 1})
	t.Cleanup(func() { require.NoError(t, sess.Close()) })
	ac := adam.NewContextWithRuntime(sess, rt)
	require.Len(t, rt.adapters, 1)
	return ac, rt.adapters[0]
}

// load calls the named Context method and returns the handle of the result.
func load(ctx context.Context, ac *adam.Context, method, path string) (interface{}, error) {
	switch method {
	case "LoadAlignments":
		d, err := ac.LoadAlignments(ctx, path)
		if err != nil {
			return nil, err
		}
		return d.Handle(), nil
	case "LoadCoverage":
		d, err := ac.LoadCoverage(ctx, path)
		if err != nil {
			return nil, err
		}
		return d.Handle(), nil
	case "LoadContigFragments":
		d, err := ac.LoadContigFragments(ctx, path)
		if err != nil {
			return nil, err
		}
		return d.Handle(), nil
	case "LoadFragments":
		d, err := ac.LoadFragments(ctx, path)
		if err != nil {
			return nil, err
		}
		return d.Handle(), nil
	case "LoadFeatures":
		d, err := ac.LoadFeatures(ctx, path)
		if err != nil {
			return nil, err
		}
		return d.Handle(), nil
	case "LoadGenotypes":
		d, err := ac.LoadGenotypes(ctx, path)
		if err != nil {
			return nil, err
		}
		return d.Handle(), nil
	case "LoadVariants":
		d, err := ac.LoadVariants(ctx, path)
		if err != nil {
			return nil, err
		}
		return d.Handle(), nil
	}
	panic(method)
}

var methods = []string{
	"LoadAlignments", "LoadCoverage", "LoadContigFragments", "LoadFragments",
	"LoadFeatures", "LoadGenotypes", "LoadVariants",
}

func (a *fakeAdapter) handle(method string) interface{} {
	return map[string]interface{}{
		"LoadAlignments":      a.alignments,
		"LoadCoverage":        a.coverage,
		"LoadContigFragments": a.contigFragments,
		"LoadFragments":       a.fragments,
		"LoadFeatures":        a.features,
		"LoadGenotypes":       a.genotypes,
		"LoadVariants":        a.variants,
	}[method]
}

func TestLoadDelegatesOnce(t *testing.T) {
	ctx := context.Background()
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			ac, fake := newTestContext(t, &fakeRuntime{})
			// Paths are passed through without any interpretation.
			path := fmt.Sprintf("s3://bucket/%s/ weird..path.bam.gz", method)
			h, err := load(ctx, ac, method, path)
			require.NoError(t, err)
			expect.EQ(t, fake.calls, []call{{method, path}})
			// Pointer identity, not just equality.
			assert.True(t, h == fake.handle(method), "handle was copied or replaced")
		})
	}
}

func TestLoadErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	wantErr := fmt.Errorf("remote failure")
	for _, method := range methods {
		ac, fake := newTestContext(t, &fakeRuntime{err: wantErr})
		h, err := load(ctx, ac, method, "x")
		assert.True(t, err == wantErr, "%s: got %v", method, err)
		assert.Nil(t, h)
		expect.EQ(t, len(fake.calls), 1)
	}
}

func TestContextIsStable(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{}
	ac, fake := newTestContext(t, rt)
	sess, adapter := ac.Session(), ac.Adapter()
	assert.True(t, adapter == adam.Adapter(fake))
	assert.True(t, fake.sess == sess)
	for _, method := range methods {
		_, err := load(ctx, ac, method, "p")
		require.NoError(t, err)
		assert.True(t, ac.Session() == sess)
		assert.True(t, ac.Adapter() == adapter)
	}
	// The adapter is created only once, at construction.
	expect.EQ(t, len(rt.adapters), 1)
	expect.EQ(t, len(fake.calls), len(methods))
}

func TestProxiesCarrySession(t *testing.T) {
	ac, _ := newTestContext(t, &fakeRuntime{})
	ctx := context.Background()
	reads, err := ac.LoadAlignments(ctx, "r")
	require.NoError(t, err)
	assert.True(t, reads.Session() == ac.Session())
	feats, err := ac.LoadFeatures(ctx, "f")
	require.NoError(t, err)
	assert.True(t, feats.Session() == ac.Session())

	cov := feats.ToCoverage()
	assert.True(t, cov.Session() == ac.Session())
	expect.EQ(t, cov.Handle().Info().Path, "fake")
	frags := reads.ToFragments()
	expect.EQ(t, frags.Handle().NumPartitions(), ac.Session().Opts().FragmentPartitions)
}

func TestAdapterDerivedFromSession(t *testing.T) {
	sess := session.New(session.Opts{Parallelism: 3, RecordsPerPartition: 7})
	defer sess.Close() // nolint: errcheck
	a1, a2 := loader.NewAdapter(sess), loader.NewAdapter(sess)
	assert.False(t, a1 == a2)
	assert.Equal(t, *a1, *a2)

	ac1, ac2 := adam.NewContext(sess), adam.NewContext(sess)
	assert.Equal(t, ac1.Adapter(), ac2.Adapter())
	assert.True(t, ac1.Adapter().(*loader.Adapter).Session() == sess)
}

func TestDefaultRuntime(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	sess := session.New(session.Opts{Parallelism: 2})
	defer sess.Close() // nolint: errcheck
	ac := adam.NewContext(sess)
	ctx := context.Background()

	bed := filepath.Join(tmpDir, "peaks.bed")
	require.NoError(t, ioutil.WriteFile(bed, []byte("chr1\t10\t20\tp1\t3\t+\nchr1\t30\t40\tp2\t.\t-\n"), 0644))
	feats, err := ac.LoadFeatures(ctx, bed)
	require.NoError(t, err)
	expect.EQ(t, feats.Handle().Info().Format, dataset.BED)
	expect.EQ(t, feats.Handle().Count(), int64(2))

	cov, err := ac.LoadCoverage(ctx, bed)
	require.NoError(t, err)
	var counts []float64
	for _, c := range cov.Handle().Collect() {
		counts = append(counts, c.Count)
	}
	expect.EQ(t, counts, []float64{3, 0})

	vcf := filepath.Join(tmpDir, "calls.vcf")
	require.NoError(t, ioutil.WriteFile(vcf, []byte("##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t5\t.\tA\tC,G\t.\tPASS\t.\n"), 0644))
	variants, err := ac.LoadVariants(ctx, vcf)
	require.NoError(t, err)
	expect.EQ(t, variants.Handle().Count(), int64(2))

	_, err = ac.LoadAlignments(ctx, filepath.Join(tmpDir, "missing.sam"))
	assert.Error(t, err)
}
