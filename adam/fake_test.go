package adam_test

import (
	"context"
	"sync"

	"github.com/grailbio/adam/adam"
	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/session"
)

// call is one recorded adapter invocation.
type call struct {
	method, path string
}

// fakeAdapter is only for unittests. It records every call and returns the
// handles and error it was configured with.
type fakeAdapter struct {
	sess *session.Session
	err  error

	alignments      *dataset.Alignments
	coverage        *dataset.Coverage
	contigFragments *dataset.ContigFragments
	fragments       *dataset.Fragments
	features        *dataset.Features
	genotypes       *dataset.Genotypes
	variants        *dataset.Variants

	mu    sync.Mutex
	calls []call
}

func newFakeAdapter(sess *session.Session) *fakeAdapter {
	info := func(format dataset.Format) dataset.Info { return dataset.NewInfo("fake", format) }
	return &fakeAdapter{
		sess:            sess,
		alignments:      dataset.NewAlignments(info(dataset.BAM), nil, nil, nil),
		coverage:        dataset.NewCoverage(info(dataset.BED), nil, nil),
		contigFragments: dataset.NewContigFragments(info(dataset.FASTA), nil, nil),
		fragments:       dataset.NewFragments(info(dataset.SAM), nil, nil, nil),
		features:        dataset.NewFeatures(info(dataset.GFF3), nil, nil),
		genotypes:       dataset.NewGenotypes(info(dataset.VCF), nil, nil, nil),
		variants:        dataset.NewVariants(info(dataset.VCF), nil, nil),
	}
}

// fakeRuntime creates fakeAdapters and remembers them.
type fakeRuntime struct {
	err      error
	adapters []*fakeAdapter
}

func (r *fakeRuntime) NewAdapter(sess *session.Session) adam.Adapter {
	a := newFakeAdapter(sess)
	a.err = r.err
	r.adapters = append(r.adapters, a)
	return a
}

func (a *fakeAdapter) record(method, path string) {
	a.mu.Lock()
	a.calls = append(a.calls, call{method, path})
	a.mu.Unlock()
}

func (a *fakeAdapter) LoadAlignments(_ context.Context, path string) (*dataset.Alignments, error) {
	a.record("LoadAlignments", path)
	if a.err != nil {
		return nil, a.err
	}
	return a.alignments, nil
}

func (a *fakeAdapter) LoadCoverage(_ context.Context, path string) (*dataset.Coverage, error) {
	a.record("LoadCoverage", path)
	if a.err != nil {
		return nil, a.err
	}
	return a.coverage, nil
}

func (a *fakeAdapter) LoadContigFragments(_ context.Context, path string) (*dataset.ContigFragments, error) {
	a.record("LoadContigFragments", path)
	if a.err != nil {
		return nil, a.err
	}
	return a.contigFragments, nil
}

func (a *fakeAdapter) LoadFragments(_ context.Context, path string) (*dataset.Fragments, error) {
	a.record("LoadFragments", path)
	if a.err != nil {
		return nil, a.err
	}
	return a.fragments, nil
}

func (a *fakeAdapter) LoadFeatures(_ context.Context, path string) (*dataset.Features, error) {
	a.record("LoadFeatures", path)
	if a.err != nil {
		return nil, a.err
	}
	return a.features, nil
}

func (a *fakeAdapter) LoadGenotypes(_ context.Context, path string) (*dataset.Genotypes, error) {
	a.record("LoadGenotypes", path)
	if a.err != nil {
		return nil, a.err
	}
	return a.genotypes, nil
}

func (a *fakeAdapter) LoadVariants(_ context.Context, path string) (*dataset.Variants, error) {
	a.record("LoadVariants", path)
	if a.err != nil {
		return nil, a.err
	}
	return a.variants, nil
}
