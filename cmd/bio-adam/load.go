// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/adam/adam"
	"github.com/grailbio/adam/dataset"
	"github.com/grailbio/adam/session"
	"github.com/grailbio/base/log"
)

// kind names a record kind, and the subcommand that loads it.
type kind string

const (
	kindAlignments kind = "alignments"
	kindCoverage   kind = "coverage"
	kindContigs    kind = "contigs"
	kindFragments  kind = "fragments"
	kindFeatures   kind = "features"
	kindGenotypes  kind = "genotypes"
	kindVariants   kind = "variants"
)

// summary is what every dataset handle provides.
type summary interface {
	Info() dataset.Info
	NumPartitions() int
	Count() int64
}

// run loads path as a dataset of kind k on a new session and writes its
// summary, followed by up to head records, to w.
func run(ctx context.Context, w io.Writer, k kind, path string, opts session.Opts, head int) (err error) {
	sess := session.New(opts)
	defer func() {
		if e := sess.Close(); e != nil && err == nil {
			err = e
		}
	}()
	ac := adam.NewContext(sess)
	var (
		h       summary
		records []interface{}
	)
	switch k {
	case kindAlignments:
		d, err := ac.LoadAlignments(ctx, path)
		if err != nil {
			return err
		}
		h = d.Handle()
		records = firstN(d.Handle().Collect(), head)
	case kindCoverage:
		d, err := ac.LoadCoverage(ctx, path)
		if err != nil {
			return err
		}
		h = d.Handle()
		records = firstN(d.Handle().Collect(), head)
	case kindContigs:
		d, err := ac.LoadContigFragments(ctx, path)
		if err != nil {
			return err
		}
		h = d.Handle()
		records = firstN(d.Handle().Collect(), head)
	case kindFragments:
		d, err := ac.LoadFragments(ctx, path)
		if err != nil {
			return err
		}
		h = d.Handle()
		records = firstN(d.Handle().Collect(), head)
	case kindFeatures:
		d, err := ac.LoadFeatures(ctx, path)
		if err != nil {
			return err
		}
		h = d.Handle()
		records = firstN(d.Handle().Collect(), head)
	case kindGenotypes:
		d, err := ac.LoadGenotypes(ctx, path)
		if err != nil {
			return err
		}
		h = d.Handle()
		records = firstN(d.Handle().Collect(), head)
	case kindVariants:
		d, err := ac.LoadVariants(ctx, path)
		if err != nil {
			return err
		}
		h = d.Handle()
		records = firstN(d.Handle().Collect(), head)
	default:
		return fmt.Errorf("unknown record kind %q", k)
	}
	log.Debug.Printf("%v: session %s", h.Info(), sess.ID())
	info := h.Info()
	if _, err := fmt.Fprintf(w, "path\t%s\nformat\t%s\npartitions\t%d\nrecords\t%d\n",
		info.Path, info.Format, h.NumPartitions(), h.Count()); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%+v\n", r); err != nil {
			return err
		}
	}
	return nil
}

func firstN[T any](recs []T, n int) []interface{} {
	if n > len(recs) {
		n = len(recs)
	}
	if n <= 0 {
		return nil
	}
	out := make([]interface{}, n)
	for i := range out {
		out[i] = recs[i]
	}
	return out
}
