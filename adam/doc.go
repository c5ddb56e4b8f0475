// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package adam binds an execution session to a dataset loader and exposes
// typed entry points for loading seven genomic record kinds: alignments,
// coverage, contig fragments, fragments, features, genotypes and variants.
//
// A Context makes no decisions of its own. Each Load method forwards the
// path, unchanged, to the Adapter that the Context's Runtime created for its
// session, and wraps the returned handle in a typed dataset. Format
// detection, decompression, parsing and partitioning all happen in the
// adapter, and its errors are returned to the caller as is.
//
// Example:
//
//	sess := session.New(session.Opts{Parallelism: 8})
//	defer sess.Close()
//	ac := adam.NewContext(sess)
//	reads, err := ac.LoadAlignments(ctx, "s3://bucket/sample.bam")
//	if err != nil {
//	  ...
//	}
//	fmt.Println(reads.Handle().Count())
package adam
