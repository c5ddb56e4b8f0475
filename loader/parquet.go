// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/grailbio/adam/session"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/parquet-go/parquet-go"
)

// listParquetParts returns the part files under path, in name order. Part
// files end in ".parquet", and names starting with "_" or "." (such as
// _SUCCESS or checksum files) are skipped. If path holds no parts, path
// itself is returned as the only part.
func listParquetParts(ctx context.Context, path string) ([]string, error) {
	var parts []string
	lister := file.List(ctx, path, true)
	for lister.Scan() {
		if lister.IsDir() {
			continue
		}
		p := lister.Path()
		base := file.Base(p)
		if strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".parquet") {
			continue
		}
		parts = append(parts, p)
	}
	if err := lister.Err(); err != nil && !errors.Is(errors.NotExist, err) {
		return nil, errors.E(err, "list", path)
	}
	if len(parts) == 0 {
		return []string{path}, nil
	}
	sort.Strings(parts)
	return parts, nil
}

// readParquet reads the rows of every part of path, one partition per part,
// with the parts decoded in parallel on sess.
func readParquet[T any](ctx context.Context, sess *session.Session, path string) ([][]T, error) {
	parts, err := listParquetParts(ctx, path)
	if err != nil {
		return nil, err
	}
	rows := make([][]T, len(parts))
	err = sess.Run(ctx, len(parts), func(ctx context.Context, i int) error {
		data, err := readAll(ctx, parts[i])
		if err != nil {
			return err
		}
		r, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return errors.E(errors.Invalid, err, "parquet", parts[i])
		}
		rows[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
