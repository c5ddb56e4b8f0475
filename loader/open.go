// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package loader

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/biogo/hts/bgzf"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// inputBufSize is the size of the read buffer put in front of every input.
const inputBufSize = 1 << 20

// input is an open, decompressed file.
type input struct {
	ctx context.Context
	in  file.File
	dec io.Closer // nil if the file is not compressed.
	r   *bufio.Reader
}

// Close closes the decoder and the file. It returns the first error.
func (i *input) Close() error {
	err := errors.Once{}
	if i.dec != nil {
		err.Set(i.dec.Close())
	}
	err.Set(i.in.Close(i.ctx))
	return err.Err()
}

// openInput opens path and stacks a decoder for the codec named by its
// suffix.
func openInput(ctx context.Context, path string) (*input, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	i := &input{ctx: ctx, in: in}
	var r io.Reader = in.Reader(ctx)
	_, codec := SplitCodec(path)
	switch codec {
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, errors.E(err, "gzip", path)
		}
		i.dec, r = gz, gz
	case BGZF:
		bg, err := bgzf.NewReader(r, 1)
		if err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, errors.E(err, "bgzf", path)
		}
		i.dec, r = bg, bg
	case Bzip2:
		if u := compress.NewReaderPath(r, path); u != nil {
			i.dec, r = u, u
		}
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, errors.E(err, "zstd", path)
		}
		zrc := zr.IOReadCloser()
		i.dec, r = zrc, zrc
	}
	i.r = bufio.NewReaderSize(r, inputBufSize)
	return i, nil
}

// readAll reads the whole decompressed contents of path.
func readAll(ctx context.Context, path string) (data []byte, err error) {
	i, err := openInput(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := i.Close(); e != nil && err == nil {
			err = e
		}
	}()
	var buf bytes.Buffer
	if _, err = buf.ReadFrom(i.r); err != nil {
		return nil, errors.E(err, "read", path)
	}
	return buf.Bytes(), nil
}

// Split is a byte range [Start, Limit) of an uncompressed text file. A split
// owns every line that starts within its range.
type Split struct {
	Start, Limit int64
}

func (s Split) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.Limit)
}

// PlanSplits cuts a file of the given size into splits of about
// bytesPerSplit bytes. It always returns at least one split.
func PlanSplits(size, bytesPerSplit int64) []Split {
	if bytesPerSplit <= 0 || size <= bytesPerSplit {
		return []Split{{0, size}}
	}
	var splits []Split
	for start := int64(0); start < size; start += bytesPerSplit {
		limit := start + bytesPerSplit
		if limit > size {
			limit = size
		}
		splits = append(splits, Split{start, limit})
	}
	return splits
}

// readSplit returns the lines of path owned by s, including their
// terminating newlines, and the file offset of the first of them.
func readSplit(ctx context.Context, path string, s Split) (data []byte, start int64, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	rs := in.Reader(ctx)
	off := s.Start
	if off > 0 {
		// Back up one byte so that a line starting exactly at s.Start is kept:
		// the partial line skipped below is then just the preceding newline.
		off--
	}
	if _, err = rs.Seek(off, io.SeekStart); err != nil {
		return nil, 0, errors.E(err, "seek", path)
	}
	r := bufio.NewReaderSize(rs, inputBufSize)
	if s.Start > 0 {
		skipped, err := r.ReadBytes('\n')
		if err == io.EOF {
			return nil, off + int64(len(skipped)), nil
		}
		if err != nil {
			return nil, 0, errors.E(err, "read", path)
		}
		off += int64(len(skipped))
	}
	start = off
	var buf bytes.Buffer
	for off < s.Limit {
		line, err := r.ReadBytes('\n')
		buf.Write(line)
		off += int64(len(line))
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.E(err, "read", path)
		}
	}
	return buf.Bytes(), start, nil
}

// fileSize returns the size of path in bytes.
func fileSize(ctx context.Context, path string) (int64, error) {
	info, err := file.Stat(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
