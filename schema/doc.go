// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package schema defines the typed records held by genomic datasets.
//
// All coordinates are 0-based, half-open intervals [Start, End), regardless
// of the convention used by the file the record was parsed from.  The struct
// tags name the columns used when the records are stored as Parquet.
package schema
