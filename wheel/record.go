// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wheel

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/csv"
	"hash"
	"io"
	"strconv"
)

// recordEntry is one row of a RECORD file.
type recordEntry struct {
	Path string
	Hash string
	Size int64
}

// hashingWriter computes the RECORD hash and size of everything written
// through it.
type hashingWriter struct {
	w    io.Writer
	h    hash.Hash
	size int64
}

func newHashingWriter(w io.Writer) *hashingWriter {
	return &hashingWriter{w: w, h: sha256.New()}
}

func (hw *hashingWriter) Write(p []byte) (int, error) {
	n, err := hw.w.Write(p)
	hw.h.Write(p[:n])
	hw.size += int64(n)
	return n, err
}

func (hw *hashingWriter) entry(path string) recordEntry {
	return recordEntry{
		Path: path,
		Hash: "sha256=" + base64.RawURLEncoding.EncodeToString(hw.h.Sum(nil)),
		Size: hw.size,
	}
}

// writeRecord writes RECORD rows for entries followed by the unhashed row
// for RECORD itself.
func writeRecord(w io.Writer, recordPath string, entries []recordEntry) error {
	cw := csv.NewWriter(w)
	for _, e := range entries {
		if err := cw.Write([]string{e.Path, e.Hash, strconv.FormatInt(e.Size, 10)}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{recordPath, "", ""}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
