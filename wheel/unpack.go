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
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/wheelversion/pool"
)

// copyBuffers is shared by the unpacker and the packer. Wheels mix many small
// sources with a few large shared libraries.
var copyBuffers = pool.Buffers{MinSize: 4 << 10, MaxSize: 1 << 20}

// Unpack extracts every entry of the wheel at archive into dest, which is
// created if needed. Each file and directory gets the POSIX permission bits
// recorded in its entry's external attributes, when there are any.
//
// Failures are reported as *ExtractionError. archive is never modified.
func Unpack(archive, dest string) error {
	rc, err := zip.OpenReader(archive)
	if err != nil {
		if rc != nil {
			rc.Close()
		}
		return &ExtractionError{Path: archive, Err: err}
	}
	defer rc.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return &ExtractionError{Path: archive, Err: err}
	}
	// Directory modes are applied last so that read-only directories can
	// still be filled.
	var dirs []*zip.File
	for _, f := range rc.File {
		if strings.HasSuffix(f.Name, "/") {
			dirs = append(dirs, f)
		}
		if err := extract(f, dest); err != nil {
			return &ExtractionError{Path: archive, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		f := dirs[i]
		if err := applyMode(f, filepath.Join(dest, filepath.FromSlash(f.Name))); err != nil {
			return &ExtractionError{Path: archive, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
	}
	return nil
}

func extract(f *zip.File, dest string) error {
	name := filepath.FromSlash(strings.TrimSuffix(f.Name, "/"))
	if name == "" || !filepath.IsLocal(name) {
		return fmt.Errorf("entry escapes the destination directory")
	}
	p := filepath.Join(dest, name)
	if strings.HasSuffix(f.Name, "/") {
		return os.MkdirAll(p, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer r.Close()
	out, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := copyBuffers.Get(int(f.UncompressedSize64))
	defer copyBuffers.Put(buf)
	// Hide *os.File's ReadFrom so the pooled buffer is used.
	if _, err := io.CopyBuffer(struct{ io.Writer }{out}, r, buf); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return applyMode(f, p)
}

// applyMode sets the permission bits stored in the upper half of the
// entry's external attributes. Archives written on systems without POSIX
// modes leave them zero.
func applyMode(f *zip.File, path string) error {
	mode := f.ExternalAttrs >> 16
	if mode&0o7777 == 0 {
		return nil
	}
	return chmodRaw(path, mode)
}
