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
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestUnpack(t *testing.T) {
	dir := t.TempDir()
	files := append(pypypFiles(),
		testFile{"pypyp/", "", 0o040000 | 0o750},
		testFile{"pypyp/_vendor.py", "x = 1\n", 0},
	)
	whl := writeWheel(t, dir, "pypyp-1.0.0-py3-none-any.whl", files)
	dest := filepath.Join(dir, "out")
	if err := Unpack(whl, dest); err != nil {
		t.Fatalf("Unpack() returned error: %v", err)
	}

	for _, f := range files {
		p := filepath.Join(dest, filepath.FromSlash(f.name))
		fi, err := os.Stat(p)
		if err != nil {
			t.Errorf("stat %s: %v", f.name, err)
			continue
		}
		if fi.IsDir() {
			if got, want := fi.Mode().Perm(), os.FileMode(f.mode&0o777); got != want {
				t.Errorf("%s has mode %v, want %v", f.name, got, want)
			}
			continue
		}
		if got := readTestFile(t, p); got != f.body {
			t.Errorf("%s contains %q, want %q", f.name, got, f.body)
		}
		if f.mode == 0 {
			continue
		}
		if got, want := fi.Mode().Perm(), os.FileMode(f.mode&0o777); got != want {
			t.Errorf("%s has mode %v, want %v", f.name, got, want)
		}
	}
}

func TestUnpackZipSlip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"../evil.py", "/abs/evil.py", "a/../../evil.py"} {
		t.Run(name, func(t *testing.T) {
			whl := writeWheel(t, dir, "evil-1.0-py3-none-any.whl", []testFile{{name, "evil", 0}})
			dest := filepath.Join(dir, "out")
			err := Unpack(whl, dest)
			var eerr *ExtractionError
			if !errors.As(err, &eerr) {
				t.Fatalf("Unpack() returned %v, want *ExtractionError", err)
			}
			if _, err := os.Stat(filepath.Join(dir, "evil.py")); err == nil {
				t.Errorf("entry %q was written outside of the destination", name)
			}
		})
	}
}

func TestUnpackCorrupt(t *testing.T) {
	dir := t.TempDir()
	whl := writePypyp(t, dir)
	corruptEntry(t, whl, "pypyp.py")
	before := readTestFile(t, whl)

	err := Unpack(whl, filepath.Join(dir, "out"))
	var eerr *ExtractionError
	if !errors.As(err, &eerr) {
		t.Fatalf("Unpack() returned %v, want *ExtractionError", err)
	}
	if !errors.Is(err, zip.ErrAlgorithm) {
		t.Errorf("Unpack() returned %v, want it to wrap zip.ErrAlgorithm", err)
	}
	if readTestFile(t, whl) != before {
		t.Errorf("Unpack() modified the archive")
	}
}

func TestUnpackNotAZip(t *testing.T) {
	dir := t.TempDir()
	p := writeTestFile(t, dir, "pypyp-1.0.0-py3-none-any.whl", "not a zip")
	err := Unpack(p, filepath.Join(dir, "out"))
	if !errors.Is(err, zip.ErrFormat) {
		t.Errorf("Unpack() returned %v, want zip.ErrFormat", err)
	}
}
