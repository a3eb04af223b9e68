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
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deps.dev/util/pypi"
	"rsc.io/binaryregexp"
)

// testFile is an entry of a test wheel. A zero mode leaves the external
// attributes unset.
type testFile struct {
	name string
	body string
	mode uint32
}

const (
	testMetadata = "Metadata-Version: 2.1\n" +
		"Name: pypyp\n" +
		"Version: 1.0.0\n" +
		"Summary: Easily run Python at the shell\n" +
		"Requires-Python: >=3.8\n" +
		"\n" +
		"Version: this line is part of the body\n"
	testWHEEL = "Wheel-Version: 1.0\n" +
		"Generator: bdist_wheel (0.40.0)\n" +
		"Root-Is-Purelib: true\n" +
		"Tag: py3-none-any\n" +
		"\n"
)

// pypypFiles returns the contents of pypyp-1.0.0-py3-none-any.whl.
func pypypFiles() []testFile {
	return []testFile{
		{"pypyp.py", "print('hello')\n", sIFREG | 0o644},
		{"pypyp/_speedups.cpython-311-x86_64-linux-gnu.so", "\x7fELF\x02\x01\x01\x00native", sIFREG | 0o755},
		{"pypyp-1.0.0.data/scripts/pyp", "#!python\nimport pypyp\n", sIFREG | 0o755},
		{"pypyp-1.0.0.dist-info/METADATA", testMetadata, sIFREG | 0o644},
		{"pypyp-1.0.0.dist-info/WHEEL", testWHEEL, sIFREG | 0o644},
		{"pypyp-1.0.0.dist-info/entry_points.txt", "[console_scripts]\npyp = pypyp:main\n", sIFREG | 0o644},
		{"pypyp-1.0.0.dist-info/RECORD", "stale,,\n", sIFREG | 0o644},
	}
}

// writeWheel writes a wheel called name containing files into dir and
// returns its path.
func writeWheel(t *testing.T, dir, name string, files []testFile) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("creating wheel: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for _, tf := range files {
		fh := &zip.FileHeader{
			Name:     tf.name,
			Method:   zip.Deflate,
			Modified: time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
		}
		if tf.mode != 0 {
			fh.CreatorVersion = creatorUnix
			fh.ExternalAttrs = tf.mode << 16
		}
		w, err := zw.CreateHeader(fh)
		if err != nil {
			t.Fatalf("creating %s: %v", tf.name, err)
		}
		if _, err := io.WriteString(w, tf.body); err != nil {
			t.Fatalf("writing %s: %v", tf.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("finalize writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing wheel: %v", err)
	}
	return p
}

func cpFile(t *testing.T, dest, src string) {
	t.Helper()
	r, err := os.Open(src)
	if err != nil {
		t.Fatalf("open file %s: %v", src, err)
	}
	defer r.Close()

	ri, err := r.Stat()
	if err != nil {
		t.Fatalf("stat file %s: %v", src, err)
	}
	w, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, ri.Mode())
	if err != nil {
		t.Fatalf("open destination file %s: %v", dest, err)
	}
	defer w.Close()
	if _, err := io.Copy(w, r); err != nil {
		t.Fatalf("copying file contents: %v", err)
	}
}

// writePypyp writes pypyp-1.0.0-py3-none-any.whl into dir.
func writePypyp(t *testing.T, dir string) string {
	t.Helper()
	return writeWheel(t, dir, "pypyp-1.0.0-py3-none-any.whl", pypypFiles())
}

// readWheel returns the entries of the wheel at path by name.
func readWheel(t *testing.T, path string) map[string]*zip.File {
	t.Helper()
	rc, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	t.Cleanup(func() { rc.Close() })
	files := make(map[string]*zip.File)
	for _, f := range rc.File {
		files[f.Name] = f
	}
	return files
}

// zipOrder returns the entry names of the wheel at path in archive order.
func zipOrder(t *testing.T, path string) []string {
	t.Helper()
	rc, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer rc.Close()
	var names []string
	for _, f := range rc.File {
		names = append(names, f.Name)
	}
	return names
}

func readEntry(t *testing.T, f *zip.File) string {
	t.Helper()
	r, err := f.Open()
	if err != nil {
		t.Fatalf("open %s: %v", f.Name, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read %s: %v", f.Name, err)
	}
	return string(b)
}

// installedMetadata reads the METADATA of the wheel at path the way an
// installer would.
func installedMetadata(t *testing.T, path string) *pypi.Metadata {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	md, err := pypi.WheelMetadata(context.Background(), f, info.Size())
	if err != nil {
		t.Fatalf("reading metadata of %s: %v", path, err)
	}
	return md
}

const (
	// Offset of compression field in LFH record.
	// See: https://users.cs.jmu.edu/buchhofp/forensics/formats/pkzip.html
	lfhCompOffset = 0x8
	// Offset of compression field in CDH record.
	cdhCompOffset = 0xa
	// Reserved compression scheme.
	compReserved = 0xf
)

// corruptEntry sets the compression method of the entry called name to a
// reserved value so that it cannot be decompressed.
func corruptEntry(t *testing.T, path, name string) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading wheel: %v", err)
	}

	lfh := binaryregexp.MustCompile(
		binaryregexp.QuoteMeta("PK\x03\x04") +
			`[\x00-\xff]{26}` +
			binaryregexp.QuoteMeta(name))
	m := lfh.FindIndex(b)
	if len(m) == 0 {
		t.Fatalf("could not find %s local file header", name)
	}
	b[m[0]+lfhCompOffset] = compReserved

	cdh := binaryregexp.MustCompile(
		binaryregexp.QuoteMeta("PK\x01\x02") +
			`[\x00-\xff]{42}` +
			binaryregexp.QuoteMeta(name))
	m = cdh.FindIndex(b)
	if len(m) == 0 {
		t.Fatalf("could not find %s central directory header", name)
	}
	b[m[0]+cdhCompOffset] = compReserved

	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("writing wheel: %v", err)
	}
}
