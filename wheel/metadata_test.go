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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return p
}

func readTestFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("reading %s: %v", p, err)
	}
	return string(b)
}

func TestRewriteVersion(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "METADATA", testMetadata)
	if err := RewriteVersion(p, "1.0.0+yikes"); err != nil {
		t.Fatalf("RewriteVersion() returned error: %v", err)
	}
	want := strings.Replace(testMetadata, "Version: 1.0.0\n", "Version: 1.0.0+yikes\n", 1)
	if diff := cmp.Diff(want, readTestFile(t, p)); diff != "" {
		t.Errorf("METADATA diff (-want +got):\n%s", diff)
	}
}

func TestRewriteVersionTooLong(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "METADATA", testMetadata)
	version := "1.0.0+" + strings.Repeat("a", MaxHeaderLength-6)
	err := RewriteVersion(p, version)
	var herr *HeaderTooLongError
	if !errors.As(err, &herr) {
		t.Fatalf("RewriteVersion() returned %v, want *HeaderTooLongError", err)
	}
	if herr.Limit != MaxHeaderLength {
		t.Errorf("HeaderTooLongError.Limit = %d, want %d", herr.Limit, MaxHeaderLength)
	}
	if got := readTestFile(t, p); got != testMetadata {
		t.Errorf("METADATA was modified:\n%s", got)
	}

	// One character below the limit is fine.
	if err := RewriteVersion(p, version[1:]); err != nil {
		t.Errorf("RewriteVersion() with %d characters returned error: %v", len(version)-1, err)
	}
}

func TestRewriteVersionNoHeader(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "METADATA", "Name: pypyp\n")
	if err := RewriteVersion(p, "2.0"); err == nil {
		t.Errorf("RewriteVersion() succeeded on METADATA without a Version header")
	}
}

func TestRewriteTag(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "WHEEL", testWHEEL)
	got, err := RewriteTag(p, "cp311-cp311-manylinux_2_17_x86_64")
	if err != nil {
		t.Fatalf("RewriteTag() returned error: %v", err)
	}
	if want := "cp311-cp311-manylinux_2_17_x86_64"; got != want {
		t.Errorf("RewriteTag() = %q, want %q", got, want)
	}
	want := "Wheel-Version: 1.0\n" +
		"Generator: bdist_wheel (0.40.0)\n" +
		"Root-Is-Purelib: false\n" +
		"Tag: cp311-cp311-manylinux_2_17_x86_64\n" +
		"\n"
	if diff := cmp.Diff(want, readTestFile(t, p)); diff != "" {
		t.Errorf("WHEEL diff (-want +got):\n%s", diff)
	}
}

func TestRewriteTagInvalid(t *testing.T) {
	p := writeTestFile(t, t.TempDir(), "WHEEL", testWHEEL)

	_, err := RewriteTag(p, "cp311-cp311-any")
	var cerr *TagConsistencyError
	if !errors.As(err, &cerr) {
		t.Fatalf("RewriteTag(cp311-cp311-any) returned %v, want *TagConsistencyError", err)
	}
	for _, field := range []string{"ABI", "platform"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not name %s", err, field)
		}
	}

	_, err = RewriteTag(p, "py3-none-any-some")
	var nerr *TagCountError
	if !errors.As(err, &nerr) {
		t.Fatalf("RewriteTag(py3-none-any-some) returned %v, want *TagCountError", err)
	}

	if got := readTestFile(t, p); got != testWHEEL {
		t.Errorf("WHEEL was modified:\n%s", got)
	}
}

func TestReadWheelInfo(t *testing.T) {
	dir := t.TempDir()
	p := writeTestFile(t, dir, "WHEEL", "Wheel-Version: 1.0\nBuild: 1local\nTag: py2-none-any\nTag: py3.py2-none-any\n")
	got, err := ReadWheelInfo(p)
	if err != nil {
		t.Fatalf("ReadWheelInfo() returned error: %v", err)
	}
	want := &WheelInfo{
		Tags: []Tag{
			{"py2", "none", "any"},
			{"py3", "none", "any"},
			{"py2", "none", "any"},
		},
		Build: "1local",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadWheelInfo() returned diff (-want +got):\n%s", diff)
	}

	p = writeTestFile(t, dir, "WHEEL", "Wheel-Version: 1.0\n")
	if _, err := ReadWheelInfo(p); !errors.Is(err, ErrMalformedWheel) {
		t.Errorf("ReadWheelInfo() without tags returned %v, want ErrMalformedWheel", err)
	}
}
