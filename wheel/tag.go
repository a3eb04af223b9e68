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
	"sort"
	"strings"

	"deps.dev/util/pypi"
)

// Tag is a single compatibility tag as defined in
// https://packaging.python.org/en/latest/specifications/platform-compatibility-tags/
type Tag pypi.PEP425Tag

// String returns the tag in "python-abi-platform" form.
func (t Tag) String() string {
	return t.Python + "-" + t.ABI + "-" + t.Platform
}

// Pure reports whether the tag describes a pure Python wheel.
func (t Tag) Pure() bool {
	return t.pureInterpreter() && t.pureABI() && t.purePlatform()
}

func (t Tag) pureInterpreter() bool { return strings.HasPrefix(t.Python, "py") }
func (t Tag) pureABI() bool         { return t.ABI == "none" }
func (t Tag) purePlatform() bool    { return t.Platform == "any" }

// Validate checks that the interpreter, ABI and platform agree on whether the
// wheel is pure Python.
func (t Tag) Validate() error {
	interp, abi, plat := t.pureInterpreter(), t.pureABI(), t.purePlatform()
	var fields [2]string
	switch {
	case interp == abi && abi == plat:
		return nil
	case interp == abi:
		fields = [2]string{"ABI", "platform"}
	default:
		fields = [2]string{"interpreter", "ABI"}
	}
	return &TagConsistencyError{Tag: t.String(), Fields: fields}
}

// ParseTag parses a tag string that must describe exactly one tag. Compressed
// tag sets such as "py2.py3-none-any" are expanded first and rejected with a
// *TagCountError unless they collapse to a single tag.
func ParseTag(s string) (Tag, error) {
	tags, err := ExpandTag(s)
	if err != nil {
		return Tag{}, err
	}
	if len(tags) != 1 {
		return Tag{}, &TagCountError{Tag: s, Fields: 3, Count: len(tags)}
	}
	return tags[0], nil
}

// ExpandTag returns the distinct tags described by a possibly compressed tag
// string, in the order they are first produced.
func ExpandTag(s string) ([]Tag, error) {
	fields := strings.Split(s, "-")
	if len(fields) != 3 {
		return nil, &TagCountError{Tag: s, Fields: len(fields)}
	}
	parts := make([][]string, 3)
	for i, f := range fields {
		parts[i] = strings.Split(f, ".")
		for _, p := range parts[i] {
			if p == "" {
				return nil, &ParseError{Kind: "platform tag", Input: s, Reason: "empty tag component"}
			}
		}
	}
	seen := make(map[Tag]bool)
	var tags []Tag
	for _, interp := range parts[0] {
		for _, abi := range parts[1] {
			for _, plat := range parts[2] {
				t := Tag{interp, abi, plat}
				if seen[t] {
					continue
				}
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags, nil
}

// Tagline compresses a list of tags into a single tag string with sorted,
// de-duplicated component lists, e.g. "py3.py2-none-any" expands and
// compresses back to "py2.py3-none-any". This is the form the packer writes
// into file names.
func Tagline(tags []Tag) string {
	var interps, abis, plats []string
	for _, t := range tags {
		interps = append(interps, t.Python)
		abis = append(abis, t.ABI)
		plats = append(plats, t.Platform)
	}
	return sortedSet(interps) + "-" + sortedSet(abis) + "-" + sortedSet(plats)
}

func sortedSet(items []string) string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ".")
}
