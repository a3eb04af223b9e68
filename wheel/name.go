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
	"strings"
	"unicode"

	"deps.dev/util/pypi"
)

// Ext is the file extension of wheels.
const Ext = ".whl"

// NameParts holds the fields of a wheel file name, as written in the name:
//
//	{distribution}-{version}[-{build tag}]-{python tag}-{abi tag}-{platform tag}.whl
//
// https://packaging.python.org/en/latest/specifications/binary-distribution-format/#file-name-convention
type NameParts struct {
	Distribution string
	Version      string
	// BuildTag is empty when the name has none.
	BuildTag string
	// Tag is the compressed compatibility tag, e.g. "py2.py3-none-any".
	Tag string
	// Tags is the expansion of Tag.
	Tags []Tag
}

// ParseName splits a wheel file name into its parts. It is the inverse of
// NameParts.String.
func ParseName(name string) (NameParts, error) {
	perr := func(reason string) error {
		return &ParseError{Kind: "wheel name", Input: name, Reason: reason}
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return NameParts{}, perr("contains whitespace")
	}
	wi, err := pypi.ParseWheelName(name)
	if err != nil {
		return NameParts{}, perr(err.Error())
	}
	if wi.Name == "" || wi.Version == "" {
		return NameParts{}, perr("empty field")
	}
	p := NameParts{Distribution: wi.Name, Version: wi.Version}
	for _, t := range wi.Platforms {
		if t.Python == "" || t.ABI == "" || t.Platform == "" {
			return NameParts{}, perr("empty field")
		}
		p.Tags = append(p.Tags, Tag(t))
	}
	// The parsed build number drops leading zeros and the expanded tags lose
	// the compressed spelling, so both are kept as written.
	fields := strings.Split(strings.TrimSuffix(name, Ext), "-")
	p.Tag = strings.Join(fields[len(fields)-3:], "-")
	if len(fields) == 6 {
		p.BuildTag = fields[2]
	}
	return p, nil
}

// String returns the wheel file name.
func (p NameParts) String() string {
	var parts []string
	for _, s := range []string{p.Distribution, p.Version, p.BuildTag, p.Tag} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-") + Ext
}

// Slug is the "{distribution}-{version}" prefix shared by the wheel's root
// and its .dist-info and .data directories.
func (p NameParts) Slug() string {
	return p.Distribution + "-" + p.Version
}
