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

// Package pep440 implements the Python version scheme described in PEP 440.
//
// https://peps.python.org/pep-0440/
package pep440

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// Version is a parsed, normalized PEP 440 version. All string components are
// stored in their canonical spelling.
type Version struct {
	// Epoch is empty for the default epoch 0.
	Epoch   Number
	Release []Number
	Pre     *PreRelease
	Post    *Number
	Dev     *Number
	// Local is the local version label, split on its separators.
	Local []intstr.IntOrString
}

// PreRelease is the pre-release component, e.g. "rc1". L is one of "a", "b"
// or "rc".
type PreRelease struct {
	L string
	N Number
}

// InvalidVersionError is returned for strings that do not follow the PEP 440
// grammar.
type InvalidVersionError struct {
	Version string
	Reason  string
}

func (e *InvalidVersionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid version: %q", e.Version)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Version, e.Reason)
}

// Parse parses and normalizes a version string.
func Parse(s string) (*Version, error) {
	return parse(s)
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical form of the version.
func (v *Version) String() string {
	var b strings.Builder
	v.writePublic(&b)
	for i, seg := range v.Local {
		if i == 0 {
			b.WriteByte('+')
		} else {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Public returns the canonical form without the local version label.
func (v *Version) Public() string {
	var b strings.Builder
	v.writePublic(&b)
	return b.String()
}

func (v *Version) writePublic(b *strings.Builder) {
	if !v.Epoch.IsZero() {
		fmt.Fprintf(b, "%s!", v.Epoch)
	}
	for i, n := range v.Release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(n.String())
	}
	if v.Pre != nil {
		fmt.Fprintf(b, "%s%s", v.Pre.L, v.Pre.N)
	}
	if v.Post != nil {
		fmt.Fprintf(b, ".post%s", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(b, ".dev%s", *v.Dev)
	}
}

// HasLocal reports whether v carries a local version label.
func (v *Version) HasLocal() bool {
	return len(v.Local) > 0
}

// WithLocal returns a copy of v whose local version label is replaced by the
// parsed form of local. An empty local removes the label. v is not modified.
func (v *Version) WithLocal(local string) (*Version, error) {
	segs, err := ParseLocal(local)
	if err != nil {
		return nil, err
	}
	n := v.clone()
	n.Local = segs
	return n, nil
}

func (v *Version) clone() *Version {
	n := &Version{
		Epoch:   v.Epoch,
		Release: append([]Number(nil), v.Release...),
		Local:   append([]intstr.IntOrString(nil), v.Local...),
	}
	if v.Pre != nil {
		pre := *v.Pre
		n.Pre = &pre
	}
	if v.Post != nil {
		post := *v.Post
		n.Post = &post
	}
	if v.Dev != nil {
		dev := *v.Dev
		n.Dev = &dev
	}
	return n
}

// Equal reports whether v and o denote the same version.
func (v *Version) Equal(o *Version) bool {
	return v.Cmp(o) == 0
}

// Cmp compares v and o following the PEP 440 ordering rules, returning a
// negative number, zero or a positive number.
func (v *Version) Cmp(o *Version) int {
	if d := v.Epoch.Cmp(o.Epoch); d != 0 {
		return d
	}
	if d := cmpRelease(v.Release, o.Release); d != 0 {
		return d
	}
	if d := sign(v.preKey() - o.preKey()); d != 0 {
		return d
	}
	if v.Pre != nil && o.Pre != nil {
		if d := v.Pre.N.Cmp(o.Pre.N); d != 0 {
			return d
		}
	}
	if d := cmpOptional(v.Post, o.Post, -1); d != 0 {
		return d
	}
	if d := cmpOptional(v.Dev, o.Dev, 1); d != 0 {
		return d
	}
	return cmpLocal(v.Local, o.Local)
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// cmpRelease compares release segments, padding the shorter one with zeros.
func cmpRelease(a, b []Number) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y Number
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if d := x.Cmp(y); d != 0 {
			return d
		}
	}
	return 0
}

var preOrder = map[string]int{
	"a":  -3,
	"b":  -2,
	"rc": -1,
}

// preKey orders the pre-release letter. A bare dev release sorts before any
// pre-release of the same release, and a final release after all of them.
func (v *Version) preKey() int {
	switch {
	case v.Pre != nil:
		return preOrder[v.Pre.L]
	case v.Dev != nil && v.Post == nil:
		return -4
	}
	return 0
}

// cmpOptional compares optional numbers; missing sorts as -inf when absent is
// negative and +inf otherwise.
func cmpOptional(a, b *Number, absent int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return absent
	case b == nil:
		return -absent
	}
	return a.Cmp(*b)
}

// cmpLocal compares local labels segment by segment. Numeric segments sort
// after alphanumeric ones; a label that is a prefix of another sorts first.
func cmpLocal(a, b []intstr.IntOrString) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		switch {
		case i >= len(a):
			return -1
		case i >= len(b):
			return 1
		}
		if d := cmpLocalSegment(a[i], b[i]); d != 0 {
			return d
		}
	}
	return 0
}

func cmpLocalSegment(a, b intstr.IntOrString) int {
	an, bn := isNumeric(a), isNumeric(b)
	switch {
	case an && !bn:
		return 1
	case !an && bn:
		return -1
	case an && bn:
		return parseNumber(a.String()).Cmp(parseNumber(b.String()))
	}
	return strings.Compare(a.StrVal, b.StrVal)
}

func isNumeric(s intstr.IntOrString) bool {
	return s.Type == intstr.Int || isDigits(s.StrVal)
}
