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

package pep440

import (
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// versionPattern is the grammar from PEP 440 Appendix B, with the verbose
// whitespace and comments stripped at init.
var versionPattern = regexp.MustCompile(`(?i)^\s*` + regexp.MustCompile(`(?:\s+|#.*)`).ReplaceAllString(`
	v?
	(?:
	    (?:(?P<epoch>[0-9]+)!)?                     # epoch
	    (?P<release>[0-9]+(?:\.[0-9]+)*)            # release segment
	    (?P<pre>
	        [-_\.]?
	        (?P<pre_l>alpha|a|beta|b|preview|pre|c|rc)
	        [-_\.]?
	        (?P<pre_n>[0-9]+)?
	    )?
	    (?P<post>
	        (?:-(?P<post_n1>[0-9]+))
	        |
	        (?:
	            [-_\.]?
	            (?P<post_l>post|rev|r)
	            [-_\.]?
	            (?P<post_n2>[0-9]+)?
	        )
	    )?
	    (?P<dev>
	        [-_\.]?
	        (?P<dev_l>dev)
	        [-_\.]?
	        (?P<dev_n>[0-9]+)?
	    )?
	)
	(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))? # local version
`, ``) + `\s*$`)

var localPattern = regexp.MustCompile(`(?i)^[a-z0-9]+(?:[-_\.][a-z0-9]+)*$`)

var preLetters = map[string]string{
	"a":       "a",
	"alpha":   "a",
	"b":       "b",
	"beta":    "b",
	"rc":      "rc",
	"c":       "rc",
	"pre":     "rc",
	"preview": "rc",
}

func parse(s string) (*Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, &InvalidVersionError{Version: s}
	}
	group := func(name string) string {
		return m[versionPattern.SubexpIndex(name)]
	}

	var v Version
	if e := parseNumber(group("epoch")); !e.IsZero() {
		v.Epoch = e
	}
	for _, seg := range strings.Split(group("release"), ".") {
		v.Release = append(v.Release, parseNumber(seg))
	}
	if l := group("pre_l"); l != "" {
		v.Pre = &PreRelease{L: preLetters[strings.ToLower(l)], N: parseNumber(group("pre_n"))}
	}
	if group("post") != "" {
		n := parseNumber(group("post_n1") + group("post_n2"))
		v.Post = &n
	}
	if group("dev") != "" {
		n := parseNumber(group("dev_n"))
		v.Dev = &n
	}
	if l := group("local"); l != "" {
		v.Local = parseLocalSegments(l)
	}
	return &v, nil
}

// ParseLocal parses a local version label, the part after "+". The empty
// string yields no segments.
func ParseLocal(local string) ([]intstr.IntOrString, error) {
	if local == "" {
		return nil, nil
	}
	if !localPattern.MatchString(local) {
		return nil, &InvalidVersionError{Version: "+" + local, Reason: "invalid local version label"}
	}
	return parseLocalSegments(local), nil
}

func parseLocalSegments(local string) []intstr.IntOrString {
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	segs := make([]intstr.IntOrString, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, localSegment(strings.ToLower(p)))
	}
	return segs
}

// maxIntSegment is the longest run of digits guaranteed to fit in the int32
// held by intstr.IntOrString.
const maxIntSegment = 9

// localSegment converts one local label segment. Numeric segments lose their
// leading zeros; those too large for an int32 are kept as digit strings and
// still compare numerically.
func localSegment(p string) intstr.IntOrString {
	if !isDigits(p) {
		return intstr.FromString(p)
	}
	p = strings.TrimLeft(p, "0")
	if p == "" {
		p = "0"
	}
	if len(p) > maxIntSegment {
		return intstr.FromString(p)
	}
	n, _ := strconv.Atoi(p)
	return intstr.FromInt32(int32(n))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
