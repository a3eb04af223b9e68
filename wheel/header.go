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
	"bytes"
	"fmt"

	"rsc.io/binaryregexp"
)

// METADATA and WHEEL files are RFC 822 style header blocks, optionally
// followed by a blank line and a body. Edits work on raw bytes so that
// everything but the replaced fields, including non UTF-8 content, is
// written back unchanged.

// headerEnd returns the offset of the blank line separating the headers from
// the body, or len(b) if there is no body.
func headerEnd(b []byte) int {
	if bytes.HasPrefix(b, []byte("\n")) || bytes.HasPrefix(b, []byte("\r\n")) {
		return 0
	}
	for i := 0; i < len(b); i++ {
		if b[i] != '\n' {
			continue
		}
		rest := b[i+1:]
		if bytes.HasPrefix(rest, []byte("\n")) || bytes.HasPrefix(rest, []byte("\r\n")) {
			return i + 1
		}
	}
	return len(b)
}

// fieldPattern matches a header field named name, including any folded
// continuation lines.
func fieldPattern(name string) *binaryregexp.Regexp {
	return binaryregexp.MustCompile(`(?im)^` + binaryregexp.QuoteMeta(name) + `[ \t]*:[^\n]*(?:\n[ \t][^\n]*)*\n?`)
}

// replaceHeader replaces the fields called name with one field per value.
// The new fields take the place of the first existing one and any further
// occurrences are dropped. The line ending of the first occurrence is kept.
// It is an error if the header block has no such field.
func replaceHeader(b []byte, name string, values ...string) ([]byte, error) {
	end := headerEnd(b)
	head := b[:end]
	locs := fieldPattern(name).FindAllIndex(head, -1)
	if len(locs) == 0 {
		return nil, fmt.Errorf("no %s header", name)
	}

	first := head[locs[0][0]:locs[0][1]]
	eol := "\n"
	if bytes.HasSuffix(first, []byte("\r\n")) {
		eol = "\r\n"
	}
	// The last field of a file without a trailing newline.
	terminated := bytes.HasSuffix(first, []byte("\n"))

	var fields bytes.Buffer
	for i, v := range values {
		fields.WriteString(name + ": " + v)
		if i < len(values)-1 || terminated {
			fields.WriteString(eol)
		}
	}

	var out bytes.Buffer
	out.Grow(len(b) + fields.Len())
	last := 0
	for i, loc := range locs {
		out.Write(head[last:loc[0]])
		if i == 0 {
			out.Write(fields.Bytes())
		}
		last = loc[1]
	}
	out.Write(b[last:])
	return out.Bytes(), nil
}

// headerValues returns the unfolded values of every field called name.
func headerValues(b []byte, name string) []string {
	head := b[:headerEnd(b)]
	var values []string
	for _, m := range fieldPattern(name).FindAll(head, -1) {
		i := bytes.IndexByte(m, ':')
		v := bytes.TrimRight(m[i+1:], "\r\n")
		v = bytes.ReplaceAll(v, []byte("\r\n"), []byte("\n"))
		lines := bytes.Split(v, []byte("\n"))
		for j := range lines {
			lines[j] = bytes.TrimSpace(lines[j])
		}
		values = append(values, string(bytes.Join(lines, []byte(" "))))
	}
	return values
}
