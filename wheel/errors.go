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
	"fmt"
	"strings"
)

// ErrMalformedWheel is wrapped by errors describing a wheel whose contents do
// not follow the layout promised by its file name, such as a missing
// .dist-info directory.
var ErrMalformedWheel = errors.New("malformed wheel")

// ParseError is returned for malformed wheel file names and tag strings.
type ParseError struct {
	// Kind names what was being parsed, e.g. "wheel name".
	Kind   string
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
}

// InvalidArgumentError reports an unusable combination of options.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

// SameVersionError is returned when the requested version equals the
// wheel's current version.
type SameVersionError struct {
	Version string
}

func (e *SameVersionError) Error() string {
	return fmt.Sprintf("version %s is the same as the old version", e.Version)
}

// HeaderTooLongError is returned when a header value would reach the maximum
// line length tolerated by downstream metadata readers.
type HeaderTooLongError struct {
	Header string
	Value  string
	Limit  int
}

func (e *HeaderTooLongError) Error() string {
	return fmt.Sprintf("%s %q is too long: %d characters, must be fewer than %d", e.Header, e.Value, len(e.Value), e.Limit)
}

// TagCountError is returned when a platform tag does not describe exactly
// one interpreter-ABI-platform combination.
type TagCountError struct {
	Tag string
	// Fields is the number of dash-separated fields in Tag.
	Fields int
	// Count is the number of distinct tags Tag expands to. Zero when Fields
	// is not three.
	Count int
}

func (e *TagCountError) Error() string {
	if e.Fields != 3 {
		return fmt.Sprintf("platform tag %q has %d dash-separated fields, expected 3 (interpreter-abi-platform)", e.Tag, e.Fields)
	}
	return fmt.Sprintf("platform tag %q expands to %d tags, expected exactly 1", e.Tag, e.Count)
}

// TagConsistencyError is returned when the fields of a tag disagree on
// whether the wheel is pure Python.
type TagConsistencyError struct {
	Tag    string
	Fields [2]string
}

func (e *TagConsistencyError) Error() string {
	return fmt.Sprintf("%s and %s are inconsistent in platform tag %q", e.Fields[0], e.Fields[1], e.Tag)
}

// ExtractionError is returned when a wheel cannot be unpacked.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// OutputMissingError is returned when the repacked wheel is not found under
// its expected name.
type OutputMissingError struct {
	Path string
	// Contents lists the directory the wheel was expected in.
	Contents []string
}

func (e *OutputMissingError) Error() string {
	return fmt.Sprintf("failed to create new wheel %s\ndirectory contents: [%s]", e.Path, strings.Join(e.Contents, ", "))
}
