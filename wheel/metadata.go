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
	"fmt"
	"os"
	"strconv"
)

// MaxHeaderLength bounds the length of a rewritten Version header value.
// setuptools misreads METADATA lines longer than this.
//
// https://github.com/pypa/setuptools/issues/3808
const MaxHeaderLength = 200

// Names of files in the .dist-info directory.
const (
	metadataFile = "METADATA"
	wheelFile    = "WHEEL"
	recordFile   = "RECORD"
)

// RewriteVersion sets the Version header of a METADATA file.
func RewriteVersion(metadataPath, version string) error {
	if err := checkVersionLength(version); err != nil {
		return err
	}
	return editHeaders(metadataPath, func(b []byte) ([]byte, error) {
		return replaceHeader(b, "Version", version)
	})
}

func checkVersionLength(version string) error {
	if len(version) >= MaxHeaderLength {
		return &HeaderTooLongError{Header: "Version", Value: version, Limit: MaxHeaderLength}
	}
	return nil
}

// RewriteTag replaces the Tag headers of a WHEEL file with the single tag
// described by tag and updates Root-Is-Purelib to match. It returns the
// canonical form of the tag.
func RewriteTag(wheelPath, tag string) (string, error) {
	t, err := ParseTag(tag)
	if err != nil {
		return "", err
	}
	if err := t.Validate(); err != nil {
		return "", err
	}
	err = editHeaders(wheelPath, func(b []byte) ([]byte, error) {
		b, err := replaceHeader(b, "Tag", t.String())
		if err != nil {
			return nil, err
		}
		return replaceHeader(b, "Root-Is-Purelib", strconv.FormatBool(t.Pure()))
	})
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// WheelInfo is the subset of a WHEEL file the packer needs.
type WheelInfo struct {
	Tags []Tag
	// Build is the value of the Build header, if any.
	Build string
}

// ReadWheelInfo reads the Tag and Build headers of a WHEEL file.
func ReadWheelInfo(wheelPath string) (*WheelInfo, error) {
	b, err := os.ReadFile(wheelPath)
	if err != nil {
		return nil, err
	}
	info := &WheelInfo{}
	for _, v := range headerValues(b, "Tag") {
		tags, err := ExpandTag(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", wheelPath, err)
		}
		info.Tags = append(info.Tags, tags...)
	}
	if len(info.Tags) == 0 {
		return nil, fmt.Errorf("%s has no Tag header: %w", wheelPath, ErrMalformedWheel)
	}
	if builds := headerValues(b, "Build"); len(builds) > 0 {
		info.Build = builds[0]
	}
	return info, nil
}

func editHeaders(path string, edit func([]byte) ([]byte, error)) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	b, err = edit(b)
	if err != nil {
		return fmt.Errorf("editing %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
