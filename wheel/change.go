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

// Package wheel changes the version and platform tag of Python wheels. It
// unpacks a wheel into a scratch directory, renames its .dist-info and .data
// directories, rewrites the METADATA and WHEEL headers and packs the tree
// again the way "wheel pack" does, with a fresh RECORD.
//
// https://packaging.python.org/en/latest/specifications/binary-distribution-format/
package wheel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"deps.dev/util/pypi"
	"github.com/google/wheelversion/pep440"
)

// Changer changes the version, and optionally the platform tag, of wheels.
type Changer struct {
	// Version replaces the wheel's version. It must not carry a local
	// label. Empty keeps the current version.
	Version string
	// LocalVersion, if non-nil, replaces the local version label. An empty
	// label removes it.
	LocalVersion *string
	// PlatformTag, if set, replaces the wheel's compatibility tag. It must
	// describe a single tag, e.g. "cp311-cp311-manylinux_2_17_x86_64".
	PlatformTag string
	// AllowSameVersion makes a request that leaves the version unchanged a
	// no-op instead of an error.
	AllowSameVersion bool
	// ModTime is recorded for every entry of the new wheel. See Packer.
	ModTime time.Time
	// Logf, if provided, receives progress messages.
	Logf func(format string, args ...any)
}

func (c *Changer) logf(format string, args ...any) {
	if c.Logf == nil {
		return
	}
	c.Logf(format, args...)
}

// Change writes a copy of the wheel at wheelPath with the requested version
// and tag next to it and returns the new wheel's path. The input is not
// modified. A request that changes only the platform tag is allowed. If
// neither the version nor the tag changes and AllowSameVersion is set,
// wheelPath itself is returned without touching the archive.
func (c *Changer) Change(wheelPath string) (string, error) {
	parts, err := ParseName(filepath.Base(wheelPath))
	if err != nil {
		return "", err
	}
	oldVersion, err := pep440.Parse(parts.Version)
	if err != nil {
		return "", err
	}
	newVersion, err := c.resolveVersion(oldVersion)
	if err != nil {
		return "", err
	}
	version := newVersion.String()
	if err := checkVersionLength(version); err != nil {
		return "", err
	}

	newParts := parts
	newParts.Version = version
	newParts.Tag = Tagline(parts.Tags)
	if c.PlatformTag != "" {
		t, err := ParseTag(c.PlatformTag)
		if err != nil {
			return "", err
		}
		if err := t.Validate(); err != nil {
			return "", err
		}
		newParts.Tag = t.String()
		newParts.Tags = []Tag{t}
	}
	// The new name is composed from the canonical tag, so it equals the
	// input's name only when both the version and the tag are unchanged.
	if newVersion.Equal(oldVersion) && newParts.Tag == Tagline(parts.Tags) {
		if c.AllowSameVersion {
			c.logf("%s already has version %s and tag %s", wheelPath, version, newParts.Tag)
			return wheelPath, nil
		}
		return "", &SameVersionError{Version: version}
	}

	info, err := os.Stat(wheelPath)
	if err != nil {
		return "", err
	}
	tmp, err := os.MkdirTemp("", "wheelversion")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %v", err)
	}
	defer os.RemoveAll(tmp)

	oldRoot := filepath.Join(tmp, parts.Slug())
	c.logf("Unpacking %s", wheelPath)
	if err := Unpack(wheelPath, oldRoot); err != nil {
		return "", err
	}
	oldSlug, err := findSlug(oldRoot, parts.Distribution, parts.Version, oldVersion)
	if err != nil {
		return "", err
	}
	newSlug := newParts.Slug()
	root := filepath.Join(tmp, newSlug)
	if err := renameTree(oldRoot, root, oldSlug, newSlug); err != nil {
		return "", err
	}
	c.logf("Renamed %s to %s", oldSlug, newSlug)

	distInfo := filepath.Join(root, newSlug+".dist-info")
	if err := RewriteVersion(filepath.Join(distInfo, metadataFile), version); err != nil {
		return "", err
	}
	if c.PlatformTag != "" {
		if _, err := RewriteTag(filepath.Join(distInfo, wheelFile), newParts.Tag); err != nil {
			return "", err
		}
		c.logf("Set platform tag %s", newParts.Tag)
	} else {
		wi, err := ReadWheelInfo(filepath.Join(distInfo, wheelFile))
		if err != nil {
			return "", err
		}
		if got := Tagline(wi.Tags); got != newParts.Tag {
			return "", fmt.Errorf("WHEEL tags %s do not match file name tag %s: %w", got, parts.Tag, ErrMalformedWheel)
		}
	}

	dir := filepath.Dir(wheelPath)
	p := Packer{ModTime: c.ModTime}
	packed, err := p.Pack(root, dir)
	if err != nil {
		return "", err
	}
	c.logf("Packed %s", packed)

	out := filepath.Join(dir, newParts.String())
	if _, err := os.Stat(out); err != nil {
		if packed != out {
			os.Remove(packed)
		}
		return "", outputMissing(out, dir)
	}
	if err := os.Chmod(out, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("chmod file: %v", err)
	}
	return out, nil
}

// resolveVersion computes the new version from the old one and the
// requested changes.
func (c *Changer) resolveVersion(old *pep440.Version) (*pep440.Version, error) {
	if c.Version == "" {
		if c.LocalVersion == nil {
			if c.PlatformTag != "" {
				return old, nil
			}
			return nil, &InvalidArgumentError{Msg: "one of version, local version or platform tag is required"}
		}
		return old.WithLocal(*c.LocalVersion)
	}
	v, err := pep440.Parse(c.Version)
	if err != nil {
		return nil, err
	}
	if v.HasLocal() {
		return nil, &InvalidArgumentError{Msg: fmt.Sprintf("version %s must not have a local label, use the local version instead", c.Version)}
	}
	if c.LocalVersion != nil {
		return v.WithLocal(*c.LocalVersion)
	}
	return v, nil
}

// findSlug returns the "{distribution}-{version}" prefix of the .dist-info
// directory in root. Builders do not agree on how the prefix is spelled, so
// after the normalized and the file name's spelling, directories are matched
// by canonical project name and version.
func findSlug(root, distribution, rawVersion string, version *pep440.Version) (string, error) {
	for _, slug := range []string{distribution + "-" + version.String(), distribution + "-" + rawVersion} {
		if isDir(filepath.Join(root, slug+".dist-info")) {
			return slug, nil
		}
	}
	des, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	want := pypi.CanonPackageName(distribution)
	for _, de := range des {
		slug, ok := strings.CutSuffix(de.Name(), ".dist-info")
		if !ok || !de.IsDir() {
			continue
		}
		i := strings.LastIndex(slug, "-")
		if i < 0 || pypi.CanonPackageName(slug[:i]) != want {
			continue
		}
		if v, err := pep440.Parse(slug[i+1:]); err == nil && v.Equal(version) {
			return slug, nil
		}
	}
	return "", fmt.Errorf("no %s-%s.dist-info directory: %w", distribution, version, ErrMalformedWheel)
}

// renameTree moves the unpacked wheel from oldRoot to newRoot and renames
// its .dist-info and .data directories from oldSlug to newSlug.
func renameTree(oldRoot, newRoot, oldSlug, newSlug string) error {
	if oldRoot != newRoot {
		if err := os.Rename(oldRoot, newRoot); err != nil {
			return err
		}
	}
	if oldSlug == newSlug {
		return nil
	}
	if err := os.Rename(filepath.Join(newRoot, oldSlug+".dist-info"), filepath.Join(newRoot, newSlug+".dist-info")); err != nil {
		return err
	}
	err := os.Rename(filepath.Join(newRoot, oldSlug+".data"), filepath.Join(newRoot, newSlug+".data"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func outputMissing(path, dir string) error {
	e := &OutputMissingError{Path: path}
	des, err := os.ReadDir(dir)
	if err != nil {
		return e
	}
	for _, de := range des {
		e.Contents = append(e.Contents, filepath.Join(dir, de.Name()))
	}
	return e
}
