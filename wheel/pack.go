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
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// sIFREG is the POSIX file type bits of a regular file.
	sIFREG = 0o100000
	// recordMode is the mode given to the generated RECORD entry.
	recordMode = sIFREG | 0o664
	// creatorUnix marks external attributes as holding POSIX modes.
	creatorUnix = 3 << 8
)

// minZipTime is the earliest time representable in a zip entry.
var minZipTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Packer writes an unpacked wheel tree back into a wheel archive the same
// way `wheel pack` does.
type Packer struct {
	// ModTime, if set, is recorded for every entry. Otherwise each file keeps
	// its modification time and RECORD gets the time of packing.
	ModTime time.Time
}

// Pack archives the wheel tree rooted at dir into destDir and returns the
// path of the new wheel. dir must contain exactly one .dist-info directory
// whose WHEEL file supplies the tags and build tag of the file name.
//
// RECORD is regenerated from the files written. The archive is built in a
// temporary file in destDir and renamed into place.
func (p *Packer) Pack(dir, destDir string) (string, error) {
	distInfo, err := findDistInfo(dir)
	if err != nil {
		return "", err
	}
	info, err := ReadWheelInfo(filepath.Join(dir, distInfo, wheelFile))
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(distInfo, ".dist-info")
	if info.Build != "" {
		name += "-" + info.Build
	}
	name += "-" + Tagline(info.Tags) + Ext
	dest := filepath.Join(destDir, name)

	// Keep the temp file next to the destination so the rename does not
	// cross filesystems.
	tf, err := os.CreateTemp(destDir, ".wheelversion")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %v", err)
	}
	defer os.Remove(tf.Name()) // Attempt to clean up temp file no matter what.
	defer tf.Close()

	if err := p.write(tf, dir, path.Join(distInfo, recordFile)); err != nil {
		return "", fmt.Errorf("packing %s: %w", dir, err)
	}
	if err := tf.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tf.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod file: %v", err)
	}
	if err := os.Rename(tf.Name(), dest); err != nil {
		return "", fmt.Errorf("renaming to %s: %v", dest, err)
	}
	return dest, nil
}

// findDistInfo returns the name of the single .dist-info directory in dir.
func findDistInfo(dir string) (string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var found []string
	for _, de := range des {
		if de.IsDir() && strings.HasSuffix(de.Name(), ".dist-info") {
			found = append(found, de.Name())
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no .dist-info directory in %s: %w", dir, ErrMalformedWheel)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("multiple .dist-info directories in %s (%s): %w", dir, strings.Join(found, ", "), ErrMalformedWheel)
	}
}

// packFile is a file of the tree and its name in the archive.
type packFile struct {
	path    string
	arcname string
}

func (p *Packer) write(w io.Writer, dir, recordPath string) error {
	var files, deferred []packFile
	err := walkSorted(dir, "", func(f packFile) {
		switch {
		case f.arcname == recordPath:
		case strings.HasSuffix(path.Dir(f.arcname), ".dist-info"):
			deferred = append(deferred, f)
		default:
			files = append(files, f)
		}
	})
	if err != nil {
		return err
	}
	sort.Slice(deferred, func(i, j int) bool { return deferred[i].arcname < deferred[j].arcname })
	files = append(files, deferred...)

	zw := zip.NewWriter(w)
	entries := make([]recordEntry, 0, len(files))
	for _, f := range files {
		e, err := p.writeFile(zw, f)
		if err != nil {
			return fmt.Errorf("adding %s: %w", f.arcname, err)
		}
		entries = append(entries, e)
	}

	modTime := p.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}
	rw, err := zw.CreateHeader(newHeader(recordPath, recordMode, modTime))
	if err != nil {
		return err
	}
	if err := writeRecord(rw, recordPath, entries); err != nil {
		return fmt.Errorf("writing RECORD: %v", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize writer: %v", err)
	}
	return nil
}

// walkSorted visits the regular files under dir/rel the way Python's
// os.walk does with sorted listings: the files of a directory first, then
// its subdirectories. Symbolic links to directories are not followed.
func walkSorted(dir, rel string, visit func(packFile)) error {
	des, err := os.ReadDir(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	var subdirs []string
	for _, de := range des {
		arcname := path.Join(rel, de.Name())
		if de.IsDir() {
			subdirs = append(subdirs, arcname)
			continue
		}
		p := filepath.Join(dir, filepath.FromSlash(arcname))
		fi, err := os.Stat(p)
		if err != nil {
			return err
		}
		if fi.Mode().IsRegular() {
			visit(packFile{path: p, arcname: arcname})
		}
	}
	for _, sub := range subdirs {
		if err := walkSorted(dir, sub, visit); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) writeFile(zw *zip.Writer, f packFile) (recordEntry, error) {
	mode, err := rawMode(f.path)
	if err != nil {
		return recordEntry{}, err
	}
	in, err := os.Open(f.path)
	if err != nil {
		return recordEntry{}, err
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return recordEntry{}, err
	}
	modTime := p.ModTime
	if modTime.IsZero() {
		modTime = fi.ModTime()
	}

	zf, err := zw.CreateHeader(newHeader(f.arcname, mode, modTime))
	if err != nil {
		return recordEntry{}, err
	}
	hw := newHashingWriter(zf)
	buf := copyBuffers.Get(int(fi.Size()))
	defer copyBuffers.Put(buf)
	// Hide *os.File's WriteTo so the pooled buffer is used.
	if _, err := io.CopyBuffer(hw, struct{ io.Reader }{in}, buf); err != nil {
		return recordEntry{}, err
	}
	return hw.entry(f.arcname), nil
}

func newHeader(name string, mode uint32, modTime time.Time) *zip.FileHeader {
	if modTime.Before(minZipTime) {
		modTime = minZipTime
	}
	return &zip.FileHeader{
		Name:           name,
		Method:         zip.Deflate,
		Modified:       modTime.UTC(),
		CreatorVersion: creatorUnix,
		ExternalAttrs:  (mode & 0xffff) << 16,
	}
}
