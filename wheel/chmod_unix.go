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

//go:build linux || darwin

package wheel

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// chmodRaw applies POSIX permission bits, as stored in the high 16 bits of a
// zip entry's external attributes, to path. The file type bits are ignored.
// os.Chmod would need them translated to fs.FileMode first, losing nothing
// for rwx but mangling setuid, setgid and sticky.
func chmodRaw(path string, mode uint32) error {
	if err := unix.Chmod(path, mode&0o7777); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// rawMode returns the POSIX mode of path, type bits included, following
// symbolic links.
func rawMode(path string) (uint32, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return uint32(st.Mode), nil
}
