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

//go:build !linux && !darwin

package wheel

import (
	"io/fs"
	"os"
)

func chmodRaw(path string, mode uint32) error {
	return os.Chmod(path, fs.FileMode(mode&0o777))
}

func rawMode(path string) (uint32, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	mode := uint32(fi.Mode().Perm())
	if fi.Mode().IsRegular() {
		mode |= sIFREG
	}
	return mode, nil
}
