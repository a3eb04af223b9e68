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

import "strings"

// Number is a non-negative integer of any size in canonical decimal form.
// PEP 440 puts no bound on numeric components. The zero value is 0.
type Number string

// parseNumber converts a run of ASCII digits. Leading zeros are dropped and
// the empty string yields 0.
func parseNumber(digits string) Number {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0"
	}
	return Number(digits)
}

func (n Number) String() string {
	if n == "" {
		return "0"
	}
	return string(n)
}

// IsZero reports whether n is 0.
func (n Number) IsZero() bool {
	return n.String() == "0"
}

// Cmp compares n and o numerically, returning -1, 0 or 1.
func (n Number) Cmp(o Number) int {
	a, b := n.String(), o.String()
	if len(a) != len(b) {
		return sign(len(a) - len(b))
	}
	return strings.Compare(a, b)
}
