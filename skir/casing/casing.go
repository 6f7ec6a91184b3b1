// Copyright 2026 The Skir Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package casing validates the three identifier conventions Skir source
// enforces (spec §4.3 "Casing"): UpperCamel for records and methods,
// lower_underscore for fields, UPPER_UNDERSCORE for constants and plain
// enum variants.
package casing

import "regexp"

var (
	upperCamelRe     = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	lowerUnderscoreRe = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)
	upperUnderscoreRe = regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)
)

// IsUpperCamel reports whether s is UpperCamel and not solely uppercase
// letters/digits (spec §4.3: "XML" is not a valid UpperCamel name).
func IsUpperCamel(s string) bool {
	if !upperCamelRe.MatchString(s) {
		return false
	}
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return true
		}
	}
	return false
}

func IsLowerUnderscore(s string) bool { return lowerUnderscoreRe.MatchString(s) }
func IsUpperUnderscore(s string) bool { return upperUnderscoreRe.MatchString(s) }
