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

package casing

import "testing"

func TestIsUpperCamel(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Foo", true},
		{"FooBar2", true},
		{"foo", false},
		{"", false},
		{"Foo_Bar", false},
		{"2Foo", false},
	}
	for _, c := range cases {
		if got := IsUpperCamel(c.in); got != c.ok {
			t.Errorf("IsUpperCamel(%q) = %v, want %v", c.in, got, c.ok)
		}
	}
}

func TestIsLowerUnderscore(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"foo", true},
		{"foo_bar", true},
		{"foo_bar2", true},
		{"Foo", false},
		{"foo__bar", false},
		{"foo_", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsLowerUnderscore(c.in); got != c.ok {
			t.Errorf("IsLowerUnderscore(%q) = %v, want %v", c.in, got, c.ok)
		}
	}
}

func TestIsUpperUnderscore(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"OK", true},
		{"NOT_FOUND", true},
		{"UNKNOWN", true},
		{"not_found", false},
		{"NOT__FOUND", false},
		{"NOT_", false},
	}
	for _, c := range cases {
		if got := IsUpperUnderscore(c.in); got != c.ok {
			t.Errorf("IsUpperUnderscore(%q) = %v, want %v", c.in, got, c.ok)
		}
	}
}
