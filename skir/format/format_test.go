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

package format

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestFormatIsIdempotent(t *testing.T) {
	src := "struct Foo{x:int32;y:int32;}\n"
	first, err := Format("m.skir", []byte(src), nil)
	qt.Assert(t, qt.IsNil(err))
	second, err := Format("m.skir", []byte(first.NewSourceCode), nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(second.NewSourceCode, first.NewSourceCode))
	qt.Assert(t, qt.HasLen(second.TextEdits, 0))
}

func TestFormatNoEditsWhenAlreadyCanonical(t *testing.T) {
	res, err := Format("m.skir", []byte("struct Foo{x:int32;y:int32;}\n"), nil)
	qt.Assert(t, qt.IsNil(err))
	res2, err := Format("m.skir", []byte(res.NewSourceCode), nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(res2.TextEdits, 0))
}

func TestFormatRedactsStableIdentifiers(t *testing.T) {
	src := "struct Foo(12345){}\n"
	seq := []uint32{999}
	i := 0
	random := func() uint32 {
		v := seq[i%len(seq)]
		i++
		return v
	}
	res, err := Format("m.skir", []byte(src), random)
	qt.Assert(t, qt.IsNil(err))
	if want := "Foo(999)"; !stringContains(res.NewSourceCode, want) {
		t.Fatalf("expected redacted source to contain %q, got %q", want, res.NewSourceCode)
	}
}

func stringContains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
