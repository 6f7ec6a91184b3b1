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

package snapshot

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/gepheum/skir/skir/compile"
)

func TestNormalizeSortsAndDedupes(t *testing.T) {
	s := &Snapshot{
		TrackedRecordIDs:   []string{"m.skir:20", "m.skir:10", "m.skir:10"},
		UntrackedRecordIDs: []string{"z", "a", "a"},
	}
	s.Normalize()
	qt.Assert(t, qt.DeepEquals(s.TrackedRecordIDs, []string{"m.skir:10", "m.skir:20"}))
	qt.Assert(t, qt.DeepEquals(s.UntrackedRecordIDs, []string{"a", "z"}))
}

func recordKey(t *testing.T, ms *compile.ModuleSet, name string) string {
	t.Helper()
	for key, rec := range ms.RecordMap {
		if rec.Name == name {
			return string(key)
		}
	}
	t.Fatalf("record %q not found", name)
	return ""
}

func TestValidateSucceedsForConsistentSnapshot(t *testing.T) {
	src := map[string]string{"m.skir": "struct Foo(1) { a: int32; }\n"}
	ms := compile.Compile(src)
	qt.Assert(t, qt.HasLen(ms.Errors, 0))

	s := &Snapshot{
		Modules:          src,
		TrackedRecordIDs: []string{recordKey(t, ms, "Foo")},
	}
	err := s.Validate(compile.Compile)
	qt.Assert(t, qt.IsNil(err))
}

func TestValidateRejectsUnresolvedTrackedID(t *testing.T) {
	src := map[string]string{"m.skir": "struct Foo(1) { a: int32; }\n"}
	s := &Snapshot{
		Modules:          src,
		TrackedRecordIDs: []string{"m.skir:does-not-exist"},
	}
	err := s.Validate(compile.Compile)
	if err == nil {
		t.Fatal("expected an error for a tracked ID absent from the recompiled modules")
	}
}

func TestValidateRejectsIDListedBothTrackedAndUntracked(t *testing.T) {
	src := map[string]string{"m.skir": "struct Foo(1) { a: int32; }\n"}
	ms := compile.Compile(src)
	qt.Assert(t, qt.HasLen(ms.Errors, 0))
	key := recordKey(t, ms, "Foo")

	s := &Snapshot{
		Modules:            src,
		TrackedRecordIDs:   []string{key},
		UntrackedRecordIDs: []string{key},
	}
	err := s.Validate(compile.Compile)
	if err == nil {
		t.Fatal("expected an error when a record is both tracked and untracked")
	}
}

func TestValidateRejectsModulesThatDoNotCompile(t *testing.T) {
	s := &Snapshot{
		Modules: map[string]string{"m.skir": "struct Foo( { a bad; }"},
	}
	err := s.Validate(compile.Compile)
	if err == nil {
		t.Fatal("expected an error for modules that fail to recompile")
	}
}
