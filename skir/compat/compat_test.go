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

package compat

import (
	"testing"

	"github.com/gepheum/skir/skir/compile"
)

func recordKeyOf(t *testing.T, ms *compile.ModuleSet, modulePath, name string) string {
	t.Helper()
	mr, ok := ms.Modules[modulePath]
	if !ok {
		t.Fatalf("module %q not found", modulePath)
	}
	for _, r := range mr.Records {
		if r.Name == name {
			return string(r.Key)
		}
	}
	t.Fatalf("record %q not found", name)
	return ""
}

// Scenario 6: compatibility - safe vs unsafe (spec §8).
func TestWideningIntIsNotBreaking(t *testing.T) {
	before := compile.Compile(map[string]string{"m.skir": "struct S(1) { a: int32; }\n"})
	after := compile.Compile(map[string]string{"m.skir": "struct S(1) { a: int64; }\n"})
	if len(before.Errors) != 0 || len(after.Errors) != 0 {
		t.Fatalf("unexpected compile errors: before=%v after=%v", before.Errors, after.Errors)
	}
	key := recordKeyOf(t, before, "m.skir", "S")

	res := Check(before, after, []string{key})
	if res.HasBreakingChanges() {
		t.Fatalf("widening int32 to int64 should not be breaking, got %+v", res.Issues)
	}
}

func TestFamilyChangeIsBreaking(t *testing.T) {
	before := compile.Compile(map[string]string{"m.skir": "struct S(1) { a: int32; }\n"})
	after := compile.Compile(map[string]string{"m.skir": "struct S(1) { a: uint32; }\n"})
	key := recordKeyOf(t, before, "m.skir", "S")

	res := Check(before, after, []string{key})
	if !res.HasBreakingChanges() {
		t.Fatal("changing int32 to uint32 should be breaking")
	}
}

func TestRemovingFieldWithoutRemovedClauseIsBreaking(t *testing.T) {
	before := compile.Compile(map[string]string{"m.skir": "struct S(1) { a: int32; }\n"})
	after := compile.Compile(map[string]string{"m.skir": "struct S(1) { }\n"})
	key := recordKeyOf(t, before, "m.skir", "S")

	res := Check(before, after, []string{key})
	if !res.HasBreakingChanges() {
		t.Fatal("removing a field without a matching `removed` clause should be breaking")
	}
}

func TestRemovingFieldWithRemovedClauseIsSafe(t *testing.T) {
	before := compile.Compile(map[string]string{"m.skir": "struct S(1) { a: int32; }\n"})
	after := compile.Compile(map[string]string{"m.skir": "struct S(1) { removed 0; }\n"})
	key := recordKeyOf(t, before, "m.skir", "S")

	res := Check(before, after, []string{key})
	if res.HasBreakingChanges() {
		t.Fatalf("retiring a field's slot via `removed` should not be breaking, got %+v", res.Issues)
	}
}

func TestRecordKindChangeIsBreaking(t *testing.T) {
	before := compile.Compile(map[string]string{"m.skir": "struct S(1) { a: int32; }\n"})
	after := compile.Compile(map[string]string{"m.skir": "enum S(1) { a: int32; }\n"})
	key := recordKeyOf(t, before, "m.skir", "S")

	res := Check(before, after, []string{key})
	if !res.HasBreakingChanges() {
		t.Fatal("changing struct to enum should be breaking")
	}
}
