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

package findref

import (
	"strings"
	"testing"

	"github.com/gepheum/skir/skir/compile"
)

func findRecordByName(ms *compile.ModuleSet, name string) *compile.RecordInfo {
	for _, rec := range ms.RecordMap {
		if rec.Name == name {
			return rec
		}
	}
	return nil
}

func TestFindDefinitionResolvesFieldType(t *testing.T) {
	src := "struct Bar {}\nstruct Foo { b: Bar; }\n"
	ms := compile.Compile(map[string]string{"m.skir": src})
	if len(ms.Errors) != 0 {
		t.Fatalf("unexpected compile errors: %v", ms.Errors)
	}

	offset := strings.Index(src, "Bar; }")
	if offset < 0 {
		t.Fatal("fixture source changed, cannot locate offset")
	}

	def, ok := FindDefinition(ms, "m.skir", offset)
	if !ok {
		t.Fatal("expected a definition at the field's type reference")
	}
	rec, ok := def.Target.(*compile.RecordInfo)
	if !ok || rec.Name != "Bar" {
		t.Fatalf("expected definition to resolve to struct Bar, got %#v", def.Target)
	}
}

func TestFindDefinitionMissesOutsideAnyReference(t *testing.T) {
	src := "struct Bar {}\nstruct Foo { b: Bar; }\n"
	ms := compile.Compile(map[string]string{"m.skir": src})
	if len(ms.Errors) != 0 {
		t.Fatalf("unexpected compile errors: %v", ms.Errors)
	}

	// Offset 0 is the "s" of the first "struct" keyword: not any reference.
	if _, ok := FindDefinition(ms, "m.skir", 0); ok {
		t.Fatal("expected no definition at the start of a `struct` keyword")
	}
}

func TestFindReferencesFindsFieldTypeUse(t *testing.T) {
	src := "struct Bar {}\nstruct Foo { b: Bar; c: Bar; }\n"
	ms := compile.Compile(map[string]string{"m.skir": src})
	if len(ms.Errors) != 0 {
		t.Fatalf("unexpected compile errors: %v", ms.Errors)
	}
	bar := findRecordByName(ms, "Bar")
	if bar == nil {
		t.Fatal("struct Bar not found in compiled module set")
	}

	refs := FindReferences(ms, bar)
	if len(refs) != 2 {
		t.Fatalf("expected 2 references to Bar (one per field), got %d: %#v", len(refs), refs)
	}
	for _, r := range refs {
		if r.ModulePath != "m.skir" {
			t.Fatalf("expected reference's module path to be m.skir, got %q", r.ModulePath)
		}
	}
}

func TestFindReferencesAcrossArrayAndOptional(t *testing.T) {
	src := "struct Bar {}\nstruct Foo { items: [Bar]; maybe: Bar?; }\n"
	ms := compile.Compile(map[string]string{"m.skir": src})
	if len(ms.Errors) != 0 {
		t.Fatalf("unexpected compile errors: %v", ms.Errors)
	}
	bar := findRecordByName(ms, "Bar")
	if bar == nil {
		t.Fatal("struct Bar not found in compiled module set")
	}

	refs := FindReferences(ms, bar)
	if len(refs) != 2 {
		t.Fatalf("expected references through both the array item and the optional type, got %d: %#v", len(refs), refs)
	}
}
