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

package compile

import (
	"testing"

	"github.com/go-quicktest/qt"
)

// Scenario 1: keyed-array resolution.
func TestKeyedArrayResolution(t *testing.T) {
	src := `
struct Outer {
  struct User {
    key: string;
    key_enum: Kind;
  }
  enum Kind {
    OK;
    BAD;
  }
}
struct Foo {
  users: [Outer.User|key];
  users_by_enum: [Outer.User|key_enum.kind];
}
`
	ms := Compile(map[string]string{"m.skir": src})
	qt.Assert(t, qt.HasLen(ms.Errors, 0))

	foo := findRecord(t, ms, "m.skir", "Foo")
	users := findField(t, foo, "users")
	arr, ok := users.Type.(*ArrayType)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsNotNil(arr.Key))
	qt.Assert(t, qt.Equals(arr.Key.KeyType.String(), "string"))

	usersByEnum := findField(t, foo, "users_by_enum")
	arr2 := usersByEnum.Type.(*ArrayType)
	qt.Assert(t, qt.IsNotNil(arr2.Key))
	if _, ok := arr2.Key.KeyType.(*RecordType); !ok {
		t.Fatalf("expected key type to be a record reference, got %T", arr2.Key.KeyType)
	}
}

// Scenario 2: stable-ID uniqueness is scoped per package.
func TestStableIdUniquenessAcrossPackages(t *testing.T) {
	ms := Compile(map[string]string{
		"@org/a/m1.skir": "struct Foo(100) {}\n",
		"@org/b/m2.skir": "struct Bar(100) {}\n",
	})
	qt.Assert(t, qt.HasLen(ms.Errors, 0))

	ms2 := Compile(map[string]string{
		"m1.skir": "struct Foo(100) {}\n",
		"m2.skir": "struct Bar(100) {}\n",
	})
	if len(ms2.Errors) == 0 {
		t.Fatal("expected a duplicate-number error for unpackaged modules sharing record number 100")
	}
}

// Scenario 3: doc reference resolution.
func TestDocReferenceResolution(t *testing.T) {
	src := "/// Hello [Bar.OK]\nstruct Foo { x: int32; }\nenum Bar { OK; }\n"
	ms := Compile(map[string]string{"m.skir": src})
	qt.Assert(t, qt.HasLen(ms.Errors, 0))

	foo := findRecord(t, ms, "m.skir", "Foo")
	qt.Assert(t, qt.IsNotNil(foo.Doc))
	qt.Assert(t, qt.HasLen(foo.Doc.Pieces, 2))
	qt.Assert(t, qt.IsFalse(foo.Doc.Pieces[0].IsReference))
	qt.Assert(t, qt.Equals(foo.Doc.Pieces[0].Text, "Hello "))
	qt.Assert(t, qt.IsTrue(foo.Doc.Pieces[1].IsReference))
	fi, ok := foo.Doc.Pieces[1].Declaration.(*FieldInfo)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(fi.Name, "OK"))
}

// Scenario 4: constant dense JSON.
func TestConstantDenseJson(t *testing.T) {
	src := "struct Point { x: int32; y: int32; }\nconst POINT: Point = {x: 10};\n"
	ms := Compile(map[string]string{"m.skir": src})
	qt.Assert(t, qt.HasLen(ms.Errors, 0))

	mr := ms.Modules["m.skir"]
	var ci *ConstantInfo
	for _, c := range mr.Constants {
		if c.Name == "POINT" {
			ci = c
		}
	}
	qt.Assert(t, qt.IsNotNil(ci))
	got, ok := ci.DenseJSON.([]interface{})
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.DeepEquals(got, []interface{}{"10"}))
}

func TestConstantDenseJsonNullShape(t *testing.T) {
	src := "struct Shape {}\nconst NULL_SHAPE: Shape? = null;\n"
	ms := Compile(map[string]string{"m.skir": src})
	qt.Assert(t, qt.HasLen(ms.Errors, 0))
	mr := ms.Modules["m.skir"]
	ci := mr.Constants[0]
	qt.Assert(t, qt.IsNil(ci.DenseJSON))
}

// Scenario 5: casing rejection.
func TestCasingRejection(t *testing.T) {
	ms := Compile(map[string]string{"m.skir": "struct foo {}\n"})
	if len(ms.Errors) == 0 {
		t.Fatal("expected a casing error for a lowercase record name")
	}
}

func findRecord(t *testing.T, ms *ModuleSet, modulePath, name string) *RecordInfo {
	t.Helper()
	mr, ok := ms.Modules[modulePath]
	qt.Assert(t, qt.IsTrue(ok))
	for _, r := range mr.Records {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("record %q not found in %q", name, modulePath)
	return nil
}

func findField(t *testing.T, rec *RecordInfo, name string) *FieldInfo {
	t.Helper()
	for _, f := range rec.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found in %q", name, rec.Name)
	return nil
}
