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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestCollectModulesReadsSkirFilesRecursively(t *testing.T) {
	root := t.TempDir()
	qt.Assert(t, qt.IsNil(os.MkdirAll(filepath.Join(root, "nested"), 0o755)))
	qt.Assert(t, qt.IsNil(os.WriteFile(filepath.Join(root, "a.skir"), []byte("struct A {}\n"), 0o644)))
	qt.Assert(t, qt.IsNil(os.WriteFile(filepath.Join(root, "nested", "b.skir"), []byte("struct B {}\n"), 0o644)))
	qt.Assert(t, qt.IsNil(os.WriteFile(filepath.Join(root, "README.md"), []byte("not skir"), 0o644)))

	sources, err := collectModules([]string{root})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(sources, 2))
	qt.Assert(t, qt.Equals(sources["a.skir"], "struct A {}\n"))
	qt.Assert(t, qt.Equals(sources[filepath.ToSlash(filepath.Join("nested", "b.skir"))], "struct B {}\n"))
}

func TestCollectModulesRejectsCrossRootCollision(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	qt.Assert(t, qt.IsNil(os.WriteFile(filepath.Join(rootA, "m.skir"), []byte("struct A {}\n"), 0o644)))
	qt.Assert(t, qt.IsNil(os.WriteFile(filepath.Join(rootB, "m.skir"), []byte("struct B {}\n"), 0o644)))

	_, err := collectModules([]string{rootA, rootB})
	if err == nil {
		t.Fatal("expected an error when two roots both provide m.skir")
	}
}
