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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/txtar"
)

// TestTxtarFixtures drives Compile against every archive under testdata/,
// mirroring CUE's internal/cuetxtar golden-file convention: each archive
// bundles one or more .skir module sources plus an "errors" file listing
// the diagnostic messages Compile must produce, one substring per line. An
// empty (or absent) "errors" file asserts a clean compile.
func TestTxtarFixtures(t *testing.T) {
	matches, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("no txtar fixtures found under testdata/")
	}
	for _, path := range matches {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			arc := txtar.Parse(data)

			sources := map[string]string{}
			var wantErrors []string
			for _, f := range arc.Files {
				if f.Name == "errors" {
					for _, line := range strings.Split(string(f.Data), "\n") {
						line = strings.TrimSpace(line)
						if line != "" {
							wantErrors = append(wantErrors, line)
						}
					}
					continue
				}
				sources[f.Name] = string(f.Data)
			}

			ms := Compile(sources)
			if len(wantErrors) == 0 {
				if len(ms.Errors) != 0 {
					t.Fatalf("expected a clean compile, got:\n%s", ms.Errors.Error())
				}
				return
			}
			got := ms.Errors.Error()
			for _, want := range wantErrors {
				if !strings.Contains(got, want) {
					t.Fatalf("expected diagnostics to contain %q, got:\n%s", want, got)
				}
			}
		})
	}
}
