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

package gen

import (
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/gepheum/skir/skir/compile"
)

// listGenerator is a minimal in-process Generator: one file per record name,
// used here only to confirm the interface is actually implementable the way
// skir/plugin's wasmGenerator implements it for WASM guests.
type listGenerator struct{}

func (listGenerator) ID() string { return "list" }

func (listGenerator) ConfigType() ConfigSchema {
	return ConfigSchema{Options: []ConfigOption{{Name: "suffix", Description: "appended to every file name"}}}
}

func (listGenerator) Generate(input Input) (Output, error) {
	suffix, _ := input.Config["suffix"].(string)
	var out Output
	for _, rec := range input.Modules.RecordMap {
		out.Files = append(out.Files, File{
			Path: rec.Name + suffix + ".txt",
			Code: fmt.Sprintf("record %s\n", rec.Name),
		})
	}
	return out, nil
}

func TestGeneratorContractIsImplementable(t *testing.T) {
	var g Generator = listGenerator{}
	qt.Assert(t, qt.Equals(g.ID(), "list"))
	qt.Assert(t, qt.HasLen(g.ConfigType().Options, 1))

	ms := compile.Compile(map[string]string{"m.skir": "struct Foo(1) {}\n"})
	qt.Assert(t, qt.HasLen(ms.Errors, 0))

	out, err := g.Generate(Input{Modules: ms, Config: map[string]any{"suffix": "_gen"}})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(out.Files, 1))
	qt.Assert(t, qt.Equals(out.Files[0].Path, "Foo_gen.txt"))
}
