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

// Package gen declares the code-generator contract (spec §6 "Code
// generator contract"): a Generator turns a compiled ModuleSet plus a
// user-supplied config into a set of output files. In-process generators
// implement Generator directly; skir/plugin adapts a WASM module to the
// same interface so a dynamically-loaded generator is indistinguishable
// from a built-in one to the caller.
package gen

import "github.com/gepheum/skir/skir/compile"

// ConfigSchema describes the shape of a generator's configuration object,
// kept intentionally loose (a list of named options, each with a
// human-readable description and a required flag) rather than a full JSON
// Schema, since Skir has exactly one
// consumer of it today: a CLI flag --help listing.
type ConfigSchema struct {
	Options []ConfigOption
}

// ConfigOption is one named, documented configuration knob.
type ConfigOption struct {
	Name        string
	Description string
	Required    bool
}

// Input is what a caller passes to Generate.
type Input struct {
	Modules *compile.ModuleSet
	// Config holds the user-supplied option values, already validated
	// against ConfigType().
	Config map[string]any
}

// File is one generated output file.
type File struct {
	Path string
	Code string
}

// Output is what Generate returns.
type Output struct {
	Files []File
}

// Generator produces source files from a compiled Skir program (spec §6).
type Generator interface {
	// ID is the generator's stable name, e.g. "go" or "typescript", used on
	// the command line and in error messages.
	ID() string
	ConfigType() ConfigSchema
	Generate(input Input) (Output, error)
}
