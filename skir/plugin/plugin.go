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

// Package plugin loads a code generator compiled to a standalone WASM
// module (spec §6, §4.7 "Dynamic generator plugins") and adapts it to
// skir/gen.Generator: a sandboxed generator is indistinguishable, to its
// caller, from one linked in at compile time. The wasm guest is a complete,
// self-contained generator (it carries its own copy of the module sources'
// text and does its own parsing) communicating over WASI stdin/stdout with
// line-delimited JSON, the same "plain text over a pipe" shape cue/cmd/cue
// uses for its own external command plugins.
package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/gepheum/skir/skir/gen"
)

// request is the JSON payload written to the guest's stdin.
type request struct {
	ID      string            `json:"id"`
	Modules map[string]string `json:"modules"`
	Config  map[string]any    `json:"config"`
}

// response is the JSON payload a well-behaved guest writes to stdout.
type response struct {
	Files []gen.File `json:"files"`
	Error string     `json:"error,omitempty"`
}

// Loader compiles and runs generator plugins. One Loader may load many
// plugins; each Load call gets its own wazero.Runtime so a misbehaving
// plugin cannot see another's memory.
type Loader struct {
	newRuntimeConfig func() wazero.RuntimeConfig
}

// NewLoader returns a Loader using wazero's default compiler-backed
// runtime config.
func NewLoader() *Loader {
	return &Loader{newRuntimeConfig: wazero.NewRuntimeConfig}
}

// wasmGenerator adapts one loaded WASM module to gen.Generator.
type wasmGenerator struct {
	id         string
	runtime    wazero.Runtime
	wasmBytes  []byte
	moduleName string
}

// Load compiles wasmBytes and returns a Generator backed by it. id names
// the generator (surfaced by Generator.ID) since a wasm module carries no
// required metadata of its own beyond its exports.
func (l *Loader) Load(ctx context.Context, id string, wasmBytes []byte) (gen.Generator, error) {
	cfg := wazero.NewRuntimeConfig()
	if l.newRuntimeConfig != nil {
		cfg = l.newRuntimeConfig()
	}
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiating WASI for plugin %q: %w", id, err)
	}
	if _, err := rt.CompileModule(ctx, wasmBytes); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compiling plugin %q: %w", id, err)
	}
	return &wasmGenerator{id: id, runtime: rt, wasmBytes: wasmBytes, moduleName: id}, nil
}

// Close releases the plugin's wazero runtime and every resource it holds.
func (g *wasmGenerator) Close(ctx context.Context) error {
	return g.runtime.Close(ctx)
}

func (g *wasmGenerator) ID() string { return g.id }

// ConfigType is unsupported for a dynamically loaded plugin today: a wasm
// guest would need a second, schema-only entry point, and no pack generator
// needs one yet (spec §4.7 leaves this an open question). A plugin that
// needs config validation should validate defensively in Generate itself.
func (g *wasmGenerator) ConfigType() gen.ConfigSchema {
	return gen.ConfigSchema{}
}

// Generate sends input to the guest over stdin as JSON and parses its
// stdout as a response, one guest invocation per call (spec §4.7
// "Isolation").
func (g *wasmGenerator) Generate(input gen.Input) (gen.Output, error) {
	ctx := context.Background()

	req := request{ID: g.id, Config: input.Config, Modules: map[string]string{}}
	if input.Modules != nil {
		for _, mr := range input.Modules.ResolvedModules {
			req.Modules[mr.Path] = mr.SourceCode
		}
	}
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return gen.Output{}, fmt.Errorf("marshaling plugin request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	modCfg := wazero.NewModuleConfig().
		WithStdin(bytes.NewReader(reqBytes)).
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithName(g.moduleName)

	mod, err := g.runtime.InstantiateWithConfig(ctx, g.wasmBytes, modCfg)
	if err != nil {
		return gen.Output{}, fmt.Errorf("running plugin %q: %w (stderr: %s)", g.id, err, stderr.String())
	}
	defer mod.Close(ctx)

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return gen.Output{}, fmt.Errorf("plugin %q produced invalid JSON output: %w (stderr: %s)", g.id, err, stderr.String())
	}
	if resp.Error != "" {
		return gen.Output{}, fmt.Errorf("plugin %q: %s", g.id, resp.Error)
	}
	return gen.Output{Files: resp.Files}, nil
}
