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

// Package compile implements the Skir module-compilation pipeline (spec
// §4.3): import resolution, package-prefixed path normalization, name
// resolution across nested scopes, type resolution, keyed-array
// validation, numeric-identifier uniqueness, doc-comment reference
// resolution, constant-value type checking, recursivity classification,
// and synthesis of implicit request/response records.
package compile

import (
	"fmt"
	"sort"

	"github.com/gepheum/skir/skir/ast"
	skirerrors "github.com/gepheum/skir/skir/errors"
	"github.com/gepheum/skir/skir/parser"
)

// FileReader is the pure interface the resolver consults during lazy
// module discovery (spec §5: "a test fake is trivially substitutable").
type FileReader interface {
	ReadFile(path string) (string, error)
}

// MapFileReader is the in-memory FileReader used by tests and by FromMap.
type MapFileReader map[string]string

func (m MapFileReader) ReadFile(path string) (string, error) {
	src, ok := m[path]
	if !ok {
		return "", fmt.Errorf("module not found: %s", path)
	}
	return src, nil
}

// ModuleResult is everything the resolver produces for a single module
// (spec §3 "Module result").
type ModuleResult struct {
	Path       string
	SourceCode string
	Module     *ast.Module

	// Declarations are the module's top-level declarations in source
	// order, with synthesized request/response records appended after the
	// user's own declarations (spec §4.3 "Declaration pass").
	Declarations []ast.Decl

	// NameToDeclaration maps each unique top-level identifier to its
	// declaration, insertion order preserved via declOrder.
	NameToDeclaration map[string]ast.Decl
	declOrder         []string

	// ResolvedModulePaths are this module's transitive imports, in
	// discovery order.
	ResolvedModulePaths []string

	// Records include every record declared or synthesized by this module,
	// nested and top-level alike.
	Records []*RecordInfo

	Constants []*ConstantInfo
	Methods   []*MethodInfo

	// PathToImport maps a resolved module path to the import declaration
	// that first referenced it from this module.
	PathToImport map[string]ast.Decl

	// usedImports tracks which import/alias names were referenced by a
	// resolved type name, for the "Unused import" check. Doc references do
	// not mark an import as used.
	usedImports map[string]bool

	recordByDecl map[*ast.RecordDecl]*RecordInfo
	methodByDecl map[*ast.MethodDecl]*MethodInfo
	constByDecl  map[*ast.ConstDecl]*ConstantInfo
}

// ModuleSet is the immutable (after Compile returns) result of compiling a
// collection of modules (spec §3).
type ModuleSet struct {
	Modules         map[string]*ModuleResult
	ResolvedModules []*ModuleResult
	RecordMap       map[RecordKey]*RecordInfo
	Errors          skirerrors.List

	reader      FileReader
	rootDir     string
	onStack     map[string]bool
	parsedCache map[string]*ModuleResult
}

// newModuleSet creates an empty, mutable-during-compile ModuleSet.
func newModuleSet(reader FileReader, rootDir string) *ModuleSet {
	return &ModuleSet{
		Modules:     map[string]*ModuleResult{},
		RecordMap:   map[RecordKey]*RecordInfo{},
		reader:      reader,
		rootDir:     rootDir,
		onStack:     map[string]bool{},
		parsedCache: map[string]*ModuleResult{},
	}
}

// Compile compiles the closure of pathToSource reachable from every key in
// the map (spec §4.3 "compile(pathToSource) -> ModuleSet").
func Compile(pathToSource map[string]string) *ModuleSet {
	ms := newModuleSet(MapFileReader(pathToSource), "")
	for _, path := range sortedKeys(pathToSource) {
		ms.resolveModule(path)
	}
	ms.finish()
	return ms
}

// FromMap is an alias for Compile used by snapshot/test code that wants to
// name the in-memory-source entry point explicitly (spec §4.3).
func FromMap(pathToSource map[string]string) *ModuleSet {
	return Compile(pathToSource)
}

// Create begins a ModuleSet driven by lazy discovery from a root directory
// via fileReader; callers then call ParseAndResolve for each entry-point
// module (spec §4.3 "create(fileReader, rootDir) -> ModuleSet").
func Create(fileReader FileReader, rootDir string) *ModuleSet {
	return newModuleSet(fileReader, rootDir)
}

// ParseAndResolve resolves one more root module into an already-created
// ModuleSet, expanding Modules/ResolvedModules/RecordMap in place.
func (ms *ModuleSet) ParseAndResolve(relativePath string) *ModuleResult {
	mr := ms.resolveModule(relativePath)
	ms.finish()
	return mr
}

// MergeFrom appends every module of other into ms without reparsing it
// (spec §4.3 "mergeFrom(other) appends resolved modules and record entries
// (used to attach dependency packages)"). Module paths present in both sets
// are left untouched in ms (the receiver's own modules win).
func (ms *ModuleSet) MergeFrom(other *ModuleSet) {
	for _, mr := range other.ResolvedModules {
		if _, ok := ms.Modules[mr.Path]; ok {
			continue
		}
		ms.Modules[mr.Path] = mr
		ms.ResolvedModules = append(ms.ResolvedModules, mr)
	}
	for key, rec := range other.RecordMap {
		if _, ok := ms.RecordMap[key]; !ok {
			ms.RecordMap[key] = rec
		}
	}
	ms.Errors = append(ms.Errors, other.Errors...)
}

// finish runs the whole-set passes that need every module resolved first:
// numeric-identifier uniqueness across packages, and sorting diagnostics.
func (ms *ModuleSet) finish() {
	checkStableIdentifierUniqueness(ms)
	checkMethodNumberUniqueness(ms)
	ms.Errors.Sort()
}

// resolveModule parses (if not cached) and resolves the module at path,
// returning its ModuleResult. A module on the current resolution stack
// that is reached again is a circular import (spec §3 "Lifecycle").
func (ms *ModuleSet) resolveModule(path string) *ModuleResult {
	if mr, ok := ms.parsedCache[path]; ok {
		return mr
	}
	if ms.onStack[path] {
		// The caller (resolveOneImport) reports the "Circular dependency
		// between modules" error at the importing token; returning nil
		// here just ends the recursion.
		return nil
	}
	ms.onStack[path] = true
	defer delete(ms.onStack, path)

	src, err := ms.reader.ReadFile(path)
	if err != nil {
		ms.Errors.Add(&skirerrors.SkirError{Message: fmt.Sprintf("Module not found: %s", path)})
		return nil
	}

	astMod, perrs := parser.ParseModule(path, []byte(src), parser.Strict)
	ms.Errors = append(ms.Errors, perrs...)

	mr := &ModuleResult{
		Path:              path,
		SourceCode:        src,
		Module:            astMod,
		NameToDeclaration: map[string]ast.Decl{},
		PathToImport:      map[string]ast.Decl{},
		usedImports:       map[string]bool{},
		recordByDecl:      map[*ast.RecordDecl]*RecordInfo{},
		methodByDecl:      map[*ast.MethodDecl]*MethodInfo{},
		constByDecl:       map[*ast.ConstDecl]*ConstantInfo{},
	}
	ms.parsedCache[path] = mr

	ms.resolveImports(mr)
	ms.buildDeclarations(mr)
	ms.resolveAllTypes(mr)
	classifyRecursivity(mr)
	ms.resolveDocComments(mr)
	ms.checkConstants(mr)
	ms.checkCasing(mr)
	ms.checkUnusedImports(mr)
	ms.finalizeNumbering(mr)

	ms.Modules[path] = mr
	ms.ResolvedModules = append(ms.ResolvedModules, mr)
	return mr
}

// sortedKeys returns m's keys in sorted order, so root discovery (and
// therefore Modules/ResolvedModules ordering) is deterministic across runs
// rather than following Go's randomized map iteration (spec §8 "compile(m)
// == compile(m)" purity).
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
