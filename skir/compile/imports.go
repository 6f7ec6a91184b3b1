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
	"path"
	"regexp"
	"strings"

	"github.com/gepheum/skir/skir/ast"
	skirerrors "github.com/gepheum/skir/skir/errors"
)

// packagePrefix matches the "@ORG/PKG/" prefix of a module path (spec §4.3
// "Package prefixing"): ORG is [A-Za-z0-9-]+, PKG is [A-Za-z0-9_.-]+.
var packagePrefix = regexp.MustCompile(`^@[A-Za-z0-9-]+/[A-Za-z0-9_.-]+/`)

// packageOf returns the @ORG/PKG/ prefix of modulePath, or "" if modulePath
// is not package-prefixed.
func packageOf(modulePath string) string {
	if m := packagePrefix.FindString(modulePath); m != "" {
		return strings.TrimSuffix(m, "/")
	}
	return ""
}

// resolveImportPath turns the literal path text of an import clause into an
// absolute module path. A path starting with "./" or "../" is resolved
// against the importing module's own directory; any other path is taken
// from the root, and, when the importing module lives in a package, gets
// that package's @ORG/PKG/ prefix. The result is normalized.
func resolveImportPath(importingModulePath, literalPath string) (string, *skirerrors.SkirError) {
	if strings.Contains(literalPath, "\\") {
		return "", &skirerrors.SkirError{Message: "Replace backslash with slash"}
	}
	if packagePrefix.MatchString(literalPath) || strings.HasPrefix(literalPath, "@") {
		// Absolute, package-prefixed path: used as-is.
		return literalPath, nil
	}
	relative := strings.HasPrefix(literalPath, "./") || strings.HasPrefix(literalPath, "../")
	joined := path.Clean(literalPath)
	if relative {
		joined = path.Join(path.Dir(importingModulePath), literalPath)
	}
	if strings.HasPrefix(joined, "../") || joined == ".." {
		return "", &skirerrors.SkirError{Message: "Module path must point to a file within root"}
	}
	if pkg := packageOf(importingModulePath); pkg != "" && !relative {
		joined = pkg + "/" + joined
	}
	return joined, nil
}

// resolveImports walks mr's import declarations in source order, resolving
// each literal path and recursively compiling the target module so that
// name resolution (resolve.go) can later look up imported identifiers.
func (ms *ModuleSet) resolveImports(mr *ModuleResult) {
	for _, decl := range mr.Module.Declarations {
		switch d := decl.(type) {
		case *ast.ImportAliasDecl:
			ms.resolveOneImport(mr, d, d.PathLit.Value, d.PathLit, func(resolved string) {
				d.ResolvedModulePath = resolved
			})
		case *ast.ImportDecl:
			ms.resolveOneImport(mr, d, d.PathLit.Value, d.PathLit, func(resolved string) {
				d.ResolvedModulePath = resolved
			})
		}
	}
}

func (ms *ModuleSet) resolveOneImport(mr *ModuleResult, decl ast.Decl, literalPath string, lit *ast.StringLit, setResolved func(string)) {
	resolved, err := resolveImportPath(mr.Path, literalPath)
	if err != nil {
		err.Token = lit.Token
		err.Pos = lit.Token.Position()
		ms.Errors.Add(err)
		return
	}
	setResolved(resolved)
	if _, already := mr.PathToImport[resolved]; !already {
		mr.PathToImport[resolved] = decl
	}
	mr.ResolvedModulePaths = append(mr.ResolvedModulePaths, resolved)

	if ms.onStack[resolved] {
		ms.Errors.Add(skirerrors.New(lit.Token, "Circular dependency between modules"))
		return
	}
	target := ms.resolveModule(resolved)
	if target == nil {
		return
	}
	for _, p := range target.ResolvedModulePaths {
		seen := false
		for _, q := range mr.ResolvedModulePaths {
			seen = seen || q == p
		}
		if !seen {
			mr.ResolvedModulePaths = append(mr.ResolvedModulePaths, p)
		}
	}
}
