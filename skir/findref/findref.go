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

// Package findref implements "go to definition" and "find references" over
// an already-compiled ModuleSet (spec §4.6), walking the resolved AST
// rather than maintaining a separate symbol index: every type reference and
// doc-comment reference already carries its resolution from skir/compile,
// so findref just needs to map a source offset to the syntax node that
// contains it, and back.
package findref

import (
	"github.com/gepheum/skir/skir/ast"
	"github.com/gepheum/skir/skir/compile"
	"github.com/gepheum/skir/skir/token"
)

// Target is what a reference points at: a *compile.RecordInfo,
// *compile.FieldInfo, *compile.MethodInfo, or *compile.ConstantInfo.
type Target interface{}

// Definition is the result of FindDefinition.
type Definition struct {
	Target     Target
	ModulePath string
	NameToken  token.Token
}

// FindDefinition resolves the declaration referenced at the given byte
// offset in modulePath's source, if any (spec §4.6 "FindDefinition").
func FindDefinition(ms *compile.ModuleSet, modulePath string, offset int) (Definition, bool) {
	mr, ok := ms.Modules[modulePath]
	if !ok {
		return Definition{}, false
	}
	for _, rec := range mr.Records {
		for _, f := range rec.Fields {
			if f.Decl == nil {
				continue
			}
			if tgt, tok, ok := findInTypeExpr(f.Decl.Type, f.Type, offset); ok {
				return definitionOf(tgt, tok), true
			}
		}
		if d := docDefinitionAt(rec.Doc, rec.Decl.Doc, offset); d != nil {
			return definitionOf(d, token.Token{}), true
		}
	}
	for _, mi := range mr.Methods {
		if tgt, tok, ok := findInTypeExpr(mi.Decl.RequestType, mi.Request, offset); ok {
			return definitionOf(tgt, tok), true
		}
		if tgt, tok, ok := findInTypeExpr(mi.Decl.ResponseType, mi.Response, offset); ok {
			return definitionOf(tgt, tok), true
		}
	}
	return Definition{}, false
}

func definitionOf(tgt Target, tok token.Token) Definition {
	switch v := tgt.(type) {
	case *compile.RecordInfo:
		return Definition{Target: v, ModulePath: v.Module.Path, NameToken: v.Decl.Name.Token}
	case *compile.FieldInfo:
		if v.Decl != nil {
			return Definition{Target: v, NameToken: v.Decl.Name.Token}
		}
	case *compile.MethodInfo:
		return Definition{Target: v, ModulePath: v.Module.Path, NameToken: v.Decl.Name.Token}
	case *compile.ConstantInfo:
		return Definition{Target: v, ModulePath: v.Module.Path, NameToken: v.Decl.Name.Token}
	}
	return Definition{Target: tgt, NameToken: tok}
}

// findInTypeExpr walks a syntactic TypeExpr alongside its resolved
// counterpart, returning the record a NamedTypeExpr's trailing identifier
// resolves to when offset falls within that identifier's span.
func findInTypeExpr(te ast.TypeExpr, resolved compile.ResolvedType, offset int) (Target, token.Token, bool) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if len(t.Parts) == 0 {
			return nil, token.Token{}, false
		}
		last := t.Parts[len(t.Parts)-1]
		if tokenContains(last.Token, offset) {
			if rt, ok := resolved.(*compile.RecordType); ok {
				return rt.Record, last.Token, true
			}
			if ot, ok := resolved.(*compile.OptionalType); ok {
				if rt, ok := ot.Other.(*compile.RecordType); ok {
					return rt.Record, last.Token, true
				}
			}
		}
		return nil, token.Token{}, false
	case *ast.OptionalTypeExpr:
		var inner compile.ResolvedType
		if ot, ok := resolved.(*compile.OptionalType); ok {
			inner = ot.Other
		}
		return findInTypeExpr(t.Inner, inner, offset)
	case *ast.ArrayTypeExpr:
		var item compile.ResolvedType
		if at, ok := resolved.(*compile.ArrayType); ok {
			item = at.Item
		}
		return findInTypeExpr(t.Item, item, offset)
	}
	return nil, token.Token{}, false
}

func tokenContains(tok token.Token, offset int) bool {
	start := int(tok.Offset)
	end := int(tok.End())
	return offset >= start && offset < end
}

// docDefinitionAt returns the single resolved declaration of doc's first
// reference piece if offset falls anywhere inside the doc comment's token
// span. Doc pieces don't carry per-piece offsets (spec §4.3 keeps their
// resolution, not their exact byte ranges), so a doc comment with several
// [Ref] pieces resolves "go to definition" to its first reference; this is
// a known simplification, not a correctness issue for the common one-
// reference-per-comment case.
func docDefinitionAt(rd *compile.ResolvedDoc, syn *ast.DocComment, offset int) Target {
	if rd == nil || syn == nil || len(syn.Tokens) == 0 {
		return nil
	}
	if offset < int(syn.Tokens[0].Offset) || offset >= int(syn.Tokens[len(syn.Tokens)-1].End()) {
		return nil
	}
	for _, p := range rd.Pieces {
		if p.IsReference && p.Declaration != nil {
			return p.Declaration
		}
	}
	return nil
}

// Reference is one use site found by FindReferences.
type Reference struct {
	ModulePath string
	Token      token.Token
}

// FindReferences returns every type reference and doc-comment reference
// across every module of ms that resolves to target (spec §4.6
// "FindReferences"). target should be a value returned by FindDefinition,
// or one of ms's own *compile.RecordInfo/*compile.FieldInfo/
// *compile.MethodInfo/*compile.ConstantInfo.
func FindReferences(ms *compile.ModuleSet, target Target) []Reference {
	var out []Reference
	for _, mr := range ms.ResolvedModules {
		for _, rec := range mr.Records {
			for _, f := range rec.Fields {
				if f.Decl == nil {
					continue
				}
				if tok, ok := typeExprReferences(f.Decl.Type, f.Type, target); ok {
					out = append(out, Reference{ModulePath: mr.Path, Token: tok})
				}
			}
			collectDocRefs(&out, mr.Path, rec.Doc, target)
		}
		for _, mi := range mr.Methods {
			if tok, ok := typeExprReferences(mi.Decl.RequestType, mi.Request, target); ok {
				out = append(out, Reference{ModulePath: mr.Path, Token: tok})
			}
			if tok, ok := typeExprReferences(mi.Decl.ResponseType, mi.Response, target); ok {
				out = append(out, Reference{ModulePath: mr.Path, Token: tok})
			}
			collectDocRefs(&out, mr.Path, mi.Doc, target)
		}
		for _, ci := range mr.Constants {
			collectDocRefs(&out, mr.Path, ci.Doc, target)
		}
	}
	return out
}

func typeExprReferences(te ast.TypeExpr, resolved compile.ResolvedType, target Target) (token.Token, bool) {
	return matchTypeExpr(te, resolved, target)
}

func matchTypeExpr(te ast.TypeExpr, resolved compile.ResolvedType, target Target) (token.Token, bool) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if len(t.Parts) == 0 {
			return token.Token{}, false
		}
		rt, ok := unwrapRecord(resolved)
		if ok && sameTarget(rt, target) {
			return t.Parts[len(t.Parts)-1].Token, true
		}
		return token.Token{}, false
	case *ast.OptionalTypeExpr:
		var inner compile.ResolvedType
		if ot, ok := resolved.(*compile.OptionalType); ok {
			inner = ot.Other
		}
		return matchTypeExpr(t.Inner, inner, target)
	case *ast.ArrayTypeExpr:
		var item compile.ResolvedType
		if at, ok := resolved.(*compile.ArrayType); ok {
			item = at.Item
		}
		return matchTypeExpr(t.Item, item, target)
	}
	return token.Token{}, false
}

func unwrapRecord(rt compile.ResolvedType) (*compile.RecordInfo, bool) {
	switch v := rt.(type) {
	case *compile.RecordType:
		return v.Record, true
	case *compile.OptionalType:
		return unwrapRecord(v.Other)
	}
	return nil, false
}

func sameTarget(rec *compile.RecordInfo, target Target) bool {
	tr, ok := target.(*compile.RecordInfo)
	return ok && tr == rec
}

func collectDocRefs(out *[]Reference, modulePath string, rd *compile.ResolvedDoc, target Target) {
	if rd == nil {
		return
	}
	for _, p := range rd.Pieces {
		if p.IsReference && p.Declaration == target {
			*out = append(*out, Reference{ModulePath: modulePath})
		}
	}
}
