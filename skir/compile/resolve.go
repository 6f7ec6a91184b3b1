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
	"sort"

	"github.com/gepheum/skir/skir/ast"
	skirerrors "github.com/gepheum/skir/skir/errors"
)

// resolveAllTypes resolves every field type, method request/response type
// and constant type of mr against the scopes described in spec §4.3 "Name
// resolution": nested records first (innermost scope outward), then the
// module's own top-level declarations, then imported modules reached
// through an import alias or a direct named import.
func (ms *ModuleSet) resolveAllTypes(mr *ModuleResult) {
	for _, rec := range mr.Records {
		for _, f := range rec.Fields {
			if f.Decl == nil || f.Type != nil || f.Decl.Type == nil {
				continue // synthesized UNKNOWN variant, or already lifted inline record
			}
			t, err := ms.resolveTypeExpr(mr, rec, f.Decl.Type)
			if err != nil {
				ms.Errors.Add(err)
				continue
			}
			f.Type = t
		}
	}
	for _, mi := range mr.Methods {
		if mi.Request == nil {
			if _, isInline := mi.Decl.RequestType.(*ast.InlineRecordTypeExpr); isInline {
				mi.Request = ms.liftInlineRequestResponse(mr, mi.Decl.RequestType, mi.Name+"Request")
			} else {
				t, err := ms.resolveTypeExpr(mr, nil, mi.Decl.RequestType)
				if err != nil {
					ms.Errors.Add(err)
				} else {
					mi.Request = t
				}
			}
		}
		if mi.Response == nil {
			if _, isInline := mi.Decl.ResponseType.(*ast.InlineRecordTypeExpr); isInline {
				mi.Response = ms.liftInlineRequestResponse(mr, mi.Decl.ResponseType, mi.Name+"Response")
			} else {
				t, err := ms.resolveTypeExpr(mr, nil, mi.Decl.ResponseType)
				if err != nil {
					ms.Errors.Add(err)
				} else {
					mi.Response = t
				}
			}
		}
	}
	for _, ci := range mr.Constants {
		t, err := ms.resolveTypeExpr(mr, nil, ci.Decl.Type)
		if err != nil {
			ms.Errors.Add(err)
			continue
		}
		ci.Type = t
	}
}

// resolveTypeExpr resolves one syntactic type expression to a ResolvedType,
// with scope as the enclosing record (nil for a module-top-level
// reference, i.e. a method or const type).
func (ms *ModuleSet) resolveTypeExpr(mr *ModuleResult, scope *RecordInfo, te ast.TypeExpr) (ResolvedType, *skirerrors.SkirError) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return ms.resolveNamedType(mr, scope, t)
	case *ast.ArrayTypeExpr:
		item, err := ms.resolveTypeExpr(mr, scope, t.Item)
		if err != nil {
			return nil, err
		}
		at := &ArrayType{Item: item}
		if t.Key != nil {
			key, err := ms.resolveArrayKey(item, t.Key)
			if err != nil {
				return nil, err
			}
			at.Key = key
		}
		return at, nil
	case *ast.OptionalTypeExpr:
		inner, err := ms.resolveTypeExpr(mr, scope, t.Inner)
		if err != nil {
			return nil, err
		}
		return &OptionalType{Other: inner}, nil
	case *ast.InlineRecordTypeExpr:
		// Field-level and method-level inline records are always lifted
		// before resolveTypeExpr runs (buildRecordInfo, buildDeclarations);
		// reaching this case means an inline record appeared nested inside
		// an array or optional type, which the grammar does not allow.
		return nil, skirerrors.New(t.Record.Name.Token, "Inline record type not allowed here")
	case *ast.BadTypeExpr:
		return nil, nil
	}
	return nil, nil
}

// resolveNamedType resolves a (possibly dotted, possibly absolute) type
// reference to the record or primitive it names.
func (ms *ModuleSet) resolveNamedType(mr *ModuleResult, scope *RecordInfo, nte *ast.NamedTypeExpr) (ResolvedType, *skirerrors.SkirError) {
	names := make([]string, len(nte.Parts))
	for i, p := range nte.Parts {
		names[i] = p.Name()
	}

	if !nte.Absolute && len(names) == 1 {
		if prim, ok := parsePrimitive(names[0]); ok {
			return prim, nil
		}
	}

	first := names[0]
	firstTok := nte.Parts[0].Token

	var startRec *RecordInfo
	if !nte.Absolute {
		for s := scope; s != nil; s = s.Parent {
			if found := findNestedByName(s, first); found != nil {
				startRec = found
				break
			}
		}
	}
	if startRec == nil {
		if rec, ok := findTopLevelRecord(mr, first); ok {
			startRec = rec
		}
	}

	if startRec == nil {
		// first names an import: either an alias (subsequent parts
		// navigate the target module) or a direct single import (the
		// declaration itself, no further navigation expected but tolerated
		// if the imported name is a record with nested records).
		if decl, ok := mr.NameToDeclaration[first]; ok {
			switch d := decl.(type) {
			case *ast.ImportAliasDecl:
				mr.usedImports[first] = true
				target := ms.Modules[d.ResolvedModulePath]
				if target == nil {
					return nil, skirerrors.New(firstTok, "Cannot find name %q", first).WithOtherModule()
				}
				return ms.resolveQualifiedChain(target, names[1:])
			case *ast.ImportDecl:
				mr.usedImports[first] = true
				target := ms.Modules[d.ResolvedModulePath]
				if target == nil {
					return nil, skirerrors.New(firstTok, "Cannot find name %q", first).WithOtherModule()
				}
				rec, ok := findTopLevelRecord(target, first)
				if !ok {
					return nil, skirerrors.New(firstTok, "Cannot find name %q", first).WithOtherModule()
				}
				return ms.resolveQualifiedChain(target, names[1:], rec)
			}
		}
		return nil, skirerrors.New(firstTok, "Cannot find name %q", first).
			WithExpectedNames(candidateNames(mr, scope))
	}

	rec := startRec
	for _, part := range names[1:] {
		child := findNestedByName(rec, part)
		if child == nil {
			return nil, skirerrors.New(firstTok, "Cannot find name %q", part)
		}
		rec = child
	}
	return &RecordType{Key: rec.Key, Record: rec}, nil
}

// resolveQualifiedChain navigates the dotted remainder of a name inside an
// already-identified module (and, if start is provided, an already-found
// top-level record within it).
func (ms *ModuleSet) resolveQualifiedChain(target *ModuleResult, rest []string, start ...*RecordInfo) (ResolvedType, *skirerrors.SkirError) {
	var rec *RecordInfo
	if len(start) > 0 {
		rec = start[0]
	} else if len(rest) > 0 {
		if r, ok := findTopLevelRecord(target, rest[0]); ok {
			rec = r
			rest = rest[1:]
		}
	}
	if rec == nil {
		return nil, &skirerrors.SkirError{Message: "Cannot find name in imported module"}
	}
	for _, part := range rest {
		child := findNestedByName(rec, part)
		if child == nil {
			return nil, &skirerrors.SkirError{Message: "Cannot find name " + part + " in imported module"}
		}
		rec = child
	}
	return &RecordType{Key: rec.Key, Record: rec}, nil
}

func findNestedByName(rec *RecordInfo, name string) *RecordInfo {
	for _, n := range rec.NestedRecords {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func findTopLevelRecord(mr *ModuleResult, name string) (*RecordInfo, bool) {
	decl, ok := mr.NameToDeclaration[name]
	if !ok {
		return nil, false
	}
	rd, ok := decl.(*ast.RecordDecl)
	if !ok {
		return nil, false
	}
	return mr.recordByDecl[rd], true
}

func candidateNames(mr *ModuleResult, scope *RecordInfo) []string {
	seen := map[string]bool{}
	var out []string
	for s := scope; s != nil; s = s.Parent {
		for _, n := range s.NestedRecords {
			if !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
		}
	}
	for name := range mr.NameToDeclaration {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// resolveArrayKey validates and resolves a keyed array's field path (spec
// §4.3 "Keyed arrays"): every step but the last must be a struct field,
// and the last step must be a primitive field or an enum's kind
// discriminator.
func (ms *ModuleSet) resolveArrayKey(item ResolvedType, parts []*ast.Ident) (*ArrayKey, *skirerrors.SkirError) {
	rec, ok := underlyingRecord(item)
	if !ok {
		return nil, skirerrors.New(parts[0].Token, "Keyed array item must be a struct")
	}
	var path []*FieldInfo
	var partsText []string
	for i, p := range parts {
		partsText = append(partsText, p.Name())

		if rec.IsEnum && p.Name() == "kind" {
			if i != len(parts)-1 {
				return nil, skirerrors.New(p.Token, "'kind' must be the last step of an array key")
			}
			return &ArrayKey{Path: path, KeyType: &RecordType{Key: rec.Key, Record: rec}, PartsText: partsText}, nil
		}

		var field *FieldInfo
		for _, f := range rec.Fields {
			if f.Name == p.Name() {
				field = f
				break
			}
		}
		if field == nil {
			return nil, skirerrors.New(p.Token, "Cannot find field %q", p.Name())
		}
		path = append(path, field)
		if i == len(parts)-1 {
			var keyType ResolvedType
			if field.Type == nil {
				// Enum "kind" discriminator: the field itself is the enum
				// record, used by its kind rather than its payload.
				keyType = &RecordType{Key: rec.Key, Record: rec}
			} else if _, isRecord := underlyingRecord(field.Type); isRecord {
				return nil, skirerrors.New(p.Token, "Array key must end in a primitive or enum field")
			} else {
				keyType = field.Type
			}
			return &ArrayKey{Path: path, KeyType: keyType, PartsText: partsText}, nil
		}
		nextRec, ok := underlyingRecord(field.Type)
		if !ok {
			return nil, skirerrors.New(p.Token, "Array key path must traverse struct fields")
		}
		rec = nextRec
	}
	return nil, skirerrors.New(parts[0].Token, "Empty array key")
}

func underlyingRecord(t ResolvedType) (*RecordInfo, bool) {
	switch v := t.(type) {
	case *RecordType:
		return v.Record, true
	case *OptionalType:
		return underlyingRecord(v.Other)
	}
	return nil, false
}
