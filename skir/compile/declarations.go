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
	"fmt"

	"github.com/gepheum/skir/skir/ast"
	skirerrors "github.com/gepheum/skir/skir/errors"
	"github.com/gepheum/skir/skir/token"
)

// buildDeclarations runs the declaration pass (spec §4.3): it registers
// every top-level name, flags duplicates, builds the resolved RecordInfo
// tree for every struct/enum (recursing into nested records), and
// synthesizes the implicit request/response record for any method whose
// request or response type is an inline `struct { ... }` / `enum { ... }`.
func (ms *ModuleSet) buildDeclarations(mr *ModuleResult) {
	for _, decl := range mr.Module.Declarations {
		name, tok, ok := declName(decl)
		if !ok {
			mr.Declarations = append(mr.Declarations, decl)
			continue
		}
		if existing, dup := mr.NameToDeclaration[name]; dup {
			ms.Errors.Add(skirerrors.New(tok, "Duplicate name %q", name).
				WithExpected(fmt.Sprintf("a name distinct from the one declared at %s", declTokenOf(existing).Position())))
			continue
		}
		mr.NameToDeclaration[name] = decl
		mr.declOrder = append(mr.declOrder, name)
		mr.Declarations = append(mr.Declarations, decl)

		switch d := decl.(type) {
		case *ast.RecordDecl:
			ms.buildRecordInfo(mr, d, nil)
		case *ast.MethodDecl:
			ms.buildMethodInfo(mr, d)
		case *ast.ConstDecl:
			ms.buildConstantInfo(mr, d)
		}
	}
	for _, mi := range mr.Methods {
		mi.Request = ms.liftInlineRequestResponse(mr, mi.Decl.RequestType, mi.Name+"Request")
		mi.Response = ms.liftInlineRequestResponse(mr, mi.Decl.ResponseType, mi.Name+"Response")
	}
}

func declName(decl ast.Decl) (string, token.Token, bool) {
	switch d := decl.(type) {
	case *ast.ImportAliasDecl:
		return d.Alias.Name(), d.Alias.Token, true
	case *ast.ImportDecl:
		return d.Name.Name(), d.Name.Token, true
	case *ast.RecordDecl:
		if d.Name == nil {
			// A synthesized request/response record has no source name
			// token of its own; report at the `struct`/`enum` keyword.
			return d.OriginalText, d.StructTok, true
		}
		return d.Name.Name(), d.Name.Token, true
	case *ast.MethodDecl:
		return d.Name.Name(), d.Name.Token, true
	case *ast.ConstDecl:
		return d.Name.Name(), d.Name.Token, true
	}
	return "", token.Token{}, false
}

func declTokenOf(decl ast.Decl) token.Token {
	_, tok, _ := declName(decl)
	return tok
}

// buildRecordInfo resolves one struct/enum declaration, recursing into its
// nested records. parent is nil for a top-level record.
func (ms *ModuleSet) buildRecordInfo(mr *ModuleResult, decl *ast.RecordDecl, parent *RecordInfo) *RecordInfo {
	name := decl.Name.Name()
	if decl.OriginalText != "" {
		name = decl.OriginalText
	}
	rec := &RecordInfo{
		Key:            newRecordKey(mr.Path, int(decl.Name.Pos())),
		Decl:           decl,
		Module:         mr,
		Name:           name,
		IsEnum:         decl.IsEnum,
		Parent:         parent,
		RemovedNumbers: map[int]bool{},
	}
	mr.recordByDecl[decl] = rec
	mr.Records = append(mr.Records, rec)
	ms.RecordMap[rec.Key] = rec

	if decl.NumberLit != nil {
		n := parseUint32Lit(decl.NumberLit)
		rec.RecordNumber = &n
	}

	// Field/variant numbering, including removed-slot accounting (spec
	// §4.3 "Field numbering"): both structs and enums fill slots from 0
	// upward, an enum only differing in that it gets an implicit UNKNOWN=0
	// variant when none is declared.
	next := 0
	if decl.IsEnum {
		hasZero := false
		for _, f := range decl.Fields {
			if f.Number != nil && parseUint32Lit(f.Number) == 0 {
				hasZero = true
			}
		}
		if !hasZero {
			rec.Fields = append(rec.Fields, &FieldInfo{Name: "UNKNOWN", Number: 0})
			next = 1
		}
	}
	for _, removed := range decl.Removed {
		for _, r := range removed.Ranges {
			for n := r.Start; n <= r.End; n++ {
				rec.RemovedNumbers[n] = true
			}
		}
	}
	for _, f := range decl.Fields {
		num := next
		if f.Number != nil {
			num = int(parseUint32Lit(f.Number))
		}
		for rec.RemovedNumbers[num] {
			num++
		}
		fi := &FieldInfo{Decl: f, Name: f.Name.Name(), Number: num}
		rec.Fields = append(rec.Fields, fi)
		next = num + 1

		if inline, isInline := f.Type.(*ast.InlineRecordTypeExpr); isInline {
			inline.Record.OriginalText = toUpperCamel(f.Name.Name())
			nestedRec := ms.buildRecordInfo(mr, inline.Record, rec)
			rec.NestedRecords = append(rec.NestedRecords, nestedRec)
			fi.Type = &RecordType{Key: nestedRec.Key, Record: nestedRec}
		}
	}

	maxActiveSlot := -1
	for _, f := range rec.Fields {
		if f.Number > maxActiveSlot {
			maxActiveSlot = f.Number
		}
	}
	maxSlot := maxActiveSlot
	for n := range rec.RemovedNumbers {
		if n > maxSlot {
			maxSlot = n
		}
	}
	// numSlots = highest active field number + 1 (spec §4.3 "Field
	// numbering"); it can exceed len(rec.Fields) when numbering is
	// explicit and gapped.
	rec.NumSlots = maxActiveSlot + 1
	rec.NumSlotsInclRemovedNumbers = maxSlot + 1

	for _, nested := range decl.Nested {
		child := ms.buildRecordInfo(mr, nested, rec)
		rec.NestedRecords = append(rec.NestedRecords, child)
	}

	return rec
}

func (ms *ModuleSet) buildMethodInfo(mr *ModuleResult, decl *ast.MethodDecl) {
	mi := &MethodInfo{
		Decl:   decl,
		Module: mr,
		Name:   decl.Name.Name(),
	}
	if decl.Number != nil {
		mi.Number = parseUint32Lit(decl.Number)
	}
	mr.methodByDecl[decl] = mi
	mr.Methods = append(mr.Methods, mi)
	// mi.Request and mi.Response are lifted by buildDeclarations once every
	// user declaration is registered, and otherwise resolved in
	// resolveAllTypes.
}

// liftInlineRequestResponse synthesizes a top-level RecordDecl for an
// inline `struct { ... }` / `enum { ... }` method parameter or return type
// (spec §4.3 "Synthesized records"), appending it to mr's declarations so
// it is numbered and resolved exactly like a user-written record. It is
// injected into NameToDeclaration after the user's own declarations, so a
// user-declared name colliding with the synthesized one is an error
// pointing at the user's declaration (spec §4.3: "the user may not shadow
// them").
func (ms *ModuleSet) liftInlineRequestResponse(mr *ModuleResult, te ast.TypeExpr, syntheticName string) ResolvedType {
	inline, ok := te.(*ast.InlineRecordTypeExpr)
	if !ok {
		return nil
	}
	inline.Record.OriginalText = syntheticName
	if existing, dup := mr.NameToDeclaration[syntheticName]; dup {
		ms.Errors.Add(skirerrors.New(declTokenOf(existing), "Duplicate name %q", syntheticName).
			WithExpected(fmt.Sprintf("a name distinct from the synthesized record %q", syntheticName)))
	} else {
		mr.NameToDeclaration[syntheticName] = inline.Record
		mr.declOrder = append(mr.declOrder, syntheticName)
	}
	mr.Declarations = append(mr.Declarations, inline.Record)
	rec := ms.buildRecordInfo(mr, inline.Record, nil)
	return &RecordType{Key: rec.Key, Record: rec}
}

func (ms *ModuleSet) buildConstantInfo(mr *ModuleResult, decl *ast.ConstDecl) {
	ci := &ConstantInfo{
		Decl:   decl,
		Module: mr,
		Name:   decl.Name.Name(),
		Value:  decl.Value,
	}
	mr.constByDecl[decl] = ci
	mr.Constants = append(mr.Constants, ci)
}

// toUpperCamel converts a lower_underscore field name to the UpperCamel
// name used for its synthesized nested record (spec §4.3 "Synthesized
// records").
func toUpperCamel(lowerUnderscore string) string {
	out := make([]byte, 0, len(lowerUnderscore))
	upperNext := true
	for i := 0; i < len(lowerUnderscore); i++ {
		c := lowerUnderscore[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upperNext = false
		out = append(out, c)
	}
	return string(out)
}

func parseUint32Lit(lit *ast.IntLit) uint32 {
	var n uint32
	for _, c := range lit.Text {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + uint32(c-'0')
	}
	return n
}
