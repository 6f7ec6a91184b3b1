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
	"github.com/gepheum/skir/skir/ast"
	"github.com/gepheum/skir/skir/casing"
	"github.com/gepheum/skir/skir/constant"
	skirerrors "github.com/gepheum/skir/skir/errors"
	"github.com/gepheum/skir/skir/token"
)

// checkConstants type-checks every const declaration's literal against its
// resolved type and stores the dense-JSON encoding (spec §4.3, §8 scenario
// 4), delegating to skir/constant so the apd-based exact numeric checks
// live in one place shared with a future default-value feature.
func (ms *ModuleSet) checkConstants(mr *ModuleResult) {
	for _, ci := range mr.Constants {
		if ci.Type == nil {
			continue
		}
		ct := toConstantType(ci.Type, map[RecordKey]*constant.Type{})
		dj, err := constant.Validate(ci.Value, ct)
		if err != nil {
			tok := literalToken(ci.Value)
			ms.Errors.Add(&skirerrors.SkirError{
				Pos:     tok.Position(),
				Token:   tok,
				Message: err.Error(),
			})
			continue
		}
		ci.DenseJSON = dj
	}
}

// literalToken returns the representative token of a literal, for error
// reporting.
func literalToken(lit ast.Literal) (tok token.Token) {
	switch v := lit.(type) {
	case *ast.NullLit:
		return v.Token
	case *ast.BoolLit:
		return v.Token
	case *ast.IntLit:
		return v.Token
	case *ast.FloatLit:
		return v.Token
	case *ast.StringLit:
		return v.Token
	case *ast.ArrayLit:
		return v.LBrack
	case *ast.ObjectLit:
		return v.LBrace
	case *ast.BadLit:
		return v.Token
	}
	return tok
}

// toConstantType adapts a resolved Skir type to skir/constant's minimal,
// compile-package-agnostic Type description. seen breaks record self-
// reference (a struct whose own field carries its type) from recursing
// forever.
func toConstantType(rt ResolvedType, seen map[RecordKey]*constant.Type) *constant.Type {
	switch v := rt.(type) {
	case Primitive:
		return &constant.Type{Kind: primitiveConstantKind(v)}
	case *OptionalType:
		return &constant.Type{Kind: constant.KindOptional, Item: toConstantType(v.Other, seen)}
	case *ArrayType:
		ct := &constant.Type{Kind: constant.KindArray, Item: toConstantType(v.Item, seen)}
		if v.Key != nil {
			ct.Key = append([]string(nil), v.Key.PartsText...)
		}
		return ct
	case *RecordType:
		if ct, ok := seen[v.Key]; ok {
			return ct
		}
		ct := &constant.Type{Kind: constant.KindRecord, IsEnum: v.Record.IsEnum}
		seen[v.Key] = ct
		for _, f := range v.Record.Fields {
			ct.FieldNames = append(ct.FieldNames, f.Name)
			if f.Type == nil {
				ct.FieldTypes = append(ct.FieldTypes, nil)
			} else {
				ct.FieldTypes = append(ct.FieldTypes, toConstantType(f.Type, seen))
			}
		}
		return ct
	}
	return &constant.Type{Kind: constant.KindNull}
}

func primitiveConstantKind(p Primitive) constant.Kind {
	switch p {
	case PrimitiveBool:
		return constant.KindBool
	case PrimitiveInt32:
		return constant.KindInt32
	case PrimitiveInt64:
		return constant.KindInt64
	case PrimitiveUint32:
		return constant.KindUint32
	case PrimitiveUint64:
		return constant.KindUint64
	case PrimitiveFloat32:
		return constant.KindFloat32
	case PrimitiveFloat64:
		return constant.KindFloat64
	case PrimitiveString:
		return constant.KindString
	case PrimitiveBytes:
		return constant.KindBytes
	case PrimitiveTimestamp:
		return constant.KindTimestamp
	}
	return constant.KindNull
}

// checkCasing enforces the identifier-casing conventions of spec §4.3:
// records and methods are UpperCamel, fields are lower_underscore,
// constants and plain enum variants are UPPER_UNDERSCORE.
func (ms *ModuleSet) checkCasing(mr *ModuleResult) {
	for _, rec := range mr.Records {
		if rec.Decl.OriginalText == "" && !casing.IsUpperCamel(rec.Name) {
			ms.Errors.Add(skirerrors.New(rec.Decl.Name.Token, "Record name %q must be UpperCamel", rec.Name))
		}
		for _, f := range rec.Fields {
			if f.Decl == nil {
				continue // synthesized UNKNOWN variant
			}
			if rec.IsEnum && f.Type == nil {
				if !casing.IsUpperUnderscore(f.Name) {
					ms.Errors.Add(skirerrors.New(f.Decl.Name.Token, "Enum variant %q must be UPPER_UNDERSCORE", f.Name))
				}
			} else if !casing.IsLowerUnderscore(f.Name) {
				ms.Errors.Add(skirerrors.New(f.Decl.Name.Token, "Field %q must be lower_underscore", f.Name))
			}
		}
	}
	for _, mi := range mr.Methods {
		if !casing.IsUpperCamel(mi.Name) {
			ms.Errors.Add(skirerrors.New(mi.Decl.Name.Token, "Method name %q must be UpperCamel", mi.Name))
		}
	}
	for _, ci := range mr.Constants {
		if !casing.IsUpperUnderscore(ci.Name) {
			ms.Errors.Add(skirerrors.New(ci.Decl.Name.Token, "Constant name %q must be UPPER_UNDERSCORE", ci.Name))
		}
	}
}

// checkUnusedImports reports an import-alias or named import never
// referenced by a type reference (spec §4.3 "Unused import"). A reference
// from a doc comment does not count as a use: doc references are not
// resolved through imports.
func (ms *ModuleSet) checkUnusedImports(mr *ModuleResult) {
	for _, decl := range mr.Module.Declarations {
		switch d := decl.(type) {
		case *ast.ImportAliasDecl:
			if !mr.usedImports[d.Alias.Name()] {
				ms.Errors.Add(skirerrors.New(d.Alias.Token, "Unused import %q", d.Alias.Name()))
			}
		case *ast.ImportDecl:
			if !mr.usedImports[d.Name.Name()] {
				ms.Errors.Add(skirerrors.New(d.Name.Token, "Unused import %q", d.Name.Name()))
			}
		}
	}
}
