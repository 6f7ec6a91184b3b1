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
	"github.com/gepheum/skir/skir/doccomment"
	skirerrors "github.com/gepheum/skir/skir/errors"
)

// resolveDocComments parses every DocComment attached to a declaration or
// field of mr and resolves its [Reference] pieces against the declaration's
// scope (spec §4.3 "Doc comment references").
func (ms *ModuleSet) resolveDocComments(mr *ModuleResult) {
	for _, rec := range mr.Records {
		rec.Doc = ms.resolveOneDoc(mr, rec.Parent, rec.Decl.Doc)
		for _, f := range rec.Fields {
			if f.Decl != nil {
				f.Doc = ms.resolveOneDoc(mr, rec, f.Decl.Doc)
			}
		}
	}
	for _, mi := range mr.Methods {
		mi.Doc = ms.resolveOneDoc(mr, nil, mi.Decl.Doc)
	}
	for _, ci := range mr.Constants {
		ci.Doc = ms.resolveOneDoc(mr, nil, ci.Decl.Doc)
	}
}

func (ms *ModuleSet) resolveOneDoc(mr *ModuleResult, scope *RecordInfo, doc *ast.DocComment) *ResolvedDoc {
	if doc == nil {
		return nil
	}
	parsed, err := doccomment.Merge(doc.Tokens)
	if err != nil {
		ms.Errors.Add(&skirerrors.SkirError{
			Pos:     doc.Tokens[0].Position(),
			Token:   doc.Tokens[0],
			Message: err.Error(),
		})
		return nil
	}
	rd := &ResolvedDoc{Text: parsed.Text}
	for _, p := range parsed.Pieces {
		if p.Kind == doccomment.TextPiece {
			rd.Pieces = append(rd.Pieces, ResolvedDocPiece{Text: p.Text})
			continue
		}
		target, ok := ms.resolveDocChain(mr, scope, p.NameParts, p.Absolute)
		if !ok {
			ms.Errors.Add(&skirerrors.SkirError{
				Pos:     doc.Tokens[0].Position(),
				Token:   doc.Tokens[0],
				Message: "Cannot find name " + joinDotted(p.NameParts) + " referenced in doc comment",
			})
			rd.Pieces = append(rd.Pieces, ResolvedDocPiece{IsReference: true})
			continue
		}
		rd.Pieces = append(rd.Pieces, ResolvedDocPiece{IsReference: true, Declaration: target})
	}
	return rd
}

func joinDotted(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// resolveDocChain resolves a dotted doc-comment reference to the
// declaration it names: a *RecordInfo, *FieldInfo, *MethodInfo or
// *ConstantInfo.
func (ms *ModuleSet) resolveDocChain(mr *ModuleResult, scope *RecordInfo, parts []string, absolute bool) (interface{}, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	first := parts[0]

	var cur interface{}
	if !absolute {
		for s := scope; s != nil; s = s.Parent {
			if found := findNestedByName(s, first); found != nil {
				cur = found
				break
			}
			if field := findFieldByName(s, first); field != nil {
				cur = field
				break
			}
		}
	}
	if cur == nil {
		if rec, ok := findTopLevelRecord(mr, first); ok {
			cur = rec
		} else if decl, ok := mr.NameToDeclaration[first]; ok {
			switch d := decl.(type) {
			case *ast.MethodDecl:
				cur = mr.methodByDecl[d]
			case *ast.ConstDecl:
				cur = mr.constByDecl[d]
			default:
				return nil, false
			}
		} else {
			return nil, false
		}
	}

	for _, part := range parts[1:] {
		rec, ok := cur.(*RecordInfo)
		if !ok {
			return nil, false
		}
		if nested := findNestedByName(rec, part); nested != nil {
			cur = nested
			continue
		}
		if field := findFieldByName(rec, part); field != nil {
			cur = field
			continue
		}
		return nil, false
	}
	return cur, true
}

func findFieldByName(rec *RecordInfo, name string) *FieldInfo {
	for _, f := range rec.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
