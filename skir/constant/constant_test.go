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

package constant

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/gepheum/skir/skir/ast"
	"github.com/gepheum/skir/skir/token"
)

func intLit(text string) *ast.IntLit {
	return &ast.IntLit{Token: token.Token{Kind: token.INT, Text: text}, Text: text}
}

func TestValidateIntegerInRange(t *testing.T) {
	v, err := Validate(intLit("2147483647"), &Type{Kind: KindInt32})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.(string), "2147483647"))
}

func TestValidateIntegerOutOfRange(t *testing.T) {
	_, err := Validate(intLit("2147483648"), &Type{Kind: KindInt32})
	if err == nil {
		t.Fatal("expected an out-of-range error for int32")
	}
}

func TestValidateUint64MaxInRange(t *testing.T) {
	_, err := Validate(intLit("18446744073709551615"), &Type{Kind: KindUint64})
	qt.Assert(t, qt.IsNil(err))
}

func TestValidateNullOptional(t *testing.T) {
	v, err := Validate(&ast.NullLit{}, &Type{Kind: KindOptional, Item: &Type{Kind: KindInt32}})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(v))
}

func TestValidateEnumPlainVariant(t *testing.T) {
	enumType := &Type{
		Kind:       KindRecord,
		IsEnum:     true,
		FieldNames: []string{"UNKNOWN", "OK", "BAD"},
		FieldTypes: []*Type{nil, nil, nil},
	}
	v, err := Validate(&ast.StringLit{Value: "OK"}, enumType)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.(string), "OK"))
}

func TestValidateEnumKindCarryingVariant(t *testing.T) {
	enumType := &Type{
		Kind:       KindRecord,
		IsEnum:     true,
		FieldNames: []string{"UNKNOWN", "count"},
		FieldTypes: []*Type{nil, {Kind: KindInt32}},
	}
	lit := &ast.ObjectLit{Entries: []ast.ObjectEntry{
		{Key: &ast.Ident{Token: token.Token{Text: "count"}}, Value: intLit("3")},
	}}
	v, err := Validate(lit, enumType)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(v.([]interface{}), []interface{}{1, "3"}))
}

func TestValidateStructTrailingDefaultsTrimmed(t *testing.T) {
	pointType := &Type{
		Kind:       KindRecord,
		FieldNames: []string{"x", "y"},
		FieldTypes: []*Type{{Kind: KindInt32}, {Kind: KindInt32}},
	}
	lit := &ast.ObjectLit{Entries: []ast.ObjectEntry{
		{Key: &ast.Ident{Token: token.Token{Text: "x"}}, Value: intLit("10")},
	}}
	v, err := Validate(lit, pointType)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(v.([]interface{}), []interface{}{"10"}))
}
