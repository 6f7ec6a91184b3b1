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

// Package constant type-checks literal expressions against a resolved
// Skir type and computes their dense-JSON encoding (spec §4.3 "Constant
// values", §4.3 "Dense JSON encoding"). It depends only on skir/ast and
// skir/token, never on skir/compile, so skir/compile can call into it
// without an import cycle.
package constant

import (
	"fmt"
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/gepheum/skir/skir/ast"
)

// Kind mirrors compile.Primitive plus the composite shapes a constant's
// type may take.
type Kind int

const (
	KindBool Kind = iota
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindTimestamp
	KindRecord
	KindArray
	KindOptional
	KindNull
)

// Type is a minimal, compile-package-agnostic description of a resolved
// Skir type, just rich enough to type-check and densely encode a literal.
type Type struct {
	Kind Kind

	// For KindRecord: the field types and names, in slot order, plus
	// whether the record is an enum (so a bare string literal or a
	// {kind, value} object literal can name a variant).
	IsEnum     bool
	FieldNames []string
	FieldTypes []*Type

	// For KindArray/KindOptional: the element type.
	Item *Type

	// Key is a keyed array's dotted key path (e.g. ["key"] or
	// ["key_enum", "kind"]), nil if the array isn't keyed (spec §4.3
	// "Keyed arrays").
	Key []string
}

// Validate checks that lit is a valid literal of type t and returns its
// dense JSON encoding (spec §8 scenario 4: trailing-default trimming for
// structs, bare name for a plain enum variant, [index, value] for a
// kind-carrying one).
func Validate(lit ast.Literal, t *Type) (interface{}, error) {
	if t == nil {
		return nil, fmt.Errorf("unresolved type")
	}
	if _, isNull := lit.(*ast.NullLit); isNull {
		if t.Kind == KindOptional || t.Kind == KindNull {
			return nil, nil
		}
		return nil, fmt.Errorf("null is not a valid %s value", kindName(t.Kind))
	}
	if t.Kind == KindOptional {
		return Validate(lit, t.Item)
	}

	switch t.Kind {
	case KindBool:
		b, ok := lit.(*ast.BoolLit)
		if !ok {
			return nil, fmt.Errorf("expected bool literal")
		}
		return b.Value, nil
	case KindInt32, KindInt64, KindUint32, KindUint64:
		return validateInteger(lit, t.Kind)
	case KindFloat32, KindFloat64:
		return validateFloat(lit, t.Kind)
	case KindString:
		s, ok := lit.(*ast.StringLit)
		if !ok {
			return nil, fmt.Errorf("expected string literal")
		}
		return s.Value, nil
	case KindBytes:
		s, ok := lit.(*ast.StringLit)
		if !ok {
			return nil, fmt.Errorf("expected string literal for bytes constant")
		}
		return s.Value, nil
	case KindTimestamp:
		i, ok := lit.(*ast.IntLit)
		if !ok {
			return nil, fmt.Errorf("expected integer literal for timestamp constant (milliseconds since epoch)")
		}
		return i.Text, nil
	case KindArray:
		return validateArray(lit, t)
	case KindRecord:
		return validateRecord(lit, t)
	}
	return nil, fmt.Errorf("unsupported constant type")
}

func kindName(k Kind) string {
	names := [...]string{
		"bool", "int32", "int64", "uint32", "uint64", "float32", "float64",
		"string", "bytes", "timestamp", "record", "array", "optional", "null",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// validateInteger checks an IntLit is exactly representable in the target
// width using apd's arbitrary-precision decimal, avoiding float64 rounding
// error at the edges of int64/uint64's range.
func validateInteger(lit ast.Literal, kind Kind) (interface{}, error) {
	i, ok := lit.(*ast.IntLit)
	if !ok {
		return nil, fmt.Errorf("expected integer literal")
	}
	d, _, err := apd.NewFromString(i.Text)
	if err != nil {
		return nil, fmt.Errorf("invalid integer literal %q: %w", i.Text, err)
	}
	var lo, hi apd.Decimal
	switch kind {
	case KindInt32:
		lo.SetInt64(-1 << 31)
		hi.SetInt64(1<<31 - 1)
	case KindInt64:
		lo.SetInt64(math.MinInt64)
		hi.SetInt64(math.MaxInt64)
	case KindUint32:
		lo.SetInt64(0)
		hi.SetInt64(1<<32 - 1)
	case KindUint64:
		lo.SetInt64(0)
		hiBig := new(big.Int).SetUint64(^uint64(0))
		hi.SetString(hiBig.String())
	}
	if d.Cmp(&lo) < 0 || d.Cmp(&hi) > 0 {
		return nil, fmt.Errorf("integer literal %s out of range for %s", i.Text, kindName(kind))
	}
	return i.Text, nil
}

func validateFloat(lit ast.Literal, kind Kind) (interface{}, error) {
	switch v := lit.(type) {
	case *ast.FloatLit:
		return v.Text, nil
	case *ast.IntLit:
		return v.Text, nil
	}
	return nil, fmt.Errorf("expected numeric literal for %s constant", kindName(kind))
}

// validateArray checks every item against the array's item type and, for a
// keyed array, that every item carries its key field and that key values
// are pairwise distinct (spec §4.3: "if the array is keyed, every item
// must carry the key field (missing -> Missing entry: K) and keys must be
// unique (Duplicate key ...)").
func validateArray(lit ast.Literal, t *Type) (interface{}, error) {
	arr, ok := lit.(*ast.ArrayLit)
	if !ok {
		return nil, fmt.Errorf("expected array literal")
	}
	out := make([]interface{}, 0, len(arr.Items))
	var seenKeys map[string]bool
	if len(t.Key) > 0 {
		seenKeys = make(map[string]bool, len(arr.Items))
	}
	for _, item := range arr.Items {
		v, err := Validate(item, t.Item)
		if err != nil {
			return nil, err
		}
		if len(t.Key) > 0 {
			keyVal, present, err := keyValueOf(item, t.Item, t.Key)
			if err != nil {
				return nil, err
			}
			if !present {
				return nil, fmt.Errorf("Missing entry: %s", t.Key[len(t.Key)-1])
			}
			if seenKeys[keyVal] {
				return nil, fmt.Errorf("Duplicate key")
			}
			seenKeys[keyVal] = true
		}
		out = append(out, v)
	}
	return out, nil
}

// keyValueOf walks path through lit's nested object literals, starting
// from recType, and returns a comparable string for the terminal key
// value. A path step landing on an enum whose remaining path is exactly
// ["kind"] is terminal on lit itself (the enum's own literal
// representation), matching skir/compile/resolve.go's identical special
// case for the synthetic "kind" discriminator.
func keyValueOf(lit ast.Literal, recType *Type, path []string) (value string, present bool, err error) {
	if len(path) == 0 || (len(path) == 1 && recType.IsEnum && path[0] == "kind") {
		v, err := Validate(lit, recType)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%v", v), true, nil
	}
	obj, ok := lit.(*ast.ObjectLit)
	if !ok {
		return "", false, fmt.Errorf("expected object literal for keyed array item")
	}
	name := path[0]
	idx := indexOf(recType.FieldNames, name)
	if idx < 0 {
		return "", false, fmt.Errorf("unknown field %q in keyed array path", name)
	}
	for _, e := range obj.Entries {
		if e.Key.Name() == name {
			return keyValueOf(e.Value, recType.FieldTypes[idx], path[1:])
		}
	}
	return "", false, nil
}

// validateRecord handles both struct object literals and enum values. A
// plain enum variant may be written as a bare string (the variant name);
// a kind-carrying variant, or any struct, is written as an object literal.
func validateRecord(lit ast.Literal, t *Type) (interface{}, error) {
	if t.IsEnum {
		if s, ok := lit.(*ast.StringLit); ok {
			idx := indexOf(t.FieldNames, s.Value)
			if idx < 0 {
				return nil, fmt.Errorf("unknown enum variant %q", s.Value)
			}
			if t.FieldTypes[idx] != nil {
				return nil, fmt.Errorf("variant %q carries a value and cannot be written as a bare name", s.Value)
			}
			return s.Value, nil
		}
	}
	obj, ok := lit.(*ast.ObjectLit)
	if !ok {
		return nil, fmt.Errorf("expected object literal")
	}
	values := make(map[string]interface{}, len(obj.Entries))
	seen := make(map[string]bool, len(obj.Entries))
	for _, e := range obj.Entries {
		name := e.Key.Name()
		if seen[name] {
			return nil, fmt.Errorf("Duplicate key")
		}
		seen[name] = true
		idx := indexOf(t.FieldNames, name)
		if idx < 0 {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		v, err := Validate(e.Value, t.FieldTypes[idx])
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	if t.IsEnum {
		// A kind-carrying enum constant is encoded [index, value].
		for i, name := range t.FieldNames {
			if v, present := values[name]; present {
				return []interface{}{i, v}, nil
			}
		}
		return nil, fmt.Errorf("object literal does not set a variant")
	}
	// `{...}` (full) must supply every field up to the last one actually
	// set; `{|...|}` (partial) may omit any of them (spec §4.3 "Object
	// literal").
	if !obj.Partial {
		if name, missing := firstNonTrailingMissingField(t, values); missing {
			return nil, fmt.Errorf("Missing entry: %s", name)
		}
	}
	return denseStruct(t, values), nil
}

// firstNonTrailingMissingField returns the first field (in slot order)
// that is absent from values despite a later field being explicitly set,
// i.e. one that cannot be trimmed as a trailing default.
func firstNonTrailingMissingField(t *Type, values map[string]interface{}) (string, bool) {
	lastSet := -1
	for i, name := range t.FieldNames {
		if _, ok := values[name]; ok {
			lastSet = i
		}
	}
	for i := 0; i < lastSet; i++ {
		if _, ok := values[t.FieldNames[i]]; !ok {
			return t.FieldNames[i], true
		}
	}
	return "", false
}

// denseStruct trims trailing default-valued fields from the dense-JSON
// array encoding of a struct constant (spec §4.3 "Dense JSON encoding").
func denseStruct(t *Type, values map[string]interface{}) []interface{} {
	out := make([]interface{}, len(t.FieldNames))
	for i, name := range t.FieldNames {
		if v, ok := values[name]; ok {
			out[i] = v
		} else {
			out[i] = zeroValue(t.FieldTypes[i])
		}
	}
	last := len(out) - 1
	for last >= 0 && isZero(out[last], t.FieldTypes[last]) {
		last--
	}
	return out[:last+1]
}

func zeroValue(t *Type) interface{} {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindBool:
		return false
	case KindInt32, KindInt64, KindUint32, KindUint64, KindTimestamp:
		return "0"
	case KindFloat32, KindFloat64:
		return "0"
	case KindString, KindBytes:
		return ""
	case KindArray:
		return []interface{}{}
	case KindOptional:
		return nil
	}
	return nil
}

// isZero reports whether v is t's default value, for dense-JSON trailing-
// default trimming. Numeric fields encode their value as a decimal-text
// string (see Validate), so a string "0" only means "default" for a
// numeric/timestamp field; a genuine string field's zero value is "",
// never "0" (a field literally holding "0" must not be trimmed).
func isZero(v interface{}, t *Type) bool {
	switch vv := v.(type) {
	case nil:
		return true
	case bool:
		return !vv
	case string:
		if t != nil && isNumericKind(t.Kind) {
			return vv == "0"
		}
		return vv == ""
	case []interface{}:
		return len(vv) == 0
	}
	return false
}

func isNumericKind(k Kind) bool {
	switch k {
	case KindInt32, KindInt64, KindUint32, KindUint64, KindFloat32, KindFloat64, KindTimestamp:
		return true
	}
	return false
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
