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
)

// Primitive enumerates the scalar types a field, constant or array item may
// have. The set is closed per spec §3, extensible only if a future source
// corpus references more of them.
type Primitive string

const (
	PrimitiveBool      Primitive = "bool"
	PrimitiveInt32     Primitive = "int32"
	PrimitiveInt64     Primitive = "int64"
	PrimitiveUint32    Primitive = "uint32"
	PrimitiveUint64    Primitive = "uint64"
	PrimitiveFloat32   Primitive = "float32"
	PrimitiveFloat64   Primitive = "float64"
	PrimitiveString    Primitive = "string"
	PrimitiveBytes     Primitive = "bytes"
	PrimitiveTimestamp Primitive = "timestamp"
)

var primitiveNames = map[string]Primitive{
	"bool":      PrimitiveBool,
	"int32":     PrimitiveInt32,
	"int64":     PrimitiveInt64,
	"uint32":    PrimitiveUint32,
	"uint64":    PrimitiveUint64,
	"float32":   PrimitiveFloat32,
	"float64":   PrimitiveFloat64,
	"string":    PrimitiveString,
	"bytes":     PrimitiveBytes,
	"timestamp": PrimitiveTimestamp,
}

// integerFamily reports whether p is one of the signed/unsigned integer
// primitives, and if so which family ("int" or "uint") and bit width, for
// the compatibility checker's widen-not-shrink rule (spec §4.5).
func (p Primitive) integerFamily() (family string, bits int, ok bool) {
	switch p {
	case PrimitiveInt32:
		return "int", 32, true
	case PrimitiveInt64:
		return "int", 64, true
	case PrimitiveUint32:
		return "uint", 32, true
	case PrimitiveUint64:
		return "uint", 64, true
	}
	return "", 0, false
}

// RecordKey uniquely identifies a record definition across the whole
// compiled program: modulePath ++ ":" ++ the byte offset of the record's
// name token inside its module (spec §3 "RecordKey invariant"). It is
// deterministic, stable under reordering of other records, and
// module-local.
type RecordKey string

func newRecordKey(modulePath string, namePos int) RecordKey {
	return RecordKey(fmt.Sprintf("%s:%d", modulePath, namePos))
}

// ResolvedType is implemented by every resolved (post-name-resolution) type
// variant: Primitive, *RecordType, *ArrayType, *OptionalType, and NullType.
type ResolvedType interface {
	resolvedTypeNode()
	String() string
}

func (Primitive) resolvedTypeNode()      {}
func (*RecordType) resolvedTypeNode()    {}
func (*ArrayType) resolvedTypeNode()     {}
func (*OptionalType) resolvedTypeNode()  {}
func (NullType) resolvedTypeNode()       {}

func (p Primitive) String() string { return string(p) }

// RecordType references a record definition by its RecordKey.
type RecordType struct {
	Key    RecordKey
	Record *RecordInfo
}

func (t *RecordType) String() string { return t.Record.Name }

// ArrayType is `[T]` or, if Key is non-nil, a keyed array `[T|path]`.
type ArrayType struct {
	Item ResolvedType
	Key  *ArrayKey // nil if not keyed
}

func (t *ArrayType) String() string {
	if t.Key != nil {
		return fmt.Sprintf("[%s|%s]", t.Item, t.Key.PathText())
	}
	return fmt.Sprintf("[%s]", t.Item)
}

// ArrayKey describes the field path a keyed array is indexed by: a
// non-empty sequence of field references terminating in a primitive or
// enum-kind field (spec §3, §4.3 "Keyed arrays").
type ArrayKey struct {
	// Path is the resolved chain of FieldInfo traversed to reach the key,
	// every step but the last a struct field, the last either a primitive
	// field or the synthetic "kind" field of an enum.
	Path []*FieldInfo
	// KeyType is the resolved type of the terminal key (primitive, or a
	// RecordType for an enum-kind key).
	KeyType ResolvedType
	// PartsText is the original dotted identifier text, kept for
	// diagnostics and formatting.
	PartsText []string
}

func (k *ArrayKey) PathText() string {
	out := ""
	for i, p := range k.PartsText {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// OptionalType is `T?`. Optionality does not nest (spec §3).
type OptionalType struct {
	Other ResolvedType
}

func (t *OptionalType) String() string { return t.Other.String() + "?" }

// NullType is the type of the literal `null` itself, used only when a
// constant or default literal is bare `null` with no further type context.
type NullType struct{}

func (NullType) String() string { return "null" }

// parsePrimitive maps a single, unqualified identifier to a Primitive.
func parsePrimitive(name string) (Primitive, bool) {
	p, ok := primitiveNames[name]
	return p, ok
}

// ---------------------------------------------------------------------------
// Declaration-level resolved info structs. These sit between the syntactic
// ast.Decl nodes (owned by ModuleResult) and ResolvedType (which refers to
// them by pointer, never by value, so the owning ModuleSet is the single
// owner per spec §3 "Ownership").

// RecordInfo is the resolved form of a struct or enum declaration.
type RecordInfo struct {
	Key    RecordKey
	Decl   *ast.RecordDecl
	Module *ModuleResult

	Name   string // Decl.Name.Name(), or Decl.OriginalText if synthesized
	IsEnum bool

	// RecordNumber is the stable identifier declared in parens, or nil.
	RecordNumber *uint32

	// Fields are in declaration order for structs, variant order for enums.
	// An implicit UNKNOWN=0 variant is prepended for enums that don't
	// declare one (spec §4.3 "Field numbering").
	Fields []*FieldInfo

	// Parent is the enclosing record if this one is nested, else nil.
	Parent        *RecordInfo
	NestedRecords []*RecordInfo

	// NumSlots / NumSlotsInclRemovedNumbers: struct-only field slot
	// accounting (spec §3, §4.3).
	NumSlots                 int
	NumSlotsInclRemovedNumbers int

	RemovedNumbers map[int]bool

	Doc *ResolvedDoc
}

// Package returns the @ORG/PKG/ prefix of the record's module path, or ""
// if the module is unpackaged (spec §4.3 "Package prefixing").
func (r *RecordInfo) Package() string {
	return packageOf(r.Module.Path)
}

// FieldInfo is the resolved form of a struct field or enum variant.
type FieldInfo struct {
	Decl   *ast.FieldDecl
	Name   string
	Number int
	Type   ResolvedType // nil for a plain enum variant

	// IsRecursive is "" until the recursivity pass runs, then one of
	// "false", "soft", "hard" (spec §4.3).
	IsRecursive string

	Doc *ResolvedDoc
}

// MethodInfo is the resolved form of a `method` declaration.
type MethodInfo struct {
	Decl     *ast.MethodDecl
	Module   *ModuleResult
	Name     string
	Request  ResolvedType
	Response ResolvedType
	Number   uint32
	Doc      *ResolvedDoc
}

// ConstantInfo is the resolved form of a `const` declaration.
type ConstantInfo struct {
	Decl    *ast.ConstDecl
	Module  *ModuleResult
	Name    string
	Type    ResolvedType
	Value   ast.Literal
	// DenseJSON is the canonical dense encoding computed by skir/constant.
	DenseJSON interface{}
	Doc       *ResolvedDoc
}

// ResolvedDoc pairs the syntactic DocComment with its parsed pieces and,
// for each reference piece, the declaration it resolved to (nil if
// unresolved, in which case an error was already recorded).
type ResolvedDoc struct {
	Text          string
	Pieces        []ResolvedDocPiece
}

type ResolvedDocPiece struct {
	IsReference bool
	Text        string // for a text piece
	// Declaration is the resolved target of a reference piece: either a
	// *RecordInfo, *FieldInfo, *MethodInfo, or *ConstantInfo.
	Declaration interface{}
}
