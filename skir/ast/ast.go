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

// Package ast declares the syntax tree produced by skir/parser for one
// module. Node kinds are tagged variants, matched by type switch rather
// than by an inheritance hierarchy, matching cue/ast's Decl/Expr interface
// split.
package ast

import (
	"github.com/gepheum/skir/skir/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Ident is a single identifier occurrence, always carrying its token so
// resolution errors and the definition/reference finder can point at it.
type Ident struct {
	Token token.Token
}

func (n *Ident) Pos() token.Pos { return n.Token.Offset }
func (n *Ident) End() token.Pos { return n.Token.End() }
func (n *Ident) Name() string   { return n.Token.Text }

// Module is the parsed form of one .skir file.
type Module struct {
	Path         string
	Declarations []Decl
}

// Decl is implemented by every module-level and record-body declaration.
type Decl interface {
	Node
	declNode()
}

func (*ImportAliasDecl) declNode() {}
func (*ImportDecl) declNode()      {}
func (*RecordDecl) declNode()      {}
func (*FieldDecl) declNode()       {}
func (*MethodDecl) declNode()      {}
func (*ConstDecl) declNode()       {}
func (*RemovedDecl) declNode()     {}
func (*BadDecl) declNode()         {}

// BadDecl is a placeholder emitted in lenient mode when a declaration
// could not be parsed but the parser could resynchronize.
type BadDecl struct {
	From, To token.Token
}

func (n *BadDecl) Pos() token.Pos { return n.From.Offset }
func (n *BadDecl) End() token.Pos { return n.To.End() }

// ImportAliasDecl is `import * as A from "path";`.
type ImportAliasDecl struct {
	ImportTok token.Token
	Alias     *Ident
	PathLit   *StringLit

	// ResolvedModulePath is filled in by the compiler (skir/compile), after
	// applying package-prefixing and relative-path normalization (spec
	// §4.3).
	ResolvedModulePath string
}

func (n *ImportAliasDecl) Pos() token.Pos { return n.ImportTok.Offset }
func (n *ImportAliasDecl) End() token.Pos { return n.PathLit.End() }

// ImportDecl is one named import; `import N1, N2 from "path";` desugars
// into one ImportDecl per name sharing the same PathLit, matching the data
// model's "import: a single named import" (spec §3).
type ImportDecl struct {
	ImportTok token.Token
	Name      *Ident
	PathLit   *StringLit

	ResolvedModulePath string
}

func (n *ImportDecl) Pos() token.Pos { return n.ImportTok.Offset }
func (n *ImportDecl) End() token.Pos { return n.PathLit.End() }

// RecordDecl is a struct or enum, top-level or nested.
type RecordDecl struct {
	StructTok  token.Token // the `struct` or `enum` keyword token
	IsEnum     bool
	Name       *Ident
	NumberLit  *IntLit // stable record number in parens; nil if absent
	LBrace     token.Token
	RBrace     token.Token
	Fields     []*FieldDecl // struct fields, or enum variants
	Nested     []*RecordDecl
	Removed    []*RemovedDecl
	Doc        *DocComment

	// OriginalText overrides the textual name used for error messages and
	// doc-comment display; set for records synthesized from a method's
	// inline request/response type (spec §4.3) so diagnostics can refer to
	// the method's own name, and for a field's inline record type, which
	// takes the UpperCamel form of the field name.
	OriginalText string
}

func (n *RecordDecl) Pos() token.Pos { return n.StructTok.Offset }
func (n *RecordDecl) End() token.Pos { return n.RBrace.End() }

// FieldDecl is a struct field or an enum variant. For a struct field, Type
// is always set. For an enum variant, Type is nil for a plain variant and
// set for a kind-carrying variant (spec §3, §4.2).
type FieldDecl struct {
	Name   *Ident
	Type   TypeExpr // nil for a plain enum variant
	Number *IntLit  // explicit "= N"; nil if implicit
	Doc    *DocComment

	// IsRecursive is not set by the parser or by skir/compile: the
	// recursivity pass (spec §4.3) records its result on
	// compile.FieldInfo.IsRecursive, and this field stays "".
	IsRecursive string
}

func (n *FieldDecl) Pos() token.Pos { return n.Name.Pos() }
func (n *FieldDecl) End() token.Pos {
	if n.Number != nil {
		return n.Number.End()
	}
	if n.Type != nil {
		return n.Type.End()
	}
	return n.Name.End()
}

// RemovedDecl is a `removed;` / `removed N;` / `removed N..M;` /
// `removed N, M..;` slot-placeholder clause.
type RemovedDecl struct {
	RemovedTok token.Token
	Semicolon  token.Token
	Ranges     []RemovedRange
}

func (n *RemovedDecl) Pos() token.Pos { return n.RemovedTok.Offset }
func (n *RemovedDecl) End() token.Pos { return n.Semicolon.End() }

// RemovedRange is one comma-separated entry of a RemovedDecl: a single
// number (Start==End) or an inclusive Start..End range.
type RemovedRange struct {
	Start, End int
}

// MethodDecl is `method Name(Req): Resp = N;`.
type MethodDecl struct {
	MethodTok    token.Token
	Name         *Ident
	RequestType  TypeExpr
	ResponseType TypeExpr
	Number       *IntLit
	Semicolon    token.Token
	Doc          *DocComment
}

func (n *MethodDecl) Pos() token.Pos { return n.MethodTok.Offset }
func (n *MethodDecl) End() token.Pos { return n.Semicolon.End() }

// ConstDecl is `const Name: Type = Literal;`.
type ConstDecl struct {
	ConstTok  token.Token
	Name      *Ident
	Type      TypeExpr
	Value     Literal
	Semicolon token.Token
	Doc       *DocComment
}

func (n *ConstDecl) Pos() token.Pos { return n.ConstTok.Offset }
func (n *ConstDecl) End() token.Pos { return n.Semicolon.End() }

// DocComment is the syntactic form attached to a declaration: its merged
// text is parsed into pieces by skir/doccomment; resolving the references
// against a scope happens in skir/compile.
type DocComment struct {
	Tokens []token.Token
	Text   string
}

func (n *DocComment) Pos() token.Pos { return n.Tokens[0].Offset }
func (n *DocComment) End() token.Pos { return n.Tokens[len(n.Tokens)-1].End() }

// ---------------------------------------------------------------------------
// Type expressions (syntactic, pre-resolution; skir/compile resolves these
// into compile.ResolvedType values).

// TypeExpr is implemented by every syntactic type node.
type TypeExpr interface {
	Node
	typeExprNode()
}

func (*NamedTypeExpr) typeExprNode()        {}
func (*ArrayTypeExpr) typeExprNode()        {}
func (*OptionalTypeExpr) typeExprNode()     {}
func (*InlineRecordTypeExpr) typeExprNode() {}
func (*BadTypeExpr) typeExprNode()          {}

// BadTypeExpr is a placeholder for a type the parser could not make sense
// of, used in lenient mode to keep the surrounding declaration list
// intact.
type BadTypeExpr struct {
	Token token.Token
}

func (n *BadTypeExpr) Pos() token.Pos { return n.Token.Offset }
func (n *BadTypeExpr) End() token.Pos { return n.Token.End() }

// NamedTypeExpr is a (possibly dotted, possibly absolute) type reference,
// e.g. `int32`, `Outer.User`, `.Foo`.
type NamedTypeExpr struct {
	LeadingDot token.Token // valid only if Absolute
	Absolute   bool
	Parts      []*Ident
}

func (n *NamedTypeExpr) Pos() token.Pos {
	if n.Absolute {
		return n.LeadingDot.Offset
	}
	return n.Parts[0].Pos()
}
func (n *NamedTypeExpr) End() token.Pos { return n.Parts[len(n.Parts)-1].End() }

// ArrayTypeExpr is `[T]` or keyed `[T|path.to.key]`.
type ArrayTypeExpr struct {
	LBrack token.Token
	Item   TypeExpr
	Pipe   token.Token // valid only if Key != nil
	Key    []*Ident    // nil if not a keyed array
	RBrack token.Token
}

func (n *ArrayTypeExpr) Pos() token.Pos { return n.LBrack.Offset }
func (n *ArrayTypeExpr) End() token.Pos { return n.RBrack.End() }

// OptionalTypeExpr is `T?`.
type OptionalTypeExpr struct {
	Inner   TypeExpr
	Quest   token.Token
}

func (n *OptionalTypeExpr) Pos() token.Pos { return n.Inner.Pos() }
func (n *OptionalTypeExpr) End() token.Pos { return n.Quest.End() }

// InlineRecordTypeExpr is an anonymous `struct { ... }` / `enum { ... }`
// used as a field's or method's type. The compiler lifts it to a top-level
// (method request/response) or nested (field) named RecordDecl (spec
// §4.3).
type InlineRecordTypeExpr struct {
	Record *RecordDecl
}

func (n *InlineRecordTypeExpr) Pos() token.Pos { return n.Record.Pos() }
func (n *InlineRecordTypeExpr) End() token.Pos { return n.Record.End() }

// ---------------------------------------------------------------------------
// Literal expressions.

// Literal is implemented by every literal-value AST node (const values and
// field defaults).
type Literal interface {
	Node
	literalNode()
}

func (*NullLit) literalNode()   {}
func (*BoolLit) literalNode()   {}
func (*IntLit) literalNode()    {}
func (*FloatLit) literalNode()  {}
func (*StringLit) literalNode() {}
func (*ArrayLit) literalNode()  {}
func (*ObjectLit) literalNode() {}
func (*BadLit) literalNode()    {}

type BadLit struct{ Token token.Token }

func (n *BadLit) Pos() token.Pos { return n.Token.Offset }
func (n *BadLit) End() token.Pos { return n.Token.End() }

type NullLit struct{ Token token.Token }

func (n *NullLit) Pos() token.Pos { return n.Token.Offset }
func (n *NullLit) End() token.Pos { return n.Token.End() }

type BoolLit struct {
	Token token.Token
	Value bool
}

func (n *BoolLit) Pos() token.Pos { return n.Token.Offset }
func (n *BoolLit) End() token.Pos { return n.Token.End() }

// IntLit covers both a literal integer value and the parenthesized record
// number / explicit field-slot number productions, which share the same
// lexical form.
type IntLit struct {
	Token token.Token
	Text  string
}

func (n *IntLit) Pos() token.Pos { return n.Token.Offset }
func (n *IntLit) End() token.Pos { return n.Token.End() }

type FloatLit struct {
	Token token.Token
	Text  string
}

func (n *FloatLit) Pos() token.Pos { return n.Token.Offset }
func (n *FloatLit) End() token.Pos { return n.Token.End() }

type StringLit struct {
	Token token.Token
	Value string // unquoted value
}

func (n *StringLit) Pos() token.Pos { return n.Token.Offset }
func (n *StringLit) End() token.Pos { return n.Token.End() }

// ArrayLit is `[item, item, ...]`.
type ArrayLit struct {
	LBrack token.Token
	Items  []Literal
	RBrack token.Token
}

func (n *ArrayLit) Pos() token.Pos { return n.LBrack.Offset }
func (n *ArrayLit) End() token.Pos { return n.RBrack.End() }

// ObjectLit is `{k: v, ...}` (Partial == false) or `{|k: v, ...|}`
// (Partial == true, missing entries allowed).
type ObjectLit struct {
	LBrace  token.Token
	Entries []ObjectEntry
	RBrace  token.Token
	Partial bool
}

func (n *ObjectLit) Pos() token.Pos { return n.LBrace.Offset }
func (n *ObjectLit) End() token.Pos { return n.RBrace.End() }

// ObjectEntry is one `key: value` pair of an ObjectLit.
type ObjectEntry struct {
	Key   *Ident
	Value Literal
}
