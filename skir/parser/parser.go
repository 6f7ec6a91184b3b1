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

// Package parser turns a module's token stream into a syntactic AST, in
// strict mode (default, used for compilation) or lenient mode (best-effort
// recovery that suppresses most syntactic diagnostics). skir/format does
// not use this package; it works on the token stream directly.
package parser

import (
	"strconv"

	"github.com/gepheum/skir/skir/ast"
	skirerrors "github.com/gepheum/skir/skir/errors"
	"github.com/gepheum/skir/skir/literal"
	"github.com/gepheum/skir/skir/scanner"
	"github.com/gepheum/skir/skir/token"
)

// Mode selects strict or lenient parsing.
type Mode int

const (
	// Strict surfaces every syntactic diagnostic and is used for
	// compilation.
	Strict Mode = iota
	// Lenient accepts best-effort recovery: unexpected
	// tokens are swallowed into BadDecl/BadLit/BadTypeExpr nodes instead of
	// derailing the rest of the module.
	Lenient
)

// ParseModule tokenizes and parses src, returning the syntactic AST and any
// diagnostics. In Lenient mode the returned Module is always non-nil, even
// for badly malformed input.
func ParseModule(path string, src []byte, mode Mode) (*ast.Module, skirerrors.List) {
	toks, lexErrs := scanner.Tokenize(path, src, 0)
	p := &parser{
		tokens:  toks,
		lenient: mode == Lenient,
	}
	p.errs = append(p.errs, lexErrs...)
	p.advance() // prime p.cur

	mod := &ast.Module{Path: path}
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.RBRACE {
			// Stray closing brace at module level; lenient-tolerate.
			p.errAt(p.cur, "unexpected '}'")
			p.next()
			continue
		}
		decls := p.parseTopLevelDecl()
		mod.Declarations = append(mod.Declarations, decls...)
	}
	return mod, p.errs
}

type parser struct {
	tokens  []token.Token
	idx     int
	cur     token.Token
	pending []token.Token // pending DOC tokens awaiting attachment
	errs    skirerrors.List
	lenient bool
}

// next advances to the next raw token (including trivia), accumulating DOC
// tokens into p.pending and skipping WHITESPACE/COMMENT.
func (p *parser) next() {
	for {
		if p.idx >= len(p.tokens) {
			p.cur = token.Token{Kind: token.EOF}
			return
		}
		t := p.tokens[p.idx]
		p.idx++
		switch t.Kind {
		case token.WHITESPACE, token.COMMENT:
			continue
		case token.DOC:
			p.pending = append(p.pending, t)
			continue
		default:
			p.cur = t
			return
		}
	}
}

// advance is next's first call, kept as a separate name for readability at
// the call site in ParseModule.
func (p *parser) advance() { p.next() }

// takeDoc consumes any pending DOC tokens into a DocComment, or returns nil
// if there were none.
func (p *parser) takeDoc() *ast.DocComment {
	if len(p.pending) == 0 {
		return nil
	}
	toks := p.pending
	p.pending = nil
	var text string
	for i, t := range toks {
		if i > 0 {
			text += "\n"
		}
		text += t.Text
	}
	return &ast.DocComment{Tokens: toks, Text: text}
}

func (p *parser) errAt(t token.Token, format string, args ...interface{}) *skirerrors.SkirError {
	return p.errs.Addf(t, format, args...)
}

// expect consumes p.cur if it has the given kind; otherwise it does not
// advance, and records a syntactic error in Strict mode only (Lenient
// mode records nothing).
func (p *parser) expect(kind token.Kind) (token.Token, bool) {
	if p.cur.Kind == kind {
		t := p.cur
		p.next()
		return t, true
	}
	if !p.lenient {
		p.errAt(p.cur, "unexpected token").WithExpected(kind.String())
	}
	return p.cur, false
}

func (p *parser) parseIdent() *ast.Ident {
	if p.cur.Kind != token.IDENT {
		if !p.lenient {
			p.errAt(p.cur, "unexpected token").WithExpected("identifier")
		}
		id := &ast.Ident{Token: p.cur}
		if p.cur.Kind != token.EOF {
			p.next()
		}
		return id
	}
	t := p.cur
	p.next()
	return &ast.Ident{Token: t}
}

func (p *parser) parseDottedIdentChain() []*ast.Ident {
	parts := []*ast.Ident{p.parseIdent()}
	for p.cur.Kind == token.PERIOD {
		p.next()
		parts = append(parts, p.parseIdent())
	}
	return parts
}

// ---------------------------------------------------------------------------
// Module-level declarations.

func (p *parser) parseTopLevelDecl() []ast.Decl {
	doc := p.takeDoc()
	switch p.cur.Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.STRUCT, token.ENUM:
		return []ast.Decl{p.parseRecord(doc)}
	case token.METHOD:
		return []ast.Decl{p.parseMethod(doc)}
	case token.CONST:
		return []ast.Decl{p.parseConst(doc)}
	default:
		from := p.cur
		p.errAt(p.cur, "unexpected token at module level")
		to := p.resyncToDeclBoundary()
		return []ast.Decl{&ast.BadDecl{From: from, To: to}}
	}
}

// resyncToDeclBoundary skips tokens until one that plausibly starts a new
// declaration (or EOF), so a single malformed declaration doesn't take the
// rest of the module down with it (spec §7: "strict compilation surfaces
// all diagnostics without aborting at the first").
func (p *parser) resyncToDeclBoundary() token.Token {
	last := p.cur
	for p.cur.Kind != token.EOF {
		switch p.cur.Kind {
		case token.IMPORT, token.STRUCT, token.ENUM, token.METHOD, token.CONST, token.RBRACE:
			return last
		case token.SEMICOLON:
			last = p.cur
			p.next()
			return last
		}
		last = p.cur
		p.next()
	}
	return last
}

func (p *parser) parseImport() []ast.Decl {
	importTok := p.cur
	p.next()
	if p.cur.Kind == token.STAR {
		p.next()
		if p.cur.Kind == token.AS {
			p.next()
		} else {
			p.errAt(p.cur, "unexpected token").WithExpected("'as'")
		}
		alias := p.parseIdent()
		if p.cur.Kind == token.FROM {
			p.next()
		} else {
			p.errAt(p.cur, "unexpected token").WithExpected("'from'")
		}
		path := p.parseStringLit()
		p.expect(token.SEMICOLON)
		return []ast.Decl{&ast.ImportAliasDecl{ImportTok: importTok, Alias: alias, PathLit: path}}
	}

	names := []*ast.Ident{p.parseIdent()}
	for p.cur.Kind == token.COMMA {
		p.next()
		names = append(names, p.parseIdent())
	}
	if p.cur.Kind == token.FROM {
		p.next()
	} else {
		p.errAt(p.cur, "unexpected token").WithExpected("'from'")
	}
	path := p.parseStringLit()
	p.expect(token.SEMICOLON)

	decls := make([]ast.Decl, len(names))
	for i, n := range names {
		decls[i] = &ast.ImportDecl{ImportTok: importTok, Name: n, PathLit: path}
	}
	return decls
}

func (p *parser) parseStringLit() *ast.StringLit {
	if p.cur.Kind != token.STRING {
		if !p.lenient {
			p.errAt(p.cur, "unexpected token").WithExpected("string literal")
		}
		return &ast.StringLit{Token: p.cur}
	}
	t := p.cur
	p.next()
	val, err := literal.Unquote(t.Text)
	if err != nil {
		p.errAt(t, "invalid string literal: %v", err)
	}
	return &ast.StringLit{Token: t, Value: val}
}

// ---------------------------------------------------------------------------
// Records (struct/enum), fields, variants, removed clauses.

func (p *parser) parseRecord(doc *ast.DocComment) *ast.RecordDecl {
	structTok := p.cur
	isEnum := structTok.Kind == token.ENUM
	p.next()
	var name *ast.Ident
	if p.cur.Kind == token.LBRACE {
		// An inline `struct { ... }` / `enum { ... }` has no name of its
		// own; the keyword token stands in for it.
		name = &ast.Ident{Token: structTok}
	} else {
		name = p.parseIdent()
	}

	var numberLit *ast.IntLit
	if p.cur.Kind == token.LPAREN {
		p.next()
		numberLit = p.parseIntLit()
		p.expect(token.RPAREN)
	}

	lbrace, _ := p.expect(token.LBRACE)
	rec := &ast.RecordDecl{
		StructTok: structTok,
		IsEnum:    isEnum,
		Name:      name,
		NumberLit: numberLit,
		LBrace:    lbrace,
		Doc:       doc,
	}
	p.parseRecordBody(rec)
	rbrace, _ := p.expect(token.RBRACE)
	rec.RBrace = rbrace
	return rec
}

func (p *parser) parseRecordBody(rec *ast.RecordDecl) {
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		doc := p.takeDoc()
		switch p.cur.Kind {
		case token.REMOVED:
			rec.Removed = append(rec.Removed, p.parseRemoved())
		case token.STRUCT, token.ENUM:
			rec.Nested = append(rec.Nested, p.parseRecord(doc))
		case token.IDENT:
			rec.Fields = append(rec.Fields, p.parseFieldOrVariant(doc, rec.IsEnum))
		default:
			p.errAt(p.cur, "unexpected token in record body")
			if p.cur.Kind != token.EOF {
				p.next()
			}
		}
	}
}

func (p *parser) parseFieldOrVariant(doc *ast.DocComment, isEnum bool) *ast.FieldDecl {
	name := p.parseIdent()
	var typ ast.TypeExpr
	if isEnum {
		if p.cur.Kind == token.COLON {
			p.next()
			typ = p.parseType()
		}
	} else {
		p.expect(token.COLON)
		typ = p.parseType()
	}
	var number *ast.IntLit
	if p.cur.Kind == token.ASSIGN {
		p.next()
		number = p.parseIntLit()
	}
	p.expect(token.SEMICOLON)
	return &ast.FieldDecl{Name: name, Type: typ, Number: number, Doc: doc}
}

func (p *parser) parseRemoved() *ast.RemovedDecl {
	removedTok := p.cur
	p.next()
	var ranges []ast.RemovedRange
	if p.cur.Kind != token.SEMICOLON {
		for {
			start := p.parseIntValue()
			end := start
			if p.cur.Kind == token.ELLIPSIS {
				p.next()
				end = p.parseIntValue()
			}
			ranges = append(ranges, ast.RemovedRange{Start: start, End: end})
			if p.cur.Kind == token.COMMA {
				p.next()
				continue
			}
			break
		}
	}
	semi, _ := p.expect(token.SEMICOLON)
	return &ast.RemovedDecl{RemovedTok: removedTok, Semicolon: semi, Ranges: ranges}
}

func (p *parser) parseIntValue() int {
	lit := p.parseIntLit()
	if lit == nil {
		return 0
	}
	n, _ := strconv.Atoi(lit.Text)
	return n
}

func (p *parser) parseIntLit() *ast.IntLit {
	if p.cur.Kind != token.INT {
		if !p.lenient {
			p.errAt(p.cur, "unexpected token").WithExpected("integer literal")
		}
		return &ast.IntLit{Token: p.cur, Text: "0"}
	}
	t := p.cur
	p.next()
	return &ast.IntLit{Token: t, Text: t.Text}
}

// ---------------------------------------------------------------------------
// Methods and constants.

func (p *parser) parseMethod(doc *ast.DocComment) *ast.MethodDecl {
	methodTok := p.cur
	p.next()
	name := p.parseIdent()
	p.expect(token.LPAREN)
	req := p.parseType()
	p.expect(token.RPAREN)
	p.expect(token.COLON)
	resp := p.parseType()
	p.expect(token.ASSIGN)
	number := p.parseIntLit()
	semi, _ := p.expect(token.SEMICOLON)
	return &ast.MethodDecl{
		MethodTok: methodTok, Name: name, RequestType: req, ResponseType: resp,
		Number: number, Semicolon: semi, Doc: doc,
	}
}

func (p *parser) parseConst(doc *ast.DocComment) *ast.ConstDecl {
	constTok := p.cur
	p.next()
	name := p.parseIdent()
	p.expect(token.COLON)
	typ := p.parseType()
	p.expect(token.ASSIGN)
	value := p.parseLiteral()
	semi, _ := p.expect(token.SEMICOLON)
	return &ast.ConstDecl{ConstTok: constTok, Name: name, Type: typ, Value: value, Semicolon: semi, Doc: doc}
}

// ---------------------------------------------------------------------------
// Types.

func (p *parser) parseType() ast.TypeExpr {
	inner := p.parseTypeNoOptional()
	if p.cur.Kind == token.QUESTION {
		q := p.cur
		p.next()
		return &ast.OptionalTypeExpr{Inner: inner, Quest: q}
	}
	return inner
}

func (p *parser) parseTypeNoOptional() ast.TypeExpr {
	switch p.cur.Kind {
	case token.LBRACK:
		return p.parseArrayType()
	case token.STRUCT, token.ENUM:
		rec := p.parseRecord(nil)
		return &ast.InlineRecordTypeExpr{Record: rec}
	case token.PERIOD:
		dot := p.cur
		p.next()
		parts := p.parseDottedIdentChain()
		return &ast.NamedTypeExpr{Absolute: true, LeadingDot: dot, Parts: parts}
	case token.IDENT:
		parts := p.parseDottedIdentChain()
		return &ast.NamedTypeExpr{Parts: parts}
	default:
		if !p.lenient {
			p.errAt(p.cur, "unexpected token").WithExpected("type")
		}
		t := p.cur
		if p.cur.Kind != token.EOF {
			p.next()
		}
		return &ast.BadTypeExpr{Token: t}
	}
}

func (p *parser) parseArrayType() *ast.ArrayTypeExpr {
	lbrack := p.cur
	p.next()
	item := p.parseType()
	var pipe token.Token
	var key []*ast.Ident
	if p.cur.Kind == token.PIPE {
		pipe = p.cur
		p.next()
		key = p.parseDottedIdentChain()
	}
	rbrack, _ := p.expect(token.RBRACK)
	return &ast.ArrayTypeExpr{LBrack: lbrack, Item: item, Pipe: pipe, Key: key, RBrack: rbrack}
}

// ---------------------------------------------------------------------------
// Literals.

func (p *parser) parseLiteral() ast.Literal {
	switch p.cur.Kind {
	case token.NULL_KW:
		t := p.cur
		p.next()
		return &ast.NullLit{Token: t}
	case token.TRUE_KW:
		t := p.cur
		p.next()
		return &ast.BoolLit{Token: t, Value: true}
	case token.FALSE_KW:
		t := p.cur
		p.next()
		return &ast.BoolLit{Token: t, Value: false}
	case token.INT:
		t := p.cur
		p.next()
		return &ast.IntLit{Token: t, Text: t.Text}
	case token.FLOAT:
		t := p.cur
		p.next()
		return &ast.FloatLit{Token: t, Text: t.Text}
	case token.STRING:
		return p.parseStringLit()
	case token.LBRACK:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseObjectLit()
	default:
		if !p.lenient {
			p.errAt(p.cur, "unexpected token").WithExpected("literal value")
		}
		t := p.cur
		if p.cur.Kind != token.EOF {
			p.next()
		}
		return &ast.BadLit{Token: t}
	}
}

func (p *parser) parseArrayLit() *ast.ArrayLit {
	lbrack := p.cur
	p.next()
	var items []ast.Literal
	for p.cur.Kind != token.RBRACK && p.cur.Kind != token.EOF {
		items = append(items, p.parseLiteral())
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	rbrack, _ := p.expect(token.RBRACK)
	return &ast.ArrayLit{LBrack: lbrack, Items: items, RBrack: rbrack}
}

func (p *parser) parseObjectLit() *ast.ObjectLit {
	lbrace := p.cur
	p.next()
	partial := false
	if p.cur.Kind == token.PIPE {
		partial = true
		p.next()
	}
	var entries []ast.ObjectEntry
	seen := map[string]bool{}
	for p.cur.Kind != token.RBRACE && !(partial && p.cur.Kind == token.PIPE) && p.cur.Kind != token.EOF {
		key := p.parseIdent()
		if seen[key.Name()] {
			p.errAt(key.Token, "Duplicate key")
		}
		seen[key.Name()] = true
		p.expect(token.COLON)
		value := p.parseLiteral()
		entries = append(entries, ast.ObjectEntry{Key: key, Value: value})
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	if partial {
		p.expect(token.PIPE)
	}
	rbrace, _ := p.expect(token.RBRACE)
	return &ast.ObjectLit{LBrace: lbrace, Entries: entries, RBrace: rbrace, Partial: partial}
}
