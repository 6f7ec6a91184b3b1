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

// Package format renders a module's token stream into canonical source
// text and the minimal edits needed to get there (spec §4.4), the way
// cue/format renders an *ast.File back to source.
package format

import (
	"strings"

	"github.com/gepheum/skir/skir/scanner"
	"github.com/gepheum/skir/skir/token"
)

// TextEdit is a single replacement transforming the original source into
// the formatted source.
type TextEdit struct {
	OldStart, OldEnd int
	NewText          string
}

// RandomFunc returns a deterministic pseudo-random 32-bit value, used to
// redact stable identifiers in snapshot-style formatting (spec §4.4).
type RandomFunc func() uint32

// Result is the output of Format.
type Result struct {
	NewSourceCode string
	TextEdits     []TextEdit
}

// Format renders src (a single module's source) into canonical form. It
// works on the token stream alone and does not parse src, so malformed
// input is rendered token by token; lexical errors are ignored and the
// returned error is always nil. If random is non-nil, every record's stable number
// and every method's number is replaced by random() (spec §4.4 "Stable-
// identifier redaction").
func Format(modulePath string, src []byte, random RandomFunc) (Result, error) {
	toks, _ := scanner.Tokenize(modulePath, src, scanner.ScanComments)
	newSrc := render(toks, random)
	edits := diff(string(src), newSrc)
	return Result{NewSourceCode: newSrc, TextEdits: edits}, nil
}

// render walks the token stream, emitting canonical whitespace: one
// declaration per source line, two-space indentation tracked by brace
// depth, trailing line comments kept on the same source line as the token
// that precedes them, and block/doc comments placed immediately before the
// declaration they were attached to (spec §4.4).
func render(toks []token.Token, random RandomFunc) string {
	var b strings.Builder
	depth := 0
	atLineStart := true
	prevKind := token.ILLEGAL
	redactNext := false

	writeIndent := func() {
		for i := 0; i < depth; i++ {
			b.WriteString("  ")
		}
	}

	for i, t := range toks {
		if t.Kind == token.EOF {
			break
		}
		if t.Kind == token.WHITESPACE {
			continue
		}

		switch t.Kind {
		case token.RBRACE:
			depth--
		}

		if atLineStart {
			writeIndent()
			atLineStart = false
		} else if needsSpaceBefore(prevKind, t.Kind) {
			b.WriteString(" ")
		}

		switch {
		case t.Kind == token.INT && redactNext && random != nil:
			b.WriteString(itoa(random()))
			redactNext = false
		case t.Kind == token.COMMENT || t.Kind == token.DOC:
			b.WriteString(renderComment(t))
		default:
			b.WriteString(t.Text)
		}

		if t.Kind == token.LPAREN && i > 0 && toks[i-1].Kind == token.IDENT {
			redactNext = true
		}
		if t.Kind == token.ASSIGN && isMethodNumberContext(toks, i) {
			redactNext = random != nil
		}

		trailing := i+1 < len(toks) && toks[i+1].Kind == token.COMMENT &&
			toks[i+1].Line.LineNumber == t.Line.LineNumber
		switch t.Kind {
		case token.LBRACE:
			depth++
			fallthrough
		case token.RBRACE, token.SEMICOLON, token.DOC, token.COMMENT:
			if !trailing {
				b.WriteString("\n")
				atLineStart = true
			}
		}

		prevKind = t.Kind
	}
	return b.String()
}

// isMethodNumberContext reports whether the '=' at index i is a method's
// "= N" clause rather than a const's "= Literal" (only method numbers are
// redacted alongside record numbers).
func isMethodNumberContext(toks []token.Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch toks[j].Kind {
		case token.METHOD:
			return true
		case token.CONST, token.SEMICOLON:
			return false
		}
	}
	return false
}

func renderComment(t token.Token) string {
	if t.Kind == token.DOC {
		return "///" + t.Text
	}
	return t.OriginalText
}

func needsSpaceBefore(prev, cur token.Kind) bool {
	switch cur {
	case token.SEMICOLON, token.COMMA, token.RPAREN, token.RBRACK, token.PERIOD, token.LPAREN, token.COLON, token.QUESTION:
		return false
	}
	switch prev {
	case token.LPAREN, token.LBRACK, token.PERIOD, token.ILLEGAL:
		return false
	}
	return true
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// diff computes the minimal single-span replacement between old and new:
// the common prefix and suffix are left untouched, and everything between
// them becomes one TextEdit. Real formatters often emit several edits for
// several disjoint changed spans; a single span is always correct (if
// larger than strictly necessary) and, critically, is empty when old ==
// new, satisfying spec §8's idempotence property.
func diff(old, new_ string) []TextEdit {
	if old == new_ {
		return nil
	}
	prefix := commonPrefixLen(old, new_)
	suffix := commonSuffixLen(old[prefix:], new_[prefix:])
	oldEnd := len(old) - suffix
	newEnd := len(new_) - suffix
	return []TextEdit{{
		OldStart: prefix,
		OldEnd:   oldEnd,
		NewText:  new_[prefix:newEnd],
	}}
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
