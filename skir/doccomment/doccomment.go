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

// Package doccomment parses the text of "///" doc comments into a sequence
// of text and reference pieces, per spec §4.3. Resolving a reference piece
// against a scope is the resolver's job (skir/compile); this package only
// does the textual parse.
package doccomment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gepheum/skir/skir/token"
)

// PieceKind discriminates the two kinds of Doc pieces.
type PieceKind int

const (
	TextPiece PieceKind = iota
	ReferencePiece
)

// Piece is one fragment of a parsed doc comment.
type Piece struct {
	Kind PieceKind

	// Text holds the literal text for TextPiece.
	Text string

	// For ReferencePiece: NameParts is the dot-separated identifier chain
	// (e.g. "Bar.OK" -> ["Bar", "OK"]), Absolute reports whether the
	// reference had a leading '.', and Offset is the byte offset just past
	// the opening '[' (inside the joined doc text; for an absolute
	// reference this is its leading '.'), used by the resolver to locate
	// errors.
	NameParts []string
	Absolute  bool
	Offset    int
}

// Doc is the parsed form of one or more adjacent "///" lines.
type Doc struct {
	// Text is the newline-joined content of every merged doc-comment line.
	Text string
	// Pieces is the text/reference decomposition of Text.
	Pieces []Piece
	// Tokens is the original DOC tokens that were merged, in source order;
	// used to report errors at an accurate position.
	Tokens []token.Token
}

var identPartRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Merge joins adjacent DOC tokens (spec: "one doc comment per source line;
// consecutive doc-comment tokens attach to the next declaration") into one
// Doc and parses its reference pieces.
func Merge(tokens []token.Token) (*Doc, error) {
	lines := make([]string, len(tokens))
	for i, t := range tokens {
		lines[i] = strings.TrimPrefix(t.Text, " ")
	}
	text := strings.Join(lines, "\n")
	pieces, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return &Doc{Text: text, Pieces: pieces, Tokens: tokens}, nil
}

// Parse decomposes text into text/reference pieces per spec §4.3:
//
//   - Unescaped "[...]" encloses a reference.
//   - "[[" and "]]" are literal brackets.
//   - A "]" with no preceding unmatched "[" is literal.
//   - Whitespace inside a reference is an error.
//   - Reference identifiers match [A-Za-z][A-Za-z0-9_]*, dot-separated; an
//     optional leading "." marks an absolute reference.
func Parse(text string) ([]Piece, error) {
	var pieces []Piece
	var textBuf strings.Builder
	flushText := func() {
		if textBuf.Len() > 0 {
			pieces = append(pieces, Piece{Kind: TextPiece, Text: textBuf.String()})
			textBuf.Reset()
		}
	}

	i := 0
	n := len(text)
	for i < n {
		c := text[i]
		switch {
		case c == '[' && i+1 < n && text[i+1] == '[':
			textBuf.WriteByte('[')
			i += 2
		case c == ']' && i+1 < n && text[i+1] == ']':
			textBuf.WriteByte(']')
			i += 2
		case c == ']':
			// Unmatched ']' is literal, per spec.
			textBuf.WriteByte(']')
			i++
		case c == '[':
			end := strings.IndexByte(text[i+1:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated reference starting at offset %d", i)
			}
			body := text[i+1 : i+1+end]
			if strings.ContainsAny(body, " \t\n") {
				return nil, fmt.Errorf("whitespace inside reference %q", body)
			}
			absolute := strings.HasPrefix(body, ".")
			trimmed := strings.TrimPrefix(body, ".")
			parts := strings.Split(trimmed, ".")
			for _, p := range parts {
				if !identPartRe.MatchString(p) {
					return nil, fmt.Errorf("invalid identifier %q in reference %q", p, body)
				}
			}
			flushText()
			pieces = append(pieces, Piece{
				Kind:      ReferencePiece,
				NameParts: parts,
				Absolute:  absolute,
				Offset:    i + 1,
			})
			i += 1 + end + 1
		default:
			textBuf.WriteByte(c)
			i++
		}
	}
	flushText()
	return pieces, nil
}
