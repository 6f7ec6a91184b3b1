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

// Package errors defines the diagnostic type shared by every stage of the
// Skir compiler: tokenizer, parser, resolver, constant evaluator, casing
// validator, and compatibility checker all report SkirErrors through a
// common List.
package errors

import (
	"fmt"
	"io"
	"sort"

	"github.com/gepheum/skir/skir/token"
)

// Handler is called by the scanner/parser as each lexical or syntactic
// error is discovered. A nil Handler means errors are only available via
// the returned List, not streamed.
type Handler func(pos token.Position, msg string)

// SkirError is the common diagnostic type, carrying the error taxonomy
// fields described in spec §7: a location, a message, and - depending on
// category - an "expected" description, a list of candidate names, and a
// flag suppressing cascades for errors whose root cause is in another
// module.
type SkirError struct {
	Token token.Token
	Pos   token.Position

	Message string

	// Expected holds a human description of what the parser wanted
	// instead, e.g. "identifier" or "']'". Empty outside syntactic errors.
	Expected string

	// ExpectedNames holds identifier candidates for "Cannot find name"-style
	// resolution errors, enabling IDE suggestion.
	ExpectedNames []string

	// ErrorIsInOtherModule is set when this diagnostic's root cause lies in
	// an imported module, so a renderer can suppress the cascade at the
	// import site.
	ErrorIsInOtherModule bool
}

// Error implements the error interface.
func (e *SkirError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: %s (expected %s)", e.Pos, e.Message, e.Expected)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New creates a SkirError located at tok's position.
func New(tok token.Token, format string, args ...interface{}) *SkirError {
	return &SkirError{
		Token:   tok,
		Pos:     tok.Position(),
		Message: fmt.Sprintf(format, args...),
	}
}

// WithExpected sets the Expected field and returns e for chaining.
func (e *SkirError) WithExpected(expected string) *SkirError {
	e.Expected = expected
	return e
}

// WithExpectedNames sets the ExpectedNames field and returns e for chaining.
func (e *SkirError) WithExpectedNames(names []string) *SkirError {
	e.ExpectedNames = names
	return e
}

// WithOtherModule marks e as rooted in another module and returns e.
func (e *SkirError) WithOtherModule() *SkirError {
	e.ErrorIsInOtherModule = true
	return e
}

// List accumulates SkirErrors across a compile, in the style of
// cue/errors.list: an ordinary slice with sort/dedupe helpers and an
// error-interface implementation so a List can be returned as a plain
// error when desired.
type List []*SkirError

// Add appends one error.
func (p *List) Add(err *SkirError) {
	*p = append(*p, err)
}

// Addf is a convenience wrapper creating and appending a SkirError.
func (p *List) Addf(tok token.Token, format string, args ...interface{}) *SkirError {
	e := New(tok, format, args...)
	p.Add(e)
	return e
}

// Handler adapts a List into a scanner/parser Handler.
func (p *List) Handler() Handler {
	return func(pos token.Position, msg string) {
		*p = append(*p, &SkirError{Pos: pos, Message: msg})
	}
}

// Sort orders errors by module path then byte offset, matching
// cue/errors.list.Sort's file-then-offset ordering.
func (p List) Sort() {
	sort.SliceStable(p, func(i, j int) bool {
		a, b := p[i].Pos, p[j].Pos
		if a.ModulePath != b.ModulePath {
			return a.ModulePath < b.ModulePath
		}
		return a.Offset < b.Offset
	})
}

// Error implements the error interface, concatenating one line per
// diagnostic.
func (p List) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var buf []byte
	for i, e := range p {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, e.Error()...)
	}
	return string(buf)
}

// Err returns nil if the list is empty, else p.
func (p List) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// Print writes every error in p to w, one per line.
func Print(w io.Writer, errs List) {
	for _, e := range errs {
		fmt.Fprintln(w, e.Error())
	}
}
