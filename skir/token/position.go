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

// Package token defines source locations, lexical tokens, and the line
// table used to turn byte offsets into human-readable positions.
package token

import (
	"fmt"
	"sort"
)

// Pos is a byte offset within a single module's source text. Unlike a
// compiler with a global file set, Skir compiles one module's source at a
// time, so a Pos only has meaning paired with the module path it came
// from; most APIs pass them together (see Position).
type Pos int

// NoPos is a Pos that never refers to an actual byte. It is not the zero
// value of Pos: 0 is the offset of a module's first byte.
const NoPos Pos = -1

// IsValid reports whether p refers to an actual offset.
func (p Pos) IsValid() bool { return p >= 0 }

// Position is a fully resolved, human-printable source location.
type Position struct {
	ModulePath string // module path, e.g. "a/b/c.skir"
	Offset     int    // byte offset, starting at 0
	Line       int    // line number, starting at 1
	Column     int    // 1-based column, counted in bytes (0-based internally; see File.Position)
}

// IsValid reports whether the position is fully resolved.
func (p Position) IsValid() bool { return p.Line > 0 }

// String renders "path:line:col" ("line:col" when ModulePath is empty); an
// invalid position renders as its ModulePath alone, or "-" when that is
// empty too.
func (p Position) String() string {
	if !p.IsValid() {
		if p.ModulePath != "" {
			return p.ModulePath
		}
		return "-"
	}
	if p.ModulePath == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.ModulePath, p.Line, p.Column)
}

// CodeLine is one line of a module's source, used to render errors and to
// drive the formatter's comment/blank-line placement.
type CodeLine struct {
	ModulePath string
	LineNumber int // 0-based
	StartOffset int
	Text        string // line content, without the trailing newline
}

// File records the line-break offsets of one module's source so that byte
// offsets can be mapped to 1-based line/column positions in O(log n).
//
// A File is immutable after NewFile returns; the tokenizer computes the
// whole line table up front instead of growing it incrementally, since
// unlike an incremental editor buffer, a module's source is fully known
// before tokenization starts.
type File struct {
	modulePath string
	src        []byte
	lineStarts []int // byte offset of the first character of each line; lineStarts[0] == 0
}

// NewFile builds the line table for src.
func NewFile(modulePath string, src []byte) *File {
	f := &File{modulePath: modulePath, src: src, lineStarts: []int{0}}
	for i, b := range src {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// ModulePath returns the path this file was built for.
func (f *File) ModulePath() string { return f.modulePath }

// Size returns the length of the source in bytes.
func (f *File) Size() int { return len(f.src) }

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int { return len(f.lineStarts) }

// lineIndexForOffset returns the 0-based line index containing offset.
func (f *File) lineIndexForOffset(offset int) int {
	// sort.Search finds the first line start strictly greater than offset;
	// the containing line is the one before it.
	i := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > offset })
	return i - 1
}

// Position resolves a byte offset into a full Position.
func (f *File) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.src) {
		offset = len(f.src)
	}
	line := f.lineIndexForOffset(offset)
	if line < 0 {
		line = 0
	}
	col := offset - f.lineStarts[line] + 1
	return Position{
		ModulePath: f.modulePath,
		Offset:     offset,
		Line:       line + 1,
		Column:     col,
	}
}

// CodeLine returns the full line of source containing offset.
func (f *File) CodeLine(offset int) CodeLine {
	line := f.lineIndexForOffset(offset)
	if line < 0 {
		line = 0
	}
	start := f.lineStarts[line]
	end := len(f.src)
	if line+1 < len(f.lineStarts) {
		end = f.lineStarts[line+1] - 1 // exclude the newline
		if end < start {
			end = start
		}
	}
	return CodeLine{
		ModulePath:  f.modulePath,
		LineNumber:  line,
		StartOffset: start,
		Text:        string(f.src[start:end]),
	}
}

// LineAt returns the full text of the given 0-based line number.
func (f *File) LineAt(lineNumber int) CodeLine {
	if lineNumber < 0 {
		lineNumber = 0
	}
	if lineNumber >= len(f.lineStarts) {
		lineNumber = len(f.lineStarts) - 1
	}
	return f.CodeLine(f.lineStarts[lineNumber])
}
