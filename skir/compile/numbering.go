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
	skirerrors "github.com/gepheum/skir/skir/errors"
)

// finalizeNumbering is an empty pipeline stage: field and record numbers
// are assigned by buildRecordInfo, method numbers by buildMethodInfo, and
// the whole-set uniqueness checks run in finish().
func (ms *ModuleSet) finalizeNumbering(mr *ModuleResult) {}

// checkStableIdentifierUniqueness enforces that a record's stable numeric
// id, when present, is unique within its package; records in different
// packages may share a number.
func checkStableIdentifierUniqueness(ms *ModuleSet) {
	seen := map[string]map[uint32]*RecordInfo{}
	for _, mr := range ms.ResolvedModules {
		pkg := packageOf(mr.Path)
		for _, rec := range mr.Records {
			if rec.RecordNumber == nil {
				continue
			}
			byNum, ok := seen[pkg]
			if !ok {
				byNum = map[uint32]*RecordInfo{}
				seen[pkg] = byNum
			}
			if other, dup := byNum[*rec.RecordNumber]; dup {
				ms.Errors.Add(&skirerrors.SkirError{
					Pos:     rec.Decl.Name.Token.Position(),
					Token:   rec.Decl.Name.Token,
					Message: sameNumberAsMessage(other.Name, other.Module.Path),
				})
				continue
			}
			byNum[*rec.RecordNumber] = rec
		}
	}
}

// sameNumberAsMessage is spec §4.3/§7 (cat 6)/§8 scenario 2's literal
// collision message form.
func sameNumberAsMessage(otherName, otherPath string) string {
	return "Same number as " + otherName + " in " + otherPath
}

// checkMethodNumberUniqueness enforces method-number uniqueness within a
// package (spec §3.5).
func checkMethodNumberUniqueness(ms *ModuleSet) {
	seen := map[string]map[uint32]*MethodInfo{}
	for _, mr := range ms.ResolvedModules {
		pkg := packageOf(mr.Path)
		for _, m := range mr.Methods {
			byNum, ok := seen[pkg]
			if !ok {
				byNum = map[uint32]*MethodInfo{}
				seen[pkg] = byNum
			}
			if other, dup := byNum[m.Number]; dup {
				ms.Errors.Add(&skirerrors.SkirError{
					Pos:     m.Decl.Name.Token.Position(),
					Token:   m.Decl.Name.Token,
					Message: sameNumberAsMessage(other.Name, other.Module.Path),
				})
				continue
			}
			byNum[m.Number] = m
		}
	}
}
