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

// Package snapshot models the on-disk snapshot file a Skir build commits
// alongside its sources (spec §6): the tracked/untracked record IDs that
// skir/compat checks a later snapshot against, and the module sources
// needed to recompile it. Snapshot itself does no file I/O; a caller reads
// the JSON and hands Validate a compile function, the same separation
// cue/cuejson keeps between decoding and evaluation.
package snapshot

import (
	"fmt"
	"time"

	"github.com/mpvl/unique"

	"github.com/gepheum/skir/skir/compile"
)

// Snapshot is the decoded form of a project's committed snapshot file.
type Snapshot struct {
	// ReadMe is free-form prose shown to a developer opening the file by
	// hand, e.g. explaining why it must not be hand-edited.
	ReadMe []string `json:"readMe"`

	// LastChange is when the snapshot was last regenerated.
	LastChange time.Time `json:"lastChange"`

	// TrackedRecordIDs and UntrackedRecordIDs are RecordKey strings, each
	// sorted and deduplicated (spec §6 "sorted string[]").
	TrackedRecordIDs   []string `json:"trackedRecordIds"`
	UntrackedRecordIDs []string `json:"untrackedRecordIds"`

	// Modules maps a module path to its full source text.
	Modules map[string]string `json:"modules"`
}

// Normalize sorts and deduplicates TrackedRecordIDs and UntrackedRecordIDs
// in place (spec §6), the way a generator should before writing the file.
func (s *Snapshot) Normalize() {
	s.TrackedRecordIDs = sortedUnique(s.TrackedRecordIDs)
	s.UntrackedRecordIDs = sortedUnique(s.UntrackedRecordIDs)
}

func sortedUnique(ids []string) []string {
	cp := append([]string(nil), ids...)
	unique.Strings(&cp)
	return cp
}

// CompileFunc compiles a module source map into a ModuleSet, the shape of
// compile.Compile or compile.FromMap.
type CompileFunc func(pathToSource map[string]string) *compile.ModuleSet

// Validate recompiles the snapshot's own Modules and checks that every
// tracked record ID still resolves to a record and every untracked one does
// not collide with a tracked one (spec §6 "a snapshot must be internally
// consistent"). It does not compare against a newer ModuleSet; that
// comparison is skir/compat's job.
func (s *Snapshot) Validate(compileFn CompileFunc) error {
	ms := compileFn(s.Modules)
	if len(ms.Errors) > 0 {
		return fmt.Errorf("snapshot modules do not compile: %s", ms.Errors.Error())
	}

	tracked := make(map[string]bool, len(s.TrackedRecordIDs))
	for _, id := range s.TrackedRecordIDs {
		if _, ok := ms.RecordMap[compile.RecordKey(id)]; !ok {
			return fmt.Errorf("tracked record %q is not defined by any module in the snapshot", id)
		}
		if tracked[id] {
			return fmt.Errorf("tracked record %q is listed more than once", id)
		}
		tracked[id] = true
	}
	for _, id := range s.UntrackedRecordIDs {
		if tracked[id] {
			return fmt.Errorf("record %q is listed as both tracked and untracked", id)
		}
	}
	return nil
}
