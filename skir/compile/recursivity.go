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

// classifyRecursivity labels every struct field "false", "soft" or "hard"
// (spec §4.3 "Recursivity"): a field is hard-recursive if it reaches its
// own declaring record through a chain of direct struct fields with no
// intervening array or optional; soft-recursive if the cycle is only
// reachable by going through at least one array or optional; false
// otherwise.
func classifyRecursivity(mr *ModuleResult) {
	for _, rec := range mr.Records {
		for _, f := range rec.Fields {
			if f.Type == nil {
				continue
			}
			f.IsRecursive = recursivityOf(rec, f.Type, map[*RecordInfo]bool{rec: true}, false)
		}
	}
}

// recursivityOf walks t looking for a path back to target. visiting holds
// the structs already on the current direct-field chain (to stop hard
// cycles); throughSoft records whether an array/optional has already been
// crossed on this path.
func recursivityOf(target *RecordInfo, t ResolvedType, visiting map[*RecordInfo]bool, throughSoft bool) string {
	switch v := t.(type) {
	case *RecordType:
		if v.Record == target {
			if throughSoft {
				return "soft"
			}
			return "hard"
		}
		if visiting[v.Record] {
			return "false"
		}
		visiting[v.Record] = true
		defer delete(visiting, v.Record)
		best := "false"
		for _, f := range v.Record.Fields {
			if f.Type == nil {
				continue
			}
			switch recursivityOf(target, f.Type, visiting, throughSoft) {
			case "hard":
				return "hard"
			case "soft":
				best = "soft"
			}
		}
		return best
	case *ArrayType:
		return recursivityOf(target, v.Item, visiting, true)
	case *OptionalType:
		return recursivityOf(target, v.Other, visiting, true)
	}
	return "false"
}
