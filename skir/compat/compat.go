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

// Package compat detects breaking changes between two compiled module sets
// (spec §4.5), the loose Skir analogue of internal/diff's two-snapshot
// comparison: a tracked record must keep the same kind across an "old" and
// a "new" ModuleSet, may only widen field types, and may only drop a slot
// if it was moved to a `removed` range. A record with a stable record
// number is matched across the two sets by its package and number; a
// record without one is matched by its RecordKey.
package compat

import (
	"fmt"
	"sort"

	"github.com/gepheum/skir/skir/compile"
)

// Severity classifies an Issue.
type Severity int

const (
	// Breaking changes reject a wire-compatible upgrade (spec §4.5).
	Breaking Severity = iota
	// Informational changes are safe but worth surfacing (e.g. a field
	// widened from int32 to int64).
	Informational
)

func (s Severity) String() string {
	if s == Breaking {
		return "breaking"
	}
	return "info"
}

// Issue is one compatibility finding.
type Issue struct {
	Severity Severity
	RecordID string // the record's RecordKey as it appeared in old; for a method issue, the path of the old module declaring the method
	Message  string
}

// Result is the outcome of Check.
type Result struct {
	Issues []Issue
}

// HasBreakingChanges reports whether r contains any Breaking issue.
func (r Result) HasBreakingChanges() bool {
	for _, i := range r.Issues {
		if i.Severity == Breaking {
			return true
		}
	}
	return false
}

// Check compares old and new, restricting struct/enum comparisons to the
// tracked record keys (spec §6 "trackedRecordIds") and every record
// transitively reachable from them through a field or variant type (spec
// §4.5); method-number checks always run across every method of every
// module in old, since method numbers are tracked implicitly (spec §4.5
// "Method compatibility").
func Check(old, new_ *compile.ModuleSet, trackedRecordIDs []string) Result {
	var res Result
	seeds := make(map[compile.RecordKey]bool, len(trackedRecordIDs))
	for _, id := range trackedRecordIDs {
		seeds[compile.RecordKey(id)] = true
	}
	tracked := expandTrackedClosure(old, seeds)

	type numberKey struct {
		pkg string
		n   uint32
	}
	newByNumber := map[numberKey]*compile.RecordInfo{}
	for _, rec := range new_.RecordMap {
		if rec.RecordNumber != nil {
			newByNumber[numberKey{rec.Package(), *rec.RecordNumber}] = rec
		}
	}

	for key := range tracked {
		oldRec, ok := old.RecordMap[key]
		if !ok {
			continue
		}
		newRec, ok := new_.RecordMap[key]
		if oldRec.RecordNumber != nil {
			newRec, ok = newByNumber[numberKey{oldRec.Package(), *oldRec.RecordNumber}]
		}
		if !ok {
			res.add(Breaking, string(key), fmt.Sprintf("record %q was removed", oldRec.Name))
			continue
		}
		checkRecord(&res, oldRec, newRec)
	}

	checkMethods(&res, old, new_)

	sort.SliceStable(res.Issues, func(i, j int) bool {
		return res.Issues[i].RecordID < res.Issues[j].RecordID
	})
	return res
}

func (r *Result) add(sev Severity, recordID, msg string) {
	r.Issues = append(r.Issues, Issue{Severity: sev, RecordID: recordID, Message: msg})
}

// expandTrackedClosure propagates seeds transitively along field/variant
// types (spec §4.5: the tracked set "propagates transitively along
// field/variant types"): a record reachable only through a tracked
// record's field is itself tracked, since a breaking change deep inside it
// is still breaking for every tracked root that embeds it. Walked against
// old, since that is the set of records a consumer built before the
// change could actually have reached.
func expandTrackedClosure(old *compile.ModuleSet, seeds map[compile.RecordKey]bool) map[compile.RecordKey]bool {
	closure := make(map[compile.RecordKey]bool, len(seeds))
	var visit func(key compile.RecordKey)
	visit = func(key compile.RecordKey) {
		if closure[key] {
			return
		}
		closure[key] = true
		rec, ok := old.RecordMap[key]
		if !ok {
			return
		}
		for _, f := range rec.Fields {
			for _, nested := range reachableRecordKeys(f.Type) {
				visit(nested)
			}
		}
	}
	for key := range seeds {
		visit(key)
	}
	return closure
}

func reachableRecordKeys(rt compile.ResolvedType) []compile.RecordKey {
	switch v := rt.(type) {
	case *compile.RecordType:
		return []compile.RecordKey{v.Key}
	case *compile.OptionalType:
		return reachableRecordKeys(v.Other)
	case *compile.ArrayType:
		return reachableRecordKeys(v.Item)
	}
	return nil
}

// checkRecord compares one record's shape across versions (spec §4.5
// "Struct/enum compatibility").
func checkRecord(res *Result, oldRec, newRec *compile.RecordInfo) {
	if oldRec.IsEnum != newRec.IsEnum {
		res.add(Breaking, string(oldRec.Key), fmt.Sprintf("record %q changed kind (struct/enum)", oldRec.Name))
		return
	}

	newBySlot := make(map[int]*compile.FieldInfo, len(newRec.Fields))
	for _, f := range newRec.Fields {
		newBySlot[f.Number] = f
	}

	for _, oldField := range oldRec.Fields {
		newField, present := newBySlot[oldField.Number]
		if !present {
			if newRec.RemovedNumbers[oldField.Number] {
				continue // properly retired via `removed`
			}
			res.add(Breaking, string(oldRec.Key),
				fmt.Sprintf("%s.%s (slot %d) was removed without a matching `removed` range",
					oldRec.Name, oldField.Name, oldField.Number))
			continue
		}
		if oldRec.IsEnum {
			checkVariantCompat(res, oldRec, oldField, newField)
			continue
		}
		checkFieldTypeCompat(res, oldRec, oldField, newField)
	}

	// A previously-removed slot must stay removed or unused; reviving it
	// for a new, unrelated field is itself breaking (old readers/writers
	// built against the retired number would collide with it).
	for n := range oldRec.RemovedNumbers {
		if !newRec.RemovedNumbers[n] {
			if _, reused := newBySlot[n]; reused {
				res.add(Breaking, string(oldRec.Key),
					fmt.Sprintf("%s: retired slot %d was reassigned to a new field", oldRec.Name, n))
			}
		}
	}
}

func checkVariantCompat(res *Result, rec *compile.RecordInfo, oldField, newField *compile.FieldInfo) {
	if (oldField.Type == nil) != (newField.Type == nil) {
		res.add(Breaking, string(rec.Key),
			fmt.Sprintf("%s.%s changed between a plain and a kind-carrying variant", rec.Name, oldField.Name))
		return
	}
	if oldField.Name != newField.Name {
		res.add(Informational, string(rec.Key),
			fmt.Sprintf("%s: slot %d renamed from %q to %q", rec.Name, oldField.Number, oldField.Name, newField.Name))
	}
}

// checkFieldTypeCompat applies spec §4.5's widen-not-shrink rule: an
// integer field may grow to a wider same-signedness type; a required field
// may become optional; any other type change at a stable slot is breaking.
func checkFieldTypeCompat(res *Result, rec *compile.RecordInfo, oldField, newField *compile.FieldInfo) {
	if oldField.Type == nil || newField.Type == nil {
		return
	}
	oldOpt, oldIsOpt := oldField.Type.(*compile.OptionalType)
	newOpt, newIsOpt := newField.Type.(*compile.OptionalType)

	switch {
	case oldIsOpt && !newIsOpt:
		res.add(Breaking, string(rec.Key),
			fmt.Sprintf("%s.%s changed from optional to required", rec.Name, oldField.Name))
	case !oldIsOpt && newIsOpt:
		// required -> optional is safe (spec §4.5); the unwrapped item
		// still has to satisfy the same widen-not-shrink rule.
		checkUnwrappedFieldTypeCompat(res, rec, oldField.Name, oldField.Type, newOpt.Other)
	case oldIsOpt && newIsOpt:
		checkUnwrappedFieldTypeCompat(res, rec, oldField.Name, oldOpt.Other, newOpt.Other)
	default:
		checkUnwrappedFieldTypeCompat(res, rec, oldField.Name, oldField.Type, newField.Type)
	}
}

func checkUnwrappedFieldTypeCompat(res *Result, rec *compile.RecordInfo, fieldName string, oldType, newType compile.ResolvedType) {
	if oldType.String() == newType.String() {
		return
	}
	oldPrim, oldIsPrim := oldType.(compile.Primitive)
	newPrim, newIsPrim := newType.(compile.Primitive)
	if oldIsPrim && newIsPrim && isWidening(oldPrim, newPrim) {
		res.add(Informational, string(rec.Key),
			fmt.Sprintf("%s.%s widened from %s to %s", rec.Name, fieldName, oldPrim, newPrim))
		return
	}
	res.add(Breaking, string(rec.Key),
		fmt.Sprintf("%s.%s changed type from %s to %s", rec.Name, fieldName, oldType, newType))
}

var widths = map[compile.Primitive]struct {
	family string
	bits   int
}{
	compile.PrimitiveInt32:  {"int", 32},
	compile.PrimitiveInt64:  {"int", 64},
	compile.PrimitiveUint32: {"uint", 32},
	compile.PrimitiveUint64: {"uint", 64},
}

func isWidening(from, to compile.Primitive) bool {
	f, fok := widths[from]
	t, tok := widths[to]
	return fok && tok && f.family == t.family && t.bits >= f.bits
}

// checkMethods applies spec §4.5/§4.9's rename-tolerant method compatibility
// check: a method number present in old must still exist in new with the
// same request/response shape; its name may have changed freely (spec §3.9
// "method-rename tolerance").
func checkMethods(res *Result, old, new_ *compile.ModuleSet) {
	newByNumber := make(map[uint32]*compile.MethodInfo)
	for _, mr := range new_.ResolvedModules {
		for _, m := range mr.Methods {
			newByNumber[m.Number] = m
		}
	}
	for _, mr := range old.ResolvedModules {
		for _, oldM := range mr.Methods {
			newM, ok := newByNumber[oldM.Number]
			if !ok {
				res.add(Breaking, mr.Path, fmt.Sprintf("method #%d (%s) was removed", oldM.Number, oldM.Name))
				continue
			}
			if oldM.Request != nil && newM.Request != nil && oldM.Request.String() != newM.Request.String() {
				res.add(Breaking, mr.Path, fmt.Sprintf("method #%d request type changed from %s to %s", oldM.Number, oldM.Request, newM.Request))
			}
			if oldM.Response != nil && newM.Response != nil && oldM.Response.String() != newM.Response.String() {
				res.add(Breaking, mr.Path, fmt.Sprintf("method #%d response type changed from %s to %s", oldM.Number, oldM.Response, newM.Response))
			}
			if oldM.Name != newM.Name {
				res.add(Informational, mr.Path, fmt.Sprintf("method #%d renamed from %q to %q", oldM.Number, oldM.Name, newM.Name))
			}
		}
	}
}
