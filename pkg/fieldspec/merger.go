// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package fieldspec

import (
	"fmt"

	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/consensys/go-datagen/pkg/util"
)

// Merge two FieldSpecs for the same field, producing a FieldSpec which permits
// only those values permitted by both.  This returns None when no value
// (including null) is permitted by both.
func Merge(a FieldSpec, b FieldSpec) util.Option[FieldSpec] {
	if a.fieldType != b.fieldType {
		panic(fmt.Sprintf("cannot merge %s with %s", a.fieldType, b.fieldType))
	}
	//
	var (
		merged   FieldSpec
		nullable = a.nullable && b.nullable
		lw, lok  = a.repr.(*Whitelist)
		rw, rok  = b.repr.(*Whitelist)
	)
	//
	switch {
	case lok && rok:
		merged = a.WithWhitelist(lw.Values.Intersect(rw.Values))
	case lok:
		merged = a.WithWhitelist(lw.Values.Filter(b.Permits))
	case rok:
		merged = b.WithWhitelist(rw.Values.Filter(a.Permits))
	default:
		merged = mergeRestricted(a, b)
	}
	//
	if nullable {
		return util.Some(FieldSpec{merged.fieldType, true, merged.repr})
	}
	//
	merged = merged.WithNotNull()
	//
	if merged.IsContradictory() {
		return util.None[FieldSpec]()
	}
	//
	return util.Some(merged)
}

// Merge two FieldSpecs neither of which has a whitelist.  A contradiction
// between their restrictions yields the null-only FieldSpec.
func mergeRestricted(a FieldSpec, b FieldSpec) FieldSpec {
	var (
		lr, lok = a.repr.(*Restricted)
		rr, rok = b.repr.(*Restricted)
	)
	//
	switch {
	case !lok && !rok:
		return a
	case !lok:
		return b
	case !rok:
		return a
	}
	//
	r, ok := mergeRestrictions(lr.Restriction, rr.Restriction)
	//
	if !ok {
		return NullOnly(a.fieldType)
	}
	//
	blacklist := lr.Blacklist.Copy()
	blacklist.InsertSet(rr.Blacklist)
	//
	return FieldSpec{a.fieldType, true, &Restricted{r, blacklist}}
}

// Merge two typed restrictions, returning false if they permit no common
// value.  A nil restriction permits everything.
func mergeRestrictions(l restriction.Restriction, r restriction.Restriction) (restriction.Restriction, bool) {
	switch {
	case l == nil:
		return r, true
	case r == nil:
		return l, true
	}
	//
	switch lr := l.(type) {
	case *restriction.Numeric:
		if m := lr.Merge(r.(*restriction.Numeric)); m.HasValue() {
			return m.Unwrap(), true
		}
		//
		return nil, false
	case *restriction.DateTime:
		if m := lr.Merge(r.(*restriction.DateTime)); m.HasValue() {
			return m.Unwrap(), true
		}
		//
		return nil, false
	case *restriction.String:
		merged := lr.Intersect(r.(*restriction.String))
		//
		return merged, !merged.IsContradictory()
	}
	//
	panic(fmt.Sprintf("unknown restriction %s", l))
}
