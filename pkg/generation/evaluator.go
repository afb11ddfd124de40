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
package generation

import (
	"fmt"

	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/hashicorp/go-set/v2"
)

// SourceFor determines the source of values for a given FieldSpec.  Whitelists
// give canned values, whilst restrictions give a source appropriate to the
// field's type.  This panics if the FieldSpec permits no values at all, since
// contradictory FieldSpecs should have been eliminated when merging.
func SourceFor(spec fieldspec.FieldSpec) FieldValueSource {
	source := nonNullSourceFor(spec)
	//
	switch {
	case spec.IsNullable() && source == nil:
		return nullOnlySource{}
	case spec.IsNullable():
		return &nullAppendingSource{source}
	case source == nil:
		panic(fmt.Sprintf("no values for contradictory field spec %s", spec))
	}
	//
	return source
}

// Determine the source of non-null values for a FieldSpec, or nil if it permits
// none.
func nonNullSourceFor(spec fieldspec.FieldSpec) FieldValueSource {
	if values, ok := spec.Whitelist(); ok {
		if values.IsEmpty() {
			return nil
		}
		//
		return &cannedSource{values}
	}
	//
	var (
		r         = spec.Restriction()
		blacklist = spec.Blacklist()
		excluded  = set.HashSetFrom[profile.Value, string](blacklist)
	)
	//
	if r != nil && r.IsContradictory() {
		return nil
	}
	//
	switch spec.Type() {
	case profile.Numeric:
		if r == nil {
			r = restriction.AllNumeric(restriction.DefaultNumericScale)
		}
		//
		return newNumericSource(r.(*restriction.Numeric), excluded)
	case profile.DateTime:
		if r == nil {
			r = restriction.AllDateTime(restriction.NewDateTimeGranularity(restriction.Millis))
		}
		//
		return newDateTimeSource(r.(*restriction.DateTime), excluded)
	default:
		if r == nil {
			r = restriction.ForMaxLength(restriction.DefaultMaxStringLength)
		}
		//
		source := newStringSource(r.(*restriction.String), blacklist)
		//
		if source.restriction.IsContradictory() {
			return nil
		}
		//
		return source
	}
}
