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
	"maps"

	"github.com/consensys/go-datagen/pkg/decisiontree"
	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
	"github.com/hashicorp/go-set/v2"
	"github.com/shopspring/decimal"
)

// FieldGroup is a set of fields connected by relations, whose values must
// therefore be generated together.
type FieldGroup struct {
	// Fields of this group, in generation order.
	Fields profile.Fields
	// FieldSpecs for each field of the group.
	Specs decisiontree.FieldSpecs
	// Relations between fields of this group.
	Relations []fieldspec.Relation
}

// GroupFields splits the fields of a RowSpec into groups of related fields.
// Groups are ordered by their first field in the profile.  Within a group, a
// field controlling another through a relation comes first, and otherwise
// fields retain their profile order.
func GroupFields(rowSpec *decisiontree.RowSpec) []FieldGroup {
	var (
		fields = rowSpec.Fields()
		// Union-find over field indices
		parent = make([]int, len(fields))
		index  = make(map[string]int, len(fields))
	)
	//
	for i, f := range fields {
		parent[i] = i
		index[f.Name] = i
	}
	//
	var find func(int) int
	//
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		//
		return i
	}
	//
	for _, r := range rowSpec.Relations() {
		a, b := find(index[r.Main()]), find(index[r.Other()])
		parent[max(a, b)] = min(a, b)
	}
	//
	var (
		groups []FieldGroup
		roots  = make(map[int]int)
	)
	//
	for i, f := range fields {
		root := find(i)
		//
		g, ok := roots[root]
		if !ok {
			g = len(groups)
			roots[root] = g
			groups = append(groups, FieldGroup{Specs: make(decisiontree.FieldSpecs)})
		}
		//
		groups[g].Fields = append(groups[g].Fields, f)
		groups[g].Specs[f.Name] = rowSpec.Spec(f.Name)
	}
	//
	for _, r := range rowSpec.Relations() {
		g := roots[find(index[r.Main()])]
		groups[g].Relations = append(groups[g].Relations, r)
	}
	//
	for i := range groups {
		groups[i].Fields = controllersFirst(groups[i].Fields, groups[i].Relations)
	}
	//
	return groups
}

// Order fields so that each is generated after the fields controlling it.  On a
// cycle, the earliest remaining field in profile order is taken.  Lookup
// tables are not considered, since their controllers can be derived exactly
// from the values drawn.
func controllersFirst(fields profile.Fields, relations []fieldspec.Relation) profile.Fields {
	var (
		ordered = make(profile.Fields, 0, len(fields))
		placed  = set.New[string](len(fields))
	)
	//
	ready := func(field string) bool {
		for _, r := range relations {
			if _, ok := r.(*fieldspec.InMap); !ok && r.Main() == field && !placed.Contains(r.Other()) {
				return false
			}
		}
		//
		return true
	}
	//
	for len(ordered) < len(fields) {
		next, fallback := -1, -1
		//
		for i, f := range fields {
			if placed.Contains(f.Name) {
				continue
			} else if ready(f.Name) {
				next = i
				break
			} else if fallback < 0 {
				fallback = i
			}
		}
		//
		if next < 0 {
			next = fallback
		}
		//
		ordered = append(ordered, fields[next])
		placed.Insert(fields[next].Name)
	}
	//
	return ordered
}

// GroupGenerator produces DataBags for the fields of a group, such that every
// relation between them holds.
type GroupGenerator struct {
	values *ValueGenerator
}

// NewGroupGenerator constructs a group generator using a given value
// generator.
func NewGroupGenerator(values *ValueGenerator) *GroupGenerator {
	return &GroupGenerator{values}
}

// Generate the DataBags for a group of fields.  Fields related by lookup
// tables are driven by their shared controller.  Otherwise, the first field is
// generated and the FieldSpecs of the remaining fields are constrained by each
// value in turn, before they too are generated.
func (p *GroupGenerator) Generate(group FieldGroup) iter.Iterator[*DataBag] {
	if len(group.Relations) > 0 && isLookupGroup(group) {
		return p.generateLookup(group)
	}
	//
	first := group.Fields[0]
	spec, ok := initialAdjustments(first.Name, group)
	//
	if !ok {
		return iter.NewEmptyIterator[*DataBag]()
	}
	//
	values := p.values.Generate(first, spec)
	//
	if p.values.IsRandom() {
		values = iter.NewLimitIterator(values, MaxRandomAttempts)
	}
	//
	bags := iter.NewProjectIterator(values, func(v DataBagValue) groupState {
		return groupState{NewDataBag(first.Name, v), group.Specs}
	})
	//
	return p.generateRemaining(bags, first.Name, group)
}

// Partially generated group, along with the FieldSpecs of fields yet to be
// generated.
type groupState struct {
	bag   *DataBag
	specs decisiontree.FieldSpecs
}

// Constrain the FieldSpec of the first field of a group by the FieldSpecs of
// the fields it is related to, returning false if it is left contradictory.
func initialAdjustments(first string, group FieldGroup) (fieldspec.FieldSpec, bool) {
	var spec = group.Specs[first]
	//
	for _, r := range group.Relations {
		if r.Other() == first {
			r = r.Inverse()
		} else if r.Main() != first {
			continue
		}
		//
		merged := fieldspec.Merge(spec, r.CreateModifierFromOtherFieldSpec(group.Specs[r.Other()]))
		//
		if merged.IsEmpty() {
			return spec, false
		}
		//
		spec = merged.Unwrap()
	}
	//
	return spec, true
}

// Generate the remaining fields of a group, one field at a time.
func (p *GroupGenerator) generateRemaining(states iter.Iterator[groupState], generated string,
	group FieldGroup) iter.Iterator[*DataBag] {
	var (
		initial = set.From([]string{generated})
		done    = initial
	)
	// Apply relations of the first field
	states = iter.NewFlattenIterator(states, func(s groupState) iter.Iterator[groupState] {
		return adjust(s, generated, initial, group.Relations)
	})
	//
	for _, field := range group.Fields[1:] {
		done = done.Copy()
		done.Insert(field.Name)
		states = p.generateNext(states, field, done, group.Relations)
	}
	//
	return iter.NewProjectIterator(states, func(s groupState) *DataBag {
		return s.bag
	})
}

// Extend each partial group with values for the next field.  When sampling
// randomly, only a single value is taken.
func (p *GroupGenerator) generateNext(states iter.Iterator[groupState], field profile.Field,
	done *set.Set[string], relations []fieldspec.Relation) iter.Iterator[groupState] {
	return iter.NewFlattenIterator(states, func(s groupState) iter.Iterator[groupState] {
		values := p.values.Generate(field, s.specs[field.Name])
		//
		if p.values.IsRandom() {
			values = iter.NewLimitIterator(values, 1)
		}
		//
		return iter.NewFlattenIterator(values, func(v DataBagValue) iter.Iterator[groupState] {
			next := groupState{MergeDataBags(s.bag, NewDataBag(field.Name, v)), s.specs}
			//
			return adjust(next, field.Name, done, relations)
		})
	})
}

// Constrain the FieldSpecs of fields yet to be generated, given the value just
// generated for a field.  This yields nothing if any FieldSpec is left
// contradictory, or if a relation with an already generated field fails.
func adjust(state groupState, field string, done *set.Set[string],
	relations []fieldspec.Relation) iter.Iterator[groupState] {
	var (
		value  = state.bag.Get(field).Option()
		specs  = state.specs
		cloned = false
	)
	//
	for _, rel := range relations {
		r := rel
		//
		if r.Main() == field {
			r = r.Inverse()
		} else if r.Other() != field {
			continue
		}
		// Inverses are inexact for some offsets, so check the original
		if done.Contains(r.Main()) {
			if !holds(rel, state.bag) {
				return iter.NewEmptyIterator[groupState]()
			}
			//
			continue
		}
		//
		merged := fieldspec.Merge(specs[r.Main()], r.CreateModifierFromOtherValue(value))
		//
		if merged.IsEmpty() {
			return iter.NewEmptyIterator[groupState]()
		} else if !cloned {
			specs, cloned = maps.Clone(specs), true
		}
		//
		specs[r.Main()] = merged.Unwrap()
	}
	//
	return iter.NewUnitIterator(groupState{state.bag, specs})
}

// Check a relation between two generated fields.
func holds(r fieldspec.Relation, bag *DataBag) bool {
	var (
		spec  = r.CreateModifierFromOtherValue(bag.Get(r.Other()).Option())
		value = bag.Get(r.Main())
	)
	//
	if value.IsNull() {
		return spec.IsNullable()
	}
	//
	return spec.Permits(value.Value())
}

// ============================================================================
// Lookup tables
// ============================================================================

// Check whether every relation of a group ties a field to the same lookup
// table.
func isLookupGroup(group FieldGroup) bool {
	for _, r := range group.Relations {
		if _, ok := r.(*fieldspec.InMap); !ok || r.Other() != group.Relations[0].Other() {
			return false
		}
	}
	//
	return true
}

// Generate a group of fields drawn from a lookup table, by generating row
// indices for the table and then reading off the value of each field.
func (p *GroupGenerator) generateLookup(group FieldGroup) iter.Iterator[*DataBag] {
	var (
		relations  = make([]*fieldspec.InMap, len(group.Relations))
		controller = group.Relations[0].Other()
	)
	//
	for i, r := range group.Relations {
		relations[i] = r.(*fieldspec.InMap)
		//
		if r.Other() != controller {
			panic(fmt.Sprintf("fields %s and %s have distinct lookup tables", relations[0].Main(), r.Main()))
		}
	}
	//
	field, _ := group.Fields.Find(controller)
	spec, ok := controllerSpec(group.Specs[controller], relations, group.Specs)
	//
	if !ok {
		return iter.NewEmptyIterator[*DataBag]()
	}
	//
	indices := iter.NewFilterIterator(p.values.Generate(field, spec), func(v DataBagValue) bool {
		return !v.IsNull()
	})
	//
	return iter.NewProjectIterator(indices, func(v DataBagValue) *DataBag {
		var (
			index = int(v.Value().Numeric().IntPart())
			bags  = []*DataBag{NewDataBag(controller, v)}
		)
		//
		for _, r := range relations {
			bags = append(bags, NewDataBag(r.Main(), ValueOf(r.Values()[index])))
		}
		//
		return MergeDataBags(bags...)
	})
}

// Determine the FieldSpec of a lookup table's controller, such that it only
// identifies rows whose values are permitted for every field drawn from the
// table.
func controllerSpec(spec fieldspec.FieldSpec, relations []*fieldspec.InMap,
	specs decisiontree.FieldSpecs) (fieldspec.FieldSpec, bool) {
	var (
		size     = len(relations[0].Values())
		excluded []profile.Value
	)
	//
	for i := range size {
		for _, r := range relations {
			if !specs[r.Main()].Permits(r.Values()[i]) {
				excluded = append(excluded, profile.IntValue(int64(i)))
				break
			}
		}
	}
	//
	rows := restriction.NewNumeric(restriction.Inclusive(decimal.Zero),
		restriction.Exclusive(decimal.NewFromInt(int64(size))), 0)
	indices := fieldspec.FromRestriction(profile.Numeric, rows).WithBlacklist(excluded...)
	//
	merged := fieldspec.Merge(spec, indices)
	//
	return merged.UnwrapOr(spec), merged.HasValue()
}
