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
package decisiontree

import (
	"fmt"
	"maps"

	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util"
)

// FieldSpecs maps field names to the FieldSpecs currently in force for them.
type FieldSpecs map[string]fieldspec.FieldSpec

// Reducer combines the atomic constraints of a constraint node into one
// FieldSpec per field.  FieldSpecs constructed for individual literals are
// cached, since the same literals recur throughout a tree.
type Reducer struct {
	fields  profile.Fields
	factory fieldspec.Factory
	cache   map[string]fieldspec.FieldSpec
}

// NewReducer constructs a reducer for a given set of fields.
func NewReducer(fields profile.Fields) *Reducer {
	return &Reducer{fields, fieldspec.Factory{}, make(map[string]fieldspec.FieldSpec)}
}

// Unconstrained returns the FieldSpecs permitting any value of each field.
func (p *Reducer) Unconstrained() FieldSpecs {
	var specs = make(FieldSpecs, len(p.fields))
	//
	for _, f := range p.fields {
		specs[f.Name] = fieldspec.FromType(f.Type)
	}
	//
	return specs
}

// Reduce the atomic constraints of a node into one FieldSpec per field,
// returning None if no row satisfies them all.
func (p *Reducer) Reduce(node *ConstraintNode) util.Option[FieldSpecs] {
	return p.ReduceInto(p.Unconstrained(), node.Atomics)
}

// ReduceInto merges the FieldSpecs of a given set of literals into a given map
// of FieldSpecs, returning None if no row satisfies them all.  The given map is
// not modified.
func (p *Reducer) ReduceInto(ambient FieldSpecs, literals []Literal) util.Option[FieldSpecs] {
	if len(literals) == 0 {
		return util.Some(ambient)
	}
	//
	specs := maps.Clone(ambient)
	//
	for _, l := range literals {
		merged := fieldspec.Merge(specs[l.Field()], p.construct(l))
		//
		if merged.IsEmpty() {
			return util.None[FieldSpecs]()
		}
		//
		specs[l.Field()] = merged.Unwrap()
	}
	//
	return util.Some(specs)
}

// Construct the FieldSpec for a single literal.
func (p *Reducer) construct(literal Literal) fieldspec.FieldSpec {
	key := literal.Key()
	//
	if spec, ok := p.cache[key]; ok {
		return spec
	}
	//
	field, ok := p.fields.Find(literal.Field())
	//
	if !ok {
		panic(fmt.Sprintf("unknown field \"%s\"", literal.Field()))
	}
	//
	spec, err := p.factory.Construct(literal.Atomic, field.Type, literal.Negated)
	// Unreachable for a tree built from a validated profile
	if err != nil {
		panic(err.Error())
	}
	//
	p.cache[key] = spec
	//
	return spec
}
