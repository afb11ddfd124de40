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
	"strings"

	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util"
)

// WeightedSet is an ordered set of distinct values, each with a weight.
// Weights are normalised to sum to one when the set is constructed, and the
// set is never modified afterwards.
type WeightedSet struct {
	elements []profile.WeightedValue
	// Maps value hashes to their position in elements.
	index map[string]int
}

// NewWeightedSet constructs a weighted set from a given list of values.
// Duplicate values are combined by summing their weights.  This fails if any
// weight is negative, or the set is non-empty with every weight zero.
func NewWeightedSet(values []profile.WeightedValue) (*WeightedSet, error) {
	var total float64
	//
	for _, v := range values {
		if v.Weight < 0 {
			return nil, fmt.Errorf("negative weight for %s", v.Value)
		}
		//
		total += v.Weight
	}
	//
	if len(values) > 0 && total == 0 {
		return nil, fmt.Errorf("all weights are zero")
	}
	//
	return newWeightedSet(values, total), nil
}

// Uniform constructs a weighted set in which every value is equally likely.
func Uniform(values ...profile.Value) *WeightedSet {
	weighted := make([]profile.WeightedValue, len(values))
	//
	for i, v := range values {
		weighted[i] = profile.WeightedValue{Value: v, Weight: 1}
	}
	//
	return newWeightedSet(weighted, float64(len(values)))
}

func newWeightedSet(values []profile.WeightedValue, total float64) *WeightedSet {
	set := &WeightedSet{nil, make(map[string]int)}
	//
	for _, v := range values {
		weight := v.Weight / total
		//
		if i, ok := set.index[v.Value.Hash()]; ok {
			set.elements[i].Weight += weight
		} else {
			set.index[v.Value.Hash()] = len(set.elements)
			set.elements = append(set.elements, profile.WeightedValue{Value: v.Value, Weight: weight})
		}
	}
	//
	return set
}

// Len returns the number of distinct values in this set.
func (p *WeightedSet) Len() int {
	return len(p.elements)
}

// IsEmpty checks whether this set holds no values.
func (p *WeightedSet) IsEmpty() bool {
	return len(p.elements) == 0
}

// Elements returns the weighted values of this set, in order.  The returned
// slice must not be modified.
func (p *WeightedSet) Elements() []profile.WeightedValue {
	return p.elements
}

// Values returns the values of this set, in order.
func (p *WeightedSet) Values() []profile.Value {
	values := make([]profile.Value, len(p.elements))
	//
	for i, e := range p.elements {
		values[i] = e.Value
	}
	//
	return values
}

// Contains checks whether a given value is in this set.
func (p *WeightedSet) Contains(value profile.Value) bool {
	_, ok := p.index[value.Hash()]
	return ok
}

// Weight returns the (normalised) weight of a given value, which is zero for
// values not in this set.
func (p *WeightedSet) Weight(value profile.Value) float64 {
	if i, ok := p.index[value.Hash()]; ok {
		return p.elements[i].Weight
	}
	//
	return 0
}

// Filter returns the subset of this set whose values satisfy a given
// predicate, with weights renormalised.
func (p *WeightedSet) Filter(predicate func(profile.Value) bool) *WeightedSet {
	var kept []profile.WeightedValue
	//
	for _, e := range p.elements {
		if predicate(e.Value) {
			kept = append(kept, e)
		}
	}
	//
	return normalise(kept)
}

// Intersect returns those values in both this and another set, in the order of
// this set.  The weight of each value is the sum of its weights in both sets,
// renormalised.
func (p *WeightedSet) Intersect(other *WeightedSet) *WeightedSet {
	var kept []profile.WeightedValue
	//
	for _, e := range p.elements {
		if i, ok := other.index[e.Value.Hash()]; ok {
			kept = append(kept, profile.WeightedValue{Value: e.Value, Weight: e.Weight + other.elements[i].Weight})
		}
	}
	//
	return normalise(kept)
}

// Renormalise a set of (distinct) values, falling back to uniform weights when
// every remaining weight is zero.
func normalise(values []profile.WeightedValue) *WeightedSet {
	var total float64
	//
	for _, v := range values {
		total += v.Weight
	}
	//
	if total == 0 {
		for i := range values {
			values[i].Weight = 1
		}
		//
		total = float64(len(values))
	}
	//
	return newWeightedSet(values, total)
}

// PickRandomly chooses a value from this set, such that the likelihood of
// each value is given by its weight.  This panics if the set is empty.
func (p *WeightedSet) PickRandomly(rng util.RandomSource) profile.Value {
	r := rng.Float64()
	//
	for _, e := range p.elements {
		if r -= e.Weight; r <= 0 {
			return e.Value
		}
	}
	// Floating point rounding can leave a tiny residue
	if n := len(p.elements); n > 0 && r < 1e-9 {
		return p.elements[n-1].Value
	}
	//
	panic("weighted set exhausted without a pick")
}

func (p *WeightedSet) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, e := range p.elements {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(e.Value.String())
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
