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
	"strings"

	"github.com/consensys/go-datagen/pkg/util/collection/iter"
)

// CombinationStrategyType determines how the DataBags of independent field
// groups are combined into rows.
type CombinationStrategyType uint8

const (
	// Exhaustive combines every DataBag of each group with every DataBag of
	// every other group.
	Exhaustive CombinationStrategyType = iota
	// Pinning fixes every group at its first DataBag, and then varies each
	// group in turn.
	Pinning
	// Minimal advances all groups together, repeating the last DataBag of any
	// group which runs out first.
	Minimal
)

var combinationNames = []string{"EXHAUSTIVE", "PINNING", "MINIMAL"}

// ParseCombinationStrategy parses a combination strategy from its
// (case-insensitive) name.
func ParseCombinationStrategy(name string) (CombinationStrategyType, error) {
	for i, n := range combinationNames {
		if strings.EqualFold(n, name) {
			return CombinationStrategyType(i), nil
		}
	}
	//
	return Exhaustive, fmt.Errorf("unknown combination strategy \"%s\"", name)
}

func (p CombinationStrategyType) String() string {
	return combinationNames[p]
}

// GroupSource produces a fresh enumeration of the DataBags for one group.
type GroupSource func() iter.Iterator[*DataBag]

// Combine the DataBags of a set of independent groups according to a given
// strategy.
func Combine(strategy CombinationStrategyType, groups []GroupSource) iter.Iterator[*DataBag] {
	switch strategy {
	case Exhaustive:
		return combineExhaustive(groups)
	case Pinning:
		return combinePinning(groups)
	case Minimal:
		return combineMinimal(groups)
	}
	//
	panic(fmt.Sprintf("unknown combination strategy (%d)", strategy))
}

func combineExhaustive(groups []GroupSource) iter.Iterator[*DataBag] {
	if len(groups) == 0 {
		return iter.NewUnitIterator(MergeDataBags())
	}
	//
	return iter.NewFlattenIterator(groups[0](), func(bag *DataBag) iter.Iterator[*DataBag] {
		return iter.NewProjectIterator(combineExhaustive(groups[1:]), func(rest *DataBag) *DataBag {
			return MergeDataBags(bag, rest)
		})
	})
}

func combinePinning(groups []GroupSource) iter.Iterator[*DataBag] {
	var baseline = make([]*DataBag, len(groups))
	//
	for i, g := range groups {
		bag, ok := iter.First(g())
		//
		if !ok {
			return iter.NewEmptyIterator[*DataBag]()
		}
		//
		baseline[i] = bag
	}
	//
	var rows = iter.NewUnitIterator(MergeDataBags(baseline...))
	//
	for i, g := range groups {
		bags := g()
		// Skip the pinned value
		if bags.HasNext() {
			bags.Next()
		}
		//
		varied := iter.NewProjectIterator(bags, func(bag *DataBag) *DataBag {
			return pinnedWith(baseline, i, bag)
		})
		rows = iter.NewAppendIterator(rows, varied)
	}
	//
	return rows
}

// Construct a row from a baseline with a given group replaced.
func pinnedWith(baseline []*DataBag, index int, bag *DataBag) *DataBag {
	var bags = make([]*DataBag, len(baseline))
	//
	copy(bags, baseline)
	bags[index] = bag
	//
	return MergeDataBags(bags...)
}

func combineMinimal(groups []GroupSource) iter.Iterator[*DataBag] {
	var (
		iters = make([]iter.Iterator[*DataBag], len(groups))
		last  = make([]*DataBag, len(groups))
	)
	//
	for i, g := range groups {
		iters[i] = g()
		//
		if !iters[i].HasNext() {
			return iter.NewEmptyIterator[*DataBag]()
		}
	}
	//
	return iter.NewGenerateIterator(func() (*DataBag, bool) {
		advanced := false
		//
		for i, it := range iters {
			if it.HasNext() {
				last[i] = it.Next()
				advanced = true
			}
		}
		//
		if !advanced {
			return nil, false
		}
		//
		return MergeDataBags(last...), true
	})
}
