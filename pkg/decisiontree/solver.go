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
	"slices"

	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
	log "github.com/sirupsen/logrus"
)

// Solver walks a decision tree to produce the RowSpecs it describes.  Each
// RowSpec corresponds to one choice of option for every decision encountered
// on the walk.
type Solver struct {
	reducer *Reducer
	picker  OptionPicker
}

// NewSolver constructs a solver for a decision tree, using a given picker to
// explore decisions.
func NewSolver(tree *DecisionTree, picker OptionPicker) *Solver {
	return &Solver{NewReducer(tree.Fields), picker}
}

// CreateRowSpecs returns the (lazy) sequence of RowSpecs for a given tree.
// With an exhaustive picker, every RowSpec is visited exactly once.  Otherwise,
// the sequence is unbounded with each item sampled independently.  In both
// cases, the sequence is empty when the tree has no solution.
func (p *Solver) CreateRowSpecs(tree *DecisionTree) iter.Iterator[*RowSpec] {
	if !IsSatisfiable(tree.Root) {
		log.Debug("decision tree skeleton is unsatisfiable")
		return iter.NewEmptyIterator[*RowSpec]()
	}
	//
	pruned := NewPruner(p.reducer).Prune(tree)
	//
	if pruned.IsEmpty() {
		return iter.NewEmptyIterator[*RowSpec]()
	}
	//
	var (
		root  = pruned.Unwrap()
		specs = p.reducer.Reduce(root.Root)
	)
	//
	if specs.IsEmpty() {
		return iter.NewEmptyIterator[*RowSpec]()
	}
	//
	walk := func() iter.Iterator[*RowSpec] {
		return p.walk(root, specs.Unwrap(), root.Root.Relations, root.Root.Decisions)
	}
	//
	if p.picker.IsExhaustive() {
		return walk()
	}
	//
	return iter.NewGenerateIterator(func() (*RowSpec, bool) {
		return iter.First(walk())
	})
}

// Walk the remaining decisions of a tree, given the FieldSpecs and relations
// established so far.  Each decision is resolved by choosing one option, whose
// own decisions are then resolved before the remaining decisions.
func (p *Solver) walk(tree *DecisionTree, specs FieldSpecs, relations []fieldspec.Relation,
	pending []*Decision) iter.Iterator[*RowSpec] {
	if len(pending) == 0 {
		return iter.NewUnitIterator(NewRowSpec(tree.Fields, specs, relations))
	}
	//
	var (
		decision = pending[0]
		rest     = pending[1:]
		options  = iter.NewArrayIterator(p.picker.Options(decision))
	)
	//
	return iter.NewFlattenIterator(options, func(option *ConstraintNode) iter.Iterator[*RowSpec] {
		reduced := p.reducer.ReduceInto(specs, option.Atomics)
		//
		if reduced.IsEmpty() {
			return iter.NewEmptyIterator[*RowSpec]()
		}
		//
		return p.walk(tree, reduced.Unwrap(), concat(relations, option.Relations),
			concat(option.Decisions, rest))
	})
}

func concat[T any](left []T, right []T) []T {
	if len(right) == 0 {
		return left
	}
	//
	return append(slices.Clip(left), right...)
}
