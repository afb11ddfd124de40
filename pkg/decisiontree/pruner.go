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
	"github.com/consensys/go-datagen/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Pruner removes the options of decisions which contradict the constraints
// already in force above them.  Decisions left with a single option are lifted
// into their parent, which can in turn expose further contradictions, so
// pruning iterates to a fixed point.
type Pruner struct {
	reducer *Reducer
	// Number of options removed so far.
	pruned uint
}

// NewPruner constructs a pruner using a given reducer.
func NewPruner(reducer *Reducer) *Pruner {
	return &Pruner{reducer, 0}
}

// Prune a decision tree, returning None if no row can satisfy it.
func (p *Pruner) Prune(tree *DecisionTree) util.Option[*DecisionTree] {
	root := p.PruneNode(tree.Root, p.reducer.Unconstrained())
	//
	if root.IsEmpty() {
		log.Debug("decision tree is contradictory")
		return util.None[*DecisionTree]()
	}
	//
	log.Debugf("pruned %d options, leaving %d nodes", p.pruned, root.Unwrap().Size())
	//
	return util.Some(&DecisionTree{root.Unwrap(), tree.Fields})
}

// PruneNode prunes a given constraint node against the FieldSpecs in force
// above it, returning None if the node is contradictory.
func (p *Pruner) PruneNode(node *ConstraintNode, ambient FieldSpecs) util.Option[*ConstraintNode] {
	for {
		specs := p.reducer.ReduceInto(ambient, node.Atomics)
		//
		if specs.IsEmpty() {
			return util.None[*ConstraintNode]()
		}
		//
		next, lifted, ok := p.pruneDecisions(node, specs.Unwrap())
		//
		if !ok {
			return util.None[*ConstraintNode]()
		} else if !lifted {
			return util.Some(next)
		}
		// Lifted options may contradict the rest of the node
		node = next
	}
}

// Prune each decision of a node in turn.  If any decision is left with exactly
// one option, that option is lifted into the node and the partially pruned
// node is returned (with lifted set).  This returns false if any decision is
// left with no options.
func (p *Pruner) pruneDecisions(node *ConstraintNode, specs FieldSpecs) (*ConstraintNode, bool, bool) {
	var decisions = make([]*Decision, 0, len(node.Decisions))
	//
	for i, d := range node.Decisions {
		var options []*ConstraintNode
		//
		for _, o := range d.Options {
			if pruned := p.PruneNode(o, specs); pruned.HasValue() {
				options = append(options, pruned.Unwrap())
			} else {
				p.pruned++
			}
		}
		//
		switch len(options) {
		case 0:
			return nil, false, false
		case 1:
			rest := &ConstraintNode{node.Atomics, node.Relations, append(decisions, node.Decisions[i+1:]...)}
			return Conjoin(rest, options[0]), true, true
		default:
			decisions = append(decisions, &Decision{options})
		}
	}
	//
	return &ConstraintNode{node.Atomics, node.Relations, decisions}, false, true
}
