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
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// IsSatisfiable checks whether the propositional skeleton of a tree is
// satisfiable.  Each distinct atomic constraint is treated as an independent
// boolean variable, so a satisfiable skeleton does not imply that the tree
// itself has a solution.  However, an unsatisfiable skeleton does imply the
// tree has none (e.g. when both a constraint and its negation are required).
func IsSatisfiable(node *ConstraintNode) bool {
	var (
		circuit = logic.NewC()
		vars    = make(map[string]z.Lit)
		root    = encodeNode(circuit, vars, node)
		solver  = gini.New()
	)
	//
	circuit.ToCnf(solver)
	solver.Assume(root)
	//
	return solver.Solve() == 1
}

func encodeNode(circuit *logic.C, vars map[string]z.Lit, node *ConstraintNode) z.Lit {
	var terms = make([]z.Lit, 0, len(node.Atomics)+len(node.Decisions))
	//
	for _, a := range node.Atomics {
		key := a.Atomic.Key()
		lit, ok := vars[key]
		//
		if !ok {
			lit = circuit.Lit()
			vars[key] = lit
		}
		//
		if a.Negated {
			lit = lit.Not()
		}
		//
		terms = append(terms, lit)
	}
	//
	for _, d := range node.Decisions {
		options := make([]z.Lit, len(d.Options))
		//
		for i, o := range d.Options {
			options[i] = encodeNode(circuit, vars, o)
		}
		//
		terms = append(terms, circuit.Ors(options...))
	}
	//
	return circuit.Ands(terms...)
}
