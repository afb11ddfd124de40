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
	"strings"

	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/profile"
)

// Literal is an atomic constraint which either holds, or (when negated) does
// not hold.
type Literal struct {
	Atomic  *profile.Atomic
	Negated bool
}

// Field returns the field constrained by this literal.
func (p Literal) Field() string {
	return p.Atomic.Field
}

// Key returns a canonical identifier for this literal, such that two literals
// with the same key are equivalent.
func (p Literal) Key() string {
	if p.Negated {
		return "not " + p.Atomic.Key()
	}
	//
	return p.Atomic.Key()
}

// Negate returns the literal which holds exactly when this one does not.
func (p Literal) Negate() Literal {
	return Literal{p.Atomic, !p.Negated}
}

func (p Literal) String() string {
	return p.Key()
}

// ConstraintNode is a conjunction of atomic constraints, delayed relations and
// decisions.  Every atomic constraint and relation of a node must hold, and
// one option of each decision must be chosen.
type ConstraintNode struct {
	Atomics   []Literal
	Relations []fieldspec.Relation
	Decisions []*Decision
}

// Decision is a disjunction of alternative constraint nodes, exactly one of
// which is taken for any given row.
type Decision struct {
	Options []*ConstraintNode
}

// DecisionTree is the normalised form of the constraints of a profile, rooted
// at a single constraint node.
type DecisionTree struct {
	Root   *ConstraintNode
	Fields profile.Fields
}

// Conjoin a number of constraint nodes into a single node, such that all of
// their constraints must hold.
func Conjoin(nodes ...*ConstraintNode) *ConstraintNode {
	var conjunction ConstraintNode
	//
	for _, n := range nodes {
		conjunction.Atomics = append(conjunction.Atomics, n.Atomics...)
		conjunction.Relations = append(conjunction.Relations, n.Relations...)
		conjunction.Decisions = append(conjunction.Decisions, n.Decisions...)
	}
	//
	return &conjunction
}

// Size returns the number of constraint nodes in the tree rooted at this node.
func (p *ConstraintNode) Size() uint {
	size := uint(1)
	//
	for _, d := range p.Decisions {
		for _, o := range d.Options {
			size += o.Size()
		}
	}
	//
	return size
}

// Depth returns the greatest number of decisions on any path from this node.
func (p *ConstraintNode) Depth() uint {
	depth := uint(0)
	//
	for _, d := range p.Decisions {
		for _, o := range d.Options {
			depth = max(depth, 1+o.Depth())
		}
	}
	//
	return depth
}

func (p *ConstraintNode) String() string {
	var builder strings.Builder
	//
	p.write(&builder, 0)
	//
	return builder.String()
}

func (p *ConstraintNode) write(builder *strings.Builder, indent int) {
	var prefix = strings.Repeat("  ", indent)
	//
	for _, a := range p.Atomics {
		builder.WriteString(fmt.Sprintf("%s%s\n", prefix, a))
	}
	//
	for _, r := range p.Relations {
		builder.WriteString(fmt.Sprintf("%s%s\n", prefix, r))
	}
	//
	for _, d := range p.Decisions {
		builder.WriteString(fmt.Sprintf("%sdecision\n", prefix))
		//
		for i, o := range d.Options {
			builder.WriteString(fmt.Sprintf("%s  option %d\n", prefix, i))
			o.write(builder, indent+2)
		}
	}
}

func (p *DecisionTree) String() string {
	return p.Root.String()
}
