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

	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/profile"
	log "github.com/sirupsen/logrus"
)

// Factory converts the constraints of a profile into a decision tree.
// Negation is pushed down onto atomic constraints and relations, such that
// every node of the resulting tree is a plain conjunction and every decision a
// plain disjunction.
type Factory struct {
	fields profile.Fields
}

// Build the decision tree for a given profile.  This fails if the profile is
// malformed, or uses a construct which cannot be negated in a negative
// position.
func Build(p *profile.Profile) (*DecisionTree, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	//
	var (
		factory = Factory{p.Fields}
		nodes   []*ConstraintNode
	)
	// Fields are not null unless declared nullable
	for _, f := range p.Fields {
		if !f.Nullable {
			isNull := &profile.Atomic{Kind: profile.IsNull, Field: f.Name}
			nodes = append(nodes, &ConstraintNode{Atomics: []Literal{{isNull, true}}})
		}
	}
	//
	for _, c := range p.Constraints() {
		node, err := factory.translate(c, false)
		//
		if err != nil {
			return nil, err
		}
		//
		nodes = append(nodes, node)
	}
	//
	tree := &DecisionTree{Conjoin(nodes...), p.Fields}
	//
	log.Debugf("constructed decision tree with %d nodes (depth %d)", tree.Root.Size(), tree.Root.Depth())
	//
	return tree, nil
}

// Translate a constraint into a constraint node, where negate determines
// whether the constraint (or its negation) must hold.
func (p *Factory) translate(constraint profile.Constraint, negate bool) (*ConstraintNode, error) {
	switch c := constraint.(type) {
	case *profile.Atomic:
		if negate && c.Kind == profile.GranularTo {
			return nil, profile.NewValidationError("granularTo on field \"%s\" cannot be negated", c.Field)
		}
		//
		return &ConstraintNode{Atomics: []Literal{{c, negate}}}, nil
	case *profile.Relation:
		return p.translateRelation(c, negate)
	case *profile.InMap:
		if negate {
			return nil, profile.NewValidationError("inMap on field \"%s\" cannot be negated", c.Field)
		}
		//
		field := p.field(c.Field)
		//
		return &ConstraintNode{Relations: []fieldspec.Relation{fieldspec.NewInMapRelation(c, field.Type)}}, nil
	case *profile.Not:
		return p.translate(c.Constraint, !negate)
	case *profile.AllOf:
		if negate {
			// not(A and B) = not(A) or not(B)
			return p.translateDisjunction(c.Constraints, true)
		}
		//
		return p.translateConjunction(c.Constraints, false)
	case *profile.AnyOf:
		if negate {
			// not(A or B) = not(A) and not(B)
			return p.translateConjunction(c.Constraints, true)
		}
		//
		return p.translateDisjunction(c.Constraints, false)
	case *profile.Conditional:
		return p.translateConditional(c, negate)
	}
	//
	panic(fmt.Sprintf("unknown constraint %s", constraint))
}

func (p *Factory) translateRelation(c *profile.Relation, negate bool) (*ConstraintNode, error) {
	var field = p.field(c.Field)
	//
	// Shifting by months or working days has no exact inverse
	if negate && c.Kind == profile.EqualToField && c.HasOffset() {
		return nil, profile.NewValidationError("relation %s with an offset cannot be negated", c)
	}
	//
	rel, err := fieldspec.NewRelation(c, field.Type, negate)
	//
	if err != nil {
		return nil, profile.NewValidationError("%s", err.Error())
	}
	//
	return &ConstraintNode{Relations: []fieldspec.Relation{rel}}, nil
}

func (p *Factory) translateConjunction(constraints []profile.Constraint, negate bool) (*ConstraintNode, error) {
	nodes, err := p.translateAll(constraints, negate)
	//
	if err != nil {
		return nil, err
	}
	//
	return Conjoin(nodes...), nil
}

func (p *Factory) translateDisjunction(constraints []profile.Constraint, negate bool) (*ConstraintNode, error) {
	nodes, err := p.translateAll(constraints, negate)
	//
	if err != nil {
		return nil, err
	}
	//
	return decisionOf(nodes...), nil
}

// Translate a conditional constraint.  Specifically, "if A then B" becomes the
// decision "A and B" or "not A", whilst "if A then B else C" becomes "A and B"
// or "not A and C".  Negating the former gives "A and not B", whilst negating
// the latter gives "A and not B" or "not A and not C".
func (p *Factory) translateConditional(c *profile.Conditional, negate bool) (*ConstraintNode, error) {
	ifTrue, err := p.translate(c.If, false)
	if err != nil {
		return nil, err
	}
	//
	then, err := p.translate(c.Then, negate)
	if err != nil {
		return nil, err
	}
	//
	if c.Else == nil && negate {
		return Conjoin(ifTrue, then), nil
	}
	//
	ifFalse, err := p.translate(c.If, true)
	if err != nil {
		return nil, err
	}
	//
	if c.Else == nil {
		return decisionOf(Conjoin(ifTrue, then), ifFalse), nil
	}
	//
	otherwise, err := p.translate(c.Else, negate)
	if err != nil {
		return nil, err
	}
	//
	return decisionOf(Conjoin(ifTrue, then), Conjoin(ifFalse, otherwise)), nil
}

func (p *Factory) translateAll(constraints []profile.Constraint, negate bool) ([]*ConstraintNode, error) {
	var nodes = make([]*ConstraintNode, len(constraints))
	//
	for i, c := range constraints {
		node, err := p.translate(c, negate)
		//
		if err != nil {
			return nil, err
		}
		//
		nodes[i] = node
	}
	//
	return nodes, nil
}

func (p *Factory) field(name string) profile.Field {
	field, ok := p.fields.Find(name)
	//
	if !ok {
		// Unreachable for a validated profile
		panic(fmt.Sprintf("unknown field \"%s\"", name))
	}
	//
	return field
}

// Construct a node holding a single decision between the given options.  A
// decision with only one option is simply that option.
func decisionOf(options ...*ConstraintNode) *ConstraintNode {
	if len(options) == 1 {
		return options[0]
	}
	//
	return &ConstraintNode{Decisions: []*Decision{{options}}}
}
