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
package profile

import (
	"fmt"
	"slices"
)

// Violation is a profile in which exactly one rule of some original profile
// has been violated, whilst every other rule is retained.
type Violation struct {
	// Description of the violated rule.
	Rule string
	// Profile whose rows violate that rule.
	Profile *Profile
}

// Violate constructs, for each rule of a given profile, a profile whose rows
// satisfy every other rule but violate that rule.  Top-level atomic constraints
// whose kind is named in the filters (e.g. "inSet") are never violated, but
// are retained as they are.  Likewise, constraints which cannot be negated
// (granularity, lookup tables and offset relations) are always retained.
// Rules consisting entirely of retained constraints produce no violation.
func Violate(p *Profile, filters []string) []Violation {
	var violations []Violation
	//
	for i, rule := range p.Rules {
		violated, ok := violateRule(rule, filters)
		//
		if !ok {
			continue
		}
		//
		rules := slices.Clone(p.Rules)
		rules[i] = violated
		//
		violations = append(violations, Violation{rule.Description, &Profile{p.Fields, rules}})
	}
	//
	return violations
}

func violateRule(rule Rule, filters []string) (Rule, bool) {
	var kept, violatable []Constraint
	//
	for _, c := range rule.Constraints {
		if isFiltered(c, filters) || !isNegatable(c) {
			kept = append(kept, c)
		} else {
			violatable = append(violatable, c)
		}
	}
	//
	if len(violatable) == 0 {
		return rule, false
	}
	//
	var negated Constraint = &Not{&AllOf{violatable}}
	//
	if len(violatable) == 1 {
		negated = &Not{violatable[0]}
	}
	//
	constraints := append(kept, negated)
	//
	return Rule{fmt.Sprintf("violated: %s", rule.Description), constraints}, true
}

func isFiltered(constraint Constraint, filters []string) bool {
	switch c := constraint.(type) {
	case *Atomic:
		return slices.Contains(filters, c.Kind.String())
	case *Relation:
		return slices.Contains(filters, c.Kind.String())
	case *InMap:
		return slices.Contains(filters, "inMap")
	}
	//
	return false
}

func isNegatable(constraint Constraint) bool {
	return translatable(constraint, true)
}

// Check whether a constraint can be translated under the given polarity, where
// conditions of a conditional are always needed under both.
func translatable(constraint Constraint, negate bool) bool {
	switch c := constraint.(type) {
	case *Atomic:
		return !negate || c.Kind != GranularTo
	case *Relation:
		return !negate || c.Kind != EqualToField || !c.HasOffset()
	case *InMap:
		return !negate
	case *Not:
		return translatable(c.Constraint, !negate)
	case *AllOf:
		return allTranslatable(c.Constraints, negate)
	case *AnyOf:
		return allTranslatable(c.Constraints, negate)
	case *Conditional:
		if !translatable(c.If, false) || !translatable(c.If, true) || !translatable(c.Then, negate) {
			return false
		}
		//
		return c.Else == nil || translatable(c.Else, negate)
	}
	//
	return true
}

func allTranslatable(constraints []Constraint, negate bool) bool {
	for _, c := range constraints {
		if !translatable(c, negate) {
			return false
		}
	}
	//
	return true
}
