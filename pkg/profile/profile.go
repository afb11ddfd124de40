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
	"regexp"
	"strings"
)

// Profile describes the data to be generated: an ordered list of fields, and
// a list of rules which every generated row must satisfy.
type Profile struct {
	Fields Fields
	Rules  []Rule
}

// Rule is a named group of constraints, all of which must hold.
type Rule struct {
	Description string
	Constraints []Constraint
}

// Constraints returns every top-level constraint of this profile, across all
// rules.
func (p *Profile) Constraints() []Constraint {
	var constraints []Constraint
	//
	for _, r := range p.Rules {
		constraints = append(constraints, r.Constraints...)
	}
	//
	return constraints
}

// ValidationError reports one or more problems with the shape of a profile.
// Such problems are not recoverable.
type ValidationError struct {
	Errors []string
}

// NewValidationError constructs a validation error with a single message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{[]string{fmt.Sprintf(format, args...)}}
}

func (p *ValidationError) Error() string {
	return "invalid profile: " + strings.Join(p.Errors, "; ")
}

// Validate checks that this profile is well-formed.  Specifically, that field
// names are unique, every constraint references known fields, and operands are
// compatible with the types of the fields they constrain.
func (p *Profile) Validate() error {
	var (
		errs []string
		seen = make(map[string]bool)
	)
	//
	for _, f := range p.Fields {
		if f.Name == "" {
			errs = append(errs, "field with empty name")
		} else if seen[f.Name] {
			errs = append(errs, fmt.Sprintf("duplicate field \"%s\"", f.Name))
		}
		//
		seen[f.Name] = true
	}
	//
	for _, r := range p.Rules {
		for _, c := range r.Constraints {
			errs = append(errs, p.validate(c)...)
		}
	}
	//
	if len(errs) > 0 {
		return &ValidationError{errs}
	}
	//
	return nil
}

func (p *Profile) validate(constraint Constraint) []string {
	switch c := constraint.(type) {
	case *Atomic:
		return p.validateAtomic(c)
	case *Relation:
		return p.validateRelation(c)
	case *InMap:
		return p.validateInMap(c)
	case *Not:
		return p.validate(c.Constraint)
	case *AllOf:
		return p.validateAll(c.Constraints)
	case *AnyOf:
		if len(c.Constraints) == 0 {
			return []string{"anyOf requires at least one constraint"}
		}
		//
		return p.validateAll(c.Constraints)
	case *Conditional:
		errs := p.validateAll([]Constraint{c.If, c.Then})
		//
		if c.Else != nil {
			errs = append(errs, p.validate(c.Else)...)
		}
		//
		return errs
	}
	//
	return []string{fmt.Sprintf("unknown constraint %s", constraint)}
}

func (p *Profile) validateAll(constraints []Constraint) []string {
	var errs []string
	//
	for _, c := range constraints {
		errs = append(errs, p.validate(c)...)
	}
	//
	return errs
}

func (p *Profile) validateAtomic(c *Atomic) []string {
	field, ok := p.Fields.Find(c.Field)
	//
	if !ok {
		return []string{fmt.Sprintf("unknown field \"%s\"", c.Field)}
	}
	//
	var errs []string
	//
	if t, ok := c.Kind.OperandType(); ok && t != field.Type {
		errs = append(errs, fmt.Sprintf("%s cannot be applied to %s field \"%s\"", c.Kind, field.Type, field.Name))
	}
	//
	switch c.Kind {
	case EqualTo, GreaterThan, GreaterThanOrEqualTo, LessThan, LessThanOrEqualTo, After, AfterOrAt, Before,
		BeforeOrAt:
		if c.Value.Type() != field.Type {
			errs = append(errs, fmt.Sprintf("%s value %s is not a %s", c.Kind, c.Value, field.Type))
		}
	case InSet:
		for _, v := range c.Set {
			if v.Value.Type() != field.Type {
				errs = append(errs, fmt.Sprintf("inSet value %s is not a %s", v.Value, field.Type))
			} else if v.Weight < 0 {
				errs = append(errs, fmt.Sprintf("inSet value %s has negative weight", v.Value))
			}
		}
	case MatchingRegex, ContainingRegex:
		if _, err := regexp.Compile(c.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("invalid regular expression /%s/", c.Pattern))
		}
	case OfLength, LongerThan, ShorterThan:
		if c.Length < 0 {
			errs = append(errs, fmt.Sprintf("%s requires a non-negative length", c.Kind))
		}
	case GranularTo:
		if field.Type == String {
			errs = append(errs, fmt.Sprintf("granularTo cannot be applied to string field \"%s\"", field.Name))
		}
	}
	//
	return errs
}

func (p *Profile) validateRelation(c *Relation) []string {
	field, ok1 := p.Fields.Find(c.Field)
	other, ok2 := p.Fields.Find(c.Other)
	//
	switch {
	case !ok1:
		return []string{fmt.Sprintf("unknown field \"%s\"", c.Field)}
	case !ok2:
		return []string{fmt.Sprintf("unknown field \"%s\"", c.Other)}
	case c.Field == c.Other:
		return []string{fmt.Sprintf("field \"%s\" cannot be related to itself", c.Field)}
	case field.Type != other.Type:
		return []string{fmt.Sprintf("cannot relate %s field \"%s\" to %s field \"%s\"", field.Type, field.Name,
			other.Type, other.Name)}
	case field.Type == String && c.Kind != EqualToField && c.Kind != NotEqualToField:
		return []string{fmt.Sprintf("%s cannot be applied to string field \"%s\"", c.Kind, field.Name)}
	case field.Type == String && c.HasOffset():
		return []string{fmt.Sprintf("offsets cannot be applied to string field \"%s\"", field.Name)}
	}
	//
	return nil
}

func (p *Profile) validateInMap(c *InMap) []string {
	field, ok1 := p.Fields.Find(c.Field)
	controller, ok2 := p.Fields.Find(c.Controller)
	//
	switch {
	case !ok1:
		return []string{fmt.Sprintf("unknown field \"%s\"", c.Field)}
	case !ok2 || !controller.Internal || controller.Type != Numeric:
		return []string{fmt.Sprintf("invalid inMap controller \"%s\"", c.Controller)}
	case len(c.Values) == 0:
		return []string{fmt.Sprintf("inMap for field \"%s\" has no values", c.Field)}
	}
	//
	var errs []string
	//
	for _, v := range c.Values {
		if v.Type() != field.Type {
			errs = append(errs, fmt.Sprintf("inMap value %s is not a %s", v, field.Type))
			break
		}
	}
	//
	return errs
}
