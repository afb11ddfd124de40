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
	"strconv"
	"strings"

	"github.com/consensys/go-datagen/pkg/restriction"
)

// Constraint represents the closed family of constraints which can appear in
// a profile: *Atomic, *Relation, *InMap, *Not, *AllOf, *AnyOf and
// *Conditional.
type Constraint interface {
	fmt.Stringer
	// Fields returns the names of all fields referenced by this constraint.
	Fields() []string
	// Prevents outside implementations.
	constraint()
}

// Kind identifies the operation performed by an atomic constraint.
type Kind uint8

const (
	// EqualTo requires a field to equal a given value.
	EqualTo Kind = iota
	// InSet requires a field to be one of a given set of values.
	InSet
	// IsNull requires a field to be null.
	IsNull
	// MatchingRegex requires a string field to fully match a regex.
	MatchingRegex
	// ContainingRegex requires a string field to contain a match for a regex.
	ContainingRegex
	// OfLength requires a string field to have an exact length.
	OfLength
	// LongerThan requires a string field to be strictly longer than a length.
	LongerThan
	// ShorterThan requires a string field to be strictly shorter than a
	// length.
	ShorterThan
	// GreaterThan requires a numeric field to exceed a value.
	GreaterThan
	// GreaterThanOrEqualTo requires a numeric field to be at least a value.
	GreaterThanOrEqualTo
	// LessThan requires a numeric field to be below a value.
	LessThan
	// LessThanOrEqualTo requires a numeric field to be at most a value.
	LessThanOrEqualTo
	// After requires a datetime field to be after a value.
	After
	// AfterOrAt requires a datetime field to be at or after a value.
	AfterOrAt
	// Before requires a datetime field to be before a value.
	Before
	// BeforeOrAt requires a datetime field to be at or before a value.
	BeforeOrAt
	// GranularTo requires a numeric or datetime field to lie on a given
	// granularity.
	GranularTo
)

var kindNames = []string{
	"equalTo", "inSet", "isNull", "matchingRegex", "containingRegex", "ofLength", "longerThan", "shorterThan",
	"greaterThan", "greaterThanOrEqualTo", "lessThan", "lessThanOrEqualTo", "after", "afterOrAt", "before",
	"beforeOrAt", "granularTo",
}

// ParseKind parses the name of an atomic constraint, such as "lessThan".
func ParseKind(name string) (Kind, bool) {
	i := slices.Index(kindNames, name)
	//
	return Kind(max(i, 0)), i >= 0
}

func (p Kind) String() string {
	return kindNames[p]
}

// OperandType returns the type of field to which this kind of constraint
// applies, or false if it applies to fields of any type.
func (p Kind) OperandType() (FieldType, bool) {
	switch p {
	case MatchingRegex, ContainingRegex, OfLength, LongerThan, ShorterThan:
		return String, true
	case GreaterThan, GreaterThanOrEqualTo, LessThan, LessThanOrEqualTo:
		return Numeric, true
	case After, AfterOrAt, Before, BeforeOrAt:
		return DateTime, true
	}
	//
	return 0, false
}

// ============================================================================
// Atomic
// ============================================================================

// Atomic is a constraint on a single field against constant operands.  Only
// the operand relevant to the given kind is meaningful.
type Atomic struct {
	Kind  Kind
	Field string
	// Operand of equality and comparison constraints.
	Value Value
	// Operand of set membership constraints.
	Set []WeightedValue
	// Operand of regular expression constraints.
	Pattern string
	// Operand of length constraints.
	Length int
	// Operand of numeric granularity constraints.
	Scale int32
	// Operand of datetime granularity constraints.
	Unit restriction.TimeUnit
}

// Fields implementation for Constraint interface.
func (p *Atomic) Fields() []string {
	return []string{p.Field}
}

// Key returns a canonical identifier for this constraint, such that two atomic
// constraints with the same key are equivalent.
func (p *Atomic) Key() string {
	return fmt.Sprintf("%s %s", p.Field, p.operand())
}

func (p *Atomic) operand() string {
	switch p.Kind {
	case IsNull:
		return p.Kind.String()
	case InSet:
		// Elements are quoted, since values may contain separators
		values := make([]string, len(p.Set))
		//
		for i, v := range p.Set {
			values[i] = fmt.Sprintf("%s@%s", strconv.Quote(v.Value.Hash()),
				strconv.FormatFloat(v.Weight, 'g', -1, 64))
		}
		//
		return fmt.Sprintf("%s [%s]", p.Kind, strings.Join(values, ", "))
	case MatchingRegex, ContainingRegex:
		return fmt.Sprintf("%s %s", p.Kind, strconv.Quote(p.Pattern))
	case OfLength, LongerThan, ShorterThan:
		return fmt.Sprintf("%s %d", p.Kind, p.Length)
	case GranularTo:
		return fmt.Sprintf("%s %d/%s", p.Kind, p.Scale, p.Unit)
	default:
		return fmt.Sprintf("%s %s", p.Kind, p.Value)
	}
}

func (p *Atomic) String() string {
	return p.Key()
}

func (p *Atomic) constraint() {}

// ============================================================================
// Relation
// ============================================================================

// RelationKind identifies the operation performed by a relation between two
// fields.
type RelationKind uint8

const (
	// EqualToField requires a field to equal another (plus an offset).
	EqualToField RelationKind = iota
	// NotEqualToField requires a field to differ from another.
	NotEqualToField
	// AfterField requires a field to be greater than another.
	AfterField
	// AfterOrAtField requires a field to be at least another.
	AfterOrAtField
	// BeforeField requires a field to be less than another.
	BeforeField
	// BeforeOrAtField requires a field to be at most another.
	BeforeOrAtField
)

var relationKindNames = []string{
	"equalToField", "notEqualToField", "afterField", "afterOrAtField", "beforeField", "beforeOrAtField",
}

// ParseRelationKind parses the name of a relation, such as "afterField".
func ParseRelationKind(name string) (RelationKind, bool) {
	i := slices.Index(relationKindNames, name)
	//
	return RelationKind(max(i, 0)), i >= 0
}

func (p RelationKind) String() string {
	return relationKindNames[p]
}

// Relation is a constraint between two fields, whose resolution is delayed
// until a value for the other field has been generated.
type Relation struct {
	Kind  RelationKind
	Field string
	Other string
	// Offset applied to the other field's value.  For datetime fields this is
	// measured in the given unit; for numeric fields, in whole numbers.
	Offset int
	Unit   restriction.TimeUnit
}

// Fields implementation for Constraint interface.
func (p *Relation) Fields() []string {
	return []string{p.Field, p.Other}
}

// HasOffset checks whether this relation carries a non-zero offset.
func (p *Relation) HasOffset() bool {
	return p.Offset != 0
}

// Key returns a canonical identifier for this relation.
func (p *Relation) Key() string {
	return p.String()
}

func (p *Relation) String() string {
	if p.HasOffset() {
		return fmt.Sprintf("%s %s %s %+d %s", p.Field, p.Kind, p.Other, p.Offset, p.Unit)
	}
	//
	return fmt.Sprintf("%s %s %s", p.Field, p.Kind, p.Other)
}

func (p *Relation) constraint() {}

// ============================================================================
// InMap
// ============================================================================

// InMap is a constraint tying a field to a column of an external lookup table.
// Every field drawn from the same table shares a controller field, whose value
// identifies the row from which all such fields are taken.
type InMap struct {
	Field string
	// Internal field holding the row index.
	Controller string
	// Column of the lookup table.
	Values []Value
}

// Fields implementation for Constraint interface.
func (p *InMap) Fields() []string {
	return []string{p.Field, p.Controller}
}

func (p *InMap) String() string {
	return fmt.Sprintf("%s inMap %s[%d]", p.Field, p.Controller, len(p.Values))
}

func (p *InMap) constraint() {}

// ============================================================================
// Logical
// ============================================================================

// Not negates a constraint.
type Not struct {
	Constraint Constraint
}

// Fields implementation for Constraint interface.
func (p *Not) Fields() []string {
	return p.Constraint.Fields()
}

func (p *Not) String() string {
	return fmt.Sprintf("not(%s)", p.Constraint)
}

func (p *Not) constraint() {}

// AllOf is the conjunction of zero or more constraints.
type AllOf struct {
	Constraints []Constraint
}

// Fields implementation for Constraint interface.
func (p *AllOf) Fields() []string {
	return fieldsOf(p.Constraints...)
}

func (p *AllOf) String() string {
	return fmt.Sprintf("allOf(%s)", join(p.Constraints))
}

func (p *AllOf) constraint() {}

// AnyOf is the disjunction of one or more constraints.
type AnyOf struct {
	Constraints []Constraint
}

// Fields implementation for Constraint interface.
func (p *AnyOf) Fields() []string {
	return fieldsOf(p.Constraints...)
}

func (p *AnyOf) String() string {
	return fmt.Sprintf("anyOf(%s)", join(p.Constraints))
}

func (p *AnyOf) constraint() {}

// Conditional requires its Then branch whenever its If condition holds and,
// when present, its Else branch otherwise.
type Conditional struct {
	If   Constraint
	Then Constraint
	// Else is nil when absent.
	Else Constraint
}

// Fields implementation for Constraint interface.
func (p *Conditional) Fields() []string {
	if p.Else == nil {
		return fieldsOf(p.If, p.Then)
	}
	//
	return fieldsOf(p.If, p.Then, p.Else)
}

func (p *Conditional) String() string {
	if p.Else == nil {
		return fmt.Sprintf("if(%s, %s)", p.If, p.Then)
	}
	//
	return fmt.Sprintf("if(%s, %s, %s)", p.If, p.Then, p.Else)
}

func (p *Conditional) constraint() {}

func fieldsOf(constraints ...Constraint) []string {
	var fields []string
	//
	for _, c := range constraints {
		for _, f := range c.Fields() {
			if !slices.Contains(fields, f) {
				fields = append(fields, f)
			}
		}
	}
	//
	return fields
}

func join(constraints []Constraint) string {
	strs := make([]string, len(constraints))
	//
	for i, c := range constraints {
		strs[i] = c.String()
	}
	//
	return strings.Join(strs, ", ")
}
