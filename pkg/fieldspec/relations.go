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
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/shopspring/decimal"
)

// Relation describes a constraint between a main field and some other field
// which can only be resolved once a value (or a FieldSpec) for the other field
// is known.
type Relation interface {
	fmt.Stringer
	// Main returns the field constrained by this relation.
	Main() string
	// Other returns the field against which the main field is constrained.
	Other() string
	// CreateModifierFromOtherValue returns the FieldSpec which the main field
	// must satisfy, given a generated value for the other field (where None
	// represents null).
	CreateModifierFromOtherValue(value util.Option[profile.Value]) FieldSpec
	// CreateModifierFromOtherFieldSpec returns a FieldSpec approximating the
	// values permitted for the main field, given the FieldSpec of the other
	// field.
	CreateModifierFromOtherFieldSpec(other FieldSpec) FieldSpec
	// Inverse returns the equivalent relation with main and other fields
	// swapped.
	Inverse() Relation
	// Negate returns the relation which holds exactly when this relation does
	// not, or an error if no such relation exists.
	Negate() (Relation, error)
}

// NewRelation constructs the relation described by a given cross-field
// constraint on fields of a given type.
func NewRelation(r *profile.Relation, fieldType profile.FieldType, negate bool) (Relation, error) {
	var (
		offset = Offset{fieldType, r.Offset, r.Unit}
		rel    Relation
	)
	//
	switch r.Kind {
	case profile.EqualToField:
		rel = &EqualTo{r.Field, r.Other, fieldType, offset}
	case profile.NotEqualToField:
		if r.HasOffset() {
			return nil, fmt.Errorf("relation %s cannot have an offset", r)
		}
		//
		rel = &NotEqualTo{r.Field, r.Other, fieldType}
	case profile.AfterField, profile.AfterOrAtField:
		rel = &After{r.Field, r.Other, fieldType, r.Kind == profile.AfterOrAtField, offset}
	case profile.BeforeField, profile.BeforeOrAtField:
		rel = &Before{r.Field, r.Other, fieldType, r.Kind == profile.BeforeOrAtField, offset}
	default:
		panic(fmt.Sprintf("unknown relation kind %s", r.Kind))
	}
	//
	if (r.Kind != profile.EqualToField && r.Kind != profile.NotEqualToField) && fieldType == profile.String {
		return nil, fmt.Errorf("relation %s cannot apply to string fields", r)
	}
	//
	if negate {
		return rel.Negate()
	}
	//
	return rel, nil
}

// NewInMapRelation constructs the relation tying a field to the controller of
// its lookup table.
func NewInMapRelation(m *profile.InMap, fieldType profile.FieldType) Relation {
	return &InMap{m.Field, m.Controller, fieldType, m.Values}
}

// ============================================================================
// Offset
// ============================================================================

// Offset is a fixed displacement applied to the value of the other field of a
// relation.  Numeric offsets are whole numbers, whilst datetime offsets are
// measured in a given unit.
type Offset struct {
	fieldType profile.FieldType
	amount    int
	unit      restriction.TimeUnit
}

// IsZero checks whether this offset has no effect.
func (p Offset) IsZero() bool {
	return p.amount == 0
}

// Negate returns the offset in the opposite direction.
func (p Offset) Negate() Offset {
	return Offset{p.fieldType, -p.amount, p.unit}
}

// Apply this offset to a given value.
func (p Offset) Apply(value profile.Value) profile.Value {
	if p.amount == 0 {
		return value
	}
	//
	switch value.Type() {
	case profile.Numeric:
		return profile.NumericValue(value.Numeric().Add(decimal.NewFromInt(int64(p.amount))))
	case profile.DateTime:
		return profile.DateTimeValue(p.unit.Add(value.DateTime(), p.amount))
	}
	//
	panic(fmt.Sprintf("cannot offset %s value", value.Type()))
}

func (p Offset) String() string {
	switch {
	case p.amount == 0:
		return ""
	case p.fieldType == profile.DateTime:
		return fmt.Sprintf(" %+d %s", p.amount, p.unit)
	default:
		return fmt.Sprintf(" %+d", p.amount)
	}
}

// ============================================================================
// Equality
// ============================================================================

// EqualTo requires the main field to equal the other field (plus an offset).
type EqualTo struct {
	main      string
	other     string
	fieldType profile.FieldType
	offset    Offset
}

// Main implementation for Relation interface.
func (p *EqualTo) Main() string { return p.main }

// Other implementation for Relation interface.
func (p *EqualTo) Other() string { return p.other }

// CreateModifierFromOtherValue implementation for Relation interface.
func (p *EqualTo) CreateModifierFromOtherValue(value util.Option[profile.Value]) FieldSpec {
	if value.IsEmpty() {
		return FromType(p.fieldType)
	}
	//
	return FromWhitelist(p.fieldType, Uniform(p.offset.Apply(value.Unwrap()))).WithNotNull()
}

// CreateModifierFromOtherFieldSpec implementation for Relation interface.
func (p *EqualTo) CreateModifierFromOtherFieldSpec(other FieldSpec) FieldSpec {
	if p.offset.IsZero() {
		return FieldSpec{p.fieldType, true, other.repr}
	}
	//
	if w, ok := other.Whitelist(); ok {
		values := make([]profile.Value, 0, w.Len())
		//
		for _, v := range w.Values() {
			values = append(values, p.offset.Apply(v))
		}
		//
		return FromWhitelist(p.fieldType, Uniform(values...))
	}
	//
	if lo, hi, ok := linearBounds(other); ok {
		return fromLinearBounds(p.fieldType, restriction.Inclusive(p.offset.Apply(lo)),
			restriction.Inclusive(p.offset.Apply(hi)))
	}
	//
	return FromType(p.fieldType)
}

// Inverse implementation for Relation interface.
func (p *EqualTo) Inverse() Relation {
	return &EqualTo{p.other, p.main, p.fieldType, p.offset.Negate()}
}

// Negate implementation for Relation interface.
func (p *EqualTo) Negate() (Relation, error) {
	if !p.offset.IsZero() {
		return nil, fmt.Errorf("relation %s cannot be negated", p)
	}
	//
	return &NotEqualTo{p.main, p.other, p.fieldType}, nil
}

func (p *EqualTo) String() string {
	return fmt.Sprintf("%s = %s%s", p.main, p.other, p.offset)
}

// NotEqualTo requires the main field to differ from the other field.
type NotEqualTo struct {
	main      string
	other     string
	fieldType profile.FieldType
}

// Main implementation for Relation interface.
func (p *NotEqualTo) Main() string { return p.main }

// Other implementation for Relation interface.
func (p *NotEqualTo) Other() string { return p.other }

// CreateModifierFromOtherValue implementation for Relation interface.
func (p *NotEqualTo) CreateModifierFromOtherValue(value util.Option[profile.Value]) FieldSpec {
	if value.IsEmpty() {
		return FromType(p.fieldType)
	}
	//
	return FromType(p.fieldType).WithBlacklist(value.Unwrap())
}

// CreateModifierFromOtherFieldSpec implementation for Relation interface.
func (p *NotEqualTo) CreateModifierFromOtherFieldSpec(other FieldSpec) FieldSpec {
	return FromType(p.fieldType)
}

// Inverse implementation for Relation interface.
func (p *NotEqualTo) Inverse() Relation {
	return &NotEqualTo{p.other, p.main, p.fieldType}
}

// Negate implementation for Relation interface.
func (p *NotEqualTo) Negate() (Relation, error) {
	return &EqualTo{p.main, p.other, p.fieldType, Offset{fieldType: p.fieldType}}, nil
}

func (p *NotEqualTo) String() string {
	return fmt.Sprintf("%s != %s", p.main, p.other)
}

// ============================================================================
// Ordering
// ============================================================================

// After requires the main field to be greater than (or, when inclusive, at
// least) the other field plus an offset.
type After struct {
	main      string
	other     string
	fieldType profile.FieldType
	inclusive bool
	offset    Offset
}

// Main implementation for Relation interface.
func (p *After) Main() string { return p.main }

// Other implementation for Relation interface.
func (p *After) Other() string { return p.other }

// CreateModifierFromOtherValue implementation for Relation interface.
func (p *After) CreateModifierFromOtherValue(value util.Option[profile.Value]) FieldSpec {
	if value.IsEmpty() {
		return FromType(p.fieldType)
	}
	//
	return p.above(value.Unwrap())
}

// CreateModifierFromOtherFieldSpec implementation for Relation interface.
func (p *After) CreateModifierFromOtherFieldSpec(other FieldSpec) FieldSpec {
	if lo, _, ok := linearBounds(other); ok {
		return p.above(lo)
	}
	//
	return FromType(p.fieldType)
}

func (p *After) above(value profile.Value) FieldSpec {
	bound := p.offset.Apply(value)
	//
	return fromLinearBounds(p.fieldType, limitOf(bound, p.inclusive), domainMax(p.fieldType))
}

// Inverse implementation for Relation interface.
func (p *After) Inverse() Relation {
	return &Before{p.other, p.main, p.fieldType, p.inclusive, p.offset.Negate()}
}

// Negate implementation for Relation interface.
func (p *After) Negate() (Relation, error) {
	return &Before{p.main, p.other, p.fieldType, !p.inclusive, p.offset}, nil
}

func (p *After) String() string {
	op := ">"
	//
	if p.inclusive {
		op = ">="
	}
	//
	return fmt.Sprintf("%s %s %s%s", p.main, op, p.other, p.offset)
}

// Before requires the main field to be less than (or, when inclusive, at most)
// the other field plus an offset.
type Before struct {
	main      string
	other     string
	fieldType profile.FieldType
	inclusive bool
	offset    Offset
}

// Main implementation for Relation interface.
func (p *Before) Main() string { return p.main }

// Other implementation for Relation interface.
func (p *Before) Other() string { return p.other }

// CreateModifierFromOtherValue implementation for Relation interface.
func (p *Before) CreateModifierFromOtherValue(value util.Option[profile.Value]) FieldSpec {
	if value.IsEmpty() {
		return FromType(p.fieldType)
	}
	//
	return p.below(value.Unwrap())
}

// CreateModifierFromOtherFieldSpec implementation for Relation interface.
func (p *Before) CreateModifierFromOtherFieldSpec(other FieldSpec) FieldSpec {
	if _, hi, ok := linearBounds(other); ok {
		return p.below(hi)
	}
	//
	return FromType(p.fieldType)
}

func (p *Before) below(value profile.Value) FieldSpec {
	bound := p.offset.Apply(value)
	//
	return fromLinearBounds(p.fieldType, domainMin(p.fieldType), limitOf(bound, p.inclusive))
}

// Inverse implementation for Relation interface.
func (p *Before) Inverse() Relation {
	return &After{p.other, p.main, p.fieldType, p.inclusive, p.offset.Negate()}
}

// Negate implementation for Relation interface.
func (p *Before) Negate() (Relation, error) {
	return &After{p.main, p.other, p.fieldType, !p.inclusive, p.offset}, nil
}

func (p *Before) String() string {
	op := "<"
	//
	if p.inclusive {
		op = "<="
	}
	//
	return fmt.Sprintf("%s %s %s%s", p.main, op, p.other, p.offset)
}

// ============================================================================
// Lookup tables
// ============================================================================

// InMap requires the main field to hold the entry of a lookup table column
// identified by the (row index) value of its controller field.
type InMap struct {
	main      string
	other     string
	fieldType profile.FieldType
	values    []profile.Value
}

// Main implementation for Relation interface.
func (p *InMap) Main() string { return p.main }

// Other implementation for Relation interface.
func (p *InMap) Other() string { return p.other }

// Values returns the lookup table column for this relation.
func (p *InMap) Values() []profile.Value { return p.values }

// CreateModifierFromOtherValue implementation for Relation interface.
func (p *InMap) CreateModifierFromOtherValue(value util.Option[profile.Value]) FieldSpec {
	if value.IsEmpty() {
		return NullOnly(p.fieldType)
	}
	//
	index := value.Unwrap().Numeric().IntPart()
	//
	return FromWhitelist(p.fieldType, Uniform(p.values[index])).WithNotNull()
}

// CreateModifierFromOtherFieldSpec implementation for Relation interface.
func (p *InMap) CreateModifierFromOtherFieldSpec(other FieldSpec) FieldSpec {
	var values []profile.Value
	//
	for i, v := range p.values {
		if other.Permits(profile.IntValue(int64(i))) {
			values = append(values, v)
		}
	}
	//
	return FromWhitelist(p.fieldType, Uniform(values...))
}

// Inverse implementation for Relation interface.
func (p *InMap) Inverse() Relation {
	return &InMapIndex{p.other, p.main, p.fieldType, p.values}
}

// Negate implementation for Relation interface.
func (p *InMap) Negate() (Relation, error) {
	return nil, errors.New("inMap cannot be negated")
}

func (p *InMap) String() string {
	return fmt.Sprintf("%s in map[%s]", p.main, p.other)
}

// InMapIndex requires the main (controller) field to hold a row index of a
// lookup table column whose entry is the value of the other field.
type InMapIndex struct {
	main      string
	other     string
	fieldType profile.FieldType
	values    []profile.Value
}

// Main implementation for Relation interface.
func (p *InMapIndex) Main() string { return p.main }

// Other implementation for Relation interface.
func (p *InMapIndex) Other() string { return p.other }

// CreateModifierFromOtherValue implementation for Relation interface.
func (p *InMapIndex) CreateModifierFromOtherValue(value util.Option[profile.Value]) FieldSpec {
	return p.indicesWhere(func(v profile.Value) bool {
		return value.HasValue() && v.Equals(value.Unwrap())
	})
}

// CreateModifierFromOtherFieldSpec implementation for Relation interface.
func (p *InMapIndex) CreateModifierFromOtherFieldSpec(other FieldSpec) FieldSpec {
	return p.indicesWhere(other.Permits)
}

func (p *InMapIndex) indicesWhere(predicate func(profile.Value) bool) FieldSpec {
	var indices []profile.Value
	//
	for i, v := range p.values {
		if predicate(v) {
			indices = append(indices, profile.IntValue(int64(i)))
		}
	}
	//
	return FromWhitelist(profile.Numeric, Uniform(indices...)).WithNotNull()
}

// Inverse implementation for Relation interface.
func (p *InMapIndex) Inverse() Relation {
	return &InMap{p.other, p.main, p.fieldType, p.values}
}

// Negate implementation for Relation interface.
func (p *InMapIndex) Negate() (Relation, error) {
	return nil, errors.New("inMap cannot be negated")
}

func (p *InMapIndex) String() string {
	return fmt.Sprintf("%s indexes %s", p.main, p.other)
}

// ============================================================================
// Helpers
// ============================================================================

// Determine the least and greatest values permitted by a FieldSpec, where
// these are known.
func linearBounds(spec FieldSpec) (profile.Value, profile.Value, bool) {
	switch repr := spec.repr.(type) {
	case *Whitelist:
		values := repr.Values.Values()
		//
		if len(values) == 0 {
			return profile.Value{}, profile.Value{}, false
		}
		//
		return slices.MinFunc(values, compareValues), slices.MaxFunc(values, compareValues), true
	case *Restricted:
		switch r := repr.Restriction.(type) {
		case *restriction.Numeric:
			return profile.NumericValue(r.Min()), profile.NumericValue(r.Max()), true
		case *restriction.DateTime:
			return profile.DateTimeValue(r.Min()), profile.DateTimeValue(r.Max()), true
		}
	}
	//
	return profile.Value{}, profile.Value{}, false
}

func compareValues(l profile.Value, r profile.Value) int {
	switch l.Type() {
	case profile.Numeric:
		return l.Numeric().Cmp(r.Numeric())
	case profile.DateTime:
		return l.DateTime().Compare(r.DateTime())
	default:
		return 0
	}
}

func limitOf(value profile.Value, inclusive bool) restriction.Limit[profile.Value] {
	return restriction.Limit[profile.Value]{Value: value, Inclusive: inclusive}
}

func domainMin(fieldType profile.FieldType) restriction.Limit[profile.Value] {
	if fieldType == profile.Numeric {
		return restriction.Inclusive(profile.NumericValue(restriction.NumericMin))
	}
	//
	return restriction.Inclusive(profile.DateTimeValue(restriction.DateTimeMin))
}

func domainMax(fieldType profile.FieldType) restriction.Limit[profile.Value] {
	if fieldType == profile.Numeric {
		return restriction.Inclusive(profile.NumericValue(restriction.NumericMax))
	}
	//
	return restriction.Inclusive(profile.DateTimeValue(restriction.DateTimeMax))
}

// Construct a FieldSpec whose values lie between two bounds, at the finest
// granularity.
func fromLinearBounds(fieldType profile.FieldType, lower restriction.Limit[profile.Value],
	upper restriction.Limit[profile.Value]) FieldSpec {
	switch fieldType {
	case profile.Numeric:
		r := restriction.NewNumeric(
			restriction.Limit[decimal.Decimal]{Value: lower.Value.Numeric(), Inclusive: lower.Inclusive},
			restriction.Limit[decimal.Decimal]{Value: upper.Value.Numeric(), Inclusive: upper.Inclusive},
			restriction.DefaultNumericScale)
		//
		return FromRestriction(fieldType, r)
	case profile.DateTime:
		r := restriction.NewDateTime(
			restriction.Limit[time.Time]{Value: lower.Value.DateTime(), Inclusive: lower.Inclusive},
			restriction.Limit[time.Time]{Value: upper.Value.DateTime(), Inclusive: upper.Inclusive},
			restriction.NewDateTimeGranularity(restriction.Millis))
		//
		return FromRestriction(fieldType, r)
	}
	//
	panic(fmt.Sprintf("no linear bounds for %s fields", fieldType))
}
