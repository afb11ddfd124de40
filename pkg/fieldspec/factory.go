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
	"fmt"

	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
)

// Factory constructs the FieldSpec described by an atomic constraint (or its
// negation).
type Factory struct{}

// Construct the FieldSpec permitting exactly those values of a field which
// satisfy a given atomic constraint, or which violate it when negated.  Null
// satisfies every constraint other than equality, set membership and the
// negation of is-null.  This fails for constraints which cannot be negated, or whose
// operands do not suit the field's type.
func (f Factory) Construct(atomic *profile.Atomic, fieldType profile.FieldType, negate bool) (FieldSpec, error) {
	if operand, ok := atomic.Kind.OperandType(); ok && operand != fieldType {
		return FieldSpec{}, fmt.Errorf("%s cannot apply to %s field %s", atomic.Kind, fieldType, atomic.Field)
	}
	//
	switch atomic.Kind {
	case profile.EqualTo:
		return f.constructEqualTo(atomic, fieldType, negate)
	case profile.InSet:
		return f.constructInSet(atomic, fieldType, negate)
	case profile.IsNull:
		if negate {
			return FromType(fieldType).WithNotNull(), nil
		}
		//
		return NullOnly(fieldType), nil
	case profile.MatchingRegex:
		r, err := restriction.ForMatching(atomic.Pattern, negate)
		//
		return fromString(r, err)
	case profile.ContainingRegex:
		r, err := restriction.ForContaining(atomic.Pattern, negate)
		//
		return fromString(r, err)
	case profile.OfLength:
		return FromRestriction(fieldType, restriction.ForLength(atomic.Length, negate)), nil
	case profile.LongerThan:
		if negate {
			return FromRestriction(fieldType, restriction.ForMaxLength(atomic.Length)), nil
		}
		//
		return FromRestriction(fieldType, restriction.ForMinLength(atomic.Length+1)), nil
	case profile.ShorterThan:
		if negate {
			return FromRestriction(fieldType, restriction.ForMinLength(atomic.Length)), nil
		}
		//
		return FromRestriction(fieldType, restriction.ForMaxLength(atomic.Length-1)), nil
	case profile.GreaterThan, profile.GreaterThanOrEqualTo, profile.LessThan, profile.LessThanOrEqualTo:
		return f.constructNumeric(atomic, negate), nil
	case profile.After, profile.AfterOrAt, profile.Before, profile.BeforeOrAt:
		return f.constructDateTime(atomic, negate), nil
	case profile.GranularTo:
		return f.constructGranularTo(atomic, fieldType, negate)
	}
	//
	panic(fmt.Sprintf("unknown constraint kind %s", atomic.Kind))
}

func (f Factory) constructEqualTo(atomic *profile.Atomic, fieldType profile.FieldType,
	negate bool) (FieldSpec, error) {
	if atomic.Value.Type() != fieldType {
		return FieldSpec{}, fmt.Errorf("%s value %s cannot apply to %s field %s", atomic.Value.Type(),
			atomic.Value, fieldType, atomic.Field)
	}
	//
	if negate {
		return FromType(fieldType).WithBlacklist(atomic.Value), nil
	}
	//
	return FromWhitelist(fieldType, Uniform(atomic.Value)).WithNotNull(), nil
}

func (f Factory) constructInSet(atomic *profile.Atomic, fieldType profile.FieldType, negate bool) (FieldSpec, error) {
	values := make([]profile.Value, len(atomic.Set))
	//
	for i, v := range atomic.Set {
		if v.Value.Type() != fieldType {
			return FieldSpec{}, fmt.Errorf("%s value %s cannot apply to %s field %s", v.Value.Type(), v.Value,
				fieldType, atomic.Field)
		}
		//
		values[i] = v.Value
	}
	//
	if negate {
		return FromType(fieldType).WithBlacklist(values...), nil
	}
	//
	set, err := NewWeightedSet(atomic.Set)
	//
	if err != nil {
		return FieldSpec{}, fmt.Errorf("invalid set for field %s: %w", atomic.Field, err)
	}
	//
	return FromWhitelist(fieldType, set).WithNotNull(), nil
}

func (f Factory) constructNumeric(atomic *profile.Atomic, negate bool) FieldSpec {
	var (
		value = atomic.Value.Numeric()
		lower = restriction.Inclusive(restriction.NumericMin)
		upper = restriction.Inclusive(restriction.NumericMax)
	)
	//
	switch {
	case atomic.Kind == profile.GreaterThan && !negate:
		lower = restriction.Exclusive(value)
	case atomic.Kind == profile.GreaterThan:
		upper = restriction.Inclusive(value)
	case atomic.Kind == profile.GreaterThanOrEqualTo && !negate:
		lower = restriction.Inclusive(value)
	case atomic.Kind == profile.GreaterThanOrEqualTo:
		upper = restriction.Exclusive(value)
	case atomic.Kind == profile.LessThan && !negate:
		upper = restriction.Exclusive(value)
	case atomic.Kind == profile.LessThan:
		lower = restriction.Inclusive(value)
	case atomic.Kind == profile.LessThanOrEqualTo && !negate:
		upper = restriction.Inclusive(value)
	default:
		lower = restriction.Exclusive(value)
	}
	//
	r := restriction.NewNumeric(lower, upper, restriction.DefaultNumericScale)
	//
	return FromRestriction(profile.Numeric, r)
}

func (f Factory) constructDateTime(atomic *profile.Atomic, negate bool) FieldSpec {
	var (
		value = atomic.Value.DateTime()
		lower = restriction.Inclusive(restriction.DateTimeMin)
		upper = restriction.Inclusive(restriction.DateTimeMax)
	)
	//
	switch {
	case atomic.Kind == profile.After && !negate:
		lower = restriction.Exclusive(value)
	case atomic.Kind == profile.After:
		upper = restriction.Inclusive(value)
	case atomic.Kind == profile.AfterOrAt && !negate:
		lower = restriction.Inclusive(value)
	case atomic.Kind == profile.AfterOrAt:
		upper = restriction.Exclusive(value)
	case atomic.Kind == profile.Before && !negate:
		upper = restriction.Exclusive(value)
	case atomic.Kind == profile.Before:
		lower = restriction.Inclusive(value)
	case atomic.Kind == profile.BeforeOrAt && !negate:
		upper = restriction.Inclusive(value)
	default:
		lower = restriction.Exclusive(value)
	}
	//
	r := restriction.NewDateTime(lower, upper, restriction.NewDateTimeGranularity(restriction.Millis))
	//
	return FromRestriction(profile.DateTime, r)
}

func (f Factory) constructGranularTo(atomic *profile.Atomic, fieldType profile.FieldType,
	negate bool) (FieldSpec, error) {
	if negate {
		return FieldSpec{}, fmt.Errorf("granularTo on field %s cannot be negated", atomic.Field)
	}
	//
	switch fieldType {
	case profile.Numeric:
		return FromRestriction(fieldType, restriction.AllNumeric(atomic.Scale)), nil
	case profile.DateTime:
		granularity := restriction.NewDateTimeGranularity(atomic.Unit)
		//
		return FromRestriction(fieldType, restriction.AllDateTime(granularity)), nil
	default:
		return FieldSpec{}, fmt.Errorf("granularTo cannot apply to string field %s", atomic.Field)
	}
}

func fromString(r *restriction.String, err error) (FieldSpec, error) {
	if err != nil {
		return FieldSpec{}, err
	}
	//
	return FromRestriction(profile.String, r), nil
}
