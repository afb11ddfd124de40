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
	"slices"
	"strings"

	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/hashicorp/go-set/v2"
)

// Blacklist is a set of values which are not permitted.
type Blacklist = set.HashSet[profile.Value, string]

// Representation is the closed family of ways in which the permitted
// (non-null) values of a field can be described: *Whitelist, *Restricted or
// *Unrestricted.
type Representation interface {
	representation()
}

// Whitelist permits exactly those values in a weighted set.
type Whitelist struct {
	Values *WeightedSet
}

// Restricted permits those values permitted by a typed restriction, other than
// those in a blacklist.  A nil restriction permits the whole domain of the
// field's type.
type Restricted struct {
	Restriction restriction.Restriction
	Blacklist   *Blacklist
}

// Unrestricted permits every value of the field's type.
type Unrestricted struct{}

func (p *Whitelist) representation()    {}
func (p *Restricted) representation()   {}
func (p *Unrestricted) representation() {}

// FieldSpec summarises which values are currently permitted for a field.  A
// FieldSpec is immutable, with every transformation returning a new value.
type FieldSpec struct {
	fieldType profile.FieldType
	nullable  bool
	repr      Representation
}

// FromType constructs a FieldSpec permitting every value of a given type,
// including null.
func FromType(fieldType profile.FieldType) FieldSpec {
	return FieldSpec{fieldType, true, &Unrestricted{}}
}

// NullOnly constructs a FieldSpec permitting only null.
func NullOnly(fieldType profile.FieldType) FieldSpec {
	return FieldSpec{fieldType, true, &Whitelist{Uniform()}}
}

// FromWhitelist constructs a FieldSpec permitting only the values of a given
// set, along with null.
func FromWhitelist(fieldType profile.FieldType, values *WeightedSet) FieldSpec {
	return FieldSpec{fieldType, true, &Whitelist{values}}
}

// FromRestriction constructs a FieldSpec permitting only those values
// permitted by a given restriction, along with null.
func FromRestriction(fieldType profile.FieldType, r restriction.Restriction) FieldSpec {
	return FieldSpec{fieldType, true, &Restricted{r, emptyBlacklist()}}
}

func emptyBlacklist() *Blacklist {
	return set.NewHashSet[profile.Value, string](0)
}

// Type returns the type of field described by this FieldSpec.
func (p FieldSpec) Type() profile.FieldType {
	return p.fieldType
}

// IsNullable checks whether null is permitted.
func (p FieldSpec) IsNullable() bool {
	return p.nullable
}

// Representation returns the description of non-null values permitted.
func (p FieldSpec) Representation() Representation {
	return p.repr
}

// Whitelist returns the set of permitted values, or false if this FieldSpec is
// not described by a whitelist.
func (p FieldSpec) Whitelist() (*WeightedSet, bool) {
	if w, ok := p.repr.(*Whitelist); ok {
		return w.Values, true
	}
	//
	return nil, false
}

// Restriction returns the typed restriction of this FieldSpec, or nil if there
// is none.
func (p FieldSpec) Restriction() restriction.Restriction {
	if r, ok := p.repr.(*Restricted); ok {
		return r.Restriction
	}
	//
	return nil
}

// Blacklist returns the values excluded from this FieldSpec's restriction, in
// a deterministic order.
func (p FieldSpec) Blacklist() []profile.Value {
	r, ok := p.repr.(*Restricted)
	//
	if !ok {
		return nil
	}
	//
	values := r.Blacklist.Slice()
	slices.SortFunc(values, func(a, b profile.Value) int { return strings.Compare(a.Hash(), b.Hash()) })
	//
	return values
}

// WithNotNull returns a copy of this FieldSpec which does not permit null.
func (p FieldSpec) WithNotNull() FieldSpec {
	return FieldSpec{p.fieldType, false, p.repr}
}

// WithWhitelist returns a copy of this FieldSpec described by a given
// whitelist.
func (p FieldSpec) WithWhitelist(values *WeightedSet) FieldSpec {
	return FieldSpec{p.fieldType, p.nullable, &Whitelist{values}}
}

// WithRestriction returns a copy of this FieldSpec with a given restriction,
// retaining any existing blacklist.  A whitelist is filtered by the
// restriction.
func (p FieldSpec) WithRestriction(r restriction.Restriction) FieldSpec {
	switch repr := p.repr.(type) {
	case *Whitelist:
		filtered := FromRestriction(p.fieldType, r)
		return p.WithWhitelist(repr.Values.Filter(filtered.Permits))
	case *Restricted:
		return FieldSpec{p.fieldType, p.nullable, &Restricted{r, repr.Blacklist}}
	default:
		return FieldSpec{p.fieldType, p.nullable, &Restricted{r, emptyBlacklist()}}
	}
}

// WithBlacklist returns a copy of this FieldSpec which additionally excludes
// the given values.  A whitelist is filtered directly.
func (p FieldSpec) WithBlacklist(values ...profile.Value) FieldSpec {
	switch repr := p.repr.(type) {
	case *Whitelist:
		excluded := set.HashSetFrom[profile.Value, string](values)
		//
		return p.WithWhitelist(repr.Values.Filter(func(v profile.Value) bool {
			return !excluded.Contains(v)
		}))
	case *Restricted:
		blacklist := repr.Blacklist.Copy()
		blacklist.InsertSlice(values)
		//
		return FieldSpec{p.fieldType, p.nullable, &Restricted{repr.Restriction, blacklist}}
	default:
		blacklist := set.HashSetFrom[profile.Value, string](values)
		//
		return FieldSpec{p.fieldType, p.nullable, &Restricted{nil, blacklist}}
	}
}

// Permits checks whether a given (non-null) value is permitted.
func (p FieldSpec) Permits(value profile.Value) bool {
	if value.Type() != p.fieldType {
		return false
	}
	//
	switch repr := p.repr.(type) {
	case *Whitelist:
		return repr.Values.Contains(value)
	case *Restricted:
		return !repr.Blacklist.Contains(value) && restrictionPermits(repr.Restriction, value)
	default:
		return true
	}
}

func restrictionPermits(r restriction.Restriction, value profile.Value) bool {
	switch r := r.(type) {
	case nil:
		return true
	case *restriction.Numeric:
		return r.Permits(value.Numeric())
	case *restriction.DateTime:
		return r.Permits(value.DateTime())
	case *restriction.String:
		return r.Permits(value.Str())
	}
	//
	panic(fmt.Sprintf("unknown restriction %s", r))
}

// IsContradictory checks whether this FieldSpec permits no values at all
// (including null).
func (p FieldSpec) IsContradictory() bool {
	if p.nullable {
		return false
	}
	//
	switch repr := p.repr.(type) {
	case *Whitelist:
		return repr.Values.IsEmpty()
	case *Restricted:
		return repr.Restriction != nil && repr.Restriction.IsContradictory()
	default:
		return false
	}
}

// Equals checks whether two FieldSpecs describe the same values in the same
// way (ignoring weights).
func (p FieldSpec) Equals(other FieldSpec) bool {
	return p.String() == other.String()
}

func (p FieldSpec) String() string {
	var (
		builder strings.Builder
		null    = "not null"
	)
	//
	if p.nullable {
		null = "nullable"
	}
	//
	switch repr := p.repr.(type) {
	case *Whitelist:
		builder.WriteString(fmt.Sprintf("%s in %s", p.fieldType, repr.Values))
	case *Restricted:
		if repr.Restriction != nil {
			builder.WriteString(fmt.Sprintf("%s %s", p.fieldType, repr.Restriction))
		} else {
			builder.WriteString(p.fieldType.String())
		}
		//
		if blacklist := p.Blacklist(); len(blacklist) > 0 {
			builder.WriteString(fmt.Sprintf(" not in %v", blacklist))
		}
	default:
		builder.WriteString(p.fieldType.String())
	}
	//
	builder.WriteString(" (")
	builder.WriteString(null)
	builder.WriteString(")")
	//
	return builder.String()
}
