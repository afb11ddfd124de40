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
package generation

import (
	"fmt"
	"strings"

	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util"
)

// DataBagValue is a generated value for a single field, which may be null.
type DataBagValue struct {
	value util.Option[profile.Value]
}

// NullValue constructs the null DataBagValue.
func NullValue() DataBagValue {
	return DataBagValue{util.None[profile.Value]()}
}

// ValueOf constructs a (non-null) DataBagValue.
func ValueOf(value profile.Value) DataBagValue {
	return DataBagValue{util.Some(value)}
}

// IsNull checks whether this is the null value.
func (p DataBagValue) IsNull() bool {
	return p.value.IsEmpty()
}

// Value returns the underlying value, which must not be null.
func (p DataBagValue) Value() profile.Value {
	return p.value.Unwrap()
}

// Option returns the underlying value, or None for null.
func (p DataBagValue) Option() util.Option[profile.Value] {
	return p.value
}

// Key returns a canonical identifier for this value.
func (p DataBagValue) Key() string {
	if p.IsNull() {
		return "null"
	}
	//
	return p.value.Unwrap().Hash()
}

func (p DataBagValue) String() string {
	if p.IsNull() {
		return "null"
	}
	//
	return p.value.Unwrap().String()
}

// DataBag maps fields to their generated values.  A complete DataBag holds a
// value for every field of a profile and represents one row of output.
// DataBags are never modified once constructed.
type DataBag struct {
	values map[string]DataBagValue
}

// NewDataBag constructs a DataBag holding a value for a single field.
func NewDataBag(field string, value DataBagValue) *DataBag {
	return &DataBag{map[string]DataBagValue{field: value}}
}

// MergeDataBags combines DataBags over disjoint sets of fields into one.
func MergeDataBags(bags ...*DataBag) *DataBag {
	var values = make(map[string]DataBagValue)
	//
	for _, b := range bags {
		for field, v := range b.values {
			if _, ok := values[field]; ok {
				panic(fmt.Sprintf("field \"%s\" generated twice", field))
			}
			//
			values[field] = v
		}
	}
	//
	return &DataBag{values}
}

// Has checks whether this DataBag holds a value for a given field.
func (p *DataBag) Has(field string) bool {
	_, ok := p.values[field]
	return ok
}

// Get returns the value of a given field, which must be present.
func (p *DataBag) Get(field string) DataBagValue {
	value, ok := p.values[field]
	//
	if !ok {
		panic(fmt.Sprintf("no value for field \"%s\"", field))
	}
	//
	return value
}

// Size returns the number of fields held in this DataBag.
func (p *DataBag) Size() int {
	return len(p.values)
}

// Row returns the values of this DataBag for the given fields, in order.
func (p *DataBag) Row(fields profile.Fields) []DataBagValue {
	var row = make([]DataBagValue, len(fields))
	//
	for i, f := range fields {
		row[i] = p.Get(f.Name)
	}
	//
	return row
}

// Format this DataBag as a string over a given set of fields.
func (p *DataBag) Format(fields profile.Fields) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, f := range fields {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s=%s", f.Name, p.Get(f.Name)))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
