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

// FieldType identifies the broad category of values held by a field.
type FieldType uint8

const (
	// Numeric fields hold arbitrary-precision decimals.
	Numeric FieldType = iota
	// String fields hold unicode strings.
	String
	// DateTime fields hold instants in time.
	DateTime
)

func (p FieldType) String() string {
	switch p {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	case DateTime:
		return "datetime"
	}
	//
	return fmt.Sprintf("unknown(%d)", p)
}

// SpecificType refines a field type with additional restrictions implied by
// the type name used in a profile.
type SpecificType uint8

const (
	// IntegerType is a numeric type granular to whole numbers.
	IntegerType SpecificType = iota
	// DecimalType is a numeric type of default granularity.
	DecimalType
	// StringType is an unrestricted string type.
	StringType
	// DateTimeType is a datetime type of default granularity.
	DateTimeType
	// DateType is a datetime type granular to days.
	DateType
)

var specificTypeNames = []string{"integer", "decimal", "string", "datetime", "date"}

// ParseSpecificType parses the name of a type, as used in a profile.
func ParseSpecificType(name string) (SpecificType, error) {
	if i := slices.Index(specificTypeNames, name); i >= 0 {
		return SpecificType(i), nil
	}
	//
	return 0, fmt.Errorf("unknown field type \"%s\"", name)
}

// Type returns the broad field type of this specific type.
func (p SpecificType) Type() FieldType {
	switch p {
	case IntegerType, DecimalType:
		return Numeric
	case StringType:
		return String
	default:
		return DateTime
	}
}

func (p SpecificType) String() string {
	return specificTypeNames[p]
}

// Field describes a single column of output.  Fields are identified by name.
type Field struct {
	// Name of the field, which must be unique within a profile.
	Name string
	// Type of values held in this field.
	Type FieldType
	// Type name used in the profile.
	Specific SpecificType
	// Indicates every generated value must be distinct.
	Unique bool
	// Indicates null is a permitted value.
	Nullable bool
	// Format string applied to values at output (if non-empty).
	Formatting string
	// Internal fields drive generation but are never output.
	Internal bool
}

// NewField constructs a field of a given specific type with default
// properties (i.e. non-unique, not nullable, no formatting).
func NewField(name string, specific SpecificType) Field {
	return Field{Name: name, Type: specific.Type(), Specific: specific}
}

func (p Field) String() string {
	return p.Name
}

// Fields is an ordered list of fields.
type Fields []Field

// Find a field by name.
func (p Fields) Find(name string) (Field, bool) {
	for _, f := range p {
		if f.Name == name {
			return f, true
		}
	}
	//
	return Field{}, false
}

// Names returns the names of these fields, in order.
func (p Fields) Names() []string {
	names := make([]string, len(p))
	//
	for i, f := range p {
		names[i] = f.Name
	}
	//
	return names
}

// External returns those fields which are not internal, in order.
func (p Fields) External() Fields {
	var fields Fields
	//
	for _, f := range p {
		if !f.Internal {
			fields = append(fields, f)
		}
	}
	//
	return fields
}
