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
	"time"

	"github.com/shopspring/decimal"
)

// Value is a single (non-null) typed value, which is one of a decimal, a
// datetime or a string.
type Value struct {
	kind     FieldType
	number   decimal.Decimal
	datetime time.Time
	str      string
}

// NumericValue constructs a numeric value.
func NumericValue(value decimal.Decimal) Value {
	return Value{kind: Numeric, number: value}
}

// IntValue constructs a numeric value from an integer.
func IntValue(value int64) Value {
	return NumericValue(decimal.NewFromInt(value))
}

// DateTimeValue constructs a datetime value.  The value is held in UTC.
func DateTimeValue(value time.Time) Value {
	return Value{kind: DateTime, datetime: value.UTC()}
}

// StringValue constructs a string value.
func StringValue(value string) Value {
	return Value{kind: String, str: value}
}

// Type returns the type of this value.
func (p Value) Type() FieldType {
	return p.kind
}

// Numeric returns the decimal held in this value.  This panics if the value
// is not numeric.
func (p Value) Numeric() decimal.Decimal {
	p.expect(Numeric)
	return p.number
}

// DateTime returns the instant held in this value.  This panics if the value
// is not a datetime.
func (p Value) DateTime() time.Time {
	p.expect(DateTime)
	return p.datetime
}

// Str returns the string held in this value.  This panics if the value is not
// a string.
func (p Value) Str() string {
	p.expect(String)
	return p.str
}

func (p Value) expect(kind FieldType) {
	if p.kind != kind {
		panic(fmt.Sprintf("expected %s value, found %s value", kind, p.kind))
	}
}

// Equals checks whether two values are equal.  Numeric values are compared
// numerically, such that 1.0 equals 1.
func (p Value) Equals(other Value) bool {
	if p.kind != other.kind {
		return false
	}
	//
	switch p.kind {
	case Numeric:
		return p.number.Equal(other.number)
	case DateTime:
		return p.datetime.Equal(other.datetime)
	default:
		return p.str == other.str
	}
}

// Hash returns a canonical key for this value, such that two values are equal
// exactly when their hashes are.
func (p Value) Hash() string {
	switch p.kind {
	case Numeric:
		// Trailing zeros are stripped
		return "n:" + p.number.String()
	case DateTime:
		return "t:" + p.datetime.Format(time.RFC3339Nano)
	default:
		return "s:" + p.str
	}
}

// Native returns the underlying value as a decimal.Decimal, time.Time or
// string.
func (p Value) Native() any {
	switch p.kind {
	case Numeric:
		return p.number
	case DateTime:
		return p.datetime
	default:
		return p.str
	}
}

func (p Value) String() string {
	switch p.kind {
	case Numeric:
		return p.number.String()
	case DateTime:
		return p.datetime.Format("2006-01-02T15:04:05.000Z")
	default:
		return p.str
	}
}

// WeightedValue is a value paired with a relative weight, as found in a set of
// permitted values.
type WeightedValue struct {
	Value  Value
	Weight float64
}
