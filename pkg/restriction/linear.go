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
package restriction

import (
	"fmt"
	"time"

	"github.com/consensys/go-datagen/pkg/util"
	"github.com/shopspring/decimal"
)

// DefaultNumericScale is the number of decimal places permitted for numeric
// values when no granularity is specified.
const DefaultNumericScale int32 = 20

var (
	// NumericMax is the largest numeric value which can be generated.
	NumericMax = decimal.New(1, 20)
	// NumericMin is the smallest numeric value which can be generated.
	NumericMin = decimal.New(-1, 20)
	// DateTimeMin is the earliest datetime which can be generated.
	DateTimeMin = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	// DateTimeMax is the latest datetime which can be generated.
	DateTimeMax = time.Date(9999, time.December, 31, 23, 59, 59, 999_000_000, time.UTC)
)

// Limit is a bound on a linear domain, which can be either inclusive or
// exclusive.
type Limit[T any] struct {
	Value     T
	Inclusive bool
}

// Inclusive constructs an inclusive limit.
func Inclusive[T any](value T) Limit[T] {
	return Limit[T]{value, true}
}

// Exclusive constructs an exclusive limit.
func Exclusive[T any](value T) Limit[T] {
	return Limit[T]{value, false}
}

// Linear restricts values in an ordered domain to those lying within an
// inclusive interval [min,max] and on a given granularity.  Both bounds are
// normalised onto the granularity at construction, hence a restriction is
// contradictory exactly when min > max.
type Linear[T any] struct {
	min         T
	max         T
	granularity Granularity[T]
	compare     func(T, T) int
}

// Numeric restrictions over arbitrary-precision decimals.
type Numeric = Linear[decimal.Decimal]

// DateTime restrictions over instants in time.
type DateTime = Linear[time.Time]

// NewNumeric constructs a restriction on numeric values from a pair of
// limits, at a given scale.  Exclusive limits are snapped onto the nearest
// value within the interval, and limits beyond the domain are clamped.
func NewNumeric(lower Limit[decimal.Decimal], upper Limit[decimal.Decimal], scale int32) *Numeric {
	granularity := NumericGranularity{scale}
	//
	return newLinear(lower, upper, Granularity[decimal.Decimal](granularity), NumericMin, NumericMax,
		compareDecimal)
}

// AllNumeric constructs a restriction permitting every numeric value at a given
// scale.
func AllNumeric(scale int32) *Numeric {
	return NewNumeric(Inclusive(NumericMin), Inclusive(NumericMax), scale)
}

// NewDateTime constructs a restriction on datetime values from a pair of
// limits, at a given granularity.  Exclusive limits are snapped onto the
// nearest value within the interval, and limits beyond the domain are clamped.
func NewDateTime(lower Limit[time.Time], upper Limit[time.Time], granularity DateTimeGranularity) *DateTime {
	return newLinear(lower, upper, Granularity[time.Time](granularity), DateTimeMin, DateTimeMax, compareTime)
}

// AllDateTime constructs a restriction permitting every datetime at a given
// granularity.
func AllDateTime(granularity DateTimeGranularity) *DateTime {
	return NewDateTime(Inclusive(DateTimeMin), Inclusive(DateTimeMax), granularity)
}

func newLinear[T any](lower Limit[T], upper Limit[T], granularity Granularity[T], domainMin T, domainMax T,
	compare func(T, T) int) *Linear[T] {
	var lo, hi T
	//
	if compare(lower.Value, domainMin) < 0 {
		lo = domainMin
	} else if lower.Inclusive {
		lo = roundUp(lower.Value, granularity)
	} else {
		lo = granularity.Next(granularity.Trim(lower.Value))
	}
	//
	if compare(upper.Value, domainMax) > 0 {
		hi = granularity.Trim(domainMax)
	} else if upper.Inclusive {
		hi = granularity.Trim(upper.Value)
	} else {
		hi = granularity.Previous(upper.Value)
	}
	//
	return &Linear[T]{lo, hi, granularity, compare}
}

// Move a value up onto the next value of the granularity, unless it is already
// on it.
func roundUp[T any](value T, granularity Granularity[T]) T {
	if granularity.IsCorrectScale(value) {
		return value
	}
	//
	return granularity.Next(granularity.Trim(value))
}

func compareDecimal(l decimal.Decimal, r decimal.Decimal) int {
	return l.Cmp(r)
}

func compareTime(l time.Time, r time.Time) int {
	return l.Compare(r)
}

// Min returns the least value permitted by this restriction.
func (p *Linear[T]) Min() T {
	return p.min
}

// Max returns the greatest value permitted by this restriction.
func (p *Linear[T]) Max() T {
	return p.max
}

// Granularity returns the granularity of this restriction.
func (p *Linear[T]) Granularity() Granularity[T] {
	return p.granularity
}

// Compare two values in the domain of this restriction.
func (p *Linear[T]) Compare(l T, r T) int {
	return p.compare(l, r)
}

// IsContradictory checks whether this restriction permits no values at all.
func (p *Linear[T]) IsContradictory() bool {
	return p.compare(p.min, p.max) > 0
}

// Permits checks whether a given value is permitted by this restriction.
func (p *Linear[T]) Permits(value T) bool {
	return p.compare(p.min, value) <= 0 && p.compare(value, p.max) <= 0 && p.granularity.IsCorrectScale(value)
}

// Merge two restrictions together, producing a restriction permitting only
// those values permitted by both.  The merged granularity is the coarser of
// the two, with the merged bounds normalised onto it.  This returns None when
// no value is permitted by both.
func (p *Linear[T]) Merge(other *Linear[T]) util.Option[*Linear[T]] {
	var (
		granularity = p.granularity.Merge(other.granularity)
		lo          = p.min
		hi          = p.max
	)
	//
	if p.compare(other.min, lo) > 0 {
		lo = other.min
	}
	//
	if p.compare(other.max, hi) < 0 {
		hi = other.max
	}
	//
	merged := &Linear[T]{roundUp(lo, granularity), granularity.Trim(hi), granularity, p.compare}
	//
	if merged.IsContradictory() {
		return util.None[*Linear[T]]()
	}
	//
	return util.Some(merged)
}

// WithGranularity returns a copy of this restriction at a coarser or equal
// granularity.
func (p *Linear[T]) WithGranularity(granularity Granularity[T]) *Linear[T] {
	granularity = p.granularity.Merge(granularity)
	//
	return &Linear[T]{roundUp(p.min, granularity), granularity.Trim(p.max), granularity, p.compare}
}

// Random returns a value chosen uniformly amongst those permitted by this
// restriction.  This should not be called on a contradictory restriction.
func (p *Linear[T]) Random(rng util.RandomSource) T {
	return p.granularity.Random(p.min, p.max, rng)
}

// Restriction marker
func (p *Linear[T]) restriction() {}

func (p *Linear[T]) String() string {
	return fmt.Sprintf("[%v, %v] @ %s", p.min, p.max, p.granularity)
}
