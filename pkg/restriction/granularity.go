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
	"math/big"
	"time"

	"github.com/consensys/go-datagen/pkg/util"
	"github.com/shopspring/decimal"
)

// Granularity describes the smallest permitted increment within a linear
// domain of values.
type Granularity[T any] interface {
	fmt.Stringer
	// IsCorrectScale checks whether a value lies exactly on this granularity.
	IsCorrectScale(value T) bool
	// Merge two granularities together, producing the coarser of the two.
	Merge(other Granularity[T]) Granularity[T]
	// Next returns the value one increment after a given value.
	Next(value T) T
	// Previous returns the greatest value at this granularity which is
	// strictly less than a given value (when it lies on this granularity), or
	// the given value trimmed to this granularity (otherwise).
	Previous(value T) T
	// Random returns a value at this granularity chosen uniformly within the
	// inclusive bounds [min,max].  Both bounds are assumed to lie on this
	// granularity.
	Random(min T, max T, rng util.RandomSource) T
	// Trim rounds a value down onto this granularity.
	Trim(value T) T
}

// ============================================================================
// Numeric
// ============================================================================

// NumericGranularity identifies the number of decimal places permitted for a
// numeric value.  For example, a scale of 0 permits only integers whilst a
// scale of 2 permits values such as 1.25.
type NumericGranularity struct {
	scale int32
}

// NewNumericGranularity constructs a numeric granularity of a given scale.
func NewNumericGranularity(scale int32) NumericGranularity {
	return NumericGranularity{scale}
}

// NumericGranularityOf determines the granularity described by a given
// value, such as 0.01 (for a scale of 2) or 1 (for a scale of 0).  This fails
// for values which are not a power of ten no greater than one.
func NumericGranularityOf(value decimal.Decimal) (NumericGranularity, error) {
	for scale := int32(0); scale <= DefaultNumericScale; scale++ {
		if value.Equal(decimal.New(1, -scale)) {
			return NumericGranularity{scale}, nil
		}
	}
	//
	return NumericGranularity{}, fmt.Errorf("numeric granularity must be a fractional power of ten (was %s)", value)
}

// Scale returns the number of decimal places permitted by this granularity.
func (p NumericGranularity) Scale() int32 {
	return p.scale
}

// Step returns the increment described by this granularity.
func (p NumericGranularity) Step() decimal.Decimal {
	return decimal.New(1, -p.scale)
}

// IsCorrectScale implementation for Granularity interface.
func (p NumericGranularity) IsCorrectScale(value decimal.Decimal) bool {
	return value.Truncate(p.scale).Equal(value)
}

// Merge implementation for Granularity interface.
func (p NumericGranularity) Merge(other Granularity[decimal.Decimal]) Granularity[decimal.Decimal] {
	o := other.(NumericGranularity)
	//
	return NumericGranularity{min(p.scale, o.scale)}
}

// Next implementation for Granularity interface.
func (p NumericGranularity) Next(value decimal.Decimal) decimal.Decimal {
	return value.Add(p.Step())
}

// Previous implementation for Granularity interface.
func (p NumericGranularity) Previous(value decimal.Decimal) decimal.Decimal {
	if !p.IsCorrectScale(value) {
		return p.Trim(value)
	}
	//
	return value.Sub(p.Step())
}

// Random implementation for Granularity interface.
func (p NumericGranularity) Random(lower decimal.Decimal, upper decimal.Decimal, rng util.RandomSource) decimal.Decimal {
	// Number of steps between the bounds
	steps := upper.Sub(lower).Shift(p.scale).BigInt()
	steps.Add(steps, big.NewInt(1))
	//
	offset := rng.BigIntN(steps)
	//
	return lower.Add(decimal.NewFromBigInt(offset, -p.scale))
}

// Trim implementation for Granularity interface.
func (p NumericGranularity) Trim(value decimal.Decimal) decimal.Decimal {
	return value.RoundFloor(p.scale)
}

func (p NumericGranularity) String() string {
	return p.Step().String()
}

// ============================================================================
// DateTime
// ============================================================================

// TimeUnit identifies a unit of calendar time.  These are ordered from finest
// to coarsest.
type TimeUnit uint8

const (
	// Millis represents a unit of one millisecond.
	Millis TimeUnit = iota
	// Seconds represents a unit of one second.
	Seconds
	// Minutes represents a unit of one minute.
	Minutes
	// Hours represents a unit of one hour.
	Hours
	// Days represents a unit of one calendar day.
	Days
	// WorkingDays represents a unit of one weekday.  This is only meaningful
	// for offsets, and behaves as Days when used as a granularity.
	WorkingDays
	// Months represents a unit of one calendar month.
	Months
	// Years represents a unit of one calendar year.
	Years
)

var timeUnitNames = []string{"millis", "seconds", "minutes", "hours", "days", "working days", "months", "years"}

// ParseTimeUnit parses the name of a time unit, such as "days".
func ParseTimeUnit(name string) (TimeUnit, error) {
	for i, n := range timeUnitNames {
		if n == name {
			return TimeUnit(i), nil
		}
	}
	// Also permit singular forms
	for i, n := range timeUnitNames {
		if n[:len(n)-1] == name {
			return TimeUnit(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown time unit \"%s\"", name)
}

func (p TimeUnit) String() string {
	return timeUnitNames[p]
}

// Add a number of units to a given time.  Working days skip weekends, such
// that adding one working day to a Friday gives the following Monday.
func (p TimeUnit) Add(value time.Time, n int) time.Time {
	switch p {
	case Millis:
		return value.Add(time.Duration(n) * time.Millisecond)
	case Seconds:
		return value.Add(time.Duration(n) * time.Second)
	case Minutes:
		return value.Add(time.Duration(n) * time.Minute)
	case Hours:
		return value.Add(time.Duration(n) * time.Hour)
	case Days:
		return value.AddDate(0, 0, n)
	case WorkingDays:
		return addWorkingDays(value, n)
	case Months:
		return value.AddDate(0, n, 0)
	case Years:
		return value.AddDate(n, 0, 0)
	}
	//
	panic(fmt.Sprintf("unknown time unit %d", p))
}

func addWorkingDays(value time.Time, n int) time.Time {
	step := 1
	//
	if n < 0 {
		step, n = -1, -n
	}
	//
	for n > 0 {
		value = value.AddDate(0, 0, step)
		//
		if wd := value.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n--
		}
	}
	//
	return value
}

// DateTimeGranularity identifies the unit to which datetime values are
// truncated.
type DateTimeGranularity struct {
	unit TimeUnit
}

// NewDateTimeGranularity constructs a datetime granularity for a given unit.
func NewDateTimeGranularity(unit TimeUnit) DateTimeGranularity {
	if unit == WorkingDays {
		unit = Days
	}
	//
	return DateTimeGranularity{unit}
}

// Unit returns the unit of this granularity.
func (p DateTimeGranularity) Unit() TimeUnit {
	return p.unit
}

// IsCorrectScale implementation for Granularity interface.
func (p DateTimeGranularity) IsCorrectScale(value time.Time) bool {
	return p.Trim(value).Equal(value)
}

// Merge implementation for Granularity interface.
func (p DateTimeGranularity) Merge(other Granularity[time.Time]) Granularity[time.Time] {
	o := other.(DateTimeGranularity)
	//
	return DateTimeGranularity{max(p.unit, o.unit)}
}

// Next implementation for Granularity interface.
func (p DateTimeGranularity) Next(value time.Time) time.Time {
	return p.unit.Add(value, 1)
}

// Previous implementation for Granularity interface.
func (p DateTimeGranularity) Previous(value time.Time) time.Time {
	if !p.IsCorrectScale(value) {
		return p.Trim(value)
	}
	//
	return p.unit.Add(value, -1)
}

// Random implementation for Granularity interface.  A millisecond is chosen
// uniformly between the bounds, and then trimmed.
func (p DateTimeGranularity) Random(lower time.Time, upper time.Time, rng util.RandomSource) time.Time {
	var (
		lo     = lower.UnixMilli()
		span   = big.NewInt(upper.UnixMilli() - lo + 1)
		offset = rng.BigIntN(span).Int64()
	)
	//
	return p.Trim(time.UnixMilli(lo + offset).UTC())
}

// Trim implementation for Granularity interface.
func (p DateTimeGranularity) Trim(value time.Time) time.Time {
	value = value.UTC()
	//
	switch p.unit {
	case Millis:
		return value.Truncate(time.Millisecond)
	case Seconds:
		return value.Truncate(time.Second)
	case Minutes:
		return value.Truncate(time.Minute)
	case Hours:
		return value.Truncate(time.Hour)
	case Days, WorkingDays:
		return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
	case Months:
		return time.Date(value.Year(), value.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(value.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func (p DateTimeGranularity) String() string {
	return p.unit.String()
}
