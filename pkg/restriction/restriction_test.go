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
	"testing"
	"time"

	"github.com/consensys/go-datagen/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Numeric_Snap_01(t *testing.T) {
	r := NewNumeric(Exclusive(dec("5")), Inclusive(dec("10")), 0)
	checkBounds(t, r, "6", "10")
}

func Test_Numeric_Snap_02(t *testing.T) {
	r := NewNumeric(Inclusive(dec("5")), Exclusive(dec("10")), 0)
	checkBounds(t, r, "5", "9")
}

func Test_Numeric_Snap_03(t *testing.T) {
	r := NewNumeric(Exclusive(dec("10")), Exclusive(dec("30")), DefaultNumericScale)
	checkBounds(t, r, "10.00000000000000000001", "29.99999999999999999999")
}

func Test_Numeric_Snap_04(t *testing.T) {
	r := NewNumeric(Exclusive(dec("1.5")), Exclusive(dec("4.5")), 0)
	checkBounds(t, r, "2", "4")
}

func Test_Numeric_Snap_05(t *testing.T) {
	r := NewNumeric(Inclusive(dec("1.5")), Inclusive(dec("4.5")), 0)
	checkBounds(t, r, "2", "4")
}

func Test_Numeric_Clamp_01(t *testing.T) {
	r := NewNumeric(Inclusive(dec("-1e30")), Inclusive(dec("1e30")), 2)
	//
	assert.True(t, r.Min().Equal(NumericMin))
	assert.True(t, r.Max().Equal(NumericMax))
}

func Test_Numeric_Contradictory_01(t *testing.T) {
	r := NewNumeric(Exclusive(dec("5")), Exclusive(dec("6")), 0)
	assert.True(t, r.IsContradictory())
}

func Test_Numeric_Permits_01(t *testing.T) {
	r := NewNumeric(Inclusive(dec("0")), Inclusive(dec("10")), 1)
	//
	assert.True(t, r.Permits(dec("2.5")))
	assert.False(t, r.Permits(dec("2.55")))
	assert.False(t, r.Permits(dec("10.1")))
}

func Test_Numeric_Merge_01(t *testing.T) {
	left := NewNumeric(Inclusive(dec("0")), Inclusive(dec("10")), DefaultNumericScale)
	right := NewNumeric(Inclusive(dec("5")), Inclusive(dec("20")), DefaultNumericScale)
	merged := left.Merge(right)
	//
	require.True(t, merged.HasValue())
	checkBounds(t, merged.Unwrap(), "5", "10")
}

func Test_Numeric_Merge_02(t *testing.T) {
	left := NewNumeric(Inclusive(dec("0.5")), Inclusive(dec("10.5")), 2)
	right := AllNumeric(0)
	merged := left.Merge(right)
	// Coarser granularity wins
	require.True(t, merged.HasValue())
	checkBounds(t, merged.Unwrap(), "1", "10")
}

func Test_Numeric_Merge_03(t *testing.T) {
	left := NewNumeric(Exclusive(dec("30")), Inclusive(NumericMax), 0)
	right := NewNumeric(Inclusive(NumericMin), Exclusive(dec("10")), 0)
	//
	assert.True(t, left.Merge(right).IsEmpty())
}

func Test_Numeric_Merge_04(t *testing.T) {
	left := NewNumeric(Inclusive(dec("0.1")), Inclusive(dec("0.9")), 1)
	// No integer between 0.1 and 0.9
	assert.True(t, left.Merge(AllNumeric(0)).IsEmpty())
}

func Test_Numeric_Random_01(t *testing.T) {
	r := NewNumeric(Inclusive(dec("1")), Inclusive(dec("3")), 1)
	rng := util.NewRandomSource(1)
	//
	for i := 0; i < 100; i++ {
		assert.True(t, r.Permits(r.Random(rng)))
	}
}

func Test_Numeric_Granularity_01(t *testing.T) {
	g, err := NumericGranularityOf(dec("0.01"))
	//
	require.NoError(t, err)
	assert.Equal(t, int32(2), g.Scale())
	//
	_, err = NumericGranularityOf(dec("0.5"))
	assert.Error(t, err)
}

func Test_Numeric_Granularity_02(t *testing.T) {
	g := NewNumericGranularity(1)
	//
	assert.True(t, g.Trim(dec("-1.25")).Equal(dec("-1.3")))
	assert.True(t, g.Previous(dec("1.25")).Equal(dec("1.2")))
	assert.True(t, g.Previous(dec("1.2")).Equal(dec("1.1")))
}

func Test_DateTime_Snap_01(t *testing.T) {
	g := NewDateTimeGranularity(Days)
	r := NewDateTime(Exclusive(date(2020, 1, 1, 12)), Exclusive(date(2020, 1, 5, 0)), g)
	//
	assert.Equal(t, date(2020, 1, 2, 0), r.Min())
	assert.Equal(t, date(2020, 1, 4, 0), r.Max())
}

func Test_DateTime_Clamp_01(t *testing.T) {
	r := AllDateTime(NewDateTimeGranularity(Millis))
	//
	assert.Equal(t, DateTimeMin, r.Min())
	assert.Equal(t, DateTimeMax, r.Max())
}

func Test_DateTime_Merge_01(t *testing.T) {
	left := NewDateTime(Inclusive(date(2020, 1, 1, 6)), Inclusive(date(2020, 3, 1, 0)),
		NewDateTimeGranularity(Millis))
	right := AllDateTime(NewDateTimeGranularity(Months))
	merged := left.Merge(right)
	//
	require.True(t, merged.HasValue())
	assert.Equal(t, date(2020, 2, 1, 0), merged.Unwrap().Min())
	assert.Equal(t, date(2020, 3, 1, 0), merged.Unwrap().Max())
}

func Test_DateTime_Random_01(t *testing.T) {
	r := NewDateTime(Inclusive(date(2020, 1, 1, 0)), Inclusive(date(2020, 12, 31, 0)),
		NewDateTimeGranularity(Days))
	rng := util.NewRandomSource(7)
	//
	for i := 0; i < 100; i++ {
		assert.True(t, r.Permits(r.Random(rng)))
	}
}

func Test_DateTime_WorkingDays_01(t *testing.T) {
	// Friday 3rd January 2020
	friday := date(2020, 1, 3, 0)
	//
	assert.Equal(t, date(2020, 1, 6, 0), WorkingDays.Add(friday, 1))
	assert.Equal(t, date(2020, 1, 2, 0), WorkingDays.Add(friday, -1))
	assert.Equal(t, date(2019, 12, 27, 0), WorkingDays.Add(date(2020, 1, 6, 0), -6))
}

func Test_DateTime_Unit_01(t *testing.T) {
	unit, err := ParseTimeUnit("working days")
	require.NoError(t, err)
	assert.Equal(t, WorkingDays, unit)
	//
	unit, err = ParseTimeUnit("hour")
	require.NoError(t, err)
	assert.Equal(t, Hours, unit)
	//
	_, err = ParseTimeUnit("fortnights")
	assert.Error(t, err)
}

func Test_String_ShorterThan_01(t *testing.T) {
	// shorterThan(5) permits length <= 4, its negation length >= 5
	shorter := ForMaxLength(4)
	notShorter := ForMinLength(5)
	//
	assert.True(t, shorter.Permits("abcd"))
	assert.False(t, shorter.Permits("abcde"))
	assert.False(t, notShorter.Permits("abcd"))
	assert.True(t, notShorter.Permits("abcde"))
}

func Test_String_Matching_01(t *testing.T) {
	r, err := ForMatching("[a-z]{3}", true)
	//
	require.NoError(t, err)
	assert.False(t, r.Permits("abc"))
	assert.True(t, r.Permits("ab"))
}

func Test_String_Intersect_01(t *testing.T) {
	matching, err := ForMatching("[a-z]+", false)
	require.NoError(t, err)
	//
	r := matching.Intersect(ForLength(2, false))
	//
	assert.True(t, r.Permits("ab"))
	assert.False(t, r.Permits("abc"))
	assert.False(t, r.IsContradictory())
	assert.True(t, r.Intersect(ForMaxLength(1)).Intersect(ForMinLength(2)).IsContradictory())
}

func Test_String_Except_01(t *testing.T) {
	r := ForStrings([]string{"a", "b"}).Except([]string{"a"})
	//
	assert.False(t, r.Permits("a"))
	assert.True(t, r.Permits("b"))
}

// ===================================================================
// Helpers
// ===================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func checkBounds(t *testing.T, r *Numeric, lower string, upper string) {
	t.Helper()
	//
	assert.True(t, r.Min().Equal(dec(lower)), "expected min %s, got %s", lower, r.Min())
	assert.True(t, r.Max().Equal(dec(upper)), "expected max %s, got %s", upper, r.Max())
}
