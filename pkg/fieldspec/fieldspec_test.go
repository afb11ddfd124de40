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
	"testing"
	"time"

	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Weighted sets
// ============================================================================

func Test_WeightedSet_01(t *testing.T) {
	set, err := NewWeightedSet([]profile.WeightedValue{{Value: num("1"), Weight: 3}, {Value: num("2"), Weight: 1}})
	//
	require.NoError(t, err)
	assert.InDelta(t, 0.75, set.Weight(num("1")), 1e-9)
	assert.InDelta(t, 0.25, set.Weight(num("2")), 1e-9)
}

func Test_WeightedSet_02(t *testing.T) {
	_, err := NewWeightedSet([]profile.WeightedValue{{Value: num("1"), Weight: 0}, {Value: num("2"), Weight: 0}})
	assert.Error(t, err)
}

func Test_WeightedSet_03(t *testing.T) {
	_, err := NewWeightedSet([]profile.WeightedValue{{Value: num("1"), Weight: -1}})
	assert.Error(t, err)
}

func Test_WeightedSet_04(t *testing.T) {
	set, err := NewWeightedSet([]profile.WeightedValue{{Value: num("1"), Weight: 1}, {Value: num("1.0"), Weight: 1}})
	//
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.InDelta(t, 1.0, set.Weight(num("1")), 1e-9)
}

func Test_WeightedSet_Intersect_01(t *testing.T) {
	left := Uniform(num("1"), num("2"), num("3"))
	right := Uniform(num("3"), num("2"), num("4"))
	set := left.Intersect(right)
	//
	assert.Equal(t, []profile.Value{num("2"), num("3")}, set.Values())
	assert.InDelta(t, 0.5, set.Weight(num("2")), 1e-9)
}

func Test_WeightedSet_Pick_01(t *testing.T) {
	var (
		set, _ = NewWeightedSet([]profile.WeightedValue{{Value: num("1"), Weight: 9}, {Value: num("2"), Weight: 1}})
		rng    = util.NewRandomSource(42)
		ones   = 0
	)
	//
	for range 1000 {
		if set.PickRandomly(rng).Equals(num("1")) {
			ones++
		}
	}
	//
	assert.Greater(t, ones, 800)
	assert.Less(t, ones, 980)
}

// ============================================================================
// Factory
// ============================================================================

func Test_Factory_InSet_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.InSet, Field: "x", Set: weighted(num("1"), num("2"))},
		profile.Numeric, false)
	//
	assert.False(t, spec.IsNullable())
	checkPermits(t, spec, num("1"), num("2"))
	checkForbids(t, spec, num("3"))
}

func Test_Factory_InSet_02(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.InSet, Field: "x", Set: weighted(num("1"), num("2"))},
		profile.Numeric, true)
	//
	assert.True(t, spec.IsNullable())
	checkPermits(t, spec, num("3"))
	checkForbids(t, spec, num("1"), num("2"))
}

func Test_Factory_EqualTo_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.EqualTo, Field: "x", Value: str("a")}, profile.String, false)
	//
	assert.False(t, spec.IsNullable())
	checkPermits(t, spec, str("a"))
	checkForbids(t, spec, str("b"))
}

func Test_Factory_IsNull_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.IsNull, Field: "x"}, profile.String, false)
	//
	assert.True(t, spec.IsNullable())
	assert.False(t, spec.IsContradictory())
	checkForbids(t, spec, str("a"))
	assert.True(t, Merge(spec, FromType(profile.String).WithNotNull()).IsEmpty())
}

func Test_Factory_IsNull_02(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.IsNull, Field: "x"}, profile.String, true)
	//
	assert.False(t, spec.IsNullable())
	checkPermits(t, spec, str("a"))
}

func Test_Factory_ShorterThan_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.ShorterThan, Field: "x", Length: 5}, profile.String, false)
	//
	checkPermits(t, spec, str(""), str("abcd"))
	checkForbids(t, spec, str("abcde"))
}

func Test_Factory_ShorterThan_02(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.ShorterThan, Field: "x", Length: 5}, profile.String, true)
	//
	checkPermits(t, spec, str("abcde"), str("abcdef"))
	checkForbids(t, spec, str("abcd"))
}

func Test_Factory_LongerThan_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.LongerThan, Field: "x", Length: 3}, profile.String, false)
	//
	checkPermits(t, spec, str("abcd"))
	checkForbids(t, spec, str("abc"))
}

func Test_Factory_LongerThan_02(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.LongerThan, Field: "x", Length: 3}, profile.String, true)
	//
	checkPermits(t, spec, str("abc"), str(""))
	checkForbids(t, spec, str("abcd"))
}

func Test_Factory_ShorterThan_03(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.ShorterThan, Field: "x", Length: 0}, profile.String, false)
	//
	assert.True(t, spec.WithNotNull().IsContradictory())
}

func Test_Factory_GreaterThan_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.GreaterThan, Field: "x", Value: num("5")}, profile.Numeric,
		false)
	//
	assert.True(t, spec.IsNullable())
	checkPermits(t, spec, num("5.1"), num("6"))
	checkForbids(t, spec, num("5"), num("4"))
}

func Test_Factory_GreaterThan_02(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.GreaterThan, Field: "x", Value: num("5")}, profile.Numeric,
		true)
	//
	checkPermits(t, spec, num("5"), num("4"))
	checkForbids(t, spec, num("5.1"))
}

func Test_Factory_Before_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.Before, Field: "x", Value: date(2020, 1, 1)},
		profile.DateTime, false)
	//
	checkPermits(t, spec, date(2019, 12, 31))
	checkForbids(t, spec, date(2020, 1, 1))
}

func Test_Factory_BeforeOrAt_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.BeforeOrAt, Field: "x", Value: date(2020, 1, 1)},
		profile.DateTime, true)
	//
	checkPermits(t, spec, date(2020, 1, 2))
	checkForbids(t, spec, date(2020, 1, 1))
}

func Test_Factory_GranularTo_01(t *testing.T) {
	spec := construct(t, &profile.Atomic{Kind: profile.GranularTo, Field: "x", Scale: 1}, profile.Numeric, false)
	//
	checkPermits(t, spec, num("1.5"))
	checkForbids(t, spec, num("1.55"))
}

func Test_Factory_GranularTo_02(t *testing.T) {
	atomic := &profile.Atomic{Kind: profile.GranularTo, Field: "x", Scale: 1}
	_, err := Factory{}.Construct(atomic, profile.Numeric, true)
	//
	assert.Error(t, err)
}

func Test_Factory_Mismatch_01(t *testing.T) {
	atomic := &profile.Atomic{Kind: profile.GreaterThan, Field: "x", Value: num("1")}
	_, err := Factory{}.Construct(atomic, profile.String, false)
	//
	assert.Error(t, err)
}

// Every non-null value is permitted by exactly one of a constraint or its
// negation.
func Test_Factory_Negation_01(t *testing.T) {
	checkNegation(t, &profile.Atomic{Kind: profile.LessThanOrEqualTo, Field: "x", Value: num("3")},
		num("2"), num("3"), num("3.5"))
}

func Test_Factory_Negation_02(t *testing.T) {
	checkNegation(t, &profile.Atomic{Kind: profile.OfLength, Field: "x", Length: 2},
		str(""), str("ab"), str("abc"))
}

func Test_Factory_Negation_03(t *testing.T) {
	checkNegation(t, &profile.Atomic{Kind: profile.MatchingRegex, Field: "x", Pattern: "[a-c]+"},
		str("abc"), str("xyz"), str("ax"))
}

func Test_Factory_Negation_04(t *testing.T) {
	checkNegation(t, &profile.Atomic{Kind: profile.ContainingRegex, Field: "x", Pattern: "[0-9]"},
		str("abc"), str("a1c"))
}

func Test_Factory_Negation_05(t *testing.T) {
	checkNegation(t, &profile.Atomic{Kind: profile.AfterOrAt, Field: "x", Value: date(2020, 1, 1)},
		date(2019, 1, 1), date(2020, 1, 1), date(2021, 1, 1))
}

func Test_Factory_Negation_06(t *testing.T) {
	checkNegation(t, &profile.Atomic{Kind: profile.InSet, Field: "x", Set: weighted(str("a"), str("b"))},
		str("a"), str("c"))
}

// ============================================================================
// Merging
// ============================================================================

func Test_Merge_01(t *testing.T) {
	left := FromWhitelist(profile.Numeric, Uniform(num("1"), num("2"))).WithNotNull()
	right := FromWhitelist(profile.Numeric, Uniform(num("3"), num("4"))).WithNotNull()
	//
	assert.True(t, Merge(left, right).IsEmpty())
}

func Test_Merge_02(t *testing.T) {
	left := FromWhitelist(profile.Numeric, Uniform(num("1"), num("2")))
	right := FromWhitelist(profile.Numeric, Uniform(num("3"), num("4")))
	merged := Merge(left, right)
	//
	require.True(t, merged.HasValue())
	assert.True(t, merged.Unwrap().IsNullable())
	checkForbids(t, merged.Unwrap(), num("1"), num("2"), num("3"), num("4"))
}

func Test_Merge_03(t *testing.T) {
	left := FromWhitelist(profile.Numeric, Uniform(num("1"), num("2"), num("3"))).WithNotNull()
	right := construct(t, &profile.Atomic{Kind: profile.GreaterThan, Field: "x", Value: num("1")}, profile.Numeric,
		false)
	merged := Merge(right, left)
	//
	require.True(t, merged.HasValue())
	assert.False(t, merged.Unwrap().IsNullable())
	//
	set, ok := merged.Unwrap().Whitelist()
	require.True(t, ok)
	assert.Equal(t, []profile.Value{num("2"), num("3")}, set.Values())
}

func Test_Merge_04(t *testing.T) {
	left := construct(t, &profile.Atomic{Kind: profile.GreaterThan, Field: "x", Value: num("10")}, profile.Numeric,
		false)
	right := construct(t, &profile.Atomic{Kind: profile.LessThan, Field: "x", Value: num("5")}, profile.Numeric,
		false)
	merged := Merge(left, right)
	// Only null remains
	require.True(t, merged.HasValue())
	assert.True(t, merged.Unwrap().IsNullable())
	checkForbids(t, merged.Unwrap(), num("0"), num("7"), num("20"))
	//
	assert.True(t, Merge(left.WithNotNull(), right).IsEmpty())
}

func Test_Merge_05(t *testing.T) {
	left := construct(t, &profile.Atomic{Kind: profile.MatchingRegex, Field: "x", Pattern: "[a-z]{2,5}"},
		profile.String, false)
	right := construct(t, &profile.Atomic{Kind: profile.LongerThan, Field: "x", Length: 3}, profile.String, false)
	merged := Merge(left, right)
	//
	require.True(t, merged.HasValue())
	checkPermits(t, merged.Unwrap(), str("abcd"), str("abcde"))
	checkForbids(t, merged.Unwrap(), str("abc"), str("abcdef"))
}

func Test_Merge_06(t *testing.T) {
	left := construct(t, &profile.Atomic{Kind: profile.EqualTo, Field: "x", Value: num("1")}, profile.Numeric, true)
	right := construct(t, &profile.Atomic{Kind: profile.EqualTo, Field: "x", Value: num("2")}, profile.Numeric, true)
	merged := Merge(left, right)
	//
	require.True(t, merged.HasValue())
	assert.Equal(t, []profile.Value{num("1"), num("2")}, merged.Unwrap().Blacklist())
}

func Test_Merge_Identity_01(t *testing.T) {
	for _, spec := range sampleSpecs(t) {
		merged := Merge(spec, FromType(profile.Numeric))
		//
		require.True(t, merged.HasValue())
		assert.Equal(t, spec.IsNullable(), merged.Unwrap().IsNullable())
		//
		for _, v := range sampleValues() {
			assert.Equal(t, spec.Permits(v), merged.Unwrap().Permits(v), "%s permits %s", spec, v)
		}
	}
}

func Test_Merge_Commutative_01(t *testing.T) {
	specs := sampleSpecs(t)
	//
	for _, l := range specs {
		for _, r := range specs {
			lr, rl := Merge(l, r), Merge(r, l)
			//
			require.Equal(t, lr.HasValue(), rl.HasValue(), "merging %s with %s", l, r)
			//
			if lr.HasValue() {
				assert.Equal(t, lr.Unwrap().IsNullable(), rl.Unwrap().IsNullable())
				//
				for _, v := range sampleValues() {
					assert.Equal(t, lr.Unwrap().Permits(v), rl.Unwrap().Permits(v), "merging %s with %s", l, r)
				}
			}
		}
	}
}

func Test_Merge_Idempotent_01(t *testing.T) {
	for _, spec := range sampleSpecs(t) {
		merged := Merge(spec, spec)
		//
		if spec.IsContradictory() {
			assert.True(t, merged.IsEmpty())
			continue
		}
		//
		require.True(t, merged.HasValue())
		//
		for _, v := range sampleValues() {
			assert.Equal(t, spec.Permits(v), merged.Unwrap().Permits(v))
		}
	}
}

// ============================================================================
// Relations
// ============================================================================

func Test_Relation_After_01(t *testing.T) {
	rel := relation(t, &profile.Relation{Kind: profile.AfterOrAtField, Field: "end", Other: "start", Offset: 3,
		Unit: restriction.Days}, profile.DateTime, false)
	spec := rel.CreateModifierFromOtherValue(util.Some(date(2024, 1, 1)))
	//
	checkPermits(t, spec, date(2024, 1, 4), date(2024, 2, 1))
	checkForbids(t, spec, date(2024, 1, 3))
}

func Test_Relation_After_02(t *testing.T) {
	rel := relation(t, &profile.Relation{Kind: profile.AfterOrAtField, Field: "end", Other: "start", Offset: 3,
		Unit: restriction.Days}, profile.DateTime, false).Inverse()
	spec := rel.CreateModifierFromOtherValue(util.Some(date(2024, 1, 4)))
	//
	assert.Equal(t, "start", rel.Main())
	assert.Equal(t, "end", rel.Other())
	checkPermits(t, spec, date(2024, 1, 1), date(2023, 1, 1))
	checkForbids(t, spec, date(2024, 1, 2))
}

func Test_Relation_After_03(t *testing.T) {
	rel := relation(t, &profile.Relation{Kind: profile.AfterField, Field: "a", Other: "b"}, profile.Numeric, true)
	spec := rel.CreateModifierFromOtherValue(util.Some(num("10")))
	// Negated "a > b" is "a <= b"
	checkPermits(t, spec, num("10"), num("9"))
	checkForbids(t, spec, num("10.5"))
}

func Test_Relation_After_04(t *testing.T) {
	rel := relation(t, &profile.Relation{Kind: profile.AfterField, Field: "a", Other: "b"}, profile.Numeric, false)
	other := construct(t, &profile.Atomic{Kind: profile.GreaterThanOrEqualTo, Field: "b", Value: num("100")},
		profile.Numeric, false)
	spec := rel.CreateModifierFromOtherFieldSpec(other)
	//
	checkPermits(t, spec, num("101"))
	checkForbids(t, spec, num("100"), num("50"))
}

func Test_Relation_EqualTo_01(t *testing.T) {
	rel := relation(t, &profile.Relation{Kind: profile.EqualToField, Field: "a", Other: "b", Offset: 2},
		profile.Numeric, false)
	spec := rel.CreateModifierFromOtherValue(util.Some(num("3")))
	//
	checkPermits(t, spec, num("5"))
	checkForbids(t, spec, num("3"))
	// Null other values place no restriction
	assert.True(t, rel.CreateModifierFromOtherValue(util.None[profile.Value]()).Permits(num("3")))
}

func Test_Relation_EqualTo_02(t *testing.T) {
	_, err := NewRelation(&profile.Relation{Kind: profile.EqualToField, Field: "a", Other: "b", Offset: 2},
		profile.Numeric, true)
	//
	assert.Error(t, err)
}

func Test_Relation_EqualTo_03(t *testing.T) {
	rel := relation(t, &profile.Relation{Kind: profile.EqualToField, Field: "a", Other: "b"}, profile.String, true)
	spec := rel.CreateModifierFromOtherValue(util.Some(str("x")))
	//
	checkPermits(t, spec, str("y"))
	checkForbids(t, spec, str("x"))
}

func Test_Relation_Before_01(t *testing.T) {
	_, err := NewRelation(&profile.Relation{Kind: profile.BeforeField, Field: "a", Other: "b"}, profile.String, false)
	assert.Error(t, err)
}

func Test_Relation_InMap_01(t *testing.T) {
	var (
		values = []profile.Value{str("a"), str("b"), str("c")}
		rel    = NewInMapRelation(&profile.InMap{Field: "x", Controller: "__table", Values: values}, profile.String)
		spec   = rel.CreateModifierFromOtherValue(util.Some(profile.IntValue(1)))
	)
	//
	checkPermits(t, spec, str("b"))
	checkForbids(t, spec, str("a"), str("c"))
	//
	_, err := rel.Negate()
	assert.Error(t, err)
}

func Test_Relation_InMap_02(t *testing.T) {
	var (
		values = []profile.Value{str("a"), str("b"), str("c")}
		rel    = NewInMapRelation(&profile.InMap{Field: "x", Controller: "__table", Values: values}, profile.String)
		field  = FromWhitelist(profile.String, Uniform(str("c"), str("a")))
		spec   = rel.Inverse().CreateModifierFromOtherFieldSpec(field)
	)
	//
	assert.Equal(t, "__table", rel.Inverse().Main())
	checkPermits(t, spec, profile.IntValue(0), profile.IntValue(2))
	checkForbids(t, spec, profile.IntValue(1))
}

// ============================================================================
// Helpers
// ============================================================================

func checkNegation(t *testing.T, atomic *profile.Atomic, values ...profile.Value) {
	fieldType := values[0].Type()
	positive := construct(t, atomic, fieldType, false)
	negative := construct(t, atomic, fieldType, true)
	//
	for _, v := range values {
		assert.NotEqual(t, positive.Permits(v), negative.Permits(v), "%s on %s", atomic, v)
	}
}

func checkPermits(t *testing.T, spec FieldSpec, values ...profile.Value) {
	for _, v := range values {
		assert.True(t, spec.Permits(v), "%s should permit %s", spec, v)
	}
}

func checkForbids(t *testing.T, spec FieldSpec, values ...profile.Value) {
	for _, v := range values {
		assert.False(t, spec.Permits(v), "%s should forbid %s", spec, v)
	}
}

func construct(t *testing.T, atomic *profile.Atomic, fieldType profile.FieldType, negate bool) FieldSpec {
	spec, err := Factory{}.Construct(atomic, fieldType, negate)
	require.NoError(t, err)
	//
	return spec
}

func relation(t *testing.T, r *profile.Relation, fieldType profile.FieldType, negate bool) Relation {
	rel, err := NewRelation(r, fieldType, negate)
	require.NoError(t, err)
	//
	return rel
}

func sampleSpecs(t *testing.T) []FieldSpec {
	return []FieldSpec{
		FromType(profile.Numeric),
		FromType(profile.Numeric).WithNotNull(),
		NullOnly(profile.Numeric),
		FromWhitelist(profile.Numeric, Uniform(num("1"), num("2"), num("7"))),
		FromWhitelist(profile.Numeric, Uniform(num("2"), num("3"))).WithNotNull(),
		construct(t, &profile.Atomic{Kind: profile.GreaterThan, Field: "x", Value: num("2")}, profile.Numeric, false),
		construct(t, &profile.Atomic{Kind: profile.LessThan, Field: "x", Value: num("2")}, profile.Numeric, false),
		construct(t, &profile.Atomic{Kind: profile.EqualTo, Field: "x", Value: num("7")}, profile.Numeric, true),
		construct(t, &profile.Atomic{Kind: profile.GranularTo, Field: "x", Scale: 0}, profile.Numeric, false),
	}
}

func sampleValues() []profile.Value {
	return []profile.Value{num("-1"), num("1"), num("1.5"), num("2"), num("3"), num("7"), num("100")}
}

func weighted(values ...profile.Value) []profile.WeightedValue {
	weighted := make([]profile.WeightedValue, len(values))
	//
	for i, v := range values {
		weighted[i] = profile.WeightedValue{Value: v, Weight: 1}
	}
	//
	return weighted
}

func num(value string) profile.Value {
	return profile.NumericValue(decimal.RequireFromString(value))
}

func str(value string) profile.Value {
	return profile.StringValue(value)
}

func date(year int, month time.Month, day int) profile.Value {
	return profile.DateTimeValue(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
