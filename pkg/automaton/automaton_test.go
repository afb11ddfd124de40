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
package automaton

import (
	"regexp"
	"testing"

	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Automaton_Matches_01(t *testing.T) {
	checkMatches(t, "abc", []string{"abc"}, []string{"", "ab", "abcd", "xabc"})
}

func Test_Automaton_Matches_02(t *testing.T) {
	checkMatches(t, "[a-c]{2,3}", []string{"ab", "cca", "bbb"}, []string{"a", "abcd", "ad"})
}

func Test_Automaton_Matches_03(t *testing.T) {
	checkMatches(t, "(foo|ba+r)*", []string{"", "foo", "bar", "baaarfoo"}, []string{"fo", "br", "foob"})
}

func Test_Automaton_Matches_04(t *testing.T) {
	checkMatches(t, "^[0-9]+$", []string{"0", "123"}, []string{"", "12a"})
}

func Test_Automaton_Matches_05(t *testing.T) {
	checkMatches(t, "(?i)ab", []string{"ab", "AB", "aB"}, []string{"abc"})
}

func Test_Automaton_Matches_06(t *testing.T) {
	checkMatches(t, "[^a]", []string{"b", "Z", " "}, []string{"a", "bb"})
}

func Test_Automaton_Invalid_01(t *testing.T) {
	_, err := FromRegex("a(b")
	assert.Error(t, err)
}

func Test_Automaton_Containing_01(t *testing.T) {
	dfa, err := Containing("ab")
	require.NoError(t, err)
	//
	assert.True(t, dfa.Matches("ab"))
	assert.True(t, dfa.Matches("xxabyy"))
	assert.False(t, dfa.Matches("ba"))
}

func Test_Automaton_Length_01(t *testing.T) {
	dfa := Length(2, 3)
	//
	assert.False(t, dfa.Matches("a"))
	assert.True(t, dfa.Matches("ab"))
	assert.True(t, dfa.Matches("abc"))
	assert.False(t, dfa.Matches("abcd"))
}

func Test_Automaton_Length_02(t *testing.T) {
	dfa := Length(2, -1)
	//
	assert.False(t, dfa.Matches("a"))
	assert.True(t, dfa.Matches("abcdefgh"))
	assert.False(t, dfa.IsFinite())
}

func Test_Automaton_Length_03(t *testing.T) {
	assert.True(t, Length(3, 2).IsEmpty())
}

func Test_Automaton_Intersect_01(t *testing.T) {
	dfa := mustRegex(t, "[a-z]+").Intersect(Length(0, 2))
	//
	assert.True(t, dfa.Matches("ab"))
	assert.False(t, dfa.Matches("abc"))
	assert.True(t, dfa.IsFinite())
}

func Test_Automaton_Intersect_02(t *testing.T) {
	dfa := mustRegex(t, "[a-c]+").Intersect(mustRegex(t, "[x-z]+"))
	assert.True(t, dfa.IsEmpty())
}

func Test_Automaton_Complement_01(t *testing.T) {
	dfa := mustRegex(t, "a+").Complement()
	//
	assert.True(t, dfa.Matches(""))
	assert.True(t, dfa.Matches("b"))
	assert.True(t, dfa.Matches("aab"))
	assert.False(t, dfa.Matches("aaa"))
}

func Test_Automaton_Complement_02(t *testing.T) {
	// Complement of complement is the original language
	dfa := mustRegex(t, "x[0-9]").Complement().Complement()
	//
	assert.True(t, dfa.Matches("x1"))
	assert.False(t, dfa.Matches("x"))
	assert.False(t, dfa.Matches("y1"))
}

func Test_Automaton_FromStrings_01(t *testing.T) {
	dfa := FromStrings([]string{"cat", "car", "dog"})
	//
	assert.True(t, dfa.Matches("car"))
	assert.False(t, dfa.Matches("ca"))
	assert.Equal(t, []string{"car", "cat", "dog"}, iter.Collect(dfa.All()))
}

func Test_Automaton_FromStrings_02(t *testing.T) {
	assert.True(t, FromStrings(nil).IsEmpty())
}

func Test_Automaton_Blacklist_01(t *testing.T) {
	dfa := mustRegex(t, "[ab]").Intersect(FromStrings([]string{"a"}).Complement())
	assert.Equal(t, []string{"b"}, iter.Collect(dfa.All()))
}

func Test_Automaton_All_01(t *testing.T) {
	dfa := mustRegex(t, "[ab]{1,2}")
	assert.Equal(t, []string{"a", "b", "aa", "ab", "ba", "bb"}, iter.Collect(dfa.All()))
}

func Test_Automaton_All_02(t *testing.T) {
	// Infinite languages are enumerated lazily
	dfa := mustRegex(t, "a*")
	items := iter.Collect(iter.NewLimitIterator(dfa.All(), 4))
	assert.Equal(t, []string{"", "a", "aa", "aaa"}, items)
}

func Test_Automaton_All_03(t *testing.T) {
	dfa := mustRegex(t, "(ab|c)+")
	items := iter.Collect(iter.NewLimitIterator(dfa.All(), 5))
	assert.Equal(t, []string{"c", "ab", "cc", "abc", "cab"}, items)
}

func Test_Automaton_Interesting_01(t *testing.T) {
	dfa := mustRegex(t, "a{2,5}")
	assert.Equal(t, []string{"aa", "aaaaa"}, dfa.Interesting())
}

func Test_Automaton_Interesting_02(t *testing.T) {
	dfa := mustRegex(t, "b+")
	assert.Equal(t, []string{"b"}, dfa.Interesting())
}

func Test_Automaton_Random_01(t *testing.T) {
	checkRandom(t, "[A-Z][a-z]{0,8}")
}

func Test_Automaton_Random_02(t *testing.T) {
	checkRandom(t, "(x|yz)*w")
}

func Test_Automaton_Random_03(t *testing.T) {
	_, ok := FromStrings(nil).Random(util.NewRandomSource(0))
	assert.False(t, ok)
}

// ===================================================================
// Helpers
// ===================================================================

func mustRegex(t *testing.T, pattern string) *DFA {
	dfa, err := FromRegex(pattern)
	require.NoError(t, err)
	//
	return dfa
}

func checkMatches(t *testing.T, pattern string, accepts []string, rejects []string) {
	dfa := mustRegex(t, pattern)
	//
	for _, s := range accepts {
		assert.True(t, dfa.Matches(s), "%q should match %q", pattern, s)
	}
	//
	for _, s := range rejects {
		assert.False(t, dfa.Matches(s), "%q should not match %q", pattern, s)
	}
}

func checkRandom(t *testing.T, pattern string) {
	var (
		dfa = mustRegex(t, pattern)
		rng = util.NewRandomSource(42)
		re  = regexp.MustCompile("^(?:" + pattern + ")$")
	)
	//
	for i := 0; i < 100; i++ {
		str, ok := dfa.Random(rng)
		//
		require.True(t, ok)
		assert.True(t, re.MatchString(str), "random string %q does not match %q", str, pattern)
	}
}
