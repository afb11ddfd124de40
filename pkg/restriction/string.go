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
	"strings"

	"github.com/consensys/go-datagen/pkg/automaton"
)

// DefaultMaxStringLength is the maximum length of any generated string.
const DefaultMaxStringLength = 1000

// String restricts string values to those of a regular language.
type String struct {
	language *automaton.DFA
	// Human-readable summary of how this restriction was obtained.
	description string
}

// ForMatching constructs a restriction permitting only those strings which
// fully match a given regular expression (or, when negated, those which do
// not).
func ForMatching(pattern string, negate bool) (*String, error) {
	dfa, err := automaton.FromRegex(pattern)
	//
	if err != nil {
		return nil, err
	}
	//
	return newString(dfa, negate, fmt.Sprintf("matching /%s/", pattern)), nil
}

// ForContaining constructs a restriction permitting only those strings which
// contain a match for a given regular expression (or, when negated, those
// which do not).
func ForContaining(pattern string, negate bool) (*String, error) {
	dfa, err := automaton.Containing(pattern)
	//
	if err != nil {
		return nil, err
	}
	//
	return newString(dfa, negate, fmt.Sprintf("containing /%s/", pattern)), nil
}

// ForLength constructs a restriction permitting only those strings of an exact
// length (or, when negated, of any other length).
func ForLength(length int, negate bool) *String {
	return newString(automaton.Length(length, length), negate, fmt.Sprintf("length %d", length))
}

// ForMinLength constructs a restriction permitting only those strings whose
// length is at least a given amount.
func ForMinLength(length int) *String {
	return &String{automaton.Length(length, -1), fmt.Sprintf("length >= %d", length)}
}

// ForMaxLength constructs a restriction permitting only those strings whose
// length is at most a given amount.  A negative length permits nothing.
func ForMaxLength(length int) *String {
	if length < 0 {
		return &String{automaton.FromStrings(nil), "nothing"}
	}
	//
	return &String{automaton.Length(0, length), fmt.Sprintf("length <= %d", length)}
}

// ForStrings constructs a restriction permitting exactly the given strings.
func ForStrings(strs []string) *String {
	return &String{automaton.FromStrings(strs), fmt.Sprintf("in %v", strs)}
}

func newString(dfa *automaton.DFA, negate bool, description string) *String {
	if negate {
		return &String{dfa.Complement(), "not " + description}
	}
	//
	return &String{dfa, description}
}

// Intersect this restriction with another, producing a restriction which
// permits only those strings permitted by both.
func (p *String) Intersect(other *String) *String {
	return &String{p.language.Intersect(other.language), p.description + " and " + other.description}
}

// Except produces a restriction permitting those strings permitted by this
// restriction, other than the given strings.
func (p *String) Except(strs []string) *String {
	if len(strs) == 0 {
		return p
	}
	//
	description := fmt.Sprintf("%s and not in [%s]", p.description, strings.Join(strs, ", "))
	//
	return &String{p.language.Intersect(automaton.FromStrings(strs).Complement()), description}
}

// Permits checks whether a given string is permitted by this restriction.
func (p *String) Permits(value string) bool {
	return p.language.Matches(value)
}

// IsContradictory implementation for Restriction interface.
func (p *String) IsContradictory() bool {
	return p.language.IsEmpty()
}

// Language returns the automaton describing the strings permitted by this
// restriction.
func (p *String) Language() *automaton.DFA {
	return p.language
}

// Restriction marker
func (p *String) restriction() {}

func (p *String) String() string {
	return p.description
}
