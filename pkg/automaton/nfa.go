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
	"fmt"
	"regexp/syntax"
	"slices"
	"unicode"
)

// Range is an inclusive range of runes.
type Range struct {
	Lo rune
	Hi rune
}

// Universe is the alphabet over which every language is defined.  Generated
// strings are only ever drawn from these runes, and complements are taken with
// respect to them.
var Universe = []Range{{0x20, 0x7E}, {0xA0, 0xD7FF}, {0xE000, 0xFFFD}}

// A state of a nondeterministic automaton.  Each state has at most one
// character edge, which matches any rune in its class.
type nfaState struct {
	// Epsilon transitions
	eps []int
	// Runes accepted by the character edge (if any)
	class []Range
	// Target of the character edge, or -1 if none.
	out int
}

// Thompson-style nondeterministic automaton built from a regular expression.
type nfa struct {
	states []nfaState
	start  int
	accept int
}

func compileRegex(pattern string, containing bool) (*nfa, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	//
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	//
	var n nfa
	//
	start, end, err := n.compile(re.Simplify())
	if err != nil {
		return nil, err
	}
	// Surround with arbitrary text when matching a substring.
	if containing {
		start = n.wrapUniverse(start, true)
		end = n.wrapUniverse(end, false)
	}
	//
	n.start, n.accept = start, end
	//
	return &n, nil
}

func (p *nfa) add() int {
	p.states = append(p.states, nfaState{out: -1})
	return len(p.states) - 1
}

func (p *nfa) epsilon(from, to int) {
	p.states[from].eps = append(p.states[from].eps, to)
}

func (p *nfa) edge(from, to int, class []Range) {
	p.states[from].class = class
	p.states[from].out = to
}

// Add a self-loop over the universe either before (prefix) or after a given
// state, returning the new boundary state.
func (p *nfa) wrapUniverse(boundary int, prefix bool) int {
	loop, next := p.add(), p.add()
	p.edge(loop, next, Universe)
	p.epsilon(next, loop)
	//
	if prefix {
		p.epsilon(loop, boundary)
		p.epsilon(next, boundary)
		//
		return loop
	}
	//
	end := p.add()
	p.epsilon(boundary, loop)
	p.epsilon(boundary, end)
	p.epsilon(next, end)
	//
	return end
}

// Compile a regular expression into a fragment with a single entry and a
// single exit state.
func (p *nfa) compile(re *syntax.Regexp) (int, int, error) {
	switch re.Op {
	case syntax.OpNoMatch:
		// Entry and exit are never connected
		return p.add(), p.add(), nil
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		// Assertions are treated as matching the empty string.
		s, e := p.add(), p.add()
		p.epsilon(s, e)
		//
		return s, e, nil
	case syntax.OpLiteral:
		start := p.add()
		curr := start
		//
		for _, r := range re.Rune {
			next := p.add()
			p.edge(curr, next, literalClass(r, re.Flags&syntax.FoldCase != 0))
			curr = next
		}
		//
		return start, curr, nil
	case syntax.OpCharClass:
		var class []Range
		//
		for i := 0; i+1 < len(re.Rune); i += 2 {
			class = append(class, Range{re.Rune[i], re.Rune[i+1]})
		}
		//
		s, e := p.add(), p.add()
		p.edge(s, e, intersectRanges(normaliseRanges(class), Universe))
		//
		return s, e, nil
	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		// Newline is not in the universe anyway
		s, e := p.add(), p.add()
		p.edge(s, e, Universe)
		//
		return s, e, nil
	case syntax.OpCapture:
		return p.compile(re.Sub[0])
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest:
		is, ie, err := p.compile(re.Sub[0])
		if err != nil {
			return 0, 0, err
		}
		//
		s, e := p.add(), p.add()
		p.epsilon(s, is)
		p.epsilon(ie, e)
		//
		if re.Op != syntax.OpPlus {
			p.epsilon(s, e)
		}
		//
		if re.Op != syntax.OpQuest {
			p.epsilon(ie, is)
		}
		//
		return s, e, nil
	case syntax.OpRepeat:
		return p.compileRepeat(re)
	case syntax.OpConcat:
		start := p.add()
		curr := start
		//
		for _, sub := range re.Sub {
			is, ie, err := p.compile(sub)
			if err != nil {
				return 0, 0, err
			}
			//
			p.epsilon(curr, is)
			curr = ie
		}
		//
		return start, curr, nil
	case syntax.OpAlternate:
		s, e := p.add(), p.add()
		//
		for _, sub := range re.Sub {
			is, ie, err := p.compile(sub)
			if err != nil {
				return 0, 0, err
			}
			//
			p.epsilon(s, is)
			p.epsilon(ie, e)
		}
		//
		return s, e, nil
	}
	//
	return 0, 0, fmt.Errorf("unsupported regular expression construct %q", re.String())
}

func (p *nfa) compileRepeat(re *syntax.Regexp) (int, int, error) {
	var (
		sub   = re.Sub[0]
		start = p.add()
		curr  = start
	)
	// Mandatory copies
	for i := 0; i < re.Min; i++ {
		is, ie, err := p.compile(sub)
		if err != nil {
			return 0, 0, err
		}
		//
		p.epsilon(curr, is)
		curr = ie
	}
	//
	if re.Max < 0 {
		star := &syntax.Regexp{Op: syntax.OpStar, Sub: []*syntax.Regexp{sub}}
		is, ie, err := p.compile(star)
		//
		if err != nil {
			return 0, 0, err
		}
		//
		p.epsilon(curr, is)
		//
		return start, ie, nil
	}
	// Optional copies
	end := p.add()
	p.epsilon(curr, end)
	//
	for i := re.Min; i < re.Max; i++ {
		is, ie, err := p.compile(sub)
		if err != nil {
			return 0, 0, err
		}
		//
		p.epsilon(curr, is)
		p.epsilon(ie, end)
		curr = ie
	}
	//
	return start, end, nil
}

// Determine the class of runes matched by a literal, including its case folds
// where requested.
func literalClass(r rune, fold bool) []Range {
	class := []Range{{r, r}}
	//
	if fold {
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			class = append(class, Range{f, f})
		}
	}
	//
	return normaliseRanges(class)
}

// Sort a set of ranges and merge any which overlap or are adjacent.
func normaliseRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	//
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int { return int(a.Lo) - int(b.Lo) })
	//
	result := []Range{sorted[0]}
	//
	for _, r := range sorted[1:] {
		last := &result[len(result)-1]
		//
		if r.Lo <= last.Hi+1 {
			last.Hi = max(last.Hi, r.Hi)
		} else {
			result = append(result, r)
		}
	}
	//
	return result
}

// Intersect two normalised sets of ranges.
func intersectRanges(left []Range, right []Range) []Range {
	var (
		result []Range
		i, j   int
	)
	//
	for i < len(left) && j < len(right) {
		lo, hi := max(left[i].Lo, right[j].Lo), min(left[i].Hi, right[j].Hi)
		//
		if lo <= hi {
			result = append(result, Range{lo, hi})
		}
		//
		if left[i].Hi < right[j].Hi {
			i++
		} else {
			j++
		}
	}
	//
	return result
}
