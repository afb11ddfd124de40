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
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
)

// Upper bound on the number of steps taken by a random walk before it heads
// directly for the nearest accepting state.
const maxRandomWalk = 1000

// Shortest returns the lexicographically least amongst the shortest strings
// accepted by this automaton, or false if it accepts nothing.
func (p *DFA) Shortest() (string, bool) {
	if p.IsEmpty() {
		return "", false
	}
	//
	return string(p.completion(0, nil)), true
}

// Append onto a given prefix the least shortest path from a live state to an
// accepting state.
func (p *DFA) completion(state int, prefix []rune) []rune {
	for p.dist[state] > 0 {
		for _, e := range p.states[state].edges {
			if p.dist[e.to] == p.dist[state]-1 {
				prefix = append(prefix, e.lo)
				state = e.to
				//
				break
			}
		}
	}
	//
	return prefix
}

// Longest returns the longest string accepted by this automaton.  This returns
// false if the automaton is empty or its language is infinite.
func (p *DFA) Longest() (string, bool) {
	if p.IsEmpty() || !p.IsFinite() {
		return "", false
	}
	//
	var (
		longest = make([]int, len(p.states))
		choice  = make([]int, len(p.states))
		done    = make([]bool, len(p.states))
		visit   func(int) int
	)
	// Live states reachable from the start form a DAG here.
	visit = func(s int) int {
		if done[s] {
			return longest[s]
		}
		//
		longest[s], choice[s] = -1, -1
		if p.states[s].accept {
			longest[s] = 0
		}
		//
		for i, e := range p.states[s].edges {
			if p.live[e.to] {
				if l := visit(e.to) + 1; l > longest[s] {
					longest[s], choice[s] = l, i
				}
			}
		}
		//
		done[s] = true
		//
		return longest[s]
	}
	//
	visit(0)
	// Reconstruct
	var runes []rune
	//
	for s := 0; choice[s] >= 0; {
		e := p.states[s].edges[choice[s]]
		runes = append(runes, e.lo)
		s = e.to
	}
	//
	return string(runes), true
}

// Interesting returns a small set of boundary strings for this automaton: the
// shortest accepted string and, for finite languages, the longest.
func (p *DFA) Interesting() []string {
	var result []string
	//
	if shortest, ok := p.Shortest(); ok {
		result = append(result, shortest)
		//
		if longest, ok := p.Longest(); ok && longest != shortest {
			result = append(result, longest)
		}
	}
	//
	return result
}

// Random produces a random string accepted by this automaton, by walking
// randomly over live states.  At each accepting state, the walk stops with
// probability 1/(n+1) where n is the number of live edges.  This returns false
// if the automaton is empty.
func (p *DFA) Random(rng util.RandomSource) (string, bool) {
	if p.IsEmpty() {
		return "", false
	}
	//
	var (
		runes []rune
		state = 0
		live  []edge
	)
	//
	for steps := 0; ; steps++ {
		live = live[:0]
		//
		for _, e := range p.states[state].edges {
			if p.live[e.to] {
				live = append(live, e)
			}
		}
		//
		if p.states[state].accept && (len(live) == 0 || rng.IntN(len(live)+1) == 0) {
			break
		} else if steps >= maxRandomWalk {
			runes = p.completion(state, runes)
			break
		}
		//
		e := live[rng.IntN(len(live))]
		runes = append(runes, e.lo+rune(rng.IntN(int(e.hi-e.lo)+1)))
		state = e.to
	}
	//
	return string(runes), true
}

// All returns every string accepted by this automaton in shortlex order (i.e.
// by length, then lexicographically).  The sequence is computed lazily, and is
// infinite when the language is.
func (p *DFA) All() iter.Iterator[string] {
	if p.IsEmpty() {
		return iter.NewEmptyIterator[string]()
	}
	//
	maxLength := -1
	//
	if longest, ok := p.Longest(); ok {
		maxLength = len([]rune(longest))
	}
	//
	return &allIterator{dfa: p, maxLength: maxLength, exact: [][]bool{p.acceptStates()}}
}

func (p *DFA) acceptStates() []bool {
	accepts := make([]bool, len(p.states))
	//
	for i, s := range p.states {
		accepts[i] = s.accept
	}
	//
	return accepts
}

// Single position within a string being enumerated.
type position struct {
	// State from which this position was reached.
	state int
	// Edge taken from that state.
	edge int
	// Rune chosen within the edge.
	char rune
}

// Enumerates strings by increasing length.  For each length, the strings are
// enumerated in lexicographic order by a depth-first search which only takes
// edges from which an accepting state is reachable in exactly the number of
// remaining steps.
type allIterator struct {
	dfa *DFA
	// Length of strings currently being enumerated.
	length int
	// Maximum length of any accepted string, or -1 if unbounded.
	maxLength int
	// Current path (when started).
	path    []position
	started bool
	// exact[k][s] holds when an accepting state is reachable from s in
	// exactly k steps.
	exact   [][]bool
	next    string
	pending bool
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *allIterator) HasNext() bool {
	for !p.pending {
		if p.maxLength >= 0 && p.length > p.maxLength {
			return false
		}
		//
		var found bool
		//
		if !p.started {
			p.started = true
			p.path = p.path[:0]
			found = p.exactly(p.length)[0] && p.descend()
		} else {
			found = p.backtrack()
		}
		//
		if found {
			p.next, p.pending = p.current(), true
		} else {
			p.length++
			p.started = false
		}
	}
	//
	return true
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *allIterator) Next() string {
	if !p.HasNext() {
		panic("iterator exhausted")
	}
	//
	p.pending = false
	//
	return p.next
}

// Determine which states reach an accepting state in exactly k steps.
func (p *allIterator) exactly(k int) []bool {
	for len(p.exact) <= k {
		var (
			prev = p.exact[len(p.exact)-1]
			next = make([]bool, len(prev))
		)
		//
		for i, s := range p.dfa.states {
			for _, e := range s.edges {
				if prev[e.to] {
					next[i] = true
					break
				}
			}
		}
		//
		p.exact = append(p.exact, next)
	}
	//
	return p.exact[k]
}

// State reached at the end of the current path.
func (p *allIterator) head() int {
	if n := len(p.path); n > 0 {
		return p.dfa.states[p.path[n-1].state].edges[p.path[n-1].edge].to
	}
	//
	return 0
}

// Extend the current path with least choices until it has the required
// length.
func (p *allIterator) descend() bool {
	for len(p.path) < p.length {
		var (
			state     = p.head()
			remaining = p.length - len(p.path) - 1
			targets   = p.exactly(remaining)
			found     = false
		)
		//
		for i, e := range p.dfa.states[state].edges {
			if targets[e.to] {
				p.path = append(p.path, position{state, i, e.lo})
				found = true
				//
				break
			}
		}
		//
		if !found {
			return false
		}
	}
	//
	return true
}

// Move to the next path of the current length in lexicographic order.
func (p *allIterator) backtrack() bool {
	for len(p.path) > 0 {
		var (
			n         = len(p.path) - 1
			pos       = p.path[n]
			edges     = p.dfa.states[pos.state].edges
			remaining = p.length - n - 1
			targets   = p.exactly(remaining)
		)
		//
		p.path = p.path[:n]
		// Next rune on the same edge
		if pos.char < edges[pos.edge].hi {
			p.path = append(p.path, position{pos.state, pos.edge, pos.char + 1})
			return p.descend()
		}
		// Next usable edge
		for i := pos.edge + 1; i < len(edges); i++ {
			if targets[edges[i].to] {
				p.path = append(p.path, position{pos.state, i, edges[i].lo})
				return p.descend()
			}
		}
	}
	//
	return false
}

func (p *allIterator) current() string {
	runes := make([]rune, len(p.path))
	//
	for i, pos := range p.path {
		runes[i] = pos.char
	}
	//
	return string(runes)
}
