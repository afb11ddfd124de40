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
	"slices"
)

// FromStrings constructs an automaton accepting exactly the given strings.
func FromStrings(strs []string) *DFA {
	var (
		states = []dfaState{{}}
		// Children of each trie node, indexed by rune.
		children = []map[rune]int{make(map[rune]int)}
	)
	//
	for _, str := range strs {
		state := 0
		//
		for _, r := range str {
			next, ok := children[state][r]
			//
			if !ok {
				next = len(states)
				states = append(states, dfaState{})
				children = append(children, make(map[rune]int))
				children[state][r] = next
			}
			//
			state = next
		}
		//
		states[state].accept = true
	}
	// Convert children into sorted edges
	for i, cs := range children {
		runes := make([]rune, 0, len(cs))
		for r := range cs {
			runes = append(runes, r)
		}
		//
		slices.Sort(runes)
		//
		for _, r := range runes {
			states[i].edges = append(states[i].edges, edge{r, r, cs[r]})
		}
	}
	//
	return newDFA(states)
}

// Length constructs an automaton accepting every string over the universe
// whose length lies between min and max (inclusive).  A negative max means no
// upper bound.
func Length(minLength int, maxLength int) *DFA {
	minLength = max(minLength, 0)
	//
	if maxLength >= 0 && maxLength < minLength {
		return FromStrings(nil)
	} else if maxLength < 0 {
		// Chain of minLength states, followed by a self loop.
		states := make([]dfaState, minLength+1)
		//
		for i := range states {
			to := min(i+1, minLength)
			states[i].edges = universeEdges(to)
		}
		//
		states[minLength].accept = true
		//
		return newDFA(states)
	}
	//
	states := make([]dfaState, maxLength+1)
	//
	for i := range states {
		states[i].accept = i >= minLength
		//
		if i < maxLength {
			states[i].edges = universeEdges(i + 1)
		}
	}
	//
	return newDFA(states)
}

func universeEdges(to int) []edge {
	edges := make([]edge, len(Universe))
	//
	for i, r := range Universe {
		edges[i] = edge{r.Lo, r.Hi, to}
	}
	//
	return edges
}

// Intersect constructs an automaton accepting exactly those strings accepted
// by both this and the given automaton.
func (p *DFA) Intersect(other *DFA) *DFA {
	var (
		states []dfaState
		pairs  [][2]int
		index  = make(map[[2]int]int)
	)
	//
	lookup := func(pair [2]int) int {
		if id, ok := index[pair]; ok {
			return id
		}
		//
		id := len(states)
		index[pair] = id
		accept := p.states[pair[0]].accept && other.states[pair[1]].accept
		states = append(states, dfaState{accept: accept})
		pairs = append(pairs, pair)
		//
		return id
	}
	//
	lookup([2]int{0, 0})
	//
	for id := 0; id < len(states); id++ {
		var (
			left  = p.states[pairs[id][0]].edges
			right = other.states[pairs[id][1]].edges
			edges []edge
			i, j  int
		)
		// Skip pairs which can never accept
		if !p.live[pairs[id][0]] || !other.live[pairs[id][1]] {
			continue
		}
		//
		for i < len(left) && j < len(right) {
			lo, hi := max(left[i].lo, right[j].lo), min(left[i].hi, right[j].hi)
			//
			if lo <= hi {
				to := lookup([2]int{left[i].to, right[j].to})
				edges = appendEdge(edges, edge{lo, hi, to})
			}
			//
			if left[i].hi < right[j].hi {
				i++
			} else {
				j++
			}
		}
		//
		states[id].edges = edges
	}
	//
	return newDFA(states).trim()
}

// Complement constructs an automaton accepting every string over the universe
// which is not accepted by this automaton.
func (p *DFA) Complement() *DFA {
	var (
		sink   = len(p.states)
		states = make([]dfaState, sink+1)
	)
	//
	for i, s := range p.states {
		states[i].accept = !s.accept
		states[i].edges = totalise(s.edges, sink)
	}
	//
	states[sink] = dfaState{true, universeEdges(sink)}
	//
	return newDFA(states)
}

// Extend a set of edges such that every rune of the universe has an edge,
// with those previously missing going to a given target.
func totalise(edges []edge, target int) []edge {
	var (
		result = slices.Clone(edges)
		gaps   []Range
	)
	//
	for _, u := range Universe {
		lo := u.Lo
		//
		for _, e := range edges {
			if e.hi < lo || e.lo > u.Hi {
				continue
			}
			//
			if e.lo > lo {
				gaps = append(gaps, Range{lo, e.lo - 1})
			}
			//
			lo = e.hi + 1
		}
		//
		if lo <= u.Hi {
			gaps = append(gaps, Range{lo, u.Hi})
		}
	}
	//
	for _, g := range gaps {
		result = append(result, edge{g.Lo, g.Hi, target})
	}
	//
	slices.SortFunc(result, func(a, b edge) int { return int(a.lo) - int(b.lo) })
	//
	return result
}

// Remove every state (other than the start) from which no accepting state is
// reachable, along with edges into them.
func (p *DFA) trim() *DFA {
	var (
		mapping = make([]int, len(p.states))
		states  []dfaState
	)
	//
	for i := range p.states {
		mapping[i] = -1
		//
		if i == 0 || p.live[i] {
			mapping[i] = len(states)
			states = append(states, dfaState{accept: p.states[i].accept})
		}
	}
	//
	if len(states) == len(p.states) {
		return p
	}
	//
	for i, s := range p.states {
		if mapping[i] < 0 {
			continue
		}
		//
		var edges []edge
		//
		for _, e := range s.edges {
			if mapping[e.to] >= 0 {
				edges = append(edges, edge{e.lo, e.hi, mapping[e.to]})
			}
		}
		//
		states[mapping[i]].edges = edges
	}
	//
	return newDFA(states)
}
