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
	"strconv"
	"strings"
)

// DFA is a deterministic finite automaton over rune ranges, describing a
// regular language.  State 0 is always the start state.  A DFA is immutable
// once constructed, hence can be shared freely.
type DFA struct {
	states []dfaState
	// Identifies states from which an accepting state is reachable.
	live []bool
	// Shortest distance from each state to an accepting state (or -1).
	dist []int
}

type dfaState struct {
	accept bool
	// Outgoing edges, sorted by rune and non-overlapping.
	edges []edge
}

type edge struct {
	lo rune
	hi rune
	to int
}

// FromRegex constructs an automaton accepting exactly the strings matched
// (in full) by a given regular expression.
func FromRegex(pattern string) (*DFA, error) {
	n, err := compileRegex(pattern, false)
	//
	if err != nil {
		return nil, err
	}
	//
	return determinise(n), nil
}

// Containing constructs an automaton accepting every string which contains a
// match for a given regular expression.
func Containing(pattern string) (*DFA, error) {
	n, err := compileRegex(pattern, true)
	//
	if err != nil {
		return nil, err
	}
	//
	return determinise(n), nil
}

// Subset construction
func determinise(n *nfa) *DFA {
	var (
		states []dfaState
		sets   [][]int
		index  = make(map[string]int)
	)
	//
	lookup := func(set []int) int {
		key := setKey(set)
		if id, ok := index[key]; ok {
			return id
		}
		//
		id := len(states)
		index[key] = id
		//
		states = append(states, dfaState{accept: slices.Contains(set, n.accept)})
		sets = append(sets, set)
		//
		return id
	}
	//
	lookup(n.closure([]int{n.start}))
	//
	for id := 0; id < len(states); id++ {
		var (
			set    = sets[id]
			bounds []rune
		)
		// Split the alphabet into elementary intervals
		for _, s := range set {
			for _, r := range n.states[s].class {
				bounds = append(bounds, r.Lo, r.Hi+1)
			}
		}
		//
		slices.Sort(bounds)
		bounds = slices.Compact(bounds)
		//
		var edges []edge
		//
		for i := 0; i+1 < len(bounds); i++ {
			lo, hi := bounds[i], bounds[i+1]-1
			//
			var targets []int
			//
			for _, s := range set {
				if st := n.states[s]; st.out >= 0 && classContains(st.class, lo) {
					targets = append(targets, st.out)
				}
			}
			//
			if len(targets) == 0 {
				continue
			}
			//
			to := lookup(n.closure(targets))
			edges = appendEdge(edges, edge{lo, hi, to})
		}
		//
		states[id].edges = edges
	}
	//
	return newDFA(states)
}

// Compute the epsilon closure of a set of states, returned in sorted order.
func (p *nfa) closure(set []int) []int {
	var (
		seen  = make(map[int]bool)
		stack = slices.Clone(set)
	)
	//
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		//
		if seen[s] {
			continue
		}
		//
		seen[s] = true
		stack = append(stack, p.states[s].eps...)
	}
	//
	result := make([]int, 0, len(seen))
	for s := range seen {
		result = append(result, s)
	}
	//
	slices.Sort(result)
	//
	return result
}

func setKey(set []int) string {
	var builder strings.Builder
	//
	for i, s := range set {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(strconv.Itoa(s))
	}
	//
	return builder.String()
}

func classContains(class []Range, r rune) bool {
	for _, c := range class {
		if c.Lo <= r && r <= c.Hi {
			return true
		}
	}
	//
	return false
}

// Append an edge, merging it with the previous edge when they are contiguous
// and share a target.
func appendEdge(edges []edge, e edge) []edge {
	if n := len(edges); n > 0 && edges[n-1].to == e.to && edges[n-1].hi+1 == e.lo {
		edges[n-1].hi = e.hi
		return edges
	}
	//
	return append(edges, e)
}

// Construct an automaton from its states, computing the liveness information
// needed for emptiness checking and generation.
func newDFA(states []dfaState) *DFA {
	var (
		n       = len(states)
		dist    = make([]int, n)
		reverse = make([][]int, n)
		queue   []int
	)
	//
	for i, s := range states {
		dist[i] = -1
		//
		if s.accept {
			dist[i] = 0
			queue = append(queue, i)
		}
		//
		for _, e := range s.edges {
			reverse[e.to] = append(reverse[e.to], i)
		}
	}
	// Backwards breadth-first search from accepting states
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		//
		for _, pred := range reverse[s] {
			if dist[pred] < 0 {
				dist[pred] = dist[s] + 1
				queue = append(queue, pred)
			}
		}
	}
	//
	live := make([]bool, n)
	for i := range live {
		live[i] = dist[i] >= 0
	}
	//
	return &DFA{states, live, dist}
}

// IsEmpty checks whether this automaton accepts no strings at all.
func (p *DFA) IsEmpty() bool {
	return !p.live[0]
}

// Matches checks whether a given string is accepted by this automaton.
func (p *DFA) Matches(str string) bool {
	state := 0
	//
	for _, r := range str {
		if state = p.step(state, r); state < 0 {
			return false
		}
	}
	//
	return p.states[state].accept
}

func (p *DFA) step(state int, r rune) int {
	edges := p.states[state].edges
	// Binary search for the edge covering r
	i, _ := slices.BinarySearchFunc(edges, r, func(e edge, r rune) int {
		if e.hi < r {
			return -1
		} else if e.lo > r {
			return 1
		}
		//
		return 0
	})
	//
	if i < len(edges) && edges[i].lo <= r && r <= edges[i].hi {
		return edges[i].to
	}
	//
	return -1
}

// IsFinite checks whether this automaton accepts only finitely many strings.
// This holds when no cycle passes through a live state reachable from the
// start.
func (p *DFA) IsFinite() bool {
	const (
		white = iota
		grey
		black
	)
	//
	if p.IsEmpty() {
		return true
	}
	//
	colour := make([]int, len(p.states))
	// Iterative depth-first search, tracking the next edge of each frame.
	type frame struct{ state, edge int }
	//
	stack := []frame{{0, 0}}
	colour[0] = grey
	//
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := p.states[top.state].edges
		//
		if top.edge >= len(edges) {
			colour[top.state] = black
			stack = stack[:len(stack)-1]
			//
			continue
		}
		//
		to := edges[top.edge].to
		top.edge++
		//
		if !p.live[to] {
			continue
		} else if colour[to] == grey {
			return false
		} else if colour[to] == white {
			colour[to] = grey
			stack = append(stack, frame{to, 0})
		}
	}
	//
	return true
}

// Size returns the number of states in this automaton.
func (p *DFA) Size() int {
	return len(p.states)
}
