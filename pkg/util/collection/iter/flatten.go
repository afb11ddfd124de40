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
package iter

// FlattenIterator adapts an iterator of items which can themselves be iterated
// into a flat sequence.
type flattenIterator[S, T any] struct {
	// Outermost iterator
	iter Iterator[S]
	// Innermost iterator
	curr Iterator[T]
	// Mapping function
	fn func(S) Iterator[T]
}

// NewFlattenIterator adapts a sequence of items S which themselves can be
// iterated as items T, into a flat sequence of items T.  The mapping function
// is only applied when the previous inner iterator is exhausted, hence this is
// safe to use on infinite outer sequences.
func NewFlattenIterator[S, T any](iter Iterator[S], fn func(S) Iterator[T]) Iterator[T] {
	return &flattenIterator[S, T]{iter, nil, fn}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *flattenIterator[S, T]) HasNext() bool {
	if p.curr != nil && p.curr.HasNext() {
		return true
	}
	// Find next hit
	for p.iter.HasNext() {
		p.curr = p.fn(p.iter.Next())
		if p.curr.HasNext() {
			return true
		}
	}
	// Failed
	return false
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *flattenIterator[S, T]) Next() T {
	if !p.HasNext() {
		panic("iterator exhausted")
	}
	//
	return p.curr.Next()
}

// NewConcatIterator flattens a sequence of iterators into one.
func NewConcatIterator[T any](iters ...Iterator[T]) Iterator[T] {
	return NewFlattenIterator(NewArrayIterator(iters), func(it Iterator[T]) Iterator[T] {
		return it
	})
}
