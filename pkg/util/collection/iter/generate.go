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

// Generator is a function producing successive items of a sequence.  It
// returns false once the sequence is finished.
type Generator[T any] func() (T, bool)

type generateIterator[T any] struct {
	fn      Generator[T]
	next    T
	pending bool
	done    bool
}

// NewGenerateIterator constructs an iterator from a generator function.  The
// function is only invoked on demand, so it may describe an infinite sequence.
func NewGenerateIterator[T any](fn Generator[T]) Iterator[T] {
	return &generateIterator[T]{fn: fn}
}

// NewRepeatIterator constructs an infinite iterator which calls the given
// function for every item.
func NewRepeatIterator[T any](fn func() T) Iterator[T] {
	return NewGenerateIterator(func() (T, bool) {
		return fn(), true
	})
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *generateIterator[T]) HasNext() bool {
	if !p.pending && !p.done {
		p.next, p.pending = p.fn()
		p.done = !p.pending
	}
	//
	return p.pending
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *generateIterator[T]) Next() T {
	var empty T
	//
	if !p.HasNext() {
		panic("iterator exhausted")
	}
	//
	next := p.next
	p.next, p.pending = empty, false
	//
	return next
}
