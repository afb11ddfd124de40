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

type filterIterator[T any] struct {
	iter      Iterator[T]
	predicate Predicate[T]
	// Next matching item (if any) which has been pulled but not yet returned.
	next    T
	pending bool
}

// NewFilterIterator constructs an iterator which visits only those items of
// the given iterator matching the predicate.
func NewFilterIterator[T any](iter Iterator[T], predicate Predicate[T]) Iterator[T] {
	return &filterIterator[T]{iter: iter, predicate: predicate}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *filterIterator[T]) HasNext() bool {
	for !p.pending && p.iter.HasNext() {
		item := p.iter.Next()
		//
		if p.predicate(item) {
			p.next, p.pending = item, true
		}
	}
	//
	return p.pending
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *filterIterator[T]) Next() T {
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
