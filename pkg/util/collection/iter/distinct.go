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

type distinctIterator[T any, K comparable] struct {
	iter    Iterator[T]
	key     func(T) K
	seen    map[K]struct{}
	next    T
	pending bool
}

// NewDistinctIterator constructs an iterator which drops any item whose key
// was already returned.  Keys are retained for the life of the iterator.
func NewDistinctIterator[T any, K comparable](iter Iterator[T], key func(T) K) Iterator[T] {
	return &distinctIterator[T, K]{iter: iter, key: key, seen: make(map[K]struct{})}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *distinctIterator[T, K]) HasNext() bool {
	for !p.pending && p.iter.HasNext() {
		item := p.iter.Next()
		k := p.key(item)
		//
		if _, ok := p.seen[k]; !ok {
			p.seen[k] = struct{}{}
			p.next, p.pending = item, true
		}
	}
	//
	return p.pending
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *distinctIterator[T, K]) Next() T {
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
