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

// Predicate abstracts the notion of a function which identifies something.
type Predicate[T any] func(T) bool

// Iterator abstracts the process of lazily visiting a (possibly infinite)
// sequence of items.  Items are only computed on demand, hence a consumer can
// simply stop calling Next to abandon a sequence without leaking anything.
// Calling HasNext more than once without an intervening Next must be
// idempotent.
type Iterator[T any] interface {
	// Check whether or not there are any items remaining to visit.
	HasNext() bool

	// Get the next item, and advance the iterator.  This is undefined when
	// HasNext would return false.
	Next() T
}

// Collect drains an iterator into a freshly allocated array.  This will never
// return for an infinite iterator, so callers should combine it with Limit
// where appropriate.
func Collect[T any](iter Iterator[T]) []T {
	var items = make([]T, 0)
	//
	for iter.HasNext() {
		items = append(items, iter.Next())
	}
	//
	return items
}

// Count drains an iterator, returning the number of items visited.
func Count[T any](iter Iterator[T]) uint {
	count := uint(0)

	for iter.HasNext() {
		iter.Next()
		//
		count++
	}
	//
	return count
}

// Find returns the index of the first match for a given predicate, or return
// false if no match is found.  This will mutate the iterator.
func Find[T any](iter Iterator[T], predicate Predicate[T]) (uint, bool) {
	index := uint(0)

	for iter.HasNext() {
		if predicate(iter.Next()) {
			return index, true
		}

		index++
	}
	// Failed to find it
	return 0, false
}

// First returns the first item of an iterator, or false if it is empty.
func First[T any](iter Iterator[T]) (T, bool) {
	var empty T
	//
	if iter.HasNext() {
		return iter.Next(), true
	}
	//
	return empty, false
}
