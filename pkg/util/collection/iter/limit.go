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

type limitIterator[T any] struct {
	iter Iterator[T]
	// Number of items which can still be returned
	left uint64
}

// NewLimitIterator constructs an iterator which visits at most n items of the
// given iterator.  Nothing beyond the nth item is ever computed.
func NewLimitIterator[T any](iter Iterator[T], n uint64) Iterator[T] {
	return &limitIterator[T]{iter, n}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *limitIterator[T]) HasNext() bool {
	return p.left > 0 && p.iter.HasNext()
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *limitIterator[T]) Next() T {
	p.left--
	return p.iter.Next()
}
