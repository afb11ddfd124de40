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

type unitIterator[T any] struct {
	item  T
	index uint
}

// NewUnitIterator construct an iterator over exactly one item.
func NewUnitIterator[T any](item T) Iterator[T] {
	return &unitIterator[T]{item, 0}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *unitIterator[T]) HasNext() bool {
	return p.index < 1
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *unitIterator[T]) Next() T {
	p.index++
	return p.item
}
