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

import (
	"slices"
	"testing"
)

func Test_Iterator_Array_01(t *testing.T) {
	checkIterator(t, NewArrayIterator([]uint{}), []uint{})
}

func Test_Iterator_Array_02(t *testing.T) {
	checkIterator(t, NewArrayIterator([]uint{1, 2, 3}), []uint{1, 2, 3})
}

func Test_Iterator_Unit_01(t *testing.T) {
	checkIterator(t, NewUnitIterator[uint](7), []uint{7})
}

func Test_Iterator_Append_01(t *testing.T) {
	iter := NewAppendIterator(NewArrayIterator([]uint{1, 2}), NewArrayIterator([]uint{3}))
	checkIterator(t, iter, []uint{1, 2, 3})
}

func Test_Iterator_Append_02(t *testing.T) {
	iter := NewAppendIterator(NewEmptyIterator[uint](), NewUnitIterator[uint](3))
	checkIterator(t, iter, []uint{3})
}

func Test_Iterator_Concat_01(t *testing.T) {
	iter := NewConcatIterator(NewEmptyIterator[uint](), NewUnitIterator[uint](1), NewEmptyIterator[uint](),
		NewArrayIterator([]uint{2, 3}))
	checkIterator(t, iter, []uint{1, 2, 3})
}

func Test_Iterator_Flatten_01(t *testing.T) {
	iter := NewFlattenIterator(NewArrayIterator([]uint{0, 1, 2, 3}), func(n uint) Iterator[uint] {
		return NewArrayIterator(slices.Repeat([]uint{n}, int(n)))
	})
	checkIterator(t, iter, []uint{1, 2, 2, 3, 3, 3})
}

func Test_Iterator_Flatten_02(t *testing.T) {
	// Inner iterators are created on demand, so an infinite outer sequence
	// is fine.
	iter := NewFlattenIterator(naturals(), func(n uint) Iterator[uint] {
		return NewUnitIterator(n * 2)
	})
	checkIterator(t, NewLimitIterator(iter, 4), []uint{0, 2, 4, 6})
}

func Test_Iterator_Project_01(t *testing.T) {
	iter := NewProjectIterator(NewArrayIterator([]uint{1, 2, 3}), func(n uint) uint { return n * n })
	checkIterator(t, iter, []uint{1, 4, 9})
}

func Test_Iterator_Filter_01(t *testing.T) {
	iter := NewFilterIterator(naturals(), func(n uint) bool { return n%3 == 0 })
	checkIterator(t, NewLimitIterator(iter, 3), []uint{0, 3, 6})
}

func Test_Iterator_Filter_02(t *testing.T) {
	iter := NewFilterIterator(NewArrayIterator([]uint{1, 2, 3}), func(n uint) bool { return n > 5 })
	checkIterator(t, iter, []uint{})
}

func Test_Iterator_Limit_01(t *testing.T) {
	checkIterator(t, NewLimitIterator(naturals(), 0), []uint{})
}

func Test_Iterator_Limit_02(t *testing.T) {
	checkIterator(t, NewLimitIterator(NewArrayIterator([]uint{1, 2}), 5), []uint{1, 2})
}

func Test_Iterator_Generate_01(t *testing.T) {
	calls := 0
	iter := NewRepeatIterator(func() uint {
		calls++
		return uint(calls)
	})
	// Nothing computed until asked for
	if calls != 0 {
		t.Errorf("generator invoked eagerly (%d calls)", calls)
	}
	// Repeated HasNext must be idempotent
	iter.HasNext()
	iter.HasNext()
	checkIterator(t, NewLimitIterator(iter, 3), []uint{1, 2, 3})
}

func Test_Iterator_Distinct_01(t *testing.T) {
	iter := NewDistinctIterator(NewArrayIterator([]uint{1, 1, 2, 1, 3, 2}), func(n uint) uint { return n })
	checkIterator(t, iter, []uint{1, 2, 3})
}

func Test_Iterator_Find_01(t *testing.T) {
	index, ok := Find(NewArrayIterator([]uint{5, 6, 7}), func(n uint) bool { return n == 7 })
	if !ok || index != 2 {
		t.Errorf("expected index 2, got %d (%t)", index, ok)
	}
}

func Test_Iterator_First_01(t *testing.T) {
	if _, ok := First(NewEmptyIterator[uint]()); ok {
		t.Errorf("expected empty iterator to have no first item")
	}
}

// ===================================================================
// Helpers
// ===================================================================

func naturals() Iterator[uint] {
	n := uint(0)
	//
	return NewGenerateIterator(func() (uint, bool) {
		n++
		return n - 1, true
	})
}

func checkIterator(t *testing.T, iter Iterator[uint], expected []uint) {
	actual := Collect(iter)
	//
	if !slices.Equal(actual, expected) {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}
