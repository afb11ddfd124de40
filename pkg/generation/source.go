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
package generation

import (
	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
)

// NullProbability is the likelihood of a nullable field being null when
// sampling randomly.
const NullProbability = 0.1

// FieldValueSource produces values for a single field, in one of three ways.
type FieldValueSource interface {
	// All returns every permitted value, in some fixed order.  This sequence
	// may be infinite.
	All() iter.Iterator[DataBagValue]
	// Interesting returns a small selection of permitted values, such as those
	// at the boundaries of a range.
	Interesting() iter.Iterator[DataBagValue]
	// Random returns an infinite sequence of permitted values, each chosen
	// independently.
	Random(rng util.RandomSource) iter.Iterator[DataBagValue]
}

// ============================================================================
// Canned values
// ============================================================================

// cannedSource produces values directly from a whitelist.
type cannedSource struct {
	values *fieldspec.WeightedSet
}

func (p *cannedSource) All() iter.Iterator[DataBagValue] {
	return iter.NewProjectIterator(iter.NewArrayIterator(p.values.Values()), ValueOf)
}

func (p *cannedSource) Interesting() iter.Iterator[DataBagValue] {
	return p.All()
}

func (p *cannedSource) Random(rng util.RandomSource) iter.Iterator[DataBagValue] {
	return iter.NewRepeatIterator(func() DataBagValue {
		return ValueOf(p.values.PickRandomly(rng))
	})
}

// ============================================================================
// Null
// ============================================================================

// nullOnlySource produces only null.
type nullOnlySource struct{}

func (p nullOnlySource) All() iter.Iterator[DataBagValue] {
	return iter.NewUnitIterator(NullValue())
}

func (p nullOnlySource) Interesting() iter.Iterator[DataBagValue] {
	return p.All()
}

func (p nullOnlySource) Random(rng util.RandomSource) iter.Iterator[DataBagValue] {
	return iter.NewRepeatIterator(NullValue)
}

// nullAppendingSource produces the values of another source, along with null.
type nullAppendingSource struct {
	source FieldValueSource
}

func (p *nullAppendingSource) All() iter.Iterator[DataBagValue] {
	return iter.NewAppendIterator(p.source.All(), iter.NewUnitIterator(NullValue()))
}

func (p *nullAppendingSource) Interesting() iter.Iterator[DataBagValue] {
	return iter.NewAppendIterator(p.source.Interesting(), iter.NewUnitIterator(NullValue()))
}

func (p *nullAppendingSource) Random(rng util.RandomSource) iter.Iterator[DataBagValue] {
	values := p.source.Random(rng)
	//
	return iter.NewRepeatIterator(func() DataBagValue {
		if rng.Float64() < NullProbability || !values.HasNext() {
			return NullValue()
		}
		//
		return values.Next()
	})
}
