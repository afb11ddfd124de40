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
	"time"

	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
	"github.com/shopspring/decimal"
)

// MaxRandomAttempts bounds the number of draws made when sampling a value
// which is not blacklisted.  A random sequence ends once this is exceeded.
const MaxRandomAttempts = 1000

// linearSource produces values from an ordered domain (i.e. numbers or
// datetimes) lying within a restriction, other than those in a blacklist.
type linearSource[T any] struct {
	restriction *restriction.Linear[T]
	blacklist   *fieldspec.Blacklist
	// Converts a raw value into a field value.
	value func(T) profile.Value
	// Indicates whether enumerating all values is feasible.
	bounded bool
}

func newNumericSource(r *restriction.Numeric, blacklist *fieldspec.Blacklist) *linearSource[decimal.Decimal] {
	bounded := !r.Min().Equal(restriction.NumericMin) && !r.Max().Equal(restriction.NumericMax)
	//
	return &linearSource[decimal.Decimal]{r, blacklist, profile.NumericValue, bounded}
}

func newDateTimeSource(r *restriction.DateTime, blacklist *fieldspec.Blacklist) *linearSource[time.Time] {
	return &linearSource[time.Time]{r, blacklist, profile.DateTimeValue, true}
}

func (p *linearSource[T]) All() iter.Iterator[DataBagValue] {
	if !p.bounded {
		return p.Interesting()
	}
	//
	var (
		next        = p.restriction.Min()
		granularity = p.restriction.Granularity()
	)
	//
	values := iter.NewGenerateIterator(func() (profile.Value, bool) {
		if p.restriction.Compare(next, p.restriction.Max()) > 0 {
			return profile.Value{}, false
		}
		//
		value := p.value(next)
		next = granularity.Next(next)
		//
		return value, true
	})
	//
	return iter.NewProjectIterator(iter.NewFilterIterator(values, p.permitted), ValueOf)
}

func (p *linearSource[T]) Interesting() iter.Iterator[DataBagValue] {
	var (
		r           = p.restriction
		granularity = r.Granularity()
		candidates  = []T{r.Min(), granularity.Next(r.Min()), granularity.Previous(r.Max()), r.Max()}
		values      []profile.Value
	)
	//
	for _, c := range candidates {
		if r.Permits(c) {
			values = append(values, p.value(c))
		}
	}
	//
	values = iter.Collect(iter.NewDistinctIterator(iter.NewArrayIterator(values), profile.Value.Hash))
	//
	return iter.NewProjectIterator(iter.NewFilterIterator(iter.NewArrayIterator(values), p.permitted), ValueOf)
}

func (p *linearSource[T]) Random(rng util.RandomSource) iter.Iterator[DataBagValue] {
	return iter.NewGenerateIterator(func() (DataBagValue, bool) {
		for range MaxRandomAttempts {
			if value := p.value(p.restriction.Random(rng)); p.permitted(value) {
				return ValueOf(value), true
			}
		}
		//
		return NullValue(), false
	})
}

func (p *linearSource[T]) permitted(value profile.Value) bool {
	return !p.blacklist.Contains(value)
}
