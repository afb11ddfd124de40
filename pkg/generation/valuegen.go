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
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
)

// ValueGenerator produces the values of a single field according to the
// generation type.  Unique fields always enumerate every permitted value.
// When sampling randomly, the enumeration of a unique field continues from
// one row to the next, rather than restarting.
type ValueGenerator struct {
	mode DataGenerationType
	rng  util.RandomSource
	// Ongoing enumerations of unique fields, keyed by field and FieldSpec.
	unique map[string]iter.Iterator[DataBagValue]
}

// NewValueGenerator constructs a value generator for a given generation type.
func NewValueGenerator(mode DataGenerationType, rng util.RandomSource) *ValueGenerator {
	return &ValueGenerator{mode, rng, make(map[string]iter.Iterator[DataBagValue])}
}

// IsRandom checks whether this generator samples values randomly.
func (p *ValueGenerator) IsRandom() bool {
	return p.mode == Random
}

// Generate the values for a given field, subject to a given FieldSpec.
func (p *ValueGenerator) Generate(field profile.Field, spec fieldspec.FieldSpec) iter.Iterator[DataBagValue] {
	source := SourceFor(spec)
	//
	if field.Unique && p.mode == Random {
		key := field.Name + ": " + spec.String()
		//
		if values, ok := p.unique[key]; ok {
			return values
		}
		//
		values := source.All()
		p.unique[key] = values
		//
		return values
	} else if field.Unique {
		return source.All()
	}
	//
	switch p.mode {
	case Random:
		return source.Random(p.rng)
	case Interesting:
		return source.Interesting()
	default:
		return source.All()
	}
}
