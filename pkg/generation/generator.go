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
	"fmt"
	"strings"

	"github.com/consensys/go-datagen/pkg/decisiontree"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
	log "github.com/sirupsen/logrus"
)

// DataGenerationType determines which values are produced for each field.
type DataGenerationType uint8

const (
	// Random samples values (and decision options) randomly, producing an
	// unbounded sequence of rows.
	Random DataGenerationType = iota
	// Interesting enumerates the boundary values of each field.
	Interesting
	// FullSequential enumerates every permitted value of each field.
	FullSequential
)

var generationNames = []string{"RANDOM", "INTERESTING", "FULL_SEQUENTIAL"}

// ParseGenerationType parses a generation type from its (case-insensitive)
// name.
func ParseGenerationType(name string) (DataGenerationType, error) {
	for i, n := range generationNames {
		if strings.EqualFold(n, name) {
			return DataGenerationType(i), nil
		}
	}
	//
	return Random, fmt.Errorf("unknown generation type \"%s\"", name)
}

func (p DataGenerationType) String() string {
	return generationNames[p]
}

// Config determines how data is generated from a decision tree.
type Config struct {
	// Type of generation.
	Type DataGenerationType
	// Strategy for combining independent field groups.
	Combination CombinationStrategyType
	// Maximum number of rows to generate (where 0 means no limit).
	MaxRows uint64
	// Seed for all random choices.
	Seed uint64
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() Config {
	return Config{Type: Random, Combination: Exhaustive, MaxRows: 1000}
}

// Generator turns a decision tree into a (lazy) sequence of rows.
type Generator struct {
	config Config
	rng    util.RandomSource
}

// NewGenerator constructs a generator with a given configuration.
func NewGenerator(config Config) *Generator {
	return &Generator{config, util.NewRandomSource(config.Seed)}
}

// Generate the rows described by a decision tree.  Every row holds a value for
// every field of the tree, and satisfies every constraint of the tree.  Rows
// are only generated as they are consumed, hence the sequence may be
// abandoned at any point.
func (p *Generator) Generate(tree *decisiontree.DecisionTree) iter.Iterator[*DataBag] {
	var (
		values = NewValueGenerator(p.config.Type, p.rng)
		groups = NewGroupGenerator(values)
		unique = newUniqueFilter(tree.Fields)
		rows   iter.Iterator[*DataBag]
	)
	//
	log.Debugf("generating %s data (%s combination) for %d fields", p.config.Type, p.config.Combination,
		len(tree.Fields))
	//
	if p.config.Type == Random {
		solver := decisiontree.NewSolver(tree, decisiontree.NewRandomPicker(p.rng))
		rows = randomRows(solver.CreateRowSpecs(tree), groups, unique)
	} else {
		solver := decisiontree.NewSolver(tree, decisiontree.SequentialPicker{})
		//
		rows = iter.NewFlattenIterator(solver.CreateRowSpecs(tree), func(r *decisiontree.RowSpec) iter.Iterator[*DataBag] {
			log.Tracef("generating rows for %s", r)
			//
			return p.rowsOf(r, groups)
		})
		rows = iter.NewFilterIterator(rows, unique.accept)
	}
	//
	if p.config.MaxRows > 0 {
		rows = iter.NewLimitIterator(rows, p.config.MaxRows)
	}
	//
	return rows
}

// Generate the rows for a single RowSpec, by combining the DataBags of its
// independent field groups.
func (p *Generator) rowsOf(rowSpec *decisiontree.RowSpec, generator *GroupGenerator) iter.Iterator[*DataBag] {
	var (
		groups  = GroupFields(rowSpec)
		sources = make([]GroupSource, len(groups))
	)
	//
	for i, g := range groups {
		sources[i] = func() iter.Iterator[*DataBag] {
			return generator.Generate(g)
		}
	}
	//
	return Combine(p.config.Combination, sources)
}

// Generate one row per RowSpec.  A RowSpec can fail to produce a row, for
// example when the values of related fields conflict.  Generation stops after
// too many consecutive failures.
func randomRows(rowSpecs iter.Iterator[*decisiontree.RowSpec], generator *GroupGenerator,
	unique *uniqueFilter) iter.Iterator[*DataBag] {
	return iter.NewGenerateIterator(func() (*DataBag, bool) {
		for misses := 0; misses < MaxRandomAttempts; misses++ {
			if !rowSpecs.HasNext() {
				return nil, false
			}
			//
			var (
				groups = GroupFields(rowSpecs.Next())
				bags   = make([]*DataBag, 0, len(groups))
			)
			//
			for _, g := range groups {
				bag, ok := iter.First(generator.Generate(g))
				//
				if !ok {
					break
				}
				//
				bags = append(bags, bag)
			}
			//
			if len(bags) == len(groups) {
				if row := MergeDataBags(bags...); unique.accept(row) {
					return row, true
				}
			}
		}
		//
		log.Warnf("no row generated after %d attempts, stopping", MaxRandomAttempts)
		//
		return nil, false
	})
}

// ============================================================================
// Unique fields
// ============================================================================

// Tracks the values generated for unique fields, such that rows repeating any
// such value are rejected.
type uniqueFilter struct {
	fields []string
	seen   map[string]map[string]bool
}

func newUniqueFilter(fields profile.Fields) *uniqueFilter {
	var filter = &uniqueFilter{seen: make(map[string]map[string]bool)}
	//
	for _, f := range fields {
		if f.Unique {
			filter.fields = append(filter.fields, f.Name)
			filter.seen[f.Name] = make(map[string]bool)
		}
	}
	//
	return filter
}

// Accept a row if it repeats no value of a unique field, recording its values
// if so.  Null values are never considered repeats.
func (p *uniqueFilter) accept(row *DataBag) bool {
	for _, f := range p.fields {
		if v := row.Get(f); !v.IsNull() && p.seen[f][v.Key()] {
			return false
		}
	}
	//
	for _, f := range p.fields {
		if v := row.Get(f); !v.IsNull() {
			p.seen[f][v.Key()] = true
		}
	}
	//
	return true
}
