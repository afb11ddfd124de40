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
package decisiontree

import (
	"slices"

	"github.com/consensys/go-datagen/pkg/util"
)

// OptionPicker determines how the solver explores the options of each
// decision.
type OptionPicker interface {
	// Options returns the options of a decision in the order in which they
	// should be explored.
	Options(decision *Decision) []*ConstraintNode
	// IsExhaustive determines whether the solver should enumerate every
	// RowSpec once (true), or repeatedly sample a single RowSpec (false).
	IsExhaustive() bool
}

// SequentialPicker explores every option of a decision, in order.
type SequentialPicker struct{}

// Options implementation for OptionPicker interface.
func (p SequentialPicker) Options(decision *Decision) []*ConstraintNode {
	return decision.Options
}

// IsExhaustive implementation for OptionPicker interface.
func (p SequentialPicker) IsExhaustive() bool {
	return true
}

// RandomPicker explores the options of a decision in a random order.  Since
// the solver only takes the first RowSpec found on each walk, this amounts to
// picking one option at random (backtracking on contradictions).
type RandomPicker struct {
	rng util.RandomSource
}

// NewRandomPicker constructs a random picker from a given source of
// randomness.
func NewRandomPicker(rng util.RandomSource) *RandomPicker {
	return &RandomPicker{rng}
}

// Options implementation for OptionPicker interface.
func (p *RandomPicker) Options(decision *Decision) []*ConstraintNode {
	options := slices.Clone(decision.Options)
	// Fisher-Yates
	for i := len(options) - 1; i > 0; i-- {
		j := p.rng.IntN(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	//
	return options
}

// IsExhaustive implementation for OptionPicker interface.
func (p *RandomPicker) IsExhaustive() bool {
	return false
}
