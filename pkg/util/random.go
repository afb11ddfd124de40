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
package util

import (
	"math/big"
	"math/rand/v2"
)

// RandomSource abstracts a source of randomness.  All random decisions made
// during generation are routed through a single source, such that a run can be
// reproduced from its seed.
type RandomSource interface {
	// IntN returns a uniformly distributed integer in [0,n).  This panics if
	// n <= 0.
	IntN(n int) int
	// Float64 returns a uniformly distributed float in [0.0,1.0).
	Float64() float64
	// Uint64 returns a uniformly distributed 64-bit value.
	Uint64() uint64
	// BigIntN returns a uniformly distributed integer in [0,n).  This panics
	// if n <= 0.
	BigIntN(n *big.Int) *big.Int
}

// NewRandomSource constructs a deterministic random source from a given seed.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type pcgSource struct {
	rng *rand.Rand
}

func (p *pcgSource) IntN(n int) int {
	return p.rng.IntN(n)
}

func (p *pcgSource) Float64() float64 {
	return p.rng.Float64()
}

func (p *pcgSource) Uint64() uint64 {
	return p.rng.Uint64()
}

func (p *pcgSource) BigIntN(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		panic("invalid bound for random big integer")
	} else if n.IsUint64() {
		return new(big.Int).SetUint64(p.rng.Uint64N(n.Uint64()))
	}
	// Rejection sampling over the smallest covering bit width.
	var (
		bits  = n.BitLen()
		words = (bits + 63) / 64
		val   = new(big.Int)
	)
	//
	for {
		val.SetUint64(0)
		//
		for i := 0; i < words; i++ {
			val.Lsh(val, 64)
			val.Or(val, new(big.Int).SetUint64(p.rng.Uint64()))
		}
		// Discard excess bits
		val.Rsh(val, uint(words*64-bits))
		//
		if val.Cmp(n) < 0 {
			return val
		}
	}
}
