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
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
)

// stringSource produces strings from the regular language of a string
// restriction.
type stringSource struct {
	restriction *restriction.String
}

func newStringSource(r *restriction.String, blacklist []profile.Value) *stringSource {
	var excluded = make([]string, len(blacklist))
	//
	for i, v := range blacklist {
		excluded[i] = v.Str()
	}
	// Generated strings are bounded in length
	r = r.Intersect(restriction.ForMaxLength(restriction.DefaultMaxStringLength)).Except(excluded)
	//
	return &stringSource{r}
}

func (p *stringSource) All() iter.Iterator[DataBagValue] {
	return iter.NewProjectIterator(p.restriction.Language().All(), stringValue)
}

func (p *stringSource) Interesting() iter.Iterator[DataBagValue] {
	interesting := p.restriction.Language().Interesting()
	//
	return iter.NewProjectIterator(iter.NewArrayIterator(interesting), stringValue)
}

func (p *stringSource) Random(rng util.RandomSource) iter.Iterator[DataBagValue] {
	language := p.restriction.Language()
	//
	return iter.NewGenerateIterator(func() (DataBagValue, bool) {
		str, ok := language.Random(rng)
		//
		return stringValue(str), ok
	})
}

func stringValue(str string) DataBagValue {
	return ValueOf(profile.StringValue(str))
}
