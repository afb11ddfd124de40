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
package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countryProfile = `
fields:
  - name: country
    type: string
  - name: city
    type: string
    nullable: true
rules:
  - rule: country is known
    constraints:
      - field: country
        inSet: [US, GB]
  - rule: US cities
    constraints:
      - if: {field: country, equalTo: US}
        then: {field: city, inSet: [New York, Washington DC]}
  - rule: GB cities
    constraints:
      - if: {field: country, equalTo: GB}
        then: {field: city, inSet: [Bristol, London]}
        else: {not: {field: city, equalTo: Bristol}}
`

func Test_Reader_01(t *testing.T) {
	p, err := Read([]byte(countryProfile), ".")
	//
	require.NoError(t, err)
	require.Len(t, p.Fields, 2)
	assert.Equal(t, String, p.Fields[0].Type)
	assert.False(t, p.Fields[0].Nullable)
	assert.True(t, p.Fields[1].Nullable)
	require.Len(t, p.Rules, 3)
	//
	set, ok := p.Rules[0].Constraints[0].(*Atomic)
	require.True(t, ok)
	assert.Equal(t, InSet, set.Kind)
	assert.Len(t, set.Set, 2)
	//
	cond, ok := p.Rules[2].Constraints[0].(*Conditional)
	require.True(t, ok)
	assert.NotNil(t, cond.Else)
	assert.IsType(t, &Not{}, cond.Else)
}

func Test_Reader_02(t *testing.T) {
	src := `
fields:
  - {name: id, type: integer}
  - {name: day, type: date}
  - {name: price, type: decimal}
rules:
  - constraints:
      - {field: price, greaterThan: 0.5}
      - {field: price, granularTo: 0.01}
      - {field: day, after: {date: "2020-01-01T00:00:00.000Z"}}
`
	p, err := Read([]byte(src), ".")
	require.NoError(t, err)
	// Integer and date fields are granular
	require.Equal(t, "specific types", p.Rules[0].Description)
	require.Len(t, p.Rules[0].Constraints, 2)
	assert.Equal(t, "rule 1", p.Rules[1].Description)
	//
	gt := p.Rules[1].Constraints[0].(*Atomic)
	assert.Equal(t, "0.5", gt.Value.String())
	//
	granular := p.Rules[1].Constraints[1].(*Atomic)
	assert.Equal(t, int32(2), granular.Scale)
	//
	after := p.Rules[1].Constraints[2].(*Atomic)
	assert.True(t, after.Value.DateTime().Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func Test_Reader_03(t *testing.T) {
	src := `
fields:
  - {name: start, type: datetime}
  - {name: end, type: datetime}
constraints:
  - {field: end, equalToField: start, offset: 3, offsetUnit: "working days"}
`
	p, err := Read([]byte(src), ".")
	require.NoError(t, err)
	//
	rel := p.Rules[0].Constraints[0].(*Relation)
	assert.Equal(t, EqualToField, rel.Kind)
	assert.Equal(t, "start", rel.Other)
	assert.Equal(t, 3, rel.Offset)
	assert.Equal(t, restriction.WorkingDays, rel.Unit)
}

func Test_Reader_Files_01(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colours.csv", "red,2\ngreen\nblue,0.5\n")
	writeFile(t, dir, "places.csv", "Country,Capital\nFrance,Paris\nJapan,Tokyo\n")
	//
	src := `
fields:
  - {name: colour, type: string}
  - {name: country, type: string}
  - {name: capital, type: string}
constraints:
  - {field: colour, inSet: colours.csv}
  - {field: country, inMap: places.csv, key: Country}
  - {field: capital, inMap: places.csv, key: Capital}
`
	p, err := Read([]byte(src), dir)
	require.NoError(t, err)
	// Controller added as an internal field
	require.Len(t, p.Fields, 4)
	assert.True(t, p.Fields[3].Internal)
	//
	set := p.Rules[0].Constraints[0].(*Atomic)
	require.Len(t, set.Set, 3)
	assert.Equal(t, 2.0, set.Set[0].Weight)
	assert.Equal(t, 1.0, set.Set[1].Weight)
	//
	country := p.Rules[0].Constraints[1].(*InMap)
	capital := p.Rules[0].Constraints[2].(*InMap)
	assert.Equal(t, country.Controller, capital.Controller)
	assert.Equal(t, "Tokyo", capital.Values[1].Str())
}

func Test_Reader_Invalid_01(t *testing.T) {
	checkInvalid(t, `
fields: [{name: x, type: integer}]
constraints: [{field: y, equalTo: 1}]
`)
}

func Test_Reader_Invalid_02(t *testing.T) {
	checkInvalid(t, `
fields: [{name: x, type: widget}]
`)
}

func Test_Reader_Invalid_03(t *testing.T) {
	checkInvalid(t, `
fields: [{name: x, type: integer}, {name: y, type: datetime}]
constraints: [{field: x, equalToField: y}]
`)
}

func Test_Reader_Invalid_04(t *testing.T) {
	checkInvalid(t, `
fields: [{name: x, type: string}]
constraints: [{field: x, greaterThan: 3}]
`)
}

func Test_Reader_Invalid_05(t *testing.T) {
	checkInvalid(t, `
fields: [{name: x, type: decimal}]
constraints: [{field: x, equalTo: abc}]
`)
}

func Test_Violate_01(t *testing.T) {
	p, err := Read([]byte(countryProfile), ".")
	require.NoError(t, err)
	//
	violations := Violate(p, nil)
	require.Len(t, violations, 3)
	//
	for i, v := range violations {
		// Exactly one rule negated
		assert.Equal(t, "violated: "+p.Rules[i].Description, v.Profile.Rules[i].Description)
		assert.IsType(t, &Not{}, v.Profile.Rules[i].Constraints[0])
		//
		for j, r := range v.Profile.Rules {
			if j != i {
				assert.Equal(t, p.Rules[j].Description, r.Description)
			}
		}
	}
}

func Test_Violate_02(t *testing.T) {
	p, err := Read([]byte(countryProfile), ".")
	require.NoError(t, err)
	// inSet constraints are not violated, so the first rule is skipped.
	violations := Violate(p, []string{"inSet"})
	require.Len(t, violations, 2)
	assert.Equal(t, "US cities", violations[0].Rule)
}

func Test_Violate_03(t *testing.T) {
	p := &Profile{
		Fields: Fields{NewField("x", IntegerType)},
		Rules:  []Rule{{"types", []Constraint{&Atomic{Kind: GranularTo, Field: "x"}}}},
	}
	// Granularity cannot be negated
	assert.Empty(t, Violate(p, nil))
}

func Test_Violate_04(t *testing.T) {
	p := &Profile{
		Fields: Fields{NewField("a", StringType), NewField("n", DecimalType), NewField("m", DecimalType)},
		Rules: []Rule{
			{"granular when x", []Constraint{&Conditional{
				If:   &Atomic{Kind: EqualTo, Field: "a", Value: StringValue("x")},
				Then: &Atomic{Kind: GranularTo, Field: "n"},
			}}},
			{"equal or granular", []Constraint{&AnyOf{[]Constraint{
				&Relation{Kind: EqualToField, Field: "n", Other: "m", Offset: 1},
				&Atomic{Kind: GranularTo, Field: "m"},
			}}}},
			{"not granular", []Constraint{&Not{&Atomic{Kind: GranularTo, Field: "n"}}}},
		},
	}
	// Composites hiding an unnegatable constraint are kept
	violations := Violate(p, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, "not granular", violations[0].Rule)
}

func Test_Violate_05(t *testing.T) {
	p := &Profile{
		Fields: Fields{NewField("start", DateTimeType), NewField("end", DateTimeType)},
		Rules: []Rule{
			{"shifted", []Constraint{&Relation{Kind: EqualToField, Field: "end", Other: "start", Offset: 1}}},
			{"later", []Constraint{&Relation{Kind: AfterField, Field: "end", Other: "start", Offset: 1}}},
		},
	}
	// Only equality with an offset lacks an exact negation
	violations := Violate(p, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, "later", violations[0].Rule)
}

func Test_Atomic_Key_01(t *testing.T) {
	set := func(weight float64, values ...string) *Atomic {
		c := &Atomic{Kind: InSet, Field: "x"}
		//
		for _, v := range values {
			c.Set = append(c.Set, WeightedValue{StringValue(v), weight})
		}
		//
		return c
	}
	// Separators within values do not make distinct sets collide
	assert.NotEqual(t, set(1, "a, b", "c").Key(), set(1, "a", "b, c").Key())
	assert.NotEqual(t, set(1, "a, b").Key(), set(1, "a", "b").Key())
	assert.NotEqual(t, set(1, "a").Key(), set(2, "a").Key())
	assert.Equal(t, set(1, "a", "b").Key(), set(1, "a", "b").Key())
}

func Test_Atomic_Key_02(t *testing.T) {
	a := &Atomic{Kind: MatchingRegex, Field: "x", Pattern: "a b"}
	b := &Atomic{Kind: MatchingRegex, Field: "x", Pattern: "a"}
	//
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, `x matchingRegex "a b"`, a.Key())
}

func Test_Value_Hash_01(t *testing.T) {
	a, _ := parseValue(NewField("x", DecimalType), "1.50")
	b, _ := parseValue(NewField("x", DecimalType), "1.5")
	//
	assert.True(t, a.Equals(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, StringValue("1.5").Hash(), a.Hash())
}

// ===================================================================
// Helpers
// ===================================================================

func writeFile(t *testing.T, dir string, name string, contents string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
}

func checkInvalid(t *testing.T, src string) {
	_, err := Read([]byte(src), ".")
	//
	var verr *ValidationError
	//
	require.Error(t, err)
	assert.ErrorAs(t, err, &verr)
}
