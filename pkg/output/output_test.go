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
package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/consensys/go-datagen/pkg/generation"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FormatValue_01(t *testing.T) {
	field := profile.NewField("price", profile.DecimalType)
	field.Formatting = "%.2f"
	//
	assert.Equal(t, "3.14", FormatValue(field, num("3.14159")))
	assert.Equal(t, "", FormatValue(field, generation.NullValue()))
}

func Test_FormatValue_02(t *testing.T) {
	field := profile.NewField("id", profile.IntegerType)
	field.Formatting = "ID-%05d"
	//
	assert.Equal(t, "ID-00042", FormatValue(field, num("42")))
}

func Test_FormatValue_03(t *testing.T) {
	field := profile.NewField("when", profile.DateType)
	field.Formatting = "02/01/2006"
	value := generation.ValueOf(profile.DateTimeValue(time.Date(2021, 3, 9, 0, 0, 0, 0, time.UTC)))
	//
	assert.Equal(t, "09/03/2021", FormatValue(field, value))
}

func Test_FormatValue_04(t *testing.T) {
	field := profile.NewField("name", profile.StringType)
	field.Formatting = "100%% %s"
	//
	assert.Equal(t, "100% bob", FormatValue(field, generation.ValueOf(profile.StringValue("bob"))))
	// Unformatted
	assert.Equal(t, "1.5", FormatValue(profile.NewField("x", profile.DecimalType), num("1.5")))
}

func Test_Writer_CSV_01(t *testing.T) {
	out := write(t, CSV)
	//
	assert.Equal(t, "name,age\nalice,30\n\"smith, bob\",\n", out)
}

func Test_Writer_CSV_02(t *testing.T) {
	var buf bytes.Buffer
	// Header is written without rows
	n, err := WriteAll(NewWriter(CSV, &buf, fields()), iter.NewEmptyIterator[*generation.DataBag]())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
	assert.Equal(t, "name,age\n", buf.String())
}

func Test_Writer_JSON_01(t *testing.T) {
	out := write(t, JSON)
	//
	assert.Equal(t, "{\"name\":\"alice\",\"age\":30}\n{\"name\":\"smith, bob\",\"age\":null}\n", out)
}

func Test_Writer_Table_01(t *testing.T) {
	var buf bytes.Buffer
	//
	_, err := WriteAll(NewTableWriter(&buf, fields(), 80, false), iter.NewArrayIterator(rows()))
	require.NoError(t, err)
	//
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, " name       | age |", lines[0])
	assert.Equal(t, " alice      | 30  |", lines[1])
	assert.Equal(t, " smith, bob |     |", lines[2])
}

func Test_ParseFormat_01(t *testing.T) {
	format, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, JSON, format)
	//
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

// ============================================================================
// Helpers
// ============================================================================

// Fields including an internal field, which is never written.
func fields() profile.Fields {
	internal := profile.NewField("__rows", profile.IntegerType)
	internal.Internal = true
	//
	return profile.Fields{profile.NewField("name", profile.StringType), internal,
		profile.NewField("age", profile.IntegerType)}
}

func rows() []*generation.DataBag {
	row := func(name string, age generation.DataBagValue) *generation.DataBag {
		return generation.MergeDataBags(
			generation.NewDataBag("name", generation.ValueOf(profile.StringValue(name))),
			generation.NewDataBag("__rows", num("0")),
			generation.NewDataBag("age", age))
	}
	//
	return []*generation.DataBag{row("alice", num("30")), row("smith, bob", generation.NullValue())}
}

func write(t *testing.T, format Format) string {
	var buf bytes.Buffer
	//
	n, err := WriteAll(NewWriter(format, &buf, fields()), iter.NewArrayIterator(rows()))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	//
	return buf.String()
}

func num(value string) generation.DataBagValue {
	return generation.ValueOf(profile.NumericValue(decimal.RequireFromString(value)))
}
