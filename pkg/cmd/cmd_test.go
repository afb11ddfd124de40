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
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ViolationFile_01(t *testing.T) {
	assert.Equal(t, "1-country-is-known.csv", violationFile(1, "Country is known!", ""))
	assert.Equal(t, "2-us-cities.jsonl", violationFile(2, "US cities", "json"))
	assert.Equal(t, "3-x.table", violationFile(3, "  x  ", "table"))
}

func Test_Env_01(t *testing.T) {
	t.Setenv("DATAGEN_MAX_ROWS", "25")
	t.Setenv("DATAGEN_SEED", "not a number")
	t.Setenv("DATAGEN_FORMAT", "json")
	//
	assert.Equal(t, uint64(25), envUintOr("MAX_ROWS", 1000))
	assert.Equal(t, uint64(7), envUintOr("SEED", 7))
	assert.Equal(t, "json", envOr("FORMAT", "csv"))
	assert.Equal(t, "csv", envOr("UNSET", "csv"))
}
