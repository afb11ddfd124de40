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
	"fmt"
	"strings"

	"github.com/consensys/go-datagen/pkg/generation"
	"github.com/consensys/go-datagen/pkg/profile"
)

// Format identifies the layout of generated output.
type Format uint8

const (
	// CSV writes one comma-separated line per row, following a header line.
	CSV Format = iota
	// JSON writes one JSON object per line.
	JSON
	// Table writes rows in aligned columns, as is suitable for a terminal.
	Table
)

var formatNames = []string{"csv", "json", "table"}

// ParseFormat parses an output format from its (case-insensitive) name.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	//
	return CSV, fmt.Errorf("unknown output format \"%s\" (expected one of %s)", name,
		strings.Join(formatNames, ", "))
}

func (p Format) String() string {
	return formatNames[p]
}

// FormatValue renders a value for output, applying the formatting of its field
// (if any).  Numbers and strings are formatted using fmt verbs, such as "%.2f"
// or "%05d".  Datetimes are formatted using time layouts, such as
// "2006-01-02".  Null is rendered as the empty string.
func FormatValue(field profile.Field, value generation.DataBagValue) string {
	if value.IsNull() {
		return ""
	} else if field.Formatting == "" {
		return value.String()
	}
	//
	v := value.Value()
	//
	switch v.Type() {
	case profile.Numeric:
		return formatNumber(field.Formatting, v)
	case profile.DateTime:
		return v.DateTime().Format(field.Formatting)
	default:
		return fmt.Sprintf(field.Formatting, v.Str())
	}
}

// Format a number according to the verb of a given format string.
func formatNumber(format string, value profile.Value) string {
	number := value.Numeric()
	//
	switch verb(format) {
	case 'd', 'x', 'X', 'o', 'b', 'c':
		return fmt.Sprintf(format, number.IntPart())
	case 'e', 'E', 'f', 'F', 'g', 'G':
		return fmt.Sprintf(format, number.InexactFloat64())
	default:
		return fmt.Sprintf(format, number.String())
	}
}

// Determine the verb of the first directive in a format string, or zero if
// there is none.
func verb(format string) rune {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		// Skip flags, width and precision
		j := i + 1
		for j < len(format) && format[j] != '%' && !isVerb(rune(format[j])) {
			j++
		}
		//
		if j == len(format) {
			return 0
		} else if format[j] == '%' {
			// Escaped percent
			i = j
			continue
		}
		//
		return rune(format[j])
	}
	//
	return 0
}

func isVerb(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Format a row over the given fields.
func formatRow(fields profile.Fields, row *generation.DataBag) []string {
	var (
		values = row.Row(fields)
		cells  = make([]string, len(values))
	)
	//
	for i, v := range values {
		cells[i] = FormatValue(fields[i], v)
	}
	//
	return cells
}
