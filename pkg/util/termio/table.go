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
package termio

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TablePrinter lays out rows of cells in aligned columns.  The first row is
// treated as a header.
type TablePrinter struct {
	widths        []uint
	rows          [][]string
	headerEscape  AnsiEscape
	enableEscapes bool
}

// NewTablePrinter constructs an empty table with a given header.
func NewTablePrinter(header ...string) *TablePrinter {
	p := &TablePrinter{widths: make([]uint, len(header)), headerEscape: BoldAnsiEscape(), enableEscapes: true}
	p.AddRow(header...)
	//
	return p
}

// AddRow appends a row to this table.
func (p *TablePrinter) AddRow(vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i, v := range vals {
		p.widths[i] = max(p.widths[i], uint(utf8.RuneCountInString(v)))
	}
	//
	p.rows = append(p.rows, vals)
}

// Height returns the number of rows in this table, including its header.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for a bold
// header).  Disabling escapes is useful when output is not a terminal.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetMaxWidths puts an upper bound on the width of every column.
func (p *TablePrinter) SetMaxWidths(width uint) {
	for i := range p.widths {
		p.widths[i] = min(p.widths[i], max(width, 3))
	}
}

// FitTo shrinks the columns of this table such that each row fits within a
// given total width.
func (p *TablePrinter) FitTo(width uint) {
	// Each column is padded by three characters
	overhead := uint(3 * len(p.widths))
	//
	if len(p.widths) == 0 || width <= overhead {
		return
	}
	//
	p.SetMaxWidths((width - overhead) / uint(len(p.widths)))
}

// Print the table to a given writer.
func (p *TablePrinter) Print(out io.Writer) error {
	var builder strings.Builder
	//
	for i, row := range p.rows {
		builder.Reset()
		//
		if i == 0 && p.enableEscapes {
			builder.WriteString(p.headerEscape.Build())
		}
		//
		for j, col := range row {
			width := p.widths[j]
			// Truncate overlong cells
			if uint(utf8.RuneCountInString(col)) > width {
				col = string([]rune(col)[:width-2]) + ".."
			}
			//
			builder.WriteString(fmt.Sprintf(" %-*s |", width, col))
		}
		//
		if i == 0 && p.enableEscapes {
			builder.WriteString(ResetAnsiEscape().Build())
		}
		//
		builder.WriteString("\n")
		//
		if _, err := io.WriteString(out, builder.String()); err != nil {
			return err
		}
	}
	//
	return nil
}
