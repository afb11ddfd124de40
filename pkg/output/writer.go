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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/consensys/go-datagen/pkg/generation"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util/collection/iter"
	"github.com/consensys/go-datagen/pkg/util/termio"
)

// RowWriter writes generated rows to some output.  Only the external fields of
// a profile are written.
type RowWriter interface {
	// Write a single row.
	Write(row *generation.DataBag) error
	// Close this writer, flushing any buffered output.  The underlying output
	// is not closed.
	Close() error
}

// NewWriter constructs a writer of a given format for a given set of fields.
// Internal fields are omitted.
func NewWriter(format Format, out io.Writer, fields profile.Fields) RowWriter {
	fields = fields.External()
	//
	switch format {
	case CSV:
		return &csvWriter{fields, csv.NewWriter(out), false}
	case JSON:
		return &jsonWriter{fields, out}
	case Table:
		return &tableWriter{fields, out, termio.NewTablePrinter(fields.Names()...), termio.DefaultWidth, false}
	}
	//
	panic(fmt.Sprintf("unknown output format (%d)", format))
}

// WriteAll writes every row of a sequence, and then closes the writer.  This
// returns the number of rows written.
func WriteAll(writer RowWriter, rows iter.Iterator[*generation.DataBag]) (uint64, error) {
	var count uint64
	//
	for rows.HasNext() {
		if err := writer.Write(rows.Next()); err != nil {
			return count, err
		}
		//
		count++
	}
	//
	return count, writer.Close()
}

// ============================================================================
// CSV
// ============================================================================

type csvWriter struct {
	fields profile.Fields
	writer *csv.Writer
	// Indicates whether the header has been written.
	started bool
}

func (p *csvWriter) Write(row *generation.DataBag) error {
	if err := p.start(); err != nil {
		return err
	}
	//
	return p.writer.Write(formatRow(p.fields, row))
}

func (p *csvWriter) Close() error {
	// Header is written even without rows
	if err := p.start(); err != nil {
		return err
	}
	//
	p.writer.Flush()
	//
	return p.writer.Error()
}

func (p *csvWriter) start() error {
	if p.started {
		return nil
	}
	//
	p.started = true
	//
	return p.writer.Write(p.fields.Names())
}

// ============================================================================
// JSON
// ============================================================================

type jsonWriter struct {
	fields profile.Fields
	out    io.Writer
}

// Write a row as a single JSON object, whose keys follow field order.
// Unformatted numbers are written as JSON numbers.
func (p *jsonWriter) Write(row *generation.DataBag) error {
	var buf = []byte{'{'}
	//
	for i, f := range p.fields {
		if i != 0 {
			buf = append(buf, ',')
		}
		//
		key, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		//
		val, err := jsonValue(f, row.Get(f.Name))
		if err != nil {
			return err
		}
		//
		buf = append(append(append(buf, key...), ':'), val...)
	}
	//
	buf = append(buf, '}', '\n')
	_, err := p.out.Write(buf)
	//
	return err
}

func (p *jsonWriter) Close() error {
	return nil
}

func jsonValue(field profile.Field, value generation.DataBagValue) ([]byte, error) {
	if value.IsNull() {
		return []byte("null"), nil
	} else if value.Value().Type() == profile.Numeric && field.Formatting == "" {
		return json.Marshal(json.Number(value.Value().Numeric().String()))
	}
	//
	return json.Marshal(FormatValue(field, value))
}

// ============================================================================
// Table
// ============================================================================

type tableWriter struct {
	fields  profile.Fields
	out     io.Writer
	printer *termio.TablePrinter
	width   uint
	escapes bool
}

// NewTableWriter constructs a table writer which fits rows within a given
// width, optionally highlighting the header.
func NewTableWriter(out io.Writer, fields profile.Fields, width uint, escapes bool) RowWriter {
	fields = fields.External()
	//
	return &tableWriter{fields, out, termio.NewTablePrinter(fields.Names()...), width, escapes}
}

func (p *tableWriter) Write(row *generation.DataBag) error {
	p.printer.AddRow(formatRow(p.fields, row)...)
	return nil
}

// Close lays out and prints every buffered row.
func (p *tableWriter) Close() error {
	p.printer.AnsiEscapes(p.escapes)
	p.printer.FitTo(p.width)
	//
	return p.printer.Print(p.out)
}
