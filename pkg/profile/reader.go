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
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/consensys/go-datagen/pkg/restriction"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Document layout of a profile.  JSON documents are read as YAML.
type profileDTO struct {
	Fields []fieldDTO `yaml:"fields"`
	Rules  []ruleDTO  `yaml:"rules"`
	// Constraints outside of any named rule.
	Constraints []yaml.Node `yaml:"constraints"`
}

type fieldDTO struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Nullable   bool   `yaml:"nullable"`
	Unique     bool   `yaml:"unique"`
	Formatting string `yaml:"formatting"`
}

type ruleDTO struct {
	Rule        string      `yaml:"rule"`
	Constraints []yaml.Node `yaml:"constraints"`
}

// Accepted layouts for datetime values, in order of preference.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ReadFile reads a profile from a YAML (or JSON) file.  Any files referenced
// by the profile (e.g. for inSet or inMap constraints) are resolved relative
// to the directory containing it.
func ReadFile(filename string) (*Profile, error) {
	data, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	return Read(data, filepath.Dir(filename))
}

// Read a profile from the contents of a YAML (or JSON) document.  Any files
// referenced by the profile are resolved relative to a given directory.  The
// profile returned has been validated.
func Read(data []byte, dir string) (*Profile, error) {
	var dto profileDTO
	//
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("malformed profile: %w", err)
	}
	//
	r := &reader{dir: dir, controllers: make(map[string]string)}
	//
	profile, err := r.read(&dto)
	if err != nil {
		return nil, err
	}
	//
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	//
	return profile, nil
}

type reader struct {
	dir         string
	fields      Fields
	// Internal field driving the rows taken from each lookup table.
	controllers map[string]string
}

func (p *reader) read(dto *profileDTO) (*Profile, error) {
	var (
		rules     []Rule
		typeRules []Constraint
	)
	//
	for _, f := range dto.Fields {
		specific, err := ParseSpecificType(f.Type)
		//
		if err != nil {
			return nil, NewValidationError("field \"%s\": %s", f.Name, err)
		}
		//
		field := NewField(f.Name, specific)
		field.Nullable, field.Unique, field.Formatting = f.Nullable, f.Unique, f.Formatting
		p.fields = append(p.fields, field)
		// Restrictions implied by the type
		switch specific {
		case IntegerType:
			typeRules = append(typeRules, &Atomic{Kind: GranularTo, Field: f.Name, Scale: 0})
		case DateType:
			typeRules = append(typeRules, &Atomic{Kind: GranularTo, Field: f.Name, Unit: restriction.Days})
		}
	}
	//
	if len(typeRules) > 0 {
		rules = append(rules, Rule{"specific types", typeRules})
	}
	//
	if len(dto.Constraints) > 0 {
		constraints, err := p.readConstraints(dto.Constraints)
		if err != nil {
			return nil, err
		}
		//
		rules = append(rules, Rule{"constraints", constraints})
	}
	//
	for i, r := range dto.Rules {
		constraints, err := p.readConstraints(r.Constraints)
		//
		if err != nil {
			return nil, err
		}
		//
		description := r.Rule
		if description == "" {
			description = fmt.Sprintf("rule %d", i+1)
		}
		//
		rules = append(rules, Rule{description, constraints})
	}
	//
	return &Profile{p.fields, rules}, nil
}

func (p *reader) readConstraints(nodes []yaml.Node) ([]Constraint, error) {
	constraints := make([]Constraint, len(nodes))
	//
	for i := range nodes {
		c, err := p.readConstraint(&nodes[i])
		//
		if err != nil {
			return nil, err
		}
		//
		constraints[i] = c
	}
	//
	return constraints, nil
}

func (p *reader) readConstraint(node *yaml.Node) (Constraint, error) {
	if node.Kind != yaml.MappingNode {
		return nil, syntaxError(node, "expected constraint")
	}
	//
	entries := make(map[string]*yaml.Node)
	//
	for i := 0; i+1 < len(node.Content); i += 2 {
		entries[node.Content[i].Value] = node.Content[i+1]
	}
	// Logical constraints
	if n, ok := entries["not"]; ok {
		c, err := p.readConstraint(n)
		if err != nil {
			return nil, err
		}
		//
		return &Not{c}, nil
	} else if n, ok := entries["allOf"]; ok {
		cs, err := p.readSequence(n)
		if err != nil {
			return nil, err
		}
		//
		return &AllOf{cs}, nil
	} else if n, ok := entries["anyOf"]; ok {
		cs, err := p.readSequence(n)
		if err != nil {
			return nil, err
		}
		//
		return &AnyOf{cs}, nil
	} else if _, ok := entries["if"]; ok {
		return p.readConditional(node, entries)
	}
	//
	return p.readFieldConstraint(node, entries)
}

func (p *reader) readSequence(node *yaml.Node) ([]Constraint, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, syntaxError(node, "expected list of constraints")
	}
	//
	var constraints []Constraint
	//
	for _, n := range node.Content {
		c, err := p.readConstraint(n)
		if err != nil {
			return nil, err
		}
		//
		constraints = append(constraints, c)
	}
	//
	return constraints, nil
}

func (p *reader) readConditional(node *yaml.Node, entries map[string]*yaml.Node) (Constraint, error) {
	var (
		conditional Conditional
		err         error
	)
	//
	if entries["then"] == nil {
		return nil, syntaxError(node, "if constraint requires then")
	} else if conditional.If, err = p.readConstraint(entries["if"]); err != nil {
		return nil, err
	} else if conditional.Then, err = p.readConstraint(entries["then"]); err != nil {
		return nil, err
	} else if entries["else"] != nil {
		if conditional.Else, err = p.readConstraint(entries["else"]); err != nil {
			return nil, err
		}
	}
	//
	return &conditional, nil
}

func (p *reader) readFieldConstraint(node *yaml.Node, entries map[string]*yaml.Node) (Constraint, error) {
	fieldNode, ok := entries["field"]
	//
	if !ok {
		return nil, syntaxError(node, "constraint requires a field")
	}
	//
	field, ok := p.fields.Find(fieldNode.Value)
	if !ok {
		return nil, syntaxError(fieldNode, fmt.Sprintf("unknown field \"%s\"", fieldNode.Value))
	}
	//
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, operand := node.Content[i].Value, node.Content[i+1]
		//
		if kind, ok := ParseKind(key); ok {
			return p.readAtomic(field, kind, operand)
		} else if kind, ok := ParseRelationKind(key); ok {
			return p.readRelation(field, kind, operand, entries)
		} else if key == "inMap" {
			return p.readInMap(field, operand, entries)
		}
	}
	//
	return nil, syntaxError(node, "unknown constraint")
}

func (p *reader) readAtomic(field Field, kind Kind, operand *yaml.Node) (Constraint, error) {
	var (
		atomic = &Atomic{Kind: kind, Field: field.Name}
		err    error
	)
	//
	switch kind {
	case IsNull:
		var isNull bool
		//
		if err := operand.Decode(&isNull); err != nil {
			return nil, syntaxError(operand, "expected boolean")
		} else if !isNull {
			return &Not{atomic}, nil
		}
	case InSet:
		atomic.Set, err = p.readSet(field, operand)
	case MatchingRegex, ContainingRegex:
		atomic.Pattern = operand.Value
	case OfLength, LongerThan, ShorterThan:
		atomic.Length, err = strconv.Atoi(operand.Value)
		if err != nil {
			err = syntaxError(operand, "expected integer length")
		}
	case GranularTo:
		err = p.readGranularity(field, atomic, operand)
	default:
		atomic.Value, err = readValue(field, operand)
	}
	//
	if err != nil {
		return nil, err
	}
	//
	return atomic, nil
}

func (p *reader) readGranularity(field Field, atomic *Atomic, operand *yaml.Node) error {
	if field.Type == DateTime {
		unit, err := restriction.ParseTimeUnit(operand.Value)
		if err != nil {
			return syntaxError(operand, err.Error())
		}
		//
		atomic.Unit = unit
		//
		return nil
	}
	//
	value, err := decimal.NewFromString(operand.Value)
	if err != nil {
		return syntaxError(operand, "expected numeric granularity")
	}
	//
	granularity, err := restriction.NumericGranularityOf(value)
	if err != nil {
		return syntaxError(operand, err.Error())
	}
	//
	atomic.Scale = granularity.Scale()
	//
	return nil
}

func (p *reader) readRelation(field Field, kind RelationKind, operand *yaml.Node,
	entries map[string]*yaml.Node) (Constraint, error) {
	relation := &Relation{Kind: kind, Field: field.Name, Other: operand.Value, Unit: restriction.Days}
	//
	if n, ok := entries["offset"]; ok {
		offset, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, syntaxError(n, "expected integer offset")
		}
		//
		relation.Offset = offset
	}
	//
	if n, ok := entries["offsetUnit"]; ok {
		unit, err := restriction.ParseTimeUnit(n.Value)
		if err != nil {
			return nil, syntaxError(n, err.Error())
		}
		//
		relation.Unit = unit
	}
	//
	return relation, nil
}

func (p *reader) readInMap(field Field, operand *yaml.Node, entries map[string]*yaml.Node) (Constraint, error) {
	key, ok := entries["key"]
	//
	if !ok {
		return nil, syntaxError(operand, "inMap requires a key")
	}
	//
	records, err := p.readCSV(operand.Value)
	if err != nil {
		return nil, err
	} else if len(records) == 0 {
		return nil, syntaxError(operand, "inMap file has no header")
	}
	//
	column := slices.Index(records[0], key.Value)
	if column < 0 {
		return nil, syntaxError(key, fmt.Sprintf("unknown column \"%s\"", key.Value))
	}
	//
	values := make([]Value, len(records)-1)
	//
	for i, record := range records[1:] {
		if column >= len(record) {
			return nil, syntaxError(operand, fmt.Sprintf("row %d has too few columns", i+1))
		} else if values[i], err = parseValue(field, record[column]); err != nil {
			return nil, syntaxError(operand, err.Error())
		}
	}
	//
	return &InMap{field.Name, p.controllerFor(operand.Value), values}, nil
}

// Determine the internal field which controls rows of a given lookup table,
// creating it if necessary.
func (p *reader) controllerFor(file string) string {
	if name, ok := p.controllers[file]; ok {
		return name
	}
	//
	name := fmt.Sprintf("__%s", filepath.Base(file))
	field := NewField(name, IntegerType)
	field.Internal = true
	//
	p.fields = append(p.fields, field)
	p.controllers[file] = name
	//
	return name
}

func (p *reader) readSet(field Field, operand *yaml.Node) ([]WeightedValue, error) {
	switch operand.Kind {
	case yaml.ScalarNode:
		// Values are read from a file
		return p.readSetFile(field, operand)
	case yaml.SequenceNode:
		set := make([]WeightedValue, len(operand.Content))
		//
		for i, n := range operand.Content {
			value, err := readValue(field, n)
			if err != nil {
				return nil, err
			}
			//
			set[i] = WeightedValue{value, 1}
		}
		//
		return set, nil
	}
	//
	return nil, syntaxError(operand, "expected list of values or file name")
}

// Read a set of values from a CSV file, where the first column holds the value
// and the (optional) second column its weight.
func (p *reader) readSetFile(field Field, operand *yaml.Node) ([]WeightedValue, error) {
	records, err := p.readCSV(operand.Value)
	//
	if err != nil {
		return nil, err
	}
	//
	set := make([]WeightedValue, 0, len(records))
	//
	for i, record := range records {
		var weighted = WeightedValue{Weight: 1}
		//
		if weighted.Value, err = parseValue(field, record[0]); err != nil {
			return nil, syntaxError(operand, fmt.Sprintf("row %d: %s", i+1, err))
		}
		//
		if len(record) > 1 && record[1] != "" {
			if weighted.Weight, err = strconv.ParseFloat(record[1], 64); err != nil {
				return nil, syntaxError(operand, fmt.Sprintf("row %d: invalid weight", i+1))
			}
		}
		//
		set = append(set, weighted)
	}
	//
	return set, nil
}

func (p *reader) readCSV(file string) ([][]string, error) {
	f, err := os.Open(filepath.Join(p.dir, file))
	//
	if err != nil {
		return nil, err
	}
	//
	defer f.Close()
	//
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	//
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	//
	return records, nil
}

// Read a constant value of the type held by a given field.
func readValue(field Field, node *yaml.Node) (Value, error) {
	switch {
	case node.Kind == yaml.MappingNode && field.Type == DateTime:
		// Datetimes may be given as {date: "..."}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "date" {
				return readValue(field, node.Content[i+1])
			}
		}
	case node.Kind == yaml.ScalarNode:
		value, err := parseValue(field, node.Value)
		if err != nil {
			return Value{}, syntaxError(node, err.Error())
		}
		//
		return value, nil
	}
	//
	return Value{}, syntaxError(node, fmt.Sprintf("expected %s value", field.Type))
}

// Parse a string as a value of the type held by a given field.
func parseValue(field Field, str string) (Value, error) {
	switch field.Type {
	case Numeric:
		number, err := decimal.NewFromString(str)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number \"%s\"", str)
		}
		//
		return NumericValue(number), nil
	case DateTime:
		return parseDateTime(str)
	default:
		return StringValue(str), nil
	}
}

func parseDateTime(str string) (Value, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return DateTimeValue(t), nil
		}
	}
	//
	return Value{}, fmt.Errorf("invalid datetime \"%s\"", str)
}

func syntaxError(node *yaml.Node, msg string) error {
	return NewValidationError("line %d: %s", node.Line, msg)
}
