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
	"fmt"
	"strings"

	"github.com/consensys/go-datagen/pkg/fieldspec"
	"github.com/consensys/go-datagen/pkg/profile"
)

// RowSpec is one fully resolved combination of FieldSpecs, free of decisions,
// along with the relations between fields which remain to be resolved during
// generation.  A RowSpec describes one class of valid rows.
type RowSpec struct {
	fields    profile.Fields
	specs     FieldSpecs
	relations []fieldspec.Relation
}

// NewRowSpec constructs a RowSpec from a given set of FieldSpecs and
// relations.
func NewRowSpec(fields profile.Fields, specs FieldSpecs, relations []fieldspec.Relation) *RowSpec {
	return &RowSpec{fields, specs, relations}
}

// Fields returns the fields of this RowSpec, in order.
func (p *RowSpec) Fields() profile.Fields {
	return p.fields
}

// Spec returns the FieldSpec for a given field.
func (p *RowSpec) Spec(field string) fieldspec.FieldSpec {
	spec, ok := p.specs[field]
	//
	if !ok {
		panic(fmt.Sprintf("unknown field \"%s\"", field))
	}
	//
	return spec
}

// Relations returns the relations between fields of this RowSpec.
func (p *RowSpec) Relations() []fieldspec.Relation {
	return p.relations
}

func (p *RowSpec) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, f := range p.fields {
		if i != 0 {
			builder.WriteString("; ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s: %s", f.Name, p.specs[f.Name]))
	}
	//
	for _, r := range p.relations {
		builder.WriteString(fmt.Sprintf("; %s", r))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
