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
	"strings"
)

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// AnsiEscape is a sequence of ANSI select graphic rendition codes, such as for
// bold or coloured text.
type AnsiEscape struct {
	codes []string
}

// ResetAnsiEscape constructs an escape which cancels any previous escape.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]string{"0"}}
}

// BoldAnsiEscape constructs an escape for bold text.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{[]string{"1"}}
}

// FgColour extends this escape with a foreground colour.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.with(fmt.Sprintf("%d", col+30))
}

// Underline extends this escape with underlining.
func (p AnsiEscape) Underline() AnsiEscape {
	return p.with("4")
}

func (p AnsiEscape) with(code string) AnsiEscape {
	codes := make([]string, len(p.codes), len(p.codes)+1)
	copy(codes, p.codes)
	//
	return AnsiEscape{append(codes, code)}
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("\033[%sm", strings.Join(p.codes, ";"))
}
