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
package restriction

import "fmt"

// Restriction represents the closed family of typed restrictions which can be
// placed on a field: *Numeric, *DateTime and *String.  Consumers are expected
// to switch exhaustively over these.
type Restriction interface {
	fmt.Stringer
	// IsContradictory checks whether this restriction permits no values.
	IsContradictory() bool
	// Prevents outside implementations.
	restriction()
}
