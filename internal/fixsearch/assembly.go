// Copyright (c) 2024 The PhysFix Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fixsearch

import (
	"github.com/squaresLab/physfix/internal/errorlink"
)

// Recognized, repairable error types; any other error_type passes through
// unrepaired.
const (
	AdditionOfIncompatibleUnits = "ADDITION_OF_INCOMPATIBLE_UNITS"
	ComparisonIncompatibleUnits = "COMPARISON_INCOMPATIBLE_UNITS"
	VariableMultipleUnits       = "VARIABLE_MULTIPLE_UNITS"
)

// Skipped records a root error that was not repaired, either because its
// error type has no fix strategy or because the strategy itself failed
// (e.g. a malformed statement shape).
type Skipped struct {
	Error  *errorlink.Error
	Reason string
}

// Resolve runs the fix strategy matching each root error's type and returns
// the resulting Changes in the same order as roots, alongside any errors
// that could not be repaired. Ordering is preserved by iterating roots in
// order and appending each one's Changes as they're produced.
func Resolve(roots []*errorlink.Error, p Params) ([]*Change, []Skipped) {
	var changes []*Change
	var skipped []Skipped

	for _, root := range roots {
		switch root.ErrorType {
		case AdditionOfIncompatibleUnits:
			c, err := FixAdditionSubtraction(root, p)
			if err != nil {
				skipped = append(skipped, Skipped{Error: root, Reason: err.Error()})
				continue
			}
			changes = append(changes, c)

		case ComparisonIncompatibleUnits:
			cs, err := FixComparison(root, p)
			if err != nil {
				skipped = append(skipped, Skipped{Error: root, Reason: err.Error()})
				continue
			}
			changes = append(changes, cs...)

		default:
			skipped = append(skipped, Skipped{Error: root, Reason: "no fix strategy for error type " + root.ErrorType})
		}
	}

	return changes, skipped
}
