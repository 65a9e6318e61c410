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

package report_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"

	"github.com/squaresLab/physfix/internal/report"
	"github.com/squaresLab/physfix/internal/units"
)

const sampleReport = `{
  "errors": [
    {"root_token_id": "t1", "token_id": "t2", "error_type": "ADDITION_OF_INCOMPATIBLE_UNITS"}
  ],
  "variables": [
    {"var_name": "x", "var_id": "v1", "units": [{"m": 1}]},
    {"var_name": "y", "var_id": "v2", "units": [[{"s": -1}, 0.9]]}
  ],
  "token_units": {
    "t2": {"m": 1, "s": -2},
    "t3": {}
  }
}`

func TestDecode(t *testing.T) {
	t.Parallel()

	r, err := report.Decode([]byte(sampleReport))
	require.NoError(t, err)

	require.Len(t, r.Errors, 1)
	require.Equal(t, "t1", r.Errors[0].RootTokenID)
	require.Equal(t, "ADDITION_OF_INCOMPATIBLE_UNITS", r.Errors[0].ErrorType)

	vars := r.VariableMap()
	require.Contains(t, vars, "v1")
	var one apd.Decimal
	one.SetInt64(1)
	require.Equal(t, one, vars["v1"].Units[0]["m"])

	// The [object, likelihood] shape must decode just like the bare-object shape.
	require.Contains(t, vars, "v2")
	var minusOne apd.Decimal
	minusOne.SetInt64(-1)
	require.Equal(t, minusOne, vars["v2"].Units[0]["s"])

	u, ok := r.TokenUnits.Load("t2")
	require.True(t, ok)
	require.True(t, units.Equal(u, units.Map{"m": one, "s": func() apd.Decimal {
		var d apd.Decimal
		d.SetInt64(-2)
		return d
	}()}))

	_, ok = r.TokenUnits.Load("missing")
	require.False(t, ok)
}

func TestDecodeTokenUnitsPreservesOrder(t *testing.T) {
	t.Parallel()

	r, err := report.Decode([]byte(`{"token_units": {"z": {}, "a": {}, "m": {}}}`))
	require.NoError(t, err)

	var keys []string
	for _, p := range r.TokenUnits.Pairs {
		keys = append(keys, p.Key)
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	r, err := report.Decode([]byte(sampleReport))
	require.NoError(t, err)
	lookup := r.NewLookup()

	u, ok := lookup.VariableUnit("v1")
	require.True(t, ok)
	require.NotEmpty(t, u)

	_, ok = lookup.VariableUnit("nonexistent")
	require.False(t, ok)

	u, ok = lookup.TokenUnit("t2")
	require.True(t, ok)
	require.NotEmpty(t, u)
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := report.Decode([]byte("not json"))
	require.Error(t, err)
}
