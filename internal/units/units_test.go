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

package units_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"

	"github.com/squaresLab/physfix/internal/units"
)

func exp(n int64) apd.Decimal {
	var d apd.Decimal
	d.SetInt64(n)
	return d
}

func TestMultiply(t *testing.T) {
	t.Parallel()

	m := units.Multiply(units.Map{"m": exp(1)}, units.Map{"s": exp(-1)})
	require.True(t, units.Equal(m, units.Map{"m": exp(1), "s": exp(-1)}))
}

func TestMultiplyCancelsToZeroExponent(t *testing.T) {
	t.Parallel()

	m := units.Multiply(units.Map{"m": exp(1)}, units.Map{"m": exp(-1)})
	require.Empty(t, m, "a zero exponent must be deleted, not stored")
}

func TestDivide(t *testing.T) {
	t.Parallel()

	m := units.Divide(units.Map{"m": exp(2)}, units.Map{"m": exp(1), "s": exp(1)})
	require.True(t, units.Equal(m, units.Map{"m": exp(1), "s": exp(-1)}))
}

func TestPowerInt(t *testing.T) {
	t.Parallel()

	m := units.PowerInt(units.Map{"m": exp(1), "s": exp(-2)}, 2)
	require.True(t, units.Equal(m, units.Map{"m": exp(2), "s": exp(-4)}))
}

func TestPowerIntZeroDropsEntries(t *testing.T) {
	t.Parallel()

	m := units.PowerInt(units.Map{"m": exp(1)}, 0)
	require.Empty(t, m)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	// a * Diff(a, b) == b
	a := units.Map{"m": exp(1)}
	b := units.Map{"m": exp(1), "s": exp(-1)}
	d := units.Diff(a, b)
	require.True(t, units.Equal(units.Multiply(a, d), b))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	require.True(t, units.Equal(units.Map{"m": exp(1)}, units.Map{"m": exp(1)}))
	require.False(t, units.Equal(units.Map{"m": exp(1)}, units.Map{"m": exp(2)}))
	require.False(t, units.Equal(units.Map{"m": exp(1)}, units.Map{"m": exp(1), "s": exp(1)}))
	require.True(t, units.Equal(units.Map{}, nil))
}

func TestMultiplyDoesNotMutateOperands(t *testing.T) {
	t.Parallel()

	a := units.Map{"m": exp(1)}
	b := units.Map{"s": exp(1)}
	_ = units.Multiply(a, b)
	require.True(t, units.Equal(a, units.Map{"m": exp(1)}))
	require.True(t, units.Equal(b, units.Map{"s": exp(1)}))
}
