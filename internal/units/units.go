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

// Package units implements the commutative unit algebra: a physical unit
// is a map from base-unit name (e.g. "m", "s", "kg") to its
// exponent. Exponents are exact apd.Decimal values rather than float64,
// since the algebra must support exact equality (two units are the same
// unit iff their nonzero exponents match exactly) and the fix search
// composes exponents from many sources without ever wanting float drift to
// manufacture or erase a unit.
package units

import (
	"github.com/cockroachdb/apd/v3"
)

var ctx = apd.BaseContext.WithPrecision(40)

// Map is an immutable unit: base-unit name to nonzero exponent. A Map never
// stores a zero exponent; operations that would produce one for a name
// instead delete that entry.
type Map map[string]apd.Decimal

// decimal returns a pointer to a copy of d: apd's Context methods take
// *apd.Decimal operands, and the copy keeps a Map's stored value untouched.
func decimal(d apd.Decimal) *apd.Decimal { return &d }

func isZero(d apd.Decimal) bool {
	return d.Cmp(&apd.Decimal{}) == 0
}

// clone returns a shallow copy of m (exponent values themselves are
// immutable once set).
func (m Map) clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Multiply returns the unit obtained by adding a and b's exponents.
func Multiply(a, b Map) Map {
	out := a.clone()
	for name, exp := range b {
		cur, ok := out[name]
		if !ok {
			out[name] = exp
			continue
		}
		var sum apd.Decimal
		_, _ = ctx.Add(&sum, decimal(cur), decimal(exp))
		if isZero(sum) {
			delete(out, name)
		} else {
			out[name] = sum
		}
	}
	return out
}

// Divide returns the unit obtained by subtracting b's exponents from a's.
func Divide(a, b Map) Map {
	out := a.clone()
	for name, exp := range b {
		cur, ok := out[name]
		if !ok {
			var neg apd.Decimal
			_, _ = ctx.Neg(&neg, decimal(exp))
			out[name] = neg
			continue
		}
		var diff apd.Decimal
		_, _ = ctx.Sub(&diff, decimal(cur), decimal(exp))
		if isZero(diff) {
			delete(out, name)
		} else {
			out[name] = diff
		}
	}
	return out
}

// Power scales every exponent in m by power.
func Power(m Map, power apd.Decimal) Map {
	out := make(Map, len(m))
	for name, exp := range m {
		var product apd.Decimal
		_, _ = ctx.Mul(&product, decimal(exp), decimal(power))
		if !isZero(product) {
			out[name] = product
		}
	}
	return out
}

// PowerInt is Power for an integer exponent, the common case (sqrt uses 2).
func PowerInt(m Map, power int64) Map {
	var p apd.Decimal
	p.SetInt64(power)
	return Power(m, p)
}

// Diff returns the unit that a must be multiplied by to yield b.
func Diff(a, b Map) Map {
	out := make(Map, len(b))
	for name, exp := range b {
		cur, ok := a[name]
		if !ok {
			out[name] = exp
			continue
		}
		var diff apd.Decimal
		_, _ = ctx.Sub(&diff, decimal(exp), decimal(cur))
		if !isZero(diff) {
			out[name] = diff
		}
	}
	for name, exp := range a {
		if _, ok := b[name]; !ok {
			var neg apd.Decimal
			_, _ = ctx.Neg(&neg, decimal(exp))
			out[name] = neg
		}
	}
	return out
}

// Equal reports whether a and b have exactly the same nonzero exponents.
func Equal(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	for name, exp := range a {
		other, ok := b[name]
		if !ok {
			return false
		}
		e, o := exp, other
		if e.Cmp(&o) != 0 {
			return false
		}
	}
	return true
}
