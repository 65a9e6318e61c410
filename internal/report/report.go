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

// Package report decodes the external unit checker's JSON report: the list
// of detected errors, the per-variable ranked unit guesses, and the
// per-token (non-variable operand) unit map. This is a pure boundary
// format, owned entirely by the external unit checker PhysFix never
// invokes directly — decoding it is this module's only point of contact
// with that tool's output shape.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/apd/v3"

	"github.com/squaresLab/physfix/internal/orderedmap"
	"github.com/squaresLab/physfix/internal/units"
)

// RawError is one error as reported by the unit checker, before it has
// been linked to a dependency graph node (internal/errorlink does that
// linking).
type RawError struct {
	RootTokenID  string `json:"root_token_id"`
	ErrorTokenID string `json:"token_id"`
	ErrorType    string `json:"error_type"`
}

// Variable is one variable's ranked unit guesses, most likely first.
type Variable struct {
	Name  string `json:"var_name"`
	ID    string `json:"var_id"`
	Units []units.Map
}

// UnmarshalJSON accepts each unit entry as either a bare object
// (`{"m": 1}`) or a `[object, likelihood]` pair, matching the two shapes
// the unit checker has been observed to emit for the "units" field.
func (v *Variable) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name  string            `json:"var_name"`
		ID    string            `json:"var_id"`
		Units []json.RawMessage `json:"units"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("report: decoding variable: %w", err)
	}
	v.Name, v.ID = aux.Name, aux.ID
	for _, raw := range aux.Units {
		u, err := decodeUnitEntry(raw)
		if err != nil {
			return fmt.Errorf("report: variable %s: %w", v.ID, err)
		}
		v.Units = append(v.Units, u)
	}
	return nil
}

func decodeUnitEntry(raw json.RawMessage) (units.Map, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return nil, err
		}
		if len(pair) == 0 {
			return units.Map{}, nil
		}
		return decodeUnitMap(pair[0])
	}
	return decodeUnitMap(trimmed)
}

func decodeUnitMap(raw json.RawMessage) (units.Map, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var flat map[string]json.Number
	if err := dec.Decode(&flat); err != nil {
		return nil, err
	}

	out := make(units.Map, len(flat))
	for name, num := range flat {
		var d apd.Decimal
		if _, _, err := d.SetString(num.String()); err != nil {
			return nil, fmt.Errorf("unit exponent %q for %q: %w", num.String(), name, err)
		}
		out[name] = d
	}
	return out, nil
}

// Report is the fully decoded external unit-checker output for one
// translation unit.
type Report struct {
	Errors    []RawError
	Variables []Variable
	// TokenUnits is keyed by token id in the order the report listed them.
	// A plain Go map would silently randomize that order on every decode;
	// since downstream diagnostics/snapshots are expected to be
	// deterministic across runs of the same report, this is an orderedmap
	// instead.
	TokenUnits *orderedmap.OrderedMap[string, units.Map]
}

// Decode parses a unit-checker report from data.
func Decode(data []byte) (*Report, error) {
	var aux struct {
		Errors     []RawError      `json:"errors"`
		Variables  []Variable      `json:"variables"`
		TokenUnits json.RawMessage `json:"token_units"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	tokenUnits, err := decodeTokenUnits(aux.TokenUnits)
	if err != nil {
		return nil, err
	}

	return &Report{Errors: aux.Errors, Variables: aux.Variables, TokenUnits: tokenUnits}, nil
}

// decodeTokenUnits streams the token_units object key by key (rather than
// unmarshaling into a Go map, which discards key order) so the resulting
// OrderedMap preserves the order the unit checker reported them in.
func decodeTokenUnits(raw json.RawMessage) (*orderedmap.OrderedMap[string, units.Map], error) {
	out := orderedmap.New[string, units.Map]()
	if len(raw) == 0 {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // consume opening '{'
		return nil, fmt.Errorf("report: token_units: %w", err)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("report: token_units: %w", err)
		}
		key := keyTok.(string)

		var entry json.RawMessage
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("report: token_units[%s]: %w", key, err)
		}
		u, err := decodeUnitMap(entry)
		if err != nil {
			return nil, fmt.Errorf("report: token_units[%s]: %w", key, err)
		}
		out.Store(key, u)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF { // consume closing '}'
		return nil, fmt.Errorf("report: token_units: %w", err)
	}
	return out, nil
}

// VariableMap indexes Variables by ID, the lookup shape every later phase
// consumes.
func (r *Report) VariableMap() map[string]*Variable {
	out := make(map[string]*Variable, len(r.Variables))
	for i := range r.Variables {
		out[r.Variables[i].ID] = &r.Variables[i]
	}
	return out
}

// Lookup adapts a decoded Report into a units.Lookup, resolving variable
// units through its top-ranked guess and token units through TokenUnits.
type Lookup struct {
	variables map[string]*Variable
	tokens    *orderedmap.OrderedMap[string, units.Map]
}

// NewLookup builds a units.Lookup backed by r.
func (r *Report) NewLookup() *Lookup {
	return &Lookup{variables: r.VariableMap(), tokens: r.TokenUnits}
}

// VariableUnit implements units.Lookup.
func (l *Lookup) VariableUnit(varID string) (units.Map, bool) {
	v, ok := l.variables[varID]
	if !ok || len(v.Units) == 0 {
		return nil, false
	}
	return v.Units[0], true
}

// TokenUnit implements units.Lookup.
func (l *Lookup) TokenUnit(tokenID string) (units.Map, bool) {
	return l.tokens.Load(tokenID)
}
