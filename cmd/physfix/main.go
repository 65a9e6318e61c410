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

// physfix is a thin CLI driver over the core pipeline: it reads an already
// produced token/scope dump and unit-checker report, runs the pipeline, and
// prints the resulting candidate fixes. It never invokes the tokenizer or
// unit checker itself, and never rewrites source files — both remain the
// caller's responsibility.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	physfix "github.com/squaresLab/physfix"
	"github.com/squaresLab/physfix/config"
	"github.com/squaresLab/physfix/internal/dump"
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/report"
	"github.com/squaresLab/physfix/internal/snapshot"
)

var (
	dumpPath     string
	reportPath   string
	maxFixes     int
	searchDepth  int
	interactive  bool
	dumpStateOut string
	asJSON       bool
)

func main() {
	root := &cobra.Command{
		Use:   "physfix",
		Short: "Suggest fixes for physical-unit inconsistencies found by an external unit checker",
		RunE:  run,
	}

	flags := root.Flags()
	flags.StringVar(&dumpPath, "dump", "", "path to the tokenizer's XML token/scope dump (required)")
	flags.StringVar(&reportPath, "report", "", "path to the unit checker's JSON report (required)")
	flags.IntVar(&maxFixes, "max-fixes", config.DefaultMaxFixes, "maximum candidate subtrees kept per change")
	flags.IntVar(&searchDepth, "search-depth", config.DefaultSearchDepth, "maximum breadth-first search depth for the unit fix search")
	flags.BoolVar(&interactive, "interactive", false, "reserved for a future interactive confirmation prompt; consulted by no core phase")
	flags.StringVar(&dumpStateOut, "dump-state", "", "write a gob+s2-compressed snapshot of every function's CFG and dependency graph to this path")
	flags.BoolVar(&asJSON, "json", false, "print candidate fixes as JSON instead of a human-readable list")

	_ = root.MarkFlagRequired("dump")
	_ = root.MarkFlagRequired("report")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	dumpData, err := os.ReadFile(dumpPath)
	if err != nil {
		return fmt.Errorf("physfix: reading dump: %w", err)
	}
	reportData, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("physfix: reading report: %w", err)
	}

	unit, err := dump.Decode(dumpData)
	if err != nil {
		return fmt.Errorf("physfix: decoding dump: %w", err)
	}
	rpt, err := report.Decode(reportData)
	if err != nil {
		return fmt.Errorf("physfix: decoding report: %w", err)
	}

	cfg := config.Config{MaxFixes: maxFixes, SearchDepth: searchDepth, Interactive: interactive}
	pipeline := physfix.NewPipeline(cfg)

	result, err := pipeline.Run(context.Background(), unit, rpt)
	if err != nil {
		return fmt.Errorf("physfix: %w", err)
	}

	if dumpStateOut != "" {
		if err := writeSnapshot(result, dumpStateOut); err != nil {
			return err
		}
	}

	for _, f := range result.LinkFails {
		fmt.Fprintf(os.Stderr, "physfix: %s\n", f.Error())
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(os.Stderr, "physfix: skipped error at token %s: %s\n", s.Error.ErrorTokenID, s.Reason)
	}

	if asJSON {
		return printJSON(result)
	}
	printHuman(result)
	return nil
}

func writeSnapshot(result *physfix.Result, path string) error {
	snap := &snapshot.Snapshot{}
	for _, fn := range result.Functions {
		name := fn.Function.Name
		snap.Functions = append(snap.Functions, snapshot.BuildFunction(name, fn.CFG, fn.Graph))
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		return fmt.Errorf("physfix: encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("physfix: writing snapshot: %w", err)
	}
	return nil
}

// changeView is the CLI's flat, JSON-safe projection of a fixsearch.Change:
// the live type holds *model.Token pointers threaded through the whole
// token stream, which json.Marshal cannot walk without re-serializing most
// of the translation unit.
type changeView struct {
	TokenToFix string   `json:"token_to_fix"`
	Candidates []string `json:"candidates"`
}

func viewOf(result *physfix.Result) []changeView {
	views := make([]changeView, 0, len(result.Changes))
	for _, c := range result.Changes {
		v := changeView{TokenToFix: renderExpr(c.TokenToFix)}
		for _, cand := range c.Candidates {
			v.Candidates = append(v.Candidates, renderExpr(cand))
		}
		views = append(views, v)
	}
	return views
}

func printJSON(result *physfix.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(viewOf(result))
}

func printHuman(result *physfix.Result) {
	if len(result.Changes) == 0 {
		fmt.Println("physfix: no fixes found")
		return
	}
	for _, v := range viewOf(result) {
		fmt.Printf("replace %q with one of:\n", v.TokenToFix)
		for _, cand := range v.Candidates {
			fmt.Printf("  %s\n", cand)
		}
	}
}

// renderExpr renders a (possibly synthesized) expression subtree as infix
// source text, for diagnostic display only — physfix never rewrites the
// original source file.
func renderExpr(t *model.Token) string {
	if t == nil {
		return ""
	}
	if t.AstOperand1 == nil && t.AstOperand2 == nil {
		return t.Str
	}
	if t.AstOperand1 != nil && t.AstOperand2 != nil {
		return fmt.Sprintf("(%s %s %s)", renderExpr(t.AstOperand1), t.Str, renderExpr(t.AstOperand2))
	}
	// Unary: operand1 only.
	return fmt.Sprintf("%s%s", t.Str, renderExpr(t.AstOperand1))
}
