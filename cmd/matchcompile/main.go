// Copyright 2025 The Matchcore Authors
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

// Command matchcompile reads a JSON route definition file, builds a
// matchcore.Collection, runs Diagnose over it, and writes a compiled
// artifact for matchcore/compiled.Matcher to load at serve time.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ascetic-soft/matchcore"
	"github.com/ascetic-soft/matchcore/compiler"
)

// routeDef is the on-disk shape of one route entry in the input file.
type routeDef struct {
	Pattern  string   `json:"pattern"`
	Methods  []string `json:"methods"`
	Name     string   `json:"name,omitempty"`
	Priority int      `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func main() {
	routesPath := flag.String("routes", "", "path to a JSON array of route definitions")
	outPath := flag.String("out", "routes.artifact.json", "path to write the compiled artifact")
	strict := flag.Bool("strict", false, "exit non-zero if Diagnose reports any finding")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*routesPath, *outPath, *strict, logger); err != nil {
		logger.Error("matchcompile failed", "error", err)
		os.Exit(1)
	}
}

func run(routesPath, outPath string, strict bool, logger *slog.Logger) error {
	if routesPath == "" {
		return fmt.Errorf("matchcompile: -routes is required")
	}

	defs, err := loadRouteDefs(routesPath)
	if err != nil {
		return fmt.Errorf("matchcompile: %w", err)
	}

	collection := matchcore.NewCollection(matchcore.WithLogger(logger))
	for _, def := range defs {
		route := matchcore.NewRoute(
			def.Pattern,
			def.Methods,
			matchcore.ClosureHandler(def.Name),
			matchcore.WithName(def.Name),
			matchcore.WithPriority(def.Priority),
			matchcore.WithTags(def.Tags...),
		)
		if err := collection.Add(route); err != nil {
			return fmt.Errorf("matchcompile: adding route %q: %w", def.Pattern, err)
		}
	}

	findings := 0
	matchcore.Diagnose(collection, matchcore.DiagnosticHandlerFunc(func(e matchcore.DiagnosticEvent) {
		findings++
		logger.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
	}))
	if strict && findings > 0 {
		return fmt.Errorf("matchcompile: %d diagnostic finding(s) with -strict set", findings)
	}

	art, err := compiler.CompileTraced(context.Background(), collection)
	if err != nil {
		return fmt.Errorf("matchcompile: %w", err)
	}

	if err := compiler.SaveArtifact(outPath, art); err != nil {
		return fmt.Errorf("matchcompile: %w", err)
	}

	logger.Info("artifact written", "path", outPath, "routes", len(art.Routes))
	return nil
}

func loadRouteDefs(path string) ([]routeDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var defs []routeDef
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return defs, nil
}
