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

package compiler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ascetic-soft/matchcore"
)

var tracer = otel.Tracer("github.com/ascetic-soft/matchcore/compiler")

// compileDuration records wall-clock time spent in CompileTraced. This
// package never registers it; NewCompileDurationCollector hands it out
// so importing this package never forces a metric registration.
var compileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name: "matchcore_compile_duration_seconds",
	Help: "Time spent compiling a route Collection into an Artifact.",
}, []string{"outcome"})

// NewCompileDurationCollector returns the compile-duration histogram for
// registration with a prometheus.Registerer. It is never registered
// automatically — callers opt in explicitly, matching spec's rule that
// telemetry is confined to compile/load-time, never the match hot path.
func NewCompileDurationCollector() prometheus.Collector {
	return compileDuration
}

// CompileTraced wraps Compile with an OpenTelemetry span and a
// Prometheus duration observation. Both are strictly load-time
// instrumentation: nothing here runs on any path reachable from
// Collection.Match or compiled.Matcher.Match.
func CompileTraced(ctx context.Context, collection *matchcore.Collection) (*Artifact, error) {
	ctx, span := tracer.Start(ctx, "compiler.Compile")
	defer span.End()

	start := time.Now()
	art, err := Compile(ctx, collection)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
	}
	compileDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err == nil {
		span.SetAttributes(
			attribute.Int("matchcore.routes", len(art.Routes)),
			attribute.Int("matchcore.static_routes", len(art.StaticTable)),
			attribute.Int("matchcore.fallback_routes", len(art.Fallback)),
		)
	}
	return art, err
}

var _ trace.Tracer = tracer
