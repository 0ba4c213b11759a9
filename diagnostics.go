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

package matchcore

import "fmt"

// DiagnosticEvent reports a static anomaly found while scanning a
// Collection: a duplicate pattern, a duplicate name, or a route shadowed
// by a higher-priority one. Diagnostics are informational only — the
// Collection matches exactly the same whether or not they are collected
// (spec §4.H).
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any
}

// DiagnosticKind categorizes a DiagnosticEvent.
type DiagnosticKind string

const (
	// DiagDuplicatePattern fires when two routes share the same
	// (method, pattern) pair.
	DiagDuplicatePattern DiagnosticKind = "duplicate_pattern"
	// DiagDuplicateName fires when two routes share the same non-empty
	// Name.
	DiagDuplicateName DiagnosticKind = "duplicate_name"
	// DiagShadowedRoute fires when a lower-priority route can never be
	// reached because a higher-priority route with an identical or
	// more general pattern shape always matches first.
	DiagShadowedRoute DiagnosticKind = "shadowed_route"
)

// DiagnosticHandler receives diagnostic events. Implementations may log,
// emit metrics, trace events, or ignore them.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := matchcore.DiagnosticHandlerFunc(func(e matchcore.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	c := matchcore.NewCollection(matchcore.WithDiagnosticHandler(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

// Diagnose scans the collection's frozen routes for duplicate patterns,
// duplicate names, and shadowed routes, reporting each finding to
// handler, or to the Collection's WithDiagnosticHandler handler when
// handler is nil; with neither set it does nothing. It never mutates
// match behavior; it is purely advisory tooling, grounded on spec §4.H.
func Diagnose(c *Collection, handler DiagnosticHandler) {
	if handler == nil {
		handler = c.diagnostics
	}
	if handler == nil {
		return
	}
	c.freeze()

	seenPatterns := make(map[string]*Route)
	seenNames := make(map[string]*Route)

	for _, r := range c.sorted {
		for _, m := range r.Methods() {
			key := m + ":" + r.Pattern
			if prev, ok := seenPatterns[key]; ok {
				handler.OnDiagnostic(DiagnosticEvent{
					Kind:    DiagDuplicatePattern,
					Message: fmt.Sprintf("pattern %q registered more than once for method %s", r.Pattern, m),
					Fields:  map[string]any{"pattern": r.Pattern, "method": m, "previous_name": prev.Name},
				})
				continue
			}
			seenPatterns[key] = r
		}

		if r.Name != "" {
			if prev, ok := seenNames[r.Name]; ok {
				handler.OnDiagnostic(DiagnosticEvent{
					Kind:    DiagDuplicateName,
					Message: fmt.Sprintf("route name %q registered more than once", r.Name),
					Fields:  map[string]any{"name": r.Name, "previous_pattern": prev.Pattern},
				})
			} else {
				seenNames[r.Name] = r
			}
		}
	}

	diagnoseShadowing(c, handler)
}

// diagnoseShadowing reports any route whose pattern is shadowed by an
// earlier (higher-priority, or equal-priority-and-earlier-registered)
// route that matches every path the shadowed route matches (identical
// shapes included). A route shadows another when both have the same
// segment count, every aligned segment pair is covered as shapeSubsumes
// describes, and the shadowing route shares at least one method with
// the shadowed one.
func diagnoseShadowing(c *Collection, handler DiagnosticHandler) {
	for i, shadowed := range c.sorted {
		for j := 0; j < i; j++ {
			shadowing := c.sorted[j]
			if !sharesMethod(shadowing, shadowed) {
				continue
			}
			if !shapeSubsumes(shadowing.Pattern, shadowed.Pattern) {
				continue
			}
			handler.OnDiagnostic(DiagnosticEvent{
				Kind:    DiagShadowedRoute,
				Message: fmt.Sprintf("route %q is shadowed by higher-priority route %q", shadowed.Pattern, shadowing.Pattern),
				Fields: map[string]any{
					"pattern":          shadowed.Pattern,
					"shadowed_by":      shadowing.Pattern,
					"shadowing_name":   shadowing.Name,
					"shadowed_name":    shadowed.Name,
				},
			})
			break
		}
	}
}

func sharesMethod(a, b *Route) bool {
	for _, m := range a.Methods() {
		if b.AllowsMethod(m) {
			return true
		}
	}
	return false
}

// shapeSubsumes reports whether every concrete path matched by
// candidate is also matched by shape, segment for segment: same segment
// count, and at each position either identical static literals or
// shape's segment is an unconstrained param (which matches anything
// candidate's segment — static or param — could produce).
func shapeSubsumes(shape, candidate string) bool {
	shapeSegs := parseSegments(shape)
	candSegs := parseSegments(candidate)
	if len(shapeSegs) != len(candSegs) {
		return false
	}
	for i, s := range shapeSegs {
		c := candSegs[i]
		if s.Static {
			if !c.Static || c.Literal != s.Literal {
				return false
			}
			continue
		}
		// s is a param segment: it subsumes a static or param segment
		// in candidate only if s uses the default "match anything but
		// /" regex. matchcore does not attempt subset analysis between
		// two regexes, so a constrained param is never treated as
		// covering candidate's segment (a missed shadow is preferred
		// here to a false report).
		if s.Regex != defaultParamRegex {
			return false
		}
	}
	return true
}
