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

// Package matchcore is a standalone HTTP request routing and matching
// engine. It owns pattern parsing, route storage, path-to-route
// dispatch, and reverse URL generation — and nothing past that: no HTTP
// server, no request/response types, no middleware pipeline, no
// dependency-injection container.
//
// # Key Pieces
//
//   - Segment and parseSegments: split a pattern into static and
//     parameter components.
//   - Route: an immutable-after-compile record of one registered
//     pattern, its methods, handler reference, and metadata.
//   - trieNode: a segment-keyed prefix trie, static children hashed,
//     param children ordered by priority.
//   - Collection: owns registered routes and dispatches Match calls
//     through a static table, the trie, and a fallback scan.
//   - Generator: reverse URL generation from a route name and params.
//   - Diagnose: advisory static analysis for duplicate/shadowed routes.
//
// Ahead-of-time compilation to a portable artifact, and a
// reconstruction-free reader of that artifact, live in the sibling
// packages matchcore/compiler and matchcore/compiled.
//
// # Constructor Pattern
//
// NewCollection and NewRoute never fail: construction only allocates
// and applies options. A malformed pattern is only reported once
// Collection.Add compiles the route, matching the "options validate
// lazily" discipline used throughout this package.
//
// # Quick Start
//
//	c := matchcore.NewCollection()
//	c.Add(matchcore.NewRoute("/users/{id}", []string{"GET"}, matchcore.ClosureHandler("showUser"), matchcore.WithName("user_show")))
//	res := c.Match("GET", "/users/42")
//	// res.Kind == matchcore.MatchHit, res.Params["id"] == "42"
package matchcore
