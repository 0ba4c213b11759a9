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

import "log/slog"

// Option configures a Collection at construction time. Construction
// itself cannot fail — options validate lazily, surfacing problems only
// when the misconfigured feature is actually exercised (doc.go's
// "Constructor Pattern" note).
type Option func(*Collection)

// WithLogger sets the slog.Logger used to log route registration in
// Collection.Add. Never used inside Match (spec's hot-path logging
// non-goal). Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDiagnosticHandler sets a handler that Diagnose reports findings
// to when it is called with a nil handler. Diagnostics are advisory only and never change match outcomes.
func WithDiagnosticHandler(handler DiagnosticHandler) Option {
	return func(c *Collection) {
		c.diagnostics = handler
	}
}

// WithBaseURL sets the absolute base URL prefixed by Generator.Absolute.
// Unset, Absolute returns ErrBaseURLNotSet.
func WithBaseURL(baseURL string) Option {
	return func(c *Collection) {
		c.baseURL = baseURL
	}
}

// WithBloomFilter installs a probabilistic negative-lookup prefilter in
// front of the static-table probe; the trie walk and the fallback scan
// are not prefiltered. It must never produce a
// false negative for a key actually added to it; a false positive only
// costs a wasted lookup (spec §8's no-false-negative invariant). Pass
// nil to disable prefiltering entirely.
func WithBloomFilter(bloom bloomPrefilter) Option {
	return func(c *Collection) {
		c.bloom = bloom
	}
}
