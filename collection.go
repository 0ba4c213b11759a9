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

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// MatchKind tags the three possible dispatch outcomes (spec §6).
type MatchKind uint8

const (
	MatchHit MatchKind = iota
	MatchMethodNotAllowed
	MatchNotFound
)

// MatchResult is the result of Collection.Match.
type MatchResult struct {
	Kind       MatchKind
	Route      *Route
	RouteIndex int
	Params     map[string]string
	Allowed    []string // sorted, set only when Kind == MatchMethodNotAllowed
}

// Collection owns the ordered set of Route records and the derived
// structures built from them: the static table, the trie, the fallback
// list, and the name index. Routes are frozen, and derived structures
// built, on first call to Match, FindByName, or an explicit Freeze — per
// spec §9's design note, this replaces the lazily-cached-everywhere
// pattern with a single one-shot build.
type Collection struct {
	mu     sync.Mutex
	routes []*Route

	freezeOnce sync.Once
	sorted     []*Route // routes sorted by descending priority, stable

	staticTable map[string]int // "METHOD:pattern" -> index into sorted
	trie        *trieNode
	fallback    []int // indices into sorted
	nameIndex   map[string]int

	logger      *slog.Logger
	diagnostics DiagnosticHandler
	baseURL     string
	bloom       bloomPrefilter
}

// bloomPrefilter is satisfied by *compiler.BloomFilter without this
// package importing the compiler package (which itself may want to
// import matchcore-shaped types); see WithBloomFilter.
type bloomPrefilter interface {
	Add(key string)
	Test(key string) bool
}

// NewCollection builds an empty Collection. Construction cannot fail —
// no I/O, no external resource — matching the teacher's documented
// constructor discipline (doc.go's "Constructor Pattern" note).
func NewCollection(opts ...Option) *Collection {
	c := &Collection{logger: noopLogger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends route to the collection. It compiles the route's regex
// eagerly and returns ErrInvalidPattern, without adding the route, when
// the pattern does not compile, so that spec §7's "surfaced on add;
// never at match time" holds.
func (c *Collection) Add(route *Route) error {
	if err := route.compile(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, route)
	c.invalidateLocked()

	c.logger.Debug("route added", "pattern", route.Pattern, "methods", route.Methods(), "name", route.Name)
	return nil
}

func (c *Collection) invalidateLocked() {
	c.freezeOnce = sync.Once{}
	c.sorted = nil
	c.staticTable = nil
	c.trie = nil
	c.fallback = nil
	c.nameIndex = nil
}

// All returns routes sorted by descending priority, ties broken by
// registration order (stable).
func (c *Collection) All() []*Route {
	c.freeze()
	out := make([]*Route, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// Freeze builds the derived structures if they are not already built.
// It is safe to call concurrently and safe to call redundantly; once
// built, the Collection is read-only and safe for unsynchronized
// concurrent readers (spec §5).
func (c *Collection) Freeze() {
	c.freeze()
}

func (c *Collection) freeze() {
	c.freezeOnce.Do(func() {
		c.mu.Lock()
		routes := append([]*Route(nil), c.routes...)
		c.mu.Unlock()

		sorted := make([]*Route, len(routes))
		copy(sorted, routes)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority > sorted[j].Priority
		})
		c.sorted = sorted

		staticTable := make(map[string]int)
		nameIndex := make(map[string]int)
		trie := newTrieNode()
		var fallback []int

		for idx, r := range sorted {
			if r.Name != "" {
				if _, exists := nameIndex[r.Name]; !exists {
					nameIndex[r.Name] = idx
				}
			}

			params, _ := r.ParameterNames()
			if len(params) == 0 {
				for _, m := range r.Methods() {
					key := m + ":" + r.Pattern
					if _, exists := staticTable[key]; !exists {
						staticTable[key] = idx
					}
				}
				if c.bloom != nil {
					for _, m := range r.Methods() {
						c.bloom.Add(m + ":" + r.Pattern)
					}
				}
				continue
			}

			if r.IsTrieCompatible() {
				trie.insert(parseSegments(r.Pattern), 0, idx)
			} else {
				fallback = append(fallback, idx)
			}
		}

		c.staticTable = staticTable
		c.trie = trie
		c.fallback = fallback
		c.nameIndex = nameIndex
	})
}

// FindByName looks up a route by its registered name in O(1).
func (c *Collection) FindByName(name string) (*Route, bool) {
	c.freeze()
	idx, ok := c.nameIndex[name]
	if !ok {
		return nil, false
	}
	return c.sorted[idx], true
}

// splitURI implements spec §3's split(): split("/") == [], split("/a/b/")
// == ["a", "b", ""].
func splitURI(uri string) []string {
	trimmed := strings.TrimPrefix(uri, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Match implements the central dispatch algorithm of spec §4.D: static
// table, then trie, then fallback list, then HEAD→GET reduction.
func (c *Collection) Match(method, uri string) MatchResult {
	c.freeze()
	method = strings.ToUpper(method)

	if res, ok := c.matchOnce(method, uri); ok {
		return res
	}

	if method == "HEAD" {
		if res, ok := c.matchOnce("GET", uri); ok {
			res.Kind = MatchHit
			return res
		}
	}

	allowed := c.collectAllowed(uri)
	if len(allowed) > 0 {
		return MatchResult{Kind: MatchMethodNotAllowed, Allowed: sortedKeys(allowed)}
	}
	return MatchResult{Kind: MatchNotFound}
}

// matchOnce runs one full static/trie/fallback pass for method+uri and
// reports whether a hit was found.
func (c *Collection) matchOnce(method, uri string) (MatchResult, bool) {
	if c.bloom == nil || c.bloom.Test(method+":"+uri) {
		if idx, ok := c.staticTable[method+":"+uri]; ok {
			return MatchResult{Kind: MatchHit, Route: c.sorted[idx], RouteIndex: idx, Params: map[string]string{}}, true
		}
	}

	segments := splitURI(uri)
	allowed := make(map[string]struct{})
	if idx, params, ok := c.trie.match(method, segments, 0, map[string]string{}, allowed, c.methodsOf); ok {
		return MatchResult{Kind: MatchHit, Route: c.sorted[idx], RouteIndex: idx, Params: params}, true
	}

	for _, idx := range c.fallback {
		r := c.sorted[idx]
		params, matched := r.Match(uri)
		if !matched {
			continue
		}
		if r.AllowsMethod(method) {
			return MatchResult{Kind: MatchHit, Route: r, RouteIndex: idx, Params: params}, true
		}
	}

	return MatchResult{}, false
}

// noSuchMethod is passed to trieNode.match when the caller wants a full,
// non-short-circuited traversal purely to accumulate allowed methods: no
// registered route is ever allowed to use an empty method string (spec
// §3: methods are non-empty), so this sentinel can never produce a hit.
const noSuchMethod = ""

// collectAllowed re-runs the trie and fallback passes purely to gather
// the union of methods allowed for uri. The traversal shape depends only
// on uri, not on any particular requested method, so this is safe to
// call once regardless of which method the caller ultimately failed to
// match (including both the original method and its HEAD→GET reduction
// partner).
func (c *Collection) collectAllowed(uri string) map[string]struct{} {
	allowed := make(map[string]struct{})

	segments := splitURI(uri)
	c.trie.match(noSuchMethod, segments, 0, map[string]string{}, allowed, c.methodsOf)

	for _, idx := range c.fallback {
		r := c.sorted[idx]
		if _, matched := r.Match(uri); matched {
			for _, m := range r.Methods() {
				allowed[m] = struct{}{}
			}
		}
	}

	for key, idx := range c.staticTable {
		sep := strings.IndexByte(key, ':')
		if sep < 0 || key[sep+1:] != uri {
			continue
		}
		for _, m := range c.sorted[idx].Methods() {
			allowed[m] = struct{}{}
		}
	}

	return allowed
}

func (c *Collection) methodsOf(routeIdx int) []string {
	return c.sorted[routeIdx].Methods()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
