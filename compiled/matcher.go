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

// Package compiled implements the Compiled Matcher: a reader of a
// compiler.Artifact that reproduces matchcore.Collection's dispatch
// algorithm over plain nested data, without reconstructing any
// heap-resident trie node or Route object.
package compiled

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ascetic-soft/matchcore"
	"github.com/ascetic-soft/matchcore/compiler"
)

// MatchKind mirrors matchcore.MatchKind.
type MatchKind = matchcore.MatchKind

const (
	MatchHit             = matchcore.MatchHit
	MatchMethodNotAllowed = matchcore.MatchMethodNotAllowed
	MatchNotFound         = matchcore.MatchNotFound
)

// MatchResult is the result of Matcher.Match.
type MatchResult struct {
	Kind       MatchKind
	RouteIndex int
	Pattern    string
	Name       string
	Params     map[string]string
	Allowed    []string
}

type fallbackRoute struct {
	idx     int
	regex   *regexp.Regexp
	names   []string
	methods map[string]bool
}

// compiledNode mirrors compiler.ArtifactNode but with each param
// child's regex pre-compiled once, so Match never calls regexp.Compile.
type compiledNode struct {
	staticChildren map[string]*compiledNode
	paramChildren  []compiledParamChild
	terminalRoutes []int
}

type compiledParamChild struct {
	name string
	re   *regexp.Regexp
	node *compiledNode
}

// Matcher is an immutable, concurrency-safe reader over one
// compiler.Artifact. NewMatcher does all the work of rebuilding
// regexes; Match itself is pure, CPU-bound lookup with no I/O and no
// regex compilation.
type Matcher struct {
	art       *compiler.Artifact
	trie      *compiledNode
	fallback  []fallbackRoute
	methodsOf []map[string]bool
}

// NewMatcher prepares art for matching, recompiling every regex once up
// front so Match never compiles a pattern on the hot path. Regex source
// is read from each ArtifactRoute's precomputed r field rather than
// being re-derived from the pattern, since compiler.Compile already
// anchored and captured it once.
func NewMatcher(art *compiler.Artifact) (*Matcher, error) {
	m := &Matcher{
		art:       art,
		methodsOf: make([]map[string]bool, len(art.Routes)),
	}
	for i, r := range art.Routes {
		m.methodsOf[i] = r.Methods
	}

	trie, err := buildCompiledNode(art.Trie)
	if err != nil {
		return nil, err
	}
	m.trie = trie

	for _, idx := range art.Fallback {
		r := art.Routes[idx]
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return nil, err
		}
		m.fallback = append(m.fallback, fallbackRoute{idx: idx, regex: re, names: r.ParamNames, methods: r.Methods})
	}

	return m, nil
}

func buildCompiledNode(n *compiler.ArtifactNode) (*compiledNode, error) {
	if n == nil {
		return &compiledNode{staticChildren: map[string]*compiledNode{}}, nil
	}

	out := &compiledNode{
		staticChildren: make(map[string]*compiledNode, len(n.StaticChildren)),
		terminalRoutes: n.TerminalRoutes,
	}
	for lit, child := range n.StaticChildren {
		built, err := buildCompiledNode(child)
		if err != nil {
			return nil, err
		}
		out.staticChildren[lit] = built
	}
	for _, pc := range n.ParamChildren {
		re, err := regexp.Compile("^" + pc.Regex + "$")
		if err != nil {
			return nil, err
		}
		child, err := buildCompiledNode(pc.Node)
		if err != nil {
			return nil, err
		}
		out.paramChildren = append(out.paramChildren, compiledParamChild{name: pc.Name, re: re, node: child})
	}
	return out, nil
}

// FindByName looks up a route's artifact index by its registered name.
func (m *Matcher) FindByName(name string) (int, bool) {
	idx, ok := m.art.NameIndex[name]
	return idx, ok
}

// Pattern returns the pattern stored for a route index.
func (m *Matcher) Pattern(routeIdx int) string {
	return m.art.Routes[routeIdx].Pattern
}

// Match reproduces Collection.Match's dispatch order — static table,
// trie, fallback scan, then HEAD→GET reduction — over the artifact's
// plain data.
func (m *Matcher) Match(method, uri string) MatchResult {
	method = strings.ToUpper(method)

	if res, ok := m.matchOnce(method, uri); ok {
		return res
	}

	if method == "HEAD" {
		if res, ok := m.matchOnce("GET", uri); ok {
			res.Kind = MatchHit
			return res
		}
	}

	allowed := m.collectAllowed(uri)
	if len(allowed) > 0 {
		return MatchResult{Kind: MatchMethodNotAllowed, Allowed: sortedAllowed(allowed)}
	}
	return MatchResult{Kind: MatchNotFound}
}

func (m *Matcher) matchOnce(method, uri string) (MatchResult, bool) {
	if idx, ok := m.art.StaticTable[method+":"+uri]; ok {
		return m.result(idx, map[string]string{}), true
	}

	segments := splitURI(uri)
	allowed := make(map[string]struct{})
	if idx, params, ok := matchNode(m.trie, method, segments, 0, map[string]string{}, allowed, m.methodsOf); ok {
		return m.result(idx, params), true
	}

	for _, f := range m.fallback {
		sub := f.regex.FindStringSubmatch(uri)
		if sub == nil {
			continue
		}
		if !f.methods[method] {
			continue
		}
		params := make(map[string]string, len(f.names))
		for _, name := range f.names {
			if i := f.regex.SubexpIndex(name); i >= 0 && i < len(sub) {
				params[name] = sub[i]
			}
		}
		return m.result(f.idx, params), true
	}

	return MatchResult{}, false
}

func (m *Matcher) result(idx int, params map[string]string) MatchResult {
	r := m.art.Routes[idx]
	return MatchResult{Kind: MatchHit, RouteIndex: idx, Pattern: r.Pattern, Name: r.Name, Params: params}
}

const noSuchMethod = ""

func (m *Matcher) collectAllowed(uri string) map[string]struct{} {
	allowed := make(map[string]struct{})

	segments := splitURI(uri)
	matchNode(m.trie, noSuchMethod, segments, 0, map[string]string{}, allowed, m.methodsOf)

	for _, f := range m.fallback {
		if f.regex.MatchString(uri) {
			for meth := range f.methods {
				allowed[meth] = struct{}{}
			}
		}
	}

	for key, idx := range m.art.StaticTable {
		sep := strings.IndexByte(key, ':')
		if sep < 0 || key[sep+1:] != uri {
			continue
		}
		for meth := range m.art.Routes[idx].Methods {
			allowed[meth] = struct{}{}
		}
	}

	return allowed
}

func matchNode(n *compiledNode, method string, uriSegments []string, depth int, params map[string]string, allowed map[string]struct{}, methodsOf []map[string]bool) (routeIdx int, out map[string]string, hit bool) {
	if depth == len(uriSegments) {
		for _, idx := range n.terminalRoutes {
			methods := methodsOf[idx]
			if methods[method] {
				return idx, params, true
			}
			for meth := range methods {
				allowed[meth] = struct{}{}
			}
		}
		return 0, nil, false
	}

	s := uriSegments[depth]

	if child, ok := n.staticChildren[s]; ok {
		if idx, p, ok := matchNode(child, method, uriSegments, depth+1, params, allowed, methodsOf); ok {
			return idx, p, true
		}
	}

	for _, pc := range n.paramChildren {
		if !pc.re.MatchString(s) {
			continue
		}
		next := cloneParams(params)
		next[pc.name] = s
		if idx, p, ok := matchNode(pc.node, method, uriSegments, depth+1, next, allowed, methodsOf); ok {
			return idx, p, true
		}
	}

	return 0, nil, false
}

func splitURI(uri string) []string {
	trimmed := strings.TrimPrefix(uri, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func cloneParams(params map[string]string) map[string]string {
	next := make(map[string]string, len(params)+1)
	for k, v := range params {
		next[k] = v
	}
	return next
}

func sortedAllowed(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
