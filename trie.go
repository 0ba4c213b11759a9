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

import "regexp"

// paramChild is one entry in a trieNode's ordered dynamic-child list.
type paramChild struct {
	name  string
	regex string
	re    *regexp.Regexp
	node  *trieNode
}

// trieNode is one node of the segment-keyed prefix trie. Static children
// are hash-indexed for O(1) lookup; param children are kept in an
// ordered slice and tried in insertion order, which equals descending
// global priority order (spec §4.C).
type trieNode struct {
	staticChildren map[string]*trieNode
	paramChildren  []*paramChild
	terminalRoutes []int // route indices, descending-priority order
}

func newTrieNode() *trieNode {
	return &trieNode{staticChildren: make(map[string]*trieNode)}
}

// insert descends segments starting at depth, creating nodes as needed,
// and appends routeIdx to the terminal node's terminalRoutes.
//
// Two param children with identical (name, regex) are merged: their
// subtrees are unified by recursive insertion into the shared child.
// Sibling param children with different regex are both kept.
func (n *trieNode) insert(segments []Segment, depth int, routeIdx int) {
	if depth == len(segments) {
		n.terminalRoutes = append(n.terminalRoutes, routeIdx)
		return
	}

	seg := segments[depth]
	if seg.Static {
		child, ok := n.staticChildren[seg.Literal]
		if !ok {
			child = newTrieNode()
			n.staticChildren[seg.Literal] = child
		}
		child.insert(segments, depth+1, routeIdx)
		return
	}

	for _, pc := range n.paramChildren {
		if pc.name == seg.Name && pc.regex == seg.Regex {
			pc.node.insert(segments, depth+1, routeIdx)
			return
		}
	}

	re := regexp.MustCompile("^" + seg.Regex + "$")
	child := newTrieNode()
	n.paramChildren = append(n.paramChildren, &paramChild{
		name:  seg.Name,
		regex: seg.Regex,
		re:    re,
		node:  child,
	})
	child.insert(segments, depth+1, routeIdx)
}

// methodsLookup returns the ordered method list for a route index. The
// in-memory Collection backs this with Route.Methods; the compiled
// matcher does not use it and walks its own node type against the
// artifact's method maps.
type methodsLookup func(routeIdx int) []string

// match walks uriSegments depth-first, preferring static children over
// any dynamic sibling regardless of priority (the trie's one documented
// exception to priority ordering, spec §4.C). It returns the
// highest-priority route index matching both the path and method and
// its captured parameters, while unioning every method seen on a
// path-matching-but-method-mismatching terminal into allowed.
func (n *trieNode) match(method string, uriSegments []string, depth int, params map[string]string, allowed map[string]struct{}, methodsOf methodsLookup) (routeIdx int, out map[string]string, hit bool) {
	if depth == len(uriSegments) {
		for _, idx := range n.terminalRoutes {
			methods := methodsOf(idx)
			if containsMethod(methods, method) {
				return idx, params, true
			}
			for _, m := range methods {
				allowed[m] = struct{}{}
			}
		}
		return 0, nil, false
	}

	s := uriSegments[depth]

	if child, ok := n.staticChildren[s]; ok {
		if idx, p, ok := child.match(method, uriSegments, depth+1, params, allowed, methodsOf); ok {
			return idx, p, true
		}
	}

	for _, pc := range n.paramChildren {
		if !pc.re.MatchString(s) {
			continue
		}
		next := cloneParams(params)
		next[pc.name] = s
		if idx, p, ok := pc.node.match(method, uriSegments, depth+1, next, allowed, methodsOf); ok {
			return idx, p, true
		}
	}

	return 0, nil, false
}

func containsMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func cloneParams(params map[string]string) map[string]string {
	next := make(map[string]string, len(params)+1)
	for k, v := range params {
		next[k] = v
	}
	return next
}
