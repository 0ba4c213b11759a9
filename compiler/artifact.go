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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ascetic-soft/matchcore"
)

// ArtifactVersion is incremented whenever the Artifact schema changes in
// a way that makes an older artifact unreadable.
const ArtifactVersion = 1

// ArtifactRoute is a route's serializable metadata: everything a loaded
// Matcher needs besides the derived static table, trie, and fallback
// indices, which reference it by position in Artifact.Routes. Keys are
// short per spec §4.E/§6: h (handler), M (method membership map), p
// (pattern), and the optional w (middleware), n (name), P (priority),
// r (compiled regex), N (parameter names), a (argument plan).
type ArtifactRoute struct {
	Handler    matchcore.HandlerRef `json:"h"`
	Methods    map[string]bool      `json:"M"`
	Pattern    string               `json:"p"`
	Middleware []string             `json:"w,omitempty"`
	Name       string               `json:"n,omitempty"`
	Priority   int                  `json:"P,omitempty"`
	Regex      string               `json:"r,omitempty"`
	ParamNames []string             `json:"N,omitempty"`
	ArgPlan    []matchcore.PlanEntry `json:"a,omitempty"`
}

// MethodList returns r's method map as a sorted slice, used wherever an
// ordered view is more convenient than the membership map itself.
func (r ArtifactRoute) MethodList() []string {
	out := make([]string, 0, len(r.Methods))
	for m := range r.Methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// AllowsMethod is an O(1) membership check against r's method map.
func (r ArtifactRoute) AllowsMethod(method string) bool {
	return r.Methods[method]
}

func methodMap(methods []string) map[string]bool {
	out := make(map[string]bool, len(methods))
	for _, m := range methods {
		out[m] = true
	}
	return out
}

// ArtifactParamChild is one dynamic edge of an ArtifactNode, kept in
// priority order like matchcore's internal paramChild.
type ArtifactParamChild struct {
	Name  string        `json:"name"`
	Regex string        `json:"regex"`
	Node  *ArtifactNode `json:"node"`
}

// ArtifactNode mirrors matchcore's internal trieNode as plain,
// JSON-serializable data.
type ArtifactNode struct {
	StaticChildren map[string]*ArtifactNode `json:"static,omitempty"`
	ParamChildren  []ArtifactParamChild      `json:"params,omitempty"`
	TerminalRoutes []int                     `json:"terminal,omitempty"`
}

// Artifact is the compact, versioned snapshot produced by Compile and
// consumed by matchcore/compiled.Matcher.
type Artifact struct {
	Version     int              `json:"version"`
	Routes      []ArtifactRoute  `json:"routes"`
	StaticTable map[string]int   `json:"static_table"`
	Trie        *ArtifactNode    `json:"trie"`
	Fallback    []int            `json:"fallback"`
	NameIndex   map[string]int   `json:"name_index"`
}

// Compile walks collection's routes in the same priority order
// matchcore.Collection itself uses and serializes the static table,
// trie, and fallback list into an Artifact. collection is frozen as a
// side effect (via All) if it was not already.
func Compile(ctx context.Context, collection *matchcore.Collection) (*Artifact, error) {
	routes := collection.All()

	art := &Artifact{
		Version:     ArtifactVersion,
		Routes:      make([]ArtifactRoute, len(routes)),
		StaticTable: make(map[string]int),
		Trie:        newArtifactNode(),
		NameIndex:   make(map[string]int),
	}

	for idx, r := range routes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		regexSrc, err := r.CompiledRegex()
		if err != nil {
			return nil, fmt.Errorf("compiling route %q: %w", r.Pattern, err)
		}
		params, err := r.ParameterNames()
		if err != nil {
			return nil, fmt.Errorf("compiling route %q: %w", r.Pattern, err)
		}

		art.Routes[idx] = ArtifactRoute{
			Handler:    r.Handler,
			Methods:    methodMap(r.Methods()),
			Pattern:    r.Pattern,
			Middleware: r.Middleware,
			Name:       r.Name,
			Priority:   r.Priority,
			Regex:      regexSrc,
			ParamNames: params,
			ArgPlan:    r.ArgPlan,
		}
		if r.Name != "" {
			if _, exists := art.NameIndex[r.Name]; !exists {
				art.NameIndex[r.Name] = idx
			}
		}

		if len(params) == 0 {
			for _, m := range r.Methods() {
				key := m + ":" + r.Pattern
				if _, exists := art.StaticTable[key]; !exists {
					art.StaticTable[key] = idx
				}
			}
			continue
		}

		if r.IsTrieCompatible() {
			insertArtifactNode(art.Trie, matchcore.Segments(r.Pattern), 0, idx)
		} else {
			art.Fallback = append(art.Fallback, idx)
		}
	}

	return art, nil
}

func newArtifactNode() *ArtifactNode {
	return &ArtifactNode{StaticChildren: make(map[string]*ArtifactNode)}
}

func insertArtifactNode(n *ArtifactNode, segments []matchcore.Segment, depth int, routeIdx int) {
	if depth == len(segments) {
		n.TerminalRoutes = append(n.TerminalRoutes, routeIdx)
		return
	}

	seg := segments[depth]
	if seg.Static {
		child, ok := n.StaticChildren[seg.Literal]
		if !ok {
			child = newArtifactNode()
			n.StaticChildren[seg.Literal] = child
		}
		insertArtifactNode(child, segments, depth+1, routeIdx)
		return
	}

	for i := range n.ParamChildren {
		pc := &n.ParamChildren[i]
		if pc.Name == seg.Name && pc.Regex == seg.Regex {
			insertArtifactNode(pc.Node, segments, depth+1, routeIdx)
			return
		}
	}

	child := newArtifactNode()
	n.ParamChildren = append(n.ParamChildren, ArtifactParamChild{Name: seg.Name, Regex: seg.Regex, Node: child})
	insertArtifactNode(child, segments, depth+1, routeIdx)
}

// SaveArtifact writes art to path as indented JSON, via a temp file in
// the same directory followed by an atomic rename, so a concurrent
// reader never observes a partially written artifact.
func SaveArtifact(path string, art *Artifact) error {
	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("compiler: marshal artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("compiler: save artifact: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("compiler: save artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("compiler: save artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates an Artifact written by SaveArtifact,
// rejecting a schema it does not recognize rather than guessing at
// compatibility.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: load artifact: %w", err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: %v", matchcore.ErrInvalidArtifact, err)
	}
	if art.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: %w: artifact version %d, want %d", matchcore.ErrInvalidArtifact, matchcore.ErrArtifactVersionMismatch, art.Version, ArtifactVersion)
	}
	return &art, nil
}
