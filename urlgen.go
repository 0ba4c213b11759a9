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
	"fmt"
	"net/url"
	"strings"
)

// Generator builds URLs by name, the reverse of Collection.Match. It
// reads a Collection's name index and never mutates it.
type Generator struct {
	collection *Collection
}

// NewGenerator builds a Generator over collection. collection need not
// be frozen yet; URLFor freezes it on first use.
func NewGenerator(collection *Collection) *Generator {
	return &Generator{collection: collection}
}

// URLFor substitutes params into the named route's pattern, percent
// encoding each substituted value per RFC 3986 path-segment rules, and
// appends query as an application/x-www-form-urlencoded query string
// when non-empty. It returns ErrNameNotFound if no route was registered
// under name, and ErrMissingParameters if a required placeholder has no
// corresponding entry in params.
func (g *Generator) URLFor(name string, params map[string]string, query url.Values) (string, error) {
	route, ok := g.collection.FindByName(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}

	path, err := buildPath(route.Pattern, params)
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path, nil
}

// Absolute is URLFor prefixed with the Collection's configured base URL
// (WithBaseURL). It returns ErrBaseURLNotSet if none was configured.
func (g *Generator) Absolute(name string, params map[string]string, query url.Values) (string, error) {
	if g.collection.baseURL == "" {
		return "", ErrBaseURLNotSet
	}
	path, err := g.URLFor(name, params, query)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(g.collection.baseURL, "/") + path, nil
}

// buildPath replaces every placeholder found anywhere in the original
// pattern string — including ones embedded in a mixed-literal segment
// like "prefix-{name}.txt", which parseSegments would classify as a
// single opaque Static segment — with its percent-encoded value from
// params. It first collects every missing name so ErrMissingParameters
// carries the full ordered list, not just the first one found.
func buildPath(pattern string, params map[string]string) (string, error) {
	matches := anyPlaceholderPattern.FindAllStringSubmatchIndex(pattern, -1)
	if len(matches) == 0 {
		return pattern, nil
	}

	var missing []string
	for _, m := range matches {
		name := pattern[m[2]:m[3]]
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingParameters, strings.Join(missing, ", "))
	}

	var buf strings.Builder
	last := 0
	for _, m := range matches {
		buf.WriteString(pattern[last:m[0]])
		name := pattern[m[2]:m[3]]
		buf.WriteString(url.PathEscape(params[name]))
		last = m[1]
	}
	buf.WriteString(pattern[last:])
	return buf.String(), nil
}
