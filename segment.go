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
	"regexp"
	"strings"
)

// defaultParamRegex is substituted for a placeholder written as "{name}"
// with no explicit constraint.
const defaultParamRegex = `[^/]+`

// placeholderPattern recognizes a whole-segment placeholder: "{name}" or
// "{name:regex}". The name must start with a letter or underscore.
var placeholderPattern = regexp.MustCompile(`^\{([A-Za-z_][A-Za-z0-9_]*)(?::(.*))?\}$`)

// anyPlaceholderPattern finds placeholders anywhere within a segment,
// including ones embedded in mixed-literal text like "prefix-{id}.txt".
var anyPlaceholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?::([^{}]*))?\}`)

// Segment is a tagged variant describing one path component between "/"
// separators in a pattern.
//
// Exactly one of the two shapes is populated: a Static segment carries
// Literal, a Param segment carries Name and Regex.
type Segment struct {
	Static bool
	Literal string
	Name   string
	Regex  string
}

// parseSegments strips one leading "/" from pattern and splits the rest
// on "/", classifying each part as Static or Param.
//
// A trailing "/" produces an empty trailing Static{""} segment, which is
// why "/users/" is distinct from "/users".
// Segments is the exported form of parseSegments, used by the compiler
// package to build a serializable artifact from a pattern without
// reaching into this package's internals.
func Segments(pattern string) []Segment {
	return parseSegments(pattern)
}

func parseSegments(pattern string) []Segment {
	trimmed := strings.TrimPrefix(pattern, "/")
	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if m := placeholderPattern.FindStringSubmatch(part); m != nil {
			regex := m[2]
			if regex == "" {
				regex = defaultParamRegex
			}
			segments = append(segments, Segment{Name: m[1], Regex: regex})
			continue
		}
		segments = append(segments, Segment{Static: true, Literal: part})
	}
	return segments
}

// compilePattern replaces every placeholder in pattern (anywhere within a
// segment, including mixed-literal segments) with a named-capture group
// and anchors the result. It returns the anchored regex source and the
// parameter names in pattern order.
//
// This is the only producer of a route's compiled regex and parameter
// name list; Route.compile calls it exactly once.
// CompilePattern is the exported form of compilePattern, for building
// a pattern's anchored regex without any matchcore.Route value.
func CompilePattern(pattern string) (regexSrc string, paramNames []string) {
	return compilePattern(pattern)
}

func compilePattern(pattern string) (regexSrc string, paramNames []string) {
	var buf strings.Builder
	buf.WriteByte('^')

	last := 0
	for _, m := range anyPlaceholderPattern.FindAllStringSubmatchIndex(pattern, -1) {
		buf.WriteString(regexp.QuoteMeta(pattern[last:m[0]]))

		name := pattern[m[2]:m[3]]
		regex := defaultParamRegex
		if m[4] != -1 {
			regex = pattern[m[4]:m[5]]
		}
		paramNames = append(paramNames, name)
		fmt.Fprintf(&buf, "(?P<%s>%s)", name, regex)

		last = m[1]
	}
	buf.WriteString(regexp.QuoteMeta(pattern[last:]))
	buf.WriteByte('$')

	return buf.String(), paramNames
}

// isTrieCompatible reports whether pattern can be expressed entirely as
// static and whole-segment-param trie nodes, with no placeholder regex
// able to match the single character "/".
//
// A mixed-literal segment (e.g. "p-{x}.txt") always returns false. A
// placeholder whose regex fails to compile, or whose compiled regex
// matches "/", also returns false. Route.compile builds the whole-pattern
// regex before consulting this function, so a pattern whose placeholder
// regex is invalid there is rejected with ErrInvalidPattern by
// Collection.Add rather than served via the fallback list.
func isTrieCompatible(pattern string) bool {
	trimmed := strings.TrimPrefix(pattern, "/")
	if trimmed == "" {
		return true
	}

	for _, part := range strings.Split(trimmed, "/") {
		if part == "" {
			continue // empty trailing segment is pure static ("")
		}

		m := placeholderPattern.FindStringSubmatch(part)
		if m == nil {
			// Either pure static, or mixed literal+placeholder.
			if strings.Contains(part, "{") || strings.Contains(part, "}") {
				return false
			}
			continue
		}

		regex := m[2]
		if regex == "" {
			regex = defaultParamRegex
		}
		re, err := regexp.Compile("^" + regex + "$")
		if err != nil {
			return false
		}
		if re.MatchString("/") {
			return false
		}
	}
	return true
}
