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

package compiled

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascetic-soft/matchcore"
	"github.com/ascetic-soft/matchcore/compiler"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()

	c := matchcore.NewCollection()
	require.NoError(t, c.Add(matchcore.NewRoute("/users", []string{"GET", "POST"}, matchcore.ClosureHandler("list"), matchcore.WithName("users_list"))))
	require.NoError(t, c.Add(matchcore.NewRoute("/users/{id}", []string{"GET"}, matchcore.ClosureHandler("show"), matchcore.WithName("users_show"))))
	require.NoError(t, c.Add(matchcore.NewRoute("/users/{id}", []string{"DELETE"}, matchcore.ClosureHandler("destroy"))))
	require.NoError(t, c.Add(matchcore.NewRoute("/files/prefix-{name}.txt", []string{"GET"}, matchcore.ClosureHandler("download"))))

	art, err := compiler.Compile(context.Background(), c)
	require.NoError(t, err)

	m, err := NewMatcher(art)
	require.NoError(t, err)
	return m
}

func TestMatcherStaticHit(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)
	res := m.Match("GET", "/users")
	require.Equal(t, MatchHit, res.Kind)
	assert.Equal(t, "users_list", res.Name)
}

func TestMatcherTrieHit(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)
	res := m.Match("GET", "/users/42")
	require.Equal(t, MatchHit, res.Kind)
	assert.Equal(t, "42", res.Params["id"])
}

func TestMatcherFallbackHit(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)
	res := m.Match("GET", "/files/prefix-report.txt")
	require.Equal(t, MatchHit, res.Kind)
	assert.Equal(t, "report", res.Params["name"])
}

func TestMatcherMethodNotAllowed(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)
	res := m.Match("PATCH", "/users/42")
	require.Equal(t, MatchMethodNotAllowed, res.Kind)
	assert.Equal(t, []string{"DELETE", "GET"}, res.Allowed)
}

func TestMatcherHeadReducesToGet(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)
	res := m.Match("HEAD", "/users")
	require.Equal(t, MatchHit, res.Kind)
}

func TestMatcherNotFound(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)
	res := m.Match("GET", "/nope")
	assert.Equal(t, MatchNotFound, res.Kind)
}

func TestMatcherFindByName(t *testing.T) {
	t.Parallel()

	m := newTestMatcher(t)
	idx, ok := m.FindByName("users_show")
	require.True(t, ok)
	assert.Equal(t, "/users/{id}", m.Pattern(idx))
}

func TestMatcherReproducesCollectionResults(t *testing.T) {
	t.Parallel()

	c := matchcore.NewCollection()
	require.NoError(t, c.Add(matchcore.NewRoute("/a/{x}/b", []string{"GET"}, matchcore.ClosureHandler("h"))))
	art, err := compiler.Compile(context.Background(), c)
	require.NoError(t, err)
	m, err := NewMatcher(art)
	require.NoError(t, err)

	collRes := c.Match("GET", "/a/7/b")
	matcherRes := m.Match("GET", "/a/7/b")
	require.Equal(t, matchcore.MatchHit, collRes.Kind)
	require.Equal(t, MatchHit, matcherRes.Kind)
	assert.Equal(t, collRes.Params, matcherRes.Params)
}
