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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouteUppercasesAndDedupesMethods(t *testing.T) {
	t.Parallel()

	r := NewRoute("/users", []string{"get", "GET", "post"}, ClosureHandler("list"))
	assert.Equal(t, []string{"GET", "POST"}, r.Methods())
	assert.True(t, r.AllowsMethod("GET"))
	assert.True(t, r.AllowsMethod("POST"))
	assert.False(t, r.AllowsMethod("DELETE"))
}

func TestRouteCompileIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRoute("/users/{id}", []string{"GET"}, ClosureHandler("show"))
	regex1, err := r.CompiledRegex()
	require.NoError(t, err)
	regex2, err := r.CompiledRegex()
	require.NoError(t, err)
	assert.Equal(t, regex1, regex2)
}

func TestRouteMatch(t *testing.T) {
	t.Parallel()

	r := NewRoute("/users/{id}", []string{"GET"}, ClosureHandler("show"))
	params, ok := r.Match("/users/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	_, ok = r.Match("/users/42/extra")
	assert.False(t, ok)
}

func TestRouteInvalidPatternSurfacesErrInvalidPattern(t *testing.T) {
	t.Parallel()

	r := NewRoute("/users/{id:(}", []string{"GET"}, ClosureHandler("show"))
	_, err := r.CompiledRegex()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPattern))
}

func TestRouteOptions(t *testing.T) {
	t.Parallel()

	r := NewRoute("/users", []string{"GET"}, ClosureHandler("list"),
		WithName("users_list"),
		WithPriority(5),
		WithMiddleware("auth", "logging"),
		WithTags("public"),
	)
	assert.Equal(t, "users_list", r.Name)
	assert.Equal(t, 5, r.Priority)
	assert.Equal(t, []string{"auth", "logging"}, r.Middleware)
	assert.Equal(t, []string{"public"}, r.Tags)
}

func TestIsTrieCompatibleAutoCompiles(t *testing.T) {
	t.Parallel()

	r := NewRoute("/files/{name:.*}", []string{"GET"}, ClosureHandler("download"))
	assert.False(t, r.IsTrieCompatible())
}
