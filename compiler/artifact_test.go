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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascetic-soft/matchcore"
)

func buildTestCollection(t *testing.T) *matchcore.Collection {
	t.Helper()
	c := matchcore.NewCollection()
	require.NoError(t, c.Add(matchcore.NewRoute("/users", []string{"GET"}, matchcore.ClosureHandler("list"), matchcore.WithName("users_list"))))
	require.NoError(t, c.Add(matchcore.NewRoute("/users/{id}", []string{"GET"}, matchcore.ClosureHandler("show"), matchcore.WithName("users_show"))))
	require.NoError(t, c.Add(matchcore.NewRoute("/files/prefix-{name}.txt", []string{"GET"}, matchcore.ClosureHandler("download"))))
	return c
}

func TestCompile(t *testing.T) {
	t.Parallel()

	c := buildTestCollection(t)
	art, err := Compile(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, ArtifactVersion, art.Version)
	assert.Len(t, art.Routes, 3)
	assert.Contains(t, art.StaticTable, "GET:/users")
	assert.Len(t, art.Fallback, 1)
	assert.Equal(t, 0, art.NameIndex["users_list"])
	assert.Equal(t, 1, art.NameIndex["users_show"])

	require.NotNil(t, art.Trie.StaticChildren["users"])
	require.Len(t, art.Trie.StaticChildren["users"].ParamChildren, 1)

	usersList := art.Routes[art.NameIndex["users_list"]]
	assert.Equal(t, matchcore.ClosureHandler("list"), usersList.Handler)
	assert.Equal(t, map[string]bool{"GET": true}, usersList.Methods)
	assert.NotEmpty(t, usersList.Regex)
}

func TestCompilePropagatesArgPlan(t *testing.T) {
	t.Parallel()

	c := matchcore.NewCollection()
	plan := []matchcore.PlanEntry{{Source: matchcore.PlanSourceParam, Name: "id", Cast: matchcore.PlanCastInt}}
	require.NoError(t, c.Add(matchcore.NewRoute("/users/{id}", []string{"GET"}, matchcore.ClosureHandler("show"), matchcore.WithArgPlan(plan...))))

	art, err := Compile(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, art.Routes, 1)
	assert.Equal(t, plan, art.Routes[0].ArgPlan)
}

func TestCompileContextCancelled(t *testing.T) {
	t.Parallel()

	c := buildTestCollection(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compile(ctx, c)
	require.Error(t, err)
}

func TestSaveAndLoadArtifact(t *testing.T) {
	t.Parallel()

	c := buildTestCollection(t)
	art, err := Compile(context.Background(), c)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "routes.artifact.json")
	require.NoError(t, SaveArtifact(path, art))

	loaded, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, art.Version, loaded.Version)
	assert.Equal(t, art.StaticTable, loaded.StaticTable)
	assert.Equal(t, len(art.Routes), len(loaded.Routes))
}

func TestLoadArtifactVersionMismatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.artifact.json")
	require.NoError(t, SaveArtifact(path, &Artifact{Version: 999, StaticTable: map[string]int{}, Trie: newArtifactNode(), NameIndex: map[string]int{}}))

	_, err := LoadArtifact(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, matchcore.ErrArtifactVersionMismatch)
}

func TestLoadArtifactInvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.artifact.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadArtifact(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, matchcore.ErrInvalidArtifact)
}
