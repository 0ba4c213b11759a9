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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascetic-soft/matchcore"
)

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	t.Parallel()

	bf, err := NewBloomFilter(256, 3)
	require.NoError(t, err)
	keys := []string{"GET:/users", "GET:/posts", "POST:/users", "DELETE:/users/{id}"}
	for _, k := range keys {
		bf.Add(k)
	}
	for _, k := range keys {
		assert.True(t, bf.Test(k), "added key must never test negative: %s", k)
	}
}

func TestBloomFilterRejectsAbsentKey(t *testing.T) {
	t.Parallel()

	bf, err := NewBloomFilter(1024, 4)
	require.NoError(t, err)
	bf.Add("GET:/users")
	assert.False(t, bf.Test("GET:/completely-unrelated-path"))
}

func TestNewBloomFilterRejectsZeroSize(t *testing.T) {
	t.Parallel()

	_, err := NewBloomFilter(0, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, matchcore.ErrBloomFilterSizeZero)
}

func TestNewBloomFilterRejectsInvalidHashFuncs(t *testing.T) {
	t.Parallel()

	_, err := NewBloomFilter(64, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, matchcore.ErrBloomHashFunctionsInvalid)

	_, err = NewBloomFilter(64, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, matchcore.ErrBloomHashFunctionsInvalid)
}
