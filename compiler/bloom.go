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
	"github.com/cespare/xxhash/v2"

	"github.com/ascetic-soft/matchcore"
)

// BloomFilter is a probabilistic negative-lookup prefilter that a
// Collection places in front of its static-table probe: a Test miss means the
// key is definitely absent, a Test hit means it might be present (spec
// §8's no-false-negative invariant). It implements matchcore's
// bloomPrefilter interface (Add(string), Test(string) bool).
//
// A single 64-bit xxhash of the key seeds every one of the k probe
// positions, avoiding k separate hash computations per operation.
type BloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

// NewBloomFilter allocates a filter sized for roughly size bits and
// numHashFuncs probes per operation. size must be non-zero and
// numHashFuncs must be positive; callers that want clamped, best-effort
// behavior should clamp before calling.
func NewBloomFilter(size uint64, numHashFuncs int) (*BloomFilter, error) {
	if size == 0 {
		return nil, matchcore.ErrBloomFilterSizeZero
	}
	if numHashFuncs <= 0 {
		return nil, matchcore.ErrBloomHashFunctionsInvalid
	}

	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := range numHashFuncs {
		bf.seeds[i] = uint64(i + 1)
	}
	return bf, nil
}

func (bf *BloomFilter) probe(baseHash, seed uint64) uint64 {
	return (baseHash ^ seed) % bf.size
}

// Add records key as present.
func (bf *BloomFilter) Add(key string) {
	baseHash := xxhash.Sum64String(key)
	for _, seed := range bf.seeds {
		pos := bf.probe(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test reports whether key might be present. A false result is
// authoritative; a true result requires the caller to check the real
// structure.
func (bf *BloomFilter) Test(key string) bool {
	baseHash := xxhash.Sum64String(key)
	for _, seed := range bf.seeds {
		pos := bf.probe(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}
