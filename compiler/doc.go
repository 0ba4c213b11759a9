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

// Package compiler turns a frozen matchcore.Collection into a compact,
// versioned Artifact: a self-describing snapshot of the static table,
// the trie, and the fallback list that a matchcore/compiled.Matcher can
// load without reconstructing any heap-resident trie nodes.
//
// # Compilation
//
// Compile walks a Collection's routes in the same priority order the
// Collection itself uses, and serializes three structures:
//
//   - StaticTable: "METHOD:pattern" -> route index, for the zero-param
//     fast path.
//   - Trie: a plain tree of ArtifactNode values mirroring matchcore's
//     internal trieNode, with static children keyed by literal and
//     param children kept in priority order.
//   - Fallback: route indices for patterns the trie cannot express.
//
// # Bloom Filter
//
// BloomFilter provides a probabilistic negative-lookup prefilter ahead
// of a Collection's static-table probe. A Test miss is authoritative;
// a Test hit requires the caller to check the real structure. It never
// produces a false negative for a key it was given via Add.
//
// # Persistence
//
// Artifacts are written to disk as JSON via SaveArtifact, using a
// temp-file-then-rename sequence so a reader never observes a partially
// written file, and loaded back with LoadArtifact, which rejects a
// version mismatch rather than guessing at a schema.
package compiler
