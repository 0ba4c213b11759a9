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

import "errors"

// Static errors for better error handling and testing.
// These errors should be wrapped with fmt.Errorf and %w when context is needed.
var (
	// Pattern and route errors
	ErrInvalidPattern = errors.New("matchcore: invalid route pattern")
	ErrRouteNotFound  = errors.New("matchcore: route not found")

	// URL generation errors
	ErrNameNotFound      = errors.New("matchcore: route name not found")
	ErrMissingParameters = errors.New("matchcore: missing required parameters")
	ErrBaseURLNotSet     = errors.New("matchcore: base URL not configured")

	// Compiled artifact errors
	ErrInvalidArtifact         = errors.New("matchcore: invalid compiled artifact")
	ErrArtifactVersionMismatch = errors.New("matchcore: compiled artifact version mismatch")

	// Configuration errors
	ErrBloomFilterSizeZero       = errors.New("matchcore: bloom filter size must be non-zero")
	ErrBloomHashFunctionsInvalid = errors.New("matchcore: bloom hash functions must be positive")
)
