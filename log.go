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
	"io"
	"log/slog"
)

// noopLogger is the singleton default logger used when no logger is
// configured via WithLogger. It discards everything, so Collection
// construction and route registration never fail or block on
// observability being wired up.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
