// Copyright 2025 KrakLabs
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
//
// SPDX-License-Identifier: Apache-2.0

package cache

import "context"

// Cache is the interface the semantic ranker depends on. Implementations
// are best-effort: a miss or a write failure is never fatal, the caller
// simply re-embeds.
type Cache interface {
	// Get returns the cached vector for key, or ok=false on any miss
	// (absent, unreadable, or corrupt entry).
	Get(ctx context.Context, key string) (vec []float32, ok bool)

	// Put stores vec under key. Errors are swallowed by callers; Put
	// itself returns one only so tests can assert on it.
	Put(ctx context.Context, key string, vec []float32) error

	// Close releases any resources held by the cache.
	Close() error
}
