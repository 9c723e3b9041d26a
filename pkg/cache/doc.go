// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides the embedding cache the semantic ranker reads
// and writes through. The cache is content-addressed: callers derive the
// key from the embedded text (see ingestion's content hashing) so the same
// chunk across runs, or across files with identical bodies, never pays
// the embedding cost twice.
//
// # Quick Start
//
//	c, err := cache.NewFileCache(cache.FileCacheConfig{
//	    ProjectID: "myrepo",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if vec, ok := c.Get(ctx, key); ok {
//	    return vec
//	}
//	vec := embed(text)
//	_ = c.Put(ctx, key, vec) // best-effort; miss next time is fine
//
// # Configuration
//
// FileCacheConfig controls where entries are stored:
//
//	config := cache.FileCacheConfig{
//	    DataDir:   "/path/to/cache",   // overrides the OS cache dir
//	    ProjectID: "myrepo",           // used only when DataDir is empty
//	}
//
// Default DataDir is ~/.cache/ctxforge/embeddings/<project_id>.
//
// # Thread Safety
//
// FileCache is safe for concurrent use: an in-process RWMutex guards the
// memo map that shadows the on-disk files. A key read from disk or Put once
// is served from the memo for the rest of the run; a miss is not memoized
// and is looked up on disk again each time.
package cache
