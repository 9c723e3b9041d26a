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

package ingestion

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsIngestion holds Prometheus metrics for the context-building
// pipeline: one duration histogram per stage, plus counters for the
// embedding cache and the chunks the selector ultimately keeps or drops.
type metricsIngestion struct {
	once sync.Once

	scanDuration      prometheus.Histogram
	chunkDuration     prometheus.Histogram
	analyzeDuration   prometheus.Histogram
	lexicalDuration   prometheus.Histogram
	semanticDuration  prometheus.Histogram
	hybridDuration    prometheus.Histogram
	selectDuration    prometheus.Histogram
	totalDuration     prometheus.Histogram

	filesScanned  prometheus.Counter
	chunksCreated prometheus.Counter

	embedCacheHits   prometheus.Counter
	embedCacheMisses prometheus.Counter
	embedErrors      prometheus.Counter

	chunksSelected prometheus.Counter
	chunksDropped  prometheus.Counter
}

var ingMetrics metricsIngestion

func (m *metricsIngestion) init() {
	m.once.Do(func() {
		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

		m.scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_scan_seconds", Help: "Duration of the repository scan stage", Buckets: buckets})
		m.chunkDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_chunk_seconds", Help: "Duration of the chunking stage", Buckets: buckets})
		m.analyzeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_analyze_seconds", Help: "Duration of dependency graph and importance scoring", Buckets: buckets})
		m.lexicalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_lexical_rank_seconds", Help: "Duration of BM25 lexical ranking", Buckets: buckets})
		m.semanticDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_semantic_rank_seconds", Help: "Duration of embedding-based semantic ranking", Buckets: buckets})
		m.hybridDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_hybrid_combine_seconds", Help: "Duration of combining ranker scores", Buckets: buckets})
		m.selectDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_select_seconds", Help: "Duration of the budgeted chunk selection stage", Buckets: buckets})
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ctxforge_build_seconds", Help: "Total duration of a single Build call", Buckets: buckets})

		m.filesScanned = prometheus.NewCounter(prometheus.CounterOpts{Name: "ctxforge_files_scanned_total", Help: "Files read from the repository"})
		m.chunksCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "ctxforge_chunks_created_total", Help: "Chunks produced by the chunker"})

		m.embedCacheHits = prometheus.NewCounter(prometheus.CounterOpts{Name: "ctxforge_embed_cache_hits_total", Help: "Embedding cache hits"})
		m.embedCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{Name: "ctxforge_embed_cache_misses_total", Help: "Embedding cache misses requiring a provider call"})
		m.embedErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "ctxforge_embed_errors_total", Help: "Embedding provider errors"})

		m.chunksSelected = prometheus.NewCounter(prometheus.CounterOpts{Name: "ctxforge_chunks_selected_total", Help: "Chunks included in the final context"})
		m.chunksDropped = prometheus.NewCounter(prometheus.CounterOpts{Name: "ctxforge_chunks_dropped_total", Help: "Ranked chunks that did not fit the budget"})

		prometheus.MustRegister(
			m.scanDuration, m.chunkDuration, m.analyzeDuration,
			m.lexicalDuration, m.semanticDuration, m.hybridDuration,
			m.selectDuration, m.totalDuration,
			m.filesScanned, m.chunksCreated,
			m.embedCacheHits, m.embedCacheMisses, m.embedErrors,
			m.chunksSelected, m.chunksDropped,
		)
	})
}

func recordEmbedCacheHit()  { ingMetrics.init(); ingMetrics.embedCacheHits.Inc() }
func recordEmbedCacheMiss() { ingMetrics.init(); ingMetrics.embedCacheMisses.Inc() }
func recordEmbedError()     { ingMetrics.init(); ingMetrics.embedErrors.Inc() }

func recordScanDuration(d time.Duration)     { ingMetrics.init(); ingMetrics.scanDuration.Observe(d.Seconds()) }
func recordChunkDuration(d time.Duration)    { ingMetrics.init(); ingMetrics.chunkDuration.Observe(d.Seconds()) }
func recordAnalyzeDuration(d time.Duration)  { ingMetrics.init(); ingMetrics.analyzeDuration.Observe(d.Seconds()) }
func recordLexicalDuration(d time.Duration)  { ingMetrics.init(); ingMetrics.lexicalDuration.Observe(d.Seconds()) }
func recordSemanticDuration(d time.Duration) { ingMetrics.init(); ingMetrics.semanticDuration.Observe(d.Seconds()) }
func recordHybridDuration(d time.Duration)   { ingMetrics.init(); ingMetrics.hybridDuration.Observe(d.Seconds()) }
func recordSelectDuration(d time.Duration)   { ingMetrics.init(); ingMetrics.selectDuration.Observe(d.Seconds()) }
func recordTotalDuration(d time.Duration)    { ingMetrics.init(); ingMetrics.totalDuration.Observe(d.Seconds()) }

func addFilesScanned(n int)   { ingMetrics.init(); ingMetrics.filesScanned.Add(float64(n)) }
func addChunksCreated(n int)  { ingMetrics.init(); ingMetrics.chunksCreated.Add(float64(n)) }
func addChunksSelected(n int) { ingMetrics.init(); ingMetrics.chunksSelected.Add(float64(n)) }
func addChunksDropped(n int)  { ingMetrics.init(); ingMetrics.chunksDropped.Add(float64(n)) }
