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
	"path"
	"regexp"
	"strings"
)

// highImportancePatterns match basenames (including extension) that mark an
// entry point or top-level manifest regardless of directory.
var highImportancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^main\.(go|py|js|ts|rs|java)$`),
	regexp.MustCompile(`^app\.(py|js|ts)$`),
	regexp.MustCompile(`^index\.(js|ts)$`),
	regexp.MustCompile(`^server\.(go|py|js|ts)$`),
	regexp.MustCompile(`^cli\.(py|js|ts)$`),
	regexp.MustCompile(`^README(\.md)?$`),
	regexp.MustCompile(`^(package\.json|go\.mod|Cargo\.toml|pyproject\.toml|setup\.py)$`),
}

var importantDirs = map[string]bool{
	"src": true, "lib": true, "core": true, "api": true, "app": true, "server": true,
}

var lowImportanceDirs = map[string]bool{
	"test": true, "tests": true, "spec": true, "specs": true,
	"examples": true, "example": true, "samples": true, "sample": true,
	"docs": true, "doc": true, "scripts": true, "tools": true, "utils": true,
	"vendor": true, "migrations": true, "fixtures": true,
}

// ComputeFileImportance scores a path's structural importance in [0, 1]
// from its name and directory position alone, independent of any query.
func ComputeFileImportance(filePath string) float64 {
	score := 0.5
	base := path.Base(filePath)
	dir := path.Dir(filePath)
	segments := strings.Split(dir, "/")
	depth := len(segments)

	for _, re := range highImportancePatterns {
		if re.MatchString(base) {
			score += 0.3
			break
		}
	}

	lowerBase := strings.ToLower(base)
	if strings.HasPrefix(lowerBase, "main") || strings.HasPrefix(lowerBase, "app") || strings.HasPrefix(lowerBase, "index") {
		score += 0.15
	}

	if depth <= 3 && isPackageInitializer(base) {
		score += 0.1
	}

	for _, seg := range segments {
		if importantDirs[seg] {
			score += 0.1
			break
		}
		if lowImportanceDirs[seg] {
			score -= 0.2
			break
		}
	}

	if depth > 5 {
		score -= 0.1 * float64(depth-5)
	}

	if isAuxiliaryConfig(lowerBase) {
		score -= 0.1
	}

	return clamp01(score)
}

var whitelistedConfigs = map[string]bool{
	"package.json": true, "tsconfig.json": true, "pyproject.toml": true,
}

// isAuxiliaryConfig reports whether lowerBase is a JSON/YAML settings
// document that isn't one of the project-manifest files tracked separately
// by whitelistedConfigs.
func isAuxiliaryConfig(lowerBase string) bool {
	if whitelistedConfigs[lowerBase] {
		return false
	}
	return strings.HasSuffix(lowerBase, ".json") ||
		strings.HasSuffix(lowerBase, ".yaml") ||
		strings.HasSuffix(lowerBase, ".yml")
}

var packageInitializers = map[string]bool{
	"__init__.py": true, "index.ts": true, "index.js": true, "mod.rs": true, "lib.rs": true,
}

func isPackageInitializer(base string) bool {
	return packageInitializers[base]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeCentrality measures how structurally connected filePath is within
// graph: (2*incoming + outgoing) / (3*totalFiles), clamped to 1.0. Returns 0
// if filePath has no edges at all.
func ComputeCentrality(filePath string, graph *DependencyGraph, totalFiles int) float64 {
	if totalFiles == 0 {
		return 0
	}
	outgoing := len(graph.Forward[filePath])
	incoming := len(graph.Reverse()[filePath])
	if incoming == 0 && outgoing == 0 {
		return 0
	}
	score := float64(2*incoming+outgoing) / (3 * float64(totalFiles))
	if score > 1 {
		return 1
	}
	return score
}

// ComputeImportance blends structural importance and graph centrality into
// the final, query-independent file importance score.
func ComputeImportance(filePath string, graph *DependencyGraph, totalFiles int) float64 {
	return 0.7*ComputeFileImportance(filePath) + 0.3*ComputeCentrality(filePath, graph, totalFiles)
}
