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
	"regexp"
	"strings"
)

// ChunkType enumerates the Chunk.ChunkType values the pipeline produces.
const (
	ChunkTypeFile      = "file"
	ChunkTypeHeader    = "header"
	ChunkTypeFunction  = "function"
	ChunkTypeClass     = "class"
	ChunkTypeStruct    = "struct"
	ChunkTypeInterface = "interface"
	ChunkTypeTrait     = "trait"
	ChunkTypeImpl      = "impl"
	ChunkTypeEnum      = "enum"
	ChunkTypeType      = "type"
	ChunkTypeSection   = "section"
)

// Chunk is a contiguous, semantically meaningful slice of a source file.
type Chunk struct {
	Path      string
	Content   string
	StartLine int // 1-indexed, inclusive
	EndLine   int // 1-indexed, inclusive
	ChunkType string
	Name      string
	Language  string
}

// Header renders the chunk's one-line identification, used by both the
// Markdown and XML renderers.
func (c Chunk) Header() string {
	if c.Name != "" {
		return c.Path + ":L" + itoa(c.StartLine) + "-" + itoa(c.EndLine) + " (" + c.ChunkType + ": " + c.Name + ")"
	}
	return c.Path + ":L" + itoa(c.StartLine) + "-" + itoa(c.EndLine) + " (" + c.ChunkType + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

const (
	maxChunkLines = 200
	minChunkLines = 10
)

// definitionPattern is one named capture-group regex that marks the start
// of a definition, plus the chunk type to use when it matches; the name is
// always taken from capture group 1.
type definitionPattern struct {
	re        *regexp.Regexp
	chunkType string
}

// functionPatterns holds, per language, the ordered list of patterns tried
// against each trimmed line. The first pattern to match wins. Every pattern
// captures the definition name in capture group 1.
var functionPatterns = map[string][]definitionPattern{
	"python": {
		{regexp.MustCompile(`^(?:async\s+)?def\s+(\w+)\s*\(`), ChunkTypeFunction},
		{regexp.MustCompile(`^class\s+(\w+)`), ChunkTypeClass},
	},
	"javascript": {
		{regexp.MustCompile(`^(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(`), ChunkTypeFunction},
		{regexp.MustCompile(`^(?:export\s+)?class\s+(\w+)`), ChunkTypeClass},
		{regexp.MustCompile(`^(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?\(?[^=]*\)?\s*=>`), ChunkTypeFunction},
	},
	"typescript": {
		{regexp.MustCompile(`^(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(`), ChunkTypeFunction},
		{regexp.MustCompile(`^(?:export\s+)?class\s+(\w+)`), ChunkTypeClass},
		{regexp.MustCompile(`^(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?\(?[^=]*\)?\s*=>`), ChunkTypeFunction},
		{regexp.MustCompile(`^(?:export\s+)?interface\s+(\w+)`), ChunkTypeInterface},
		{regexp.MustCompile(`^(?:export\s+)?type\s+(\w+)\s*=`), ChunkTypeType},
	},
	"go": {
		{regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(`), ChunkTypeFunction},
		{regexp.MustCompile(`^type\s+(\w+)\s+struct\b`), ChunkTypeStruct},
		{regexp.MustCompile(`^type\s+(\w+)\s+interface\b`), ChunkTypeInterface},
	},
	"rust": {
		{regexp.MustCompile(`^(?:pub\s+)?(?:async\s+)?fn\s+(\w+)\s*[\(<]`), ChunkTypeFunction},
		{regexp.MustCompile(`^(?:pub\s+)?struct\s+(\w+)`), ChunkTypeStruct},
		{regexp.MustCompile(`^(?:pub\s+)?enum\s+(\w+)`), ChunkTypeEnum},
		{regexp.MustCompile(`^(?:pub\s+)?trait\s+(\w+)`), ChunkTypeTrait},
		{regexp.MustCompile(`^impl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`), ChunkTypeImpl},
	},
}

// ChunkFile splits one file's content into Chunks. Files of maxChunkLines
// lines or fewer become a single whole-file chunk; otherwise the language's
// definition patterns are tried, falling back to fixed-size slicing if the
// language has no patterns or none match.
func ChunkFile(item SourceItem) []Chunk {
	lines := splitLines(item.Content)
	if len(lines) <= maxChunkLines {
		return []Chunk{{
			Path:      item.Path,
			Content:   item.Content,
			StartLine: 1,
			EndLine:   len(lines),
			ChunkType: ChunkTypeFile,
			Language:  item.Language,
		}}
	}

	if item.Language == "go" {
		if chunks, ok := chunkGoWithTreeSitter(item, lines); ok {
			return chunks
		}
	}

	if patterns, ok := functionPatterns[item.Language]; ok {
		if chunks := chunkByDefinitions(item, lines, patterns); len(chunks) > 0 {
			return chunks
		}
	}

	return chunkBySize(item, lines)
}

func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// chunkByDefinitions scans line by line, opening a new chunk whenever a
// pattern matches the trimmed line and closing the previous one. Any lines
// before the first match become a "header" chunk (imports, package
// declaration, module docstring).
func chunkByDefinitions(item SourceItem, lines []string, patterns []definitionPattern) []Chunk {
	type open struct {
		startLine int
		chunkType string
		name      string
	}

	var chunks []Chunk
	var current *open
	var headerEnd int

	flush := func(endLine int) {
		if current == nil {
			return
		}
		content := strings.Join(lines[current.startLine-1:endLine], "\n")
		chunks = append(chunks, Chunk{
			Path:      item.Path,
			Content:   content,
			StartLine: current.startLine,
			EndLine:   endLine,
			ChunkType: current.chunkType,
			Name:      current.name,
			Language:  item.Language,
		})
		current = nil
	}

	matched := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		var hit *definitionPattern
		var name string
		for p := range patterns {
			if m := patterns[p].re.FindStringSubmatch(trimmed); m != nil {
				hit = &patterns[p]
				name = m[1]
				break
			}
		}
		if hit == nil {
			continue
		}
		matched = true
		flush(i) // close previous chunk right before this line
		if current == nil && len(chunks) == 0 {
			headerEnd = i
		}
		current = &open{startLine: i + 1, chunkType: hit.chunkType, name: name}
	}
	flush(len(lines))

	if !matched {
		return nil
	}

	if headerEnd > 0 {
		headerContent := strings.Join(lines[:headerEnd], "\n")
		if strings.TrimSpace(headerContent) != "" {
			header := Chunk{
				Path:      item.Path,
				Content:   headerContent,
				StartLine: 1,
				EndLine:   headerEnd,
				ChunkType: ChunkTypeHeader,
				Language:  item.Language,
			}
			chunks = append([]Chunk{header}, chunks...)
		}
	}

	return chunks
}

// chunkBySize splits content into fixed maxChunkLines-line "section" chunks.
func chunkBySize(item SourceItem, lines []string) []Chunk {
	var chunks []Chunk
	for start := 0; start < len(lines); start += maxChunkLines {
		end := start + maxChunkLines
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, Chunk{
			Path:      item.Path,
			Content:   strings.Join(lines[start:end], "\n"),
			StartLine: start + 1,
			EndLine:   end,
			ChunkType: ChunkTypeSection,
			Language:  item.Language,
		})
	}
	return chunks
}
