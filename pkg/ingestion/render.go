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
	"fmt"
	"strings"
)

// Format selects how a ContextResult renders as text.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatXML      Format = "xml"
)

// ContextResult is the final output of Build: the selected chunks plus the
// bookkeeping a caller needs to judge how complete the context is.
type ContextResult struct {
	Query             string
	Chunks            []Chunk
	TotalTokens       int
	Budget            int
	FilesScanned      int
	FilesIncluded     int
	RelatedFilesAdded int
}

// Render formats the result's chunks per format. Unknown formats render as
// Markdown.
func (r ContextResult) Render(format Format) string {
	switch format {
	case FormatXML:
		return r.renderXML()
	default:
		return r.renderMarkdown()
	}
}

func (r ContextResult) renderMarkdown() string {
	parts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		parts[i] = fmt.Sprintf("## %s\n\n```%s\n%s\n```", c.Header(), c.Language, c.Content)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func (r ContextResult) renderXML() string {
	parts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		name := c.Name
		parts[i] = fmt.Sprintf(
			"<file path=%q name=%q type=%q lines=\"%d-%d\" language=%q>\n%s\n</file>",
			c.Path, name, c.ChunkType, c.StartLine, c.EndLine, c.Language, c.Content,
		)
	}
	return strings.Join(parts, "\n\n")
}
