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
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// chunkGoWithTreeSitter chunks a Go file at exact AST node boundaries,
// walking function_declaration, method_declaration, and type_declaration
// nodes. Returns ok=false on any parse error, in which case the caller
// falls back to the regex definition-pattern strategy.
func chunkGoWithTreeSitter(item SourceItem, lines []string) ([]Chunk, bool) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	content := []byte(item.Content)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, false
	}

	type def struct {
		startLine int // 1-indexed
		endLine   int
		chunkType string
		name      string
	}
	var defs []def

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "function_declaration":
			if name := fieldText(n, "name", content); name != "" {
				defs = append(defs, def{
					startLine: int(n.StartPoint().Row) + 1,
					endLine:   int(n.EndPoint().Row) + 1,
					chunkType: ChunkTypeFunction,
					name:      name,
				})
			}
		case "method_declaration":
			if name := fieldText(n, "name", content); name != "" {
				defs = append(defs, def{
					startLine: int(n.StartPoint().Row) + 1,
					endLine:   int(n.EndPoint().Row) + 1,
					chunkType: ChunkTypeFunction,
					name:      name,
				})
			}
		case "type_declaration":
			for i := 0; i < int(n.ChildCount()); i++ {
				spec := n.Child(i)
				if spec == nil || spec.Type() != "type_spec" {
					continue
				}
				name := fieldText(spec, "name", content)
				if name == "" {
					continue
				}
				chunkType := ChunkTypeType
				if typeNode := spec.ChildByFieldName("type"); typeNode != nil {
					switch typeNode.Type() {
					case "struct_type":
						chunkType = ChunkTypeStruct
					case "interface_type":
						chunkType = ChunkTypeInterface
					}
				}
				defs = append(defs, def{
					startLine: int(n.StartPoint().Row) + 1,
					endLine:   int(n.EndPoint().Row) + 1,
					chunkType: chunkType,
					name:      name,
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	if len(defs) == 0 {
		return nil, false
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].startLine < defs[j].startLine })

	var chunks []Chunk
	headerEnd := defs[0].startLine - 1
	if headerEnd > 0 {
		headerContent := strings.Join(lines[:headerEnd], "\n")
		if strings.TrimSpace(headerContent) != "" {
			chunks = append(chunks, Chunk{
				Path:      item.Path,
				Content:   headerContent,
				StartLine: 1,
				EndLine:   headerEnd,
				ChunkType: ChunkTypeHeader,
				Language:  item.Language,
			})
		}
	}

	for i, d := range defs {
		end := len(lines)
		if i+1 < len(defs) {
			end = defs[i+1].startLine - 1
		}
		if end < d.endLine {
			end = d.endLine
		}
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, Chunk{
			Path:      item.Path,
			Content:   strings.Join(lines[d.startLine-1:end], "\n"),
			StartLine: d.startLine,
			EndLine:   end,
			ChunkType: d.chunkType,
			Name:      d.name,
			Language:  item.Language,
		})
	}

	return chunks, true
}

func fieldText(n *sitter.Node, field string, content []byte) string {
	f := n.ChildByFieldName(field)
	if f == nil {
		return ""
	}
	return string(content[f.StartByte():f.EndByte()])
}
