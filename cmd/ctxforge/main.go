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

// Package main implements the ctxforge CLI: a single `query` command that
// builds a token-bounded, query-relevant context bundle from a repository
// and prints it to stdout.
//
// Usage:
//
//	ctxforge query --path . --query "how does retry work" --budget 8000
//	ctxforge query . "how does retry work" --hybrid --format xml
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kraklabs/ctxforge/internal/bootstrap"
	"github.com/kraklabs/ctxforge/internal/config"
	"github.com/kraklabs/ctxforge/internal/contract"
	"github.com/kraklabs/ctxforge/internal/errors"
	"github.com/kraklabs/ctxforge/internal/output"
	"github.com/kraklabs/ctxforge/internal/ui"
	"github.com/kraklabs/ctxforge/pkg/ingestion"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(int(errors.ExitInvalidInput))
	}

	switch os.Args[1] {
	case "-v", "--version", "version":
		fmt.Printf("ctxforge version %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		return
	case "-h", "--help", "help":
		usage()
		return
	case "query":
		runQuery(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(int(errors.ExitInvalidInput))
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `ctxforge - token-bounded, query-relevant code context for LLMs

Usage:
  ctxforge query [path] [query] [options]

Options:
  --path string           Repository path or git URL (default ".")
  --query string          What you're looking for (or pass as positional arg)
  --budget int            Token budget for the returned context (default 8000)
  --include strings       Glob patterns to include
  --exclude strings       Glob patterns to exclude
  --follow-imports        Expand selection to related files via import graph
  --import-depth int      Max hops when following imports (default 2)
  --hybrid                Combine lexical and semantic ranking
  --smart-rerank          Rerank top candidates with an LLM
  --hyde                  Expand the query with a hypothetical-answer embedding
  --format string         Context render format: markdown|xml|json (default "markdown")
  --no-color              Disable colored diagnostic output
  --json                  Emit diagnostics/errors as a JSON envelope
  --config string         YAML file of flag defaults (explicit flags still win)

Environment:
  OLLAMA_HOST          Ollama base URL; enables semantic ranking
  OLLAMA_EMBED_MODEL   Embedding model (default "nomic-embed-text")
  ANTHROPIC_API_KEY    Enables HyDE/smart-rerank via Anthropic
  OPENAI_API_KEY       Enables HyDE/smart-rerank via OpenAI (fallback)
  CTXFORGE_MODEL       Overrides the completion model
  CTXFORGE_MAX_BUDGET  Overrides the maximum allowed --budget

Examples:
  ctxforge query --path . --query "how does retry work"
  ctxforge query . "auth middleware" --hybrid --budget 12000
  ctxforge query . "rate limiter" --format json --json
`)
}

func runQuery(args []string) {
	fs := pflag.NewFlagSet("query", pflag.ExitOnError)

	path := fs.String("path", ".", "Repository path or git URL")
	query := fs.String("query", "", "What you're looking for")
	budget := fs.Int("budget", 8000, "Token budget for the returned context")
	include := fs.StringSlice("include", nil, "Glob patterns to include")
	exclude := fs.StringSlice("exclude", nil, "Glob patterns to exclude")
	followImports := fs.Bool("follow-imports", false, "Expand selection via the import graph")
	importDepth := fs.Int("import-depth", 2, "Max hops when following imports")
	hybrid := fs.Bool("hybrid", false, "Combine lexical and semantic ranking")
	smartRerank := fs.Bool("smart-rerank", false, "Rerank top candidates with an LLM")
	hyde := fs.Bool("hyde", false, "Expand the query with a hypothetical-answer embedding")
	format := fs.String("format", "markdown", "Context render format: markdown|xml|json")
	noColor := fs.Bool("no-color", false, "Disable colored diagnostic output")
	jsonDiag := fs.Bool("json", false, "Emit diagnostics/errors as a JSON envelope")
	configPath := fs.String("config", "", "Path to a YAML file of flag defaults")

	if err := fs.Parse(args); err != nil {
		os.Exit(int(errors.ExitInvalidInput))
	}
	ui.InitColors(*noColor)

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			errors.FatalError(errors.NewInvalidInputError("Invalid --config file", err.Error(), "Check the file path and YAML syntax"), *jsonDiag)
		}
		if !fs.Changed("budget") && cfg.Budget != 0 {
			*budget = cfg.Budget
		}
		if !fs.Changed("include") && len(cfg.Include) > 0 {
			*include = cfg.Include
		}
		if !fs.Changed("exclude") && len(cfg.Exclude) > 0 {
			*exclude = cfg.Exclude
		}
		if !fs.Changed("hybrid") && cfg.Hybrid {
			*hybrid = cfg.Hybrid
		}
		if !fs.Changed("follow-imports") && cfg.FollowImports {
			*followImports = cfg.FollowImports
		}
		if !fs.Changed("import-depth") && cfg.ImportDepth != 0 {
			*importDepth = cfg.ImportDepth
		}
		if !fs.Changed("hyde") && cfg.Hyde {
			*hyde = cfg.Hyde
		}
		if !fs.Changed("smart-rerank") && cfg.SmartRerank {
			*smartRerank = cfg.SmartRerank
		}
		if !fs.Changed("format") && cfg.Format != "" {
			*format = cfg.Format
		}
	}

	// Positional args: `ctxforge query [path] [query]` fill in anything not
	// passed as a flag.
	rest := fs.Args()
	if *path == "." && len(rest) > 0 {
		*path = rest[0]
		rest = rest[1:]
	}
	if *query == "" && len(rest) > 0 {
		*query = strings.Join(rest, " ")
	}

	if res := contract.ValidateSource(*path); !res.OK {
		errors.FatalError(errors.NewInvalidInputError("Invalid source", res.Message, "Pass --path with a local directory or git URL"), *jsonDiag)
	}
	if res := contract.ValidateBudget(*budget); !res.OK {
		errors.FatalError(errors.NewInvalidInputError("Invalid budget", res.Message, "Pass --budget with a positive integer within the configured ceiling"), *jsonDiag)
	}
	if res := contract.ValidateGlobs(*include); !res.OK {
		errors.FatalError(errors.NewInvalidInputError("Invalid --include pattern", res.Message, "Shorten or fix the glob pattern"), *jsonDiag)
	}
	if res := contract.ValidateGlobs(*exclude); !res.OK {
		errors.FatalError(errors.NewInvalidInputError("Invalid --exclude pattern", res.Message, "Shorten or fix the glob pattern"), *jsonDiag)
	}

	builder, err := bootstrap.NewPipeline(bootstrap.PipelineOptions{
		Budget:        *budget,
		Include:       *include,
		Exclude:       *exclude,
		Hybrid:        *hybrid,
		FollowImports: *followImports,
		ImportDepth:   *importDepth,
		Hyde:          *hyde,
		SmartRerank:   *smartRerank,
	})
	if err != nil {
		errors.FatalError(err, *jsonDiag)
	}

	result, err := builder.Build(context.Background(), sourceFor(*path), *query)
	if err != nil {
		errors.FatalError(err, *jsonDiag)
	}

	if *format == "json" {
		if err := output.JSON(result); err != nil {
			errors.FatalError(errors.NewInternalError("Could not encode result", err.Error(), "", err), *jsonDiag)
		}
		return
	}

	fmt.Println(result.Render(ingestion.Format(*format)))
	fmt.Fprintf(os.Stderr, "%s\n", ui.DimText(fmt.Sprintf(
		"%d/%d tokens · %d/%d files · %d related files added",
		result.TotalTokens, result.Budget, result.FilesIncluded, result.FilesScanned, result.RelatedFilesAdded,
	)))
}

// sourceFor classifies a user-supplied path as a git URL or a local
// filesystem path using the same heuristic the scanner itself documents.
func sourceFor(path string) ingestion.RepoSource {
	switch {
	case strings.HasPrefix(path, "http://"),
		strings.HasPrefix(path, "https://"),
		strings.HasPrefix(path, "git@"),
		strings.HasPrefix(path, "ssh://"):
		return ingestion.GitSource(path)
	default:
		return ingestion.LocalSource(path)
	}
}
