// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads an optional YAML settings file for `ctxforge query`
// flag defaults (budget, include/exclude globs, ranking toggles, output
// format).
//
// A config file is entirely optional: the CLI has sensible built-in
// defaults for every field, and any flag passed explicitly on the command
// line always takes precedence over a config value.
//
// # Example
//
//	budget: 12000
//	include:
//	  - "**/*.go"
//	exclude:
//	  - "**/*_test.go"
//	hybrid: true
//	follow_imports: true
//	import_depth: 2
//	format: markdown
package config
