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
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// RepoSource describes where to load a codebase from. Type is one of
// "git_url" or "local_path"; Value is the URL or filesystem path.
type RepoSource struct {
	Type  string
	Value string
}

// LocalSource builds a RepoSource pointing at a directory on disk.
func LocalSource(path string) RepoSource {
	return RepoSource{Type: "local_path", Value: path}
}

// GitSource builds a RepoSource pointing at a remote git URL (or a
// github.com/owner/repo shorthand, see ParseHostingURL).
func GitSource(url string) RepoSource {
	return RepoSource{Type: "git_url", Value: url}
}

// SourceItem is one scanned file: its repo-relative path, raw content, and
// detected language.
type SourceItem struct {
	Path     string
	Content  string
	Language string
}

var (
	validGitURLPattern    = regexp.MustCompile(`^(https?://|git@|ssh://|file://)[\w.\-@:/%]+$`)
	dangerousCharsPattern = regexp.MustCompile(`[;&|$` + "`" + `\n\r\\]`)

	// hostingURLPattern matches a hosted-repo web URL:
	// https://<host>/<owner>/<repo>[/(tree|blob)/<ref>/<subpath>]
	hostingURLPattern = regexp.MustCompile(`^https?://([^/]+)/([^/]+)/([^/]+?)(?:\.git)?(?:/(tree|blob)/([^/]+)(?:/(.*))?)?/?$`)
)

// ParsedHostingURL is a hosted-repo web URL decomposed into its clone URL
// and the subpath/ref the caller asked to scan.
type ParsedHostingURL struct {
	Host     string
	Owner    string
	Repo     string
	Ref      string // branch/tag/sha; empty means default branch
	Subpath  string // restrict scanning to this directory within the repo
	CloneURL string
}

// ParseHostingURL parses a web URL from a git hosting provider (GitHub,
// GitLab, or any host serving the same /owner/repo[/tree/ref/subpath] shape)
// into its components. Returns ok=false if rawURL doesn't match.
func ParseHostingURL(rawURL string) (ParsedHostingURL, bool) {
	m := hostingURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ParsedHostingURL{}, false
	}
	p := ParsedHostingURL{
		Host:    m[1],
		Owner:   m[2],
		Repo:    m[3],
		Ref:     m[5],
		Subpath: m[6],
	}
	p.CloneURL = fmt.Sprintf("https://%s/%s/%s.git", p.Host, p.Owner, p.Repo)
	return p, true
}

// Scanner walks a RepoSource and produces SourceItems, bounding concurrent
// file reads with a semaphore and caching remote clones on disk between
// invocations.
type Scanner struct {
	logger    *slog.Logger
	cacheRoot string
	ttl       time.Duration
	readLimit int
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithCacheRoot overrides the directory remote clones are cached under.
func WithCacheRoot(dir string) ScannerOption {
	return func(s *Scanner) { s.cacheRoot = dir }
}

// WithCloneTTL overrides how long a cached clone is trusted before a
// refresh (git pull) is attempted.
func WithCloneTTL(ttl time.Duration) ScannerOption {
	return func(s *Scanner) { s.ttl = ttl }
}

// WithReadConcurrency overrides the number of files read concurrently.
func WithReadConcurrency(n int) ScannerOption {
	return func(s *Scanner) { s.readLimit = n }
}

// NewScanner builds a Scanner with the given logger (slog.Default() if nil)
// and options.
func NewScanner(logger *slog.Logger, opts ...ScannerOption) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	cacheRoot := ""
	if dir, err := os.UserCacheDir(); err == nil {
		cacheRoot = filepath.Join(dir, "ctxforge", "repos")
	} else if home, err := os.UserHomeDir(); err == nil {
		cacheRoot = filepath.Join(home, ".cache", "ctxforge", "repos")
	}
	s := &Scanner{
		logger:    logger,
		cacheRoot: cacheRoot,
		ttl:       time.Hour,
		readLimit: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	maxFileBytes = 1 << 20 // 1MB
	maxFileLines = 20000
)

// Scan resolves source to a local directory (cloning/refreshing it first if
// it is a remote git source), then reads every non-excluded, non-binary file
// under it, returning SourceItems with paths relative to the repo root (or
// to the requested subpath, for hosted URLs).
func (s *Scanner) Scan(ctx context.Context, source RepoSource, excludeGlobs, includeGlobs []string) ([]SourceItem, error) {
	rootPath, subpath, prefix, err := s.resolveRoot(source)
	if err != nil {
		return nil, err
	}
	scanRoot := rootPath
	if subpath != "" {
		scanRoot = filepath.Join(rootPath, subpath)
	}

	paths, err := s.walk(scanRoot, excludeGlobs, includeGlobs)
	if err != nil {
		return nil, fmt.Errorf("walk repository: %w", err)
	}

	return s.readAll(ctx, scanRoot, prefix, paths)
}

// resolveRoot returns the local directory to scan, the subpath to restrict
// to (for hosted URLs with one), and the "owner/repo/" prefix to apply to
// every scanned path for remote sources (empty for local_path, since local
// paths are already globally unique on disk).
func (s *Scanner) resolveRoot(source RepoSource) (root, subpath, prefix string, err error) {
	switch source.Type {
	case "local_path":
		abs, err := filepath.Abs(source.Value)
		if err != nil {
			return "", "", "", fmt.Errorf("resolve local path: %w", err)
		}
		if err := validateLocalPath(abs); err != nil {
			return "", "", "", fmt.Errorf("invalid local path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", "", "", fmt.Errorf("stat local path: %w", err)
		}
		if !info.IsDir() {
			return "", "", "", fmt.Errorf("local path is not a directory: %s", abs)
		}
		return abs, "", "", nil

	case "git_url":
		cloneURL := source.Value
		subpath := ""
		owner, repo := "", ""
		if parsed, ok := ParseHostingURL(source.Value); ok {
			cloneURL = parsed.CloneURL
			subpath = parsed.Subpath
			owner, repo = parsed.Owner, parsed.Repo
		} else {
			owner, repo = deriveOwnerRepo(source.Value)
		}
		root, err := s.ensureClone(cloneURL)
		if err != nil {
			return "", "", "", err
		}
		prefix := ""
		if owner != "" && repo != "" {
			prefix = owner + "/" + repo + "/"
		}
		return root, subpath, prefix, nil

	default:
		return "", "", "", fmt.Errorf("unsupported repo source type: %s", source.Type)
	}
}

// ownerRepoPattern pulls the last two path segments (owner, repo) out of a
// plain clone URL that ParseHostingURL didn't recognize as a hosted web URL,
// e.g. "git@github.com:acme/tool.git" or "https://example.com/acme/tool.git".
var ownerRepoPattern = regexp.MustCompile(`([^/:]+)/([^/]+?)(?:\.git)?/?$`)

func deriveOwnerRepo(cloneURL string) (owner, repo string) {
	m := ownerRepoPattern.FindStringSubmatch(cloneURL)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// ensureClone returns the cache directory holding a clone of cloneURL,
// cloning it if absent or refreshing it (best-effort) if stale.
func (s *Scanner) ensureClone(cloneURL string) (string, error) {
	if err := validateGitURL(cloneURL); err != nil {
		return "", fmt.Errorf("invalid git URL: %w", err)
	}
	if s.cacheRoot == "" {
		return "", fmt.Errorf("no cache directory available for remote clones")
	}

	dir := filepath.Join(s.cacheRoot, cacheKeyForURL(cloneURL))
	headPath := filepath.Join(dir, ".git", "HEAD")

	if info, err := os.Stat(headPath); err == nil {
		if time.Since(info.ModTime()) < s.ttl {
			return dir, nil
		}
		s.logger.Info("scanner.clone.refresh", "url", redactURL(cloneURL), "dir", dir)
		if err := s.gitPull(dir); err != nil {
			s.logger.Warn("scanner.clone.refresh_failed", "dir", dir, "err", err)
		}
		return dir, nil
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}
	s.logger.Info("scanner.clone.start", "url", redactURL(cloneURL), "dir", dir)
	// #nosec G204 - cloneURL validated above
	cmd := exec.Command("git", "clone", "--depth", "1", "--single-branch", "--quiet", cloneURL, dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	s.logger.Info("scanner.clone.success", "url", redactURL(cloneURL), "dir", dir)
	return dir, nil
}

func (s *Scanner) gitPull(dir string) error {
	cmd := exec.Command("git", "-C", dir, "pull", "--quiet", "--depth", "1")
	return cmd.Run()
}

func cacheKeyForURL(cloneURL string) string {
	key := strings.TrimSuffix(cloneURL, ".git")
	key = strings.TrimPrefix(key, "https://")
	key = strings.TrimPrefix(key, "http://")
	key = strings.TrimPrefix(key, "git@")
	key = strings.NewReplacer(":", "/", "//", "/").Replace(key)
	return filepath.FromSlash(key)
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.RawQuery = ""
	if parsed.User != nil {
		parsed.User = url.User("***")
	}
	return parsed.String()
}

func validateGitURL(gitURL string) error {
	if gitURL == "" {
		return fmt.Errorf("git URL is empty")
	}
	if dangerousCharsPattern.MatchString(gitURL) {
		return fmt.Errorf("git URL contains dangerous characters")
	}
	if strings.HasPrefix(gitURL, "http://") || strings.HasPrefix(gitURL, "https://") {
		parsed, err := url.Parse(gitURL)
		if err != nil {
			return fmt.Errorf("invalid URL format: %w", err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("git URL missing host")
		}
		if parsed.User != nil {
			if _, hasPassword := parsed.User.Password(); hasPassword {
				return fmt.Errorf("git URL should not contain embedded password")
			}
		}
		return nil
	}
	if strings.HasPrefix(gitURL, "git@") || strings.HasPrefix(gitURL, "ssh://") {
		if !validGitURLPattern.MatchString(gitURL) {
			return fmt.Errorf("invalid SSH git URL format")
		}
		return nil
	}
	if strings.HasPrefix(gitURL, "file://") {
		return nil
	}
	return fmt.Errorf("unsupported git URL protocol: must be https://, git@, ssh://, or file://")
}

func validateLocalPath(path string) error {
	cleaned := filepath.Clean(path)
	if cleaned != path {
		return fmt.Errorf("path contains traversal attempts: %s", path)
	}
	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("path contains suspicious patterns: %s", cleaned)
	}
	if !filepath.IsAbs(cleaned) {
		return fmt.Errorf("path did not resolve to absolute path: %s", cleaned)
	}
	if cleaned == "" || cleaned == "/" {
		return fmt.Errorf("path is empty or root directory, which is not allowed")
	}
	sensitiveDirs := []string{"/etc", "/sys", "/proc", "/dev", "/boot"}
	for _, sensitive := range sensitiveDirs {
		if cleaned == sensitive || strings.HasPrefix(cleaned, sensitive+"/") {
			return fmt.Errorf("path is in a sensitive system directory: %s", cleaned)
		}
	}
	return nil
}

// walk collects every non-excluded, non-directory path under root, relative
// to root and slash-normalized.
func (s *Scanner) walk(root string, excludeGlobs, includeGlobs []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("scanner.walk.error", "path", path, "err", err)
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if shouldExclude(rel, excludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldExclude(rel, excludeGlobs) || !matchesIncludes(rel, includeGlobs) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

// readAll reads paths under root concurrently, bounded by s.readLimit,
// skipping anything over the size/line-count ceiling. prefix (e.g.
// "owner/repo/") is prepended to every resulting SourceItem.Path so remote
// sources stay globally unique; it is empty for local sources.
func (s *Scanner) readAll(ctx context.Context, root, prefix string, paths []string) ([]SourceItem, error) {
	sem := make(chan struct{}, s.readLimit)
	results := make([]*SourceItem, len(paths))
	var wg sync.WaitGroup

	for i, rel := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rel string) {
			defer wg.Done()
			defer func() { <-sem }()
			item, ok := s.readOne(root, prefix, rel)
			if ok {
				results[i] = item
			}
		}(i, rel)
	}
	wg.Wait()

	items := make([]SourceItem, 0, len(results))
	for _, r := range results {
		if r != nil {
			items = append(items, *r)
		}
	}
	return items, nil
}

func (s *Scanner) readOne(root, prefix, rel string) (*SourceItem, bool) {
	full := filepath.Join(root, rel)
	info, err := os.Stat(full)
	if err != nil {
		return nil, false
	}
	if info.Size() > maxFileBytes {
		s.logger.Debug("scanner.read.skip_large", "path", rel, "size", info.Size())
		return nil, false
	}
	content, err := os.ReadFile(full)
	if err != nil {
		s.logger.Debug("scanner.read.error", "path", rel, "err", err)
		return nil, false
	}
	if strings.Count(string(content), "\n") > maxFileLines {
		s.logger.Debug("scanner.read.skip_long", "path", rel)
		return nil, false
	}
	return &SourceItem{
		Path:     prefix + rel,
		Content:  string(content),
		Language: detectLanguageFromPath(rel),
	}, true
}
